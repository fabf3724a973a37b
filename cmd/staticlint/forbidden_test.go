package main

import (
	"testing"

	"github.com/go-critic/go-critic/checkers/analyzer"
	"github.com/stretchr/testify/assert"
	"golang.org/x/tools/go/analysis/analysistest"
)

func TestForbiddenCallsAnalyzer(t *testing.T) {
	analysistest.Run(t, analysistest.TestData(), ForbiddenCallsAnalyzer, "app", "client")
}

func TestAnalyzers(t *testing.T) {
	checks := analyzers()

	names := make(map[string]bool, len(checks))
	for _, a := range checks {
		if names[a.Name] {
			t.Errorf("analyzer %s registered twice", a.Name)
		}
		names[a.Name] = true
	}

	for _, want := range []string{"forbiddencalls", "errcheck", "SA1000", "S1000"} {
		if !names[want] {
			t.Errorf("analyzer %s is missing", want)
		}
	}

	// go-critic регистрируется под именем ruleguard, поэтому ищем по указателю
	assert.Contains(t, checks, analyzer.Analyzer)
	for name := range stylecheckDisabled {
		if names[name] {
			t.Errorf("analyzer %s must be disabled", name)
		}
	}
}

func TestIsExcludedFile(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     bool
	}{
		{name: "Source file", filename: "/src/app/main.go", want: false},
		{name: "Test file", filename: "/src/app/main_test.go", want: true},
		{name: "Generated test main", filename: "/root/.cache/go-build/3f/3f0c9a1b-d", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isExcludedFile(tt.filename))
		})
	}
}
