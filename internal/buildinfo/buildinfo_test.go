package buildinfo

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// TestNewInfo_Defaults проверяет подстановку N/A для пустых значений
func TestNewInfo_Defaults(t *testing.T) {
	info := NewInfo("", "", "")

	assert.Equal(t, "N/A", info.Version)
	assert.Equal(t, "N/A", info.Date)
	assert.Equal(t, "N/A", info.Commit)
}

// TestNewInfo проверяет создание информации о сборке с заданными параметрами
func TestNewInfo(t *testing.T) {
	info := NewInfo("v1.0.0", "2024-01-01", "abc123")

	assert.Equal(t, "v1.0.0", info.Version)
	assert.Equal(t, "2024-01-01", info.Date)
	assert.Equal(t, "abc123", info.Commit)
}

func TestString(t *testing.T) {
	info := NewInfo("v1.0.0", "2024-01-01", "abc123")

	assert.Equal(t, "Version: v1.0.0, Date: 2024-01-01, Commit: abc123", info.String())
}

func TestPrint(t *testing.T) {
	var buf bytes.Buffer

	err := NewInfo("v1.0.0", "", "abc123").Print(&buf)
	assert.NoError(t, err)
	assert.Equal(t, "Build version: v1.0.0\nBuild date: N/A\nBuild commit: abc123\n", buf.String())
}

type errWriter struct{}

func (errWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestPrint_Error(t *testing.T) {
	assert.Error(t, NewInfo("v1", "", "").Print(errWriter{}))
}

func TestFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	zap.New(core).Info("Starting", NewInfo("v2.0.0", "2025-05-05", "def456").Fields()...)

	entries := logs.All()
	assert.Len(t, entries, 1)
	assert.Equal(t, map[string]interface{}{
		"version":    "v2.0.0",
		"build_date": "2025-05-05",
		"commit":     "def456",
	}, entries[0].ContextMap())
}
