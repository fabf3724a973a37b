package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/InQaaaaGit/url_batch.git/internal/models"
)

func TestRecordSet_Add(t *testing.T) {
	set := NewRecordSet()

	record, added := set.Add("https://example.com/a", 0)
	require.True(t, added)
	assert.Equal(t, "https://example.com/a", record.Original)
	assert.Equal(t, models.StatusPending, record.Status)

	again, added := set.Add("  https://example.com/a ", 3)
	assert.False(t, added)
	assert.Same(t, record, again)
	assert.Equal(t, []int{0, 3}, record.Positions)
	assert.Equal(t, 2, record.Occurrences())
	assert.Equal(t, 1, set.Len())
}

func TestRecordSet_Get(t *testing.T) {
	set := FromURLs([]string{"https://example.com/a"})

	record, ok := set.Get("https://example.com/a")
	require.True(t, ok)
	assert.Equal(t, "https://example.com/a", record.Normalized)

	_, ok = set.Get("https://example.com/missing")
	assert.False(t, ok)
}

func TestFromURLs_PreservesFirstOccurrenceOrder(t *testing.T) {
	urls := []string{
		"https://example.com/c",
		"https://example.com/a",
		"https://example.com/c",
		"https://example.com/b",
		"https://example.com/a",
	}

	set := FromURLs(urls)

	var got []string
	for _, record := range set.Records() {
		got = append(got, record.Original)
	}
	assert.Equal(t, []string{
		"https://example.com/c",
		"https://example.com/a",
		"https://example.com/b",
	}, got)
	assert.Equal(t, []int{0, 2}, set.Records()[0].Positions)
	assert.Equal(t, []int{1, 4}, set.Records()[1].Positions)
	assert.Equal(t, []int{3}, set.Records()[2].Positions)
}

func TestFromURLs_Empty(t *testing.T) {
	set := FromURLs(nil)
	assert.Equal(t, 0, set.Len())
	assert.Empty(t, set.Records())
}

func TestFromURLs_Order(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{
			name:  "No duplicates",
			input: []string{"a", "b", "c"},
			want:  []string{"a", "b", "c"},
		},
		{
			name:  "Duplicates keep first occurrence",
			input: []string{"https://example.com/a", "https://example.com/a", "https://example.com/b"},
			want:  []string{"https://example.com/a", "https://example.com/b"},
		},
		{
			name:  "Interleaved duplicates",
			input: []string{"b", "a", "b", "c", "a"},
			want:  []string{"b", "a", "c"},
		},
		{
			name:  "Empty input",
			input: []string{},
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := make([]string, 0, len(tt.input))
			for _, record := range FromURLs(tt.input).Records() {
				got = append(got, record.Normalized)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromURLs_DoesNotModifyInput(t *testing.T) {
	input := []string{"a", "a", "b"}
	_ = FromURLs(input)
	assert.Equal(t, []string{"a", "a", "b"}, input)
}
