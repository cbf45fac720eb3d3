package filestore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanFileName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"report_123e4567-e89b-42d3-a456-426614174000.pdf", "report"},
		{"notes.txt", "notes"},
		{"archive.tar.gz", "archive.tar"},
		{"no_extension", "no_extension"},
		{"123e4567-e89b-42d3-a456-426614174000.pdf", ""},
		{"handbook 2024.docx", "handbook 2024"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CleanFileName(tc.in), "input %q", tc.in)
	}
}

func TestNormalizeListingDeduplicatesAndPreservesOrder(t *testing.T) {
	raw := []string{
		"b_123e4567-e89b-42d3-a456-426614174000.pdf",
		"a.txt",
		"a.txt", // raw duplicate
		"c.md",
	}
	got := NormalizeListing(raw)
	assert.Equal(t, []string{"b", "a", "c"}, got)
}
