// File: internal/services/filestore/names.go
package filestore

import (
	"regexp"
	"strings"
)

// Backend filenames carry an embedded unique-identifier segment so
// repeated uploads do not collide. Display names strip it.
var uuidSegment = regexp.MustCompile(`[a-f0-9]{8}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{12}`)

// CleanFileName normalizes a knowledge-base filename for display:
// drop the extension if one is present, remove UUID-shaped segments,
// and trim the leftovers.
func CleanFileName(filename string) string {
	name := filename
	if idx := strings.LastIndex(filename, "."); idx > 0 {
		name = filename[:idx]
	}
	name = uuidSegment.ReplaceAllString(name, "")
	name = strings.Trim(name, "_- ")
	return strings.TrimSpace(name)
}

// NormalizeListing de-duplicates raw backend filenames (first occurrence
// wins) and cleans each survivor, preserving backend order.
func NormalizeListing(files []string) []string {
	seen := make(map[string]struct{}, len(files))
	out := make([]string, 0, len(files))
	for _, f := range files {
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, CleanFileName(f))
	}
	return out
}
