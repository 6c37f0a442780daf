package app

import (
	"regexp"
	"strings"
)

// Traced statements are collapsed to one line and capped so the tap upsert
// and feed queries stay readable inside span attributes.
const maxTracedQueryLength = 512

var collapseWhitespace = regexp.MustCompile(`\s+`)

func formatDBQueryForTrace(query string) string {
	flat := collapseWhitespace.ReplaceAllString(strings.TrimSpace(query), " ")
	if len(flat) > maxTracedQueryLength {
		flat = flat[:maxTracedQueryLength] + "..."
	}

	return flat
}
