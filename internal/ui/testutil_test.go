package ui

import (
	"regexp"
	"strings"
)

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*[mK]`)

// stripANSI removes color and erase sequences so assertions can compare plain text.
func stripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

func countLines(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}
