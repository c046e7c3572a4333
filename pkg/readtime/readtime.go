// Package readtime estimates how long an article takes to read.
package readtime

import (
	"regexp"
	"strings"
)

// WordsPerMinute is the fixed reading speed the estimate divides by.
const WordsPerMinute = 225

var (
	reCodeFence  = regexp.MustCompile("(?s)```.*?```")
	reInlineCode = regexp.MustCompile("`[^`]*`")
	reImage      = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	reLink       = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	reHTMLTag    = regexp.MustCompile(`<[^>]+>`)
	reHeading    = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	reBlockquote = regexp.MustCompile(`(?m)^\s*>\s?`)
	reHRule      = regexp.MustCompile(`(?m)^\s*([-*_]\s*){3,}$`)
	reListMarker = regexp.MustCompile(`(?m)^\s*([-*+]|\d+\.)\s+`)
	reEmphasis   = regexp.MustCompile(`[*_~]{1,3}`)
	reSpace      = regexp.MustCompile(`\s+`)
)

// strip reduces markdown to approximate plain text. Link text survives,
// link targets and image syntax do not.
func strip(markdown string) string {
	s := reCodeFence.ReplaceAllString(markdown, " ")
	s = reInlineCode.ReplaceAllString(s, " ")
	s = reImage.ReplaceAllString(s, " ")
	s = reLink.ReplaceAllString(s, "$1")
	s = reHTMLTag.ReplaceAllString(s, " ")
	s = reHeading.ReplaceAllString(s, "")
	s = reBlockquote.ReplaceAllString(s, "")
	s = reHRule.ReplaceAllString(s, " ")
	s = reListMarker.ReplaceAllString(s, "")
	s = reEmphasis.ReplaceAllString(s, "")
	return strings.TrimSpace(reSpace.ReplaceAllString(s, " "))
}

// Words counts the plain-text words in a markdown document.
func Words(markdown string) int {
	plain := strip(markdown)
	if plain == "" {
		return 0
	}
	return len(strings.Fields(plain))
}

// EstimateMinutes returns the estimated reading time in whole minutes,
// rounded up and never below 1.
func EstimateMinutes(markdown string) int {
	words := Words(markdown)
	minutes := (words + WordsPerMinute - 1) / WordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}
