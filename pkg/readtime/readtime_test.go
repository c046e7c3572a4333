package readtime

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func TestEstimateMinutesEmptyInput(t *testing.T) {
	assert.Equal(t, 1, EstimateMinutes(""))
	assert.Equal(t, 1, EstimateMinutes("   \n\t  "))
}

func TestEstimateMinutesBoundaries(t *testing.T) {
	assert.Equal(t, 1, EstimateMinutes(words(1)))
	assert.Equal(t, 1, EstimateMinutes(words(225)))
	assert.Equal(t, 2, EstimateMinutes(words(226)))
	assert.Equal(t, 2, EstimateMinutes(words(450)))
	assert.Equal(t, 3, EstimateMinutes(words(451)))
}

func TestEstimateMinutesMonotone(t *testing.T) {
	prev := 0
	for _, n := range []int{0, 10, 100, 225, 300, 500, 1000, 5000} {
		got := EstimateMinutes(words(n))
		assert.GreaterOrEqual(t, got, 1)
		assert.GreaterOrEqual(t, got, prev, "estimate must not decrease with word count (n=%d)", n)
		prev = got
	}
}

func TestWordsStripsMarkdownSyntax(t *testing.T) {
	cases := []struct {
		name     string
		markdown string
		want     int
	}{
		{"plain", "three plain words", 3},
		{"heading", "## two words", 2},
		{"emphasis", "**bold** and _italic_ text", 4},
		{"link keeps text", "see [the docs](https://example.com) here", 4},
		{"image dropped", "before ![alt text](pic.png) after", 2},
		{"inline code dropped", "call `fmt.Println` now", 2},
		{"code fence dropped", "intro\n```go\nfunc main() {}\n```\noutro", 2},
		{"blockquote", "> quoted line here", 3},
		{"list markers", "- first\n- second\n1. third", 3},
		{"html tags", "a <strong>tagged</strong> word", 3},
		{"horizontal rule", "above\n\n---\n\nbelow", 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Words(tc.markdown))
		})
	}
}
