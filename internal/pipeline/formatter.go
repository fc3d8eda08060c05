package pipeline

import (
	"strings"
	"unicode/utf8"
)

// breakAfter are characters a display line may end on.
var breakAfter = map[rune]struct{}{
	'.': {}, '!': {}, '?': {}, ',': {}, ';': {}, ':': {}, ')': {}, ']': {}, '-': {},
	'。': {}, '！': {}, '？': {}, '，': {}, '、': {}, '；': {},
}

// WrapCues returns copies of caps whose text is broken into at most two
// display lines of roughly maxChars runes. maxChars <= 0 disables wrapping.
func WrapCues(caps []Caption, maxChars int) []Caption {
	if maxChars <= 0 {
		return caps
	}
	out := make([]Caption, len(caps))
	for i, c := range caps {
		c.Text = optimizeTextDisplay(c.Text, maxChars)
		out[i] = c
	}
	return out
}

// optimizeTextDisplay returns text on a single line if it fits within maxCPL,
// otherwise splits it into at most two lines.
func optimizeTextDisplay(text string, maxCPL int) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return text
	}
	if utf8.RuneCountInString(text) <= maxCPL {
		return text
	}
	return splitTextIntoLines(text, maxCPL)
}

// splitTextIntoLines breaks text once, near the middle when the whole text
// fits on two lines, otherwise at the last break point within maxCPL.
func splitTextIntoLines(text string, maxCPL int) string {
	runes := []rune(text)
	limit := maxCPL
	if len(runes) <= 2*maxCPL {
		limit = (len(runes) + 1) / 2
	}

	splitPos := findSplitPosition(runes, limit)
	// A break too early in a two-line text leaves the second line over width.
	if len(runes)-splitPos > maxCPL && len(runes) <= 2*maxCPL {
		splitPos = findSplitPosition(runes, maxCPL)
	}

	firstLine := strings.TrimSpace(string(runes[:splitPos]))
	remaining := strings.TrimSpace(string(runes[splitPos:]))
	if remaining == "" {
		return firstLine
	}
	if firstLine == "" {
		return remaining
	}
	return firstLine + "\n" + remaining
}

// findSplitPosition finds the best rune index to split at, at or before
// maxLen: the last space, or just after the last break punctuation.
func findSplitPosition(runes []rune, maxLen int) int {
	if len(runes) <= maxLen {
		return len(runes)
	}

	searchEnd := min(maxLen+1, len(runes))
	for i := searchEnd - 1; i > 0; i-- {
		r := runes[i]
		if r == ' ' {
			return i
		}
		if _, ok := breakAfter[r]; ok {
			return i + 1
		}
	}
	return maxLen
}
