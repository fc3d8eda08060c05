package pipeline

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestOptimizeTextDisplay_ShortText(t *testing.T) {
	// Text shorter than maxCPL should be returned as-is.
	result := optimizeTextDisplay("Hello world", 42)
	if result != "Hello world" {
		t.Errorf("got %q, want 'Hello world'", result)
	}
}

func TestOptimizeTextDisplay_Empty(t *testing.T) {
	result := optimizeTextDisplay("", 42)
	if result != "" {
		t.Errorf("got %q, want empty string", result)
	}
}

func TestOptimizeTextDisplay_LongText(t *testing.T) {
	text := "This is a very long subtitle text that definitely exceeds the maximum characters per line limit"
	result := optimizeTextDisplay(text, 42)

	if n := strings.Count(result, "\n"); n != 1 {
		t.Errorf("expected exactly 1 newline (2 lines), got %d newlines", n)
	}
	if strings.Join(strings.Fields(result), " ") != text {
		t.Errorf("wrapping changed the words: %q", result)
	}
}

func TestSplitTextIntoLines_BalancedSplit(t *testing.T) {
	got := splitTextIntoLines("This is a very long subtitle text here", 20)
	want := "This is a very long\nsubtitle text here"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	for _, line := range strings.Split(got, "\n") {
		if utf8.RuneCountInString(line) > 20 {
			t.Errorf("line %q exceeds 20 runes", line)
		}
	}
}

func TestSplitTextIntoLines_CJKPunctuation(t *testing.T) {
	got := splitTextIntoLines("今天天气很好，我们一起去公园散步吧", 10)
	want := "今天天气很好，\n我们一起去公园散步吧"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFindSplitPosition_NoBreakPoint(t *testing.T) {
	runes := []rune("abcdefghijklmnop")
	if got := findSplitPosition(runes, 5); got != 5 {
		t.Errorf("findSplitPosition() = %d, want 5", got)
	}
}

func TestWrapCues(t *testing.T) {
	caps := []Caption{
		{Index: 1, Start: 0, End: 1000, Text: "short"},
		{Index: 2, Start: 1000, End: 2000, Text: "This is a very long subtitle text here"},
	}

	if got := WrapCues(caps, 0); got[1].Text != caps[1].Text {
		t.Errorf("WrapCues(0) changed text: %q", got[1].Text)
	}

	got := WrapCues(caps, 20)
	if got[0].Text != "short" {
		t.Errorf("short cue = %q", got[0].Text)
	}
	if !strings.Contains(got[1].Text, "\n") {
		t.Errorf("long cue not wrapped: %q", got[1].Text)
	}
	if got[1].Start != 1000 || got[1].End != 2000 || got[1].Index != 2 {
		t.Errorf("timing changed: %+v", got[1])
	}
	if strings.Contains(caps[1].Text, "\n") {
		t.Error("WrapCues mutated its input")
	}
}
