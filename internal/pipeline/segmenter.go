package pipeline

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMaxWords is the per-cue word budget.
const DefaultMaxWords = 23

// shortPieceWords is the size at or below which a piece is folded into the
// piece before it.
const shortPieceWords = 3

// weakBreaks are the conjunctions an overlong sentence may be cut at.
var weakBreaks = []string{"and", "which", "because", "so", "that"}

// Segmenter cuts a merged block's text into display-sized pieces.
type Segmenter struct {
	MaxWords int
}

// NewSegmenter returns a Segmenter, falling back to DefaultMaxWords for
// non-positive limits.
func NewSegmenter(maxWords int) *Segmenter {
	if maxWords <= 0 {
		maxWords = DefaultMaxWords
	}
	return &Segmenter{MaxWords: maxWords}
}

// Split runs the four segmentation stages: sentence split, weak-break split of
// overlong sentences, short-piece coalescing, and a hard word-count cut.
func (s *Segmenter) Split(text string) []string {
	maxWords := s.MaxWords
	if maxWords <= 0 {
		maxWords = DefaultMaxWords
	}

	var pieces []string
	for _, sentence := range splitSentences(text) {
		if wordCount(sentence) > maxWords {
			pieces = append(pieces, splitAtWeakBreaks(sentence, maxWords)...)
			continue
		}
		if sentence = strings.TrimSpace(sentence); sentence != "" {
			pieces = append(pieces, sentence)
		}
	}

	pieces = coalesceShort(pieces)

	out := make([]string, 0, len(pieces))
	for _, p := range pieces {
		out = append(out, chunkWords(strings.Fields(p), maxWords)...)
	}
	return out
}

// splitSentences splits on each whitespace run that directly follows '.', '!'
// or '?'. The punctuation stays with the left piece.
func splitSentences(text string) []string {
	var (
		parts []string
		start int
	)
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if isSentenceEnd(r) {
			j := i + size
			k := j
			for k < len(text) {
				ws, wsSize := utf8.DecodeRuneInString(text[k:])
				if !unicode.IsSpace(ws) {
					break
				}
				k += wsSize
			}
			if k > j {
				parts = append(parts, text[start:j])
				start = k
			}
			i = k
			continue
		}
		i += size
	}
	return append(parts, text[start:])
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// splitAtWeakBreaks cuts sentence around standalone conjunctions and greedily
// packs the fragments back together without exceeding maxWords.
func splitAtWeakBreaks(sentence string, maxWords int) []string {
	var (
		out []string
		buf string
	)
	for _, frag := range conjunctionFragments(sentence) {
		if wordCount(buf+" "+frag) > maxWords {
			if trimmed := strings.TrimSpace(buf); trimmed != "" {
				out = append(out, trimmed)
			}
			buf = frag
			continue
		}
		buf += " " + frag
	}
	if trimmed := strings.TrimSpace(buf); trimmed != "" {
		out = append(out, trimmed)
	}
	return out
}

// conjunctionFragments returns the text between weak breaks interleaved with
// the breaks themselves. A conjunction only counts as a whole word that is
// not followed by an apostrophe, so "that's" stays intact.
func conjunctionFragments(s string) []string {
	var (
		frags []string
		last  int
	)
	for i := 0; i < len(s); {
		if w := conjunctionAt(s, i); w != "" {
			frags = append(frags, s[last:i], w)
			i += len(w)
			last = i
			continue
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return append(frags, s[last:])
}

func conjunctionAt(s string, i int) string {
	if i > 0 {
		prev, _ := utf8.DecodeLastRuneInString(s[:i])
		if isWordRune(prev) {
			return ""
		}
	}
	for _, w := range weakBreaks {
		if !strings.HasPrefix(s[i:], w) {
			continue
		}
		end := i + len(w)
		if end < len(s) {
			next, _ := utf8.DecodeRuneInString(s[end:])
			if isWordRune(next) || next == '\'' {
				continue
			}
		}
		return w
	}
	return ""
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// coalesceShort appends every piece of shortPieceWords words or fewer to the
// piece before it. The first piece has nothing to join and stays.
func coalesceShort(pieces []string) []string {
	merged := make([]string, 0, len(pieces))
	for _, p := range pieces {
		if len(merged) > 0 && wordCount(p) <= shortPieceWords {
			merged[len(merged)-1] += " " + p
			continue
		}
		merged = append(merged, p)
	}
	return merged
}

func chunkWords(words []string, size int) []string {
	var out []string
	for len(words) > size {
		out = append(out, strings.Join(words[:size], " "))
		words = words[size:]
	}
	if len(words) > 0 {
		out = append(out, strings.Join(words, " "))
	}
	return out
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}
