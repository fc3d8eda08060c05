package pipeline

import "strings"

// ExtractSentences joins every cue's text and re-splits it into full
// sentences for the plain-text export. Sentences lacking terminal punctuation
// get a period.
func ExtractSentences(caps []Caption) []string {
	texts := make([]string, len(caps))
	for i, c := range caps {
		texts[i] = c.Text
	}

	var sentences []string
	for _, s := range splitSentences(strings.Join(texts, " ")) {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if !isSentenceEnd(rune(s[len(s)-1])) {
			s += "."
		}
		sentences = append(sentences, s)
	}
	return sentences
}
