package pipeline

import "unicode/utf8"

// DefaultMinDuration keeps split cues from flashing on screen.
const DefaultMinDuration Millis = 300

// Allocator distributes a merged caption's time envelope over its text pieces.
type Allocator struct {
	MinDuration Millis
}

// NewAllocator returns an Allocator; negative minimums are treated as zero.
func NewAllocator(minDuration Millis) *Allocator {
	if minDuration < 0 {
		minDuration = 0
	}
	return &Allocator{MinDuration: minDuration}
}

// Allocate assigns each piece a contiguous slice of span proportional to its
// character count, never shorter than MinDuration. The last piece always ends
// exactly at span.End. When the minimum pushes the cursor past span.End the
// remaining cues are clamped to zero length at span.End and clipped is true.
// Returned cues carry no index.
func (a *Allocator) Allocate(span Caption, pieces []string) (cues []Caption, clipped bool) {
	if len(pieces) == 0 {
		return nil, false
	}

	lengths := make([]int64, len(pieces))
	var totalLen int64
	for i, p := range pieces {
		lengths[i] = int64(utf8.RuneCountInString(p))
		totalLen += lengths[i]
	}

	totalMs := int64(span.End - span.Start)
	cursor := span.Start
	cues = make([]Caption, 0, len(pieces))

	for i, p := range pieces {
		next := span.End
		if i < len(pieces)-1 {
			var dur Millis
			if totalLen > 0 {
				dur = Millis(totalMs * lengths[i] / totalLen)
			}
			next = cursor + max(dur, a.MinDuration)
			if next > span.End && span.End >= cursor {
				next = span.End
				clipped = true
			}
		}
		cues = append(cues, Caption{Start: cursor, End: next, Text: p})
		cursor = next
	}

	return cues, clipped
}
