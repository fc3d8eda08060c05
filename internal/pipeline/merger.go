package pipeline

import "strings"

// block accumulates overlapping captions during MergeOverlapping. It is the
// only mutable caption shape in the package.
type block struct {
	start Millis
	end   Millis
	text  strings.Builder
}

func newBlock(c Caption) *block {
	b := &block{start: c.Start, end: c.End}
	b.text.WriteString(c.Text)
	return b
}

func (b *block) absorb(c Caption) {
	b.text.WriteByte(' ')
	b.text.WriteString(c.Text)
	if c.End > b.end {
		b.end = c.End
	}
}

func (b *block) caption() Caption {
	return Caption{Start: b.start, End: b.end, Text: b.text.String()}
}

// MergeOverlapping coalesces consecutive captions whose start falls at or
// before the running end of the current group. The end time only ever
// extends. The input slice is left untouched.
func MergeOverlapping(caps []Caption) []Caption {
	if len(caps) == 0 {
		return nil
	}

	merged := make([]Caption, 0, len(caps))
	cur := newBlock(caps[0])

	for _, next := range caps[1:] {
		if next.Start <= cur.end {
			cur.absorb(next)
			continue
		}
		merged = append(merged, cur.caption())
		cur = newBlock(next)
	}

	return append(merged, cur.caption())
}
