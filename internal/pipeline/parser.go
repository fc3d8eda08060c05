package pipeline

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const rangeSeparator = " --> "

// maxLineBytes bounds a single caption line; auto-captions never come close.
const maxLineBytes = 1 << 20

type rawLine struct {
	num  int
	text string
}

// ParseFile opens path and parses it as SRT.
func ParseFile(path string) ([]Caption, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open captions: %w", err)
	}
	defer f.Close()

	caps, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return caps, nil
}

// Parse reads SRT blocks separated by blank lines. Blocks with fewer than
// three lines are skipped. A malformed index, range or timecode aborts the
// whole parse.
func Parse(r io.Reader) ([]Caption, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var (
		caps  []Caption
		block []rawLine
		num   int
	)

	flush := func() error {
		defer func() { block = block[:0] }()
		if len(block) < 3 {
			return nil
		}
		c, err := parseBlock(block)
		if err != nil {
			return err
		}
		caps = append(caps, c)
		return nil
	}

	for scanner.Scan() {
		num++
		line := scanner.Text()
		if num == 1 {
			line = strings.TrimPrefix(line, "\uFEFF")
		}
		line = strings.TrimSpace(line)
		if line == "" {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		block = append(block, rawLine{num: num, text: line})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read captions: %w", err)
	}
	if err := flush(); err != nil {
		return nil, err
	}

	return caps, nil
}

func parseBlock(block []rawLine) (Caption, error) {
	idxLine := block[0]
	idx, err := strconv.Atoi(idxLine.text)
	if err != nil {
		return Caption{}, fmt.Errorf("line %d: %w: %q", idxLine.num, ErrMalformedIndex, idxLine.text)
	}

	rangeLine := block[1]
	startText, endText, ok := strings.Cut(rangeLine.text, rangeSeparator)
	if !ok {
		return Caption{}, fmt.Errorf("line %d: %w: %q", rangeLine.num, ErrMalformedRange, rangeLine.text)
	}
	start, err := ParseTimecode(strings.TrimSpace(startText))
	if err != nil {
		return Caption{}, fmt.Errorf("line %d: %w", rangeLine.num, err)
	}
	end, err := ParseTimecode(strings.TrimSpace(endText))
	if err != nil {
		return Caption{}, fmt.Errorf("line %d: %w", rangeLine.num, err)
	}

	texts := make([]string, 0, len(block)-2)
	for _, l := range block[2:] {
		texts = append(texts, l.text)
	}

	return Caption{
		Index: idx,
		Start: start,
		End:   end,
		Text:  norm.NFC.String(strings.Join(texts, " ")),
	}, nil
}
