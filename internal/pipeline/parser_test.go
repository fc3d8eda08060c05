package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	input := "\uFEFF1\r\n" +
		"00:00:00,000 --> 00:00:02,000\r\n" +
		"Hello there.\r\n" +
		"\r\n" +
		"2\n" +
		"00:00:02,500 --> 00:00:04,000\n" +
		"This is\n" +
		"  a test.  \n" +
		"\n\n\n"

	caps, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	want := []Caption{
		{Index: 1, Start: 0, End: 2000, Text: "Hello there."},
		{Index: 2, Start: 2500, End: 4000, Text: "This is a test."},
	}
	if len(caps) != len(want) {
		t.Fatalf("got %d captions, want %d: %+v", len(caps), len(want), caps)
	}
	for i := range want {
		if caps[i] != want[i] {
			t.Errorf("caption %d = %+v, want %+v", i, caps[i], want[i])
		}
	}
}

func TestParseFinalBlockWithoutBlankLine(t *testing.T) {
	input := "1\n00:00:01,000 --> 00:00:02,000\nfirst\n\n2\n00:00:03,000 --> 00:00:04,000\nlast"
	caps, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(caps) != 2 {
		t.Fatalf("got %d captions, want 2", len(caps))
	}
	if caps[1].Text != "last" || caps[1].End != 4000 {
		t.Errorf("final caption = %+v", caps[1])
	}
}

func TestParseSkipsShortBlocks(t *testing.T) {
	input := "1\n00:00:01,000 --> 00:00:02,000\n\n2\n00:00:03,000 --> 00:00:04,000\nkept\n"
	caps, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(caps) != 1 || caps[0].Text != "kept" {
		t.Errorf("Parse() = %+v, want only the complete block", caps)
	}
}

func TestParseEmpty(t *testing.T) {
	caps, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Parse(\"\") error: %v", err)
	}
	if len(caps) != 0 {
		t.Errorf("Parse(\"\") = %+v, want none", caps)
	}
}

func TestParseNormalizesText(t *testing.T) {
	input := "1\n00:00:00,000 --> 00:00:01,000\ncafe\u0301\n"
	caps, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if caps[0].Text != "caf\u00e9" {
		t.Errorf("Text = %q, want NFC composed form", caps[0].Text)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
		line  string
	}{
		{
			name:  "non-numeric index",
			input: "1\n00:00:00,000 --> 00:00:01,000\nok\n\nabc\n00:00:01,000 --> 00:00:02,000\nbad\n",
			want:  ErrMalformedIndex,
			line:  "line 5",
		},
		{
			name:  "missing arrow",
			input: "1\n00:00:00,000 - 00:00:01,000\ntext\n",
			want:  ErrMalformedRange,
			line:  "line 2",
		},
		{
			name:  "bad start",
			input: "1\n00:00:00.000 --> 00:00:01,000\ntext\n",
			want:  ErrMalformedTimecode,
			line:  "line 2",
		},
		{
			name:  "bad end",
			input: "1\n00:00:00,000 --> 00:99:01,000\ntext\n",
			want:  ErrMalformedTimecode,
			line:  "line 2",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caps, err := Parse(strings.NewReader(tt.input))
			if !errors.Is(err, tt.want) {
				t.Fatalf("Parse() error = %v, want %v", err, tt.want)
			}
			if !strings.Contains(err.Error(), tt.line) {
				t.Errorf("error %q does not name %s", err, tt.line)
			}
			if caps != nil {
				t.Errorf("Parse() returned captions alongside error: %+v", caps)
			}
		})
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.srt")
	if err := os.WriteFile(path, []byte("1\n00:00:00,000 --> 00:00:01,000\nhi\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	caps, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile() error: %v", err)
	}
	if len(caps) != 1 {
		t.Errorf("got %d captions, want 1", len(caps))
	}

	if _, err := ParseFile(filepath.Join(t.TempDir(), "missing.srt")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ParseFile(missing) error = %v, want os.ErrNotExist", err)
	}
}
