package pipeline

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteSRT writes caps as SRT, numbering them 1..n in slice order. Incoming
// indices are ignored.
func WriteSRT(w io.Writer, caps []Caption) error {
	bw := bufio.NewWriter(w)
	for i, c := range caps {
		start, err := FormatTimecode(c.Start)
		if err != nil {
			return fmt.Errorf("cue %d start: %w", i+1, err)
		}
		end, err := FormatTimecode(c.End)
		if err != nil {
			return fmt.Errorf("cue %d end: %w", i+1, err)
		}
		fmt.Fprintf(bw, "%d\n%s%s%s\n%s\n\n", i+1, start, rangeSeparator, end, c.Text)
	}
	return bw.Flush()
}

// Reindex returns a copy of caps with Index set to the 1-based position.
func Reindex(caps []Caption) []Caption {
	out := make([]Caption, len(caps))
	for i, c := range caps {
		c.Index = i + 1
		out[i] = c
	}
	return out
}

// WriteSRTFile writes caps to path atomically.
func WriteSRTFile(path string, caps []Caption) error {
	var buf bytes.Buffer
	if err := WriteSRT(&buf, caps); err != nil {
		return err
	}
	return WriteFileAtomic(path, buf.Bytes(), 0o644)
}

// WriteSentences writes one sentence per line.
func WriteSentences(w io.Writer, sentences []string) error {
	bw := bufio.NewWriter(w)
	for _, s := range sentences {
		bw.WriteString(s)
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// WriteSentencesFile writes sentences to path atomically.
func WriteSentencesFile(path string, sentences []string) error {
	var buf bytes.Buffer
	if err := WriteSentences(&buf, sentences); err != nil {
		return err
	}
	return WriteFileAtomic(path, buf.Bytes(), 0o644)
}

// WriteFileAtomic writes data to a temp file next to path and renames it into
// place, so readers never observe a half-written caption file.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}
