package pipeline

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/asticode/go-astisub"
)

// IsSRT reports whether path has an .srt extension.
func IsSRT(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".srt")
}

// ConvertToSRT renders a WebVTT, TTML, SSA/ASS or STL caption file as SRT.
func ConvertToSRT(path string) ([]byte, error) {
	subs, err := astisub.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	var buf bytes.Buffer
	if err := subs.WriteToSRT(&buf); err != nil {
		return nil, fmt.Errorf("render srt: %w", err)
	}
	return buf.Bytes(), nil
}

// ConvertFileToSRT converts path to SRT next to it (same base name, .srt
// extension) and returns the new path. SRT inputs are returned unchanged.
func ConvertFileToSRT(path string) (string, error) {
	if IsSRT(path) {
		return path, nil
	}
	data, err := ConvertToSRT(path)
	if err != nil {
		return "", err
	}
	out := strings.TrimSuffix(path, filepath.Ext(path)) + ".srt"
	if err := WriteFileAtomic(out, data, 0o644); err != nil {
		return "", fmt.Errorf("write converted captions: %w", err)
	}
	return out, nil
}

// ReadCaptions parses path, converting non-SRT formats in memory first.
func ReadCaptions(path string) ([]Caption, error) {
	if IsSRT(path) {
		return ParseFile(path)
	}
	data, err := ConvertToSRT(path)
	if err != nil {
		return nil, err
	}
	caps, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse converted %s: %w", filepath.Base(path), err)
	}
	return caps, nil
}
