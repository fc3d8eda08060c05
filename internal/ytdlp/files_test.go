package ytdlp

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func touch(t *testing.T, dir, name string, mtime time.Time) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCaptionLang(t *testing.T) {
	tests := map[string]string{
		"Talk.en.vtt":                "en",
		"Talk.en-US.srt":             "en-US",
		"My.Video.Title.zh-Hans.vtt": "zh-Hans",
		"Talk.en_processed.srt":      "en_processed",
		"Talk.srt":                   "",
	}
	for name, want := range tests {
		if got := captionLang(name); got != want {
			t.Errorf("captionLang(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestLocateCaptions(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	old := now.Add(-time.Hour)

	touch(t, dir, "Old.en.srt", old)
	touch(t, dir, "Talk.en_processed.srt", now)
	touch(t, dir, "Talk.de.vtt", now)
	touch(t, dir, "Talk.en.json3", now)
	touch(t, dir, "Talk.en-orig.vtt", now.Add(-time.Second))
	want := touch(t, dir, "Talk.en.vtt", now)

	got, err := locateCaptions(dir, "en", now.Add(-time.Minute))
	if err != nil {
		t.Fatalf("locateCaptions() error: %v", err)
	}
	if got != want {
		t.Errorf("locateCaptions() = %q, want %q", got, want)
	}
}

func TestLocateCaptionsNone(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "Old.en.srt", time.Now().Add(-time.Hour))
	touch(t, dir, "Talk.fr.vtt", time.Now())

	_, err := locateCaptions(dir, "en", time.Now().Add(-time.Minute))
	if !errors.Is(err, ErrNoCaptions) {
		t.Errorf("locateCaptions() error = %v, want ErrNoCaptions", err)
	}
}

func TestListFiles(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	touch(t, dir, "a.en.srt", now.Add(-2*time.Minute))
	touch(t, dir, "b.en.vtt", now)
	touch(t, dir, "clip.mp4", now)
	touch(t, dir, "notes.txt", now)
	if err := os.Mkdir(filepath.Join(dir, "sub.srt"), 0o755); err != nil {
		t.Fatal(err)
	}

	caps, err := ListCaptions(dir)
	if err != nil {
		t.Fatalf("ListCaptions() error: %v", err)
	}
	if len(caps) != 2 || filepath.Base(caps[0].Path) != "b.en.vtt" || caps[1].Lang != "en" {
		t.Errorf("ListCaptions() = %+v", caps)
	}

	videos, err := ListVideos(dir)
	if err != nil {
		t.Fatalf("ListVideos() error: %v", err)
	}
	if len(videos) != 1 || filepath.Base(videos[0].Path) != "clip.mp4" {
		t.Errorf("ListVideos() = %+v", videos)
	}

	missing, err := ListCaptions(filepath.Join(dir, "absent"))
	if err != nil || len(missing) != 0 {
		t.Errorf("ListCaptions(absent) = %v, %v", missing, err)
	}
}

func TestParseInfo(t *testing.T) {
	info, err := parseInfo(`{"id":"abc","title":"A Talk","uploader":"Someone","duration":125.5,"view_count":42}`)
	if err != nil {
		t.Fatalf("parseInfo() error: %v", err)
	}
	if info.Title != "A Talk" || info.Uploader != "Someone" || info.ViewCount != 42 {
		t.Errorf("parseInfo() = %+v", info)
	}
	if info.Length() != 125500*time.Millisecond {
		t.Errorf("Length() = %v", info.Length())
	}

	info, err = parseInfo(`{"id":"x"}`)
	if err != nil || info.Title != "Unknown" || info.Uploader != "Unknown" {
		t.Errorf("parseInfo(sparse) = %+v, %v", info, err)
	}

	if _, err := parseInfo("  "); err == nil {
		t.Error("parseInfo(empty) = nil error")
	}
	if _, err := parseInfo("not json"); err == nil {
		t.Error("parseInfo(garbage) = nil error")
	}
}

func TestNewDefaults(t *testing.T) {
	f := New(Options{}, nil)
	if f.opts.SubLang != "en" || f.opts.SubtitleDir != "." || f.opts.VideoDir != "." {
		t.Errorf("New() defaults = %+v", f.opts)
	}
}
