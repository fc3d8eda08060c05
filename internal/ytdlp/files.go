package ytdlp

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// captionExts are the caption formats pipeline.ConvertToSRT can read.
var captionExts = map[string]bool{
	".srt":  true,
	".vtt":  true,
	".ttml": true,
	".ass":  true,
	".ssa":  true,
}

var videoExts = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".webm": true,
	".mov":  true,
	".m4a":  true,
}

// mtimeSlack absorbs coarse filesystem timestamps.
const mtimeSlack = 2 * time.Second

// MediaFile describes a downloaded file.
type MediaFile struct {
	Path    string
	Lang    string
	Size    int64
	ModTime time.Time
}

// captionLang returns the language tag yt-dlp put before the extension of a
// caption file name ("Title.en-US.vtt" -> "en-US"), or "" when the name has
// none.
func captionLang(name string) string {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	i := strings.LastIndexByte(stem, '.')
	if i < 0 {
		return ""
	}
	return stem[i+1:]
}

func langMatches(got, want string) bool {
	return strings.EqualFold(got, want) || strings.HasPrefix(strings.ToLower(got), strings.ToLower(want)+"-")
}

// locateCaptions returns the newest caption file in dir for lang written at
// or after since.
func locateCaptions(dir, lang string, since time.Time) (string, error) {
	files, err := listFiles(dir, captionExts)
	if err != nil {
		return "", err
	}

	var newest *MediaFile
	for i := range files {
		f := &files[i]
		if !langMatches(f.Lang, lang) || f.ModTime.Before(since.Add(-mtimeSlack)) {
			continue
		}
		if newest == nil || f.ModTime.After(newest.ModTime) {
			newest = f
		}
	}
	if newest == nil {
		return "", fmt.Errorf("%w: no %s caption file in %s", ErrNoCaptions, lang, dir)
	}
	return newest.Path, nil
}

// ListCaptions returns the caption files in dir, newest first.
func ListCaptions(dir string) ([]MediaFile, error) {
	return listFiles(dir, captionExts)
}

// ListVideos returns the video files in dir, newest first.
func ListVideos(dir string) ([]MediaFile, error) {
	return listFiles(dir, videoExts)
}

func listFiles(dir string, exts map[string]bool) ([]MediaFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	var files []MediaFile
	for _, e := range entries {
		if e.IsDir() || !exts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, MediaFile{
			Path:    filepath.Join(dir, e.Name()),
			Lang:    captionLang(e.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].ModTime.After(files[j].ModTime)
	})
	return files, nil
}
