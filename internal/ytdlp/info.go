package ytdlp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// VideoInfo is the metadata subset shown by `fetch --info`.
type VideoInfo struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Uploader   string  `json:"uploader"`
	Duration   float64 `json:"duration"`
	ViewCount  int64   `json:"view_count"`
	UploadDate string  `json:"upload_date"`
	Thumbnail  string  `json:"thumbnail"`
	WebpageURL string  `json:"webpage_url"`
}

// Length returns Duration as a time.Duration.
func (v *VideoInfo) Length() time.Duration {
	return time.Duration(v.Duration * float64(time.Second))
}

// Info queries metadata for url without downloading anything.
func (f *Fetcher) Info(ctx context.Context, url string) (*VideoInfo, error) {
	if err := f.ensureInstalled(ctx); err != nil {
		return nil, err
	}

	res, err := f.command().
		SkipDownload().
		DumpSingleJSON().
		Run(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("yt-dlp info: %w", err)
	}
	return parseInfo(res.Stdout)
}

func parseInfo(stdout string) (*VideoInfo, error) {
	stdout = strings.TrimSpace(stdout)
	if stdout == "" {
		return nil, fmt.Errorf("yt-dlp returned no metadata")
	}
	var info VideoInfo
	if err := json.Unmarshal([]byte(stdout), &info); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}
	if info.Title == "" {
		info.Title = "Unknown"
	}
	if info.Uploader == "" {
		info.Uploader = "Unknown"
	}
	return &info, nil
}
