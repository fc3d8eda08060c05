// Package ytdlp acquires caption files (and optionally the video) for a URL
// through yt-dlp.
package ytdlp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	goytdlp "github.com/lrstanley/go-ytdlp"

	"github.com/DengYangGong/YT-AISpider/internal/config"
	"github.com/DengYangGong/YT-AISpider/internal/pipeline"
)

// ErrNoCaptions is returned when yt-dlp finished without producing a caption
// file in the requested language.
var ErrNoCaptions = errors.New("no captions produced")

const (
	outputTemplate = "%(title)s.%(ext)s"
	subFormat      = "srt/vtt/best"
	videoFormat    = "bestvideo+bestaudio/best"
)

// Options configures a Fetcher.
type Options struct {
	SubtitleDir   string
	VideoDir      string
	SubLang       string
	DownloadVideo bool
	AutoInstall   bool
	// Executable is an explicit yt-dlp binary; empty means PATH or the
	// auto-installed copy.
	Executable string
}

// OptionsFromConfig maps download settings onto Options.
func OptionsFromConfig(s config.DownloadSettings) Options {
	return Options{
		SubtitleDir:   s.SubtitleDir,
		VideoDir:      s.VideoDir,
		SubLang:       s.SubLang,
		DownloadVideo: s.DownloadVideo,
		AutoInstall:   s.AutoInstall,
		Executable:    s.YtDlpPath,
	}
}

// Fetcher downloads captions with yt-dlp.
type Fetcher struct {
	opts   Options
	logger *slog.Logger

	installOnce sync.Once
	installErr  error
}

// New returns a Fetcher. A nil logger uses slog.Default().
func New(opts Options, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.SubLang == "" {
		opts.SubLang = "en"
	}
	if opts.SubtitleDir == "" {
		opts.SubtitleDir = "."
	}
	if opts.VideoDir == "" {
		opts.VideoDir = opts.SubtitleDir
	}
	return &Fetcher{opts: opts, logger: logger}
}

// ensureInstalled resolves the yt-dlp binary once per Fetcher.
func (f *Fetcher) ensureInstalled(ctx context.Context) error {
	f.installOnce.Do(func() {
		if f.opts.Executable != "" || !f.opts.AutoInstall {
			return
		}
		f.logger.Info("checking yt-dlp installation")
		if _, err := goytdlp.Install(ctx, nil); err != nil {
			f.installErr = fmt.Errorf("install yt-dlp: %w", err)
		}
	})
	return f.installErr
}

func (f *Fetcher) command() *goytdlp.Command {
	cmd := goytdlp.New().NoPlaylist()
	if f.opts.Executable != "" {
		cmd = cmd.SetExecutable(f.opts.Executable)
	}
	return cmd
}

// Fetch downloads the captions for url into the subtitle directory and
// returns the path of an SRT file, converting other caption formats first.
// With DownloadVideo set the video is fetched into the video directory too.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := f.ensureInstalled(ctx); err != nil {
		return "", err
	}
	if err := os.MkdirAll(f.opts.SubtitleDir, 0o755); err != nil {
		return "", fmt.Errorf("create subtitle directory: %w", err)
	}

	started := time.Now()
	logger := f.logger.With("url", url, "lang", f.opts.SubLang)
	logger.Info("downloading captions", "dir", f.opts.SubtitleDir)

	_, err := f.command().
		SkipDownload().
		ForceOverwrites().
		WriteSubs().
		WriteAutoSubs().
		SubLangs(f.opts.SubLang).
		SubFormat(subFormat).
		Output(filepath.Join(f.opts.SubtitleDir, outputTemplate)).
		Run(ctx, url)
	if err != nil {
		return "", fmt.Errorf("yt-dlp captions: %w", err)
	}

	if f.opts.DownloadVideo {
		if err := f.fetchVideo(ctx, url, logger); err != nil {
			return "", err
		}
	}

	found, err := locateCaptions(f.opts.SubtitleDir, f.opts.SubLang, started)
	if err != nil {
		return "", err
	}
	logger.Debug("caption file located", "path", found)

	srt, err := pipeline.ConvertFileToSRT(found)
	if err != nil {
		return "", fmt.Errorf("convert %s: %w", filepath.Base(found), err)
	}
	if srt != found {
		logger.Info("converted captions to srt", "from", filepath.Base(found))
	}

	logger.Info("captions downloaded", "path", srt)
	return srt, nil
}

func (f *Fetcher) fetchVideo(ctx context.Context, url string, logger *slog.Logger) error {
	if err := os.MkdirAll(f.opts.VideoDir, 0o755); err != nil {
		return fmt.Errorf("create video directory: %w", err)
	}
	logger.Info("downloading video", "dir", f.opts.VideoDir)

	_, err := f.command().
		Format(videoFormat).
		MergeOutputFormat("mp4").
		Output(filepath.Join(f.opts.VideoDir, outputTemplate)).
		Run(ctx, url)
	if err != nil {
		return fmt.Errorf("yt-dlp video: %w", err)
	}
	return nil
}
