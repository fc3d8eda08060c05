package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/DengYangGong/YT-AISpider/internal/config"
	"github.com/DengYangGong/YT-AISpider/internal/ytdlp"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [url]",
	Short: "Download captions (and optionally the video) with yt-dlp",
	Long: `Download manual or auto-generated captions for a video and convert them
to SRT. Without a URL argument the clipboard contents are used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFetch,
}

var (
	subLang       string
	subtitleDir   string
	videoDir      string
	downloadVideo bool
	fetchInfo     bool
	fetchList     bool
)

func init() {
	defaults := config.Default()

	addDownloadFlags(fetchCmd, defaults)
	fetchCmd.Flags().BoolVar(&fetchInfo, "info", false, "print video metadata instead of downloading")
	fetchCmd.Flags().BoolVar(&fetchList, "list", false, "list downloaded caption and video files")

	rootCmd.AddCommand(fetchCmd)
}

func addDownloadFlags(cmd *cobra.Command, defaults *config.Config) {
	d := defaults.Download
	cmd.Flags().StringVarP(&subLang, "lang", "l", d.SubLang, "caption language to download")
	cmd.Flags().StringVar(&subtitleDir, "dir", d.SubtitleDir, "caption download directory")
	cmd.Flags().StringVar(&videoDir, "video-dir", d.VideoDir, "video download directory")
	cmd.Flags().BoolVar(&downloadVideo, "video", d.DownloadVideo, "download the video as well")
}

// applyDownloadFlags copies explicitly set flags over cfg.
func applyDownloadFlags(cmd *cobra.Command) error {
	f := cmd.Flags()
	if f.Changed("lang") {
		cfg.Download.SubLang = subLang
	}
	if f.Changed("dir") {
		cfg.Download.SubtitleDir = subtitleDir
	}
	if f.Changed("video-dir") {
		cfg.Download.VideoDir = videoDir
	}
	if f.Changed("video") {
		cfg.Download.DownloadVideo = downloadVideo
	}
	return revalidate()
}

func newFetcher() (*ytdlp.Fetcher, error) {
	opts := ytdlp.OptionsFromConfig(cfg.Download)
	var err error
	if opts.SubtitleDir, err = config.ExpandPath(opts.SubtitleDir); err != nil {
		return nil, err
	}
	if opts.VideoDir, err = config.ExpandPath(opts.VideoDir); err != nil {
		return nil, err
	}
	return ytdlp.New(opts, slog.Default()), nil
}

// resolveURL returns the argument, or the clipboard contents when none was
// given.
func resolveURL(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("no url given and clipboard unreadable: %w", err)
	}
	url := strings.TrimSpace(text)
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return "", errors.New("no url given and clipboard does not hold one")
	}
	slog.Info("using url from clipboard", "url", url)
	return url, nil
}

func runFetch(cmd *cobra.Command, args []string) error {
	if err := applyDownloadFlags(cmd); err != nil {
		return err
	}
	fetcher, err := newFetcher()
	if err != nil {
		return err
	}

	if fetchList {
		return listDownloads(cmd)
	}

	url, err := resolveURL(args)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	if fetchInfo {
		info, err := fetcher.Info(ctx, url)
		if err != nil {
			return err
		}
		printInfo(cmd, info)
		return nil
	}

	path, err := fetcher.Fetch(ctx, url)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

func listDownloads(cmd *cobra.Command) error {
	dir, err := config.ExpandPath(cfg.Download.SubtitleDir)
	if err != nil {
		return err
	}
	caps, err := ytdlp.ListCaptions(dir)
	if err != nil {
		return err
	}
	vdir, err := config.ExpandPath(cfg.Download.VideoDir)
	if err != nil {
		return err
	}
	videos, err := ytdlp.ListVideos(vdir)
	if err != nil {
		return err
	}
	printFiles(cmd, append(caps, videos...))
	return nil
}
