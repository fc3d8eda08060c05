package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/DengYangGong/YT-AISpider/internal/config"
	"github.com/DengYangGong/YT-AISpider/internal/worker"
)

var runCmd = &cobra.Command{
	Use:   "run [url]",
	Short: "Fetch, process and translate captions for one video",
	Long: `Download captions for a video, resegment them and translate the result.
Without a URL argument the clipboard contents are used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAll,
}

func init() {
	defaults := config.Default()

	addDownloadFlags(runCmd, defaults)
	addSubtitleFlags(runCmd, defaults)
	addTranslationFlags(runCmd, defaults)

	rootCmd.AddCommand(runCmd)
}

func runAll(cmd *cobra.Command, args []string) error {
	for _, apply := range []func(*cobra.Command) error{applyDownloadFlags, applySubtitleFlags, applyTranslationFlags} {
		if err := apply(cmd); err != nil {
			return err
		}
	}

	url, err := resolveURL(args)
	if err != nil {
		return err
	}
	fetcher, err := newFetcher()
	if err != nil {
		return err
	}
	tr, store, closeStore, err := openTranslator()
	if err != nil {
		return err
	}
	defer closeStore()

	ctx, stop := signalContext()
	defer stop()

	srt, err := fetcher.Fetch(ctx, url)
	if err != nil {
		return err
	}

	out, stats, err := worker.ProcessFile(ctx, srt, processOptions())
	if err != nil {
		return fmt.Errorf("process: %w", err)
	}

	tout, res, err := worker.TranslateFile(ctx, out.Processed, tr, translateOptions(store))
	if err != nil {
		return fmt.Errorf("translate: %w", err)
	}

	out.Bilingual = tout.Bilingual
	out.Target = tout.Target
	printSummary(cmd, []worker.FileResult{{
		Input:      srt,
		Outputs:    out,
		Stats:      stats,
		Translated: res.Translated,
		Fallbacks:  res.Fallbacks,
	}})
	return nil
}
