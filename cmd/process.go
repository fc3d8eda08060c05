package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/DengYangGong/YT-AISpider/internal/config"
	"github.com/DengYangGong/YT-AISpider/internal/worker"
)

var processCmd = &cobra.Command{
	Use:   "process <caption-file>...",
	Short: "Resegment auto-generated captions into sentence cues",
	Long: `Merge overlapping auto-generated caption cues, split the text into
sentence-sized cues and redistribute their timing. Writes <name>_processed.srt
and, unless disabled, a plain-text sentence export next to each input.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runProcess,
}

var (
	processOutput string
	maxWords      int
	minCueMs      int
	maxLineChars  int
	noText        bool
)

func init() {
	defaults := config.Default()

	processCmd.Flags().StringVarP(&processOutput, "output", "o", "", "processed SRT path (single input only)")
	addSubtitleFlags(processCmd, defaults)

	rootCmd.AddCommand(processCmd)
}

func addSubtitleFlags(cmd *cobra.Command, defaults *config.Config) {
	cmd.Flags().IntVar(&maxWords, "max-words", defaults.Subtitle.MaxWords, "maximum words per cue")
	cmd.Flags().IntVar(&minCueMs, "min-cue-ms", defaults.Subtitle.MinCueMs, "minimum cue duration in milliseconds")
	cmd.Flags().IntVar(&maxLineChars, "max-line-chars", defaults.Subtitle.MaxLineChars, "wrap cue text at this width (0 disables)")
	cmd.Flags().BoolVar(&noText, "no-text", false, "skip the plain-text sentence export")
}

// applySubtitleFlags copies explicitly set flags over cfg.
func applySubtitleFlags(cmd *cobra.Command) error {
	if cmd.Flags().Changed("max-words") {
		cfg.Subtitle.MaxWords = maxWords
	}
	if cmd.Flags().Changed("min-cue-ms") {
		cfg.Subtitle.MinCueMs = minCueMs
	}
	if cmd.Flags().Changed("max-line-chars") {
		cfg.Subtitle.MaxLineChars = maxLineChars
	}
	if noText {
		cfg.Output.SaveText = false
	}
	return revalidate()
}

func processOptions() worker.Options {
	return worker.Options{
		Subtitle:   cfg.Subtitle,
		Output:     cfg.Output,
		OutputPath: processOutput,
		Logger:     slog.Default(),
	}
}

func runProcess(cmd *cobra.Command, args []string) error {
	if err := applySubtitleFlags(cmd); err != nil {
		return err
	}
	if processOutput != "" && len(args) > 1 {
		return fmt.Errorf("--output needs a single input")
	}

	ctx, stop := signalContext()
	defer stop()

	results, err := worker.ProcessBatch(ctx, args, processOptions())
	printSummary(cmd, results)
	if err != nil {
		return err
	}
	if n := worker.Failed(results); n > 0 {
		return fmt.Errorf("%d of %d files failed", n, len(results))
	}
	return nil
}
