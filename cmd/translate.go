package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/DengYangGong/YT-AISpider/internal/config"
	"github.com/DengYangGong/YT-AISpider/internal/translate"
	"github.com/DengYangGong/YT-AISpider/internal/worker"
)

var translateCmd = &cobra.Command{
	Use:   "translate <srt-file>...",
	Short: "Translate processed captions into bilingual and target-only SRT",
	Long: `Translate every cue of each input, writing <name>_bilingual.srt (source
line above the translation) and <name>_zh.srt (translation only). Cues that
fail to translate keep their source text.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTranslate,
}

var (
	sourceLang      string
	targetLang      string
	provider        string
	delayMs         int
	concurrency     int
	translateRetry  int
	noCache         bool
	bilingualOutput string
	targetOutput    string
)

func init() {
	defaults := config.Default()

	addTranslationFlags(translateCmd, defaults)
	translateCmd.Flags().StringVar(&bilingualOutput, "bilingual-output", "", "bilingual SRT path (single input only)")
	translateCmd.Flags().StringVar(&targetOutput, "target-output", "", "target-only SRT path (single input only)")

	rootCmd.AddCommand(translateCmd)
}

func addTranslationFlags(cmd *cobra.Command, defaults *config.Config) {
	t := defaults.Translation
	cmd.Flags().StringVarP(&sourceLang, "source", "s", t.SourceLang, "source language")
	cmd.Flags().StringVarP(&targetLang, "target", "t", t.TargetLang, "target language")
	cmd.Flags().StringVarP(&provider, "provider", "p", t.Provider, "translation backend: google, openai")
	cmd.Flags().IntVar(&delayMs, "delay-ms", t.DelayMs, "minimum delay between remote calls in milliseconds")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "j", t.Concurrency, "concurrent translation calls")
	cmd.Flags().IntVar(&translateRetry, "max-retries", t.MaxRetries, "attempts per cue before falling back to source text")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the translation memory")
}

// applyTranslationFlags copies explicitly set flags over cfg.
func applyTranslationFlags(cmd *cobra.Command) error {
	f := cmd.Flags()
	if f.Changed("source") {
		cfg.Translation.SourceLang = sourceLang
	}
	if f.Changed("target") {
		cfg.Translation.TargetLang = targetLang
	}
	if f.Changed("provider") {
		cfg.Translation.Provider = provider
	}
	if f.Changed("delay-ms") {
		cfg.Translation.DelayMs = delayMs
	}
	if f.Changed("concurrency") {
		cfg.Translation.Concurrency = concurrency
	}
	if f.Changed("max-retries") {
		cfg.Translation.MaxRetries = translateRetry
	}
	if noCache {
		cfg.Translation.CacheEnabled = false
	}
	return revalidate()
}

// openTranslator builds the configured backend and, when enabled, opens the
// translation memory. The returned close func is never nil.
func openTranslator() (translate.Translator, *translate.Store, func(), error) {
	tr, err := translate.New(cfg.Translation)
	if err != nil {
		return nil, nil, func() {}, err
	}
	if !cfg.Translation.CacheEnabled {
		return tr, nil, func() {}, nil
	}

	path, err := config.ExpandPath(cfg.Translation.CachePath)
	if err != nil {
		return nil, nil, func() {}, err
	}
	store, err := translate.OpenStore(path)
	if err != nil {
		return nil, nil, func() {}, fmt.Errorf("open translation memory: %w", err)
	}
	slog.Debug("translation memory opened", "path", store.Path())

	return tr, store, func() {
		if err := store.Close(); err != nil {
			slog.Warn("close translation memory", "err", err)
		}
	}, nil
}

func translateOptions(store *translate.Store) worker.TranslateOptions {
	pass := worker.PassOptionsFromConfig(cfg.Translation)
	pass.Cache = store
	return worker.TranslateOptions{
		Pass:          pass,
		Output:        cfg.Output,
		BilingualPath: bilingualOutput,
		TargetPath:    targetOutput,
		Logger:        slog.Default(),
	}
}

func runTranslate(cmd *cobra.Command, args []string) error {
	if err := applyTranslationFlags(cmd); err != nil {
		return err
	}

	tr, store, closeStore, err := openTranslator()
	if err != nil {
		return err
	}
	defer closeStore()

	ctx, stop := signalContext()
	defer stop()

	results, err := worker.TranslateBatch(ctx, args, tr, translateOptions(store))
	printSummary(cmd, results)
	if err != nil {
		return err
	}
	if n := worker.Failed(results); n > 0 {
		return fmt.Errorf("%d of %d files failed", n, len(results))
	}
	return nil
}
