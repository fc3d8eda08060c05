package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/DengYangGong/YT-AISpider/internal/pipeline"
	"github.com/DengYangGong/YT-AISpider/internal/translate"
)

// FileResult records the outcome for one input of a batch.
type FileResult struct {
	Input      string
	Outputs    Outputs
	Stats      pipeline.Stats
	Translated int
	Fallbacks  int
	Skipped    bool
	Err        error
}

// ProcessBatch runs ProcessFile over inputs one at a time. Missing inputs are
// skipped with a warning; other failures are recorded and the batch moves on.
// Cancellation stops the batch and returns ctx.Err().
func ProcessBatch(ctx context.Context, inputs []string, opts Options) ([]FileResult, error) {
	return runBatch(ctx, inputs, opts.Logger, func(in string) FileResult {
		out, stats, err := ProcessFile(ctx, in, opts)
		return FileResult{Input: in, Outputs: out, Stats: stats, Err: err}
	})
}

// TranslateBatch runs TranslateFile over inputs one at a time with the same
// skipping rules as ProcessBatch.
func TranslateBatch(ctx context.Context, inputs []string, tr translate.Translator, opts TranslateOptions) ([]FileResult, error) {
	if opts.BilingualPath != "" || opts.TargetPath != "" {
		if len(inputs) > 1 {
			return nil, errors.New("explicit output paths need a single input")
		}
	}
	return runBatch(ctx, inputs, opts.Logger, func(in string) FileResult {
		out, res, err := TranslateFile(ctx, in, tr, opts)
		r := FileResult{Input: in, Outputs: out, Err: err}
		if res != nil {
			r.Translated = res.Translated
			r.Fallbacks = res.Fallbacks
		}
		return r
	})
}

func runBatch(ctx context.Context, inputs []string, logger *slog.Logger, run func(string) FileResult) ([]FileResult, error) {
	if logger == nil {
		logger = slog.Default()
	}

	results := make([]FileResult, 0, len(inputs))
	for i, in := range inputs {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		if _, err := os.Stat(in); err != nil {
			logger.Warn("input not found, skipping", "file", in)
			results = append(results, FileResult{Input: in, Skipped: true, Err: fmt.Errorf("%w: %s", ErrInputMissing, in)})
			continue
		}

		logger.Info("processing file",
			"file", filepath.Base(in),
			"item", fmt.Sprintf("%d/%d", i+1, len(inputs)))

		r := run(in)
		if r.Err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return append(results, r), ctxErr
			}
			logger.Error("file failed", "file", filepath.Base(in), "err", r.Err)
		}
		results = append(results, r)
	}
	return results, nil
}

// Failed counts results that errored, including skipped inputs.
func Failed(results []FileResult) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
