package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/DengYangGong/YT-AISpider/internal/config"
	"github.com/DengYangGong/YT-AISpider/internal/pipeline"
)

var (
	// ErrInputMissing is returned before any work when the input file does not exist.
	ErrInputMissing = errors.New("input file not found")
	// ErrLocked is returned when another run holds the input's lock.
	ErrLocked = errors.New("input is being processed by another run")
)

// Options configures ProcessFile.
type Options struct {
	Subtitle config.SubtitleSettings
	Output   config.OutputSettings
	// OutputPath overrides the derived processed SRT path.
	OutputPath string
	Logger     *slog.Logger
}

// Outputs lists the files a run wrote. Unset fields were not produced.
type Outputs struct {
	Processed string
	Text      string
	Bilingual string
	Target    string
}

// ProcessFile resegments the captions at in and writes the processed SRT
// and, when enabled, the plain-text sentence export.
func ProcessFile(ctx context.Context, in string, opts Options) (Outputs, pipeline.Stats, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("run_id", uuid.NewString(), "input", filepath.Base(in))

	if _, err := os.Stat(in); err != nil {
		return Outputs{}, pipeline.Stats{}, fmt.Errorf("%w: %s", ErrInputMissing, in)
	}

	lock, err := acquireLock(in)
	if err != nil {
		return Outputs{}, pipeline.Stats{}, err
	}
	defer releaseLock(lock, logger)

	caps, err := pipeline.ReadCaptions(in)
	if err != nil {
		return Outputs{}, pipeline.Stats{}, err
	}
	if err := ctx.Err(); err != nil {
		return Outputs{}, pipeline.Stats{}, err
	}

	logger.Info("processing captions", "captions", len(caps))
	cues, stats := pipeline.NewProcessor(opts.Subtitle, logger).Process(caps)

	out := Outputs{Processed: opts.OutputPath}
	if out.Processed == "" {
		out.Processed = config.OutputPath(in, opts.Output.ProcessedSuffix, ".srt")
	}

	display := pipeline.WrapCues(cues, opts.Subtitle.MaxLineChars)
	if err := pipeline.WriteSRTFile(out.Processed, display); err != nil {
		return Outputs{}, stats, fmt.Errorf("write processed captions: %w", err)
	}

	if opts.Output.SaveText {
		out.Text = config.OutputPath(out.Processed, opts.Output.TextSuffix, ".txt")
		sentences := pipeline.ExtractSentences(cues)
		if err := pipeline.WriteSentencesFile(out.Text, sentences); err != nil {
			return Outputs{}, stats, fmt.Errorf("write sentence text: %w", err)
		}
		logger.Debug("sentence text saved", "path", out.Text, "sentences", len(sentences))
	}

	logger.Info("processing complete",
		"parsed", stats.Parsed,
		"merged", stats.Merged,
		"cues", stats.Cues,
		"clipped_blocks", stats.ClippedBlocks,
		"output", out.Processed)

	return out, stats, nil
}

func acquireLock(path string) (*flock.Flock, error) {
	lock := flock.New(path + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, path)
	}
	return lock, nil
}

func releaseLock(lock *flock.Flock, logger *slog.Logger) {
	if err := lock.Unlock(); err != nil {
		logger.Debug("release lock", "path", lock.Path(), "err", err)
	}
}
