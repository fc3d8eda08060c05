package worker

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/DengYangGong/YT-AISpider/internal/config"
	"github.com/DengYangGong/YT-AISpider/internal/pipeline"
	"github.com/DengYangGong/YT-AISpider/internal/translate"
)

const (
	defaultBackoff = time.Second
	progressEvery  = 10
)

// PassOptions configures a translation pass.
type PassOptions struct {
	Source      string
	Target      string
	Concurrency int
	Delay       time.Duration
	MaxRetries  int
	CallTimeout time.Duration
	// Backoff is the first retry delay; later retries double it.
	Backoff time.Duration

	// Cache, when set, is consulted before any remote call. Provider
	// namespaces its entries.
	Cache    *translate.Store
	Provider string
}

// PassOptionsFromConfig maps translation settings onto PassOptions.
func PassOptionsFromConfig(s config.TranslationSettings) PassOptions {
	return PassOptions{
		Source:      s.SourceLang,
		Target:      s.TargetLang,
		Concurrency: s.Concurrency,
		Delay:       time.Duration(s.DelayMs) * time.Millisecond,
		MaxRetries:  s.MaxRetries,
		CallTimeout: time.Duration(s.CallTimeoutSec) * time.Second,
		Provider:    s.Provider,
	}
}

func (o PassOptions) withDefaults() PassOptions {
	if o.Concurrency < 1 {
		o.Concurrency = 1
	}
	if o.MaxRetries < 1 {
		o.MaxRetries = 1
	}
	if o.CallTimeout <= 0 {
		o.CallTimeout = 30 * time.Second
	}
	if o.Backoff <= 0 {
		o.Backoff = defaultBackoff
	}
	return o
}

// PassResult holds both translated renditions of a cue list. Cue i of each
// slice corresponds to input cue i.
type PassResult struct {
	Bilingual  []pipeline.Caption
	Target     []pipeline.Caption
	Translated int
	Fallbacks  int
	Blank      int
}

// TranslatePass translates every cue through tr. Failed cues keep their
// source text. When ctx is cancelled no further calls are issued, the
// remaining cues keep their source text, and ctx.Err() is returned alongside
// the partial result.
func TranslatePass(ctx context.Context, tr translate.Translator, cues []pipeline.Caption, opts PassOptions, logger *slog.Logger) (*PassResult, error) {
	opts = opts.withDefaults()
	if logger == nil {
		logger = slog.Default()
	}

	var chain translate.Translator = &retrying{
		next:     &throttled{next: tr, limiter: newLimiter(opts.Delay)},
		attempts: opts.MaxRetries,
		timeout:  opts.CallTimeout,
		backoff:  opts.Backoff,
		logger:   logger,
	}
	if opts.Cache != nil {
		chain = translate.NewCached(chain, opts.Cache, opts.Provider, logger)
	}

	total := len(cues)
	logger.Info("starting translation",
		"cues", total,
		"source", opts.Source,
		"target", opts.Target,
		"concurrency", opts.Concurrency,
		"delay", opts.Delay)

	targets := make([]string, total)
	translated := make([]bool, total)
	for i, c := range cues {
		targets[i] = c.Text
	}

	var (
		g    errgroup.Group
		done atomic.Int64
	)
	g.SetLimit(opts.Concurrency)

	for i, cue := range cues {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			targets[i], translated[i] = translate.Safe(ctx, chain, cue.Text, opts.Source, opts.Target, logger)

			if n := done.Add(1); n%progressEvery == 0 || int(n) == total {
				logger.Info("translation progress", "done", n, "total", total)
			}
			return nil
		})
	}
	_ = g.Wait()

	res := &PassResult{
		Bilingual: make([]pipeline.Caption, total),
		Target:    make([]pipeline.Caption, total),
	}
	for i, c := range cues {
		switch {
		case strings.TrimSpace(c.Text) == "":
			res.Blank++
		case translated[i]:
			res.Translated++
		default:
			res.Fallbacks++
		}

		bi := c
		bi.Text = c.Text + "\n" + targets[i]
		res.Bilingual[i] = bi

		tgt := c
		tgt.Text = targets[i]
		res.Target[i] = tgt
	}

	if err := ctx.Err(); err != nil {
		return res, err
	}
	return res, nil
}

// TranslateOptions configures TranslateFile.
type TranslateOptions struct {
	Pass   PassOptions
	Output config.OutputSettings
	// BilingualPath and TargetPath override the derived output names.
	BilingualPath string
	TargetPath    string
	Logger        *slog.Logger
}

// TranslateFile translates the captions at in and writes the bilingual and
// target-only SRT files. Nothing is written when the pass is cancelled.
func TranslateFile(ctx context.Context, in string, tr translate.Translator, opts TranslateOptions) (Outputs, *PassResult, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("run_id", uuid.NewString(), "input", filepath.Base(in))

	if _, err := os.Stat(in); err != nil {
		return Outputs{}, nil, fmt.Errorf("%w: %s", ErrInputMissing, in)
	}

	lock, err := acquireLock(in)
	if err != nil {
		return Outputs{}, nil, err
	}
	defer releaseLock(lock, logger)

	caps, err := pipeline.ReadCaptions(in)
	if err != nil {
		return Outputs{}, nil, err
	}

	start := time.Now()
	res, err := TranslatePass(ctx, tr, caps, opts.Pass, logger)
	if err != nil {
		return Outputs{}, res, fmt.Errorf("translation interrupted: %w", err)
	}

	out := Outputs{
		Bilingual: opts.BilingualPath,
		Target:    opts.TargetPath,
	}
	if out.Bilingual == "" {
		out.Bilingual = config.OutputPath(in, opts.Output.BilingualSuffix, "")
	}
	if out.Target == "" {
		out.Target = config.OutputPath(in, opts.Output.TargetSuffix, "")
	}

	if err := pipeline.WriteSRTFile(out.Bilingual, res.Bilingual); err != nil {
		return Outputs{}, res, fmt.Errorf("write bilingual captions: %w", err)
	}
	if err := pipeline.WriteSRTFile(out.Target, res.Target); err != nil {
		return Outputs{}, res, fmt.Errorf("write target captions: %w", err)
	}

	logger.Info("translation complete",
		"cues", len(caps),
		"translated", res.Translated,
		"fallbacks", res.Fallbacks,
		"source", opts.Pass.Source,
		"target", opts.Pass.Target,
		"delay", opts.Pass.Delay,
		"elapsed", time.Since(start).Round(time.Millisecond),
		"bilingual", out.Bilingual,
		"target_only", out.Target)

	return out, res, nil
}
