// Package translate provides machine translation backends and the wrappers
// the translation pass composes around them.
package translate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/DengYangGong/YT-AISpider/internal/config"
)

// ErrTranslationFailure wraps any backend error. Callers that want the
// source-text fallback use Safe instead of inspecting it.
var ErrTranslationFailure = errors.New("translation failed")

// Translator converts text from source to target language.
type Translator interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// Func adapts a plain function to Translator.
type Func func(ctx context.Context, text, source, target string) (string, error)

// Translate calls f.
func (f Func) Translate(ctx context.Context, text, source, target string) (string, error) {
	return f(ctx, text, source, target)
}

// New returns the backend selected by settings.Provider.
func New(settings config.TranslationSettings) (Translator, error) {
	switch settings.Provider {
	case config.ProviderGoogle, "":
		return NewGoogle(), nil
	case config.ProviderOpenAI:
		return NewOpenAI(settings.OpenAI)
	default:
		return nil, fmt.Errorf("unknown translation provider %q", settings.Provider)
	}
}

// previewRunes is how much of a failed source text is logged.
const previewRunes = 50

// Safe translates text through t and never fails: blank text comes back
// unchanged without calling t, and any error yields the original text plus a
// warning. ok reports whether the returned text is a real translation.
func Safe(ctx context.Context, t Translator, text, source, target string, logger *slog.Logger) (out string, ok bool) {
	if strings.TrimSpace(text) == "" {
		return text, true
	}
	if logger == nil {
		logger = slog.Default()
	}

	translated, err := t.Translate(ctx, text, source, target)
	if err != nil {
		logger.Warn("translation failed, keeping source text",
			"source", preview(text),
			"err", err)
		return text, false
	}
	return translated, true
}

func preview(text string) string {
	if utf8.RuneCountInString(text) <= previewRunes {
		return text
	}
	return string([]rune(text)[:previewRunes]) + "..."
}
