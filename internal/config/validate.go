package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Translation providers.
const (
	ProviderGoogle = "google"
	ProviderOpenAI = "openai"
)

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Subtitle.MaxWords < 1 {
		return errors.New("subtitle.max_words must be at least 1")
	}
	if c.Subtitle.MinCueMs < 0 {
		return errors.New("subtitle.min_cue_ms must not be negative")
	}
	if c.Subtitle.MaxLineChars < 0 {
		return errors.New("subtitle.max_line_chars must not be negative")
	}
	if err := c.validateSuffixes(); err != nil {
		return err
	}
	if err := c.validateTranslation(); err != nil {
		return err
	}
	if _, err := ParseLanguage(c.Download.SubLang); err != nil {
		return fmt.Errorf("download.sub_lang: %w", err)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "auto", "text", "json":
	default:
		return fmt.Errorf("logging.format %q must be auto, text, or json", c.Logging.Format)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q is not recognized", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateSuffixes() error {
	suffixes := map[string]string{
		"output.processed_suffix": c.Output.ProcessedSuffix,
		"output.text_suffix":      c.Output.TextSuffix,
		"output.bilingual_suffix": c.Output.BilingualSuffix,
		"output.target_suffix":    c.Output.TargetSuffix,
	}
	seen := make(map[string]string, len(suffixes))
	for _, key := range []string{
		"output.processed_suffix",
		"output.text_suffix",
		"output.bilingual_suffix",
		"output.target_suffix",
	} {
		value := suffixes[key]
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s must not be empty", key)
		}
		if strings.ContainsAny(value, `/\`) {
			return fmt.Errorf("%s %q must not contain a path separator", key, value)
		}
		if other, ok := seen[value]; ok {
			return fmt.Errorf("%s duplicates %s (%q)", key, other, value)
		}
		seen[value] = key
	}
	return nil
}

func (c *Config) validateTranslation() error {
	t := c.Translation
	if _, err := ParseLanguage(t.SourceLang); err != nil {
		return fmt.Errorf("translation.source_lang: %w", err)
	}
	if _, err := ParseLanguage(t.TargetLang); err != nil {
		return fmt.Errorf("translation.target_lang: %w", err)
	}
	if t.DelayMs < 0 {
		return errors.New("translation.delay_ms must not be negative")
	}
	if t.Concurrency < 1 {
		return errors.New("translation.concurrency must be at least 1")
	}
	if t.MaxRetries < 1 {
		return errors.New("translation.max_retries must be at least 1")
	}
	if t.CallTimeoutSec < 1 {
		return errors.New("translation.call_timeout_sec must be at least 1")
	}
	switch t.Provider {
	case ProviderGoogle:
	case ProviderOpenAI:
		if strings.TrimSpace(t.OpenAI.APIKey) == "" {
			return errors.New("translation.openai.api_key is required for the openai provider (or set OPENAI_API_KEY)")
		}
		if strings.TrimSpace(t.OpenAI.Model) == "" {
			return errors.New("translation.openai.model must not be empty")
		}
	default:
		return fmt.Errorf("translation.provider %q must be %s or %s", t.Provider, ProviderGoogle, ProviderOpenAI)
	}
	return nil
}

// OutputPath derives "<dir>/<name><suffix><ext>" from input. An empty ext
// keeps the input's extension.
func OutputPath(input, suffix, ext string) string {
	inExt := filepath.Ext(input)
	base := strings.TrimSuffix(input, inExt)
	if ext == "" {
		ext = inExt
	}
	return base + suffix + ext
}
