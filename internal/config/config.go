package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

//go:embed sample_config.toml
var sampleConfig string

// EnvConfigPath names the environment variable that points at a config file.
const EnvConfigPath = "YT_AISPIDER_CONFIG"

// SubtitleSettings holds the caption resegmentation parameters.
type SubtitleSettings struct {
	MaxWords     int `toml:"max_words" yaml:"max_words"`
	MinCueMs     int `toml:"min_cue_ms" yaml:"min_cue_ms"`
	MaxLineChars int `toml:"max_line_chars" yaml:"max_line_chars"`
}

// OutputSettings controls output file naming.
type OutputSettings struct {
	ProcessedSuffix string `toml:"processed_suffix" yaml:"processed_suffix"`
	TextSuffix      string `toml:"text_suffix" yaml:"text_suffix"`
	SaveText        bool   `toml:"save_text" yaml:"save_text"`
	BilingualSuffix string `toml:"bilingual_suffix" yaml:"bilingual_suffix"`
	TargetSuffix    string `toml:"target_suffix" yaml:"target_suffix"`
}

// OpenAISettings configures the OpenAI-compatible translation backend.
type OpenAISettings struct {
	APIKey  string `toml:"api_key" yaml:"api_key"`
	BaseURL string `toml:"base_url" yaml:"base_url"`
	Model   string `toml:"model" yaml:"model"`
}

// TranslationSettings configures the translation pass.
type TranslationSettings struct {
	Provider       string         `toml:"provider" yaml:"provider"`
	SourceLang     string         `toml:"source_lang" yaml:"source_lang"`
	TargetLang     string         `toml:"target_lang" yaml:"target_lang"`
	DelayMs        int            `toml:"delay_ms" yaml:"delay_ms"`
	Concurrency    int            `toml:"concurrency" yaml:"concurrency"`
	MaxRetries     int            `toml:"max_retries" yaml:"max_retries"`
	CallTimeoutSec int            `toml:"call_timeout_sec" yaml:"call_timeout_sec"`
	CacheEnabled   bool           `toml:"cache_enabled" yaml:"cache_enabled"`
	CachePath      string         `toml:"cache_path" yaml:"cache_path"`
	OpenAI         OpenAISettings `toml:"openai" yaml:"openai"`
}

// DownloadSettings configures caption acquisition through yt-dlp.
type DownloadSettings struct {
	SubtitleDir   string `toml:"subtitle_dir" yaml:"subtitle_dir"`
	VideoDir      string `toml:"video_dir" yaml:"video_dir"`
	SubLang       string `toml:"sub_lang" yaml:"sub_lang"`
	DownloadVideo bool   `toml:"download_video" yaml:"download_video"`
	AutoInstall   bool   `toml:"auto_install" yaml:"auto_install"`
	YtDlpPath     string `toml:"yt_dlp_path" yaml:"yt_dlp_path"`
}

// LoggingSettings controls log output.
type LoggingSettings struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
}

// Config holds the full application configuration.
type Config struct {
	Subtitle    SubtitleSettings    `toml:"subtitle" yaml:"subtitle"`
	Output      OutputSettings      `toml:"output" yaml:"output"`
	Translation TranslationSettings `toml:"translation" yaml:"translation"`
	Download    DownloadSettings    `toml:"download" yaml:"download"`
	Logging     LoggingSettings     `toml:"logging" yaml:"logging"`
}

// Default returns a Config with the stock defaults.
func Default() *Config {
	return &Config{
		Subtitle: SubtitleSettings{
			MaxWords: 23,
			MinCueMs: 300,
		},
		Output: OutputSettings{
			ProcessedSuffix: "_processed",
			TextSuffix:      "_text",
			SaveText:        true,
			BilingualSuffix: "_bilingual",
			TargetSuffix:    "_zh",
		},
		Translation: TranslationSettings{
			Provider:       ProviderGoogle,
			SourceLang:     "en",
			TargetLang:     "zh-CN",
			DelayMs:        400,
			Concurrency:    1,
			MaxRetries:     3,
			CallTimeoutSec: 30,
			CacheEnabled:   true,
			CachePath:      "~/.cache/yt-aispider/translations.db",
			OpenAI: OpenAISettings{
				BaseURL: "https://api.openai.com/v1",
				Model:   "gpt-4o-mini",
			},
		},
		Download: DownloadSettings{
			SubtitleDir: "./subtitle",
			VideoDir:    "./video",
			SubLang:     "en",
			AutoInstall: true,
		},
		Logging: LoggingSettings{
			Level:  "info",
			Format: "auto",
		},
	}
}

// Load returns defaults overlaid with the file at path. TOML is assumed unless
// the extension is .yaml or .yml. An empty path falls back to $YT_AISPIDER_CONFIG
// and then to the default location; a missing default file is not an error.
func Load(path string) (*Config, string, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = os.Getenv(EnvConfigPath)
		explicit = path != ""
	}
	if !explicit {
		p, err := DefaultConfigPath()
		if err != nil {
			return nil, "", err
		}
		path = p
	}

	resolved, err := ExpandPath(path)
	if err != nil {
		return nil, "", err
	}

	data, err := os.ReadFile(resolved)
	switch {
	case err == nil:
		if err := decode(resolved, data, cfg); err != nil {
			return nil, "", err
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		resolved = ""
	default:
		return nil, "", fmt.Errorf("read config: %w", err)
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, resolved, nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parse yaml config: %w", err)
		}
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parse toml config: %w", err)
		}
	}
	return nil
}

func (c *Config) applyEnv() {
	if c.Translation.OpenAI.APIKey == "" {
		c.Translation.OpenAI.APIKey = strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	}
}

// DefaultConfigPath returns ~/.config/yt-aispider/config.toml.
func DefaultConfigPath() (string, error) {
	return ExpandPath("~/.config/yt-aispider/config.toml")
}

// ExpandPath resolves a leading ~ and makes the path absolute.
func ExpandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

// CreateSample writes the commented sample configuration to path. Existing
// files are left alone unless force is set.
func CreateSample(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
