package config

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// CJK base languages.
var cjkBases = map[string]bool{
	"zh": true,
	"ja": true,
	"ko": true,
}

// ParseLanguage validates a BCP 47 language code such as "en" or "zh-CN".
func ParseLanguage(code string) (language.Tag, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return language.Und, fmt.Errorf("empty language code")
	}
	tag, err := language.Parse(code)
	if err != nil {
		return language.Und, fmt.Errorf("language code %q: %w", code, err)
	}
	return tag, nil
}

// IsCJK reports whether code is Chinese, Japanese, or Korean.
func IsCJK(code string) bool {
	tag, err := ParseLanguage(code)
	if err != nil {
		return false
	}
	base, _ := tag.Base()
	return cjkBases[base.String()]
}

// DefaultLineChars returns a display line width suited to code.
func DefaultLineChars(code string) int {
	if IsCJK(code) {
		return 25
	}
	return 42
}
