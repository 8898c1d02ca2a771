package pages

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// DefaultLang is the language used when none is configured.
const DefaultLang = "en"

// available lists the sets in matcher order; the first entry is the fallback.
var available = []Set{English, Chinese}

var matcher = language.NewMatcher(func() []language.Tag {
	tags := make([]language.Tag, len(available))
	for i, s := range available {
		tags[i] = language.Make(s.Lang)
	}
	return tags
}())

// ParseLang validates a configured language tag.
// Both "zh-CN" and "zh_cn" style tags are accepted.
func ParseLang(lang string) (language.Tag, error) {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		lang = DefaultLang
	}

	tag, err := language.Parse(strings.ReplaceAll(lang, "_", "-"))
	if err != nil {
		return language.Und, fmt.Errorf("parse language %q: %w", lang, err)
	}
	return tag, nil
}

// ForLang selects the fragment set that best matches lang.
// Unknown or unsupported languages fall back to English.
func ForLang(lang string) Set {
	tag, err := ParseLang(lang)
	if err != nil {
		return English
	}

	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return English
	}
	return available[idx]
}

// Languages returns the tags of all available sets.
func Languages() []string {
	out := make([]string, len(available))
	for i, s := range available {
		out[i] = s.Lang
	}
	return out
}
