// Package i18n holds the languages stories can be written in and the
// interface strings shown to children and parents.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// DefaultCode is the language used when none is set or recognised
const DefaultCode = "en"

// Language is one language a story can be written in
type Language struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Native string `json:"native"`
	Flag   string `json:"flag"`
}

var languages = []Language{
	{Code: "en", Name: "English", Native: "English", Flag: "🇺🇸"},
	{Code: "ms", Name: "Malay", Native: "Bahasa Melayu", Flag: "🇲🇾"},
	{Code: "es", Name: "Spanish", Native: "Español", Flag: "🇪🇸"},
	{Code: "fr", Name: "French", Native: "Français", Flag: "🇫🇷"},
	{Code: "de", Name: "German", Native: "Deutsch", Flag: "🇩🇪"},
	{Code: "it", Name: "Italian", Native: "Italiano", Flag: "🇮🇹"},
	{Code: "pt", Name: "Portuguese", Native: "Português", Flag: "🇧🇷"},
	{Code: "zh", Name: "Chinese", Native: "中文", Flag: "🇨🇳"},
	{Code: "ja", Name: "Japanese", Native: "日本語", Flag: "🇯🇵"},
	{Code: "ko", Name: "Korean", Native: "한국어", Flag: "🇰🇷"},
	{Code: "ar", Name: "Arabic", Native: "العربية", Flag: "🇸🇦"},
	{Code: "hi", Name: "Hindi", Native: "हिन्दी", Flag: "🇮🇳"},
}

var matcher = newMatcher()

func newMatcher() language.Matcher {
	tags := make([]language.Tag, len(languages))
	for i, l := range languages {
		tags[i] = language.Make(l.Code)
	}
	return language.NewMatcher(tags)
}

// Languages returns the supported languages in display order
func Languages() []Language {
	return append([]Language(nil), languages...)
}

// Lookup finds a language by code
func Lookup(code string) (Language, bool) {
	code = strings.ToLower(strings.TrimSpace(code))
	for _, l := range languages {
		if l.Code == code {
			return l, true
		}
	}
	return Language{}, false
}

// Supported reports whether code is a supported language
func Supported(code string) bool {
	_, ok := Lookup(code)
	return ok
}

// LanguageName returns the English name of code, used in story prompts.
// Unknown codes map to English.
func LanguageName(code string) string {
	if l, ok := Lookup(code); ok {
		return l.Name
	}
	return "English"
}

// Match picks the best supported language for an Accept-Language header
func Match(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return DefaultCode
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return DefaultCode
	}
	return languages[idx].Code
}
