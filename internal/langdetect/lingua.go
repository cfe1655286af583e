// Package langdetect guesses the language of a document for --source auto.
package langdetect

import (
	"strings"
	"sync"
	"unicode"

	lingua "github.com/pemistahl/lingua-go"
)

// Auto is the source language value that triggers detection
const Auto = "auto"

var (
	detectorOnce sync.Once
	detector     lingua.LanguageDetector
)

// supported limits detection to languages the prompts know by name
var supported = []lingua.Language{
	lingua.Bulgarian,
	lingua.Chinese,
	lingua.Dutch,
	lingua.English,
	lingua.French,
	lingua.German,
	lingua.Italian,
	lingua.Japanese,
	lingua.Korean,
	lingua.Polish,
	lingua.Portuguese,
	lingua.Russian,
	lingua.Spanish,
	lingua.Swedish,
	lingua.Ukrainian,
}

// DetectISO6391 returns the lowercase ISO 639-1 code of text, or "" when
// the sample is too short or the language is not recognised.
func DetectISO6391(text string) string {
	sample := strings.TrimSpace(text)
	if sample == "" {
		return ""
	}

	letterCount := 0
	for _, r := range sample {
		if unicode.IsLetter(r) {
			letterCount++
		}
	}
	if letterCount < 6 {
		return ""
	}

	language, exists := getDetector().DetectLanguageOf(sample)
	if !exists {
		return ""
	}

	code := strings.ToLower(language.IsoCode639_1().String())
	if len(code) != 2 {
		return ""
	}
	return code
}

// Resolve returns lang unless it is Auto, in which case the language of text
// is detected and fallback is used when detection fails.
func Resolve(lang, text, fallback string) string {
	if !strings.EqualFold(lang, Auto) {
		return lang
	}
	if code := DetectISO6391(text); code != "" {
		return code
	}
	return fallback
}

func getDetector() lingua.LanguageDetector {
	detectorOnce.Do(func() {
		detector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(supported...).
			Build()
	})
	return detector
}
