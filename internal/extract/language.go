package extract

import (
	"strings"
	"sync"

	"github.com/pemistahl/lingua-go"
)

const langSampleChars = 5000

var (
	detectorOnce sync.Once
	detector     lingua.LanguageDetector
)

// Candidate languages kept small on purpose: building a full lingua detector
// is expensive and the WPM tables only distinguish English from the rest.
func languageDetector() lingua.LanguageDetector {
	detectorOnce.Do(func() {
		detector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(
				lingua.English,
				lingua.Russian,
				lingua.German,
				lingua.French,
				lingua.Spanish,
			).
			Build()
	})
	return detector
}

// DetectLanguage returns a lowercase ISO 639-1 code for the text, or "" when
// detection is not confident enough.
func DetectLanguage(text string) string {
	sample := text
	if runes := []rune(sample); len(runes) > langSampleChars {
		sample = string(runes[:langSampleChars])
	}
	if strings.TrimSpace(sample) == "" {
		return ""
	}
	lang, ok := languageDetector().DetectLanguageOf(sample)
	if !ok {
		return ""
	}
	return strings.ToLower(lang.IsoCode639_1().String())
}
