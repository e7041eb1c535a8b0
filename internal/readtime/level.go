package readtime

import "strings"

// Level is the canonical complexity level used to slow down or speed up the
// effective reading speed.
type Level string

const (
	LevelVeryLow  Level = "very-low"
	LevelLow      Level = "low"
	LevelMedium   Level = "medium"
	LevelHigh     Level = "high"
	LevelVeryHigh Level = "very-high"
)

// factorByLevel scales the base words-per-minute for a language.
var factorByLevel = map[Level]float64{
	LevelVeryLow:  1.10,
	LevelLow:      1.00,
	LevelMedium:   0.85,
	LevelHigh:     0.70,
	LevelVeryHigh: 0.55,
}

// levelAliases maps LLM-reported level names, including the Russian ones the
// models tend to emit, onto the canonical levels.
var levelAliases = map[string]Level{
	"very-low":      LevelVeryLow,
	"very low":      LevelVeryLow,
	"очень низкая":  LevelVeryLow,
	"low":           LevelLow,
	"низкая":        LevelLow,
	"medium":        LevelMedium,
	"средняя":       LevelMedium,
	"high":          LevelHigh,
	"высокая":       LevelHigh,
	"very-high":     LevelVeryHigh,
	"very high":     LevelVeryHigh,
	"очень высокая": LevelVeryHigh,
}

// ParseLevel maps a free-form level name onto a canonical Level.
// Unknown names resolve to LevelMedium.
func ParseLevel(s string) Level {
	if lvl, ok := levelAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return lvl
	}
	return LevelMedium
}

// BaseWPM returns the base reading speed for a language hint: 200 for
// English-like text, 180 otherwise.
func BaseWPM(lang string) int {
	if strings.HasPrefix(strings.ToLower(lang), "en") {
		return 200
	}
	return 180
}

// EffectiveWPM applies the complexity factor to the base speed, with a floor
// of 60 words per minute.
func EffectiveWPM(lang string, level Level) int {
	k, ok := factorByLevel[level]
	if !ok {
		k = factorByLevel[LevelMedium]
	}
	wpm := int(float64(BaseWPM(lang)) * k)
	if wpm < 60 {
		wpm = 60
	}
	return wpm
}
