package extract

import (
	"regexp"
	"strings"
)

var (
	spaceRe = regexp.MustCompile(`\s+`)
	urlRe   = regexp.MustCompile(`(?i)^https?://`)
	punctRe = regexp.MustCompile(`\W+`)
)

func normalizeSpaces(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

// CountWordsAndChars counts word tokens and non-space characters. Tokens that
// are URLs or collapse to a single character are not words.
func CountWordsAndChars(text string) (wordCount, charCount int) {
	for _, tok := range strings.Fields(text) {
		if urlRe.MatchString(tok) {
			continue
		}
		if len([]rune(punctRe.ReplaceAllString(tok, ""))) <= 1 {
			continue
		}
		wordCount++
	}
	charCount = len([]rune(strings.ReplaceAll(normalizeSpaces(text), " ", "")))
	return wordCount, charCount
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// EstimateTotalWords projects a whole-document word count from the first
// page. Preference order: first-page density clamped into 60..900 words/page,
// then byte-size density (~6 bytes per word), then a flat 300 words/page.
func EstimateTotalWords(firstPageWords, pageCount, byteSize int) int {
	if pageCount > 0 && firstPageWords >= 30 {
		wordsPerPage := int(clamp(float64(firstPageWords), 60, 900))
		return wordsPerPage * pageCount
	}
	if pageCount > 0 && byteSize > 0 {
		approx := float64(byteSize) / float64(pageCount) / 6.0
		return int(clamp(approx, 60, 900)) * pageCount
	}
	if pageCount > 0 {
		return 300 * pageCount
	}
	return 300
}

// AvgCharsPerWord estimates character density from the first page, clamped
// into a plausible 4.5..6.5 range.
func AvgCharsPerWord(firstPageText string, firstPageWords int) float64 {
	noSpaces := len([]rune(strings.ReplaceAll(normalizeSpaces(firstPageText), " ", "")))
	if firstPageWords < 1 {
		firstPageWords = 1
	}
	return clamp(float64(noSpaces)/float64(firstPageWords), 4.5, 6.5)
}

// EstimateCharCount projects a whole-document character count.
func EstimateCharCount(avgCharsPerWord float64, totalWords int) int {
	return int(float64(totalWords)*avgCharsPerWord + 0.5)
}
