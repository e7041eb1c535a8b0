package analysis

import (
	"math"
	"strings"

	"github.com/pdflens/pdflens/internal/extract"
)

// filenameCategories maps source-name keywords onto category guesses. Only
// consulted when filename hints are enabled.
var filenameCategories = []struct {
	keywords []string
	label    string
	score    float64
	topics   []string
}{
	{[]string{"tech", "programming", "code", "dev", "github"}, "Technology", 0.8, []string{"programming", "development"}},
	{[]string{"ml", "ai", "machine", "learning", "neural", "data"}, "Machine Learning", 0.8, []string{"ML", "AI", "data"}},
	{[]string{"science", "research", "paper", "journal"}, "Science", 0.7, []string{"research", "science"}},
	{[]string{"business", "economy", "finance", "market"}, "Business", 0.7, []string{"economics", "finance"}},
}

// FallbackAnalysis produces a deterministic schema-valid result without any
// model call. It is the terminal degradation path: provider exhaustion, parse
// failure and explicit mock mode all land here.
func FallbackAnalysis(text string, meta *InternalMetadata, filenameHints bool) Result {
	if meta == nil {
		meta = &InternalMetadata{}
	}
	w1, _ := extract.CountWordsAndChars(text)
	lang := firstNonEmpty(meta.LangHint, extract.DetectLanguage(text), "en")

	var totalWords int
	var reading float64
	methodWC := MethodPrecomputed
	if meta.ReadingMetrics != nil && meta.ReadingMetrics.WordCount > 0 {
		totalWords = meta.ReadingMetrics.WordCount
		reading = math.Round(meta.ReadingMetrics.TotalMinutes*100) / 100
		methodWC = MethodContentScan
	} else {
		totalWords = meta.PrecomputedWordCount
		if totalWords == 0 {
			totalWords = w1
		}
		reading = readingMinutes(lang, totalWords)
	}

	avgCPW := extract.AvgCharsPerWord(text, w1)
	charCount := extract.EstimateCharCount(avgCPW, totalWords)

	var score int
	var level, note string
	if w1 < 150 {
		score, level, note = 15, "low", "little text"
	} else {
		score, level, note = 40, "medium", "heuristic without LLM"
	}

	category, topics := guessCategory(meta.SourceName, filenameHints)

	var pageCount, byteSize *int
	if meta.PageCount > 0 {
		pc := meta.PageCount
		pageCount = &pc
	}
	if meta.ByteSize > 0 {
		bs := meta.ByteSize
		byteSize = &bs
	}

	return Result{
		DocLanguage: lang,
		Volume: Volume{
			WordCount:      totalWords,
			CharCount:      charCount,
			PageCount:      pageCount,
			ByteSize:       byteSize,
			ReadingTimeMin: reading,
			Method:         VolumeMethod{WordCount: methodWC, CharCount: MethodNoSpaces},
		},
		Complexity: Complexity{
			Score:          score,
			Level:          level,
			EstimatedGrade: "school",
			Drivers:        []string{"heuristic estimate"},
			Notes:          note,
		},
		Topics:      topics,
		Category:    category,
		Limitations: Limitations{ShortOrNoisyInput: w1 < 150, Comments: note},
	}
}

// guessCategory derives a category from the source name. Without filename
// hints, or without a usable name, the result is neutral.
func guessCategory(sourceName string, filenameHints bool) (Category, []Topic) {
	defaultTopics := []Topic{{
		Label:     "General",
		Score:     0.5,
		Keywords:  []string{},
		Rationale: "default category",
	}}
	if !filenameHints {
		return Category{Label: "uncategorized", Basis: "none", Keywords: []string{}}, defaultTopics
	}

	name := strings.ToLower(sourceName)
	if name != "" {
		for _, fc := range filenameCategories {
			for _, kw := range fc.keywords {
				if strings.Contains(name, kw) {
					return Category{
							Label:    fc.label,
							Score:    0.6,
							Basis:    "filename",
							Keywords: []string{},
						}, []Topic{{
							Label:     fc.label,
							Score:     fc.score,
							Keywords:  fc.topics,
							Rationale: "filename heuristic",
						}}
				}
			}
		}
	}

	label := "uncategorized"
	if sourceName != "" {
		stem := sourceName
		if i := strings.LastIndexByte(stem, '/'); i >= 0 {
			stem = stem[i+1:]
		}
		if i := strings.IndexByte(stem, '.'); i >= 0 {
			stem = stem[:i]
		}
		if stem != "" && len(stem) <= 50 {
			label = stem
		}
	}

	return Category{
		Label:    label,
		Score:    0.6,
		Basis:    "filename",
		Keywords: []string{},
	}, defaultTopics
}
