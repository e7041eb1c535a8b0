package analysis

import (
	"strings"
	"testing"

	"github.com/pdflens/pdflens/internal/readtime"
)

func longText(words int) string {
	return strings.TrimSpace(strings.Repeat("meaningful wording ", (words+1)/2))
}

func TestFallbackAnalysisSchemaValid(t *testing.T) {
	tests := []struct {
		name string
		text string
		meta *InternalMetadata
	}{
		{"nil meta", "some text", nil},
		{"empty everything", "", &InternalMetadata{}},
		{"with metadata", longText(400), sampleMeta()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := FallbackAnalysis(tt.text, tt.meta, true)
			if err := ValidateResult(res); err != nil {
				t.Fatalf("fallback result invalid: %v", err)
			}
		})
	}
}

func TestFallbackShortTextComplexity(t *testing.T) {
	res := FallbackAnalysis("barely anything here", sampleMeta(), true)
	if res.Complexity.Score != 15 || res.Complexity.Level != "low" {
		t.Errorf("complexity = %+v, want low 15 for short text", res.Complexity)
	}
	if !res.Limitations.ShortOrNoisyInput {
		t.Errorf("short input not flagged")
	}
	if res.Complexity.Notes != "little text" {
		t.Errorf("notes = %q", res.Complexity.Notes)
	}
}

func TestFallbackLongTextComplexity(t *testing.T) {
	res := FallbackAnalysis(longText(400), sampleMeta(), true)
	if res.Complexity.Score != 40 || res.Complexity.Level != "medium" {
		t.Errorf("complexity = %+v, want medium 40", res.Complexity)
	}
	if res.Limitations.ShortOrNoisyInput {
		t.Errorf("long input flagged as short")
	}
}

func TestFallbackFilenameCategories(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"intro-to-programming.pdf", "Technology"},
		{"machine_learning_notes.pdf", "Machine Learning"},
		{"research-paper-2024.pdf", "Science"},
		{"market-report.pdf", "Business"},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			meta := sampleMeta()
			meta.SourceName = tt.source
			res := FallbackAnalysis(longText(400), meta, true)
			if res.Category.Label != tt.want {
				t.Errorf("category = %q, want %q", res.Category.Label, tt.want)
			}
			if res.Category.Basis != "filename" {
				t.Errorf("basis = %q, want filename", res.Category.Basis)
			}
		})
	}
}

func TestFallbackFilenameStem(t *testing.T) {
	meta := sampleMeta()
	meta.SourceName = "annual-summary.pdf"
	res := FallbackAnalysis(longText(400), meta, true)
	if res.Category.Label != "annual-summary" {
		t.Errorf("category = %q, want filename stem", res.Category.Label)
	}

	meta.SourceName = strings.Repeat("x", 60) + ".pdf"
	res = FallbackAnalysis(longText(400), meta, true)
	if res.Category.Label != "uncategorized" {
		t.Errorf("category = %q, want uncategorized for overlong stem", res.Category.Label)
	}
}

func TestFallbackHintsDisabled(t *testing.T) {
	meta := sampleMeta()
	meta.SourceName = "machine_learning_notes.pdf"
	res := FallbackAnalysis(longText(400), meta, false)
	if res.Category.Label != "uncategorized" || res.Category.Basis != "none" {
		t.Errorf("category = %+v, want neutral with hints disabled", res.Category)
	}
	if err := ValidateResult(res); err != nil {
		t.Errorf("result invalid: %v", err)
	}
}

func TestFallbackUsesReadingMetrics(t *testing.T) {
	meta := sampleMeta()
	meta.ReadingMetrics = &readtime.Metrics{
		WordCount:    5000,
		TotalMinutes: 27.5,
		Mode:         readtime.ModeAccurate,
	}
	res := FallbackAnalysis(longText(400), meta, true)
	if res.Volume.WordCount != 5000 {
		t.Errorf("word count = %d, want metrics value", res.Volume.WordCount)
	}
	if res.Volume.ReadingTimeMin != 27.5 {
		t.Errorf("reading time = %v, want metrics total", res.Volume.ReadingTimeMin)
	}
	if res.Volume.Method.WordCount != MethodContentScan {
		t.Errorf("method = %q, want content scan", res.Volume.Method.WordCount)
	}
}
