// Package analysis orchestrates document analysis: it prompts the provider
// chain, repairs and normalizes the model output into a fixed result shape,
// and degrades to a deterministic heuristic when no provider can answer.
package analysis

import "github.com/pdflens/pdflens/internal/readtime"

// Volume describes how big the document is and how it was measured.
// PageCount and ByteSize are nil when the source did not report them.
type Volume struct {
	WordCount      int          `json:"word_count"`
	CharCount      int          `json:"char_count"`
	PageCount      *int         `json:"page_count"`
	ByteSize       *int         `json:"byte_size"`
	ReadingTimeMin float64      `json:"reading_time_min"`
	Method         VolumeMethod `json:"method"`
}

// VolumeMethod names the provenance of each volume figure.
type VolumeMethod struct {
	WordCount string `json:"word_count"`
	CharCount string `json:"char_count"`
}

// Method names used in VolumeMethod.
const (
	MethodContentScan = "content_based_full_scan"
	MethodPrecomputed = "precomputed"
	MethodNoSpaces    = "estimated_no_spaces"
)

// Complexity scores the text on a 1-100 scale with a coarse level label.
type Complexity struct {
	Score          int      `json:"score"`
	Level          string   `json:"level"`
	EstimatedGrade string   `json:"estimated_grade"`
	Drivers        []string `json:"drivers"`
	Notes          string   `json:"notes"`
}

// Topic is one subject the document covers.
type Topic struct {
	Label     string   `json:"label"`
	Score     float64  `json:"score"`
	Keywords  []string `json:"keywords"`
	Rationale string   `json:"rationale"`
}

// Category is the single assigned document category.
type Category struct {
	Label    string   `json:"label"`
	Score    float64  `json:"score"`
	Basis    string   `json:"basis"`
	Keywords []string `json:"keywords"`
}

// Limitations flags inputs the analysis could not fully trust.
type Limitations struct {
	ShortOrNoisyInput bool   `json:"short_or_noisy_input"`
	Comments          string `json:"comments"`
}

// Result is the complete analysis output. Every field is always populated;
// callers never see a partial result.
type Result struct {
	DocLanguage string      `json:"doc_language"`
	Volume      Volume      `json:"volume"`
	Complexity  Complexity  `json:"complexity"`
	Topics      []Topic     `json:"topics"`
	Category    Category    `json:"category"`
	Limitations Limitations `json:"limitations"`
}

// CategoryDef describes a category a document could be filed under.
type CategoryDef struct {
	Label       string   `json:"label"`
	Description string   `json:"description,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
}

// Decision values of CategoryDecision.
const (
	DecisionMatchedExisting = "matched_existing"
	DecisionCreatedNew      = "created_new"
)

// CategoryDecision is the outcome of classifying a document against a set of
// existing categories.
type CategoryDecision struct {
	Decision       string       `json:"decision"`
	Category       Category     `json:"category"`
	ExistingLabel  *string      `json:"existing_label"`
	NewCategoryDef *CategoryDef `json:"new_category_def"`
}

// LlmMetadata is the document metadata serialized into prompts. It carries
// only what the model should see.
type LlmMetadata struct {
	ByteSize             int    `json:"byte_size"`
	PageCount            int    `json:"page_count"`
	PrecomputedWordCount int    `json:"precomputed_word_count"`
	CharCount            int    `json:"char_count,omitempty"`
	LangHint             string `json:"lang_hint,omitempty"`
	SourceName           string `json:"source_name,omitempty"`
	TOCPreview           string `json:"toc_preview,omitempty"`
}

// InternalMetadata is LlmMetadata plus host-side reading metrics that stay
// out of prompts but drive normalization and the heuristic fallback.
type InternalMetadata struct {
	LlmMetadata
	ReadingMetrics *readtime.Metrics
}

// ForPrompt returns the prompt-safe metadata view.
func (m *InternalMetadata) ForPrompt() LlmMetadata {
	return m.LlmMetadata
}
