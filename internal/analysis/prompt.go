package analysis

import (
	"encoding/json"
	"strings"
)

// promptTextLimit caps the document text embedded in a prompt.
const promptTextLimit = 20000

// SystemPrompt frames the analysis task for the model.
const SystemPrompt = "Document analysis (volume, complexity, topics, category).\n\n" +
	"Role: you are a careful PDF text analyzer. Given the provided document content, " +
	"determine its volume, overall text complexity, topics and category, and return " +
	"strictly valid JSON.\n\n" +
	"Follow the output schema exactly. Do not use Markdown; return a single JSON object."

// CategorySystemPrompt frames the categorization task for the model.
const CategorySystemPrompt = "Document categorization: classify the document into one of the " +
	"existing categories or create a new one. Return strictly valid JSON."

// BuildUserPrompt assembles the analysis prompt from the first-page text and
// the prompt-safe metadata.
func BuildUserPrompt(text string, meta LlmMetadata) string {
	metaJSON, _ := json.Marshal(meta)
	var b strings.Builder
	b.WriteString("Input for PDF analysis.\n")
	b.WriteString("Important: TEXT is only the first page of the document (to save context).\n")
	b.WriteString("Estimate volume/reading time from META; if precomputed_word_count is present, use it as the primary source of truth.\n")
	b.WriteString("Do not invent page_count/byte_size; use the META values or null.\n")
	b.WriteString("Also determine the document category from TEXT (the first page) and/or META.source_name (file name or last URL segment).\n")
	b.WriteString("Return a category field: {label, score, basis, keywords}.\n\n")
	b.WriteString("TEXT (first page, may be truncated):\n")
	b.WriteString(truncateRunes(text, promptTextLimit))
	b.WriteString("\n\nMETA (JSON):\n")
	b.Write(metaJSON)
	return b.String()
}

// BuildCategoryPrompt assembles the categorization prompt. Existing category
// definitions are embedded as JSON so the model can match against them.
func BuildCategoryPrompt(text string, meta LlmMetadata, existing []CategoryDef) string {
	if existing == nil {
		existing = []CategoryDef{}
	}
	metaJSON, _ := json.Marshal(meta)
	existingJSON, _ := json.Marshal(existing)

	var b strings.Builder
	b.WriteString("Classify the document into one of the existing categories or create a new one.\n")
	b.WriteString("Return strictly valid JSON of the form:\n")
	b.WriteString(`{"decision": "matched_existing" | "created_new", "category": {label, score, basis, keywords}, "existing_label": string | null, "new_category_def": {label, description, keywords} | null}`)
	b.WriteString("\n\nEXISTING_CATEGORIES (JSON):\n")
	b.Write(existingJSON)
	b.WriteString("\n\nTEXT (first page, may be truncated):\n")
	b.WriteString(truncateRunes(text, promptTextLimit))
	b.WriteString("\n\nMETA (JSON):\n")
	b.Write(metaJSON)
	return b.String()
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n])
	}
	return s
}
