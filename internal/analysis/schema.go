package analysis

// ResultSchema is the JSON Schema every analysis result must satisfy.
func ResultSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"doc_language": map[string]any{"type": "string"},
			"volume": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"word_count":       map[string]any{"type": "integer"},
					"char_count":       map[string]any{"type": "integer"},
					"page_count":       map[string]any{"type": []any{"integer", "null"}},
					"byte_size":        map[string]any{"type": []any{"integer", "null"}},
					"reading_time_min": map[string]any{"type": "number"},
					"method": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"word_count": map[string]any{"type": "string"},
							"char_count": map[string]any{"type": "string"},
						},
						"required": []any{"word_count", "char_count"},
					},
				},
				"required": []any{
					"word_count", "char_count", "page_count",
					"byte_size", "reading_time_min", "method",
				},
			},
			"complexity": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"score":           map[string]any{"type": "integer"},
					"level":           map[string]any{"type": "string"},
					"estimated_grade": map[string]any{"type": "string"},
					"drivers":         map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					"notes":           map[string]any{"type": "string"},
				},
				"required": []any{"score", "level", "estimated_grade", "drivers", "notes"},
			},
			"topics": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"label":     map[string]any{"type": "string"},
						"score":     map[string]any{"type": "number"},
						"keywords":  map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
						"rationale": map[string]any{"type": "string"},
					},
					"required": []any{"label", "score", "keywords", "rationale"},
				},
				"maxItems": 6,
			},
			"category": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"label":    map[string]any{"type": "string"},
					"score":    map[string]any{"type": "number"},
					"basis":    map[string]any{"type": "string"},
					"keywords": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				},
				"required": []any{"label", "score", "basis", "keywords"},
			},
			"limitations": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"short_or_noisy_input": map[string]any{"type": "boolean"},
					"comments":             map[string]any{"type": "string"},
				},
				"required": []any{"short_or_noisy_input", "comments"},
			},
		},
		"required": []any{"doc_language", "volume", "complexity", "topics", "category", "limitations"},
	}
}

// CategoryDecisionSchema is the JSON Schema for category decisions.
func CategoryDecisionSchema() map[string]any {
	categoryProps := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"label":    map[string]any{"type": "string"},
			"score":    map[string]any{"type": "number"},
			"basis":    map[string]any{"type": "string"},
			"keywords": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
		"required": []any{"label", "score", "basis", "keywords"},
	}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"decision": map[string]any{
				"type": "string",
				"enum": []any{DecisionMatchedExisting, DecisionCreatedNew},
			},
			"category":       categoryProps,
			"existing_label": map[string]any{"type": []any{"string", "null"}},
			"new_category_def": map[string]any{
				"type": []any{"object", "null"},
				"properties": map[string]any{
					"label":       map[string]any{"type": "string"},
					"description": map[string]any{"type": "string"},
					"keywords":    map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				},
				"required": []any{"label"},
			},
		},
		"required": []any{"decision", "category"},
	}
}
