package analysis

import "strings"

// NewCategoryDef builds a definition with trimmed fields and a non-nil
// keyword list.
func NewCategoryDef(label, description string, keywords []string) CategoryDef {
	if keywords == nil {
		keywords = []string{}
	}
	return CategoryDef{
		Label:       strings.TrimSpace(label),
		Description: strings.TrimSpace(description),
		Keywords:    keywords,
	}
}

// normalizeDecision repairs the fields models routinely get wrong: unknown
// decision values, a missing category label, nil keyword lists, and an
// inconsistent existing_label.
func normalizeDecision(dec CategoryDecision, raw map[string]any) CategoryDecision {
	switch dec.Decision {
	case DecisionMatchedExisting, DecisionCreatedNew:
	default:
		dec.Decision = DecisionCreatedNew
	}

	if dec.Category.Label == "" {
		if cat := asMap(raw["category"]); cat != nil {
			dec.Category.Label = firstNonEmpty(
				asString(cat["label"]), asString(cat["name"]), asString(cat["title"]),
			)
		}
	}
	if dec.Category.Label == "" {
		dec.Category.Label = "uncategorized"
	}
	if dec.Category.Basis == "" {
		dec.Category.Basis = "llm"
	}
	if dec.Category.Keywords == nil {
		dec.Category.Keywords = []string{}
	}

	if dec.Decision == DecisionMatchedExisting {
		if dec.ExistingLabel == nil || *dec.ExistingLabel == "" {
			label := dec.Category.Label
			dec.ExistingLabel = &label
		}
		dec.NewCategoryDef = nil
	} else {
		dec.ExistingLabel = nil
		if dec.NewCategoryDef == nil {
			dec.NewCategoryDef = &CategoryDef{
				Label:    dec.Category.Label,
				Keywords: dec.Category.Keywords,
			}
		}
		if dec.NewCategoryDef.Keywords == nil {
			dec.NewCategoryDef.Keywords = []string{}
		}
	}
	return dec
}

// MatchCategoryLabel reports whether label names one of the definitions,
// ignoring case and surrounding space.
func MatchCategoryLabel(label string, existing []CategoryDef) (CategoryDef, bool) {
	needle := strings.ToLower(strings.TrimSpace(label))
	for _, def := range existing {
		if strings.ToLower(strings.TrimSpace(def.Label)) == needle {
			return def, true
		}
	}
	return CategoryDef{}, false
}
