package analysis

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"

	"github.com/pdflens/pdflens/internal/common"
	"github.com/pdflens/pdflens/internal/extract"
	"github.com/pdflens/pdflens/internal/readtime"
)

// Generator produces model output for a prompt. *llm.Router satisfies it.
type Generator interface {
	Generate(ctx context.Context, prompt, systemPrompt string) (content, provider string, err error)
}

// Analyzer runs the analysis flow: model call, repair, normalization, and
// heuristic degradation. Analyze never returns an error for model-side
// failures; the result is always complete.
type Analyzer struct {
	cfg    common.AnalysisConfig
	logger *slog.Logger
	gen    Generator
}

// NewAnalyzer builds an Analyzer. A nil gen skips the model entirely and
// every call takes the heuristic path.
func NewAnalyzer(cfg common.AnalysisConfig, gen Generator, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{cfg: cfg, logger: logger, gen: gen}
}

// Analyze produces a complete analysis of the document text.
func (a *Analyzer) Analyze(ctx context.Context, text string, meta *InternalMetadata) Result {
	if meta == nil {
		meta = &InternalMetadata{}
	}
	if meta.PrecomputedWordCount == 0 {
		wc, cc := extract.CountWordsAndChars(text)
		meta.PrecomputedWordCount = wc
		if meta.CharCount == 0 {
			meta.CharCount = cc
		}
	}

	if a.gen == nil {
		a.logger.Info("analysis.heuristic", "reason", "no generator configured")
		return FallbackAnalysis(text, meta, a.cfg.FilenameCategoryHints)
	}

	content, provider, err := a.gen.Generate(ctx, BuildUserPrompt(text, meta.ForPrompt()), SystemPrompt)
	if err != nil {
		a.logger.Warn("analysis.llm_failed", "error", err)
		return FallbackAnalysis(text, meta, a.cfg.FilenameCategoryHints)
	}

	data, err := ParseLooseJSON(content)
	if err != nil {
		a.logger.Warn("analysis.unparseable", "provider", provider, "error", err)
		return FallbackAnalysis(text, meta, a.cfg.FilenameCategoryHints)
	}

	res := Normalize(data, meta, text)
	a.postprocessReadingTime(&res, meta)

	if err := ValidateResult(res); err != nil {
		// Normalization guarantees the shape; a failure here is a bug worth
		// logging, not a reason to discard the result.
		a.logger.Warn("analysis.schema_mismatch", "provider", provider, "error", err)
	}
	a.logger.Info("analysis.ok",
		"provider", provider,
		"category", res.Category.Label,
		"words", res.Volume.WordCount,
	)
	return res
}

// postprocessReadingTime recomputes the reading time from the host-side word
// count and the model-reported complexity level, overriding whatever number
// the model produced.
func (a *Analyzer) postprocessReadingTime(res *Result, meta *InternalMetadata) {
	words := meta.PrecomputedWordCount
	if words == 0 && meta.ReadingMetrics != nil {
		words = meta.ReadingMetrics.WordCount
	}
	if words == 0 {
		return
	}

	lang := firstNonEmpty(res.DocLanguage, meta.LangHint, "en")
	level := readtime.ParseLevel(res.Complexity.Level)
	eff := readtime.EffectiveWPM(lang, level)

	tText := math.Round(float64(words)/float64(eff)*100) / 100
	tNontext := 0.0
	if meta.ReadingMetrics != nil {
		tNontext = math.Round(float64(meta.ReadingMetrics.NontextSeconds())/60*100) / 100
	}

	res.Volume.WordCount = words
	res.Volume.ReadingTimeMin = math.Round((tText+tNontext)*10) / 10
	res.Volume.Method.WordCount = MethodContentScan
}

// ClassifyOrCreateCategory matches the document against existing categories
// or proposes a new one. Model failures degrade to a neutral created_new
// decision; the call never returns an error.
func (a *Analyzer) ClassifyOrCreateCategory(ctx context.Context, text string, meta *InternalMetadata, existing []CategoryDef) CategoryDecision {
	if meta == nil {
		meta = &InternalMetadata{}
	}

	if a.gen == nil {
		return neutralDecision()
	}

	prompt := BuildCategoryPrompt(text, meta.ForPrompt(), existing)
	content, provider, err := a.gen.Generate(ctx, prompt, CategorySystemPrompt)
	if err != nil {
		a.logger.Warn("analysis.category.llm_failed", "error", err)
		return neutralDecision()
	}

	dec, err := decodeCategoryDecision(content)
	if err != nil {
		a.logger.Warn("analysis.category.unparseable", "provider", provider, "error", err)
		return neutralDecision()
	}

	a.logger.Info("analysis.category.ok",
		"provider", provider,
		"decision", dec.Decision,
		"label", dec.Category.Label,
	)
	return dec
}

// DefineCategory always proposes a new category for the document, even when
// the model matched an existing one.
func (a *Analyzer) DefineCategory(ctx context.Context, text string, meta *InternalMetadata) CategoryDecision {
	dec := a.ClassifyOrCreateCategory(ctx, text, meta, nil)
	if dec.Decision == DecisionMatchedExisting {
		dec.Decision = DecisionCreatedNew
		dec.ExistingLabel = nil
		dec.NewCategoryDef = &CategoryDef{
			Label:       dec.Category.Label,
			Description: "automatically created category",
			Keywords:    dec.Category.Keywords,
		}
	}
	return dec
}

func decodeCategoryDecision(content string) (CategoryDecision, error) {
	data, err := ParseLooseJSON(content)
	if err != nil {
		return CategoryDecision{}, err
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return CategoryDecision{}, err
	}
	var dec CategoryDecision
	if err := json.Unmarshal(raw, &dec); err != nil {
		return CategoryDecision{}, err
	}

	dec = normalizeDecision(dec, data)
	if err := ValidateCategoryDecision(dec); err != nil {
		// Shape is already coerced; a residual mismatch is tolerable as long
		// as the decision core is present.
		if dec.Decision == "" || dec.Category.Label == "" {
			return CategoryDecision{}, err
		}
	}
	return dec, nil
}

func neutralDecision() CategoryDecision {
	return CategoryDecision{
		Decision: DecisionCreatedNew,
		Category: Category{
			Label:    "uncategorized",
			Score:    0.0,
			Basis:    "unknown",
			Keywords: []string{},
		},
		ExistingLabel: nil,
		NewCategoryDef: &CategoryDef{
			Label:       "uncategorized",
			Description: "created without model assistance",
			Keywords:    []string{},
		},
	}
}
