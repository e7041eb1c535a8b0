package analysis

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pdflens/pdflens/internal/common"
	"github.com/pdflens/pdflens/internal/extract"
)

// Pipeline ties extraction and analysis into single calls per document.
type Pipeline struct {
	extractor *extract.Extractor
	analyzer  *Analyzer
	logger    *slog.Logger
}

func NewPipeline(extractor *extract.Extractor, analyzer *Analyzer, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{extractor: extractor, analyzer: analyzer, logger: logger}
}

// MetadataFromDocument builds the analysis metadata for an extracted
// document.
func MetadataFromDocument(doc *extract.ExtractedDocument) *InternalMetadata {
	return &InternalMetadata{
		LlmMetadata: LlmMetadata{
			ByteSize:             doc.ByteSize,
			PageCount:            doc.PageCount,
			PrecomputedWordCount: doc.WordCountHint,
			LangHint:             doc.LanguageHint,
			SourceName:           doc.SourceName,
			TOCPreview:           doc.TOCPreview,
		},
		ReadingMetrics: doc.Metrics,
	}
}

// AnalyzePath extracts a local PDF and analyzes it. Extraction errors are
// returned; analysis itself always succeeds.
func (p *Pipeline) AnalyzePath(ctx context.Context, path string) (*extract.ExtractedDocument, Result, error) {
	ctx, reqID := p.requestContext(ctx)
	start := time.Now()

	doc, err := p.extractor.FromPath(ctx, path)
	if err != nil {
		return nil, Result{}, err
	}
	res := p.analyzer.Analyze(ctx, doc.Text, MetadataFromDocument(doc))
	p.logger.Info("pipeline.ok",
		"req_id", reqID,
		"source", doc.SourceName,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return doc, res, nil
}

// AnalyzeURL downloads a PDF and analyzes it.
func (p *Pipeline) AnalyzeURL(ctx context.Context, url string) (*extract.ExtractedDocument, Result, error) {
	ctx, reqID := p.requestContext(ctx)
	start := time.Now()

	doc, err := p.extractor.FromURL(ctx, url)
	if err != nil {
		return nil, Result{}, err
	}
	res := p.analyzer.Analyze(ctx, doc.Text, MetadataFromDocument(doc))
	p.logger.Info("pipeline.ok",
		"req_id", reqID,
		"source", doc.SourceName,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return doc, res, nil
}

// requestContext ensures the context carries a request id for log
// correlation.
func (p *Pipeline) requestContext(ctx context.Context) (context.Context, string) {
	if id := common.RequestIDFromContext(ctx); id != "" {
		return ctx, id
	}
	id := uuid.New().String()
	return common.WithRequestID(ctx, id), id
}

// CategorizePath extracts a local PDF and classifies it against existing
// categories.
func (p *Pipeline) CategorizePath(ctx context.Context, path string, existing []CategoryDef) (CategoryDecision, error) {
	doc, err := p.extractor.FromPath(ctx, path)
	if err != nil {
		return CategoryDecision{}, err
	}
	return p.analyzer.ClassifyOrCreateCategory(ctx, doc.Text, MetadataFromDocument(doc), existing), nil
}
