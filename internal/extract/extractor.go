// Package extract turns raw PDF bytes from a local path or an HTTP(S) URL
// into first-page text, page/byte counts, a language hint, an optional
// table-of-contents preview, and content-based reading metrics.
package extract

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/pdflens/pdflens/internal/common"
	"github.com/pdflens/pdflens/internal/readtime"
)

// TextPages policies.
const (
	TextPagesFirst = "first"
	TextPagesFull  = "full"
)

var pdfSignature = []byte("%PDF")

// ExtractedDocument is the immutable result of one extraction call.
// Zero PageCount/ByteSize mean "unknown" and surface as null downstream.
type ExtractedDocument struct {
	Text          string
	PageCount     int
	ByteSize      int
	WordCountHint int
	LanguageHint  string
	SourceName    string
	TOCPreview    string

	// Metrics carries the content-based reading-time breakdown when the
	// full-document scan succeeded; nil otherwise.
	Metrics *readtime.Metrics
}

// Extractor reads PDFs from disk or the network. It is safe for concurrent
// use; every call produces a fresh ExtractedDocument.
type Extractor struct {
	cfg    common.ExtractConfig
	rt     common.ReadTimeConfig
	logger *slog.Logger
	client *http.Client
}

func NewExtractor(cfg common.ExtractConfig, rt common.ReadTimeConfig, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.TextPages == "" {
		cfg.TextPages = TextPagesFirst
	}
	if cfg.DownloadTimeout <= 0 {
		cfg.DownloadTimeout = 20 * time.Second
	}
	if cfg.MaxDownloadMB <= 0 {
		cfg.MaxDownloadMB = 100
	}
	return &Extractor{
		cfg:    cfg,
		rt:     rt,
		logger: logger,
		client: &http.Client{},
	}
}

// FromPath extracts a document from a local file.
func (e *Extractor) FromPath(ctx context.Context, path string) (*ExtractedDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %v: %w", path, err, common.ErrExtraction)
	}
	return e.FromBytes(ctx, data, filepath.Base(path))
}

// FromURL downloads and extracts a document. Non-2xx responses and network
// failures surface as ErrDownload.
func (e *Extractor) FromURL(ctx context.Context, url string) (*ExtractedDocument, error) {
	start := time.Now()
	data, err := downloadBytes(ctx, e.client, url, e.cfg.MaxDownloadMB<<20, e.cfg.DownloadTimeout)
	if err != nil {
		e.logger.Warn("extract.download.failed", "url", url, "error", err)
		return nil, err
	}
	e.logger.Info("extract.download.ok",
		"url", url,
		"bytes", len(data),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return e.FromBytes(ctx, data, sourceNameFromURL(url))
}

// FromBytes extracts a document from raw bytes already in memory.
func (e *Extractor) FromBytes(ctx context.Context, data []byte, sourceName string) (*ExtractedDocument, error) {
	if !bytes.HasPrefix(data, pdfSignature) {
		return nil, fmt.Errorf("missing %%PDF header in %q: %w", sourceName, common.ErrNotAPDF)
	}

	doc, err := openPDF(data)
	if err != nil {
		return nil, err
	}
	pageCount := doc.PageCount()

	firstPageText := ""
	if pageCount > 0 {
		firstPageText, _ = doc.Page(0)
	}

	combined := firstPageText
	if e.cfg.TextPages == TextPagesFull {
		var b bytes.Buffer
		b.WriteString(firstPageText)
		for i := 1; i < pageCount; i++ {
			text, _ := doc.Page(i)
			if text != "" {
				b.WriteString("\n\n")
				b.WriteString(text)
			}
		}
		combined = b.String()
	}

	w1, _ := CountWordsAndChars(firstPageText)
	lang := DetectLanguage(firstPageText)
	totalWords := EstimateTotalWords(w1, pageCount, len(data))

	// Deterministic whole-document metrics supersede the first-page
	// projection when the scan works out.
	metrics := readtime.Estimate(doc, readtime.Options{
		Mode:            e.rt.Mode,
		MaxPages:        e.rt.MaxPages,
		PerImageSeconds: e.rt.PerImageSeconds,
		Lang:            lang,
	})
	if metrics.WordCount > 0 {
		totalWords = metrics.WordCount
	}

	toc := ""
	if e.cfg.TOCEnabled {
		toc = doc.tocPreview(e.cfg.TOCMaxPages, e.cfg.TOCMaxChars)
	}

	e.logger.Debug("extract.ok",
		"source", sourceName,
		"pages", pageCount,
		"bytes", len(data),
		"first_page_words", w1,
		"total_words", totalWords,
		"lang", lang,
		"readtime_mode", metrics.Mode,
	)

	return &ExtractedDocument{
		Text:          combined,
		PageCount:     pageCount,
		ByteSize:      len(data),
		WordCountHint: totalWords,
		LanguageHint:  lang,
		SourceName:    sourceName,
		TOCPreview:    toc,
		Metrics:       &metrics,
	}, nil
}
