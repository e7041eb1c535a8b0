// Package readtime computes deterministic reading-time metrics from
// page-level content classification. It has an accurate mode that scans every
// page and a fast mode that samples only the first page; documents above a
// configurable page ceiling are always estimated in fast mode.
package readtime

import (
	"math"
	"regexp"
	"strings"
)

// PageSource abstracts the pages of an already-opened document so the
// estimator does not depend on any particular PDF backend.
type PageSource interface {
	PageCount() int
	// Page returns the plain text and image count of the zero-based page i.
	Page(i int) (text string, imageCount int)
}

// Mode names accepted by Options.Mode.
const (
	ModeAccurate = "accurate"
	ModeFast     = "fast"
)

// Options controls one estimation call.
type Options struct {
	Mode            string
	MaxPages        int    // accurate mode above this page count falls back to fast
	PerImageSeconds [2]int // low/high seconds charged per image; the low bound applies to text pages
	Lang            string
	Level           Level
}

// PageClassCounts tallies the per-page classification of an accurate scan.
type PageClassCounts struct {
	Text  int `json:"text"`
	Mixed int `json:"mixed"`
	Slide int `json:"slide"`
	Empty int `json:"empty"`
}

// Metrics is the deterministic reading-time breakdown. All minute values are
// rounded to two decimals.
type Metrics struct {
	TotalMinutes   float64         `json:"total_min"`
	TextMinutes    float64         `json:"text_min"`
	NontextMinutes float64         `json:"nontext_min"`
	WordCount      int             `json:"words"`
	EffectiveWPM   int             `json:"effective_wpm"`
	Pages          PageClassCounts `json:"pages"`
	ImageSeconds   int             `json:"images_s"`
	TableSeconds   int             `json:"tables_s"`
	CodeSeconds    int             `json:"codes_s"`
	SlideSeconds   int             `json:"slides_s"`
	Mode           string          `json:"mode"`
}

// NontextSeconds sums every non-text time contribution.
func (m Metrics) NontextSeconds() int {
	return m.ImageSeconds + m.TableSeconds + m.CodeSeconds + m.SlideSeconds
}

var (
	wordRe     = regexp.MustCompile(`[A-Za-zА-Яа-яЁё0-9]+`)
	tableRe    = regexp.MustCompile(`(?i)\btable\b|таблица|табл\.`)
	codeLineRe = regexp.MustCompile(`(?i)[;{}()\[\]]|^\s*(def|class|#include|for\s*\(|while\s*\()`)
)

// CountWords counts word-like tokens (Latin, Cyrillic, digits).
func CountWords(text string) int {
	return len(wordRe.FindAllString(text, -1))
}

type pageClass int

const (
	classText pageClass = iota
	classMixed
	classSlide
	classEmpty
)

func classifyPage(words, images int) pageClass {
	switch {
	case words >= 200:
		return classText
	case words >= 80:
		return classMixed
	case words >= 20 && images > 0:
		return classSlide
	case images > 0:
		return classSlide
	default:
		return classEmpty
	}
}

// Estimate computes reading-time metrics for src. The same source and options
// always produce identical metrics.
func Estimate(src PageSource, opts Options) Metrics {
	if opts.MaxPages <= 0 {
		opts.MaxPages = 200
	}
	if opts.PerImageSeconds == [2]int{} {
		opts.PerImageSeconds = [2]int{3, 10}
	}
	if opts.Level == "" {
		opts.Level = LevelMedium
	}

	mode := opts.Mode
	if mode != ModeFast {
		mode = ModeAccurate
	}
	// Latency safeguard: very large documents are never fully scanned.
	if mode == ModeAccurate && src.PageCount() > opts.MaxPages {
		mode = ModeFast
	}

	if mode == ModeAccurate {
		return accurateEstimate(src, opts)
	}
	return fastEstimate(src, opts)
}

func accurateEstimate(src PageSource, opts Options) Metrics {
	m := Metrics{Mode: ModeAccurate}

	for i := 0; i < src.PageCount(); i++ {
		text, images := src.Page(i)
		words := CountWords(text)
		tables := len(tableRe.FindAllString(text, -1))
		codeLines := 0
		for _, line := range strings.Split(text, "\n") {
			if codeLineRe.MatchString(line) {
				codeLines++
			}
		}

		switch classifyPage(words, images) {
		case classText:
			m.Pages.Text++
			m.WordCount += words
			m.ImageSeconds += images * opts.PerImageSeconds[0]
		case classMixed:
			m.Pages.Mixed++
			m.WordCount += words
			m.ImageSeconds += images * opts.PerImageSeconds[0]
		case classSlide:
			m.Pages.Slide++
			m.SlideSeconds += int(clamp(6+float64(words)/10, 8, 25))
		case classEmpty:
			m.Pages.Empty++
		}

		m.TableSeconds += tables * 12
		m.CodeSeconds += int(float64(codeLines) * 0.6)
	}

	m.EffectiveWPM = EffectiveWPM(opts.Lang, opts.Level)
	m.TextMinutes = round2(float64(m.WordCount) / float64(maxInt(1, m.EffectiveWPM)))
	m.NontextMinutes = round2(float64(m.NontextSeconds()) / 60)
	m.TotalMinutes = round2(m.TextMinutes + m.NontextMinutes)
	return m
}

// fastEstimate samples only page 1 and projects the per-page word density
// over the whole document. No non-text time is charged.
func fastEstimate(src PageSource, opts Options) Metrics {
	m := Metrics{Mode: ModeFast}

	pageCount := src.PageCount()
	firstText := ""
	if pageCount > 0 {
		firstText, _ = src.Page(0)
	}
	w1 := CountWords(firstText)

	switch {
	case pageCount > 0 && w1 >= 30:
		wordsPerPage := int(clamp(float64(w1), 60, 900))
		m.WordCount = wordsPerPage * pageCount
	case pageCount > 0:
		m.WordCount = 300 * pageCount
	default:
		m.WordCount = maxInt(w1, 300)
	}

	m.EffectiveWPM = EffectiveWPM(opts.Lang, opts.Level)
	m.TextMinutes = round2(float64(m.WordCount) / float64(maxInt(1, m.EffectiveWPM)))
	m.NontextMinutes = 0
	m.TotalMinutes = m.TextMinutes
	return m
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
