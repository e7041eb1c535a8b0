package extract

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/pdflens/pdflens/internal/common"
)

// pdfDocument wraps a parsed PDF and implements readtime.PageSource.
// The ledongthuc parser panics on some malformed inputs, so every page access
// is guarded with recover.
type pdfDocument struct {
	reader *pdf.Reader
}

func openPDF(data []byte) (doc *pdfDocument, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = fmt.Errorf("pdf parser panic: %v: %w", r, common.ErrExtraction)
		}
	}()
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %v: %w", err, common.ErrExtraction)
	}
	return &pdfDocument{reader: reader}, nil
}

func (d *pdfDocument) PageCount() int {
	return d.reader.NumPage()
}

// Page returns the plain text and image count of the zero-based page i.
// Failures on individual pages degrade to empty text rather than aborting the
// whole scan.
func (d *pdfDocument) Page(i int) (text string, imageCount int) {
	defer func() {
		if r := recover(); r != nil {
			text, imageCount = "", 0
		}
	}()
	page := d.reader.Page(i + 1)
	if page.V.IsNull() {
		return "", 0
	}
	text, err := page.GetPlainText(nil)
	if err != nil {
		text = ""
	}
	return text, countPageImages(page)
}

// countPageImages counts image XObjects in the page resource dictionary.
func countPageImages(page pdf.Page) (n int) {
	defer func() {
		if r := recover(); r != nil {
			n = 0
		}
	}()
	xobjects := page.V.Key("Resources").Key("XObject")
	if xobjects.IsNull() {
		return 0
	}
	for _, name := range xobjects.Keys() {
		if xobjects.Key(name).Key("Subtype").Name() == "Image" {
			n++
		}
	}
	return n
}

var headingRe = regexp.MustCompile(`^\s*(\d+(\.\d+)*\.?\s+\S.*|[A-ZА-ЯЁ][^.!?]{2,80})$`)

// tocPreview builds a short outline listing. The document outline is
// preferred; when absent, heading-like lines from the first maxPages pages
// are collected instead. Output is capped at maxChars.
func (d *pdfDocument) tocPreview(maxPages, maxChars int) string {
	var b strings.Builder

	outline := d.outline()
	if len(outline) > 0 {
		for _, line := range outline {
			if b.Len()+len(line)+1 > maxChars {
				break
			}
			b.WriteString(line)
			b.WriteByte('\n')
		}
		return strings.TrimRight(b.String(), "\n")
	}

	pages := d.PageCount()
	if pages > maxPages {
		pages = maxPages
	}
	for i := 0; i < pages; i++ {
		text, _ := d.Page(i)
		for _, line := range strings.Split(text, "\n") {
			line = strings.TrimSpace(line)
			if line == "" || !headingRe.MatchString(line) {
				continue
			}
			if b.Len()+len(line)+1 > maxChars {
				return strings.TrimRight(b.String(), "\n")
			}
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (d *pdfDocument) outline() (lines []string) {
	defer func() {
		if r := recover(); r != nil {
			lines = nil
		}
	}()
	var walk func(node pdf.Outline, depth int)
	walk = func(node pdf.Outline, depth int) {
		title := strings.TrimSpace(node.Title)
		if title != "" {
			lines = append(lines, strings.Repeat("  ", depth)+title)
		}
		for _, child := range node.Child {
			walk(child, depth+1)
		}
	}
	root := d.reader.Outline()
	for _, child := range root.Child {
		walk(child, 0)
	}
	return lines
}
