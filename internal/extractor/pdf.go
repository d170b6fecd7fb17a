package extractor

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"golang.org/x/text/unicode/norm"
)

func (e *Extractor) extractPDF(data []byte) (*Result, error) {
	// pdfcpu is stricter than the text reader; a failure here is logged but
	// the text reader gets the final say.
	if pages, err := api.PageCount(bytes.NewReader(data), nil); err != nil {
		e.logger.Warn("PDF validation failed", "error", err)
	} else {
		e.logger.Debug("PDF validated", "pages", pages)
	}

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF file: %w", err)
	}

	res := &Result{}
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			res.add("")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			e.logger.Warn("no text on PDF page", "page", i, "error", err)
			res.add("")
			continue
		}
		res.add(norm.NFC.String(strings.TrimRight(text, " \n")))
	}
	return res, nil
}
