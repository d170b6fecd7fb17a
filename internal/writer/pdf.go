package writer

import (
	"bytes"
	"fmt"
	"os"

	"github.com/go-pdf/fpdf"

	"github.com/valpere/doctran/internal/extractor"
)

const fontFamily = "DejaVu"

func (w *Writer) writePDF(text string) (*Output, error) {
	out := &Output{Format: extractor.FormatPDF, ContentType: "application/pdf"}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	if err := loadFont(pdf, w.fontPath); err == nil {
		pdf.SetFont(fontFamily, "", 12)
	} else {
		msg := fmt.Sprintf("font %s could not be loaded (%v), falling back to the default font", w.fontPath, err)
		out.Warnings = append(out.Warnings, msg)
		w.logger.Warn(msg)
		pdf.SetFont("Helvetica", "", 12)
		text = pdf.UnicodeTranslatorFromDescriptor("")(text)
	}
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to prepare PDF: %w", err)
	}

	pdf.MultiCell(0, 10, text, "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	out.Data = buf.Bytes()
	return out, nil
}

// loadFont registers the TrueType font at path under fontFamily. The bytes
// are read here so absolute and relative paths behave the same. A failed
// load leaves pdf without an error set.
func loadFont(pdf *fpdf.Fpdf, path string) (err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			pdf.ClearError()
			err = fmt.Errorf("invalid font file: %v", r)
		}
	}()

	pdf.AddUTF8FontFromBytes(fontFamily, "", data)
	if fontErr := pdf.Error(); fontErr != nil {
		pdf.ClearError()
		return fontErr
	}
	return nil
}
