// Package writer renders assembled translation text as a downloadable
// TXT, DOCX or PDF document.
package writer

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/valpere/doctran/internal/extractor"
)

// DefaultFont is the TrueType font embedded in PDF output.
const DefaultFont = "DejaVuSans.ttf"

// Output is a rendered document.
type Output struct {
	Data        []byte
	Format      extractor.Format
	ContentType string
	// Warnings are non-fatal problems, such as a missing PDF font.
	Warnings []string
}

type Config struct {
	// FontPath is the PDF font file. Empty means DefaultFont.
	FontPath string
	Logger   *slog.Logger
}

type Writer struct {
	fontPath string
	logger   *slog.Logger
}

func New(config Config) *Writer {
	if config.FontPath == "" {
		config.FontPath = DefaultFont
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Writer{
		fontPath: config.FontPath,
		logger:   config.Logger.With("component", "writer"),
	}
}

// Write renders text in the requested format.
func (w *Writer) Write(text string, format extractor.Format) (*Output, error) {
	switch format {
	case extractor.FormatTXT:
		return &Output{Data: []byte(text), Format: format, ContentType: "text/plain; charset=utf-8"}, nil
	case extractor.FormatDOCX:
		data, err := writeDOCX(text)
		if err != nil {
			return nil, fmt.Errorf("failed to write DOCX: %w", err)
		}
		return &Output{
			Data:        data,
			Format:      format,
			ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		}, nil
	case extractor.FormatPDF:
		return w.writePDF(text)
	}
	return nil, fmt.Errorf("%w: %q", extractor.ErrUnsupportedFormat, format)
}

// OutputName returns translated_<base>.<ext> for a source filename.
func OutputName(source string, format extractor.Format) string {
	base := filepath.Base(source)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "document"
	}
	return fmt.Sprintf("translated_%s.%s", base, format)
}
