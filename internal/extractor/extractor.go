// Package extractor converts uploaded documents into an ordered sequence of
// text segments: one per PDF page, one per DOCX paragraph, or one per block
// of TXTBlockLines plain-text lines.
//
// Extraction never panics on malformed input. Units that carry no text
// (image-only PDF pages, blank paragraphs) are dropped and counted in
// Result.Dropped so callers can surface them.
package extractor

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
)

// Format is a supported document format, named by its file extension.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatTXT  Format = "txt"
)

// Formats lists every supported format in display order.
var Formats = []Format{FormatPDF, FormatDOCX, FormatTXT}

// ErrUnsupportedFormat is returned for extensions other than pdf, docx and txt.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// ParseFormat accepts "pdf", ".PDF", "Docx" and the like.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// FormatFromFilename detects the format from the file extension.
func FormatFromFilename(name string) (Format, error) {
	ext := filepath.Ext(name)
	if ext == "" {
		return "", fmt.Errorf("%w: %q has no extension", ErrUnsupportedFormat, name)
	}
	return ParseFormat(ext)
}

// Segment is one contiguous span of extracted source text.
type Segment struct {
	Text  string
	Index int
}

// Result is the outcome of one extraction pass.
type Result struct {
	Format   Format
	Segments []Segment
	// Units is the number of pages, paragraphs or line blocks inspected.
	Units int
	// Dropped is the number of units that yielded no text.
	Dropped int
}

// Empty reports whether there is nothing to translate.
func (r *Result) Empty() bool {
	return r == nil || len(r.Segments) == 0
}

// Texts returns the segment texts in order.
func (r *Result) Texts() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.Segments))
	for i, s := range r.Segments {
		out[i] = s.Text
	}
	return out
}

// keep appends text as a segment even when it is only whitespace.
func (r *Result) keep(text string) {
	r.Units++
	r.Segments = append(r.Segments, Segment{Text: text, Index: len(r.Segments)})
}

func (r *Result) add(text string) {
	r.Units++
	if strings.TrimSpace(text) == "" {
		r.Dropped++
		return
	}
	r.Segments = append(r.Segments, Segment{Text: text, Index: len(r.Segments)})
}

// Extractor dispatches on format. The zero value is not usable; call New.
type Extractor struct {
	logger *slog.Logger
}

// New returns an Extractor that logs through logger (slog.Default when nil).
func New(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger.With("component", "extractor")}
}

// Extract produces the ordered segments of data. On error the returned result
// is empty, never nil.
func (e *Extractor) Extract(format Format, data []byte) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = &Result{Format: format}
			err = fmt.Errorf("failed to read %s file: %v", strings.ToUpper(string(format)), r)
		}
	}()

	switch format {
	case FormatPDF:
		res, err = e.extractPDF(data)
	case FormatDOCX:
		res, err = extractDOCX(data)
	case FormatTXT:
		res, err = extractTXT(data)
	default:
		return &Result{Format: format}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		e.logger.Error("extraction failed", "format", format, "error", err)
		return &Result{Format: format}, err
	}
	res.Format = format
	e.logger.Debug("extraction complete", "format", format, "segments", len(res.Segments), "dropped", res.Dropped)
	return res, nil
}
