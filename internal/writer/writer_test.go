package writer

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/valpere/doctran/internal/extractor"
)

func TestWriter_Write_TXT(t *testing.T) {
	w := New(Config{})
	text := "नमस्ते\n\nदुनिया"

	out, err := w.Write(text, extractor.FormatTXT)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out.Data) != text {
		t.Errorf("expected verbatim UTF-8 bytes, got %q", out.Data)
	}
}

func TestWriter_Write_DOCXRoundTrip(t *testing.T) {
	w := New(Config{})

	out, err := w.Write("first line\n\nthird & <last>\tline", extractor.FormatDOCX)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res, err := extractor.New(nil).Extract(extractor.FormatDOCX, out.Data)
	if err != nil {
		t.Fatalf("failed to read back DOCX: %v", err)
	}
	if res.Units != 3 {
		t.Errorf("expected 3 paragraphs including the empty one, got %d", res.Units)
	}
	if res.Dropped != 1 {
		t.Errorf("expected the empty paragraph to be dropped on read, got %d", res.Dropped)
	}
	got := res.Texts()
	if len(got) != 2 || got[0] != "first line" || got[1] != "third & <last>\tline" {
		t.Errorf("unexpected paragraphs %q", got)
	}
}

func TestWriter_Write_PDFFontFallback(t *testing.T) {
	w := New(Config{FontPath: filepath.Join(t.TempDir(), "missing.ttf")})

	out, err := w.Write("Hello\nworld", extractor.FormatPDF)
	if err != nil {
		t.Fatalf("missing font must not abort export: %v", err)
	}
	if !bytes.HasPrefix(out.Data, []byte("%PDF")) {
		t.Error("expected PDF output")
	}
	if len(out.Warnings) != 1 {
		t.Errorf("expected a font warning, got %v", out.Warnings)
	}
}

func TestWriter_Write_PDFAbsoluteFontPath(t *testing.T) {
	const font = "/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf"
	if _, err := os.Stat(font); err != nil {
		t.Skipf("system font not installed: %v", err)
	}

	out, err := New(Config{FontPath: font}).Write("नमस्ते दुनिया\nHello", extractor.FormatPDF)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(out.Data, []byte("%PDF")) {
		t.Error("expected PDF output")
	}
	if len(out.Warnings) != 0 {
		t.Errorf("expected the font to load, got warnings %v", out.Warnings)
	}
}

func TestWriter_Write_PDFInvalidFontFallsBack(t *testing.T) {
	font := filepath.Join(t.TempDir(), "broken.ttf")
	if err := os.WriteFile(font, []byte("not a font"), 0644); err != nil {
		t.Fatalf("failed to write font fixture: %v", err)
	}

	out, err := New(Config{FontPath: font}).Write("Hello", extractor.FormatPDF)
	if err != nil {
		t.Fatalf("an unreadable font must not abort export: %v", err)
	}
	if !bytes.HasPrefix(out.Data, []byte("%PDF")) {
		t.Error("expected PDF output")
	}
	if len(out.Warnings) != 1 {
		t.Errorf("expected a font warning, got %v", out.Warnings)
	}
}

func TestWriter_Write_UnsupportedFormat(t *testing.T) {
	_, err := New(Config{}).Write("x", extractor.Format("rtf"))
	if !errors.Is(err, extractor.ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestOutputName(t *testing.T) {
	tests := []struct {
		source string
		format extractor.Format
		want   string
	}{
		{"report.pdf", extractor.FormatPDF, "translated_report.pdf"},
		{"report.pdf", extractor.FormatTXT, "translated_report.txt"},
		{"/tmp/in/notes.v2.docx", extractor.FormatDOCX, "translated_notes.v2.docx"},
		{"", extractor.FormatTXT, "translated_document.txt"},
	}
	for _, tt := range tests {
		if got := OutputName(tt.source, tt.format); got != tt.want {
			t.Errorf("OutputName(%q, %s) = %q, want %q", tt.source, tt.format, got, tt.want)
		}
	}
}
