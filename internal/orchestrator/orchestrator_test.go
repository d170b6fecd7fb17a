package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/go-pdf/fpdf"

	"github.com/valpere/doctran/internal"
	"github.com/valpere/doctran/internal/extractor"
	"github.com/valpere/doctran/internal/translator"
)

type mockTranslator struct {
	callCount atomic.Int32
	failOn    map[int]bool
	requests  []translator.Request
}

func (m *mockTranslator) Translate(_ context.Context, req translator.Request) (string, error) {
	n := int(m.callCount.Add(1))
	m.requests = append(m.requests, req)
	if m.failOn[n] {
		return "", fmt.Errorf("%w: boom", translator.ErrTranslationFailed)
	}
	return "T(" + req.Text + ")", nil
}

type recordingReporter struct {
	progress []Progress
	warnings []string
	errors   []string
}

func (r *recordingReporter) Progress(p Progress) { r.progress = append(r.progress, p) }
func (r *recordingReporter) Warn(msg string)     { r.warnings = append(r.warnings, msg) }
func (r *recordingReporter) Error(msg string)    { r.errors = append(r.errors, msg) }

type mockRecorder struct {
	mu   sync.Mutex
	jobs []internal.JobRecord
}

func (m *mockRecorder) SaveJob(_ context.Context, job internal.JobRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs = append(m.jobs, job)
	return nil
}

type staticExtractor struct {
	result *extractor.Result
	err    error
}

func (s staticExtractor) Extract(format extractor.Format, _ []byte) (*extractor.Result, error) {
	if s.result == nil {
		return &extractor.Result{Format: format}, s.err
	}
	return s.result, s.err
}

func segmentsResult(texts ...string) *extractor.Result {
	res := &extractor.Result{Format: extractor.FormatPDF, Units: len(texts)}
	for i, t := range texts {
		res.Segments = append(res.Segments, extractor.Segment{Text: t, Index: i})
	}
	return res
}

func numberedLines(n int) string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %d", i+1)
	}
	return strings.Join(lines, "\n")
}

var hindi = Options{TargetLanguage: "Hindi", Model: "models/gemini-2.5-flash"}

func TestOrchestrator_TranslateDocument_TXTScenario(t *testing.T) {
	mt := &mockTranslator{}
	rep := &recordingReporter{}
	o := New(mt, Config{Reporter: rep})

	job, err := o.TranslateDocument(context.Background(), Document{
		Filename: "notes.txt",
		Data:     []byte(numberedLines(85)),
	}, hindi)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 85 lines -> blocks of 40, 40, 5 -> chunks [b1+b2], [b3].
	if n := mt.callCount.Load(); n != 2 {
		t.Fatalf("expected 2 translation calls, got %d", n)
	}
	if job.TotalChunks != 2 {
		t.Errorf("expected 2 chunks, got %d", job.TotalChunks)
	}
	first := numberedLines(80)
	if mt.requests[0].Text != first {
		t.Errorf("first chunk should hold lines 1-80 joined by newlines")
	}
	last := "line 81\nline 82\nline 83\nline 84\nline 85"
	if mt.requests[1].Text != last {
		t.Errorf("second chunk: expected %q, got %q", last, mt.requests[1].Text)
	}

	want := "T(" + first + ")" + ChunkSeparator + "T(" + last + ")"
	if job.Text != want {
		t.Errorf("unexpected assembled text:\n%q", job.Text)
	}
	if job.State != StateDone || o.State() != StateDone {
		t.Errorf("expected done state, got job=%s orchestrator=%s", job.State, o.State())
	}
	if job.Format != extractor.FormatTXT {
		t.Errorf("expected txt format, got %s", job.Format)
	}
}

func TestOrchestrator_TranslateDocument_PartialFailure(t *testing.T) {
	mt := &mockTranslator{failOn: map[int]bool{2: true, 4: true}}
	rep := &recordingReporter{}
	o := New(mt, Config{
		Reporter:  rep,
		Extractor: staticExtractor{result: segmentsResult("s1", "s2", "s3", "s4", "s5", "s6", "s7", "s8")},
	})

	job, err := o.TranslateDocument(context.Background(), Document{Filename: "report.pdf", Data: []byte("%PDF")}, hindi)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if n := mt.callCount.Load(); n != 4 {
		t.Errorf("expected every chunk to be attempted, got %d calls", n)
	}
	if job.Text != "T(s1\ns2)\n\nT(s5\ns6)" {
		t.Errorf("expected only chunks 1 and 3, got %q", job.Text)
	}
	if fmt.Sprint(job.FailedChunks) != "[2 4]" {
		t.Errorf("expected failed chunks [2 4], got %v", job.FailedChunks)
	}
	if len(rep.errors) != 2 || rep.errors[0] != "failed to translate chunk 2 of 4, skipping" {
		t.Errorf("unexpected error reports: %v", rep.errors)
	}
	if strings.Contains(job.Text, "\n\n\n\n") {
		t.Error("failed chunks must not leave placeholders")
	}
}

func TestOrchestrator_TranslateDocument_Progress(t *testing.T) {
	mt := &mockTranslator{failOn: map[int]bool{2: true}}
	rep := &recordingReporter{}
	o := New(mt, Config{
		Reporter:  rep,
		Extractor: staticExtractor{result: segmentsResult("a", "b", "c", "d", "e", "f", "g")},
	})

	if _, err := o.TranslateDocument(context.Background(), Document{Filename: "x.docx", Data: []byte("PK")}, hindi); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 7 segments -> 4 chunks -> 4 per-chunk updates plus the final one.
	if len(rep.progress) != 5 {
		t.Fatalf("expected 5 progress updates, got %d", len(rep.progress))
	}
	prev := 0.0
	for i, p := range rep.progress[:4] {
		want := float64(i+1) / 4
		if p.Fraction != want {
			t.Errorf("update %d: expected fraction %v, got %v", i, want, p.Fraction)
		}
		if p.Fraction < prev {
			t.Errorf("progress went backwards at update %d", i)
		}
		if wantLabel := fmt.Sprintf("chunk %d of 4", i+1); p.Label != wantLabel {
			t.Errorf("update %d: expected label %q, got %q", i, wantLabel, p.Label)
		}
		prev = p.Fraction
	}
	final := rep.progress[4]
	if final.Fraction != 1.0 || final.Label != "complete" {
		t.Errorf("unexpected final progress %+v", final)
	}
}

func TestOrchestrator_TranslateDocument_NoContent(t *testing.T) {
	mt := &mockTranslator{}
	rep := &recordingReporter{}
	rec := &mockRecorder{}
	o := New(mt, Config{Reporter: rep, Recorder: rec})

	job, err := o.TranslateDocument(context.Background(), Document{
		Filename: "scan.pdf",
		Data:     []byte("definitely not a pdf"),
	}, hindi)
	if err != nil {
		t.Fatalf("extraction problems must not be returned as errors, got %v", err)
	}

	if n := mt.callCount.Load(); n != 0 {
		t.Errorf("expected no translation calls, got %d", n)
	}
	if job.State != StateNoContent || o.State() != StateNoContent {
		t.Errorf("expected no_content state, got job=%s orchestrator=%s", job.State, o.State())
	}
	if len(rep.warnings) != 1 || rep.warnings[0] != NoContentMessage {
		t.Errorf("expected no-content warning, got %v", rep.warnings)
	}
	if len(rep.errors) != 1 || !strings.HasPrefix(rep.errors[0], "error reading PDF file") {
		t.Errorf("expected extraction error report, got %v", rep.errors)
	}
	if len(rep.progress) != 0 {
		t.Errorf("expected no progress updates, got %d", len(rep.progress))
	}
	if o.Session().Document != nil {
		t.Error("no-content job must not set a document result")
	}
	if len(rec.jobs) != 1 || rec.jobs[0].Status != "no_content" {
		t.Errorf("expected recorded no_content job, got %+v", rec.jobs)
	}
}

func TestOrchestrator_TranslateDocument_BlankPDF(t *testing.T) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		t.Fatalf("failed to build PDF fixture: %v", err)
	}

	mt := &mockTranslator{}
	rep := &recordingReporter{}
	o := New(mt, Config{Reporter: rep})

	job, err := o.TranslateDocument(context.Background(), Document{Filename: "blank.pdf", Data: buf.Bytes()}, hindi)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := mt.callCount.Load(); n != 0 {
		t.Errorf("expected no translation calls, got %d", n)
	}
	if job.State != StateNoContent {
		t.Errorf("expected no_content state, got %s", job.State)
	}
	if len(rep.warnings) != 1 || rep.warnings[0] != NoContentMessage {
		t.Errorf("expected no-content warning, got %v", rep.warnings)
	}
	if len(rep.errors) != 0 {
		t.Errorf("a readable blank PDF must not report an error, got %v", rep.errors)
	}
}

func TestOrchestrator_TranslateDocument_TXTBlankBlockKeepsPartition(t *testing.T) {
	var b strings.Builder
	b.WriteString(strings.Repeat("a\n", extractor.TXTBlockLines))
	b.WriteString(strings.Repeat("\n", extractor.TXTBlockLines))
	b.WriteString(strings.Repeat("b\n", 5))

	mt := &mockTranslator{}
	o := New(mt, Config{})

	job, err := o.TranslateDocument(context.Background(), Document{Filename: "gaps.txt", Data: []byte(b.String())}, hindi)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.TotalChunks != 2 {
		t.Errorf("expected 2 chunks, got %d", job.TotalChunks)
	}
	if n := mt.callCount.Load(); n != 2 {
		t.Errorf("expected 2 calls, got %d", n)
	}
	if len(mt.requests) == 2 && strings.Contains(mt.requests[1].Text, "a") {
		t.Errorf("the last chunk must hold only the final block, got %q", mt.requests[1].Text)
	}
}

func TestOrchestrator_TranslateDocument_EmptyPagesCounted(t *testing.T) {
	mt := &mockTranslator{}
	res := segmentsResult("page one", "page three")
	res.Units, res.Dropped = 3, 1
	o := New(mt, Config{Extractor: staticExtractor{result: res}})

	job, err := o.TranslateDocument(context.Background(), Document{Filename: "x.pdf", Data: []byte("%PDF")}, hindi)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.DroppedSegments != 1 {
		t.Errorf("expected 1 dropped segment, got %d", job.DroppedSegments)
	}
	if job.Text != "T(page one\npage three)" {
		t.Errorf("unexpected text %q", job.Text)
	}
}

func TestOrchestrator_TranslateDocument_InputErrors(t *testing.T) {
	mt := &mockTranslator{}
	o := New(mt, Config{})
	ctx := context.Background()

	if _, err := o.TranslateDocument(ctx, Document{}, hindi); !errors.Is(err, ErrNoDocument) {
		t.Errorf("expected ErrNoDocument, got %v", err)
	}
	if _, err := o.TranslateDocument(ctx, Document{Filename: "slides.pptx", Data: []byte("x")}, hindi); !errors.Is(err, extractor.ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
	if _, err := o.TranslateDocument(ctx, Document{Filename: "a.txt", Data: []byte("x")}, Options{}); !errors.Is(err, ErrNoTargetLanguage) {
		t.Errorf("expected ErrNoTargetLanguage, got %v", err)
	}
	if n := mt.callCount.Load(); n != 0 {
		t.Errorf("expected no calls on input errors, got %d", n)
	}
	if o.State() != StateIdle {
		t.Errorf("expected idle state, got %s", o.State())
	}
}

func TestOrchestrator_TranslateText(t *testing.T) {
	mt := &mockTranslator{}
	rec := &mockRecorder{}
	o := New(mt, Config{Recorder: rec})

	job, err := o.TranslateText(context.Background(), "Good morning", hindi)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.Text != "T(Good morning)" {
		t.Errorf("unexpected text %q", job.Text)
	}
	if n := mt.callCount.Load(); n != 1 {
		t.Errorf("expected 1 call, got %d", n)
	}
	if mt.requests[0].Instructions != translator.DefaultInstructions {
		t.Error("expected default instructions for a blank override")
	}
	if job.ID == "" {
		t.Error("expected a job ID")
	}
	if len(rec.jobs) != 1 || rec.jobs[0].Kind != KindText || rec.jobs[0].Status != "done" {
		t.Errorf("unexpected recorded jobs %+v", rec.jobs)
	}
}

func TestOrchestrator_TranslateText_EmptyInput(t *testing.T) {
	mt := &mockTranslator{}
	o := New(mt, Config{})

	for _, input := range []string{"", "  \n\t"} {
		if _, err := o.TranslateText(context.Background(), input, hindi); !errors.Is(err, ErrEmptyInput) {
			t.Errorf("expected ErrEmptyInput for %q, got %v", input, err)
		}
	}
	if n := mt.callCount.Load(); n != 0 {
		t.Errorf("expected no calls, got %d", n)
	}
}

func TestOrchestrator_TranslateText_Failure(t *testing.T) {
	mt := &mockTranslator{failOn: map[int]bool{1: true}}
	rep := &recordingReporter{}
	o := New(mt, Config{Reporter: rep})

	_, err := o.TranslateText(context.Background(), "Hello", hindi)
	if !errors.Is(err, translator.ErrTranslationFailed) {
		t.Errorf("expected ErrTranslationFailed, got %v", err)
	}
	if len(rep.errors) != 1 {
		t.Errorf("expected 1 error report, got %v", rep.errors)
	}
	if o.Session().Text != nil {
		t.Error("failed text job must not set a result")
	}
}

func TestOrchestrator_SessionClearsOtherKind(t *testing.T) {
	mt := &mockTranslator{}
	o := New(mt, Config{Extractor: staticExtractor{result: segmentsResult("a")}})
	ctx := context.Background()

	if _, err := o.TranslateText(ctx, "Hello", hindi); err != nil {
		t.Fatalf("text job failed: %v", err)
	}
	if s := o.Session(); s.Text == nil || s.Document != nil {
		t.Fatalf("expected only a text result, got %+v", s)
	}

	if _, err := o.TranslateDocument(ctx, Document{Filename: "a.pdf", Data: []byte("%PDF")}, hindi); err != nil {
		t.Fatalf("document job failed: %v", err)
	}
	if s := o.Session(); s.Document == nil || s.Text != nil {
		t.Fatalf("expected only a document result, got %+v", s)
	}

	if _, err := o.TranslateText(ctx, "Again", hindi); err != nil {
		t.Fatalf("text job failed: %v", err)
	}
	if s := o.Session(); s.Text == nil || s.Document != nil {
		t.Errorf("expected the document result to be cleared, got %+v", s)
	}
}
