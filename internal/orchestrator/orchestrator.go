// Package orchestrator drives a translation job from raw input to assembled
// output: extraction, chunking, one sequential translation call per chunk,
// and reassembly in the original order.
//
// A failed chunk never aborts a document job. It is reported, recorded by
// position in JobResult.FailedChunks, and left out of the assembled text.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/valpere/doctran/internal"
	"github.com/valpere/doctran/internal/chunker"
	"github.com/valpere/doctran/internal/extractor"
	"github.com/valpere/doctran/internal/translator"
)

// ChunkSeparator joins translated chunks in the assembled document.
const ChunkSeparator = "\n\n"

// NoContentMessage is reported when a document yields no segments.
const NoContentMessage = "could not extract text from the document, the file may be empty or corrupted"

var (
	ErrEmptyInput       = errors.New("please enter some text to translate")
	ErrNoDocument       = errors.New("no document provided")
	ErrNoTargetLanguage = errors.New("no target language selected")
)

type State string

const (
	StateIdle        State = "idle"
	StateExtracting  State = "extracting"
	StateNoContent   State = "no_content"
	StateTranslating State = "translating"
	StateAssembling  State = "assembling"
	StateDone        State = "done"
)

const (
	KindText     = "text"
	KindDocument = "document"
)

// Translator performs a single translation call.
type Translator interface {
	Translate(ctx context.Context, req translator.Request) (string, error)
}

// Extractor turns document bytes into ordered segments.
type Extractor interface {
	Extract(format extractor.Format, data []byte) (*extractor.Result, error)
}

// JobRecorder persists a summary of every finished job.
type JobRecorder interface {
	SaveJob(ctx context.Context, job internal.JobRecord) error
}

// Options are the per-job user selections.
type Options struct {
	TargetLanguage string
	Model          string
	// Instructions override the default prompt instructions when non-blank.
	Instructions string
}

// Document is an uploaded file.
type Document struct {
	Filename string
	Data     []byte
}

type JobResult struct {
	ID       string
	Kind     string
	Filename string
	Format   extractor.Format
	State    State
	Text     string

	TotalChunks     int
	FailedChunks    []int
	DroppedSegments int
}

// Failed reports whether any chunk was skipped.
func (r *JobResult) Failed() bool {
	return r != nil && len(r.FailedChunks) > 0
}

type Config struct {
	Extractor Extractor
	Reporter  Reporter
	Recorder  JobRecorder
	Logger    *slog.Logger
}

type Orchestrator struct {
	translator Translator
	extractor  Extractor
	reporter   Reporter
	recorder   JobRecorder
	logger     *slog.Logger

	mu      sync.Mutex
	state   State
	session Session
}

func New(t Translator, config Config) *Orchestrator {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ex := config.Extractor
	if ex == nil {
		ex = extractor.New(logger)
	}
	reporter := config.Reporter
	if reporter == nil {
		reporter = NopReporter{}
	}
	return &Orchestrator{
		translator: t,
		extractor:  ex,
		reporter:   reporter,
		recorder:   config.Recorder,
		logger:     logger.With("component", "orchestrator"),
		state:      StateIdle,
	}
}

// State returns the state of the current or most recent document job.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Session returns a snapshot of the latest results.
func (o *Orchestrator) Session() Session {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.session
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
	o.logger.Debug("state change", "state", s)
}

// TranslateText translates free text with a single call.
func (o *Orchestrator) TranslateText(ctx context.Context, text string, opts Options) (*JobResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}
	if opts.TargetLanguage == "" {
		return nil, ErrNoTargetLanguage
	}

	job := &JobResult{ID: uuid.New().String(), Kind: KindText, TotalChunks: 1}
	logger := o.logger.With("job_id", job.ID, "kind", job.Kind)
	logger.Info("translating text", "chars", len(text), "target", opts.TargetLanguage, "model", opts.Model)

	translated, err := o.translator.Translate(ctx, o.request(text, opts))
	if err != nil {
		o.reporter.Error(fmt.Sprintf("an error occurred during translation: %v", err))
		job.FailedChunks = []int{1}
		job.State = StateDone
		o.record(ctx, job, opts, "failed")
		return nil, err
	}

	job.Text = translated
	job.State = StateDone

	o.mu.Lock()
	o.session.setText(job)
	o.mu.Unlock()

	o.record(ctx, job, opts, "done")
	logger.Info("text translated", "chars", len(translated))
	return job, nil
}

// TranslateDocument runs a full document job. Input errors (no document,
// unsupported extension, no target language) are returned before any
// extraction or external call. Extraction problems end the job in
// StateNoContent with a warning and a nil error.
func (o *Orchestrator) TranslateDocument(ctx context.Context, doc Document, opts Options) (*JobResult, error) {
	if doc.Filename == "" && len(doc.Data) == 0 {
		return nil, ErrNoDocument
	}
	format, err := extractor.FormatFromFilename(doc.Filename)
	if err != nil {
		return nil, err
	}
	if opts.TargetLanguage == "" {
		return nil, ErrNoTargetLanguage
	}

	job := &JobResult{
		ID:       uuid.New().String(),
		Kind:     KindDocument,
		Filename: doc.Filename,
		Format:   format,
	}
	logger := o.logger.With("job_id", job.ID, "kind", job.Kind, "file", doc.Filename)

	o.setState(StateExtracting)
	extracted, err := o.extractor.Extract(format, doc.Data)
	if err != nil {
		o.reporter.Error(fmt.Sprintf("error reading %s file: %v", strings.ToUpper(string(format)), err))
	}
	if extracted != nil {
		job.DroppedSegments = extracted.Dropped
	}
	if extracted.Empty() {
		o.setState(StateNoContent)
		job.State = StateNoContent
		o.reporter.Warn(NoContentMessage)
		logger.Warn("no extractable text", "dropped", job.DroppedSegments)
		o.record(ctx, job, opts, string(StateNoContent))
		return job, nil
	}
	if extracted.Dropped > 0 {
		logger.Info("dropped empty units", "dropped", extracted.Dropped, "units", extracted.Units)
	}

	chunks := chunker.Split(extracted.Texts(), chunker.Size)
	job.TotalChunks = len(chunks)
	logger.Info("translating document", "segments", len(extracted.Segments), "chunks", job.TotalChunks,
		"target", opts.TargetLanguage, "model", opts.Model)

	o.setState(StateTranslating)
	translated := make([]string, 0, len(chunks))
	total := len(chunks)
	for _, c := range chunks {
		pos := c.Position()
		out, err := o.translator.Translate(ctx, o.request(c.Text, opts))
		if err != nil {
			job.FailedChunks = append(job.FailedChunks, pos)
			o.reporter.Error(fmt.Sprintf("failed to translate chunk %d of %d, skipping", pos, total))
			logger.Error("chunk failed", "chunk", pos, "total", total, "error", err)
		} else {
			translated = append(translated, out)
		}
		o.reporter.Progress(Progress{
			Fraction: float64(pos) / float64(total),
			Label:    fmt.Sprintf("chunk %d of %d", pos, total),
			Chunk:    pos,
			Total:    total,
		})
	}

	o.setState(StateAssembling)
	job.Text = strings.Join(translated, ChunkSeparator)

	o.setState(StateDone)
	job.State = StateDone
	o.reporter.Progress(Progress{Fraction: 1.0, Label: "complete", Chunk: total, Total: total})

	o.mu.Lock()
	o.session.setDocument(job)
	o.mu.Unlock()

	status := "done"
	if job.Failed() {
		status = "partial"
	}
	o.record(ctx, job, opts, status)
	logger.Info("document translated", "chunks", total, "failed", len(job.FailedChunks))
	return job, nil
}

func (o *Orchestrator) request(text string, opts Options) translator.Request {
	return translator.Request{
		Text:           text,
		TargetLanguage: opts.TargetLanguage,
		Instructions:   translator.ResolveInstructions(opts.Instructions),
		Model:          opts.Model,
	}
}

func (o *Orchestrator) record(ctx context.Context, job *JobResult, opts Options, status string) {
	if o.recorder == nil {
		return
	}
	err := o.recorder.SaveJob(ctx, internal.JobRecord{
		ID:              job.ID,
		Kind:            job.Kind,
		Filename:        job.Filename,
		Format:          string(job.Format),
		TargetLanguage:  opts.TargetLanguage,
		Model:           opts.Model,
		Status:          status,
		TotalChunks:     job.TotalChunks,
		FailedChunks:    job.FailedChunks,
		DroppedSegments: job.DroppedSegments,
		ResultText:      job.Text,
		Timestamp:       time.Now(),
	})
	if err != nil {
		o.logger.Warn("failed to record job", "job_id", job.ID, "error", err)
	}
}
