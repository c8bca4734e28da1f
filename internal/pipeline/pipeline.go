// Package pipeline orchestrates one extraction run: load the document, ask
// the model for the expense table, clean the response, validate the rows,
// and write the output files. Steps share a State and run in order; the
// first failing step aborts the run.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dvloznov/bill2csv/internal/batch"
	"github.com/dvloznov/bill2csv/internal/category"
	"github.com/dvloznov/bill2csv/internal/document"
	"github.com/dvloznov/bill2csv/internal/extract"
	"github.com/dvloznov/bill2csv/internal/logger"
	"github.com/dvloznov/bill2csv/internal/output"
)

// TableExtractor produces the raw model response for a document. Satisfied
// by the Gemini client; tests substitute a fake.
type TableExtractor interface {
	ExtractTable(ctx context.Context, pdfBytes []byte, schema batch.Schema, categories *category.Index) (string, error)
	Model() string
}

// Step is a single stage of the run.
type Step interface {
	Execute(ctx context.Context, state *State) error
}

// State holds the shared state across all steps.
type State struct {
	RunID      string
	SourcePath string
	Schema     batch.Schema

	Filename    string
	PDFBytes    []byte
	Pages       int
	RawResponse string
	Table       string
	Result      *batch.Result
}

// LoadDocumentStep reads the source PDF from disk or GCS.
type LoadDocumentStep struct{}

func (s *LoadDocumentStep) Execute(ctx context.Context, state *State) error {
	data, err := document.Load(ctx, state.SourcePath)
	if err != nil {
		return err
	}
	state.PDFBytes = data
	state.Filename = document.Filename(state.SourcePath)
	state.Pages = document.PageCount(data)

	log := logger.FromContext(ctx)
	log.Info().
		Str("file", state.Filename).
		Int("bytes", len(data)).
		Int("pages", state.Pages).
		Msg("document loaded")
	return nil
}

// ExtractStep sends the document to the model.
type ExtractStep struct {
	Extractor  TableExtractor
	Categories *category.Index
}

func (s *ExtractStep) Execute(ctx context.Context, state *State) error {
	raw, err := s.Extractor.ExtractTable(ctx, state.PDFBytes, state.Schema, s.Categories)
	if err != nil {
		return err
	}
	state.RawResponse = raw

	log := logger.FromContext(ctx)
	log.Info().
		Str("model", s.Extractor.Model()).
		Int("response_bytes", len(raw)).
		Msg("model response received")
	return nil
}

// CleanResponseStep recovers the delimited table from the raw response.
type CleanResponseStep struct{}

func (s *CleanResponseStep) Execute(ctx context.Context, state *State) error {
	table, err := extract.Table(state.RawResponse, state.Schema.Columns())
	if err != nil {
		return err
	}
	state.Table = table
	return nil
}

// ProcessStep validates every data row and partitions accepted from
// rejected.
type ProcessStep struct {
	Categories       *category.Index
	CleanDescription bool
}

func (s *ProcessStep) Execute(ctx context.Context, state *State) error {
	validator := batch.NewValidator(state.Schema, s.Categories, s.CleanDescription)
	result, err := batch.NewProcessor(validator).Process(state.Table)
	if err != nil {
		return err
	}
	state.Result = result

	log := logger.FromContext(ctx)
	log.Info().
		Int("total", result.Counts.Total).
		Int("accepted", result.Counts.Accepted).
		Int("rejected", result.Counts.Rejected).
		Msg("rows validated")
	for _, r := range result.Rejected {
		log.Warn().Int("row", r.Row).Str("reason", r.Reason).Msg("row rejected")
	}
	return nil
}

// WriteOutputStep writes the records CSV, the rejected-rows audit file, and
// the run metadata next to each other.
type WriteOutputStep struct {
	OutDir string
	Model  string
	Now    func() time.Time
}

func (s *WriteOutputStep) Execute(ctx context.Context, state *State) error {
	w, err := output.NewWriter(s.OutDir, state.Filename)
	if err != nil {
		return err
	}
	if err := w.WriteRecords(state.Schema, state.Result.Accepted); err != nil {
		return err
	}
	if err := w.WriteRejected(state.Result.Rejected); err != nil {
		return err
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	meta := output.Metadata{
		SourceFile: state.Filename,
		Model:      s.Model,
		RunID:      state.RunID,
		Timestamp:  now().UTC(),
		Pages:      state.Pages,
		Rows:       state.Result.Counts.Accepted,
		Errors:     state.Result.Counts.Rejected,
	}
	if err := w.WriteMetadata(meta); err != nil {
		return err
	}

	log := logger.FromContext(ctx)
	log.Info().
		Str("records", w.RecordsPath()).
		Msg("output written")
	return nil
}

// Pipeline executes a sequence of steps in order.
type Pipeline struct {
	steps []Step
}

// New creates a pipeline with the given steps.
func New(steps ...Step) *Pipeline {
	return &Pipeline{steps: steps}
}

// Execute runs all steps sequentially, stopping at the first error.
func (p *Pipeline) Execute(ctx context.Context, state *State) error {
	if state.RunID == "" {
		state.RunID = uuid.NewString()
	}
	for i, step := range p.steps {
		if err := step.Execute(ctx, state); err != nil {
			return fmt.Errorf("pipeline step %d: %w", i+1, err)
		}
	}
	return nil
}

// Options collects everything the standard run needs.
type Options struct {
	Extractor        TableExtractor
	Categories       *category.Index
	CleanDescription bool
	OutDir           string
}

// NewExtractionPipeline creates the standard five-step run.
func NewExtractionPipeline(opts Options) *Pipeline {
	return New(
		&LoadDocumentStep{},
		&ExtractStep{Extractor: opts.Extractor, Categories: opts.Categories},
		&CleanResponseStep{},
		&ProcessStep{Categories: opts.Categories, CleanDescription: opts.CleanDescription},
		&WriteOutputStep{OutDir: opts.OutDir, Model: opts.Extractor.Model()},
	)
}
