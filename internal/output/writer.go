// Package output serializes a batch result: accepted records, rejected rows
// for audit, and a run-metadata JSON next to them. Field quoting is handled
// here, at the serialization boundary, by the CSV encoder; normalizers
// upstream only guarantee single-line, non-empty values.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dvloznov/bill2csv/internal/batch"
)

// Writer manages the output files for one source document.
type Writer struct {
	outDir string
	stem   string
}

// NewWriter derives output paths from the source filename: <stem>.csv,
// <stem>.errors.csv, and <stem>.meta.json under outDir.
func NewWriter(outDir, sourceFilename string) (*Writer, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("output.NewWriter: %w", err)
	}
	stem := strings.TrimSuffix(sourceFilename, filepath.Ext(sourceFilename))
	return &Writer{outDir: outDir, stem: stem}, nil
}

// RecordsPath is the destination for accepted records.
func (w *Writer) RecordsPath() string {
	return filepath.Join(w.outDir, w.stem+".csv")
}

// RejectedPath is the destination for rejected rows.
func (w *Writer) RejectedPath() string {
	return filepath.Join(w.outDir, w.stem+".errors.csv")
}

// MetadataPath is the destination for run metadata.
func (w *Writer) MetadataPath() string {
	return filepath.Join(w.outDir, w.stem+".meta.json")
}

// WriteRecords writes the accepted records with the schema's header.
func (w *Writer) WriteRecords(schema batch.Schema, records []batch.Record) error {
	f, err := os.Create(w.RecordsPath())
	if err != nil {
		return fmt.Errorf("output.WriteRecords: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(schema.Columns()); err != nil {
		return fmt.Errorf("output.WriteRecords: %w", err)
	}
	for _, r := range records {
		row := []string{r.Date, r.Description}
		if schema.HasPayee() {
			row = append(row, r.Payee)
		}
		row = append(row, r.Amount, r.Category)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("output.WriteRecords: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("output.WriteRecords: %w", err)
	}
	return f.Close()
}

// WriteRejected writes the audit file. Nothing is written when the batch
// had no rejections.
func (w *Writer) WriteRejected(rejected []batch.RejectedRow) error {
	if len(rejected) == 0 {
		return nil
	}

	f, err := os.Create(w.RejectedPath())
	if err != nil {
		return fmt.Errorf("output.WriteRejected: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write([]string{"row", "reason", "raw"}); err != nil {
		return fmt.Errorf("output.WriteRejected: %w", err)
	}
	for _, r := range rejected {
		if err := cw.Write([]string{strconv.Itoa(r.Row), r.Reason, r.Raw}); err != nil {
			return fmt.Errorf("output.WriteRejected: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("output.WriteRejected: %w", err)
	}
	return f.Close()
}

// Metadata describes one extraction run.
type Metadata struct {
	SourceFile string    `json:"source_file"`
	Model      string    `json:"model"`
	RunID      string    `json:"run_id"`
	Timestamp  time.Time `json:"timestamp"`
	Pages      int       `json:"pages"`
	Rows       int       `json:"rows"`
	Errors     int       `json:"errors"`
}

// WriteMetadata writes the run-metadata JSON.
func (w *Writer) WriteMetadata(meta Metadata) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("output.WriteMetadata: %w", err)
	}
	if err := os.WriteFile(w.MetadataPath(), append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("output.WriteMetadata: %w", err)
	}
	return nil
}
