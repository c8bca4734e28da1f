package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dvloznov/bill2csv/internal/batch"
)

func TestWriteRecordsQuotesAtBoundary(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir, "march_bill.pdf")
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}

	records := []batch.Record{
		{Date: "13-06-2018", Description: "Rent payment", Amount: "-1200.00", Category: "Housing > Rent"},
		{Date: "14-06-2018", Description: "Dinner, downtown", Amount: "-45.60", Category: "Food & Dining"},
	}
	if err := w.WriteRecords(batch.SchemaBasic, records); err != nil {
		t.Fatalf("WriteRecords failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "march_bill.csv"))
	if err != nil {
		t.Fatal(err)
	}
	got := string(data)
	if !strings.HasPrefix(got, "Date,Description,Amount,Category\n") {
		t.Errorf("missing header:\n%s", got)
	}
	// The encoder, not the normalizer, owns comma quoting.
	if !strings.Contains(got, `"Dinner, downtown"`) {
		t.Errorf("comma field not quoted:\n%s", got)
	}
}

func TestWriteRecordsPayeeSchema(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir, "bill.pdf")
	if err != nil {
		t.Fatal(err)
	}

	records := []batch.Record{
		{Date: "13-06-2018", Description: "WALMART 1234", Payee: "Walmart", Amount: "-54.20", Category: "Shopping"},
	}
	if err := w.WriteRecords(batch.SchemaWithPayee, records); err != nil {
		t.Fatalf("WriteRecords failed: %v", err)
	}

	data, _ := os.ReadFile(w.RecordsPath())
	want := "Date,Description,Payee,Amount,Category\n13-06-2018,WALMART 1234,Walmart,-54.20,Shopping\n"
	if string(data) != want {
		t.Errorf("got:\n%s\nwant:\n%s", data, want)
	}
}

func TestWriteRejected(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir, "bill.pdf")
	if err != nil {
		t.Fatal(err)
	}

	rejected := []batch.RejectedRow{
		{Row: 2, Reason: "date: implausible", Raw: "13/32/2018,Broken,-10.00,Other"},
	}
	if err := w.WriteRejected(rejected); err != nil {
		t.Fatalf("WriteRejected failed: %v", err)
	}

	data, err := os.ReadFile(w.RejectedPath())
	if err != nil {
		t.Fatal(err)
	}
	got := string(data)
	if !strings.HasPrefix(got, "row,reason,raw\n") {
		t.Errorf("missing header:\n%s", got)
	}
	if !strings.Contains(got, "2,date: implausible,") {
		t.Errorf("row content missing:\n%s", got)
	}
}

func TestWriteRejectedSkipsEmpty(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir, "bill.pdf")
	if err != nil {
		t.Fatal(err)
	}
	if err := w.WriteRejected(nil); err != nil {
		t.Fatalf("WriteRejected failed: %v", err)
	}
	if _, err := os.Stat(w.RejectedPath()); !os.IsNotExist(err) {
		t.Error("errors file created for a clean batch")
	}
}

func TestWriteMetadata(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir, "bill.pdf")
	if err != nil {
		t.Fatal(err)
	}

	meta := Metadata{
		SourceFile: "bill.pdf",
		Model:      "gemini-2.5-flash",
		RunID:      "run-123",
		Timestamp:  time.Date(2018, 6, 13, 12, 0, 0, 0, time.UTC),
		Pages:      4,
		Rows:       10,
		Errors:     1,
	}
	if err := w.WriteMetadata(meta); err != nil {
		t.Fatalf("WriteMetadata failed: %v", err)
	}

	data, err := os.ReadFile(w.MetadataPath())
	if err != nil {
		t.Fatal(err)
	}
	var got Metadata
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("metadata is not valid JSON: %v", err)
	}
	if got != meta {
		t.Errorf("round-trip mismatch: %+v", got)
	}
}
