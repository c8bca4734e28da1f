package document

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadLocalFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bill.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4 stub"), 0o644); err != nil {
		t.Fatal(err)
	}

	data, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if string(data) != "%PDF-1.4 stub" {
		t.Errorf("unexpected content: %q", data)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(context.Background(), filepath.Join(t.TempDir(), "absent.pdf")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestSplitGCSURI(t *testing.T) {
	tests := []struct {
		uri     string
		bucket  string
		object  string
		wantErr bool
	}{
		{"gs://bucket/file.pdf", "bucket", "file.pdf", false},
		{"gs://bucket/folder/file.pdf", "bucket", "folder/file.pdf", false},
		{"gs://bucket", "", "", true},
		{"gs://", "", "", true},
		{"gs:///object", "", "", true},
	}

	for _, tt := range tests {
		bucket, object, err := splitGCSURI(tt.uri)
		if tt.wantErr {
			if err == nil {
				t.Errorf("splitGCSURI(%q): expected error", tt.uri)
			}
			continue
		}
		if err != nil || bucket != tt.bucket || object != tt.object {
			t.Errorf("splitGCSURI(%q) = %q, %q, %v", tt.uri, bucket, object, err)
		}
	}
}

func TestFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"gs://bucket/folder/file.pdf", "file.pdf"},
		{"gs://bucket/file.pdf", "file.pdf"},
		{"gs://bucket", "bucket"},
		{"/home/user/bills/march.pdf", "march.pdf"},
		{"march.pdf", "march.pdf"},
	}
	for _, tt := range tests {
		if got := Filename(tt.in); got != tt.want {
			t.Errorf("Filename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPageCountBestEffort(t *testing.T) {
	if got := PageCount([]byte("not a pdf at all")); got != 0 {
		t.Errorf("PageCount on junk = %d, want 0", got)
	}
}
