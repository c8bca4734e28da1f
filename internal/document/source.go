// Package document loads bill PDFs for the pipeline, from the local
// filesystem or from Google Cloud Storage. The pipeline only ever sees
// bytes; no file or network handle escapes this package.
package document

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/ledongthuc/pdf"
)

const gcsPrefix = "gs://"

// Load reads the PDF at a local path or a gs://bucket/object URI.
func Load(ctx context.Context, pathOrURI string) ([]byte, error) {
	if strings.HasPrefix(pathOrURI, gcsPrefix) {
		return downloadGCS(ctx, pathOrURI)
	}
	data, err := os.ReadFile(pathOrURI)
	if err != nil {
		return nil, fmt.Errorf("document.Load: %w", err)
	}
	return data, nil
}

func downloadGCS(ctx context.Context, uri string) ([]byte, error) {
	bucket, object, err := splitGCSURI(uri)
	if err != nil {
		return nil, err
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("document.Load: create storage client: %w", err)
	}
	defer client.Close()

	r, err := client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("document.Load: open GCS object reader: %w", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("document.Load: read GCS object: %w", err)
	}
	return data, nil
}

func splitGCSURI(uri string) (bucket, object string, err error) {
	trimmed := strings.TrimPrefix(uri, gcsPrefix)
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("document: malformed GCS URI %q", uri)
	}
	return parts[0], parts[1], nil
}

// Filename extracts the base filename from a local path or GCS URI,
// e.g. "gs://bucket/folder/file.pdf" → "file.pdf".
func Filename(pathOrURI string) string {
	if strings.HasPrefix(pathOrURI, gcsPrefix) {
		trimmed := strings.TrimPrefix(pathOrURI, gcsPrefix)
		parts := strings.SplitN(trimmed, "/", 2)
		if len(parts) < 2 {
			return trimmed
		}
		return path.Base(parts[1])
	}
	return filepath.Base(pathOrURI)
}

// PageCount reports the number of pages in the PDF, for run metadata.
// A document that cannot be opened as a PDF counts zero pages; metadata
// is best-effort and never fails the run.
func PageCount(data []byte) (n int) {
	// The pdf package panics on some malformed inputs.
	defer func() {
		if recover() != nil {
			n = 0
		}
	}()
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0
	}
	return r.NumPage()
}
