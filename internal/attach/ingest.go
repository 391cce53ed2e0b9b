// Package attach turns selected files into inline incident attachments. Many
// reads run independently; the caller gets one aggregate result after every
// read has settled, with failures logged and skipped rather than surfaced.
package attach

import (
	"encoding/base64"
	"fmt"
	"io"
	"log"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"cliniccore/pkg/domain"
)

// Source describes one file to ingest. Open is invoked once, on the goroutine
// performing the read.
type Source struct {
	Name string
	Type string // MIME type; application/octet-stream when unknown
	Open func() (io.ReadCloser, error)
}

// FileSource builds a Source reading from a local path, deriving the MIME
// type from the file extension.
func FileSource(path string) Source {
	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return Source{
		Name: filepath.Base(path),
		Type: mimeType,
		Open: func() (io.ReadCloser, error) { return os.Open(path) },
	}
}

// Logf is the sink for per-file read failures. Overridable for tests.
var Logf = log.Printf

// Ingest reads every source concurrently and returns the aggregate attachment
// list: existing attachments as a prefix, then one data-URI attachment per
// successful read in completion order. A failed read is logged and
// contributes nothing; it never blocks or fails the others. Ingest returns
// only after all initiated reads have settled — cancellation is not
// supported.
func Ingest(existing []domain.FileAttachment, sources []Source) []domain.FileAttachment {
	out := append([]domain.FileAttachment(nil), existing...)
	if len(sources) == 0 {
		return out
	}

	results := make(chan domain.FileAttachment, len(sources))
	var wg sync.WaitGroup
	for _, src := range sources {
		wg.Add(1)
		go func(src Source) {
			defer wg.Done()
			att, err := read(src)
			if err != nil {
				Logf("attach: reading %s: %v", src.Name, err)
				return
			}
			results <- att
		}(src)
	}
	wg.Wait()
	close(results)

	for att := range results {
		out = append(out, att)
	}
	return out
}

func read(src Source) (domain.FileAttachment, error) {
	rc, err := src.Open()
	if err != nil {
		return domain.FileAttachment{}, err
	}
	defer func() { _ = rc.Close() }()
	data, err := io.ReadAll(rc)
	if err != nil {
		return domain.FileAttachment{}, err
	}
	mimeType := src.Type
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return domain.FileAttachment{
		Name: src.Name,
		URL:  DataURI(mimeType, data),
		Type: mimeType,
	}, nil
}

// DataURI encodes payload as a data:<mime>;base64 URI, the inline form the
// incident record stores.
func DataURI(mimeType string, payload []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(payload)
}

// DecodeDataURI splits a data URI back into its MIME type and payload.
func DecodeDataURI(uri string) (mimeType string, payload []byte, err error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, fmt.Errorf("not a data URI")
	}
	meta, encoded, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("malformed data URI")
	}
	mimeType = strings.TrimSuffix(meta, ";base64")
	payload, err = base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", nil, fmt.Errorf("decode payload: %w", err)
	}
	return mimeType, payload, nil
}
