package attach

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"cliniccore/internal/blob"
	"cliniccore/pkg/domain"
)

func stringSource(name, mimeType, body string) Source {
	return Source{
		Name: name,
		Type: mimeType,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(body)), nil
		},
	}
}

func TestIngestKeepsExistingAsPrefix(t *testing.T) {
	existing := []domain.FileAttachment{{Name: "old.pdf", URL: "data:application/pdf;base64,", Type: "application/pdf"}}
	got := Ingest(existing, []Source{stringSource("new.txt", "text/plain", "hello")})
	if len(got) != 2 {
		t.Fatalf("got %d attachments, want 2", len(got))
	}
	if got[0].Name != "old.pdf" {
		t.Fatalf("existing attachment not first: %+v", got[0])
	}
	if got[1].Name != "new.txt" || got[1].Type != "text/plain" {
		t.Fatalf("unexpected new attachment %+v", got[1])
	}
	mimeType, payload, err := DecodeDataURI(got[1].URL)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if mimeType != "text/plain" || string(payload) != "hello" {
		t.Fatalf("round trip = (%q, %q)", mimeType, payload)
	}
}

func TestIngestDoesNotMutateExisting(t *testing.T) {
	existing := make([]domain.FileAttachment, 1, 4)
	existing[0] = domain.FileAttachment{Name: "keep.txt"}
	got := Ingest(existing, []Source{stringSource("a.txt", "text/plain", "a")})
	if &got[0] == &existing[0] {
		t.Fatalf("result aliases caller slice")
	}
	if len(existing) != 1 {
		t.Fatalf("caller slice mutated: %+v", existing)
	}
}

func TestIngestSkipsAndLogsFailures(t *testing.T) {
	var mu sync.Mutex
	var logged []string
	orig := Logf
	Logf = func(format string, args ...any) {
		mu.Lock()
		logged = append(logged, fmt.Sprintf(format, args...))
		mu.Unlock()
	}
	defer func() { Logf = orig }()

	sources := []Source{
		stringSource("ok.txt", "text/plain", "fine"),
		{Name: "broken.bin", Open: func() (io.ReadCloser, error) { return nil, fmt.Errorf("disk gone") }},
		stringSource("also-ok.txt", "text/plain", "fine too"),
	}
	got := Ingest(nil, sources)
	if len(got) != 2 {
		t.Fatalf("got %d attachments, want 2 (failure skipped)", len(got))
	}
	for _, att := range got {
		if att.Name == "broken.bin" {
			t.Fatalf("failed source produced an attachment")
		}
	}
	mu.Lock()
	defer mu.Unlock()
	if len(logged) != 1 || !strings.Contains(logged[0], "broken.bin") {
		t.Fatalf("expected one log mentioning broken.bin, got %v", logged)
	}
}

func TestIngestWaitsForAllReads(t *testing.T) {
	slow := Source{
		Name: "slow.txt",
		Type: "text/plain",
		Open: func() (io.ReadCloser, error) {
			time.Sleep(50 * time.Millisecond)
			return io.NopCloser(strings.NewReader("slow body")), nil
		},
	}
	got := Ingest(nil, []Source{slow, stringSource("fast.txt", "text/plain", "fast")})
	if len(got) != 2 {
		t.Fatalf("got %d attachments, want 2", len(got))
	}
}

func TestIngestEmptySources(t *testing.T) {
	existing := []domain.FileAttachment{{Name: "a"}}
	got := Ingest(existing, nil)
	if len(got) != 1 || got[0].Name != "a" {
		t.Fatalf("got %+v", got)
	}
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.json")
	if err := os.WriteFile(path, []byte(`{"ok":true}`), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	src := FileSource(path)
	if src.Name != "report.json" {
		t.Fatalf("name = %q", src.Name)
	}
	if !strings.HasPrefix(src.Type, "application/json") {
		t.Fatalf("type = %q", src.Type)
	}
	rc, err := src.Open()
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != `{"ok":true}` {
		t.Fatalf("body = %q", data)
	}
}

func TestDecodeDataURIErrors(t *testing.T) {
	cases := []string{"https://example.com/x.png", "data:nocomma", "data:text/plain;base64,%%%"}
	for _, uri := range cases {
		if _, _, err := DecodeDataURI(uri); err == nil {
			t.Errorf("expected error for %q", uri)
		}
	}
}

func TestArchiverWritesAndSkipsExisting(t *testing.T) {
	ctx := context.Background()
	store := blob.NewMemory()
	arch := NewArchiver(store)

	files := []domain.FileAttachment{
		{Name: "invoice.pdf", URL: DataURI("application/pdf", []byte("pdf bytes")), Type: "application/pdf"},
		{Name: "xray.png", URL: DataURI("image/png", []byte("png bytes")), Type: "image/png"},
	}
	written, err := arch.Archive(ctx, "i1", files)
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if len(written) != 2 {
		t.Fatalf("wrote %d keys, want 2: %v", len(written), written)
	}

	info, rc, err := store.Get(ctx, "incidents/i1/invoice.pdf")
	if err != nil {
		t.Fatalf("get archived object: %v", err)
	}
	data, _ := io.ReadAll(rc)
	_ = rc.Close()
	if !bytes.Equal(data, []byte("pdf bytes")) || info.ContentType != "application/pdf" {
		t.Fatalf("archived object = (%q, %q)", data, info.ContentType)
	}

	// Re-archiving is idempotent: existing objects are skipped, not rewritten.
	written, err = arch.Archive(ctx, "i1", files)
	if err != nil {
		t.Fatalf("re-archive: %v", err)
	}
	if len(written) != 0 {
		t.Fatalf("re-archive wrote %v, want nothing", written)
	}

	infos, err := arch.List(ctx, "i1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("listed %d objects, want 2", len(infos))
	}
}

func TestArchiverRejectsNonDataURI(t *testing.T) {
	arch := NewArchiver(blob.NewMemory())
	files := []domain.FileAttachment{{Name: "ext.png", URL: "https://cdn.example.com/ext.png"}}
	if _, err := arch.Archive(context.Background(), "i2", files); err == nil {
		t.Fatalf("expected error for non-data-URI attachment")
	}
}
