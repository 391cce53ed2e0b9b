package attach

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"cliniccore/internal/blob"
	"cliniccore/pkg/domain"
)

// Archiver copies inline incident attachments into a durable object archive.
// Records keep carrying the data URI; the archive is a secondary durable copy.
type Archiver struct {
	store blob.Store
}

// NewArchiver returns an Archiver writing to store.
func NewArchiver(store blob.Store) *Archiver {
	return &Archiver{store: store}
}

// Key returns the archive object key for one attachment of an incident.
func Key(incidentID, name string) string {
	return path.Join("incidents", incidentID, name)
}

// Archive stores each attachment under incidents/<incidentID>/<name> and
// returns the keys written. Attachments already present in the archive are
// skipped, so re-archiving an incident is idempotent. A non-data-URI
// attachment or a failed write aborts with an error.
func (a *Archiver) Archive(ctx context.Context, incidentID string, files []domain.FileAttachment) ([]string, error) {
	var written []string
	for _, f := range files {
		key := Key(incidentID, f.Name)
		if _, err := a.store.Head(ctx, key); err == nil {
			continue
		}
		mimeType, payload, err := DecodeDataURI(f.URL)
		if err != nil {
			return written, fmt.Errorf("attachment %s: %w", f.Name, err)
		}
		if mimeType == "" {
			mimeType = f.Type
		}
		if _, err := a.store.Put(ctx, key, bytes.NewReader(payload), blob.PutOptions{ContentType: mimeType}); err != nil {
			return written, fmt.Errorf("archive %s: %w", key, err)
		}
		written = append(written, key)
	}
	return written, nil
}

// List returns archive metadata for every object stored for an incident.
func (a *Archiver) List(ctx context.Context, incidentID string) ([]blob.Info, error) {
	return a.store.List(ctx, path.Join("incidents", incidentID)+"/")
}
