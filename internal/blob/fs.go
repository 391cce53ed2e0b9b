package blob

import (
	fsstore "cliniccore/internal/infra/blob/fs"
)

// NewFilesystem returns a filesystem-backed archive rooted at root, creating
// the directory if needed. An empty root selects the default.
func NewFilesystem(root string) (Store, error) { return fsstore.New(root) }
