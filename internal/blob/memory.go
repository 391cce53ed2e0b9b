package blob

import (
	memorystore "cliniccore/internal/infra/blob/memory"
)

// NewMemory returns an in-memory archive suitable for tests.
func NewMemory() Store { return memorystore.New() }
