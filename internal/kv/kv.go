// Package kv provides typed get/set/delete access to a durable local
// key-value store. Values are serialized as JSON; every write is immediately
// durable so a restart observes the latest state.
package kv

import "encoding/json"

// Driver identifies a concrete key-value backend implementation.
type Driver string

const (
	DriverMemory   Driver = "memory"   // in-memory only (tests / ephemeral)
	DriverSQLite   Driver = "sqlite"   // embedded sqlite file
	DriverLevelDB  Driver = "leveldb"  // goleveldb file store
	DriverPostgres Driver = "postgres" // PostgreSQL server
)

// Store is the persistence contract the clinic stores build on.
//
// Get decodes the stored value into out and reports whether the key was
// present. Implementations return (false, nil) for a missing key and
// (false, err) for backend or decode failures; callers that can fall back to
// seed data treat both the same way (see Load).
type Store interface {
	Get(key string, out any) (bool, error)
	Set(key string, value any) error
	Delete(key string) error
	Close() error
}

// Load reads key into out, degrading every failure mode to "absent". This is
// the read contract the clinic stores rely on: an unavailable or corrupted
// backend must look like a store that was never initialized.
func Load(s Store, key string, out any) bool {
	ok, err := s.Get(key, out)
	return err == nil && ok
}

func encode(value any) ([]byte, error) {
	return json.Marshal(value)
}

func decode(payload []byte, out any) error {
	return json.Unmarshal(payload, out)
}
