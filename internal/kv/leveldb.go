package kv

import (
	"errors"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
)

// LevelDBStore keeps state in a goleveldb directory. Writes use synchronous
// mode so durability matches the sql drivers.
type LevelDBStore struct {
	db   *leveldb.DB
	path string
}

var levelWriteOpts = &opt.WriteOptions{Sync: true}

// NewLevelDB opens (creating if needed) a leveldb-backed store at path.
func NewLevelDB(path string) (*LevelDBStore, error) {
	if path == "" {
		path = "cliniccore.ldb"
	}
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("open leveldb: %w", err)
	}
	return &LevelDBStore{db: db, path: path}, nil
}

func (s *LevelDBStore) Get(key string, out any) (bool, error) {
	payload, err := s.db.Get([]byte(key), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get %s: %w", key, err)
	}
	if err := decode(payload, out); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (s *LevelDBStore) Set(key string, value any) error {
	payload, err := encode(value)
	if err != nil {
		return err
	}
	if err := s.db.Put([]byte(key), payload, levelWriteOpts); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

func (s *LevelDBStore) Delete(key string) error {
	if err := s.db.Delete([]byte(key), levelWriteOpts); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *LevelDBStore) Close() error { return s.db.Close() }

// Path returns the configured database directory.
func (s *LevelDBStore) Path() string { return s.path }
