// Package jsonfile persists a whole record collection as one JSON document.
//
// Every mutation is a full read-modify-write of the file with no locking and
// no write-ahead step. Two concurrent writers race and the later write wins.
// That lost-update behavior is part of the store's contract for this
// single-user tool; callers must not assume transactional semantics.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	pkgerrors "github.com/lucasrivera/fridgekeeper-backend/pkg/errors"
)

// SchemaVersion is written with every save. Files written before versioning
// existed are bare JSON arrays and are still readable.
const SchemaVersion = 1

type envelope[T any] struct {
	Version int `json:"version"`
	Records []T `json:"records"`
}

// Store reads and writes one collection of records backed by a single file.
type Store[T any] struct {
	path string
}

// New builds a store for the given file path. The file does not need to
// exist yet; a missing file loads as an empty collection.
func New[T any](path string) (*Store[T], error) {
	if path == "" {
		return nil, fmt.Errorf("jsonfile: path is required")
	}
	return &Store[T]{path: path}, nil
}

// Path returns the backing file path.
func (s *Store[T]) Path() string {
	return s.path
}

// Load reads the full collection. A missing file is an empty collection, not
// an error. Both the versioned envelope and the legacy bare-array layout are
// accepted.
func (s *Store[T]) Load(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "load canceled")
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []T{}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "read collection file")
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return []T{}, nil
	}

	if trimmed[0] == '[' {
		var records []T
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "decode legacy collection")
		}
		return records, nil
	}

	var env envelope[T]
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "decode collection envelope")
	}
	if env.Records == nil {
		env.Records = []T{}
	}
	return env.Records, nil
}

// Save replaces the full collection on disk, creating the parent directory
// when needed.
func (s *Store[T]) Save(ctx context.Context, records []T) error {
	if err := ctx.Err(); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "save canceled")
	}
	if records == nil {
		records = []T{}
	}

	payload, err := json.MarshalIndent(envelope[T]{Version: SchemaVersion, Records: records}, "", "  ")
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "encode collection")
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "create data directory")
		}
	}

	if err := os.WriteFile(s.path, payload, 0o644); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "write collection file")
	}
	return nil
}
