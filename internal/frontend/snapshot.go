// Package frontend ingests the typed module graph produced by the external
// type-checking front end. The front end serializes one Snapshot per
// invocation as msgpack; the translator only decodes, it never re-checks the
// trees.
package frontend

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/AALEKH/oil/internal/tast"
)

// Current schema version - increment when Snapshot format changes
const snapshotSchemaVersion uint16 = 1

// Snapshot is the on-disk unit of front-end output: the typed modules of one
// checker invocation plus any diagnostics it reported.
type Snapshot struct {
	Schema      uint16
	Modules     []*tast.Module
	Diagnostics []tast.Diagnostic
}

// WriteSnapshot serializes a snapshot to path atomically.
func WriteSnapshot(path string, snap *Snapshot) error {
	snap.Schema = snapshotSchemaVersion
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create snapshot dir: %w", err)
	}
	f, err := os.CreateTemp(filepath.Dir(path), "tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create snapshot temp file: %w", err)
	}
	defer func() {
		// Лучшая попытка: файл уже переименован в случае успеха.
		_ = os.Remove(f.Name())
	}()

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(snap); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), path)
}

// ReadSnapshot decodes a snapshot from path, validating its schema version.
func ReadSnapshot(path string) (*Snapshot, error) {
	// #nosec G304 -- path comes from the run configuration
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot %q: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	var snap Snapshot
	dec := msgpack.NewDecoder(f)
	if err := dec.Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %q: %w", path, err)
	}
	if snap.Schema != snapshotSchemaVersion {
		return nil, fmt.Errorf("snapshot %q: schema version %d, want %d (re-run the front end)",
			path, snap.Schema, snapshotSchemaVersion)
	}
	return &snap, nil
}
