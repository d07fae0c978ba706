package runstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SnapshotFile is the file name used inside each run directory.
const SnapshotFile = "opt.yml"

// FileStore writes each snapshot as a YAML document under its run directory.
type FileStore struct{}

func NewFileStore() *FileStore {
	return &FileStore{}
}

func (s *FileStore) Save(_ context.Context, dir string, snapshot Snapshot) error {
	path := filepath.Join(dir, SnapshotFile)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("runstore: create %s: %w", path, err)
	}

	enc := yaml.NewEncoder(f)
	enc.SetIndent(4)
	if err := enc.Encode(snapshot); err != nil {
		f.Close()
		return fmt.Errorf("runstore: encode %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("runstore: encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("runstore: write %s: %w", path, err)
	}
	return nil
}

func (s *FileStore) Load(_ context.Context, dir string) (Snapshot, bool, error) {
	path := filepath.Join(dir, SnapshotFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("runstore: read %s: %w", path, err)
	}

	var snapshot Snapshot
	if err := yaml.Unmarshal(data, &snapshot); err != nil {
		return nil, false, fmt.Errorf("runstore: decode %s: %w", path, err)
	}
	return snapshot, true, nil
}
