package checkpoint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// FileStore persists one JSON checkpoint file per key.
type FileStore struct {
	fs  afero.Fs
	dir string
}

// NewFileStore creates dir on fs and returns a store writing into it.
func NewFileStore(fs afero.Fs, dir string) (*FileStore, error) {
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create checkpoint directory %s: %w", dir, err)
	}
	return &FileStore{fs: fs, dir: dir}, nil
}

// Path returns the checkpoint file for key.
func (s *FileStore) Path(key string) string {
	return filepath.Join(s.dir, fmt.Sprintf("checkpoint_%s.json", sanitizeKey(key)))
}

// Load implements Store.
func (s *FileStore) Load(_ context.Context, key string) (*State, error) {
	data, err := afero.ReadFile(s.fs, s.Path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoCheckpoint
		}
		return nil, fmt.Errorf("read checkpoint file: %w", err)
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("parse checkpoint file: %w", err)
	}
	if st.Key == "" {
		st.Key = key
	}
	return &st, nil
}

// Save writes the checkpoint to a temp file and renames it over the old one.
func (s *FileStore) Save(_ context.Context, st *State) error {
	path := s.Path(st.Key)

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal checkpoint: %w", err)
	}

	tempPath := path + ".tmp"
	if err := afero.WriteFile(s.fs, tempPath, data, 0644); err != nil {
		return fmt.Errorf("write checkpoint temp file: %w", err)
	}
	if err := s.fs.Rename(tempPath, path); err != nil {
		_ = s.fs.Remove(tempPath)
		return fmt.Errorf("rename checkpoint file: %w", err)
	}
	return nil
}

// Clear implements Store.
func (s *FileStore) Clear(_ context.Context, key string) error {
	path := s.Path(key)
	for _, p := range []string{path, path + ".tmp"} {
		if err := s.fs.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove checkpoint file: %w", err)
		}
	}
	return nil
}

func sanitizeKey(key string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', ' ':
			return '_'
		}
		return r
	}, key)
}
