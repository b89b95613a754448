package familytree

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Store persists the complete family graph as a single JSON array document.
// Every mutation is a full read-modify-write of that document; the Store
// itself provides no locking.
type Store struct {
	path string
}

// NewStore creates a store backed by the given document path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the document path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the full document. A missing document yields an empty graph.
func (s *Store) Load() (*Graph, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewGraph(), nil
		}
		return nil, fmt.Errorf("failed to read family store %s: %w", s.path, err)
	}

	var people []*Person
	if err := json.Unmarshal(data, &people); err != nil {
		return nil, fmt.Errorf("failed to parse family store %s: %w", s.path, err)
	}
	return FromPeople(people), nil
}

// Save atomically replaces the document: the new content is written to a
// temporary file in the same directory and renamed over the old document, so
// a crash mid-write never leaves a corrupt store.
func (s *Store) Save(g *Graph) error {
	data, err := json.MarshalIndent(g.People(), "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode family store: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create family store directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".family_store-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file for family store: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write family store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp family store file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace family store %s: %w", s.path, err)
	}
	return nil
}

// Backup copies the current persisted document to an immutable timestamped
// file next to it and returns the backup path. If no document has been
// persisted yet there is nothing to back up and the empty string is returned.
func (s *Store) Backup() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read family store for backup: %w", err)
	}

	stamp := time.Now().UTC().Format("20060102T150405Z")
	base := filepath.Base(s.path)
	ext := filepath.Ext(base)
	backupName := fmt.Sprintf("%s_backup_%s%s", base[:len(base)-len(ext)], stamp, ext)
	backupPath := filepath.Join(filepath.Dir(s.path), backupName)

	if err := os.WriteFile(backupPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write family store backup %s: %w", backupPath, err)
	}
	return backupPath, nil
}
