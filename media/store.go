package media

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// Store is the interface for saving, retrieving, and deleting stored files
// by category.
type Store interface {
	// Save writes data under the category directory and returns the final
	// absolute path.
	Save(assetType AssetType, filename string, data io.Reader) (string, error)
	// Delete removes a file; a missing file is not an error.
	Delete(assetType AssetType, filename string) error
	// FullPath resolves a filename within a category, rejecting traversal.
	FullPath(assetType AssetType, filename string) (string, error)
	// DirFor returns the category directory, creating it if needed.
	DirFor(assetType AssetType) (string, error)
	// List returns the plain filenames present in a category directory.
	List(assetType AssetType) ([]string, error)
}

// LocalStorage implements Store on the local filesystem with one
// subdirectory per asset type.
type LocalStorage struct {
	basePath string
	dirs     map[AssetType]string
}

// NewLocalStorage creates a local store rooted at basePath. dirs maps each
// asset type to its subdirectory name.
func NewLocalStorage(basePath string, dirs map[AssetType]string) (*LocalStorage, error) {
	absBase, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("invalid base storage path '%s': %w", basePath, err)
	}
	if err := os.MkdirAll(absBase, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base storage directory '%s': %w", absBase, err)
	}

	resolved := make(map[AssetType]string, len(dirs))
	for assetType, subDir := range dirs {
		full := filepath.Join(absBase, subDir)
		if !strings.HasPrefix(filepath.Clean(full), absBase) {
			return nil, fmt.Errorf("invalid subdirectory configuration: '%s' resolves outside base path '%s'", subDir, absBase)
		}
		resolved[assetType] = full
	}

	log.Printf("media.store: initialized local storage at %s", absBase)
	return &LocalStorage{basePath: absBase, dirs: resolved}, nil
}

// DirFor returns (and creates) the directory for an asset type.
func (ls *LocalStorage) DirFor(assetType AssetType) (string, error) {
	dir, ok := ls.dirs[assetType]
	if !ok {
		return "", fmt.Errorf("unconfigured asset type '%s'", assetType)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to ensure directory '%s': %w", dir, err)
	}
	return dir, nil
}

// FullPath resolves a filename inside an asset type directory and rejects
// anything escaping it.
func (ls *LocalStorage) FullPath(assetType AssetType, filename string) (string, error) {
	dir, ok := ls.dirs[assetType]
	if !ok {
		return "", fmt.Errorf("unconfigured asset type '%s'", assetType)
	}
	full := filepath.Join(dir, filepath.Clean(filename))
	if !strings.HasPrefix(full, dir) {
		return "", fmt.Errorf("invalid path: access denied for '%s'", filename)
	}
	return full, nil
}

// Save writes data to the category directory under the given filename.
func (ls *LocalStorage) Save(assetType AssetType, filename string, data io.Reader) (string, error) {
	if filename == "" {
		return "", fmt.Errorf("filename cannot be empty")
	}
	if _, err := ls.DirFor(assetType); err != nil {
		return "", err
	}
	full, err := ls.FullPath(assetType, filename)
	if err != nil {
		return "", err
	}

	out, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file '%s': %w", full, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, data); err != nil {
		out.Close()
		os.Remove(full)
		return "", fmt.Errorf("failed to write data to '%s': %w", full, err)
	}

	log.Printf("media.store: saved %s asset %s", assetType, full)
	return full, nil
}

// Delete removes a stored file, treating "already gone" as success.
func (ls *LocalStorage) Delete(assetType AssetType, filename string) error {
	full, err := ls.FullPath(assetType, filename)
	if err != nil {
		return err
	}
	err = os.Remove(full)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete asset '%s': %w", filename, err)
	}
	if err == nil {
		log.Printf("media.store: deleted asset %s", full)
	}
	return nil
}

// List returns the filenames present in a category directory.
func (ls *LocalStorage) List(assetType AssetType) ([]string, error) {
	dir, err := ls.DirFor(assetType)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list directory '%s': %w", dir, err)
	}
	var names []string
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// PhotoCleaner adapts a Store to the family engine's photo-release hook:
// person photos live in the image category and their thumbnails carry the
// derived "<filename>.jpg" name.
type PhotoCleaner struct {
	Store Store
}

func (pc PhotoCleaner) RemovePhoto(filename string) error {
	return pc.Store.Delete(AssetTypeImage, filename)
}

func (pc PhotoCleaner) RemoveThumbnail(filename string) error {
	return pc.Store.Delete(AssetTypeThumbnail, ThumbnailName(filename))
}

// ThumbnailName returns the deterministic thumbnail filename for an original.
func ThumbnailName(original string) string {
	return original + ".jpg"
}
