package utils

import (
	"archive/zip"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

type backupFileEntry struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
}

type backupManifest struct {
	Created string            `json:"created"`
	Sources []string          `json:"sources"`
	Files   []backupFileEntry `json:"files"`
}

// CreateDataBackup zips the given source files/directories into a timestamped
// archive under saveDir, writing a JSON manifest and a sha256 checksum file
// alongside it. Missing sources are skipped. Returns the zip filename
// (relative to saveDir) and its size in bytes.
func CreateDataBackup(sources []string, saveDir string) (string, int64, error) {
	if err := os.MkdirAll(saveDir, 0755); err != nil {
		return "", 0, fmt.Errorf("failed to create backup directory %s: %w", saveDir, err)
	}

	stamp := time.Now().UTC().Format("20060102T150405Z")
	backupUUID, _ := uuid.NewRandom()
	zipFilename := fmt.Sprintf("backup_%s_%s.zip", stamp, backupUUID.String()[:8])
	zipFilePath := filepath.Join(saveDir, zipFilename)

	zipFile, err := os.Create(zipFilePath)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create backup zip %s: %w", zipFilePath, err)
	}
	defer zipFile.Close()

	zipWriter := zip.NewWriter(zipFile)
	manifest := backupManifest{Created: stamp, Sources: sources}

	addFile := func(fullPath, arcName string) {
		info, err := os.Stat(fullPath)
		if err != nil || !info.Mode().IsRegular() {
			return
		}
		src, err := os.Open(fullPath)
		if err != nil {
			log.Printf("zipper: failed to open %s for backup: %v. Skipping.", fullPath, err)
			return
		}
		defer src.Close()

		writer, err := zipWriter.Create(arcName)
		if err != nil {
			log.Printf("zipper: failed to create zip entry for %s: %v. Skipping.", arcName, err)
			return
		}
		if _, err := io.Copy(writer, src); err != nil {
			log.Printf("zipper: failed to write %s to backup: %v. Skipping.", arcName, err)
			return
		}
		manifest.Files = append(manifest.Files, backupFileEntry{Path: arcName, Size: info.Size()})
	}

	for _, source := range sources {
		info, err := os.Stat(source)
		if err != nil {
			log.Printf("zipper: backup source %s unavailable: %v. Skipping.", source, err)
			continue
		}
		if !info.IsDir() {
			addFile(source, filepath.Base(source))
			continue
		}
		base := filepath.Base(source)
		filepath.Walk(source, func(path string, fi os.FileInfo, err error) error {
			if err != nil || fi.IsDir() {
				return nil
			}
			rel, relErr := filepath.Rel(source, path)
			if relErr != nil {
				return nil
			}
			addFile(path, filepath.ToSlash(filepath.Join(base, rel)))
			return nil
		})
	}

	if err := zipWriter.Close(); err != nil {
		return "", 0, fmt.Errorf("failed to finalize backup zip %s: %w", zipFilePath, err)
	}
	if err := zipFile.Close(); err != nil {
		return "", 0, fmt.Errorf("failed to close backup zip %s: %w", zipFilePath, err)
	}

	manifestPath := zipFilePath[:len(zipFilePath)-len(".zip")] + ".manifest.json"
	manifestData, err := json.MarshalIndent(manifest, "", "  ")
	if err == nil {
		if err := os.WriteFile(manifestPath, manifestData, 0644); err != nil {
			log.Printf("zipper: failed to write backup manifest: %v", err)
		}
	}

	if digest, err := fileSHA256(zipFilePath); err == nil {
		if err := os.WriteFile(zipFilePath+".sha256", []byte(digest), 0644); err != nil {
			log.Printf("zipper: failed to write backup checksum: %v", err)
		}
	} else {
		log.Printf("zipper: failed to compute backup checksum: %v", err)
	}

	zipInfo, err := os.Stat(zipFilePath)
	if err != nil {
		return "", 0, fmt.Errorf("failed to stat created backup zip %s: %w", zipFilePath, err)
	}

	log.Printf("zipper: created data backup %s (%d bytes, %d files)", zipFilePath, zipInfo.Size(), len(manifest.Files))
	return zipFilename, zipInfo.Size(), nil
}

func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
