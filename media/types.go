package media

import (
	"path/filepath"
	"strings"
)

// AssetType names a storage category. Upload categories ("image", "video",
// "text", "other") match the values recorded on upload rows; "thumbnail" and
// "backup" hold generated assets.
type AssetType string

const (
	AssetTypeImage     AssetType = "image"
	AssetTypeVideo     AssetType = "video"
	AssetTypeText      AssetType = "text"
	AssetTypeOther     AssetType = "other"
	AssetTypeThumbnail AssetType = "thumbnail"
	AssetTypeBackup    AssetType = "backup"
)

var imageExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".bmp": true, ".webp": true,
}

var videoExtensions = map[string]bool{
	".mp4": true, ".mov": true, ".avi": true, ".mkv": true, ".webm": true,
}

// IsImageFilename reports whether the filename carries an image extension.
func IsImageFilename(name string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(name))]
}

// IsVideoFilename reports whether the filename carries a video extension.
func IsVideoFilename(name string) bool {
	return videoExtensions[strings.ToLower(filepath.Ext(name))]
}

// CategoryForFilename classifies an uploaded file by extension.
func CategoryForFilename(name string) AssetType {
	ext := strings.ToLower(filepath.Ext(name))
	switch {
	case imageExtensions[ext]:
		return AssetTypeImage
	case videoExtensions[ext]:
		return AssetTypeVideo
	case ext == ".txt":
		return AssetTypeText
	default:
		return AssetTypeOther
	}
}

// SanitizeFilename lowercases a client-supplied filename and replaces spaces
// with underscores, keeping only the base name.
func SanitizeFilename(name string) string {
	base := filepath.Base(strings.TrimSpace(name))
	return strings.ToLower(strings.ReplaceAll(base, " ", "_"))
}
