package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryForFilename(t *testing.T) {
	assert.Equal(t, AssetTypeImage, CategoryForFilename("photo.JPG"))
	assert.Equal(t, AssetTypeImage, CategoryForFilename("scan.webp"))
	assert.Equal(t, AssetTypeVideo, CategoryForFilename("clip.mp4"))
	assert.Equal(t, AssetTypeText, CategoryForFilename("memoir.txt"))
	assert.Equal(t, AssetTypeOther, CategoryForFilename("archive.pdf"))
	assert.Equal(t, AssetTypeOther, CategoryForFilename("noextension"))
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "family_photo.jpg", SanitizeFilename("Family Photo.JPG"))
	assert.Equal(t, "passwd", SanitizeFilename("../../etc/passwd"))
	assert.Equal(t, "notes.txt", SanitizeFilename("  Notes.txt "))
}

func TestThumbnailName(t *testing.T) {
	assert.Equal(t, "photo.png.jpg", ThumbnailName("photo.png"))
}
