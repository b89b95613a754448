package handlers

import (
	"net/http"

	"github.com/camden-git/familyvault/media"
	"github.com/camden-git/familyvault/models"
	"github.com/camden-git/familyvault/repository"
	"github.com/facette/natsort"
)

type MediaHandler struct {
	Store   media.Store
	Uploads repository.UploadRepository
}

func NewMediaHandler(store media.Store, uploads repository.UploadRepository) *MediaHandler {
	return &MediaHandler{Store: store, Uploads: uploads}
}

// GalleryItem is one gallery entry with the upload metadata (if any) joined
// onto the on-disk filename.
type GalleryItem struct {
	Filename      string  `json:"filename"`
	AssignedTo    string  `json:"assigned_to,omitempty"`
	ThumbnailPath *string `json:"thumbnail_path,omitempty"`
	TakenAt       *int64  `json:"taken_at,omitempty"`
	FaceCount     *int    `json:"face_count,omitempty"`
}

// ImageGallery lists the stored images in natural sort order so that
// photo_2.jpg comes before photo_10.jpg.
func (h *MediaHandler) ImageGallery(w http.ResponseWriter, r *http.Request) {
	h.gallery(w, media.AssetTypeImage)
}

// VideoGallery lists the stored videos in natural sort order.
func (h *MediaHandler) VideoGallery(w http.ResponseWriter, r *http.Request) {
	h.gallery(w, media.AssetTypeVideo)
}

func (h *MediaHandler) gallery(w http.ResponseWriter, assetType media.AssetType) {
	names, err := h.Store.List(assetType)
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal", "Failed to list stored files")
		return
	}
	natsort.Sort(names)

	byFilename := make(map[string]models.Upload)
	if uploads, err := h.Uploads.ListAll(); err == nil {
		for _, u := range uploads {
			byFilename[u.Filename] = u
		}
	}

	items := make([]GalleryItem, 0, len(names))
	for _, name := range names {
		item := GalleryItem{Filename: name}
		if u, ok := byFilename[name]; ok {
			item.AssignedTo = u.AssignedTo
			item.ThumbnailPath = u.ThumbnailPath
			item.TakenAt = u.TakenAt
			item.FaceCount = u.FaceCount
		}
		items = append(items, item)
	}
	writeJSON(w, http.StatusOK, items)
}
