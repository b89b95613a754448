package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/camden-git/familyvault/media"
	"github.com/camden-git/familyvault/models"
	"github.com/camden-git/familyvault/repository"
	"github.com/camden-git/familyvault/workers"
	"gorm.io/gorm"
)

const maxUploadBytes = 512 << 20 // 512 MiB

type UploadHandler struct {
	Store     media.Store
	Uploads   repository.UploadRepository
	Activity  repository.ActivityRepository
	Processor *workers.UploadProcessor
}

func NewUploadHandler(store media.Store, uploads repository.UploadRepository, activity repository.ActivityRepository, processor *workers.UploadProcessor) *UploadHandler {
	return &UploadHandler{Store: store, Uploads: uploads, Activity: activity, Processor: processor}
}

// Upload accepts one multipart file, classifies it by extension, stores it
// in the matching category directory, records it, and queues image
// post-processing.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r)
	if user == nil {
		WriteAPIError(w, http.StatusUnauthorized, "unauthenticated", "Authentication required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "bad_request", "Failed to parse multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "bad_request", "Missing 'file' field in form data")
		return
	}
	defer file.Close()

	filename := media.SanitizeFilename(header.Filename)
	if filename == "" || filename == "." {
		WriteAPIError(w, http.StatusBadRequest, "bad_request", "Invalid filename")
		return
	}
	if _, err := h.Uploads.GetByFilename(filename); err == nil {
		WriteAPIError(w, http.StatusConflict, "conflict", fmt.Sprintf("A file named '%s' already exists", filename))
		return
	}

	category := media.CategoryForFilename(filename)
	fullPath, err := h.Store.Save(category, filename, file)
	if err != nil {
		log.Printf("Error saving upload %s: %v", filename, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal", "Failed to store uploaded file")
		return
	}

	upload := &models.Upload{
		Filename:   filename,
		Type:       string(category),
		Uploader:   user.Username,
		AssignedTo: user.Username,
		SizeBytes:  header.Size,
	}
	if err := h.Uploads.Create(upload); err != nil {
		h.Store.Delete(category, filename)
		log.Printf("Error recording upload %s: %v", filename, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal", "Failed to record upload")
		return
	}

	if category == media.AssetTypeImage && h.Processor != nil {
		h.Processor.QueueJob(workers.UploadJob{UploadID: upload.ID, Filename: filename, FullPath: fullPath})
	}

	h.logActivity(models.ActionFileUpload, user.Username, fmt.Sprintf("%s (%s, %d bytes)", filename, category, header.Size))
	writeJSON(w, http.StatusCreated, upload)
}

// ListMine returns the uploads assigned to the authenticated user.
func (h *UploadHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r)
	if user == nil {
		WriteAPIError(w, http.StatusUnauthorized, "unauthenticated", "Authentication required")
		return
	}
	uploads, err := h.Uploads.ListAll()
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal", "Failed to list uploads")
		return
	}
	mine := make([]models.Upload, 0)
	for _, u := range uploads {
		if strings.EqualFold(u.AssignedTo, user.Username) {
			mine = append(mine, u)
		}
	}
	writeJSON(w, http.StatusOK, mine)
}

// Delete removes an upload owned by the caller (admins may remove any).
func (h *UploadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r)
	if user == nil {
		WriteAPIError(w, http.StatusUnauthorized, "unauthenticated", "Authentication required")
		return
	}
	filename := media.SanitizeFilename(r.URL.Query().Get("filename"))
	if filename == "" {
		WriteAPIError(w, http.StatusBadRequest, "bad_request", "filename query parameter is required")
		return
	}

	upload, err := h.Uploads.GetByFilename(filename)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "Upload not found")
			return
		}
		WriteAPIError(w, http.StatusInternalServerError, "internal", "Failed to load upload")
		return
	}
	if !user.IsAdmin && !strings.EqualFold(upload.AssignedTo, user.Username) {
		WriteAPIError(w, http.StatusForbidden, "forbidden", "You can only delete your own uploads")
		return
	}

	if err := h.Uploads.DeleteByFilename(filename); err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal", "Failed to delete upload record")
		return
	}
	if err := h.Store.Delete(media.AssetType(upload.Type), filename); err != nil {
		log.Printf("Error deleting stored file %s: %v", filename, err)
	}
	if upload.Type == models.UploadTypeImage {
		if err := h.Store.Delete(media.AssetTypeThumbnail, media.ThumbnailName(filename)); err != nil {
			log.Printf("Error deleting thumbnail for %s: %v", filename, err)
		}
	}

	h.logActivity(models.ActionFileDelete, user.Username, filename)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Upload deleted"})
}

func (h *UploadHandler) logActivity(action, username, details string) {
	if h.Activity == nil {
		return
	}
	if err := h.Activity.Log(action, username, details); err != nil {
		log.Printf("Error logging activity %s: %v", action, err)
	}
}
