package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/camden-git/familyvault/media"
	"github.com/camden-git/familyvault/models"
	"github.com/camden-git/familyvault/repository"
	"gorm.io/gorm"
)

type TextHandler struct {
	Store    media.Store
	Uploads  repository.UploadRepository
	Activity repository.ActivityRepository
}

func NewTextHandler(store media.Store, uploads repository.UploadRepository, activity repository.ActivityRepository) *TextHandler {
	return &TextHandler{Store: store, Uploads: uploads, Activity: activity}
}

type TextEntryPayload struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Create stores a text entry as a .txt file in the text category and records
// it like any other upload.
func (h *TextHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r)
	if user == nil {
		WriteAPIError(w, http.StatusUnauthorized, "unauthenticated", "Authentication required")
		return
	}

	var payload TextEntryPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "bad_request", "Invalid request payload: "+err.Error())
		return
	}
	title := strings.TrimSpace(payload.Title)
	if title == "" || strings.TrimSpace(payload.Content) == "" {
		WriteAPIError(w, http.StatusBadRequest, "bad_request", "Title and content are required")
		return
	}

	filename := media.SanitizeFilename(title)
	if !strings.HasSuffix(filename, ".txt") {
		filename += ".txt"
	}
	if _, err := h.Uploads.GetByFilename(filename); err == nil {
		WriteAPIError(w, http.StatusConflict, "conflict", fmt.Sprintf("An entry named '%s' already exists", filename))
		return
	}

	if _, err := h.Store.Save(media.AssetTypeText, filename, strings.NewReader(payload.Content)); err != nil {
		log.Printf("Error saving text entry %s: %v", filename, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal", "Failed to store text entry")
		return
	}

	upload := &models.Upload{
		Filename:   filename,
		Type:       models.UploadTypeText,
		Uploader:   user.Username,
		AssignedTo: user.Username,
		SizeBytes:  int64(len(payload.Content)),
	}
	if err := h.Uploads.Create(upload); err != nil {
		h.Store.Delete(media.AssetTypeText, filename)
		WriteAPIError(w, http.StatusInternalServerError, "internal", "Failed to record text entry")
		return
	}

	if h.Activity != nil {
		if err := h.Activity.Log(models.ActionFileUpload, user.Username, filename+" (text entry)"); err != nil {
			log.Printf("Error logging activity: %v", err)
		}
	}
	writeJSON(w, http.StatusCreated, upload)
}

// List returns the recorded text entries.
func (h *TextHandler) List(w http.ResponseWriter, r *http.Request) {
	uploads, err := h.Uploads.ListAll()
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal", "Failed to list text entries")
		return
	}
	entries := make([]models.Upload, 0)
	for _, u := range uploads {
		if u.Type == models.UploadTypeText {
			entries = append(entries, u)
		}
	}
	writeJSON(w, http.StatusOK, entries)
}

// Save replaces the content of an existing text entry. Only the owner (or an
// admin) may overwrite it.
func (h *TextHandler) Save(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r)
	if user == nil {
		WriteAPIError(w, http.StatusUnauthorized, "unauthenticated", "Authentication required")
		return
	}

	var payload TextEntryPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "bad_request", "Invalid request payload: "+err.Error())
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
			WriteAPIError(w, http.StatusNotFound, "not_found", "Text entry not found")
			return
		}
		WriteAPIError(w, http.StatusInternalServerError, "internal", "Failed to load text entry")
		return
	}
	if upload.Type != models.UploadTypeText {
		WriteAPIError(w, http.StatusBadRequest, "bad_request", "Not a text entry")
		return
	}
	if !user.IsAdmin && !strings.EqualFold(upload.AssignedTo, user.Username) {
		WriteAPIError(w, http.StatusForbidden, "forbidden", "You can only edit your own entries")
		return
	}

	if _, err := h.Store.Save(media.AssetTypeText, filename, strings.NewReader(payload.Content)); err != nil {
		log.Printf("Error saving text entry %s: %v", filename, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal", "Failed to store text entry")
		return
	}
	upload.SizeBytes = int64(len(payload.Content))
	if err := h.Uploads.Update(upload); err != nil {
		log.Printf("Error updating text entry record %s: %v", filename, err)
	}

	writeJSON(w, http.StatusOK, upload)
}

// Get returns the stored content of one text entry.
func (h *TextHandler) Get(w http.ResponseWriter, r *http.Request) {
	filename := media.SanitizeFilename(r.URL.Query().Get("filename"))
	if filename == "" {
		WriteAPIError(w, http.StatusBadRequest, "bad_request", "filename query parameter is required")
		return
	}

	upload, err := h.Uploads.GetByFilename(filename)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "Text entry not found")
			return
		}
		WriteAPIError(w, http.StatusInternalServerError, "internal", "Failed to load text entry")
		return
	}
	if upload.Type != models.UploadTypeText {
		WriteAPIError(w, http.StatusBadRequest, "bad_request", "Not a text entry")
		return
	}

	fullPath, err := h.Store.FullPath(media.AssetTypeText, filename)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	content, err := os.ReadFile(fullPath)
	if err != nil {
		WriteAPIError(w, http.StatusNotFound, "not_found", "Text entry file missing")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"filename": filename,
		"uploader": upload.Uploader,
		"content":  string(content),
	})
}
