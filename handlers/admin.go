package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/camden-git/familyvault/config"
	"github.com/camden-git/familyvault/database"
	"github.com/camden-git/familyvault/media"
	"github.com/camden-git/familyvault/models"
	"github.com/camden-git/familyvault/repository"
	"github.com/camden-git/familyvault/utils"
	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

// AdminHandler backs the admin dashboard: user management, upload
// management, storage stats, the activity feed, and data backups. All routes
// sit behind RequireAdmin.
type AdminHandler struct {
	Cfg      config.Config
	SQLDB    *sql.DB
	UserRepo repository.UserRepository
	Uploads  repository.UploadRepository
	Activity repository.ActivityRepository
	Store    media.Store
}

func NewAdminHandler(cfg config.Config, sqlDB *sql.DB, users repository.UserRepository, uploads repository.UploadRepository, activity repository.ActivityRepository, store media.Store) *AdminHandler {
	return &AdminHandler{
		Cfg:      cfg,
		SQLDB:    sqlDB,
		UserRepo: users,
		Uploads:  uploads,
		Activity: activity,
		Store:    store,
	}
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.UserRepo.ListAll()
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal", "Failed to list users")
		return
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	writeJSON(w, http.StatusOK, users)
}

// ToggleAdmin flips the admin flag on a user account.
func (h *AdminHandler) ToggleAdmin(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "bad_request", "Invalid user ID")
		return
	}
	user, err := h.UserRepo.GetByID(uint(id))
	if err != nil {
		WriteAPIError(w, http.StatusNotFound, "not_found", "User not found")
		return
	}

	user.IsAdmin = !user.IsAdmin
	if err := h.UserRepo.Update(user); err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal", "Failed to update user")
		return
	}
	user.PasswordHash = ""
	writeJSON(w, http.StatusOK, user)
}

// DeleteUser removes a user account and its sessions.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "bad_request", "Invalid user ID")
		return
	}
	actor := UserFromContext(r)
	if actor != nil && actor.ID == uint(id) {
		WriteAPIError(w, http.StatusBadRequest, "bad_request", "You cannot delete your own account")
		return
	}
	if err := h.UserRepo.Delete(uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "User not found")
			return
		}
		WriteAPIError(w, http.StatusInternalServerError, "internal", "Failed to delete user")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "User deleted"})
}

func (h *AdminHandler) ListUploads(w http.ResponseWriter, r *http.Request) {
	uploads, err := h.Uploads.ListAll()
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal", "Failed to list uploads")
		return
	}
	writeJSON(w, http.StatusOK, uploads)
}

type ReassignPayload struct {
	Filename   string `json:"filename"`
	AssignedTo string `json:"assigned_to"`
}

// ReassignUpload hands an upload over to another user.
func (h *AdminHandler) ReassignUpload(w http.ResponseWriter, r *http.Request) {
	var payload ReassignPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "bad_request", "Invalid request payload: "+err.Error())
		return
	}
	if payload.Filename == "" || payload.AssignedTo == "" {
		WriteAPIError(w, http.StatusBadRequest, "bad_request", "filename and assigned_to are required")
		return
	}
	if payload.AssignedTo != models.SysopUsername {
		if _, err := h.UserRepo.GetByUsername(payload.AssignedTo); err != nil {
			WriteAPIError(w, http.StatusNotFound, "not_found", "Target user not found")
			return
		}
	}

	if err := h.Uploads.Reassign(payload.Filename, payload.AssignedTo); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "Upload not found")
			return
		}
		WriteAPIError(w, http.StatusInternalServerError, "internal", "Failed to reassign upload")
		return
	}

	actor := UserFromContext(r)
	if actor != nil {
		h.logActivity(models.ActionFileReassign, actor.Username,
			fmt.Sprintf("%s -> %s", payload.Filename, payload.AssignedTo))
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Upload reassigned"})
}

// StorageStatsResponse mirrors the aggregate stats with sizes converted to
// megabytes for display.
type StorageStatsResponse struct {
	TotalMB   float64            `json:"total_mb"`
	ByTypeMB  map[string]float64 `json:"by_type_mb"`
	ByUserMB  map[string]float64 `json:"by_user_mb"`
	FileCount int64              `json:"file_count"`
}

func toMB(bytes int64) float64 {
	return float64(bytes) / (1024 * 1024)
}

func (h *AdminHandler) StorageStats(w http.ResponseWriter, r *http.Request) {
	stats, err := database.GetStorageStats(h.SQLDB)
	if err != nil {
		log.Printf("Error computing storage stats: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "internal", "Failed to compute storage stats")
		return
	}

	resp := StorageStatsResponse{
		TotalMB:   toMB(stats.TotalSize),
		ByTypeMB:  make(map[string]float64, len(stats.ByType)),
		ByUserMB:  make(map[string]float64, len(stats.ByUser)),
		FileCount: stats.FileCount,
	}
	for t, size := range stats.ByType {
		resp.ByTypeMB[t] = toMB(size)
	}
	for u, size := range stats.ByUser {
		resp.ByUserMB[u] = toMB(size)
	}
	writeJSON(w, http.StatusOK, resp)
}

// ActivityFeed returns the most recent activity entries, newest first.
func (h *AdminHandler) ActivityFeed(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Activity.Latest(h.Cfg.ActivityViewLimit)
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal", "Failed to load activity log")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// CreateBackup zips the database, the family store, and the user-facing
// media directories into a timestamped archive with a manifest and checksum.
// Thumbnails are derivable and prior backups live in the destination
// directory, so neither is included.
func (h *AdminHandler) CreateBackup(w http.ResponseWriter, r *http.Request) {
	sources := []string{
		h.Cfg.DatabasePath,
		h.Cfg.FamilyStorePath,
		h.Cfg.ImagesPath,
		h.Cfg.VideosPath,
		h.Cfg.TextEntriesPath,
		h.Cfg.MiscUploadsPath,
	}
	filename, size, err := utils.CreateDataBackup(sources, h.Cfg.BackupsPath)
	if err != nil {
		log.Printf("Error creating data backup: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "internal", "Failed to create backup")
		return
	}

	actor := UserFromContext(r)
	if actor != nil {
		h.logActivity(models.ActionBackup, actor.Username, fmt.Sprintf("%s (%d bytes)", filename, size))
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"filename":   filename,
		"size_bytes": size,
	})
}

// ListBackups returns the archives present in the backup directory.
func (h *AdminHandler) ListBackups(w http.ResponseWriter, r *http.Request) {
	names, err := h.Store.List(media.AssetTypeBackup)
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal", "Failed to list backups")
		return
	}
	writeJSON(w, http.StatusOK, names)
}

func (h *AdminHandler) logActivity(action, username, details string) {
	if h.Activity == nil {
		return
	}
	if err := h.Activity.Log(action, username, details); err != nil {
		log.Printf("Error logging activity %s: %v", action, err)
	}
}
