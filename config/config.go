package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
)

const (
	DefaultImagesSubDir     = "images"
	DefaultVideosSubDir     = "videos"
	DefaultTextSubDir       = "text_entries"
	DefaultMiscSubDir       = "uploads"
	DefaultThumbnailsSubDir = "thumbnails"
	DefaultBackupsSubDir    = "backups"
)

const (
	defaultUploadQueueSize   = 100
	defaultNumUploadWorkers  = 2
	defaultThumbnailMaxSize  = 300
	defaultSessionTTLHours   = 24
	defaultActivityLogLimit  = 1000
	defaultActivityViewLimit = 500
)

type Config struct {
	// relational database (users, sessions, uploads, activity)
	DatabasePath string

	// family graph document
	FamilyStorePath string

	// media storage configuration
	MediaStoragePath string // primary root for user files and generated assets
	ImagesPath       string
	VideosPath       string
	TextEntriesPath  string
	MiscUploadsPath  string
	ThumbnailsPath   string
	BackupsPath      string

	// thumbnail generation settings
	ThumbnailMaxSize int

	// upload worker settings
	UploadQueueSize  int
	NumUploadWorkers int

	// authentication
	MasterPassword  string
	SessionTTLHours int

	// activity log retention
	ActivityLogLimit  int
	ActivityViewLimit int

	// face detection model paths (DNN); detection is disabled when empty
	FaceDNNNetConfigPath string
	FaceDNNNetModelPath  string
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %d. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func LoadConfig() (Config, error) {
	dbPath := getEnvOrDefault("DATABASE_PATH", "familyvault.db")

	familyStore := getEnvOrDefault("FAMILY_STORE_PATH", "family_tree.json")
	absFamilyStore, err := filepath.Abs(familyStore)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute path for family store '%s': %w", familyStore, err)
	}

	mediaStorage := getEnvOrDefault("MEDIA_STORAGE_PATH", filepath.Join(".", "media_storage"))
	absMediaStorage, err := filepath.Abs(mediaStorage)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute path for media storage '%s': %w", mediaStorage, err)
	}

	imagesSubDir := getEnvOrDefault("IMAGES_SUBDIR", DefaultImagesSubDir)
	videosSubDir := getEnvOrDefault("VIDEOS_SUBDIR", DefaultVideosSubDir)
	textSubDir := getEnvOrDefault("TEXT_SUBDIR", DefaultTextSubDir)
	miscSubDir := getEnvOrDefault("MISC_SUBDIR", DefaultMiscSubDir)
	thumbSubDir := getEnvOrDefault("THUMBNAILS_SUBDIR", DefaultThumbnailsSubDir)
	backupsSubDir := getEnvOrDefault("BACKUPS_SUBDIR", DefaultBackupsSubDir)

	masterPassword := os.Getenv("MASTER_PASSWORD")
	if masterPassword == "" {
		// fallback, should be set in production
		masterPassword = "changeme"
		log.Println("Warning: MASTER_PASSWORD not set, using insecure default")
	}

	cfg := Config{
		DatabasePath:         dbPath,
		FamilyStorePath:      absFamilyStore,
		MediaStoragePath:     absMediaStorage,
		ImagesPath:           filepath.Join(absMediaStorage, imagesSubDir),
		VideosPath:           filepath.Join(absMediaStorage, videosSubDir),
		TextEntriesPath:      filepath.Join(absMediaStorage, textSubDir),
		MiscUploadsPath:      filepath.Join(absMediaStorage, miscSubDir),
		ThumbnailsPath:       filepath.Join(absMediaStorage, thumbSubDir),
		BackupsPath:          filepath.Join(absMediaStorage, backupsSubDir),
		ThumbnailMaxSize:     getEnvIntOrDefault("THUMBNAIL_MAX_SIZE", defaultThumbnailMaxSize),
		UploadQueueSize:      getEnvIntOrDefault("UPLOAD_QUEUE_SIZE", defaultUploadQueueSize),
		NumUploadWorkers:     getEnvIntOrDefault("NUM_UPLOAD_WORKERS", defaultNumUploadWorkers),
		MasterPassword:       masterPassword,
		SessionTTLHours:      getEnvIntOrDefault("SESSION_TTL_HOURS", defaultSessionTTLHours),
		ActivityLogLimit:     getEnvIntOrDefault("ACTIVITY_LOG_LIMIT", defaultActivityLogLimit),
		ActivityViewLimit:    getEnvIntOrDefault("ACTIVITY_VIEW_LIMIT", defaultActivityViewLimit),
		FaceDNNNetConfigPath: os.Getenv("FACE_DNN_CONFIG_PATH"),
		FaceDNNNetModelPath:  os.Getenv("FACE_DNN_MODEL_PATH"),
	}

	return cfg, nil
}
