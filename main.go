package main

import (
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/camden-git/familyvault/config"
	"github.com/camden-git/familyvault/database"
	"github.com/camden-git/familyvault/familytree"
	"github.com/camden-git/familyvault/handlers"
	"github.com/camden-git/familyvault/media"
	"github.com/camden-git/familyvault/models"
	"github.com/camden-git/familyvault/realtime"
	"github.com/camden-git/familyvault/repository"
	"github.com/camden-git/familyvault/workers"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	storagePaths := []string{
		cfg.ImagesPath, cfg.VideosPath, cfg.TextEntriesPath, cfg.MiscUploadsPath,
		cfg.ThumbnailsPath, cfg.BackupsPath,
		filepath.Dir(cfg.DatabasePath), filepath.Dir(cfg.FamilyStorePath),
	}
	for _, p := range storagePaths {
		log.Printf("Ensuring storage directory exists: %s", p)
		if err := os.MkdirAll(p, 0755); err != nil {
			log.Fatalf("FATAL: Failed to create storage directory %s: %v", p, err)
		}
	}

	gormDB, err := database.InitGormDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database: %v", err)
	}
	if err := database.AutoMigrateModels(gormDB); err != nil {
		log.Fatalf("FATAL: Failed to migrate database schema: %v", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Fatalf("FATAL: Failed to access underlying sql.DB: %v", err)
	}
	defer sqlDB.Close()

	mediaSubDirs := map[media.AssetType]string{
		media.AssetTypeImage:     filepath.Base(cfg.ImagesPath),
		media.AssetTypeVideo:     filepath.Base(cfg.VideosPath),
		media.AssetTypeText:      filepath.Base(cfg.TextEntriesPath),
		media.AssetTypeOther:     filepath.Base(cfg.MiscUploadsPath),
		media.AssetTypeThumbnail: filepath.Base(cfg.ThumbnailsPath),
		media.AssetTypeBackup:    filepath.Base(cfg.BackupsPath),
	}
	mediaStore, err := media.NewLocalStorage(cfg.MediaStoragePath, mediaSubDirs)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize media store: %v", err)
	}

	hub := realtime.NewHub()
	go hub.Run()

	userRepo := repository.NewGormUserRepository(gormDB)
	sessionRepo := repository.NewGormSessionRepository(gormDB)
	uploadRepo := repository.NewGormUploadRepository(gormDB)
	activityRepo := repository.NewGormActivityRepository(gormDB, cfg.ActivityLogLimit, func(entry models.ActivityEntry) {
		hub.BroadcastActivity(entry.Action, entry.Username, entry.Details)
	})

	if err := sessionRepo.DeleteExpired(); err != nil {
		log.Printf("Warning: failed to prune expired sessions: %v", err)
	}

	faceDetector := media.NewFaceDetector(cfg.FaceDNNNetConfigPath, cfg.FaceDNNNetModelPath)
	defer faceDetector.Close()

	log.Printf("Initializing upload worker pool (Workers: %d, Queue Size: %d)...", cfg.NumUploadWorkers, cfg.UploadQueueSize)
	uploadProcessor := workers.NewUploadProcessor(cfg, uploadRepo, faceDetector, cfg.UploadQueueSize, cfg.NumUploadWorkers)
	defer uploadProcessor.Stop()

	familyStore := familytree.NewStore(cfg.FamilyStorePath)
	familyService := familytree.NewService(familyStore, activityRepo, media.PhotoCleaner{Store: mediaStore})

	log.Printf("Using database: %s", cfg.DatabasePath)
	log.Printf("Using family store: %s", cfg.FamilyStorePath)
	log.Printf("Storing media under: %s", cfg.MediaStoragePath)

	r := chi.NewRouter()

	corsOptions := cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173"}, //TODO: configurable
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	corsHandler := cors.New(corsOptions)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsHandler.Handler)

	authHandler := handlers.NewAuthHandler(cfg, userRepo, sessionRepo, activityRepo)
	familyHandler := handlers.NewFamilyHandler(familyService)
	uploadHandler := handlers.NewUploadHandler(mediaStore, uploadRepo, activityRepo, uploadProcessor)
	textHandler := handlers.NewTextHandler(mediaStore, uploadRepo, activityRepo)
	mediaHandler := handlers.NewMediaHandler(mediaStore, uploadRepo)
	adminHandler := handlers.NewAdminHandler(cfg, sqlDB, userRepo, uploadRepo, activityRepo, mediaStore)

	requireAuth := func(next http.Handler) http.Handler {
		return handlers.AuthMiddleware(sessionRepo, userRepo, next)
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Post("/auth/logout", authHandler.Logout)
			r.Get("/auth/me", authHandler.CurrentUser)

			r.Route("/family", func(r chi.Router) {
				r.Get("/", familyHandler.ListMembers)
				r.Post("/", familyHandler.CreateMember)
				r.Get("/relationship", familyHandler.GetRelationship)
				r.Get("/duplicates", familyHandler.ListDuplicates)
				r.Post("/merge", familyHandler.MergeMembers)
				r.Route("/{memberID}", func(r chi.Router) {
					r.Get("/", familyHandler.GetMember)
					r.Put("/", familyHandler.UpdateMember)
					r.Delete("/", familyHandler.DeleteMember)
					r.Get("/missing", familyHandler.GetMissingRelationships)
				})
			})

			r.Route("/uploads", func(r chi.Router) {
				r.Post("/", uploadHandler.Upload)
				r.Get("/mine", uploadHandler.ListMine)
				r.Delete("/", uploadHandler.Delete)
			})

			r.Route("/text", func(r chi.Router) {
				r.Get("/", textHandler.List)
				r.Post("/", textHandler.Create)
				r.Get("/entry", textHandler.Get)
				r.Put("/entry", textHandler.Save)
			})

			r.Get("/gallery/images", mediaHandler.ImageGallery)
			r.Get("/gallery/videos", mediaHandler.VideoGallery)

			r.Route("/admin", func(r chi.Router) {
				r.Use(handlers.RequireAdmin)

				r.Get("/users", adminHandler.ListUsers)
				r.Put("/users/{userID}/admin", adminHandler.ToggleAdmin)
				r.Delete("/users/{userID}", adminHandler.DeleteUser)
				r.Get("/uploads", adminHandler.ListUploads)
				r.Put("/uploads/reassign", adminHandler.ReassignUpload)
				r.Get("/stats", adminHandler.StorageStats)
				r.Get("/activity", adminHandler.ActivityFeed)
				r.Post("/backup", adminHandler.CreateBackup)
				r.Get("/backups", adminHandler.ListBackups)
			})

			r.Get("/ws/activity", hub.ServeWS)
		})

		imagesSubDir := filepath.Base(cfg.ImagesPath)
		r.Get("/assets/"+imagesSubDir+"/*", handlers.AssetServer(mediaStore, media.AssetTypeImage, "/api/assets/"+imagesSubDir+"/"))

		videosSubDir := filepath.Base(cfg.VideosPath)
		r.Get("/assets/"+videosSubDir+"/*", handlers.AssetServer(mediaStore, media.AssetTypeVideo, "/api/assets/"+videosSubDir+"/"))

		thumbsSubDir := filepath.Base(cfg.ThumbnailsPath)
		r.Get("/assets/"+thumbsSubDir+"/*", handlers.AssetServer(mediaStore, media.AssetTypeThumbnail, "/api/assets/"+thumbsSubDir+"/"))
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	listenAddr := ":" + port

	log.Printf("Starting server on %s", listenAddr)
	server := &http.Server{
		Addr:         listenAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("FATAL: Server failed to start: %v", err)
	}
}
