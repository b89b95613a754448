package handlers

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path"
	"time"

	"github.com/camden-git/familyvault/media"
)

const assetCacheDuration = 24 * time.Hour

// AssetServer serves the files of one storage category. The wildcard tail of
// the route is the filename; path resolution and traversal checks are
// delegated to the store. Example usage in main.go:
//
//	r.Get("/api/assets/images/*", AssetServer(store, media.AssetTypeImage, "/api/assets/images/"))
func AssetServer(store media.Store, assetType media.AssetType, routePrefix string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filename := path.Base(r.URL.Path[len(routePrefix):])
		if filename == "" || filename == "." || filename == "/" {
			http.Error(w, "Invalid asset path", http.StatusBadRequest)
			return
		}

		fullPath, err := store.FullPath(assetType, filename)
		if err != nil {
			http.Error(w, "Forbidden", http.StatusForbidden)
			log.Printf("SECURITY: rejected asset request '%s': %v", r.URL.Path, err)
			return
		}

		if _, err := os.Stat(fullPath); os.IsNotExist(err) {
			http.NotFound(w, r)
			return
		} else if err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			log.Printf("Error stating asset file %s: %v", fullPath, err)
			return
		}

		w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(assetCacheDuration.Seconds())))
		w.Header().Set("Expires", time.Now().Add(assetCacheDuration).Format(http.TimeFormat))
		http.ServeFile(w, r, fullPath)
	}
}
