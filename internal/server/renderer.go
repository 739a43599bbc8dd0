package server

import (
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
)

// handleRenderer serves the built board UI from dir. Unknown paths get
// index.html so client-side routes like /play or /summary load the app.
func handleRenderer(logger *slog.Logger, dir string) http.HandlerFunc {
	assets := http.FileServer(http.Dir(dir))
	index := filepath.Join(dir, "index.html")

	return func(w http.ResponseWriter, r *http.Request) {
		name := filepath.Join(dir, filepath.FromSlash(path.Clean("/"+r.URL.Path)))
		if info, err := os.Stat(name); err == nil && !info.IsDir() {
			assets.ServeHTTP(w, r)
			return
		}

		if _, err := os.Stat(index); err != nil {
			logger.Warn("renderer index missing", "dir", dir, "path", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		logger.Debug("renderer fallback", "path", r.URL.Path)
		w.Header().Set("Cache-Control", "no-cache")
		http.ServeFile(w, r, index)
	}
}
