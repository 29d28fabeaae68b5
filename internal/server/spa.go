package server

import (
	"io/fs"
	"net/http"
	"strings"
)

// handleSPA serves the built web client from fsys. Unknown paths get
// index.html so client-side routes survive a reload; unknown /api paths
// stay JSON 404s.
func handleSPA(fsys fs.FS) http.HandlerFunc {
	files := http.FileServerFS(fsys)

	return func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			writeError(w, http.StatusNotFound, "not found")
			return
		}

		name := strings.TrimPrefix(r.URL.Path, "/")
		if name != "" {
			if info, err := fs.Stat(fsys, name); err == nil && !info.IsDir() {
				files.ServeHTTP(w, r)
				return
			}
		}
		http.ServeFileFS(w, r, fsys, "index.html")
	}
}
