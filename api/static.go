package api

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var mimeTypes = map[string]string{
	".html": "text/html",
	".js":   "application/javascript",
	".css":  "text/css",
	".json": "application/json",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".gif":  "image/gif",
	".svg":  "image/svg+xml",
	".ico":  "image/x-icon",
}

// contentType picks the type from the extension, falling back to sniffing the content.
func contentType(path string, data []byte) string {
	if t, ok := mimeTypes[strings.ToLower(filepath.Ext(path))]; ok {
		return t
	}
	return mimetype.Detect(data).String()
}

// resolvePath maps a request path onto the filesystem.
func (s *Server) resolvePath(urlPath string) string {
	switch {
	case urlPath == "/":
		return filepath.Join(s.root, "test.html")
	case strings.HasPrefix(urlPath, "/dist/"):
		return filepath.Join(s.root, "..", urlPath)
	default:
		return filepath.Join(s.root, urlPath)
	}
}

// StaticHandler serves the test page and module files.
func (s *Server) StaticHandler(w http.ResponseWriter, r *http.Request) {
	filePath := s.resolvePath(r.URL.Path)

	projectRoot := filepath.Dir(s.root)
	if filePath != projectRoot && !strings.HasPrefix(filePath, projectRoot+string(filepath.Separator)) {
		slog.Warn("Rejected path outside project root", "path", r.URL.Path)
		writeText(w, http.StatusForbidden, "Forbidden")
		return
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			writeText(w, http.StatusNotFound, "File not found")
			return
		}
		slog.Error("Failed to read file", "path", filePath, "error", err)
		writeText(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	w.Header().Set("Content-Type", contentType(filePath, data))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(status)
	w.Write([]byte(body))
}
