// Package media serves uploaded fun media over HTTP.
package media

import (
	"io"
	"log"
	"net/http"
	"strconv"

	"gofun/internal/common"

	"github.com/gorilla/mux"
)

type HTTPServer struct {
	store common.MediaStore
}

func NewHTTPServer(store common.MediaStore) *HTTPServer {
	return &HTTPServer{store: store}
}

// RegisterRoutes mounts GET /media/{fileId} on r.
func (s *HTTPServer) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/media/{fileId}", s.serveFile).Methods("GET")
}

func (s *HTTPServer) serveFile(w http.ResponseWriter, r *http.Request) {
	fileID := mux.Vars(r)["fileId"]

	reader, file, err := s.store.DownloadFile(r.Context(), fileID)
	if err != nil {
		if common.IsNotFound(err) {
			http.Error(w, "file not found", http.StatusNotFound)
			return
		}
		log.Printf("media download %s failed: %v", fileID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType(file))
	if file.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(file.Size, 10))
	}
	w.Header().Set("Cache-Control", "public, max-age=86400")

	if _, err := io.Copy(w, reader); err != nil {
		log.Printf("Error streaming file %s: %v", fileID, err)
	}
}

func contentType(file *common.MediaFile) string {
	if file.MimeType != "" {
		return file.MimeType
	}
	switch file.FileType {
	case common.ContentTypeImage:
		return "image/jpeg"
	case common.ContentTypeVideo:
		return "video/mp4"
	default:
		return "application/octet-stream"
	}
}
