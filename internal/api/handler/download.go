package handler

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"path"
	"strconv"

	"github.com/clinicmate/clinicmate/internal/api/response"
	"github.com/clinicmate/clinicmate/internal/clinicapi"
)

// FileFinder resolves a storage path to a medical file.
type FileFinder interface {
	FindFile(ctx context.Context, path string) (*clinicapi.MedicalFile, error)
}

// DownloadHandler serves medical file downloads.
type DownloadHandler struct {
	files FileFinder
}

// NewDownloadHandler creates a new DownloadHandler.
func NewDownloadHandler(files FileFinder) *DownloadHandler {
	return &DownloadHandler{files: files}
}

// Download handles GET /api/download?url=medical_files/{name}. The route is
// public because the link is opened by the system browser, which carries no
// bearer token. The body is placeholder content describing the record.
func (h *DownloadHandler) Download(w http.ResponseWriter, r *http.Request) {
	file, err := h.files.FindFile(r.Context(), r.URL.Query().Get("url"))
	if err != nil {
		response.NotFound(w, r, "file not found")
		return
	}

	body := []byte(fmt.Sprintf("%s\n%s\n%s\n", file.Name, file.Date, file.Description))

	contentType := mime.TypeByExtension(path.Ext(file.FileName))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": file.FileName}))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
