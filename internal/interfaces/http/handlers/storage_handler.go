package handlers

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/logging"
	"github.com/lexatlas/lexatlas/internal/infrastructure/storage/minio"
	"github.com/lexatlas/lexatlas/pkg/errors"

	"github.com/go-chi/chi/v5"
)

// maxEvidenceUpload caps evidence document uploads.
const maxEvidenceUpload = 50 << 20 // 50 MiB

// StorageCategory maps one upload category to its bucket and key prefix.
type StorageCategory struct {
	Bucket string
	Prefix string
}

// StorageHandler serves evidence uploads, listings, and presigned download
// links for the internal-knowledge and engagement-history categories.
type StorageHandler struct {
	store         minio.ObjectStorageRepository
	categories    map[string]StorageCategory
	presignExpiry time.Duration
	logger        logging.Logger
}

// NewStorageHandler creates the handler. categories maps URL category names
// ("internal", "attorney-history") to their storage locations.
func NewStorageHandler(store minio.ObjectStorageRepository, categories map[string]StorageCategory, presignExpiry time.Duration, log logging.Logger) *StorageHandler {
	if presignExpiry <= 0 {
		presignExpiry = 24 * time.Hour
	}
	return &StorageHandler{
		store:         store,
		categories:    categories,
		presignExpiry: presignExpiry,
		logger:        log,
	}
}

func (h *StorageHandler) category(w http.ResponseWriter, r *http.Request) (StorageCategory, bool) {
	name := chi.URLParam(r, "category")
	cat, ok := h.categories[name]
	if !ok {
		writeError(w, http.StatusNotFound, errors.ErrCodeNotFound, fmt.Sprintf("unknown storage category %q", name))
		return StorageCategory{}, false
	}
	return cat, true
}

// uploadResponse reports one stored object.
type uploadResponse struct {
	Filename string `json:"filename"`
	Bucket   string `json:"bucket"`
	Size     int64  `json:"size"`
	Uploaded bool   `json:"uploaded"`
}

// fileItem is one listed object with its download link.
type fileItem struct {
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	URL      string `json:"url"`
}

type fileListResponse struct {
	Bucket string     `json:"bucket"`
	Files  []fileItem `json:"files"`
}

// Upload handles POST /upload/{category} with a multipart "file" field.
func (h *StorageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	cat, ok := h.category(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxEvidenceUpload)
	if err := r.ParseMultipartForm(maxEvidenceUpload); err != nil {
		writeError(w, http.StatusBadRequest, errors.ErrCodeBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.ErrCodeBadRequest, "missing file field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.ErrCodeBadRequest, "failed to read upload")
		return
	}

	objectKey := fmt.Sprintf("%s%s_%s", cat.Prefix, uuid.New().String(), header.Filename)
	result, err := h.store.Upload(r.Context(), &minio.UploadRequest{
		Bucket:    cat.Bucket,
		ObjectKey: objectKey,
		Data:      data,
		Metadata: map[string]string{
			"uploaded_at": time.Now().UTC().Format(time.RFC3339),
			"category":    chi.URLParam(r, "category"),
		},
	})
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, uploadResponse{
		Filename: result.ObjectKey,
		Bucket:   result.Bucket,
		Size:     result.Size,
		Uploaded: true,
	})
}

// List handles GET /files/{category}: objects under the category prefix,
// each with a presigned download link.
func (h *StorageHandler) List(w http.ResponseWriter, r *http.Request) {
	cat, ok := h.category(w, r)
	if !ok {
		return
	}

	objects, err := h.store.List(r.Context(), cat.Bucket, cat.Prefix, 0)
	if err != nil {
		writeAppError(w, err)
		return
	}

	files := make([]fileItem, 0, len(objects))
	for _, obj := range objects {
		url, err := h.store.GetPresignedDownloadURL(r.Context(), cat.Bucket, obj.ObjectKey, h.presignExpiry)
		if err != nil {
			h.logger.Warn("failed to presign listing entry",
				logging.String("key", obj.ObjectKey),
				logging.Error(err))
			continue
		}
		files = append(files, fileItem{Filename: obj.ObjectKey, Size: obj.Size, URL: url})
	}
	writeJSON(w, http.StatusOK, fileListResponse{Bucket: cat.Bucket, Files: files})
}

// Link handles GET /files/{category}/link?name=: a presigned download URL
// for one object.
func (h *StorageHandler) Link(w http.ResponseWriter, r *http.Request) {
	cat, ok := h.category(w, r)
	if !ok {
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		writeError(w, http.StatusBadRequest, errors.ErrCodeValidation, "name query parameter is required")
		return
	}

	url, err := h.store.GetPresignedDownloadURL(r.Context(), cat.Bucket, name, h.presignExpiry)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"filename": name, "url": url})
}
