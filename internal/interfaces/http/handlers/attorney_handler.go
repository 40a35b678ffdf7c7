package handlers

import (
	"context"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/lexatlas/lexatlas/internal/application/ingest"
	"github.com/lexatlas/lexatlas/internal/domain/attorney"
	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/logging"
	"github.com/lexatlas/lexatlas/pkg/errors"
	"github.com/lexatlas/lexatlas/pkg/types/legal"
)

// maxUploadSize caps bulk-upload spreadsheets.
const maxUploadSize = 10 << 20 // 10 MiB

// AttorneyService is the record-store contract for attorney CRUD.
type AttorneyService interface {
	Create(ctx context.Context, a *attorney.Attorney) (*attorney.Attorney, error)
	Get(ctx context.Context, id string) (*attorney.Attorney, error)
	Update(ctx context.Context, a *attorney.Attorney) (*attorney.Attorney, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter attorney.ListFilter) ([]*attorney.Attorney, int64, error)
}

// AttorneyImporter runs spreadsheet imports.
type AttorneyImporter interface {
	ImportAttorneys(ctx context.Context, r io.Reader) (*ingest.Report, error)
}

// AttorneyHandler serves attorney CRUD and bulk upload.
type AttorneyHandler struct {
	service  AttorneyService
	importer AttorneyImporter
	logger   logging.Logger
}

// NewAttorneyHandler creates the handler.
func NewAttorneyHandler(service AttorneyService, importer AttorneyImporter, log logging.Logger) *AttorneyHandler {
	return &AttorneyHandler{
		service:  service,
		importer: importer,
		logger:   log,
	}
}

// attorneyListResponse is the list payload.
type attorneyListResponse struct {
	Count     int64                `json:"count"`
	Attorneys []*attorney.Attorney `json:"attorneys"`
}

// Create handles POST /api/v1/attorneys.
func (h *AttorneyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var a attorney.Attorney
	if err := decodeJSON(w, r, &a); err != nil {
		writeAppError(w, err)
		return
	}

	created, err := h.service.Create(r.Context(), &a)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// List handles GET /api/v1/attorneys with optional practice_area, seniority,
// and min_experience filters.
func (h *AttorneyHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := parseLimitOffset(r)
	filter := attorney.ListFilter{
		PracticeArea: strings.TrimSpace(r.URL.Query().Get("practice_area")),
		Seniority:    legal.Seniority(strings.TrimSpace(r.URL.Query().Get("seniority"))),
		Limit:        limit,
		Offset:       offset,
	}
	if v := r.URL.Query().Get("min_experience"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, errors.ErrCodeValidation, "min_experience must be a non-negative integer")
			return
		}
		filter.MinExperience = n
	}

	attorneys, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		writeAppError(w, err)
		return
	}
	if attorneys == nil {
		attorneys = []*attorney.Attorney{}
	}
	writeJSON(w, http.StatusOK, attorneyListResponse{Count: total, Attorneys: attorneys})
}

// Get handles GET /api/v1/attorneys/{attorneyID}.
func (h *AttorneyHandler) Get(w http.ResponseWriter, r *http.Request) {
	a, err := h.service.Get(r.Context(), chi.URLParam(r, "attorneyID"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// Update handles PUT /api/v1/attorneys/{attorneyID}.
func (h *AttorneyHandler) Update(w http.ResponseWriter, r *http.Request) {
	var a attorney.Attorney
	if err := decodeJSON(w, r, &a); err != nil {
		writeAppError(w, err)
		return
	}
	a.ID = chi.URLParam(r, "attorneyID")

	updated, err := h.service.Update(r.Context(), &a)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/v1/attorneys/{attorneyID}.
func (h *AttorneyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "attorneyID")
	if err := h.service.Delete(r.Context(), id); err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "attorney deleted", "id": id})
}

// BulkUpload handles POST /api/v1/attorneys/bulk-upload with a multipart
// "file" field carrying an XLSX workbook.
func (h *AttorneyHandler) BulkUpload(w http.ResponseWriter, r *http.Request) {
	file, ok := openWorkbookUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	report, err := h.importer.ImportAttorneys(r.Context(), file)
	if err != nil {
		writeAppError(w, err)
		return
	}
	if len(report.RowErrors) > 0 {
		writeJSON(w, http.StatusBadRequest, report)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// openWorkbookUpload extracts and validates the spreadsheet part of a bulk
// upload request. On failure it writes the error response and returns false.
func openWorkbookUpload(w http.ResponseWriter, r *http.Request) (io.ReadCloser, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, errors.ErrCodeBadRequest, "invalid multipart form")
		return nil, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.ErrCodeBadRequest, "missing file field")
		return nil, false
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".xlsx" && ext != ".xls" {
		file.Close()
		writeError(w, http.StatusBadRequest, errors.ErrCodeValidation, "file must be Excel format (.xlsx or .xls)")
		return nil, false
	}
	return file, true
}
