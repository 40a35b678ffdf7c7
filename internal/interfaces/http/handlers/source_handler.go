package handlers

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/lexatlas/lexatlas/internal/application/ingest"
	"github.com/lexatlas/lexatlas/internal/domain/source"
	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/logging"
	"github.com/lexatlas/lexatlas/pkg/errors"
	"github.com/lexatlas/lexatlas/pkg/types/legal"
)

// SourceService is the record-store contract for public-source CRUD and
// enrichment transitions.
type SourceService interface {
	Create(ctx context.Context, p *source.PublicSource) (*source.PublicSource, error)
	Get(ctx context.Context, id string) (*source.PublicSource, error)
	Update(ctx context.Context, p *source.PublicSource) (*source.PublicSource, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter source.ListFilter) ([]*source.PublicSource, int64, error)
	MarkEnrichment(ctx context.Context, id string, to legal.EnrichmentStatus, enriched *source.PublicSource) (*source.PublicSource, error)
}

// SourceImporter runs spreadsheet imports.
type SourceImporter interface {
	ImportSources(ctx context.Context, r io.Reader) (*ingest.Report, error)
}

// SourceHandler serves public-source CRUD, bulk upload, and enrichment
// status updates.
type SourceHandler struct {
	service  SourceService
	importer SourceImporter
	logger   logging.Logger
}

// NewSourceHandler creates the handler.
func NewSourceHandler(service SourceService, importer SourceImporter, log logging.Logger) *SourceHandler {
	return &SourceHandler{
		service:  service,
		importer: importer,
		logger:   log,
	}
}

type sourceListResponse struct {
	Count   int64                  `json:"count"`
	Sources []*source.PublicSource `json:"sources"`
}

// Create handles POST /api/v1/public-sources.
func (h *SourceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var p source.PublicSource
	if err := decodeJSON(w, r, &p); err != nil {
		writeAppError(w, err)
		return
	}

	created, err := h.service.Create(r.Context(), &p)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// List handles GET /api/v1/public-sources with optional risk_area,
// jurisdiction, and enrichment_status filters.
func (h *SourceHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := parseLimitOffset(r)
	filter := source.ListFilter{
		RiskArea:     strings.TrimSpace(r.URL.Query().Get("risk_area")),
		Jurisdiction: strings.TrimSpace(r.URL.Query().Get("jurisdiction")),
		Status:       legal.EnrichmentStatus(strings.TrimSpace(r.URL.Query().Get("enrichment_status"))),
		Limit:        limit,
		Offset:       offset,
	}
	if filter.Status != "" && !filter.Status.Valid() {
		writeError(w, http.StatusBadRequest, errors.ErrCodeValidation, "invalid enrichment_status filter")
		return
	}

	sources, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		writeAppError(w, err)
		return
	}
	if sources == nil {
		sources = []*source.PublicSource{}
	}
	writeJSON(w, http.StatusOK, sourceListResponse{Count: total, Sources: sources})
}

// Get handles GET /api/v1/public-sources/{sourceID}.
func (h *SourceHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Get(r.Context(), chi.URLParam(r, "sourceID"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Update handles PUT /api/v1/public-sources/{sourceID}.
func (h *SourceHandler) Update(w http.ResponseWriter, r *http.Request) {
	var p source.PublicSource
	if err := decodeJSON(w, r, &p); err != nil {
		writeAppError(w, err)
		return
	}
	p.ID = chi.URLParam(r, "sourceID")

	updated, err := h.service.Update(r.Context(), &p)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/v1/public-sources/{sourceID}.
func (h *SourceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sourceID")
	if err := h.service.Delete(r.Context(), id); err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "public source deleted", "id": id})
}

// enrichmentRequest is the PATCH body for enrichment transitions. The
// enrichment payload fields apply when the transition reaches "completed".
type enrichmentRequest struct {
	Status       legal.EnrichmentStatus `json:"status"`
	RiskArea     string                 `json:"risk_area,omitempty"`
	Summary      string                 `json:"summary,omitempty"`
	Jurisdiction string                 `json:"jurisdiction,omitempty"`
	Impact       legal.ImpactLevel      `json:"impact_level,omitempty"`
}

// Enrich handles PATCH /api/v1/public-sources/{sourceID}/enrichment.
func (h *SourceHandler) Enrich(w http.ResponseWriter, r *http.Request) {
	var req enrichmentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeAppError(w, err)
		return
	}
	if !req.Status.Valid() {
		writeError(w, http.StatusBadRequest, errors.ErrCodeValidation, "invalid enrichment status")
		return
	}

	updated, err := h.service.MarkEnrichment(r.Context(), chi.URLParam(r, "sourceID"), req.Status, &source.PublicSource{
		RiskArea:     req.RiskArea,
		Summary:      req.Summary,
		Jurisdiction: req.Jurisdiction,
		Impact:       req.Impact,
	})
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// BulkUpload handles POST /api/v1/public-sources/bulk-upload.
func (h *SourceHandler) BulkUpload(w http.ResponseWriter, r *http.Request) {
	file, ok := openWorkbookUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	report, err := h.importer.ImportSources(r.Context(), file)
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
