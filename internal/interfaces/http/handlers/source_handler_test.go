package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexatlas/lexatlas/internal/application/ingest"
	"github.com/lexatlas/lexatlas/internal/domain/source"
	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/logging"
	"github.com/lexatlas/lexatlas/pkg/errors"
	"github.com/lexatlas/lexatlas/pkg/types/legal"
)

type fakeSourceService struct {
	stored        map[string]*source.PublicSource
	listFilter    source.ListFilter
	listResult    []*source.PublicSource
	listTotal     int64
	enrichID      string
	enrichStatus  legal.EnrichmentStatus
	enrichPayload *source.PublicSource
	err           error
}

func (f *fakeSourceService) Create(_ context.Context, p *source.PublicSource) (*source.PublicSource, error) {
	if f.err != nil {
		return nil, f.err
	}
	p.ID = "src-1"
	return p, nil
}

func (f *fakeSourceService) Get(_ context.Context, id string) (*source.PublicSource, error) {
	if p, ok := f.stored[id]; ok {
		return p, nil
	}
	return nil, errors.New(errors.ErrCodeSourceNotFound, "public source not found")
}

func (f *fakeSourceService) Update(_ context.Context, p *source.PublicSource) (*source.PublicSource, error) {
	if f.err != nil {
		return nil, f.err
	}
	return p, nil
}

func (f *fakeSourceService) Delete(_ context.Context, _ string) error {
	return f.err
}

func (f *fakeSourceService) List(_ context.Context, filter source.ListFilter) ([]*source.PublicSource, int64, error) {
	f.listFilter = filter
	if f.err != nil {
		return nil, 0, f.err
	}
	return f.listResult, f.listTotal, nil
}

func (f *fakeSourceService) MarkEnrichment(_ context.Context, id string, to legal.EnrichmentStatus, enriched *source.PublicSource) (*source.PublicSource, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.enrichID = id
	f.enrichStatus = to
	f.enrichPayload = enriched
	return &source.PublicSource{ID: id, EnrichmentStatus: to}, nil
}

type fakeSourceImporter struct {
	report *ingest.Report
	err    error
}

func (f *fakeSourceImporter) ImportSources(_ context.Context, _ io.Reader) (*ingest.Report, error) {
	return f.report, f.err
}

func sourceRouter(service *fakeSourceService, importer *fakeSourceImporter) http.Handler {
	h := NewSourceHandler(service, importer, logging.NewNopLogger())
	r := chi.NewRouter()
	r.Route("/public-sources", func(sr chi.Router) {
		sr.Get("/", h.List)
		sr.Post("/", h.Create)
		sr.Post("/bulk-upload", h.BulkUpload)
		sr.Route("/{sourceID}", func(item chi.Router) {
			item.Get("/", h.Get)
			item.Put("/", h.Update)
			item.Delete("/", h.Delete)
			item.Patch("/enrichment", h.Enrich)
		})
	})
	return r
}

func TestSourceCreate(t *testing.T) {
	router := sourceRouter(&fakeSourceService{}, &fakeSourceImporter{})

	body := `{"title":"New AML directive","url":"https://regs.example.test/aml"}`
	req := httptest.NewRequest(http.MethodPost, "/public-sources/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var created source.PublicSource
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "src-1", created.ID)
	assert.Equal(t, "New AML directive", created.Title)
}

func TestSourceListFilters(t *testing.T) {
	service := &fakeSourceService{
		listResult: []*source.PublicSource{{ID: "src-1", Title: "New AML directive"}},
		listTotal:  1,
	}
	router := sourceRouter(service, &fakeSourceImporter{})

	req := httptest.NewRequest(http.MethodGet, "/public-sources/?risk_area=Banking&jurisdiction=EU&enrichment_status=completed", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Banking", service.listFilter.RiskArea)
	assert.Equal(t, "EU", service.listFilter.Jurisdiction)
	assert.Equal(t, legal.EnrichmentCompleted, service.listFilter.Status)
}

func TestSourceListInvalidStatusFilter(t *testing.T) {
	router := sourceRouter(&fakeSourceService{}, &fakeSourceImporter{})

	req := httptest.NewRequest(http.MethodGet, "/public-sources/?enrichment_status=done", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSourceGetNotFound(t *testing.T) {
	router := sourceRouter(&fakeSourceService{}, &fakeSourceImporter{})

	req := httptest.NewRequest(http.MethodGet, "/public-sources/missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "SRC_001", resp.Code)
}

func TestSourceEnrich(t *testing.T) {
	service := &fakeSourceService{}
	router := sourceRouter(service, &fakeSourceImporter{})

	body := `{"status":"completed","risk_area":"Data Protection","summary":"New retention limits","jurisdiction":"EU","impact_level":"High"}`
	req := httptest.NewRequest(http.MethodPatch, "/public-sources/src-4/enrichment", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "src-4", service.enrichID)
	assert.Equal(t, legal.EnrichmentCompleted, service.enrichStatus)
	require.NotNil(t, service.enrichPayload)
	assert.Equal(t, "Data Protection", service.enrichPayload.RiskArea)
	assert.Equal(t, legal.ImpactHigh, service.enrichPayload.Impact)
}

func TestSourceEnrichInvalidStatus(t *testing.T) {
	router := sourceRouter(&fakeSourceService{}, &fakeSourceImporter{})

	req := httptest.NewRequest(http.MethodPatch, "/public-sources/src-4/enrichment", strings.NewReader(`{"status":"done"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSourceEnrichStateConflict(t *testing.T) {
	service := &fakeSourceService{err: errors.New(errors.ErrCodeEnrichmentStateError, "invalid enrichment state transition")}
	router := sourceRouter(service, &fakeSourceImporter{})

	req := httptest.NewRequest(http.MethodPatch, "/public-sources/src-4/enrichment", strings.NewReader(`{"status":"processing"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestSourceBulkUploadRowErrors(t *testing.T) {
	importer := &fakeSourceImporter{report: &ingest.Report{
		RowErrors: []ingest.RowError{{Row: 2, Message: "url must start with http:// or https://"}},
	}}
	router := sourceRouter(&fakeSourceService{}, importer)

	buf, contentType := multipartUpload(t, "file", "sources.xlsx", []byte("workbook bytes"))
	req := httptest.NewRequest(http.MethodPost, "/public-sources/bulk-upload", buf)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "url must start with")
}

func TestSourceDeleteServerErrorMasked(t *testing.T) {
	service := &fakeSourceService{err: errors.New(errors.ErrCodeDatabaseError, "pq: connection refused")}
	router := sourceRouter(service, &fakeSourceImporter{})

	req := httptest.NewRequest(http.MethodDelete, "/public-sources/src-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
	assert.Contains(t, rec.Body.String(), "internal server error")
}
