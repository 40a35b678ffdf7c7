package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexatlas/lexatlas/internal/application/ingest"
	"github.com/lexatlas/lexatlas/internal/domain/attorney"
	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/logging"
	"github.com/lexatlas/lexatlas/pkg/errors"
	"github.com/lexatlas/lexatlas/pkg/types/legal"
)

type fakeAttorneyService struct {
	created    *attorney.Attorney
	stored     map[string]*attorney.Attorney
	listFilter attorney.ListFilter
	listResult []*attorney.Attorney
	listTotal  int64
	err        error
	deleted    []string
}

func (f *fakeAttorneyService) Create(_ context.Context, a *attorney.Attorney) (*attorney.Attorney, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = a
	a.ID = "att-1"
	return a, nil
}

func (f *fakeAttorneyService) Get(_ context.Context, id string) (*attorney.Attorney, error) {
	if a, ok := f.stored[id]; ok {
		return a, nil
	}
	return nil, errors.New(errors.ErrCodeAttorneyNotFound, "attorney not found")
}

func (f *fakeAttorneyService) Update(_ context.Context, a *attorney.Attorney) (*attorney.Attorney, error) {
	if f.err != nil {
		return nil, f.err
	}
	return a, nil
}

func (f *fakeAttorneyService) Delete(_ context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeAttorneyService) List(_ context.Context, filter attorney.ListFilter) ([]*attorney.Attorney, int64, error) {
	f.listFilter = filter
	if f.err != nil {
		return nil, 0, f.err
	}
	return f.listResult, f.listTotal, nil
}

type fakeAttorneyImporter struct {
	report *ingest.Report
	err    error
}

func (f *fakeAttorneyImporter) ImportAttorneys(_ context.Context, _ io.Reader) (*ingest.Report, error) {
	return f.report, f.err
}

func attorneyRouter(service *fakeAttorneyService, importer *fakeAttorneyImporter) http.Handler {
	h := NewAttorneyHandler(service, importer, logging.NewNopLogger())
	r := chi.NewRouter()
	r.Route("/attorneys", func(ar chi.Router) {
		ar.Get("/", h.List)
		ar.Post("/", h.Create)
		ar.Post("/bulk-upload", h.BulkUpload)
		ar.Route("/{attorneyID}", func(item chi.Router) {
			item.Get("/", h.Get)
			item.Put("/", h.Update)
			item.Delete("/", h.Delete)
		})
	})
	return r
}

func multipartUpload(t *testing.T, fieldName, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(fieldName, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestAttorneyCreate(t *testing.T) {
	service := &fakeAttorneyService{}
	router := attorneyRouter(service, &fakeAttorneyImporter{})

	body := `{"name":"Dana Reyes","email":"dana.reyes@lawfirm.com","seniority":"Partner","years_of_experience":12}`
	req := httptest.NewRequest(http.MethodPost, "/attorneys/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var created attorney.Attorney
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "att-1", created.ID)
	assert.Equal(t, "Dana Reyes", created.Name)
	assert.Equal(t, legal.SeniorityPartner, created.Seniority)
}

func TestAttorneyCreateConflict(t *testing.T) {
	service := &fakeAttorneyService{err: errors.New(errors.ErrCodeAttorneyEmailExists, "attorney email already exists")}
	router := attorneyRouter(service, &fakeAttorneyImporter{})

	req := httptest.NewRequest(http.MethodPost, "/attorneys/", strings.NewReader(`{"name":"Dana Reyes"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ATT_002", resp.Code)
}

func TestAttorneyGetNotFound(t *testing.T) {
	router := attorneyRouter(&fakeAttorneyService{}, &fakeAttorneyImporter{})

	req := httptest.NewRequest(http.MethodGet, "/attorneys/missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAttorneyGet(t *testing.T) {
	service := &fakeAttorneyService{stored: map[string]*attorney.Attorney{
		"att-7": {ID: "att-7", Name: "Priya Nair", Seniority: legal.SenioritySeniorPartner},
	}}
	router := attorneyRouter(service, &fakeAttorneyImporter{})

	req := httptest.NewRequest(http.MethodGet, "/attorneys/att-7", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got attorney.Attorney
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Priya Nair", got.Name)
}

func TestAttorneyListFilters(t *testing.T) {
	service := &fakeAttorneyService{
		listResult: []*attorney.Attorney{{ID: "att-1", Name: "Dana Reyes"}},
		listTotal:  1,
	}
	router := attorneyRouter(service, &fakeAttorneyImporter{})

	req := httptest.NewRequest(http.MethodGet, "/attorneys/?practice_area=Tax&seniority=Partner&min_experience=5&limit=10&offset=20", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Tax", service.listFilter.PracticeArea)
	assert.Equal(t, legal.SeniorityPartner, service.listFilter.Seniority)
	assert.Equal(t, 5, service.listFilter.MinExperience)
	assert.Equal(t, 10, service.listFilter.Limit)
	assert.Equal(t, 20, service.listFilter.Offset)

	var resp attorneyListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.Count)
	require.Len(t, resp.Attorneys, 1)
}

func TestAttorneyListBadMinExperience(t *testing.T) {
	router := attorneyRouter(&fakeAttorneyService{}, &fakeAttorneyImporter{})

	req := httptest.NewRequest(http.MethodGet, "/attorneys/?min_experience=-3", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAttorneyListEmptyIsArray(t *testing.T) {
	router := attorneyRouter(&fakeAttorneyService{}, &fakeAttorneyImporter{})

	req := httptest.NewRequest(http.MethodGet, "/attorneys/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"attorneys":[]`)
}

func TestAttorneyUpdateUsesPathID(t *testing.T) {
	service := &fakeAttorneyService{}
	router := attorneyRouter(service, &fakeAttorneyImporter{})

	body := `{"id":"ignored","name":"Dana Reyes"}`
	req := httptest.NewRequest(http.MethodPut, "/attorneys/att-9", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var updated attorney.Attorney
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "att-9", updated.ID)
}

func TestAttorneyDelete(t *testing.T) {
	service := &fakeAttorneyService{}
	router := attorneyRouter(service, &fakeAttorneyImporter{})

	req := httptest.NewRequest(http.MethodDelete, "/attorneys/att-3", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"att-3"}, service.deleted)
}

func TestAttorneyBulkUpload(t *testing.T) {
	importer := &fakeAttorneyImporter{report: &ingest.Report{
		Created:    2,
		CreatedIDs: []string{"att-1", "att-2"},
	}}
	router := attorneyRouter(&fakeAttorneyService{}, importer)

	buf, contentType := multipartUpload(t, "file", "attorneys.xlsx", []byte("workbook bytes"))
	req := httptest.NewRequest(http.MethodPost, "/attorneys/bulk-upload", buf)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var report ingest.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, 2, report.Created)
}

func TestAttorneyBulkUploadRowErrors(t *testing.T) {
	importer := &fakeAttorneyImporter{report: &ingest.Report{
		RowErrors: []ingest.RowError{{Row: 3, Message: "name is required"}},
	}}
	router := attorneyRouter(&fakeAttorneyService{}, importer)

	buf, contentType := multipartUpload(t, "file", "attorneys.xlsx", []byte("workbook bytes"))
	req := httptest.NewRequest(http.MethodPost, "/attorneys/bulk-upload", buf)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "name is required")
}

func TestAttorneyBulkUploadWrongExtension(t *testing.T) {
	router := attorneyRouter(&fakeAttorneyService{}, &fakeAttorneyImporter{})

	buf, contentType := multipartUpload(t, "file", "attorneys.csv", []byte("a,b,c"))
	req := httptest.NewRequest(http.MethodPost, "/attorneys/bulk-upload", buf)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Excel format")
}

func TestAttorneyBulkUploadMissingFile(t *testing.T) {
	router := attorneyRouter(&fakeAttorneyService{}, &fakeAttorneyImporter{})

	buf, contentType := multipartUpload(t, "document", "attorneys.xlsx", []byte("workbook bytes"))
	req := httptest.NewRequest(http.MethodPost, "/attorneys/bulk-upload", buf)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing file field")
}
