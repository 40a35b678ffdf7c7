package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/logging"
	"github.com/lexatlas/lexatlas/pkg/types/legal"
)

type fakeAnalyzer struct {
	lastRequest legal.AnalysisRequest
	result      *legal.RiskAnalysisResult
}

func (f *fakeAnalyzer) Analyze(_ context.Context, req legal.AnalysisRequest) *legal.RiskAnalysisResult {
	f.lastRequest = req
	return f.result
}

func analysisResult() *legal.RiskAnalysisResult {
	return &legal.RiskAnalysisResult{
		CompanyName:  "Acme Corp",
		PracticeArea: "Tax",
		Risks:        []string{"Transfer pricing exposure"},
		Confidence:   78,
	}
}

func postJSON(t *testing.T, handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/risk-analysis", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestAnalyzeReturnsPipelineResult(t *testing.T) {
	pipeline := &fakeAnalyzer{result: analysisResult()}
	h := NewAnalysisHandler(pipeline, logging.NewNopLogger())

	rec := postJSON(t, h.Analyze, `{"companyName":"Acme Corp","practicearea":"Tax","companyemail":"legal@acme.test"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var result legal.RiskAnalysisResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "Acme Corp", result.CompanyName)
	assert.Equal(t, []string{"Transfer pricing exposure"}, result.Risks)
	assert.Equal(t, 78, result.Confidence)

	assert.Equal(t, "legal@acme.test", pipeline.lastRequest.ContactEmail)
}

func TestAnalyzeTrimsInput(t *testing.T) {
	pipeline := &fakeAnalyzer{result: analysisResult()}
	h := NewAnalysisHandler(pipeline, logging.NewNopLogger())

	rec := postJSON(t, h.Analyze, `{"companyName":"  Acme Corp  ","practicearea":" Tax "}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Acme Corp", pipeline.lastRequest.CompanyName)
	assert.Equal(t, "Tax", pipeline.lastRequest.PracticeArea)
}

func TestAnalyzeMissingCompanyName(t *testing.T) {
	h := NewAnalysisHandler(&fakeAnalyzer{result: analysisResult()}, logging.NewNopLogger())

	rec := postJSON(t, h.Analyze, `{"practicearea":"Tax"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Message, "companyName")
}

func TestAnalyzeMissingPracticeArea(t *testing.T) {
	h := NewAnalysisHandler(&fakeAnalyzer{result: analysisResult()}, logging.NewNopLogger())

	rec := postJSON(t, h.Analyze, `{"companyName":"Acme Corp","practicearea":"   "}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Message, "practicearea")
}

func TestAnalyzePracticeAreaTooLong(t *testing.T) {
	h := NewAnalysisHandler(&fakeAnalyzer{result: analysisResult()}, logging.NewNopLogger())

	body := `{"companyName":"Acme Corp","practicearea":"` + strings.Repeat("x", maxPracticeAreaLength+1) + `"}`
	rec := postJSON(t, h.Analyze, body)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeMalformedBody(t *testing.T) {
	h := NewAnalysisHandler(&fakeAnalyzer{result: analysisResult()}, logging.NewNopLogger())

	rec := postJSON(t, h.Analyze, `{"companyName": `)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeRejectsUnknownFields(t *testing.T) {
	h := NewAnalysisHandler(&fakeAnalyzer{result: analysisResult()}, logging.NewNopLogger())

	rec := postJSON(t, h.Analyze, `{"companyName":"Acme Corp","practicearea":"Tax","bogus":true}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
