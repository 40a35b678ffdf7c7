package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/logging"
	"github.com/lexatlas/lexatlas/pkg/errors"
	"github.com/lexatlas/lexatlas/pkg/types/legal"
)

// maxPracticeAreaLength bounds the practice-area input.
const maxPracticeAreaLength = 100

// Analyzer is the pipeline contract the handler consumes. Analyze never
// fails; the only handler-level error is a bad request body.
type Analyzer interface {
	Analyze(ctx context.Context, req legal.AnalysisRequest) *legal.RiskAnalysisResult
}

// AnalysisHandler serves the risk-analysis operation.
type AnalysisHandler struct {
	pipeline Analyzer
	logger   logging.Logger
}

// NewAnalysisHandler creates the handler.
func NewAnalysisHandler(pipeline Analyzer, log logging.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		pipeline: pipeline,
		logger:   log,
	}
}

// Analyze handles POST /api/v1/risk-analysis.
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req legal.AnalysisRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeAppError(w, err)
		return
	}

	req.CompanyName = strings.TrimSpace(req.CompanyName)
	req.PracticeArea = strings.TrimSpace(req.PracticeArea)
	if req.CompanyName == "" {
		writeError(w, http.StatusBadRequest, errors.ErrCodeValidation, "companyName is required")
		return
	}
	if req.PracticeArea == "" {
		writeError(w, http.StatusBadRequest, errors.ErrCodeValidation, "practicearea is required")
		return
	}
	if len(req.PracticeArea) > maxPracticeAreaLength {
		writeError(w, http.StatusBadRequest, errors.ErrCodeValidation, "practicearea is too long")
		return
	}

	result := h.pipeline.Analyze(r.Context(), req)
	writeJSON(w, http.StatusOK, result)
}
