package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexatlas/lexatlas/pkg/errors"
)

func healthyChecker(name string) HealthChecker {
	return CheckerFunc{CheckerName: name, Fn: func(context.Context) error { return nil }}
}

func unhealthyChecker(name string) HealthChecker {
	return CheckerFunc{CheckerName: name, Fn: func(context.Context) error {
		return errors.New(errors.ErrCodeServiceUnavailable, "connection refused")
	}}
}

func TestLivenessAlwaysOK(t *testing.T) {
	h := NewHealthHandler("1.2.3", unhealthyChecker("postgres"))

	rec := httptest.NewRecorder()
	h.Liveness(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp LivenessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "alive", resp.Status)
	assert.Equal(t, "1.2.3", resp.Version)
}

func TestReadinessAllHealthy(t *testing.T) {
	h := NewHealthHandler("1.2.3", healthyChecker("postgres"), healthyChecker("opensearch"))

	rec := httptest.NewRecorder()
	h.Readiness(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ReadinessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ready", resp.Status)
	require.Len(t, resp.Components, 2)
	assert.Equal(t, "healthy", resp.Components["postgres"].Status)
	assert.Equal(t, "healthy", resp.Components["opensearch"].Status)
}

func TestReadinessOneUnhealthy(t *testing.T) {
	h := NewHealthHandler("1.2.3", healthyChecker("postgres"), unhealthyChecker("minio"))

	rec := httptest.NewRecorder()
	h.Readiness(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var resp ReadinessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "not_ready", resp.Status)
	assert.Equal(t, "unhealthy", resp.Components["minio"].Status)
	assert.Contains(t, resp.Components["minio"].Error, "connection refused")
}

func TestReadinessNoCheckers(t *testing.T) {
	h := NewHealthHandler("dev")

	rec := httptest.NewRecorder()
	h.Readiness(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
}
