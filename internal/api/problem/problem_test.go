package problem

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteExposesDetailInDevelopment(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects/abc", nil)
	res := httptest.NewRecorder()

	Write(res, req, http.StatusNotFound, TypeNotFound, "Not found", errors.New("project not found"), "development")

	require.Equal(t, http.StatusNotFound, res.Code)
	require.Equal(t, "application/problem+json", res.Header().Get("Content-Type"))

	var payload ProblemDetails
	require.NoError(t, json.NewDecoder(res.Body).Decode(&payload))
	require.Equal(t, TypeNotFound, payload.Type)
	require.Equal(t, "project not found", payload.Detail)
	require.Equal(t, "/api/v1/projects/abc", payload.Instance)
}

func TestWriteHidesDetailInProduction(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil)
	res := httptest.NewRecorder()

	Write(res, req, http.StatusInternalServerError, TypeServerError, "Server error", errors.New("pg: connection refused"), "production")

	var payload ProblemDetails
	require.NoError(t, json.NewDecoder(res.Body).Decode(&payload))
	require.Equal(t, http.StatusText(http.StatusInternalServerError), payload.Detail)
	require.NotContains(t, payload.Detail, "connection refused")
}

func TestWriteWithoutError(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	res := httptest.NewRecorder()

	Write(res, req, http.StatusUnauthorized, TypeUnauthorized, "Unauthorized", nil, "production")

	var payload ProblemDetails
	require.NoError(t, json.NewDecoder(res.Body).Decode(&payload))
	require.Equal(t, http.StatusUnauthorized, payload.Status)
	require.Empty(t, payload.Detail)
}
