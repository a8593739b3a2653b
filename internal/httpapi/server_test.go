package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHealthz(t *testing.T) {
	srv := httptest.NewServer(NewHandler(Config{}))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPlansEndpoint_MissingScope(t *testing.T) {
	srv := httptest.NewServer(NewHandler(Config{}))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/v1/plans", "application/json", bytes.NewBufferString(`{"policy":{}}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPlansEndpoint_EmptyPolicyProducesEmptyPlan(t *testing.T) {
	srv := httptest.NewServer(NewHandler(Config{}))
	defer srv.Close()

	body := `{"scope": "request.catalog", "policy": {}}`
	resp, err := http.Post(srv.URL+"/v1/plans", "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var decoded map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	require.Equal(t, "request.catalog", decoded["scope"])
}

func TestPlansEndpoint_CorrelationIDHeaderSet(t *testing.T) {
	srv := httptest.NewServer(NewHandler(Config{}))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NotEmpty(t, resp.Header.Get(CorrelationIDHeader), "response missing correlation ID header")
}
