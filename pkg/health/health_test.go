package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLivenessHandler(t *testing.T) {
	h := NewHandler("doggys")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	h.LivenessHandler()(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "doggys", resp.App)
	assert.Equal(t, StatusUp, resp.Status)
	assert.NotEmpty(t, resp.Uptime)
}

func TestReadinessHandler_AllUp(t *testing.T) {
	h := NewHandler("doggys")
	h.Register("store", func(ctx context.Context) error { return nil })

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	h.ReadinessHandler()(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, StatusUp, resp.Status)
	assert.Equal(t, StatusUp, resp.Checks["store"].Status)
	assert.NotEmpty(t, resp.Checks["store"].Latency)
}

func TestReadinessHandler_DependencyDown(t *testing.T) {
	h := NewHandler("doggys")
	h.Register("store", func(ctx context.Context) error { return nil })
	h.Register("backend", func(ctx context.Context) error { return errors.New("connection refused") })

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	h.ReadinessHandler()(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, StatusDown, resp.Status)
	assert.Equal(t, StatusDown, resp.Checks["backend"].Status)
	assert.Contains(t, resp.Checks["backend"].Error, "connection refused")
}

type fakeGetter struct {
	status int
	err    error
}

func (g *fakeGetter) Get(ctx context.Context, url string) (*http.Response, error) {
	if g.err != nil {
		return nil, g.err
	}
	rec := httptest.NewRecorder()
	rec.WriteHeader(g.status)
	return rec.Result(), nil
}

func TestBackendChecker(t *testing.T) {
	ctx := context.Background()

	assert.NoError(t, Backend(&fakeGetter{status: http.StatusOK}, "http://backend/productos")(ctx))

	err := Backend(&fakeGetter{status: http.StatusBadGateway}, "http://backend/productos")(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")

	err = Backend(&fakeGetter{err: errors.New("connection refused")}, "http://backend/productos")(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}
