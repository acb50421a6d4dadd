package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cyborg-Robotics-Academy-Pvt-Ltd/cyborg-robotics-new-sub000/internal/dto"
	"github.com/Cyborg-Robotics-Academy-Pvt-Ltd/cyborg-robotics-new-sub000/internal/progress"
	"github.com/Cyborg-Robotics-Academy-Pvt-Ltd/cyborg-robotics-new-sub000/internal/service"
)

type fakeReconcileSrv struct {
	req dto.ReconcileRequest
}

func (f *fakeReconcileSrv) Enqueue(_ context.Context, req dto.ReconcileRequest) (*dto.ReconcileAccepted, error) {
	f.req = req
	return &dto.ReconcileAccepted{JobIDs: []string{"job-1"}}, nil
}

func TestReconcileHandlerEnqueue(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeReconcileSrv{}
	h := NewReconcileHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/admin/reconcile", strings.NewReader(`{"prns":["PRN-001"]}`))

	h.Enqueue(c)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, []string{"PRN-001"}, srv.req.Prns)
}

func TestCourseHandlerNormalize(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewCourseHandler(progress.NewNormalizer(nil))

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/courses/normalize?slug=web-designing-level-2", nil)

	h.Normalize(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "Web Designing Level 2", envelope.Data["display"])
	assert.Equal(t, "2", envelope.Data["level"])
}

func TestCourseHandlerNormalizeRequiresSlug(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewCourseHandler(progress.NewNormalizer(nil))

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/courses/normalize", nil)

	h.Normalize(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMetricsHandlerReady(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewMetricsHandler(service.NewMetricsService(), map[string]func(context.Context) error{
		"mongo": func(context.Context) error { return nil },
		"redis": func(context.Context) error { return errors.New("connection refused") },
	})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)

	h.Ready(c)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body.Status)
	assert.Equal(t, "ok", body.Checks["mongo"])
	assert.Equal(t, "connection refused", body.Checks["redis"])
}

func TestMetricsHandlerPrometheus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := service.NewMetricsService()
	metrics.RecordCacheOperation(true, 0)
	h := NewMetricsHandler(metrics, nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/metrics", nil)

	h.Prometheus(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "progress_cache_hits_total")
}
