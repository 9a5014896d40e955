package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"menu-planner/internal/core/menu"

	"github.com/gin-gonic/gin"
)

type pinger struct{ err error }

func (p pinger) Ping(ctx context.Context) error { return p.err }

func newRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/health", h.HealthCheck)
	r.GET("/ready", h.ReadinessCheck)
	r.GET("/live", h.LivenessCheck)
	return r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHealthCheck(t *testing.T) {
	h := NewHandler("1.2.3", pinger{},
		func() menu.Status { return menu.Status{QueueLength: 2, ProcessedCount: 7, MaxQueueSize: 10} },
		func() map[string]interface{} { return map[string]interface{}{"enabled": true} },
	)
	w := get(newRouter(h), "/health")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Version != "1.2.3" || resp.Status != "ok" {
		t.Errorf("response = %+v", resp)
	}
	if resp.Queue == nil || resp.Queue.ProcessedCount != 7 {
		t.Errorf("queue = %+v, want processed 7", resp.Queue)
	}
	if resp.Cache["enabled"] != true {
		t.Errorf("cache = %v", resp.Cache)
	}
}

func TestReadinessCheck(t *testing.T) {
	tests := []struct {
		name  string
		store Pinger
		want  int
	}{
		{"store up", pinger{}, http.StatusOK},
		{"store down", pinger{err: errors.New("connection refused")}, http.StatusServiceUnavailable},
		{"no store", nil, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(newRouter(NewHandler("test", tt.store, nil, nil)), "/ready")
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestLivenessCheck(t *testing.T) {
	w := get(newRouter(NewHandler("test", pinger{err: errors.New("down")}, nil, nil)), "/live")
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}
