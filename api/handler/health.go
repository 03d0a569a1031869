package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/arjuns-sics/intelligent-learning-platform/api/transport"
	"github.com/arjuns-sics/intelligent-learning-platform/internal/infrastructure/monitor"
	"github.com/arjuns-sics/intelligent-learning-platform/pkg/httpcontext"
)

type HealthHandler struct {
	baseHandler
	monitor *monitor.Monitor
	started time.Time
}

func NewHealthHandler(mon *monitor.Monitor, adapter *httpcontext.Adapter, logger *zap.Logger, debug bool) *HealthHandler {
	return &HealthHandler{
		baseHandler: newBaseHandler(adapter, logger, debug),
		monitor:     mon,
		started:     time.Now(),
	}
}

// Check returns the full dependency snapshot.
// GET /health
func (h *HealthHandler) Check(ctx *fasthttp.RequestCtx) {
	status := h.monitor.GetStatus()

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	payload := map[string]interface{}{
		"status":    healthWord(status),
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(h.started).Round(time.Second).String(),
		"dependencies": map[string]interface{}{
			"postgresql": map[string]interface{}{
				"online":  status.PostgreSQL,
				"latency": status.DBLatency.Round(time.Millisecond).String(),
			},
			"redis": map[string]interface{}{
				"online": status.Redis,
			},
		},
		"metrics": map[string]interface{}{
			"heap_alloc_mb": mem.HeapAlloc / 1024 / 1024,
			"goroutines":    runtime.NumGoroutine(),
		},
		"last_check": status.LastCheck,
	}

	if status.Healthy() {
		h.respondSuccess(ctx, http.StatusOK, payload, "")
		return
	}
	envelope := transport.NewError("dependencies unhealthy")
	envelope.Data = payload
	h.respondJSON(ctx, http.StatusServiceUnavailable, envelope)
}

// Live is the lightweight liveness probe for load balancers.
// GET /health/live
func (h *HealthHandler) Live(ctx *fasthttp.RequestCtx) {
	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	}, "")
}

// Ready reports whether the primary store is reachable.
// GET /health/ready
func (h *HealthHandler) Ready(ctx *fasthttp.RequestCtx) {
	if h.monitor.GetStatus().Healthy() {
		h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{
			"status":    "ready",
			"timestamp": time.Now().UTC(),
		}, "")
		return
	}
	h.respondJSON(ctx, http.StatusServiceUnavailable, transport.NewError("Database not connected"))
}

func healthWord(status monitor.Status) string {
	if status.Healthy() {
		return "healthy"
	}
	return "degraded"
}
