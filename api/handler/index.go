package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/arjuns-sics/intelligent-learning-platform/internal/middleware"
	"github.com/arjuns-sics/intelligent-learning-platform/pkg/httpcontext"
)

// IndexHandler serves the API banner. It sits behind OptionalAuthenticate so
// identified callers get a personalized response while anonymous ones still
// see the endpoint map.
type IndexHandler struct {
	baseHandler
	appName string
}

func NewIndexHandler(appName string, adapter *httpcontext.Adapter, logger *zap.Logger, debug bool) *IndexHandler {
	return &IndexHandler{
		baseHandler: newBaseHandler(adapter, logger, debug),
		appName:     appName,
	}
}

// Index describes the API surface.
// GET /api/v1
func (h *IndexHandler) Index(ctx *fasthttp.RequestCtx) {
	payload := map[string]interface{}{
		"message": h.appName + " API v1",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"register":     "POST /api/auth/register",
			"login":        "POST /api/auth/login",
			"profile":      "GET|PUT /api/auth/profile",
			"password":     "PUT /api/auth/password",
			"health":       "GET /health",
			"health/live":  "GET /health/live",
			"health/ready": "GET /health/ready",
		},
	}
	if identity := middleware.IdentityFromRequest(ctx); identity != nil {
		payload["authenticated_as"] = identity.Email
	}
	h.respondSuccess(ctx, http.StatusOK, payload, "")
}
