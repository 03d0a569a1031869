package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/arjuns-sics/intelligent-learning-platform/api/transport"
	"github.com/arjuns-sics/intelligent-learning-platform/domain"
	"github.com/arjuns-sics/intelligent-learning-platform/pkg/httpcontext"
)

type baseHandler struct {
	adapter *httpcontext.Adapter
	logger  *zap.Logger
	debug   bool
}

func newBaseHandler(adapter *httpcontext.Adapter, logger *zap.Logger, debug bool) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return baseHandler{adapter: adapter, logger: logger, debug: debug}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	if h.adapter != nil {
		return h.adapter.Attach(ctx)
	}
	return context.WithCancel(context.Background())
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload transport.Envelope) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(payload)
	ctx.SetBody(body)
}

func (h baseHandler) respondSuccess(ctx *fasthttp.RequestCtx, status int, data interface{}, message string) {
	h.respondJSON(ctx, status, transport.NewSuccess(data, message))
}

// respondError maps domain errors to the taxonomy. Unexpected failures become
// a generic 500; the underlying detail is attached only in debug mode.
func (h baseHandler) respondError(ctx *fasthttp.RequestCtx, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("unexpected handler error",
			zap.String("path", string(ctx.Path())), zap.Error(err))
		envelope := transport.NewError("An unexpected error occurred. Please try again.")
		if h.debug {
			envelope.Error = err.Error()
		}
		h.respondJSON(ctx, status, envelope)
		return
	}
	h.respondJSON(ctx, status, transport.NewError(errorMessage(err)))
}

func statusOf(err error) int {
	switch domain.CodeOf(err) {
	case domain.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case domain.ErrCodeForbidden:
		return http.StatusForbidden
	case domain.ErrCodeInvalid:
		return http.StatusBadRequest
	case domain.ErrCodeConflict:
		return http.StatusConflict
	case domain.ErrCodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage strips the wrapped cause so clients see the domain message only.
func errorMessage(err error) string {
	var dErr *domain.Error
	if errors.As(err, &dErr) {
		return dErr.Message
	}
	return err.Error()
}
