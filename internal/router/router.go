package router

import (
	"encoding/json"
	"fmt"
	"runtime/debug"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/arjuns-sics/intelligent-learning-platform/api/handler"
	"github.com/arjuns-sics/intelligent-learning-platform/api/transport"
	"github.com/arjuns-sics/intelligent-learning-platform/domain"
	"github.com/arjuns-sics/intelligent-learning-platform/internal/middleware"
)

type Handlers struct {
	Auth    *apiHandler.AuthHandler
	Profile *apiHandler.ProfileHandler
	Health  *apiHandler.HealthHandler
	Index   *apiHandler.IndexHandler
}

type Options struct {
	Auth   *middleware.Auth
	CORS   func(fasthttp.RequestHandler) fasthttp.RequestHandler
	Logger *zap.Logger
	Debug  bool
}

// New assembles the route table. Anything uncaught falls through to the
// panic handler, which normalizes to the standard envelope.
func New(handlers Handlers, opts Options) fasthttp.RequestHandler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := router.New()
	authed := opts.Auth.Authenticate
	optional := opts.Auth.OptionalAuthenticate
	adminOnly := middleware.Authorize(domain.RoleAdmin)

	r.GET("/health", handlers.Health.Check)
	r.GET("/health/live", handlers.Health.Live)
	r.GET("/health/ready", handlers.Health.Ready)

	r.GET("/api/v1", optional(handlers.Index.Index))

	// Public auth routes
	r.POST("/api/auth/register", handlers.Auth.Register)
	r.POST("/api/auth/login", handlers.Auth.Login)

	// Protected routes
	r.GET("/api/auth/profile", authed(handlers.Profile.GetProfile))
	r.PUT("/api/auth/profile", authed(handlers.Profile.UpdateProfile))
	r.PUT("/api/auth/password", authed(handlers.Auth.ChangePassword))

	// Admin only
	r.GET("/api/auth/users", authed(adminOnly(handlers.Auth.ListUsers)))

	r.NotFound = func(ctx *fasthttp.RequestCtx) {
		writeEnvelope(ctx, fasthttp.StatusNotFound,
			transport.NewError(fmt.Sprintf("Not Found - %s", ctx.Path())))
	}

	r.PanicHandler = func(ctx *fasthttp.RequestCtx, v interface{}) {
		logger.Error("panic recovered",
			zap.String("path", string(ctx.Path())), zap.Any("panic", v))
		envelope := transport.NewError("An unexpected error occurred. Please try again.")
		if opts.Debug {
			envelope.Error = fmt.Sprint(v)
			envelope.Stack = string(debug.Stack())
		}
		writeEnvelope(ctx, fasthttp.StatusInternalServerError, envelope)
	}

	handler := r.Handler
	if opts.CORS != nil {
		handler = opts.CORS(handler)
	}
	return handler
}

func writeEnvelope(ctx *fasthttp.RequestCtx, status int, envelope transport.Envelope) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(envelope)
	ctx.SetBody(body)
}
