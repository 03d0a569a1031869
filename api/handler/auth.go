package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/arjuns-sics/intelligent-learning-platform/api/transport"
	"github.com/arjuns-sics/intelligent-learning-platform/domain"
	"github.com/arjuns-sics/intelligent-learning-platform/internal/middleware"
	"github.com/arjuns-sics/intelligent-learning-platform/pkg/httpcontext"
	authUC "github.com/arjuns-sics/intelligent-learning-platform/usecase/auth"
)

type AuthHandler struct {
	baseHandler
	uc *authUC.UseCase
}

func NewAuthHandler(uc *authUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger, debug bool) *AuthHandler {
	return &AuthHandler{
		baseHandler: newBaseHandler(adapter, logger, debug),
		uc:          uc,
	}
}

// Register creates an account and issues a session token.
// POST /api/auth/register
func (h *AuthHandler) Register(ctx *fasthttp.RequestCtx) {
	var req transport.RegisterRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError("invalid payload"))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, tok, err := h.uc.Register(stdCtx, authUC.RegisterInput{
		Name:           req.Name,
		Email:          req.Email,
		Password:       req.Password,
		Role:           domain.Role(req.Role),
		PreferredMedia: req.PreferredMedia,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	h.respondSuccess(ctx, http.StatusCreated,
		transport.AuthPayload{User: user, Token: tok},
		"User registered successfully")
}

// Login verifies credentials and issues a session token.
// POST /api/auth/login
func (h *AuthHandler) Login(ctx *fasthttp.RequestCtx) {
	var req transport.LoginRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError("invalid payload"))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, tok, err := h.uc.Login(stdCtx, req.Email, req.Password)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	h.respondSuccess(ctx, http.StatusOK,
		transport.AuthPayload{User: user, Token: tok},
		"Login successful")
}

// ChangePassword rotates the caller's secret after verifying the current one.
// PUT /api/auth/password
func (h *AuthHandler) ChangePassword(ctx *fasthttp.RequestCtx) {
	identity := middleware.IdentityFromRequest(ctx)
	if identity == nil {
		h.respondJSON(ctx, http.StatusUnauthorized, transport.NewError("User not authenticated."))
		return
	}

	var req transport.ChangePasswordRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError("invalid payload"))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.ChangePassword(stdCtx, identity.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		h.respondError(ctx, err)
		return
	}

	h.respondSuccess(ctx, http.StatusOK, nil, "Password changed successfully")
}

// ListUsers returns every account. Reachable only behind Authorize(Admin).
// GET /api/auth/users
func (h *AuthHandler) ListUsers(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	users, err := h.uc.ListUsers(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, users, "")
}
