package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/arjuns-sics/intelligent-learning-platform/api/transport"
	"github.com/arjuns-sics/intelligent-learning-platform/internal/middleware"
	"github.com/arjuns-sics/intelligent-learning-platform/pkg/httpcontext"
	profileUC "github.com/arjuns-sics/intelligent-learning-platform/usecase/profile"
)

type ProfileHandler struct {
	baseHandler
	uc *profileUC.UseCase
}

func NewProfileHandler(uc *profileUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger, debug bool) *ProfileHandler {
	return &ProfileHandler{
		baseHandler: newBaseHandler(adapter, logger, debug),
		uc:          uc,
	}
}

// GetProfile returns the caller's record, password hash omitted.
// GET /api/auth/profile
func (h *ProfileHandler) GetProfile(ctx *fasthttp.RequestCtx) {
	identity := middleware.IdentityFromRequest(ctx)
	if identity == nil {
		h.respondJSON(ctx, http.StatusUnauthorized, transport.NewError("User not authenticated."))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, err := h.uc.Get(stdCtx, identity.UserID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, user, "")
}

// UpdateProfile applies a partial update of the whitelisted profile fields.
// PUT /api/auth/profile
func (h *ProfileHandler) UpdateProfile(ctx *fasthttp.RequestCtx) {
	identity := middleware.IdentityFromRequest(ctx)
	if identity == nil {
		h.respondJSON(ctx, http.StatusUnauthorized, transport.NewError("User not authenticated."))
		return
	}

	var req transport.ProfileUpdateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError("invalid payload"))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, err := h.uc.Update(stdCtx, identity.UserID, profileUC.UpdateInput{
		Name:           req.Name,
		ProfileImage:   req.ProfileImage,
		PreferredMedia: req.PreferredMedia,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, user, "Profile updated successfully")
}
