package middleware

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/arjuns-sics/intelligent-learning-platform/api/transport"
	"github.com/arjuns-sics/intelligent-learning-platform/domain"
	"github.com/arjuns-sics/intelligent-learning-platform/pkg/token"
)

const identityKey = "auth_identity"

// Identity is the caller's decoded claims, attached to the request after a
// successful token check.
type Identity struct {
	UserID string
	Email  string
	Role   domain.Role
}

// Auth provides the token-gating middleware. Authenticate and
// OptionalAuthenticate share one parse path; only the reaction to a failed
// parse differs.
type Auth struct {
	tokens *token.Issuer
	logger *zap.Logger
}

func NewAuth(tokens *token.Issuer, logger *zap.Logger) *Auth {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Auth{tokens: tokens, logger: logger}
}

// Authenticate rejects the request with 401 unless a valid bearer token is
// presented. Expired tokens get a message distinct from malformed ones.
func (a *Auth) Authenticate(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		identity, err := a.parseIdentity(ctx)
		if err != nil {
			a.logger.Warn("authentication failed",
				zap.String("path", string(ctx.Path())), zap.Error(err))
			reject(ctx, fasthttp.StatusUnauthorized, err.Error())
			return
		}
		ctx.SetUserValue(identityKey, identity)
		next(ctx)
	}
}

// OptionalAuthenticate attaches an identity when a valid token is present but
// never fails the request, so handlers can distinguish anonymous callers.
func (a *Auth) OptionalAuthenticate(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		if identity, err := a.parseIdentity(ctx); err == nil {
			ctx.SetUserValue(identityKey, identity)
		}
		next(ctx)
	}
}

// Authorize gates an already-authenticated request by role. Authentication
// must run first: a missing identity is a 401, a role mismatch a 403.
func Authorize(roles ...domain.Role) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			identity := IdentityFromRequest(ctx)
			if identity == nil {
				reject(ctx, fasthttp.StatusUnauthorized, "User not authenticated.")
				return
			}
			for _, role := range roles {
				if identity.Role == role {
					next(ctx)
					return
				}
			}
			reject(ctx, fasthttp.StatusForbidden,
				"Access denied. Required role: "+joinRoles(roles))
		}
	}
}

// IdentityFromRequest returns the identity attached by the auth middleware,
// or nil for anonymous requests.
func IdentityFromRequest(ctx *fasthttp.RequestCtx) *Identity {
	identity, _ := ctx.UserValue(identityKey).(*Identity)
	return identity
}

func (a *Auth) parseIdentity(ctx *fasthttp.RequestCtx) (*Identity, error) {
	header := string(ctx.Request.Header.Peek(fasthttp.HeaderAuthorization))
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return nil, errors.New("Access denied. No token provided.")
	}

	tokenString := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if tokenString == "" {
		return nil, errors.New("Access denied. Invalid token format.")
	}

	claims, err := a.tokens.Verify(tokenString)
	if err != nil {
		if errors.Is(err, token.ErrExpired) {
			return nil, errors.New("Token expired. Please login again.")
		}
		return nil, errors.New("Invalid token. Please login again.")
	}

	return &Identity{
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   domain.Role(claims.Role),
	}, nil
}

func reject(ctx *fasthttp.RequestCtx, status int, message string) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(transport.NewError(message))
	ctx.SetBody(body)
}

func joinRoles(roles []domain.Role) string {
	parts := make([]string, len(roles))
	for i, role := range roles {
		parts[i] = string(role)
	}
	return strings.Join(parts, " or ")
}
