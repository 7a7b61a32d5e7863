package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskhive/backend/api/transport"
	"github.com/taskhive/backend/domain"
)

// Authenticator validates a bearer token and resolves its subject to a
// live user record.
type Authenticator interface {
	VerifyToken(token string) (string, error)
	ResolveUser(ctx context.Context, userID string) (*domain.User, error)
}

const resolveTimeout = 5 * time.Second

// Auth guards protected routes. A request passes only when it carries a
// well-formed bearer token with a valid signature and expiry whose
// subject still exists; the resolved user id is propagated to handlers
// through the X-User-ID header, replacing whatever the client sent.
func Auth(authn Authenticator, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			tokenString := extractBearer(ctx)
			if tokenString == "" {
				reject(ctx, "missing bearer token")
				return
			}

			userID, err := authn.VerifyToken(tokenString)
			if err != nil {
				logger.Warn("token rejected", zap.Error(err))
				reject(ctx, err.Error())
				return
			}

			stdCtx, cancel := context.WithTimeout(context.Background(), resolveTimeout)
			defer cancel()

			user, err := authn.ResolveUser(stdCtx, userID)
			if err != nil {
				if domain.IsDomainError(err, domain.ErrCodeNotFound) {
					reject(ctx, "unknown user")
					return
				}
				logger.Error("identity resolution failed", zap.Error(err))
				internalError(ctx)
				return
			}

			ctx.Request.Header.Set("X-User-ID", user.ID)
			next(ctx)
		}
	}
}

func extractBearer(ctx *fasthttp.RequestCtx) string {
	header := string(ctx.Request.Header.Peek("Authorization"))
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

func reject(ctx *fasthttp.RequestCtx, message string) {
	writeEnvelope(ctx, http.StatusUnauthorized, transport.NewError(string(domain.ErrCodeUnauthorized), message))
}

func internalError(ctx *fasthttp.RequestCtx) {
	writeEnvelope(ctx, http.StatusInternalServerError, transport.NewError(string(domain.ErrCodeInternal), "internal server error"))
}

func writeEnvelope(ctx *fasthttp.RequestCtx, status int, payload transport.Envelope) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(payload)
	ctx.SetBody(body)
}
