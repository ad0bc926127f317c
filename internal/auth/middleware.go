package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/exam-engine/internal/auth/jwt"
	"github.com/gokatarajesh/exam-engine/internal/logging"
	httperrors "github.com/gokatarajesh/exam-engine/pkg/http/errors"
)

type ctxActorKey struct{}

// TokenValidator is implemented by jwt.Manager.
type TokenValidator interface {
	Validate(token string) (*jwt.Claims, error)
}

// WithActor stores the caller's actor id in ctx.
func WithActor(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, ctxActorKey{}, actorID)
}

// ActorFromContext returns the actor id set by Middleware.
func ActorFromContext(ctx context.Context) (string, bool) {
	actorID, ok := ctx.Value(ctxActorKey{}).(string)
	return actorID, ok && actorID != ""
}

// Middleware validates bearer tokens and injects the actor id into the request
// context. Requests without an Authorization header pass through anonymously.
func Middleware(tokens TokenValidator, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				httperrors.RespondUnauthorized(w, httperrors.ErrCodeInvalidToken, "Invalid authorization header")
				return
			}

			claims, err := tokens.Validate(parts[1])
			if err != nil {
				logger.Warn().Err(err).Msg("token validation failed")
				code := httperrors.ErrCodeInvalidToken
				if errors.Is(err, jwt.ErrExpiredToken) {
					code = httperrors.ErrCodeTokenExpired
				}
				httperrors.RespondUnauthorized(w, code, "Invalid or expired token")
				return
			}

			ctx := WithActor(r.Context(), claims.Subject)
			reqLogger := logging.FromContext(ctx, logger).With().Str("actor_id", claims.Subject).Logger()
			ctx = logging.IntoContext(ctx, reqLogger)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireActor ensures the request carries an authenticated actor.
func RequireActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := ActorFromContext(r.Context()); !ok {
			httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
