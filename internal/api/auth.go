package api

import (
	"context"
	"net/http"

	"roombook/internal/auth"
	"roombook/internal/domain"
	"roombook/internal/models"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog"
)

// IdentityFromContext returns the caller set by the token middleware.
func IdentityFromContext(ctx context.Context) (models.Identity, bool) {
	id, ok := ctx.Value(identityKey).(models.Identity)
	return id, ok
}

// HTTPAuth validates bearer tokens and guards admin routes.
type HTTPAuth struct {
	tokens *auth.TokenManager
	logger *zerolog.Logger
}

func NewHTTPAuth(tokens *auth.TokenManager, logger *zerolog.Logger) *HTTPAuth {
	return &HTTPAuth{tokens: tokens, logger: logger}
}

// Authenticated rejects requests without a valid token with 401.
func (a *HTTPAuth) Authenticated(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		raw, err := auth.ExtractToken(r.Header.Get("Authorization"))
		if err != nil {
			writeErrorMessage(w, http.StatusUnauthorized, domain.KindUnauthorized, "missing bearer token")
			return
		}

		claims, err := a.tokens.ValidateToken(raw)
		if err != nil {
			a.logger.Debug().Err(err).Str("request_id", RequestIDFromContext(r.Context())).Msg("Token rejected")
			writeErrorMessage(w, http.StatusUnauthorized, domain.KindUnauthorized, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, claims.Identity())
		next(w, r.WithContext(ctx), ps)
	}
}

// Admin is Authenticated plus a 403 for non-admin callers.
func (a *HTTPAuth) Admin(next httprouter.Handle) httprouter.Handle {
	return a.Authenticated(func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		identity, _ := IdentityFromContext(r.Context())
		if !models.IsAdmin(identity.Role) {
			writeErrorMessage(w, http.StatusForbidden, domain.KindForbidden, "admin role required")
			return
		}
		next(w, r, ps)
	})
}
