package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/SyntaxSorcerers2025/ticketly/internal/config"
	"github.com/SyntaxSorcerers2025/ticketly/internal/models"
	"github.com/SyntaxSorcerers2025/ticketly/internal/repository"
	"github.com/SyntaxSorcerers2025/ticketly/internal/utils"
)

type ctxKey string

const ctxIdentity ctxKey = "identity"

// Identity returns the directory-resolved caller, if any.
func Identity(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(ctxIdentity).(*models.User)
	return u, ok
}

// WithIdentity is exported for handler tests that need a caller in context.
func WithIdentity(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, ctxIdentity, u)
}

// WithAuth verifies the bearer credential and re-resolves the caller from
// the user directory. The token's embedded role is never trusted: the role
// in effect is whatever the directory says right now, so a role change
// applies before the token expires. Requests without a credential pass
// through unauthenticated; RequireAuth draws the line per route.
func WithAuth(log zerolog.Logger, cfg config.Config, users repository.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Read JWT from cookie "session" or Authorization: Bearer.
			var tok string
			if c, err := r.Cookie("session"); err == nil {
				tok = c.Value
			} else if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
				tok = strings.TrimPrefix(h, "Bearer ")
			}
			if tok == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := utils.ParseJWT(cfg.SessionSecret, tok)
			if err != nil {
				// Clear a broken/expired cookie so it stops being sent.
				http.SetCookie(w, &http.Cookie{
					Name:     "session",
					Value:    "",
					Path:     "/",
					HttpOnly: true,
					MaxAge:   -1,
				})
				utils.Error(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			u, err := users.GetByID(r.Context(), claims.UserID)
			if err != nil {
				log.Error().Err(err).Int64("user_id", claims.UserID).Msg("identity lookup failed")
				utils.Error(w, http.StatusInternalServerError, "internal server error")
				return
			}
			if u == nil {
				utils.Error(w, http.StatusUnauthorized, "invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), u)))
		})
	}
}
