package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"rinklog/internal/models"
)

type ctxKey string

const userIDKey ctxKey = "uid"

// RequireSession authenticates Authorization: Bearer <token> and puts the
// caller's user id into the request context. No valid token — 401, the
// request never reaches the handler.
func RequireSession(tokens *TokenIssuer) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const p = "Bearer "
			raw := r.Header.Get("Authorization")
			if !strings.HasPrefix(raw, p) {
				models.WriteProblem(w, http.StatusUnauthorized, "Unauthenticated", "missing bearer token", nil)
				return
			}
			uid, err := tokens.Parse(strings.TrimPrefix(raw, p))
			if err != nil {
				models.WriteProblem(w, http.StatusUnauthorized, "Unauthenticated", "invalid or expired session", nil)
				return
			}
			ctx := context.WithValue(r.Context(), userIDKey, uid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID resolves the authenticated caller from the context.
func UserID(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(userIDKey).(string)
	return s, ok && s != ""
}

// WithUserID is for wiring identities outside the HTTP path (tests, tools).
func WithUserID(ctx context.Context, uid string) context.Context {
	return context.WithValue(ctx, userIDKey, uid)
}
