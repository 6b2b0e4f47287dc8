package httpserver

import (
	"context"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	"ocppnode/backend/services/networking-node/internal/auth"
)

type contextKey string

const claimsKey contextKey = "claims"

// authenticated validates the Bearer JWT before calling next. A nil token
// service disables the check.
func authenticated(tokens *auth.TokenService, next httprouter.Handle) httprouter.Handle {
	if tokens == nil || !tokens.Enabled() {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeError(w, http.StatusUnauthorized, codeUnauthorized, "missing authorization header")
			return
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			writeError(w, http.StatusUnauthorized, codeUnauthorized, "invalid authorization header")
			return
		}
		claims, err := tokens.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			writeError(w, http.StatusUnauthorized, codeUnauthorized, "invalid token")
			return
		}
		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next(w, r.WithContext(ctx), params)
	}
}

// ClaimsFromContext retrieves the caller's claims.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	return claims, ok
}
