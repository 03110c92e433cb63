package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go-shopping/utils"

	"github.com/gorilla/mux"
)

// Key type for context
type contextKey string

const UserContextKey = contextKey("user")

// AuthMiddleware verifies session tokens and attaches the claims to the context
func AuthMiddleware(tokens *utils.TokenIssuer) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				unauthorized(w, "Authorization header missing")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				unauthorized(w, "Invalid Authorization header format")
				return
			}

			claims, err := tokens.ParseJWT(parts[1], utils.PurposeSession)
			if err != nil {
				unauthorized(w, "Invalid token")
				return
			}

			// Attach user information to the request context
			ctx := context.WithValue(r.Context(), UserContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CurrentUserID returns the signed-in user's ID, or "" outside a session
func CurrentUserID(ctx context.Context) string {
	claims, ok := ctx.Value(UserContextKey).(*utils.Claims)
	if !ok {
		return ""
	}
	return claims.UserID
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized", "message": message})
}
