package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Lucifergene/bookswap-connect/internal/utils"
)

type contextKey string

const ContextUserID contextKey = "user_id"

var ErrNoBearerToken = errors.New("missing bearer token")

// BearerUserID extracts and verifies the Authorization header, returning
// the user ID carried by the token. It never touches the store.
func BearerUserID(r *http.Request) (string, error) {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return "", ErrNoBearerToken
	}
	tokenStr := strings.TrimPrefix(auth, "Bearer ")

	claims, err := utils.ParseJWT(tokenStr)
	if err != nil {
		return "", err
	}

	return claims.UserID, nil
}

func JWTAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := BearerUserID(r)
		if err != nil {
			if errors.Is(err, ErrNoBearerToken) {
				utils.JSONError(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			utils.JSONError(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), ContextUserID, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserIDFromContext returns the identity attached by JWTAuthMiddleware,
// or "" on unguarded routes.
func UserIDFromContext(ctx context.Context) string {
	userID, _ := ctx.Value(ContextUserID).(string)
	return userID
}
