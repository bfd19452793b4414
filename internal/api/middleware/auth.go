package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/furniro/storefront/internal/config"
	apperrors "github.com/furniro/storefront/internal/errors"
	"github.com/furniro/storefront/internal/models"
	"github.com/furniro/storefront/internal/utils/response"
	"github.com/golang-jwt/jwt/v5"
)

const UserContextKey contextKey = "user_claims"

// Authenticate verifies the bearer token and stores the claims in the
// request context. Every route behind it can assume a signed-in user.
func Authenticate(security *config.Security) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			header := r.Header.Get("Authorization")
			if header == "" {
				response.Error(w, apperrors.UnauthorizedError("Authorization header is required"))

				return
			}

			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || tokenString == "" {
				response.Error(w, apperrors.UnauthorizedError("Authorization header must be a bearer token"))

				return
			}

			claims := &models.Claims{}

			token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}

				return []byte(security.JWTKey), nil
			})
			if err != nil || !token.Valid {
				response.Error(w, apperrors.UnauthorizedError("Invalid or expired token"))

				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, claims)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin gates catalog mutations. Runs after Authenticate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			response.Error(w, apperrors.UnauthorizedError("Authentication required"))

			return
		}

		if claims.Role != models.RoleAdmin {
			response.Error(w, apperrors.ForbiddenError("Admin access required"))

			return
		}

		next.ServeHTTP(w, r)
	})
}

func ClaimsFromContext(ctx context.Context) (*models.Claims, bool) {
	claims, ok := ctx.Value(UserContextKey).(*models.Claims)

	return claims, ok
}
