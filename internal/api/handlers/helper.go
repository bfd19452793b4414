package handlers

import (
	"net/http"

	"github.com/furniro/storefront/internal/api/middleware"
	apperrors "github.com/furniro/storefront/internal/errors"
	"github.com/furniro/storefront/internal/models"
	"github.com/furniro/storefront/internal/utils/response"
	"github.com/google/uuid"
)

func errUnauthorized() error {
	return apperrors.UnauthorizedError("Authentication required")
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {

	raw := r.PathValue(name)
	if raw == "" {
		return uuid.Nil, apperrors.BadRequestError(name + " is required")
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperrors.BadRequestError("Invalid " + name).WithError(err)
	}

	return id, nil
}

// authorizeUser lets a user act on their own resources; admins may act on
// anyone's. Writes the error envelope itself on failure.
func authorizeUser(w http.ResponseWriter, r *http.Request, userID uuid.UUID) (*models.Claims, bool) {

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		response.Error(w, apperrors.UnauthorizedError("Authentication required"))

		return nil, false
	}

	if claims.UserID != userID && claims.Role != models.RoleAdmin {
		response.Error(w, apperrors.ForbiddenError("You can only access your own resources"))

		return nil, false
	}

	return claims, true
}
