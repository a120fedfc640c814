package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/carelink-app/backend/internal/middleware"
	"github.com/carelink-app/backend/internal/models"
	"github.com/carelink-app/backend/internal/repositories"
)

func parseDate(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// callerClaims returns the authenticated claims or a 401 error.
func callerClaims(c echo.Context) (*models.JwtCustomClaims, error) {
	claims := middleware.CurrentClaims(c)
	if claims == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return claims, nil
}

// callerCaregiver resolves the authenticated user's caregiver profile.
// Returns 403 when the caller is not a caregiver.
func callerCaregiver(c echo.Context, users repositories.UserRepository) (*models.Caregiver, error) {
	claims, err := callerClaims(c)
	if err != nil {
		return nil, err
	}
	if claims.Role != models.RoleCaregiver {
		return nil, echo.NewHTTPError(http.StatusForbidden, "caregiver role required")
	}
	cg, err := users.GetCaregiverByUserID(claims.UserID)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusForbidden, "caregiver profile not found")
	}
	return cg, nil
}

// callerRecipient resolves the authenticated user's recipient profile.
// Returns 403 when the caller is not a recipient.
func callerRecipient(c echo.Context, users repositories.UserRepository) (*models.Recipient, error) {
	claims, err := callerClaims(c)
	if err != nil {
		return nil, err
	}
	if claims.Role != models.RoleRecipient {
		return nil, echo.NewHTTPError(http.StatusForbidden, "recipient role required")
	}
	rc, err := users.GetRecipientByUserID(claims.UserID)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusForbidden, "recipient profile not found")
	}
	return rc, nil
}
