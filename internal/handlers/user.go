package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/carelink-app/backend/internal/access"
	"github.com/carelink-app/backend/internal/models"
	"github.com/carelink-app/backend/internal/repositories"
)

// recipientSummary is the unprotected view of a recipient, enough for a
// caregiver to find someone and send a request. Protected profile fields
// (condition, likes, phobias...) require an accepted relationship.
type recipientSummary struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// UserHandler handles profile and directory HTTP requests.
type UserHandler struct {
	users repositories.UserRepository
	guard *access.Guard
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, guard *access.Guard) *UserHandler {
	return &UserHandler{users: userRepo, guard: guard}
}

// RegisterUserRoutes registers profile and directory routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.GET("/recipients", h.ListRecipients)
	g.GET("/recipients/:id", h.GetRecipient)
	g.PUT("/recipients/:id", h.UpdateRecipient)
	g.GET("/caregivers", h.ListCaregivers)
	g.POST("/device", h.RegisterDevice)
}

// ListRecipients returns recipient summaries, optionally filtered by
// ?search=. Summaries are public within the app; full profiles are not.
func (h *UserHandler) ListRecipients(c echo.Context) error {
	var (
		rcs []models.Recipient
		err error
	)
	if q := c.QueryParam("search"); q != "" {
		rcs, err = h.users.SearchRecipients(q)
	} else {
		rcs, err = h.users.ListRecipients()
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	summaries := make([]recipientSummary, 0, len(rcs))
	for _, rc := range rcs {
		summaries = append(summaries, recipientSummary{ID: rc.ID, Name: rc.User.Name})
	}

	return c.JSON(http.StatusOK, summaries)
}

// GetRecipient returns a recipient's full profile. The recipient themself
// always may; a caregiver needs an accepted relationship; anyone else is
// denied.
func (h *UserHandler) GetRecipient(c echo.Context) error {
	id64, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid recipient ID")
	}
	recipientID := uint(id64)

	claims, err := callerClaims(c)
	if err != nil {
		return err
	}

	switch claims.Role {
	case models.RoleRecipient:
		own, err := h.users.GetRecipientByUserID(claims.UserID)
		if err != nil || own.ID != recipientID {
			return echo.NewHTTPError(http.StatusForbidden, "cannot view another recipient's profile")
		}
	case models.RoleCaregiver:
		cg, err := h.users.GetCaregiverByUserID(claims.UserID)
		if err != nil || !h.guard.IsAuthorized(c.Request().Context(), cg.ID, recipientID) {
			return echo.NewHTTPError(http.StatusForbidden, "no accepted relationship with this recipient")
		}
	default:
		return echo.NewHTTPError(http.StatusForbidden, "unknown role")
	}

	rc, err := h.users.GetRecipientByID(recipientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "recipient not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, rc)
}

// UpdateRecipient edits the caller's own recipient profile.
func (h *UserHandler) UpdateRecipient(c echo.Context) error {
	id64, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid recipient ID")
	}

	rc, err := callerRecipient(c, h.users)
	if err != nil {
		return err
	}
	if rc.ID != uint(id64) {
		return echo.NewHTTPError(http.StatusForbidden, "cannot edit another recipient's profile")
	}

	var req models.UpdateRecipientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	if req.Age != nil {
		rc.Age = req.Age
	}
	if req.Condition != nil {
		rc.Condition = req.Condition
	}
	if req.Likes != nil {
		rc.Likes = req.Likes
	}
	if req.Dislikes != nil {
		rc.Dislikes = req.Dislikes
	}
	if req.Phobias != nil {
		rc.Phobias = req.Phobias
	}
	if req.PetPeeves != nil {
		rc.PetPeeves = req.PetPeeves
	}

	if err := h.users.UpdateRecipient(rc); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, rc)
}

// ListCaregivers returns caregiver summaries so a recipient can originate a
// request in the other direction.
func (h *UserHandler) ListCaregivers(c echo.Context) error {
	cgs, err := h.users.ListCaregivers()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	summaries := make([]recipientSummary, 0, len(cgs))
	for _, cg := range cgs {
		summaries = append(summaries, recipientSummary{ID: cg.ID, Name: cg.User.Name})
	}

	return c.JSON(http.StatusOK, summaries)
}

// RegisterDevice saves the caller's FCM registration token for push
// notifications.
func (h *UserHandler) RegisterDevice(c echo.Context) error {
	claims, err := callerClaims(c)
	if err != nil {
		return err
	}

	var req models.RegisterDeviceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.users.GetUserByID(claims.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	user.DeviceToken = req.DeviceToken
	if err := h.users.UpdateUser(user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}
