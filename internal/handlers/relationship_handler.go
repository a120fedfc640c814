package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/carelink-app/backend/internal/access"
	"github.com/carelink-app/backend/internal/models"
	"github.com/carelink-app/backend/internal/notify"
	"github.com/carelink-app/backend/internal/repositories"
)

// RelationshipHandler exposes the care-relationship workflow: either party
// sends a request, the counterparty accepts or rejects it, and the accepted
// link gates journal/todo/profile visibility elsewhere.
type RelationshipHandler struct {
	relationships repositories.RelationshipRepository
	users         repositories.UserRepository
	guard         *access.Guard
	notifier      *notify.Notifier
}

// NewRelationshipHandler creates a new RelationshipHandler
func NewRelationshipHandler(relationshipRepo repositories.RelationshipRepository, userRepo repositories.UserRepository, guard *access.Guard, notifier *notify.Notifier) *RelationshipHandler {
	return &RelationshipHandler{
		relationships: relationshipRepo,
		users:         userRepo,
		guard:         guard,
		notifier:      notifier,
	}
}

// RegisterRelationshipRoutes registers relationship-related routes
func (h *RelationshipHandler) RegisterRelationshipRoutes(g *echo.Group) {
	g.POST("/relationships", h.CreateRelationship)
	g.PATCH("/relationships/:id", h.RespondToRelationship)
	g.GET("/recipients/:id/relationships", h.ListRecipientRelationships)
	g.GET("/caregivers/:id/recipients", h.ListCaregiverRecipients)
	g.GET("/recipients/:id/caregivers", h.ListRecipientCaregivers)
}

// CreateRelationship handles sending a care request. The store enforces that
// at most one pending or accepted record exists per pair, atomically under
// concurrent requests.
func (h *RelationshipHandler) CreateRelationship(c echo.Context) error {
	var req models.CreateRelationshipRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	rel, err := h.relationships.Create(c.Request().Context(), req.CaregiverID, req.RecipientID)
	if err != nil {
		if errors.Is(err, repositories.ErrRelationshipConflict) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.guard.Invalidate(c.Request().Context(), rel.CaregiverID, rel.RecipientID)
	h.notifier.RelationshipRequested(c.Request().Context(), rel)

	return c.JSON(http.StatusCreated, rel)
}

// RespondToRelationship applies the counterparty's decision to a pending
// request. Decided records are immutable; a late or duplicate response gets
// a conflict, never a silent overwrite.
func (h *RelationshipHandler) RespondToRelationship(c echo.Context) error {
	relID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid relationship ID")
	}

	var req models.RespondRelationshipRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	rel, err := h.relationships.Respond(c.Request().Context(), uint(relID), req.Decision)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrRelationshipNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, repositories.ErrRelationshipNotPending):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	h.guard.Invalidate(c.Request().Context(), rel.CaregiverID, rel.RecipientID)
	h.notifier.RelationshipDecided(c.Request().Context(), rel)

	return c.JSON(http.StatusOK, rel)
}

// ListRecipientRelationships lists a recipient's requests. Default view is
// the pending queue, oldest first; ?status=accepted returns the accepted links.
func (h *RelationshipHandler) ListRecipientRelationships(c echo.Context) error {
	recipientID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid recipient ID")
	}

	ctx := c.Request().Context()
	status := c.QueryParam("status")

	var rels []models.CareRelationship
	switch models.CareRelationshipStatus(status) {
	case models.RelationshipPending, "":
		rels, err = h.relationships.ListPendingForRecipient(ctx, uint(recipientID))
	case models.RelationshipAccepted:
		rels, err = h.relationships.ListAcceptedForRecipient(ctx, uint(recipientID))
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "invalid status")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if rels == nil {
		rels = []models.CareRelationship{}
	}

	return c.JSON(http.StatusOK, rels)
}

// ListCaregiverRecipients returns the recipient profiles a caregiver is
// linked to. Only accepted relationships qualify.
func (h *RelationshipHandler) ListCaregiverRecipients(c echo.Context) error {
	caregiverID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid caregiver ID")
	}

	rels, err := h.relationships.ListAcceptedForCaregiver(c.Request().Context(), uint(caregiverID))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	recipients := make([]models.Recipient, 0, len(rels))
	for _, rel := range rels {
		rc, err := h.users.GetRecipientByID(rel.RecipientID)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		recipients = append(recipients, *rc)
	}

	return c.JSON(http.StatusOK, recipients)
}

// ListRecipientCaregivers returns the caregiver profiles linked to a
// recipient. Only accepted relationships qualify.
func (h *RelationshipHandler) ListRecipientCaregivers(c echo.Context) error {
	recipientID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid recipient ID")
	}

	rels, err := h.relationships.ListAcceptedForRecipient(c.Request().Context(), uint(recipientID))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	caregivers := make([]models.Caregiver, 0, len(rels))
	for _, rel := range rels {
		cg, err := h.users.GetCaregiverByID(rel.CaregiverID)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		caregivers = append(caregivers, *cg)
	}

	return c.JSON(http.StatusOK, caregivers)
}
