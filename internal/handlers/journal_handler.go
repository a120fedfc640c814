package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/carelink-app/backend/internal/access"
	"github.com/carelink-app/backend/internal/models"
	"github.com/carelink-app/backend/internal/repositories"
)

// JournalHandler handles HTTP requests for mood-tagged journal entries.
// Every caregiver read path goes through the access guard; a caregiver
// without an accepted relationship gets a denial, never someone else's data.
type JournalHandler struct {
	journals      repositories.JournalRepository
	users         repositories.UserRepository
	relationships repositories.RelationshipRepository
	guard         *access.Guard
}

// NewJournalHandler creates a new JournalHandler
func NewJournalHandler(journalRepo repositories.JournalRepository, userRepo repositories.UserRepository, relationshipRepo repositories.RelationshipRepository, guard *access.Guard) *JournalHandler {
	return &JournalHandler{
		journals:      journalRepo,
		users:         userRepo,
		relationships: relationshipRepo,
		guard:         guard,
	}
}

// RegisterJournalRoutes registers journal-related routes
func (h *JournalHandler) RegisterJournalRoutes(g *echo.Group) {
	g.POST("/journal-entries", h.Create)
	g.GET("/journal-entries", h.List)
	g.GET("/journal-entries/accepted", h.ListAccepted)
	g.PUT("/journal-entries/:id", h.Update)
	g.DELETE("/journal-entries/:id", h.Delete)
}

// Create adds a journal entry. Only the recipient writes their own journal.
func (h *JournalHandler) Create(c echo.Context) error {
	var req models.CreateJournalEntryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	rc, err := callerRecipient(c, h.users)
	if err != nil {
		return err
	}
	if rc.ID != req.RecipientID {
		return echo.NewHTTPError(http.StatusForbidden, "cannot write another recipient's journal")
	}

	entry := &models.JournalEntry{
		RecipientID: req.RecipientID,
		Content:     req.Content,
		Mood:        req.Mood,
		AudioURL:    req.AudioURL,
	}
	if err := h.journals.CreateEntry(c.Request().Context(), entry); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, entry)
}

// List returns one recipient's entries, newest first. Recipients see their
// own journal; caregivers must hold an accepted relationship.
func (h *JournalHandler) List(c echo.Context) error {
	recipientID64, err := strconv.ParseUint(c.QueryParam("recipientId"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "recipientId is required")
	}
	recipientID := uint(recipientID64)

	claims, err := callerClaims(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	switch claims.Role {
	case models.RoleRecipient:
		rc, err := h.users.GetRecipientByUserID(claims.UserID)
		if err != nil || rc.ID != recipientID {
			return echo.NewHTTPError(http.StatusForbidden, "cannot read another recipient's journal")
		}
	case models.RoleCaregiver:
		cg, err := h.users.GetCaregiverByUserID(claims.UserID)
		if err != nil || !h.guard.IsAuthorized(ctx, cg.ID, recipientID) {
			return echo.NewHTTPError(http.StatusForbidden, "no accepted relationship with this recipient")
		}
	default:
		return echo.NewHTTPError(http.StatusForbidden, "unknown role")
	}

	entries, err := h.journals.GetEntriesByRecipient(ctx, recipientID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if entries == nil {
		entries = []models.JournalEntry{}
	}

	return c.JSON(http.StatusOK, entries)
}

// ListAccepted returns the combined feed over all recipients the calling
// caregiver is linked to. The accepted-relationship list is itself the
// authorization source, so nothing outside it can leak in.
func (h *JournalHandler) ListAccepted(c echo.Context) error {
	cg, err := callerCaregiver(c, h.users)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	rels, err := h.relationships.ListAcceptedForCaregiver(ctx, cg.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	recipientIDs := make([]uint, 0, len(rels))
	for _, rel := range rels {
		recipientIDs = append(recipientIDs, rel.RecipientID)
	}

	entries, err := h.journals.GetEntriesByRecipients(ctx, recipientIDs)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if entries == nil {
		entries = []models.JournalEntry{}
	}

	return c.JSON(http.StatusOK, entries)
}

// Update edits an entry's content or mood. Only the owning recipient may edit.
func (h *JournalHandler) Update(c echo.Context) error {
	id := c.Param("id")

	var req models.UpdateJournalEntryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if req.Content == nil && req.Mood == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "at least one field must be provided")
	}

	rc, err := callerRecipient(c, h.users)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	entry, err := h.journals.GetEntryByID(ctx, id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "journal entry not found")
	}
	if entry.RecipientID != rc.ID {
		return echo.NewHTTPError(http.StatusForbidden, "cannot edit another recipient's journal")
	}

	updated, err := h.journals.UpdateEntry(ctx, id, req.Content, req.Mood)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, updated)
}

// Delete removes an entry. Only the owning recipient may delete.
func (h *JournalHandler) Delete(c echo.Context) error {
	id := c.Param("id")

	rc, err := callerRecipient(c, h.users)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	entry, err := h.journals.GetEntryByID(ctx, id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "journal entry not found")
	}
	if entry.RecipientID != rc.ID {
		return echo.NewHTTPError(http.StatusForbidden, "cannot delete another recipient's journal")
	}

	if err := h.journals.DeleteEntry(ctx, id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}
