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

// CommentHandler handles HTTP requests for comments on journal entries.
// Commenting and reading follow the same visibility rule as the entry
// itself: the owning recipient, or a caregiver with an accepted relationship.
type CommentHandler struct {
	comments repositories.CommentRepository
	journals repositories.JournalRepository
	users    repositories.UserRepository
	guard    *access.Guard
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentRepo repositories.CommentRepository, journalRepo repositories.JournalRepository, userRepo repositories.UserRepository, guard *access.Guard) *CommentHandler {
	return &CommentHandler{
		comments: commentRepo,
		journals: journalRepo,
		users:    userRepo,
		guard:    guard,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/comments", h.Create)
	g.GET("/comments", h.List)
	g.PUT("/comments/:id", h.Update)
	g.DELETE("/comments/:id", h.Delete)
}

// Create adds a comment to a journal entry the caller may see.
func (h *CommentHandler) Create(c echo.Context) error {
	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	claims, err := callerClaims(c)
	if err != nil {
		return err
	}
	if err := h.checkEntryAccess(c, claims, req.JournalEntryID); err != nil {
		return err
	}

	comment := &models.Comment{
		JournalEntryID: req.JournalEntryID,
		AuthorID:       claims.UserID,
		Content:        req.Content,
	}
	if err := h.comments.CreateComment(comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, comment)
}

// List returns the comments on a journal entry, oldest first, with author
// name and role resolved.
func (h *CommentHandler) List(c echo.Context) error {
	entryID := c.QueryParam("journalEntryId")
	if entryID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "journalEntryId is required")
	}

	claims, err := callerClaims(c)
	if err != nil {
		return err
	}
	if err := h.checkEntryAccess(c, claims, entryID); err != nil {
		return err
	}

	views, err := h.comments.GetCommentsByEntryID(entryID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if views == nil {
		views = []models.CommentView{}
	}

	return c.JSON(http.StatusOK, views)
}

// Update edits a comment. Author only.
func (h *CommentHandler) Update(c echo.Context) error {
	comment, err := h.loadOwnComment(c)
	if err != nil {
		return err
	}

	var req models.UpdateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	comment.Content = req.Content
	if err := h.comments.UpdateComment(comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, comment)
}

// Delete removes a comment. Author only.
func (h *CommentHandler) Delete(c echo.Context) error {
	comment, err := h.loadOwnComment(c)
	if err != nil {
		return err
	}

	if err := h.comments.DeleteComment(comment.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}

// checkEntryAccess verifies the caller may see the journal entry: the owning
// recipient, or a caregiver with an accepted relationship. Denies by default.
func (h *CommentHandler) checkEntryAccess(c echo.Context, claims *models.JwtCustomClaims, entryID string) error {
	ctx := c.Request().Context()
	entry, err := h.journals.GetEntryByID(ctx, entryID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "journal entry not found")
	}

	switch claims.Role {
	case models.RoleRecipient:
		rc, err := h.users.GetRecipientByUserID(claims.UserID)
		if err != nil || rc.ID != entry.RecipientID {
			return echo.NewHTTPError(http.StatusForbidden, "cannot access another recipient's journal")
		}
	case models.RoleCaregiver:
		cg, err := h.users.GetCaregiverByUserID(claims.UserID)
		if err != nil || !h.guard.IsAuthorized(ctx, cg.ID, entry.RecipientID) {
			return echo.NewHTTPError(http.StatusForbidden, "no accepted relationship with this recipient")
		}
	default:
		return echo.NewHTTPError(http.StatusForbidden, "unknown role")
	}
	return nil
}

// loadOwnComment fetches the comment and verifies the caller authored it.
func (h *CommentHandler) loadOwnComment(c echo.Context) (*models.Comment, error) {
	id64, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid comment ID")
	}

	comment, err := h.comments.GetCommentByID(uint(id64))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "comment not found")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	claims, err := callerClaims(c)
	if err != nil {
		return nil, err
	}
	if comment.AuthorID != claims.UserID {
		return nil, echo.NewHTTPError(http.StatusForbidden, "not the author of this comment")
	}

	return comment, nil
}
