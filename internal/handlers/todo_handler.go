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

// TodoHandler handles HTTP requests for caregiver-assigned tasks.
type TodoHandler struct {
	todos repositories.TodoRepository
	users repositories.UserRepository
	guard *access.Guard
}

// NewTodoHandler creates a new TodoHandler
func NewTodoHandler(todoRepo repositories.TodoRepository, userRepo repositories.UserRepository, guard *access.Guard) *TodoHandler {
	return &TodoHandler{todos: todoRepo, users: userRepo, guard: guard}
}

// RegisterTodoRoutes registers todo-related routes
func (h *TodoHandler) RegisterTodoRoutes(g *echo.Group) {
	g.POST("/todos", h.Create)
	g.GET("/todos", h.List)
	g.GET("/todos/:id", h.GetByID)
	g.PUT("/todos/:id", h.Update)
	g.DELETE("/todos/:id", h.Delete)
}

// Create assigns a task. The calling caregiver must hold an accepted
// relationship with the recipient.
func (h *TodoHandler) Create(c echo.Context) error {
	var req models.CreateTodoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	due, err := parseDate(req.DueDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid dueDate; must be RFC3339")
	}

	cg, err := callerCaregiver(c, h.users)
	if err != nil {
		return err
	}
	if cg.ID != req.CaregiverID {
		return echo.NewHTTPError(http.StatusForbidden, "cannot create todos for another caregiver")
	}
	if !h.guard.IsAuthorized(c.Request().Context(), cg.ID, req.RecipientID) {
		return echo.NewHTTPError(http.StatusForbidden, "no accepted relationship with this recipient")
	}

	todo := &models.Todo{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     due,
		Completed:   false,
		RecipientID: req.RecipientID,
		CaregiverID: req.CaregiverID,
		Priority:    req.Priority,
	}
	if err := h.todos.CreateTodo(todo); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, todo)
}

// List returns tasks scoped to the caller: recipients see their own tasks,
// caregivers see tasks they assigned (optionally narrowed to one recipient,
// which requires an accepted relationship).
func (h *TodoHandler) List(c echo.Context) error {
	claims, err := callerClaims(c)
	if err != nil {
		return err
	}

	filter := repositories.TodoFilter{
		Priority: models.TodoPriority(c.QueryParam("priority")),
	}
	if s := c.QueryParam("completed"); s != "" {
		completed, err := strconv.ParseBool(s)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid completed; must be true or false")
		}
		filter.Completed = &completed
	}

	switch claims.Role {
	case models.RoleRecipient:
		rc, err := h.users.GetRecipientByUserID(claims.UserID)
		if err != nil {
			return echo.NewHTTPError(http.StatusForbidden, "recipient profile not found")
		}
		filter.RecipientID = rc.ID
	case models.RoleCaregiver:
		cg, err := h.users.GetCaregiverByUserID(claims.UserID)
		if err != nil {
			return echo.NewHTTPError(http.StatusForbidden, "caregiver profile not found")
		}
		filter.CaregiverID = cg.ID
		if s := c.QueryParam("recipientId"); s != "" {
			recipientID64, err := strconv.ParseUint(s, 10, 32)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "invalid recipientId")
			}
			if !h.guard.IsAuthorized(c.Request().Context(), cg.ID, uint(recipientID64)) {
				return echo.NewHTTPError(http.StatusForbidden, "no accepted relationship with this recipient")
			}
			filter.RecipientID = uint(recipientID64)
		}
	default:
		return echo.NewHTTPError(http.StatusForbidden, "unknown role")
	}

	todos, err := h.todos.ListTodos(filter)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if todos == nil {
		todos = []models.Todo{}
	}

	return c.JSON(http.StatusOK, todos)
}

// GetByID returns one task, visible only to its caregiver or recipient.
func (h *TodoHandler) GetByID(c echo.Context) error {
	todo, err := h.loadAuthorizedTodo(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, todo)
}

// Update edits a task. Both parties may edit, so a recipient can mark a
// task completed.
func (h *TodoHandler) Update(c echo.Context) error {
	todo, err := h.loadAuthorizedTodo(c)
	if err != nil {
		return err
	}

	var req models.UpdateTodoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if req.Title != nil {
		todo.Title = *req.Title
	}
	if req.Description != nil {
		todo.Description = *req.Description
	}
	if req.DueDate != nil {
		due, err := parseDate(*req.DueDate)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid dueDate; must be RFC3339")
		}
		todo.DueDate = due
	}
	if req.Completed != nil {
		todo.Completed = *req.Completed
	}
	if req.Priority != nil {
		todo.Priority = *req.Priority
	}

	if err := h.todos.UpdateTodo(todo); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, todo)
}

// Delete removes a task. Only the assigning caregiver may delete.
func (h *TodoHandler) Delete(c echo.Context) error {
	todo, err := h.loadAuthorizedTodo(c)
	if err != nil {
		return err
	}

	claims, _ := callerClaims(c)
	if claims.Role != models.RoleCaregiver {
		return echo.NewHTTPError(http.StatusForbidden, "only the assigning caregiver can delete a todo")
	}

	if err := h.todos.DeleteTodo(todo.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}

// loadAuthorizedTodo fetches the todo and verifies the caller is one of its
// two parties.
func (h *TodoHandler) loadAuthorizedTodo(c echo.Context) (*models.Todo, error) {
	id64, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid todo ID")
	}

	todo, err := h.todos.GetTodoByID(uint(id64))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "todo not found")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	claims, err := callerClaims(c)
	if err != nil {
		return nil, err
	}

	switch claims.Role {
	case models.RoleRecipient:
		rc, err := h.users.GetRecipientByUserID(claims.UserID)
		if err != nil || rc.ID != todo.RecipientID {
			return nil, echo.NewHTTPError(http.StatusForbidden, "not a party to this todo")
		}
	case models.RoleCaregiver:
		cg, err := h.users.GetCaregiverByUserID(claims.UserID)
		if err != nil || cg.ID != todo.CaregiverID {
			return nil, echo.NewHTTPError(http.StatusForbidden, "not a party to this todo")
		}
	default:
		return nil, echo.NewHTTPError(http.StatusForbidden, "unknown role")
	}

	return todo, nil
}
