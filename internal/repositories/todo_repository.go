package repositories

import (
	"github.com/carelink-app/backend/internal/models"
	"gorm.io/gorm"
)

// TodoFilter narrows a todo listing. Zero values mean "no filter".
type TodoFilter struct {
	RecipientID uint
	CaregiverID uint
	Priority    models.TodoPriority
	Completed   *bool
}

// TodoRepository defines the interface for todo data operations
type TodoRepository interface {
	CreateTodo(todo *models.Todo) error
	GetTodoByID(id uint) (*models.Todo, error)
	ListTodos(filter TodoFilter) ([]models.Todo, error)
	UpdateTodo(todo *models.Todo) error
	DeleteTodo(id uint) error
}

// PostgresTodoRepository implements TodoRepository for PostgreSQL
type PostgresTodoRepository struct {
	db *gorm.DB
}

// NewPostgresTodoRepository creates a new PostgresTodoRepository
func NewPostgresTodoRepository(db *gorm.DB) *PostgresTodoRepository {
	return &PostgresTodoRepository{db: db}
}

// CreateTodo creates a new todo in PostgreSQL
func (r *PostgresTodoRepository) CreateTodo(todo *models.Todo) error {
	return r.db.Create(todo).Error
}

// GetTodoByID retrieves a todo by ID from PostgreSQL
func (r *PostgresTodoRepository) GetTodoByID(id uint) (*models.Todo, error) {
	var todo models.Todo
	if err := r.db.First(&todo, id).Error; err != nil {
		return nil, err
	}
	return &todo, nil
}

// ListTodos retrieves todos matching the filter, soonest due first
func (r *PostgresTodoRepository) ListTodos(filter TodoFilter) ([]models.Todo, error) {
	q := r.db.Model(&models.Todo{}).Order("due_date asc")
	if filter.RecipientID != 0 {
		q = q.Where("recipient_id = ?", filter.RecipientID)
	}
	if filter.CaregiverID != 0 {
		q = q.Where("caregiver_id = ?", filter.CaregiverID)
	}
	if filter.Priority != "" {
		q = q.Where("priority = ?", filter.Priority)
	}
	if filter.Completed != nil {
		q = q.Where("completed = ?", *filter.Completed)
	}

	var todos []models.Todo
	if err := q.Find(&todos).Error; err != nil {
		return nil, err
	}
	return todos, nil
}

// UpdateTodo updates an existing todo in PostgreSQL
func (r *PostgresTodoRepository) UpdateTodo(todo *models.Todo) error {
	return r.db.Save(todo).Error
}

// DeleteTodo deletes a todo by ID from PostgreSQL
func (r *PostgresTodoRepository) DeleteTodo(id uint) error {
	return r.db.Delete(&models.Todo{}, id).Error
}
