package repositories

import (
	"github.com/carelink-app/backend/internal/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user and profile data operations
type UserRepository interface {
	CreateUserWithProfile(user *models.User, recipient *models.Recipient) error
	GetUserByID(id uint) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	UpdateUser(user *models.User) error

	GetCaregiverByID(id uint) (*models.Caregiver, error)
	GetCaregiverByUserID(userID uint) (*models.Caregiver, error)
	ListCaregivers() ([]models.Caregiver, error)

	GetRecipientByID(id uint) (*models.Recipient, error)
	GetRecipientByUserID(userID uint) (*models.Recipient, error)
	ListRecipients() ([]models.Recipient, error)
	SearchRecipients(query string) ([]models.Recipient, error)
	UpdateRecipient(recipient *models.Recipient) error
}

// PostgresUserRepository implements UserRepository for PostgreSQL
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// CreateUserWithProfile creates the user row and its role-specific profile in
// one transaction. recipient is nil for caregiver accounts.
func (r *PostgresUserRepository) CreateUserWithProfile(user *models.User, recipient *models.Recipient) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		if user.Role == models.RoleCaregiver {
			return tx.Create(&models.Caregiver{UserID: user.ID}).Error
		}
		recipient.UserID = user.ID
		return tx.Create(recipient).Error
	})
}

// GetUserByID retrieves a user by ID from PostgreSQL
func (r *PostgresUserRepository) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by username from PostgreSQL
func (r *PostgresUserRepository) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser updates an existing user in PostgreSQL
func (r *PostgresUserRepository) UpdateUser(user *models.User) error {
	return r.db.Save(user).Error
}

// GetCaregiverByID retrieves a caregiver profile (with its user) by profile ID
func (r *PostgresUserRepository) GetCaregiverByID(id uint) (*models.Caregiver, error) {
	var cg models.Caregiver
	if err := r.db.Preload("User").First(&cg, id).Error; err != nil {
		return nil, err
	}
	return &cg, nil
}

// GetCaregiverByUserID retrieves a caregiver profile by the owning user's ID
func (r *PostgresUserRepository) GetCaregiverByUserID(userID uint) (*models.Caregiver, error) {
	var cg models.Caregiver
	if err := r.db.Preload("User").Where("user_id = ?", userID).First(&cg).Error; err != nil {
		return nil, err
	}
	return &cg, nil
}

// ListCaregivers retrieves all caregiver profiles
func (r *PostgresUserRepository) ListCaregivers() ([]models.Caregiver, error) {
	var cgs []models.Caregiver
	if err := r.db.Preload("User").Find(&cgs).Error; err != nil {
		return nil, err
	}
	return cgs, nil
}

// GetRecipientByID retrieves a recipient profile (with its user) by profile ID
func (r *PostgresUserRepository) GetRecipientByID(id uint) (*models.Recipient, error) {
	var rc models.Recipient
	if err := r.db.Preload("User").First(&rc, id).Error; err != nil {
		return nil, err
	}
	return &rc, nil
}

// GetRecipientByUserID retrieves a recipient profile by the owning user's ID
func (r *PostgresUserRepository) GetRecipientByUserID(userID uint) (*models.Recipient, error) {
	var rc models.Recipient
	if err := r.db.Preload("User").Where("user_id = ?", userID).First(&rc).Error; err != nil {
		return nil, err
	}
	return &rc, nil
}

// ListRecipients retrieves all recipient profiles
func (r *PostgresUserRepository) ListRecipients() ([]models.Recipient, error) {
	var rcs []models.Recipient
	if err := r.db.Preload("User").Find(&rcs).Error; err != nil {
		return nil, err
	}
	return rcs, nil
}

// SearchRecipients searches recipient profiles by the owning user's name (case-insensitive)
func (r *PostgresUserRepository) SearchRecipients(query string) ([]models.Recipient, error) {
	var rcs []models.Recipient
	err := r.db.Preload("User").
		Joins("JOIN users ON users.id = recipients.user_id").
		Where("LOWER(users.name) LIKE LOWER(?)", "%"+query+"%").
		Find(&rcs).Error
	if err != nil {
		return nil, err
	}
	return rcs, nil
}

// UpdateRecipient updates an existing recipient profile in PostgreSQL
func (r *PostgresUserRepository) UpdateRecipient(recipient *models.Recipient) error {
	return r.db.Save(recipient).Error
}
