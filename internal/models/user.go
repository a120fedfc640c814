package models

import (
	"github.com/golang-jwt/jwt/v4"
)

// UserRole distinguishes the two account types in the app.
type UserRole string

const (
	RoleCaregiver UserRole = "caregiver"
	RoleRecipient UserRole = "recipient"
)

// User is the login identity shared by both roles.
type User struct {
	ID           uint     `json:"id" gorm:"primaryKey"`
	Username     string   `json:"username" gorm:"uniqueIndex;not null"`
	PasswordHash string   `json:"-" gorm:"not null"`
	Name         string   `json:"name" gorm:"not null"`
	Role         UserRole `json:"role" gorm:"type:varchar(20);not null;index"`
	DeviceToken  string   `json:"-" gorm:"size:512"` // FCM registration token, empty when push is not set up
}

// Caregiver is the role-specific profile of a caregiver user.
type Caregiver struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	UserID uint `json:"userId" gorm:"uniqueIndex;not null"`
	User   User `json:"user" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignKey:UserID;references:ID"`
}

// Recipient is the role-specific profile of a care recipient user.
type Recipient struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	UserID uint `json:"userId" gorm:"uniqueIndex;not null"`
	User   User `json:"user" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignKey:UserID;references:ID"`

	Age       *int    `json:"age,omitempty"`
	Condition *string `json:"condition,omitempty" gorm:"type:text"`
	Likes     *string `json:"likes,omitempty" gorm:"type:text"`
	Dislikes  *string `json:"dislikes,omitempty" gorm:"type:text"`
	Phobias   *string `json:"phobias,omitempty" gorm:"type:text"`
	PetPeeves *string `json:"petPeeves,omitempty" gorm:"type:text"`
}

// SignupRequest defines the request body for registering a new account.
// The role-specific object must match the declared role.
type SignupRequest struct {
	Username string   `json:"username" validate:"required,min=3,max=50"`
	Password string   `json:"password" validate:"required,min=8"`
	Name     string   `json:"name" validate:"required"`
	Role     UserRole `json:"role" validate:"required,oneof=caregiver recipient"`

	Caregiver *struct{} `json:"caregiver,omitempty"`

	Recipient *struct {
		Age       *int    `json:"age,omitempty"`
		Condition *string `json:"condition,omitempty"`
		Likes     *string `json:"likes,omitempty"`
		Dislikes  *string `json:"dislikes,omitempty"`
		Phobias   *string `json:"phobias,omitempty"`
		PetPeeves *string `json:"petPeeves,omitempty"`
	} `json:"recipient,omitempty"`
}

// LoginRequest defines the request body for authenticating.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

// UserPublic is the view of a user returned to clients.
type UserPublic struct {
	ID       uint     `json:"id"`
	Username string   `json:"username"`
	Name     string   `json:"name"`
	Role     UserRole `json:"role"`
}

// LoginResponse is returned on successful login.
type LoginResponse struct {
	Token string     `json:"token"`
	User  UserPublic `json:"user"`
}

// UpdateRecipientRequest defines the request body for updating a recipient profile.
type UpdateRecipientRequest struct {
	Age       *int    `json:"age,omitempty"`
	Condition *string `json:"condition,omitempty"`
	Likes     *string `json:"likes,omitempty"`
	Dislikes  *string `json:"dislikes,omitempty"`
	Phobias   *string `json:"phobias,omitempty"`
	PetPeeves *string `json:"petPeeves,omitempty"`
}

// RegisterDeviceRequest defines the request body for saving an FCM token.
type RegisterDeviceRequest struct {
	DeviceToken string `json:"deviceToken" validate:"required"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint     `json:"user_id"`
	Role   UserRole `json:"role"`
	jwt.RegisteredClaims
}

// Public returns the client-facing view of u.
func (u *User) Public() UserPublic {
	return UserPublic{ID: u.ID, Username: u.Username, Name: u.Name, Role: u.Role}
}
