package handlers

import (
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/carelink-app/backend/internal/models"
	"github.com/carelink-app/backend/internal/repositories"
)

// AuthHandler handles signup and login.
type AuthHandler struct {
	userRepository repositories.UserRepository
	jwtSecret      string
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userRepo repositories.UserRepository) *AuthHandler {
	return &AuthHandler{
		userRepository: userRepo,
		jwtSecret:      os.Getenv("JWT_SECRET"),
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/signup", h.Signup)
	g.POST("/login", h.Login)
}

// Signup registers a new account plus its role-specific profile in one
// transaction. The role-specific object must match the declared role.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req models.SignupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	switch req.Role {
	case models.RoleCaregiver:
		if req.Caregiver == nil {
			return echo.NewHTTPError(http.StatusBadRequest, "caregiver object is required when role is caregiver")
		}
		if req.Recipient != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "recipient object must not be provided when role is caregiver")
		}
	case models.RoleRecipient:
		if req.Recipient == nil {
			return echo.NewHTTPError(http.StatusBadRequest, "recipient object is required when role is recipient")
		}
		if req.Caregiver != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "caregiver object must not be provided when role is recipient")
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
	}

	user := &models.User{
		Username:     strings.ToLower(strings.TrimSpace(req.Username)),
		PasswordHash: string(hashedPassword),
		Name:         req.Name,
		Role:         req.Role,
	}

	var recipient *models.Recipient
	if req.Role == models.RoleRecipient {
		recipient = &models.Recipient{
			Age:       req.Recipient.Age,
			Condition: req.Recipient.Condition,
			Likes:     req.Recipient.Likes,
			Dislikes:  req.Recipient.Dislikes,
			Phobias:   req.Recipient.Phobias,
			PetPeeves: req.Recipient.PetPeeves,
		}
	}

	if err := h.userRepository.CreateUserWithProfile(user, recipient); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return echo.NewHTTPError(http.StatusConflict, "username already exists")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, user.Public())
}

// Login authenticates with username and password and returns a JWT.
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	username := strings.ToLower(strings.TrimSpace(req.Username))

	user, err := h.userRepository.GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid username or password")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid username or password")
	}

	token, err := h.generateJWT(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not sign token")
	}

	return c.JSON(http.StatusOK, models.LoginResponse{
		Token: token,
		User:  user.Public(),
	})
}

// generateJWT generates a JWT token for a given user
func (h *AuthHandler) generateJWT(user *models.User) (string, error) {
	if h.jwtSecret == "" {
		return "", errors.New("JWT_SECRET is not set")
	}

	claims := &models.JwtCustomClaims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(7 * 24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.jwtSecret))
}
