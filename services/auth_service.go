package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/americanbox/americanbox-api/logger"
	"github.com/americanbox/americanbox-api/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// RegisterInput creates a customer login, its profile and its first delivery address.
type RegisterInput struct {
	Username string `json:"username" binding:"required,min=3,max=100"`
	Password string `json:"password" binding:"required,min=6"`
	Names    string `json:"names" binding:"required"`
	Email    string `json:"email" binding:"omitempty,email"`
	DNI      string `json:"dni"`
	Mobile   string `json:"mobile"`
	Phone    string `json:"phone"`
	Address  string `json:"address" binding:"required"`
	City     string `json:"city"`

	// Admin-created customers only.
	PricePerLb *float64 `json:"price_per_lb,omitempty" binding:"omitempty,gt=0,lte=99999999.99"`
}

// AuthService registers users and checks credentials.
type AuthService struct {
	db *gorm.DB
}

// NewAuthService creates an auth service on db.
func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{db: db}
}

// HashPassword hashes a plain password with bcrypt.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Register creates customer, user and address together. Every registered user
// therefore owns at least one address.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	username := strings.ToLower(strings.TrimSpace(input.Username))
	if username == "" {
		return nil, newError(http.StatusBadRequest, "VALIDATION_ERROR", "Username is required")
	}
	if strings.TrimSpace(input.Address) == "" {
		return nil, ErrAddressRequired
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	var user models.User
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taken int64
		if err := tx.Unscoped().Model(&models.User{}).Where("username = ?", username).Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			return ErrUsernameExists
		}

		customer := models.Customer{
			Names:   strings.TrimSpace(input.Names),
			Email:   strings.TrimSpace(input.Email),
			DNI:     strings.TrimSpace(input.DNI),
			Mobile:  strings.TrimSpace(input.Mobile),
			Phone:   strings.TrimSpace(input.Phone),
			Address: strings.TrimSpace(input.Address),
		}
		if input.PricePerLb != nil {
			price := RoundMoney(*input.PricePerLb)
			customer.PricePerLb = &price
		}
		if err := tx.Create(&customer).Error; err != nil {
			return err
		}

		user = models.User{
			Username:     username,
			PasswordHash: hash,
			Role:         models.RoleCustomer,
			CustomerID:   &customer.ID,
		}
		if err := tx.Create(&user).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrUsernameExists
			}
			return err
		}

		return tx.Create(&models.Address{
			UserID:  user.ID,
			Address: customer.Address,
			City:    strings.TrimSpace(input.City),
		}).Error
	})
	if err != nil {
		if _, ok := AsAppError(err); ok {
			return nil, err
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	logger.Log.WithFields(logrus.Fields{"user_id": user.ID, "username": user.Username}).Info("user registered")
	return s.GetUser(ctx, user.ID)
}

// CreateAdmin creates a back-office user without customer profile.
func (s *AuthService) CreateAdmin(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || len(password) < 6 {
		return nil, newError(http.StatusBadRequest, "VALIDATION_ERROR", "Username and a password of at least 6 characters are required")
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username:     username,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		IsAdmin:      true,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrUsernameExists
		}
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}
	return &user, nil
}

// Authenticate checks username and password.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Where("username = ?", strings.ToLower(strings.TrimSpace(username))).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidLogin
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidLogin
	}
	return &user, nil
}

// ChangePassword replaces the password after checking the current one.
func (s *AuthService) ChangePassword(ctx context.Context, userID uint, current, next string) error {
	if len(next) < 6 {
		return newError(http.StatusBadRequest, "VALIDATION_ERROR", "The new password must have at least 6 characters")
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return ErrInvalidLogin
	}

	hash, err := HashPassword(next)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Model(&user).Update("password_hash", hash).Error
}

// GetUser loads a user with customer profile and addresses.
func (s *AuthService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Preload("Customer").Preload("Addresses").First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}
