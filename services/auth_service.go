// services/auth_service.go
package services

import (
	"errors"
	"strings"
	"time"

	"frontdesk-backend/models"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService verifies staff credentials and issues JWTs carrying the
// caller's role. The rest of the app only consumes the verified
// identity+role from the middleware.
type AuthService struct {
	DB       *gorm.DB
	Secret   []byte
	TokenTTL time.Duration
}

func NewAuthService(db *gorm.DB, secret string, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &AuthService{DB: db, Secret: []byte(secret), TokenTTL: ttl}
}

var ErrInvalidCredentials = errors.New("invalid_credentials")

// Claims is what a staff token carries.
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Login checks the bcrypt hash and returns a signed token plus the user.
func (s *AuthService) Login(username, password string) (string, *models.StaffUser, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", nil, ErrInvalidCredentials
	}

	var user models.StaffUser
	if err := s.DB.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.issueToken(&user)
	if err != nil {
		return "", nil, err
	}
	return token, &user, nil
}

func (s *AuthService) issueToken(user *models.StaffUser) (string, error) {
	now := time.Now()
	claims := Claims{
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strings.TrimSpace(user.Username),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.TokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
}

// ParseToken validates signature and expiry and returns the claims.
func (s *AuthService) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.Secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidCredentials
	}
	return claims, nil
}

// CreateStaff registers an operator account. Role defaults to staff.
func (s *AuthService) CreateStaff(fullName, username, password, role string) (*models.StaffUser, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, validationErr("username", "username is required")
	}
	if len(password) < 6 {
		return nil, validationErr("password", "password must be at least 6 characters")
	}
	switch role {
	case "":
		role = models.RoleStaff
	case models.RoleAdmin, models.RoleManager, models.RoleStaff:
	default:
		return nil, validationErr("role", "unknown role")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.StaffUser{
		FullName: fullName,
		Username: username,
		Password: string(hash),
		Role:     role,
	}
	if err := s.DB.Create(&user).Error; err != nil {
		if isDuplicateErr(err) {
			return nil, ErrDuplicateEntry
		}
		return nil, err
	}
	return &user, nil
}
