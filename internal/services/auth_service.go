package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/obstacle-registry/internal/config"
	"github.com/ahmetcoskunkizilkaya/obstacle-registry/internal/dto"
	"github.com/ahmetcoskunkizilkaya/obstacle-registry/internal/models"
	"github.com/ccojocar/zxcvbn-go"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username, email or password")
	ErrInvalidToken       = errors.New("invalid or expired refresh token")
	ErrInvalidSignup      = errors.New("username and email required and password must be at least 8 characters")
	ErrWeakPassword       = errors.New("password is too easy to guess")
)

type AuthService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{db: db, cfg: cfg}
}

// Register creates a pilot account. Registrars and admins are provisioned
// out of band.
func (s *AuthService) Register(req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if username == "" || email == "" || len(req.Password) < 8 {
		return nil, ErrInvalidSignup
	}
	if err := checkPasswordStrength(req.Password, username, email); err != nil {
		return nil, err
	}

	var existing models.User
	if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	}
	if err := s.db.Where("username = ?", username).First(&existing).Error; err == nil {
		return nil, ErrUsernameTaken
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		ID:       uuid.New(),
		Username: username,
		Email:    email,
		Password: hash,
		Role:     models.RolePilot,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.generateTokenPair(&user)
}

// minPasswordScore is the lowest accepted zxcvbn score (0-4).
const minPasswordScore = 2

func checkPasswordStrength(password string, inputs ...string) error {
	if score := zxcvbn.PasswordStrength(password, inputs).Score; score < minPasswordScore {
		return fmt.Errorf("%w: score %d, need at least %d", ErrWeakPassword, score, minPasswordScore)
	}
	return nil
}

// Login accepts a username or an email address.
func (s *AuthService) Login(req *dto.LoginRequest) (*dto.AuthResponse, error) {
	login := strings.TrimSpace(req.Login)

	var user models.User
	if err := s.db.Where("username = ? OR email = ?", login, strings.ToLower(login)).First(&user).Error; err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.generateTokenPair(&user)
}

// Refresh exchanges a refresh token for a new pair. The old token is
// revoked in the same transaction so a replayed token fails.
func (s *AuthService) Refresh(req *dto.RefreshRequest) (*dto.AuthResponse, error) {
	now := time.Now()
	var resp *dto.AuthResponse

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var stored models.RefreshToken
		if err := tx.Where("token_hash = ?", hashToken(req.RefreshToken)).First(&stored).Error; err != nil {
			return ErrInvalidToken
		}
		if !stored.Usable(now) {
			return ErrInvalidToken
		}
		if err := tx.Model(&stored).Update("revoked_at", now).Error; err != nil {
			return fmt.Errorf("failed to revoke refresh token: %w", err)
		}

		var user models.User
		if err := tx.First(&user, "id = ?", stored.UserID).Error; err != nil {
			return fmt.Errorf("user not found: %w", err)
		}

		var err error
		resp, err = s.issueTokenPair(tx, &user)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Logout revokes the token. Unknown or already revoked tokens are not an error.
func (s *AuthService) Logout(req *dto.LogoutRequest) error {
	return s.db.Model(&models.RefreshToken{}).
		Where("token_hash = ? AND revoked_at IS NULL", hashToken(req.RefreshToken)).
		Update("revoked_at", time.Now()).Error
}

// HashPassword returns the bcrypt hash stored in users.password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func (s *AuthService) generateTokenPair(user *models.User) (*dto.AuthResponse, error) {
	return s.issueTokenPair(s.db, user)
}

func (s *AuthService) issueTokenPair(db *gorm.DB, user *models.User) (*dto.AuthResponse, error) {
	accessToken, err := SignAccessToken(s.cfg.JWTSecret, user, s.cfg.JWTAccessExpiry)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.generateRefreshToken(db, user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User: dto.UserResponse{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
			Role:     user.Role,
		},
	}, nil
}

// SignAccessToken issues an HS256 token carrying the "sub" and "role" claims
// that actor.FromClaims reads back.
func SignAccessToken(secret string, user *models.User, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      user.ID.String(),
		"username": user.Username,
		"role":     string(user.Role),
		"iat":      now.Unix(),
		"exp":      now.Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func (s *AuthService) generateRefreshToken(db *gorm.DB, user *models.User) (string, error) {
	rawBytes := make([]byte, 32)
	if _, err := rand.Read(rawBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	rawToken := base64.URLEncoding.EncodeToString(rawBytes)

	record := models.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: hashToken(rawToken),
		ExpiresAt: time.Now().Add(s.cfg.JWTRefreshExpiry),
	}
	if err := db.Create(&record).Error; err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return rawToken, nil
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h)
}
