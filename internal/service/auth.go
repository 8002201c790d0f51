package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/buildline/rfitrack/internal/model"
	"github.com/buildline/rfitrack/internal/repository"
	"github.com/buildline/rfitrack/internal/validation"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Claims identify the staff user behind an API bearer token.
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type AuthService struct {
	userRepository repository.UserRepository
	jwtSecret      string
	jwtExpiry      time.Duration
}

func NewAuthService(userRepository repository.UserRepository, jwtSecret string, jwtExpiry time.Duration) *AuthService {
	return &AuthService{
		userRepository: userRepository,
		jwtSecret:      jwtSecret,
		jwtExpiry:      jwtExpiry,
	}
}

// Login checks a password login. Unknown, archived and passwordless users
// all get ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.userRepository.ByEmail(ctx, validation.NormalizeEmail(email))
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !user.IsAvailable() || !user.HasPassword() {
		return nil, ErrInvalidCredentials
	}

	err = s.ComparePassword(password, *user.PasswordHash)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// CreateUser adds an active staff user with a password login.
func (s *AuthService) CreateUser(ctx context.Context, email, name, password, role string) (*model.User, error) {
	email = validation.NormalizeEmail(email)
	if err := validation.ValidateEmail(email); err != nil {
		return nil, invalidInput(err)
	}
	if err := validation.ValidateName(name); err != nil {
		return nil, invalidInput(err)
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, invalidInput(err)
	}
	switch role {
	case model.UserRoleAdmin, model.UserRoleManager, model.UserRoleStaff:
	default:
		return nil, invalidInput(fmt.Errorf("unknown role %q", role))
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Email:        email,
		Name:         name,
		PasswordHash: &hash,
		Role:         role,
		Active:       true,
	}
	err = s.userRepository.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *AuthService) ComparePassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func (s *AuthService) GenerateJWT(user *model.User) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.jwtExpiry)
	claims := Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (s *AuthService) VerifyJWT(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.UserID == "" {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// CurrentUser resolves verified claims to a user that may still act.
func (s *AuthService) CurrentUser(ctx context.Context, claims *Claims) (*model.User, error) {
	user, err := s.userRepository.ByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if !user.IsAvailable() {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
