package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go-inventory-history/internal/config"
	"go-inventory-history/internal/model"
	"go-inventory-history/internal/repository"
	"go-inventory-history/pkg/jwt"
	"go-inventory-history/pkg/logger"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

type LoginRequest struct {
	Username string `json:"username" validate:"required,notblank"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string             `json:"token"`
	ExpiresAt time.Time          `json:"expiresAt"`
	User      model.UserResponse `json:"user"`
}

type AuthService interface {
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)
	Authenticate(ctx context.Context, token string) (*model.User, error)
	EnsureAdmin(ctx context.Context, admin config.AdminConfig) (bool, error)
	ResetPassword(ctx context.Context, username, newPassword string) error
	SetActive(ctx context.Context, username string, active bool) error
}

type authService struct {
	userRepo repository.UserRepository
	tokens   *jwt.Manager
	logger   zerolog.Logger
}

func NewAuthService(userRepo repository.UserRepository, tokens *jwt.Manager) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger.Component("auth"),
	}
}

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// burnCompare spends the same bcrypt work as a real check so unknown
// usernames cannot be told apart by response time.
func burnCompare(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}

func (s *authService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	// 1. Find user by username
	user, err := s.userRepo.FindByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			burnCompare(req.Password)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// 2. Verify password before revealing account state
	if !user.CheckPassword(req.Password) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	// 3. Issue session token
	token, err := s.tokens.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	s.logger.Info().Str("username", user.Username).Msg("User logged in")
	return &LoginResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(s.tokens.TTL()).UTC(),
		User:      user.ToResponse(),
	}, nil
}

// Authenticate resolves a session token to a still-active user.
func (s *authService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: user no longer exists", ErrUnauthorized)
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	return user, nil
}

// EnsureAdmin creates the configured admin account unless the username is
// already taken. It reports whether a user was created.
func (s *authService) EnsureAdmin(ctx context.Context, admin config.AdminConfig) (bool, error) {
	if admin.Username == "" || admin.Password == "" {
		s.logger.Warn().Msg("Admin credentials not configured, skipping admin setup")
		return false, nil
	}

	_, err := s.userRepo.FindByUsername(ctx, admin.Username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return false, err
	}

	user := &model.User{
		Username: admin.Username,
		Name:     admin.Name,
		Role:     model.RoleAdmin,
		IsActive: true,
	}
	if admin.Email != "" {
		email := admin.Email
		user.Email = &email
	}
	if err := user.SetPassword(admin.Password); err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return false, err
	}

	s.logger.Info().Str("username", user.Username).Msg("Admin user created")
	return true, nil
}

func (s *authService) ResetPassword(ctx context.Context, username, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return invalidField("password", "min", fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return err
	}
	if err := user.SetPassword(newPassword); err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.userRepo.UpdatePassword(ctx, user.ID, user.Password)
}

func (s *authService) SetActive(ctx context.Context, username string, active bool) error {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return err
	}
	return s.userRepo.SetActive(ctx, user.ID, active)
}
