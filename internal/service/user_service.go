package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go-inventory-history/internal/model"
	"go-inventory-history/internal/repository"

	"github.com/google/uuid"
)

type UserService interface {
	CreateUser(ctx context.Context, req *CreateUserRequest) (*model.User, error)
	GetAllUsers(ctx context.Context) ([]model.UserResponse, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*model.UserResponse, error)
	SetUserActive(ctx context.Context, id uuid.UUID, active bool, actor Actor) (*model.UserResponse, error)
}

type CreateUserRequest struct {
	Username string `json:"username" validate:"required,notblank,min=3,max=100"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"max=255"`
	Role     string `json:"role" validate:"omitempty,oneof=admin user"`
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) CreateUser(ctx context.Context, req *CreateUserRequest) (*model.User, error) {
	// 1. Validate request
	if err := validate(req); err != nil {
		return nil, err
	}

	// 2. Check if username already exists
	username := strings.TrimSpace(req.Username)
	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		return nil, ErrDuplicateUsername
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	// 3. Build user; new accounts are active plain users unless stated
	user := &model.User{
		Username: username,
		Name:     strings.TrimSpace(req.Name),
		Role:     req.Role,
		IsActive: true,
	}
	if user.Role == "" {
		user.Role = model.RoleUser
	}
	if req.Email != "" {
		email := req.Email
		user.Email = &email
	}

	// 4. Set password
	if err := user.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// 5. Save to database
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) GetAllUsers(ctx context.Context) ([]model.UserResponse, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]model.UserResponse, len(users))
	for i := range users {
		responses[i] = users[i].ToResponse()
	}
	return responses, nil
}

func (s *userService) GetUserByID(ctx context.Context, id uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := user.ToResponse()
	return &response, nil
}

// SetUserActive toggles an account. Admins cannot deactivate themselves.
func (s *userService) SetUserActive(ctx context.Context, id uuid.UUID, active bool, actor Actor) (*model.UserResponse, error) {
	if !active && id.String() == actor.ID {
		return nil, invalidField("isActive", "self", "you cannot deactivate your own account")
	}
	if err := s.userRepo.SetActive(ctx, id, active); err != nil {
		return nil, err
	}
	return s.GetUserByID(ctx, id)
}
