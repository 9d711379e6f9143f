package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go-pos-inventory/internal/access"
	"go-pos-inventory/internal/apperror"
	"go-pos-inventory/internal/model"
	"go-pos-inventory/internal/repository"
	"go-pos-inventory/pkg/jwt"
	"go-pos-inventory/pkg/logger"
	"go-pos-inventory/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required,max=50"`
	Role     string `json:"role" validate:"omitempty,role"`
}

type LoginResponse struct {
	Token string             `json:"token"`
	User  model.UserResponse `json:"user"`
}

type AuthService interface {
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)
	Register(ctx context.Context, actor access.Identity, req *RegisterRequest) (*model.UserResponse, error)
	Me(ctx context.Context, actor access.Identity) (*model.UserResponse, error)
	ResetPassword(ctx context.Context, email, newPassword string) error
	EnsureAdmin(ctx context.Context, email, password string) (bool, error)
}

type authService struct {
	users repository.UserRepository
	jwt   *jwt.Manager
	log   *logger.Logger
}

func NewAuthService(users repository.UserRepository, jwtManager *jwt.Manager, log *logger.Logger) AuthService {
	return &authService{
		users: users,
		jwt:   jwtManager,
		log:   log.WithComponent("auth"),
	}
}

func invalidCredentials() *apperror.AppError {
	return apperror.NewUnauthenticated("Invalid email or password")
}

func (s *authService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, invalidCredentials()
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !user.CheckPassword(req.Password) {
		s.log.Warnw("login failed", "email", req.Email)
		return nil, invalidCredentials()
	}

	token, err := s.jwt.GenerateToken(user.ID.String(), user.Role)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	s.log.Infow("login", "user_id", user.ID, "role", user.Role)
	return &LoginResponse{Token: token, User: user.ToResponse()}, nil
}

func (s *authService) Register(ctx context.Context, actor access.Identity, req *RegisterRequest) (*model.UserResponse, error) {
	if !actor.IsAdmin() {
		return nil, apperror.NewForbidden("Only admins can register users")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	if err := validator.Validate(req); err != nil {
		return nil, err
	}
	if req.Role == "" {
		req.Role = access.RoleEmployee
	}

	if _, err := s.users.FindByEmail(ctx, req.Email); err == nil {
		return nil, apperror.NewConflict("Email already registered").WithDetail("email", req.Email)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find user: %w", err)
	}

	user := &model.User{Email: req.Email, Name: req.Name, Role: req.Role}
	user.CreatedBy = actor.UserID
	user.UpdatedBy = actor.UserID
	if err := user.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.NewConflict("Email already registered").WithDetail("email", req.Email)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	access.Log(ctx, s.log).Infow("user registered", "new_user_id", user.ID, "new_user_role", user.Role)
	resp := user.ToResponse()
	return &resp, nil
}

func (s *authService) Me(ctx context.Context, actor access.Identity) (*model.UserResponse, error) {
	id, err := uuid.Parse(actor.UserID)
	if err != nil {
		return nil, apperror.NewNotFound("user", actor.UserID)
	}
	user, err := s.users.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NewNotFound("user", actor.UserID)
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	resp := user.ToResponse()
	return &resp, nil
}

// ResetPassword overwrites the password of the account with email.
func (s *authService) ResetPassword(ctx context.Context, email, newPassword string) error {
	if len(newPassword) < 6 {
		return apperror.NewValidation("password must be at least 6 characters")
	}
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NewNotFound("user", email)
	}
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}
	if err := user.SetPassword(newPassword); err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, user.Password); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	s.log.Infow("password reset", "user_id", user.ID)
	return nil
}

// EnsureAdmin creates the initial admin account unless the email is taken.
// It reports whether an account was created.
func (s *authService) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	_, err := s.users.FindByEmail(ctx, strings.ToLower(email))
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("find admin: %w", err)
	}

	_, err = s.Register(ctx, access.System, &RegisterRequest{
		Email:    email,
		Password: password,
		Name:     "Administrator",
		Role:     access.RoleAdmin,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
