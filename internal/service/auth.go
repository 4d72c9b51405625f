package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/gachwala/storefront/internal/apperror"
	"github.com/gachwala/storefront/internal/auth"
	"github.com/gachwala/storefront/internal/dto"
	"github.com/gachwala/storefront/internal/model"
	"github.com/gachwala/storefront/internal/repository"
)

var (
	ErrMissingFields      = apperror.Validation("please provide all required fields")
	ErrPasswordTooShort   = apperror.Validation(fmt.Sprintf("password must be at least %d characters", auth.MinPasswordLength))
	ErrUserAlreadyExists  = apperror.Conflict("user already exists")
	ErrInvalidCredentials = apperror.Auth("invalid credentials")
	ErrAccountGone        = apperror.Auth("user no longer exists")
	ErrNotAdmin           = apperror.Forbidden("access denied, admin only")
)

type AuthService struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenManager
}

func NewAuthService(userRepo repository.UserRepository, tokens *auth.TokenManager) *AuthService {
	return &AuthService{userRepo: userRepo, tokens: tokens}
}

func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	user, err := createAccount(ctx, s.userRepo, req.Name, req.Email, req.Password, model.RoleUser)
	if err != nil {
		return nil, err
	}
	return s.authResponse(user)
}

func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	return s.authResponse(user)
}

// AdminLogin authenticates like Login and additionally requires an admin role.
func (s *AuthService) AdminLogin(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	if !auth.IsAdmin(user.Role) {
		return nil, ErrNotAdmin
	}
	return s.authResponse(user)
}

// Me returns the account behind an already verified token.
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, ErrAccountGone
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

func (s *AuthService) authenticate(ctx context.Context, email, password string) (*model.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	ok, err := auth.CheckPassword(user.PasswordHash, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *AuthService) authResponse(user *model.User) (*dto.AuthResponse, error) {
	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &dto.AuthResponse{Token: token, User: dto.NewUserResponse(user)}, nil
}

// createAccount validates, hashes and stores a new account with the given role.
func createAccount(ctx context.Context, users repository.UserRepository, name, email, password string, role model.Role) (*model.User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, ErrMissingFields
	}
	if len(password) < auth.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	existing, err := users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check user: %w", err)
	}
	if existing != nil {
		return nil, ErrUserAlreadyExists
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{Name: name, Email: email, PasswordHash: hashed, Role: role}
	if err := users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
