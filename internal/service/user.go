package service

import (
	"context"
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
	ErrUserNotFound      = apperror.NotFound("user not found")
	ErrWrongPassword     = apperror.Validation("current password is incorrect")
	ErrEmptyProfileName  = apperror.Validation("name cannot be empty")
	ErrNewPasswordLength = apperror.Validation(fmt.Sprintf("new password must be at least %d characters", auth.MinPasswordLength))
)

// UserService backs the self-service profile endpoints shared by users and admins.
type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) Profile(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	user, err := s.get(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, req dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, err := s.get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrEmptyProfileName
		}
		user.Name = name
	}
	if req.Phone != nil {
		user.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Address != nil {
		user.Address = model.Address{
			Street:  strings.TrimSpace(req.Address.Street),
			City:    strings.TrimSpace(req.Address.City),
			State:   strings.TrimSpace(req.Address.State),
			ZipCode: strings.TrimSpace(req.Address.ZipCode),
		}
	}

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

func (s *UserService) ChangePassword(ctx context.Context, userID uuid.UUID, req dto.ChangePasswordRequest) error {
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return ErrMissingFields
	}
	if len(req.NewPassword) < auth.MinPasswordLength {
		return ErrNewPasswordLength
	}

	user, err := s.get(ctx, userID)
	if err != nil {
		return err
	}
	ok, err := auth.CheckPassword(user.PasswordHash, req.CurrentPassword)
	if err != nil {
		return err
	}
	if !ok {
		return ErrWrongPassword
	}

	hashed, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, hashed); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func (s *UserService) get(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}
