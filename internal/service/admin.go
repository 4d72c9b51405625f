package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/gachwala/storefront/internal/apperror"
	"github.com/gachwala/storefront/internal/dto"
	"github.com/gachwala/storefront/internal/model"
	"github.com/gachwala/storefront/internal/repository"
)

var (
	ErrAdminNotFound        = apperror.NotFound("admin not found")
	ErrMasterAdminProtected = apperror.Forbidden("cannot delete master admin")
	ErrMasterAdminExists    = apperror.Conflict("a master admin already exists")
)

// AdminService manages admin accounts. Authorization is enforced by the router.
type AdminService struct {
	userRepo repository.UserRepository
}

func NewAdminService(userRepo repository.UserRepository) *AdminService {
	return &AdminService{userRepo: userRepo}
}

func (s *AdminService) List(ctx context.Context) ([]dto.UserResponse, error) {
	admins, err := s.userRepo.ListByRoles(ctx, model.RoleAdmin, model.RoleMasterAdmin)
	if err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	out := make([]dto.UserResponse, 0, len(admins))
	for i := range admins {
		out = append(out, dto.NewUserResponse(&admins[i]))
	}
	return out, nil
}

func (s *AdminService) Create(ctx context.Context, req dto.CreateAdminRequest) (*dto.UserResponse, error) {
	user, err := createAccount(ctx, s.userRepo, req.Name, req.Email, req.Password, model.RoleAdmin)
	if err != nil {
		return nil, err
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// CreateMasterAdmin bootstraps the single master admin account.
func (s *AdminService) CreateMasterAdmin(ctx context.Context, req dto.CreateAdminRequest) (*dto.UserResponse, error) {
	existing, err := s.userRepo.ListByRoles(ctx, model.RoleMasterAdmin)
	if err != nil {
		return nil, fmt.Errorf("list master admins: %w", err)
	}
	if len(existing) > 0 {
		return nil, ErrMasterAdminExists
	}

	user, err := createAccount(ctx, s.userRepo, req.Name, req.Email, req.Password, model.RoleMasterAdmin)
	if err != nil {
		return nil, err
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// Delete removes an admin-role account. Ordinary users are reported as not
// found and the master admin can never be removed.
func (s *AdminService) Delete(ctx context.Context, id uuid.UUID) error {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get admin: %w", err)
	}
	if user == nil {
		return ErrAdminNotFound
	}
	switch user.Role {
	case model.RoleMasterAdmin:
		return ErrMasterAdminProtected
	case model.RoleAdmin:
	default:
		return ErrAdminNotFound
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAdminNotFound
		}
		return fmt.Errorf("delete admin: %w", err)
	}
	return nil
}
