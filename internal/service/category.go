package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/gachwala/storefront/internal/apperror"
	"github.com/gachwala/storefront/internal/dto"
	"github.com/gachwala/storefront/internal/model"
	"github.com/gachwala/storefront/internal/repository"
)

var (
	ErrCategoryNotFound = apperror.NotFound("category not found")
	ErrCategoryFields   = apperror.Validation("category_id and name are required")
	ErrCategoryExists   = apperror.Conflict("category_id already exists")
	ErrCategoryInUse    = apperror.Conflict("category still has products assigned")
)

type CategoryService struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository, productRepo repository.ProductRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo, productRepo: productRepo}
}

func (s *CategoryService) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	out := make([]dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		out = append(out, dto.NewCategoryResponse(&categories[i]))
	}
	return out, nil
}

func (s *CategoryService) GetByID(ctx context.Context, id uuid.UUID) (*dto.CategoryResponse, error) {
	category, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewCategoryResponse(category)
	return &resp, nil
}

func (s *CategoryService) Create(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	category := &model.Category{
		CategoryID: strings.TrimSpace(req.CategoryID),
		Name:       strings.TrimSpace(req.Name),
	}
	if category.CategoryID == "" || category.Name == "" {
		return nil, ErrCategoryFields
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrCategoryExists
		}
		return nil, fmt.Errorf("create category: %w", err)
	}
	resp := dto.NewCategoryResponse(category)
	return &resp, nil
}

// Update changes the given fields. Renaming category_id is refused while
// products still point at the old value.
func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	category, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrCategoryFields
		}
		category.Name = name
	}
	if req.CategoryID != nil {
		categoryID := strings.TrimSpace(*req.CategoryID)
		if categoryID == "" {
			return nil, ErrCategoryFields
		}
		if categoryID != category.CategoryID {
			if err := s.ensureUnused(ctx, category.CategoryID); err != nil {
				return nil, err
			}
			category.CategoryID = categoryID
		}
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrCategoryExists
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("update category: %w", err)
	}
	resp := dto.NewCategoryResponse(category)
	return &resp, nil
}

func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	category, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.ensureUnused(ctx, category.CategoryID); err != nil {
		return err
	}
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

func (s *CategoryService) ensureUnused(ctx context.Context, categoryID string) error {
	n, err := s.productRepo.CountByCategory(ctx, categoryID)
	if err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if n > 0 {
		return ErrCategoryInUse
	}
	return nil
}

func (s *CategoryService) get(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	return category, nil
}
