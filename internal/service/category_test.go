package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gachwala/storefront/internal/dto"
	"github.com/gachwala/storefront/internal/model"
)

func TestCategoryService_Create(t *testing.T) {
	svc := NewCategoryService(newMockCategoryRepo(), newMockProductRepo())
	ctx := context.Background()

	resp, err := svc.Create(ctx, dto.CreateCategoryRequest{CategoryID: " indoor ", Name: "Indoor"})
	require.NoError(t, err)
	assert.Equal(t, "indoor", resp.CategoryID)

	_, err = svc.Create(ctx, dto.CreateCategoryRequest{CategoryID: "indoor", Name: "Again"})
	assert.ErrorIs(t, err, ErrCategoryExists)

	_, err = svc.Create(ctx, dto.CreateCategoryRequest{Name: "No id"})
	assert.ErrorIs(t, err, ErrCategoryFields)
}

func TestCategoryService_Delete_RejectsReferencedCategory(t *testing.T) {
	categories, products := newMockCategoryRepo(), newMockProductRepo()
	svc := NewCategoryService(categories, products)
	ctx := context.Background()

	created, err := svc.Create(ctx, dto.CreateCategoryRequest{CategoryID: "succulent", Name: "Succulents"})
	require.NoError(t, err)
	product := &model.Product{Name: "Aloe", CategoryID: "succulent", Price: decimal.NewFromInt(120)}
	require.NoError(t, products.Create(ctx, product))

	err = svc.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, ErrCategoryInUse)
	assert.Len(t, categories.categories, 1)

	require.NoError(t, products.Delete(ctx, product.ID))
	require.NoError(t, svc.Delete(ctx, created.ID))
	assert.Empty(t, categories.categories)
}

func TestCategoryService_Update(t *testing.T) {
	categories, products := newMockCategoryRepo(), newMockProductRepo()
	svc := NewCategoryService(categories, products)
	ctx := context.Background()

	created, err := svc.Create(ctx, dto.CreateCategoryRequest{CategoryID: "herb", Name: "Herbs"})
	require.NoError(t, err)

	name := "Kitchen Herbs"
	resp, err := svc.Update(ctx, created.ID, dto.UpdateCategoryRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Kitchen Herbs", resp.Name)
	assert.Equal(t, "herb", resp.CategoryID)

	require.NoError(t, products.Create(ctx, &model.Product{Name: "Basil", CategoryID: "herb"}))
	newID := "herbs"
	_, err = svc.Update(ctx, created.ID, dto.UpdateCategoryRequest{CategoryID: &newID})
	assert.ErrorIs(t, err, ErrCategoryInUse)

	_, err = svc.Update(ctx, uuid.New(), dto.UpdateCategoryRequest{Name: &name})
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}
