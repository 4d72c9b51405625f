package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gachwala/storefront/internal/dto"
	"github.com/gachwala/storefront/internal/model"
)

func TestProductService_Create(t *testing.T) {
	svc := NewProductService(newMockProductRepo(), nil)
	resp, err := svc.Create(context.Background(), dto.CreateProductRequest{
		Name: "Snake Plant", CategoryID: "indoor", Price: decimalPtr(decimal.NewFromFloat(450.5)), Stock: 10, Rating: 4.5,
	})
	require.NoError(t, err)
	assert.Equal(t, "Snake Plant", resp.Name)
	assert.Equal(t, 10, resp.Stock)
	assert.Equal(t, "indoor", resp.CategoryID)
}

func TestProductService_Create_Bounds(t *testing.T) {
	svc := NewProductService(newMockProductRepo(), nil)
	tests := []struct {
		name    string
		req     dto.CreateProductRequest
		wantErr error
	}{
		{"missing name", dto.CreateProductRequest{Price: decimalPtr(decimal.NewFromInt(1))}, ErrProductName},
		{"missing price", dto.CreateProductRequest{Name: "x", Stock: 3}, ErrProductPriceReq},
		{"negative price", dto.CreateProductRequest{Name: "x", Price: decimalPtr(decimal.NewFromInt(-1))}, ErrProductPrice},
		{"negative stock", dto.CreateProductRequest{Name: "x", Price: decimalPtr(decimal.Zero), Stock: -1}, ErrProductStock},
		{"rating above five", dto.CreateProductRequest{Name: "x", Price: decimalPtr(decimal.Zero), Rating: 5.5}, ErrProductRating},
		{"negative rating", dto.CreateProductRequest{Name: "x", Price: decimalPtr(decimal.Zero), Rating: -0.1}, ErrProductRating},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestProductService_Create_FreeProductAllowed(t *testing.T) {
	svc := NewProductService(newMockProductRepo(), nil)
	resp, err := svc.Create(context.Background(), dto.CreateProductRequest{Name: "Seedling", Price: decimalPtr(decimal.Zero)})
	require.NoError(t, err)
	assert.True(t, resp.Price.IsZero())
}

func TestProductService_GetByID_NotFound(t *testing.T) {
	svc := NewProductService(newMockProductRepo(), nil)
	_, err := svc.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_List_FiltersByCategory(t *testing.T) {
	repo := newMockProductRepo()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &model.Product{Name: "Fern", CategoryID: "indoor"}))
	require.NoError(t, repo.Create(ctx, &model.Product{Name: "Rose", CategoryID: "outdoor"}))
	svc := NewProductService(repo, nil)

	all, err := svc.List(ctx, dto.ListProductsRequest{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	indoor, err := svc.List(ctx, dto.ListProductsRequest{CategoryID: "indoor"})
	require.NoError(t, err)
	require.Len(t, indoor, 1)
	assert.Equal(t, "Fern", indoor[0].Name)
}

func TestProductService_Update(t *testing.T) {
	repo := newMockProductRepo()
	id := uuid.New()
	repo.products[id] = &model.Product{ID: id, Name: "Fern", Price: decimal.NewFromInt(100), Stock: 4}
	svc := NewProductService(repo, nil)

	stock, sale := 7, true
	resp, err := svc.Update(context.Background(), id, dto.UpdateProductRequest{Stock: &stock, Sale: &sale})
	require.NoError(t, err)
	assert.Equal(t, 7, resp.Stock)
	assert.True(t, resp.Sale)
	assert.Equal(t, "Fern", resp.Name)

	bad := -3
	_, err = svc.Update(context.Background(), id, dto.UpdateProductRequest{Stock: &bad})
	assert.ErrorIs(t, err, ErrProductStock)
	assert.Equal(t, 7, repo.products[id].Stock)
}

func TestProductService_Delete(t *testing.T) {
	repo := newMockProductRepo()
	id := uuid.New()
	repo.products[id] = &model.Product{ID: id}
	svc := NewProductService(repo, nil)

	require.NoError(t, svc.Delete(context.Background(), id))
	assert.Empty(t, repo.products)
	assert.ErrorIs(t, svc.Delete(context.Background(), id), ErrProductNotFound)
}

func TestProductService_UnreachableCacheDoesNotFailRequests(t *testing.T) {
	ctx := context.Background()
	down := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 100 * time.Millisecond})
	t.Cleanup(func() { _ = down.Close() })
	svc := NewProductService(newMockProductRepo(), down)

	created, err := svc.Create(ctx, dto.CreateProductRequest{Name: "Fern", Price: decimalPtr(decimal.NewFromInt(100))})
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fern", got.Name)

	all, err := svc.List(ctx, dto.ListProductsRequest{})
	require.NoError(t, err)
	assert.Len(t, all, 1)

	stock := 2
	_, err = svc.Update(ctx, created.ID, dto.UpdateProductRequest{Stock: &stock})
	require.NoError(t, err)

	svc.InvalidateAll(ctx)
	require.NoError(t, svc.Delete(ctx, created.ID))
}

func decimalPtr(d decimal.Decimal) *decimal.Decimal { return &d }
