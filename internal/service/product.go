package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/gachwala/storefront/internal/apperror"
	"github.com/gachwala/storefront/internal/dto"
	"github.com/gachwala/storefront/internal/model"
	"github.com/gachwala/storefront/internal/repository"
)

var (
	ErrProductNotFound = apperror.NotFound("product not found")
	ErrProductName     = apperror.Validation("product name is required")
	ErrProductPriceReq = apperror.Validation("product price is required")
	ErrProductPrice    = apperror.Validation("price must be zero or greater")
	ErrProductStock    = apperror.Validation("stock must be zero or greater")
	ErrProductRating   = apperror.Validation("rating must be between 0 and 5")
)

const (
	productCacheTTL     = 60 * time.Second
	productListCacheKey = "products:all"
	maxRating           = 5
)

type ProductService struct {
	productRepo repository.ProductRepository
	redisClient *redis.Client
}

// NewProductService returns a product service. A nil redisClient disables caching.
func NewProductService(productRepo repository.ProductRepository, redisClient *redis.Client) *ProductService {
	return &ProductService{productRepo: productRepo, redisClient: redisClient}
}

func (s *ProductService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if req.Price == nil {
		return nil, ErrProductPriceReq
	}
	product := &model.Product{
		Name:       strings.TrimSpace(req.Name),
		Info:       req.Info,
		Image:      req.Image,
		CategoryID: strings.TrimSpace(req.CategoryID),
		Price:      *req.Price,
		Stock:      req.Stock,
		Rating:     req.Rating,
		Sale:       req.Sale,
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.invalidateCache(ctx, uuid.Nil)
	resp := dto.NewProductResponse(product)
	return &resp, nil
}

func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	cacheKey := productCacheKey(id)

	var cached dto.ProductResponse
	if s.cacheGet(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	resp := dto.NewProductResponse(product)
	s.cacheSet(ctx, cacheKey, resp)
	return &resp, nil
}

// List returns every product, or only those of one category when
// categoryID is set. Only the unfiltered listing is cached.
func (s *ProductService) List(ctx context.Context, req dto.ListProductsRequest) ([]dto.ProductResponse, error) {
	categoryID := strings.TrimSpace(req.CategoryID)
	if categoryID == "" {
		var cached []dto.ProductResponse
		if s.cacheGet(ctx, productListCacheKey, &cached) {
			return cached, nil
		}
	}

	products, err := s.productRepo.List(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	items := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, dto.NewProductResponse(&products[i]))
	}
	if categoryID == "" {
		s.cacheSet(ctx, productListCacheKey, items)
	}
	return items, nil
}

func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	if req.Name != nil {
		product.Name = strings.TrimSpace(*req.Name)
	}
	if req.Info != nil {
		product.Info = *req.Info
	}
	if req.Image != nil {
		product.Image = *req.Image
	}
	if req.CategoryID != nil {
		product.CategoryID = strings.TrimSpace(*req.CategoryID)
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.Rating != nil {
		product.Rating = *req.Rating
	}
	if req.Sale != nil {
		product.Sale = *req.Sale
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("update product: %w", err)
	}

	s.invalidateCache(ctx, id)
	resp := dto.NewProductResponse(product)
	return &resp, nil
}

func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("delete product: %w", err)
	}
	s.invalidateCache(ctx, id)
	return nil
}

// InvalidateAll drops every cached listing, used after bulk catalog imports.
func (s *ProductService) InvalidateAll(ctx context.Context) {
	if s.redisClient == nil {
		return
	}
	iter := s.redisClient.Scan(ctx, 0, "product:*", 100).Iterator()
	for iter.Next(ctx) {
		s.redisClient.Del(ctx, iter.Val())
	}
	s.redisClient.Del(ctx, productListCacheKey)
}

func validateProduct(p *model.Product) error {
	switch {
	case p.Name == "":
		return ErrProductName
	case p.Price.LessThan(decimal.Zero):
		return ErrProductPrice
	case p.Stock < 0:
		return ErrProductStock
	case p.Rating < 0 || p.Rating > maxRating:
		return ErrProductRating
	}
	return nil
}

func productCacheKey(id uuid.UUID) string {
	return "product:" + id.String()
}

func (s *ProductService) cacheGet(ctx context.Context, key string, dst any) bool {
	if s.redisClient == nil {
		return false
	}
	cached, err := s.redisClient.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(cached), dst) == nil
}

func (s *ProductService) cacheSet(ctx context.Context, key string, v any) {
	if s.redisClient == nil {
		return
	}
	if data, err := json.Marshal(v); err == nil {
		s.redisClient.Set(ctx, key, data, productCacheTTL)
	}
}

// invalidateCache drops the listing and, when id is set, the product entry.
func (s *ProductService) invalidateCache(ctx context.Context, id uuid.UUID) {
	if s.redisClient == nil {
		return
	}
	keys := []string{productListCacheKey}
	if id != uuid.Nil {
		keys = append(keys, productCacheKey(id))
	}
	s.redisClient.Del(ctx, keys...)
}
