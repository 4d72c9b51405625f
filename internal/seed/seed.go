// Package seed replaces the catalog with the contents of JSON files.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/gachwala/storefront/internal/dto"
	"github.com/gachwala/storefront/internal/repository"
	"github.com/gachwala/storefront/internal/service"
)

type Catalog struct {
	Categories []dto.CreateCategoryRequest
	Products   []dto.CreateProductRequest
}

type Result struct {
	Categories int
	Products   int
}

type Importer struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
	categories   *service.CategoryService
	products     *service.ProductService
	log          *slog.Logger
}

func NewImporter(store *repository.Store, products *service.ProductService, log *slog.Logger) *Importer {
	if log == nil {
		log = slog.Default()
	}
	return &Importer{
		categoryRepo: store.Categories,
		productRepo:  store.Products,
		categories:   service.NewCategoryService(store.Categories, store.Products),
		products:     products,
		log:          log,
	}
}

// ReadFiles decodes a categories file and a products file, each a JSON array.
func ReadFiles(categoriesPath, productsPath string) (*Catalog, error) {
	var c Catalog
	if err := decodeFile(categoriesPath, &c.Categories); err != nil {
		return nil, err
	}
	if err := decodeFile(productsPath, &c.Products); err != nil {
		return nil, err
	}
	return &c, nil
}

func decodeFile(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return decode(f, path, v)
}

func decode(r io.Reader, name string, v any) error {
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

// Import drops every category and product and inserts the catalog. Orders
// keep their item snapshots. The product cache is flushed afterwards even
// when an insert fails half way.
func (i *Importer) Import(ctx context.Context, c *Catalog) (*Result, error) {
	defer i.products.InvalidateAll(ctx)

	if err := i.productRepo.DeleteAll(ctx); err != nil {
		return nil, fmt.Errorf("drop products: %w", err)
	}
	if err := i.categoryRepo.DeleteAll(ctx); err != nil {
		return nil, fmt.Errorf("drop categories: %w", err)
	}

	res := &Result{}
	for n, req := range c.Categories {
		if _, err := i.categories.Create(ctx, req); err != nil {
			return res, fmt.Errorf("category %d (%s): %w", n, req.CategoryID, err)
		}
		res.Categories++
	}
	i.log.InfoContext(ctx, "categories inserted", "count", res.Categories)

	for n, req := range c.Products {
		if _, err := i.products.Create(ctx, req); err != nil {
			return res, fmt.Errorf("product %d (%s): %w", n, req.Name, err)
		}
		res.Products++
	}
	i.log.InfoContext(ctx, "products inserted", "count", res.Products)

	return res, nil
}
