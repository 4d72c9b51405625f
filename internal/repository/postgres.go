package repository

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schemaSQL string

func NewPostgresStore(pool *pgxpool.Pool) *Store {
	return &Store{
		Users:      NewUserRepository(pool),
		Categories: NewCategoryRepository(pool),
		Products:   NewProductRepository(pool),
		Orders:     NewOrderRepository(pool),
	}
}

// Migrate applies the embedded schema. Every statement is idempotent.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
