package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/gachwala/storefront/internal/config"
)

// Backend is an open connection to the configured store.
type Backend struct {
	Store  *Store
	Driver string

	pool  *pgxpool.Pool
	mongo *mongo.Client
	db    *mongo.Database
}

// Open connects to the store named by cfg.Store.Driver and pings it.
func Open(ctx context.Context, cfg *config.Config) (*Backend, error) {
	switch cfg.Store.Driver {
	case config.DriverMongo:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
		if err != nil {
			return nil, fmt.Errorf("connect to mongo: %w", err)
		}
		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			_ = client.Disconnect(ctx)
			return nil, fmt.Errorf("ping mongo: %w", err)
		}
		db := client.Database(cfg.Mongo.Database)
		return &Backend{Store: NewMongoStore(db), Driver: cfg.Store.Driver, mongo: client, db: db}, nil

	default:
		poolCfg, err := pgxpool.ParseConfig(cfg.DB.DSN())
		if err != nil {
			return nil, fmt.Errorf("parse db config: %w", err)
		}
		poolCfg.MaxConns = cfg.DB.MaxConns

		pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("ping database: %w", err)
		}
		return &Backend{Store: NewPostgresStore(pool), Driver: config.DriverPostgres, pool: pool}, nil
	}
}

// Migrate applies the schema or indexes of the active driver.
func (b *Backend) Migrate(ctx context.Context) error {
	if b.db != nil {
		return EnsureIndexes(ctx, b.db)
	}
	return Migrate(ctx, b.pool)
}

func (b *Backend) Ping(ctx context.Context) error {
	if b.mongo != nil {
		return b.mongo.Ping(ctx, readpref.Primary())
	}
	return b.pool.Ping(ctx)
}

func (b *Backend) Close(ctx context.Context) {
	if b.mongo != nil {
		_ = b.mongo.Disconnect(ctx)
		return
	}
	b.pool.Close()
}
