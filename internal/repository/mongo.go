package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection       = "users"
	categoriesCollection  = "categories"
	productsCollection    = "products"
	ordersCollection      = "orders"
	orderEventsCollection = "order_events"
)

// NewMongoStore returns repositories backed by the given database.
// Documents use the UUID string as _id.
func NewMongoStore(db *mongo.Database) *Store {
	return &Store{
		Users:      NewMongoUserRepository(db),
		Categories: NewMongoCategoryRepository(db),
		Products:   NewMongoProductRepository(db),
		Orders:     NewMongoOrderRepository(db),
	}
}

// EnsureIndexes creates the indexes the document backend relies on for
// uniqueness and list ordering. It is safe to run repeatedly.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "role", Value: 1}}},
		},
		categoriesCollection: {
			{Keys: bson.D{{Key: "category_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		productsCollection: {
			{Keys: bson.D{{Key: "category_id", Value: 1}}},
		},
		ordersCollection: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		orderEventsCollection: {
			{Keys: bson.D{{Key: "orderId", Value: 1}, {Key: "occurredAt", Value: 1}}},
		},
	}
	for name, models := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create %s indexes: %w", name, err)
		}
	}
	return nil
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("encode decimal %s: %w", d, err)
	}
	return v, nil
}

// fromDecimal128 decodes values written by toDecimal128; anything else reads as zero.
func fromDecimal128(v primitive.Decimal128) decimal.Decimal {
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}

func parseID(s string) uuid.UUID {
	id, _ := uuid.Parse(s)
	return id
}
