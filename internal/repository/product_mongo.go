package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gachwala/storefront/internal/model"
)

type productDoc struct {
	ID         string               `bson:"_id"`
	Name       string               `bson:"name"`
	Info       string               `bson:"info"`
	Image      string               `bson:"image"`
	CategoryID string               `bson:"category_id"`
	Price      primitive.Decimal128 `bson:"price"`
	Stock      int                  `bson:"stock"`
	Rating     float64              `bson:"rating"`
	Sale       bool                 `bson:"sale"`
	CreatedAt  time.Time            `bson:"createdAt"`
	UpdatedAt  time.Time            `bson:"updatedAt"`
}

func (d productDoc) toModel() model.Product {
	return model.Product{
		ID: parseID(d.ID), Name: d.Name, Info: d.Info, Image: d.Image,
		CategoryID: d.CategoryID, Price: fromDecimal128(d.Price),
		Stock: d.Stock, Rating: d.Rating, Sale: d.Sale,
		CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
	}
}

type mongoProductRepo struct{ coll *mongo.Collection }

func NewMongoProductRepository(db *mongo.Database) ProductRepository {
	return &mongoProductRepo{coll: db.Collection(productsCollection)}
}

func (r *mongoProductRepo) Create(ctx context.Context, product *model.Product) error {
	price, err := toDecimal128(product.Price)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	product.ID = uuid.New()
	product.CreatedAt, product.UpdatedAt = now, now

	_, err = r.coll.InsertOne(ctx, productDoc{
		ID: product.ID.String(), Name: product.Name, Info: product.Info, Image: product.Image,
		CategoryID: product.CategoryID, Price: price, Stock: product.Stock,
		Rating: product.Rating, Sale: product.Sale, CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

func (r *mongoProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var doc productDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	p := doc.toModel()
	return &p, nil
}

func (r *mongoProductRepo) List(ctx context.Context, categoryID string) ([]model.Product, error) {
	filter := bson.M{}
	if categoryID != "" {
		filter["category_id"] = categoryID
	}
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	var docs []productDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	products := make([]model.Product, 0, len(docs))
	for _, d := range docs {
		products = append(products, d.toModel())
	}
	return products, nil
}

func (r *mongoProductRepo) CountByCategory(ctx context.Context, categoryID string) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"category_id": categoryID})
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

func (r *mongoProductRepo) Update(ctx context.Context, product *model.Product) error {
	price, err := toDecimal128(product.Price)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": product.ID.String()}, bson.M{"$set": bson.M{
		"name":        product.Name,
		"info":        product.Info,
		"image":       product.Image,
		"category_id": product.CategoryID,
		"price":       price,
		"stock":       product.Stock,
		"rating":      product.Rating,
		"sale":        product.Sale,
		"updatedAt":   now,
	}})
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	product.UpdatedAt = now
	return nil
}

func (r *mongoProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoProductRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("delete products: %w", err)
	}
	return nil
}
