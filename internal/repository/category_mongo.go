package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gachwala/storefront/internal/model"
)

type categoryDoc struct {
	ID         string    `bson:"_id"`
	CategoryID string    `bson:"category_id"`
	Name       string    `bson:"name"`
	CreatedAt  time.Time `bson:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt"`
}

func (d categoryDoc) toModel() model.Category {
	return model.Category{
		ID: parseID(d.ID), CategoryID: d.CategoryID, Name: d.Name,
		CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
	}
}

type mongoCategoryRepo struct{ coll *mongo.Collection }

func NewMongoCategoryRepository(db *mongo.Database) CategoryRepository {
	return &mongoCategoryRepo{coll: db.Collection(categoriesCollection)}
}

func (r *mongoCategoryRepo) Create(ctx context.Context, category *model.Category) error {
	now := time.Now().UTC()
	category.ID = uuid.New()
	category.CreatedAt, category.UpdatedAt = now, now

	_, err := r.coll.InsertOne(ctx, categoryDoc{
		ID: category.ID.String(), CategoryID: category.CategoryID, Name: category.Name,
		CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

func (r *mongoCategoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	var doc categoryDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	c := doc.toModel()
	return &c, nil
}

func (r *mongoCategoryRepo) List(ctx context.Context) ([]model.Category, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	var docs []categoryDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	categories := make([]model.Category, 0, len(docs))
	for _, d := range docs {
		categories = append(categories, d.toModel())
	}
	return categories, nil
}

func (r *mongoCategoryRepo) Update(ctx context.Context, category *model.Category) error {
	now := time.Now().UTC()
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": category.ID.String()}, bson.M{"$set": bson.M{
		"category_id": category.CategoryID,
		"name":        category.Name,
		"updatedAt":   now,
	}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("update category: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	category.UpdatedAt = now
	return nil
}

func (r *mongoCategoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoCategoryRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("delete categories: %w", err)
	}
	return nil
}
