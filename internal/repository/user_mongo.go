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

type addressDoc struct {
	Street  string `bson:"street"`
	City    string `bson:"city"`
	State   string `bson:"state"`
	ZipCode string `bson:"zipCode"`
}

type userDoc struct {
	ID        string     `bson:"_id"`
	Name      string     `bson:"name"`
	Email     string     `bson:"email"`
	Password  string     `bson:"password"`
	Role      string     `bson:"role"`
	Phone     string     `bson:"phone"`
	Address   addressDoc `bson:"address"`
	CreatedAt time.Time  `bson:"createdAt"`
	UpdatedAt time.Time  `bson:"updatedAt"`
}

func (d userDoc) toModel() model.User {
	return model.User{
		ID:           parseID(d.ID),
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.Password,
		Role:         model.Role(d.Role),
		Phone:        d.Phone,
		Address: model.Address{
			Street: d.Address.Street, City: d.Address.City,
			State: d.Address.State, ZipCode: d.Address.ZipCode,
		},
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type mongoUserRepo struct{ coll *mongo.Collection }

func NewMongoUserRepository(db *mongo.Database) UserRepository {
	return &mongoUserRepo{coll: db.Collection(usersCollection)}
}

func (r *mongoUserRepo) Create(ctx context.Context, user *model.User) error {
	now := time.Now().UTC()
	user.ID = uuid.New()
	user.CreatedAt, user.UpdatedAt = now, now

	a := user.Address
	_, err := r.coll.InsertOne(ctx, userDoc{
		ID: user.ID.String(), Name: user.Name, Email: user.Email, Password: user.PasswordHash,
		Role: string(user.Role), Phone: user.Phone,
		Address:   addressDoc{Street: a.Street, City: a.City, State: a.State, ZipCode: a.ZipCode},
		CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *mongoUserRepo) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	var doc userDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	u := doc.toModel()
	return &u, nil
}

func (r *mongoUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return r.findOne(ctx, bson.M{"_id": id.String()})
}

func (r *mongoUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *mongoUserRepo) ListByRoles(ctx context.Context, roles ...model.Role) ([]model.User, error) {
	names := make([]string, len(roles))
	for i, role := range roles {
		names[i] = string(role)
	}
	cur, err := r.coll.Find(ctx,
		bson.M{"role": bson.M{"$in": names}},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	users := make([]model.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, d.toModel())
	}
	return users, nil
}

func (r *mongoUserRepo) UpdateProfile(ctx context.Context, user *model.User) error {
	now := time.Now().UTC()
	a := user.Address
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": user.ID.String()}, bson.M{"$set": bson.M{
		"name":      user.Name,
		"phone":     user.Phone,
		"address":   addressDoc{Street: a.Street, City: a.City, State: a.State, ZipCode: a.ZipCode},
		"updatedAt": now,
	}})
	if err != nil {
		return fmt.Errorf("update user profile: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	user.UpdatedAt = now
	return nil
}

func (r *mongoUserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id.String()}, bson.M{"$set": bson.M{
		"password":  passwordHash,
		"updatedAt": time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
