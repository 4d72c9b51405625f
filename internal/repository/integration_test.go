//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gachwala/storefront/internal/model"
)

func TestUserRepo_CreateAndLookup(t *testing.T) {
	forEachStore(t, func(t *testing.T, store *Store) {
		ctx := context.Background()

		user := &model.User{
			Name: "Rahim", Email: "rahim@example.com", PasswordHash: "hashed", Role: model.RoleUser,
			Address: model.Address{City: "Dhaka"},
		}
		require.NoError(t, store.Users.Create(ctx, user))
		assert.NotEqual(t, uuid.Nil, user.ID)

		found, err := store.Users.GetByEmail(ctx, "rahim@example.com")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, user.ID, found.ID)
		assert.Equal(t, "Dhaka", found.Address.City)

		err = store.Users.Create(ctx, &model.User{Name: "Dup", Email: "rahim@example.com", PasswordHash: "h", Role: model.RoleUser})
		assert.ErrorIs(t, err, ErrDuplicate)

		missing, err := store.Users.GetByID(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, missing)
	})
}

func TestUserRepo_ProfilePasswordAndRoles(t *testing.T) {
	forEachStore(t, func(t *testing.T, store *Store) {
		ctx := context.Background()

		admin := &model.User{Name: "Admin", Email: "admin@example.com", PasswordHash: "h", Role: model.RoleAdmin}
		require.NoError(t, store.Users.Create(ctx, admin))
		require.NoError(t, store.Users.Create(ctx, &model.User{Name: "U", Email: "u@example.com", PasswordHash: "h", Role: model.RoleUser}))

		admin.Phone = "01700000000"
		admin.Address.Street = "Road 1"
		require.NoError(t, store.Users.UpdateProfile(ctx, admin))
		require.NoError(t, store.Users.UpdatePassword(ctx, admin.ID, "new-hash"))

		found, err := store.Users.GetByID(ctx, admin.ID)
		require.NoError(t, err)
		assert.Equal(t, "01700000000", found.Phone)
		assert.Equal(t, "Road 1", found.Address.Street)
		assert.Equal(t, "new-hash", found.PasswordHash)

		admins, err := store.Users.ListByRoles(ctx, model.RoleAdmin, model.RoleMasterAdmin)
		require.NoError(t, err)
		require.Len(t, admins, 1)

		require.NoError(t, store.Users.Delete(ctx, admin.ID))
		assert.ErrorIs(t, store.Users.Delete(ctx, admin.ID), ErrNotFound)
	})
}

func TestCatalogRepos_CRUD(t *testing.T) {
	forEachStore(t, func(t *testing.T, store *Store) {
		ctx := context.Background()

		category := &model.Category{CategoryID: "indoor", Name: "Indoor Plants"}
		require.NoError(t, store.Categories.Create(ctx, category))
		assert.ErrorIs(t, store.Categories.Create(ctx, &model.Category{CategoryID: "indoor", Name: "x"}), ErrDuplicate)

		product := &model.Product{
			Name: "Snake Plant", CategoryID: "indoor",
			Price: decimal.RequireFromString("450.50"), Stock: 5, Rating: 4.5, Sale: true,
		}
		require.NoError(t, store.Products.Create(ctx, product))

		found, err := store.Products.GetByID(ctx, product.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.True(t, product.Price.Equal(found.Price))
		assert.True(t, found.Sale)

		n, err := store.Products.CountByCategory(ctx, "indoor")
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)

		byCategory, err := store.Products.List(ctx, "indoor")
		require.NoError(t, err)
		assert.Len(t, byCategory, 1)
		other, err := store.Products.List(ctx, "outdoor")
		require.NoError(t, err)
		assert.Empty(t, other)

		found.Stock = 3
		require.NoError(t, store.Products.Update(ctx, found))
		updated, _ := store.Products.GetByID(ctx, product.ID)
		assert.Equal(t, 3, updated.Stock)

		require.NoError(t, store.Products.Delete(ctx, product.ID))
		assert.ErrorIs(t, store.Products.Delete(ctx, product.ID), ErrNotFound)

		category.Name = "Indoor"
		require.NoError(t, store.Categories.Update(ctx, category))
		require.NoError(t, store.Categories.Delete(ctx, category.ID))
		gone, err := store.Categories.GetByID(ctx, category.ID)
		require.NoError(t, err)
		assert.Nil(t, gone)
	})
}

func TestOrderRepo_CreateListAndStatus(t *testing.T) {
	forEachStore(t, func(t *testing.T, store *Store) {
		ctx := context.Background()

		user := &model.User{Name: "O", Email: "order@example.com", PasswordHash: "h", Role: model.RoleUser}
		require.NoError(t, store.Users.Create(ctx, user))

		order := &model.Order{
			UserID: user.ID,
			Items: []model.OrderItem{
				{ProductID: uuid.New(), Name: "Fern", Price: decimal.NewFromInt(100), Quantity: 2, Image: "fern.jpg"},
				{ProductID: uuid.New(), Name: "Pot", Price: decimal.NewFromInt(50), Quantity: 1},
			},
			Subtotal: decimal.NewFromInt(250), ShippingFee: decimal.NewFromInt(50),
			DeliveryFee: decimal.NewFromInt(30), TotalAmount: decimal.NewFromInt(330),
			PaymentMethod: model.PaymentCashOnDelivery, Status: model.OrderStatusPending,
			ShippingAddress: model.ShippingAddress{Name: "O", Phone: "1", Street: "S", City: "C"},
		}
		require.NoError(t, store.Orders.Create(ctx, order))

		found, err := store.Orders.GetByID(ctx, order.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		require.Len(t, found.Items, 2)
		assert.Equal(t, "Fern", found.Items[0].Name)
		assert.True(t, found.TotalAmount.Equal(decimal.NewFromInt(330)))

		mine, err := store.Orders.ListByUserID(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, mine, 1)
		assert.Len(t, mine[0].Items, 2)

		ok, err := store.Orders.UpdateStatus(ctx, order.ID, model.OrderStatusPending, model.OrderStatusProcessing)
		require.NoError(t, err)
		assert.True(t, ok)
		ok, err = store.Orders.UpdateStatus(ctx, order.ID, model.OrderStatusPending, model.OrderStatusCancelled)
		require.NoError(t, err)
		assert.False(t, ok)

		event := &model.OrderEvent{
			ID: uuid.New(), OrderID: order.ID, Type: model.OrderEventPlaced,
			Status: model.OrderStatusPending, OccurredAt: time.Now(),
		}
		require.NoError(t, store.Orders.AppendEvent(ctx, event))
		require.NoError(t, store.Orders.AppendEvent(ctx, event))
		events, err := store.Orders.ListEvents(ctx, order.ID)
		require.NoError(t, err)
		assert.Len(t, events, 1)
	})
}
