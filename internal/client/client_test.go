package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gachwala/storefront/internal/apperror"
	"github.com/gachwala/storefront/internal/auth"
	"github.com/gachwala/storefront/internal/dto"
	"github.com/gachwala/storefront/internal/model"
	"github.com/gachwala/storefront/internal/repository/repotest"
	"github.com/gachwala/storefront/internal/server"
	"github.com/gachwala/storefront/internal/service"
)

func newTestAPI(t *testing.T) (*httptest.Server, *service.AdminService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := repotest.NewStore()
	tokens := auth.NewTokenManager("client-test-secret", time.Hour)
	admins := service.NewAdminService(store.Users)
	router := server.NewRouter(server.Services{
		Tokens:     tokens,
		Auth:       service.NewAuthService(store.Users, tokens),
		Users:      service.NewUserService(store.Users),
		Admins:     admins,
		Categories: service.NewCategoryService(store.Categories, store.Products),
		Products:   service.NewProductService(store.Products, nil),
		Orders:     service.NewOrderService(store.Orders, nil, nil),
	}, nil)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, admins
}

func orderRequest() dto.CreateOrderRequest {
	return dto.CreateOrderRequest{
		Items: []dto.OrderItemPayload{
			{ProductID: uuid.New(), Name: "Aloe", Price: decimal.NewFromInt(120), Quantity: 1},
		},
		ShippingAddress: dto.ShippingAddressPayload{Name: "N", Phone: "P", Street: "S", City: "C"},
		Subtotal:        decimal.NewFromInt(120),
		ShippingFee:     decimal.NewFromInt(50),
		DeliveryFee:     decimal.NewFromInt(30),
		TotalAmount:     decimal.NewFromInt(200),
	}
}

func TestClient_RegisterVerifyAndOrder(t *testing.T) {
	srv, _ := newTestAPI(t)
	store := NewMemoryTokenStore()
	c := New(srv.URL, store)
	ctx := context.Background()

	reg, err := c.Register(ctx, dto.RegisterRequest{Name: "Nila", Email: "nila@example.com", Password: "nila1234"})
	require.NoError(t, err)
	token, _ := store.Load(UserTokenKey)
	assert.Equal(t, reg.Token, token)

	me, err := c.Verify(ctx)
	require.NoError(t, err)
	assert.Equal(t, "nila@example.com", me.Email)

	order, err := c.CreateOrder(ctx, orderRequest())
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPending, order.Status)

	mine, err := c.MyOrders(ctx)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	got, err := c.Order(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, got.TotalAmount.Equal(decimal.NewFromInt(200)))

	history, err := c.OrderHistory(ctx, order.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestClient_ErrorsCarryServerMessageAndKind(t *testing.T) {
	srv, _ := newTestAPI(t)
	c := New(srv.URL, NewMemoryTokenStore())
	ctx := context.Background()

	_, err := c.Verify(ctx)
	require.Error(t, err)
	assert.Equal(t, apperror.KindAuth, apperror.KindOf(err))

	_, err = c.Login(ctx, "ghost@example.com", "whatever1")
	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "invalid credentials", apperror.Message(err))

	_, err = c.Register(ctx, dto.RegisterRequest{Name: "A", Email: "a@example.com", Password: "secret12"})
	require.NoError(t, err)
	_, err = c.Register(ctx, dto.RegisterRequest{Name: "B", Email: "a@example.com", Password: "secret12"})
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
}

func TestClient_SeparateAdminSession(t *testing.T) {
	srv, admins := newTestAPI(t)
	_, err := admins.Create(context.Background(), dto.CreateAdminRequest{Name: "Admin", Email: "admin@example.com", Password: "admin123"})
	require.NoError(t, err)

	store := NewMemoryTokenStore()
	c := New(srv.URL, store)
	ctx := context.Background()

	_, err = c.Register(ctx, dto.RegisterRequest{Name: "Shopper", Email: "shop@example.com", Password: "shop1234"})
	require.NoError(t, err)
	order, err := c.CreateOrder(ctx, orderRequest())
	require.NoError(t, err)

	_, err = c.UpdateOrderStatus(ctx, order.ID, model.OrderStatusProcessing)
	assert.Equal(t, apperror.KindAuth, apperror.KindOf(err))

	_, err = c.AdminLogin(ctx, "admin@example.com", "admin123")
	require.NoError(t, err)
	updated, err := c.UpdateOrderStatus(ctx, order.ID, model.OrderStatusProcessing)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusProcessing, updated.Status)

	all, err := c.AllOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, c.Logout(AdminTokenKey))
	has, err := c.HasSession(AdminTokenKey)
	require.NoError(t, err)
	assert.False(t, has)
	has, err = c.HasSession(UserTokenKey)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestClient_Catalog(t *testing.T) {
	srv, _ := newTestAPI(t)
	c := New(srv.URL, NewMemoryTokenStore())
	ctx := context.Background()

	categories, err := c.Categories(ctx)
	require.NoError(t, err)
	assert.Empty(t, categories)

	products, err := c.Products(ctx, "indoor")
	require.NoError(t, err)
	assert.Empty(t, products)

	_, err = c.Product(ctx, uuid.New())
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestFileTokenStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tokens.json")
	s := NewFileTokenStore(path)

	token, err := s.Load(UserTokenKey)
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, s.Save(UserTokenKey, "user-token"))
	require.NoError(t, s.Save(AdminTokenKey, "admin-token"))

	reopened := NewFileTokenStore(path)
	token, err = reopened.Load(AdminTokenKey)
	require.NoError(t, err)
	assert.Equal(t, "admin-token", token)

	require.NoError(t, reopened.Delete(AdminTokenKey))
	require.NoError(t, reopened.Delete("missing"))
	token, _ = s.Load(AdminTokenKey)
	assert.Empty(t, token)
	token, _ = s.Load(UserTokenKey)
	assert.Equal(t, "user-token", token)
}
