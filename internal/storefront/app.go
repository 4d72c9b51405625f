// Package storefront holds the shopper-side application state: the cart,
// the signed-in user and the API client, plus the checkout workflow.
package storefront

import (
	"context"

	"github.com/gachwala/storefront/internal/apperror"
	"github.com/gachwala/storefront/internal/cart"
	"github.com/gachwala/storefront/internal/client"
	"github.com/gachwala/storefront/internal/dto"
)

// API is the subset of *client.Client the storefront needs.
type API interface {
	Login(ctx context.Context, email, password string) (*dto.AuthResponse, error)
	Verify(ctx context.Context) (*dto.UserResponse, error)
	Logout(key string) error
	HasSession(key string) (bool, error)
	CreateOrder(ctx context.Context, req dto.CreateOrderRequest) (*dto.OrderResponse, error)
}

// App is passed to every view in place of threaded props.
type App struct {
	Cart   *cart.Cart
	Client API
	User   *dto.UserResponse
}

func NewApp(api API) *App {
	return &App{Cart: cart.New(), Client: api}
}

// Restore re-verifies a persisted user token. A token the server rejects is
// discarded; other failures leave it in place for the next attempt.
func (a *App) Restore(ctx context.Context) error {
	ok, err := a.Client.HasSession(client.UserTokenKey)
	if err != nil || !ok {
		return err
	}

	user, err := a.Client.Verify(ctx)
	if err != nil {
		if apperror.KindOf(err) == apperror.KindAuth {
			a.User = nil
			return a.Client.Logout(client.UserTokenKey)
		}
		return err
	}
	a.User = user
	return nil
}

func (a *App) Login(ctx context.Context, email, password string) error {
	resp, err := a.Client.Login(ctx, email, password)
	if err != nil {
		return err
	}
	a.User = &resp.User
	return nil
}

// Logout forgets the user session. The cart is kept.
func (a *App) Logout() error {
	a.User = nil
	return a.Client.Logout(client.UserTokenKey)
}

func (a *App) SignedIn() bool { return a.User != nil }

// AddToCart snapshots a catalog product into the cart.
func (a *App) AddToCart(p dto.ProductResponse, quantity int) {
	a.Cart.Add(cart.Product{
		ID:    p.ID,
		Name:  p.Name,
		Price: p.Price,
		Image: p.Image,
		Stock: p.Stock,
	}, quantity)
}
