// Package client is a typed client for the storefront REST API. It attaches
// the stored bearer token of the matching session to each request.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gachwala/storefront/internal/apperror"
	"github.com/gachwala/storefront/internal/dto"
	"github.com/gachwala/storefront/internal/model"
)

// APIError is a non-2xx answer from the API. It unwraps to an
// *apperror.Error so callers can branch on apperror.KindOf.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	return apperror.New(kindForStatus(e.StatusCode), e.Message)
}

func kindForStatus(status int) apperror.Kind {
	switch status {
	case http.StatusBadRequest:
		return apperror.KindValidation
	case http.StatusUnauthorized:
		return apperror.KindAuth
	case http.StatusForbidden:
		return apperror.KindForbidden
	case http.StatusNotFound:
		return apperror.KindNotFound
	case http.StatusConflict:
		return apperror.KindConflict
	default:
		return apperror.KindServer
	}
}

type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenStore
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func New(baseURL string, tokens TokenStore, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		tokens:  tokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// --- Auth ---

func (c *Client) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	var resp dto.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", "", req, &resp); err != nil {
		return nil, err
	}
	if err := c.tokens.Save(UserTokenKey, resp.Token); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*dto.AuthResponse, error) {
	return c.login(ctx, "/api/auth/login", UserTokenKey, email, password)
}

func (c *Client) AdminLogin(ctx context.Context, email, password string) (*dto.AuthResponse, error) {
	return c.login(ctx, "/api/admin/login", AdminTokenKey, email, password)
}

func (c *Client) login(ctx context.Context, path, key, email, password string) (*dto.AuthResponse, error) {
	var resp dto.AuthResponse
	if err := c.do(ctx, http.MethodPost, path, "", dto.LoginRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	if err := c.tokens.Save(key, resp.Token); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout discards the credential of one session. Nothing is sent to the server.
func (c *Client) Logout(key string) error {
	return c.tokens.Delete(key)
}

// HasSession reports whether a token is stored under key.
func (c *Client) HasSession(key string) (bool, error) {
	token, err := c.tokens.Load(key)
	return token != "", err
}

func (c *Client) Verify(ctx context.Context) (*dto.UserResponse, error) {
	var resp dto.VerifyResponse
	if err := c.do(ctx, http.MethodGet, "/api/auth/verify", UserTokenKey, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// --- Catalog ---

func (c *Client) Categories(ctx context.Context) ([]dto.CategoryResponse, error) {
	var resp []dto.CategoryResponse
	err := c.do(ctx, http.MethodGet, "/api/categories", "", nil, &resp)
	return resp, err
}

func (c *Client) Products(ctx context.Context, categoryID string) ([]dto.ProductResponse, error) {
	path := "/api/products"
	if categoryID != "" {
		path += "?" + url.Values{"category_id": {categoryID}}.Encode()
	}
	var resp []dto.ProductResponse
	err := c.do(ctx, http.MethodGet, path, "", nil, &resp)
	return resp, err
}

func (c *Client) Product(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	var resp dto.ProductResponse
	if err := c.do(ctx, http.MethodGet, "/api/products/"+id.String(), "", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// --- Orders ---

func (c *Client) CreateOrder(ctx context.Context, req dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	var resp dto.CreateOrderResponse
	if err := c.do(ctx, http.MethodPost, "/api/orders", UserTokenKey, req, &resp); err != nil {
		return nil, err
	}
	return &resp.Order, nil
}

func (c *Client) MyOrders(ctx context.Context) ([]dto.OrderResponse, error) {
	var resp []dto.OrderResponse
	err := c.do(ctx, http.MethodGet, "/api/orders/my-orders", UserTokenKey, nil, &resp)
	return resp, err
}

func (c *Client) Order(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error) {
	var resp dto.OrderResponse
	if err := c.do(ctx, http.MethodGet, "/api/orders/"+id.String(), UserTokenKey, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) OrderHistory(ctx context.Context, id uuid.UUID) ([]dto.OrderEventResponse, error) {
	var resp []dto.OrderEventResponse
	err := c.do(ctx, http.MethodGet, "/api/orders/"+id.String()+"/history", UserTokenKey, nil, &resp)
	return resp, err
}

// --- Admin ---

func (c *Client) AllOrders(ctx context.Context) ([]dto.OrderResponse, error) {
	var resp []dto.OrderResponse
	err := c.do(ctx, http.MethodGet, "/api/admin/orders", AdminTokenKey, nil, &resp)
	return resp, err
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) (*dto.OrderResponse, error) {
	var resp dto.OrderResponse
	path := "/api/admin/orders/" + id.String() + "/status"
	if err := c.do(ctx, http.MethodPatch, path, AdminTokenKey, dto.UpdateOrderStatusRequest{Status: status}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// do sends body as JSON and decodes a 2xx answer into out. tokenKey selects
// the stored credential; empty sends no Authorization header.
func (c *Client) do(ctx context.Context, method, path, tokenKey string, body, out any) error {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tokenKey != "" {
		token, err := c.tokens.Load(tokenKey)
		if err != nil {
			return err
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body)

	msg := body.Error
	if msg == "" {
		msg = body.Message
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}
