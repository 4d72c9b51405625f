package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gachwala/storefront/internal/model"
)

// Money fields are written as JSON numbers; decoding accepts numbers and strings.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// --- Auth ---

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type VerifyResponse struct {
	User UserResponse `json:"user"`
}

// --- Users ---

type AddressPayload struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
}

type UserResponse struct {
	ID        uuid.UUID      `json:"id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Role      model.Role     `json:"role"`
	Phone     string         `json:"phone,omitempty"`
	Address   AddressPayload `json:"address"`
	CreatedAt time.Time      `json:"createdAt"`
}

type UpdateProfileRequest struct {
	Name    *string         `json:"name"`
	Phone   *string         `json:"phone"`
	Address *AddressPayload `json:"address"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

type CreateAdminRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --- Catalog ---

type CreateCategoryRequest struct {
	CategoryID string `json:"category_id" binding:"required"`
	Name       string `json:"name" binding:"required"`
}

type UpdateCategoryRequest struct {
	CategoryID *string `json:"category_id"`
	Name       *string `json:"name"`
}

type CategoryResponse struct {
	ID         uuid.UUID `json:"id"`
	CategoryID string    `json:"category_id"`
	Name       string    `json:"name"`
}

type CreateProductRequest struct {
	Name       string          `json:"name" binding:"required"`
	Info       string          `json:"info"`
	Image      string          `json:"image"`
	CategoryID string          `json:"category_id"`
	Price      *decimal.Decimal `json:"price" binding:"required"`
	Stock      int             `json:"stock"`
	Rating     float64         `json:"rating"`
	Sale       bool            `json:"sale"`
}

type UpdateProductRequest struct {
	Name       *string          `json:"name"`
	Info       *string          `json:"info"`
	Image      *string          `json:"image"`
	CategoryID *string          `json:"category_id"`
	Price      *decimal.Decimal `json:"price"`
	Stock      *int             `json:"stock"`
	Rating     *float64         `json:"rating"`
	Sale       *bool            `json:"sale"`
}

type ListProductsRequest struct {
	CategoryID string `form:"category_id"`
}

type ProductResponse struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	Info       string          `json:"info"`
	Image      string          `json:"image"`
	CategoryID string          `json:"category_id"`
	Price      decimal.Decimal `json:"price"`
	Stock      int             `json:"stock"`
	Rating     float64         `json:"rating"`
	Sale       bool            `json:"sale"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// --- Order ---

type OrderItemPayload struct {
	ProductID uuid.UUID       `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Image     string          `json:"image"`
}

type ShippingAddressPayload struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
}

type CreateOrderRequest struct {
	Items           []OrderItemPayload     `json:"items"`
	ShippingAddress ShippingAddressPayload `json:"shippingAddress"`
	Subtotal        decimal.Decimal        `json:"subtotal"`
	ShippingFee     decimal.Decimal        `json:"shippingFee"`
	DeliveryFee     decimal.Decimal        `json:"deliveryFee"`
	TotalAmount     decimal.Decimal        `json:"totalAmount"`
	PaymentMethod   model.PaymentMethod    `json:"paymentMethod"`
}

type OrderResponse struct {
	ID              uuid.UUID              `json:"id"`
	UserID          uuid.UUID              `json:"userId"`
	Items           []OrderItemPayload     `json:"items"`
	ShippingAddress ShippingAddressPayload `json:"shippingAddress"`
	Subtotal        decimal.Decimal        `json:"subtotal"`
	ShippingFee     decimal.Decimal        `json:"shippingFee"`
	DeliveryFee     decimal.Decimal        `json:"deliveryFee"`
	TotalAmount     decimal.Decimal        `json:"totalAmount"`
	PaymentMethod   model.PaymentMethod    `json:"paymentMethod"`
	Status          model.OrderStatus      `json:"status"`
	CreatedAt       time.Time              `json:"createdAt"`
	UpdatedAt       time.Time              `json:"updatedAt"`
}

type CreateOrderResponse struct {
	Message string        `json:"message"`
	Order   OrderResponse `json:"order"`
}

type UpdateOrderStatusRequest struct {
	Status model.OrderStatus `json:"status" binding:"required"`
}

type OrderEventResponse struct {
	ID         uuid.UUID            `json:"id"`
	Type       model.OrderEventType `json:"type"`
	Status     model.OrderStatus    `json:"status"`
	OccurredAt time.Time            `json:"occurredAt"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// --- Mapping ---

func NewUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
		Phone: u.Phone,
		Address: AddressPayload{
			Street: u.Address.Street, City: u.Address.City,
			State: u.Address.State, ZipCode: u.Address.ZipCode,
		},
		CreatedAt: u.CreatedAt,
	}
}

func NewCategoryResponse(c *model.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, CategoryID: c.CategoryID, Name: c.Name}
}

func NewProductResponse(p *model.Product) ProductResponse {
	return ProductResponse{
		ID:         p.ID,
		Name:       p.Name,
		Info:       p.Info,
		Image:      p.Image,
		CategoryID: p.CategoryID,
		Price:      p.Price,
		Stock:      p.Stock,
		Rating:     p.Rating,
		Sale:       p.Sale,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func NewOrderResponse(o *model.Order) OrderResponse {
	items := make([]OrderItemPayload, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemPayload{
			ProductID: it.ProductID, Name: it.Name, Price: it.Price,
			Quantity: it.Quantity, Image: it.Image,
		})
	}
	sa := o.ShippingAddress
	return OrderResponse{
		ID:     o.ID,
		UserID: o.UserID,
		Items:  items,
		ShippingAddress: ShippingAddressPayload{
			Name: sa.Name, Phone: sa.Phone, Email: sa.Email,
			Street: sa.Street, City: sa.City, State: sa.State, ZipCode: sa.ZipCode,
		},
		Subtotal:      o.Subtotal,
		ShippingFee:   o.ShippingFee,
		DeliveryFee:   o.DeliveryFee,
		TotalAmount:   o.TotalAmount,
		PaymentMethod: o.PaymentMethod,
		Status:        o.Status,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

func NewOrderResponses(orders []model.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, NewOrderResponse(&orders[i]))
	}
	return out
}

func NewOrderEventResponses(events []model.OrderEvent) []OrderEventResponse {
	out := make([]OrderEventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, OrderEventResponse{ID: e.ID, Type: e.Type, Status: e.Status, OccurredAt: e.OccurredAt})
	}
	return out
}
