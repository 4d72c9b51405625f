package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleUser        Role = "user"
	RoleAdmin       Role = "admin"
	RoleMasterAdmin Role = "master_admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleMasterAdmin:
		return true
	}
	return false
}

type Address struct {
	Street  string
	City    string
	State   string
	ZipCode string
}

type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Phone        string
	Address      Address
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Category.CategoryID is the stable business key products refer to.
type Category struct {
	ID         uuid.UUID
	CategoryID string
	Name       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Product struct {
	ID         uuid.UUID
	Name       string
	Info       string
	Image      string
	CategoryID string
	Price      decimal.Decimal
	Stock      int
	Rating     float64
	Sale       bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type PaymentMethod string

const (
	PaymentCashOnDelivery PaymentMethod = "cash_on_delivery"
	PaymentOnline         PaymentMethod = "online_payment"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentCashOnDelivery || m == PaymentOnline
}

type ShippingAddress struct {
	Name    string
	Phone   string
	Email   string
	Street  string
	City    string
	State   string
	ZipCode string
}

// OrderItem is a snapshot of the product taken when the order was placed.
type OrderItem struct {
	ProductID uuid.UUID
	Name      string
	Price     decimal.Decimal
	Quantity  int
	Image     string
}

func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Order struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	Items           []OrderItem
	Subtotal        decimal.Decimal
	ShippingFee     decimal.Decimal
	DeliveryFee     decimal.Decimal
	TotalAmount     decimal.Decimal
	PaymentMethod   PaymentMethod
	Status          OrderStatus
	ShippingAddress ShippingAddress
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type OrderEventType string

const (
	OrderEventPlaced        OrderEventType = "placed"
	OrderEventStatusChanged OrderEventType = "status_changed"
)

type OrderEvent struct {
	ID         uuid.UUID
	OrderID    uuid.UUID
	Type       OrderEventType
	Status     OrderStatus
	OccurredAt time.Time
}

// OrderEventMessage is the payload published for every order lifecycle event.
type OrderEventMessage struct {
	EventID    uuid.UUID      `json:"event_id"`
	OrderID    uuid.UUID      `json:"order_id"`
	UserID     uuid.UUID      `json:"user_id"`
	Type       OrderEventType `json:"type"`
	Status     OrderStatus    `json:"status"`
	OccurredAt time.Time      `json:"occurred_at"`
}
