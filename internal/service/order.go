package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gachwala/storefront/internal/apperror"
	"github.com/gachwala/storefront/internal/dto"
	"github.com/gachwala/storefront/internal/model"
	"github.com/gachwala/storefront/internal/repository"
)

var (
	ErrEmptyOrder        = apperror.Validation("Order must contain at least one item")
	ErrShippingAddress   = apperror.Validation("shipping name, phone, street and city are required")
	ErrPaymentMethod     = apperror.Validation("invalid payment method")
	ErrNegativeAmount    = apperror.Validation("amounts must be zero or greater")
	ErrTotalMismatch     = apperror.Validation("totalAmount must equal subtotal + shippingFee + deliveryFee")
	ErrInvalidStatus     = apperror.Validation("Invalid status")
	ErrInvalidTransition = apperror.Validation("invalid status transition")
	ErrOrderNotFound     = apperror.NotFound("Order not found")
	ErrStatusConflict    = apperror.Conflict("order status changed concurrently, reload and retry")
)

// EventPublisher delivers order lifecycle events to interested consumers.
type EventPublisher interface {
	Publish(ctx context.Context, msg model.OrderEventMessage) error
}

type OrderService struct {
	orderRepo repository.OrderRepository
	events    EventPublisher
	log       *slog.Logger
	now       func() time.Time
}

// NewOrderService returns an order service. A nil publisher disables events.
func NewOrderService(orderRepo repository.OrderRepository, events EventPublisher, log *slog.Logger) *OrderService {
	if log == nil {
		log = slog.Default()
	}
	return &OrderService{orderRepo: orderRepo, events: events, log: log, now: time.Now}
}

// Create stores the submitted cart snapshot as a pending order. Prices are
// taken as submitted; only the arithmetic of the breakdown is checked.
func (s *OrderService) Create(ctx context.Context, userID uuid.UUID, req dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	order, err := newOrder(userID, req)
	if err != nil {
		return nil, err
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.publish(ctx, order, model.OrderEventPlaced)
	resp := dto.NewOrderResponse(order)
	return &resp, nil
}

// ListMine returns the caller's orders, newest first.
func (s *OrderService) ListMine(ctx context.Context, userID uuid.UUID) ([]dto.OrderResponse, error) {
	orders, err := s.orderRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return dto.NewOrderResponses(orders), nil
}

// Get returns one of the caller's orders. Orders of other users are
// reported as not found.
func (s *OrderService) Get(ctx context.Context, userID, orderID uuid.UUID) (*dto.OrderResponse, error) {
	order, err := s.owned(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewOrderResponse(order)
	return &resp, nil
}

func (s *OrderService) ListAll(ctx context.Context) ([]dto.OrderResponse, error) {
	orders, err := s.orderRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list all orders: %w", err)
	}
	return dto.NewOrderResponses(orders), nil
}

// UpdateStatus moves an order along the status machine. Re-applying the
// current status returns the order unchanged.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status model.OrderStatus) (*dto.OrderResponse, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	if order.Status == status {
		resp := dto.NewOrderResponse(order)
		return &resp, nil
	}
	if !order.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, order.Status, status)
	}

	ok, err := s.orderRepo.UpdateStatus(ctx, orderID, order.Status, status)
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	if !ok {
		return nil, ErrStatusConflict
	}

	order.Status = status
	order.UpdatedAt = s.now().UTC()
	s.publish(ctx, order, model.OrderEventStatusChanged)

	resp := dto.NewOrderResponse(order)
	return &resp, nil
}

// Timeline returns the recorded lifecycle events of one of the caller's
// orders, oldest first.
func (s *OrderService) Timeline(ctx context.Context, userID, orderID uuid.UUID) ([]dto.OrderEventResponse, error) {
	if _, err := s.owned(ctx, userID, orderID); err != nil {
		return nil, err
	}
	events, err := s.orderRepo.ListEvents(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order events: %w", err)
	}
	return dto.NewOrderEventResponses(events), nil
}

func (s *OrderService) owned(ctx context.Context, userID, orderID uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil || order.UserID != userID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *OrderService) publish(ctx context.Context, order *model.Order, eventType model.OrderEventType) {
	if s.events == nil {
		return
	}
	msg := model.OrderEventMessage{
		EventID:    uuid.New(),
		OrderID:    order.ID,
		UserID:     order.UserID,
		Type:       eventType,
		Status:     order.Status,
		OccurredAt: s.now().UTC(),
	}
	if err := s.events.Publish(ctx, msg); err != nil {
		s.log.Error("publish order event",
			"order_id", order.ID, "event_type", eventType, "error", err)
	}
}

func newOrder(userID uuid.UUID, req dto.CreateOrderRequest) (*model.Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	items := make([]model.OrderItem, 0, len(req.Items))
	for i, it := range req.Items {
		name := strings.TrimSpace(it.Name)
		switch {
		case it.ProductID == uuid.Nil:
			return nil, apperror.Validation(fmt.Sprintf("item %d: productId is required", i+1))
		case name == "":
			return nil, apperror.Validation(fmt.Sprintf("item %d: name is required", i+1))
		case it.Quantity < 1:
			return nil, apperror.Validation(fmt.Sprintf("item %d: quantity must be at least 1", i+1))
		case it.Price.LessThan(decimal.Zero):
			return nil, apperror.Validation(fmt.Sprintf("item %d: price must be zero or greater", i+1))
		}
		items = append(items, model.OrderItem{
			ProductID: it.ProductID, Name: name, Price: it.Price,
			Quantity: it.Quantity, Image: it.Image,
		})
	}

	sa := req.ShippingAddress
	address := model.ShippingAddress{
		Name:    strings.TrimSpace(sa.Name),
		Phone:   strings.TrimSpace(sa.Phone),
		Email:   strings.TrimSpace(sa.Email),
		Street:  strings.TrimSpace(sa.Street),
		City:    strings.TrimSpace(sa.City),
		State:   strings.TrimSpace(sa.State),
		ZipCode: strings.TrimSpace(sa.ZipCode),
	}
	if address.Name == "" || address.Phone == "" || address.Street == "" || address.City == "" {
		return nil, ErrShippingAddress
	}

	method := req.PaymentMethod
	if method == "" {
		method = model.PaymentCashOnDelivery
	}
	if !method.Valid() {
		return nil, ErrPaymentMethod
	}

	for _, amount := range []decimal.Decimal{req.Subtotal, req.ShippingFee, req.DeliveryFee, req.TotalAmount} {
		if amount.LessThan(decimal.Zero) {
			return nil, ErrNegativeAmount
		}
	}
	if !req.Subtotal.Add(req.ShippingFee).Add(req.DeliveryFee).Equal(req.TotalAmount) {
		return nil, ErrTotalMismatch
	}

	return &model.Order{
		UserID:          userID,
		Items:           items,
		Subtotal:        req.Subtotal,
		ShippingFee:     req.ShippingFee,
		DeliveryFee:     req.DeliveryFee,
		TotalAmount:     req.TotalAmount,
		PaymentMethod:   method,
		Status:          model.OrderStatusPending,
		ShippingAddress: address,
	}, nil
}
