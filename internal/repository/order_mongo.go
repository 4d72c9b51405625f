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

type orderItemDoc struct {
	ProductID string               `bson:"productId"`
	Name      string               `bson:"name"`
	Price     primitive.Decimal128 `bson:"price"`
	Quantity  int                  `bson:"quantity"`
	Image     string               `bson:"image"`
}

type shippingAddressDoc struct {
	Name    string `bson:"name"`
	Phone   string `bson:"phone"`
	Email   string `bson:"email"`
	Street  string `bson:"street"`
	City    string `bson:"city"`
	State   string `bson:"state"`
	ZipCode string `bson:"zipCode"`
}

type orderDoc struct {
	ID              string               `bson:"_id"`
	UserID          string               `bson:"userId"`
	Items           []orderItemDoc       `bson:"items"`
	Subtotal        primitive.Decimal128 `bson:"subtotal"`
	ShippingFee     primitive.Decimal128 `bson:"shippingFee"`
	DeliveryFee     primitive.Decimal128 `bson:"deliveryFee"`
	TotalAmount     primitive.Decimal128 `bson:"totalAmount"`
	PaymentMethod   string               `bson:"paymentMethod"`
	Status          string               `bson:"status"`
	ShippingAddress shippingAddressDoc   `bson:"shippingAddress"`
	CreatedAt       time.Time            `bson:"createdAt"`
	UpdatedAt       time.Time            `bson:"updatedAt"`
}

func newOrderDoc(o *model.Order) (orderDoc, error) {
	doc := orderDoc{
		ID:            o.ID.String(),
		UserID:        o.UserID.String(),
		Items:         make([]orderItemDoc, 0, len(o.Items)),
		PaymentMethod: string(o.PaymentMethod),
		Status:        string(o.Status),
		ShippingAddress: shippingAddressDoc{
			Name: o.ShippingAddress.Name, Phone: o.ShippingAddress.Phone, Email: o.ShippingAddress.Email,
			Street: o.ShippingAddress.Street, City: o.ShippingAddress.City,
			State: o.ShippingAddress.State, ZipCode: o.ShippingAddress.ZipCode,
		},
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
	for _, item := range o.Items {
		price, err := toDecimal128(item.Price)
		if err != nil {
			return orderDoc{}, err
		}
		doc.Items = append(doc.Items, orderItemDoc{
			ProductID: item.ProductID.String(), Name: item.Name,
			Price: price, Quantity: item.Quantity, Image: item.Image,
		})
	}

	var err error
	if doc.Subtotal, err = toDecimal128(o.Subtotal); err != nil {
		return orderDoc{}, err
	}
	if doc.ShippingFee, err = toDecimal128(o.ShippingFee); err != nil {
		return orderDoc{}, err
	}
	if doc.DeliveryFee, err = toDecimal128(o.DeliveryFee); err != nil {
		return orderDoc{}, err
	}
	if doc.TotalAmount, err = toDecimal128(o.TotalAmount); err != nil {
		return orderDoc{}, err
	}
	return doc, nil
}

func (d orderDoc) toModel() model.Order {
	o := model.Order{
		ID:            parseID(d.ID),
		UserID:        parseID(d.UserID),
		Items:         make([]model.OrderItem, 0, len(d.Items)),
		Subtotal:      fromDecimal128(d.Subtotal),
		ShippingFee:   fromDecimal128(d.ShippingFee),
		DeliveryFee:   fromDecimal128(d.DeliveryFee),
		TotalAmount:   fromDecimal128(d.TotalAmount),
		PaymentMethod: model.PaymentMethod(d.PaymentMethod),
		Status:        model.OrderStatus(d.Status),
		ShippingAddress: model.ShippingAddress{
			Name: d.ShippingAddress.Name, Phone: d.ShippingAddress.Phone, Email: d.ShippingAddress.Email,
			Street: d.ShippingAddress.Street, City: d.ShippingAddress.City,
			State: d.ShippingAddress.State, ZipCode: d.ShippingAddress.ZipCode,
		},
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	for _, item := range d.Items {
		o.Items = append(o.Items, model.OrderItem{
			ProductID: parseID(item.ProductID), Name: item.Name,
			Price: fromDecimal128(item.Price), Quantity: item.Quantity, Image: item.Image,
		})
	}
	return o
}

type orderEventDoc struct {
	ID         string    `bson:"_id"`
	OrderID    string    `bson:"orderId"`
	Type       string    `bson:"type"`
	Status     string    `bson:"status"`
	OccurredAt time.Time `bson:"occurredAt"`
}

type mongoOrderRepo struct {
	orders *mongo.Collection
	events *mongo.Collection
}

func NewMongoOrderRepository(db *mongo.Database) OrderRepository {
	return &mongoOrderRepo{
		orders: db.Collection(ordersCollection),
		events: db.Collection(orderEventsCollection),
	}
}

// Create writes the order and its items as a single document.
func (r *mongoOrderRepo) Create(ctx context.Context, order *model.Order) error {
	now := time.Now().UTC()
	order.ID = uuid.New()
	order.CreatedAt, order.UpdatedAt = now, now

	doc, err := newOrderDoc(order)
	if err != nil {
		return err
	}
	if _, err := r.orders.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *mongoOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var doc orderDoc
	if err := r.orders.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	o := doc.toModel()
	return &o, nil
}

func (r *mongoOrderRepo) ListByUserID(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	return r.find(ctx, bson.M{"userId": userID.String()})
}

func (r *mongoOrderRepo) ListAll(ctx context.Context) ([]model.Order, error) {
	return r.find(ctx, bson.M{})
}

func (r *mongoOrderRepo) find(ctx context.Context, filter bson.M) ([]model.Order, error) {
	cur, err := r.orders.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	var docs []orderDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	orders := make([]model.Order, 0, len(docs))
	for _, d := range docs {
		orders = append(orders, d.toModel())
	}
	return orders, nil
}

func (r *mongoOrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.OrderStatus) (bool, error) {
	res, err := r.orders.UpdateOne(ctx,
		bson.M{"_id": id.String(), "status": string(from)},
		bson.M{"$set": bson.M{"status": string(to), "updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return false, fmt.Errorf("update order status: %w", err)
	}
	return res.ModifiedCount == 1, nil
}

func (r *mongoOrderRepo) AppendEvent(ctx context.Context, event *model.OrderEvent) error {
	_, err := r.events.InsertOne(ctx, orderEventDoc{
		ID: event.ID.String(), OrderID: event.OrderID.String(),
		Type: string(event.Type), Status: string(event.Status),
		OccurredAt: event.OccurredAt.UTC(),
	})
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("insert order event: %w", err)
	}
	return nil
}

func (r *mongoOrderRepo) ListEvents(ctx context.Context, orderID uuid.UUID) ([]model.OrderEvent, error) {
	cur, err := r.events.Find(ctx,
		bson.M{"orderId": orderID.String()},
		options.Find().SetSort(bson.D{{Key: "occurredAt", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("list order events: %w", err)
	}
	var docs []orderEventDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode order events: %w", err)
	}
	events := make([]model.OrderEvent, 0, len(docs))
	for _, d := range docs {
		events = append(events, model.OrderEvent{
			ID: parseID(d.ID), OrderID: parseID(d.OrderID),
			Type: model.OrderEventType(d.Type), Status: model.OrderStatus(d.Status),
			OccurredAt: d.OccurredAt,
		})
	}
	return events, nil
}
