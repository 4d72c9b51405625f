package repository

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gachwala/storefront/internal/model"
)

func TestDecimal128RoundTrip(t *testing.T) {
	for _, s := range []string{"0", "450.5", "199.99", "1000000"} {
		d := decimal.RequireFromString(s)
		v, err := toDecimal128(d)
		require.NoError(t, err)
		assert.True(t, d.Equal(fromDecimal128(v)), s)
	}
}

func TestOrderDoc_PreservesItemSnapshots(t *testing.T) {
	order := &model.Order{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Items: []model.OrderItem{
			{ProductID: uuid.New(), Name: "Fern", Price: decimal.NewFromInt(100), Quantity: 2, Image: "fern.jpg"},
		},
		Subtotal: decimal.NewFromInt(200), ShippingFee: decimal.NewFromInt(50),
		DeliveryFee: decimal.NewFromInt(30), TotalAmount: decimal.NewFromInt(280),
		PaymentMethod: model.PaymentCashOnDelivery, Status: model.OrderStatusPending,
		ShippingAddress: model.ShippingAddress{Name: "A", City: "Dhaka", ZipCode: "1207"},
	}

	doc, err := newOrderDoc(order)
	require.NoError(t, err)
	back := doc.toModel()

	assert.Equal(t, order.ID, back.ID)
	assert.Equal(t, order.UserID, back.UserID)
	assert.Equal(t, order.ShippingAddress, back.ShippingAddress)
	require.Len(t, back.Items, 1)
	assert.Equal(t, "fern.jpg", back.Items[0].Image)
	assert.True(t, back.TotalAmount.Equal(decimal.NewFromInt(280)))
}
