package dto

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyIsEncodedAsNumber(t *testing.T) {
	raw, err := json.Marshal(OrderResponse{
		ID:          uuid.New(),
		Subtotal:    decimal.RequireFromString("200.50"),
		ShippingFee: decimal.NewFromInt(50),
		DeliveryFee: decimal.NewFromInt(30),
		TotalAmount: decimal.RequireFromString("280.50"),
	})
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, 200.5, body["subtotal"])
	assert.Equal(t, float64(50), body["shippingFee"])
	assert.Equal(t, 280.5, body["totalAmount"])

	raw, err = json.Marshal(ProductResponse{Price: decimal.RequireFromString("450.25")})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"price":450.25`)
}

func TestMoneyDecodesFromNumberOrString(t *testing.T) {
	var req CreateProductRequest
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Fern","price":120.5}`), &req))
	require.NotNil(t, req.Price)
	assert.True(t, req.Price.Equal(decimal.RequireFromString("120.5")))

	req = CreateProductRequest{}
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Fern","price":"99.90"}`), &req))
	assert.True(t, req.Price.Equal(decimal.RequireFromString("99.9")))

	req = CreateProductRequest{}
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Fern"}`), &req))
	assert.Nil(t, req.Price)
}
