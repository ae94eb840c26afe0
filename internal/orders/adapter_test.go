package orders

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/angelmondragon/storefront-bff/pkg/errors"
)

func TestAdaptOrderMapsEveryField(t *testing.T) {
	raw := json.RawMessage(`{
		"order": {
			"id": "o1",
			"number": "1001",
			"created": "2026-08-01T10:00:00Z",
			"status": "FULFILLED",
			"total": {"gross": {"amount": 42.50, "currency": "USD"}},
			"lines": [
				{"id": "l1", "productName": "Tea", "variantName": "Green", "quantity": 2,
				 "totalPrice": {"gross": {"amount": 21.25, "currency": "USD"}},
				 "thumbnail": {"url": "https://cdn/t.png"}},
				{"id": "l2", "productName": "Mug", "variantName": "Large", "quantity": 1,
				 "totalPrice": {"gross": {"amount": 21.25, "currency": "USD"}}}
			],
			"shippingAddress": {
				"firstName": "Ada", "lastName": "Lovelace",
				"streetAddress1": "1 Analytical Row", "streetAddress2": "Flat 2",
				"city": "London", "postalCode": "N1 9GU",
				"country": {"code": "GB"}, "phone": "+44 20 0000 0000"
			},
			"billingAddress": {
				"firstName": "Ada", "country": {"code": "GB"}
			}
		}
	}`)

	order, err := adaptSingleOrder(raw)
	require.NoError(t, err)
	require.NotNil(t, order)

	assert.Equal(t, "o1", order.ID)
	assert.Equal(t, "1001", order.Number)
	assert.Equal(t, "2026-08-01T10:00:00Z", order.Created)
	assert.Equal(t, "FULFILLED", order.Status)
	assert.True(t, order.Total.Amount.Equal(decimal.RequireFromString("42.50")))
	assert.Equal(t, "USD", order.Total.Currency)

	require.Len(t, order.Lines, 2)
	assert.Equal(t, "l1", order.Lines[0].ID)
	assert.Equal(t, "Tea", order.Lines[0].ProductName)
	assert.Equal(t, "Green", order.Lines[0].VariantName)
	assert.Equal(t, 2, order.Lines[0].Quantity)
	assert.Equal(t, "https://cdn/t.png", order.Lines[0].ThumbnailURL)
	assert.Empty(t, order.Lines[1].ThumbnailURL)

	require.NotNil(t, order.ShippingAddress)
	assert.Equal(t, "Ada", order.ShippingAddress.FirstName)
	assert.Equal(t, "Flat 2", order.ShippingAddress.StreetAddress2)
	assert.Equal(t, "GB", order.ShippingAddress.Country)
	assert.Equal(t, "+44 20 0000 0000", order.ShippingAddress.Phone)

	require.NotNil(t, order.BillingAddress)
	assert.Equal(t, "GB", order.BillingAddress.Country)
}

func TestAdaptOrderAggregatesEveryProblem(t *testing.T) {
	raw := json.RawMessage(`{
		"order": {
			"total": {"gross": {"currency": "USD"}},
			"lines": [
				{"productName": "Tea", "totalPrice": {"gross": {}}}
			]
		}
	}`)

	_, err := adaptSingleOrder(raw)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeMalformed))

	msg := err.Error()
	assert.Contains(t, msg, "order id missing")
	assert.Contains(t, msg, "order number missing")
	assert.Contains(t, msg, "amount missing")
	assert.Contains(t, msg, "line id missing")
	assert.Contains(t, msg, "line quantity missing")
}

func TestAdaptUserOrdersMissingNode(t *testing.T) {
	raw := json.RawMessage(`{"me": {"orders": {"edges": [{"node": null}]}}}`)

	_, err := adaptUserOrders(raw)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeMalformed))
}
