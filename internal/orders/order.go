package orders

import "github.com/angelmondragon/storefront-bff/pkg/types"

// Order is a read-only projection of a completed remote order. Orders are
// fetched on demand and never mutated locally.
type Order struct {
	ID              string         `json:"id"`
	Number          string         `json:"number"`
	Created         string         `json:"created"`
	Status          string         `json:"status"`
	Total           types.Money    `json:"total"`
	Lines           []OrderLine    `json:"lines,omitempty"`
	ShippingAddress *types.Address `json:"shipping_address,omitempty"`
	BillingAddress  *types.Address `json:"billing_address,omitempty"`
}

type OrderLine struct {
	ID           string      `json:"id"`
	ProductName  string      `json:"product_name"`
	VariantName  string      `json:"variant_name"`
	Quantity     int         `json:"quantity"`
	TotalPrice   types.Money `json:"total_price"`
	ThumbnailURL string      `json:"thumbnail_url,omitempty"`
}
