package checkout

import "github.com/angelmondragon/storefront-bff/pkg/types"

// Checkout is the server's summary view of the in-progress order mirror. The
// cart only ever stores its ID; it never reconstructs the full record.
type Checkout struct {
	ID    string      `json:"id"`
	Email string      `json:"email,omitempty"`
	Lines []Line      `json:"lines"`
	Total types.Money `json:"total"`
}

// Line is the server's compact line view returned by checkout mutations.
type Line struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

// Detail is the expanded checkout view, fetched on demand for the review
// page. Lines here carry product/pricing context.
type Detail struct {
	ID              string         `json:"id"`
	Email           string         `json:"email,omitempty"`
	Lines           []DetailLine   `json:"lines"`
	Total           types.Money    `json:"total"`
	ShippingAddress *types.Address `json:"shipping_address,omitempty"`
	BillingAddress  *types.Address `json:"billing_address,omitempty"`
}

type DetailLine struct {
	ID           string      `json:"id"`
	ProductID    string      `json:"product_id"`
	VariantID    string      `json:"variant_id"`
	Name         string      `json:"name"`
	Quantity     int         `json:"quantity"`
	Price        types.Money `json:"price"`
	ThumbnailURL string      `json:"thumbnail_url,omitempty"`
}

// OrderRef identifies the order produced by a completed checkout.
type OrderRef struct {
	OrderID     string `json:"order_id"`
	OrderNumber string `json:"order_number"`
}
