package cart

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-bff/pkg/types"
)

// DefaultCurrency applies to carts that have no items yet.
const DefaultCurrency = "USD"

// Item is one product-variant-quantity entry. Identity for merging is the
// variant id; the line id only matters for remove/update targeting.
type Item struct {
	ID           string      `json:"id"`
	ProductID    string      `json:"product_id"`
	VariantID    string      `json:"variant_id"`
	Name         string      `json:"name"`
	Quantity     int         `json:"quantity"`
	Price        types.Money `json:"price"`
	ThumbnailURL string      `json:"thumbnail_url,omitempty"`
}

// State is the full cart snapshot: ordered lines, the weak reference to the
// remote checkout resource, and the derived total. The total is never stored
// independently of the items; every reducer recomputes it.
type State struct {
	Items      []Item      `json:"items"`
	CheckoutID string      `json:"checkout_id,omitempty"`
	Total      types.Money `json:"total"`
}

func emptyState() State {
	return State{
		Items: []Item{},
		Total: types.ZeroMoney(DefaultCurrency),
	}
}

// Currency returns the cart's currency, falling back to the default for an
// empty cart.
func (s State) Currency() string {
	if len(s.Items) > 0 {
		return s.Items[0].Price.Currency
	}
	if s.Total.Currency != "" {
		return s.Total.Currency
	}
	return DefaultCurrency
}

func (s State) clone() State {
	out := s
	out.Items = make([]Item, len(s.Items))
	copy(out.Items, s.Items)
	return out
}

func recomputeTotal(items []Item, currency string) types.Money {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price.Amount.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return types.NewMoney(total, currency)
}

// reduceAdd merges the incoming item into an existing line with the same
// variant id, or appends it preserving insertion order.
func reduceAdd(s State, item Item) State {
	next := s.clone()
	merged := false
	for i := range next.Items {
		if next.Items[i].VariantID == item.VariantID {
			next.Items[i].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		next.Items = append(next.Items, item)
	}
	next.Total = recomputeTotal(next.Items, next.Currency())
	return next
}

// reduceRemove drops the line with the given line id. Unknown ids leave the
// state untouched.
func reduceRemove(s State, lineID string) State {
	next := s.clone()
	kept := next.Items[:0]
	for _, item := range next.Items {
		if item.ID != lineID {
			kept = append(kept, item)
		}
	}
	next.Items = kept
	next.Total = recomputeTotal(next.Items, next.Currency())
	return next
}

// reduceUpdateQuantity sets the quantity on the matching line. The second
// return reports whether a line matched.
func reduceUpdateQuantity(s State, lineID string, quantity int) (State, bool) {
	next := s.clone()
	found := false
	for i := range next.Items {
		if next.Items[i].ID == lineID {
			next.Items[i].Quantity = quantity
			found = true
			break
		}
	}
	if !found {
		return s, false
	}
	next.Total = recomputeTotal(next.Items, next.Currency())
	return next, true
}

// reduceSetCheckoutID records the remote checkout reference.
func reduceSetCheckoutID(s State, checkoutID string) State {
	next := s.clone()
	next.CheckoutID = checkoutID
	return next
}
