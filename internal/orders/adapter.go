package orders

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	pkgerrors "github.com/angelmondragon/storefront-bff/pkg/errors"
	"github.com/angelmondragon/storefront-bff/pkg/types"
)

type rawMoney struct {
	Amount   *decimal.Decimal `json:"amount"`
	Currency *string          `json:"currency"`
}

type rawGross struct {
	Gross *rawMoney `json:"gross"`
}

type rawAddress struct {
	FirstName      *string `json:"firstName"`
	LastName       *string `json:"lastName"`
	StreetAddress1 *string `json:"streetAddress1"`
	StreetAddress2 *string `json:"streetAddress2"`
	City           *string `json:"city"`
	PostalCode     *string `json:"postalCode"`
	Country        *struct {
		Code *string `json:"code"`
	} `json:"country"`
	Phone *string `json:"phone"`
}

type rawOrderLine struct {
	ID          *string   `json:"id"`
	ProductName *string   `json:"productName"`
	VariantName *string   `json:"variantName"`
	Quantity    *int      `json:"quantity"`
	TotalPrice  *rawGross `json:"totalPrice"`
	Thumbnail   *struct {
		URL *string `json:"url"`
	} `json:"thumbnail"`
}

type rawOrder struct {
	ID              *string        `json:"id"`
	Number          *string        `json:"number"`
	Created         *string        `json:"created"`
	Status          *string        `json:"status"`
	Total           *rawGross      `json:"total"`
	Lines           []rawOrderLine `json:"lines"`
	ShippingAddress *rawAddress    `json:"shippingAddress"`
	BillingAddress  *rawAddress    `json:"billingAddress"`
}

func adaptGross(raw *rawGross) (types.Money, error) {
	if raw == nil || raw.Gross == nil {
		return types.Money{}, fmt.Errorf("gross amount missing")
	}
	var err error
	if raw.Gross.Amount == nil {
		err = multierr.Append(err, fmt.Errorf("amount missing"))
	}
	if raw.Gross.Currency == nil {
		err = multierr.Append(err, fmt.Errorf("currency missing"))
	}
	if err != nil {
		return types.Money{}, err
	}
	return types.NewMoney(*raw.Gross.Amount, *raw.Gross.Currency), nil
}

// adaptAddress collapses the nested country object into the code string.
func adaptAddress(raw *rawAddress) *types.Address {
	if raw == nil {
		return nil
	}
	addr := &types.Address{}
	if raw.FirstName != nil {
		addr.FirstName = *raw.FirstName
	}
	if raw.LastName != nil {
		addr.LastName = *raw.LastName
	}
	if raw.StreetAddress1 != nil {
		addr.StreetAddress1 = *raw.StreetAddress1
	}
	if raw.StreetAddress2 != nil {
		addr.StreetAddress2 = *raw.StreetAddress2
	}
	if raw.City != nil {
		addr.City = *raw.City
	}
	if raw.PostalCode != nil {
		addr.PostalCode = *raw.PostalCode
	}
	if raw.Country != nil && raw.Country.Code != nil {
		addr.Country = *raw.Country.Code
	}
	if raw.Phone != nil {
		addr.Phone = *raw.Phone
	}
	return addr
}

func adaptOrderLine(raw rawOrderLine) (OrderLine, error) {
	var problems error
	if raw.ID == nil || *raw.ID == "" {
		problems = multierr.Append(problems, fmt.Errorf("line id missing"))
	}
	if raw.Quantity == nil {
		problems = multierr.Append(problems, fmt.Errorf("line quantity missing"))
	}
	total, err := adaptGross(raw.TotalPrice)
	if err != nil {
		problems = multierr.Append(problems, fmt.Errorf("line total: %w", err))
	}
	if problems != nil {
		return OrderLine{}, problems
	}

	line := OrderLine{
		ID:         *raw.ID,
		Quantity:   *raw.Quantity,
		TotalPrice: total,
	}
	if raw.ProductName != nil {
		line.ProductName = *raw.ProductName
	}
	if raw.VariantName != nil {
		line.VariantName = *raw.VariantName
	}
	if raw.Thumbnail != nil && raw.Thumbnail.URL != nil {
		line.ThumbnailURL = *raw.Thumbnail.URL
	}
	return line, nil
}

func adaptOrder(raw rawOrder) (Order, error) {
	var problems error
	if raw.ID == nil || *raw.ID == "" {
		problems = multierr.Append(problems, fmt.Errorf("order id missing"))
	}
	if raw.Number == nil {
		problems = multierr.Append(problems, fmt.Errorf("order number missing"))
	}
	total, err := adaptGross(raw.Total)
	if err != nil {
		problems = multierr.Append(problems, fmt.Errorf("order total: %w", err))
	}

	lines := make([]OrderLine, 0, len(raw.Lines))
	for i, rawLine := range raw.Lines {
		line, err := adaptOrderLine(rawLine)
		if err != nil {
			problems = multierr.Append(problems, fmt.Errorf("line %d: %w", i, err))
			continue
		}
		lines = append(lines, line)
	}

	if problems != nil {
		return Order{}, pkgerrors.Wrap(pkgerrors.CodeMalformed, problems, "order payload")
	}

	order := Order{
		ID:              *raw.ID,
		Number:          *raw.Number,
		Total:           total,
		Lines:           lines,
		ShippingAddress: adaptAddress(raw.ShippingAddress),
		BillingAddress:  adaptAddress(raw.BillingAddress),
	}
	if raw.Created != nil {
		order.Created = *raw.Created
	}
	if raw.Status != nil {
		order.Status = *raw.Status
	}
	return order, nil
}

type userOrdersPayload struct {
	Me *struct {
		Orders *struct {
			Edges []struct {
				Node *rawOrder `json:"node"`
			} `json:"edges"`
		} `json:"orders"`
	} `json:"me"`
}

func adaptUserOrders(data json.RawMessage) ([]Order, error) {
	var payload userOrdersPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeMalformed, err, "decode orders payload")
	}
	if payload.Me == nil || payload.Me.Orders == nil {
		return []Order{}, nil
	}
	out := make([]Order, 0, len(payload.Me.Orders.Edges))
	for _, edge := range payload.Me.Orders.Edges {
		if edge.Node == nil {
			return nil, pkgerrors.New(pkgerrors.CodeMalformed, "order edge missing node")
		}
		order, err := adaptOrder(*edge.Node)
		if err != nil {
			return nil, err
		}
		out = append(out, order)
	}
	return out, nil
}

type orderPayload struct {
	Order *rawOrder `json:"order"`
}

func adaptSingleOrder(data json.RawMessage) (*Order, error) {
	var payload orderPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeMalformed, err, "decode order payload")
	}
	if payload.Order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	order, err := adaptOrder(*payload.Order)
	if err != nil {
		return nil, err
	}
	return &order, nil
}
