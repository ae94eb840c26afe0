package checkout

import (
	"encoding/json"
	"fmt"
	"strings"

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

type rawLine struct {
	ID       *string `json:"id"`
	Quantity *int    `json:"quantity"`
}

type rawCheckout struct {
	ID         *string   `json:"id"`
	Email      *string   `json:"email"`
	Lines      []rawLine `json:"lines"`
	TotalPrice *rawGross `json:"totalPrice"`
}

// rawMutationError is the backend's field-scoped error entry nested inside
// mutation payloads. A populated list means the mutation was rejected even
// though the HTTP and GraphQL layers succeeded.
type rawMutationError struct {
	Field   *string `json:"field"`
	Message *string `json:"message"`
}

type rawMutationResult struct {
	Checkout *rawCheckout       `json:"checkout"`
	Order    *rawOrderRef       `json:"order"`
	Errors   []rawMutationError `json:"errors"`
}

type rawOrderRef struct {
	ID     *string `json:"id"`
	Number *string `json:"number"`
}

func mutationErrorsToFailure(operation string, errs []rawMutationError) error {
	messages := make([]string, 0, len(errs))
	for _, entry := range errs {
		msg := ""
		if entry.Message != nil {
			msg = *entry.Message
		}
		if entry.Field != nil && *entry.Field != "" {
			msg = fmt.Sprintf("%s: %s", *entry.Field, msg)
		}
		messages = append(messages, msg)
	}
	return pkgerrors.New(pkgerrors.CodeCommerce, fmt.Sprintf("%s rejected", operation)).
		WithDetails(map[string]any{"errors": messages})
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

func adaptCheckout(raw *rawCheckout) (*Checkout, error) {
	if raw == nil {
		return nil, pkgerrors.New(pkgerrors.CodeMalformed, "checkout missing from payload")
	}
	var problems error
	if raw.ID == nil || *raw.ID == "" {
		problems = multierr.Append(problems, fmt.Errorf("checkout id missing"))
	}
	total, err := adaptGross(raw.TotalPrice)
	if err != nil {
		problems = multierr.Append(problems, fmt.Errorf("total: %w", err))
	}

	lines := make([]Line, 0, len(raw.Lines))
	for i, rawL := range raw.Lines {
		if rawL.ID == nil || rawL.Quantity == nil {
			problems = multierr.Append(problems, fmt.Errorf("line %d incomplete", i))
			continue
		}
		lines = append(lines, Line{ID: *rawL.ID, Quantity: *rawL.Quantity})
	}

	if problems != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeMalformed, problems, "checkout payload")
	}

	out := &Checkout{ID: *raw.ID, Lines: lines, Total: total}
	if raw.Email != nil {
		out.Email = *raw.Email
	}
	return out, nil
}

// adaptMutation unwraps one {checkout, errors} mutation result keyed by the
// mutation's root field name.
func adaptMutation(data json.RawMessage, rootField, operation string) (*Checkout, error) {
	var envelope map[string]*rawMutationResult
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeMalformed, err, fmt.Sprintf("decode %s payload", operation))
	}
	result := envelope[rootField]
	if result == nil {
		return nil, pkgerrors.New(pkgerrors.CodeMalformed, fmt.Sprintf("%s result missing", rootField))
	}
	if len(result.Errors) > 0 {
		return nil, mutationErrorsToFailure(operation, result.Errors)
	}
	return adaptCheckout(result.Checkout)
}

func adaptOrderRef(data json.RawMessage) (*OrderRef, error) {
	var envelope struct {
		CheckoutComplete *rawMutationResult `json:"checkoutComplete"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeMalformed, err, "decode checkoutComplete payload")
	}
	result := envelope.CheckoutComplete
	if result == nil {
		return nil, pkgerrors.New(pkgerrors.CodeMalformed, "checkoutComplete result missing")
	}
	if len(result.Errors) > 0 {
		return nil, mutationErrorsToFailure("checkoutComplete", result.Errors)
	}
	if result.Order == nil || result.Order.ID == nil || result.Order.Number == nil {
		return nil, pkgerrors.New(pkgerrors.CodeMalformed, "completed order reference missing")
	}
	return &OrderRef{OrderID: *result.Order.ID, OrderNumber: *result.Order.Number}, nil
}

type rawDetailLine struct {
	ID       *string `json:"id"`
	Quantity *int    `json:"quantity"`
	Variant  *struct {
		ID      *string `json:"id"`
		Name    *string `json:"name"`
		Product *struct {
			ID        *string `json:"id"`
			Name      *string `json:"name"`
			Thumbnail *struct {
				URL *string `json:"url"`
			} `json:"thumbnail"`
		} `json:"product"`
		Pricing *struct {
			Price *rawGross `json:"price"`
		} `json:"pricing"`
	} `json:"variant"`
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

type rawDetail struct {
	ID              *string         `json:"id"`
	Email           *string         `json:"email"`
	Lines           []rawDetailLine `json:"lines"`
	TotalPrice      *rawGross       `json:"totalPrice"`
	ShippingAddress *rawAddress     `json:"shippingAddress"`
	BillingAddress  *rawAddress     `json:"billingAddress"`
}

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

func adaptDetailLine(raw rawDetailLine) (DetailLine, error) {
	var problems error
	if raw.ID == nil || *raw.ID == "" {
		problems = multierr.Append(problems, fmt.Errorf("line id missing"))
	}
	if raw.Quantity == nil {
		problems = multierr.Append(problems, fmt.Errorf("line quantity missing"))
	}
	if raw.Variant == nil || raw.Variant.ID == nil {
		problems = multierr.Append(problems, fmt.Errorf("variant missing"))
	}
	if raw.Variant == nil || raw.Variant.Product == nil || raw.Variant.Product.ID == nil {
		problems = multierr.Append(problems, fmt.Errorf("product missing"))
	}
	if problems != nil {
		return DetailLine{}, problems
	}

	line := DetailLine{
		ID:        *raw.ID,
		Quantity:  *raw.Quantity,
		VariantID: *raw.Variant.ID,
		ProductID: *raw.Variant.Product.ID,
	}
	if raw.Variant.Product.Name != nil {
		line.Name = *raw.Variant.Product.Name
	}
	if raw.Variant.Product.Thumbnail != nil && raw.Variant.Product.Thumbnail.URL != nil {
		line.ThumbnailURL = *raw.Variant.Product.Thumbnail.URL
	}
	if raw.Variant.Pricing != nil && raw.Variant.Pricing.Price != nil {
		price, err := adaptGross(raw.Variant.Pricing.Price)
		if err != nil {
			return DetailLine{}, fmt.Errorf("line price: %w", err)
		}
		line.Price = price
	}
	return line, nil
}

func adaptDetail(data json.RawMessage) (*Detail, error) {
	var envelope struct {
		Checkout *rawDetail `json:"checkout"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeMalformed, err, "decode checkout payload")
	}
	raw := envelope.Checkout
	if raw == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "checkout not found")
	}

	var problems error
	if raw.ID == nil || strings.TrimSpace(*raw.ID) == "" {
		problems = multierr.Append(problems, fmt.Errorf("checkout id missing"))
	}
	total, err := adaptGross(raw.TotalPrice)
	if err != nil {
		problems = multierr.Append(problems, fmt.Errorf("total: %w", err))
	}

	lines := make([]DetailLine, 0, len(raw.Lines))
	for i, rawLine := range raw.Lines {
		line, err := adaptDetailLine(rawLine)
		if err != nil {
			problems = multierr.Append(problems, fmt.Errorf("line %d: %w", i, err))
			continue
		}
		lines = append(lines, line)
	}

	if problems != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeMalformed, problems, "checkout payload")
	}

	detail := &Detail{
		ID:              *raw.ID,
		Lines:           lines,
		Total:           total,
		ShippingAddress: adaptAddress(raw.ShippingAddress),
		BillingAddress:  adaptAddress(raw.BillingAddress),
	}
	if raw.Email != nil {
		detail.Email = *raw.Email
	}
	return detail, nil
}
