package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/angelmondragon/storefront-bff/internal/commerce"
	"github.com/angelmondragon/storefront-bff/internal/session"
	pkgerrors "github.com/angelmondragon/storefront-bff/pkg/errors"
)

type gateway interface {
	Execute(ctx context.Context, req commerce.Request) (json.RawMessage, error)
	Channel() string
}

// Service wraps the remote checkout resource's operations. The resource is
// created lazily by the cart manager and finalized by Complete; this service
// never touches local cart state.
type Service interface {
	Create(ctx context.Context, email string, lines []commerce.CheckoutLineInput) (*Checkout, error)
	AddLines(ctx context.Context, checkoutID string, lines []commerce.CheckoutLineInput) (*Checkout, error)
	UpdateLine(ctx context.Context, checkoutID, lineID string, quantity int) (*Checkout, error)
	RemoveLines(ctx context.Context, checkoutID string, lineIDs []string) (*Checkout, error)
	Get(ctx context.Context, checkoutID string) (*Detail, error)
	Complete(ctx context.Context, checkoutID string) (*OrderRef, error)
}

type service struct {
	gw gateway
}

// NewService builds the checkout service over the commerce gateway.
func NewService(gw gateway) (Service, error) {
	if gw == nil {
		return nil, fmt.Errorf("commerce gateway required")
	}
	return &service{gw: gw}, nil
}

func (s *service) Create(ctx context.Context, email string, lines []commerce.CheckoutLineInput) (*Checkout, error) {
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "checkout requires at least one line")
	}
	data, err := s.gw.Execute(ctx, commerce.Request{
		OperationName: "CreateCheckout",
		Query:         commerce.MutationCheckoutCreate,
		Variables: map[string]any{
			"input": map[string]any{
				"email":   email,
				"lines":   lines,
				"channel": s.gw.Channel(),
			},
		},
		BearerToken: session.Token(ctx),
	})
	if err != nil {
		return nil, err
	}
	return adaptMutation(data, "checkoutCreate", "checkoutCreate")
}

func (s *service) AddLines(ctx context.Context, checkoutID string, lines []commerce.CheckoutLineInput) (*Checkout, error) {
	if err := requireID(checkoutID); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no lines to add")
	}
	data, err := s.gw.Execute(ctx, commerce.Request{
		OperationName: "AddToCheckout",
		Query:         commerce.MutationCheckoutLinesAdd,
		Variables: map[string]any{
			"checkoutId": checkoutID,
			"lines":      lines,
		},
		BearerToken: session.Token(ctx),
	})
	if err != nil {
		return nil, err
	}
	return adaptMutation(data, "checkoutLinesAdd", "checkoutLinesAdd")
}

func (s *service) UpdateLine(ctx context.Context, checkoutID, lineID string, quantity int) (*Checkout, error) {
	if err := requireID(checkoutID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(lineID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "line id is required")
	}
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	data, err := s.gw.Execute(ctx, commerce.Request{
		OperationName: "UpdateCheckoutLine",
		Query:         commerce.MutationCheckoutLinesUpdate,
		Variables: map[string]any{
			"checkoutId": checkoutID,
			"lines":      []commerce.CheckoutLineUpdateInput{{LineID: lineID, Quantity: quantity}},
		},
		BearerToken: session.Token(ctx),
	})
	if err != nil {
		return nil, err
	}
	return adaptMutation(data, "checkoutLinesUpdate", "checkoutLinesUpdate")
}

func (s *service) RemoveLines(ctx context.Context, checkoutID string, lineIDs []string) (*Checkout, error) {
	if err := requireID(checkoutID); err != nil {
		return nil, err
	}
	if len(lineIDs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no lines to remove")
	}
	data, err := s.gw.Execute(ctx, commerce.Request{
		OperationName: "RemoveFromCheckout",
		Query:         commerce.MutationCheckoutLinesDelete,
		Variables: map[string]any{
			"checkoutId": checkoutID,
			"lineIds":    lineIDs,
		},
		BearerToken: session.Token(ctx),
	})
	if err != nil {
		return nil, err
	}
	return adaptMutation(data, "checkoutLinesDelete", "checkoutLinesDelete")
}

func (s *service) Get(ctx context.Context, checkoutID string) (*Detail, error) {
	if err := requireID(checkoutID); err != nil {
		return nil, err
	}
	data, err := s.gw.Execute(ctx, commerce.Request{
		OperationName: "GetCheckout",
		Query:         commerce.QueryCheckout,
		Variables:     map[string]any{"id": checkoutID},
		BearerToken:   session.Token(ctx),
	})
	if err != nil {
		return nil, err
	}
	return adaptDetail(data)
}

func (s *service) Complete(ctx context.Context, checkoutID string) (*OrderRef, error) {
	if err := requireID(checkoutID); err != nil {
		return nil, err
	}
	data, err := s.gw.Execute(ctx, commerce.Request{
		OperationName: "CompleteCheckout",
		Query:         commerce.MutationCheckoutComplete,
		Variables:     map[string]any{"checkoutId": checkoutID},
		BearerToken:   session.Token(ctx),
	})
	if err != nil {
		return nil, err
	}
	return adaptOrderRef(data)
}

func requireID(checkoutID string) error {
	if strings.TrimSpace(checkoutID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "checkout id is required")
	}
	return nil
}
