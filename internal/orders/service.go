package orders

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
	PageSize() int
}

// Service exposes order history reads for the signed-in visitor.
type Service interface {
	ListMine(ctx context.Context) ([]Order, error)
	GetByID(ctx context.Context, id string) (*Order, error)
}

type service struct {
	gw gateway
}

// NewService builds the orders service over the commerce gateway.
func NewService(gw gateway) (Service, error) {
	if gw == nil {
		return nil, fmt.Errorf("commerce gateway required")
	}
	return &service{gw: gw}, nil
}

func (s *service) ListMine(ctx context.Context) ([]Order, error) {
	token := session.Token(ctx)
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to view orders")
	}
	data, err := s.gw.Execute(ctx, commerce.Request{
		OperationName: "GetUserOrders",
		Query:         commerce.QueryUserOrders,
		Variables:     map[string]any{"first": s.gw.PageSize()},
		BearerToken:   token,
	})
	if err != nil {
		return nil, err
	}
	return adaptUserOrders(data)
}

func (s *service) GetByID(ctx context.Context, id string) (*Order, error) {
	if strings.TrimSpace(id) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	data, err := s.gw.Execute(ctx, commerce.Request{
		OperationName: "GetOrderDetails",
		Query:         commerce.QueryOrderByID,
		Variables:     map[string]any{"id": id},
		BearerToken:   session.Token(ctx),
	})
	if err != nil {
		return nil, err
	}
	return adaptSingleOrder(data)
}
