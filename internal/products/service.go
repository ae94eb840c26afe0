package products

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
	PageSize() int
}

// Service exposes catalog reads.
type Service interface {
	List(ctx context.Context, limit int) ([]Product, error)
	GetBySlug(ctx context.Context, slug string) (*Product, error)
}

type service struct {
	gw gateway
}

// NewService builds the products service over the commerce gateway.
func NewService(gw gateway) (Service, error) {
	if gw == nil {
		return nil, fmt.Errorf("commerce gateway required")
	}
	return &service{gw: gw}, nil
}

// List fetches the first page of the channel's catalog. A limit of zero, or
// one past the configured page size, falls back to the page size.
func (s *service) List(ctx context.Context, limit int) ([]Product, error) {
	if limit <= 0 || limit > s.gw.PageSize() {
		limit = s.gw.PageSize()
	}
	data, err := s.gw.Execute(ctx, commerce.Request{
		OperationName: "GetProducts",
		Query:         commerce.QueryProducts,
		Variables: map[string]any{
			"first":   limit,
			"channel": s.gw.Channel(),
		},
		BearerToken: session.Token(ctx),
	})
	if err != nil {
		return nil, err
	}
	return adaptProductList(data)
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*Product, error) {
	if strings.TrimSpace(slug) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product slug is required")
	}
	data, err := s.gw.Execute(ctx, commerce.Request{
		OperationName: "GetProductBySlug",
		Query:         commerce.QueryProductBySlug,
		Variables: map[string]any{
			"slug":    slug,
			"channel": s.gw.Channel(),
		},
		BearerToken: session.Token(ctx),
	})
	if err != nil {
		return nil, err
	}
	return adaptSingleProduct(data)
}
