package products

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-bff/internal/commerce"
	pkgerrors "github.com/angelmondragon/storefront-bff/pkg/errors"
)

type stubGateway struct {
	data    json.RawMessage
	err     error
	lastReq commerce.Request
}

func (s *stubGateway) Execute(_ context.Context, req commerce.Request) (json.RawMessage, error) {
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return s.data, nil
}

func (s *stubGateway) Channel() string { return "test-channel" }
func (s *stubGateway) PageSize() int   { return 20 }

func TestListAdaptsProducts(t *testing.T) {
	gw := &stubGateway{data: json.RawMessage(`{
		"products": {"edges": [
			{"node": {
				"id": "p1",
				"name": "Tea",
				"slug": "tea",
				"description": "loose leaf",
				"thumbnail": {"url": "https://cdn/x.png"},
				"pricing": {"priceRange": {"start": {"gross": {"amount": 12.5, "currency": "USD"}}}},
				"category": {"id": "c1", "name": "Drinks"}
			}}
		]}
	}`)}
	svc, err := NewService(gw)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}

	list, err := svc.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if gw.lastReq.Variables["first"] != 20 {
		t.Fatalf("zero limit should fall back to the page size, got %v", gw.lastReq.Variables["first"])
	}
	if len(list) != 1 {
		t.Fatalf("expected one product, got %d", len(list))
	}
	got := list[0]
	if got.ID != "p1" || got.Slug != "tea" {
		t.Fatalf("unexpected product %+v", got)
	}
	if got.Price == nil || !got.Price.Amount.Equal(decimal.NewFromFloat(12.5)) || got.Price.Currency != "USD" {
		t.Fatalf("unexpected price %+v", got.Price)
	}
	if got.Thumbnail == nil || got.Thumbnail.Alt != "Tea" {
		t.Fatalf("thumbnail alt should default to product name, got %+v", got.Thumbnail)
	}
	if gw.lastReq.Variables["channel"] != "test-channel" {
		t.Fatalf("channel variable not attached: %v", gw.lastReq.Variables)
	}
}

func TestListRejectsMalformedNode(t *testing.T) {
	gw := &stubGateway{data: json.RawMessage(`{
		"products": {"edges": [{"node": {"name": "No ID"}}]}
	}`)}
	svc, _ := NewService(gw)

	_, err := svc.List(context.Background(), 0)
	if !pkgerrors.HasCode(err, pkgerrors.CodeMalformed) {
		t.Fatalf("expected MALFORMED_RESPONSE, got %v", err)
	}
}

func TestListClampsLimitToPageSize(t *testing.T) {
	gw := &stubGateway{data: json.RawMessage(`{"products": {"edges": []}}`)}
	svc, _ := NewService(gw)

	if _, err := svc.List(context.Background(), 5); err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if gw.lastReq.Variables["first"] != 5 {
		t.Fatalf("explicit limit should pass through, got %v", gw.lastReq.Variables["first"])
	}

	if _, err := svc.List(context.Background(), 500); err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if gw.lastReq.Variables["first"] != 20 {
		t.Fatalf("oversized limit should clamp to the page size, got %v", gw.lastReq.Variables["first"])
	}
}

func TestGetBySlugValidatesInput(t *testing.T) {
	svc, _ := NewService(&stubGateway{})
	_, err := svc.GetBySlug(context.Background(), "  ")
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for blank slug, got %v", err)
	}
}

func TestGetBySlugMissingProductIsNotFound(t *testing.T) {
	gw := &stubGateway{data: json.RawMessage(`{"product": null}`)}
	svc, _ := NewService(gw)

	_, err := svc.GetBySlug(context.Background(), "gone")
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}
