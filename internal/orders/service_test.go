package orders

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/angelmondragon/storefront-bff/internal/commerce"
	"github.com/angelmondragon/storefront-bff/internal/session"
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

func (s *stubGateway) PageSize() int { return 20 }

func signedIn(ctx context.Context) context.Context {
	return session.WithSession(ctx, session.Session{ID: "sess-1", Token: "tok-1"})
}

func TestListMineRequiresSession(t *testing.T) {
	svc, _ := NewService(&stubGateway{})
	_, err := svc.ListMine(context.Background())
	if !pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected UNAUTHORIZED without a token, got %v", err)
	}
}

func TestListMineAdaptsOrders(t *testing.T) {
	gw := &stubGateway{data: json.RawMessage(`{
		"me": {"id": "u1", "orders": {"edges": [
			{"node": {
				"id": "o1",
				"number": "1001",
				"created": "2026-08-01T10:00:00Z",
				"status": "FULFILLED",
				"total": {"gross": {"amount": 42, "currency": "USD"}}
			}}
		]}}
	}`)}
	svc, _ := NewService(gw)

	list, err := svc.ListMine(signedIn(context.Background()))
	if err != nil {
		t.Fatalf("ListMine failed: %v", err)
	}
	if len(list) != 1 || list[0].Number != "1001" {
		t.Fatalf("unexpected orders %+v", list)
	}
	if gw.lastReq.BearerToken != "tok-1" {
		t.Fatalf("bearer token not forwarded")
	}
}

func TestListMineAnonymousBackendYieldsEmpty(t *testing.T) {
	gw := &stubGateway{data: json.RawMessage(`{"me": null}`)}
	svc, _ := NewService(gw)

	list, err := svc.ListMine(signedIn(context.Background()))
	if err != nil {
		t.Fatalf("ListMine failed: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty list, got %+v", list)
	}
}

func TestGetByIDCollapsesCountry(t *testing.T) {
	gw := &stubGateway{data: json.RawMessage(`{
		"order": {
			"id": "o2",
			"number": "1002",
			"created": "2026-08-02T10:00:00Z",
			"status": "UNFULFILLED",
			"total": {"gross": {"amount": 10, "currency": "USD"}},
			"lines": [
				{"id": "l1", "productName": "Tea", "variantName": "Green", "quantity": 2,
				 "totalPrice": {"gross": {"amount": 10, "currency": "USD"}},
				 "thumbnail": {"url": "https://cdn/t.png"}}
			],
			"shippingAddress": {
				"firstName": "Ada", "lastName": "L", "streetAddress1": "1 Row",
				"city": "London", "postalCode": "N1", "country": {"code": "GB"}
			}
		}
	}`)}
	svc, _ := NewService(gw)

	order, err := svc.GetByID(context.Background(), "o2")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if order.ShippingAddress == nil || order.ShippingAddress.Country != "GB" {
		t.Fatalf("country should collapse to code, got %+v", order.ShippingAddress)
	}
	if len(order.Lines) != 1 || order.Lines[0].ThumbnailURL != "https://cdn/t.png" {
		t.Fatalf("unexpected lines %+v", order.Lines)
	}
}

func TestGetByIDMalformedTotal(t *testing.T) {
	gw := &stubGateway{data: json.RawMessage(`{
		"order": {"id": "o3", "number": "1003", "total": {"gross": {"amount": 5}}}
	}`)}
	svc, _ := NewService(gw)

	_, err := svc.GetByID(context.Background(), "o3")
	if !pkgerrors.HasCode(err, pkgerrors.CodeMalformed) {
		t.Fatalf("expected MALFORMED_RESPONSE, got %v", err)
	}
}

func TestGetByIDMissingOrder(t *testing.T) {
	gw := &stubGateway{data: json.RawMessage(`{"order": null}`)}
	svc, _ := NewService(gw)

	_, err := svc.GetByID(context.Background(), "nope")
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}
