package checkout

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

const checkoutFragment = `{
	"id": "chk-1",
	"email": "a@b.c",
	"lines": [{"id": "l1", "quantity": 2}],
	"totalPrice": {"gross": {"amount": 20, "currency": "USD"}}
}`

func TestCreateSendsChannelInsideInput(t *testing.T) {
	gw := &stubGateway{data: json.RawMessage(`{"checkoutCreate": {"checkout": ` + checkoutFragment + `, "errors": []}}`)}
	svc, err := NewService(gw)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}

	chk, err := svc.Create(context.Background(), "a@b.c", []commerce.CheckoutLineInput{{VariantID: "v1", Quantity: 2}})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if chk.ID != "chk-1" {
		t.Fatalf("unexpected checkout %+v", chk)
	}
	if !chk.Total.Amount.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("unexpected total %s", chk.Total.Amount)
	}

	input, ok := gw.lastReq.Variables["input"].(map[string]any)
	if !ok {
		t.Fatalf("input variable missing: %v", gw.lastReq.Variables)
	}
	if input["channel"] != "test-channel" {
		t.Fatalf("channel missing from create input: %v", input)
	}
}

func TestCreateRequiresLines(t *testing.T) {
	svc, _ := NewService(&stubGateway{})
	_, err := svc.Create(context.Background(), "", nil)
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestMutationErrorsSurfaceAsCommerceFailure(t *testing.T) {
	gw := &stubGateway{data: json.RawMessage(`{
		"checkoutLinesAdd": {"checkout": null, "errors": [{"field": "quantity", "message": "insufficient stock"}]}
	}`)}
	svc, _ := NewService(gw)

	_, err := svc.AddLines(context.Background(), "chk-1", []commerce.CheckoutLineInput{{VariantID: "v1", Quantity: 99}})
	if !pkgerrors.HasCode(err, pkgerrors.CodeCommerce) {
		t.Fatalf("expected COMMERCE_ERROR for nested errors, got %v", err)
	}
	typed := pkgerrors.As(err)
	details, ok := typed.Details().(map[string]any)
	if !ok {
		t.Fatalf("expected details, got %T", typed.Details())
	}
	messages, _ := details["errors"].([]string)
	if len(messages) != 1 || messages[0] != "quantity: insufficient stock" {
		t.Fatalf("unexpected error details %v", details)
	}
}

func TestUpdateLineValidation(t *testing.T) {
	svc, _ := NewService(&stubGateway{})

	if _, err := svc.UpdateLine(context.Background(), "", "l1", 2); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for missing checkout id, got %v", err)
	}
	if _, err := svc.UpdateLine(context.Background(), "chk-1", "l1", 0); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for non-positive quantity, got %v", err)
	}
}

func TestUpdateLineSendsSingleLine(t *testing.T) {
	gw := &stubGateway{data: json.RawMessage(`{"checkoutLinesUpdate": {"checkout": ` + checkoutFragment + `, "errors": []}}`)}
	svc, _ := NewService(gw)

	if _, err := svc.UpdateLine(context.Background(), "chk-1", "l1", 4); err != nil {
		t.Fatalf("UpdateLine failed: %v", err)
	}
	lines, ok := gw.lastReq.Variables["lines"].([]commerce.CheckoutLineUpdateInput)
	if !ok || len(lines) != 1 {
		t.Fatalf("expected exactly one update line, got %v", gw.lastReq.Variables["lines"])
	}
	if lines[0].LineID != "l1" || lines[0].Quantity != 4 {
		t.Fatalf("unexpected update line %+v", lines[0])
	}
}

func TestCompleteReturnsOrderRef(t *testing.T) {
	gw := &stubGateway{data: json.RawMessage(`{
		"checkoutComplete": {"order": {"id": "ord-1", "number": "1001"}, "errors": []}
	}`)}
	svc, _ := NewService(gw)

	ref, err := svc.Complete(context.Background(), "chk-1")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if ref.OrderID != "ord-1" || ref.OrderNumber != "1001" {
		t.Fatalf("unexpected order ref %+v", ref)
	}
}

func TestCompleteMissingOrderIsMalformed(t *testing.T) {
	gw := &stubGateway{data: json.RawMessage(`{"checkoutComplete": {"order": null, "errors": []}}`)}
	svc, _ := NewService(gw)

	_, err := svc.Complete(context.Background(), "chk-1")
	if !pkgerrors.HasCode(err, pkgerrors.CodeMalformed) {
		t.Fatalf("expected MALFORMED_RESPONSE, got %v", err)
	}
}

func TestGetAdaptsDetail(t *testing.T) {
	gw := &stubGateway{data: json.RawMessage(`{
		"checkout": {
			"id": "chk-2",
			"email": "x@y.z",
			"lines": [{
				"id": "l1", "quantity": 3,
				"variant": {
					"id": "v1", "name": "Green",
					"product": {"id": "p1", "name": "Tea", "thumbnail": {"url": "https://cdn/t.png"}},
					"pricing": {"price": {"gross": {"amount": 5, "currency": "USD"}}}
				}
			}],
			"totalPrice": {"gross": {"amount": 15, "currency": "USD"}},
			"shippingAddress": {"firstName": "Ada", "country": {"code": "GB"}}
		}
	}`)}
	svc, _ := NewService(gw)

	detail, err := svc.Get(context.Background(), "chk-2")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(detail.Lines) != 1 || detail.Lines[0].VariantID != "v1" || detail.Lines[0].ProductID != "p1" {
		t.Fatalf("unexpected detail lines %+v", detail.Lines)
	}
	if detail.ShippingAddress == nil || detail.ShippingAddress.Country != "GB" {
		t.Fatalf("country should collapse to code, got %+v", detail.ShippingAddress)
	}
}

func TestGetMissingCheckoutIsNotFound(t *testing.T) {
	gw := &stubGateway{data: json.RawMessage(`{"checkout": null}`)}
	svc, _ := NewService(gw)

	_, err := svc.Get(context.Background(), "chk-3")
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}
