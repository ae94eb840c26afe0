package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	cartsvc "github.com/angelmondragon/storefront-bff/internal/cart"
	"github.com/angelmondragon/storefront-bff/internal/session"
	pkgerrors "github.com/angelmondragon/storefront-bff/pkg/errors"
	"github.com/angelmondragon/storefront-bff/pkg/types"
)

type stubCartManager struct {
	state        cartsvc.State
	err          error
	lastItem     cartsvc.Item
	lastLineID   string
	lastQuantity int
}

func (s *stubCartManager) Snapshot(_ context.Context, _ string) (cartsvc.State, error) {
	return s.state, s.err
}

func (s *stubCartManager) AddItem(_ context.Context, _ string, item cartsvc.Item) (cartsvc.State, error) {
	s.lastItem = item
	return s.state, s.err
}

func (s *stubCartManager) UpdateQuantity(_ context.Context, _ string, lineID string, quantity int) (cartsvc.State, error) {
	s.lastLineID = lineID
	s.lastQuantity = quantity
	return s.state, s.err
}

func (s *stubCartManager) RemoveItem(_ context.Context, _ string, lineID string) (cartsvc.State, error) {
	s.lastLineID = lineID
	return s.state, s.err
}

func (s *stubCartManager) Clear(_ context.Context, _ string) (cartsvc.State, error) {
	return s.state, s.err
}

func withTestSession(r *http.Request) *http.Request {
	ctx := session.WithSession(r.Context(), session.Session{ID: "s1"})
	return r.WithContext(ctx)
}

func cartState() cartsvc.State {
	return cartsvc.State{
		Items: []cartsvc.Item{{
			ID:        "l1",
			VariantID: "v1",
			Name:      "Widget",
			Quantity:  2,
			Price:     types.NewMoney(decimal.NewFromInt(10), "USD"),
		}},
		CheckoutID: "chk-1",
		Total:      types.NewMoney(decimal.NewFromInt(20), "USD"),
	}
}

func TestCartFetchSuccess(t *testing.T) {
	mgr := &stubCartManager{state: cartState()}
	handler := CartFetch(mgr, nil)

	req := withTestSession(httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data cartsvc.State `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.CheckoutID != "chk-1" || len(envelope.Data.Items) != 1 {
		t.Fatalf("unexpected payload %+v", envelope.Data)
	}
}

func TestCartFetchMissingSession(t *testing.T) {
	handler := CartFetch(&stubCartManager{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestCartAddItemSuccess(t *testing.T) {
	mgr := &stubCartManager{state: cartState()}
	handler := CartAddItem(mgr, nil)

	body := `{"variant_id":"v1","name":"Widget","quantity":2,"price":"10.00"}`
	req := withTestSession(httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body)))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if mgr.lastItem.VariantID != "v1" || mgr.lastItem.Quantity != 2 {
		t.Fatalf("unexpected item %+v", mgr.lastItem)
	}
	if mgr.lastItem.Price.Currency != cartsvc.DefaultCurrency {
		t.Fatalf("currency should default, got %q", mgr.lastItem.Price.Currency)
	}
	if !mgr.lastItem.Price.Amount.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("unexpected price %s", mgr.lastItem.Price.Amount)
	}
}

func TestCartAddItemValidation(t *testing.T) {
	handler := CartAddItem(&stubCartManager{}, nil)

	body := `{"name":"Widget","quantity":2,"price":"10.00"}`
	req := withTestSession(httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body)))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartAddItemBadPrice(t *testing.T) {
	handler := CartAddItem(&stubCartManager{}, nil)

	body := `{"variant_id":"v1","name":"Widget","quantity":2,"price":"ten"}`
	req := withTestSession(httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body)))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartUpdateLineRoutesParams(t *testing.T) {
	mgr := &stubCartManager{state: cartState()}

	r := chi.NewRouter()
	r.Patch("/cart/items/{lineId}", CartUpdateLine(mgr, nil))

	req := withTestSession(httptest.NewRequest(http.MethodPatch, "/cart/items/l1", strings.NewReader(`{"quantity":4}`)))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if mgr.lastLineID != "l1" || mgr.lastQuantity != 4 {
		t.Fatalf("unexpected update %q %d", mgr.lastLineID, mgr.lastQuantity)
	}
}

func TestCartUpdateLineRejectionMapsTo400(t *testing.T) {
	mgr := &stubCartManager{err: pkgerrors.New(pkgerrors.CodeValidation, "rejected: invalid quantity")}

	r := chi.NewRouter()
	r.Patch("/cart/items/{lineId}", CartUpdateLine(mgr, nil))

	req := withTestSession(httptest.NewRequest(http.MethodPatch, "/cart/items/l1", strings.NewReader(`{"quantity":-1}`)))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "invalid quantity") {
		t.Fatalf("message not surfaced: %s", resp.Body.String())
	}
}

func TestCartRemoveLine(t *testing.T) {
	mgr := &stubCartManager{state: cartsvc.State{}}

	r := chi.NewRouter()
	r.Delete("/cart/items/{lineId}", CartRemoveLine(mgr, nil))

	req := withTestSession(httptest.NewRequest(http.MethodDelete, "/cart/items/l1", nil))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if mgr.lastLineID != "l1" {
		t.Fatalf("unexpected line id %q", mgr.lastLineID)
	}
}
