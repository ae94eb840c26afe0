package payment

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-bff/internal/cart"
	"github.com/angelmondragon/storefront-bff/internal/checkout"
	"github.com/angelmondragon/storefront-bff/internal/session"
	"github.com/angelmondragon/storefront-bff/pkg/config"
	pkgerrors "github.com/angelmondragon/storefront-bff/pkg/errors"
	"github.com/angelmondragon/storefront-bff/pkg/types"
)

type stubCarts struct {
	state      cart.State
	snapErr    error
	clearErr   error
	clearCalls int
}

func (c *stubCarts) Snapshot(_ context.Context, _ string) (cart.State, error) {
	if c.snapErr != nil {
		return cart.State{}, c.snapErr
	}
	return c.state, nil
}

func (c *stubCarts) Clear(_ context.Context, _ string) (cart.State, error) {
	c.clearCalls++
	if c.clearErr != nil {
		return cart.State{}, c.clearErr
	}
	return cart.State{}, nil
}

type stubCompleter struct {
	completeCalls []string
	err           error
	order         *checkout.OrderRef
}

func (c *stubCompleter) Complete(_ context.Context, checkoutID string) (*checkout.OrderRef, error) {
	c.completeCalls = append(c.completeCalls, checkoutID)
	if c.err != nil {
		return nil, c.err
	}
	if c.order != nil {
		return c.order, nil
	}
	return &checkout.OrderRef{OrderID: "ord-1", OrderNumber: "1001"}, nil
}

func cartWithCheckout(amount float64) cart.State {
	return cart.State{
		CheckoutID: "chk-1",
		Total:      types.NewMoney(decimal.NewFromFloat(amount), "USD"),
	}
}

func newTestOrchestrator(t *testing.T, carts *stubCarts, checkouts *stubCompleter) *Orchestrator {
	t.Helper()
	provider, err := NewProvider(config.RazorpayConfig{
		KeyID:       "rzp_test_key",
		DisplayName: "Storefront",
		ThemeColor:  "#1a1a2e",
	})
	if err != nil {
		t.Fatalf("NewProvider failed: %v", err)
	}
	orch, err := NewOrchestrator(carts, checkouts, provider, nil)
	if err != nil {
		t.Fatalf("NewOrchestrator failed: %v", err)
	}
	return orch
}

func TestBeginWithoutCheckoutFails(t *testing.T) {
	carts := &stubCarts{state: cart.State{}}
	checkouts := &stubCompleter{}
	orch := newTestOrchestrator(t, carts, checkouts)

	_, err := orch.Begin(context.Background(), "s1")
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	result := orch.Status("s1")
	if result.Status != StatusFailed || result.Reason != "no checkout" {
		t.Fatalf("unexpected status %+v", result)
	}
	if len(checkouts.completeCalls) != 0 {
		t.Fatalf("no completion expected")
	}
}

func TestBeginBuildsWidgetOptions(t *testing.T) {
	carts := &stubCarts{state: cartWithCheckout(20.50)}
	orch := newTestOrchestrator(t, carts, &stubCompleter{})
	ctx := session.WithSession(context.Background(), session.Session{
		ID:    "s1",
		Email: "buyer@example.com",
		Name:  "Ada Buyer",
	})

	opts, err := orch.Begin(ctx, "s1")
	if err != nil {
		t.Fatalf("begin failed: %v", err)
	}

	if opts.Key != "rzp_test_key" {
		t.Fatalf("unexpected key %q", opts.Key)
	}
	if opts.Amount != 2050 {
		t.Fatalf("expected minor units 2050, got %d", opts.Amount)
	}
	if opts.Currency != "USD" || opts.Reference != "chk-1" {
		t.Fatalf("unexpected options %+v", opts)
	}
	if opts.Prefill.Email != "buyer@example.com" || opts.Prefill.Name != "Ada Buyer" {
		t.Fatalf("prefill not carried: %+v", opts.Prefill)
	}
	if opts.AttemptID == "" {
		t.Fatalf("attempt id should be assigned")
	}
	if orch.Status("s1").Status != StatusProcessing {
		t.Fatalf("attempt should be processing")
	}
}

func TestBeginIsReentryGuarded(t *testing.T) {
	carts := &stubCarts{state: cartWithCheckout(10)}
	orch := newTestOrchestrator(t, carts, &stubCompleter{})
	ctx := context.Background()

	if _, err := orch.Begin(ctx, "s1"); err != nil {
		t.Fatalf("first begin failed: %v", err)
	}
	if _, err := orch.Begin(ctx, "s1"); !pkgerrors.HasCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestSuccessCompletesCheckoutAndClearsCart(t *testing.T) {
	carts := &stubCarts{state: cartWithCheckout(10)}
	checkouts := &stubCompleter{}
	orch := newTestOrchestrator(t, carts, checkouts)
	ctx := context.Background()

	if _, err := orch.Begin(ctx, "s1"); err != nil {
		t.Fatalf("begin failed: %v", err)
	}

	order, err := orch.HandleSuccess(ctx, "s1", SuccessPayload{PaymentID: "pay_1"})
	if err != nil {
		t.Fatalf("success handling failed: %v", err)
	}
	if order == nil || order.OrderNumber != "1001" {
		t.Fatalf("unexpected order ref %+v", order)
	}
	if len(checkouts.completeCalls) != 1 || checkouts.completeCalls[0] != "chk-1" {
		t.Fatalf("unexpected completion calls %v", checkouts.completeCalls)
	}
	if carts.clearCalls != 1 {
		t.Fatalf("cart should be cleared once, got %d", carts.clearCalls)
	}

	result := orch.Status("s1")
	if result.Status != StatusSucceeded || result.Order == nil {
		t.Fatalf("unexpected status %+v", result)
	}

	// A settled attempt no longer blocks a fresh one.
	if _, err := orch.Begin(ctx, "s1"); err != nil {
		t.Fatalf("begin after settlement failed: %v", err)
	}
}

func TestCompletionFailureKeepsCart(t *testing.T) {
	carts := &stubCarts{state: cartWithCheckout(10)}
	checkouts := &stubCompleter{err: pkgerrors.New(pkgerrors.CodeCommerce, "insufficient stock")}
	orch := newTestOrchestrator(t, carts, checkouts)
	ctx := context.Background()

	if _, err := orch.Begin(ctx, "s1"); err != nil {
		t.Fatalf("begin failed: %v", err)
	}

	_, err := orch.HandleSuccess(ctx, "s1", SuccessPayload{PaymentID: "pay_1"})
	if !pkgerrors.HasCode(err, pkgerrors.CodeCommerce) {
		t.Fatalf("expected commerce error, got %v", err)
	}
	if carts.clearCalls != 0 {
		t.Fatalf("cart must stay intact on completion failure")
	}
	if orch.Status("s1").Status != StatusFailed {
		t.Fatalf("attempt should be failed")
	}
}

func TestDismissSkipsCompletion(t *testing.T) {
	carts := &stubCarts{state: cartWithCheckout(10)}
	checkouts := &stubCompleter{}
	orch := newTestOrchestrator(t, carts, checkouts)
	ctx := context.Background()

	if _, err := orch.Begin(ctx, "s1"); err != nil {
		t.Fatalf("begin failed: %v", err)
	}

	err := orch.HandleDismiss(ctx, "s1")
	if !pkgerrors.HasCode(err, pkgerrors.CodePaymentCancelled) {
		t.Fatalf("expected payment cancelled, got %v", err)
	}
	if len(checkouts.completeCalls) != 0 {
		t.Fatalf("dismissal must not complete the checkout")
	}
	if carts.clearCalls != 0 {
		t.Fatalf("cart must stay intact on dismissal")
	}

	result := orch.Status("s1")
	if result.Status != StatusFailed || result.Reason != "cancelled by shopper" {
		t.Fatalf("unexpected status %+v", result)
	}
}

func TestCallbacksWithoutAttemptConflict(t *testing.T) {
	orch := newTestOrchestrator(t, &stubCarts{}, &stubCompleter{})
	ctx := context.Background()

	if _, err := orch.HandleSuccess(ctx, "s1", SuccessPayload{PaymentID: "pay_1"}); !pkgerrors.HasCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected state conflict, got %v", err)
	}
	if err := orch.HandleDismiss(ctx, "s1"); !pkgerrors.HasCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected state conflict, got %v", err)
	}
	if orch.Status("s1").Status != StatusIdle {
		t.Fatalf("untouched session should be idle")
	}
}
