package payment

import (
	"context"
	"fmt"
	"sync"

	"github.com/angelmondragon/storefront-bff/internal/cart"
	"github.com/angelmondragon/storefront-bff/internal/checkout"
	"github.com/angelmondragon/storefront-bff/internal/session"
	pkgerrors "github.com/angelmondragon/storefront-bff/pkg/errors"
	"github.com/angelmondragon/storefront-bff/pkg/logger"
)

// Status names one phase of a session's payment attempt.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusProcessing Status = "processing"
	StatusSucceeded  Status = "succeeded"
	StatusFailed     Status = "failed"
)

// Result is the queryable view of a session's latest attempt.
type Result struct {
	Status Status             `json:"status"`
	Reason string             `json:"reason,omitempty"`
	Order  *checkout.OrderRef `json:"order,omitempty"`
}

type cartAccess interface {
	Snapshot(ctx context.Context, sessionID string) (cart.State, error)
	Clear(ctx context.Context, sessionID string) (cart.State, error)
}

type completer interface {
	Complete(ctx context.Context, checkoutID string) (*checkout.OrderRef, error)
}

type widgetOpener interface {
	Open(order Order) (*Session, Options)
}

// attempt tracks one in-flight or settled payment. Fields other than the
// widget session are written under the orchestrator mutex; done closes after
// the terminal fields are set.
type attempt struct {
	checkoutID string
	widget     *Session
	done       chan struct{}

	status Status
	reason string
	order  *checkout.OrderRef
	err    error
}

// Orchestrator drives a session's cart through the hosted payment widget:
// open widget, await one of its two terminal callbacks, complete the remote
// checkout on success and clear the cart. One attempt in flight per session.
type Orchestrator struct {
	mu       sync.Mutex
	attempts map[string]*attempt

	carts     cartAccess
	checkouts completer
	widget    widgetOpener
	logg      *logger.Logger
}

// NewOrchestrator wires the payment flow.
func NewOrchestrator(carts cartAccess, checkouts completer, widget widgetOpener, logg *logger.Logger) (*Orchestrator, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart access required")
	}
	if checkouts == nil {
		return nil, fmt.Errorf("checkout service required")
	}
	if widget == nil {
		return nil, fmt.Errorf("widget provider required")
	}
	return &Orchestrator{
		attempts:  map[string]*attempt{},
		carts:     carts,
		checkouts: checkouts,
		widget:    widget,
		logg:      logg,
	}, nil
}

// Begin opens a widget session for the cart's checkout and returns the
// options the storefront renders it with. A second Begin while an attempt is
// processing is rejected; a cart without a checkout never reaches the widget.
func (o *Orchestrator) Begin(ctx context.Context, sessionID string) (Options, error) {
	if sessionID == "" {
		return Options{}, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}

	o.mu.Lock()
	if current, ok := o.attempts[sessionID]; ok && current.status == StatusProcessing {
		o.mu.Unlock()
		return Options{}, pkgerrors.New(pkgerrors.CodeStateConflict, "a payment is already in progress for this session")
	}
	o.mu.Unlock()

	state, err := o.carts.Snapshot(ctx, sessionID)
	if err != nil {
		return Options{}, err
	}
	if state.CheckoutID == "" {
		o.recordTerminal(sessionID, &attempt{status: StatusFailed, reason: "no checkout"})
		return Options{}, pkgerrors.New(pkgerrors.CodeValidation, "cart has no checkout to pay for")
	}

	order := Order{Reference: state.CheckoutID, Amount: state.Total}
	if sess, ok := session.FromContext(ctx); ok {
		order.Email = sess.Email
		order.Name = sess.Name
	}

	widgetSession, options := o.widget.Open(order)
	current := &attempt{
		checkoutID: state.CheckoutID,
		widget:     widgetSession,
		done:       make(chan struct{}),
		status:     StatusProcessing,
	}

	o.mu.Lock()
	if existing, ok := o.attempts[sessionID]; ok && existing.status == StatusProcessing {
		o.mu.Unlock()
		return Options{}, pkgerrors.New(pkgerrors.CodeStateConflict, "a payment is already in progress for this session")
	}
	o.attempts[sessionID] = current
	o.mu.Unlock()

	go o.settle(sessionID, current)
	return options, nil
}

// HandleSuccess resolves the widget session with the provider payload and
// waits for settlement: checkout completion then cart clear.
func (o *Orchestrator) HandleSuccess(ctx context.Context, sessionID string, payload SuccessPayload) (*checkout.OrderRef, error) {
	current, err := o.processing(sessionID)
	if err != nil {
		return nil, err
	}
	if !current.widget.Succeed(payload) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "payment attempt already resolved")
	}

	select {
	case <-current.done:
	case <-ctx.Done():
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, ctx.Err(), "payment settlement interrupted")
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if current.err != nil {
		return nil, current.err
	}
	return current.order, nil
}

// HandleDismiss resolves the widget session as abandoned. The checkout is
// never completed and the cart stays intact.
func (o *Orchestrator) HandleDismiss(ctx context.Context, sessionID string) error {
	current, err := o.processing(sessionID)
	if err != nil {
		return err
	}
	if !current.widget.Dismiss() {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "payment attempt already resolved")
	}

	select {
	case <-current.done:
	case <-ctx.Done():
		return pkgerrors.Wrap(pkgerrors.CodeInternal, ctx.Err(), "payment settlement interrupted")
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	return current.err
}

// Status reports the session's latest attempt.
func (o *Orchestrator) Status(sessionID string) Result {
	o.mu.Lock()
	defer o.mu.Unlock()
	current, ok := o.attempts[sessionID]
	if !ok {
		return Result{Status: StatusIdle}
	}
	return Result{Status: current.status, Reason: current.reason, Order: current.order}
}

func (o *Orchestrator) processing(sessionID string) (*attempt, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	current, ok := o.attempts[sessionID]
	if !ok || current.status != StatusProcessing {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "no payment in progress for this session")
	}
	return current, nil
}

// settle awaits the widget's terminal callback and finishes the attempt.
// Settlement runs detached from any single request context.
func (o *Orchestrator) settle(sessionID string, current *attempt) {
	ctx := context.Background()
	outcome, err := current.widget.Wait(ctx)
	if err != nil {
		o.finish(sessionID, current, StatusFailed, "widget wait interrupted", nil,
			pkgerrors.Wrap(pkgerrors.CodeInternal, err, "awaiting payment widget"))
		return
	}

	if !outcome.Completed {
		o.finish(sessionID, current, StatusFailed, "cancelled by shopper", nil,
			pkgerrors.New(pkgerrors.CodePaymentCancelled, "payment widget dismissed before completion"))
		return
	}

	orderRef, err := o.checkouts.Complete(ctx, current.checkoutID)
	if err != nil {
		o.finish(sessionID, current, StatusFailed, "checkout completion failed", nil, err)
		return
	}

	if _, err := o.carts.Clear(ctx, sessionID); err != nil && o.logg != nil {
		lctx := o.logg.WithSessionID(ctx, sessionID)
		o.logg.Error(lctx, "payment.cart_clear_failed", err)
	}
	o.finish(sessionID, current, StatusSucceeded, "", orderRef, nil)
}

func (o *Orchestrator) finish(sessionID string, current *attempt, status Status, reason string, order *checkout.OrderRef, err error) {
	o.mu.Lock()
	current.status = status
	current.reason = reason
	current.order = order
	current.err = err
	o.mu.Unlock()
	close(current.done)

	if err != nil && o.logg != nil {
		ctx := o.logg.WithFields(context.Background(), map[string]any{
			"session_id":  sessionID,
			"checkout_id": current.checkoutID,
			"reason":      reason,
		})
		o.logg.Error(ctx, "payment.attempt_failed", err)
	}
}

func (o *Orchestrator) recordTerminal(sessionID string, current *attempt) {
	current.done = make(chan struct{})
	close(current.done)
	o.mu.Lock()
	o.attempts[sessionID] = current
	o.mu.Unlock()
}
