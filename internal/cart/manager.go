package cart

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/angelmondragon/storefront-bff/internal/checkout"
	"github.com/angelmondragon/storefront-bff/internal/commerce"
	"github.com/angelmondragon/storefront-bff/internal/session"
	"github.com/angelmondragon/storefront-bff/pkg/logger"
)

type remoteCheckout interface {
	Create(ctx context.Context, email string, lines []commerce.CheckoutLineInput) (*checkout.Checkout, error)
	AddLines(ctx context.Context, checkoutID string, lines []commerce.CheckoutLineInput) (*checkout.Checkout, error)
	UpdateLine(ctx context.Context, checkoutID, lineID string, quantity int) (*checkout.Checkout, error)
}

// Manager couples local cart mutation with the best-effort remote checkout
// mirror. Local state commits first and is never rolled back on remote
// failure; drift toward the remote resource is accepted.
type Manager struct {
	store  *Store
	remote remoteCheckout
	logg   *logger.Logger
}

// NewManager builds the reconciling cart manager.
func NewManager(store *Store, remote remoteCheckout, logg *logger.Logger) (*Manager, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if remote == nil {
		return nil, fmt.Errorf("checkout service required")
	}
	return &Manager{store: store, remote: remote, logg: logg}, nil
}

// Snapshot returns the session's current cart.
func (m *Manager) Snapshot(ctx context.Context, sessionID string) (State, error) {
	return m.store.Snapshot(ctx, sessionID)
}

// AddItem commits the line locally, then mirrors it to the remote checkout:
// the first add in a session creates the resource with exactly the incoming
// line; later adds send the incoming line only and rely on the server's own
// merge-by-variant.
func (m *Manager) AddItem(ctx context.Context, sessionID string, item Item) (State, error) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	state, err := m.store.AddItem(ctx, sessionID, item)
	if err != nil {
		return State{}, err
	}

	line := commerce.CheckoutLineInput{VariantID: item.VariantID, Quantity: item.Quantity}

	if state.CheckoutID == "" {
		email := ""
		if sess, ok := session.FromContext(ctx); ok {
			email = sess.Email
		}
		created, err := m.remote.Create(ctx, email, []commerce.CheckoutLineInput{line})
		if err != nil {
			m.logSyncFailure(ctx, sessionID, "create checkout", err)
			return state, nil
		}
		state, err = m.store.SetCheckoutID(ctx, sessionID, created.ID)
		if err != nil {
			return State{}, err
		}
		return state, nil
	}

	if _, err := m.remote.AddLines(ctx, state.CheckoutID, []commerce.CheckoutLineInput{line}); err != nil {
		m.logSyncFailure(ctx, sessionID, "add checkout line", err)
	}
	return state, nil
}

// UpdateQuantity commits the change locally, then mirrors it to the remote
// line when a checkout resource exists. Without one the update stays
// local-only until the first add creates it.
func (m *Manager) UpdateQuantity(ctx context.Context, sessionID, lineID string, quantity int) (State, error) {
	state, err := m.store.UpdateQuantity(ctx, sessionID, lineID, quantity)
	if err != nil {
		return State{}, err
	}

	if state.CheckoutID != "" {
		if _, err := m.remote.UpdateLine(ctx, state.CheckoutID, lineID, quantity); err != nil {
			m.logSyncFailure(ctx, sessionID, "update checkout line", err)
		}
	}
	return state, nil
}

// RemoveItem is local-only; the remote checkout keeps the line until
// completion re-reads the server's view.
func (m *Manager) RemoveItem(ctx context.Context, sessionID, lineID string) (State, error) {
	return m.store.RemoveItem(ctx, sessionID, lineID)
}

// Clear resets the cart and removes the persisted snapshot.
func (m *Manager) Clear(ctx context.Context, sessionID string) (State, error) {
	return m.store.Clear(ctx, sessionID)
}

func (m *Manager) logSyncFailure(ctx context.Context, sessionID, operation string, err error) {
	if m.logg == nil {
		return
	}
	ctx = m.logg.WithFields(ctx, map[string]any{
		"session_id": sessionID,
		"operation":  operation,
	})
	m.logg.Error(ctx, "cart.remote_sync_failed", err)
}
