package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	pkgerrors "github.com/angelmondragon/storefront-bff/pkg/errors"
	"github.com/angelmondragon/storefront-bff/pkg/logger"
)

// Persister is the durable snapshot storage behind the store. Snapshots are
// whole-state overwrites keyed by session; clear removes the key entirely.
type Persister interface {
	SaveCartSnapshot(ctx context.Context, sessionID, payload string) error
	GetCartSnapshot(ctx context.Context, sessionID string) (string, bool, error)
	DeleteCartSnapshot(ctx context.Context, sessionID string) error
}

// Store owns every session's cart state. All mutations run under one lock so
// overlapping calls serialize in the order their mutation step ran; the
// persisted snapshot is written through synchronously before the lock is
// released.
type Store struct {
	mu        sync.Mutex
	states    map[string]State
	persister Persister
	logg      *logger.Logger
}

// NewStore builds the cart store over the given snapshot persister.
func NewStore(persister Persister, logg *logger.Logger) (*Store, error) {
	if persister == nil {
		return nil, fmt.Errorf("cart persister required")
	}
	return &Store{
		states:    make(map[string]State),
		persister: persister,
		logg:      logg,
	}, nil
}

// Snapshot returns the session's current cart state, restoring it from the
// persisted snapshot on first access. A missing snapshot yields the empty
// state. The restored snapshot is trusted unconditionally; no merge with
// server state is attempted.
func (s *Store) Snapshot(ctx context.Context, sessionID string) (State, error) {
	if err := requireSession(sessionID); err != nil {
		return State{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx, sessionID)
}

// AddItem merges or appends the item and persists the result.
func (s *Store) AddItem(ctx context.Context, sessionID string, item Item) (State, error) {
	if err := requireSession(sessionID); err != nil {
		return State{}, err
	}
	if err := validateItem(item); err != nil {
		return State{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.loadLocked(ctx, sessionID)
	if err != nil {
		return State{}, err
	}
	next := reduceAdd(state, item)
	s.commitLocked(ctx, sessionID, next)
	return next.clone(), nil
}

// UpdateQuantity sets a line's quantity. Non-positive quantities are rejected
// with an explicit validation error and no state change; unknown line ids are
// a silent no-op matching removeItem's tolerance.
func (s *Store) UpdateQuantity(ctx context.Context, sessionID, lineID string, quantity int) (State, error) {
	if err := requireSession(sessionID); err != nil {
		return State{}, err
	}
	if quantity < 1 {
		return State{}, pkgerrors.New(pkgerrors.CodeValidation, "rejected: invalid quantity").
			WithDetails(map[string]any{"quantity": quantity})
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.loadLocked(ctx, sessionID)
	if err != nil {
		return State{}, err
	}
	next, changed := reduceUpdateQuantity(state, lineID, quantity)
	if !changed {
		return state.clone(), nil
	}
	s.commitLocked(ctx, sessionID, next)
	return next.clone(), nil
}

// RemoveItem deletes the line with the given line id and persists the result.
func (s *Store) RemoveItem(ctx context.Context, sessionID, lineID string) (State, error) {
	if err := requireSession(sessionID); err != nil {
		return State{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.loadLocked(ctx, sessionID)
	if err != nil {
		return State{}, err
	}
	next := reduceRemove(state, lineID)
	s.commitLocked(ctx, sessionID, next)
	return next.clone(), nil
}

// SetCheckoutID records the remote checkout reference on the session's cart.
func (s *Store) SetCheckoutID(ctx context.Context, sessionID, checkoutID string) (State, error) {
	if err := requireSession(sessionID); err != nil {
		return State{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.loadLocked(ctx, sessionID)
	if err != nil {
		return State{}, err
	}
	next := reduceSetCheckoutID(state, checkoutID)
	s.commitLocked(ctx, sessionID, next)
	return next.clone(), nil
}

// Clear resets the session's cart to the empty initial state and removes the
// persisted snapshot entirely.
func (s *Store) Clear(ctx context.Context, sessionID string) (State, error) {
	if err := requireSession(sessionID); err != nil {
		return State{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.states[sessionID] = emptyState()
	if err := s.persister.DeleteCartSnapshot(ctx, sessionID); err != nil {
		if s.logg != nil {
			s.logg.Error(s.logg.WithSessionID(ctx, sessionID), "cart.snapshot_delete_failed", err)
		}
		return State{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart snapshot")
	}
	return emptyState(), nil
}

// loadLocked returns the in-memory state, restoring from the persister on the
// session's first touch. Callers must hold the lock.
func (s *Store) loadLocked(ctx context.Context, sessionID string) (State, error) {
	if state, ok := s.states[sessionID]; ok {
		return state, nil
	}

	payload, found, err := s.persister.GetCartSnapshot(ctx, sessionID)
	if err != nil {
		return State{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart snapshot")
	}
	if !found {
		state := emptyState()
		s.states[sessionID] = state
		return state, nil
	}

	var state State
	if err := json.Unmarshal([]byte(payload), &state); err != nil {
		// A corrupt snapshot is unrecoverable; start fresh rather than
		// failing every cart operation for the session.
		if s.logg != nil {
			s.logg.Warn(s.logg.WithSessionID(ctx, sessionID), "cart.snapshot_corrupt_resetting")
		}
		state = emptyState()
	}
	if state.Items == nil {
		state.Items = []Item{}
	}
	s.states[sessionID] = state
	return state, nil
}

// commitLocked stores the next state in memory and writes the snapshot
// through. A failed write is logged but does not revert the committed state.
func (s *Store) commitLocked(ctx context.Context, sessionID string, next State) {
	s.states[sessionID] = next
	payload, err := json.Marshal(next)
	if err != nil {
		if s.logg != nil {
			s.logg.Error(s.logg.WithSessionID(ctx, sessionID), "cart.snapshot_encode_failed", err)
		}
		return
	}
	if err := s.persister.SaveCartSnapshot(ctx, sessionID, string(payload)); err != nil {
		if s.logg != nil {
			s.logg.Error(s.logg.WithSessionID(ctx, sessionID), "cart.snapshot_write_failed", err)
		}
	}
}

func validateItem(item Item) error {
	if strings.TrimSpace(item.VariantID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "variant id is required")
	}
	if item.Quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "rejected: invalid quantity").
			WithDetails(map[string]any{"quantity": item.Quantity})
	}
	if item.Price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be non-negative")
	}
	return nil
}

func requireSession(sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	return nil
}
