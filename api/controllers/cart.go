package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-bff/api/responses"
	"github.com/angelmondragon/storefront-bff/api/validators"
	cartsvc "github.com/angelmondragon/storefront-bff/internal/cart"
	pkgerrors "github.com/angelmondragon/storefront-bff/pkg/errors"
	"github.com/angelmondragon/storefront-bff/pkg/logger"
	"github.com/angelmondragon/storefront-bff/pkg/types"
)

// CartManager is the cart surface the controllers drive.
type CartManager interface {
	Snapshot(ctx context.Context, sessionID string) (cartsvc.State, error)
	AddItem(ctx context.Context, sessionID string, item cartsvc.Item) (cartsvc.State, error)
	UpdateQuantity(ctx context.Context, sessionID, lineID string, quantity int) (cartsvc.State, error)
	RemoveItem(ctx context.Context, sessionID, lineID string) (cartsvc.State, error)
	Clear(ctx context.Context, sessionID string) (cartsvc.State, error)
}

// CartFetch returns the session's current cart.
func CartFetch(mgr CartManager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if mgr == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart unavailable"))
			return
		}

		sessionID, err := sessionIDFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		state, err := mgr.Snapshot(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, state)
	}
}

type addItemRequest struct {
	ProductID    string `json:"product_id"`
	VariantID    string `json:"variant_id" validate:"required"`
	Name         string `json:"name" validate:"required"`
	Quantity     int    `json:"quantity" validate:"required,min=1"`
	Price        string `json:"price" validate:"required"`
	Currency     string `json:"currency"`
	ThumbnailURL string `json:"thumbnail_url"`
}

func (p addItemRequest) toItem() (cartsvc.Item, error) {
	amount, err := decimal.NewFromString(p.Price)
	if err != nil {
		return cartsvc.Item{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price")
	}
	currency := p.Currency
	if currency == "" {
		currency = cartsvc.DefaultCurrency
	}
	return cartsvc.Item{
		ProductID:    p.ProductID,
		VariantID:    p.VariantID,
		Name:         p.Name,
		Quantity:     p.Quantity,
		Price:        types.NewMoney(amount, currency),
		ThumbnailURL: p.ThumbnailURL,
	}, nil
}

// CartAddItem adds a line to the session's cart.
func CartAddItem(mgr CartManager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if mgr == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart unavailable"))
			return
		}

		sessionID, err := sessionIDFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addItemRequest
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := payload.toItem()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		state, err := mgr.AddItem(r.Context(), sessionID, item)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, state)
	}
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"required"`
}

// CartUpdateLine changes one line's quantity.
func CartUpdateLine(mgr CartManager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if mgr == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart unavailable"))
			return
		}

		sessionID, err := sessionIDFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lineID := strings.TrimSpace(chi.URLParam(r, "lineId"))
		if lineID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "line id is required"))
			return
		}

		var payload updateQuantityRequest
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		state, err := mgr.UpdateQuantity(r.Context(), sessionID, lineID, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, state)
	}
}

// CartRemoveLine drops one line from the session's cart.
func CartRemoveLine(mgr CartManager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if mgr == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart unavailable"))
			return
		}

		sessionID, err := sessionIDFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lineID := strings.TrimSpace(chi.URLParam(r, "lineId"))
		if lineID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "line id is required"))
			return
		}

		state, err := mgr.RemoveItem(r.Context(), sessionID, lineID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, state)
	}
}

// CartClear empties the session's cart.
func CartClear(mgr CartManager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if mgr == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart unavailable"))
			return
		}

		sessionID, err := sessionIDFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		state, err := mgr.Clear(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, state)
	}
}
