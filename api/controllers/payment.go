package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/storefront-bff/api/responses"
	"github.com/angelmondragon/storefront-bff/api/validators"
	checkoutsvc "github.com/angelmondragon/storefront-bff/internal/checkout"
	paymentsvc "github.com/angelmondragon/storefront-bff/internal/payment"
	pkgerrors "github.com/angelmondragon/storefront-bff/pkg/errors"
	"github.com/angelmondragon/storefront-bff/pkg/logger"
)

// PaymentFlow is the orchestration surface the payment controllers drive.
type PaymentFlow interface {
	Begin(ctx context.Context, sessionID string) (paymentsvc.Options, error)
	HandleSuccess(ctx context.Context, sessionID string, payload paymentsvc.SuccessPayload) (*checkoutsvc.OrderRef, error)
	HandleDismiss(ctx context.Context, sessionID string) error
	Status(sessionID string) paymentsvc.Result
}

// PaymentBegin opens a widget session for the cart's checkout and returns
// the options that render it.
func PaymentBegin(flow PaymentFlow, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if flow == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment unavailable"))
			return
		}

		sessionID, err := sessionIDFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		options, err := flow.Begin(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, options)
	}
}

type paymentSuccessRequest struct {
	PaymentID string `json:"payment_id" validate:"required"`
	OrderID   string `json:"order_id"`
	Signature string `json:"signature"`
}

// PaymentSuccess is the widget's success callback: it settles the attempt by
// completing the checkout and clearing the cart.
func PaymentSuccess(flow PaymentFlow, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if flow == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment unavailable"))
			return
		}

		sessionID, err := sessionIDFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload paymentSuccessRequest
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := flow.HandleSuccess(r.Context(), sessionID, paymentsvc.SuccessPayload{
			PaymentID: payload.PaymentID,
			OrderID:   payload.OrderID,
			Signature: payload.Signature,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

// PaymentDismiss is the widget's dismissal callback. The checkout stays open
// and the cart keeps its lines.
func PaymentDismiss(flow PaymentFlow, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if flow == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment unavailable"))
			return
		}

		sessionID, err := sessionIDFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := flow.HandleDismiss(r.Context(), sessionID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, flow.Status(sessionID))
	}
}

// PaymentStatus reports the session's latest payment attempt.
func PaymentStatus(flow PaymentFlow, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if flow == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment unavailable"))
			return
		}

		sessionID, err := sessionIDFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, flow.Status(sessionID))
	}
}
