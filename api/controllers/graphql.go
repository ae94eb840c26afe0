package controllers

import (
	"context"
	"io"
	"net/http"

	"github.com/angelmondragon/storefront-bff/api/responses"
	"github.com/angelmondragon/storefront-bff/internal/commerce"
	"github.com/angelmondragon/storefront-bff/internal/session"
	pkgerrors "github.com/angelmondragon/storefront-bff/pkg/errors"
	"github.com/angelmondragon/storefront-bff/pkg/logger"
)

// Forwarder is the raw pass-through surface of the commerce gateway.
type Forwarder interface {
	Forward(ctx context.Context, body []byte, bearerToken string) (*commerce.ForwardResult, error)
}

// GraphQLProxy forwards raw GraphQL requests to the commerce backend,
// injecting the channel header and the caller's bearer credential. Upstream
// replies pass through verbatim, status included.
func GraphQLProxy(client Forwarder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if client == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "commerce gateway unavailable"))
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request body"))
			return
		}
		if len(body) == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "request body is required"))
			return
		}

		result, err := client.Forward(r.Context(), body, session.Token(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		contentType := result.ContentType
		if contentType == "" {
			contentType = "application/json"
		}
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(result.StatusCode)
		if _, err := w.Write(result.Body); err != nil && logg != nil {
			logg.Error(r.Context(), "proxy.write_failed", err)
		}
	}
}
