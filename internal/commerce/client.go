package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/angelmondragon/storefront-bff/pkg/config"
	pkgerrors "github.com/angelmondragon/storefront-bff/pkg/errors"
	"github.com/angelmondragon/storefront-bff/pkg/logger"
)

// ChannelHeader carries the catalog channel on every upstream call.
const ChannelHeader = "saleor-channel"

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client executes GraphQL operations against the commerce backend. It is the
// only component that talks to the upstream; everything above it sees typed
// domain records or typed errors.
type Client struct {
	http     httpDoer
	endpoint string
	channel  string
	pageSize int
	logg     *logger.Logger
}

// NewClient validates the commerce configuration and builds the gateway.
func NewClient(cfg config.CommerceConfig, logg *logger.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.APIURL) == "" {
		return nil, fmt.Errorf("commerce api url required")
	}
	if strings.TrimSpace(cfg.Channel) == "" {
		return nil, fmt.Errorf("commerce channel required")
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	return &Client{
		http:     &http.Client{Timeout: cfg.RequestTimeout},
		endpoint: cfg.APIURL,
		channel:  cfg.Channel,
		pageSize: pageSize,
		logg:     logg,
	}, nil
}

// Channel returns the configured catalog channel identifier.
func (c *Client) Channel() string {
	if c == nil {
		return ""
	}
	return c.channel
}

// PageSize returns the default page size for list queries.
func (c *Client) PageSize() int {
	if c == nil {
		return 0
	}
	return c.pageSize
}

// Endpoint returns the upstream GraphQL URL, used by the proxy controller.
func (c *Client) Endpoint() string {
	if c == nil {
		return ""
	}
	return c.endpoint
}

// Request describes one GraphQL operation invocation.
type Request struct {
	OperationName string
	Query         string
	Variables     map[string]any
	BearerToken   string
}

type graphQLError struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type graphQLEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

// Execute posts the operation and returns the raw data payload. GraphQL-level
// errors count as failure even on HTTP 200.
func (c *Client) Execute(ctx context.Context, req Request) (json.RawMessage, error) {
	body, err := json.Marshal(map[string]any{
		"operationName": req.OperationName,
		"query":         req.Query,
		"variables":     req.Variables,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode graphql request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build graphql request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set(ChannelHeader, c.channel)
	if req.BearerToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.BearerToken)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeTransport, err, fmt.Sprintf("execute %s", req.OperationName))
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeTransport, err, fmt.Sprintf("read %s response", req.OperationName))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, pkgerrors.New(pkgerrors.CodeUpstream,
			fmt.Sprintf("%s returned status %d", req.OperationName, resp.StatusCode))
	}

	var envelope graphQLEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeMalformed, err, fmt.Sprintf("decode %s response", req.OperationName))
	}

	if len(envelope.Errors) > 0 {
		messages := make([]string, 0, len(envelope.Errors))
		for _, gqlErr := range envelope.Errors {
			messages = append(messages, gqlErr.Message)
		}
		if c.logg != nil {
			c.logg.Warn(c.logg.WithFields(ctx, map[string]any{
				"operation": req.OperationName,
				"errors":    messages,
			}), "commerce.operation_rejected")
		}
		return nil, pkgerrors.New(pkgerrors.CodeCommerce,
			fmt.Sprintf("%s rejected", req.OperationName)).
			WithDetails(map[string]any{"errors": messages})
	}

	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return nil, pkgerrors.New(pkgerrors.CodeMalformed,
			fmt.Sprintf("%s returned no data", req.OperationName))
	}

	return envelope.Data, nil
}

// ForwardResult is the upstream's verbatim reply to a proxied request.
type ForwardResult struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// Forward posts a raw request body upstream unchanged, injecting the channel
// header and optional bearer credential. The reply is returned verbatim so
// the proxy boundary can mirror upstream status and body.
func (c *Client) Forward(ctx context.Context, body []byte, bearerToken string) (*ForwardResult, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build proxy request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set(ChannelHeader, c.channel)
	if bearerToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+bearerToken)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeTransport, err, "forward graphql request")
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeTransport, err, "read proxied response")
	}

	return &ForwardResult{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        payload,
	}, nil
}
