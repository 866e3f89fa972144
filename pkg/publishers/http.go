package publishers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/totoapp/expenses-client/pkg/httpclient"
)

// HeaderEventOperation carries the operation name so webhooks can route without decoding the body.
const HeaderEventOperation = "x-event-operation"

// httpPublisher posts mutation events as JSON to a webhook.
type httpPublisher struct {
	id      string
	method  string
	url     string
	headers map[string]string
	client  *resty.Client
	log     Logger
}

func newHTTPPublisher(_ context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.HTTP == nil {
		return nil, fmt.Errorf("publisher %q missing http configuration", cfg.ID)
	}

	return &httpPublisher{
		id:      cfg.ID,
		method:  cfg.HTTP.Method,
		url:     cfg.HTTP.URL,
		headers: cfg.HTTP.Headers,
		client:  httpclient.NewRestyHTTPClient(time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second),
		log:     ensureLogger(log),
	}, nil
}

func (h *httpPublisher) ID() string   { return h.id }
func (h *httpPublisher) Type() string { return TypeHTTP }

// Publish delivers one event. Any non-2xx answer from the webhook is an error.
func (h *httpPublisher) Publish(ctx context.Context, evt Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	req := h.client.R().
		SetContext(ctx).
		SetHeaders(h.headers).
		SetHeader("Content-Type", "application/json").
		SetHeader(HeaderEventOperation, evt.Operation).
		SetBody(payload)
	if evt.CorrelationID != "" {
		req.SetHeader(httpclient.HeaderCorrelationID, evt.CorrelationID)
	}

	resp, err := req.Execute(h.method, h.url)
	if err != nil {
		h.log.ErrorObj("http publisher send failed", "publisher_http_error", map[string]any{
			"publisher_id": h.id,
			"operation":    evt.Operation,
			"error":        err.Error(),
		})
		return fmt.Errorf("http request: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("webhook %s answered status %d: %s", h.id, resp.StatusCode(), readBodySnippet(resp.Body()))
	}

	h.log.DebugObj("http publisher delivered event", "publisher_http_delivery", map[string]any{
		"publisher_id": h.id,
		"operation":    evt.Operation,
		"status":       resp.StatusCode(),
	})
	return nil
}

func readBodySnippet(body []byte) string {
	body = []byte(strings.TrimSpace(string(body)))
	if len(body) > 256 {
		body = body[:256]
	}
	return string(body)
}
