package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

const (
	// HeaderCorrelationID is attached to every outgoing request.
	HeaderCorrelationID = "x-correlation-id"

	uploadFieldName = "file"
	defaultTimeout  = 15 * time.Second
)

// Options configures a RestyClient.
type Options struct {
	BaseURL  string
	Timeout  time.Duration
	Headers  map[string]string
	Logger   Logger
	Observer Observer
}

// RestyClient implements Transport on top of resty.Client.
type RestyClient struct {
	client   *resty.Client
	log      Logger
	observer Observer
}

var _ Transport = (*RestyClient)(nil)

// NewRestyClient creates a transport bound to the configured base URL.
func NewRestyClient(opts Options) *RestyClient {
	c := newRestyBaseClient(opts.Timeout)
	if base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"); base != "" {
		c.SetBaseURL(base)
	}
	c.SetHeader("Accept", "application/json")
	if len(opts.Headers) > 0 {
		c.SetHeaders(opts.Headers)
	}
	return &RestyClient{
		client:   c,
		log:      ensureLogger(opts.Logger),
		observer: opts.Observer,
	}
}

// NewRestyHTTPClient exposes a configured resty.Client for callers needing custom verbs.
func NewRestyHTTPClient(timeout time.Duration) *resty.Client {
	return newRestyBaseClient(timeout)
}

// newRestyBaseClient creates a resty.Client with the given timeout and retries disabled.
func newRestyBaseClient(timeout time.Duration) *resty.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	c := resty.New()
	c.SetTimeout(timeout)
	c.SetRetryCount(0)
	return c
}

// Request performs one call with an optional JSON body.
func (r *RestyClient) Request(ctx context.Context, path string, opts RequestOptions) (json.RawMessage, error) {
	method := normalizeMethod(opts.Method, http.MethodGet)

	req := r.client.R().SetContext(ctx)
	req.SetHeader(HeaderCorrelationID, uuid.NewString())
	if opts.Body != nil {
		payload, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, fmt.Errorf("marshal %s body: %w", opts.Operation, err)
		}
		req.SetHeader("Content-Type", "application/json")
		req.SetBody(payload)
	}
	if len(opts.Headers) > 0 {
		req.SetHeaders(opts.Headers)
	}

	return r.execute(req, method, path, opts.Operation)
}

// UploadFile sends the file as multipart/form-data under the "file" field.
func (r *RestyClient) UploadFile(ctx context.Context, path string, file File, opts RequestOptions) (json.RawMessage, error) {
	if file.Reader == nil {
		return nil, errors.New("upload file reader is nil")
	}
	method := normalizeMethod(opts.Method, http.MethodPost)

	name := strings.TrimSpace(file.Name)
	if name == "" {
		name = uploadFieldName
	}

	req := r.client.R().SetContext(ctx)
	req.SetHeader(HeaderCorrelationID, uuid.NewString())
	if len(opts.Headers) > 0 {
		req.SetHeaders(opts.Headers)
	}
	req.SetFileReader(uploadFieldName, name, file.Reader)

	return r.execute(req, method, path, opts.Operation)
}

func (r *RestyClient) execute(req *resty.Request, method, path, operation string) (json.RawMessage, error) {
	start := time.Now()
	resp, err := req.Execute(method, path)
	elapsed := time.Since(start)
	correlationID := req.Header.Get(HeaderCorrelationID)

	if err != nil {
		err = fmt.Errorf("http %s %s: %w", method, path, err)
		r.observe(operation, method, 0, elapsed, err)
		r.log.WarnObj("http request failed", "http_error", map[string]any{
			"operation":      operation,
			"method":         method,
			"path":           path,
			"correlation_id": correlationID,
			"error":          err.Error(),
		})
		return nil, err
	}

	status := resp.StatusCode()
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		statusErr := newStatusError(method, path, status, resp.Header().Get("Content-Type"), resp.Body())
		r.observe(operation, method, status, elapsed, statusErr)
		r.log.WarnObj("http request rejected", "http_status_error", map[string]any{
			"operation":      operation,
			"method":         method,
			"path":           path,
			"status":         status,
			"correlation_id": correlationID,
		})
		return nil, statusErr
	}

	body, err := parseJSON(resp.Body())
	if err != nil {
		err = fmt.Errorf("http %s %s: %w", method, path, err)
		r.observe(operation, method, status, elapsed, err)
		return nil, err
	}

	r.observe(operation, method, status, elapsed, nil)
	r.log.DebugObj("http request completed", "http_result", map[string]any{
		"operation":      operation,
		"method":         method,
		"path":           path,
		"status":         status,
		"correlation_id": correlationID,
		"elapsed_ms":     elapsed.Milliseconds(),
	})
	return body, nil
}

func (r *RestyClient) observe(operation, method string, status int, elapsed time.Duration, err error) {
	if r.observer == nil {
		return
	}
	r.observer.ObserveRequest(operation, method, status, elapsed, err)
}

// parseJSON validates the response body. An empty body decodes as JSON null.
func parseJSON(body []byte) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return json.RawMessage("null"), nil
	}
	if !json.Valid(trimmed) {
		return nil, fmt.Errorf("%w: %s", ErrMalformedJSON, bodySnippet(trimmed))
	}
	out := make(json.RawMessage, len(trimmed))
	copy(out, trimmed)
	return out, nil
}

func normalizeMethod(method, fallback string) string {
	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		return fallback
	}
	return method
}
