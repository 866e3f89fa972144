package httpclient

import (
	"context"
	"encoding/json"
	"io"
	"time"
)

// RequestOptions describes a single call against the backend.
type RequestOptions struct {
	// Method defaults to GET for Request and POST for UploadFile.
	Method  string
	Headers map[string]string
	// Body is JSON-encoded when non-nil.
	Body any
	// Operation names the logical call for logs and metrics.
	Operation string
}

// File is a named payload sent as multipart/form-data.
type File struct {
	Name   string
	Reader io.Reader
}

// Transport performs exactly one HTTP call per invocation and returns the
// response body as validated JSON.
type Transport interface {
	Request(ctx context.Context, path string, opts RequestOptions) (json.RawMessage, error)
	UploadFile(ctx context.Context, path string, file File, opts RequestOptions) (json.RawMessage, error)
}

// Observer receives the outcome of every call. statusCode is 0 when no
// response was received.
type Observer interface {
	ObserveRequest(operation, method string, statusCode int, elapsed time.Duration, err error)
}
