package app

import (
	"context"
	"encoding/json"
	"maps"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/totoapp/expenses-client/internal/domain"
	"github.com/totoapp/expenses-client/internal/logger"
	"github.com/totoapp/expenses-client/internal/storage"
	"github.com/totoapp/expenses-client/pkg/httpclient"
	"github.com/totoapp/expenses-client/pkg/publishers"
)

const publishTimeout = 10 * time.Second

// eventSink is the subset of publishers.Fanout used by the recorder.
type eventSink interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
	Size() int
}

// publishObserver receives the delivery result of each event.
type publishObserver interface {
	ObservePublish(delivered int, err error)
}

// recorder wraps a Transport and, for mutating calls only, appends a journal
// entry and emits a mutation event. Neither side effect alters the result
// returned to the caller.
type recorder struct {
	next     httpclient.Transport
	journal  storage.Journal
	sink     eventSink
	observer publishObserver
	log      logger.Logger
}

var _ httpclient.Transport = (*recorder)(nil)

func newRecorder(next httpclient.Transport, journal storage.Journal, sink eventSink, observer publishObserver, log logger.Logger) *recorder {
	return &recorder{
		next:     next,
		journal:  journal,
		sink:     sink,
		observer: observer,
		log:      log,
	}
}

func (r *recorder) Request(ctx context.Context, path string, opts httpclient.RequestOptions) (json.RawMessage, error) {
	method := strings.ToUpper(strings.TrimSpace(opts.Method))
	if method == "" || method == http.MethodGet {
		return r.next.Request(ctx, path, opts)
	}

	opts.Headers = withCorrelationID(opts.Headers)
	raw, err := r.next.Request(ctx, path, opts)
	r.record(ctx, opts.Operation, method, path, opts.Headers[httpclient.HeaderCorrelationID], raw, err)
	return raw, err
}

func (r *recorder) UploadFile(ctx context.Context, path string, file httpclient.File, opts httpclient.RequestOptions) (json.RawMessage, error) {
	method := strings.ToUpper(strings.TrimSpace(opts.Method))
	if method == "" {
		method = http.MethodPost
	}

	opts.Headers = withCorrelationID(opts.Headers)
	raw, err := r.next.UploadFile(ctx, path, file, opts)
	r.record(ctx, opts.Operation, method, path, opts.Headers[httpclient.HeaderCorrelationID], raw, err)
	return raw, err
}

func (r *recorder) record(ctx context.Context, operation, method, path, correlationID string, raw json.RawMessage, callErr error) {
	status := httpclient.StatusCode(callErr)
	evt := publishers.NewEvent(operation, method, path, correlationID, status, raw, callErr)

	if r.journal != nil {
		entry := domain.JournalEntry{
			Operation:     evt.Operation,
			Method:        evt.Method,
			Path:          evt.Path,
			Succeeded:     evt.Succeeded,
			StatusCode:    evt.StatusCode,
			Error:         evt.Error,
			CorrelationID: evt.CorrelationID,
			At:            evt.OccurredAt,
		}
		if err := r.journal.Record(entry); err != nil {
			r.log.WarnObj("journal record failed", "journal_error", map[string]any{
				"operation": operation,
				"error":     err.Error(),
			})
		}
	}

	if r.sink == nil || r.sink.Size() == 0 {
		return
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	delivered, err := r.sink.Publish(pubCtx, evt)
	if r.observer != nil {
		r.observer.ObservePublish(delivered, err)
	}
	if err != nil {
		r.log.WarnObj("mutation event publish failed", "publish_error", map[string]any{
			"operation": operation,
			"delivered": delivered,
			"error":     err.Error(),
		})
	}
}

// withCorrelationID returns a copy of headers carrying a correlation id, so
// the journal, the event and the outgoing request share one value.
func withCorrelationID(headers map[string]string) map[string]string {
	out := make(map[string]string, len(headers)+1)
	maps.Copy(out, headers)
	if out[httpclient.HeaderCorrelationID] == "" {
		out[httpclient.HeaderCorrelationID] = uuid.NewString()
	}
	return out
}
