package publishers

import (
	"encoding/json"
	"time"

	"github.com/totoapp/expenses-client/internal/domain"
)

// Event represents the payload published downstream.
type Event = domain.MutationEvent

// NewEvent constructs an Event for a finished mutating call. A nil err marks
// the call as succeeded and the response body is attached as-is.
func NewEvent(operation, method, path, correlationID string, statusCode int, response json.RawMessage, err error) Event {
	evt := Event{
		Operation:     operation,
		Method:        method,
		Path:          path,
		Succeeded:     err == nil,
		StatusCode:    statusCode,
		CorrelationID: correlationID,
		OccurredAt:    time.Now().UTC(),
	}
	if err != nil {
		evt.Error = err.Error()
	} else if len(response) > 0 {
		evt.Response = response
	}
	return evt
}

// attributes are attached to broker messages so subscribers can filter without decoding the body.
func attributes(evt Event) map[string]string {
	out := map[string]string{
		"operation": evt.Operation,
		"method":    evt.Method,
	}
	if evt.Succeeded {
		out["outcome"] = "success"
	} else {
		out["outcome"] = "failure"
	}
	return out
}
