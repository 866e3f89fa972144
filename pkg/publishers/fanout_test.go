package publishers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

type stubPublisher struct {
	id     string
	typ    string
	err    error
	calls  int
	closed bool
}

func (s *stubPublisher) ID() string   { return s.id }
func (s *stubPublisher) Type() string { return s.typ }
func (s *stubPublisher) Publish(context.Context, Event) error {
	s.calls++
	return s.err
}
func (s *stubPublisher) Close() error {
	s.closed = true
	return nil
}

func TestFanoutPublishAggregatesErrors(t *testing.T) {
	ok := &stubPublisher{id: "ok", typ: "http"}
	bad := &stubPublisher{id: "bad", typ: "http", err: errors.New("failed")}
	fanout := NewFanout([]Publisher{ok, nil, bad})

	if fanout.Size() != 2 {
		t.Fatalf("nil publishers should be dropped, size %d", fanout.Size())
	}
	count, err := fanout.Publish(context.Background(), Event{})
	if count != 1 {
		t.Fatalf("expected 1 success, got %d", count)
	}
	if err == nil {
		t.Fatalf("expected aggregated error")
	}
	if ok.calls != 1 || bad.calls != 1 {
		t.Fatalf("every publisher should be called once")
	}
}

func TestFanoutNilAndClose(t *testing.T) {
	var nilFanout *Fanout
	if n, err := nilFanout.Publish(context.Background(), Event{}); n != 0 || err != nil {
		t.Fatalf("nil fanout Publish = %d, %v", n, err)
	}

	pub := &stubPublisher{id: "s", typ: "sqs"}
	if err := NewFanout([]Publisher{pub}).Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !pub.closed {
		t.Fatalf("expected publisher to be closed")
	}
}

func TestBuildAllWithDefaultRegistry(t *testing.T) {
	reg := DefaultRegistry()
	pubs, err := BuildAll(context.Background(), reg, []PublisherConfig{
		{ID: "http", Type: TypeHTTP, HTTP: &HTTPPublisherConfig{URL: "https://example.com"}},
	}, nil)
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}
	if len(pubs) != 1 {
		t.Fatalf("expected 1 publisher, got %d", len(pubs))
	}
}

func TestBuildAllUnknownTypeClosesBuilt(t *testing.T) {
	built := &stubPublisher{id: "first", typ: "stub"}
	reg := NewRegistry(map[string]Builder{
		"stub": func(context.Context, PublisherConfig, Logger) (Publisher, error) { return built, nil },
	})

	_, err := BuildAll(context.Background(), reg, []PublisherConfig{
		{ID: "first", Type: "stub"},
		{ID: "second", Type: "kafka"},
	}, nil)
	if err == nil {
		t.Fatalf("expected error for unregistered type")
	}
	if !built.closed {
		t.Fatalf("expected already built publisher to be closed")
	}
}

func TestNewEvent(t *testing.T) {
	ok := NewEvent("post_expense", "POST", "/expenses/expenses", "cid", 201, json.RawMessage(`{"id":"1"}`), nil)
	if !ok.Succeeded || string(ok.Response) != `{"id":"1"}` || ok.Error != "" {
		t.Fatalf("unexpected success event %#v", ok)
	}
	if ok.OccurredAt.IsZero() || ok.OccurredAt.Location().String() != "UTC" {
		t.Fatalf("expected UTC timestamp, got %v", ok.OccurredAt)
	}

	failed := NewEvent("delete_expense", "DELETE", "/expenses/expenses/1", "", 404, nil, errors.New("not found"))
	if failed.Succeeded || failed.Error != "not found" || failed.Response != nil {
		t.Fatalf("unexpected failure event %#v", failed)
	}
}
