package publishers

import (
	"context"
	"strings"
	"testing"

	"cloud.google.com/go/pubsub"
	"cloud.google.com/go/pubsub/pstest"
)

func TestGCPPubSubPublisherPublishes(t *testing.T) {
	// Use the in-memory Pub/Sub emulator.
	server := pstest.NewServer()
	defer server.Close()
	t.Setenv("PUBSUB_EMULATOR_HOST", server.Addr)

	ctx := context.Background()
	client, err := pubsub.NewClient(ctx, "test-project")
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	defer client.Close()
	if _, err := client.CreateTopic(ctx, "expenses-events"); err != nil {
		t.Fatalf("create topic: %v", err)
	}

	pub, err := newGCPPubSubPublisher(ctx, PublisherConfig{
		ID:   "pubsub",
		Type: TypeGCPPubSub,
		GCPPubSub: &GCPPubSubPublisherConfig{
			ProjectID: "test-project",
			Topic:     "expenses-events",
		},
	}, nil)
	if err != nil {
		t.Fatalf("newGCPPubSubPublisher: %v", err)
	}
	defer pub.(Closer).Close()

	err = pub.Publish(ctx, Event{Operation: "consolidate_expense", Method: "PUT", Succeeded: true})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}

	msgs := server.Messages()
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	if msgs[0].Attributes["operation"] != "consolidate_expense" {
		t.Fatalf("unexpected attributes %#v", msgs[0].Attributes)
	}
	if !strings.Contains(string(msgs[0].Data), `"method":"PUT"`) {
		t.Fatalf("unexpected payload %s", msgs[0].Data)
	}
}

func TestGCPPubSubPublisherRequiresConfig(t *testing.T) {
	if _, err := newGCPPubSubPublisher(context.Background(), PublisherConfig{ID: "p"}, nil); err == nil {
		t.Fatalf("expected error for missing gcp_pubsub block")
	}
}
