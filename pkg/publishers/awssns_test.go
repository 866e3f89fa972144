package publishers

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

type fakeSNSClient struct {
	input *sns.PublishInput
	err   error
}

func (f *fakeSNSClient) Publish(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sns.PublishOutput{MessageId: aws.String("msg-123")}, nil
}

func TestSNSPublisherPublishSuccess(t *testing.T) {
	client := &fakeSNSClient{}
	pub := &snsPublisher{
		id:       "topic",
		topicARN: "arn:aws:sns:::topic",
		client:   client,
		log:      discardLogger{},
	}

	err := pub.Publish(context.Background(), Event{
		Operation: "post_expense",
		Method:    "POST",
		Succeeded: true,
	})
	if err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if client.input == nil {
		t.Fatalf("client was not called")
	}
	if got := aws.ToString(client.input.TopicArn); got != "arn:aws:sns:::topic" {
		t.Fatalf("TopicArn = %s", got)
	}
	attr, ok := client.input.MessageAttributes["operation"]
	if !ok || aws.ToString(attr.StringValue) != "post_expense" {
		t.Fatalf("operation attribute missing or wrong: %#v", attr)
	}
	if aws.ToString(attr.DataType) != "String" {
		t.Fatalf("DataType should be String, got %#v", attr.DataType)
	}
	if got := aws.ToString(client.input.MessageAttributes["outcome"].StringValue); got != "success" {
		t.Fatalf("outcome attribute = %q", got)
	}
	if !strings.Contains(aws.ToString(client.input.Message), `"operation":"post_expense"`) {
		t.Fatalf("Message missing operation: %s", aws.ToString(client.input.Message))
	}
}

func TestSNSPublisherPublishError(t *testing.T) {
	client := &fakeSNSClient{err: errors.New("boom")}
	pub := &snsPublisher{
		topicARN: "arn:aws:sns:::topic",
		client:   client,
		log:      discardLogger{},
	}

	if err := pub.Publish(context.Background(), Event{Operation: "delete_expense"}); err == nil {
		t.Fatalf("expected error from Publish")
	}
}
