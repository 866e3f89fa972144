package publishers

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

type fakeSQSClient struct {
	input *sqs.SendMessageInput
	err   error
}

func (f *fakeSQSClient) SendMessage(_ context.Context, params *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sqs.SendMessageOutput{MessageId: aws.String("msg-123")}, nil
}

func TestSQSPublisherPublishSuccess(t *testing.T) {
	client := &fakeSQSClient{}
	pub := &sqsPublisher{
		queueURL: "https://example.com/queue",
		client:   client,
		log:      discardLogger{},
	}

	err := pub.Publish(context.Background(), Event{
		Operation: "put_expense",
		Method:    "PUT",
		Error:     "status 500",
	})
	if err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if client.input == nil {
		t.Fatalf("client was not called")
	}
	if got := aws.ToString(client.input.QueueUrl); got != "https://example.com/queue" {
		t.Fatalf("QueueUrl = %s", got)
	}
	attr, ok := client.input.MessageAttributes["operation"]
	if !ok || aws.ToString(attr.StringValue) != "put_expense" {
		t.Fatalf("operation attribute missing or wrong: %#v", attr)
	}
	if got := aws.ToString(client.input.MessageAttributes["outcome"].StringValue); got != "failure" {
		t.Fatalf("outcome attribute = %q", got)
	}
	if !strings.Contains(aws.ToString(client.input.MessageBody), `"error":"status 500"`) {
		t.Fatalf("MessageBody missing error: %s", aws.ToString(client.input.MessageBody))
	}
}

func TestSQSPublisherPublishError(t *testing.T) {
	client := &fakeSQSClient{err: errors.New("boom")}
	pub := &sqsPublisher{
		queueURL: "https://example.com/queue",
		client:   client,
		log:      discardLogger{},
	}

	if err := pub.Publish(context.Background(), Event{Operation: "post_expense"}); err == nil {
		t.Fatalf("expected error from Publish")
	}
}

func TestAWSCredentialsStatic(t *testing.T) {
	var none *AWSCredentials
	if none.static() {
		t.Fatalf("nil credentials must not be static")
	}
	if (&AWSCredentials{AccessKeyID: "AKIA"}).static() {
		t.Fatalf("credentials without a secret must not be static")
	}
	if !(&AWSCredentials{AccessKeyID: "AKIA", SecretAccessKey: "s"}).static() {
		t.Fatalf("expected static credentials")
	}
}
