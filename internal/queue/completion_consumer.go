// Package queue consumes booking completion notices from SQS.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"parkshare/internal/domain"
	"parkshare/internal/service"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// SQSAPI is the subset of *sqs.Client the consumer needs.
type SQSAPI interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

type BookingCompleter interface {
	Complete(ctx context.Context, id string) (*domain.Booking, error)
}

// CompletionConsumer long-polls a queue of {"booking_id": "..."} messages and
// marks the referenced bookings completed.
type CompletionConsumer struct {
	client     SQSAPI
	queueURL   string
	completer  BookingCompleter
	logger     *slog.Logger
	retryDelay time.Duration
}

func NewCompletionConsumer(client SQSAPI, queueURL string, completer BookingCompleter, logger *slog.Logger) *CompletionConsumer {
	return &CompletionConsumer{
		client:     client,
		queueURL:   queueURL,
		completer:  completer,
		logger:     logger.With("component", "completion_consumer"),
		retryDelay: 5 * time.Second,
	}
}

// Start blocks until ctx is cancelled.
func (c *CompletionConsumer) Start(ctx context.Context) {
	c.logger.Info("listening", "queue_url", c.queueURL)
	for {
		select {
		case <-ctx.Done():
			c.logger.Info("context cancelled, stopping")
			return
		default:
		}

		result, err := c.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:            aws.String(c.queueURL),
			MaxNumberOfMessages: 10,
			WaitTimeSeconds:     20,
			VisibilityTimeout:   60,
		})
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.logger.Error("receive failed", "error", err)
			select {
			case <-time.After(c.retryDelay):
			case <-ctx.Done():
				return
			}
			continue
		}

		for _, message := range result.Messages {
			if c.handle(ctx, aws.ToString(message.Body)) {
				c.deleteMessage(ctx, message.ReceiptHandle)
			} else {
				c.logger.Warn("message left for redelivery", "message_id", aws.ToString(message.MessageId))
			}
		}
	}
}

// handle processes one message body and reports whether it should be acknowledged.
// Malformed messages, unknown bookings and bookings not in the approved state
// are acknowledged; anything else is retried.
func (c *CompletionConsumer) handle(ctx context.Context, body string) bool {
	if strings.TrimSpace(body) == "" {
		c.logger.Warn("empty message body")
		return true
	}
	var msg domain.BookingCompletionMessage
	if err := json.Unmarshal([]byte(body), &msg); err != nil || msg.BookingID == "" {
		c.logger.Warn("malformed completion message", "error", err, "body", body)
		return true
	}

	_, err := c.completer.Complete(ctx, msg.BookingID)
	switch {
	case err == nil:
		c.logger.Info("booking completed", "booking_id", msg.BookingID)
		return true
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrInvalidInput):
		c.logger.Warn("completion ignored", "booking_id", msg.BookingID, "reason", err.Error())
		return true
	default:
		c.logger.Error("completion failed", "booking_id", msg.BookingID, "error", err)
		return false
	}
}

func (c *CompletionConsumer) deleteMessage(ctx context.Context, receiptHandle *string) {
	if receiptHandle == nil {
		c.logger.Warn("missing receipt handle, cannot delete message")
		return
	}
	_, err := c.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(c.queueURL),
		ReceiptHandle: receiptHandle,
	})
	if err != nil {
		c.logger.Error("delete failed", "error", err)
	}
}
