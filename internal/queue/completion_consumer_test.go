package queue

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"parkshare/internal/domain"
	"parkshare/internal/service"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSQS struct {
	mu       sync.Mutex
	batches  [][]types.Message
	deleted  []string
	received chan struct{}
}

func (f *fakeSQS) ReceiveMessage(ctx context.Context, _ *sqs.ReceiveMessageInput, _ ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	f.mu.Lock()
	if len(f.batches) > 0 {
		batch := f.batches[0]
		f.batches = f.batches[1:]
		f.mu.Unlock()
		return &sqs.ReceiveMessageOutput{Messages: batch}, nil
	}
	f.mu.Unlock()
	select {
	case f.received <- struct{}{}:
	default:
	}
	<-ctx.Done()
	return nil, ctx.Err()
}

func (f *fakeSQS) DeleteMessage(_ context.Context, in *sqs.DeleteMessageInput, _ ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, aws.ToString(in.ReceiptHandle))
	return &sqs.DeleteMessageOutput{}, nil
}

type fakeCompleter struct {
	mu     sync.Mutex
	errs   map[string]error
	called []string
}

func (f *fakeCompleter) Complete(_ context.Context, id string) (*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.called = append(f.called, id)
	if err := f.errs[id]; err != nil {
		return nil, err
	}
	return &domain.Booking{ID: id, Status: domain.BookingCompleted}, nil
}

func msg(handle, body string) types.Message {
	return types.Message{MessageId: aws.String(handle), ReceiptHandle: aws.String(handle), Body: aws.String(body)}
}

func TestCompletionConsumerAcknowledges(t *testing.T) {
	client := &fakeSQS{
		received: make(chan struct{}, 1),
		batches: [][]types.Message{{
			msg("ok", `{"booking_id":"b-ok"}`),
			msg("missing", `{"booking_id":"b-missing"}`),
			msg("pending", `{"booking_id":"b-pending"}`),
			msg("transient", `{"booking_id":"b-transient"}`),
			msg("garbage", `not json`),
			msg("empty", ``),
		}},
	}
	completer := &fakeCompleter{errs: map[string]error{
		"b-missing":   &service.Error{Kind: service.ErrNotFound, Msg: "Booking not found"},
		"b-pending":   &service.Error{Kind: service.ErrInvalidInput, Msg: "Can only complete approved bookings"},
		"b-transient": errors.New("database unavailable"),
	}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := NewCompletionConsumer(client, "https://sqs.local/queue", completer, logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Start(ctx)
		close(done)
	}()

	select {
	case <-client.received:
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not drain the batch")
	}
	cancel()
	<-done

	client.mu.Lock()
	defer client.mu.Unlock()
	assert.ElementsMatch(t, []string{"ok", "missing", "pending", "garbage", "empty"}, client.deleted)
	require.Len(t, completer.called, 4)
}
