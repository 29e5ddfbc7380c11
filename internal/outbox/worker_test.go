package outbox_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mfmanca2000/easyasta/internal/outbox"
	"github.com/mfmanca2000/easyasta/internal/outbox/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func testEvent() outbox.OutboxEvent {
	return outbox.OutboxEvent{
		ID:        uuid.New(),
		LeagueID:  uuid.New(),
		EventKind: "RoundStarted",
		Payload:   json.RawMessage(`{"event_type":"RoundStarted"}`),
		CreatedAt: time.Now().UTC(),
	}
}

func testWorker(publisher outbox.EventPublisher) *outbox.Worker {
	cfg := outbox.DefaultConfig()
	cfg.RetryDelay = time.Millisecond
	return outbox.NewWorker(nil, publisher, cfg)
}

func TestPublishWithRetrySucceedsFirstAttempt(t *testing.T) {
	ctrl := gomock.NewController(t)
	publisher := mocks.NewMockEventPublisher(ctrl)
	event := testEvent()

	publisher.EXPECT().Publish(gomock.Any(), event).Return(nil)

	w := testWorker(publisher)
	require.NoError(t, w.PublishWithRetry(context.Background(), event))
}

func TestPublishWithRetryRecoversFromTransientFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	publisher := mocks.NewMockEventPublisher(ctrl)
	event := testEvent()

	gomock.InOrder(
		publisher.EXPECT().Publish(gomock.Any(), event).Return(errors.New("broker unavailable")),
		publisher.EXPECT().Publish(gomock.Any(), event).Return(errors.New("broker unavailable")),
		publisher.EXPECT().Publish(gomock.Any(), event).Return(nil),
	)

	w := testWorker(publisher)
	require.NoError(t, w.PublishWithRetry(context.Background(), event))
}

func TestPublishWithRetryExhaustsAttempts(t *testing.T) {
	ctrl := gomock.NewController(t)
	publisher := mocks.NewMockEventPublisher(ctrl)
	event := testEvent()

	brokerErr := errors.New("broker unavailable")
	publisher.EXPECT().Publish(gomock.Any(), event).Return(brokerErr).Times(4)

	w := testWorker(publisher)
	err := w.PublishWithRetry(context.Background(), event)
	require.Error(t, err)
	assert.ErrorIs(t, err, brokerErr)
	assert.Contains(t, err.Error(), "failed after 4 attempts")
}

func TestPublishWithRetryHonorsCancellation(t *testing.T) {
	ctrl := gomock.NewController(t)
	publisher := mocks.NewMockEventPublisher(ctrl)
	event := testEvent()

	ctx, cancel := context.WithCancel(context.Background())
	publisher.EXPECT().Publish(gomock.Any(), event).DoAndReturn(
		func(context.Context, outbox.OutboxEvent) error {
			cancel()
			return errors.New("broker unavailable")
		})

	w := testWorker(publisher)
	err := w.PublishWithRetry(ctx, event)
	require.ErrorIs(t, err, context.Canceled)
}

func TestWorkerStopWithoutStart(t *testing.T) {
	w := testWorker(nil)
	require.Error(t, w.Stop())
}
