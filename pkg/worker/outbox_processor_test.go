package worker

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakfield/care-api/internal/model"
	"github.com/oakfield/care-api/pkg/logger"
	"github.com/oakfield/care-api/pkg/messaging"
	"github.com/oakfield/care-api/pkg/metrics"
)

// Registered once; prometheus rejects duplicate collector registration
// within the test binary.
var testMetrics = metrics.NewMetrics("care_worker_test")

type fakeOutboxRepo struct {
	events map[uuid.UUID]*model.OutboxEvent
}

func newFakeOutboxRepo(events ...*model.OutboxEvent) *fakeOutboxRepo {
	repo := &fakeOutboxRepo{events: make(map[uuid.UUID]*model.OutboxEvent)}
	for _, ev := range events {
		repo.events[ev.ID] = ev
	}
	return repo
}

func (f *fakeOutboxRepo) Create(ctx context.Context, event *model.OutboxEvent) error {
	f.events[event.ID] = event
	return nil
}

func (f *fakeOutboxRepo) GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	var out []*model.OutboxEvent
	for _, ev := range f.events {
		if ev.Status == model.OutboxStatusPending && len(out) < limit {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (f *fakeOutboxRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errMsg *string) error {
	ev, ok := f.events[id]
	if !ok {
		return errors.New("unknown event")
	}
	ev.Status = status
	ev.ErrorMessage = errMsg
	if errMsg != nil {
		ev.RetryCount++
	}
	if status != model.OutboxStatusPending {
		now := time.Now()
		ev.ProcessedAt = &now
	}
	return nil
}

type fakeBroker struct {
	err       error
	published []messaging.Message
}

func (f *fakeBroker) Publish(ctx context.Context, channel string, message interface{}) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, message.(messaging.Message))
	return nil
}

func (f *fakeBroker) Close() error { return nil }

func pendingEvent(retryCount int) *model.OutboxEvent {
	return &model.OutboxEvent{
		ID:         uuid.New(),
		EventType:  model.EventPatientCreate,
		Payload:    json.RawMessage(`{"patient":"P-001"}`),
		Status:     model.OutboxStatusPending,
		RetryCount: retryCount,
	}
}

func newProcessor(repo *fakeOutboxRepo, broker *fakeBroker, maxRetries int) *OutboxProcessor {
	return NewOutboxProcessor(repo, broker, OutboxProcessorConfig{
		Channel:    "care-record-events",
		MaxRetries: maxRetries,
	}, logger.NewLogger(&logger.Config{Level: zerolog.Disabled, Output: io.Discard}), testMetrics)
}

func TestProcessEventsPublishesAndMarksProcessed(t *testing.T) {
	event := pendingEvent(0)
	repo := newFakeOutboxRepo(event)
	broker := &fakeBroker{}

	p := newProcessor(repo, broker, 5)
	require.NoError(t, p.processEvents(context.Background()))

	require.Len(t, broker.published, 1)
	assert.Equal(t, model.EventPatientCreate, broker.published[0].Type)
	assert.Equal(t, model.OutboxStatusProcessed, event.Status)
	assert.Nil(t, event.ErrorMessage)
	assert.NotNil(t, event.ProcessedAt)
}

func TestFailedPublishRequeuesWithoutProcessedStamp(t *testing.T) {
	event := pendingEvent(0)
	repo := newFakeOutboxRepo(event)
	broker := &fakeBroker{err: errors.New("feed offline")}

	p := newProcessor(repo, broker, 5)
	require.NoError(t, p.processEvents(context.Background()))

	assert.Equal(t, model.OutboxStatusPending, event.Status)
	require.NotNil(t, event.ErrorMessage)
	assert.Equal(t, "feed offline", *event.ErrorMessage)
	assert.Equal(t, 1, event.RetryCount)
	assert.Nil(t, event.ProcessedAt, "a requeued event has not been processed")
}

func TestEventFailsForGoodAfterMaxRetries(t *testing.T) {
	event := pendingEvent(2)
	repo := newFakeOutboxRepo(event)
	broker := &fakeBroker{err: errors.New("feed offline")}

	p := newProcessor(repo, broker, 3)
	require.NoError(t, p.processEvents(context.Background()))

	assert.Equal(t, model.OutboxStatusFailed, event.Status)
	assert.NotNil(t, event.ProcessedAt)
}
