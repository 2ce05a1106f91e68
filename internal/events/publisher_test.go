package events

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionEventEnvelope(t *testing.T) {
	payload := SessionStartedEvent{SessionID: "s-1", QuestionCount: 10}
	event := NewSessionEvent(EventSessionStarted, payload)

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, EventSessionStarted, event.Type)
	assert.Equal(t, "japanese-quiz-service", event.Source)
	assert.Equal(t, "1.0", event.Version)
	assert.False(t, event.Timestamp.IsZero())
	assert.Equal(t, payload, event.Data)

	// Envelope IDs are unique per event.
	other := NewSessionEvent(EventSessionStarted, payload)
	assert.NotEqual(t, event.ID, other.ID)
}

func TestMockEventPublisherRecords(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	publisher := NewMockEventPublisher(logger)

	first := NewSessionEvent(EventSessionStarted, SessionStartedEvent{SessionID: "s-1"})
	second := NewSessionEvent(EventSessionCompleted, SessionCompletedEvent{SessionID: "s-1", EndReason: "timeout"})

	require.NoError(t, publisher.PublishSessionEvent(context.Background(), first))
	require.NoError(t, publisher.PublishSessionEvent(context.Background(), second))

	recorded := publisher.PublishedEvents()
	require.Len(t, recorded, 2)
	assert.Equal(t, EventSessionStarted, recorded[0].Type)
	assert.Equal(t, EventSessionCompleted, recorded[1].Type)

	publisher.ClearEvents()
	assert.Empty(t, publisher.PublishedEvents())
}
