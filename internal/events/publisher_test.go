package events

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleEvent() *NotificationEvent {
	return NewQuizCreatedEvent(QuizCreatedEvent{
		RecipientID:   "student-1",
		RecipientRole: RecipientStudent,
		QuizID:        7,
		QuizTitle:     "Week 1",
		Title:         "New quiz available",
	})
}

func TestNewQuizCreatedEvent(t *testing.T) {
	event := sampleEvent()

	assert.Equal(t, EventQuizCreated, event.Type)
	assert.Equal(t, "quiz-service", event.Source)
	assert.Len(t, event.ID, 36)
	assert.NotEqual(t, event.ID, sampleEvent().ID)
	assert.Equal(t, "student-1", event.Metadata["recipient_id"])
}

func TestKafkaEventPublisher_PublishesWatermillMessage(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{Persistent: true}, watermill.NopLogger{})
	defer pubSub.Close()

	messages, err := pubSub.Subscribe(context.Background(), "notifications")
	require.NoError(t, err)

	publisher := newKafkaEventPublisher(pubSub, "notifications", discardLogger())
	event := sampleEvent()
	require.NoError(t, publisher.PublishNotificationEvent(context.Background(), event))

	msg := <-messages
	msg.Ack()

	assert.Equal(t, event.ID, msg.UUID)
	assert.Equal(t, "quiz.created", msg.Metadata.Get("event_type"))
	assert.Equal(t, "quiz-service", msg.Metadata.Get("source"))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(msg.Payload, &decoded))
	data := decoded["data"].(map[string]interface{})
	assert.Equal(t, "student-1", data["recipient_id"])
	assert.Equal(t, float64(7), data["quiz_id"])
}

func TestMockEventPublisher_ConcurrentPublish(t *testing.T) {
	mock := NewMockEventPublisher(discardLogger())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = mock.PublishNotificationEvent(context.Background(), sampleEvent())
		}()
	}
	wg.Wait()

	assert.Len(t, mock.GetPublishedEvents(), 50)
	mock.ClearEvents()
	assert.Empty(t, mock.GetPublishedEvents())
}
