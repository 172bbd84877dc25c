package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents different types of notification events
type EventType string

const (
	EventQuizCreated EventType = "quiz.created"
)

const (
	eventSource  = "quiz-service"
	eventVersion = "1.0"
)

type RecipientRole string

const (
	RecipientInstructor RecipientRole = "instructor"
	RecipientStudent    RecipientRole = "student"
)

// NotificationEvent is the base event structure for all notification events
type NotificationEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// QuizCreatedEvent is addressed to a single recipient so that delivery
// failures stay isolated per user.
type QuizCreatedEvent struct {
	RecipientID   string        `json:"recipient_id"`
	RecipientRole RecipientRole `json:"recipient_role"`
	QuizID        uint          `json:"quiz_id"`
	QuizTitle     string        `json:"quiz_title"`
	SectionID     uint          `json:"section_id"`
	CourseID      uint          `json:"course_id"`
	CourseTitle   string        `json:"course_title"`
	Title         string        `json:"title"`
	Message       string        `json:"message"`
}

func NewQuizCreatedEvent(payload QuizCreatedEvent) *NotificationEvent {
	return &NotificationEvent{
		ID:        GenerateEventID(),
		Type:      EventQuizCreated,
		Timestamp: time.Now().UTC(),
		Source:    eventSource,
		Version:   eventVersion,
		Data:      payload,
		Metadata: map[string]interface{}{
			"recipient_id": payload.RecipientID,
		},
	}
}

func GenerateEventID() string {
	return uuid.NewString()
}
