package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SAP-F-2025/quiz-service/internal/events"
	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func notificationFixture(status models.CourseStatus) (*models.Quiz, *models.Section) {
	quiz := &models.Quiz{ID: 7, SectionID: 3, Title: "Week 1 Check"}
	section := &models.Section{
		ID:       3,
		CourseID: 11,
		Title:    "Basics",
		Course:   models.Course{ID: 11, Title: "Go 101", Status: status},
	}
	return quiz, section
}

func TestNotificationEventService_NotifyQuizCreated(t *testing.T) {
	logger := discardLogger()
	ctx := context.Background()

	t.Run("draft course notifies instructor only", func(t *testing.T) {
		publisher := events.NewMockEventPublisher(logger)
		queue := NewNotificationQueue(logger, QueueConfig{Workers: 2, Size: 10, Timeout: time.Second})
		courseRepo := &MockCourseRepository{}
		service := NewNotificationEventService(&mockRepository{course: courseRepo}, publisher, queue, logger, 100)

		quiz, section := notificationFixture(models.CourseDraft)
		count := service.NotifyQuizCreated(ctx, quiz, section, "instructor-1")
		queue.Close()

		assert.Equal(t, 1, count)
		published := publisher.GetPublishedEvents()
		require.Len(t, published, 1)

		event := published[0]
		assert.Equal(t, events.EventQuizCreated, event.Type)
		assert.Equal(t, "quiz-service", event.Source)
		assert.NotEmpty(t, event.ID)

		data, ok := event.Data.(events.QuizCreatedEvent)
		require.True(t, ok)
		assert.Equal(t, "instructor-1", data.RecipientID)
		assert.Equal(t, events.RecipientInstructor, data.RecipientRole)
		assert.Equal(t, uint(7), data.QuizID)
		courseRepo.AssertNotCalled(t, "ListActiveStudentIDs", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("published course fans out to enrolled students with cap", func(t *testing.T) {
		publisher := events.NewMockEventPublisher(logger)
		queue := NewNotificationQueue(logger, QueueConfig{Workers: 2, Size: 10, Timeout: time.Second})
		courseRepo := &MockCourseRepository{}
		courseRepo.On("ListActiveStudentIDs", mock.Anything, mock.Anything, uint(11), 2).
			Return([]string{"student-a", "student-b"}, nil)
		service := NewNotificationEventService(&mockRepository{course: courseRepo}, publisher, queue, logger, 2)

		quiz, section := notificationFixture(models.CoursePublished)
		count := service.NotifyQuizCreated(ctx, quiz, section, "instructor-1")
		queue.Close()

		assert.Equal(t, 3, count)
		recipients := map[string]events.RecipientRole{}
		for _, event := range publisher.GetPublishedEvents() {
			data := event.Data.(events.QuizCreatedEvent)
			recipients[data.RecipientID] = data.RecipientRole
		}
		assert.Equal(t, map[string]events.RecipientRole{
			"instructor-1": events.RecipientInstructor,
			"student-a":    events.RecipientStudent,
			"student-b":    events.RecipientStudent,
		}, recipients)
		courseRepo.AssertExpectations(t)
	})

	t.Run("enrollment lookup failure keeps instructor notification", func(t *testing.T) {
		publisher := events.NewMockEventPublisher(logger)
		queue := NewNotificationQueue(logger, QueueConfig{Workers: 1, Size: 10, Timeout: time.Second})
		courseRepo := &MockCourseRepository{}
		courseRepo.On("ListActiveStudentIDs", mock.Anything, mock.Anything, uint(11), 5).
			Return(nil, errors.New("connection reset"))
		service := NewNotificationEventService(&mockRepository{course: courseRepo}, publisher, queue, logger, 5)

		quiz, section := notificationFixture(models.CoursePublished)
		count := service.NotifyQuizCreated(ctx, quiz, section, "instructor-1")
		queue.Close()

		assert.Equal(t, 1, count)
		assert.Len(t, publisher.GetPublishedEvents(), 1)
	})
}

type failingPublisher struct {
	events.EventPublisher
	fail map[string]bool
	ok   chan string
}

func (p *failingPublisher) PublishNotificationEvent(_ context.Context, event *events.NotificationEvent) error {
	recipient := event.Data.(events.QuizCreatedEvent).RecipientID
	if p.fail[recipient] {
		return errors.New("broker unavailable")
	}
	p.ok <- recipient
	return nil
}

func TestNotificationEventService_PerRecipientFailureIsolation(t *testing.T) {
	logger := discardLogger()
	publisher := &failingPublisher{fail: map[string]bool{"student-a": true}, ok: make(chan string, 10)}
	queue := NewNotificationQueue(logger, QueueConfig{Workers: 2, Size: 10, Timeout: time.Second})
	courseRepo := &MockCourseRepository{}
	courseRepo.On("ListActiveStudentIDs", mock.Anything, mock.Anything, uint(11), 10).
		Return([]string{"student-a", "student-b"}, nil)
	service := NewNotificationEventService(&mockRepository{course: courseRepo}, publisher, queue, logger, 10)

	quiz, section := notificationFixture(models.CoursePublished)
	service.NotifyQuizCreated(context.Background(), quiz, section, "instructor-1")
	queue.Close()
	close(publisher.ok)

	var delivered []string
	for r := range publisher.ok {
		delivered = append(delivered, r)
	}
	assert.ElementsMatch(t, []string{"instructor-1", "student-b"}, delivered)
}
