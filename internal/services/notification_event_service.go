package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/quiz-service/internal/events"
	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/repositories"
)

// NotificationEventService turns quiz lifecycle changes into per-recipient
// notification events delivered through the queue.
type NotificationEventService interface {
	// NotifyQuizCreated enqueues one event for the instructor and, for a
	// published course, one per actively enrolled student. It returns the
	// number of events enqueued and never fails the caller.
	NotifyQuizCreated(ctx context.Context, quiz *models.Quiz, section *models.Section, instructorUserID string) int
}

type notificationEventService struct {
	repo           repositories.Repository
	eventPublisher events.EventPublisher
	queue          *NotificationQueue
	logger         *slog.Logger
	fanoutCap      int
}

func NewNotificationEventService(
	repo repositories.Repository,
	eventPublisher events.EventPublisher,
	queue *NotificationQueue,
	logger *slog.Logger,
	fanoutCap int,
) NotificationEventService {
	return &notificationEventService{
		repo:           repo,
		eventPublisher: eventPublisher,
		queue:          queue,
		logger:         logger,
		fanoutCap:      fanoutCap,
	}
}

func (s *notificationEventService) NotifyQuizCreated(ctx context.Context, quiz *models.Quiz, section *models.Section, instructorUserID string) int {
	s.logger.Info("Publishing quiz created events", "quiz_id", quiz.ID, "section_id", section.ID)

	base := events.QuizCreatedEvent{
		QuizID:      quiz.ID,
		QuizTitle:   quiz.Title,
		SectionID:   section.ID,
		CourseID:    section.CourseID,
		CourseTitle: section.Course.Title,
	}

	instructorEvent := base
	instructorEvent.RecipientID = instructorUserID
	instructorEvent.RecipientRole = events.RecipientInstructor
	instructorEvent.Title = "Quiz created"
	instructorEvent.Message = fmt.Sprintf("Your quiz %q was added to %q.", quiz.Title, section.Title)

	enqueued := 0
	if s.enqueue(instructorEvent) {
		enqueued++
	}

	if section.Course.Status != models.CoursePublished {
		return enqueued
	}

	studentIDs, err := s.repo.Course().ListActiveStudentIDs(ctx, nil, section.CourseID, s.fanoutCap)
	if err != nil {
		s.logger.Error("Failed to load enrolled students for notification", "course_id", section.CourseID, "error", err)
		return enqueued
	}

	for _, studentID := range studentIDs {
		studentEvent := base
		studentEvent.RecipientID = studentID
		studentEvent.RecipientRole = events.RecipientStudent
		studentEvent.Title = "New quiz available"
		studentEvent.Message = fmt.Sprintf("A new quiz %q is available in %q.", quiz.Title, section.Course.Title)
		if s.enqueue(studentEvent) {
			enqueued++
		}
	}

	s.logger.Info("Quiz created events enqueued", "quiz_id", quiz.ID, "count", enqueued)
	return enqueued
}

func (s *notificationEventService) enqueue(payload events.QuizCreatedEvent) bool {
	return s.queue.Enqueue(NotificationTask{
		Name: fmt.Sprintf("%s:%d:%s", events.EventQuizCreated, payload.QuizID, payload.RecipientID),
		Run: func(ctx context.Context) error {
			return s.eventPublisher.PublishNotificationEvent(ctx, events.NewQuizCreatedEvent(payload))
		},
	})
}
