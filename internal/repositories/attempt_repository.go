package repositories

import (
	"context"

	"github.com/SAP-F-2025/quiz-service/internal/models"
	"gorm.io/gorm"
)

// AttemptRepository is read-only here; attempts are written by the learner-facing service.
type AttemptRepository interface {
	CountByQuiz(ctx context.Context, tx *gorm.DB, quizID uint) (int64, error)
	CountByQuizIDs(ctx context.Context, tx *gorm.DB, quizIDs []uint) (map[uint]int64, error)
	ListByQuiz(ctx context.Context, tx *gorm.DB, quizID uint) ([]models.QuizAttempt, error)
	ListAnswersByQuiz(ctx context.Context, tx *gorm.DB, quizID uint) ([]models.Answer, error)
}
