package repositories

import (
	"context"

	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/ordering"
	"gorm.io/gorm"
)

type QuestionRepository interface {
	// CreateBatch inserts questions for a quiz in slice order.
	CreateBatch(ctx context.Context, tx *gorm.DB, quizID uint, questions []models.Question) error
	GetByQuiz(ctx context.Context, tx *gorm.DB, quizID uint) ([]models.Question, error)
	DeleteByQuiz(ctx context.Context, tx *gorm.DB, quizID uint) error

	GetOrders(ctx context.Context, tx *gorm.DB, quizID uint) ([]ordering.Item, error)
	UpdateOrders(ctx context.Context, tx *gorm.DB, quizID uint, items []ordering.Item) error
}
