package repositories

import (
	"context"

	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/ordering"
	"gorm.io/gorm"
)

// QuizRepository persists quizzes. Every method takes an optional transaction;
// a nil tx runs against the pool.
type QuizRepository interface {
	Create(ctx context.Context, tx *gorm.DB, quiz *models.Quiz) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Quiz, error)
	GetByIDWithQuestions(ctx context.Context, tx *gorm.DB, id uint) (*models.Quiz, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, sectionID uint, ids []uint) ([]models.Quiz, error)
	ListBySection(ctx context.Context, tx *gorm.DB, sectionID uint) ([]models.Quiz, error)
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	UpdateFields(ctx context.Context, tx *gorm.DB, id uint, fields map[string]interface{}) error
	BulkUpdateFields(ctx context.Context, tx *gorm.DB, sectionID uint, ids []uint, fields map[string]interface{}) (int64, error)

	// Ordering
	GetSiblingOrders(ctx context.Context, tx *gorm.DB, sectionID uint) ([]ordering.Item, error)
	ApplyShift(ctx context.Context, tx *gorm.DB, sectionID uint, shift ordering.Shift) error
	UpdateOrders(ctx context.Context, tx *gorm.DB, sectionID uint, items []ordering.Item) error
}
