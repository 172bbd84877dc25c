package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/ordering"
	"github.com/SAP-F-2025/quiz-service/internal/repositories"
	"gorm.io/gorm"
)

type QuizPostgreSQL struct {
	db *gorm.DB
}

func NewQuizPostgreSQL(db *gorm.DB) repositories.QuizRepository {
	return &QuizPostgreSQL{db: db}
}

// getDB returns the transaction if provided, otherwise the pool
func (q *QuizPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return q.db
}

// Create inserts the quiz row only; questions are written separately so their
// order can be assigned explicitly.
func (q *QuizPostgreSQL) Create(ctx context.Context, tx *gorm.DB, quiz *models.Quiz) error {
	if err := q.getDB(tx).WithContext(ctx).Omit("Questions", "Section").Create(quiz).Error; err != nil {
		return fmt.Errorf("failed to create quiz: %w", err)
	}
	return nil
}

func (q *QuizPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Quiz, error) {
	var quiz models.Quiz
	if err := q.getDB(tx).WithContext(ctx).First(&quiz, id).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (q *QuizPostgreSQL) GetByIDWithQuestions(ctx context.Context, tx *gorm.DB, id uint) (*models.Quiz, error) {
	var quiz models.Quiz
	err := q.getDB(tx).WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&quiz, id).Error
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (q *QuizPostgreSQL) GetByIDs(ctx context.Context, tx *gorm.DB, sectionID uint, ids []uint) ([]models.Quiz, error) {
	var quizzes []models.Quiz
	if len(ids) == 0 {
		return quizzes, nil
	}

	err := q.getDB(tx).WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("section_id = ? AND id IN ?", sectionID, ids).
		Order("position ASC").
		Find(&quizzes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get quizzes: %w", err)
	}
	return quizzes, nil
}

func (q *QuizPostgreSQL) ListBySection(ctx context.Context, tx *gorm.DB, sectionID uint) ([]models.Quiz, error) {
	var quizzes []models.Quiz
	err := q.getDB(tx).WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("section_id = ?", sectionID).
		Order("position ASC").
		Find(&quizzes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}
	return quizzes, nil
}

func (q *QuizPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	result := q.getDB(tx).WithContext(ctx).Delete(&models.Quiz{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete quiz: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (q *QuizPostgreSQL) UpdateFields(ctx context.Context, tx *gorm.DB, id uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}

	result := q.getDB(tx).WithContext(ctx).
		Model(&models.Quiz{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return fmt.Errorf("failed to update quiz: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (q *QuizPostgreSQL) BulkUpdateFields(ctx context.Context, tx *gorm.DB, sectionID uint, ids []uint, fields map[string]interface{}) (int64, error) {
	if len(ids) == 0 || len(fields) == 0 {
		return 0, nil
	}

	result := q.getDB(tx).WithContext(ctx).
		Model(&models.Quiz{}).
		Where("section_id = ? AND id IN ?", sectionID, ids).
		Updates(fields)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to bulk update quizzes: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// ===== ORDERING =====

func (q *QuizPostgreSQL) GetSiblingOrders(ctx context.Context, tx *gorm.DB, sectionID uint) ([]ordering.Item, error) {
	var items []ordering.Item
	err := q.getDB(tx).WithContext(ctx).
		Model(&models.Quiz{}).
		Select("id, position AS \"order\"").
		Where("section_id = ?", sectionID).
		Order("position ASC").
		Scan(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load quiz orders: %w", err)
	}
	return items, nil
}

func (q *QuizPostgreSQL) ApplyShift(ctx context.Context, tx *gorm.DB, sectionID uint, shift ordering.Shift) error {
	query := q.getDB(tx).WithContext(ctx).
		Model(&models.Quiz{}).
		Where("section_id = ? AND position BETWEEN ? AND ?", sectionID, shift.From, shift.To)
	if shift.ExcludeID != 0 {
		query = query.Where("id <> ?", shift.ExcludeID)
	}

	if err := query.Update("position", gorm.Expr("position + ?", shift.Delta)).Error; err != nil {
		return fmt.Errorf("failed to shift quiz orders: %w", err)
	}
	return nil
}

func (q *QuizPostgreSQL) UpdateOrders(ctx context.Context, tx *gorm.DB, sectionID uint, items []ordering.Item) error {
	db := q.getDB(tx).WithContext(ctx)
	for _, it := range items {
		result := db.Model(&models.Quiz{}).
			Where("id = ? AND section_id = ?", it.ID, sectionID).
			Update("position", it.Order)
		if result.Error != nil {
			return fmt.Errorf("failed to update order for quiz %d: %w", it.ID, result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("quiz %d not found in section %d: %w", it.ID, sectionID, gorm.ErrRecordNotFound)
		}
	}
	return nil
}
