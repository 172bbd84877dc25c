package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/ordering"
	"github.com/SAP-F-2025/quiz-service/internal/repositories"
	"gorm.io/gorm"
)

type QuestionPostgreSQL struct {
	db *gorm.DB
}

func NewQuestionPostgreSQL(db *gorm.DB) repositories.QuestionRepository {
	return &QuestionPostgreSQL{db: db}
}

func (q *QuestionPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return q.db
}

func (q *QuestionPostgreSQL) CreateBatch(ctx context.Context, tx *gorm.DB, quizID uint, questions []models.Question) error {
	if len(questions) == 0 {
		return nil
	}

	for i := range questions {
		questions[i].QuizID = quizID
	}

	if err := q.getDB(tx).WithContext(ctx).Create(&questions).Error; err != nil {
		return fmt.Errorf("failed to create questions: %w", err)
	}
	return nil
}

func (q *QuestionPostgreSQL) GetByQuiz(ctx context.Context, tx *gorm.DB, quizID uint) ([]models.Question, error) {
	var questions []models.Question
	err := q.getDB(tx).WithContext(ctx).
		Where("quiz_id = ?", quizID).
		Order("position ASC").
		Find(&questions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get questions: %w", err)
	}
	return questions, nil
}

func (q *QuestionPostgreSQL) DeleteByQuiz(ctx context.Context, tx *gorm.DB, quizID uint) error {
	if err := q.getDB(tx).WithContext(ctx).Where("quiz_id = ?", quizID).Delete(&models.Question{}).Error; err != nil {
		return fmt.Errorf("failed to delete questions: %w", err)
	}
	return nil
}

func (q *QuestionPostgreSQL) GetOrders(ctx context.Context, tx *gorm.DB, quizID uint) ([]ordering.Item, error) {
	var items []ordering.Item
	err := q.getDB(tx).WithContext(ctx).
		Model(&models.Question{}).
		Select("id, position AS \"order\"").
		Where("quiz_id = ?", quizID).
		Order("position ASC").
		Scan(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load question orders: %w", err)
	}
	return items, nil
}

func (q *QuestionPostgreSQL) UpdateOrders(ctx context.Context, tx *gorm.DB, quizID uint, items []ordering.Item) error {
	db := q.getDB(tx).WithContext(ctx)
	for _, it := range items {
		result := db.Model(&models.Question{}).
			Where("id = ? AND quiz_id = ?", it.ID, quizID).
			Update("position", it.Order)
		if result.Error != nil {
			return fmt.Errorf("failed to update order for question %d: %w", it.ID, result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("question %d not found in quiz %d: %w", it.ID, quizID, gorm.ErrRecordNotFound)
		}
	}
	return nil
}
