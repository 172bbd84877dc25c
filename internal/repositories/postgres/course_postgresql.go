package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CoursePostgreSQL struct {
	db *gorm.DB
}

func NewCoursePostgreSQL(db *gorm.DB) repositories.CourseRepository {
	return &CoursePostgreSQL{db: db}
}

func (c *CoursePostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return c.db
}

func (c *CoursePostgreSQL) GetInstructorByUserID(ctx context.Context, tx *gorm.DB, userID string) (*models.Instructor, error) {
	var instructor models.Instructor
	if err := c.getDB(tx).WithContext(ctx).Where("user_id = ?", userID).First(&instructor).Error; err != nil {
		return nil, err
	}
	return &instructor, nil
}

func (c *CoursePostgreSQL) GetSectionWithCourse(ctx context.Context, tx *gorm.DB, sectionID uint) (*models.Section, error) {
	var section models.Section
	if err := c.getDB(tx).WithContext(ctx).Preload("Course").First(&section, sectionID).Error; err != nil {
		return nil, err
	}
	return &section, nil
}

// LockSection serializes order mutations within one section. Dialects without
// row locks skip the FOR UPDATE clause.
func (c *CoursePostgreSQL) LockSection(ctx context.Context, tx *gorm.DB, sectionID uint) error {
	var section models.Section
	err := c.getDB(tx).WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		First(&section, sectionID).Error
	if err != nil {
		return fmt.Errorf("failed to lock section %d: %w", sectionID, err)
	}
	return nil
}

func (c *CoursePostgreSQL) ListActiveStudentIDs(ctx context.Context, tx *gorm.DB, courseID uint, limit int) ([]string, error) {
	var ids []string
	query := c.getDB(tx).WithContext(ctx).
		Model(&models.Enrollment{}).
		Distinct("student_id").
		Where("course_id = ? AND status = ?", courseID, models.EnrollmentActive).
		Order("student_id")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Pluck("student_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list enrolled students: %w", err)
	}
	return ids, nil
}
