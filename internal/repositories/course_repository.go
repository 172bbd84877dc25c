package repositories

import (
	"context"

	"github.com/SAP-F-2025/quiz-service/internal/models"
	"gorm.io/gorm"
)

// CourseRepository resolves ownership, lifecycle status and enrollment.
type CourseRepository interface {
	GetInstructorByUserID(ctx context.Context, tx *gorm.DB, userID string) (*models.Instructor, error)
	GetSectionWithCourse(ctx context.Context, tx *gorm.DB, sectionID uint) (*models.Section, error)
	// LockSection takes a row lock on the section for the rest of tx.
	LockSection(ctx context.Context, tx *gorm.DB, sectionID uint) error
	ListActiveStudentIDs(ctx context.Context, tx *gorm.DB, courseID uint, limit int) ([]string, error)
}
