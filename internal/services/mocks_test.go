package services

import (
	"context"

	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/repositories"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockCourseRepository is a mock implementation of CourseRepository
type MockCourseRepository struct {
	mock.Mock
}

func (m *MockCourseRepository) GetInstructorByUserID(ctx context.Context, tx *gorm.DB, userID string) (*models.Instructor, error) {
	args := m.Called(ctx, tx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Instructor), args.Error(1)
}

func (m *MockCourseRepository) GetSectionWithCourse(ctx context.Context, tx *gorm.DB, sectionID uint) (*models.Section, error) {
	args := m.Called(ctx, tx, sectionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Section), args.Error(1)
}

func (m *MockCourseRepository) LockSection(ctx context.Context, tx *gorm.DB, sectionID uint) error {
	args := m.Called(ctx, tx, sectionID)
	return args.Error(0)
}

func (m *MockCourseRepository) ListActiveStudentIDs(ctx context.Context, tx *gorm.DB, courseID uint, limit int) ([]string, error) {
	args := m.Called(ctx, tx, courseID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// mockRepository exposes only the course repository; other accessors are unused by these tests.
type mockRepository struct {
	course *MockCourseRepository
}

func (m *mockRepository) Quiz() repositories.QuizRepository         { return nil }
func (m *mockRepository) Question() repositories.QuestionRepository { return nil }
func (m *mockRepository) Attempt() repositories.AttemptRepository   { return nil }
func (m *mockRepository) Course() repositories.CourseRepository     { return m.course }
