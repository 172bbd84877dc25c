package postgres

import (
	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/repositories"
	"gorm.io/gorm"
)

type repository struct {
	quiz     repositories.QuizRepository
	question repositories.QuestionRepository
	attempt  repositories.AttemptRepository
	course   repositories.CourseRepository
}

// NewRepository wires the gorm-backed repositories over one connection pool.
func NewRepository(db *gorm.DB) repositories.Repository {
	return &repository{
		quiz:     NewQuizPostgreSQL(db),
		question: NewQuestionPostgreSQL(db),
		attempt:  NewAttemptPostgreSQL(db),
		course:   NewCoursePostgreSQL(db),
	}
}

func (r *repository) Quiz() repositories.QuizRepository         { return r.quiz }
func (r *repository) Question() repositories.QuestionRepository { return r.question }
func (r *repository) Attempt() repositories.AttemptRepository   { return r.attempt }
func (r *repository) Course() repositories.CourseRepository     { return r.course }

// AutoMigrate creates or updates every table this service touches.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Instructor{},
		&models.Course{},
		&models.Section{},
		&models.Enrollment{},
		&models.Quiz{},
		&models.Question{},
		&models.QuizAttempt{},
		&models.Answer{},
	)
}
