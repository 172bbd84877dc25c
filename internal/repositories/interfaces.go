package repositories

import (
	"errors"

	"gorm.io/gorm"
)

// Repository groups the per-aggregate repositories so services receive a
// single dependency.
type Repository interface {
	Quiz() QuizRepository
	Question() QuestionRepository
	Attempt() AttemptRepository
	Course() CourseRepository
}

// IsNotFoundError reports whether err means the row does not exist.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
