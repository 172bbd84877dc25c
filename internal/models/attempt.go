package models

import "time"

type QuizAttempt struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	StudentID   string     `json:"student_id" gorm:"size:255;not null;index"`
	QuizID      uint       `json:"quiz_id" gorm:"not null;index"`
	Score       float64    `json:"score" gorm:"not null"`
	Passed      bool       `json:"passed" gorm:"not null"`
	StartedAt   time.Time  `json:"started_at" gorm:"not null"`
	CompletedAt *time.Time `json:"completed_at"`
	TimeSpent   int        `json:"time_spent"` // seconds
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}

type Answer struct {
	ID         uint `json:"id" gorm:"primaryKey"`
	AttemptID  uint `json:"attempt_id" gorm:"not null;index"`
	QuestionID uint `json:"question_id" gorm:"not null;index"`
	IsCorrect  bool `json:"is_correct"`
}

func (Answer) TableName() string {
	return "quiz_answers"
}
