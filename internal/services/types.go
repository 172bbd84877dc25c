package services

import (
	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/ordering"
	"github.com/SAP-F-2025/quiz-service/internal/validator"
)

// ===== REQUESTS =====

type CreateQuizRequest struct {
	Title              string  `json:"title" validate:"required,not_blank,max=200"`
	Description        *string `json:"description,omitempty"`
	Instructions       *string `json:"instructions,omitempty"`
	Duration           int     `json:"duration" validate:"required,gt=0"`
	PassingScore       int     `json:"passing_score" validate:"gte=0,lte=100"`
	MaxAttempts        *int    `json:"max_attempts,omitempty" validate:"omitempty,gte=1"`
	Order              *int    `json:"order,omitempty" validate:"omitempty,gte=1"`
	IsRequired         *bool   `json:"is_required,omitempty"`
	RandomizeQuestions *bool   `json:"randomize_questions,omitempty"`
	ShowResults        *bool   `json:"show_results,omitempty"`
	AllowReview        *bool   `json:"allow_review,omitempty"`

	Questions []validator.QuestionInput `json:"questions"`
}

// UpdateQuizRequest carries any subset of quiz fields. A non-nil Questions
// replaces the whole question set.
type UpdateQuizRequest struct {
	Title              *string `json:"title,omitempty" validate:"omitempty,not_blank,max=200"`
	Description        *string `json:"description,omitempty"`
	Instructions       *string `json:"instructions,omitempty"`
	Duration           *int    `json:"duration,omitempty" validate:"omitempty,gt=0"`
	PassingScore       *int    `json:"passing_score,omitempty" validate:"omitempty,gte=0,lte=100"`
	MaxAttempts        *int    `json:"max_attempts,omitempty" validate:"omitempty,gte=1"`
	Order              *int    `json:"order,omitempty" validate:"omitempty,gte=1"`
	IsRequired         *bool   `json:"is_required,omitempty"`
	RandomizeQuestions *bool   `json:"randomize_questions,omitempty"`
	ShowResults        *bool   `json:"show_results,omitempty"`
	AllowReview        *bool   `json:"allow_review,omitempty"`

	Questions *[]validator.QuestionInput `json:"questions,omitempty"`
}

type ReorderQuizzesRequest struct {
	QuizOrders []ordering.Item `json:"quiz_orders" validate:"required,min=1"`
}

type ReorderQuestionsRequest struct {
	QuestionOrders []ordering.Item `json:"question_orders" validate:"required,min=1"`
}

const MaxBulkUpdateQuizzes = 20

type BulkUpdateRequest struct {
	QuizIDs []uint                 `json:"quiz_ids" validate:"required,min=1,max=20,dive,gt=0"`
	Updates map[string]interface{} `json:"updates" validate:"required,min=1,dive,keys,quiz_bulk_field,endkeys"`
}

// ===== RESPONSES =====

type QuizStats struct {
	TotalQuestions int     `json:"total_questions"`
	TotalAttempts  int64   `json:"total_attempts"`
	TotalPoints    float64 `json:"total_points"`
}

type QuizChanges struct {
	FieldsUpdated    []string `json:"fields_updated"`
	OrderChanged     bool     `json:"order_changed"`
	QuestionsUpdated bool     `json:"questions_updated"`
}

type QuizResponse struct {
	models.Quiz
	Stats   QuizStats    `json:"stats"`
	Changes *QuizChanges `json:"changes,omitempty"`
}

type BulkUpdateSummary struct {
	RequestedCount int                    `json:"requested_count"`
	UpdatedCount   int64                  `json:"updated_count"`
	AppliedChanges map[string]interface{} `json:"applied_changes"`
}

type BulkUpdateResponse struct {
	Quizzes []QuizResponse    `json:"quizzes"`
	Summary BulkUpdateSummary `json:"summary"`
}

func newQuizResponse(quiz *models.Quiz, attempts int64) *QuizResponse {
	return &QuizResponse{
		Quiz: *quiz,
		Stats: QuizStats{
			TotalQuestions: len(quiz.Questions),
			TotalAttempts:  attempts,
			TotalPoints:    quiz.TotalPoints(),
		},
	}
}
