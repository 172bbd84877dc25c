package models

import (
	"time"

	"gorm.io/datatypes"
)

type QuestionType string

const (
	MultipleChoice QuestionType = "MULTIPLE_CHOICE"
	SingleChoice   QuestionType = "SINGLE_CHOICE"
	TrueFalse      QuestionType = "TRUE_FALSE"
	ShortAnswer    QuestionType = "SHORT_ANSWER"
	Essay          QuestionType = "ESSAY"
	FillInBlank    QuestionType = "FILL_IN_BLANK"
	Matching       QuestionType = "MATCHING"
	DragDrop       QuestionType = "DRAG_DROP"
	CodeChallenge  QuestionType = "CODE_CHALLENGE"
)

// AllQuestionTypes lists every supported question type in declaration order.
var AllQuestionTypes = []QuestionType{
	MultipleChoice,
	SingleChoice,
	TrueFalse,
	ShortAnswer,
	Essay,
	FillInBlank,
	Matching,
	DragDrop,
	CodeChallenge,
}

func (t QuestionType) Valid() bool {
	for _, known := range AllQuestionTypes {
		if t == known {
			return true
		}
	}
	return false
}

type Quiz struct {
	ID           uint    `json:"id" gorm:"primaryKey"`
	SectionID    uint    `json:"section_id" gorm:"not null;index"`
	Title        string  `json:"title" gorm:"not null;size:200"`
	Description  *string `json:"description" gorm:"type:text"`
	Instructions *string `json:"instructions" gorm:"type:text"`
	Duration     int     `json:"duration" gorm:"not null"` // minutes
	PassingScore int     `json:"passing_score" gorm:"not null"`
	MaxAttempts  int     `json:"max_attempts" gorm:"not null"`
	Order        int     `json:"order" gorm:"column:position;not null;index"`

	// Flags
	IsRequired         bool `json:"is_required" gorm:"not null"`
	RandomizeQuestions bool `json:"randomize_questions" gorm:"not null"`
	ShowResults        bool `json:"show_results" gorm:"not null"`
	AllowReview        bool `json:"allow_review" gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Questions []Question `json:"questions,omitempty" gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE"`
	Section   *Section   `json:"-" gorm:"foreignKey:SectionID"`
}

// BulkUpdatableQuizFields maps the wire names accepted by bulk update to their columns.
var BulkUpdatableQuizFields = map[string]string{
	"is_required":         "is_required",
	"show_results":        "show_results",
	"allow_review":        "allow_review",
	"randomize_questions": "randomize_questions",
}

func (Quiz) TableName() string {
	return "quizzes"
}

// TotalPoints is derived from the loaded questions and never stored.
func (q *Quiz) TotalPoints() float64 {
	var total float64
	for _, question := range q.Questions {
		total += question.Points
	}
	return total
}

type MatchingPair struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

type TestCase struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"expected_output"`
	Hidden         bool   `json:"hidden"`
}

type Question struct {
	ID       uint         `json:"id" gorm:"primaryKey"`
	QuizID   uint         `json:"quiz_id" gorm:"not null;index"`
	Question string       `json:"question" gorm:"type:text;not null"`
	Type     QuestionType `json:"type" gorm:"size:32;not null"`
	Points   float64      `json:"points" gorm:"not null"`
	Order    int          `json:"order" gorm:"column:position;not null"`

	// Type-specific payload
	Options       datatypes.JSONSlice[string]       `json:"options,omitempty"`
	CorrectAnswer datatypes.JSONSlice[string]       `json:"correct_answer,omitempty"`
	MatchingPairs datatypes.JSONSlice[MatchingPair] `json:"matching_pairs,omitempty"`
	CodeTemplate  *string                           `json:"code_template,omitempty" gorm:"type:text"`
	TestCases     datatypes.JSONSlice[TestCase]     `json:"test_cases,omitempty"`
	Language      *string                           `json:"language,omitempty" gorm:"size:50"`

	// Optional metadata
	Explanation *string                     `json:"explanation,omitempty" gorm:"type:text"`
	Hints       datatypes.JSONSlice[string] `json:"hints,omitempty"`
	Difficulty  *string                     `json:"difficulty,omitempty" gorm:"size:20"`
	Tags        datatypes.JSONSlice[string] `json:"tags,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Question) TableName() string {
	return "quiz_questions"
}
