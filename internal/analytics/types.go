package analytics

import (
	"time"

	"github.com/SAP-F-2025/quiz-service/internal/models"
)

// Input is everything the aggregator reads for one quiz. Attempts are
// expected in load order; struggling students keep that order.
type Input struct {
	Quiz      models.Quiz
	Questions []models.Question
	Attempts  []models.QuizAttempt
	Answers   []models.Answer
}

type QuizAnalytics struct {
	Quiz               QuizSummary         `json:"quiz"`
	Overview           Overview            `json:"overview"`
	ScoreDistribution  []ScoreBucket       `json:"score_distribution"`
	TimeAnalytics      TimeAnalytics       `json:"time_analytics"`
	QuestionAnalytics  []QuestionStat      `json:"question_analytics"`
	RecentActivity     []AttemptSummary    `json:"recent_activity"`
	Trends             Trends              `json:"trends"`
	TopPerformers      []AttemptSummary    `json:"top_performers"`
	StrugglingStudents []StrugglingStudent `json:"struggling_students"`
	GeneratedAt        time.Time           `json:"generated_at"`
}

type QuizSummary struct {
	ID           uint   `json:"id"`
	Title        string `json:"title"`
	PassingScore int    `json:"passing_score"`
}

type Overview struct {
	TotalAttempts  int     `json:"total_attempts"`
	UniqueStudents int     `json:"unique_students"`
	PassedAttempts int     `json:"passed_attempts"`
	FailedAttempts int     `json:"failed_attempts"`
	PassRate       float64 `json:"pass_rate"`
	AverageScore   float64 `json:"average_score"`
	TotalQuestions int     `json:"total_questions"`
	TotalPoints    float64 `json:"total_points"`
}

type ScoreBucket struct {
	Range string `json:"range"`
	Count int    `json:"count"`
}

type TimeAnalytics struct {
	AverageTime float64 `json:"average_time"` // seconds
	MinTime     int     `json:"min_time"`
	MaxTime     int     `json:"max_time"`
}

type QuestionStat struct {
	QuestionID     uint                `json:"question_id"`
	Question       string              `json:"question"`
	Type           models.QuestionType `json:"type"`
	Order          int                 `json:"order"`
	Points         float64             `json:"points"`
	TotalAnswers   int                 `json:"total_answers"`
	CorrectAnswers int                 `json:"correct_answers"`
	Accuracy       float64             `json:"accuracy"`
	Difficulty     string              `json:"difficulty"`
}

type AttemptSummary struct {
	AttemptID   uint       `json:"attempt_id"`
	StudentID   string     `json:"student_id"`
	Score       float64    `json:"score"`
	Passed      bool       `json:"passed"`
	TimeSpent   int        `json:"time_spent"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type Trends struct {
	Last7Days  int `json:"last_7_days"`
	Last30Days int `json:"last_30_days"`
	Last90Days int `json:"last_90_days"`
}

type StrugglingStudent struct {
	StudentID      string  `json:"student_id"`
	BestScore      float64 `json:"best_score"`
	AverageScore   float64 `json:"average_score"`
	FailedAttempts int     `json:"failed_attempts"`
}

// Count returns the bucket count for a range label, or 0.
func (a *QuizAnalytics) Count(label string) int {
	for _, b := range a.ScoreDistribution {
		if b.Range == label {
			return b.Count
		}
	}
	return 0
}
