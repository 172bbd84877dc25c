// Package analytics turns the raw attempt and answer records of one quiz
// into reporting figures. Everything here is pure computation.
package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/SAP-F-2025/quiz-service/internal/models"
)

const (
	Bucket90To100 = "90-100"
	Bucket80To89  = "80-89"
	Bucket70To79  = "70-79"
	Bucket60To69  = "60-69"
	BucketBelow60 = "Below 60"

	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"
	DifficultyNoData = "No Data"

	recentActivityLimit = 10
	topPerformerLimit   = 5
	strugglingLimit     = 5
	questionTextLimit   = 100
)

var bucketOrder = []string{Bucket90To100, Bucket80To89, Bucket70To79, Bucket60To69, BucketBelow60}

// Aggregate computes the full analytics report. now anchors the trend windows.
func Aggregate(in Input, now time.Time) *QuizAnalytics {
	return &QuizAnalytics{
		Quiz: QuizSummary{
			ID:           in.Quiz.ID,
			Title:        in.Quiz.Title,
			PassingScore: in.Quiz.PassingScore,
		},
		Overview:           overview(in),
		ScoreDistribution:  scoreDistribution(in.Attempts),
		TimeAnalytics:      timeAnalytics(in.Attempts),
		QuestionAnalytics:  questionAnalytics(in.Questions, in.Answers),
		RecentActivity:     recentActivity(in.Attempts),
		Trends:             trends(in.Attempts, now),
		TopPerformers:      topPerformers(in.Attempts),
		StrugglingStudents: strugglingStudents(in.Attempts),
		GeneratedAt:        now,
	}
}

func overview(in Input) Overview {
	o := Overview{
		TotalAttempts:  len(in.Attempts),
		TotalQuestions: len(in.Questions),
	}

	students := make(map[string]struct{})
	var scoreSum float64
	for _, a := range in.Attempts {
		students[a.StudentID] = struct{}{}
		scoreSum += a.Score
		if a.Passed {
			o.PassedAttempts++
		}
	}
	o.UniqueStudents = len(students)
	o.FailedAttempts = o.TotalAttempts - o.PassedAttempts
	o.PassRate = percent(o.PassedAttempts, o.TotalAttempts)
	o.AverageScore = mean(scoreSum, o.TotalAttempts)

	for _, q := range in.Questions {
		o.TotalPoints += q.Points
	}
	return o
}

// BucketFor returns the distribution bucket a score falls into.
func BucketFor(score float64) string {
	switch {
	case score >= 90:
		return Bucket90To100
	case score >= 80:
		return Bucket80To89
	case score >= 70:
		return Bucket70To79
	case score >= 60:
		return Bucket60To69
	default:
		return BucketBelow60
	}
}

func scoreDistribution(attempts []models.QuizAttempt) []ScoreBucket {
	counts := make(map[string]int, len(bucketOrder))
	for _, a := range attempts {
		counts[BucketFor(a.Score)]++
	}

	buckets := make([]ScoreBucket, 0, len(bucketOrder))
	for _, label := range bucketOrder {
		buckets = append(buckets, ScoreBucket{Range: label, Count: counts[label]})
	}
	return buckets
}

func timeAnalytics(attempts []models.QuizAttempt) TimeAnalytics {
	if len(attempts) == 0 {
		return TimeAnalytics{}
	}

	t := TimeAnalytics{MinTime: attempts[0].TimeSpent, MaxTime: attempts[0].TimeSpent}
	var total int
	for _, a := range attempts {
		total += a.TimeSpent
		if a.TimeSpent < t.MinTime {
			t.MinTime = a.TimeSpent
		}
		if a.TimeSpent > t.MaxTime {
			t.MaxTime = a.TimeSpent
		}
	}
	t.AverageTime = mean(float64(total), len(attempts))
	return t
}

func questionAnalytics(questions []models.Question, answers []models.Answer) []QuestionStat {
	type tally struct{ total, correct int }
	byQuestion := make(map[uint]*tally, len(questions))
	for _, ans := range answers {
		t, ok := byQuestion[ans.QuestionID]
		if !ok {
			t = &tally{}
			byQuestion[ans.QuestionID] = t
		}
		t.total++
		if ans.IsCorrect {
			t.correct++
		}
	}

	stats := make([]QuestionStat, 0, len(questions))
	for _, q := range questions {
		stat := QuestionStat{
			QuestionID: q.ID,
			Question:   truncate(q.Question, questionTextLimit),
			Type:       q.Type,
			Order:      q.Order,
			Points:     q.Points,
			Difficulty: DifficultyNoData,
		}
		if t, ok := byQuestion[q.ID]; ok && t.total > 0 {
			stat.TotalAnswers = t.total
			stat.CorrectAnswers = t.correct
			stat.Accuracy = percent(t.correct, t.total)
			stat.Difficulty = ClassifyDifficulty(float64(t.correct) / float64(t.total))
		}
		stats = append(stats, stat)
	}
	return stats
}

// ClassifyDifficulty labels a question from its correct-answer ratio in [0, 1].
func ClassifyDifficulty(ratio float64) string {
	switch {
	case ratio >= 0.8:
		return DifficultyEasy
	case ratio >= 0.6:
		return DifficultyMedium
	default:
		return DifficultyHard
	}
}

func recentActivity(attempts []models.QuizAttempt) []AttemptSummary {
	sorted := make([]models.QuizAttempt, len(attempts))
	copy(sorted, attempts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartedAt.After(sorted[j].StartedAt)
	})
	return summarize(sorted, recentActivityLimit)
}

func trends(attempts []models.QuizAttempt, now time.Time) Trends {
	var t Trends
	day := 24 * time.Hour
	for _, a := range attempts {
		age := now.Sub(a.StartedAt)
		if age <= 90*day {
			t.Last90Days++
		}
		if age <= 30*day {
			t.Last30Days++
		}
		if age <= 7*day {
			t.Last7Days++
		}
	}
	return t
}

func topPerformers(attempts []models.QuizAttempt) []AttemptSummary {
	var passed []models.QuizAttempt
	for _, a := range attempts {
		if a.Passed {
			passed = append(passed, a)
		}
	}
	sort.SliceStable(passed, func(i, j int) bool {
		return passed[i].Score > passed[j].Score
	})
	return summarize(passed, topPerformerLimit)
}

func strugglingStudents(attempts []models.QuizAttempt) []StrugglingStudent {
	type group struct {
		best  float64
		sum   float64
		count int
	}

	var seenOrder []string
	groups := make(map[string]*group)
	for _, a := range attempts {
		if a.Passed {
			continue
		}
		g, ok := groups[a.StudentID]
		if !ok {
			g = &group{best: a.Score}
			groups[a.StudentID] = g
			seenOrder = append(seenOrder, a.StudentID)
		}
		if a.Score > g.best {
			g.best = a.Score
		}
		g.sum += a.Score
		g.count++
	}

	out := make([]StrugglingStudent, 0, strugglingLimit)
	for _, studentID := range seenOrder {
		if len(out) == strugglingLimit {
			break
		}
		g := groups[studentID]
		out = append(out, StrugglingStudent{
			StudentID:      studentID,
			BestScore:      g.best,
			AverageScore:   mean(g.sum, g.count),
			FailedAttempts: g.count,
		})
	}
	return out
}

func summarize(attempts []models.QuizAttempt, limit int) []AttemptSummary {
	if len(attempts) > limit {
		attempts = attempts[:limit]
	}
	out := make([]AttemptSummary, 0, len(attempts))
	for _, a := range attempts {
		out = append(out, AttemptSummary{
			AttemptID:   a.ID,
			StudentID:   a.StudentID,
			Score:       a.Score,
			Passed:      a.Passed,
			TimeSpent:   a.TimeSpent,
			StartedAt:   a.StartedAt,
			CompletedAt: a.CompletedAt,
		})
	}
	return out
}

// percent returns part/whole as a percentage with one decimal, 0 for an empty whole.
func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return round1(float64(part) * 100 / float64(whole))
}

func mean(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return round1(sum / float64(n))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
