package services

import (
	"fmt"

	"github.com/SAP-F-2025/quiz-service/internal/analytics"
	"github.com/xuri/excelize/v2"
)

const (
	sheetOverview     = "Overview"
	sheetDistribution = "Score Distribution"
	sheetQuestions    = "Questions"
	sheetStruggling   = "Struggling Students"
)

func renderAnalyticsWorkbook(result *analytics.QuizAnalytics) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	// The default sheet becomes the overview
	if err := f.SetSheetName("Sheet1", sheetOverview); err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}

	overview := result.Overview
	overviewRows := [][]interface{}{
		{"Quiz", result.Quiz.Title},
		{"Passing Score", result.Quiz.PassingScore},
		{"Total Attempts", overview.TotalAttempts},
		{"Unique Students", overview.UniqueStudents},
		{"Passed Attempts", overview.PassedAttempts},
		{"Failed Attempts", overview.FailedAttempts},
		{"Pass Rate (%)", overview.PassRate},
		{"Average Score", overview.AverageScore},
		{"Total Questions", overview.TotalQuestions},
		{"Total Points", overview.TotalPoints},
		{"Average Time (s)", result.TimeAnalytics.AverageTime},
		{"Attempts Last 7 Days", result.Trends.Last7Days},
		{"Attempts Last 30 Days", result.Trends.Last30Days},
		{"Attempts Last 90 Days", result.Trends.Last90Days},
		{"Generated At", result.GeneratedAt},
	}
	if err := writeRows(f, sheetOverview, []interface{}{"Metric", "Value"}, overviewRows); err != nil {
		return nil, err
	}

	distribution := make([][]interface{}, 0, len(result.ScoreDistribution))
	for _, bucket := range result.ScoreDistribution {
		distribution = append(distribution, []interface{}{bucket.Range, bucket.Count})
	}
	if err := addSheet(f, sheetDistribution, []interface{}{"Range", "Attempts"}, distribution); err != nil {
		return nil, err
	}

	questions := make([][]interface{}, 0, len(result.QuestionAnalytics))
	for _, q := range result.QuestionAnalytics {
		questions = append(questions, []interface{}{
			q.Order, q.Question, string(q.Type), q.Points, q.TotalAnswers, q.CorrectAnswers, q.Accuracy, q.Difficulty,
		})
	}
	questionHeader := []interface{}{"Order", "Question", "Type", "Points", "Answers", "Correct", "Accuracy (%)", "Difficulty"}
	if err := addSheet(f, sheetQuestions, questionHeader, questions); err != nil {
		return nil, err
	}

	struggling := make([][]interface{}, 0, len(result.StrugglingStudents))
	for _, st := range result.StrugglingStudents {
		struggling = append(struggling, []interface{}{st.StudentID, st.BestScore, st.AverageScore, st.FailedAttempts})
	}
	strugglingHeader := []interface{}{"Student", "Best Score", "Average Score", "Failed Attempts"}
	if err := addSheet(f, sheetStruggling, strugglingHeader, struggling); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

func addSheet(f *excelize.File, name string, header []interface{}, rows [][]interface{}) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	return writeRows(f, name, header, rows)
}

func writeRows(f *excelize.File, sheet string, header []interface{}, rows [][]interface{}) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", sheet, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
