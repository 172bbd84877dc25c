package cache

import "fmt"

const DefaultPrefix = "quiz-service:"

func QuizAnalyticsKey(quizID uint) string {
	return fmt.Sprintf("quiz:%d:analytics", quizID)
}

// QuizKeyPattern matches every cached entry derived from one quiz.
func QuizKeyPattern(quizID uint) string {
	return fmt.Sprintf("quiz:%d:*", quizID)
}
