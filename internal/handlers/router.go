package handlers

import (
	"github.com/SAP-F-2025/quiz-service/internal/services"
	"github.com/SAP-F-2025/quiz-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type HandlerManager struct {
	quizHandler      *QuizHandler
	analyticsHandler *AnalyticsHandler
	logger           utils.Logger
}

func NewHandlerManager(
	quizService services.QuizService,
	analyticsService services.AnalyticsService,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		quizHandler:      NewQuizHandler(quizService, logger),
		analyticsHandler: NewAnalyticsHandler(analyticsService, logger),
		logger:           logger,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine, parser TokenParser) {
	router.GET("/health", HealthCheck)

	v1 := router.Group("/api/v1")
	v1.Use(hm.AuthMiddleware(parser))
	{
		sections := v1.Group("/sections/:section_id/quizzes")
		{
			sections.POST("", hm.quizHandler.CreateQuiz)
			sections.GET("", hm.quizHandler.ListQuizzes)
			sections.PUT("/reorder", hm.quizHandler.ReorderQuizzes)
			sections.PATCH("/bulk", hm.quizHandler.BulkUpdateQuizzes)
		}

		quizzes := v1.Group("/quizzes")
		{
			quizzes.GET("/:id", hm.quizHandler.GetQuiz)
			quizzes.PUT("/:id", hm.quizHandler.UpdateQuiz)
			quizzes.DELETE("/:id", hm.quizHandler.DeleteQuiz)
			quizzes.PUT("/:id/questions/reorder", hm.quizHandler.ReorderQuestions)

			// Analytics
			quizzes.GET("/:id/analytics", hm.analyticsHandler.GetQuizAnalytics)
			quizzes.GET("/:id/analytics/export", hm.analyticsHandler.ExportQuizAnalytics)
		}
	}
}
