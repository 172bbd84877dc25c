package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/quiz-service/internal/analytics"
	"github.com/SAP-F-2025/quiz-service/internal/cache"
	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/repositories"
	"golang.org/x/sync/errgroup"
)

// AnalyticsService provides analytics and reporting for quizzes
type AnalyticsService interface {
	GetQuizAnalytics(ctx context.Context, quizID uint, userID string) (*analytics.QuizAnalytics, error)
	// ExportQuizAnalytics renders the analytics as an XLSX workbook.
	ExportQuizAnalytics(ctx context.Context, quizID uint, userID string) ([]byte, error)
}

type analyticsService struct {
	ownership

	cache    cache.CacheService
	cacheTTL time.Duration
	logger   *slog.Logger
	opLogger *ServiceLogger
	now      func() time.Time
}

func NewAnalyticsService(repo repositories.Repository, cacheService cache.CacheService, cacheTTL time.Duration, logger *slog.Logger) AnalyticsService {
	return &analyticsService{
		ownership: ownership{repo: repo},
		cache:     cacheService,
		cacheTTL:  cacheTTL,
		logger:    logger,
		opLogger:  NewServiceLogger(logger, LogConfig{Service: "quiz-service", Component: "analytics"}),
		now:       time.Now,
	}
}

func (s *analyticsService) GetQuizAnalytics(ctx context.Context, quizID uint, userID string) (result *analytics.QuizAnalytics, err error) {
	op := s.opLogger.WithOperation(ctx, "get_quiz_analytics", userID)
	defer func() { op.LogResult(quizID, "quiz", err) }()

	quiz, _, err := s.resolveQuiz(ctx, nil, quizID, userID)
	if err != nil {
		return nil, err
	}

	key := cache.QuizAnalyticsKey(quizID)
	var cached analytics.QuizAnalytics
	switch err := s.cache.Get(ctx, key, &cached); {
	case err == nil:
		return &cached, nil
	case !errors.Is(err, cache.ErrCacheMiss):
		s.logger.Warn("Analytics cache read failed", "quiz_id", quizID, "error", err)
	}

	input, err := s.loadInput(ctx, quiz)
	if err != nil {
		return nil, err
	}

	result = analytics.Aggregate(*input, s.now())

	if err := s.cache.Set(ctx, key, result, s.cacheTTL); err != nil {
		s.logger.Warn("Analytics cache write failed", "quiz_id", quizID, "error", err)
	}
	return result, nil
}

func (s *analyticsService) ExportQuizAnalytics(ctx context.Context, quizID uint, userID string) ([]byte, error) {
	result, err := s.GetQuizAnalytics(ctx, quizID, userID)
	if err != nil {
		return nil, err
	}
	return renderAnalyticsWorkbook(result)
}

// loadInput fetches questions, attempts and answers concurrently. The whole
// attempt history is held in memory.
func (s *analyticsService) loadInput(ctx context.Context, quiz *models.Quiz) (*analytics.Input, error) {
	input := &analytics.Input{Quiz: *quiz}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		questions, err := s.repo.Question().GetByQuiz(gctx, nil, quiz.ID)
		if err != nil {
			return fmt.Errorf("failed to load questions: %w", err)
		}
		input.Questions = questions
		return nil
	})
	g.Go(func() error {
		attempts, err := s.repo.Attempt().ListByQuiz(gctx, nil, quiz.ID)
		if err != nil {
			return fmt.Errorf("failed to load attempts: %w", err)
		}
		input.Attempts = attempts
		return nil
	})
	g.Go(func() error {
		answers, err := s.repo.Attempt().ListAnswersByQuiz(gctx, nil, quiz.ID)
		if err != nil {
			return fmt.Errorf("failed to load answers: %w", err)
		}
		input.Answers = answers
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return input, nil
}
