package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/quiz-service/internal/cache"
	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/ordering"
	"github.com/SAP-F-2025/quiz-service/internal/repositories"
	"github.com/SAP-F-2025/quiz-service/internal/validator"
	"gorm.io/gorm"
)

// QuizService manages the quizzes of a course section and their questions.
// userID is the authenticated user; every call checks that it belongs to a
// verified instructor who owns the course.
type QuizService interface {
	Create(ctx context.Context, sectionID uint, req *CreateQuizRequest, userID string) (*QuizResponse, error)
	GetByID(ctx context.Context, quizID uint, userID string) (*QuizResponse, error)
	ListBySection(ctx context.Context, sectionID uint, userID string) ([]QuizResponse, error)
	Update(ctx context.Context, quizID uint, req *UpdateQuizRequest, userID string) (*QuizResponse, error)
	Delete(ctx context.Context, quizID uint, userID string) error

	ReorderQuizzes(ctx context.Context, sectionID uint, req *ReorderQuizzesRequest, userID string) ([]QuizResponse, error)
	ReorderQuestions(ctx context.Context, quizID uint, req *ReorderQuestionsRequest, userID string) (*QuizResponse, error)
	BulkUpdate(ctx context.Context, sectionID uint, req *BulkUpdateRequest, userID string) (*BulkUpdateResponse, error)
}

type quizService struct {
	ownership

	db        *gorm.DB
	repo      repositories.Repository
	validator *validator.Validator
	cache     cache.CacheService
	notifier  NotificationEventService
	logger    *slog.Logger
	opLogger  *ServiceLogger
}

func NewQuizService(
	db *gorm.DB,
	repo repositories.Repository,
	validator *validator.Validator,
	cacheService cache.CacheService,
	notifier NotificationEventService,
	logger *slog.Logger,
) QuizService {
	return &quizService{
		ownership: ownership{repo: repo},
		db:        db,
		repo:      repo,
		validator: validator,
		cache:     cacheService,
		notifier:  notifier,
		logger:    logger,
		opLogger:  NewServiceLogger(logger, LogConfig{Service: "quiz-service", Component: "quiz"}),
	}
}

// ===== CORE CRUD OPERATIONS =====

func (s *quizService) Create(ctx context.Context, sectionID uint, req *CreateQuizRequest, userID string) (resp *QuizResponse, err error) {
	op := s.opLogger.WithOperation(ctx, "create_quiz", userID)
	defer func() { op.LogResult(responseID(resp), "quiz", err) }()

	s.logger.Info("Creating quiz", "section_id", sectionID, "user_id", userID, "title", req.Title)

	if err = s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}
	questions, err := s.validator.Question().ValidateQuestions(req.Questions)
	if err != nil {
		return nil, err
	}

	section, err := s.resolveSection(ctx, nil, sectionID, userID)
	if err != nil {
		return nil, err
	}
	if err = CanMutate(section.Course.Status, false, ChangeSet{Structural: true}); err != nil {
		return nil, err
	}

	quiz := buildQuiz(sectionID, req)
	err = s.withTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.Course().LockSection(ctx, tx, sectionID); err != nil {
			return err
		}

		siblings, err := s.repo.Quiz().GetSiblingOrders(ctx, tx, sectionID)
		if err != nil {
			return err
		}

		seq := ordering.New(siblings)
		var plan ordering.Plan
		if req.Order != nil {
			plan = seq.InsertAt(0, *req.Order)
		} else {
			plan = seq.Append(0)
		}

		if err := s.applyQuizShifts(ctx, tx, sectionID, plan); err != nil {
			return err
		}

		quiz.Order = plan.Position
		if err := s.repo.Quiz().Create(ctx, tx, quiz); err != nil {
			return err
		}
		return s.repo.Question().CreateBatch(ctx, tx, quiz.ID, questions)
	})
	if err != nil {
		return nil, txError("create quiz", err, ErrSectionNotFound)
	}

	created, err := s.repo.Quiz().GetByIDWithQuestions(ctx, nil, quiz.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load created quiz: %w", err)
	}

	s.notifier.NotifyQuizCreated(ctx, created, section, userID)

	s.logger.Info("Quiz created", "quiz_id", created.ID, "section_id", sectionID, "order", created.Order)
	return newQuizResponse(created, 0), nil
}

func (s *quizService) GetByID(ctx context.Context, quizID uint, userID string) (*QuizResponse, error) {
	quiz, _, err := s.resolveQuiz(ctx, nil, quizID, userID)
	if err != nil {
		return nil, err
	}

	withQuestions, err := s.repo.Quiz().GetByIDWithQuestions(ctx, nil, quiz.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	attempts, err := s.repo.Attempt().CountByQuiz(ctx, nil, quiz.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count attempts: %w", err)
	}

	return newQuizResponse(withQuestions, attempts), nil
}

func (s *quizService) ListBySection(ctx context.Context, sectionID uint, userID string) ([]QuizResponse, error) {
	if _, err := s.resolveSection(ctx, nil, sectionID, userID); err != nil {
		return nil, err
	}
	return s.listSection(ctx, nil, sectionID)
}

func (s *quizService) Update(ctx context.Context, quizID uint, req *UpdateQuizRequest, userID string) (resp *QuizResponse, err error) {
	op := s.opLogger.WithOperation(ctx, "update_quiz", userID)
	defer func() { op.LogResult(quizID, "quiz", err) }()

	s.logger.Info("Updating quiz", "quiz_id", quizID, "user_id", userID)

	if err = s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}
	var questions []models.Question
	if req.Questions != nil {
		if questions, err = s.validator.Question().ValidateQuestions(*req.Questions); err != nil {
			return nil, err
		}
	}

	quiz, section, err := s.resolveQuiz(ctx, nil, quizID, userID)
	if err != nil {
		return nil, err
	}

	changes := &QuizChanges{FieldsUpdated: []string{}}
	err = s.withTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.Course().LockSection(ctx, tx, quiz.SectionID); err != nil {
			return err
		}

		current, err := s.repo.Quiz().GetByID(ctx, tx, quizID)
		if err != nil {
			return err
		}
		attempts, err := s.repo.Attempt().CountByQuiz(ctx, tx, quizID)
		if err != nil {
			return err
		}

		diff := diffQuiz(current, req)
		if err := CanMutate(section.Course.Status, attempts > 0, diff.changeSet); err != nil {
			return err
		}

		if len(diff.fields) > 0 {
			if err := s.repo.Quiz().UpdateFields(ctx, tx, quizID, diff.fields); err != nil {
				return err
			}
			changes.FieldsUpdated = diff.names
		}

		if req.Questions != nil {
			if err := s.repo.Question().DeleteByQuiz(ctx, tx, quizID); err != nil {
				return err
			}
			if err := s.repo.Question().CreateBatch(ctx, tx, quizID, questions); err != nil {
				return err
			}
			changes.QuestionsUpdated = true
		}

		if req.Order != nil && *req.Order != current.Order {
			moved, err := s.moveQuiz(ctx, tx, current, *req.Order)
			if err != nil {
				return err
			}
			changes.OrderChanged = moved
		}
		return nil
	})
	if err != nil {
		return nil, txError("update quiz", err, ErrQuizNotFound)
	}

	s.invalidateQuiz(ctx, quizID)

	updated, err := s.GetByID(ctx, quizID, userID)
	if err != nil {
		return nil, err
	}
	updated.Changes = changes
	return updated, nil
}

func (s *quizService) Delete(ctx context.Context, quizID uint, userID string) (err error) {
	op := s.opLogger.WithOperation(ctx, "delete_quiz", userID)
	defer func() { op.LogResult(quizID, "quiz", err) }()

	quiz, section, err := s.resolveQuiz(ctx, nil, quizID, userID)
	if err != nil {
		return err
	}

	err = s.withTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.Course().LockSection(ctx, tx, quiz.SectionID); err != nil {
			return err
		}

		attempts, err := s.repo.Attempt().CountByQuiz(ctx, tx, quizID)
		if err != nil {
			return err
		}
		if err := CanDelete(section.Course.Status, attempts); err != nil {
			return err
		}

		siblings, err := s.repo.Quiz().GetSiblingOrders(ctx, tx, quiz.SectionID)
		if err != nil {
			return err
		}
		plan, err := ordering.New(siblings).Delete(quizID)
		if err != nil {
			return gorm.ErrRecordNotFound
		}

		if err := s.repo.Question().DeleteByQuiz(ctx, tx, quizID); err != nil {
			return err
		}
		if err := s.repo.Quiz().Delete(ctx, tx, quizID); err != nil {
			return err
		}
		return s.applyQuizShifts(ctx, tx, quiz.SectionID, plan)
	})
	if err != nil {
		return txError("delete quiz", err, ErrQuizNotFound)
	}

	s.invalidateQuiz(ctx, quizID)
	s.logger.Info("Quiz deleted", "quiz_id", quizID, "section_id", quiz.SectionID)
	return nil
}

// ===== ORDERING OPERATIONS =====

func (s *quizService) ReorderQuizzes(ctx context.Context, sectionID uint, req *ReorderQuizzesRequest, userID string) (resp []QuizResponse, err error) {
	op := s.opLogger.WithOperation(ctx, "reorder_quizzes", userID)
	defer func() { op.LogResult(sectionID, "section", err) }()

	if err = s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	section, err := s.resolveSection(ctx, nil, sectionID, userID)
	if err != nil {
		return nil, err
	}
	if err = CanMutate(section.Course.Status, false, ChangeSet{Cosmetic: true}); err != nil {
		return nil, err
	}

	var changed []ordering.Item
	err = s.withTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.Course().LockSection(ctx, tx, sectionID); err != nil {
			return err
		}

		existing, err := s.repo.Quiz().GetSiblingOrders(ctx, tx, sectionID)
		if err != nil {
			return err
		}
		if changed, err = ordering.ValidateReorder(existing, req.QuizOrders); err != nil {
			return reorderValidationError("quiz_orders", err)
		}
		return s.repo.Quiz().UpdateOrders(ctx, tx, sectionID, changed)
	})
	if err != nil {
		return nil, txError("reorder quizzes", err, ErrSectionNotFound)
	}

	for _, it := range changed {
		s.invalidateQuiz(ctx, it.ID)
	}
	s.logger.Info("Quizzes reordered", "section_id", sectionID, "changed", len(changed))

	return s.listSection(ctx, nil, sectionID)
}

func (s *quizService) ReorderQuestions(ctx context.Context, quizID uint, req *ReorderQuestionsRequest, userID string) (resp *QuizResponse, err error) {
	op := s.opLogger.WithOperation(ctx, "reorder_questions", userID)
	defer func() { op.LogResult(quizID, "quiz", err) }()

	if err = s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	quiz, section, err := s.resolveQuiz(ctx, nil, quizID, userID)
	if err != nil {
		return nil, err
	}
	if err = CanMutate(section.Course.Status, false, ChangeSet{Cosmetic: true}); err != nil {
		return nil, err
	}

	var changed []ordering.Item
	err = s.withTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.Course().LockSection(ctx, tx, quiz.SectionID); err != nil {
			return err
		}

		existing, err := s.repo.Question().GetOrders(ctx, tx, quizID)
		if err != nil {
			return err
		}
		if changed, err = ordering.ValidateReorder(existing, req.QuestionOrders); err != nil {
			return reorderValidationError("question_orders", err)
		}
		return s.repo.Question().UpdateOrders(ctx, tx, quizID, changed)
	})
	if err != nil {
		return nil, txError("reorder questions", err, ErrQuizNotFound)
	}

	if len(changed) > 0 {
		s.invalidateQuiz(ctx, quizID)
	}
	return s.GetByID(ctx, quizID, userID)
}

// ===== BULK OPERATIONS =====

func (s *quizService) BulkUpdate(ctx context.Context, sectionID uint, req *BulkUpdateRequest, userID string) (resp *BulkUpdateResponse, err error) {
	op := s.opLogger.WithOperation(ctx, "bulk_update_quizzes", userID)
	defer func() { op.LogResult(sectionID, "section", err) }()

	if err = s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	ids := uniqueIDs(req.QuizIDs)
	section, err := s.resolveSection(ctx, nil, sectionID, userID)
	if err != nil {
		return nil, err
	}

	var updated int64
	var columns map[string]interface{}
	err = s.withTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.Course().LockSection(ctx, tx, sectionID); err != nil {
			return err
		}

		quizzes, err := s.repo.Quiz().GetByIDs(ctx, tx, sectionID, ids)
		if err != nil {
			return err
		}
		if len(quizzes) != len(ids) {
			return fmt.Errorf("%w: %v", ErrQuizNotFound, missingIDs(ids, quizzes))
		}

		counts, err := s.repo.Attempt().CountByQuizIDs(ctx, tx, ids)
		if err != nil {
			return err
		}
		if columns, err = CheckBulkUpdate(req.Updates, section.Course.Status, counts); err != nil {
			return err
		}

		updated, err = s.repo.Quiz().BulkUpdateFields(ctx, tx, sectionID, ids, columns)
		return err
	})
	if err != nil {
		return nil, txError("bulk update quizzes", err, ErrSectionNotFound)
	}

	for _, id := range ids {
		s.invalidateQuiz(ctx, id)
	}

	quizzes, err := s.repo.Quiz().GetByIDs(ctx, nil, sectionID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load updated quizzes: %w", err)
	}
	counts, err := s.repo.Attempt().CountByQuizIDs(ctx, nil, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count attempts: %w", err)
	}

	resp = &BulkUpdateResponse{
		Quizzes: make([]QuizResponse, 0, len(quizzes)),
		Summary: BulkUpdateSummary{
			RequestedCount: len(ids),
			UpdatedCount:   updated,
			AppliedChanges: columns,
		},
	}
	for i := range quizzes {
		resp.Quizzes = append(resp.Quizzes, *newQuizResponse(&quizzes[i], counts[quizzes[i].ID]))
	}

	s.logger.Info("Quizzes bulk updated", "section_id", sectionID, "count", updated)
	return resp, nil
}
