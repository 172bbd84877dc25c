package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/SAP-F-2025/quiz-service/internal/cache"
	apperrors "github.com/SAP-F-2025/quiz-service/internal/errors"
	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/ordering"
	"github.com/SAP-F-2025/quiz-service/internal/repositories"
	"gorm.io/gorm"
)

// Defaults applied when a create request omits a setting
const (
	defaultMaxAttempts        = 1
	defaultIsRequired         = true
	defaultRandomizeQuestions = false
	defaultShowResults        = true
	defaultAllowReview        = true
)

// ===== OWNERSHIP =====

// ownership resolves instructor ownership of sections and quizzes.
type ownership struct {
	repo repositories.Repository
}

// resolveInstructor maps the authenticated user to a verified instructor.
func (s ownership) resolveInstructor(ctx context.Context, tx *gorm.DB, userID string) (*models.Instructor, error) {
	instructor, err := s.repo.Course().GetInstructorByUserID(ctx, tx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInstructorNotFound
		}
		return nil, fmt.Errorf("failed to get instructor: %w", err)
	}
	if !instructor.IsVerified {
		return nil, NewPermissionError(userID, 0, "quiz", "manage", "instructor is not verified")
	}
	return instructor, nil
}

// resolveSection loads a section with its course. A section owned by another
// instructor is reported as not found.
func (s ownership) resolveSection(ctx context.Context, tx *gorm.DB, sectionID uint, userID string) (*models.Section, error) {
	instructor, err := s.resolveInstructor(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	section, err := s.repo.Course().GetSectionWithCourse(ctx, tx, sectionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSectionNotFound
		}
		return nil, fmt.Errorf("failed to get section: %w", err)
	}
	if section.Course.InstructorID != instructor.ID {
		return nil, ErrSectionNotFound
	}
	return section, nil
}

func (s ownership) resolveQuiz(ctx context.Context, tx *gorm.DB, quizID uint, userID string) (*models.Quiz, *models.Section, error) {
	quiz, err := s.repo.Quiz().GetByID(ctx, tx, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, nil, ErrQuizNotFound
		}
		return nil, nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	section, err := s.resolveSection(ctx, tx, quiz.SectionID, userID)
	if err != nil {
		if errors.Is(err, ErrSectionNotFound) {
			return nil, nil, ErrQuizNotFound
		}
		return nil, nil, err
	}
	return quiz, section, nil
}

// ===== ORDERING HELPERS =====

func (s *quizService) applyQuizShifts(ctx context.Context, tx *gorm.DB, sectionID uint, plan ordering.Plan) error {
	for _, shift := range plan.Shifts {
		if err := s.repo.Quiz().ApplyShift(ctx, tx, sectionID, shift); err != nil {
			return err
		}
	}
	return nil
}

// moveQuiz repositions quiz within its section and reports whether its order changed.
func (s *quizService) moveQuiz(ctx context.Context, tx *gorm.DB, quiz *models.Quiz, to int) (bool, error) {
	siblings, err := s.repo.Quiz().GetSiblingOrders(ctx, tx, quiz.SectionID)
	if err != nil {
		return false, err
	}

	plan, err := ordering.New(siblings).Move(quiz.ID, to)
	if err != nil {
		return false, gorm.ErrRecordNotFound
	}
	if plan.Position == quiz.Order {
		return false, nil
	}

	if err := s.applyQuizShifts(ctx, tx, quiz.SectionID, plan); err != nil {
		return false, err
	}
	if err := s.repo.Quiz().UpdateFields(ctx, tx, quiz.ID, map[string]interface{}{"position": plan.Position}); err != nil {
		return false, err
	}
	return true, nil
}

func reorderValidationError(field string, err error) error {
	var reorderErr *ordering.ReorderError
	if !errors.As(err, &reorderErr) {
		return err
	}
	return apperrors.Single(field, reorderErr.Reason, "reorder", reorderErr)
}

// ===== UPDATE DIFF =====

type quizDiff struct {
	fields    map[string]interface{}
	names     []string
	changeSet ChangeSet
}

func (d *quizDiff) set(name, column string, value interface{}, scoring bool) {
	d.fields[column] = value
	d.names = append(d.names, name)
	if scoring {
		d.changeSet.Scoring = true
	} else {
		d.changeSet.Cosmetic = true
	}
}

// diffQuiz compares the request against the stored quiz. Fields sent with
// their current value are not changes. Order is handled by moveQuiz.
func diffQuiz(current *models.Quiz, req *UpdateQuizRequest) quizDiff {
	d := quizDiff{fields: map[string]interface{}{}}

	if req.Title != nil && *req.Title != current.Title {
		d.set("title", "title", *req.Title, false)
	}
	if req.Description != nil && !equalStringPtr(req.Description, current.Description) {
		d.set("description", "description", *req.Description, false)
	}
	if req.Instructions != nil && !equalStringPtr(req.Instructions, current.Instructions) {
		d.set("instructions", "instructions", *req.Instructions, false)
	}
	if req.Duration != nil && *req.Duration != current.Duration {
		d.set("duration", "duration", *req.Duration, true)
	}
	if req.PassingScore != nil && *req.PassingScore != current.PassingScore {
		d.set("passing_score", "passing_score", *req.PassingScore, true)
	}
	if req.MaxAttempts != nil && *req.MaxAttempts != current.MaxAttempts {
		d.set("max_attempts", "max_attempts", *req.MaxAttempts, true)
	}
	if req.IsRequired != nil && *req.IsRequired != current.IsRequired {
		d.set("is_required", "is_required", *req.IsRequired, false)
	}
	if req.RandomizeQuestions != nil && *req.RandomizeQuestions != current.RandomizeQuestions {
		d.set("randomize_questions", "randomize_questions", *req.RandomizeQuestions, false)
	}
	if req.ShowResults != nil && *req.ShowResults != current.ShowResults {
		d.set("show_results", "show_results", *req.ShowResults, false)
	}
	if req.AllowReview != nil && *req.AllowReview != current.AllowReview {
		d.set("allow_review", "allow_review", *req.AllowReview, false)
	}

	if req.Order != nil && *req.Order != current.Order {
		d.changeSet.Cosmetic = true
	}
	if req.Questions != nil {
		d.changeSet.Structural = true
	}
	return d
}

func equalStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// ===== BUILDERS =====

func buildQuiz(sectionID uint, req *CreateQuizRequest) *models.Quiz {
	return &models.Quiz{
		SectionID:          sectionID,
		Title:              req.Title,
		Description:        req.Description,
		Instructions:       req.Instructions,
		Duration:           req.Duration,
		PassingScore:       req.PassingScore,
		MaxAttempts:        intOr(req.MaxAttempts, defaultMaxAttempts),
		IsRequired:         boolOr(req.IsRequired, defaultIsRequired),
		RandomizeQuestions: boolOr(req.RandomizeQuestions, defaultRandomizeQuestions),
		ShowResults:        boolOr(req.ShowResults, defaultShowResults),
		AllowReview:        boolOr(req.AllowReview, defaultAllowReview),
	}
}

func intOr(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}

func responseID(resp *QuizResponse) uint {
	if resp == nil {
		return 0
	}
	return resp.ID
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func missingIDs(requested []uint, found []models.Quiz) []uint {
	present := make(map[uint]struct{}, len(found))
	for _, q := range found {
		present[q.ID] = struct{}{}
	}
	var missing []uint
	for _, id := range requested {
		if _, ok := present[id]; !ok {
			missing = append(missing, id)
		}
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
	return missing
}

// ===== QUERIES =====

func (s *quizService) listSection(ctx context.Context, tx *gorm.DB, sectionID uint) ([]QuizResponse, error) {
	quizzes, err := s.repo.Quiz().ListBySection(ctx, tx, sectionID)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, len(quizzes))
	for i := range quizzes {
		ids[i] = quizzes[i].ID
	}
	counts, err := s.repo.Attempt().CountByQuizIDs(ctx, tx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count attempts: %w", err)
	}

	out := make([]QuizResponse, 0, len(quizzes))
	for i := range quizzes {
		out = append(out, *newQuizResponse(&quizzes[i], counts[quizzes[i].ID]))
	}
	return out, nil
}

// ===== TRANSACTION AND CACHE =====

// withTx executes a function within a transaction
func (s *quizService) withTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return s.db.WithContext(ctx).Transaction(fn)
}

// txError passes client-facing errors through unchanged, maps a missing row
// to notFound and wraps everything else.
func txError(action string, err error, notFound error) error {
	switch {
	case IsValidation(err), IsBusinessRule(err), IsUnauthorized(err), IsNotFound(err):
		return err
	case repositories.IsNotFoundError(err):
		return notFound
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}

// invalidateQuiz drops every cached view of a quiz. Failures are logged
// only; cached entries also expire on their own.
func (s *quizService) invalidateQuiz(ctx context.Context, quizID uint) {
	if err := s.cache.DeletePattern(ctx, cache.QuizKeyPattern(quizID)); err != nil {
		s.logger.Warn("Failed to invalidate quiz cache", "quiz_id", quizID, "error", err)
	}
}
