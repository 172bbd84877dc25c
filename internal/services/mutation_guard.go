package services

import (
	"fmt"
	"sort"

	apperrors "github.com/SAP-F-2025/quiz-service/internal/errors"
	"github.com/SAP-F-2025/quiz-service/internal/models"
)

// Business rule names reported in BusinessRuleError.Rule
const (
	RuleCourseUnderReview     = "course_under_review"
	RulePublishedWithAttempts = "published_quiz_has_attempts"
	RuleDeletePublished       = "delete_published_course_quiz"
	RuleDeleteWithAttempts    = "delete_quiz_with_attempts"
)

// ChangeSet classifies a requested edit. Structural covers the question set,
// Scoring covers passing_score, max_attempts and duration, and everything
// else is Cosmetic.
type ChangeSet struct {
	Structural bool
	Scoring    bool
	Cosmetic   bool
}

func (c ChangeSet) Empty() bool {
	return !c.Structural && !c.Scoring && !c.Cosmetic
}

// CanMutate applies the edit policy for a quiz given its course status and
// whether any student has attempted it.
func CanMutate(status models.CourseStatus, hasAttempts bool, changes ChangeSet) error {
	if changes.Empty() {
		return nil
	}

	if status == models.CourseUnderReview {
		return NewBusinessRuleError(
			RuleCourseUnderReview,
			"quizzes cannot be modified while the course is under review",
			"wait for the review to finish or withdraw the course from review",
			map[string]interface{}{"course_status": status},
		)
	}

	if status == models.CoursePublished && hasAttempts && (changes.Structural || changes.Scoring) {
		return NewBusinessRuleError(
			RulePublishedWithAttempts,
			"questions and scoring settings cannot change once students have attempted a published quiz",
			"create a new quiz version instead",
			map[string]interface{}{
				"course_status":     status,
				"structural_change": changes.Structural,
				"scoring_change":    changes.Scoring,
			},
		)
	}

	return nil
}

// CanDelete allows deletion only outside published courses and only for
// quizzes nobody has attempted.
func CanDelete(status models.CourseStatus, attempts int64) error {
	if status == models.CoursePublished {
		return NewBusinessRuleError(
			RuleDeletePublished,
			"quizzes of a published course cannot be deleted",
			"mark the quiz as not required instead",
			map[string]interface{}{"course_status": status},
		)
	}
	if attempts > 0 {
		return NewBusinessRuleError(
			RuleDeleteWithAttempts,
			"quiz has student attempts and cannot be deleted",
			"mark the quiz as not required instead",
			map[string]interface{}{"attempts": attempts},
		)
	}
	return nil
}

// CheckBulkUpdate validates a bulk field update and returns the column
// updates to apply. The whole batch is rejected if any target quiz of a
// published course has attempts.
func CheckBulkUpdate(fields map[string]interface{}, status models.CourseStatus, attemptCounts map[uint]int64) (map[string]interface{}, error) {
	if len(fields) == 0 {
		return nil, apperrors.Single("updates", "at least one field must be updated", "required", nil)
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs apperrors.ValidationErrors
	columns := make(map[string]interface{}, len(fields))
	for _, name := range names {
		column, ok := models.BulkUpdatableQuizFields[name]
		if !ok {
			errs = append(errs, *apperrors.NewValidationErrorWithRule(
				"updates."+name,
				fmt.Sprintf("field %q cannot be bulk updated", name),
				"quiz_bulk_field",
				fields[name],
			))
			continue
		}
		value, ok := fields[name].(bool)
		if !ok {
			errs = append(errs, *apperrors.NewValidationErrorWithRule(
				"updates."+name,
				"must be a boolean",
				"boolean",
				fields[name],
			))
			continue
		}
		columns[column] = value
	}
	if len(errs) > 0 {
		return nil, errs
	}

	if status == models.CourseUnderReview {
		return nil, NewBusinessRuleError(
			RuleCourseUnderReview,
			"quizzes cannot be modified while the course is under review",
			"wait for the review to finish or withdraw the course from review",
			map[string]interface{}{"course_status": status},
		)
	}

	if status == models.CoursePublished {
		var blocked []uint
		for id, count := range attemptCounts {
			if count > 0 {
				blocked = append(blocked, id)
			}
		}
		if len(blocked) > 0 {
			sort.Slice(blocked, func(i, j int) bool { return blocked[i] < blocked[j] })
			return nil, NewBusinessRuleError(
				RulePublishedWithAttempts,
				"some selected quizzes already have student attempts",
				"remove the attempted quizzes from the selection",
				map[string]interface{}{"quiz_ids": blocked},
			)
		}
	}

	return columns, nil
}
