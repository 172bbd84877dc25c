package validator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/SAP-F-2025/quiz-service/internal/models"
)

// QuestionInput is one question as submitted by an instructor.
type QuestionInput struct {
	Question      string                `json:"question"`
	Type          models.QuestionType   `json:"type"`
	Points        float64               `json:"points"`
	Explanation   *string               `json:"explanation,omitempty"`
	Hints         []string              `json:"hints,omitempty"`
	Difficulty    *string               `json:"difficulty,omitempty"`
	Tags          []string              `json:"tags,omitempty"`
	Options       []string              `json:"options,omitempty"`
	CorrectAnswer StringOrSlice         `json:"correct_answer,omitempty"`
	MatchingPairs []models.MatchingPair `json:"matching_pairs,omitempty"`
	CodeTemplate  *string               `json:"code_template,omitempty"`
	TestCases     []models.TestCase     `json:"test_cases,omitempty"`
	Language      *string               `json:"language,omitempty"`
}

// StringOrSlice decodes a JSON string, boolean or array of strings into a
// list. Single values become a one-element list.
type StringOrSlice []string

func (s *StringOrSlice) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case bytes.Equal(trimmed, []byte("null")):
		*s = nil
		return nil
	case bytes.Equal(trimmed, []byte("true")), bytes.Equal(trimmed, []byte("false")):
		*s = StringOrSlice{string(trimmed)}
		return nil
	case len(trimmed) > 0 && trimmed[0] == '"':
		var single string
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return err
		}
		*s = StringOrSlice{single}
		return nil
	}

	var many []string
	if err := json.Unmarshal(trimmed, &many); err != nil {
		return fmt.Errorf("correct_answer must be a string or an array of strings: %w", err)
	}
	*s = many
	return nil
}

// rejection is a failed type rule, before it is tagged with the question index.
type rejection struct {
	field   string
	message string
	value   interface{}
}

func reject(field string, value interface{}, format string, args ...interface{}) *rejection {
	return &rejection{field: field, message: fmt.Sprintf(format, args...), value: value}
}

// typeRule checks the payload of one question type and writes the normalized
// payload into out.
type typeRule func(in *QuestionInput, out *models.Question) *rejection

var typeRules = map[models.QuestionType]typeRule{
	models.MultipleChoice: choiceRule(false),
	models.SingleChoice:   choiceRule(true),
	models.TrueFalse:      trueFalseRule,
	models.ShortAnswer:    textAnswerRule,
	models.Essay:          textAnswerRule,
	models.FillInBlank:    textAnswerRule,
	models.Matching:       pairsRule,
	models.DragDrop:       pairsRule,
	models.CodeChallenge:  codeChallengeRule,
}

// QuestionValidator validates and normalizes question payloads. It holds no
// state and is safe for concurrent use.
type QuestionValidator struct {
	rules map[models.QuestionType]typeRule
}

func NewQuestionValidator() *QuestionValidator {
	return &QuestionValidator{rules: typeRules}
}

// SupportsType reports whether a rule is registered for the type.
func (v *QuestionValidator) SupportsType(t models.QuestionType) bool {
	_, ok := v.rules[t]
	return ok
}

// ValidateQuestion checks the question at the given zero-based position and
// returns its normalized form. Errors name the question by its 1-based number.
func (v *QuestionValidator) ValidateQuestion(in QuestionInput, position int) (*models.Question, error) {
	if strings.TrimSpace(in.Question) == "" {
		return nil, questionError(position, reject("question", in.Question, "question text is required"), "required")
	}

	if in.Type == "" {
		return nil, questionError(position, reject("type", in.Type, "question type is required"), "required")
	}
	rule, ok := v.rules[in.Type]
	if !ok {
		return nil, questionError(position, reject("type", in.Type, "unsupported question type %q", in.Type), "question_type")
	}

	if in.Points <= 0 {
		return nil, questionError(position, reject("points", in.Points, "points must be greater than 0"), "points")
	}

	out := &models.Question{
		Question:    strings.TrimSpace(in.Question),
		Type:        in.Type,
		Points:      in.Points,
		Explanation: in.Explanation,
		Difficulty:  in.Difficulty,
		Hints:       nonBlank(in.Hints),
		Tags:        nonBlank(in.Tags),
	}

	if r := rule(&in, out); r != nil {
		return nil, questionError(position, r, string(in.Type))
	}

	return out, nil
}

// ValidateQuestions validates a full question set and assigns order from the
// submission index. The first failing question stops validation.
func (v *QuestionValidator) ValidateQuestions(inputs []QuestionInput) ([]models.Question, error) {
	if len(inputs) == 0 {
		return nil, ValidationErrors{{
			Field:   "questions",
			Message: "quiz must contain at least one question",
			Rule:    "min",
		}}
	}

	questions := make([]models.Question, 0, len(inputs))
	for i, in := range inputs {
		q, err := v.ValidateQuestion(in, i)
		if err != nil {
			return nil, err
		}
		q.Order = i + 1
		questions = append(questions, *q)
	}
	return questions, nil
}

func questionError(position int, r *rejection, rule string) ValidationErrors {
	return ValidationErrors{{
		Field:   fmt.Sprintf("questions[%d].%s", position, r.field),
		Message: fmt.Sprintf("question %d: %s", position+1, r.message),
		Value:   r.value,
		Rule:    rule,
	}}
}

// ===== TYPE RULES =====

func choiceRule(single bool) typeRule {
	return func(in *QuestionInput, out *models.Question) *rejection {
		options := nonBlank(in.Options)
		if len(options) < 2 {
			return reject("options", in.Options, "at least 2 non-empty options are required")
		}

		answers := uniqueNonBlank(in.CorrectAnswer)
		if len(answers) == 0 {
			return reject("correct_answer", []string(in.CorrectAnswer), "a correct answer is required")
		}
		if single && len(answers) != 1 {
			return reject("correct_answer", answers, "exactly one correct answer is required")
		}

		known := make(map[string]struct{}, len(options))
		for _, option := range options {
			known[option] = struct{}{}
		}
		for _, answer := range answers {
			if _, ok := known[answer]; !ok {
				return reject("correct_answer", answer, "correct answer %q is not one of the options", answer)
			}
		}

		out.Options = options
		out.CorrectAnswer = answers
		return nil
	}
}

func trueFalseRule(in *QuestionInput, out *models.Question) *rejection {
	if len(in.CorrectAnswer) != 1 {
		return reject("correct_answer", []string(in.CorrectAnswer), "correct answer must be exactly one of true or false")
	}

	answer := strings.ToLower(strings.TrimSpace(in.CorrectAnswer[0]))
	if answer != "true" && answer != "false" {
		return reject("correct_answer", in.CorrectAnswer[0], "correct answer must be true or false")
	}

	out.Options = []string{"true", "false"}
	out.CorrectAnswer = []string{answer}
	return nil
}

func textAnswerRule(in *QuestionInput, out *models.Question) *rejection {
	answers := nonBlank(in.CorrectAnswer)
	if len(answers) == 0 {
		return reject("correct_answer", []string(in.CorrectAnswer), "a non-empty correct answer is required")
	}
	if len(answers) > 1 {
		return reject("correct_answer", answers, "only a single correct answer is allowed")
	}

	out.CorrectAnswer = answers
	return nil
}

func pairsRule(in *QuestionInput, out *models.Question) *rejection {
	if len(in.MatchingPairs) < 2 {
		return reject("matching_pairs", in.MatchingPairs, "at least 2 pairs are required")
	}

	pairs := make([]models.MatchingPair, 0, len(in.MatchingPairs))
	for i, pair := range in.MatchingPairs {
		left := strings.TrimSpace(pair.Left)
		right := strings.TrimSpace(pair.Right)
		if left == "" {
			return reject(fmt.Sprintf("matching_pairs[%d].left", i), pair.Left, "pair %d is missing its left side", i+1)
		}
		if right == "" {
			return reject(fmt.Sprintf("matching_pairs[%d].right", i), pair.Right, "pair %d is missing its right side", i+1)
		}
		pairs = append(pairs, models.MatchingPair{Left: left, Right: right})
	}

	out.MatchingPairs = pairs
	return nil
}

func codeChallengeRule(in *QuestionInput, out *models.Question) *rejection {
	if in.CodeTemplate == nil || strings.TrimSpace(*in.CodeTemplate) == "" {
		return reject("code_template", in.CodeTemplate, "a code template is required")
	}
	if len(in.TestCases) == 0 {
		return reject("test_cases", in.TestCases, "at least 1 test case is required")
	}

	out.CodeTemplate = in.CodeTemplate
	out.TestCases = append([]models.TestCase(nil), in.TestCases...)
	out.Language = in.Language
	return nil
}

// ===== HELPERS =====

func nonBlank(values []string) []string {
	var out []string
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func uniqueNonBlank(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	var out []string
	for _, value := range nonBlank(values) {
		if _, dup := seen[value]; dup {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}
