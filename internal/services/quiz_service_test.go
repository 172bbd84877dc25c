package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/SAP-F-2025/quiz-service/internal/cache"
	"github.com/SAP-F-2025/quiz-service/internal/events"
	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/ordering"
	"github.com/SAP-F-2025/quiz-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/quiz-service/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const instructorUserID = "instructor-1"

type quizFixture struct {
	db        *gorm.DB
	service   QuizService
	analytics AnalyticsService
	publisher *events.MockEventPublisher
	queue     *NotificationQueue
	section   models.Section
	course    models.Course
}

func newQuizFixture(t *testing.T, status models.CourseStatus) *quizFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, postgres.AutoMigrate(db))

	instructor := models.Instructor{UserID: instructorUserID, IsVerified: true}
	require.NoError(t, db.Create(&instructor).Error)
	course := models.Course{InstructorID: instructor.ID, Title: "Go 101", Status: status}
	require.NoError(t, db.Create(&course).Error)
	section := models.Section{CourseID: course.ID, Title: "Basics"}
	require.NoError(t, db.Create(&section).Error)

	log := discardLogger()
	repo := postgres.NewRepository(db)
	publisher := events.NewMockEventPublisher(log)
	queue := NewNotificationQueue(log, QueueConfig{Workers: 2, Size: 64, Timeout: time.Second})
	t.Cleanup(queue.Close)
	notifier := NewNotificationEventService(repo, publisher, queue, log, 100)

	return &quizFixture{
		db:        db,
		service:   NewQuizService(db, repo, validator.New(), cache.NewNoopCache(), notifier, log),
		analytics: NewAnalyticsService(repo, cache.NewNoopCache(), time.Minute, log),
		publisher: publisher,
		queue:     queue,
		section:   section,
		course:    course,
	}
}

func singleChoiceQuestion(text string) validator.QuestionInput {
	return validator.QuestionInput{
		Question:      text,
		Type:          models.SingleChoice,
		Points:        10,
		Options:       []string{"3", "4", "5"},
		CorrectAnswer: validator.StringOrSlice{"4"},
	}
}

func createRequest(title string) *CreateQuizRequest {
	maxAttempts := 2
	return &CreateQuizRequest{
		Title:        title,
		Duration:     30,
		PassingScore: 70,
		MaxAttempts:  &maxAttempts,
		Questions:    []validator.QuestionInput{singleChoiceQuestion("2+2?")},
	}
}

func (f *quizFixture) create(t *testing.T, title string) *QuizResponse {
	t.Helper()
	resp, err := f.service.Create(context.Background(), f.section.ID, createRequest(title), instructorUserID)
	require.NoError(t, err)
	return resp
}

func (f *quizFixture) orders(t *testing.T) map[uint]int {
	t.Helper()
	var quizzes []models.Quiz
	require.NoError(t, f.db.Where("section_id = ?", f.section.ID).Find(&quizzes).Error)

	out := make(map[uint]int, len(quizzes))
	items := make([]ordering.Item, 0, len(quizzes))
	for _, q := range quizzes {
		out[q.ID] = q.Order
		items = append(items, ordering.Item{ID: q.ID, Order: q.Order})
	}
	assert.True(t, ordering.Contiguous(items), "orders not contiguous: %v", out)
	return out
}

func (f *quizFixture) addAttempt(t *testing.T, quizID uint, score float64) {
	t.Helper()
	attempt := models.QuizAttempt{StudentID: "student-x", QuizID: quizID, Score: score, Passed: score >= 70, StartedAt: time.Now()}
	require.NoError(t, f.db.Create(&attempt).Error)
}

func TestQuizService_CreateScenario(t *testing.T) {
	f := newQuizFixture(t, models.CourseDraft)
	f.create(t, "Existing")

	var payload CreateQuizRequest
	require.NoError(t, json.Unmarshal([]byte(`{
		"title": "Arithmetic",
		"duration": 30,
		"passing_score": 70,
		"max_attempts": 2,
		"questions": [{"question": "2+2?", "type": "SINGLE_CHOICE", "options": ["3","4","5"], "correct_answer": "4", "points": 10}]
	}`), &payload))

	resp, err := f.service.Create(context.Background(), f.section.ID, &payload, instructorUserID)
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Stats.TotalQuestions)
	assert.Equal(t, 10.0, resp.Stats.TotalPoints)
	assert.Equal(t, int64(0), resp.Stats.TotalAttempts)
	assert.Equal(t, 2, resp.Order)
	assert.Equal(t, 2, resp.MaxAttempts)
	require.Len(t, resp.Questions, 1)
	assert.Equal(t, 1, resp.Questions[0].Order)
	assert.Equal(t, []string{"4"}, []string(resp.Questions[0].CorrectAnswer))

	f.queue.Close()
	assert.Len(t, f.publisher.GetPublishedEvents(), 2)
}

func TestQuizService_CreateDefaults(t *testing.T) {
	f := newQuizFixture(t, models.CourseDraft)
	req := createRequest("Defaults")
	req.MaxAttempts = nil

	resp, err := f.service.Create(context.Background(), f.section.ID, req, instructorUserID)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.MaxAttempts)
	assert.True(t, resp.IsRequired)
	assert.True(t, resp.ShowResults)
	assert.True(t, resp.AllowReview)
	assert.False(t, resp.RandomizeQuestions)
}

func TestQuizService_CreateWithExplicitOrderInserts(t *testing.T) {
	f := newQuizFixture(t, models.CourseDraft)
	a := f.create(t, "A")
	b := f.create(t, "B")

	req := createRequest("C")
	order := 1
	req.Order = &order
	c, err := f.service.Create(context.Background(), f.section.ID, req, instructorUserID)
	require.NoError(t, err)

	assert.Equal(t, map[uint]int{c.ID: 1, a.ID: 2, b.ID: 3}, f.orders(t))

	far := 99
	req = createRequest("D")
	req.Order = &far
	d, err := f.service.Create(context.Background(), f.section.ID, req, instructorUserID)
	require.NoError(t, err)
	assert.Equal(t, 4, d.Order)
	f.orders(t)
}

func TestQuizService_CreateRejectsInvalidQuestionBeforeWriting(t *testing.T) {
	f := newQuizFixture(t, models.CourseDraft)
	req := createRequest("Broken")
	req.Questions = append(req.Questions, validator.QuestionInput{
		Question:      "Is Go compiled?",
		Type:          models.TrueFalse,
		Points:        1,
		CorrectAnswer: validator.StringOrSlice{"maybe"},
	})

	_, err := f.service.Create(context.Background(), f.section.ID, req, instructorUserID)
	var ve ValidationErrors
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve[0].Message, "question 2")

	var count int64
	f.db.Model(&models.Quiz{}).Count(&count)
	assert.Zero(t, count)
}

func TestQuizService_OwnershipChecks(t *testing.T) {
	f := newQuizFixture(t, models.CourseDraft)
	ctx := context.Background()

	_, err := f.service.Create(ctx, f.section.ID, createRequest("X"), "stranger")
	assert.ErrorIs(t, err, ErrInstructorNotFound)

	other := models.Instructor{UserID: "instructor-2", IsVerified: true}
	require.NoError(t, f.db.Create(&other).Error)
	_, err = f.service.Create(ctx, f.section.ID, createRequest("X"), "instructor-2")
	assert.ErrorIs(t, err, ErrSectionNotFound)

	unverified := models.Instructor{UserID: "instructor-3"}
	require.NoError(t, f.db.Create(&unverified).Error)
	_, err = f.service.Create(ctx, f.section.ID, createRequest("X"), "instructor-3")
	var pe *PermissionError
	assert.ErrorAs(t, err, &pe)

	quiz := f.create(t, "Mine")
	_, err = f.service.GetByID(ctx, quiz.ID, "instructor-2")
	assert.ErrorIs(t, err, ErrQuizNotFound)
}

func TestQuizService_ReorderScenario(t *testing.T) {
	f := newQuizFixture(t, models.CourseDraft)
	a := f.create(t, "A")
	b := f.create(t, "B")
	c := f.create(t, "C")

	resp, err := f.service.ReorderQuizzes(context.Background(), f.section.ID, &ReorderQuizzesRequest{
		QuizOrders: []ordering.Item{{ID: a.ID, Order: 3}, {ID: b.ID, Order: 1}, {ID: c.ID, Order: 2}},
	}, instructorUserID)
	require.NoError(t, err)

	assert.Equal(t, map[uint]int{a.ID: 3, b.ID: 1, c.ID: 2}, f.orders(t))
	require.Len(t, resp, 3)
	assert.Equal(t, b.ID, resp[0].ID)
}

func TestQuizService_ReorderIncompleteSetRejected(t *testing.T) {
	f := newQuizFixture(t, models.CourseDraft)
	a := f.create(t, "A")
	b := f.create(t, "B")

	_, err := f.service.ReorderQuizzes(context.Background(), f.section.ID, &ReorderQuizzesRequest{
		QuizOrders: []ordering.Item{{ID: a.ID, Order: 1}, {ID: 999, Order: 2}},
	}, instructorUserID)

	var ve ValidationErrors
	require.ErrorAs(t, err, &ve)
	details, ok := ve[0].Value.(*ordering.ReorderError)
	require.True(t, ok)
	assert.Equal(t, []uint{b.ID}, details.Missing)
	assert.Equal(t, []uint{999}, details.Extra)
	assert.Equal(t, map[uint]int{a.ID: 1, b.ID: 2}, f.orders(t))
}

func TestQuizService_UpdateFieldsOrderAndQuestions(t *testing.T) {
	f := newQuizFixture(t, models.CourseDraft)
	a := f.create(t, "A")
	b := f.create(t, "B")
	c := f.create(t, "C")

	title := "A renamed"
	sameScore := 70
	order := 3
	questions := []validator.QuestionInput{
		singleChoiceQuestion("1+1?"),
		{Question: "Name a Go keyword", Type: models.ShortAnswer, Points: 5, CorrectAnswer: validator.StringOrSlice{" func "}},
	}
	resp, err := f.service.Update(context.Background(), a.ID, &UpdateQuizRequest{
		Title:        &title,
		PassingScore: &sameScore,
		Order:        &order,
		Questions:    &questions,
	}, instructorUserID)
	require.NoError(t, err)

	require.NotNil(t, resp.Changes)
	assert.Equal(t, []string{"title"}, resp.Changes.FieldsUpdated)
	assert.True(t, resp.Changes.OrderChanged)
	assert.True(t, resp.Changes.QuestionsUpdated)
	assert.Equal(t, "A renamed", resp.Title)
	assert.Equal(t, 2, resp.Stats.TotalQuestions)
	assert.Equal(t, 15.0, resp.Stats.TotalPoints)
	assert.Equal(t, []string{"func"}, []string(resp.Questions[1].CorrectAnswer))
	assert.Equal(t, map[uint]int{b.ID: 1, c.ID: 2, a.ID: 3}, f.orders(t))

	var stored int64
	f.db.Model(&models.Question{}).Where("quiz_id = ?", a.ID).Count(&stored)
	assert.Equal(t, int64(2), stored)
}

func TestQuizService_UpdateGuardBoundary(t *testing.T) {
	f := newQuizFixture(t, models.CoursePublished)
	quiz := f.create(t, "Published")
	f.addAttempt(t, quiz.ID, 80)

	passingScore := 50
	_, err := f.service.Update(context.Background(), quiz.ID, &UpdateQuizRequest{PassingScore: &passingScore}, instructorUserID)
	requireRule(t, err, RulePublishedWithAttempts)

	showResults := false
	resp, err := f.service.Update(context.Background(), quiz.ID, &UpdateQuizRequest{ShowResults: &showResults}, instructorUserID)
	require.NoError(t, err)
	assert.False(t, resp.ShowResults)
	assert.Equal(t, int64(1), resp.Stats.TotalAttempts)

	fresh := f.create(t, "Fresh")
	resp, err = f.service.Update(context.Background(), fresh.ID, &UpdateQuizRequest{PassingScore: &passingScore}, instructorUserID)
	require.NoError(t, err)
	assert.Equal(t, 50, resp.PassingScore)
}

func TestQuizService_UnderReviewRejectsWrites(t *testing.T) {
	f := newQuizFixture(t, models.CourseDraft)
	quiz := f.create(t, "A")
	require.NoError(t, f.db.Model(&models.Course{}).Where("id = ?", f.course.ID).Update("status", models.CourseUnderReview).Error)

	title := "Nope"
	_, err := f.service.Update(context.Background(), quiz.ID, &UpdateQuizRequest{Title: &title}, instructorUserID)
	requireRule(t, err, RuleCourseUnderReview)

	_, err = f.service.Create(context.Background(), f.section.ID, createRequest("B"), instructorUserID)
	requireRule(t, err, RuleCourseUnderReview)
}

func TestQuizService_DeleteClosesGap(t *testing.T) {
	f := newQuizFixture(t, models.CourseDraft)
	a := f.create(t, "A")
	b := f.create(t, "B")
	c := f.create(t, "C")

	require.NoError(t, f.service.Delete(context.Background(), b.ID, instructorUserID))
	assert.Equal(t, map[uint]int{a.ID: 1, c.ID: 2}, f.orders(t))

	var questions int64
	f.db.Model(&models.Question{}).Where("quiz_id = ?", b.ID).Count(&questions)
	assert.Zero(t, questions)

	err := f.service.Delete(context.Background(), b.ID, instructorUserID)
	assert.ErrorIs(t, err, ErrQuizNotFound)
}

func TestQuizService_DeleteRules(t *testing.T) {
	f := newQuizFixture(t, models.CourseDraft)
	quiz := f.create(t, "A")
	f.addAttempt(t, quiz.ID, 40)

	err := f.service.Delete(context.Background(), quiz.ID, instructorUserID)
	requireRule(t, err, RuleDeleteWithAttempts)

	published := newQuizFixture(t, models.CoursePublished)
	untouched := published.create(t, "B")
	err = published.service.Delete(context.Background(), untouched.ID, instructorUserID)
	requireRule(t, err, RuleDeletePublished)
}

func TestQuizService_ContiguityAcrossMixedOperations(t *testing.T) {
	f := newQuizFixture(t, models.CourseDraft)
	ctx := context.Background()

	var ids []uint
	for _, title := range []string{"A", "B", "C", "D", "E"} {
		ids = append(ids, f.create(t, title).ID)
	}

	to := 1
	_, err := f.service.Update(ctx, ids[4], &UpdateQuizRequest{Order: &to}, instructorUserID)
	require.NoError(t, err)
	f.orders(t)

	require.NoError(t, f.service.Delete(ctx, ids[2], instructorUserID))
	f.orders(t)

	req := createRequest("F")
	at := 2
	req.Order = &at
	_, err = f.service.Create(ctx, f.section.ID, req, instructorUserID)
	require.NoError(t, err)

	to = 5
	_, err = f.service.Update(ctx, ids[0], &UpdateQuizRequest{Order: &to}, instructorUserID)
	require.NoError(t, err)
	assert.Len(t, f.orders(t), 5)
}

func TestQuizService_ReorderQuestions(t *testing.T) {
	f := newQuizFixture(t, models.CourseDraft)
	req := createRequest("Q")
	req.Questions = []validator.QuestionInput{singleChoiceQuestion("first"), singleChoiceQuestion("second")}
	quiz, err := f.service.Create(context.Background(), f.section.ID, req, instructorUserID)
	require.NoError(t, err)

	first, second := quiz.Questions[0].ID, quiz.Questions[1].ID
	resp, err := f.service.ReorderQuestions(context.Background(), quiz.ID, &ReorderQuestionsRequest{
		QuestionOrders: []ordering.Item{{ID: first, Order: 2}, {ID: second, Order: 1}},
	}, instructorUserID)
	require.NoError(t, err)
	assert.Equal(t, "second", resp.Questions[0].Question)
	assert.Equal(t, "first", resp.Questions[1].Question)
}

func TestQuizService_BulkUpdate(t *testing.T) {
	f := newQuizFixture(t, models.CoursePublished)
	a := f.create(t, "A")
	b := f.create(t, "B")

	resp, err := f.service.BulkUpdate(context.Background(), f.section.ID, &BulkUpdateRequest{
		QuizIDs: []uint{a.ID, b.ID, a.ID},
		Updates: map[string]interface{}{"is_required": false, "randomize_questions": true},
	}, instructorUserID)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Summary.RequestedCount)
	assert.Equal(t, int64(2), resp.Summary.UpdatedCount)
	for _, q := range resp.Quizzes {
		assert.False(t, q.IsRequired)
		assert.True(t, q.RandomizeQuestions)
		assert.Equal(t, 1, q.Stats.TotalQuestions)
	}

	f.addAttempt(t, b.ID, 90)
	_, err = f.service.BulkUpdate(context.Background(), f.section.ID, &BulkUpdateRequest{
		QuizIDs: []uint{a.ID, b.ID},
		Updates: map[string]interface{}{"is_required": true},
	}, instructorUserID)
	requireRule(t, err, RulePublishedWithAttempts)

	var stored models.Quiz
	require.NoError(t, f.db.First(&stored, a.ID).Error)
	assert.False(t, stored.IsRequired, "batch must be all-or-nothing")
}

func TestQuizService_BulkUpdateValidation(t *testing.T) {
	f := newQuizFixture(t, models.CourseDraft)
	a := f.create(t, "A")
	ctx := context.Background()

	_, err := f.service.BulkUpdate(ctx, f.section.ID, &BulkUpdateRequest{
		QuizIDs: []uint{a.ID},
		Updates: map[string]interface{}{"passing_score": 10},
	}, instructorUserID)
	assert.True(t, IsValidation(err))

	ids := make([]uint, MaxBulkUpdateQuizzes+1)
	for i := range ids {
		ids[i] = uint(i + 1)
	}
	_, err = f.service.BulkUpdate(ctx, f.section.ID, &BulkUpdateRequest{
		QuizIDs: ids,
		Updates: map[string]interface{}{"is_required": true},
	}, instructorUserID)
	assert.True(t, IsValidation(err))

	_, err = f.service.BulkUpdate(ctx, f.section.ID, &BulkUpdateRequest{
		QuizIDs: []uint{a.ID, 404},
		Updates: map[string]interface{}{"is_required": true},
	}, instructorUserID)
	assert.ErrorIs(t, err, ErrQuizNotFound)
}

func TestAnalyticsService_ScoresScenario(t *testing.T) {
	f := newQuizFixture(t, models.CoursePublished)
	quiz := f.create(t, "Scored")
	for _, score := range []float64{95, 85, 72, 60, 55, 90, 40, 88, 77, 65} {
		f.addAttempt(t, quiz.ID, score)
	}

	result, err := f.analytics.GetQuizAnalytics(context.Background(), quiz.ID, instructorUserID)
	require.NoError(t, err)
	assert.Equal(t, 10, result.Overview.TotalAttempts)
	assert.Equal(t, 60.0, result.Overview.PassRate)
	for _, bucket := range result.ScoreDistribution {
		assert.Equal(t, 2, bucket.Count, bucket.Range)
	}

	workbook, err := f.analytics.ExportQuizAnalytics(context.Background(), quiz.ID, instructorUserID)
	require.NoError(t, err)
	assert.NotEmpty(t, workbook)

	_, err = f.analytics.GetQuizAnalytics(context.Background(), quiz.ID, "stranger")
	assert.ErrorIs(t, err, ErrInstructorNotFound)
}
