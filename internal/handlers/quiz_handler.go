package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/quiz-service/internal/services"
	"github.com/SAP-F-2025/quiz-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type QuizHandler struct {
	BaseHandler
	quizService services.QuizService
}

func NewQuizHandler(quizService services.QuizService, logger utils.Logger) *QuizHandler {
	return &QuizHandler{
		BaseHandler: NewBaseHandler(logger),
		quizService: quizService,
	}
}

// CreateQuiz creates a quiz with its questions in a section
// @Summary Create quiz
// @Tags quizzes
// @Accept json
// @Produce json
// @Param section_id path uint true "Section ID"
// @Param quiz body services.CreateQuizRequest true "Quiz data"
// @Success 201 {object} SuccessResponse{data=services.QuizResponse}
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /sections/{section_id}/quizzes [post]
func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	sectionID, ok := h.parseIDParam(c, "section_id")
	if !ok {
		return
	}
	userID, ok := h.getUserID(c)
	if !ok {
		return
	}

	var req services.CreateQuizRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Creating quiz", "section_id", sectionID)

	quiz, err := h.quizService.Create(c.Request.Context(), sectionID, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusCreated, "Quiz created successfully", quiz)
}

// ListQuizzes lists the quizzes of a section in order
// @Summary List section quizzes
// @Tags quizzes
// @Produce json
// @Param section_id path uint true "Section ID"
// @Success 200 {object} SuccessResponse{data=[]services.QuizResponse}
// @Router /sections/{section_id}/quizzes [get]
func (h *QuizHandler) ListQuizzes(c *gin.Context) {
	sectionID, ok := h.parseIDParam(c, "section_id")
	if !ok {
		return
	}
	userID, ok := h.getUserID(c)
	if !ok {
		return
	}

	quizzes, err := h.quizService.ListBySection(c.Request.Context(), sectionID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Quizzes retrieved successfully", quizzes)
}

func (h *QuizHandler) GetQuiz(c *gin.Context) {
	quizID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := h.getUserID(c)
	if !ok {
		return
	}

	quiz, err := h.quizService.GetByID(c.Request.Context(), quizID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Quiz retrieved successfully", quiz)
}

// UpdateQuiz updates quiz fields and optionally replaces its questions
// @Summary Update quiz
// @Tags quizzes
// @Accept json
// @Produce json
// @Param id path uint true "Quiz ID"
// @Param quiz body services.UpdateQuizRequest true "Fields to update"
// @Success 200 {object} SuccessResponse{data=services.QuizResponse}
// @Failure 409 {object} ErrorResponse
// @Router /quizzes/{id} [put]
func (h *QuizHandler) UpdateQuiz(c *gin.Context) {
	quizID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := h.getUserID(c)
	if !ok {
		return
	}

	var req services.UpdateQuizRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Updating quiz", "quiz_id", quizID)

	quiz, err := h.quizService.Update(c.Request.Context(), quizID, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Quiz updated successfully", quiz)
}

func (h *QuizHandler) DeleteQuiz(c *gin.Context) {
	quizID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := h.getUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Deleting quiz", "quiz_id", quizID)

	if err := h.quizService.Delete(c.Request.Context(), quizID, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ReorderQuizzes assigns new positions to every quiz of a section
// @Summary Reorder section quizzes
// @Tags quizzes
// @Accept json
// @Produce json
// @Param section_id path uint true "Section ID"
// @Param orders body services.ReorderQuizzesRequest true "Complete id to order mapping"
// @Success 200 {object} SuccessResponse{data=[]services.QuizResponse}
// @Router /sections/{section_id}/quizzes/reorder [put]
func (h *QuizHandler) ReorderQuizzes(c *gin.Context) {
	sectionID, ok := h.parseIDParam(c, "section_id")
	if !ok {
		return
	}
	userID, ok := h.getUserID(c)
	if !ok {
		return
	}

	var req services.ReorderQuizzesRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Reordering quizzes", "section_id", sectionID, "count", len(req.QuizOrders))

	quizzes, err := h.quizService.ReorderQuizzes(c.Request.Context(), sectionID, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Quizzes reordered successfully", quizzes)
}

func (h *QuizHandler) ReorderQuestions(c *gin.Context) {
	quizID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := h.getUserID(c)
	if !ok {
		return
	}

	var req services.ReorderQuestionsRequest
	if !h.bindJSON(c, &req) {
		return
	}

	quiz, err := h.quizService.ReorderQuestions(c.Request.Context(), quizID, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Questions reordered successfully", quiz)
}

// BulkUpdateQuizzes toggles settings on up to 20 quizzes of a section
// @Summary Bulk update quiz settings
// @Tags quizzes
// @Accept json
// @Produce json
// @Param section_id path uint true "Section ID"
// @Param updates body services.BulkUpdateRequest true "Quiz ids and settings"
// @Success 200 {object} SuccessResponse{data=services.BulkUpdateResponse}
// @Router /sections/{section_id}/quizzes/bulk [patch]
func (h *QuizHandler) BulkUpdateQuizzes(c *gin.Context) {
	sectionID, ok := h.parseIDParam(c, "section_id")
	if !ok {
		return
	}
	userID, ok := h.getUserID(c)
	if !ok {
		return
	}

	var req services.BulkUpdateRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Bulk updating quizzes", "section_id", sectionID, "count", len(req.QuizIDs))

	result, err := h.quizService.BulkUpdate(c.Request.Context(), sectionID, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Quizzes updated successfully", result)
}
