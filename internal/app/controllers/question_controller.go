package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tahmid/qpaper/internal/app/models/dto"
	"github.com/tahmid/qpaper/internal/app/services"
	"github.com/tahmid/qpaper/internal/middleware"
	"github.com/tahmid/qpaper/internal/pkg/helpers"
	"github.com/tahmid/qpaper/internal/pkg/logger"
)

// QuestionController handles the catalog, uploads and moderation
type QuestionController struct {
	questionService services.QuestionService
}

// NewQuestionController creates a new QuestionController
func NewQuestionController(questionService services.QuestionService) *QuestionController {
	return &QuestionController{questionService: questionService}
}

func parseIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid ID").
			WithDetails("ID must be a positive number")
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// List returns one page of the published catalog
// @Summary List published questions
// @Tags questions
// @Produce json
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Param departmentId query int false "Filter by department"
// @Param courseId query int false "Filter by course"
// @Param semesterId query int false "Filter by semester"
// @Param examTypeId query int false "Filter by exam type"
// @Param search query string false "Free-text filter"
// @Param sortBy query string false "Sort field"
// @Param sortOrder query string false "asc or desc"
// @Success 200 {object} dto.APIResponse{data=dto.QuestionListResponse}
// @Router /questions [get]
func (ctrl *QuestionController) List(c *gin.Context) {
	var filter dto.QuestionFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleBindingError(c, err)
		return
	}
	page, pageSize := helpers.ParsePaginationParams(c)

	resp, err := ctrl.questionService.ListPublished(c.Request.Context(), page, pageSize, &filter)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIResponse(resp))
}

// GetByID returns one question
// @Summary Get a question by ID
// @Tags questions
// @Produce json
// @Param id path int true "Question ID"
// @Success 200 {object} dto.APIResponse{data=dto.QuestionResponse}
// @Failure 404 {object} dto.ErrorResponse
// @Router /questions/{id} [get]
func (ctrl *QuestionController) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	userID, role := middleware.CallerIdentity(c)

	question, err := ctrl.questionService.GetByID(c.Request.Context(), id, userID, role)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIResponse(question))
}

// RecordView counts a catalog view
// @Summary Record a question view
// @Tags questions
// @Produce json
// @Param id path int true "Question ID"
// @Success 202 {object} dto.APIResponse
// @Router /questions/{id}/views [post]
func (ctrl *QuestionController) RecordView(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.questionService.RecordView(c.Request.Context(), id); err != nil {
		// A lost view is not worth failing the page load over.
		logger.Warn().Err(err).Int64("questionId", id).Msg("Failed to record view")
	}

	c.JSON(http.StatusAccepted, dto.NewMessageResponse("View recorded"))
}

// FilterOptions returns every lookup table for the filter UI
// @Summary Get catalog filter options
// @Tags questions
// @Produce json
// @Success 200 {object} dto.APIResponse{data=repositories.FilterOptions}
// @Router /questions/filter-options [get]
func (ctrl *QuestionController) FilterOptions(c *gin.Context) {
	opts, err := ctrl.questionService.FilterOptions(c.Request.Context())
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIResponse(opts))
}

// CheckDuplicate answers whether a paper already covers the tuple
// @Summary Check a tuple for an existing paper before uploading
// @Tags questions
// @Produce json
// @Security BearerAuth
// @Param departmentId query int true "Department ID"
// @Param courseId query int true "Course ID"
// @Param semesterId query int true "Semester ID"
// @Param examTypeId query int true "Exam type ID"
// @Success 200 {object} dto.APIResponse{data=dto.DuplicateCheckResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Router /questions/check-duplicate [get]
func (ctrl *QuestionController) CheckDuplicate(c *gin.Context) {
	var req dto.DuplicateCheckRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleBindingError(c, err)
		return
	}

	resp, err := ctrl.questionService.CheckDuplicate(c.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIResponse(resp))
}

// Submit uploads a new paper
// @Summary Submit a question paper
// @Tags questions
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param departmentId formData int true "Department ID"
// @Param course formData string true "Course name"
// @Param semester formData string true "Semester name"
// @Param examType formData string true "Exam type name"
// @Param file formData file true "PDF file"
// @Success 201 {object} dto.APIResponse{data=dto.QuestionResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Router /questions [post]
func (ctrl *QuestionController) Submit(c *gin.Context) {
	var req dto.SubmitQuestionRequest
	if err := c.ShouldBind(&req); err != nil {
		middleware.HandleBindingError(c, err)
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "A PDF file is required").
			WithField("file")
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	userID, role := middleware.CallerIdentity(c)
	question, err := ctrl.questionService.Submit(c.Request.Context(), userID, role, &req, file)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewAPIResponse(question))
}

// Update edits a paper's metadata
// @Summary Update a question's metadata
// @Tags questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Question ID"
// @Param request body dto.UpdateQuestionRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=dto.QuestionResponse}
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /questions/{id} [put]
func (ctrl *QuestionController) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.UpdateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(c, err)
		return
	}

	userID, role := middleware.CallerIdentity(c)
	question, err := ctrl.questionService.Edit(c.Request.Context(), id, userID, role, &req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIResponse(question))
}

// Delete removes a paper and its PDF
// @Summary Delete a question
// @Tags questions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Question ID"
// @Success 200 {object} dto.APIResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /questions/{id} [delete]
func (ctrl *QuestionController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	userID, role := middleware.CallerIdentity(c)
	if err := ctrl.questionService.Delete(c.Request.Context(), id, userID, role); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewMessageResponse("Question deleted"))
}

// MyUploads lists the caller's papers
// @Summary List the caller's uploads
// @Tags questions
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.QuestionListResponse}
// @Router /questions/mine [get]
func (ctrl *QuestionController) MyUploads(c *gin.Context) {
	userID, _ := middleware.CallerIdentity(c)
	page, pageSize := helpers.ParsePaginationParams(c)

	resp, err := ctrl.questionService.MyUploads(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIResponse(resp))
}

// PendingQueue lists papers awaiting review
// @Summary List the moderation queue
// @Tags moderation
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.ModerationQueueResponse}
// @Router /moderation/questions [get]
func (ctrl *QuestionController) PendingQueue(c *gin.Context) {
	page, pageSize := helpers.ParsePaginationParams(c)

	resp, err := ctrl.questionService.PendingQueue(c.Request.Context(), page, pageSize)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIResponse(resp))
}

// Approve publishes a paper out of review
// @Summary Approve a question
// @Tags moderation
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Question ID"
// @Param request body dto.ModerationRequest false "Optional note"
// @Success 200 {object} dto.APIResponse{data=dto.QuestionResponse}
// @Failure 409 {object} dto.ErrorResponse
// @Router /moderation/questions/{id}/approve [post]
func (ctrl *QuestionController) Approve(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.ModerationRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		middleware.HandleBindingError(c, err)
		return
	}

	question, err := ctrl.questionService.Approve(c.Request.Context(), id, req.Reason)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIResponse(question))
}

// Reject turns a paper down
// @Summary Reject a question
// @Tags moderation
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Question ID"
// @Param request body dto.ModerationRequest true "Rejection reason"
// @Success 200 {object} dto.APIResponse{data=dto.QuestionResponse}
// @Failure 409 {object} dto.ErrorResponse
// @Router /moderation/questions/{id}/reject [post]
func (ctrl *QuestionController) Reject(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.ModerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(c, err)
		return
	}

	question, err := ctrl.questionService.Reject(c.Request.Context(), id, req.Reason)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIResponse(question))
}
