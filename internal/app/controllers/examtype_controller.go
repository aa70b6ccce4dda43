package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tahmid/qpaper/internal/app/models/dto"
	"github.com/tahmid/qpaper/internal/app/services"
	"github.com/tahmid/qpaper/internal/middleware"
)

// ExamTypeController manages the exam type lookup table
type ExamTypeController struct {
	examTypeService services.ExamTypeService
}

// NewExamTypeController creates a new ExamTypeController
func NewExamTypeController(examTypeService services.ExamTypeService) *ExamTypeController {
	return &ExamTypeController{examTypeService: examTypeService}
}

// List returns all exam types
// @Summary List exam types
// @Tags lookups
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.ExamType}
// @Router /exam-types [get]
func (ctrl *ExamTypeController) List(c *gin.Context) {
	examTypes, err := ctrl.examTypeService.GetAll(c.Request.Context())
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIResponse(examTypes))
}

// ListWithCounts returns exam types with question counts
// @Summary List exam types with usage counts
// @Tags lookups
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.ExamTypeWithCounts}
// @Router /admin/exam-types [get]
func (ctrl *ExamTypeController) ListWithCounts(c *gin.Context) {
	examTypes, err := ctrl.examTypeService.GetAllWithCounts(c.Request.Context())
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIResponse(examTypes))
}

// Create adds an exam type
// @Summary Create an exam type
// @Tags lookups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.NameRequest true "Exam type name"
// @Success 201 {object} dto.APIResponse{data=models.ExamType}
// @Failure 409 {object} dto.ErrorResponse
// @Router /admin/exam-types [post]
func (ctrl *ExamTypeController) Create(c *gin.Context) {
	var req dto.NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(c, err)
		return
	}

	examType, err := ctrl.examTypeService.Create(c.Request.Context(), req.Name)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewAPIResponse(examType))
}

// Update renames an exam type
// @Summary Rename an exam type
// @Tags lookups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Exam type ID"
// @Param request body dto.NameRequest true "New name"
// @Success 200 {object} dto.APIResponse{data=models.ExamType}
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /admin/exam-types/{id} [put]
func (ctrl *ExamTypeController) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(c, err)
		return
	}

	examType, err := ctrl.examTypeService.Rename(c.Request.Context(), id, req.Name)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIResponse(examType))
}

// Delete removes an unreferenced exam type
// @Summary Delete an exam type
// @Tags lookups
// @Produce json
// @Security BearerAuth
// @Param id path int true "Exam type ID"
// @Success 200 {object} dto.APIResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /admin/exam-types/{id} [delete]
func (ctrl *ExamTypeController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.examTypeService.Delete(c.Request.Context(), id); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewMessageResponse("Exam type deleted"))
}

// Merge folds one exam type into another
// @Summary Merge an exam type into another
// @Tags lookups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Source exam type ID"
// @Param request body dto.MergeRequest true "Target exam type"
// @Success 200 {object} dto.APIResponse{data=dto.MergeResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/exam-types/{id}/merge [post]
func (ctrl *ExamTypeController) Merge(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.MergeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(c, err)
		return
	}

	result, err := ctrl.examTypeService.Merge(c.Request.Context(), id, req.TargetID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIResponse(result))
}
