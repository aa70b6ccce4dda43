package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tahmid/qpaper/internal/app/models/dto"
	"github.com/tahmid/qpaper/internal/app/services"
	"github.com/tahmid/qpaper/internal/middleware"
)

// SemesterController manages the semester lookup table
type SemesterController struct {
	semesterService services.SemesterService
}

// NewSemesterController creates a new SemesterController
func NewSemesterController(semesterService services.SemesterService) *SemesterController {
	return &SemesterController{semesterService: semesterService}
}

// List returns all semesters
// @Summary List semesters
// @Tags lookups
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.Semester}
// @Router /semesters [get]
func (ctrl *SemesterController) List(c *gin.Context) {
	semesters, err := ctrl.semesterService.GetAll(c.Request.Context())
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIResponse(semesters))
}

// ListWithCounts returns semesters with question counts
// @Summary List semesters with usage counts
// @Tags lookups
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.SemesterWithCounts}
// @Router /admin/semesters [get]
func (ctrl *SemesterController) ListWithCounts(c *gin.Context) {
	semesters, err := ctrl.semesterService.GetAllWithCounts(c.Request.Context())
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIResponse(semesters))
}

// Create adds a semester
// @Summary Create a semester
// @Tags lookups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.NameRequest true "Semester name"
// @Success 201 {object} dto.APIResponse{data=models.Semester}
// @Failure 409 {object} dto.ErrorResponse
// @Router /admin/semesters [post]
func (ctrl *SemesterController) Create(c *gin.Context) {
	var req dto.NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(c, err)
		return
	}

	semester, err := ctrl.semesterService.Create(c.Request.Context(), req.Name)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewAPIResponse(semester))
}

// Update renames a semester
// @Summary Rename a semester
// @Tags lookups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Semester ID"
// @Param request body dto.NameRequest true "New name"
// @Success 200 {object} dto.APIResponse{data=models.Semester}
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /admin/semesters/{id} [put]
func (ctrl *SemesterController) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(c, err)
		return
	}

	semester, err := ctrl.semesterService.Rename(c.Request.Context(), id, req.Name)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIResponse(semester))
}

// Delete removes an unreferenced semester
// @Summary Delete a semester
// @Tags lookups
// @Produce json
// @Security BearerAuth
// @Param id path int true "Semester ID"
// @Success 200 {object} dto.APIResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /admin/semesters/{id} [delete]
func (ctrl *SemesterController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.semesterService.Delete(c.Request.Context(), id); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewMessageResponse("Semester deleted"))
}

// Merge folds one semester into another
// @Summary Merge a semester into another
// @Tags lookups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Source semester ID"
// @Param request body dto.MergeRequest true "Target semester"
// @Success 200 {object} dto.APIResponse{data=dto.MergeResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/semesters/{id}/merge [post]
func (ctrl *SemesterController) Merge(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.MergeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(c, err)
		return
	}

	result, err := ctrl.semesterService.Merge(c.Request.Context(), id, req.TargetID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIResponse(result))
}
