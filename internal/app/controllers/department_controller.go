package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tahmid/qpaper/internal/app/models/dto"
	"github.com/tahmid/qpaper/internal/app/services"
	"github.com/tahmid/qpaper/internal/middleware"
)

// DepartmentController manages the department lookup table
type DepartmentController struct {
	departmentService services.DepartmentService
}

// NewDepartmentController creates a new DepartmentController
func NewDepartmentController(departmentService services.DepartmentService) *DepartmentController {
	return &DepartmentController{departmentService: departmentService}
}

// List returns all departments
// @Summary List departments
// @Tags lookups
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.Department}
// @Router /departments [get]
func (ctrl *DepartmentController) List(c *gin.Context) {
	departments, err := ctrl.departmentService.GetAll(c.Request.Context())
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIResponse(departments))
}

// ListWithCounts returns departments with question and course counts
// @Summary List departments with usage counts
// @Tags lookups
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.DepartmentWithCounts}
// @Router /admin/departments [get]
func (ctrl *DepartmentController) ListWithCounts(c *gin.Context) {
	departments, err := ctrl.departmentService.GetAllWithCounts(c.Request.Context())
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIResponse(departments))
}

// Create adds a department
// @Summary Create a department
// @Tags lookups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateDepartmentRequest true "Department details"
// @Success 201 {object} dto.APIResponse{data=models.Department}
// @Failure 409 {object} dto.ErrorResponse
// @Router /admin/departments [post]
func (ctrl *DepartmentController) Create(c *gin.Context) {
	var req dto.CreateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(c, err)
		return
	}

	department, err := ctrl.departmentService.Create(c.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewAPIResponse(department))
}

// Update renames a department
// @Summary Update a department
// @Tags lookups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Department ID"
// @Param request body dto.UpdateDepartmentRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.Department}
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /admin/departments/{id} [put]
func (ctrl *DepartmentController) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.UpdateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(c, err)
		return
	}

	department, err := ctrl.departmentService.Update(c.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIResponse(department))
}

// Delete removes an unreferenced department
// @Summary Delete a department
// @Tags lookups
// @Produce json
// @Security BearerAuth
// @Param id path int true "Department ID"
// @Success 200 {object} dto.APIResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /admin/departments/{id} [delete]
func (ctrl *DepartmentController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.departmentService.Delete(c.Request.Context(), id); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewMessageResponse("Department deleted"))
}

// Merge folds one department into another
// @Summary Merge a department into another
// @Tags lookups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Source department ID"
// @Param request body dto.MergeRequest true "Target department"
// @Success 200 {object} dto.APIResponse{data=dto.MergeResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/departments/{id}/merge [post]
func (ctrl *DepartmentController) Merge(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.MergeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(c, err)
		return
	}

	result, err := ctrl.departmentService.Merge(c.Request.Context(), id, req.TargetID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIResponse(result))
}
