package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tahmid/qpaper/internal/app/models/dto"
	"github.com/tahmid/qpaper/internal/app/services"
	"github.com/tahmid/qpaper/internal/middleware"
)

// CourseController manages the course lookup table
type CourseController struct {
	courseService services.CourseService
}

// NewCourseController creates a new CourseController
func NewCourseController(courseService services.CourseService) *CourseController {
	return &CourseController{courseService: courseService}
}

// List returns courses, optionally scoped to one department
// @Summary List courses
// @Tags lookups
// @Produce json
// @Param departmentId query int false "Limit to one department"
// @Success 200 {object} dto.APIResponse{data=[]models.Course}
// @Router /courses [get]
func (ctrl *CourseController) List(c *gin.Context) {
	if raw := c.Query("departmentId"); raw != "" {
		departmentID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || departmentID <= 0 {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid department ID").
				WithField("departmentId")
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		courses, err := ctrl.courseService.GetByDepartment(c.Request.Context(), departmentID)
		if err != nil {
			middleware.HandleAPIError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewAPIResponse(courses))
		return
	}

	courses, err := ctrl.courseService.GetAll(c.Request.Context())
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIResponse(courses))
}

// ListWithDetails returns courses with their department and question counts
// @Summary List courses with details
// @Tags lookups
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.CourseWithDetails}
// @Router /admin/courses [get]
func (ctrl *CourseController) ListWithDetails(c *gin.Context) {
	courses, err := ctrl.courseService.GetAllWithDetails(c.Request.Context())
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIResponse(courses))
}

// Create adds a course
// @Summary Create a course
// @Tags lookups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCourseRequest true "Course details"
// @Success 201 {object} dto.APIResponse{data=models.Course}
// @Failure 409 {object} dto.ErrorResponse
// @Router /admin/courses [post]
func (ctrl *CourseController) Create(c *gin.Context) {
	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(c, err)
		return
	}

	course, err := ctrl.courseService.Create(c.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewAPIResponse(course))
}

// Update renames or moves a course
// @Summary Update a course
// @Tags lookups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body dto.UpdateCourseRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.Course}
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /admin/courses/{id} [put]
func (ctrl *CourseController) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(c, err)
		return
	}

	course, err := ctrl.courseService.Update(c.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIResponse(course))
}

// Delete removes an unreferenced course
// @Summary Delete a course
// @Tags lookups
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /admin/courses/{id} [delete]
func (ctrl *CourseController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.courseService.Delete(c.Request.Context(), id); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewMessageResponse("Course deleted"))
}

// Merge folds one course into another
// @Summary Merge a course into another
// @Tags lookups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Source course ID"
// @Param request body dto.MergeRequest true "Target course"
// @Success 200 {object} dto.APIResponse{data=dto.MergeResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/courses/{id}/merge [post]
func (ctrl *CourseController) Merge(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.MergeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(c, err)
		return
	}

	result, err := ctrl.courseService.Merge(c.Request.Context(), id, req.TargetID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIResponse(result))
}
