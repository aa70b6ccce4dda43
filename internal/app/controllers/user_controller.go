package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tahmid/qpaper/internal/app/models/dto"
	"github.com/tahmid/qpaper/internal/app/services"
	"github.com/tahmid/qpaper/internal/middleware"
)

// UserController handles profile and contributor endpoints
type UserController struct {
	userService services.UserService
}

// NewUserController creates a new UserController
func NewUserController(userService services.UserService) *UserController {
	return &UserController{userService: userService}
}

// GetProfile returns the caller's profile
// @Summary Get the caller's profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse}
// @Router /users/me [get]
func (ctrl *UserController) GetProfile(c *gin.Context) {
	userID, _ := middleware.CallerIdentity(c)

	profile, err := ctrl.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIResponse(profile))
}

// UpdateProfile changes the caller's profile fields
// @Summary Update the caller's profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateProfileRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse}
// @Router /users/me [put]
func (ctrl *UserController) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(c, err)
		return
	}

	userID, _ := middleware.CallerIdentity(c)
	profile, err := ctrl.userService.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIResponse(profile))
}

// ChangePassword rotates the caller's password
// @Summary Change the caller's password
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ChangePasswordRequest true "Current and new password"
// @Success 200 {object} dto.APIResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /users/me/password [put]
func (ctrl *UserController) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(c, err)
		return
	}

	userID, _ := middleware.CallerIdentity(c)
	if err := ctrl.userService.ChangePassword(c.Request.Context(), userID, &req); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewMessageResponse("Password changed"))
}

// GetContributorStats returns the caller's upload statistics
// @Summary Get the caller's contributor statistics
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ContributorStatsResponse}
// @Router /users/me/stats [get]
func (ctrl *UserController) GetContributorStats(c *gin.Context) {
	userID, _ := middleware.CallerIdentity(c)

	stats, err := ctrl.userService.GetContributorStats(c.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIResponse(stats))
}

// TopContributors returns the public leaderboard
// @Summary List top contributors
// @Tags users
// @Produce json
// @Param limit query int false "Maximum entries (default 10)"
// @Success 200 {object} dto.APIResponse{data=[]models.ContributorStats}
// @Router /contributors/top [get]
func (ctrl *UserController) TopContributors(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	contributors, err := ctrl.userService.TopContributors(c.Request.Context(), limit)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIResponse(contributors))
}
