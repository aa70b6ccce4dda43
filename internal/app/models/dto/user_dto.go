package dto

import (
	"time"

	"github.com/tahmid/qpaper/internal/app/models"
)

// UserResponse represents basic user information
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	StudentID *string   `json:"studentId,omitempty"`
	Image     *string   `json:"image,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// FromUser converts a models.User to a UserResponse
func FromUser(u *models.User) UserResponse {
	if u == nil {
		return UserResponse{}
	}
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Username:  u.Username,
		StudentID: u.StudentID,
		Image:     u.Image,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// UpdateProfileRequest represents profile update data
type UpdateProfileRequest struct {
	Name  *string `json:"name,omitempty"`
	Image *string `json:"image,omitempty"`
}

// ChangePasswordRequest represents a password change
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}

// ContributorStatsResponse aggregates a user's upload activity
type ContributorStatsResponse struct {
	UserID         string `json:"userId"`
	QuestionCount  int64  `json:"questionCount"`
	PublishedCount int64  `json:"publishedCount"`
	PendingCount   int64  `json:"pendingCount"`
	TotalViews     int64  `json:"totalViews"`
}

// FromContributorStats converts the model aggregate
func FromContributorStats(s *models.ContributorStats) ContributorStatsResponse {
	if s == nil {
		return ContributorStatsResponse{}
	}
	return ContributorStatsResponse{
		UserID:         s.UserID,
		QuestionCount:  s.QuestionCount,
		PublishedCount: s.PublishedCount,
		PendingCount:   s.PendingCount,
		TotalViews:     s.TotalViews,
	}
}
