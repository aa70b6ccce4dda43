package models

import "time"

// User roles.
const (
	RoleContributor = "contributor"
	RoleModerator   = "moderator"
	RoleAdmin       = "admin"
)

// User is an account. Email, username and (when present) student ID are
// unique case-insensitively.
type User struct {
	ID              string     `json:"id"` // UUID
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	Username        string     `json:"username"`
	StudentID       *string    `json:"studentId,omitempty"`
	Image           *string    `json:"image,omitempty"`
	Role            string     `json:"role"`
	PasswordHash    string     `json:"-"`
	EmailVerifiedAt *time.Time `json:"emailVerifiedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// ContributorStats aggregates a user's upload activity.
type ContributorStats struct {
	UserID         string `json:"userId"`
	QuestionCount  int64  `json:"questionCount"`
	PublishedCount int64  `json:"publishedCount"`
	PendingCount   int64  `json:"pendingCount"`
	TotalViews     int64  `json:"totalViews"`
}
