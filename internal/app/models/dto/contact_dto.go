package dto

import (
	"github.com/tahmid/qpaper/internal/app/models"
	"github.com/tahmid/qpaper/internal/pkg/helpers"
)

// ContactRequest represents a contact form submission
type ContactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Message string `json:"message" binding:"required,min=10"`
}

// UpdateContactRequest carries the fields an admin edit may change
type UpdateContactRequest struct {
	Name    *string `json:"name" binding:"omitempty,min=1"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Message *string `json:"message" binding:"omitempty,min=10"`
}

// ContactListResponse is one page of submissions, newest first
type ContactListResponse struct {
	Submissions []models.ContactSubmission `json:"submissions"`
	Pagination  helpers.Pagination         `json:"pagination"`
}
