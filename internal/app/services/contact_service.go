package services

import (
	"context"
	"fmt"

	"github.com/tahmid/qpaper/internal/app/models"
	"github.com/tahmid/qpaper/internal/app/models/dto"
	"github.com/tahmid/qpaper/internal/app/repositories"
	"github.com/tahmid/qpaper/internal/pkg/apperrors"
)

// ContactService defines the interface for contact form operations
type ContactService interface {
	Submit(ctx context.Context, req *dto.ContactRequest) (*models.ContactSubmission, error)
	List(ctx context.Context, page, pageSize int) (*dto.ContactListResponse, error)
	Update(ctx context.Context, id int64, req *dto.UpdateContactRequest) (*models.ContactSubmission, error)
	Delete(ctx context.Context, id int64) error
}

// contactServiceImpl implements ContactService
type contactServiceImpl struct {
	repo *repositories.ContactRepository
}

// NewContactService creates a new ContactService
func NewContactService(repo *repositories.ContactRepository) ContactService {
	return &contactServiceImpl{repo: repo}
}

// Submit stores a contact form entry.
func (s *contactServiceImpl) Submit(ctx context.Context, req *dto.ContactRequest) (*models.ContactSubmission, error) {
	submission, err := s.repo.Create(ctx, req.Name, req.Email, req.Message)
	if err != nil {
		return nil, fmt.Errorf("error storing contact submission: %w", err)
	}
	return submission, nil
}

// List returns one page of submissions, newest first.
func (s *contactServiceImpl) List(ctx context.Context, page, pageSize int) (*dto.ContactListResponse, error) {
	submissions, pagination, err := s.repo.List(ctx, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("error listing contact submissions: %w", err)
	}
	return &dto.ContactListResponse{
		Submissions: submissions,
		Pagination:  pagination,
	}, nil
}

// Update applies an admin edit, leaving absent fields untouched.
func (s *contactServiceImpl) Update(ctx context.Context, id int64, req *dto.UpdateContactRequest) (*models.ContactSubmission, error) {
	submission, err := s.repo.Update(ctx, id, repositories.ContactUpdate{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	})
	if err != nil {
		return nil, fmt.Errorf("error updating contact submission: %w", err)
	}
	if submission == nil {
		return nil, apperrors.ErrContactSubmissionMiss
	}
	return submission, nil
}

// Delete removes a handled submission.
func (s *contactServiceImpl) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return fmt.Errorf("error deleting contact submission: %w", err)
	}
	if !deleted {
		return apperrors.ErrContactSubmissionMiss
	}
	return nil
}
