package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/tahmid/qpaper/internal/app/models"
	"github.com/tahmid/qpaper/internal/app/models/dto"
	"github.com/tahmid/qpaper/internal/app/repositories"
	"github.com/tahmid/qpaper/internal/pkg/apperrors"
	"github.com/tahmid/qpaper/internal/pkg/logger"
)

// SemesterService defines the interface for semester operations
type SemesterService interface {
	Create(ctx context.Context, name string) (*models.Semester, error)
	Rename(ctx context.Context, id int64, name string) (*models.Semester, error)
	GetAll(ctx context.Context) ([]models.Semester, error)
	GetAllWithCounts(ctx context.Context) ([]models.SemesterWithCounts, error)
	Delete(ctx context.Context, id int64) error
	Merge(ctx context.Context, fromID, toID int64) (*dto.MergeResponse, error)
}

// semesterServiceImpl implements SemesterService
type semesterServiceImpl struct {
	repo *repositories.SemesterRepository
	tx   txRunner
}

// NewSemesterService creates a new SemesterService
func NewSemesterService(repo *repositories.SemesterRepository, tx txRunner) SemesterService {
	return &semesterServiceImpl{repo: repo, tx: tx}
}

// Create adds a semester after checking the name is free.
func (s *semesterServiceImpl) Create(ctx context.Context, name string) (*models.Semester, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewBadRequestError("semester name is required")
	}

	taken, err := s.repo.IsNameTaken(ctx, name, nil)
	if err != nil {
		return nil, fmt.Errorf("error checking semester name: %w", err)
	}
	if taken {
		return nil, apperrors.ErrSemesterAlreadyExists
	}

	semester, err := s.repo.Create(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("error creating semester: %w", err)
	}
	return semester, nil
}

// Rename changes a semester's name after checking the new one is free.
func (s *semesterServiceImpl) Rename(ctx context.Context, id int64, name string) (*models.Semester, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewBadRequestError("semester name is required")
	}

	taken, err := s.repo.IsNameTaken(ctx, name, &id)
	if err != nil {
		return nil, fmt.Errorf("error checking semester name: %w", err)
	}
	if taken {
		return nil, apperrors.ErrSemesterAlreadyExists
	}

	semester, err := s.repo.UpdateName(ctx, id, name)
	if err != nil {
		return nil, fmt.Errorf("error renaming semester: %w", err)
	}
	if semester == nil {
		return nil, apperrors.ErrSemesterNotFound
	}
	return semester, nil
}

// GetAll returns every semester, newest term first.
func (s *semesterServiceImpl) GetAll(ctx context.Context) ([]models.Semester, error) {
	semesters, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing semesters: %w", err)
	}
	return semesters, nil
}

// GetAllWithCounts returns the admin listing with reference counts.
func (s *semesterServiceImpl) GetAllWithCounts(ctx context.Context) ([]models.SemesterWithCounts, error) {
	semesters, err := s.repo.GetAllWithCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing semesters with counts: %w", err)
	}
	return semesters, nil
}

// Delete removes a semester that no question references.
func (s *semesterServiceImpl) Delete(ctx context.Context, id int64) error {
	referenced, err := s.repo.HasReferences(ctx, id)
	if err != nil {
		return fmt.Errorf("error checking semester references: %w", err)
	}
	if referenced {
		return apperrors.ErrSemesterHasRelations
	}

	deleted, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return fmt.Errorf("error deleting semester: %w", err)
	}
	if !deleted {
		return apperrors.ErrSemesterNotFound
	}
	return nil
}

// Merge moves every question from one semester onto another, then
// removes the emptied source, all in one transaction.
func (s *semesterServiceImpl) Merge(ctx context.Context, fromID, toID int64) (*dto.MergeResponse, error) {
	if fromID == toID {
		return nil, apperrors.ErrMergeIntoSameEntity
	}

	for _, id := range []int64{fromID, toID} {
		semester, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("error loading semester: %w", err)
		}
		if semester == nil {
			return nil, apperrors.ErrSemesterNotFound
		}
	}

	var result dto.MergeResponse
	err := s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		repo := s.repo.WithTx(tx)

		migrated, err := repo.MigrateQuestions(ctx, fromID, toID)
		if err != nil {
			return err
		}
		result.MigratedQuestions = migrated

		deleted, err := repo.DeleteByID(ctx, fromID)
		if err != nil {
			return err
		}
		if !deleted {
			return apperrors.ErrSemesterNotFound
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error merging semesters: %w", err)
	}

	logger.Info().Int64("fromId", fromID).Int64("toId", toID).
		Int64("questions", result.MigratedQuestions).Msg("Semesters merged")

	return &result, nil
}
