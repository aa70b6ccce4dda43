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

// ExamTypeService defines the interface for exam type operations
type ExamTypeService interface {
	Create(ctx context.Context, name string) (*models.ExamType, error)
	Rename(ctx context.Context, id int64, name string) (*models.ExamType, error)
	GetAll(ctx context.Context) ([]models.ExamType, error)
	GetAllWithCounts(ctx context.Context) ([]models.ExamTypeWithCounts, error)
	Delete(ctx context.Context, id int64) error
	Merge(ctx context.Context, fromID, toID int64) (*dto.MergeResponse, error)
}

// examTypeServiceImpl implements ExamTypeService
type examTypeServiceImpl struct {
	repo *repositories.ExamTypeRepository
	tx   txRunner
}

// NewExamTypeService creates a new ExamTypeService
func NewExamTypeService(repo *repositories.ExamTypeRepository, tx txRunner) ExamTypeService {
	return &examTypeServiceImpl{repo: repo, tx: tx}
}

// Create adds an exam type after checking the name is free.
func (s *examTypeServiceImpl) Create(ctx context.Context, name string) (*models.ExamType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewBadRequestError("exam type name is required")
	}

	taken, err := s.repo.IsNameTaken(ctx, name, nil)
	if err != nil {
		return nil, fmt.Errorf("error checking exam type name: %w", err)
	}
	if taken {
		return nil, apperrors.ErrExamTypeAlreadyExists
	}

	examType, err := s.repo.Create(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("error creating exam type: %w", err)
	}
	return examType, nil
}

// Rename changes an exam type's name after checking the new one is free.
func (s *examTypeServiceImpl) Rename(ctx context.Context, id int64, name string) (*models.ExamType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewBadRequestError("exam type name is required")
	}

	taken, err := s.repo.IsNameTaken(ctx, name, &id)
	if err != nil {
		return nil, fmt.Errorf("error checking exam type name: %w", err)
	}
	if taken {
		return nil, apperrors.ErrExamTypeAlreadyExists
	}

	examType, err := s.repo.UpdateName(ctx, id, name)
	if err != nil {
		return nil, fmt.Errorf("error renaming exam type: %w", err)
	}
	if examType == nil {
		return nil, apperrors.ErrExamTypeNotFound
	}
	return examType, nil
}

// GetAll returns every exam type ordered by name.
func (s *examTypeServiceImpl) GetAll(ctx context.Context) ([]models.ExamType, error) {
	examTypes, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing exam types: %w", err)
	}
	return examTypes, nil
}

// GetAllWithCounts returns the admin listing with reference counts.
func (s *examTypeServiceImpl) GetAllWithCounts(ctx context.Context) ([]models.ExamTypeWithCounts, error) {
	examTypes, err := s.repo.GetAllWithCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing exam types with counts: %w", err)
	}
	return examTypes, nil
}

// Delete removes an exam type that no question references.
func (s *examTypeServiceImpl) Delete(ctx context.Context, id int64) error {
	referenced, err := s.repo.HasReferences(ctx, id)
	if err != nil {
		return fmt.Errorf("error checking exam type references: %w", err)
	}
	if referenced {
		return apperrors.ErrExamTypeHasRelations
	}

	deleted, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return fmt.Errorf("error deleting exam type: %w", err)
	}
	if !deleted {
		return apperrors.ErrExamTypeNotFound
	}
	return nil
}

// Merge moves every question from one exam type onto another, then
// removes the emptied source, all in one transaction.
func (s *examTypeServiceImpl) Merge(ctx context.Context, fromID, toID int64) (*dto.MergeResponse, error) {
	if fromID == toID {
		return nil, apperrors.ErrMergeIntoSameEntity
	}

	for _, id := range []int64{fromID, toID} {
		examType, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("error loading exam type: %w", err)
		}
		if examType == nil {
			return nil, apperrors.ErrExamTypeNotFound
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
			return apperrors.ErrExamTypeNotFound
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error merging exam types: %w", err)
	}

	logger.Info().Int64("fromId", fromID).Int64("toId", toID).
		Int64("questions", result.MigratedQuestions).Msg("Exam types merged")

	return &result, nil
}
