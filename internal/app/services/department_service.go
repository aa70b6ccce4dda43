package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/tahmid/qpaper/internal/app/models"
	"github.com/tahmid/qpaper/internal/app/models/dto"
	"github.com/tahmid/qpaper/internal/app/repositories"
	"github.com/tahmid/qpaper/internal/db"
	"github.com/tahmid/qpaper/internal/pkg/apperrors"
	"github.com/tahmid/qpaper/internal/pkg/logger"
)

// txRunner runs a function inside a database transaction. *db.PostgresDB
// satisfies it.
type txRunner interface {
	WithTransaction(ctx context.Context, fn db.TransactionFn) error
}

// DepartmentService defines the interface for department operations
type DepartmentService interface {
	Create(ctx context.Context, req *dto.CreateDepartmentRequest) (*models.Department, error)
	Update(ctx context.Context, id int64, req *dto.UpdateDepartmentRequest) (*models.Department, error)
	GetAll(ctx context.Context) ([]models.Department, error)
	GetAllWithCounts(ctx context.Context) ([]models.DepartmentWithCounts, error)
	Delete(ctx context.Context, id int64) error
	Merge(ctx context.Context, fromID, toID int64) (*dto.MergeResponse, error)
}

// departmentServiceImpl implements DepartmentService
type departmentServiceImpl struct {
	repo *repositories.DepartmentRepository
	tx   txRunner
}

// NewDepartmentService creates a new DepartmentService
func NewDepartmentService(repo *repositories.DepartmentRepository, tx txRunner) DepartmentService {
	return &departmentServiceImpl{repo: repo, tx: tx}
}

// Create adds a department after checking both names are free.
func (s *departmentServiceImpl) Create(ctx context.Context, req *dto.CreateDepartmentRequest) (*models.Department, error) {
	name := strings.TrimSpace(req.Name)
	shortName := strings.TrimSpace(req.ShortName)
	if name == "" || shortName == "" {
		return nil, apperrors.NewBadRequestError("department name and short name are required")
	}

	if err := s.checkNamesFree(ctx, name, shortName, nil); err != nil {
		return nil, err
	}

	department, err := s.repo.Create(ctx, name, shortName)
	if err != nil {
		return nil, fmt.Errorf("error creating department: %w", err)
	}
	return department, nil
}

func (s *departmentServiceImpl) checkNamesFree(ctx context.Context, name, shortName string, excludeID *int64) error {
	if name != "" {
		taken, err := s.repo.IsNameTaken(ctx, name, excludeID)
		if err != nil {
			return fmt.Errorf("error checking department name: %w", err)
		}
		if taken {
			return apperrors.ErrDepartmentAlreadyExists
		}
	}
	if shortName != "" {
		taken, err := s.repo.IsShortNameTaken(ctx, shortName, excludeID)
		if err != nil {
			return fmt.Errorf("error checking department short name: %w", err)
		}
		if taken {
			return apperrors.ErrDepartmentAlreadyExists
		}
	}
	return nil
}

// Update renames a department; absent fields are left untouched.
func (s *departmentServiceImpl) Update(ctx context.Context, id int64, req *dto.UpdateDepartmentRequest) (*models.Department, error) {
	upd := repositories.DepartmentUpdate{}
	var name, shortName string
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.NewBadRequestError("department name cannot be empty")
		}
		upd.Name = &name
	}
	if req.ShortName != nil {
		shortName = strings.TrimSpace(*req.ShortName)
		if shortName == "" {
			return nil, apperrors.NewBadRequestError("department short name cannot be empty")
		}
		upd.ShortName = &shortName
	}

	if err := s.checkNamesFree(ctx, name, shortName, &id); err != nil {
		return nil, err
	}

	department, err := s.repo.Update(ctx, id, upd)
	if err != nil {
		return nil, fmt.Errorf("error updating department: %w", err)
	}
	if department == nil {
		return nil, apperrors.ErrDepartmentNotFound
	}
	return department, nil
}

// GetAll returns every department ordered by name.
func (s *departmentServiceImpl) GetAll(ctx context.Context) ([]models.Department, error) {
	departments, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing departments: %w", err)
	}
	return departments, nil
}

// GetAllWithCounts returns the admin listing with reference counts.
func (s *departmentServiceImpl) GetAllWithCounts(ctx context.Context) ([]models.DepartmentWithCounts, error) {
	departments, err := s.repo.GetAllWithCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing departments with counts: %w", err)
	}
	return departments, nil
}

// Delete removes a department that nothing references.
func (s *departmentServiceImpl) Delete(ctx context.Context, id int64) error {
	referenced, err := s.repo.HasReferences(ctx, id)
	if err != nil {
		return fmt.Errorf("error checking department references: %w", err)
	}
	if referenced {
		return apperrors.ErrDepartmentHasRelations
	}

	deleted, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return fmt.Errorf("error deleting department: %w", err)
	}
	if !deleted {
		return apperrors.ErrDepartmentNotFound
	}
	return nil
}

// Merge moves every course and question from one department onto
// another, then removes the emptied source. Both moves and the delete
// run in one transaction.
func (s *departmentServiceImpl) Merge(ctx context.Context, fromID, toID int64) (*dto.MergeResponse, error) {
	if fromID == toID {
		return nil, apperrors.ErrMergeIntoSameEntity
	}

	for _, id := range []int64{fromID, toID} {
		department, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("error loading department: %w", err)
		}
		if department == nil {
			return nil, apperrors.ErrDepartmentNotFound
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

		migrated, err = repo.MigrateCourses(ctx, fromID, toID)
		if err != nil {
			return err
		}
		result.MigratedCourses = migrated

		deleted, err := repo.DeleteByID(ctx, fromID)
		if err != nil {
			return err
		}
		if !deleted {
			return apperrors.ErrDepartmentNotFound
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error merging departments: %w", err)
	}

	logger.Info().Int64("fromId", fromID).Int64("toId", toID).
		Int64("questions", result.MigratedQuestions).Int64("courses", result.MigratedCourses).
		Msg("Departments merged")

	return &result, nil
}
