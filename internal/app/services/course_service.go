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

// CourseService defines the interface for course operations
type CourseService interface {
	Create(ctx context.Context, req *dto.CreateCourseRequest) (*models.Course, error)
	Update(ctx context.Context, id int64, req *dto.UpdateCourseRequest) (*models.Course, error)
	GetAll(ctx context.Context) ([]models.Course, error)
	GetByDepartment(ctx context.Context, departmentID int64) ([]models.Course, error)
	GetAllWithDetails(ctx context.Context) ([]models.CourseWithDetails, error)
	Delete(ctx context.Context, id int64) error
	Merge(ctx context.Context, fromID, toID int64) (*dto.MergeResponse, error)
}

// courseServiceImpl implements CourseService
type courseServiceImpl struct {
	repo           *repositories.CourseRepository
	departmentRepo *repositories.DepartmentRepository
	tx             txRunner
}

// NewCourseService creates a new CourseService
func NewCourseService(repo *repositories.CourseRepository, departmentRepo *repositories.DepartmentRepository, tx txRunner) CourseService {
	return &courseServiceImpl{repo: repo, departmentRepo: departmentRepo, tx: tx}
}

// Create adds a course under an existing department after checking the
// name is free within that department.
func (s *courseServiceImpl) Create(ctx context.Context, req *dto.CreateCourseRequest) (*models.Course, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewBadRequestError("course name is required")
	}

	department, err := s.departmentRepo.FindByID(ctx, req.DepartmentID)
	if err != nil {
		return nil, fmt.Errorf("error checking department: %w", err)
	}
	if department == nil {
		return nil, apperrors.ErrDepartmentNotFound
	}

	taken, err := s.repo.IsNameTakenInDepartment(ctx, req.DepartmentID, name, nil)
	if err != nil {
		return nil, fmt.Errorf("error checking course name: %w", err)
	}
	if taken {
		return nil, apperrors.ErrCourseAlreadyExists
	}

	course, err := s.repo.Create(ctx, req.DepartmentID, name)
	if err != nil {
		return nil, fmt.Errorf("error creating course: %w", err)
	}
	return course, nil
}

// Update edits a course; absent fields are left untouched.
func (s *courseServiceImpl) Update(ctx context.Context, id int64, req *dto.UpdateCourseRequest) (*models.Course, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error loading course: %w", err)
	}
	if current == nil {
		return nil, apperrors.ErrCourseNotFound
	}

	departmentID := current.DepartmentID
	upd := repositories.CourseUpdate{}
	if req.DepartmentID != nil {
		department, err := s.departmentRepo.FindByID(ctx, *req.DepartmentID)
		if err != nil {
			return nil, fmt.Errorf("error checking department: %w", err)
		}
		if department == nil {
			return nil, apperrors.ErrDepartmentNotFound
		}
		departmentID = department.ID
		upd.DepartmentID = req.DepartmentID
	}

	name := current.Name
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.NewBadRequestError("course name cannot be empty")
		}
		upd.Name = &name
	}

	taken, err := s.repo.IsNameTakenInDepartment(ctx, departmentID, name, &id)
	if err != nil {
		return nil, fmt.Errorf("error checking course name: %w", err)
	}
	if taken {
		return nil, apperrors.ErrCourseAlreadyExists
	}

	course, err := s.repo.Update(ctx, id, upd)
	if err != nil {
		return nil, fmt.Errorf("error updating course: %w", err)
	}
	if course == nil {
		return nil, apperrors.ErrCourseNotFound
	}
	return course, nil
}

// GetAll returns every course ordered by name.
func (s *courseServiceImpl) GetAll(ctx context.Context) ([]models.Course, error) {
	courses, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing courses: %w", err)
	}
	return courses, nil
}

// GetByDepartment returns the department's courses ordered by name.
func (s *courseServiceImpl) GetByDepartment(ctx context.Context, departmentID int64) ([]models.Course, error) {
	courses, err := s.repo.GetByDepartment(ctx, departmentID)
	if err != nil {
		return nil, fmt.Errorf("error listing courses by department: %w", err)
	}
	return courses, nil
}

// GetAllWithDetails returns the admin listing with the owning
// department and reference counts.
func (s *courseServiceImpl) GetAllWithDetails(ctx context.Context) ([]models.CourseWithDetails, error) {
	courses, err := s.repo.GetAllWithDetails(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing courses with details: %w", err)
	}
	return courses, nil
}

// Delete removes a course that no question references.
func (s *courseServiceImpl) Delete(ctx context.Context, id int64) error {
	referenced, err := s.repo.HasReferences(ctx, id)
	if err != nil {
		return fmt.Errorf("error checking course references: %w", err)
	}
	if referenced {
		return apperrors.ErrCourseHasRelations
	}

	deleted, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return fmt.Errorf("error deleting course: %w", err)
	}
	if !deleted {
		return apperrors.ErrCourseNotFound
	}
	return nil
}

// Merge moves every question from one course onto another, then removes
// the emptied source, all in one transaction. Merging across
// departments is allowed; duplicate listings under different names for
// the same course are the usual reason to merge.
func (s *courseServiceImpl) Merge(ctx context.Context, fromID, toID int64) (*dto.MergeResponse, error) {
	if fromID == toID {
		return nil, apperrors.ErrMergeIntoSameEntity
	}

	for _, id := range []int64{fromID, toID} {
		course, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("error loading course: %w", err)
		}
		if course == nil {
			return nil, apperrors.ErrCourseNotFound
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
			return apperrors.ErrCourseNotFound
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error merging courses: %w", err)
	}

	logger.Info().Int64("fromId", fromID).Int64("toId", toID).
		Int64("questions", result.MigratedQuestions).Msg("Courses merged")

	return &result, nil
}
