package repositories

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/tahmid/qpaper/internal/app/models"
)

// FilterOptions holds every lookup table in one payload, so the catalog
// UI can populate its filter controls from a single round trip.
type FilterOptions struct {
	Departments []models.Department `json:"departments"`
	Courses     []models.Course     `json:"courses"`
	Semesters   []models.Semester   `json:"semesters"`
	ExamTypes   []models.ExamType   `json:"examTypes"`
}

// FilterOptionsRepository aggregates the lookup tables.
type FilterOptionsRepository struct {
	departments *DepartmentRepository
	courses     *CourseRepository
	semesters   *SemesterRepository
	examTypes   *ExamTypeRepository
}

// NewFilterOptionsRepository creates the aggregator over the four lookup
// repositories.
func NewFilterOptionsRepository(
	departments *DepartmentRepository,
	courses *CourseRepository,
	semesters *SemesterRepository,
	examTypes *ExamTypeRepository,
) *FilterOptionsRepository {
	return &FilterOptionsRepository{
		departments: departments,
		courses:     courses,
		semesters:   semesters,
		examTypes:   examTypes,
	}
}

// GetFilterOptions issues the four lookup reads concurrently and returns
// them together.
func (r *FilterOptionsRepository) GetFilterOptions(ctx context.Context) (*FilterOptions, error) {
	var opts FilterOptions

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		opts.Departments, err = r.departments.GetAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		opts.Courses, err = r.courses.GetAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		opts.Semesters, err = r.semesters.GetAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		opts.ExamTypes, err = r.examTypes.GetAll(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &opts, nil
}
