package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/tahmid/qpaper/internal/app/models"
)

var courseColumns = []string{"id", "department_id", "name", "created_at", "updated_at"}

func scanCourseRow(row pgx.Row) (*models.Course, error) {
	var c models.Course
	if err := row.Scan(&c.ID, &c.DepartmentID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// CourseRepository handles database operations for courses.
type CourseRepository struct {
	baseRepository[models.Course, int64]
}

// NewCourseRepository creates a new course repository.
func NewCourseRepository(db Querier) *CourseRepository {
	return &CourseRepository{
		baseRepository: newBaseRepository[models.Course, int64](
			db, "courses", "id", courseColumns, scanCourseRow,
		),
	}
}

// Create inserts a course and returns the stored row.
func (r *CourseRepository) Create(ctx context.Context, departmentID int64, name string) (*models.Course, error) {
	return r.createAndReload(ctx, r.sb.Insert(r.table).
		Columns("department_id", "name").
		Values(departmentID, name))
}

// CourseUpdate carries the fields an update may change.
type CourseUpdate struct {
	DepartmentID *int64
	Name         *string
}

// Update applies the present fields and returns the stored row, or
// (nil, nil) when the id no longer exists.
func (r *CourseRepository) Update(ctx context.Context, id int64, upd CourseUpdate) (*models.Course, error) {
	setMap := map[string]interface{}{}
	if upd.DepartmentID != nil {
		setMap["department_id"] = *upd.DepartmentID
	}
	if upd.Name != nil {
		setMap["name"] = *upd.Name
	}
	if len(setMap) > 0 {
		setMap["updated_at"] = time.Now()
	}

	return r.updateAndReload(ctx, id, setMap)
}

// GetAll returns every course ordered by name.
func (r *CourseRepository) GetAll(ctx context.Context) ([]models.Course, error) {
	return r.FindMany(ctx, FindOptions{OrderBy: []string{"name ASC"}})
}

// GetByDepartment returns the department's courses ordered by name.
func (r *CourseRepository) GetByDepartment(ctx context.Context, departmentID int64) ([]models.Course, error) {
	return r.FindMany(ctx, FindOptions{
		Where:   squirrel.Eq{"department_id": departmentID},
		OrderBy: []string{"name ASC"},
	})
}

// IsNameTakenInDepartment reports whether the department already has a
// course with this name, case-insensitively. The same name under another
// department is fine.
func (r *CourseRepository) IsNameTakenInDepartment(ctx context.Context, departmentID int64, name string, excludeID *int64) (bool, error) {
	cond := squirrel.And{
		squirrel.Eq{"department_id": departmentID},
		squirrel.Expr("LOWER(name) = LOWER(?)", name),
	}
	if excludeID != nil {
		cond = append(cond, squirrel.NotEq{"id": *excludeID})
	}

	return r.existsWhere(ctx, cond)
}

// FindByDepartmentAndName looks a course up by its uniqueness tuple, or
// (nil, nil) when absent.
func (r *CourseRepository) FindByDepartmentAndName(ctx context.Context, departmentID int64, name string) (*models.Course, error) {
	courses, err := r.FindMany(ctx, FindOptions{
		Where: squirrel.And{
			squirrel.Eq{"department_id": departmentID},
			squirrel.Expr("LOWER(name) = LOWER(?)", name),
		},
		Limit: 1,
	})
	if err != nil {
		return nil, err
	}
	if len(courses) == 0 {
		return nil, nil
	}
	return &courses[0], nil
}

// FindOrCreate returns the existing course under the department or
// inserts it. Used by question submission: lookup rows are
// create-on-first-use.
func (r *CourseRepository) FindOrCreate(ctx context.Context, departmentID int64, name string) (*models.Course, error) {
	course, err := r.FindByDepartmentAndName(ctx, departmentID, name)
	if err != nil {
		return nil, err
	}
	if course != nil {
		return course, nil
	}
	return r.Create(ctx, departmentID, name)
}

// GetAllWithDetails lists courses with department names and question
// counts for the admin panel.
func (r *CourseRepository) GetAllWithDetails(ctx context.Context) ([]models.CourseWithDetails, error) {
	query, args, err := r.sb.Select(
		"c.id", "c.department_id", "c.name", "c.created_at", "c.updated_at",
		"d.name AS department_name", "d.short_name AS department_short_name",
		"COUNT(q.id) AS question_count",
	).
		From("courses c").
		Join("departments d ON c.department_id = d.id").
		LeftJoin("questions q ON q.course_id = c.id").
		GroupBy("c.id", "d.name", "d.short_name").
		OrderBy("d.name ASC", "c.name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build course details query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying course details: %w", err)
	}
	defer rows.Close()

	courses := []models.CourseWithDetails{}
	for rows.Next() {
		var c models.CourseWithDetails
		if err := rows.Scan(
			&c.ID, &c.DepartmentID, &c.Name, &c.CreatedAt, &c.UpdatedAt,
			&c.DepartmentName, &c.DepartmentShortName, &c.QuestionCount,
		); err != nil {
			return nil, fmt.Errorf("error scanning course details row: %w", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating course details rows: %w", err)
	}

	return courses, nil
}

// HasReferences reports whether any question still points at the course.
func (r *CourseRepository) HasReferences(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM questions WHERE course_id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking course references: %w", err)
	}
	return exists, nil
}

// MigrateQuestions moves all question references from one course to
// another and returns the number moved.
func (r *CourseRepository) MigrateQuestions(ctx context.Context, fromID, toID int64) (int64, error) {
	return migrateQuestionRefs(ctx, r.db, "course_id", fromID, toID)
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r CourseRepository) WithTx(tx pgx.Tx) *CourseRepository {
	r.db = tx
	return &r
}
