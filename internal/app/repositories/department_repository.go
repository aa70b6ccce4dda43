package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/tahmid/qpaper/internal/app/models"
)

var departmentColumns = []string{"id", "name", "short_name", "created_at", "updated_at"}

func scanDepartmentRow(row pgx.Row) (*models.Department, error) {
	var d models.Department
	if err := row.Scan(&d.ID, &d.Name, &d.ShortName, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	return &d, nil
}

// DepartmentRepository handles database operations for departments.
type DepartmentRepository struct {
	baseRepository[models.Department, int64]
}

// NewDepartmentRepository creates a new department repository.
func NewDepartmentRepository(db Querier) *DepartmentRepository {
	return &DepartmentRepository{
		baseRepository: newBaseRepository[models.Department, int64](
			db, "departments", "id", departmentColumns, scanDepartmentRow,
		),
	}
}

// Create inserts a department and returns the stored row.
func (r *DepartmentRepository) Create(ctx context.Context, name, shortName string) (*models.Department, error) {
	return r.createAndReload(ctx, r.sb.Insert(r.table).
		Columns("name", "short_name").
		Values(name, shortName))
}

// DepartmentUpdate carries the fields an update may change; nil fields
// are left untouched.
type DepartmentUpdate struct {
	Name      *string
	ShortName *string
}

// Update applies the present fields and returns the stored row, or
// (nil, nil) when the id no longer exists.
func (r *DepartmentRepository) Update(ctx context.Context, id int64, upd DepartmentUpdate) (*models.Department, error) {
	setMap := map[string]interface{}{}
	if upd.Name != nil {
		setMap["name"] = *upd.Name
	}
	if upd.ShortName != nil {
		setMap["short_name"] = *upd.ShortName
	}
	if len(setMap) > 0 {
		setMap["updated_at"] = time.Now()
	}

	return r.updateAndReload(ctx, id, setMap)
}

// GetAll returns every department ordered by name.
func (r *DepartmentRepository) GetAll(ctx context.Context) ([]models.Department, error) {
	return r.FindMany(ctx, FindOptions{OrderBy: []string{"name ASC"}})
}

// IsNameTaken reports whether another department already uses the name,
// case-insensitively.
func (r *DepartmentRepository) IsNameTaken(ctx context.Context, name string, excludeID *int64) (bool, error) {
	unique, err := r.IsFieldUnique(ctx, "name", name, excludeID)
	return !unique, err
}

// IsShortNameTaken reports whether another department already uses the
// short name, case-insensitively.
func (r *DepartmentRepository) IsShortNameTaken(ctx context.Context, shortName string, excludeID *int64) (bool, error) {
	unique, err := r.IsFieldUnique(ctx, "short_name", shortName, excludeID)
	return !unique, err
}

// GetAllWithCounts lists departments with their course and question
// reference counts for the admin panel. Departments nothing references
// come back with zero counts.
func (r *DepartmentRepository) GetAllWithCounts(ctx context.Context) ([]models.DepartmentWithCounts, error) {
	query, args, err := r.sb.Select(
		"d.id", "d.name", "d.short_name", "d.created_at", "d.updated_at",
		"COUNT(DISTINCT c.id) AS course_count",
		"COUNT(DISTINCT q.id) AS question_count",
	).
		From("departments d").
		LeftJoin("courses c ON c.department_id = d.id").
		LeftJoin("questions q ON q.department_id = d.id").
		GroupBy("d.id").
		OrderBy("d.name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build department counts query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying department counts: %w", err)
	}
	defer rows.Close()

	departments := []models.DepartmentWithCounts{}
	for rows.Next() {
		var d models.DepartmentWithCounts
		if err := rows.Scan(&d.ID, &d.Name, &d.ShortName, &d.CreatedAt, &d.UpdatedAt, &d.CourseCount, &d.QuestionCount); err != nil {
			return nil, fmt.Errorf("error scanning department counts row: %w", err)
		}
		departments = append(departments, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating department counts rows: %w", err)
	}

	return departments, nil
}

// HasReferences reports whether any course or question still points at
// the department.
func (r *DepartmentRepository) HasReferences(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM courses WHERE department_id = $1)
		    OR EXISTS(SELECT 1 FROM questions WHERE department_id = $1)`,
		id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking department references: %w", err)
	}
	return exists, nil
}

// MigrateQuestions moves all question references from one department to
// another and returns the number moved.
func (r *DepartmentRepository) MigrateQuestions(ctx context.Context, fromID, toID int64) (int64, error) {
	return migrateQuestionRefs(ctx, r.db, "department_id", fromID, toID)
}

// MigrateCourses moves all course references from one department to
// another; courses travel with their questions when departments merge.
func (r *DepartmentRepository) MigrateCourses(ctx context.Context, fromID, toID int64) (int64, error) {
	query, args, err := r.sb.Update("courses").
		Set("department_id", toID).
		Where(squirrel.Eq{"department_id": fromID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build course migration query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("error migrating course references: %w", err)
	}

	return cmdTag.RowsAffected(), nil
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r DepartmentRepository) WithTx(tx pgx.Tx) *DepartmentRepository {
	r.db = tx
	return &r
}
