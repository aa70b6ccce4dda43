package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/tahmid/qpaper/internal/app/models"
)

var semesterColumns = []string{"id", "name", "created_at", "updated_at"}

func scanSemesterRow(row pgx.Row) (*models.Semester, error) {
	var s models.Semester
	if err := row.Scan(&s.ID, &s.Name, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// SemesterRepository handles database operations for semesters.
type SemesterRepository struct {
	baseRepository[models.Semester, int64]
}

// NewSemesterRepository creates a new semester repository.
func NewSemesterRepository(db Querier) *SemesterRepository {
	return &SemesterRepository{
		baseRepository: newBaseRepository[models.Semester, int64](
			db, "semesters", "id", semesterColumns, scanSemesterRow,
		),
	}
}

// Create inserts a semester and returns the stored row.
func (r *SemesterRepository) Create(ctx context.Context, name string) (*models.Semester, error) {
	return r.createAndReload(ctx, r.sb.Insert(r.table).Columns("name").Values(name))
}

// UpdateName renames the semester and returns the stored row, or
// (nil, nil) when the id no longer exists.
func (r *SemesterRepository) UpdateName(ctx context.Context, id int64, name string) (*models.Semester, error) {
	return r.updateAndReload(ctx, id, map[string]interface{}{
		"name":       name,
		"updated_at": time.Now(),
	})
}

// GetAll returns every semester, newest first. The chronological key is
// embedded in the name, so ordering happens in Go after the read; the
// table is small.
func (r *SemesterRepository) GetAll(ctx context.Context) ([]models.Semester, error) {
	semesters, err := r.FindMany(ctx, FindOptions{})
	if err != nil {
		return nil, err
	}
	models.SortSemesters(semesters)
	return semesters, nil
}

// IsNameTaken reports whether another semester already uses the name,
// case-insensitively.
func (r *SemesterRepository) IsNameTaken(ctx context.Context, name string, excludeID *int64) (bool, error) {
	unique, err := r.IsFieldUnique(ctx, "name", name, excludeID)
	return !unique, err
}

// FindByName looks a semester up case-insensitively, or (nil, nil).
func (r *SemesterRepository) FindByName(ctx context.Context, name string) (*models.Semester, error) {
	semesters, err := r.FindMany(ctx, FindOptions{
		Where: squirrel.Expr("LOWER(name) = LOWER(?)", name),
		Limit: 1,
	})
	if err != nil {
		return nil, err
	}
	if len(semesters) == 0 {
		return nil, nil
	}
	return &semesters[0], nil
}

// FindOrCreate returns the existing semester or inserts it.
func (r *SemesterRepository) FindOrCreate(ctx context.Context, name string) (*models.Semester, error) {
	semester, err := r.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if semester != nil {
		return semester, nil
	}
	return r.Create(ctx, name)
}

// GetAllWithCounts lists semesters with question counts, newest first.
func (r *SemesterRepository) GetAllWithCounts(ctx context.Context) ([]models.SemesterWithCounts, error) {
	query, args, err := r.sb.Select(
		"s.id", "s.name", "s.created_at", "s.updated_at",
		"COUNT(q.id) AS question_count",
	).
		From("semesters s").
		LeftJoin("questions q ON q.semester_id = s.id").
		GroupBy("s.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build semester counts query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying semester counts: %w", err)
	}
	defer rows.Close()

	semesters := []models.SemesterWithCounts{}
	for rows.Next() {
		var s models.SemesterWithCounts
		if err := rows.Scan(&s.ID, &s.Name, &s.CreatedAt, &s.UpdatedAt, &s.QuestionCount); err != nil {
			return nil, fmt.Errorf("error scanning semester counts row: %w", err)
		}
		semesters = append(semesters, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating semester counts rows: %w", err)
	}

	models.SortSemestersWithCounts(semesters)
	return semesters, nil
}

// HasReferences reports whether any question still points at the semester.
func (r *SemesterRepository) HasReferences(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM questions WHERE semester_id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking semester references: %w", err)
	}
	return exists, nil
}

// MigrateQuestions moves all question references from one semester to
// another and returns the number moved.
func (r *SemesterRepository) MigrateQuestions(ctx context.Context, fromID, toID int64) (int64, error) {
	return migrateQuestionRefs(ctx, r.db, "semester_id", fromID, toID)
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r SemesterRepository) WithTx(tx pgx.Tx) *SemesterRepository {
	r.db = tx
	return &r
}
