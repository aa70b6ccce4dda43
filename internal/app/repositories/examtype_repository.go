package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/tahmid/qpaper/internal/app/models"
)

var examTypeColumns = []string{"id", "name", "created_at", "updated_at"}

func scanExamTypeRow(row pgx.Row) (*models.ExamType, error) {
	var e models.ExamType
	if err := row.Scan(&e.ID, &e.Name, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

// ExamTypeRepository handles database operations for exam types.
type ExamTypeRepository struct {
	baseRepository[models.ExamType, int64]
}

// NewExamTypeRepository creates a new exam type repository.
func NewExamTypeRepository(db Querier) *ExamTypeRepository {
	return &ExamTypeRepository{
		baseRepository: newBaseRepository[models.ExamType, int64](
			db, "exam_types", "id", examTypeColumns, scanExamTypeRow,
		),
	}
}

// Create inserts an exam type and returns the stored row.
func (r *ExamTypeRepository) Create(ctx context.Context, name string) (*models.ExamType, error) {
	return r.createAndReload(ctx, r.sb.Insert(r.table).Columns("name").Values(name))
}

// UpdateName renames the exam type and returns the stored row, or
// (nil, nil) when the id no longer exists.
func (r *ExamTypeRepository) UpdateName(ctx context.Context, id int64, name string) (*models.ExamType, error) {
	return r.updateAndReload(ctx, id, map[string]interface{}{
		"name":       name,
		"updated_at": time.Now(),
	})
}

// GetAll returns every exam type ordered by name.
func (r *ExamTypeRepository) GetAll(ctx context.Context) ([]models.ExamType, error) {
	return r.FindMany(ctx, FindOptions{OrderBy: []string{"name ASC"}})
}

// IsNameTaken reports whether another exam type already uses the name,
// case-insensitively.
func (r *ExamTypeRepository) IsNameTaken(ctx context.Context, name string, excludeID *int64) (bool, error) {
	unique, err := r.IsFieldUnique(ctx, "name", name, excludeID)
	return !unique, err
}

// FindByName looks an exam type up case-insensitively, or (nil, nil).
func (r *ExamTypeRepository) FindByName(ctx context.Context, name string) (*models.ExamType, error) {
	examTypes, err := r.FindMany(ctx, FindOptions{
		Where: squirrel.Expr("LOWER(name) = LOWER(?)", name),
		Limit: 1,
	})
	if err != nil {
		return nil, err
	}
	if len(examTypes) == 0 {
		return nil, nil
	}
	return &examTypes[0], nil
}

// FindOrCreate returns the existing exam type or inserts it.
func (r *ExamTypeRepository) FindOrCreate(ctx context.Context, name string) (*models.ExamType, error) {
	examType, err := r.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if examType != nil {
		return examType, nil
	}
	return r.Create(ctx, name)
}

// GetAllWithCounts lists exam types with question counts.
func (r *ExamTypeRepository) GetAllWithCounts(ctx context.Context) ([]models.ExamTypeWithCounts, error) {
	query, args, err := r.sb.Select(
		"e.id", "e.name", "e.created_at", "e.updated_at",
		"COUNT(q.id) AS question_count",
	).
		From("exam_types e").
		LeftJoin("questions q ON q.exam_type_id = e.id").
		GroupBy("e.id").
		OrderBy("e.name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build exam type counts query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying exam type counts: %w", err)
	}
	defer rows.Close()

	examTypes := []models.ExamTypeWithCounts{}
	for rows.Next() {
		var e models.ExamTypeWithCounts
		if err := rows.Scan(&e.ID, &e.Name, &e.CreatedAt, &e.UpdatedAt, &e.QuestionCount); err != nil {
			return nil, fmt.Errorf("error scanning exam type counts row: %w", err)
		}
		examTypes = append(examTypes, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating exam type counts rows: %w", err)
	}

	return examTypes, nil
}

// HasReferences reports whether any question still points at the exam type.
func (r *ExamTypeRepository) HasReferences(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM questions WHERE exam_type_id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking exam type references: %w", err)
	}
	return exists, nil
}

// MigrateQuestions moves all question references from one exam type to
// another and returns the number moved.
func (r *ExamTypeRepository) MigrateQuestions(ctx context.Context, fromID, toID int64) (int64, error) {
	return migrateQuestionRefs(ctx, r.db, "exam_type_id", fromID, toID)
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r ExamTypeRepository) WithTx(tx pgx.Tx) *ExamTypeRepository {
	r.db = tx
	return &r
}
