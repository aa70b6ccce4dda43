package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"

	"github.com/tahmid/qpaper/internal/app/models"
	"github.com/tahmid/qpaper/internal/pkg/helpers"
	"github.com/tahmid/qpaper/internal/pkg/sqlfilter"
)

var questionColumns = []string{
	"id", "user_id", "department_id", "course_id", "semester_id", "exam_type_id",
	"status", "status_reason", "duplicate_of", "pdf_key", "pdf_file_size_bytes",
	"view_count", "created_at", "updated_at",
}

func scanQuestionRow(row pgx.Row) (*models.Question, error) {
	var q models.Question
	if err := row.Scan(
		&q.ID, &q.UserID, &q.DepartmentID, &q.CourseID, &q.SemesterID, &q.ExamTypeID,
		&q.Status, &q.StatusReason, &q.DuplicateOf, &q.PDFKey, &q.PDFFileSizeBytes,
		&q.ViewCount, &q.CreatedAt, &q.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &q, nil
}

// questionDetailColumns is the select list for reads that join the lookup
// tables and the uploader.
var questionDetailColumns = []string{
	"q.id", "q.user_id", "q.department_id", "q.course_id", "q.semester_id", "q.exam_type_id",
	"q.status", "q.status_reason", "q.duplicate_of", "q.pdf_key", "q.pdf_file_size_bytes",
	"q.view_count", "q.created_at", "q.updated_at",
	"d.name AS department_name", "d.short_name AS department_short_name",
	"c.name AS course_name", "s.name AS semester_name", "e.name AS exam_type_name",
	"u.name AS uploader_name", "u.username AS uploader_username",
}

func scanQuestionDetailRow(row pgx.Row) (*models.QuestionWithDetails, error) {
	var q models.QuestionWithDetails
	if err := row.Scan(
		&q.ID, &q.UserID, &q.DepartmentID, &q.CourseID, &q.SemesterID, &q.ExamTypeID,
		&q.Status, &q.StatusReason, &q.DuplicateOf, &q.PDFKey, &q.PDFFileSizeBytes,
		&q.ViewCount, &q.CreatedAt, &q.UpdatedAt,
		&q.DepartmentName, &q.DepartmentShortName,
		&q.CourseName, &q.SemesterName, &q.ExamTypeName,
		&q.UploaderName, &q.UploaderUsername,
	); err != nil {
		return nil, err
	}
	return &q, nil
}

// QuestionRepository handles database operations for questions.
type QuestionRepository struct {
	baseRepository[models.Question, int64]
}

// NewQuestionRepository creates a new question repository.
func NewQuestionRepository(db Querier) *QuestionRepository {
	return &QuestionRepository{
		baseRepository: newBaseRepository[models.Question, int64](
			db, "questions", "id", questionColumns, scanQuestionRow,
		),
	}
}

// CreateQuestionInput carries the fields stored on upload. The PDF must
// already be in object storage; only its key and size arrive here.
type CreateQuestionInput struct {
	UserID           string
	DepartmentID     int64
	CourseID         int64
	SemesterID       int64
	ExamTypeID       int64
	Status           models.QuestionStatus
	StatusReason     *string
	DuplicateOf      *int64
	PDFKey           string
	PDFFileSizeBytes int64
}

// Create inserts a question and returns the stored row.
func (r *QuestionRepository) Create(ctx context.Context, in CreateQuestionInput) (*models.Question, error) {
	return r.createAndReload(ctx, r.sb.Insert(r.table).
		Columns(
			"user_id", "department_id", "course_id", "semester_id", "exam_type_id",
			"status", "status_reason", "duplicate_of", "pdf_key", "pdf_file_size_bytes",
		).
		Values(
			in.UserID, in.DepartmentID, in.CourseID, in.SemesterID, in.ExamTypeID,
			in.Status, in.StatusReason, in.DuplicateOf, in.PDFKey, in.PDFFileSizeBytes,
		))
}

// QuestionUpdate carries the fields an edit may change; nil fields are
// left untouched. Status changes go through UpdateStatus instead.
type QuestionUpdate struct {
	DepartmentID     *int64
	CourseID         *int64
	SemesterID       *int64
	ExamTypeID       *int64
	PDFKey           *string
	PDFFileSizeBytes *int64
}

// Update applies the present fields and returns the stored row, or
// (nil, nil) when the id no longer exists.
func (r *QuestionRepository) Update(ctx context.Context, id int64, upd QuestionUpdate) (*models.Question, error) {
	setMap := map[string]interface{}{}
	if upd.DepartmentID != nil {
		setMap["department_id"] = *upd.DepartmentID
	}
	if upd.CourseID != nil {
		setMap["course_id"] = *upd.CourseID
	}
	if upd.SemesterID != nil {
		setMap["semester_id"] = *upd.SemesterID
	}
	if upd.ExamTypeID != nil {
		setMap["exam_type_id"] = *upd.ExamTypeID
	}
	if upd.PDFKey != nil {
		setMap["pdf_key"] = *upd.PDFKey
	}
	if upd.PDFFileSizeBytes != nil {
		setMap["pdf_file_size_bytes"] = *upd.PDFFileSizeBytes
	}
	if len(setMap) > 0 {
		setMap["updated_at"] = time.Now()
	}

	return r.updateAndReload(ctx, id, setMap)
}

// QuestionFilters narrows a catalog or admin search. Absent filters are
// skipped; Search matches case-insensitively across the joined lookup
// names and the uploader.
type QuestionFilters struct {
	DepartmentID *int64
	CourseID     *int64
	SemesterID   *int64
	ExamTypeID   *int64
	Status       *models.QuestionStatus
	UserID       string
	Search       string
	SortBy       string
	SortOrder    string
}

// searchColumns are the joined names the free-text filter runs over.
var searchColumns = []string{"d.name", "d.short_name", "c.name", "s.name", "e.name", "u.name", "u.username"}

func (f QuestionFilters) condition() squirrel.Sqlizer {
	b := sqlfilter.New().
		EqInt64("q.department_id", f.DepartmentID).
		EqInt64("q.course_id", f.CourseID).
		EqInt64("q.semester_id", f.SemesterID).
		EqInt64("q.exam_type_id", f.ExamTypeID).
		EqString("q.user_id", f.UserID).
		AnyContains(searchColumns, f.Search)
	if f.Status != nil {
		b.Eq("q.status", *f.Status)
	}
	return b.Build()
}

// questionSortColumn maps API sort fields onto database columns. Unknown
// fields fall back to upload time so user input never reaches the query
// as raw SQL.
func questionSortColumn(field string) string {
	switch field {
	case "viewCount", "view_count":
		return "q.view_count"
	case "semester", "semester_name":
		return "s.name"
	case "course", "course_name":
		return "c.name"
	case "department", "department_name":
		return "d.name"
	case "fileSize", "pdf_file_size_bytes":
		return "q.pdf_file_size_bytes"
	case "createdAt", "created_at":
		return "q.created_at"
	default:
		return "q.created_at"
	}
}

func (r *QuestionRepository) detailSelect() squirrel.SelectBuilder {
	return r.sb.Select(questionDetailColumns...).
		From("questions q").
		Join("departments d ON q.department_id = d.id").
		Join("courses c ON q.course_id = c.id").
		Join("semesters s ON q.semester_id = s.id").
		Join("exam_types e ON q.exam_type_id = e.id").
		Join("users u ON q.user_id = u.id")
}

func (r *QuestionRepository) detailCount() squirrel.SelectBuilder {
	return r.sb.Select("COUNT(*)").
		From("questions q").
		Join("departments d ON q.department_id = d.id").
		Join("courses c ON q.course_id = c.id").
		Join("semesters s ON q.semester_id = s.id").
		Join("exam_types e ON q.exam_type_id = e.id").
		Join("users u ON q.user_id = u.id")
}

// Search returns one page of questions with details, plus page metadata.
// The data and count queries run concurrently; neither depends on the
// other.
func (r *QuestionRepository) Search(ctx context.Context, page, pageSize int, filters QuestionFilters) ([]models.QuestionWithDetails, helpers.Pagination, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, pageSize)

	dataSelect := r.detailSelect()
	countSelect := r.detailCount()

	if cond := filters.condition(); cond != nil {
		dataSelect = dataSelect.Where(cond)
		countSelect = countSelect.Where(cond)
	}

	sortOrder := "DESC"
	if strings.EqualFold(filters.SortOrder, "ASC") {
		sortOrder = "ASC"
	}
	dataSelect = dataSelect.
		OrderBy(questionSortColumn(filters.SortBy) + " " + sortOrder).
		Limit(uint64(limit)).
		Offset(offset)

	var (
		questions []models.QuestionWithDetails
		total     int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		questions, err = r.queryDetails(gctx, dataSelect)
		return err
	})
	g.Go(func() error {
		query, args, err := countSelect.ToSql()
		if err != nil {
			return fmt.Errorf("failed to build question count query: %w", err)
		}
		if err := r.db.QueryRow(gctx, query, args...).Scan(&total); err != nil {
			return fmt.Errorf("error counting questions: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, helpers.Pagination{}, err
	}

	return questions, helpers.NewPagination(page, limit, total), nil
}

// SearchPublished is the public catalog read path: identical to Search
// but the status filter is pinned to published regardless of input.
func (r *QuestionRepository) SearchPublished(ctx context.Context, page, pageSize int, filters QuestionFilters) ([]models.QuestionWithDetails, helpers.Pagination, error) {
	published := models.StatusPublished
	filters.Status = &published
	return r.Search(ctx, page, pageSize, filters)
}

func (r *QuestionRepository) queryDetails(ctx context.Context, sb squirrel.SelectBuilder) ([]models.QuestionWithDetails, error) {
	query, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build question details query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying question details: %w", err)
	}
	defer rows.Close()

	questions := []models.QuestionWithDetails{}
	for rows.Next() {
		q, err := scanQuestionDetailRow(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning question details row: %w", err)
		}
		questions = append(questions, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating question details rows: %w", err)
	}

	return questions, nil
}

// GetByIDWithDetails returns the question with joined lookup names, or
// (nil, nil) when absent.
func (r *QuestionRepository) GetByIDWithDetails(ctx context.Context, id int64) (*models.QuestionWithDetails, error) {
	query, args, err := r.detailSelect().
		Where(squirrel.Eq{"q.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build question detail query: %w", err)
	}

	question, err := scanQuestionDetailRow(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying question by id: %w", err)
	}

	return question, nil
}

// FindDuplicate returns the id of a question carrying the same
// (department, course, semester, examType) tuple, or nil when the tuple
// is unused. excludeID skips the question being edited. Rejected papers
// do not block a fresh upload of the same exam.
func (r *QuestionRepository) FindDuplicate(ctx context.Context, departmentID, courseID, semesterID, examTypeID int64, excludeID *int64) (*int64, error) {
	cond := squirrel.And{
		squirrel.Eq{"department_id": departmentID},
		squirrel.Eq{"course_id": courseID},
		squirrel.Eq{"semester_id": semesterID},
		squirrel.Eq{"exam_type_id": examTypeID},
		squirrel.NotEq{"status": models.StatusRejected},
	}
	if excludeID != nil {
		cond = append(cond, squirrel.NotEq{"id": *excludeID})
	}

	query, args, err := r.sb.Select("id").
		From(r.table).
		Where(cond).
		OrderBy("id ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build duplicate probe query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error probing for duplicate question: %w", err)
	}

	return &id, nil
}

// IsDuplicate reports whether the metadata tuple is already in use.
func (r *QuestionRepository) IsDuplicate(ctx context.Context, departmentID, courseID, semesterID, examTypeID int64, excludeID *int64) (bool, error) {
	id, err := r.FindDuplicate(ctx, departmentID, courseID, semesterID, examTypeID, excludeID)
	if err != nil {
		return false, err
	}
	return id != nil, nil
}

// UpdateStatus moves the question through the moderation state machine
// and records why. duplicateOf links the flagged question to the paper it
// duplicates; pass nil to clear it. Reports whether a row matched.
func (r *QuestionRepository) UpdateStatus(ctx context.Context, id int64, status models.QuestionStatus, reason *string, duplicateOf *int64) (bool, error) {
	query, args, err := r.sb.Update(r.table).
		SetMap(map[string]interface{}{
			"status":        status,
			"status_reason": reason,
			"duplicate_of":  duplicateOf,
			"updated_at":    time.Now(),
		}).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build status update query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("error updating question status: %w", err)
	}

	return cmdTag.RowsAffected() > 0, nil
}

// IsOwnedByUser reports whether the question belongs to the user. It does
// not enforce anything; the caller decides what ownership permits.
func (r *QuestionRepository) IsOwnedByUser(ctx context.Context, id int64, userID string) (bool, error) {
	return r.existsWhere(ctx, squirrel.And{
		squirrel.Eq{"id": id},
		squirrel.Eq{"user_id": userID},
	})
}

// IncrementViewCount durably counts one view.
func (r *QuestionRepository) IncrementViewCount(ctx context.Context, id int64) error {
	return r.IncrementViewCountBy(ctx, id, 1)
}

// IncrementViewCountBy durably adds a batched view delta in one atomic
// statement.
func (r *QuestionRepository) IncrementViewCountBy(ctx context.Context, id int64, delta int64) error {
	_, err := r.db.Exec(ctx,
		`UPDATE questions SET view_count = view_count + $1 WHERE id = $2`, delta, id)
	if err != nil {
		return fmt.Errorf("error incrementing view count: %w", err)
	}
	return nil
}

// DeleteReturningPDFKey deletes the row and hands back the stored object
// key in the same statement, so the caller can remove the PDF from object
// storage afterwards. deleted is false on a miss; the repository never
// touches file bytes itself.
func (r *QuestionRepository) DeleteReturningPDFKey(ctx context.Context, id int64) (pdfKey string, deleted bool, err error) {
	err = r.db.QueryRow(ctx,
		`DELETE FROM questions WHERE id = $1 RETURNING pdf_key`, id).Scan(&pdfKey)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("error deleting question: %w", err)
	}

	return pdfKey, true, nil
}

// CountByStatus returns how many questions sit in each moderation state.
func (r *QuestionRepository) CountByStatus(ctx context.Context) (map[models.QuestionStatus]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM questions GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("error counting questions by status: %w", err)
	}
	defer rows.Close()

	counts := map[models.QuestionStatus]int64{}
	for rows.Next() {
		var status models.QuestionStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("error scanning status count row: %w", err)
		}
		counts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating status count rows: %w", err)
	}

	return counts, nil
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r QuestionRepository) WithTx(tx pgx.Tx) *QuestionRepository {
	r.db = tx
	return &r
}
