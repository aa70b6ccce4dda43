package repositories

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedRow answers one Scan with canned values, or an error.
type scriptedRow struct {
	vals []any
	err  error
}

func (r scriptedRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i := range dest {
		if i < len(r.vals) {
			reflect.ValueOf(dest[i]).Elem().Set(reflect.ValueOf(r.vals[i]))
		}
	}
	return nil
}

// fakeQuerier records every statement and answers from scripts, so
// tests can assert the exact SQL a repository emits without a database.
type fakeQuerier struct {
	queries  []string
	args     [][]any
	execTags []pgconn.CommandTag
	rows     []scriptedRow
}

func (f *fakeQuerier) Exec(_ context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	f.queries = append(f.queries, sql)
	f.args = append(f.args, arguments)
	if len(f.execTags) == 0 {
		return pgconn.CommandTag{}, nil
	}
	tag := f.execTags[0]
	f.execTags = f.execTags[1:]
	return tag, nil
}

func (f *fakeQuerier) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("unexpected Query")
}

func (f *fakeQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	f.queries = append(f.queries, sql)
	f.args = append(f.args, args)
	if len(f.rows) == 0 {
		return scriptedRow{err: pgx.ErrNoRows}
	}
	row := f.rows[0]
	f.rows = f.rows[1:]
	return row
}

func (f *fakeQuerier) lastQuery() string {
	if len(f.queries) == 0 {
		return ""
	}
	return f.queries[len(f.queries)-1]
}

func TestUniquenessProbeComparesCaseInsensitively(t *testing.T) {
	fq := &fakeQuerier{rows: []scriptedRow{{vals: []any{false}}}}
	repo := NewDepartmentRepository(fq)

	taken, err := repo.IsNameTaken(context.Background(), "Mathematics", nil)
	require.NoError(t, err)
	assert.False(t, taken)

	// The probe must compare via LOWER() on both sides, matching the
	// schema's unique indexes, rather than relying on collation.
	assert.Equal(t,
		"SELECT EXISTS(SELECT 1 FROM departments WHERE (LOWER(name) = LOWER($1)))",
		fq.lastQuery())
	assert.Equal(t, []any{"Mathematics"}, fq.args[0])
}

func TestUniquenessProbeExcludesTheEditedRow(t *testing.T) {
	fq := &fakeQuerier{rows: []scriptedRow{{vals: []any{false}}}}
	repo := NewDepartmentRepository(fq)

	excludeID := int64(4)
	unique, err := repo.AreFieldsUniqueCaseInsensitive(context.Background(),
		[]FieldValue{
			{Column: "name", Value: "Mathematics"},
			{Column: "short_name", Value: "MAT"},
		}, &excludeID)
	require.NoError(t, err)
	assert.True(t, unique)

	assert.Equal(t,
		"SELECT EXISTS(SELECT 1 FROM departments WHERE "+
			"(LOWER(name) = LOWER($1) AND LOWER(short_name) = LOWER($2) AND id <> $3))",
		fq.lastQuery())
	assert.Equal(t, []any{"Mathematics", "MAT", int64(4)}, fq.args[0])
}

func TestCourseNameProbeScopedToDepartment(t *testing.T) {
	fq := &fakeQuerier{rows: []scriptedRow{{vals: []any{true}}}}
	repo := NewCourseRepository(fq)

	excludeID := int64(9)
	taken, err := repo.IsNameTakenInDepartment(context.Background(), 2, "Algorithms", &excludeID)
	require.NoError(t, err)
	assert.True(t, taken)

	assert.Equal(t,
		"SELECT EXISTS(SELECT 1 FROM courses WHERE "+
			"(department_id = $1 AND LOWER(name) = LOWER($2) AND id <> $3))",
		fq.lastQuery())
	assert.Equal(t, []any{int64(2), "Algorithms", int64(9)}, fq.args[0])
}

func TestMigrateQuestionsSingleStatement(t *testing.T) {
	fq := &fakeQuerier{execTags: []pgconn.CommandTag{pgconn.NewCommandTag("UPDATE 3")}}
	repo := NewDepartmentRepository(fq)

	moved, err := repo.MigrateQuestions(context.Background(), 5, 8)
	require.NoError(t, err)
	assert.Equal(t, int64(3), moved)

	// One UPDATE moves the references and reports the count; there is
	// no separate count query to race against.
	require.Len(t, fq.queries, 1)
	assert.Equal(t, "UPDATE questions SET department_id = $1 WHERE department_id = $2", fq.queries[0])
	assert.Equal(t, []any{int64(8), int64(5)}, fq.args[0])
}

func TestMigrateQuestionsWithNothingToMoveReturnsZero(t *testing.T) {
	fq := &fakeQuerier{execTags: []pgconn.CommandTag{pgconn.NewCommandTag("UPDATE 0")}}
	repo := NewSemesterRepository(fq)

	moved, err := repo.MigrateQuestions(context.Background(), 5, 8)
	require.NoError(t, err)
	assert.Zero(t, moved)
}
