package services

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tahmid/qpaper/internal/app/repositories"
	"github.com/tahmid/qpaper/internal/db"
	"github.com/tahmid/qpaper/internal/pkg/apperrors"
)

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

// fakeQuerier records statements and answers from scripts, standing in
// for both the pool and a transaction.
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

// fakeTx satisfies pgx.Tx for the three methods repositories call.
type fakeTx struct {
	pgx.Tx
	q *fakeQuerier
}

func (t fakeTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return t.q.Exec(ctx, sql, arguments...)
}

func (t fakeTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return t.q.Query(ctx, sql, args...)
}

func (t fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return t.q.QueryRow(ctx, sql, args...)
}

type fakeTxRunner struct {
	q     *fakeQuerier
	calls int
}

func (f *fakeTxRunner) WithTransaction(ctx context.Context, fn db.TransactionFn) error {
	f.calls++
	return fn(ctx, fakeTx{q: f.q})
}

func departmentRow(id int64, name, shortName string) scriptedRow {
	now := time.Now()
	return scriptedRow{vals: []any{id, name, shortName, now, now}}
}

func TestDepartmentMergeMovesReferencesThenDeletesSource(t *testing.T) {
	fq := &fakeQuerier{
		rows: []scriptedRow{
			departmentRow(5, "Physics", "PHY"),
			departmentRow(8, "Applied Physics", "APH"),
		},
		execTags: []pgconn.CommandTag{
			pgconn.NewCommandTag("UPDATE 2"),
			pgconn.NewCommandTag("UPDATE 1"),
			pgconn.NewCommandTag("DELETE 1"),
		},
	}
	runner := &fakeTxRunner{q: fq}
	svc := NewDepartmentService(repositories.NewDepartmentRepository(fq), runner)

	resp, err := svc.Merge(context.Background(), 5, 8)
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.MigratedQuestions)
	assert.Equal(t, int64(1), resp.MigratedCourses)

	// Both migrations and the delete ran inside one transaction.
	assert.Equal(t, 1, runner.calls)
	require.Len(t, fq.queries, 5)
	assert.Equal(t, "UPDATE questions SET department_id = $1 WHERE department_id = $2", fq.queries[2])
	assert.Equal(t, "UPDATE courses SET department_id = $1 WHERE department_id = $2", fq.queries[3])
	assert.Equal(t, "DELETE FROM departments WHERE id = $1", fq.queries[4])
}

func TestDepartmentMergeWithNoReferencesMovesNothing(t *testing.T) {
	fq := &fakeQuerier{
		rows: []scriptedRow{
			departmentRow(5, "Physics", "PHY"),
			departmentRow(8, "Applied Physics", "APH"),
		},
		execTags: []pgconn.CommandTag{
			pgconn.NewCommandTag("UPDATE 0"),
			pgconn.NewCommandTag("UPDATE 0"),
			pgconn.NewCommandTag("DELETE 1"),
		},
	}
	svc := NewDepartmentService(repositories.NewDepartmentRepository(fq), &fakeTxRunner{q: fq})

	resp, err := svc.Merge(context.Background(), 5, 8)
	require.NoError(t, err)
	assert.Zero(t, resp.MigratedQuestions)
	assert.Zero(t, resp.MigratedCourses)
}

func TestDepartmentMergeIntoItselfRejected(t *testing.T) {
	fq := &fakeQuerier{}
	svc := NewDepartmentService(repositories.NewDepartmentRepository(fq), &fakeTxRunner{q: fq})

	_, err := svc.Merge(context.Background(), 5, 5)
	assert.ErrorIs(t, err, apperrors.ErrMergeIntoSameEntity)
	assert.Empty(t, fq.queries)
}

func TestDepartmentMergeMissingTargetRejected(t *testing.T) {
	fq := &fakeQuerier{
		rows: []scriptedRow{
			departmentRow(5, "Physics", "PHY"),
			{err: pgx.ErrNoRows},
		},
	}
	runner := &fakeTxRunner{q: fq}
	svc := NewDepartmentService(repositories.NewDepartmentRepository(fq), runner)

	_, err := svc.Merge(context.Background(), 5, 8)
	assert.ErrorIs(t, err, apperrors.ErrDepartmentNotFound)
	assert.Zero(t, runner.calls)
}
