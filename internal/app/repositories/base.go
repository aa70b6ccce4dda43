package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"

	"github.com/tahmid/qpaper/internal/pkg/helpers"
)

// FindOptions narrows and orders a FindMany read. Zero values mean no
// filtering, default ordering and no limit.
type FindOptions struct {
	Where   squirrel.Sqlizer
	OrderBy []string
	Limit   uint64
	Offset  uint64
}

// FieldValue pairs a column with the value checked for uniqueness.
type FieldValue struct {
	Column string
	Value  string
}

// baseRepository implements the reads and probes every entity repository
// shares. T is the entity, ID its identifier type (int64 for most tables,
// string for users). Inserts and updates stay entity-specific because the
// field sets differ; the base supplies the read-back and partial-update
// plumbing they are built from.
type baseRepository[T any, ID comparable] struct {
	db       Querier
	sb       squirrel.StatementBuilderType
	table    string
	idColumn string
	columns  []string
	scanRow  func(row pgx.Row) (*T, error)
}

func newBaseRepository[T any, ID comparable](
	db Querier,
	table, idColumn string,
	columns []string,
	scanRow func(row pgx.Row) (*T, error),
) baseRepository[T, ID] {
	return baseRepository[T, ID]{
		db:       db,
		sb:       squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		table:    table,
		idColumn: idColumn,
		columns:  columns,
		scanRow:  scanRow,
	}
}

// FindByID returns the entity, or (nil, nil) when no row matches.
func (r *baseRepository[T, ID]) FindByID(ctx context.Context, id ID) (*T, error) {
	query, args, err := r.sb.Select(r.columns...).
		From(r.table).
		Where(squirrel.Eq{r.idColumn: id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build %s select query: %w", r.table, err)
	}

	entity, err := r.scanRow(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying %s by id: %w", r.table, err)
	}

	return entity, nil
}

// FindMany returns all rows matching opts, in order. An empty result is a
// valid outcome, not an error.
func (r *baseRepository[T, ID]) FindMany(ctx context.Context, opts FindOptions) ([]T, error) {
	sb := r.sb.Select(r.columns...).From(r.table)
	if opts.Where != nil {
		sb = sb.Where(opts.Where)
	}
	if len(opts.OrderBy) > 0 {
		sb = sb.OrderBy(opts.OrderBy...)
	}
	if opts.Limit > 0 {
		sb = sb.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		sb = sb.Offset(opts.Offset)
	}

	query, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build %s list query: %w", r.table, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying %s: %w", r.table, err)
	}
	defer rows.Close()

	entities := []T{}
	for rows.Next() {
		entity, err := r.scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning %s row: %w", r.table, err)
		}
		entities = append(entities, *entity)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s rows: %w", r.table, err)
	}

	return entities, nil
}

// FindManyPaginated runs the data query and the count query concurrently;
// neither depends on the other's result. The page metadata combines the
// count with the requested page.
func (r *baseRepository[T, ID]) FindManyPaginated(ctx context.Context, page, pageSize int, where squirrel.Sqlizer, orderBy []string) ([]T, helpers.Pagination, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, pageSize)

	var (
		entities []T
		total    int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		entities, err = r.FindMany(gctx, FindOptions{
			Where:   where,
			OrderBy: orderBy,
			Limit:   uint64(limit),
			Offset:  offset,
		})
		return err
	})
	g.Go(func() error {
		var err error
		total, err = r.Count(gctx, where)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, helpers.Pagination{}, err
	}

	return entities, helpers.NewPagination(page, limit, total), nil
}

// Exists reports whether a row with the given id exists.
func (r *baseRepository[T, ID]) Exists(ctx context.Context, id ID) (bool, error) {
	return r.existsWhere(ctx, squirrel.Eq{r.idColumn: id})
}

// Count counts rows matching where (all rows when where is nil).
func (r *baseRepository[T, ID]) Count(ctx context.Context, where squirrel.Sqlizer) (int64, error) {
	sb := r.sb.Select("COUNT(*)").From(r.table)
	if where != nil {
		sb = sb.Where(where)
	}

	query, args, err := sb.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build %s count query: %w", r.table, err)
	}

	var count int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting %s: %w", r.table, err)
	}

	return count, nil
}

// DeleteByID removes the row and reports whether one was actually removed.
// A miss is false, not an error.
func (r *baseRepository[T, ID]) DeleteByID(ctx context.Context, id ID) (bool, error) {
	query, args, err := r.sb.Delete(r.table).
		Where(squirrel.Eq{r.idColumn: id}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build %s delete query: %w", r.table, err)
	}

	cmdTag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("error deleting from %s: %w", r.table, err)
	}

	return cmdTag.RowsAffected() > 0, nil
}

// IsFieldUnique reports whether no other row carries the value in the
// column, compared case-insensitively via LOWER(). excludeID, when
// non-nil, ignores one row so edits do not collide with themselves. The
// database unique index remains the authoritative guard; this is the
// pre-validation probe.
func (r *baseRepository[T, ID]) IsFieldUnique(ctx context.Context, column, value string, excludeID *ID) (bool, error) {
	return r.AreFieldsUniqueCaseInsensitive(ctx, []FieldValue{{Column: column, Value: value}}, excludeID)
}

// AreFieldsUniqueCaseInsensitive is the tuple form of IsFieldUnique: it
// reports whether no other row matches every (column, value) pair
// case-insensitively.
func (r *baseRepository[T, ID]) AreFieldsUniqueCaseInsensitive(ctx context.Context, fields []FieldValue, excludeID *ID) (bool, error) {
	cond := squirrel.And{}
	for _, fv := range fields {
		cond = append(cond, squirrel.Expr(fmt.Sprintf("LOWER(%s) = LOWER(?)", fv.Column), fv.Value))
	}
	if excludeID != nil {
		cond = append(cond, squirrel.NotEq{r.idColumn: *excludeID})
	}

	taken, err := r.existsWhere(ctx, cond)
	if err != nil {
		return false, err
	}
	return !taken, nil
}

// existsWhere runs an EXISTS probe for the condition.
func (r *baseRepository[T, ID]) existsWhere(ctx context.Context, where squirrel.Sqlizer) (bool, error) {
	inner := r.sb.Select("1").From(r.table).Where(where)

	innerSQL, args, err := inner.ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build %s exists query: %w", r.table, err)
	}

	var exists bool
	query := "SELECT EXISTS(" + innerSQL + ")"
	if err := r.db.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking %s existence: %w", r.table, err)
	}

	return exists, nil
}

// insertReturningID runs an insert built by the caller and scans the
// generated identifier. Constraint violations propagate unmodified so the
// caller can classify them.
func (r *baseRepository[T, ID]) insertReturningID(ctx context.Context, ib squirrel.InsertBuilder) (ID, error) {
	var id ID

	query, args, err := ib.Suffix("RETURNING " + r.idColumn).ToSql()
	if err != nil {
		return id, fmt.Errorf("failed to build %s insert query: %w", r.table, err)
	}

	if err := r.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return id, fmt.Errorf("error inserting into %s: %w", r.table, err)
	}

	return id, nil
}

// createAndReload inserts and re-reads the stored row. The re-read, not
// the caller's input, is what gets returned: stored defaults and
// trigger-filled columns are the canonical values.
func (r *baseRepository[T, ID]) createAndReload(ctx context.Context, ib squirrel.InsertBuilder) (*T, error) {
	id, err := r.insertReturningID(ctx, ib)
	if err != nil {
		return nil, err
	}

	entity, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, fmt.Errorf("inserted %s row vanished before read-back", r.table)
	}

	return entity, nil
}

// updateAndReload applies only the fields present in setMap and re-reads.
// Returns (nil, nil) when the id no longer exists. An empty setMap
// degenerates to a plain read. Callers stamp updated_at themselves where
// the table carries one.
func (r *baseRepository[T, ID]) updateAndReload(ctx context.Context, id ID, setMap map[string]interface{}) (*T, error) {
	if len(setMap) == 0 {
		return r.FindByID(ctx, id)
	}

	query, args, err := r.sb.Update(r.table).
		SetMap(setMap).
		Where(squirrel.Eq{r.idColumn: id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build %s update query: %w", r.table, err)
	}

	cmdTag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error updating %s: %w", r.table, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return nil, nil
	}

	return r.FindByID(ctx, id)
}
