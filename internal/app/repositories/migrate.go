package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
)

// migrateQuestionRefs bulk-moves every question foreign-key reference from
// one lookup row to another in a single UPDATE, and returns the number of
// rows moved. One statement means the count and the move cannot race a
// concurrent writer; zero moved rows is a valid outcome, so calling this
// again after a migration is safe and returns 0.
func migrateQuestionRefs(ctx context.Context, db Querier, fkColumn string, fromID, toID int64) (int64, error) {
	query, args, err := squirrel.StatementBuilder.
		PlaceholderFormat(squirrel.Dollar).
		Update("questions").
		Set(fkColumn, toID).
		Where(squirrel.Eq{fkColumn: fromID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build question migration query: %w", err)
	}

	cmdTag, err := db.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("error migrating question %s references: %w", fkColumn, err)
	}

	return cmdTag.RowsAffected(), nil
}
