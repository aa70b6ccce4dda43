// Package sqlfilter builds WHERE clauses from optional, typed predicates.
//
// Callers accumulate predicates for the filters that are actually present
// on a request and skip the absent ones; the builder compiles whatever is
// left into a single conjunctive squirrel.Sqlizer. No SQL fragments are
// ever concatenated as strings.
package sqlfilter

import (
	"strings"

	"github.com/Masterminds/squirrel"
)

// Builder accumulates predicates and compiles them into one conjunction.
// The zero value is ready to use; an empty builder compiles to no filter.
type Builder struct {
	conds squirrel.And
}

// New returns an empty Builder.
func New() *Builder {
	return &Builder{}
}

// Eq adds "column = value".
func (b *Builder) Eq(column string, value interface{}) *Builder {
	b.conds = append(b.conds, squirrel.Eq{column: value})
	return b
}

// EqInt64 adds "column = value" when value is non-nil.
func (b *Builder) EqInt64(column string, value *int64) *Builder {
	if value != nil {
		b.conds = append(b.conds, squirrel.Eq{column: *value})
	}
	return b
}

// EqString adds "column = value" when value is non-empty.
func (b *Builder) EqString(column, value string) *Builder {
	if value != "" {
		b.conds = append(b.conds, squirrel.Eq{column: value})
	}
	return b
}

// Contains adds a case-insensitive substring match on one column. The
// needle is trimmed before wrapping in wildcards; an empty needle adds
// nothing.
func (b *Builder) Contains(column, needle string) *Builder {
	needle = strings.TrimSpace(needle)
	if needle != "" {
		b.conds = append(b.conds, squirrel.ILike{column: "%" + needle + "%"})
	}
	return b
}

// AnyContains adds a disjunction of case-insensitive substring matches
// across several columns, for search-box style filters. The OR group is
// AND-ed with every other predicate on the builder.
func (b *Builder) AnyContains(columns []string, needle string) *Builder {
	needle = strings.TrimSpace(needle)
	if needle == "" || len(columns) == 0 {
		return b
	}

	or := make(squirrel.Or, 0, len(columns))
	for _, col := range columns {
		or = append(or, squirrel.ILike{col: "%" + needle + "%"})
	}
	b.conds = append(b.conds, or)
	return b
}

// Where adds an arbitrary prebuilt condition.
func (b *Builder) Where(cond squirrel.Sqlizer) *Builder {
	b.conds = append(b.conds, cond)
	return b
}

// Empty reports whether no predicate has been added.
func (b *Builder) Empty() bool {
	return len(b.conds) == 0
}

// Build compiles the accumulated predicates into a single Sqlizer, or nil
// when the builder is empty (no filtering).
func (b *Builder) Build() squirrel.Sqlizer {
	if len(b.conds) == 0 {
		return nil
	}
	return b.conds
}

// Apply attaches the compiled condition to a select builder, returning it
// unchanged when no predicate is present.
func (b *Builder) Apply(sb squirrel.SelectBuilder) squirrel.SelectBuilder {
	if cond := b.Build(); cond != nil {
		return sb.Where(cond)
	}
	return sb
}
