package sqlfilter

import (
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64p(v int64) *int64 { return &v }

func TestBuilderEmpty(t *testing.T) {
	b := New()
	assert.True(t, b.Empty())
	assert.Nil(t, b.Build())

	// Nil-valued optional predicates add nothing.
	b.EqInt64("department_id", nil).EqString("status", "").Contains("name", "   ")
	assert.True(t, b.Empty())
}

func TestBuilderConjunction(t *testing.T) {
	b := New().
		EqInt64("department_id", int64p(3)).
		EqString("status", "published").
		Contains("name", " algo ")

	cond := b.Build()
	require.NotNil(t, cond)

	sql, args, err := cond.ToSql()
	require.NoError(t, err)
	assert.Equal(t, "(department_id = ? AND status = ? AND name ILIKE ?)", sql)
	assert.Equal(t, []interface{}{int64(3), "published", "%algo%"}, args)
}

func TestBuilderAnyContains(t *testing.T) {
	cond := New().
		AnyContains([]string{"d.name", "c.name"}, "math").
		EqString("q.status", "published").
		Build()
	require.NotNil(t, cond)

	sql, args, err := cond.ToSql()
	require.NoError(t, err)
	assert.Equal(t, "((d.name ILIKE ? OR c.name ILIKE ?) AND q.status = ?)", sql)
	assert.Equal(t, []interface{}{"%math%", "%math%", "published"}, args)
}

func TestBuilderAnyContainsBlankNeedle(t *testing.T) {
	b := New().AnyContains([]string{"d.name"}, "  ")
	assert.True(t, b.Empty())
}

func TestBuilderApply(t *testing.T) {
	sb := squirrel.Select("id").From("questions").PlaceholderFormat(squirrel.Dollar)

	// Empty builder leaves the select untouched.
	sql, _, err := New().Apply(sb).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM questions", sql)

	sql, args, err := New().Eq("status", "published").Apply(sb).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM questions WHERE (status = $1)", sql)
	assert.Equal(t, []interface{}{"published"}, args)
}

func TestBuilderWhereArbitraryCondition(t *testing.T) {
	cond := New().
		Where(squirrel.NotEq{"id": 7}).
		EqString("status", "rejected").
		Build()
	require.NotNil(t, cond)

	sql, args, err := cond.ToSql()
	require.NoError(t, err)
	assert.Equal(t, "(id <> ? AND status = ?)", sql)
	assert.Equal(t, []interface{}{7, "rejected"}, args)
}
