package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remotejobs-engine/internal/match"
)

func TestCompileWhere_Empty(t *testing.T) {
	where, args, err := compileWhere(sqliteDialect{}, nil, 1)
	require.NoError(t, err)
	assert.Empty(t, where)
	assert.Empty(t, args)
}

func TestCompileWhere_AndAcrossOrWithin(t *testing.T) {
	groups := [][]match.Condition{
		{
			{Field: match.FieldCountry, Op: match.OpILike, Value: "%usa%"},
			{Field: match.FieldCity, Op: match.OpILike, Value: "%usa%"},
		},
		{{Field: match.FieldCategory, Op: match.OpEq, Value: "Design"}},
	}

	where, args, err := compileWhere(sqliteDialect{}, groups, 1)
	require.NoError(t, err)
	assert.Equal(t, `WHERE (country LIKE ? ESCAPE '\' OR city LIKE ? ESCAPE '\') AND (lower(category) = lower(?))`, where)
	assert.Equal(t, []any{"%usa%", "%usa%", "Design"}, args)

	where, _, err = compileWhere(postgresDialect{}, groups, 1)
	require.NoError(t, err)
	assert.Equal(t, `WHERE (country ILIKE $1 OR city ILIKE $2) AND (lower(category) = lower($3))`, where)
}

func TestCompileWhere_RejectsUnknownFieldAndOp(t *testing.T) {
	_, _, err := compileWhere(sqliteDialect{}, [][]match.Condition{{{Field: "password", Op: match.OpEq, Value: "x"}}}, 1)
	assert.Error(t, err)

	_, _, err = compileWhere(sqliteDialect{}, [][]match.Condition{{{Field: match.FieldTitle, Op: "regex", Value: "x"}}}, 1)
	assert.Error(t, err)
}

func TestSortClause_Whitelist(t *testing.T) {
	assert.Equal(t, "created_at DESC, id ASC", sortClause(""))
	assert.Equal(t, "created_at DESC, id ASC", sortClause("score; DROP TABLE jobs"))
	assert.Equal(t, "title ASC, created_at DESC, id ASC", sortClause("Title"))
	assert.Equal(t, "company_name ASC, created_at DESC, id ASC", sortClause("company"))
}
