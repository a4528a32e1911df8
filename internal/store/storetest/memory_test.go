package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remotejobs-engine/internal/domain"
	"remotejobs-engine/internal/match"
	"remotejobs-engine/internal/store"
)

func TestLike(t *testing.T) {
	tests := []struct {
		value, pattern string
		want           bool
	}{
		{"Senior Backend Engineer", "%backend%engineer%", true},
		{"Engineer, Backend", "%backend%engineer%", false},
		{"C++ Developer", `%c\+\+%`, true},
		{"100% remote", `%100\%%`, true},
		{"100x remote", `%100\%%`, false},
		{"a_b", `%a\_b%`, true},
		{"axb", `%a\_b%`, false},
		{"axb", `%a_b%`, true},
		{"", "%%", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Like(tt.value, tt.pattern), "%q LIKE %q", tt.value, tt.pattern)
	}
}

func TestMemory_ListJobs(t *testing.T) {
	now := time.Now().UTC()
	m := New(
		domain.JobRecord{ID: "a", Title: "Go Engineer", Country: "Germany", CreatedAt: now.Add(-time.Hour)},
		domain.JobRecord{ID: "b", Title: "Go Developer", Country: "Canada", CreatedAt: now},
	)
	q := match.FilterQuery{LocationPattern: "%germany%"}

	res, err := m.ListJobs(context.Background(), store.ListOpts{Query: q})
	require.NoError(t, err)
	require.Len(t, res.Jobs, 1)
	assert.Equal(t, "a", res.Jobs[0].ID)

	res, err = m.ListJobs(context.Background(), store.ListOpts{Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)
	require.Len(t, res.Jobs, 1)
	assert.Equal(t, "a", res.Jobs[0].ID)
	assert.Len(t, m.ListCalls, 2)
}
