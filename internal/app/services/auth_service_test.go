package services

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tahmid/qpaper/internal/app/repositories"
)

func TestLogoutRevokesTokenAndPrunesDeadOnes(t *testing.T) {
	fq := &fakeQuerier{
		execTags: []pgconn.CommandTag{
			pgconn.NewCommandTag("UPDATE 1"),
			pgconn.NewCommandTag("DELETE 4"),
		},
	}
	svc := NewAuthService(nil, repositories.NewTokenRepository(fq), nil)

	err := svc.Logout(context.Background(), "some-refresh-token")
	require.NoError(t, err)

	require.Len(t, fq.queries, 2)
	assert.Contains(t, fq.queries[0], "SET revoked = TRUE")
	assert.Contains(t, fq.queries[1], "DELETE FROM refresh_tokens")
	assert.Contains(t, fq.queries[1], "expires_at <= $1 OR revoked")
}

func TestLogoutSucceedsWhenNothingToPrune(t *testing.T) {
	fq := &fakeQuerier{
		execTags: []pgconn.CommandTag{
			pgconn.NewCommandTag("UPDATE 0"),
			pgconn.NewCommandTag("DELETE 0"),
		},
	}
	svc := NewAuthService(nil, repositories.NewTokenRepository(fq), nil)

	// A token that is already gone is not an error.
	require.NoError(t, svc.Logout(context.Background(), "already-dead"))
}
