package repository

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartcampus/internal/entities"
)

// Runs against a real Postgres when TEST_DATABASE_URL is set.
func openTestRepo(t *testing.T) *OccupancyRepository {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	conn, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	repo := NewOccupancyRepository(conn)
	require.NoError(t, repo.EnsureSchema(context.Background()))
	_, err = conn.Exec(`DELETE FROM zone_occupancy_history WHERE zone_id LIKE 'test-%'`)
	require.NoError(t, err)
	return repo
}

func TestOccupancyRepository_SaveListPrune(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	old := time.Now().Add(-48 * time.Hour).UTC().Truncate(time.Second)
	recent := time.Now().UTC().Truncate(time.Second)

	require.NoError(t, repo.SaveSnapshot(ctx, []entities.ZoneOccupancy{
		{ZoneID: "test-a", Total: 10, Occupied: 9, Free: 1, Status: entities.StatusRed, Timestamp: old},
	}, old))
	require.NoError(t, repo.SaveSnapshot(ctx, []entities.ZoneOccupancy{
		{ZoneID: "test-a", Total: 10, Occupied: 4, Free: 6, Status: entities.StatusGreen, Timestamp: recent},
		{ZoneID: "test-b", Total: 20, Occupied: 15, Free: 5, Status: entities.StatusOrange, Timestamp: recent},
	}, recent))

	rows, err := repo.ListHistory(ctx, []string{"test-a"}, old.Add(-time.Minute), 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "green", rows[0].Status)
	assert.True(t, rows[0].ObservedAt.Equal(recent))

	n, err := repo.DeleteOlderThan(ctx, recent.Add(-time.Hour))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, int64(1))

	rows, err = repo.ListHistory(ctx, []string{"test-a", "test-b"}, old.Add(-time.Minute), 10)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestOccupancyRepository_EmptyInputs(t *testing.T) {
	repo := &OccupancyRepository{}
	assert.NoError(t, repo.SaveSnapshot(context.Background(), nil, time.Now()))
	rows, err := repo.ListHistory(context.Background(), nil, time.Now(), 10)
	assert.NoError(t, err)
	assert.Nil(t, rows)
}
