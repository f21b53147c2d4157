package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/lib/pq"

	"smartcampus/internal/db"
	"smartcampus/internal/entities"
)

const schema = `
CREATE TABLE IF NOT EXISTS zone_occupancy_history (
	id          BIGSERIAL PRIMARY KEY,
	zone_id     TEXT        NOT NULL,
	total       INTEGER     NOT NULL,
	occupied    INTEGER     NOT NULL,
	free        INTEGER     NOT NULL,
	status      TEXT        NOT NULL,
	observed_at TIMESTAMPTZ NOT NULL,
	fetched_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS zone_occupancy_history_zone_time
	ON zone_occupancy_history (zone_id, observed_at DESC);
`

type OccupancyRepository struct {
	DB *sql.DB
}

func NewOccupancyRepository(db *sql.DB) *OccupancyRepository {
	return &OccupancyRepository{DB: db}
}

func (r *OccupancyRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.DB.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("error creating occupancy history schema: %w", err)
	}
	return nil
}

// SaveSnapshot appends one history row per zone using COPY.
func (r *OccupancyRepository) SaveSnapshot(ctx context.Context, zones []entities.ZoneOccupancy, fetchedAt time.Time) error {
	if len(zones) == 0 {
		return nil
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting history transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("zone_occupancy_history",
		"zone_id", "total", "occupied", "free", "status", "observed_at", "fetched_at"))
	if err != nil {
		return fmt.Errorf("error preparing history copy: %w", err)
	}
	for _, z := range zones {
		if _, err := stmt.ExecContext(ctx, z.ZoneID, z.Total, z.Occupied, z.Free, string(z.Status), z.Timestamp, fetchedAt); err != nil {
			stmt.Close()
			return fmt.Errorf("error copying history row for zone %s: %w", z.ZoneID, err)
		}
	}
	if _, err := stmt.ExecContext(ctx); err != nil {
		stmt.Close()
		return fmt.Errorf("error flushing history copy: %w", err)
	}
	if err := stmt.Close(); err != nil {
		return fmt.Errorf("error closing history copy: %w", err)
	}
	return tx.Commit()
}

// ListHistory returns rows for the given zones observed at or after since,
// newest first.
func (r *OccupancyRepository) ListHistory(ctx context.Context, zoneIDs []string, since time.Time, limit int) ([]db.ZoneOccupancyRow, error) {
	if len(zoneIDs) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = 500
	}
	query := `
	SELECT id, zone_id, total, occupied, free, status, observed_at, fetched_at
	FROM zone_occupancy_history
	WHERE zone_id = ANY($1) AND observed_at >= $2
	ORDER BY observed_at DESC
	LIMIT $3`
	rows, err := r.DB.QueryContext(ctx, query, pq.Array(zoneIDs), since, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying occupancy history: %w", err)
	}
	defer rows.Close()

	var out []db.ZoneOccupancyRow
	for rows.Next() {
		var row db.ZoneOccupancyRow
		if err := rows.Scan(&row.ID, &row.ZoneID, &row.Total, &row.Occupied, &row.Free, &row.Status, &row.ObservedAt, &row.FetchedAt); err != nil {
			return nil, fmt.Errorf("error scanning occupancy history row: %w", err)
		}
		row.ObservedAt = row.ObservedAt.UTC()
		row.FetchedAt = row.FetchedAt.UTC()
		out = append(out, row)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating history rows: %w", err)
	}
	return out, nil
}

// DeleteOlderThan prunes history rows fetched before the given time.
func (r *OccupancyRepository) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM zone_occupancy_history WHERE fetched_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("error pruning occupancy history: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		log.Printf("Could not get rows affected: %v", err)
		return 0, nil
	}
	return n, nil
}
