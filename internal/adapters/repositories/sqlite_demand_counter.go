package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SqliteDemandCounter derives per-bucket demand from open tasks' time
// preferences. It is the zero-infrastructure fallback for deployments
// without Redis; counts lag by whatever the task table lags.
type SqliteDemandCounter struct{ DB *sql.DB }

func NewSqliteDemandCounter(db *sql.DB) *SqliteDemandCounter {
	return &SqliteDemandCounter{DB: db}
}

// BucketCounts aggregates open tasks by preferred-time label. Tasks with
// no stated preference count toward "Any time".
func (s *SqliteDemandCounter) BucketCounts(ctx context.Context) (map[string]int, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite demand counter: DB is nil")
	}

	q := `
	SELECT COALESCE(NULLIF(preferred_time, ''), 'Any time'), COUNT(*)
	FROM tasks
	WHERE status = 'open'
	GROUP BY 1;
	`

	rows, err := s.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("bucket counts: query tasks table: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var bucket string
		var n int
		if err := rows.Scan(&bucket, &n); err != nil {
			return nil, fmt.Errorf("bucket counts: scan row: %w", err)
		}
		out[bucket] = n
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("bucket counts: row iteration: %w", err)
	}

	return out, nil
}
