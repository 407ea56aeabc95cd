package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mkagd/technik-sub005/internal/domain"
)

// SQLite-backed implementation of the TechnicianRepository port.
type SqliteTechnicianRepository struct{ DB *sql.DB }

func NewSqliteTechnicianRepository(db *sql.DB) *SqliteTechnicianRepository {
	return &SqliteTechnicianRepository{DB: db}
}

// ListOnDuty returns all technicians available for assignment today.
func (s *SqliteTechnicianRepository) ListOnDuty(ctx context.Context) ([]domain.Technician, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite technician repository: DB is nil")
	}

	q := `
	SELECT
		technician_id,
		name,
		skills,
		lat,
		lng,
		address,
		assigned,
		completed,
		remaining,
		completion_rate,
		on_time_rate,
		avg_rating,
		shift_start_min,
		shift_end_min
	FROM technicians
	WHERE on_duty = 1
	ORDER BY technician_id;
	`

	rows, err := s.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list technicians: query technicians table: %w", err)
	}
	defer rows.Close()

	roster := make([]domain.Technician, 0, 16)
	for rows.Next() {
		var (
			t          domain.Technician
			skillsJSON string
			lat, lng   sql.NullFloat64
			address    sql.NullString
		)

		err := rows.Scan(
			&t.ID,
			&t.Name,
			&skillsJSON,
			&lat,
			&lng,
			&address,
			&t.Workload.Assigned,
			&t.Workload.Completed,
			&t.Workload.Remaining,
			&t.Performance.CompletionRate,
			&t.Performance.OnTimeRate,
			&t.Performance.AverageRating,
			&t.WorkingHours.StartMin,
			&t.WorkingHours.EndMin,
		)
		if err != nil {
			return nil, fmt.Errorf("list technicians: scan row: %w", err)
		}

		if err := json.Unmarshal([]byte(skillsJSON), &t.Skills); err != nil {
			return nil, fmt.Errorf("list technicians: technician %q: parse skills: %w", t.ID, err)
		}

		t.Location = locationFromColumns(lat, lng, address)
		roster = append(roster, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list technicians: row iteration: %w", err)
	}

	return roster, nil
}
