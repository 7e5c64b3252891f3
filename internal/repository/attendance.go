package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/insighted-labs/presence/internal/domain"
)

type AttendanceRepository struct {
	pool PgxPool
}

func NewAttendanceRepository(pool PgxPool) *AttendanceRepository {
	return &AttendanceRepository{pool: pool}
}

// SetPeriodStatus upserts the presence status for one period of one day.
func (r *AttendanceRepository) SetPeriodStatus(ctx context.Context, userID uuid.UUID, day time.Time, period int, status string) error {
	if period < 1 || period > domain.PeriodCount {
		return fmt.Errorf("period %d out of range", period)
	}

	query := `
		INSERT INTO attendance (user_id, day, period, status, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (user_id, day, period)
		DO UPDATE SET status = EXCLUDED.status, updated_at = NOW()
	`

	if _, err := r.pool.Exec(ctx, query, userID, day, period, status); err != nil {
		return fmt.Errorf("set period status: %w", err)
	}

	return nil
}

// GetDay returns the per-period statuses recorded for one date.
func (r *AttendanceRepository) GetDay(ctx context.Context, userID uuid.UUID, day time.Time) (*domain.AttendanceDay, error) {
	query := `
		SELECT period, status
		FROM attendance
		WHERE user_id = $1 AND day = $2
		ORDER BY period
	`

	rows, err := r.pool.Query(ctx, query, userID, day)
	if err != nil {
		return nil, fmt.Errorf("get attendance day: %w", err)
	}
	defer rows.Close()

	result := &domain.AttendanceDay{UserID: userID, Day: day}
	found := false

	for rows.Next() {
		var period int
		var status string
		if err := rows.Scan(&period, &status); err != nil {
			return nil, fmt.Errorf("scan attendance row: %w", err)
		}
		if period >= 1 && period <= domain.PeriodCount {
			result.Periods[period-1] = status
			found = true
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attendance rows: %w", err)
	}

	if !found {
		return nil, domain.ErrAttendanceNotFound
	}

	return result, nil
}

// Summary aggregates presence over a date range for the report view.
func (r *AttendanceRepository) Summary(ctx context.Context, userID uuid.UUID, from, to time.Time) (domain.AttendanceSummary, error) {
	query := `
		SELECT COUNT(*) FILTER (WHERE status = 'present'), COUNT(*)
		FROM attendance
		WHERE user_id = $1 AND day >= $2 AND day <= $3
	`

	var s domain.AttendanceSummary
	err := r.pool.QueryRow(ctx, query, userID, from, to).Scan(&s.Present, &s.Total)
	if err != nil {
		return domain.AttendanceSummary{}, fmt.Errorf("attendance summary: %w", err)
	}

	return s, nil
}

var _ AttendanceRepositoryInterface = (*AttendanceRepository)(nil)
