package domain

import (
	"time"

	"github.com/google/uuid"
)

// FaceProfile is the stored face record for a user. The embedding is
// append-once: written on first successful verification and never
// overwritten afterwards.
type FaceProfile struct {
	UserID    uuid.UUID `json:"user_id"`
	Embedding Embedding `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// Verification is one audited verification attempt.
type Verification struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	Decision   Decision  `json:"decision"`
	Distance   float64   `json:"distance"`
	Registered bool      `json:"registered"`
	LatencyMs  int64     `json:"latency_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

// Student is the profile record shown on the dashboard and profile views.
type Student struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Dept      string    `json:"dept"`
	Batch     string    `json:"batch"`
	RegNo     string    `json:"reg_no"`
	CreatedAt time.Time `json:"created_at"`
}

// PeriodCount is the number of timetable periods in a school day.
const PeriodCount = 6

// AttendanceDay holds per-period presence for one user on one date.
// Status values follow the scanner's convention: "present" or "absent".
type AttendanceDay struct {
	UserID  uuid.UUID           `json:"user_id"`
	Day     time.Time           `json:"day"`
	Periods [PeriodCount]string `json:"periods"`
}

// AttendanceSummary aggregates presence over a date range for reports.
type AttendanceSummary struct {
	Present int `json:"present"`
	Total   int `json:"total"`
}

// Percentage returns attendance as a percentage, 0 when nothing recorded.
func (s AttendanceSummary) Percentage() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Present) / float64(s.Total) * 100
}
