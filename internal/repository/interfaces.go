package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/insighted-labs/presence/internal/domain"
)

// ProfileRepositoryInterface defines operations on stored face profiles
type ProfileRepositoryInterface interface {
	GetEmbedding(ctx context.Context, userID uuid.UUID) (domain.Embedding, error)
	RegisterEmbedding(ctx context.Context, userID uuid.UUID, embedding domain.Embedding) error
}

// VerificationRepositoryInterface defines operations for verification audit logging
type VerificationRepositoryInterface interface {
	Create(ctx context.Context, v *domain.Verification) error
}

// StudentRepositoryInterface defines operations on student records
type StudentRepositoryInterface interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Student, error)
}

// AttendanceRepositoryInterface defines operations on attendance records
type AttendanceRepositoryInterface interface {
	SetPeriodStatus(ctx context.Context, userID uuid.UUID, day time.Time, period int, status string) error
	GetDay(ctx context.Context, userID uuid.UUID, day time.Time) (*domain.AttendanceDay, error)
	Summary(ctx context.Context, userID uuid.UUID, from, to time.Time) (domain.AttendanceSummary, error)
}
