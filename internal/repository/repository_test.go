package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insighted-labs/presence/internal/domain"
)

func testVector(dim int, fill float32) pgvector.Vector {
	floats := make([]float32, dim)
	for i := range floats {
		floats[i] = fill
	}
	return pgvector.NewVector(floats)
}

// ProfileRepository Tests

func TestProfileRepository_GetEmbedding(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name      string
		mockSetup func(mock pgxmock.PgxPoolIface)
		wantLen   int
		wantErr   error
	}{
		{
			name: "successful retrieval",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows([]string{"embedding"}).
					AddRow(testVector(domain.EmbeddingDim, 0.5))

				mock.ExpectQuery(`SELECT embedding FROM face_profiles WHERE user_id = \$1`).
					WithArgs(userID).
					WillReturnRows(rows)
			},
			wantLen: domain.EmbeddingDim,
		},
		{
			name: "profile not found",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT embedding FROM face_profiles WHERE user_id = \$1`).
					WithArgs(userID).
					WillReturnError(pgx.ErrNoRows)
			},
			wantErr: domain.ErrProfileNotFound,
		},
		{
			name: "database error",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT embedding FROM face_profiles WHERE user_id = \$1`).
					WithArgs(userID).
					WillReturnError(errors.New("connection refused"))
			},
			wantErr: errors.New("connection refused"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.mockSetup(mock)

			repo := NewProfileRepository(mock)
			got, err := repo.GetEmbedding(context.Background(), userID)

			if tt.wantErr != nil {
				require.Error(t, err)
				var appErr *domain.AppError
				if errors.As(tt.wantErr, &appErr) {
					assert.ErrorIs(t, err, tt.wantErr)
				}
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				assert.Len(t, got, tt.wantLen)
				assert.InDelta(t, 0.5, got[0], 1e-6)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestProfileRepository_RegisterEmbedding(t *testing.T) {
	userID := uuid.New()
	embedding := make(domain.Embedding, domain.EmbeddingDim)
	embedding[0] = 1

	tests := []struct {
		name      string
		mockSetup func(mock pgxmock.PgxPoolIface)
		wantErr   error
	}{
		{
			name: "first registration inserts",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO face_profiles`).
					WithArgs(userID, pgxmock.AnyArg()).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
			},
		},
		{
			name: "existing profile is never overwritten",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO face_profiles`).
					WithArgs(userID, pgxmock.AnyArg()).
					WillReturnResult(pgxmock.NewResult("INSERT", 0))
			},
			wantErr: domain.ErrProfileExists,
		},
		{
			name: "unique violation maps to profile exists",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO face_profiles`).
					WithArgs(userID, pgxmock.AnyArg()).
					WillReturnError(errors.New(`duplicate key value violates unique constraint "face_profiles_pkey" (SQLSTATE 23505)`))
			},
			wantErr: domain.ErrProfileExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.mockSetup(mock)

			repo := NewProfileRepository(mock)
			err = repo.RegisterEmbedding(context.Background(), userID, embedding)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

// VerificationRepository Tests

func TestVerificationRepository_Create(t *testing.T) {
	userID := uuid.New()
	now := time.Now()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`INSERT INTO verifications`).
		WithArgs(pgxmock.AnyArg(), userID, "verified", 0.42, false, int64(87)).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(now))

	repo := NewVerificationRepository(mock)
	v := &domain.Verification{
		UserID:    userID,
		Decision:  domain.DecisionVerified,
		Distance:  0.42,
		LatencyMs: 87,
	}

	require.NoError(t, repo.Create(context.Background(), v))
	assert.NotEqual(t, uuid.Nil, v.ID)
	assert.Equal(t, now, v.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// StudentRepository Tests

func TestStudentRepository_GetByID(t *testing.T) {
	studentID := uuid.New()
	now := time.Now()

	tests := []struct {
		name      string
		mockSetup func(mock pgxmock.PgxPoolIface)
		want      *domain.Student
		wantErr   error
	}{
		{
			name: "successful retrieval",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows([]string{
					"id", "name", "email", "dept", "batch", "reg_no", "created_at",
				}).AddRow(
					studentID, "Asha Rao", "asha@example.edu", "CSE", "2023", "CSE-2023-041", now,
				)

				mock.ExpectQuery(`SELECT id, name, email, dept, batch, reg_no, created_at FROM students WHERE id = \$1`).
					WithArgs(studentID).
					WillReturnRows(rows)
			},
			want: &domain.Student{
				ID:        studentID,
				Name:      "Asha Rao",
				Email:     "asha@example.edu",
				Dept:      "CSE",
				Batch:     "2023",
				RegNo:     "CSE-2023-041",
				CreatedAt: now,
			},
		},
		{
			name: "student not found",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT id, name, email, dept, batch, reg_no, created_at FROM students WHERE id = \$1`).
					WithArgs(studentID).
					WillReturnError(pgx.ErrNoRows)
			},
			wantErr: domain.ErrStudentNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.mockSetup(mock)

			repo := NewStudentRepository(mock)
			got, err := repo.GetByID(context.Background(), studentID)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

// AttendanceRepository Tests

func TestAttendanceRepository_SetPeriodStatus(t *testing.T) {
	userID := uuid.New()
	day := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

	t.Run("valid period upserts", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(`INSERT INTO attendance`).
			WithArgs(userID, day, 3, "present").
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		repo := NewAttendanceRepository(mock)
		require.NoError(t, repo.SetPeriodStatus(context.Background(), userID, day, 3, "present"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("period out of range", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewAttendanceRepository(mock)
		assert.Error(t, repo.SetPeriodStatus(context.Background(), userID, day, 7, "present"))
		assert.Error(t, repo.SetPeriodStatus(context.Background(), userID, day, 0, "present"))
	})
}

func TestAttendanceRepository_GetDay(t *testing.T) {
	userID := uuid.New()
	day := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

	t.Run("returns recorded periods", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		rows := pgxmock.NewRows([]string{"period", "status"}).
			AddRow(1, "present").
			AddRow(2, "present").
			AddRow(4, "absent")

		mock.ExpectQuery(`SELECT period, status FROM attendance`).
			WithArgs(userID, day).
			WillReturnRows(rows)

		repo := NewAttendanceRepository(mock)
		got, err := repo.GetDay(context.Background(), userID, day)

		require.NoError(t, err)
		assert.Equal(t, "present", got.Periods[0])
		assert.Equal(t, "present", got.Periods[1])
		assert.Empty(t, got.Periods[2])
		assert.Equal(t, "absent", got.Periods[3])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no rows means no attendance", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`SELECT period, status FROM attendance`).
			WithArgs(userID, day).
			WillReturnRows(pgxmock.NewRows([]string{"period", "status"}))

		repo := NewAttendanceRepository(mock)
		_, err = repo.GetDay(context.Background(), userID, day)

		assert.ErrorIs(t, err, domain.ErrAttendanceNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAttendanceRepository_Summary(t *testing.T) {
	userID := uuid.New()
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FILTER \(WHERE status = 'present'\), COUNT\(\*\) FROM attendance`).
		WithArgs(userID, from, to).
		WillReturnRows(pgxmock.NewRows([]string{"present", "total"}).AddRow(18, 24))

	repo := NewAttendanceRepository(mock)
	got, err := repo.Summary(context.Background(), userID, from, to)

	require.NoError(t, err)
	assert.Equal(t, domain.AttendanceSummary{Present: 18, Total: 24}, got)
	assert.InDelta(t, 75.0, got.Percentage(), 1e-9)
	assert.NoError(t, mock.ExpectationsWereMet())
}
