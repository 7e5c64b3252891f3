package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/insighted-labs/presence/internal/domain"
)

type StudentRepository struct {
	pool PgxPool
}

func NewStudentRepository(pool PgxPool) *StudentRepository {
	return &StudentRepository{pool: pool}
}

func (r *StudentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Student, error) {
	query := `
		SELECT id, name, email, dept, batch, reg_no, created_at
		FROM students
		WHERE id = $1
	`

	var s domain.Student
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&s.ID,
		&s.Name,
		&s.Email,
		&s.Dept,
		&s.Batch,
		&s.RegNo,
		&s.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrStudentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get student: %w", err)
	}

	return &s, nil
}

var _ StudentRepositoryInterface = (*StudentRepository)(nil)
