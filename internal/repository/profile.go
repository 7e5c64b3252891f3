package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"github.com/insighted-labs/presence/internal/domain"
)

type ProfileRepository struct {
	pool PgxPool
}

func NewProfileRepository(pool PgxPool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

// GetEmbedding returns the stored embedding for a user.
func (r *ProfileRepository) GetEmbedding(ctx context.Context, userID uuid.UUID) (domain.Embedding, error) {
	query := `
		SELECT embedding
		FROM face_profiles
		WHERE user_id = $1
	`

	var vec pgvector.Vector
	err := r.pool.QueryRow(ctx, query, userID).Scan(&vec)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get embedding: %w", err)
	}

	floats := vec.Slice()
	embedding := make(domain.Embedding, len(floats))
	for i, v := range floats {
		embedding[i] = float64(v)
	}

	return embedding, nil
}

// RegisterEmbedding stores a user's embedding once. Profiles are
// append-once: a conditional insert makes concurrent first-time
// registrations first-writer-wins, and a profile is never overwritten.
func (r *ProfileRepository) RegisterEmbedding(ctx context.Context, userID uuid.UUID, embedding domain.Embedding) error {
	query := `
		INSERT INTO face_profiles (user_id, embedding, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO NOTHING
	`

	floats := make([]float32, len(embedding))
	for i, v := range embedding {
		floats[i] = float32(v)
	}

	result, err := r.pool.Exec(ctx, query, userID, pgvector.NewVector(floats))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrProfileExists
		}
		return fmt.Errorf("register embedding: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrProfileExists
	}

	return nil
}

var _ ProfileRepositoryInterface = (*ProfileRepository)(nil)
