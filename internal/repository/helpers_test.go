package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
		{
			name: "typed pg error with unique violation code",
			err:  &pgconn.PgError{Code: "23505", ConstraintName: "face_profiles_pkey"},
			want: true,
		},
		{
			name: "wrapped typed pg error",
			err:  fmt.Errorf("insert profile: %w", &pgconn.PgError{Code: "23505"}),
			want: true,
		},
		{
			name: "typed pg error with other code",
			err:  &pgconn.PgError{Code: "23503"},
			want: false,
		},
		{
			name: "flattened message with sqlstate",
			err:  errors.New(`duplicate key value violates unique constraint "face_profiles_pkey" (SQLSTATE 23505)`),
			want: true,
		},
		{
			name: "unrelated error",
			err:  errors.New("connection refused"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isUniqueViolation(tt.err))
		})
	}
}
