package broadcast

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceUUID_DeterministicAndValid(t *testing.T) {
	userID := uuid.MustParse("a2f1c7de-0d3b-4f6a-9b77-1f20c58d21aa")

	first := ServiceUUID(userID)
	second := ServiceUUID(userID)

	assert.Equal(t, first, second)
	assert.Equal(t, uuid.Version(3), first.Version())
	assert.Equal(t, uuid.RFC4122, first.Variant())
}

func TestServiceUUID_DistinctUsersGetDistinctIDs(t *testing.T) {
	a := ServiceUUID(uuid.New())
	b := ServiceUUID(uuid.New())
	assert.NotEqual(t, a, b)
}

func TestLogAdvertiser_StartStop(t *testing.T) {
	adv := NewLogAdvertiser(slog.Default())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, adv.Start(ctx, ServiceUUID(uuid.New())))
	assert.True(t, adv.Running())

	// double start is a no-op
	require.NoError(t, adv.Start(ctx, ServiceUUID(uuid.New())))
	assert.True(t, adv.Running())

	require.NoError(t, adv.Stop())
	assert.False(t, adv.Running())

	// double stop is a no-op
	require.NoError(t, adv.Stop())
}
