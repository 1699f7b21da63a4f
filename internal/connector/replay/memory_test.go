package replay_test

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/scaconnect/internal/connector/replay"
	"github.com/stretchr/testify/require"
)

func TestMemoryGuard(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	g := replay.NewMemoryGuard(50 * time.Millisecond)

	closed, err := g.Closed(ctx, "auth-1")
	require.NoError(t, err)
	require.False(t, closed)

	require.NoError(t, g.Close(ctx, "auth-1"))
	closed, err = g.Closed(ctx, "auth-1")
	require.NoError(t, err)
	require.True(t, closed)
	require.Equal(t, 1, g.Len())

	// other ids are unaffected
	closed, err = g.Closed(ctx, "auth-2")
	require.NoError(t, err)
	require.False(t, closed)

	require.Eventually(t, func() bool {
		closed, _ := g.Closed(ctx, "auth-1")
		return !closed
	}, time.Second, 10*time.Millisecond, "entry should expire")
}
