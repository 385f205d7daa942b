package bench

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkload(t *testing.T) {
	t.Run("Reproducible Temperatures", func(t *testing.T) {
		a, err := workload(context.Background(), 500, 9)
		require.NoError(t, err)
		b, err := workload(context.Background(), 500, 9)
		require.NoError(t, err)

		require.Len(t, a, 500)
		assert.Equal(t, a, b, "Same seed, same samples.")
		for _, v := range a {
			assert.GreaterOrEqual(t, v, 20.0)
			assert.Less(t, v, 35.0)
		}
	})

	t.Run("Zero Seed Stays Reproducible", func(t *testing.T) {
		a, err := workload(context.Background(), 50, 0)
		require.NoError(t, err)
		b, err := workload(context.Background(), 50, 1)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("Cancelled Context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		samples, err := workload(ctx, 1_000_000, 3)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Nil(t, samples)
	})
}
