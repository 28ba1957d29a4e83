package locks_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"haulboard/internal/pkg/locks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitGuard_TryAcquire(t *testing.T) {
	t.Run("should acquire a free id", func(t *testing.T) {
		g := locks.NewSubmitGuard()

		assert.True(t, g.TryAcquire("job-1"))
	})

	t.Run("should reject a second acquire for the same id", func(t *testing.T) {
		g := locks.NewSubmitGuard()
		require.True(t, g.TryAcquire("job-1"))

		assert.False(t, g.TryAcquire("job-1"))
	})

	t.Run("should track ids independently", func(t *testing.T) {
		g := locks.NewSubmitGuard()
		require.True(t, g.TryAcquire("job-1"))

		assert.True(t, g.TryAcquire("job-2"))
	})
}

func TestSubmitGuard_Release(t *testing.T) {
	t.Run("should allow re-acquire after release", func(t *testing.T) {
		g := locks.NewSubmitGuard()
		require.True(t, g.TryAcquire("job-1"))

		g.Release("job-1")

		assert.True(t, g.TryAcquire("job-1"))
	})

	t.Run("should tolerate releasing an id that is not held", func(t *testing.T) {
		g := locks.NewSubmitGuard()

		g.Release("job-1")

		assert.True(t, g.TryAcquire("job-1"))
	})
}

func TestSubmitGuard_Concurrency(t *testing.T) {
	t.Run("should grant exactly one of many concurrent acquires", func(t *testing.T) {
		g := locks.NewSubmitGuard()

		var wins atomic.Int32
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if g.TryAcquire("job-1") {
					wins.Add(1)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(1), wins.Load())
	})
}
