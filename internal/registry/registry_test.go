package registry

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	t.Run("ensure returns a single value", func(t *testing.T) {
		r := New[*int]()
		var created atomic.Int32
		create := func() *int {
			created.Add(1)
			v := 1
			return &v
		}

		var wg sync.WaitGroup
		results := make([]*int, 16)
		for i := range results {
			wg.Add(1)
			go func() {
				defer wg.Done()
				results[i], _ = r.Ensure("a", create)
			}()
		}
		wg.Wait()

		for _, v := range results {
			assert.Same(t, results[0], v)
		}
		assert.Equal(t, 1, r.Len())
	})

	t.Run("get and remove", func(t *testing.T) {
		r := New[string]()
		_, ok := r.Get("missing")
		assert.False(t, ok)

		v, existed := r.Ensure("k", func() string { return "v" })
		assert.False(t, existed)
		assert.Equal(t, "v", v)

		v, ok = r.Get("k")
		require.True(t, ok)
		assert.Equal(t, "v", v)

		r.Remove("k")
		_, ok = r.Get("k")
		assert.False(t, ok)
	})

	t.Run("range", func(t *testing.T) {
		r := New[int]()
		r.Ensure("a", func() int { return 1 })
		r.Ensure("b", func() int { return 2 })

		sum := 0
		r.Range(func(_ string, v int) bool {
			sum += v
			return true
		})
		assert.Equal(t, 3, sum)
	})
}
