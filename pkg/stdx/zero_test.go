package stdx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZero(t *testing.T) {
	t.Run("numeric types", func(t *testing.T) {
		assert.Equal(t, 0, Zero[int]())
		assert.Equal(t, float64(0), Zero[float64]())
	})

	t.Run("string", func(t *testing.T) {
		assert.Equal(t, "", Zero[string]())
	})

	t.Run("pointer", func(t *testing.T) {
		assert.Nil(t, Zero[*int]())
	})

	t.Run("error", func(t *testing.T) {
		assert.Nil(t, Zero[error]())
	})
}

func TestComparable(t *testing.T) {
	assert.True(t, Comparable(nil))
	assert.True(t, Comparable(1))
	assert.True(t, Comparable(&struct{}{}))
	assert.False(t, Comparable([]int{1}))
	assert.False(t, Comparable(map[string]int{}))
}

func TestSameIdentity(t *testing.T) {
	p := &struct{ n int }{1}
	q := &struct{ n int }{1}

	assert.True(t, SameIdentity(p, p))
	assert.False(t, SameIdentity(p, q))
	assert.True(t, SameIdentity("a", "a"))
	assert.False(t, SameIdentity([]int{1}, []int{1}))
	assert.False(t, SameIdentity(nil, p))
}
