package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextNumber_UsesStaged(t *testing.T) {
	staged := 42
	n, used, err := NextNumber([]int{1, 2}, &staged, nil)
	require.NoError(t, err)
	assert.True(t, used)
	assert.Equal(t, 42, n)
}

func TestNextNumber_IgnoresStaleStaged(t *testing.T) {
	staged := 2
	n, used, err := NextNumber([]int{1, 2}, &staged, func(int) int { return 0 })
	require.NoError(t, err)
	assert.False(t, used)
	assert.Equal(t, 3, n)
}

func TestNextNumber_PicksFromComplement(t *testing.T) {
	drawn := make([]int, 0, 74)
	for i := 1; i <= 75; i++ {
		if i != 37 {
			drawn = append(drawn, i)
		}
	}
	var poolSize int
	n, _, err := NextNumber(drawn, nil, func(size int) int {
		poolSize = size
		return size - 1
	})
	require.NoError(t, err)
	assert.Equal(t, 37, n)
	assert.Equal(t, 1, poolSize)
}

func TestNextNumber_Exhausted(t *testing.T) {
	drawn := make([]int, 75)
	for i := range drawn {
		drawn[i] = i + 1
	}
	_, _, err := NextNumber(drawn, nil, nil)
	assert.ErrorIs(t, err, ErrDrawExhausted)
}

func TestNextNumber_NeverRepeats(t *testing.T) {
	var drawn []int
	seen := make(map[int]bool)
	for i := 0; i < 75; i++ {
		n, _, err := NextNumber(drawn, nil, nil)
		require.NoError(t, err)
		require.True(t, ValidNumber(n))
		require.False(t, seen[n], "duplicate %d", n)
		seen[n] = true
		drawn = append(drawn, n)
	}
	_, _, err := NextNumber(drawn, nil, nil)
	assert.ErrorIs(t, err, ErrDrawExhausted)
}
