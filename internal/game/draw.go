package game

import (
	"errors"
	"math/rand/v2"

	"bingo_webapp/internal/domain"
)

var ErrDrawExhausted = errors.New("all numbers have been called")

// NextNumber picks the next draw. A staged number that has not been drawn yet
// wins; otherwise the number is chosen uniformly from the undrawn remainder.
// intn defaults to math/rand/v2.IntN when nil.
func NextNumber(drawn []int, staged *int, intn func(int) int) (n int, usedStaged bool, err error) {
	if len(drawn) >= domain.MaxNumber {
		return 0, false, ErrDrawExhausted
	}

	var called [domain.MaxNumber + 1]bool
	for _, d := range drawn {
		if d >= 1 && d <= domain.MaxNumber {
			called[d] = true
		}
	}

	if staged != nil && *staged >= 1 && *staged <= domain.MaxNumber && !called[*staged] {
		return *staged, true, nil
	}

	pool := make([]int, 0, domain.MaxNumber-len(drawn))
	for i := 1; i <= domain.MaxNumber; i++ {
		if !called[i] {
			pool = append(pool, i)
		}
	}
	if len(pool) == 0 {
		return 0, false, ErrDrawExhausted
	}

	if intn == nil {
		intn = rand.IntN
	}
	return pool[intn(len(pool))], false, nil
}

// ValidNumber reports whether n can appear in a draw.
func ValidNumber(n int) bool {
	return n >= 1 && n <= domain.MaxNumber
}
