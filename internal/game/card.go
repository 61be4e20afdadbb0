package game

import (
	"math/rand/v2"
	"slices"

	"bingo_webapp/internal/domain"
)

const (
	columns       = 5
	numbersPerCol = 15
)

// ColumnRange returns the inclusive number range for column col (0 = B ... 4 = O).
func ColumnRange(col int) (lo, hi int) {
	lo = col*numbersPerCol + 1
	return lo, lo + numbersPerCol - 1
}

// GenerateNumbers builds a card's 25 numbers column by column: five distinct
// numbers from [1,15] for B, [16,30] for I and so on. The number stored at the
// free cell is never required for a win.
func GenerateNumbers() []int {
	out := make([]int, 0, domain.CardSize)
	for col := 0; col < columns; col++ {
		lo, _ := ColumnRange(col)
		perm := rand.Perm(numbersPerCol)
		for _, off := range perm[:columns] {
			out = append(out, lo+off)
		}
	}
	return out
}

// InitialMarks is the marked set of a fresh card.
func InitialMarks() []int {
	return []int{domain.FreeCellIndex}
}

// ValidCell reports whether idx addresses a card cell.
func ValidCell(idx int) bool {
	return idx >= 0 && idx < domain.CardSize
}

// CanMark reports whether the cell may be marked given the draw.
func CanMark(numbers []int, drawn []int, idx int) bool {
	if idx == domain.FreeCellIndex {
		return true
	}
	if !ValidCell(idx) || idx >= len(numbers) {
		return false
	}
	return slices.Contains(drawn, numbers[idx])
}

// Mark returns marked with idx added (sorted, deduplicated) when CanMark allows it.
// The second result is false when nothing changed.
func Mark(marked []int, numbers []int, drawn []int, idx int) ([]int, bool) {
	if !CanMark(numbers, drawn, idx) || slices.Contains(marked, idx) {
		return marked, false
	}
	out := append(append([]int(nil), marked...), idx)
	slices.Sort(out)
	return out, true
}

// Unmark removes idx from marked. The free cell stays marked.
func Unmark(marked []int, idx int) ([]int, bool) {
	if idx == domain.FreeCellIndex || !slices.Contains(marked, idx) {
		return marked, false
	}
	out := make([]int, 0, len(marked))
	for _, m := range marked {
		if m != idx {
			out = append(out, m)
		}
	}
	return out, true
}

// FilterMarks keeps only indices that may be marked against the draw and
// always includes the free cell. Callers validate the index range first.
func FilterMarks(marked []int, numbers []int, drawn []int) []int {
	seen := map[int]bool{domain.FreeCellIndex: true}
	out := []int{domain.FreeCellIndex}
	for _, idx := range marked {
		if seen[idx] || !CanMark(numbers, drawn, idx) {
			continue
		}
		seen[idx] = true
		out = append(out, idx)
	}
	slices.Sort(out)
	return out
}
