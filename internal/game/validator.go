package game

import "bingo_webapp/internal/domain"

// IsWinningCard checks the card numbers against the draw using the named pattern.
// A cell counts when it is the free cell or its number has been drawn.
func (c *Catalog) IsWinningCard(numbers []int, drawn []int, pattern string) (bool, error) {
	p, err := c.Lookup(pattern)
	if err != nil {
		return false, err
	}

	drawnSet := make(map[int]struct{}, len(drawn))
	for _, n := range drawn {
		drawnSet[n] = struct{}{}
	}

	return matchAny(p, func(idx int) bool {
		if idx == domain.FreeCellIndex {
			return true
		}
		if idx >= len(numbers) {
			return false
		}
		_, ok := drawnSet[numbers[idx]]
		return ok
	}), nil
}

// IsWinningByMarks checks marked cell indices against the named pattern.
// The free cell is satisfied even when it is missing from marked.
func (c *Catalog) IsWinningByMarks(marked []int, pattern string) (bool, error) {
	p, err := c.Lookup(pattern)
	if err != nil {
		return false, err
	}

	markedSet := make(map[int]struct{}, len(marked))
	for _, idx := range marked {
		markedSet[idx] = struct{}{}
	}

	return matchAny(p, func(idx int) bool {
		if idx == domain.FreeCellIndex {
			return true
		}
		_, ok := markedSet[idx]
		return ok
	}), nil
}

func matchAny(p *Pattern, satisfied func(idx int) bool) bool {
	for _, shape := range p.shapes() {
		complete := true
		for _, idx := range shape {
			if !satisfied(idx) {
				complete = false
				break
			}
		}
		if complete {
			return true
		}
	}
	return false
}

// IsWinningCard validates against the default catalog.
func IsWinningCard(numbers []int, drawn []int, pattern string) (bool, error) {
	return defaultCatalog.IsWinningCard(numbers, drawn, pattern)
}

// IsWinningByMarks validates against the default catalog.
func IsWinningByMarks(marked []int, pattern string) (bool, error) {
	return defaultCatalog.IsWinningByMarks(marked, pattern)
}
