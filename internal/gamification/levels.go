package gamification

// LevelTable is an ordered sequence of cumulative point thresholds. Index i
// (0-based) is the total required to reach level i+2; level 1 is the floor.
type LevelTable []int

// DefaultLevelTable yields levels 1 through 11; level 11 is terminal.
var DefaultLevelTable = LevelTable{100, 250, 500, 1000, 2000, 3500, 5500, 8000, 11000, 15000}

// LevelFor maps a cumulative point total to a level. Pure:
// level = 1 + number of thresholds at or below total, capped at len(t)+1.
func (t LevelTable) LevelFor(total int) int {
	level := 1
	for _, threshold := range t {
		if total < threshold {
			break
		}
		level++
	}
	return level
}

// NextThreshold returns the cumulative total required for the next level-up.
// At or above the terminal level it returns the final threshold, an
// already-reached ceiling.
func (t LevelTable) NextThreshold(level int) int {
	if len(t) == 0 {
		return 0
	}
	if level < 1 {
		level = 1
	}
	if level > len(t) {
		return t[len(t)-1]
	}
	return t[level-1]
}

// MaxLevel is the terminal tier; totals beyond the last threshold never
// level up further.
func (t LevelTable) MaxLevel() int {
	return len(t) + 1
}

// LevelForTotal maps a cumulative point total to a level using the default
// threshold table. Exposed for display purposes.
func LevelForTotal(total int) int {
	return DefaultLevelTable.LevelFor(total)
}
