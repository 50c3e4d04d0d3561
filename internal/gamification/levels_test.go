package gamification

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelForTotalDefaultTable(t *testing.T) {
	cases := []struct {
		total int
		level int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{249, 2},
		{250, 3},
		{500, 4},
		{14999, 10},
		{15000, 11},
		{1_000_000, 11}, // terminal tier, never grows
	}

	for _, tc := range cases {
		assert.Equal(t, tc.level, LevelForTotal(tc.total), "total=%d", tc.total)
	}
}

func TestLevelForTotalMonotonic(t *testing.T) {
	previous := 0
	for total := 0; total <= 20_000; total += 7 {
		level := LevelForTotal(total)
		assert.GreaterOrEqual(t, level, previous, "total=%d", total)
		previous = level
	}
}

func TestNextThreshold(t *testing.T) {
	table := LevelTable{100, 250}

	assert.Equal(t, 100, table.NextThreshold(1))
	assert.Equal(t, 250, table.NextThreshold(2))
	// At and beyond the terminal level the final threshold is reported as
	// an already-reached ceiling.
	assert.Equal(t, 250, table.NextThreshold(3))
	assert.Equal(t, 250, table.NextThreshold(99))

	assert.Equal(t, 3, table.MaxLevel())
	assert.Equal(t, 0, LevelTable{}.NextThreshold(1))
}

func TestLevelForCustomTable(t *testing.T) {
	table := LevelTable{100, 250}

	assert.Equal(t, 1, table.LevelFor(99))
	assert.Equal(t, 2, table.LevelFor(100))
	assert.Equal(t, 2, table.LevelFor(120))
	assert.Equal(t, 3, table.LevelFor(250))
	assert.Equal(t, 3, table.LevelFor(9999))
}
