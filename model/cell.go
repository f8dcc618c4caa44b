package model

import (
	"fmt"

	"github.com/sheikhrachel/go-gol3d/rules"
)

// DeadHealth is the only health value a dead cell ever holds
const DeadHealth = -1

// aliveColor highlights fully alive cells
var aliveColor = [3]float32{0.9, 0, 0}

/*
Cell is one lattice point of the grid.

Health partitions cells into three states:
  - alive:  Health == maxHealth
  - dying:  0 <= Health < maxHealth, visible and decaying
  - dead:   Health == DeadHealth, not drawn
*/
type Cell struct {
	Position  [3]float32
	Health    int
	Neighbors int
}

// Alive reports whether the cell counts toward its neighbors
func (c Cell) Alive(maxHealth int) bool {
	return c.Health == maxHealth
}

// Dying reports whether the cell is decaying toward death
func (c Cell) Dying(maxHealth int) bool {
	return c.Health >= 0 && c.Health < maxHealth
}

// Visible reports whether the cell is drawn
func (c Cell) Visible() bool {
	return c.Health >= 0
}

// Color returns the highlight color for alive cells, and for everything else
// a gray that fades as health drops
func (c Cell) Color(maxHealth int) [3]float32 {
	if c.Alive(maxHealth) {
		return aliveColor
	}
	intensity := (1 + float32(c.Health)) / (float32(maxHealth) + 2)
	return [3]float32{intensity, intensity, intensity}
}

// Sync replaces the cell's health with its next-tick value
func (c *Cell) Sync(rt rules.RuleTable, maxHealth int) {
	c.Health = NextHealth(c.Health, maxHealth, c.Neighbors, rt)
}

/*
NextHealth applies the transition rule to a single cell.

	alive: stays alive if the rule table says it survives, otherwise starts dying
	dead:  comes alive if the rule table says it spawns, otherwise stays dead
	dying: loses one health per tick whatever its neighborhood looks like
*/
func NextHealth(health, maxHealth, neighbors int, rt rules.RuleTable) int {
	switch {
	case health == maxHealth:
		if rt.Survives(neighbors) {
			return maxHealth
		}
		return maxHealth - 1
	case health < 0:
		if rt.Spawns(neighbors) {
			return maxHealth
		}
		return DeadHealth
	case health < maxHealth:
		return health - 1
	default:
		panic(fmt.Sprintf("model: health %d above max %d", health, maxHealth))
	}
}
