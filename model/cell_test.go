package model

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sheikhrachel/go-gol3d/rules"
)

func mustTable(t *testing.T, survive, spawn []int) rules.RuleTable {
	t.Helper()
	rt, err := rules.FromCounts(survive, spawn)
	if err != nil {
		t.Fatalf("FromCounts: %v", err)
	}
	return rt
}

func TestNextHealth(t *testing.T) {
	const maxHealth = 10
	rt := mustTable(t, []int{2, 6}, []int{4})

	tests := []struct {
		name      string
		health    int
		neighbors int
		want      int
	}{
		{"alive survives", maxHealth, 2, maxHealth},
		{"alive survives other count", maxHealth, 6, maxHealth},
		{"alive starts dying", maxHealth, 3, maxHealth - 1},
		{"isolated alive starts dying", maxHealth, 0, maxHealth - 1},
		{"dead spawns", DeadHealth, 4, maxHealth},
		{"dead stays dead", DeadHealth, 2, DeadHealth},
		{"dying ignores survive count", 5, 2, 4},
		{"dying ignores spawn count", 5, 4, 4},
		{"dying with no neighbors", 9, 0, 8},
		{"last dying step dies", 0, 4, DeadHealth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextHealth(tt.health, maxHealth, tt.neighbors, rt))
		})
	}
}

func TestNextHealthDyingNeverConsultsTable(t *testing.T) {
	// Every count survives and spawns, dying cells must still decay by one
	all := make([]int, rules.TableSize)
	for i := range all {
		all[i] = i
	}
	rt := mustTable(t, all, all)

	for health := 0; health < 10; health++ {
		for n := 0; n <= rules.MaxNeighbors; n++ {
			assert.Equal(t, health-1, NextHealth(health, 10, n, rt))
		}
	}
}

func TestNextHealthZeroMaxHealth(t *testing.T) {
	rt := mustTable(t, nil, []int{1})

	assert.Equal(t, DeadHealth, NextHealth(0, 0, 0, rt), "alive with max 0 dies in one step")
	assert.Equal(t, 0, NextHealth(DeadHealth, 0, 1, rt))
}

func TestNextHealthInvariantViolations(t *testing.T) {
	rt := rules.Default()
	assert.Panics(t, func() { NextHealth(11, 10, 0, rt) })
	assert.Panics(t, func() { NextHealth(10, 10, 27, rt) })
	assert.Panics(t, func() { NextHealth(DeadHealth, 10, -1, rt) })
}

func TestCellStates(t *testing.T) {
	const maxHealth = 4
	tests := []struct {
		health                int
		alive, dying, visible bool
	}{
		{maxHealth, true, false, true},
		{3, false, true, true},
		{0, false, true, true},
		{DeadHealth, false, false, false},
	}

	for _, tt := range tests {
		c := Cell{Health: tt.health}
		assert.Equal(t, tt.alive, c.Alive(maxHealth), "alive(%d)", tt.health)
		assert.Equal(t, tt.dying, c.Dying(maxHealth), "dying(%d)", tt.health)
		assert.Equal(t, tt.visible, c.Visible(), "visible(%d)", tt.health)
	}
}

func TestCellColor(t *testing.T) {
	const maxHealth = 10

	assert.Equal(t, [3]float32{0.9, 0, 0}, Cell{Health: maxHealth}.Color(maxHealth))

	dying := Cell{Health: 4}.Color(maxHealth)
	want := float32(5) / float32(12)
	assert.InDelta(t, want, dying[0], 1e-6)
	assert.Equal(t, dying[0], dying[1])
	assert.Equal(t, dying[0], dying[2])

	// fades as health drops
	prev := Cell{Health: maxHealth - 1}.Color(maxHealth)[0]
	for h := maxHealth - 2; h >= 0; h-- {
		cur := Cell{Health: h}.Color(maxHealth)[0]
		assert.Less(t, cur, prev)
		prev = cur
	}
}

func TestCellSync(t *testing.T) {
	rt := mustTable(t, nil, []int{3})
	c := Cell{Health: DeadHealth, Neighbors: 3}
	c.Sync(rt, 7)
	assert.Equal(t, 7, c.Health)
	assert.Equal(t, 3, c.Neighbors, "sync leaves the count alone")
}
