package rules

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// MaxNeighbors is the size of the 3D Moore neighborhood
const MaxNeighbors = 26

// TableSize covers every neighbor count from 0 to MaxNeighbors inclusive
const TableSize = MaxNeighbors + 1

// ErrConfiguration marks invalid construction-time configuration
var ErrConfiguration = errors.New("invalid configuration")

/*
RuleTable maps a neighbor count to the survival and spawn decisions of a 3D
Life-like automaton.

Survives is consulted for fully alive cells, Spawns for dead cells. Dying
cells never consult the table.
*/
type RuleTable struct {
	survives [TableSize]bool
	spawns   [TableSize]bool
}

// Default returns the reference rule S2,6,9/B4,6,8,9
func Default() RuleTable {
	return RuleTable{
		survives: [TableSize]bool{
			false, false, true, false, false, false, true, false, false, true, false, false, false, false,
			false, false, false, false, false, false, false, false, false, false, false, false, false,
		},
		spawns: [TableSize]bool{
			false, false, false, false, true, false, true, false, true, true, false, false, false, false,
			false, false, false, false, false, false, false, false, false, false, false, false, false,
		},
	}
}

// NewRuleTable builds a table from explicit per-count slices, each of length TableSize
func NewRuleTable(survives, spawns []bool) (RuleTable, error) {
	var rt RuleTable
	if len(survives) != TableSize {
		return rt, errors.Wrapf(ErrConfiguration, "[NewRuleTable] survives has %d entries, want %d", len(survives), TableSize)
	}
	if len(spawns) != TableSize {
		return rt, errors.Wrapf(ErrConfiguration, "[NewRuleTable] spawns has %d entries, want %d", len(spawns), TableSize)
	}
	copy(rt.survives[:], survives)
	copy(rt.spawns[:], spawns)
	return rt, nil
}

// FromCounts builds a table from the neighbor counts that survive and spawn
func FromCounts(survive, spawn []int) (RuleTable, error) {
	var rt RuleTable
	for _, n := range survive {
		if n < 0 || n > MaxNeighbors {
			return rt, errors.Wrapf(ErrConfiguration, "[FromCounts] survive count %d out of range", n)
		}
		rt.survives[n] = true
	}
	for _, n := range spawn {
		if n < 0 || n > MaxNeighbors {
			return rt, errors.Wrapf(ErrConfiguration, "[FromCounts] spawn count %d out of range", n)
		}
		rt.spawns[n] = true
	}
	return rt, nil
}

// Survives reports whether a fully alive cell with n alive neighbors stays fully alive
func (r RuleTable) Survives(n int) bool {
	mustBeNeighborCount(n)
	return r.survives[n]
}

// Spawns reports whether a dead cell with n alive neighbors comes alive
func (r RuleTable) Spawns(n int) bool {
	mustBeNeighborCount(n)
	return r.spawns[n]
}

// String renders the table in S/B notation
func (r RuleTable) String() string {
	return "S" + joinCounts(r.survives) + "/B" + joinCounts(r.spawns)
}

func mustBeNeighborCount(n int) {
	if n < 0 || n > MaxNeighbors {
		panic(fmt.Sprintf("rules: neighbor count %d outside [0,%d]", n, MaxNeighbors))
	}
}

func joinCounts(table [TableSize]bool) string {
	parts := make([]string, 0, TableSize)
	for n, set := range table {
		if set {
			parts = append(parts, strconv.Itoa(n))
		}
	}
	return strings.Join(parts, ",")
}
