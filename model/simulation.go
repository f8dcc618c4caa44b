package model

import (
	"math/rand"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-gol3d/rules"
	"github.com/sheikhrachel/go-gol3d/utils"
)

// CountMode selects how neighbor counts are refreshed each tick
type CountMode int

const (
	CountSequential CountMode = iota
	CountParallel
	CountBounded
)

// Population breaks the grid down by cell state
type Population struct {
	Alive int
	Dying int
	Dead  int
}

// Visible returns the number of drawn cells
func (p Population) Visible() int {
	return p.Alive + p.Dying
}

/*
Simulation owns the grid and advances it one generation per Tick.

Every tick runs in two phases: all neighbor counts are refreshed from the
current health values, then every cell transitions. No cell's health changes
until every count has been taken. Callers only ever receive copies of the
grid state.
*/
type Simulation struct {
	grid       *Grid
	rules      rules.RuleTable
	mode       CountMode
	generation int

	probability float64
	seedLo      int
	seedHi      int
}

// NewSimulation validates the configuration, builds the grid and seeds the
// configured region from rng
func NewSimulation(config utils.Config, rng *rand.Rand) (*Simulation, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "[NewSimulation] invalid config")
	}

	rt, err := config.RuleTable()
	if err != nil {
		return nil, errors.Wrap(err, "[NewSimulation] failed to parse rule")
	}

	grid, err := NewGrid(config.GridSize, config.MaxHealth)
	if err != nil {
		return nil, errors.Wrap(err, "[NewSimulation] failed to build grid")
	}

	mode := CountSequential
	switch {
	case config.UseBoundedGrid:
		mode = CountBounded
	case config.UseParallel:
		mode = CountParallel
	}

	s := NewSimulationFromGrid(grid, rt, mode)
	s.probability = config.AliveProbability
	s.seedLo, s.seedHi = config.SeedRegion()
	s.Reseed(rng)

	return s, nil
}

// NewSimulationFromGrid wraps an already populated grid. The simulation takes
// ownership of the grid.
func NewSimulationFromGrid(grid *Grid, rt rules.RuleTable, mode CountMode) *Simulation {
	return &Simulation{
		grid:   grid,
		rules:  rt,
		mode:   mode,
		seedLo: grid.size / 3,
		seedHi: grid.size * 2 / 3,
	}
}

// Tick advances the simulation by exactly one generation
func (s *Simulation) Tick() {
	switch s.mode {
	case CountParallel:
		s.grid.RefreshNeighborCountsParallel()
	case CountBounded:
		s.grid.RefreshNeighborCountsBounded()
	default:
		s.grid.RefreshNeighborCounts()
	}

	s.grid.Sync(s.rules)
	s.generation++
}

// ExtractInstances returns the render data of every visible cell
func (s *Simulation) ExtractInstances() []Instance {
	return ExtractInstances(s.grid)
}

// ExtractInstancesInto is ExtractInstances reusing dst's storage
func (s *Simulation) ExtractInstancesInto(dst []Instance) []Instance {
	return ExtractInstancesInto(s.grid, dst)
}

// Reseed clears the grid and seeds the configured region again
func (s *Simulation) Reseed(rng *rand.Rand) {
	s.grid.Seed(rng, s.probability, s.seedLo, s.seedHi)
	s.generation = 0
}

// InjectRandomLife brings count random cells alive
func (s *Simulation) InjectRandomLife(rng *rand.Rand, count int) {
	s.grid.InjectRandomLife(rng, count)
}

// UpdateHistory records the current state for stagnation detection
func (s *Simulation) UpdateHistory() {
	s.grid.UpdateHistory()
}

// IsStagnant reports whether the grid repeats a recently recorded state
func (s *Simulation) IsStagnant() bool {
	return s.grid.IsStagnant()
}

// RecordState reports whether the current state repeats a recently recorded
// one, then records it. Call once per generation.
func (s *Simulation) RecordState() bool {
	return s.grid.RecordState()
}

// Population counts cells by state
func (s *Simulation) Population() Population {
	alive, dying := s.grid.CountAlive(), s.grid.CountDying()
	return Population{
		Alive: alive,
		Dying: dying,
		Dead:  s.grid.Len() - alive - dying,
	}
}

// BoundingBoxVolume returns the volume of the box enclosing all alive cells
func (s *Simulation) BoundingBoxVolume() int {
	return s.grid.BoundingBoxVolume()
}

// Generation returns the number of ticks since the last seeding
func (s *Simulation) Generation() int {
	return s.generation
}

// Size returns the grid edge length N
func (s *Simulation) Size() int {
	return s.grid.size
}

// MaxHealth returns the health of a fully alive cell
func (s *Simulation) MaxHealth() int {
	return s.grid.maxHealth
}

// Rules returns the rule table applied each tick
func (s *Simulation) Rules() rules.RuleTable {
	return s.rules
}

// Mode returns how neighbor counts are refreshed
func (s *Simulation) Mode() CountMode {
	return s.mode
}
