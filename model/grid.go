package model

import (
	"crypto/md5"
	"encoding/binary"
	"fmt"
	"math/rand"
	"runtime"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/sheikhrachel/go-gol3d/rules"
)

// offset is a step to one of the 26 Moore neighbors
type offset struct{ dx, dy, dz int }

var neighborOffsets = func() []offset {
	offsets := make([]offset, 0, rules.MaxNeighbors)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for dz := -1; dz <= 1; dz++ {
				if dx == 0 && dy == 0 && dz == 0 {
					continue
				}
				offsets = append(offsets, offset{dx, dy, dz})
			}
		}
	}
	return offsets
}()

// historySize is how many recent grid hashes are kept for cycle detection
const historySize = 5

// Grid is the fixed N×N×N lattice of cells
type Grid struct {
	size      int
	maxHealth int
	cells     []Cell
	history   []string // Store recent grid states for cycle detection

	// Bounding box of alive cells, used by the bounded neighbor count
	activeBounds struct {
		minX, maxX, minY, maxY, minZ, maxZ int
		valid                              bool
	}
}

// NewGrid creates a grid of dead cells centered on the origin
func NewGrid(size, maxHealth int) (*Grid, error) {
	if size <= 0 {
		return nil, errors.Wrapf(rules.ErrConfiguration, "[NewGrid] size must be positive, got %d", size)
	}
	if maxHealth < 0 {
		return nil, errors.Wrapf(rules.ErrConfiguration, "[NewGrid] max health must not be negative, got %d", maxHealth)
	}

	g := &Grid{
		size:      size,
		maxHealth: maxHealth,
		cells:     make([]Cell, size*size*size),
	}
	half := float32(size) * 0.5
	for x := range size {
		for y := range size {
			for z := range size {
				g.cells[g.Index(x, y, z)] = Cell{
					Position: [3]float32{float32(x) - half, float32(y) - half, float32(z) - half},
					Health:   DeadHealth,
				}
			}
		}
	}
	return g, nil
}

// Size returns the edge length N
func (g *Grid) Size() int {
	return g.size
}

// MaxHealth returns the health of a fully alive cell
func (g *Grid) MaxHealth() int {
	return g.maxHealth
}

// Len returns the number of cells, always N³
func (g *Grid) Len() int {
	return len(g.cells)
}

// InBounds reports whether every coordinate lies in [0,N)
func (g *Grid) InBounds(x, y, z int) bool {
	return x >= 0 && x < g.size && y >= 0 && y < g.size && z >= 0 && z < g.size
}

// Index maps a coordinate to its linear index z + y*N + x*N*N
func (g *Grid) Index(x, y, z int) int {
	if !g.InBounds(x, y, z) {
		panic(fmt.Sprintf("model: coordinate (%d,%d,%d) outside grid of size %d", x, y, z, g.size))
	}
	return z + y*g.size + x*g.size*g.size
}

// Cell returns a copy of the cell at the coordinate
func (g *Grid) Cell(x, y, z int) Cell {
	return g.cells[g.Index(x, y, z)]
}

// SetHealth overwrites the health of one cell
func (g *Grid) SetHealth(x, y, z, health int) {
	if health < DeadHealth || health > g.maxHealth {
		panic(fmt.Sprintf("model: health %d outside [%d,%d]", health, DeadHealth, g.maxHealth))
	}
	g.cells[g.Index(x, y, z)].Health = health
	g.activeBounds.valid = false
}

// Clear kills every cell
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i].Health = DeadHealth
		g.cells[i].Neighbors = 0
	}
	g.history = nil
	g.activeBounds.valid = false
}

// NeighborCount counts alive cells among the in-bounds Moore neighbors
func (g *Grid) NeighborCount(x, y, z int) int {
	count := 0
	for _, o := range neighborOffsets {
		nx, ny, nz := x+o.dx, y+o.dy, z+o.dz
		if !g.InBounds(nx, ny, nz) {
			continue
		}
		if g.cells[nz+ny*g.size+nx*g.size*g.size].Health == g.maxHealth {
			count++
		}
	}
	return count
}

// RefreshNeighborCounts recomputes every cell's neighbor count. It only reads
// health, so all counts come from the same generation.
func (g *Grid) RefreshNeighborCounts() {
	g.refreshSlab(0, g.size)
}

// RefreshNeighborCountsParallel computes the same counts as
// RefreshNeighborCounts, splitting the grid into x-slabs across CPUs
func (g *Grid) RefreshNeighborCountsParallel() {
	var (
		eg             errgroup.Group
		numWorkers     = runtime.NumCPU()
		slabsPerWorker = (g.size + numWorkers - 1) / numWorkers // Ceiling division
	)

	for i := range numWorkers {
		var (
			startX = i * slabsPerWorker
			endX   = min(startX+slabsPerWorker, g.size)
		)
		if startX >= g.size {
			break
		}

		eg.Go(func() error {
			g.refreshSlab(startX, endX)
			return nil
		})
	}

	// workers never fail; Wait only joins them
	_ = eg.Wait()
}

// RefreshNeighborCountsBounded computes the same counts as
// RefreshNeighborCounts, but only inside the alive bounding box plus a one
// cell margin; every cell outside has no alive neighbor
func (g *Grid) RefreshNeighborCountsBounded() {
	g.calculateActiveBounds()

	for i := range g.cells {
		g.cells[i].Neighbors = 0
	}
	if !g.activeBounds.valid {
		return
	}

	b := g.activeBounds
	minX, maxX := max(0, b.minX-1), min(g.size-1, b.maxX+1)
	minY, maxY := max(0, b.minY-1), min(g.size-1, b.maxY+1)
	minZ, maxZ := max(0, b.minZ-1), min(g.size-1, b.maxZ+1)

	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			for z := minZ; z <= maxZ; z++ {
				g.cells[g.Index(x, y, z)].Neighbors = g.NeighborCount(x, y, z)
			}
		}
	}
}

func (g *Grid) refreshSlab(startX, endX int) {
	for x := startX; x < endX; x++ {
		for y := range g.size {
			for z := range g.size {
				g.cells[g.Index(x, y, z)].Neighbors = g.NeighborCount(x, y, z)
			}
		}
	}
}

// Sync applies the transition rule to every cell using the stored counts
func (g *Grid) Sync(rt rules.RuleTable) {
	for i := range g.cells {
		g.cells[i].Sync(rt, g.maxHealth)
	}
	g.activeBounds.valid = false
}

// calculateActiveBounds calculates the bounding box of alive cells
func (g *Grid) calculateActiveBounds() {
	b := &g.activeBounds
	b.valid = false

	for x := range g.size {
		for y := range g.size {
			for z := range g.size {
				if g.cells[g.Index(x, y, z)].Health != g.maxHealth {
					continue
				}
				if !b.valid {
					b.minX, b.maxX = x, x
					b.minY, b.maxY = y, y
					b.minZ, b.maxZ = z, z
					b.valid = true
					continue
				}
				b.minX, b.maxX = min(b.minX, x), max(b.maxX, x)
				b.minY, b.maxY = min(b.minY, y), max(b.maxY, y)
				b.minZ, b.maxZ = min(b.minZ, z), max(b.maxZ, z)
			}
		}
	}
}

// BoundingBoxVolume returns the volume of the box enclosing all alive cells
func (g *Grid) BoundingBoxVolume() int {
	if !g.activeBounds.valid {
		g.calculateActiveBounds()
	}
	if !g.activeBounds.valid {
		return 0
	}
	b := g.activeBounds
	return (b.maxX - b.minX + 1) * (b.maxY - b.minY + 1) * (b.maxZ - b.minZ + 1)
}

// CountAlive returns the number of fully alive cells
func (g *Grid) CountAlive() (count int) {
	for i := range g.cells {
		if g.cells[i].Alive(g.maxHealth) {
			count++
		}
	}
	return
}

// CountDying returns the number of decaying cells
func (g *Grid) CountDying() (count int) {
	for i := range g.cells {
		if g.cells[i].Dying(g.maxHealth) {
			count++
		}
	}
	return
}

// CountVisible returns the number of cells that are drawn
func (g *Grid) CountVisible() (count int) {
	for i := range g.cells {
		if g.cells[i].Visible() {
			count++
		}
	}
	return
}

// Hash returns an MD5 hash of every cell's health
func (g *Grid) Hash() string {
	h := md5.New()
	buf := make([]byte, 0, 4*len(g.cells))
	for i := range g.cells {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(int32(g.cells[i].Health)))
	}
	h.Write(buf)
	return fmt.Sprintf("%x", h.Sum(nil))
}

// UpdateHistory adds current state to history and maintains size
func (g *Grid) UpdateHistory() {
	g.history = append(g.history, g.Hash())

	if len(g.history) > historySize {
		g.history = g.history[1:]
	}
}

// IsStagnant reports whether the current state repeats one of the last three
// recorded states, which covers static grids and cycles of period 2 or 3.
// Call it before recording the current state, otherwise it always matches.
func (g *Grid) IsStagnant() bool {
	if len(g.history) < 3 {
		return false
	}

	current := g.Hash()
	for _, past := range g.history[len(g.history)-3:] {
		if past == current {
			return true
		}
	}
	return false
}

// RecordState checks the current state for stagnation and then adds it to
// the history
func (g *Grid) RecordState() (stagnant bool) {
	stagnant = g.IsStagnant()
	g.UpdateHistory()
	return
}

// Seed kills every cell, then brings each cell inside the inclusive cube
// [lo,hi]³ alive with the given probability
func (g *Grid) Seed(rng *rand.Rand, probability float64, lo, hi int) {
	g.Clear()
	for x := max(lo, 0); x <= min(hi, g.size-1); x++ {
		for y := max(lo, 0); y <= min(hi, g.size-1); y++ {
			for z := max(lo, 0); z <= min(hi, g.size-1); z++ {
				if rng.Float64() < probability {
					g.cells[g.Index(x, y, z)].Health = g.maxHealth
				}
			}
		}
	}
}

// InjectRandomLife brings count random cells alive
func (g *Grid) InjectRandomLife(rng *rand.Rand, count int) {
	for range count {
		g.SetHealth(rng.Intn(g.size), rng.Intn(g.size), rng.Intn(g.size), g.maxHealth)
	}
}
