package main

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-gol3d/model"
	"github.com/sheikhrachel/go-gol3d/utils"
)

// game bundles the simulation with everything the terminal driver owns
type game struct {
	sim       *model.Simulation
	pool      *model.InstancePool
	renderer  *model.TerminalRenderer
	stats     *utils.Stats
	telemetry *utils.TelemetryWriter
	headless  bool

	instances []model.Instance
	lastTick  time.Duration
}

// gameStatus is what one frame knows about the simulation
type gameStatus struct {
	population model.Population
	density    float64
	label      string
	stagnant   bool
}

// initializeGame sets up the initial game state
func initializeGame(config utils.Config, rng *rand.Rand, headless bool) (*game, error) {
	sim, err := model.NewSimulation(config, rng)
	if err != nil {
		return nil, errors.Wrap(err, "[initializeGame] failed to build simulation")
	}

	telemetry, err := utils.NewTelemetryWriter(config.TelemetryPath)
	if err != nil {
		return nil, errors.Wrap(err, "[initializeGame] failed to open telemetry")
	}

	var pool *model.InstancePool
	if config.UseMemoryPool {
		pool = model.NewInstancePool()
	}

	return &game{
		sim:       sim,
		pool:      pool,
		renderer:  &model.TerminalRenderer{},
		stats:     utils.NewStats(),
		telemetry: telemetry,
		headless:  headless,
	}, nil
}

// displayGameInfo shows the initial game information
func displayGameInfo(config utils.Config, g *game) {
	pop := g.sim.Population()
	slog.Info("simulation ready",
		"grid", fmt.Sprintf("%d³", g.sim.Size()),
		"max_health", g.sim.MaxHealth(),
		"rule", g.sim.Rules().String(),
		"mode", modeName(g.sim.Mode()),
		"memory_pool", config.UseMemoryPool,
		"initial_alive", pop.Alive)

	if g.headless {
		return
	}
	fmt.Println("Press Ctrl+C to exit gracefully")
	fmt.Println()
	time.Sleep(2 * time.Second)
}

func modeName(mode model.CountMode) string {
	switch mode {
	case model.CountParallel:
		return "parallel"
	case model.CountBounded:
		return "bounded"
	default:
		return "sequential"
	}
}

// updateGameState extracts this frame's instances, updates stats and
// telemetry, and checks for stagnation
func updateGameState(g *game, generation int, lastFrameTime time.Time) gameStatus {
	pop := g.sim.Population()
	size := g.sim.Size()
	density := float64(pop.Visible()) / float64(size*size*size) * 100

	if g.pool != nil {
		model.InstancesToPool(g.instances, g.pool)
		g.instances = g.pool.Get(pop.Visible())
	}
	g.instances = g.sim.ExtractInstancesInto(g.instances)

	g.stats.Update(generation, pop.Alive, time.Since(lastFrameTime))
	g.stats.BoundingBoxSize = g.sim.BoundingBoxVolume()
	mean, std := g.stats.WindowSummary()

	if err := g.telemetry.Write(utils.TelemetryRecord{
		Generation:     generation,
		Alive:          pop.Alive,
		Dying:          pop.Dying,
		Visible:        len(g.instances),
		BoundingVolume: g.stats.BoundingBoxSize,
		TickMicros:     g.lastTick.Microseconds(),
		PopulationMean: mean,
		PopulationStd:  std,
	}); err != nil {
		slog.Warn("telemetry write failed", "error", err)
	}

	isStagnant := g.sim.RecordState()

	label := "Active"
	if isStagnant {
		label = fmt.Sprintf("Stagnant (%d)", generation)
	}
	if pop.Alive == 0 {
		label = "Extinct"
	}

	return gameStatus{
		population: pop,
		density:    density,
		label:      label,
		stagnant:   isStagnant,
	}
}

// render draws the status lines and one layer of the grid
func (g *game) render(config utils.Config, status gameStatus, lastRestartGen int) {
	generation := g.stats.TotalGenerations
	if g.headless {
		if generation%100 == 0 {
			slog.Info("generation",
				"gen", generation,
				"alive", status.population.Alive,
				"dying", status.population.Dying,
				"status", status.label,
				"tick", g.lastTick)
		}
		return
	}

	g.renderer.Clear()
	mean, std := g.stats.WindowSummary()
	fmt.Printf("Gen: %d | Alive: %d | Dying: %d | Density: %.1f%% | Status: %s | Bounding box: %d cells\n",
		generation, status.population.Alive, status.population.Dying, status.density, status.label, g.stats.BoundingBoxSize)
	fmt.Printf("Performance: %.1f gen/sec | Tick: %s | Avg Pop: %.1f | Window: %.1f ± %.1f | Runtime: %.1fs\n",
		g.stats.GenerationsPerSecond, g.lastTick.Round(time.Microsecond), g.stats.AveragePopulation,
		mean, std, time.Since(g.stats.StartTime).Seconds())

	// Show time since last restart
	if generation > lastRestartGen {
		fmt.Printf("Generations since restart: %d\n", generation-lastRestartGen)
	}
	fmt.Printf("Layer z=%d\n\n", config.Layer())

	g.renderer.Display(g.instances, g.sim.Size(), config.Layer())
}

// checkRestartConditions determines if the game should restart
func checkRestartConditions(
	alive, stagnantCount, generation int,
	config utils.Config,
) (bool, string) {
	if alive == 0 {
		return true, "extinction"
	}
	if stagnantCount >= config.StagnationThreshold {
		return true, "stagnation detected"
	}
	if generation > 0 && generation%200 == 0 {
		return true, "periodic refresh"
	}
	return false, ""
}

// restartGame reseeds the simulation in place
func restartGame(g *game, rng *rand.Rand, reason string) {
	g.sim.Reseed(rng)
	slog.Info("restarted simulation", "reason", reason, "alive", g.sim.Population().Alive)
}

func (g *game) close() {
	if err := g.telemetry.Close(); err != nil {
		slog.Warn("failed to close telemetry", "error", err)
	}
}
