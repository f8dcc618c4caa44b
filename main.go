package main

import (
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/profile"

	"github.com/sheikhrachel/go-gol3d/utils"
)

func main() {
	var (
		configPath     = flag.String("config", "config.json", "Path to a JSON or YAML config file")
		seed           = flag.Int64("seed", 0, "RNG seed (0 = config value, then time-based)")
		maxGenerations = flag.Int("max-generations", -1, "Stop after N generations (-1 = config value, 0 = unlimited)")
		headless       = flag.Bool("headless", false, "Skip terminal rendering")
		telemetryPath  = flag.String("telemetry", "", "CSV file for per-generation telemetry (overrides config)")
		profileMode    = flag.String("profile", "", "Enable profiling: cpu or mem")
		logJSON        = flag.Bool("log-json", false, "Log as JSON instead of text")
	)
	flag.Parse()

	setupLogger(*logJSON)

	switch *profileMode {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	case "":
	default:
		slog.Warn("unknown profile mode, profiling disabled", "mode", *profileMode)
	}

	// Load configuration - fallback to defaults if file doesn't exist
	config, err := utils.LoadConfig(*configPath)
	if err != nil {
		if _, statErr := os.Stat(*configPath); statErr == nil {
			slog.Error("failed to load config", "path", *configPath, "error", err)
			os.Exit(1)
		}
		slog.Info("using default configuration", "path", *configPath)
		config = utils.DefaultConfig()
	}
	applyFlagOverrides(&config, *seed, *maxGenerations, *telemetryPath)

	rng := newRNG(config.Seed)
	game, err := initializeGame(config, rng, *headless)
	if err != nil {
		slog.Error("failed to initialize simulation", "error", err)
		os.Exit(1)
	}
	defer game.close()
	displayGameInfo(config, game)

	// Handle Ctrl+C gracefully
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var (
		generation     = 0
		stagnantCount  = 0
		lastRestartGen = 0
		lastFrameTime  = time.Now()
	)

	for {
		select {
		case <-sigChan:
			slog.Info("shutting down",
				"generations", generation,
				"runtime", time.Since(game.stats.StartTime).Round(time.Millisecond),
				"avg_population", game.stats.AveragePopulation)
			return
		default:
		}

		frameStart := time.Now()

		status := updateGameState(game, generation, lastFrameTime)
		lastFrameTime = frameStart

		if status.stagnant {
			stagnantCount++
		} else {
			stagnantCount = 0
		}

		game.render(config, status, lastRestartGen)

		if config.MaxGenerations > 0 && generation >= config.MaxGenerations {
			slog.Info("reached maximum generations", "limit", config.MaxGenerations)
			return
		}

		shouldRestart, restartReason := checkRestartConditions(status.population.Alive, stagnantCount, generation, config)
		if shouldRestart && config.AutoRestart {
			restartGame(game, rng, restartReason)
			lastRestartGen = generation
			stagnantCount = 0
		} else if stagnantCount >= 2 && stagnantCount < config.StagnationThreshold {
			// Inject some life to try to break the stagnation
			game.sim.InjectRandomLife(rng, config.InjectionCount)
		}

		tickStart := time.Now()
		game.sim.Tick()
		game.lastTick = time.Since(tickStart)

		generation++

		if !game.headless {
			time.Sleep(config.FrameRate.Std())
		}
	}
}

func setupLogger(jsonOutput bool) {
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, nil)
	if jsonOutput {
		handler = slog.NewJSONHandler(os.Stderr, nil)
	}
	slog.SetDefault(slog.New(handler))
}

func newRNG(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	slog.Info("seeding simulation", "seed", seed)
	return rand.New(rand.NewSource(seed))
}

// applyFlagOverrides lets command line flags win over the config file
func applyFlagOverrides(config *utils.Config, seed int64, maxGenerations int, telemetryPath string) {
	if seed != 0 {
		config.Seed = seed
	}
	if maxGenerations >= 0 {
		config.MaxGenerations = maxGenerations
	}
	if telemetryPath != "" {
		config.TelemetryPath = telemetryPath
	}
}
