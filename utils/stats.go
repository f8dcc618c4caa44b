package utils

import (
	"time"

	"gonum.org/v1/gonum/stat"
)

// populationWindow is the number of recent generations kept for the window summary
const populationWindow = 64

// Stats for performance monitoring
type Stats struct {
	GenerationsPerSecond float64
	AveragePopulation    float64
	TotalGenerations     int
	StartTime            time.Time
	ActiveCells          int
	BoundingBoxSize      int

	window []float64
}

func NewStats() *Stats {
	return &Stats{StartTime: time.Now()}
}

func (s *Stats) Update(generation int, population int, duration time.Duration) {
	s.TotalGenerations = generation
	s.ActiveCells = population
	if duration > 0 {
		s.GenerationsPerSecond = 1.0 / duration.Seconds()
	}

	// Simple moving average for population
	if s.AveragePopulation == 0 {
		s.AveragePopulation = float64(population)
	} else {
		s.AveragePopulation = (s.AveragePopulation * 0.9) + (float64(population) * 0.1)
	}

	s.window = append(s.window, float64(population))
	if len(s.window) > populationWindow {
		s.window = s.window[1:]
	}
}

// WindowSummary returns the mean and standard deviation of the population over
// the last populationWindow generations
func (s *Stats) WindowSummary() (mean, stdDev float64) {
	switch len(s.window) {
	case 0:
		return 0, 0
	case 1:
		return s.window[0], 0
	}
	return stat.MeanStdDev(s.window, nil)
}
