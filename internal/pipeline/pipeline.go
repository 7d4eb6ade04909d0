// Package pipeline wires features → detect → summarize into a per-match
// batch run. Each match's chain is a pure function of its own event stream
// and the shared immutable Config, so matches process in parallel with no
// synchronization beyond slot-indexed result collection.
package pipeline

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/OZiad/league-of-legends-match-intelligence-system/internal/detect"
	"github.com/OZiad/league-of-legends-match-intelligence-system/internal/features"
	"github.com/OZiad/league-of-legends-match-intelligence-system/internal/model"
	"github.com/OZiad/league-of-legends-match-intelligence-system/internal/summarize"
)

// Config carries every knob of a pipeline run. Build it once, validate it
// once, and share it read-only across match workers — never as ambient
// global state.
type Config struct {
	WindowSeconds   int
	Eps             float64
	MinSamples      int
	MaxFightSeconds int
	Features        []string
	ClipPreSeconds  int
	ClipPostSeconds int
	Workers         int
}

// Default returns the documented defaults: 30s windows, eps 0.9,
// min_samples 2, 60s fight cap.
func Default() Config {
	return Config{
		WindowSeconds:   30,
		Eps:             0.9,
		MinSamples:      2,
		MaxFightSeconds: 60,
		Features:        features.DefaultSet,
		ClipPreSeconds:  8,
		ClipPostSeconds: 6,
		Workers:         runtime.NumCPU(),
	}
}

// Validate fails fast before any match is processed; an invalid parameter
// would otherwise silently corrupt every match's output.
func (c Config) Validate() error {
	if c.WindowSeconds <= 0 {
		return fmt.Errorf("window_width must be positive, got %ds", c.WindowSeconds)
	}
	if c.MaxFightSeconds < c.WindowSeconds {
		return fmt.Errorf("max_fight_duration (%ds) must be at least one window width (%ds)",
			c.MaxFightSeconds, c.WindowSeconds)
	}
	if c.ClipPreSeconds < 0 || c.ClipPostSeconds < 0 {
		return fmt.Errorf("clip padding must not be negative")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	return c.detectConfig().Validate()
}

func (c Config) windowMS() int64 { return int64(c.WindowSeconds) * 1000 }

func (c Config) detectConfig() detect.Config {
	return detect.Config{
		Eps:        c.Eps,
		MinSamples: c.MinSamples,
		MaxFightMS: int64(c.MaxFightSeconds) * 1000,
		Features:   c.Features,
	}
}

func (c Config) clipConfig() summarize.ClipConfig {
	return summarize.ClipConfig{
		PreMS:  int64(c.ClipPreSeconds) * 1000,
		PostMS: int64(c.ClipPostSeconds) * 1000,
	}
}

// Loader resolves a match ID to its event stream. It is the seam to the
// Event Source: the fetch completes here, before feature extraction begins.
type Loader func(matchID string) (*model.MatchEvents, error)

// MatchResult is the full output of one match's chain. Err is set when that
// match failed (fetch error, malformed payload); the rest of the batch is
// unaffected.
type MatchResult struct {
	MatchID   string
	Events    *model.MatchEvents
	Windows   []model.Window
	Fights    []model.FightSegment
	Summaries []model.FightSummary
	Err       error
}

// Run processes the given matches on a fixed worker pool and returns one
// result per match, in input order. Only configuration problems are
// returned as an error; per-match failures are isolated into their slot.
func Run(cfg Config, matchIDs []string, load Loader) ([]MatchResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid pipeline config: %w", err)
	}

	results := make([]MatchResult, len(matchIDs))
	jobs := make(chan int)
	var wg sync.WaitGroup

	workers := cfg.Workers
	if workers > len(matchIDs) {
		workers = len(matchIDs)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = runOne(cfg, matchIDs[i], load)
			}
		}()
	}
	for i := range matchIDs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results, nil
}

// runOne executes one match's chain. A panic in any stage is contained to
// this match's slot.
func runOne(cfg Config, matchID string, load Loader) (res MatchResult) {
	res.MatchID = matchID
	defer func() {
		if r := recover(); r != nil {
			res.Err = fmt.Errorf("match %s: panic: %v", matchID, r)
		}
	}()

	events, err := load(matchID)
	if err != nil {
		res.Err = fmt.Errorf("load match %s: %w", matchID, err)
		return
	}
	res.Events = events

	windows, err := features.Build(events, cfg.windowMS())
	if err != nil {
		res.Err = fmt.Errorf("build windows %s: %w", matchID, err)
		return
	}
	res.Windows = windows

	fights, err := detect.Detect(windows, cfg.detectConfig())
	if err != nil {
		res.Err = fmt.Errorf("detect fights %s: %w", matchID, err)
		return
	}
	res.Fights = fights

	res.Summaries = summarize.Summarize(fights, events, cfg.clipConfig())
	return
}
