// Package detect identifies teamfight intervals from window features using
// density clustering — no fixed kill-count threshold anywhere.
package detect

import (
	"fmt"
	"sort"

	"github.com/OZiad/league-of-legends-match-intelligence-system/internal/features"
	"github.com/OZiad/league-of-legends-match-intelligence-system/internal/model"
)

// Config holds the clustering and segmentation parameters. It is immutable
// by convention: build one per pipeline run and share it across matches.
type Config struct {
	Eps        float64  // DBSCAN neighborhood radius in normalized feature space
	MinSamples int      // minimum OTHER neighbors within Eps for a core point
	MaxFightMS int64    // segments longer than this are split at window boundaries
	Features   []string // ordered feature selection, see features.DefaultSet
}

// Validate fails fast on parameters that would silently corrupt every
// match's output.
func (c Config) Validate() error {
	if c.Eps <= 0 {
		return fmt.Errorf("eps must be positive, got %g", c.Eps)
	}
	if c.MinSamples < 1 {
		return fmt.Errorf("min_samples must be at least 1, got %d", c.MinSamples)
	}
	if c.MaxFightMS <= 0 {
		return fmt.Errorf("max_fight_duration must be positive, got %dms", c.MaxFightMS)
	}
	return features.ValidateSet(c.Features)
}

// Detect converts a match's ordered window sequence into fight segments,
// ordered by start time with SegmentID assigned in that order. A match with
// too few windows for any core point, or whose windows are all noise,
// yields an empty slice — a valid result, not an error.
func Detect(windows []model.Window, cfg Config) ([]model.FightSegment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(windows) == 0 {
		return nil, nil
	}

	points := make([][]float64, len(windows))
	for i, w := range windows {
		// A window wider than the cap would make even a single-window
		// segment exceed the maximum fight duration.
		if w.DurationMS() > cfg.MaxFightMS {
			return nil, fmt.Errorf("window %d is %dms wide, wider than the %dms fight cap",
				w.Index, w.DurationMS(), cfg.MaxFightMS)
		}
		vec, err := features.Vector(w.Features, cfg.Features)
		if err != nil {
			return nil, err
		}
		points[i] = vec
	}

	normalize(points)
	labels := dbscan(points, cfg.Eps, cfg.MinSamples)

	// Gather window indices per non-noise cluster, in index order.
	byCluster := make(map[int][]int)
	var clusterIDs []int
	for i, label := range labels {
		if label == model.Noise {
			continue
		}
		if _, seen := byCluster[label]; !seen {
			clusterIDs = append(clusterIDs, label)
		}
		byCluster[label] = append(byCluster[label], i)
	}
	sort.Ints(clusterIDs)

	var segments []model.FightSegment
	for _, id := range clusterIDs {
		indices := byCluster[id] // ascending by construction
		for _, run := range contiguousRuns(indices) {
			// Quiet windows are identical zero vectors and density-connect
			// trivially; a run with no events at all is not a fight.
			if !hasActivity(windows, run) {
				continue
			}
			segments = append(segments, capDuration(windows, id, run, cfg.MaxFightMS)...)
		}
	}

	sort.Slice(segments, func(i, j int) bool {
		return segments[i].StartMS < segments[j].StartMS
	})
	for i := range segments {
		segments[i].SegmentID = i
	}
	return segments, nil
}

// contiguousRuns splits sorted window indices into maximal runs of adjacent
// indices. A cluster dense in feature space can span non-contiguous windows
// when intervening windows landed in noise; those runs stay separate fights.
func contiguousRuns(indices []int) [][]int {
	var runs [][]int
	start := 0
	for i := 1; i <= len(indices); i++ {
		if i == len(indices) || indices[i] != indices[i-1]+1 {
			runs = append(runs, indices[start:i])
			start = i
		}
	}
	return runs
}

// hasActivity reports whether any window in the run saw a kill, assist, or
// objective.
func hasActivity(windows []model.Window, run []int) bool {
	for _, i := range run {
		f := windows[i].Features
		if f.KillCount > 0 || f.AssistCount > 0 || f.ObjectiveCount > 0 {
			return true
		}
	}
	return false
}

// capDuration chunks one contiguous run into segments of at most maxMS,
// cutting greedily front-to-back at window boundaries. Boundary placement
// has low downstream impact inside an already-dense run, so no attempt is
// made to optimize where the cuts land.
func capDuration(windows []model.Window, clusterID int, run []int, maxMS int64) []model.FightSegment {
	var out []model.FightSegment
	chunkStart := 0
	for i := 1; i <= len(run); i++ {
		if i < len(run) && windows[run[i]].EndMS-windows[run[chunkStart]].StartMS <= maxMS {
			continue
		}
		w0, w1 := windows[run[chunkStart]], windows[run[i-1]]
		out = append(out, model.FightSegment{
			MatchID:   w0.MatchID,
			ClusterID: clusterID,
			StartMS:   w0.StartMS,
			EndMS:     w1.EndMS,
			Windows:   append([]int(nil), run[chunkStart:i]...),
		})
		chunkStart = i
	}
	return out
}
