// Package features slices a match's event stream into fixed-width windows
// and aggregates one feature vector per window.
package features

import (
	"fmt"
	"math"

	"github.com/OZiad/league-of-legends-match-intelligence-system/internal/model"
)

// DefaultSet is the default ordered feature selection fed to the detector.
var DefaultSet = []string{
	"kill_count",
	"unique_participants",
	"unique_killers",
	"assist_count",
	"objective_count",
	"dragon_count",
	"baron_count",
	"herald_count",
	"atakhan_count",
	"spatial_spread",
}

// Build produces the ordered, contiguous window sequence covering
// [0, match_duration] with one aggregated FeatureVector each. Events land in
// the window whose half-open interval [start, end) contains their timestamp;
// an event at exactly the match end lands in the final window. A match
// shorter than one window width yields exactly one (partial) window; the
// trailing partial window is always retained. A zero-duration match yields
// no windows.
func Build(m *model.MatchEvents, windowMS int64) ([]model.Window, error) {
	if windowMS <= 0 {
		return nil, fmt.Errorf("window width must be positive, got %dms", windowMS)
	}
	if m.DurationMS <= 0 {
		return nil, nil
	}

	n := int((m.DurationMS + windowMS - 1) / windowMS)
	windows := make([]model.Window, n)
	for i := range windows {
		start := int64(i) * windowMS
		end := start + windowMS
		if end > m.DurationMS {
			end = m.DurationMS
		}
		windows[i] = model.Window{
			MatchID: m.MatchID,
			Index:   i,
			StartMS: start,
			EndMS:   end,
		}
	}

	// Per-window scratch state for set-valued and positional features.
	participants := make([]map[int]struct{}, n)
	killers := make([]map[int]struct{}, n)
	positions := make([][]model.Position, n)
	addID := func(set []map[int]struct{}, w, id int) {
		if id == 0 {
			return
		}
		if set[w] == nil {
			set[w] = make(map[int]struct{})
		}
		set[w][id] = struct{}{}
	}

	for _, ev := range m.Events {
		w := int(ev.TimestampMS / windowMS)
		if w < 0 || ev.TimestampMS > m.DurationMS {
			return nil, fmt.Errorf("event at %dms outside match span [0, %dms]", ev.TimestampMS, m.DurationMS)
		}
		if w >= n {
			w = n - 1 // timestamp == match end
		}
		f := &windows[w].Features

		switch ev.Type {
		case model.EventKill:
			f.KillCount++
			f.AssistCount += len(ev.Assists)
			addID(participants, w, ev.Actor)
			addID(participants, w, ev.Victim)
			addID(killers, w, ev.Actor)
			for _, a := range ev.Assists {
				addID(participants, w, a)
			}
			if ev.HasPos {
				positions[w] = append(positions[w], ev.Pos)
			}
		case model.EventObjective:
			f.ObjectiveCount++
			addID(participants, w, ev.Actor)
			switch ev.Monster {
			case "DRAGON":
				f.DragonCount++
			case "BARON_NASHOR":
				f.BaronCount++
			case "RIFTHERALD":
				f.HeraldCount++
			case "ATAKHAN":
				f.AtakhanCount++
			}
		case model.EventBuilding:
			addID(participants, w, ev.Actor)
		}
	}

	for i := range windows {
		windows[i].Features.UniqueParticipants = len(participants[i])
		windows[i].Features.UniqueKillers = len(killers[i])
		windows[i].Features.SpatialSpread = spread(positions[i])
	}
	return windows, nil
}

// spread returns the standard deviation of the positions' distance from
// their centroid. Fewer than two positions carry no dispersion signal.
func spread(ps []model.Position) float64 {
	if len(ps) < 2 {
		return 0
	}
	var cx, cy float64
	for _, p := range ps {
		cx += p.X
		cy += p.Y
	}
	cx /= float64(len(ps))
	cy /= float64(len(ps))

	var sum float64
	for _, p := range ps {
		dx, dy := p.X-cx, p.Y-cy
		sum += dx*dx + dy*dy
	}
	return math.Sqrt(sum / float64(len(ps)))
}

// Vector extracts the selected dimensions of a FeatureVector, in order.
func Vector(f model.FeatureVector, names []string) ([]float64, error) {
	out := make([]float64, len(names))
	for i, name := range names {
		switch name {
		case "kill_count":
			out[i] = float64(f.KillCount)
		case "unique_participants":
			out[i] = float64(f.UniqueParticipants)
		case "unique_killers":
			out[i] = float64(f.UniqueKillers)
		case "assist_count":
			out[i] = float64(f.AssistCount)
		case "objective_count":
			out[i] = float64(f.ObjectiveCount)
		case "dragon_count":
			out[i] = float64(f.DragonCount)
		case "baron_count":
			out[i] = float64(f.BaronCount)
		case "herald_count":
			out[i] = float64(f.HeraldCount)
		case "atakhan_count":
			out[i] = float64(f.AtakhanCount)
		case "spatial_spread":
			out[i] = f.SpatialSpread
		default:
			return nil, fmt.Errorf("unknown feature %q", name)
		}
	}
	return out, nil
}

// ValidateSet checks a feature selection without extracting anything.
func ValidateSet(names []string) error {
	if len(names) == 0 {
		return fmt.Errorf("feature set must not be empty")
	}
	_, err := Vector(model.FeatureVector{}, names)
	return err
}
