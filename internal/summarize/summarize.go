// Package summarize projects detected fight segments back onto their raw
// events, producing the read-only summaries the query layer consumes.
package summarize

import (
	"fmt"
	"sort"

	"github.com/OZiad/league-of-legends-match-intelligence-system/internal/model"
)

// ClipConfig pads the fight interval for clip extraction so the resulting
// video clip includes the engage and the aftermath.
type ClipConfig struct {
	PreMS  int64 // included before fight start
	PostMS int64 // included after fight end
}

// DefaultClip is 8s of lead-in and 6s of aftermath.
var DefaultClip = ClipConfig{PreMS: 8000, PostMS: 6000}

// Summarize builds one FightSummary per segment. Summarization is a pure
// projection: only events with timestamp in [StartMS, EndMS) contribute,
// except that a segment ending at the match end also owns its end bound,
// same as the final window. A segment with zero kills (formed from objective
// or assist density) yields a summary with an empty kill feed rather than an
// error.
func Summarize(segments []model.FightSegment, m *model.MatchEvents, clip ClipConfig) []model.FightSummary {
	out := make([]model.FightSummary, 0, len(segments))
	for _, seg := range segments {
		out = append(out, summarizeOne(seg, m, clip))
	}
	return out
}

func summarizeOne(seg model.FightSegment, m *model.MatchEvents, clip ClipConfig) model.FightSummary {
	s := model.FightSummary{
		MatchID:     seg.MatchID,
		ClusterID:   seg.ClusterID,
		SegmentID:   seg.SegmentID,
		StartMS:     seg.StartMS,
		EndMS:       seg.EndMS,
		ClipStartMS: max64(0, seg.StartMS-clip.PreMS),
		ClipEndMS:   seg.EndMS + clip.PostMS,
	}

	involved := make(map[int]struct{})
	killsBy := make(map[int]int)
	note := func(id int) {
		if id != 0 {
			involved[id] = struct{}{}
		}
	}

	closedEnd := seg.EndMS == m.DurationMS
	for _, ev := range m.Events {
		if ev.TimestampMS < seg.StartMS || ev.TimestampMS > seg.EndMS {
			continue
		}
		if ev.TimestampMS == seg.EndMS && !closedEnd {
			continue
		}
		switch ev.Type {
		case model.EventKill:
			s.TotalKills++
			note(ev.Actor)
			note(ev.Victim)
			if ev.Actor != 0 {
				killsBy[ev.Actor]++
			}
			entry := model.KillFeedEntry{
				TimestampMS: ev.TimestampMS,
				Killer:      champName(m, ev.Actor),
				Victim:      champName(m, ev.Victim),
			}
			for _, a := range ev.Assists {
				note(a)
				entry.Assists = append(entry.Assists, champName(m, a))
			}
			s.KillFeed = append(s.KillFeed, entry)

		case model.EventObjective:
			note(ev.Actor)
			switch ev.Monster {
			case "DRAGON":
				s.Objectives.Dragon++
			case "BARON_NASHOR":
				s.Objectives.Baron++
			case "RIFTHERALD":
				s.Objectives.Herald++
			case "ATAKHAN":
				s.Objectives.Atakhan++
			}

		case model.EventBuilding:
			note(ev.Actor)
			switch ev.Building {
			case "TOWER_BUILDING":
				s.Objectives.Tower++
			case "INHIBITOR_BUILDING":
				s.Objectives.Inhib++
			}
		}
	}

	s.Participants = len(involved)

	champs := make(map[string]struct{}, len(involved))
	for id := range involved {
		champs[champName(m, id)] = struct{}{}
	}
	for c := range champs {
		s.Champions = append(s.Champions, c)
	}
	sort.Strings(s.Champions)

	// Highest kill count wins; ties break on lowest participant ID so the
	// result does not depend on map iteration order.
	ids := make([]int, 0, len(killsBy))
	for id := range killsBy {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		if killsBy[id] > s.TopKillerKills {
			s.TopKillerKills = killsBy[id]
			s.TopKillerChampion = champName(m, id)
		}
	}
	return s
}

// champName resolves a participant ID through the match identity map,
// falling back to a synthetic label for IDs the match payload lacks.
func champName(m *model.MatchEvents, id int) string {
	if name, ok := m.Champions[id]; ok && name != "" {
		return name
	}
	return fmt.Sprintf("P%d", id)
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
