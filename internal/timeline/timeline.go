// Package timeline decodes Riot Match-V5 match and timeline payloads into
// the ordered event stream consumed by the detection pipeline.
package timeline

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/OZiad/league-of-legends-match-intelligence-system/internal/model"
)

// objectiveMonsters are the elite monsters that count as objective events.
var objectiveMonsters = map[string]bool{
	"DRAGON":       true,
	"BARON_NASHOR": true,
	"RIFTHERALD":   true,
	"ATAKHAN":      true,
}

// Match mirrors the subset of the Match-V5 /matches/{id} payload we need.
type Match struct {
	Metadata struct {
		MatchID string `json:"matchId"`
	} `json:"metadata"`
	Info struct {
		GameDuration int64 `json:"gameDuration"` // seconds
		QueueID      int   `json:"queueId"`
		Participants []struct {
			ParticipantID int    `json:"participantId"`
			ChampionName  string `json:"championName"`
		} `json:"participants"`
	} `json:"info"`
}

// Timeline mirrors the subset of the /matches/{id}/timeline payload we need.
type Timeline struct {
	Metadata struct {
		MatchID string `json:"matchId"`
	} `json:"metadata"`
	Info struct {
		FrameInterval int64 `json:"frameInterval"`
		Frames        []struct {
			Timestamp int64   `json:"timestamp"`
			Events    []event `json:"events"`
		} `json:"frames"`
	} `json:"info"`
}

// event is the raw wire shape shared by all timeline event types.
type event struct {
	Type         string `json:"type"`
	Timestamp    int64  `json:"timestamp"`
	KillerID     int    `json:"killerId"`
	VictimID     int    `json:"victimId"`
	Assists      []int  `json:"assistingParticipantIds"`
	MonsterType  string `json:"monsterType"`
	BuildingType string `json:"buildingType"`
	Position     *struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	} `json:"position"`
}

// Parse decodes the raw match and timeline JSON for one match into a
// MatchEvents. The returned event list is ordered by timestamp (stable for
// equal timestamps, preserving wire order).
func Parse(matchID string, matchJSON, timelineJSON []byte) (*model.MatchEvents, error) {
	var m Match
	if err := json.Unmarshal(matchJSON, &m); err != nil {
		return nil, fmt.Errorf("decode match %s: %w", matchID, err)
	}
	var tl Timeline
	if err := json.Unmarshal(timelineJSON, &tl); err != nil {
		return nil, fmt.Errorf("decode timeline %s: %w", matchID, err)
	}

	out := &model.MatchEvents{
		MatchID:   matchID,
		Queue:     m.Info.QueueID,
		Champions: make(map[int]string, len(m.Info.Participants)),
	}
	for _, p := range m.Info.Participants {
		if p.ParticipantID > 0 {
			out.Champions[p.ParticipantID] = p.ChampionName
		}
	}

	var lastFrameTS int64
	for _, fr := range tl.Info.Frames {
		if fr.Timestamp > lastFrameTS {
			lastFrameTS = fr.Timestamp
		}
		for _, ev := range fr.Events {
			conv, ok := convert(matchID, ev)
			if !ok {
				continue
			}
			out.Events = append(out.Events, conv)
		}
	}

	// Match-V5 reports gameDuration in seconds; older payloads may omit it,
	// in which case the last frame timestamp bounds the match.
	out.DurationMS = m.Info.GameDuration * 1000
	if out.DurationMS == 0 {
		out.DurationMS = lastFrameTS
	}
	for _, ev := range out.Events {
		if ev.TimestampMS > out.DurationMS {
			out.DurationMS = ev.TimestampMS
		}
	}

	sort.SliceStable(out.Events, func(i, j int) bool {
		return out.Events[i].TimestampMS < out.Events[j].TimestampMS
	})
	return out, nil
}

// convert maps one wire event onto the model, dropping event types the
// detector does not use.
func convert(matchID string, ev event) (model.Event, bool) {
	e := model.Event{
		MatchID:     matchID,
		TimestampMS: ev.Timestamp,
	}
	if ev.Position != nil {
		e.Pos = model.Position{X: ev.Position.X, Y: ev.Position.Y}
		e.HasPos = true
	}

	switch ev.Type {
	case "CHAMPION_KILL":
		e.Type = model.EventKill
		e.Actor = ev.KillerID
		e.Victim = ev.VictimID
		if len(ev.Assists) > 0 {
			e.Assists = append([]int(nil), ev.Assists...)
		}
	case "ELITE_MONSTER_KILL":
		if !objectiveMonsters[ev.MonsterType] {
			return model.Event{}, false
		}
		e.Type = model.EventObjective
		e.Actor = ev.KillerID
		e.Monster = ev.MonsterType
	case "BUILDING_KILL":
		e.Type = model.EventBuilding
		e.Actor = ev.KillerID
		e.Building = ev.BuildingType
	default:
		return model.Event{}, false
	}
	return e, true
}
