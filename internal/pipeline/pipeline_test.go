package pipeline

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/OZiad/league-of-legends-match-intelligence-system/internal/model"
)

// burstMatch builds a 10-minute match that is quiet except for three
// consecutive 30s windows (4, 5, 6) each carrying the same three kills.
// Under the default parameters those windows cluster together while the
// identical quiet windows are filtered out as eventless.
func burstMatch(matchID string) *model.MatchEvents {
	m := &model.MatchEvents{
		MatchID:    matchID,
		DurationMS: 600_000,
		Queue:      420,
		Champions: map[int]string{
			1: "Shaco", 2: "Ashe", 6: "Jinx", 7: "Garen", 8: "Lux",
		},
	}
	for w := 4; w <= 6; w++ {
		base := int64(w) * 30_000
		m.Events = append(m.Events,
			model.Event{MatchID: matchID, TimestampMS: base + 1_000, Type: model.EventKill, Actor: 1, Victim: 6},
			model.Event{MatchID: matchID, TimestampMS: base + 5_000, Type: model.EventKill, Actor: 2, Victim: 7},
			model.Event{MatchID: matchID, TimestampMS: base + 9_000, Type: model.EventKill, Actor: 1, Victim: 8},
		)
	}
	return m
}

func burstLoader(matchID string) (*model.MatchEvents, error) {
	return burstMatch(matchID), nil
}

func TestRunEndToEnd(t *testing.T) {
	results, err := Run(Default(), []string{"NA1_1"}, burstLoader)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	res := results[0]
	if res.Err != nil {
		t.Fatalf("match failed: %v", res.Err)
	}

	if len(res.Windows) != 20 {
		t.Errorf("windows = %d, want 20", len(res.Windows))
	}
	// The 90s burst run splits at the 60s cap into 60s + 30s.
	if len(res.Fights) != 2 {
		t.Fatalf("fights = %d, want 2: %+v", len(res.Fights), res.Fights)
	}
	if res.Fights[0].StartMS != 120_000 || res.Fights[0].EndMS != 180_000 {
		t.Errorf("fight 0 span = [%d, %d], want [120000, 180000]",
			res.Fights[0].StartMS, res.Fights[0].EndMS)
	}
	if res.Fights[1].StartMS != 180_000 || res.Fights[1].EndMS != 210_000 {
		t.Errorf("fight 1 span = [%d, %d], want [180000, 210000]",
			res.Fights[1].StartMS, res.Fights[1].EndMS)
	}

	if len(res.Summaries) != 2 {
		t.Fatalf("summaries = %d, want 2", len(res.Summaries))
	}
	s := res.Summaries[0]
	if s.TotalKills != 6 {
		t.Errorf("fight 0 kills = %d, want 6", s.TotalKills)
	}
	if s.Participants != 5 {
		t.Errorf("fight 0 participants = %d, want 5", s.Participants)
	}
	if s.TopKillerChampion != "Shaco" || s.TopKillerKills != 4 {
		t.Errorf("fight 0 top killer = %s (%d), want Shaco (4)", s.TopKillerChampion, s.TopKillerKills)
	}
	if s.ClipStartMS != 112_000 || s.ClipEndMS != 186_000 {
		t.Errorf("fight 0 clip = [%d, %d], want [112000, 186000]", s.ClipStartMS, s.ClipEndMS)
	}
}

func TestRunPreservesInputOrder(t *testing.T) {
	ids := []string{"NA1_5", "NA1_1", "NA1_3", "NA1_9", "NA1_2", "NA1_8", "NA1_7", "NA1_4"}
	cfg := Default()
	cfg.Workers = 4

	results, err := Run(cfg, ids, burstLoader)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for i, res := range results {
		if res.MatchID != ids[i] {
			t.Errorf("slot %d holds %s, want %s", i, res.MatchID, ids[i])
		}
	}
}

func TestRunIsolatesFailures(t *testing.T) {
	sentinel := errors.New("riot said no")
	load := func(matchID string) (*model.MatchEvents, error) {
		switch {
		case strings.HasSuffix(matchID, "BAD"):
			return nil, sentinel
		case strings.HasSuffix(matchID, "PANIC"):
			panic("malformed payload")
		default:
			return burstMatch(matchID), nil
		}
	}

	results, err := Run(Default(), []string{"NA1_OK1", "NA1_BAD", "NA1_PANIC", "NA1_OK2"}, load)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if results[0].Err != nil || results[3].Err != nil {
		t.Errorf("healthy matches failed: %v, %v", results[0].Err, results[3].Err)
	}
	if !errors.Is(results[1].Err, sentinel) {
		t.Errorf("slot 1 error = %v, want wrapped sentinel", results[1].Err)
	}
	if results[2].Err == nil || !strings.Contains(results[2].Err.Error(), "panic") {
		t.Errorf("slot 2 error = %v, want contained panic", results[2].Err)
	}
	if len(results[0].Fights) == 0 {
		t.Error("healthy match should still have fights")
	}
}

func TestRunDeterministicAcrossWorkerCounts(t *testing.T) {
	ids := []string{"NA1_1", "NA1_2", "NA1_3"}

	serial := Default()
	serial.Workers = 1
	parallel := Default()
	parallel.Workers = 8

	a, err := Run(serial, ids, burstLoader)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Run(parallel, ids, burstLoader)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("results differ between 1 and 8 workers")
	}
}

func TestRunEmptyBatch(t *testing.T) {
	results, err := Run(Default(), nil, burstLoader)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected empty results, got %d", len(results))
	}
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero window", func(c *Config) { c.WindowSeconds = 0 }},
		{"cap below window", func(c *Config) { c.MaxFightSeconds = 10 }},
		{"negative clip", func(c *Config) { c.ClipPreSeconds = -1 }},
		{"zero workers", func(c *Config) { c.Workers = 0 }},
		{"bad eps", func(c *Config) { c.Eps = 0 }},
		{"bad feature", func(c *Config) { c.Features = []string{"nope"} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			if _, err := Run(cfg, []string{"NA1_1"}, burstLoader); err == nil {
				t.Error("expected config error")
			}
		})
	}
}
