package query

import (
	"testing"

	"github.com/OZiad/league-of-legends-match-intelligence-system/internal/model"
)

func fight(matchID string, segID int, startMS int64, kills, participants int, champs ...string) model.FightSummary {
	return model.FightSummary{
		MatchID:      matchID,
		SegmentID:    segID,
		StartMS:      startMS,
		EndMS:        startMS + 60_000,
		TotalKills:   kills,
		Participants: participants,
		Champions:    champs,
	}
}

// Fixture: match A has five multi-kill fights plus a single-kill skirmish,
// match B has two. All involve Shaco except A's segment 5.
func shacoFixture() []model.FightSummary {
	return []model.FightSummary{
		fight("NA1_A", 0, 100_000, 5, 6, "Shaco", "Ashe"),
		fight("NA1_A", 1, 200_000, 4, 8, "Shaco", "Lux"),
		fight("NA1_A", 2, 300_000, 3, 4, "Shaco", "Garen"),
		fight("NA1_A", 3, 400_000, 2, 5, "Shaco", "Jinx"),
		fight("NA1_A", 4, 500_000, 2, 3, "Shaco", "Ashe"),
		fight("NA1_A", 5, 600_000, 1, 2, "Lux", "Garen"),
		fight("NA1_B", 0, 150_000, 3, 7, "Shaco", "Vi"),
		fight("NA1_B", 1, 250_000, 2, 4, "Shaco", "Sona"),
	}
}

func mustRun(t *testing.T, e *Engine, q model.Query) []model.FightSummary {
	t.Helper()
	res, err := e.Run(q)
	if err != nil {
		t.Fatalf("Run(%+v): %v", q, err)
	}
	return res.Summaries
}

func ids(ss []model.FightSummary) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = s.MatchID + "/" + string(rune('0'+s.SegmentID))
	}
	return out
}

func assertIDs(t *testing.T, got []model.FightSummary, want ...string) {
	t.Helper()
	g := ids(got)
	if len(g) != len(want) {
		t.Fatalf("got %v, want %v", g, want)
	}
	for i := range want {
		if g[i] != want[i] {
			t.Fatalf("got %v, want %v", g, want)
		}
	}
}

func TestConjunctiveFilters(t *testing.T) {
	e := NewEngine(shacoFixture(), DefaultTags)

	// champion + tag + top-N-per-match, the canonical combined query.
	got := mustRun(t, e, model.Query{Champion: "Shaco", Tag: "multi-kill", TopNPerMatch: 3})
	// Match A keeps its top 3 by kills (5,4,3); both of B's qualify; A's
	// group comes first because A's fights arrived first.
	assertIDs(t, got, "NA1_A/0", "NA1_A/1", "NA1_A/2", "NA1_B/0", "NA1_B/1")
}

func TestChampionFilterIsCaseInsensitive(t *testing.T) {
	e := NewEngine(shacoFixture(), DefaultTags)
	got := mustRun(t, e, model.Query{Champion: "shaco", MatchID: "NA1_B"})
	assertIDs(t, got, "NA1_B/0", "NA1_B/1")
}

func TestMinKillsAndParticipants(t *testing.T) {
	e := NewEngine(shacoFixture(), DefaultTags)

	got := mustRun(t, e, model.Query{MinKills: 4})
	assertIDs(t, got, "NA1_A/0", "NA1_A/1")

	got = mustRun(t, e, model.Query{MinParticipants: 7})
	// Sorted by kills desc: A/1 has 4 kills, B/0 has 3.
	assertIDs(t, got, "NA1_A/1", "NA1_B/0")
}

func TestSortByParticipants(t *testing.T) {
	e := NewEngine(shacoFixture(), DefaultTags)
	got := mustRun(t, e, model.Query{MinKills: 3, SortBy: "participants"})
	// Participants desc: 8 (A/1), 7 (B/0), 6 (A/0), 4 (A/2).
	assertIDs(t, got, "NA1_A/1", "NA1_B/0", "NA1_A/0", "NA1_A/2")
}

func TestScoreWeights(t *testing.T) {
	s := fight("NA1_C", 0, 10_000, 2, 5)
	s.Objectives = model.ObjectiveTally{Baron: 1, Dragon: 2}

	// 3*2 kills + 1.5*5 participants + 4*3 objectives + 6 baron + 3*2 dragons.
	if got := DefaultScore.Score(s); got != 37.5 {
		t.Errorf("Score = %g, want 37.5", got)
	}

	// The contested-baron skirmish outranks a bigger brawl over nothing.
	brawl := fight("NA1_C", 1, 20_000, 5, 6)
	if DefaultScore.Score(brawl) >= DefaultScore.Score(s) {
		t.Errorf("objective fight (%g) should outscore plain brawl (%g)",
			DefaultScore.Score(s), DefaultScore.Score(brawl))
	}
}

func TestSortByScore(t *testing.T) {
	e := NewEngine(shacoFixture(), DefaultTags)
	got := mustRun(t, e, model.Query{MinKills: 2, SortBy: "score"})
	// Without objectives the score is 3*kills + 1.5*participants: A/0 and
	// A/1 tie at 24 and the earlier start wins.
	assertIDs(t, got, "NA1_A/0", "NA1_A/1", "NA1_B/0", "NA1_A/2", "NA1_A/3", "NA1_B/1", "NA1_A/4")
}

func TestRankTieBreaks(t *testing.T) {
	// Equal kills everywhere: earlier start wins, then match ID, then segment.
	ss := []model.FightSummary{
		fight("NA1_B", 0, 100_000, 2, 4),
		fight("NA1_A", 1, 100_000, 2, 4),
		fight("NA1_A", 0, 50_000, 2, 4),
	}
	e := NewEngine(ss, DefaultTags)
	got := mustRun(t, e, model.Query{MinKills: 1})
	assertIDs(t, got, "NA1_A/0", "NA1_A/1", "NA1_B/0")
}

func TestTagPredicates(t *testing.T) {
	obj := fight("NA1_C", 0, 10_000, 0, 3)
	obj.Objectives.Baron = 1
	towerOnly := fight("NA1_C", 1, 80_000, 1, 2)
	towerOnly.Objectives.Tower = 2

	e := NewEngine([]model.FightSummary{obj, towerOnly}, DefaultTags)

	got := mustRun(t, e, model.Query{Tag: "objective-fight"})
	// Building kills alone never make an objective fight.
	assertIDs(t, got, "NA1_C/0")

	if tags := DefaultTags.Tags(obj); len(tags) != 1 || tags[0] != "objective-fight" {
		t.Errorf("Tags(obj) = %v, want [objective-fight]", tags)
	}

	mk := fight("NA1_C", 2, 90_000, 2, 4)
	if tags := DefaultTags.Tags(mk); len(tags) != 1 || tags[0] != "multi-kill" {
		t.Errorf("Tags(mk) = %v, want [multi-kill]", tags)
	}
}

func TestMultiKillThresholdIsConfigurable(t *testing.T) {
	e := NewEngine(shacoFixture(), TagConfig{MultiKillThreshold: 4})
	got := mustRun(t, e, model.Query{Tag: "multi-kill"})
	assertIDs(t, got, "NA1_A/0", "NA1_A/1")
}

func TestUnknownTagAndSortKey(t *testing.T) {
	e := NewEngine(shacoFixture(), DefaultTags)
	if _, err := e.Run(model.Query{Tag: "pentakill"}); err == nil {
		t.Error("expected error for unknown tag")
	}
	if _, err := e.Run(model.Query{SortBy: "damage"}); err == nil {
		t.Error("expected error for unknown sort key")
	}
}

func TestEmptyResultIsNotAnError(t *testing.T) {
	e := NewEngine(shacoFixture(), DefaultTags)
	res, err := e.Run(model.Query{Champion: "Teemo"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Summaries) != 0 {
		t.Errorf("expected empty result, got %d", len(res.Summaries))
	}
}

func TestZeroQueryReturnsEverythingRanked(t *testing.T) {
	e := NewEngine(shacoFixture(), DefaultTags)
	got := mustRun(t, e, model.Query{})
	if len(got) != 8 {
		t.Fatalf("expected all 8 fights, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].TotalKills > got[i-1].TotalKills {
			t.Fatalf("not sorted by kills desc at %d: %v", i, ids(got))
		}
	}
}
