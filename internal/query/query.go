// Package query filters, ranks, and truncates fight summaries against a
// structured Query. It never inspects free text — translation is the
// nlquery adapter's job.
package query

import (
	"fmt"
	"sort"
	"strings"

	"github.com/OZiad/league-of-legends-match-intelligence-system/internal/model"
)

// TagConfig parameterizes the derived tag predicates. Tags are pure
// functions of a summary's fields — nothing is stored redundantly, so
// thresholds can change without touching persisted schemas.
type TagConfig struct {
	MultiKillThreshold int
}

// DefaultTags tags a fight "multi-kill" from two kills up.
var DefaultTags = TagConfig{MultiKillThreshold: 2}

// Predicates returns the known tag predicates keyed by tag name.
func (c TagConfig) Predicates() map[string]func(model.FightSummary) bool {
	return map[string]func(model.FightSummary) bool{
		"multi-kill": func(s model.FightSummary) bool {
			return s.TotalKills >= c.MultiKillThreshold
		},
		"objective-fight": func(s model.FightSummary) bool {
			return s.Objectives.Total() > 0
		},
	}
}

// Tags returns the tags that hold for a summary, sorted by name.
func (c TagConfig) Tags(s model.FightSummary) []string {
	var out []string
	for name, pred := range c.Predicates() {
		if pred(s) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// ScoreConfig weights the fight score: a single rank number blending kill
// volume, fight size, and objective stakes. Like tags, the score is derived
// from summary fields at query time and never stored.
type ScoreConfig struct {
	KillWeight         float64
	ParticipantsWeight float64
	ObjectiveWeight    float64
	BaronBonus         float64
	DragonBonus        float64
	HeraldBonus        float64
	AtakhanBonus       float64
}

// DefaultScore weights objectives heavily: a contested baron at 10 kills
// outranks a 10-kill brawl over nothing.
var DefaultScore = ScoreConfig{
	KillWeight:         3.0,
	ParticipantsWeight: 1.5,
	ObjectiveWeight:    4.0,
	BaronBonus:         6.0,
	DragonBonus:        3.0,
	HeraldBonus:        2.0,
	AtakhanBonus:       4.0,
}

// Score computes the weighted fight score for one summary.
func (c ScoreConfig) Score(s model.FightSummary) float64 {
	o := s.Objectives
	return c.KillWeight*float64(s.TotalKills) +
		c.ParticipantsWeight*float64(s.Participants) +
		c.ObjectiveWeight*float64(o.Total()) +
		c.BaronBonus*float64(o.Baron) +
		c.DragonBonus*float64(o.Dragon) +
		c.HeraldBonus*float64(o.Herald) +
		c.AtakhanBonus*float64(o.Atakhan)
}

// Engine evaluates queries over an immutable summary collection. Summaries
// are never mutated after construction, so concurrent Run calls need no
// locking.
type Engine struct {
	summaries []model.FightSummary
	tags      TagConfig
}

// NewEngine wraps a summary collection (possibly spanning many matches;
// arrival order is preserved for per-match grouping).
func NewEngine(summaries []model.FightSummary, tags TagConfig) *Engine {
	return &Engine{summaries: summaries, tags: tags}
}

// Run applies every populated Query field as a conjunctive predicate, ranks
// the survivors, and applies per-match truncation when requested.
func (e *Engine) Run(q model.Query) (*model.QueryResult, error) {
	var tagPred func(model.FightSummary) bool
	if q.Tag != "" {
		pred, ok := e.tags.Predicates()[strings.ToLower(q.Tag)]
		if !ok {
			return nil, fmt.Errorf("unknown tag %q", q.Tag)
		}
		tagPred = pred
	}
	rank, err := rankKey(q.SortBy)
	if err != nil {
		return nil, err
	}

	var matched []model.FightSummary
	for _, s := range e.summaries {
		if q.MatchID != "" && s.MatchID != q.MatchID {
			continue
		}
		if q.Champion != "" && !hasChampionFold(s, q.Champion) {
			continue
		}
		if q.TopKillerChamp != "" && !strings.EqualFold(s.TopKillerChampion, q.TopKillerChamp) {
			continue
		}
		if tagPred != nil && !tagPred(s) {
			continue
		}
		if q.MinKills > 0 && s.TotalKills < q.MinKills {
			continue
		}
		if q.MinParticipants > 0 && s.Participants < q.MinParticipants {
			continue
		}
		matched = append(matched, s)
	}

	if q.TopNPerMatch > 0 {
		matched = topNPerMatch(matched, q.TopNPerMatch, rank)
	} else {
		sortSummaries(matched, rank)
	}
	return &model.QueryResult{Query: q, Summaries: matched}, nil
}

// rankKey resolves the sort-key selector. The rank value sorts descending;
// ties break on earlier start time, then match ID, then segment ID, giving
// the deterministic total order top-N truncation requires.
func rankKey(sortBy string) (func(model.FightSummary) float64, error) {
	switch sortBy {
	case "", "kills":
		return func(s model.FightSummary) float64 { return float64(s.TotalKills) }, nil
	case "participants":
		return func(s model.FightSummary) float64 { return float64(s.Participants) }, nil
	case "score":
		return DefaultScore.Score, nil
	default:
		return nil, fmt.Errorf("unknown sort key %q", sortBy)
	}
}

func sortSummaries(ss []model.FightSummary, rank func(model.FightSummary) float64) {
	sort.SliceStable(ss, func(i, j int) bool {
		a, b := ss[i], ss[j]
		if ra, rb := rank(a), rank(b); ra != rb {
			return ra > rb
		}
		if a.StartMS != b.StartMS {
			return a.StartMS < b.StartMS
		}
		if a.MatchID != b.MatchID {
			return a.MatchID < b.MatchID
		}
		return a.SegmentID < b.SegmentID
	})
}

// topNPerMatch groups by match in arrival order, ranks and truncates each
// group independently, then concatenates the groups. Deliberately NOT a
// global top-N: one bloodbath match must not crowd every other match out of
// the result.
func topNPerMatch(ss []model.FightSummary, n int, rank func(model.FightSummary) float64) []model.FightSummary {
	groups := make(map[string][]model.FightSummary)
	var order []string
	for _, s := range ss {
		if _, seen := groups[s.MatchID]; !seen {
			order = append(order, s.MatchID)
		}
		groups[s.MatchID] = append(groups[s.MatchID], s)
	}

	var out []model.FightSummary
	for _, matchID := range order {
		g := groups[matchID]
		sortSummaries(g, rank)
		if len(g) > n {
			g = g[:n]
		}
		out = append(out, g...)
	}
	return out
}

func hasChampionFold(s model.FightSummary, champ string) bool {
	for _, c := range s.Champions {
		if strings.EqualFold(c, champ) {
			return true
		}
	}
	return false
}
