package model

// EventType classifies a timeline event relevant to fight detection.
type EventType int

const (
	EventUnknown EventType = iota
	EventKill
	EventObjective
	EventBuilding
)

func (t EventType) String() string {
	switch t {
	case EventKill:
		return "kill"
	case EventObjective:
		return "objective"
	case EventBuilding:
		return "building"
	default:
		return "?"
	}
}

// ---- Raw events produced by the timeline parser ----

// Position is a 2D map coordinate in Summoner's Rift units.
type Position struct{ X, Y float64 }

// Event is a single timestamped match event. Timestamps are milliseconds
// from game start. Actor/Victim/Assists are participant IDs (1–10);
// 0 means unattributed (e.g. executed by a turret or jungle monster).
type Event struct {
	MatchID     string
	TimestampMS int64
	Type        EventType
	Actor       int
	Victim      int
	Assists     []int
	Monster     string // ELITE_MONSTER_KILL: DRAGON, BARON_NASHOR, RIFTHERALD, ATAKHAN
	Building    string // BUILDING_KILL: TOWER_BUILDING, INHIBITOR_BUILDING
	Pos         Position
	HasPos      bool
}

// MatchEvents is the Event Source contract for one match: an identity map
// plus the full event list ordered by timestamp.
type MatchEvents struct {
	MatchID    string
	DurationMS int64
	Queue      int
	Champions  map[int]string // participantId → champion name
	Events     []Event
}

// ---- Windowed features ----

// FeatureVector holds per-window aggregate counters. All values are raw
// counts, not rates: absolute event density is the detection signal, so a
// trailing partial window is deliberately not time-normalized.
type FeatureVector struct {
	KillCount          int
	UniqueParticipants int
	UniqueKillers      int
	AssistCount        int
	ObjectiveCount     int
	DragonCount        int
	BaronCount         int
	HeraldCount        int
	AtakhanCount       int
	SpatialSpread      float64 // std-dev of kill positions around their centroid, 0 if <2 positioned events
}

// Window is one fixed-width time slice of a match. Windows for a match are
// contiguous, non-overlapping, ordered by Index, and together span exactly
// [0, match_duration]. Events fall into the half-open interval
// [StartMS, EndMS) except the final window, which also owns its end bound.
type Window struct {
	MatchID  string
	Index    int
	StartMS  int64
	EndMS    int64
	Features FeatureVector
}

// DurationMS returns the window length; only the trailing window of a match
// may be shorter than the configured width.
func (w Window) DurationMS() int64 { return w.EndMS - w.StartMS }

// Noise is the sentinel cluster label for windows not density-reachable
// from any core point.
const Noise = -1

// ---- Detected fights ----

// FightSegment is one detected teamfight: a time-contiguous run of non-noise
// windows, capped at the configured maximum duration.
type FightSegment struct {
	MatchID   string
	ClusterID int
	SegmentID int // per-match ordinal, assigned in start-time order
	StartMS   int64
	EndMS     int64
	Windows   []int // source window indices, ascending and contiguous
}

func (s FightSegment) DurationMS() int64 { return s.EndMS - s.StartMS }

// KillFeedEntry is one resolved line of a fight's kill feed.
type KillFeedEntry struct {
	TimestampMS int64    `json:"ts_ms"`
	Killer      string   `json:"killer"`
	Victim      string   `json:"victim"`
	Assists     []string `json:"assists,omitempty"`
}

// ObjectiveTally counts objective takes inside a fight by type.
type ObjectiveTally struct {
	Dragon  int `json:"dragon"`
	Baron   int `json:"baron"`
	Herald  int `json:"herald"`
	Atakhan int `json:"atakhan"`
	Tower   int `json:"tower"`
	Inhib   int `json:"inhib"`
}

// Total returns the number of elite-monster objectives (buildings excluded).
func (o ObjectiveTally) Total() int { return o.Dragon + o.Baron + o.Herald + o.Atakhan }

// FightSummary is the read-only projection of one FightSegment back onto its
// raw events.
type FightSummary struct {
	MatchID     string
	ClusterID   int
	SegmentID   int
	StartMS     int64
	EndMS       int64
	ClipStartMS int64 // StartMS minus pre-roll padding, floored at 0
	ClipEndMS   int64 // EndMS plus post-roll padding
	TotalKills  int
	Champions   []string // sorted, deduplicated participant champions
	KillFeed    []KillFeedEntry
	Objectives  ObjectiveTally

	TopKillerChampion string
	TopKillerKills    int
	Participants      int
}

// DurationSeconds returns the fight length in whole seconds.
func (s FightSummary) DurationSeconds() int64 { return (s.EndMS - s.StartMS) / 1000 }

// HasChampion reports whether the given champion fought in this fight.
// Stored names keep Riot casing; case folding is the caller's concern.
func (s FightSummary) HasChampion(name string) bool {
	for _, c := range s.Champions {
		if c == name {
			return true
		}
	}
	return false
}

// ---- Queries ----

// Query is a structured fight query. Every field is optional; a zero field
// means "no filter on that dimension".
type Query struct {
	Champion        string
	TopKillerChamp  string
	Tag             string
	MinKills        int
	MinParticipants int
	MatchID         string
	TopNPerMatch    int
	SortBy          string // "kills" (default), "participants", or "score"
}

// IsZero reports whether the query carries no filter, ranking override, or
// truncation at all.
func (q Query) IsZero() bool {
	return q == Query{}
}

// QueryResult is an ordered sequence of summaries satisfying a Query.
type QueryResult struct {
	Query     Query
	Summaries []FightSummary
}

// MatchInfo is a lightweight record for list/show commands.
type MatchInfo struct {
	MatchID    string
	DurationMS int64
	Queue      int
	FetchedAt  string
	FightCount int
}
