// Package report renders fights and query results as terminal tables.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/OZiad/league-of-legends-match-intelligence-system/internal/model"
	"github.com/OZiad/league-of-legends-match-intelligence-system/internal/query"
)

// Clock formats a millisecond offset from game start as m:ss.
func Clock(ms int64) string {
	secs := ms / 1000
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// PrintMatchHeader prints a one-line summary header for a match.
func PrintMatchHeader(w io.Writer, info model.MatchInfo) {
	fmt.Fprintf(w, "\nMatch: %s  |  Duration: %s  |  Queue: %d  |  Fights: %d\n\n",
		info.MatchID, Clock(info.DurationMS), info.Queue, info.FightCount)
}

// PrintFightTable renders one row per fight summary. Tags are derived on
// the fly from the summaries — they are never stored.
func PrintFightTable(w io.Writer, summaries []model.FightSummary, tags query.TagConfig) {
	table := newTable(w)
	table.Header("MATCH", "SEG", "START", "END", "DUR", "KILLS", "PARTS", "SCORE", "TOP KILLER", "OBJ", "TAGS")

	for _, s := range summaries {
		topKiller := "—"
		if s.TopKillerChampion != "" {
			topKiller = fmt.Sprintf("%s (%d)", s.TopKillerChampion, s.TopKillerKills)
		}
		table.Append(
			shortMatchID(s.MatchID),
			strconv.Itoa(s.SegmentID),
			Clock(s.StartMS),
			Clock(s.EndMS),
			fmt.Sprintf("%ds", s.DurationSeconds()),
			strconv.Itoa(s.TotalKills),
			strconv.Itoa(s.Participants),
			fmt.Sprintf("%.1f", query.DefaultScore.Score(s)),
			topKiller,
			objString(s.Objectives),
			strings.Join(tags.Tags(s), ";"),
		)
	}
	table.Render()
}

// PrintKillFeed prints a fight's resolved kill feed, one line per kill.
func PrintKillFeed(w io.Writer, s model.FightSummary) {
	fmt.Fprintf(w, "\nFight %d  %s–%s  (clip %s–%s)\n",
		s.SegmentID, Clock(s.StartMS), Clock(s.EndMS), Clock(s.ClipStartMS), Clock(s.ClipEndMS))
	if len(s.KillFeed) == 0 {
		fmt.Fprintln(w, "  (no kills — objective/assist density fight)")
		return
	}
	for _, k := range s.KillFeed {
		line := fmt.Sprintf("  [%s] %s -> %s", Clock(k.TimestampMS), k.Killer, k.Victim)
		if len(k.Assists) > 0 {
			line += fmt.Sprintf(" (assists: %s)", strings.Join(k.Assists, ", "))
		}
		fmt.Fprintln(w, line)
	}
}

// PrintWindowTable renders a match's window features, for debugging a
// detection run.
func PrintWindowTable(w io.Writer, windows []model.Window) {
	table := newTable(w)
	table.Header("IDX", "START", "END", "KILLS", "PARTS", "KILLERS", "ASSISTS", "OBJ", "SPREAD")
	for _, win := range windows {
		f := win.Features
		table.Append(
			strconv.Itoa(win.Index),
			Clock(win.StartMS),
			Clock(win.EndMS),
			strconv.Itoa(f.KillCount),
			strconv.Itoa(f.UniqueParticipants),
			strconv.Itoa(f.UniqueKillers),
			strconv.Itoa(f.AssistCount),
			strconv.Itoa(f.ObjectiveCount),
			fmt.Sprintf("%.0f", f.SpatialSpread),
		)
	}
	table.Render()
}

func objString(o model.ObjectiveTally) string {
	var parts []string
	add := func(label string, n int) {
		if n > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", label, n))
		}
	}
	add("drake", o.Dragon)
	add("baron", o.Baron)
	add("herald", o.Herald)
	add("atakhan", o.Atakhan)
	add("tower", o.Tower)
	add("inhib", o.Inhib)
	if len(parts) == 0 {
		return "—"
	}
	return strings.Join(parts, " ")
}

// shortMatchID trims the regional prefix (e.g. "NA1_") to keep the table
// narrow; full IDs remain in storage.
func shortMatchID(id string) string {
	if i := strings.IndexByte(id, '_'); i >= 0 && i+1 < len(id) {
		return id[i+1:]
	}
	return id
}
