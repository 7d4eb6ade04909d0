package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/OZiad/league-of-legends-match-intelligence-system/internal/storage"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the fights database",
	Long: `Run an arbitrary SQL query against the fights database and print results as a table.

Schema overview:
  matches(match_id, duration_ms, queue, fetched_at)
  participants(match_id, participant_id, champion)
  window_features(match_id, window_index, start_ms, end_ms, kill_count,
    unique_participants, unique_killers, assist_count, objective_count,
    dragon_count, baron_count, herald_count, atakhan_count, spatial_spread)
  fights(match_id, segment_id, cluster_id, start_ms, end_ms, window_first, window_last)
  fight_summaries(match_id, segment_id, cluster_id, start_ms, end_ms,
    clip_start_ms, clip_end_ms, total_kills, participants, top_killer_champ,
    top_killer_kills, champions JSON, kill_feed JSON, obj_dragon, obj_baron,
    obj_herald, obj_atakhan, obj_tower, obj_inhib)
  query_results(fingerprint, position, match_id, segment_id, total_kills, executed_at)`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	queryText := strings.Join(args, " ")
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	cols, rows, err := db.QueryRaw(queryText)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("(no rows)")
		return nil
	}

	table := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))

	colsAny := make([]any, len(cols))
	for i, c := range cols {
		colsAny[i] = c
	}
	table.Header(colsAny...)

	for _, row := range rows {
		rowAny := make([]any, len(row))
		for i, v := range row {
			rowAny[i] = v
		}
		table.Append(rowAny...)
	}
	table.Render()
	fmt.Fprintf(os.Stdout, "\n(%d rows)\n", len(rows))
	return nil
}
