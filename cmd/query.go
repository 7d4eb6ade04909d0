package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/OZiad/league-of-legends-match-intelligence-system/internal/model"
	"github.com/OZiad/league-of-legends-match-intelligence-system/internal/query"
	"github.com/OZiad/league-of-legends-match-intelligence-system/internal/report"
	"github.com/OZiad/league-of-legends-match-intelligence-system/internal/storage"
)

var (
	queryChamp        string
	queryTopKiller    string
	queryTag          string
	queryMinKills     int
	queryMinParts     int
	queryMatchID      string
	queryTopPerMatch  int
	querySortBy       string
	queryMultiKillMin int
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query detected fights with structured filters",
	Long: `Filter, rank, and truncate the stored fight summaries. All filters are
conjunctive; --top-per-match truncates within each match independently
rather than globally.

Example:
  matchintel query --champ shaco --tag multi-kill --top-per-match 3`,
	Args: cobra.NoArgs,
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringVar(&queryChamp, "champ", "", "champion that must be involved")
	queryCmd.Flags().StringVar(&queryTopKiller, "top-killer", "", "champion with the most kills in the fight")
	queryCmd.Flags().StringVar(&queryTag, "tag", "", "derived tag (multi-kill, objective-fight)")
	queryCmd.Flags().IntVar(&queryMinKills, "min-kills", 0, "minimum total kills")
	queryCmd.Flags().IntVar(&queryMinParts, "min-participants", 0, "minimum unique participants")
	queryCmd.Flags().StringVar(&queryMatchID, "match", "", "restrict to one match ID")
	queryCmd.Flags().IntVar(&queryTopPerMatch, "top-per-match", 0, "keep only the top N fights per match")
	queryCmd.Flags().StringVar(&querySortBy, "sort-by", "", "rank key: kills (default), participants, or score")
	queryCmd.Flags().IntVar(&queryMultiKillMin, "multi-kill-min", query.DefaultTags.MultiKillThreshold,
		"kill threshold for the multi-kill tag")
}

func runQuery(cmd *cobra.Command, args []string) error {
	q := model.Query{
		Champion:        queryChamp,
		TopKillerChamp:  queryTopKiller,
		Tag:             queryTag,
		MinKills:        queryMinKills,
		MinParticipants: queryMinParts,
		MatchID:         queryMatchID,
		TopNPerMatch:    queryTopPerMatch,
		SortBy:          querySortBy,
	}
	return executeQuery(q, query.TagConfig{MultiKillThreshold: queryMultiKillMin})
}

// executeQuery runs a structured query against the stored summaries, prints
// the result, and persists it to the query_results table. Both the query
// and ask commands converge here.
func executeQuery(q model.Query, tags query.TagConfig) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	summaries, err := db.GetAllSummaries()
	if err != nil {
		return fmt.Errorf("load summaries: %w", err)
	}

	engine := query.NewEngine(summaries, tags)
	result, err := engine.Run(q)
	if err != nil {
		return fmt.Errorf("run query: %w", err)
	}

	if err := db.SaveQueryResult(result); err != nil {
		return fmt.Errorf("save query result: %w", err)
	}

	if len(result.Summaries) == 0 {
		fmt.Fprintln(os.Stdout, "No fights matched.")
		return nil
	}
	report.PrintFightTable(os.Stdout, result.Summaries, tags)
	fmt.Fprintf(os.Stdout, "\n(%d fights)\n", len(result.Summaries))
	return nil
}
