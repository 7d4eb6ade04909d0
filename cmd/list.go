package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/OZiad/league-of-legends-match-intelligence-system/internal/report"
	"github.com/OZiad/league-of-legends-match-intelligence-system/internal/storage"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all processed matches",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	matches, err := db.ListMatches()
	if err != nil {
		return fmt.Errorf("list matches: %w", err)
	}
	if len(matches) == 0 {
		fmt.Fprintln(os.Stdout, "No matches processed yet. Run 'matchintel detect' to add some.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-20s  %8s  %6s  %6s  %s\n",
		"MATCH", "DURATION", "QUEUE", "FIGHTS", "FETCHED")
	fmt.Fprintf(os.Stdout, "%-20s  %8s  %6s  %6s  %s\n",
		"────────────────────", "────────", "──────", "──────", "───────")
	for _, m := range matches {
		fmt.Fprintf(os.Stdout, "%-20s  %8s  %6d  %6d  %s\n",
			m.MatchID, report.Clock(m.DurationMS), m.Queue, m.FightCount, m.FetchedAt)
	}
	return nil
}
