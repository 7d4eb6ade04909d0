package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/OZiad/league-of-legends-match-intelligence-system/internal/query"
	"github.com/OZiad/league-of-legends-match-intelligence-system/internal/report"
	"github.com/OZiad/league-of-legends-match-intelligence-system/internal/storage"
)

var showFeed bool

var showCmd = &cobra.Command{
	Use:   "show <match-id-prefix>",
	Short: "Show detected fights for one match",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showFeed, "feed", false, "print each fight's kill feed")
}

func runShow(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	info, err := db.GetMatchByPrefix(args[0])
	if err != nil {
		return fmt.Errorf("query match: %w", err)
	}
	if info == nil {
		fmt.Fprintf(os.Stderr, "No match found with ID prefix %q\n", args[0])
		return nil
	}

	summaries, err := db.GetSummaries(info.MatchID)
	if err != nil {
		return fmt.Errorf("get summaries: %w", err)
	}

	report.PrintMatchHeader(os.Stdout, *info)
	if len(summaries) == 0 {
		fmt.Fprintln(os.Stdout, "No fights detected in this match.")
		return nil
	}
	report.PrintFightTable(os.Stdout, summaries, query.DefaultTags)

	if showFeed {
		for _, s := range summaries {
			report.PrintKillFeed(os.Stdout, s)
		}
	}
	return nil
}
