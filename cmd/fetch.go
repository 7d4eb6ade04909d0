package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OZiad/league-of-legends-match-intelligence-system/internal/cache"
	"github.com/OZiad/league-of-legends-match-intelligence-system/internal/riot"
)

var (
	fetchRiotID string
	fetchRegion string
	fetchCount  int
	fetchQueue  int
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download match timelines from the Riot API into the local cache",
	Long: `Resolves a Riot ID to recent matches and caches each match's detail and
timeline payload. Detection runs entirely off the cache, so fetch once and
re-run 'detect' as often as you like.

Example:
  matchintel fetch --riot-id "YourName#NA1" --count 10`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringVar(&fetchRiotID, "riot-id", "", "Riot ID as gameName#tagLine (required)")
	fetchCmd.Flags().StringVar(&fetchRegion, "region", "americas", "regional routing value (americas, europe, asia, sea)")
	fetchCmd.Flags().IntVar(&fetchCount, "count", 10, "number of recent matches to fetch")
	fetchCmd.Flags().IntVar(&fetchQueue, "queue", 420, "queue filter (420 = ranked solo, 0 = all queues)")
	_ = fetchCmd.MarkFlagRequired("riot-id")
}

func runFetch(cmd *cobra.Command, args []string) error {
	apiKey := os.Getenv("RIOT_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("no API key: set RIOT_API_KEY (a .env file works too)")
	}

	gameName, tagLine, ok := strings.Cut(fetchRiotID, "#")
	if !ok || gameName == "" || tagLine == "" {
		return fmt.Errorf("invalid Riot ID %q: expected gameName#tagLine", fetchRiotID)
	}

	store, err := cache.Open(cacheDir)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}

	client := riot.NewClient(apiKey, fetchRegion)
	ctx := cmd.Context()

	account, err := client.GetAccountByRiotID(ctx, gameName, tagLine)
	if err != nil {
		return fmt.Errorf("resolve Riot ID: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Resolved %s#%s\n", account.GameName, account.TagLine)

	matchIDs, err := client.GetMatchIDs(ctx, account.PUUID, 0, fetchCount, fetchQueue)
	if err != nil {
		return fmt.Errorf("list matches: %w", err)
	}

	var fetched, cached, failed int
	for _, id := range matchIDs {
		if store.HasMatch(id) {
			cached++
			continue
		}

		// A failed match is logged and skipped; the rest of the batch continues.
		matchRaw, err := client.GetMatchRaw(ctx, id)
		if err != nil {
			fmt.Fprintf(os.Stderr, "skip %s: %v\n", id, err)
			failed++
			continue
		}
		tlRaw, err := client.GetTimelineRaw(ctx, id)
		if err != nil {
			fmt.Fprintf(os.Stderr, "skip %s: %v\n", id, err)
			failed++
			continue
		}
		if err := store.PutMatch(id, matchRaw); err != nil {
			return fmt.Errorf("cache match %s: %w", id, err)
		}
		if err := store.PutTimeline(id, tlRaw); err != nil {
			return fmt.Errorf("cache timeline %s: %w", id, err)
		}
		fmt.Fprintf(os.Stdout, "Fetched %s\n", id)
		fetched++
	}

	fmt.Fprintf(os.Stdout, "\nDone: %d fetched, %d already cached, %d failed.\n", fetched, cached, failed)
	if fetched+cached > 0 {
		fmt.Fprintln(os.Stdout, "Run 'matchintel detect' to find teamfights.")
	}
	return nil
}
