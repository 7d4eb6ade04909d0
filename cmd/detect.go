package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/OZiad/league-of-legends-match-intelligence-system/internal/cache"
	"github.com/OZiad/league-of-legends-match-intelligence-system/internal/model"
	"github.com/OZiad/league-of-legends-match-intelligence-system/internal/pipeline"
	"github.com/OZiad/league-of-legends-match-intelligence-system/internal/query"
	"github.com/OZiad/league-of-legends-match-intelligence-system/internal/report"
	"github.com/OZiad/league-of-legends-match-intelligence-system/internal/storage"
	"github.com/OZiad/league-of-legends-match-intelligence-system/internal/timeline"
)

var (
	detectWindow     int
	detectEps        float64
	detectMinSamples int
	detectMaxFight   int
	detectFeatures   []string
	detectWorkers    int
	detectMatch      string
)

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Detect teamfights in all cached matches and store the results",
	Long: `Runs the full pipeline over every cached match: per-window feature
extraction, density clustering, fight segmentation, and summarization.
Matches process in parallel; a failure in one match never aborts the rest.`,
	Args: cobra.NoArgs,
	RunE: runDetect,
}

func init() {
	defaults := pipeline.Default()
	detectCmd.Flags().IntVar(&detectWindow, "window", defaults.WindowSeconds, "window width in seconds")
	detectCmd.Flags().Float64Var(&detectEps, "eps", defaults.Eps, "DBSCAN neighborhood radius (normalized feature space)")
	detectCmd.Flags().IntVar(&detectMinSamples, "min-samples", defaults.MinSamples, "DBSCAN minimum neighbors for a core window")
	detectCmd.Flags().IntVar(&detectMaxFight, "max-fight", defaults.MaxFightSeconds, "maximum fight duration in seconds")
	detectCmd.Flags().StringSliceVar(&detectFeatures, "features", defaults.Features, "ordered feature selection")
	detectCmd.Flags().IntVar(&detectWorkers, "workers", defaults.Workers, "parallel match workers")
	detectCmd.Flags().StringVar(&detectMatch, "match", "", "only process this match ID")
}

func detectConfig() pipeline.Config {
	cfg := pipeline.Default()
	cfg.WindowSeconds = detectWindow
	cfg.Eps = detectEps
	cfg.MinSamples = detectMinSamples
	cfg.MaxFightSeconds = detectMaxFight
	cfg.Features = detectFeatures
	cfg.Workers = detectWorkers
	return cfg
}

func runDetect(cmd *cobra.Command, args []string) error {
	cfg := detectConfig()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	store, err := cache.Open(cacheDir)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	matchIDs, err := store.ListMatches()
	if err != nil {
		return err
	}
	if detectMatch != "" {
		matchIDs = []string{detectMatch}
	}
	if len(matchIDs) == 0 {
		fmt.Fprintln(os.Stdout, "No cached matches. Run 'matchintel fetch' first.")
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	load := func(matchID string) (*model.MatchEvents, error) {
		matchJSON, err := store.GetMatch(matchID)
		if err != nil {
			return nil, err
		}
		tlJSON, err := store.GetTimeline(matchID)
		if err != nil {
			return nil, err
		}
		return timeline.Parse(matchID, matchJSON, tlJSON)
	}

	fmt.Fprintf(os.Stdout, "Processing %d matches (%d workers)...\n", len(matchIDs), cfg.Workers)
	results, err := pipeline.Run(cfg, matchIDs, load)
	if err != nil {
		return err
	}

	var allSummaries []model.FightSummary
	var failed int
	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintf(os.Stderr, "skip %s: %v\n", res.MatchID, res.Err)
			failed++
			continue
		}
		if err := db.InsertMatch(res.Events); err != nil {
			return fmt.Errorf("store match: %w", err)
		}
		if err := db.ClearMatchDerived(res.MatchID); err != nil {
			return err
		}
		if err := db.InsertWindows(res.Windows); err != nil {
			return fmt.Errorf("store windows: %w", err)
		}
		if err := db.InsertFights(res.Fights); err != nil {
			return fmt.Errorf("store fights: %w", err)
		}
		if err := db.InsertSummaries(res.Summaries); err != nil {
			return fmt.Errorf("store summaries: %w", err)
		}
		fmt.Fprintf(os.Stdout, "%s: %d windows, %d fights\n",
			res.MatchID, len(res.Windows), len(res.Fights))
		allSummaries = append(allSummaries, res.Summaries...)
	}

	if len(allSummaries) > 0 {
		fmt.Fprintln(os.Stdout)
		report.PrintFightTable(os.Stdout, allSummaries, query.DefaultTags)
	}
	fmt.Fprintf(os.Stdout, "\nDone: %d matches processed, %d failed, %d fights detected.\n",
		len(results)-failed, failed, len(allSummaries))
	return nil
}
