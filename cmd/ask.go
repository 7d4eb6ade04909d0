package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OZiad/league-of-legends-match-intelligence-system/internal/nlquery"
	"github.com/OZiad/league-of-legends-match-intelligence-system/internal/query"
	"github.com/OZiad/league-of-legends-match-intelligence-system/internal/storage"
)

var (
	askAI     bool
	askModel  string
	askAPIKey string
)

var askCmd = &cobra.Command{
	Use:   "ask <text>",
	Short: "Query detected fights with free text",
	Long: `Translates free text into a structured query and runs it. The default
translator is rule-based and fully offline; --ai routes the text through an
Anthropic model instead (requires ANTHROPIC_API_KEY). Text that maps to no
recognizable constraint is rejected — never guessed at.

Examples:
  matchintel ask "show me shaco multikill fights top 3 per match"
  matchintel ask --ai "which fights had a baron and at least 6 people?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askAI, "ai", false, "use the Anthropic translator instead of the rule-based one")
	askCmd.Flags().StringVar(&askModel, "model", "claude-haiku-4-5-20251001", "Anthropic model to use with --ai")
	askCmd.Flags().StringVar(&askAPIKey, "api-key", "", "Anthropic API key (falls back to $ANTHROPIC_API_KEY)")
}

func runAsk(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")

	var res *nlquery.Result
	var err error
	if askAI {
		apiKey := askAPIKey
		if apiKey == "" {
			apiKey = os.Getenv("ANTHROPIC_API_KEY")
		}
		if apiKey == "" {
			return fmt.Errorf("no API key: set ANTHROPIC_API_KEY or use --api-key")
		}
		res, err = nlquery.NewAITranslator(apiKey, askModel).Translate(cmd.Context(), text)
	} else {
		champs, cerr := knownChampions()
		if cerr != nil {
			return cerr
		}
		res, err = nlquery.Translate(text, champs)
	}
	if err != nil {
		if errors.Is(err, nlquery.ErrTranslationFailed) {
			return fmt.Errorf("query rejected: %w", err)
		}
		return err
	}

	for _, w := range res.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	fmt.Fprintf(os.Stdout, "Translated query: %+v\n\n", res.Query)

	return executeQuery(res.Query, query.DefaultTags)
}

// knownChampions builds the lowercase champion allow-list from the stored
// summaries, so the rule translator only claims tokens that actually name a
// champion seen in the data.
func knownChampions() (map[string]bool, error) {
	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	summaries, err := db.GetAllSummaries()
	if err != nil {
		return nil, fmt.Errorf("load summaries: %w", err)
	}

	out := make(map[string]bool)
	for _, s := range summaries {
		for _, c := range s.Champions {
			out[strings.ToLower(c)] = true
		}
	}
	return out, nil
}
