package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	dbPath   string
	cacheDir string
)

var rootCmd = &cobra.Command{
	Use:   "matchintel",
	Short: "LoL teamfight detection and query tool",
	Long: `Fetch League of Legends match timelines, detect teamfights with
density clustering, and query the detected fights by champion, tag, or
free text.`,
}

// Execute runs the root command.
func Execute() {
	// Optional .env for RIOT_API_KEY / ANTHROPIC_API_KEY.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	home := mustUserHome()
	rootCmd.PersistentFlags().StringVar(&dbPath, "db",
		filepath.Join(home, ".matchintel", "fights.db"), "path to SQLite database")
	rootCmd.PersistentFlags().StringVar(&cacheDir, "cache",
		filepath.Join(home, ".matchintel", "cache"), "path to the raw match cache")

	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(detectCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(dropCmd)
}

func mustUserHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
