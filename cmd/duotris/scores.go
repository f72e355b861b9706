package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hersh/duotris/internal/storage"
)

var flagLimit int

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show top scores and recent matches",
	Long: `Display the best single-player scores and the most recent matches.

Examples:
  duotris scores
  duotris scores --limit 20`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of entries to show")
}

func runScores(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	scores, err := store.TopScores(flagLimit)
	if err != nil {
		return err
	}

	fmt.Println("High Scores")
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'duotris play' to set the first high score!")
		return nil
	}

	fmt.Printf("  %-4s  %-16s  %-8s  %-6s  %s\n", "Rank", "Name", "Score", "Lines", "Date")
	fmt.Printf("  %-4s  %-16s  %-8s  %-6s  %s\n", "----", "----", "-----", "-----", "----")
	for i, e := range scores {
		fmt.Printf("  %-4d  %-16s  %-8d  %-6d  %s\n", i+1, e.Name, e.Score, e.Lines, e.CreatedAt.Format("2006-01-02 15:04"))
	}

	matches, err := store.RecentMatches(flagLimit)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("Recent Matches")
	fmt.Println()
	for _, r := range matches {
		line := r.CreatedAt.Format("2006-01-02 15:04")
		for _, s := range r.Seats {
			line += fmt.Sprintf("  %s %d", s.Name, s.Score)
		}
		fmt.Printf("  %s  (leader: %s)\n", line, r.Leader)
	}

	if high, err := store.HighScore(); err == nil {
		fmt.Println()
		fmt.Printf("Best: %d\n", high)
	}
	return nil
}
