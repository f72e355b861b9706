package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/hersh/duotris/internal/match"
	"github.com/hersh/duotris/internal/storage"
	"github.com/hersh/duotris/internal/tui"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a match",
	Long: `Start a match with one board per configured player.

Default controls:
  Player 1  A/D move, S drop, W rotate
  Player 2  Left/Right move, Down drop, Up rotate
  Q/Ctrl+C  Quit
  Enter     Exit after the match is over

Examples:
  duotris play
  duotris play --seed 42
  duotris play --config ./duotris.yaml`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func runPlay(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	opts := []match.Option{match.WithLogger(logger)}
	if cfg.Seed != 0 {
		opts = append(opts, match.WithSeed(cfg.Seed))
	}

	// A match can run without a scores database
	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open scores database", "path", cfg.DBPath, "error", err)
	} else {
		defer store.Close()
		opts = append(opts, match.WithResultSaver(store))
	}

	names := make([]string, len(cfg.Players))
	for i, p := range cfg.Players {
		names[i] = p.Name
	}
	m := match.New(names, opts...)

	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	model := tui.NewModel(m, cfg).WithSize(width, height)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}

	if result, ok := m.Result(); ok {
		for _, seat := range result.Seats {
			fmt.Printf("%s: %d\n", seat.Name, seat.Score)
		}
		fmt.Printf("Leader: %s\n", result.Leader)
	}
	return nil
}
