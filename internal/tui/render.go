package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hersh/duotris/internal/game"
	"github.com/hersh/duotris/internal/match"
)

var (
	// Indexed by piece color id: I, T, O, S, Z, J, L.
	colors = []string{
		"51",
		"201",
		"226",
		"46",
		"196",
		"21",
		"208",
	}

	// The grid keeps occupancy only, so settled cells share one color.
	settledColor = "248"
	ghostColor   = "244"

	boardStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("15"))

	deadBoardStyle = boardStyle.
			BorderForeground(lipgloss.Color("196"))

	infoStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("15"))

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("51"))

	gameOverStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	winnerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("226"))
)

func pieceColor(p *game.Piece) string {
	if c := p.Color(); c >= 0 && c < len(colors) {
		return colors[c]
	}
	return settledColor
}

// RenderBoard draws the settled grid, the falling piece and its landing
// ghost.
func RenderBoard(snap game.Snapshot) string {
	var sb strings.Builder

	active := snap.Active
	shape := active.Cells()
	activeColor := pieceColor(active)

	for y := 0; y < game.BoardHeight; y++ {
		for x := 0; x < game.BoardWidth; x++ {
			filled := snap.Grid[y][x]
			char := "  "
			color := "0"

			if filled {
				char = "██"
				color = settledColor
			}

			if !snap.GameOver {
				for py, row := range shape {
					for px, on := range row {
						if !on || active.X()+px != x {
							continue
						}
						if active.Y()+py == y {
							char = "██"
							color = activeColor
						} else if snap.DropRow+py == y && !filled && char == "  " {
							char = "[]"
							color = ghostColor
						}
					}
				}
			}

			sb.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(color)).
				Render(char))
		}
		if y < game.BoardHeight-1 {
			sb.WriteString("\n")
		}
	}

	if snap.GameOver {
		return deadBoardStyle.Render(sb.String())
	}
	return boardStyle.Render(sb.String())
}

func RenderPiece(p *game.Piece) string {
	if p == nil {
		return "Empty"
	}

	var sb strings.Builder
	pieceStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(pieceColor(p)))

	cells := p.Cells()
	for y, row := range cells {
		for _, filled := range row {
			if filled {
				sb.WriteString(pieceStyle.Render("██"))
			} else {
				sb.WriteString("  ")
			}
		}
		if y < len(cells)-1 {
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func RenderInfo(name string, snap game.Snapshot) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(name) + "\n\n")
	sb.WriteString(infoStyle.Render(fmt.Sprintf("Score: %d", snap.Score)) + "\n")
	sb.WriteString(infoStyle.Render(fmt.Sprintf("Lines: %d", snap.Lines)) + "\n\n")

	sb.WriteString(titleStyle.Render("NEXT") + "\n")
	sb.WriteString(RenderPiece(snap.Next) + "\n")

	if snap.GameOver {
		sb.WriteString("\n" + gameOverStyle.Render("GAME OVER"))
	}

	return sb.String()
}

// RenderSeat lays out one player's info panel beside their board.
func RenderSeat(name string, snap game.Snapshot) string {
	leftPanel := lipgloss.NewStyle().
		Width(16).
		Render(RenderInfo(name, snap))

	centerPanel := lipgloss.NewStyle().
		Padding(1, 2).
		Render(RenderBoard(snap))

	return lipgloss.JoinHorizontal(lipgloss.Top, leftPanel, centerPanel)
}

func RenderScoreLabel(label string) string {
	return titleStyle.Render(label)
}

func RenderSummary(result match.Result) string {
	var sb strings.Builder

	sb.WriteString(gameOverStyle.Render("GAME OVER") + "\n\n")
	for _, seat := range result.Seats {
		sb.WriteString(infoStyle.Render(fmt.Sprintf("%s: %d (%d lines)", seat.Name, seat.Score, seat.Lines)) + "\n")
	}
	sb.WriteString("\n" + winnerStyle.Render("Leader: "+result.Leader))

	return lipgloss.NewStyle().
		Align(lipgloss.Center).
		Render(sb.String())
}
