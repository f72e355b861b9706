package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hersh/duotris/internal/config"
	"github.com/hersh/duotris/internal/match"
)

// PlayerKeyMap holds one seat's bindings.
type PlayerKeyMap struct {
	Left   key.Binding
	Right  key.Binding
	Down   key.Binding
	Rotate key.Binding
}

func NewPlayerKeyMap(name string, k config.KeyConfig) PlayerKeyMap {
	bind := func(keys []string, desc string) key.Binding {
		return key.NewBinding(
			key.WithKeys(keys...),
			key.WithHelp(strings.Join(keys, "/"), name+" "+desc),
		)
	}
	return PlayerKeyMap{
		Left:   bind(k.Left, "left"),
		Right:  bind(k.Right, "right"),
		Down:   bind(k.Down, "drop"),
		Rotate: bind(k.Rotate, "rotate"),
	}
}

// Command resolves a key press to a match command.
func (k PlayerKeyMap) Command(msg tea.KeyMsg) (match.Command, bool) {
	switch {
	case key.Matches(msg, k.Left):
		return match.CommandLeft, true
	case key.Matches(msg, k.Right):
		return match.CommandRight, true
	case key.Matches(msg, k.Down):
		return match.CommandDown, true
	case key.Matches(msg, k.Rotate):
		return match.CommandRotate, true
	}
	return 0, false
}

func (k PlayerKeyMap) bindings() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Down, k.Rotate}
}

// GlobalKeyMap holds the bindings that are not tied to a seat.
type GlobalKeyMap struct {
	Quit    key.Binding
	Confirm key.Binding
}

func DefaultGlobalKeyMap() GlobalKeyMap {
	return GlobalKeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "exit"),
		),
	}
}

// helpKeyMap adapts every binding to help.KeyMap: one column per seat.
type helpKeyMap struct {
	players []PlayerKeyMap
	global  GlobalKeyMap
}

func (h helpKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{h.global.Quit}
}

func (h helpKeyMap) FullHelp() [][]key.Binding {
	cols := make([][]key.Binding, 0, len(h.players)+1)
	for _, p := range h.players {
		cols = append(cols, p.bindings())
	}
	return append(cols, []key.Binding{h.global.Quit})
}
