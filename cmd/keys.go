package cmd

import "github.com/charmbracelet/bubbles/key"

type helpKeyMap struct {
	togglePlay   key.Binding
	quit         key.Binding
	restart      key.Binding
	selectSong   key.Binding
	previousSong key.Binding
	nextSong     key.Binding
	toggleHelp   key.Binding
}

var helpKeys = helpKeyMap{
	togglePlay: key.NewBinding(
		key.WithKeys(" ", "p"),
		key.WithHelp("space/p", "play/pause"),
	),
	quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q/esc", "quit"),
	),
	restart: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "restart"),
	),
	selectSong: key.NewBinding(
		key.WithKeys("up", "k", "down", "j"),
		key.WithHelp("up/k/down/j", "choose song"),
	),
	previousSong: key.NewBinding(
		key.WithKeys("up", "k"),
	),
	nextSong: key.NewBinding(
		key.WithKeys("down", "j"),
	),
	toggleHelp: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "more"),
	),
}

func (k helpKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.togglePlay, k.selectSong, k.quit, k.toggleHelp}
}
func (k helpKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.togglePlay, k.restart},
		{k.selectSong},
		{k.quit, k.toggleHelp},
	}
}
