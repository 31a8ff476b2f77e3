package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Start key.Binding
	Reset key.Binding
	Quit  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Start: key.NewBinding(key.WithKeys("s"), key.WithHelp("<S>", "Start")),
		Reset: key.NewBinding(key.WithKeys("r"), key.WithHelp("<R>", "Reset")),
		Quit:  key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("<Q/Esc>", "Quit")),
	}
}

// footerBindings returns the footer entries with the start label matching the run state.
func (k keyMap) footerBindings(running bool) []key.Binding {
	start := k.Start
	if running {
		start.SetHelp("<S>", "Pause")
	} else {
		start.SetHelp("<S>", "Start")
	}
	return []key.Binding{start, k.Reset, k.Quit}
}
