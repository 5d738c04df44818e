package main

import tea "github.com/charmbracelet/bubbletea"

// mainViewModel wraps the browser as the background layer for overlays. The
// overlay compositor takes two tea.Models; this one renders everything
// except the overlay itself.
type mainViewModel struct {
	model *Model
}

func newMainViewModel(m *Model) mainViewModel {
	return mainViewModel{model: m}
}

// Init implements tea.Model
func (v mainViewModel) Init() tea.Cmd { return nil }

// Update implements tea.Model; the wrapper never handles messages itself.
func (v mainViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return v, nil
}

// View implements tea.Model
func (v mainViewModel) View() string {
	return v.model.baseView()
}
