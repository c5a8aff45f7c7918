package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type spinnerDoneMsg struct{ err error }

type spinnerModel struct {
	title   string
	spinner spinner.Model
	err     error
	styles  Styles
}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinnerDoneMsg:
		m.err = msg.err
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m spinnerModel) View() string {
	return m.spinner.View() + " " + m.title + "\n"
}

// WithSpinner runs fn while showing a spinner, and returns fn's error.
// When stdout is not a terminal the spinner is skipped and fn runs
// directly.
func WithSpinner(title string, fn func() error) error {
	if !IsInteractive() {
		return fn()
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))

	p := tea.NewProgram(spinnerModel{title: title, spinner: s, styles: DefaultStyles()})

	done := make(chan error, 1)
	go func() {
		err := fn()
		done <- err
		p.Send(spinnerDoneMsg{err: err})
	}()

	if _, err := p.Run(); err != nil {
		// Fall back to the work's own result if the terminal program
		// itself failed.
		return <-done
	}
	return <-done
}
