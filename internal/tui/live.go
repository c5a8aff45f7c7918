package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/stylelens/stylelens/internal/api"
)

// LiveResultMsg carries one live-loop tick into the view. The command
// goroutine sends it via tea.Program.Send.
type LiveResultMsg struct {
	Analysis *api.Analysis
	Skipped  bool
	Err      error
	At       time.Time
}

// LiveStoppedMsg tells the view the loop has ended.
type LiveStoppedMsg struct{ Err error }

// LiveModel renders the live analysis feed: the latest score and
// feedback, a running tally, and a spinner while waiting for the next
// frame.
type LiveModel struct {
	device string

	latest   *api.Analysis
	latestAt time.Time
	lastErr  error

	analyzed int
	skipped  int
	failed   int

	spinner  spinner.Model
	quitting bool
	stopErr  error
	styles   Styles

	// onQuit is invoked once when the user asks to leave, so the
	// command can stop the capture loop.
	onQuit func()
}

// NewLiveModel creates the live view for the given capture device label.
func NewLiveModel(device string, onQuit func()) LiveModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))

	return LiveModel{
		device:  device,
		spinner: s,
		styles:  DefaultStyles(),
		onQuit:  onQuit,
	}
}

func (m LiveModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			if !m.quitting {
				m.quitting = true
				if m.onQuit != nil {
					m.onQuit()
				}
			}
			return m, nil
		}
		return m, nil

	case LiveResultMsg:
		switch {
		case msg.Err != nil:
			m.failed++
			m.lastErr = msg.Err
		case msg.Skipped:
			m.skipped++
		default:
			m.analyzed++
			m.latest = msg.Analysis
			m.latestAt = msg.At
			m.lastErr = nil
		}
		return m, nil

	case LiveStoppedMsg:
		m.stopErr = msg.Err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m LiveModel) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Live Style Check"))
	b.WriteString("\n")
	b.WriteString(m.styles.Subtitle.Render("capturing from " + m.device))
	b.WriteString("\n")

	switch {
	case m.quitting:
		b.WriteString(m.styles.Muted.Render("stopping..."))
	case m.latest == nil && m.lastErr == nil:
		b.WriteString(fmt.Sprintf("%s waiting for the first frame\n", m.spinner.View()))
	default:
		if m.latest != nil {
			b.WriteString(m.styles.Status.Render(fmt.Sprintf("Score: %.1f/10", m.latest.Score)))
			b.WriteString(m.styles.Muted.Render(fmt.Sprintf("  (%s)", m.latestAt.Format("15:04:05"))))
			b.WriteString("\n")
			if m.latest.Feedback != "" {
				b.WriteString(m.latest.Feedback)
				b.WriteString("\n")
			}
		}
		if m.lastErr != nil {
			b.WriteString(m.styles.Error.Render("last frame failed: " + m.lastErr.Error()))
			b.WriteString("\n")
		}
		b.WriteString(fmt.Sprintf("%s watching for changes\n", m.spinner.View()))
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render(fmt.Sprintf(
		"analyzed %d · skipped %d · failed %d", m.analyzed, m.skipped, m.failed)))
	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render("q to stop"))
	b.WriteString("\n")

	return b.String()
}
