package notify

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Severity of a notice.
type Severity int

const (
	// SeverityInfo is an informational notice
	SeverityInfo Severity = iota
	// SeverityWarn is a warning the user should read but can ignore
	SeverityWarn
	// SeverityError is a failure notice
	SeverityError
)

// Notice is a user-facing notification that is independent of whatever
// command is running, the terminal rendition of a toast.
type Notice struct {
	Severity Severity
	Title    string
	Message  string

	// Action is an optional follow-up the user can take, e.g. a command
	// to run ("stylelens pricing").
	Action string
}

// Notifier displays notices to the user.
type Notifier interface {
	Notify(n Notice)
}

// NopNotifier discards all notices.
type NopNotifier struct{}

// Notify implements Notifier.
func (NopNotifier) Notify(Notice) {}

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	infoStyle  = titleStyle.Foreground(lipgloss.Color("39"))
	warnStyle  = titleStyle.Foreground(lipgloss.Color("214"))
	errStyle   = titleStyle.Foreground(lipgloss.Color("196"))
	bodyStyle  = lipgloss.NewStyle().PaddingLeft(2)
	actStyle   = lipgloss.NewStyle().PaddingLeft(2).Faint(true)
)

// Terminal renders notices to a writer with lipgloss styling.
//
// Writes are serialized so a notice fired from the live-analysis loop does
// not interleave with one fired from the command itself.
type Terminal struct {
	mu  sync.Mutex
	out io.Writer
}

// NewTerminal creates a Terminal notifier. A nil writer means stderr.
func NewTerminal(out io.Writer) *Terminal {
	if out == nil {
		out = os.Stderr
	}
	return &Terminal{out: out}
}

// Notify implements Notifier.
func (t *Terminal) Notify(n Notice) {
	t.mu.Lock()
	defer t.mu.Unlock()

	style := infoStyle
	switch n.Severity {
	case SeverityWarn:
		style = warnStyle
	case SeverityError:
		style = errStyle
	}

	fmt.Fprintln(t.out, style.Render(n.Title))
	if n.Message != "" {
		fmt.Fprintln(t.out, bodyStyle.Render(n.Message))
	}
	if n.Action != "" {
		fmt.Fprintln(t.out, actStyle.Render("→ "+n.Action))
	}
}
