// Package ui renders the assistant window in the terminal: a colored
// status orb that tracks the agent's mood, a scrolling band of recent
// responses, and a single input line. The event loop is a Bubble Tea
// program; the due-check engine is driven by a fixed-cadence tick so the
// window stays live even when the user types nothing.
package ui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/chattyhq/chatty/internal/agent"
	"github.com/chattyhq/chatty/internal/intent"
	"github.com/chattyhq/chatty/internal/scheduler"
)

// State is the agent's mood, shown as the orb color.
type State string

const (
	StateIdle     State = "idle"
	StateGreeting State = "greeting"
	StateExiting  State = "exiting"
	StateAlert    State = "alert"
)

var (
	colorIdle     = lipgloss.Color("75")  // blue
	colorGreeting = lipgloss.Color("42")  // green
	colorExiting  = lipgloss.Color("160") // red
	colorAlert    = lipgloss.Color("214") // orange

	styleResponse = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	styleSubtle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	stateStyles = map[State]lipgloss.Style{
		StateIdle:     lipgloss.NewStyle().Foreground(colorIdle),
		StateGreeting: lipgloss.NewStyle().Foreground(colorGreeting),
		StateExiting:  lipgloss.NewStyle().Foreground(colorExiting),
		StateAlert:    lipgloss.NewStyle().Foreground(colorAlert),
	}
)

// tickMsg drives the scheduler at the configured interval.
type tickMsg time.Time

// ExternalMsg carries a line produced outside the event loop, such as a
// background blog dispatch. Send it with Program.Send.
type ExternalMsg struct {
	Text string
}

// ReloadRequestMsg asks the event loop to re-read the snapshot from disk.
// The file watcher sends it so the actual store mutation happens on the
// single control loop.
type ReloadRequestMsg struct{}

// Options configures the window.
type Options struct {
	Agent            *agent.Agent
	Scheduler        *scheduler.Engine
	CheckInterval    time.Duration
	MaxResponseLines int

	// OnAlert is invoked for every fired alert, after it is displayed.
	// Optional; used for journaling.
	OnAlert func(scheduler.Alert)

	// OnReload handles ReloadRequestMsg on the event loop. It returns the
	// line to display, or ok=false to display nothing.
	OnReload func() (string, bool)
}

// Model is the Bubble Tea model for the assistant window.
type Model struct {
	opts  Options
	input textinput.Model

	state     State
	responses []string
	quitting  bool
}

func NewModel(opts Options) Model {
	if opts.CheckInterval <= 0 {
		opts.CheckInterval = time.Second
	}
	if opts.MaxResponseLines <= 0 {
		opts.MaxResponseLines = 10
	}

	ti := textinput.New()
	ti.Placeholder = "say hello, or try 'add task:...'"
	ti.Prompt = "> "
	ti.CharLimit = 256
	ti.Focus()

	return Model{
		opts:  opts,
		input: ti,
		state: StateIdle,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.tick())
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.opts.CheckInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			m.state = StateExiting
			return m, tea.Quit
		case tea.KeyEnter:
			line := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			if line == "" {
				return m, nil
			}
			return m.handleCommand(line)
		}

	case tickMsg:
		return m.handleTick(time.Time(msg))

	case ExternalMsg:
		m.push(msg.Text)
		return m, nil

	case ReloadRequestMsg:
		if m.opts.OnReload != nil {
			if line, ok := m.opts.OnReload(); ok {
				m.push(line)
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleCommand(line string) (tea.Model, tea.Cmd) {
	reply := m.opts.Agent.Respond(context.Background(), time.Now(), line)
	m.push(reply.Text)

	switch reply.Kind {
	case intent.Greet:
		m.state = StateGreeting
	case intent.Exit:
		m.state = StateExiting
		m.quitting = true
		return m, tea.Quit
	default:
		m.state = StateIdle
	}
	return m, nil
}

func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	alerts := m.opts.Scheduler.CheckDue(now)
	if len(alerts) == 0 {
		if m.state == StateAlert {
			m.state = StateIdle
		}
		return m, m.tick()
	}

	m.state = StateAlert
	for _, a := range alerts {
		m.push(a.Message())
		if m.opts.OnAlert != nil {
			m.opts.OnAlert(a)
		}
	}
	return m, tea.Batch(bell, m.tick())
}

// bell rings the terminal bell without disturbing the renderer.
func bell() tea.Msg {
	fmt.Fprint(os.Stderr, "\a")
	return nil
}

// push appends the lines of text to the response band, keeping only the
// newest MaxResponseLines.
func (m *Model) push(text string) {
	for _, line := range strings.Split(text, "\n") {
		m.responses = append(m.responses, line)
	}
	if n := len(m.responses); n > m.opts.MaxResponseLines {
		m.responses = m.responses[n-m.opts.MaxResponseLines:]
	}
}

func (m Model) View() string {
	var b strings.Builder

	orb := stateStyles[m.state].Render("●")
	b.WriteString(fmt.Sprintf("\n  %s  %s\n\n", orb, styleSubtle.Render(string(m.state))))

	for _, line := range m.responses {
		b.WriteString("  " + styleResponse.Render(line) + "\n")
	}
	if len(m.responses) > 0 {
		b.WriteString("\n")
	}

	if m.quitting {
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString("  " + m.input.View() + "\n")
	b.WriteString("  " + styleSubtle.Render("enter to send, esc to quit") + "\n")
	return b.String()
}

// Responses returns the current response band, newest last.
func (m Model) Responses() []string {
	out := make([]string, len(m.responses))
	copy(out, m.responses)
	return out
}

// CurrentState reports the orb state.
func (m Model) CurrentState() State {
	return m.state
}
