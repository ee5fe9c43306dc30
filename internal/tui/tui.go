// Package tui provides a Bubble Tea terminal user interface for svgfetch.
package tui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/svgren/svgfetch/internal/config"
	"github.com/svgren/svgfetch/internal/download"
	"github.com/svgren/svgfetch/internal/http"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)

	snippetStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))
)

const (
	maxLogs         = 10
	maxSnippetLines = 8
)

// State represents the current UI state.
type State int

const (
	StateFetching State = iota
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   download.ProgressLevel
}

// ProgressSource is polled for counters while a fetch runs.
type ProgressSource interface {
	GetProgress() (received int64, processed, downloaded, failed int32)
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state    State
	spinner  spinner.Model
	settings *config.Settings
	logs     []LogEntry
	snippet  []string
	summary  *download.Summary
	err      error

	source ProgressSource
	cancel context.CancelFunc

	// Fetch progress
	receivedBytes int64
	processed     int32
	downloaded    int32
	failed        int32

	verbose bool

	width  int
	height int
}

// NewModel creates a new TUI model. cancel stops the fetch behind source.
func NewModel(settings *config.Settings, source ProgressSource, cancel context.CancelFunc) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	return Model{
		state:    StateFetching,
		spinner:  sp,
		settings: settings,
		logs:     make([]LogEntry, 0),
		source:   source,
		cancel:   cancel,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.tickProgress())
}

// Message types
type (
	// ProgressMsg is sent for every fetcher progress event.
	ProgressMsg struct {
		Event download.ProgressEvent
	}

	// SnippetMsg carries one line written by the fetcher to its echo writer.
	SnippetMsg struct {
		Line string
	}

	// DoneMsg is sent when the fetch has returned.
	DoneMsg struct {
		Summary *download.Summary
		Err     error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateFetching {
				m.cancel()
				m.state = StateError
				m.err = errors.New("cancelled by user")
			}

		case "v":
			m.verbose = !m.verbose

		case "q", "enter":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		// Filter verbose messages if not in verbose mode
		if msg.Event.Level == download.LevelVerbose && !m.verbose {
			return m, nil
		}
		m.logs = append(m.logs, LogEntry{
			Message: msg.Event.Message,
			Level:   msg.Event.Level,
		})
		if len(m.logs) > maxLogs {
			m.logs = m.logs[len(m.logs)-maxLogs:]
		}

	case SnippetMsg:
		m.snippet = append(m.snippet, msg.Line)
		if len(m.snippet) > maxSnippetLines {
			m.snippet = m.snippet[len(m.snippet)-maxSnippetLines:]
		}

	case DoneMsg:
		m.summary = msg.Summary
		m.updateCounters()
		switch {
		case m.state == StateError:
			// Already cancelled by the user.
		case msg.Err != nil:
			m.state = StateError
			m.err = msg.Err
		default:
			m.state = StateComplete
		}

	case TickMsg:
		if m.state == StateFetching {
			m.updateCounters()
			cmds = append(cmds, m.tickProgress())
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) updateCounters() {
	if m.source == nil {
		return
	}
	m.receivedBytes, m.processed, m.downloaded, m.failed = m.source.GetProgress()
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// State returns the current UI state.
func (m Model) State() State {
	return m.state
}

// Err returns the error shown in the error state.
func (m Model) Err() error {
	return m.err
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("svgfetch"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("%s → %s", m.settings.BaseURL, m.settings.OutputDir)))
	b.WriteString("\n\n")

	switch m.state {
	case StateFetching:
		b.WriteString(m.viewFetching())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewFetching() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("Fetching images listed in %s...", m.settings.ManifestPath)))
	b.WriteString("\n\n")

	b.WriteString(infoStyle.Render(fmt.Sprintf(
		"Entries: %d | Downloaded: %d | Failed: %d | %s",
		m.processed,
		m.downloaded,
		m.failed,
		humanize.Bytes(uint64(m.receivedBytes)),
	)))
	b.WriteString("\n\n")

	b.WriteString(m.renderSnippet())
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	entries, downloaded, failed := int(m.processed), int(m.downloaded), int(m.failed)
	if m.summary != nil {
		entries, downloaded, failed = m.summary.Entries, m.summary.Downloaded, m.summary.Failed()
	}

	box := boxStyle.Render(fmt.Sprintf(
		"Fetch complete\n\n"+
			"Entries: %d\n"+
			"Downloaded: %d\n"+
			"Failed: %d\n"+
			"Size: %s\n\n"+
			"%s",
		entries,
		downloaded,
		failed,
		humanize.Bytes(uint64(m.receivedBytes)),
		download.FinalMessage,
	))
	b.WriteString(box)
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("✗ Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) renderSnippet() string {
	if len(m.snippet) == 0 {
		return ""
	}

	var b strings.Builder
	for _, line := range m.snippet {
		b.WriteString(snippetStyle.Render("  " + line))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case download.LevelError:
			style = errorStyle
			prefix = "✗"
		case download.LevelWarning:
			style = warningStyle
			prefix = "!"
		case download.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case download.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateFetching:
		return "v: verbose • esc: cancel"
	case StateComplete, StateError:
		return "v: verbose • q: quit"
	}
	return ""
}

// snippetWriter collects everything the fetcher prints and forwards each
// complete line to the program.
type snippetWriter struct {
	mu      sync.Mutex
	buf     bytes.Buffer
	pending []byte
	send    func(tea.Msg)
}

func (w *snippetWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf.Write(p)
	w.pending = append(w.pending, p...)
	for {
		i := bytes.IndexByte(w.pending, '\n')
		if i < 0 {
			break
		}
		line := string(w.pending[:i])
		w.pending = w.pending[i+1:]
		if w.send != nil {
			w.send(SnippetMsg{Line: line})
		}
	}
	return len(p), nil
}

func (w *snippetWriter) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.String()
}

// Result is what a TUI session leaves behind.
type Result struct {
	// Snippet holds everything the fetcher printed: the quoted filenames
	// followed by the final instructions.
	Snippet string
	Summary *download.Summary
}

// Run starts the TUI application and the fetch it displays.
//
// The program and the fetcher run side by side; quitting the program cancels
// the fetch. The returned error is the program's, otherwise the fetch's,
// which is context.Canceled when the user quit before the fetch finished.
func Run(settings *config.Settings) (*Result, error) {
	// The view reads the settings while the fetcher runs, so they are
	// settled here rather than inside the fetcher goroutine.
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var p *tea.Program
	send := func(msg tea.Msg) { p.Send(msg) }

	out := &snippetWriter{send: send}
	client := http.NewClient(http.Options{
		Timeout:   settings.RequestTimeout,
		UserAgent: settings.UserAgent,
	})
	fetcher := download.New(settings, client, out, func(event download.ProgressEvent) {
		send(ProgressMsg{Event: event})
	})

	p = tea.NewProgram(NewModel(settings, fetcher, cancel), tea.WithAltScreen())

	var (
		summary  *download.Summary
		fetchErr error
	)

	var g errgroup.Group
	g.Go(func() error {
		// Once the UI is gone there is nobody to report to.
		defer cancel()
		_, err := p.Run()
		return err
	})
	g.Go(func() error {
		summary, fetchErr = fetcher.Run(ctx)
		send(DoneMsg{Summary: summary, Err: fetchErr})
		return nil
	})

	err := g.Wait()
	result := &Result{Snippet: out.String(), Summary: summary}
	if err != nil {
		return result, err
	}
	// A user quit while fetching surfaces as context.Canceled.
	return result, fetchErr
}
