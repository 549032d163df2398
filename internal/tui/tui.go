// Package tui provides a Bubble Tea terminal user interface for bing-wp.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/handiism/bing-wallpaper/internal/config"
	"github.com/handiism/bing-wallpaper/internal/history"
	"github.com/handiism/bing-wallpaper/internal/model"
	"github.com/handiism/bing-wallpaper/internal/readme"
	"github.com/handiism/bing-wallpaper/internal/wallpaper"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00A4EF")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00A4EF"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7FBA00"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8AB4F8"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00A4EF")).
			Padding(1, 2)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFB900")).
			Bold(true)
)

const maxLogs = 10

var errCancelled = errors.New("cancelled by user")

// State represents the current UI state.
type State int

const (
	StateLoading State = iota
	StatePicking
	StateDownloading
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   wallpaper.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state    State
	spinner  spinner.Model
	progress progress.Model
	settings *config.Settings
	history  *history.Store
	entries  []*model.Entry
	cursor   int
	logs     []LogEntry
	result   *wallpaper.Result
	err      error

	ctx    context.Context
	cancel context.CancelFunc

	fetcher *wallpaper.Fetcher
	events  chan wallpaper.ProgressEvent

	receivedBytes int64
	totalBytes    int64

	// Options
	apply   bool
	verbose bool

	width  int
	height int
}

// NewModel creates a new TUI model. store may be nil.
func NewModel(settings *config.Settings, store *history.Store) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#00A4EF"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:    StateLoading,
		spinner:  sp,
		progress: prog,
		settings: settings,
		history:  store,
		logs:     make([]LogEntry, 0),
		ctx:      ctx,
		cancel:   cancel,
		events:   make(chan wallpaper.ProgressEvent, 64),
		apply:    true,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadEntries(), m.waitForEvent())
}

// Message types
type (
	// ProgressMsg carries one fetcher progress event.
	ProgressMsg struct {
		Event wallpaper.ProgressEvent
	}

	// EntriesMsg is sent when the manifest has been loaded.
	EntriesMsg struct {
		Entries []*model.Entry
		Err     error
	}

	// DownloadDoneMsg is sent when a run finishes.
	DownloadDoneMsg struct {
		Result *wallpaper.Result
		Err    error
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
		m.progress.Width = min(max(msg.Width-20, 20), 80)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StatePicking {
				return m, tea.Quit
			}
			if m.state == StateDownloading || m.state == StateLoading {
				m.cancel()
				m.state = StateError
				m.err = errCancelled
			}

		case "up", "k":
			if m.state == StatePicking && m.cursor > 0 {
				m.cursor--
			}

		case "down", "j":
			if m.state == StatePicking && m.cursor < len(m.entries)-1 {
				m.cursor++
			}

		case "a":
			if m.state == StatePicking {
				m.apply = !m.apply
			}

		case "v":
			if m.state == StatePicking {
				m.verbose = !m.verbose
			}

		case "enter":
			if m.state == StatePicking && len(m.entries) > 0 {
				m.state = StateDownloading
				m.receivedBytes, m.totalBytes = 0, 0
				m.fetcher = m.newFetcher()
				cmds = append(cmds, m.startDownload(m.fetcher), m.tickProgress(), m.spinner.Tick)
			}

		case "q":
			if m.state == StateComplete || m.state == StateError || m.state == StatePicking {
				m.cancel()
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				// Back to the picker with a fresh manifest
				m.state = StateLoading
				m.logs = nil
				m.entries = nil
				m.result = nil
				m.err = nil
				m.fetcher = nil
				m.ctx, m.cancel = context.WithCancel(context.Background())
				cmds = append(cmds, m.loadEntries(), m.spinner.Tick)
			}
		}

	case spinner.TickMsg:
		if m.state == StateLoading || m.state == StateDownloading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case ProgressMsg:
		cmds = append(cmds, m.waitForEvent())
		if msg.Event.Level == wallpaper.LevelVerbose && !m.verbose {
			break
		}
		m.logs = append(m.logs, LogEntry{
			Message: msg.Event.Message,
			Level:   msg.Event.Level,
		})
		if len(m.logs) > maxLogs {
			m.logs = m.logs[len(m.logs)-maxLogs:]
		}

	case EntriesMsg:
		if m.state != StateLoading {
			break
		}
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
			break
		}
		m.entries = msg.Entries
		m.cursor = min(m.cursor, max(len(m.entries)-1, 0))
		m.state = StatePicking

	case DownloadDoneMsg:
		if m.fetcher != nil {
			m.receivedBytes, m.totalBytes = m.fetcher.GetProgress()
		}
		switch {
		case m.ctx.Err() != nil:
			m.state = StateError
			m.err = errCancelled
		case msg.Err != nil:
			m.state = StateError
			m.err = msg.Err
		default:
			m.state = StateComplete
			m.result = msg.Result
		}

	case TickMsg:
		if m.fetcher != nil && m.state == StateDownloading {
			m.receivedBytes, m.totalBytes = m.fetcher.GetProgress()
			cmds = append(cmds, m.progress.SetPercent(m.percent()), m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) percent() float64 {
	if m.totalBytes <= 0 {
		return 0
	}
	return float64(m.receivedBytes) / float64(m.totalBytes)
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("Bing Wallpaper"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Photo of the day, last 8 days"))
	b.WriteString("\n\n")

	switch m.state {
	case StateLoading:
		b.WriteString(m.viewLoading())
	case StatePicking:
		b.WriteString(m.viewPicking())
	case StateDownloading:
		b.WriteString(m.viewDownloading())
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

func (m Model) viewLoading() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Fetching image archive..."))
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewPicking() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Choose a day:"))
	b.WriteString("\n\n")

	for i, entry := range m.entries {
		date, err := readme.FormatDate(entry.EndDate)
		if err != nil {
			date = entry.EndDate
		}
		line := fmt.Sprintf("%s  %s", date, entry.Title)
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	if m.cursor < len(m.entries) {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(m.entries[m.cursor].Copyright))
		b.WriteString("\n")
	}

	applyCheck := "[ ]"
	if m.apply {
		applyCheck = "[×]"
	}
	verboseCheck := "[ ]"
	if m.verbose {
		verboseCheck = "[×]"
	}

	b.WriteString("\n")
	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Set as desktop wallpaper (a)\n", applyCheck))
	b.WriteString(fmt.Sprintf("  %s Verbose output (v)\n", verboseCheck))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Working directory: %s", m.settings.Files.WorkDir)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewDownloading() string {
	var b strings.Builder

	if m.cursor < len(m.entries) {
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(selectedStyle.Render(m.entries[m.cursor].Title))
		b.WriteString("\n\n")
	}

	b.WriteString(m.progress.ViewAs(m.percent()))
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(fmt.Sprintf(
		"Downloaded: %.2f / %.2f MB",
		float64(m.receivedBytes)/1024/1024,
		float64(m.totalBytes)/1024/1024,
	)))
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	if m.result == nil {
		return boxStyle.Render("Done")
	}

	backup := m.result.BackupName
	if backup == "" {
		backup = "none"
	}
	applied := "no"
	if m.result.WallpaperApplied {
		applied = "yes"
	}

	return boxStyle.Render(fmt.Sprintf(
		"Wallpaper updated\n\n"+
			"Title: %s\n"+
			"File: %s\n"+
			"Backup: %s\n"+
			"Desktop: %s\n"+
			"Size: %.2f MB",
		m.result.Entry.Title,
		m.result.WallpaperPath,
		backup,
		applied,
		float64(m.receivedBytes)/1024/1024,
	))
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case wallpaper.LevelError:
			style = errorStyle
			prefix = "✗"
		case wallpaper.LevelWarning:
			style = warningStyle
			prefix = "!"
		case wallpaper.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case wallpaper.LevelInfo:
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
	case StatePicking:
		return "↑/↓: choose • enter: download • a: desktop • v: verbose • q: quit"
	case StateLoading, StateDownloading:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: back to list • q: quit"
	}
	return ""
}

func (m Model) newFetcher() *wallpaper.Fetcher {
	depth := wallpaper.DepthDownload
	if m.apply {
		depth = wallpaper.DepthApply
	}

	fetcher := wallpaper.NewFetcher(m.settings, wallpaper.Options{
		DayOffset: m.cursor,
		RunDepth:  depth,
	}, forward(m.events))
	if m.history != nil {
		fetcher.SetHistory(m.history)
	}
	return fetcher
}

// forward sends events to ch, dropping them when the UI falls behind.
func forward(ch chan<- wallpaper.ProgressEvent) func(wallpaper.ProgressEvent) {
	return func(event wallpaper.ProgressEvent) {
		select {
		case ch <- event:
		default:
		}
	}
}

// waitForEvent delivers the next progress event as a ProgressMsg.
func (m Model) waitForEvent() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		return ProgressMsg{Event: <-events}
	}
}

// loadEntries fetches the manifest for the picker.
func (m Model) loadEntries() tea.Cmd {
	ctx, settings, events := m.ctx, m.settings, m.events
	return func() tea.Msg {
		fetcher := wallpaper.NewFetcher(settings, wallpaper.Options{}, forward(events))
		entries, err := fetcher.Entries(ctx)
		return EntriesMsg{Entries: entries, Err: err}
	}
}

// startDownload runs the fetcher in the background.
func (m Model) startDownload(fetcher *wallpaper.Fetcher) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		res, err := fetcher.Run(ctx)
		return DownloadDoneMsg{Result: res, Err: err}
	}
}

// Run starts the TUI application.
func Run(settings *config.Settings, store *history.Store) error {
	p := tea.NewProgram(NewModel(settings, store), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
