package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/genrex/internal/tasks"
)

const (
	progressBuffer = 100
	recentLines    = 8
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ProgressView ViewState = iota
	ResultView
)

// RunFunc starts a batch and reports progress on the given channel. It must not close progress.
type RunFunc func(ctx context.Context, progress chan<- tasks.ProgressUpdate) (*tasks.BatchResult, error)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	cancel       context.CancelFunc
	title        string
	run          RunFunc
	view         ViewState
	width        int
	height       int
	spinner      spinner.Model
	progressChan chan tasks.ProgressUpdate
	doneChan     chan Msg
	progress     tasks.ProgressUpdate
	lines        []string
	resolved     int
	unknown      int
	failed       int
	cancelled    bool
	result       *tasks.BatchResult
	err          error
	resultList   list.Model
	issuesOnly   bool
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model that runs the batch under a cancellable child of ctx.
func NewModel(ctx context.Context, title string, run RunFunc) *Model {
	ctx, cancel := context.WithCancel(ctx)
	return &Model{
		ctx:     ctx,
		cancel:  cancel,
		title:   title,
		run:     run,
		view:    ProgressView,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.ok)),
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Run starts the program on in/out and blocks until the user quits.
// It returns the batch result, which is partial when the user cancelled.
func Run(ctx context.Context, title string, run RunFunc, in io.Reader, out io.Writer) (*tasks.BatchResult, error) {
	m := NewModel(ctx, title, run)
	defer m.cancel()

	opts := []tea.ProgramOption{tea.WithOutput(out)}
	if in != nil {
		opts = append(opts, tea.WithInput(in))
	}

	final, err := tea.NewProgram(m, opts...).Run()
	if err != nil {
		return nil, fmt.Errorf("tui failed: %w", err)
	}

	fm, ok := final.(*Model)
	if !ok {
		return nil, errors.New("tui returned an unexpected model")
	}
	if fm.result == nil && fm.err == nil && fm.cancelled {
		return nil, context.Canceled
	}
	return fm.result, fm.err
}

// Result returns the finished batch, or nil while it is still running.
func (m *Model) Result() *tasks.BatchResult { return m.result }

// Err returns the batch error, if any.
func (m *Model) Err() error { return m.err }

// Init starts the batch and the spinner.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.start())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.view == ResultView {
			m.resultList.SetSize(m.listSize())
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case ProgressView:
			return m.handleProgressKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case spinner.TickMsg:
		if m.view != ProgressView {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		switch msg.kind {
		case MsgProgressUpdate:
			m.applyProgress(msg.data.(tasks.ProgressUpdate))
			return m, m.waitForProgress()
		case MsgBatchComplete:
			outcome := msg.data.(batchOutcome)
			m.finish(outcome.result, outcome.err)
			return m, nil
		}
	}

	if m.view == ResultView {
		var cmd tea.Cmd
		m.resultList, cmd = m.resultList.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case ProgressView:
		return m.renderProgress()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleProgressKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.quit) {
		if m.cancelled {
			return m, tea.Quit
		}
		m.cancelled = true
		m.cancel()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.filter):
		m.issuesOnly = !m.issuesOnly
		m.resultList.SetItems(resultItems(m.resultResults(), m.issuesOnly))
		m.resultList.Title = m.listTitle()
		return m, nil
	}

	var cmd tea.Cmd
	m.resultList, cmd = m.resultList.Update(msg)
	return m, cmd
}

func (m *Model) applyProgress(update tasks.ProgressUpdate) {
	m.progress = update

	r, isItem := update.Data.(tasks.ItemResult)
	if update.Message != "" {
		line := update.Message
		if isItem {
			line = styles.Status(r.Status).Render(line)
		}
		m.lines = append(m.lines, line)
		if len(m.lines) > recentLines {
			m.lines = m.lines[len(m.lines)-recentLines:]
		}
	}

	if isItem {
		switch r.Status {
		case tasks.StatusResolved:
			m.resolved++
		case tasks.StatusUnknown:
			m.unknown++
		case tasks.StatusError:
			m.failed++
		}
	}
}

func (m *Model) finish(result *tasks.BatchResult, err error) {
	m.result = result
	m.err = err
	m.view = ResultView
	m.progressChan = nil
	m.doneChan = nil

	if result != nil {
		m.resolved, m.unknown, m.failed = result.Resolved, result.Unknown, result.Failed
	}

	m.issuesOnly = m.failed+m.unknown > 0
	w, h := m.listSize()
	m.resultList = list.New(resultItems(m.resultResults(), m.issuesOnly), list.NewDefaultDelegate(), w, h)
	m.resultList.Title = m.listTitle()
	m.resultList.SetShowHelp(false)
}

func (m *Model) resultResults() []tasks.ItemResult {
	if m.result == nil {
		return nil
	}
	return m.result.Results
}

func (m *Model) listTitle() string {
	if m.issuesOnly {
		return "Unknown and failed tracks"
	}
	return "All tracks"
}

func (m *Model) listSize() (int, int) {
	w, h := m.width-4, m.height-12
	if w < 20 {
		w = 80
	}
	if h < 5 {
		h = 20
	}
	return w, h
}

func (m *Model) start() tea.Cmd {
	progress := make(chan tasks.ProgressUpdate, progressBuffer)
	done := make(chan Msg, 1)
	m.progressChan = progress
	m.doneChan = done

	go func() {
		result, err := m.run(m.ctx, progress)
		close(progress)
		done <- batchCompleteMsg(result, err)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	progress, done := m.progressChan, m.doneChan
	return func() tea.Msg {
		if progress == nil {
			return nil
		}
		update, ok := <-progress
		if !ok {
			return <-done
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) counters() string {
	return fmt.Sprintf("%s  %s  %s",
		styles.ok.Render(fmt.Sprintf("resolved %d", m.resolved)),
		styles.warn.Render(fmt.Sprintf("unknown %d", m.unknown)),
		styles.err.Render(fmt.Sprintf("failed %d", m.failed)),
	)
}

func (m *Model) renderProgress() string {
	title := styles.title.Render(m.title)

	status := "Starting..."
	if m.progress.Total > 0 {
		status = fmt.Sprintf("%s Resolving genres (%d/%d)", m.spinner.View(), m.progress.Step, m.progress.Total)
	}
	if m.cancelled {
		status = styles.warn.Render("Cancelling... press q again to quit immediately")
	}

	var b strings.Builder
	for _, line := range m.lines {
		b.WriteString("  " + line + "\n")
	}

	helpView := styles.help.Render(m.help.ShortHelpView([]key.Binding{m.keys.quit}))
	return fmt.Sprintf("%s\n%s\n%s\n\n%s\n%s", title, status, m.counters(), b.String(), helpView)
}

func (m *Model) renderResult() string {
	var head string
	switch {
	case errors.Is(m.err, context.Canceled):
		head = styles.warn.Render("Batch cancelled")
	case m.err != nil:
		return styles.err.Render(fmt.Sprintf("Batch failed: %v\n\nPress q to quit", m.err))
	default:
		head = styles.ok.Render("✓ Batch Complete!")
	}

	total := 0
	if m.result != nil {
		total = m.result.Total
	}
	info := fmt.Sprintf("\nTracks: %d\n%s", total, m.counters())

	if m.result != nil && (m.result.Stored > 0 || m.result.StoreFailed > 0) {
		info += fmt.Sprintf("\nStored: %d", m.result.Stored)
		if m.result.StoreFailed > 0 {
			info += styles.err.Render(fmt.Sprintf(" (%d failed)", m.result.StoreFailed))
		}
	}

	helpView := styles.help.Render(m.help.ShortHelpView([]key.Binding{m.keys.up, m.keys.down, m.keys.filter, m.keys.quit}))
	return fmt.Sprintf("%s\n%s\n\n%s\n\n%s", head, info, m.resultList.View(), helpView)
}
