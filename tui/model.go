package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"

	"github.com/teamstools/teams-cache-clear/localize"
	"github.com/teamstools/teams-cache-clear/native"
	"github.com/teamstools/teams-cache-clear/purge"
)

// Messages the runner callbacks feed into the program.
type (
	runStartedMsg       struct{ rr *purge.RunResult }
	targetDiscoveredMsg struct{ o purge.Outcome }
	statusChangedMsg    struct {
		rr *purge.RunResult
		o  purge.Outcome
	}
	stateChangedMsg struct{ s purge.State }
	lifecycleMsg    struct{ ev purge.LifecycleEvent }
)

type runDoneMsg struct {
	rr  *purge.RunResult
	err error
}

type retryDoneMsg struct {
	path string
	o    purge.Outcome
	err  error
}

const maxNotes = 6

// Model is the interactive view of one runner. It shows the current (or
// last) run and lets the user start a run, retry a row and open a row's
// folder.
type Model struct {
	ctx    context.Context
	runner *purge.Runner
	loc    *localize.Localizer
	theme  *Theme
	opener native.Opener
	// shared by every copy of the model
	inflight *inflight

	table   table.Model
	spinner spinner.Model
	width   int

	result  *purge.RunResult
	rows    []purge.Outcome
	index   map[string]int
	state   purge.State
	task    *purge.Task[*purge.RunResult]
	notes   []string
	summary []string

	autoRun  bool
	quitting bool
}

type Options struct {
	Theme  *Theme
	Opener native.Opener
	// AutoRun starts a run as soon as the program starts.
	AutoRun bool
}

func NewModel(ctx context.Context, runner *purge.Runner, loc *localize.Localizer, opts Options) Model {
	if opts.Theme == nil {
		opts.Theme = DefaultTheme()
	}
	if opts.Opener == nil {
		opts.Opener = native.DefaultOpener
	}

	m := Model{
		ctx:      ctx,
		runner:   runner,
		loc:      loc,
		theme:    opts.Theme,
		opener:   opts.Opener,
		inflight: &inflight{},
		spinner:  newSpinner(opts.Theme),
		width:    100,
		index:    make(map[string]int),
		autoRun:  opts.AutoRun,
	}
	m.table = newTable(m.theme, columns(loc, m.width), nil, 10, true)
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.autoRun {
		return func() tea.Msg { return tea.KeyMsg{Type: tea.KeyEnter} }
	}
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.table.SetColumns(columns(m.loc, m.width))
		if h := msg.Height - 10; h > 3 {
			m.table.SetHeight(h)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case runStartedMsg:
		m.result = msg.rr
		m.rows = nil
		m.index = make(map[string]int)
		m.notes = nil
		m.summary = nil
		m.refreshRows()
		return m, nil

	case targetDiscoveredMsg:
		m.index[msg.o.Target.Path] = len(m.rows)
		m.rows = append(m.rows, msg.o)
		m.refreshRows()
		return m, nil

	case statusChangedMsg:
		if msg.rr != m.result {
			// a late retry of a previous run
			return m, nil
		}
		if i, ok := m.index[msg.o.Target.Path]; ok {
			m.rows[i] = msg.o
			m.refreshRows()
		}
		return m, nil

	case stateChangedMsg:
		m.state = msg.s
		return m, nil

	case lifecycleMsg:
		m.note(lifecycleLine(m.loc, msg.ev))
		return m, nil

	case runDoneMsg:
		m.task = nil
		if msg.err != nil {
			if errors.Is(msg.err, purge.ErrBusy) {
				m.note(m.loc.T("message.busy"))
			} else {
				m.note(msg.err.Error())
			}
		} else {
			m.result = msg.rr
			m.summary = SummaryLines(m.loc, msg.rr, m.runner.Deleter().Detached())
		}
		if m.quitting {
			return m, tea.Quit
		}
		return m, nil

	case retryDoneMsg:
		if errors.Is(msg.err, purge.ErrUnknownTarget) {
			m.note(m.loc.T("message.retry_unknown", localize.Replacements{"path": msg.path}))
		} else if msg.err != nil {
			m.note(msg.err.Error())
		}
		if m.result != nil && !m.running() {
			m.summary = SummaryLines(m.loc, m.result, m.runner.Deleter().Detached())
		}
		return m, nil

	case spinner.TickMsg:
		if !m.running() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		if m.running() {
			// let the run wind down so it still relaunches what it closed
			m.quitting = true
			m.task.Cancel()
			return m, nil
		}
		return m, tea.Quit

	case "enter":
		if m.running() {
			m.note(m.loc.T("message.busy"))
			return m, nil
		}
		m.task = m.runner.Start(m.ctx)
		m.inflight.run(m.task)
		return m, tea.Batch(waitRun(m.task), m.spinner.Tick)

	case "r":
		path, ok := m.selectedPath()
		if !ok || m.result == nil {
			return m, nil
		}
		m.note(m.loc.T("message.retrying", localize.Replacements{"path": path}))
		task := m.runner.StartRetry(m.ctx, m.result, path)
		m.inflight.retry(task)
		return m, waitRetry(path, task)

	case "o":
		path, ok := m.selectedPath()
		if !ok {
			return m, nil
		}
		opened, err := native.OpenContainingFolder(path, m.opener)
		if err != nil {
			m.note(m.loc.T("message.open_failed", localize.Replacements{"error": err.Error()}))
		} else if !opened {
			m.note(m.loc.T("message.open_missing", localize.Replacements{"path": path}))
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func waitRun(task *purge.Task[*purge.RunResult]) tea.Cmd {
	return func() tea.Msg {
		rr, err := task.Wait()
		return runDoneMsg{rr: rr, err: err}
	}
}

func waitRetry(path string, task *purge.Task[purge.Outcome]) tea.Cmd {
	return func() tea.Msg {
		o, err := task.Wait()
		return retryDoneMsg{path: path, o: o, err: err}
	}
}

func (m Model) running() bool {
	return m.task != nil
}

func (m Model) selectedPath() (string, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.rows) {
		return "", false
	}
	return m.rows[i].Target.Path, true
}

func (m *Model) refreshRows() {
	rows := make([]table.Row, 0, len(m.rows))
	for _, o := range m.rows {
		rows = append(rows, toRow(m.loc, o))
	}
	m.table.SetRows(rows)
}

func (m *Model) note(line string) {
	m.notes = append(m.notes, line)
	if len(m.notes) > maxNotes {
		m.notes = m.notes[len(m.notes)-maxNotes:]
	}
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.theme.Title.Render(m.loc.T("app.title")))
	b.WriteString("\n")

	if m.running() {
		b.WriteString(m.spinner.View() + " " + m.loc.T("state."+m.state.String()))
	} else if m.result == nil {
		b.WriteString(m.theme.Subtle.Render(m.loc.T("app.tooltip.run")))
	} else {
		b.WriteString(m.theme.Normal.Render(m.loc.T("state.idle")))
	}
	b.WriteString("\n\n")

	b.WriteString(m.table.View())
	b.WriteString("\n")

	for _, n := range m.notes {
		b.WriteString(m.theme.Subtle.Render(n))
		b.WriteString("\n")
	}

	if len(m.summary) > 0 && m.result != nil {
		style := m.theme.SummaryStyle(m.result.Summary())
		b.WriteString(lipgloss.JoinVertical(lipgloss.Left, renderAll(style, m.summary)...))
		b.WriteString("\n")
	}

	hint := m.loc.T("app.hint.keys")
	if m.running() {
		hint = m.loc.T("app.hint.running")
	}
	b.WriteString(m.theme.Help.Render(hint))
	b.WriteString("\n")
	return b.String()
}

func renderAll(style lipgloss.Style, lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = style.Render(l)
	}
	return out
}

// Handlers forwards runner callbacks to send. Wire them into the runner
// settings before the program starts.
func Handlers(send func(tea.Msg)) purge.RunnerSettings {
	return purge.RunnerSettings{
		OnRunStarted: func(rr *purge.RunResult) {
			send(runStartedMsg{rr: rr})
		},
		OnTargetDiscovered: func(o purge.Outcome) {
			send(targetDiscoveredMsg{o: o})
		},
		OnStatusChanged: func(rr *purge.RunResult, o purge.Outcome) {
			send(statusChangedMsg{rr: rr, o: o})
		},
		OnStateChanged: func(s purge.State) {
			send(stateChangedMsg{s: s})
		},
		OnLifecycle: func(ev purge.LifecycleEvent) {
			send(lifecycleMsg{ev: ev})
		},
	}
}
