package tui

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"

	"github.com/teamstools/teams-cache-clear/localize"
	"github.com/teamstools/teams-cache-clear/purge"
)

// Run builds a runner from settings with the UI handlers chained in and
// blocks until the user quits. It returns the last finished run, if any.
func Run(ctx context.Context, settings purge.RunnerSettings, loc *localize.Localizer, opts Options) (*purge.RunResult, error) {
	var p *tea.Program
	send := func(msg tea.Msg) {
		if p != nil {
			p.Send(msg)
		}
	}

	runner := purge.NewRunner(purge.WithHandlers(settings, Handlers(send)))
	m := NewModel(ctx, runner, loc, opts)
	p = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		log.Printf("Interface interrupted, letting running work finish")
		err = nil
	}

	// runs still have to relaunch and retries to settle their rows
	rr := m.inflight.wait()
	if err != nil {
		return nil, errors.WithMessage(err, "running interface")
	}
	if rr == nil {
		return nil, nil
	}
	if !rr.Complete() {
		log.Printf("Run %s has unfinished rows, not reporting it", rr.ID)
		return nil, nil
	}
	return rr, nil
}

// Print writes a finished run as a table followed by its summary.
func Print(w io.Writer, loc *localize.Localizer, theme *Theme, rr *purge.RunResult, detached int64) {
	if theme == nil {
		theme = DefaultTheme()
	}

	outcomes := rr.Outcomes()
	if len(outcomes) > 0 {
		rows := make([]table.Row, 0, len(outcomes))
		for _, o := range outcomes {
			rows = append(rows, toRow(loc, o))
		}
		t := newTable(theme, columns(loc, 120), rows, len(rows)+2, false)
		fmt.Fprintln(w, t.View())
	}

	for _, ev := range rr.Lifecycle() {
		fmt.Fprintln(w, theme.Subtle.Render(lifecycleLine(loc, ev)))
	}

	style := theme.SummaryStyle(rr.Summary())
	for _, line := range SummaryLines(loc, rr, detached) {
		fmt.Fprintln(w, style.Render(line))
	}
}
