package tui

import (
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	"github.com/itchio/headway/united"

	"github.com/teamstools/teams-cache-clear/localize"
	"github.com/teamstools/teams-cache-clear/purge"
)

// StatusLabel is the localized status column, with the reason for failures.
func StatusLabel(loc *localize.Localizer, o purge.Outcome) string {
	label := loc.T("status." + o.Status.String())
	if o.Status == purge.StatusFailed && o.Reason != "" {
		label += ": " + o.Reason
	}
	return label
}

func toRow(loc *localize.Localizer, o purge.Outcome) table.Row {
	return table.Row{o.Target.DisplayName, StatusLabel(loc, o), o.Target.Path}
}

func lifecycleLine(loc *localize.Localizer, ev purge.LifecycleEvent) string {
	return loc.T("lifecycle."+string(ev.Kind), localize.Replacements{
		"variant": string(ev.Variant),
	})
}

// SummaryLines describes a finished run: counts, then the background
// removals if any are left.
func SummaryLines(loc *localize.Localizer, rr *purge.RunResult, detached int64) []string {
	var lines []string
	if rr.Len() == 0 {
		lines = append(lines, loc.T("summary.nothing"))
	} else {
		sum := rr.Summary()
		lines = append(lines, loc.T("summary.done", localize.Replacements{
			"success":   strconv.Itoa(sum.Success),
			"failed":    strconv.Itoa(sum.Failed),
			"timeout":   strconv.Itoa(sum.Timeout),
			"not_found": strconv.Itoa(sum.NotFound),
			"elapsed":   united.FormatDuration(rr.Elapsed()),
		}))
	}
	if detached > 0 {
		lines = append(lines, loc.T("summary.detached", localize.Replacements{
			"count": strconv.FormatInt(detached, 10),
		}))
	}
	return lines
}
