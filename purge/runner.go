package purge

import (
	"context"
	"log"
	"sync"

	"github.com/pkg/errors"
)

var (
	// ErrBusy is returned when a run is requested while another is going.
	ErrBusy = errors.New("a run is already in progress")
	// ErrUnknownTarget is returned when retrying a path the result doesn't have.
	ErrUnknownTarget = errors.New("unknown target")
)

// ProcessController detects, stops and restarts the app variants. All of it
// is best-effort: failures are logged by the implementation, never returned.
type ProcessController interface {
	// Detect queries the process list once.
	Detect() VariantSet
	// Terminate force-stops the given variants and returns those for which
	// at least one process was signalled. It doesn't wait for exit.
	Terminate(variants VariantSet) VariantSet
	// Relaunch starts the given variants whose executable exists and returns
	// those that were started. It doesn't wait for them.
	Relaunch(variants VariantSet) VariantSet
}

// State is where the runner is in its sequence.
type State int

const (
	StateIdle State = iota
	StateDetecting
	StateTerminating
	StateEnumerating
	StateDeleting
	StateRelaunching
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDetecting:
		return "detecting-processes"
	case StateTerminating:
		return "terminating"
	case StateEnumerating:
		return "enumerating"
	case StateDeleting:
		return "deleting"
	case StateRelaunching:
		return "relaunching"
	}
	return "unknown"
}

type OutcomeHandler func(o Outcome)

// StatusHandler is told about a row change together with the result that
// owns the row, which is not always the latest run when retrying.
type StatusHandler func(rr *RunResult, o Outcome)
type RunHandler func(rr *RunResult)
type StateHandler func(s State)
type LifecycleHandler func(ev LifecycleEvent)

type RunnerSettings struct {
	Layout    Layout
	Processes ProcessController
	Deleter   *Deleter

	// Variants restricts the run; nil means every variant.
	Variants VariantSet
	// NoKill leaves running instances alone (and so never relaunches them).
	NoKill bool
	// NoRelaunch skips the final restart step.
	NoRelaunch bool

	OnRunStarted       RunHandler
	OnTargetDiscovered OutcomeHandler
	OnStatusChanged    StatusHandler
	OnRunComplete      RunHandler
	OnStateChanged     StateHandler
	OnLifecycle        LifecycleHandler
}

// Runner drives detect -> terminate -> enumerate -> delete -> relaunch.
// One run at a time; retries may happen concurrently with it.
type Runner struct {
	settings RunnerSettings

	mu      sync.Mutex
	state   State
	running bool
}

func NewRunner(settings RunnerSettings) *Runner {
	if settings.Deleter == nil {
		settings.Deleter = NewDeleter(DefaultTimeout)
	}
	return &Runner{settings: settings}
}

func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Runner) Deleter() *Deleter {
	return r.settings.Deleter
}

// Start runs in the background and returns a handle on it.
func (r *Runner) Start(ctx context.Context) *Task[*RunResult] {
	return startTask(ctx, r.Run)
}

// Run performs one full run and returns once every row is terminal and the
// relaunch step has been attempted. Cancelling ctx fails the remaining rows
// with "cancelled" but still relaunches.
func (r *Runner) Run(ctx context.Context) (*RunResult, error) {
	if !r.begin() {
		return nil, ErrBusy
	}
	defer r.end()

	s := r.settings
	rr := NewRunResult()
	sink := r.sinkFor(rr)
	log.Printf("Starting run %s", rr.ID)
	if s.OnRunStarted != nil {
		s.OnRunStarted(rr)
	}

	r.setState(StateDetecting)
	running := NewVariantSet()
	if s.Processes != nil {
		for _, v := range s.Processes.Detect().Sorted() {
			if s.Variants == nil || s.Variants.Has(v) {
				running.Add(v)
			}
		}
	}
	rr.setRunning(running)
	log.Printf("Running before: %s", running)

	r.setState(StateTerminating)
	killed := false
	if running.Empty() {
		log.Printf("Nothing running, no need to terminate")
	} else if s.NoKill {
		log.Printf("Leaving running instances alone (no-kill)")
	} else {
		killed = true
		for _, v := range s.Processes.Terminate(running).Sorted() {
			r.lifecycle(rr, ProcessKilled, v)
		}
	}

	r.setState(StateEnumerating)
	rows := Enumerate(s.Layout, s.Variants)
	for _, o := range rows {
		if rr.Add(o) && s.OnTargetDiscovered != nil {
			s.OnTargetDiscovered(o)
		}
	}
	log.Printf("%d targets enumerated", len(rows))

	r.setState(StateDeleting)
	for _, o := range rows {
		if o.Status != StatusPending {
			continue
		}
		if ctx.Err() != nil {
			sink.SetStatus(o.Target.Path, StatusFailed, "cancelled")
			continue
		}
		s.Deleter.Delete(ctx, o.Target, sink)
	}

	r.setState(StateRelaunching)
	if killed && !s.NoRelaunch {
		for _, v := range s.Processes.Relaunch(running).Sorted() {
			r.lifecycle(rr, ProcessRestarted, v)
		}
	}

	rr.finish()
	r.setState(StateIdle)

	sum := rr.Summary()
	log.Printf("Run %s done: %d deleted, %d failed, %d timed out, %d not found",
		rr.ID, sum.Success, sum.Failed, sum.Timeout, sum.NotFound)
	if n := s.Deleter.Detached(); n > 0 {
		log.Printf("warning: %d removal(s) are still running detached", n)
	}

	if s.OnRunComplete != nil {
		s.OnRunComplete(rr)
	}
	return rr, nil
}

// StartRetry retries one row in the background.
func (r *Runner) StartRetry(ctx context.Context, rr *RunResult, path string) *Task[Outcome] {
	return startTask(ctx, func(ctx context.Context) (Outcome, error) {
		return r.Retry(ctx, rr, path)
	})
}

// Retry deletes one previously recorded target again and updates its row
// in rr. It doesn't touch the run state and may overlap a run or other
// retries; two retries of the same path race and the last write wins.
func (r *Runner) Retry(ctx context.Context, rr *RunResult, path string) (Outcome, error) {
	o, ok := rr.Outcome(path)
	if !ok {
		return Outcome{}, errors.WithMessagef(ErrUnknownTarget, "retrying (%s)", path)
	}

	log.Printf("Retrying (%s), was %s", path, o.Label())
	return r.settings.Deleter.Delete(ctx, o.Target, r.sinkFor(rr)), nil
}

func (r *Runner) begin() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return false
	}
	r.running = true
	return true
}

func (r *Runner) end() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.running = false
	r.state = StateIdle
}

func (r *Runner) setState(s State) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()

	if r.settings.OnStateChanged != nil {
		r.settings.OnStateChanged(s)
	}
}

func (r *Runner) lifecycle(rr *RunResult, kind LifecycleKind, v Variant) {
	ev := rr.addLifecycle(kind, v)
	log.Printf("%s: %s", kind, v)
	if r.settings.OnLifecycle != nil {
		r.settings.OnLifecycle(ev)
	}
}

func (r *Runner) sinkFor(rr *RunResult) StatusSink {
	return &notifySink{rr: rr, onChange: r.settings.OnStatusChanged}
}

// notifySink writes through to the result and then tells the observer.
type notifySink struct {
	rr       *RunResult
	onChange StatusHandler
}

func (ns *notifySink) SetStatus(path string, status Status, reason string) bool {
	if !ns.rr.SetStatus(path, status, reason) {
		return false
	}
	if ns.onChange != nil {
		if o, ok := ns.rr.Outcome(path); ok {
			ns.onChange(ns.rr, o)
		}
	}
	return true
}
