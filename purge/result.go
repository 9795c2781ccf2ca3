package purge

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
)

// StatusSink receives status transitions for a target, keyed by path.
type StatusSink interface {
	SetStatus(path string, status Status, reason string) bool
}

type LifecycleKind string

const (
	ProcessKilled    LifecycleKind = "process-killed"
	ProcessRestarted LifecycleKind = "process-restarted"
)

// LifecycleEvent is a synthetic row recording a kill or a relaunch.
type LifecycleEvent struct {
	Kind    LifecycleKind `json:"kind"`
	Variant Variant       `json:"variant"`
	At      time.Time     `json:"at"`
}

// RunResult is the ordered table of outcomes for one run. Rows are only
// appended while enumerating; afterwards they are updated in place by path,
// from the run goroutine, deletion workers and retries alike.
type RunResult struct {
	ID string

	mu         sync.RWMutex
	outcomes   []*Outcome
	index      map[string]*Outcome
	lifecycle  []LifecycleEvent
	running    VariantSet
	startedAt  time.Time
	finishedAt time.Time
}

func NewRunResult() *RunResult {
	return &RunResult{
		ID:        uuid.New().String(),
		index:     make(map[string]*Outcome),
		running:   NewVariantSet(),
		startedAt: time.Now(),
	}
}

// Add appends a row. A path that's already present is left untouched and
// false is returned, so every path appears at most once.
func (rr *RunResult) Add(o Outcome) bool {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	if _, ok := rr.index[o.Target.Path]; ok {
		return false
	}
	row := o
	rr.outcomes = append(rr.outcomes, &row)
	rr.index[o.Target.Path] = &row
	return true
}

// SetStatus implements StatusSink. Last write wins.
func (rr *RunResult) SetStatus(path string, status Status, reason string) bool {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	o, ok := rr.index[path]
	if !ok {
		return false
	}
	o.Status = status
	if status == StatusFailed {
		o.Reason = reason
	} else {
		o.Reason = ""
	}
	return true
}

func (rr *RunResult) Outcome(path string) (Outcome, bool) {
	rr.mu.RLock()
	defer rr.mu.RUnlock()

	o, ok := rr.index[path]
	if !ok {
		return Outcome{}, false
	}
	return *o, true
}

// Outcomes returns a copy of all rows in discovery order.
func (rr *RunResult) Outcomes() []Outcome {
	rr.mu.RLock()
	defer rr.mu.RUnlock()

	res := make([]Outcome, 0, len(rr.outcomes))
	for _, o := range rr.outcomes {
		res = append(res, *o)
	}
	return res
}

func (rr *RunResult) Len() int {
	rr.mu.RLock()
	defer rr.mu.RUnlock()
	return len(rr.outcomes)
}

func (rr *RunResult) addLifecycle(kind LifecycleKind, v Variant) LifecycleEvent {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	ev := LifecycleEvent{Kind: kind, Variant: v, At: time.Now()}
	rr.lifecycle = append(rr.lifecycle, ev)
	return ev
}

func (rr *RunResult) Lifecycle() []LifecycleEvent {
	rr.mu.RLock()
	defer rr.mu.RUnlock()

	res := make([]LifecycleEvent, len(rr.lifecycle))
	copy(res, rr.lifecycle)
	return res
}

func (rr *RunResult) setRunning(vs VariantSet) {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	rr.running = NewVariantSet(vs.Sorted()...)
}

// Running is the set of variants that were running before termination.
func (rr *RunResult) Running() VariantSet {
	rr.mu.RLock()
	defer rr.mu.RUnlock()
	return NewVariantSet(rr.running.Sorted()...)
}

func (rr *RunResult) finish() {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	rr.finishedAt = time.Now()
}

// Elapsed is the wall-clock duration of the run, or time since start
// while it's still going.
func (rr *RunResult) Elapsed() time.Duration {
	rr.mu.RLock()
	defer rr.mu.RUnlock()
	if rr.finishedAt.IsZero() {
		return time.Since(rr.startedAt)
	}
	return rr.finishedAt.Sub(rr.startedAt)
}

// Complete reports whether every row has reached a terminal status.
func (rr *RunResult) Complete() bool {
	rr.mu.RLock()
	defer rr.mu.RUnlock()
	for _, o := range rr.outcomes {
		if !o.Status.Terminal() {
			return false
		}
	}
	return true
}

// Summary counts rows per status.
type Summary struct {
	Success  int `json:"success"`
	Timeout  int `json:"timeout"`
	Failed   int `json:"failed"`
	NotFound int `json:"notFound"`
	Pending  int `json:"pending"`
}

// Problems is the number of rows that need attention (retry candidates).
func (s Summary) Problems() int {
	return s.Timeout + s.Failed
}

func (rr *RunResult) Summary() Summary {
	var s Summary
	for _, o := range rr.Outcomes() {
		switch o.Status {
		case StatusSuccess:
			s.Success++
		case StatusTimeout:
			s.Timeout++
		case StatusFailed:
			s.Failed++
		case StatusNotFound:
			s.NotFound++
		default:
			s.Pending++
		}
	}
	return s
}

type runResultJSON struct {
	ID         string           `json:"id"`
	StartedAt  time.Time        `json:"startedAt"`
	FinishedAt *time.Time       `json:"finishedAt,omitempty"`
	Running    []Variant        `json:"running"`
	Outcomes   []Outcome        `json:"outcomes"`
	Lifecycle  []LifecycleEvent `json:"lifecycle"`
	Summary    Summary          `json:"summary"`
}

func (rr *RunResult) MarshalJSON() ([]byte, error) {
	rj := runResultJSON{
		ID:        rr.ID,
		Running:   rr.Running().Sorted(),
		Outcomes:  rr.Outcomes(),
		Lifecycle: rr.Lifecycle(),
		Summary:   rr.Summary(),
	}

	rr.mu.RLock()
	rj.StartedAt = rr.startedAt
	if !rr.finishedAt.IsZero() {
		fa := rr.finishedAt
		rj.FinishedAt = &fa
	}
	rr.mu.RUnlock()

	if rj.Running == nil {
		rj.Running = []Variant{}
	}
	return json.Marshal(rj)
}
