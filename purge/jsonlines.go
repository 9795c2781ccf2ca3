package purge

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"
)

type Payload interface {
	GetType() string
}

type message struct {
	Type    string  `json:"type"`
	Payload Payload `json:"payload"`
}

var jsonEnabled = false
var jsonOut io.Writer = os.Stdout
var jsonLock sync.Mutex

func EnableJSON(w io.Writer) {
	jsonLock.Lock()
	defer jsonLock.Unlock()

	jsonEnabled = true
	if w != nil {
		jsonOut = w
	}
}

func DisableJSON() {
	jsonLock.Lock()
	defer jsonLock.Unlock()

	jsonEnabled = false
	jsonOut = os.Stdout
}

func JSONEnabled() bool {
	jsonLock.Lock()
	defer jsonLock.Unlock()

	return jsonEnabled
}

// Emit writes one JSON line for p, if JSON output is on.
func Emit(p Payload) {
	if !JSONEnabled() {
		return
	}

	bs, err := json.Marshal(&message{
		Type:    p.GetType(),
		Payload: p,
	})
	if err != nil {
		// not under jsonLock: log output comes back through here
		log.Printf("Could not send JSON object: %+v", err)
		return
	}

	jsonLock.Lock()
	defer jsonLock.Unlock()
	if jsonEnabled {
		fmt.Fprintf(jsonOut, "%s\n", bs)
	}
}

// LogWriter turns log output into "log" messages. Use it as one of the
// writers behind log.SetOutput.
type LogWriter struct{}

func (LogWriter) Write(p []byte) (int, error) {
	Emit(Log{Level: "info", Message: string(trimNewline(p))})
	return len(p), nil
}

func trimNewline(p []byte) []byte {
	for len(p) > 0 && (p[len(p)-1] == '\n' || p[len(p)-1] == '\r') {
		p = p[:len(p)-1]
	}
	return p
}

//-------------------------------

type Log struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

func (p Log) GetType() string { return "log" }

//-------------------------------

type StateChanged struct {
	State string `json:"state"`
}

func (p StateChanged) GetType() string { return "state-changed" }

//-------------------------------

type TargetDiscovered struct {
	Name    string  `json:"name"`
	Path    string  `json:"path"`
	Variant Variant `json:"variant"`
	Status  string  `json:"status"`
}

func (p TargetDiscovered) GetType() string { return "target-discovered" }

//-------------------------------

type StatusChanged struct {
	RunID  string `json:"runId"`
	Path   string `json:"path"`
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

func (p StatusChanged) GetType() string { return "status-changed" }

//-------------------------------

type ProcessLifecycle struct {
	Kind    LifecycleKind `json:"-"`
	Variant Variant       `json:"variant"`
	At      time.Time     `json:"at"`
}

func (p ProcessLifecycle) GetType() string { return string(p.Kind) }

//-------------------------------

type RunComplete struct {
	ID       string    `json:"id"`
	Elapsed  float64   `json:"elapsed"`
	Summary  Summary   `json:"summary"`
	Detached int64     `json:"detached"`
	Outcomes []Outcome `json:"outcomes"`
}

func (p RunComplete) GetType() string { return "run-complete" }

//-------------------------------

// EmitHandlers returns runner callbacks that mirror every event as JSON lines.
// Chain them with the presentation layer's own callbacks.
func EmitHandlers(d *Deleter) RunnerSettings {
	return RunnerSettings{
		OnStateChanged: func(s State) {
			Emit(StateChanged{State: s.String()})
		},
		OnTargetDiscovered: func(o Outcome) {
			Emit(TargetDiscovered{
				Name:    o.Target.DisplayName,
				Path:    o.Target.Path,
				Variant: o.Target.Variant,
				Status:  o.Status.String(),
			})
		},
		OnStatusChanged: func(rr *RunResult, o Outcome) {
			Emit(StatusChanged{RunID: rr.ID, Path: o.Target.Path, Status: o.Status.String(), Reason: o.Reason})
		},
		OnLifecycle: func(ev LifecycleEvent) {
			Emit(ProcessLifecycle{Kind: ev.Kind, Variant: ev.Variant, At: ev.At})
		},
		OnRunComplete: func(rr *RunResult) {
			var detached int64
			if d != nil {
				detached = d.Detached()
			}
			Emit(RunComplete{
				ID:       rr.ID,
				Elapsed:  rr.Elapsed().Seconds(),
				Summary:  rr.Summary(),
				Detached: detached,
				Outcomes: rr.Outcomes(),
			})
		},
	}
}
