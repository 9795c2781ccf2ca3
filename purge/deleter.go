package purge

import (
	"context"
	"io/fs"
	"log"
	"os"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
)

// DefaultTimeout is how long a single target may take before we stop waiting.
const DefaultTimeout = 10 * time.Second

// Remover does the actual filesystem work for one path.
type Remover interface {
	Lstat(path string) (os.FileInfo, error)
	// RemoveTree removes a directory and everything below it.
	RemoveTree(path string) error
	// RemoveFile removes a single entry (file or symlink).
	RemoveFile(path string) error
}

// OSRemover is the Remover backed by package os.
type OSRemover struct{}

func (OSRemover) Lstat(path string) (os.FileInfo, error) { return os.Lstat(path) }
func (OSRemover) RemoveTree(path string) error           { return os.RemoveAll(path) }
func (OSRemover) RemoveFile(path string) error           { return os.Remove(path) }

// Deleter removes one target at a time, on its own goroutine, and never
// waits longer than Timeout for it. A removal that overruns is abandoned:
// it keeps going in the background and Detached counts it until it returns.
type Deleter struct {
	Timeout time.Duration
	Remover Remover

	detached atomic.Int64
}

func NewDeleter(timeout time.Duration) *Deleter {
	return &Deleter{
		Timeout: timeout,
		Remover: OSRemover{},
	}
}

type removal struct {
	notFound bool
	err      error
}

// Delete marks the target in progress, removes it, records the terminal
// status in sink and returns it. Errors never escape: they become statuses.
func (d *Deleter) Delete(ctx context.Context, target Target, sink StatusSink) Outcome {
	sink.SetStatus(target.Path, StatusInProgress, "")

	o := d.attempt(ctx, target)

	sink.SetStatus(target.Path, o.Status, o.Reason)
	return o
}

// Detached is the number of abandoned removals that haven't returned yet.
func (d *Deleter) Detached() int64 {
	return d.detached.Load()
}

func (d *Deleter) timeout() time.Duration {
	if d.Timeout <= 0 {
		return DefaultTimeout
	}
	return d.Timeout
}

func (d *Deleter) remover() Remover {
	if d.Remover == nil {
		return OSRemover{}
	}
	return d.Remover
}

func (d *Deleter) attempt(ctx context.Context, target Target) Outcome {
	o := Outcome{Target: target}

	done := make(chan removal, 1)
	go func() {
		done <- d.remove(target.Path)
	}()

	timer := time.NewTimer(d.timeout())
	defer timer.Stop()

	select {
	case res := <-done:
		switch {
		case res.notFound:
			o.Status = StatusNotFound
		case res.err != nil:
			o.Status = StatusFailed
			o.Reason = failureReason(res.err)
			log.Printf("delete (%s) failed: %+v", target.Path, res.err)
		default:
			o.Status = StatusSuccess
			log.Printf("deleted (%s)", target.Path)
		}
	case <-timer.C:
		log.Printf("delete (%s) still running after %s, moving on", target.Path, d.timeout())
		d.abandon(target.Path, done)
		o.Status = StatusTimeout
	case <-ctx.Done():
		log.Printf("delete (%s) cancelled", target.Path)
		d.abandon(target.Path, done)
		o.Status = StatusFailed
		o.Reason = "cancelled"
	}
	return o
}

func (d *Deleter) remove(path string) removal {
	rm := d.remover()

	info, err := rm.Lstat(path)
	if err != nil {
		if os.IsNotExist(errors.Cause(err)) {
			return removal{notFound: true}
		}
		return removal{err: errors.WithMessage(err, "while inspecting target")}
	}

	if info.IsDir() {
		// best-effort, like a recursive delete that ignores errors: whatever
		// could not be removed stays behind and the target still counts as done
		if err := rm.RemoveTree(path); err != nil {
			log.Printf("warning: (%s) partially removed: %v", path, err)
		}
		return removal{}
	}

	if err := rm.RemoveFile(path); err != nil {
		return removal{err: err}
	}
	return removal{}
}

func (d *Deleter) abandon(path string, done <-chan removal) {
	n := d.detached.Add(1)
	log.Printf("warning: %d abandoned removal(s) still running in the background", n)
	go func() {
		res := <-done
		d.detached.Add(-1)
		log.Printf("abandoned removal of (%s) returned (err = %v)", path, res.err)
	}()
}

func failureReason(err error) string {
	if errors.Is(err, fs.ErrPermission) {
		return "access denied"
	}
	var pe *fs.PathError
	if errors.As(err, &pe) {
		return pe.Err.Error()
	}
	return err.Error()
}
