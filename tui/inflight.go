package tui

import (
	"sync"

	"github.com/teamstools/teams-cache-clear/purge"
)

// inflight tracks the runs and retries started from the interface so they
// can be waited for once the program is gone.
type inflight struct {
	wg sync.WaitGroup

	mu   sync.Mutex
	last *purge.RunResult
}

func (f *inflight) run(task *purge.Task[*purge.RunResult]) {
	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		rr, err := task.Wait()
		if err != nil {
			return
		}
		f.mu.Lock()
		f.last = rr
		f.mu.Unlock()
	}()
}

func (f *inflight) retry(task *purge.Task[purge.Outcome]) {
	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		<-task.Done()
	}()
}

// wait blocks until everything started so far is done and returns the last
// run that finished, if any.
func (f *inflight) wait() *purge.RunResult {
	f.wg.Wait()

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}
