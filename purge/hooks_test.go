package purge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithHandlers_CallsInOrder(t *testing.T) {
	var calls []string
	base := RunnerSettings{
		NoKill: true,
		OnStateChanged: func(s State) {
			calls = append(calls, "base:"+s.String())
		},
	}
	extra := RunnerSettings{
		// only callbacks are taken from extra sets
		NoRelaunch: true,
		OnStateChanged: func(s State) {
			calls = append(calls, "extra:"+s.String())
		},
		OnTargetDiscovered: func(o Outcome) {
			calls = append(calls, "discovered:"+o.Target.Path)
		},
	}

	s := WithHandlers(base, extra, RunnerSettings{})
	assert.True(t, s.NoKill)
	assert.False(t, s.NoRelaunch)

	s.OnStateChanged(StateDeleting)
	s.OnTargetDiscovered(Outcome{Target: Target{Path: "/a"}})
	// unset everywhere: still safe to call
	s.OnLifecycle(LifecycleEvent{})
	s.OnRunStarted(nil)

	assert.Equal(t, []string{"base:deleting", "extra:deleting", "discovered:/a"}, calls)
}
