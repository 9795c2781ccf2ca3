package purge

// WithHandlers returns settings whose callbacks call the ones already in
// settings first, then each extra set's, in order. Only the On* fields of
// extra are looked at.
func WithHandlers(settings RunnerSettings, extra ...RunnerSettings) RunnerSettings {
	all := append([]RunnerSettings{settings}, extra...)

	settings.OnRunStarted = func(rr *RunResult) {
		for _, s := range all {
			if s.OnRunStarted != nil {
				s.OnRunStarted(rr)
			}
		}
	}
	settings.OnTargetDiscovered = func(o Outcome) {
		for _, s := range all {
			if s.OnTargetDiscovered != nil {
				s.OnTargetDiscovered(o)
			}
		}
	}
	settings.OnStatusChanged = func(rr *RunResult, o Outcome) {
		for _, s := range all {
			if s.OnStatusChanged != nil {
				s.OnStatusChanged(rr, o)
			}
		}
	}
	settings.OnRunComplete = func(rr *RunResult) {
		for _, s := range all {
			if s.OnRunComplete != nil {
				s.OnRunComplete(rr)
			}
		}
	}
	settings.OnStateChanged = func(st State) {
		for _, s := range all {
			if s.OnStateChanged != nil {
				s.OnStateChanged(st)
			}
		}
	}
	settings.OnLifecycle = func(ev LifecycleEvent) {
		for _, s := range all {
			if s.OnLifecycle != nil {
				s.OnLifecycle(ev)
			}
		}
	}
	return settings
}
