package purge

import "context"

// Task is a unit of background work the presentation layer can wait on,
// poll, or cancel.
type Task[T any] struct {
	done   chan struct{}
	cancel context.CancelFunc

	value T
	err   error
}

func startTask[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) *Task[T] {
	ctx, cancel := context.WithCancel(ctx)
	t := &Task[T]{
		done:   make(chan struct{}),
		cancel: cancel,
	}

	go func() {
		defer close(t.done)
		defer cancel()
		t.value, t.err = fn(ctx)
	}()

	return t
}

// Done is closed once the task has finished.
func (t *Task[T]) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task has finished.
func (t *Task[T]) Wait() (T, error) {
	<-t.done
	return t.value, t.err
}

// Cancel asks the task to stop. It still runs to a consistent end,
// so Wait afterwards.
func (t *Task[T]) Cancel() {
	t.cancel()
}
