package purge

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestTask_WaitReturnsValue(t *testing.T) {
	task := startTask(context.Background(), func(ctx context.Context) (int, error) {
		return 42, nil
	})

	v, err := task.Wait()
	assert.NoError(t, err)
	assert.Equal(t, 42, v)

	select {
	case <-task.Done():
	default:
		t.Fatal("Done should be closed after Wait")
	}
}

func TestTask_CancelReachesFunction(t *testing.T) {
	started := make(chan struct{})
	task := startTask(context.Background(), func(ctx context.Context) (string, error) {
		close(started)
		<-ctx.Done()
		return "", errors.WithMessage(ctx.Err(), "stopped")
	})

	<-started
	task.Cancel()

	select {
	case <-task.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("task didn't stop")
	}
	_, err := task.Wait()
	assert.True(t, errors.Is(err, context.Canceled))
}
