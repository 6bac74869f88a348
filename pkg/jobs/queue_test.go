package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueProcessesTasks(t *testing.T) {
	done := make(chan Task, 1)
	queue := NewQueue("test", func(_ context.Context, task Task) error {
		done <- task
		return nil
	}, QueueConfig{Workers: 1})
	queue.Start(context.Background())
	defer queue.Stop()

	require.NoError(t, queue.Enqueue(Task{ID: "1", Kind: "ping", Payload: "hello"}))
	select {
	case task := <-done:
		assert.Equal(t, "ping", task.Kind)
		assert.Equal(t, "hello", task.Payload)
		assert.False(t, task.Enqueued.IsZero())
	case <-time.After(2 * time.Second):
		t.Fatal("task was not processed")
	}
}

func TestQueueRejectsBeforeStart(t *testing.T) {
	queue := NewQueue("test", func(context.Context, Task) error { return nil }, QueueConfig{})
	err := queue.Enqueue(Task{ID: "1"})
	require.Error(t, err)
}

func TestQueueRetriesFailedTasks(t *testing.T) {
	var mu sync.Mutex
	attempts := 0
	done := make(chan struct{})

	queue := NewQueue("test", func(_ context.Context, task Task) error {
		mu.Lock()
		attempts++
		current := attempts
		mu.Unlock()
		if current < 3 {
			return errors.New("transient")
		}
		close(done)
		return nil
	}, QueueConfig{Workers: 1, MaxRetries: 5, RetryDelay: 10 * time.Millisecond})
	queue.Start(context.Background())
	defer queue.Stop()

	require.NoError(t, queue.Enqueue(Task{ID: "1", Kind: "flaky"}))
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("task never succeeded after retries")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 3, attempts)
}

func TestQueueStopDrainsWorkers(t *testing.T) {
	queue := NewQueue("test", func(context.Context, Task) error { return nil }, QueueConfig{Workers: 2})
	queue.Start(context.Background())
	queue.Stop()

	// Enqueue after stop fails because the context is cancelled.
	err := queue.Enqueue(Task{ID: "1"})
	require.Error(t, err)
}
