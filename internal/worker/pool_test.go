package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockResult implements Result
type mockResult struct {
	err error
}

func (r *mockResult) GetError() error {
	return r.err
}

// mockJob implements Job
type mockJob struct {
	duration  time.Duration
	shouldErr bool
	executed  *int32
}

func (j *mockJob) Execute(ctx context.Context) Result {
	if j.executed != nil {
		atomic.AddInt32(j.executed, 1)
	}
	if j.duration > 0 {
		select {
		case <-time.After(j.duration):
		case <-ctx.Done():
			return &mockResult{err: ctx.Err()}
		}
	}
	if j.shouldErr {
		return &mockResult{err: errors.New("job error")}
	}
	return &mockResult{}
}

func TestNewPool(t *testing.T) {
	assert.Equal(t, 5, NewPool(context.Background(), 5).workers)
	assert.Equal(t, 1, NewPool(context.Background(), 0).workers)
	assert.Equal(t, 1, NewPool(context.Background(), -1).workers)
}

func TestPool_Execution(t *testing.T) {
	pool := NewPool(context.Background(), 2)
	pool.Start()

	var executed int32
	count := 10
	for i := 0; i < count; i++ {
		require.True(t, pool.Submit(&mockJob{executed: &executed}))
	}

	results := pool.Wait()
	assert.Len(t, results, count)
	assert.Equal(t, int32(count), atomic.LoadInt32(&executed))
}

func TestPool_ManyMoreJobsThanBuffer(t *testing.T) {
	pool := NewPool(context.Background(), 1)
	pool.Start()

	done := make(chan []Result)
	go func() {
		for i := 0; i < 100; i++ {
			pool.Submit(&mockJob{})
		}
		done <- pool.Wait()
	}()

	select {
	case results := <-done:
		assert.Len(t, results, 100)
	case <-time.After(5 * time.Second):
		t.Fatal("pool blocked with more jobs than buffer slots")
	}
}

// concurrencyJob tracks max concurrent executions
type concurrencyJob struct {
	start    func()
	end      func()
	duration time.Duration
}

func (j *concurrencyJob) Execute(ctx context.Context) Result {
	if j.start != nil {
		j.start()
	}
	time.Sleep(j.duration)
	if j.end != nil {
		j.end()
	}
	return &mockResult{}
}

func TestPool_Concurrency(t *testing.T) {
	workers := 4
	pool := NewPool(context.Background(), workers)
	pool.Start()

	var current, maxConcurrent, completed int32
	var mu sync.Mutex

	total := 20
	for i := 0; i < total; i++ {
		pool.Submit(&concurrencyJob{
			start: func() {
				curr := atomic.AddInt32(&current, 1)
				mu.Lock()
				if curr > maxConcurrent {
					maxConcurrent = curr
				}
				mu.Unlock()
			},
			end: func() {
				atomic.AddInt32(&current, -1)
				atomic.AddInt32(&completed, 1)
			},
			duration: 5 * time.Millisecond,
		})
	}

	pool.Wait()
	assert.Equal(t, int32(total), atomic.LoadInt32(&completed))

	mu.Lock()
	defer mu.Unlock()
	assert.LessOrEqual(t, maxConcurrent, int32(workers))
}

func TestPool_ErrorHandling(t *testing.T) {
	pool := NewPool(context.Background(), 2)
	pool.Start()

	pool.Submit(&mockJob{shouldErr: true})
	pool.Submit(&mockJob{})

	results := pool.Wait()
	require.Len(t, results, 2)

	failed := 0
	for _, res := range results {
		if res.GetError() != nil {
			failed++
		}
	}
	assert.Equal(t, 1, failed)
}

func TestPool_SubmitAfterShutdown(t *testing.T) {
	pool := NewPool(context.Background(), 2)
	pool.Start()
	pool.Shutdown()

	done := make(chan bool)
	go func() {
		done <- pool.Submit(&mockJob{})
	}()

	select {
	case ok := <-done:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("Submit after shutdown blocked")
	}
}

func TestPool_ShutdownInterruptsJobs(t *testing.T) {
	pool := NewPool(context.Background(), 1)
	pool.Start()

	started := make(chan struct{})
	pool.Submit(&concurrencyJob{start: func() { close(started) }})
	<-started
	pool.Submit(&mockJob{duration: time.Minute})

	done := make(chan struct{})
	go func() {
		pool.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Shutdown timed out")
	}
}

func TestPool_ShutdownWithoutStart(t *testing.T) {
	pool := NewPool(context.Background(), 1)
	assert.Nil(t, pool.Shutdown())
}
