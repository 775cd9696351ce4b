package queue

import (
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func TestBackoffSchedule(t *testing.T) {
	c := New(Config{}, testLogger())

	require.Equal(t, 2*time.Second, c.backoff(1))
	require.Equal(t, 4*time.Second, c.backoff(2))
	require.Equal(t, 8*time.Second, c.backoff(3))
	require.Equal(t, 16*time.Second, c.backoff(4))
	require.Equal(t, 32*time.Second, c.backoff(5))
	require.Equal(t, 60*time.Second, c.backoff(6))
	require.Equal(t, 60*time.Second, c.backoff(20))
}

func TestCoordinatorRunsJob(t *testing.T) {
	c := New(Config{MaxConcurrency: 1}, testLogger())
	defer c.Stop()

	done := make(chan struct{})
	c.Enqueue(&Job{TeamID: 1, Run: func() error {
		close(done)
		return nil
	}})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job never ran")
	}
}

func TestCoordinatorRetriesThenFails(t *testing.T) {
	c := New(Config{
		MaxConcurrency: 1,
		MaxRetries:     2,
		BaseDelay:      time.Millisecond,
		MaxDelay:       2 * time.Millisecond,
	}, testLogger())
	defer c.Stop()

	var runs atomic.Int32
	failed := make(chan error, 1)

	c.Enqueue(&Job{
		TeamID: 7,
		Run: func() error {
			runs.Add(1)
			return errors.New("evaluator down")
		},
		OnFail: func(err error) {
			failed <- err
		},
	})

	select {
	case err := <-failed:
		require.EqualError(t, err, "evaluator down")
	case <-time.After(2 * time.Second):
		t.Fatal("terminal failure never reported")
	}

	// initial run plus two retries
	require.Equal(t, int32(3), runs.Load())
}

func TestCoordinatorRecoversFromPanic(t *testing.T) {
	c := New(Config{
		MaxConcurrency: 1,
		MaxRetries:     1,
		BaseDelay:      time.Millisecond,
		MaxDelay:       time.Millisecond,
	}, testLogger())
	defer c.Stop()

	failed := make(chan error, 1)
	c.Enqueue(&Job{
		TeamID: 3,
		Run:    func() error { panic("boom") },
		OnFail: func(err error) { failed <- err },
	})

	select {
	case err := <-failed:
		require.Contains(t, err.Error(), "panicked")
	case <-time.After(2 * time.Second):
		t.Fatal("panic was not converted into a failure")
	}
}

func TestCoordinatorHonorsConcurrencyCap(t *testing.T) {
	c := New(Config{MaxConcurrency: 2}, testLogger())
	defer c.Stop()

	var mu sync.Mutex
	var current, peak int
	release := make(chan struct{})
	var done sync.WaitGroup

	for i := 0; i < 6; i++ {
		done.Add(1)
		c.Enqueue(&Job{TeamID: uint(i + 1), Run: func() error {
			mu.Lock()
			current++
			if current > peak {
				peak = current
			}
			mu.Unlock()

			<-release

			mu.Lock()
			current--
			mu.Unlock()
			done.Done()
			return nil
		}})
	}

	time.Sleep(100 * time.Millisecond)
	close(release)
	done.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.LessOrEqual(t, peak, 2)
	require.Equal(t, 2, peak)
}

func TestPendingRegistry(t *testing.T) {
	c := New(Config{}, testLogger())
	defer c.Stop()

	_, ok := c.Pending(42)
	require.False(t, ok)

	c.TrackPending(42, "deck-172000")

	entry, ok := c.Pending(42)
	require.True(t, ok)
	require.Equal(t, "deck-172000", entry.StoredName)
	require.WithinDuration(t, time.Now(), entry.StartedAt, time.Second)

	c.ClearPending(42)
	_, ok = c.Pending(42)
	require.False(t, ok)
}

func TestStopDuringEnqueueBurst(t *testing.T) {
	c := New(Config{MaxConcurrency: 3}, testLogger())

	var producers sync.WaitGroup
	for i := 0; i < 8; i++ {
		producers.Add(1)
		go func(id int) {
			defer producers.Done()
			for j := 0; j < 50; j++ {
				c.Enqueue(&Job{TeamID: uint(id), Run: func() error { return nil }})
			}
		}(i + 1)
	}

	stopped := make(chan struct{})
	go func() {
		c.Stop()
		close(stopped)
	}()

	producers.Wait()

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("stop never returned")
	}
}

func TestStopRejectsNewWork(t *testing.T) {
	c := New(Config{MaxConcurrency: 1}, testLogger())
	c.Stop()

	ran := make(chan struct{}, 1)
	c.Enqueue(&Job{TeamID: 1, Run: func() error {
		ran <- struct{}{}
		return nil
	}})

	select {
	case <-ran:
		t.Fatal("job ran after stop")
	case <-time.After(50 * time.Millisecond):
	}
}
