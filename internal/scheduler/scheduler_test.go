package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_AddAndRun(t *testing.T) {
	s := New()
	ran := make(chan struct{}, 1)
	require.NoError(t, s.Add("tick", "@every 1s", func(ctx context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	}))
	assert.Equal(t, []string{"tick"}, s.Jobs())

	s.Start()
	defer s.Stop(context.Background())

	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not run")
	}
}

func TestScheduler_EmptySpecDisables(t *testing.T) {
	s := New()
	require.NoError(t, s.Add("sweep", "", func(context.Context) error { return nil }))
	assert.Empty(t, s.Jobs())
}

func TestScheduler_InvalidSpec(t *testing.T) {
	s := New()
	err := s.Add("bad", "not a cron", func(context.Context) error { return nil })
	assert.ErrorContains(t, err, "invalid cron spec")
	assert.Empty(t, s.Jobs())
}

func TestScheduler_ReplaceJob(t *testing.T) {
	s := New()
	require.NoError(t, s.Add("sweep", "@hourly", func(context.Context) error { return nil }))
	require.NoError(t, s.Add("sweep", "@daily", func(context.Context) error { return nil }))
	assert.Equal(t, []string{"sweep"}, s.Jobs())
}

func TestScheduler_StopCancelsJobContext(t *testing.T) {
	s := New()
	started := make(chan struct{})
	cancelled := make(chan struct{})
	var once sync.Once
	require.NoError(t, s.Add("long", "@every 1s", func(ctx context.Context) error {
		first := false
		once.Do(func() { first = true })
		if !first {
			return nil
		}
		close(started)
		<-ctx.Done()
		close(cancelled)
		return ctx.Err()
	}))
	s.Start()

	select {
	case <-started:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not start")
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	s.Stop(stopCtx)

	select {
	case <-cancelled:
	default:
		t.Fatal("job context was not cancelled")
	}
}
