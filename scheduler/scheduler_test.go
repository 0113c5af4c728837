package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skill_barter/config"
)

func newTestScheduler() *Scheduler {
	cfg := &config.Config{}
	cfg.Scheduler.CheckIntervalSec = 60
	return NewScheduler(cfg)
}

func TestCheckTasks_RunsDueTask(t *testing.T) {
	s := newTestScheduler()
	var calls atomic.Int32
	s.Register(TaskEmbeddingBackfill, "backfill", time.Minute, func(ctx context.Context) error {
		calls.Add(1)
		return nil
	})

	now := time.Now()
	s.checkTasks(context.Background(), now)
	s.Wait()

	assert.Equal(t, int32(1), calls.Load())
	st, ok := s.Status(TaskEmbeddingBackfill)
	require.True(t, ok)
	assert.False(t, st.IsRunning)
	assert.Equal(t, now, st.LastRun)
	assert.Equal(t, now.Add(time.Minute), st.NextRun)

	// 未到下次运行时间
	s.checkTasks(context.Background(), now.Add(30*time.Second))
	s.Wait()
	assert.Equal(t, int32(1), calls.Load())
}

func TestCheckTasks_SkipsRunningTask(t *testing.T) {
	s := newTestScheduler()
	release := make(chan struct{})
	var calls atomic.Int32
	s.Register(TaskEmbeddingBackfill, "backfill", time.Minute, func(ctx context.Context) error {
		calls.Add(1)
		<-release
		return nil
	})

	now := time.Now()
	s.checkTasks(context.Background(), now)
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	s.checkTasks(context.Background(), now.Add(time.Hour))
	close(release)
	s.Wait()

	assert.Equal(t, int32(1), calls.Load())
}

func TestRunTask_RecordsError(t *testing.T) {
	s := newTestScheduler()
	s.Register(TaskEmbeddingBackfill, "backfill", time.Minute, func(ctx context.Context) error {
		return errors.New("db down")
	})

	s.checkTasks(context.Background(), time.Now())
	s.Wait()

	st, _ := s.Status(TaskEmbeddingBackfill)
	assert.Equal(t, "db down", st.LastError)
}

func TestStart_Disabled(t *testing.T) {
	cfg := &config.Config{}
	s := Start(context.Background(), cfg)

	_, ok := s.Status(TaskEmbeddingBackfill)
	assert.False(t, ok)
}
