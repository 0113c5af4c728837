package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"skill_barter/config"
	"skill_barter/logger"
	"skill_barter/services"
)

// 将秒数转换为时间间隔
func secondsToDuration(seconds int) time.Duration {
	return time.Duration(seconds) * time.Second
}

// 任务类型
type TaskType int

const (
	TaskEmbeddingBackfill TaskType = iota
)

// 任务状态
type TaskStatus struct {
	LastRun     time.Time
	NextRun     time.Time
	IsRunning   bool
	LastError   string
	Description string
}

// TaskFunc 任务体，返回错误只记录日志
type TaskFunc func(ctx context.Context) error

type task struct {
	status   *TaskStatus
	interval time.Duration
	run      TaskFunc
}

// 任务调度器
type Scheduler struct {
	cfg           *config.Config
	checkInterval time.Duration
	tasks         map[TaskType]*task
	mutex         sync.Mutex
	wg            sync.WaitGroup
}

// 创建新的调度器
func NewScheduler(cfg *config.Config) *Scheduler {
	checkInterval := cfg.Scheduler.CheckIntervalSec
	if checkInterval <= 0 {
		checkInterval = 60 // 默认值
	}
	return &Scheduler{
		cfg:           cfg,
		checkInterval: secondsToDuration(checkInterval),
		tasks:         make(map[TaskType]*task),
	}
}

// 启动调度器，ctx 取消后主循环退出
func Start(ctx context.Context, cfg *config.Config) *Scheduler {
	s := NewScheduler(cfg)
	if !cfg.Scheduler.Enabled {
		logger.Info("调度器未启用")
		return s
	}

	s.initTasks()
	go s.run(ctx)

	logger.Info("调度器已启动", "check_interval", s.checkInterval.String())
	return s
}

// 初始化任务
func (s *Scheduler) initTasks() {
	s.Register(TaskEmbeddingBackfill, fmt.Sprintf("补全用户 embedding (每批 %d)", s.cfg.Scheduler.BackfillBatch),
		s.checkInterval, func(ctx context.Context) error {
			_, _, err := services.BackfillEmbeddings(ctx, s.cfg)
			return err
		})
	logger.Info("定时任务初始化完成", "task_count", len(s.tasks))
}

// Register 注册周期任务，首次检查时立即执行
func (s *Scheduler) Register(taskType TaskType, description string, interval time.Duration, fn TaskFunc) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.tasks[taskType] = &task{
		status: &TaskStatus{
			NextRun:     time.Now(),
			Description: description,
		},
		interval: interval,
		run:      fn,
	}
}

// Status 返回任务状态快照
func (s *Scheduler) Status(taskType TaskType) (TaskStatus, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	t, ok := s.tasks[taskType]
	if !ok {
		return TaskStatus{}, false
	}
	return *t.status, true
}

// Wait 等待正在执行的任务结束
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

// 主循环
func (s *Scheduler) run(ctx context.Context) {
	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("调度器已停止")
			return
		case now := <-ticker.C:
			s.checkTasks(ctx, now)
		}
	}
}

// 检查任务
func (s *Scheduler) checkTasks(ctx context.Context, now time.Time) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for taskType, t := range s.tasks {
		// 如果任务正在运行，跳过
		if t.status.IsRunning {
			continue
		}

		// 如果任务的NextRun为零值，跳过（表示不需要定期调度）
		if t.status.NextRun.IsZero() {
			continue
		}

		// 如果到达或超过下次运行时间，执行任务
		if !now.Before(t.status.NextRun) {
			t.status.IsRunning = true
			s.wg.Add(1)
			go s.runTask(ctx, taskType, t, now)
		}
	}
}

// 运行任务
func (s *Scheduler) runTask(ctx context.Context, taskType TaskType, t *task, now time.Time) {
	defer s.wg.Done()

	s.mutex.Lock()
	description := t.status.Description
	s.mutex.Unlock()
	logger.Info("开始执行任务", "task", description)

	err := t.run(ctx)

	s.mutex.Lock()
	defer s.mutex.Unlock()
	t.status.IsRunning = false
	t.status.LastRun = now
	t.status.NextRun = now.Add(t.interval)
	t.status.LastError = ""
	if err != nil {
		t.status.LastError = err.Error()
		logger.Error("任务执行失败", "task", description, "type", int(taskType), "error", err)
	}
	logger.Info("任务执行完成", "task", description, "next_run", t.status.NextRun.Format("2006-01-02 15:04:05"))
}
