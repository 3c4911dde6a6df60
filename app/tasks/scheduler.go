package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

const (
	taskTimeout   = 5 * time.Minute
	maxRetryDelay = 30 * time.Second
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

type Scheduler struct {
	refresher   Refresher
	pruner      Pruner
	images      StaleImageDeleter
	interval    time.Duration
	workerCount int
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	taskQueue   chan TaskInterface
}

// NewScheduler builds a cache warmer. pruner and images may be nil.
func NewScheduler(refresher Refresher, pruner Pruner, images StaleImageDeleter,
	interval time.Duration, workerCount int) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		refresher:   refresher,
		pruner:      pruner,
		images:      images,
		interval:    interval,
		workerCount: max(1, workerCount),
		ctx:         ctx,
		cancel:      cancel,
		taskQueue:   make(chan TaskInterface, 300),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		// a non-positive interval warms once at startup only
		if s.interval <= 0 {
			s.enqueueTasks()
			return
		}

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueTasks()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueTasks()
				s.enqueueMaintenanceTasks()
			}
		}
	}()
}

// Stop cancels in-flight tasks and waits for workers to exit. The queue is
// left open so pending retries cannot send on a closed channel.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
	}

	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

func (s *Scheduler) enqueueTasks() {
	categories := s.refresher.Categories()
	if len(categories) == 0 {
		slog.Debug("No categories to warm")
		return
	}

	slog.Debug("Scheduling category warm-up", "count", len(categories))

	for _, category := range categories {
		if err := s.EnqueueTask(NewWarmCategoryTask(category, s.refresher)); err != nil {
			slog.Warn("Failed to enqueue WarmCategoryTask", "category", category, "error", err)
		}
	}
}

func (s *Scheduler) enqueueMaintenanceTasks() {
	if s.pruner != nil {
		if err := s.EnqueueTask(NewPruneCacheTask(s.pruner)); err != nil {
			slog.Warn("Failed to enqueue PruneCacheTask", "error", err)
		}
	}
	if s.images != nil {
		if err := s.EnqueueTask(NewPruneImagesTask(s.images)); err != nil {
			slog.Warn("Failed to enqueue PruneImagesTask", "error", err)
		}
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task := <-s.taskQueue:
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, taskTimeout)
	defer cancel()

	err := task.Execute(taskCtx)
	if err == nil {
		return
	}

	slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

	if !task.CanRetry() {
		slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		return
	}

	task.IncrementRetryCount()
	delay := retryDelay(task.GetRetryCount())

	slog.Warn("Task retry scheduled", "type", string(task.GetType()), "target", task.GetTarget(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", delay.String())

	go func() {
		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-s.ctx.Done():
			slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
		case <-timer.C:
			if retryErr := s.EnqueueTask(task); retryErr != nil {
				slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
			}
		}
	}()
}

// retryDelay doubles per attempt starting at one second, capped at 30s.
func retryDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if attempt > 6 {
		return maxRetryDelay
	}
	return min(time.Duration(1<<uint(attempt-1))*time.Second, maxRetryDelay)
}
