package tasks

import (
	"context"

	"github.com/lysyi3m/headline-comb/app/cache"
)

// TaskSchedulerInterface defines the interface for task scheduling operations.
// Used by the main application to keep the headline cache warm in the background.
// Example usage:
//
//	scheduler := NewScheduler(service, cache, imageRepo, interval, workerCount)
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.EnqueueTask(NewWarmCategoryTask("sports", service))
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}

// Refresher recomputes cached category results.
type Refresher interface {
	Categories() []string
	Refresh(ctx context.Context, category string) error
}

// Pruner drops expired entries from an in-memory cache.
type Pruner interface {
	Prune() int
}

// StaleImageDeleter removes outdated persisted page image lookups.
type StaleImageDeleter interface {
	DeleteStale() (int64, error)
}

var _ Pruner = (*cache.Cache)(nil)
