package tasks

import (
	"context"
	"fmt"
	"log/slog"
)

// WarmCategoryTask re-aggregates one category so that requests are served
// from a fresh cache entry.
type WarmCategoryTask struct {
	Task
	refresher Refresher
}

func NewWarmCategoryTask(category string, refresher Refresher) *WarmCategoryTask {
	return &WarmCategoryTask{
		Task:      NewTask(TaskTypeWarmCategory, category),
		refresher: refresher,
	}
}

func (t *WarmCategoryTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if err := t.refresher.Refresh(ctx, t.Target); err != nil {
		return fmt.Errorf("failed to warm category: %w", err)
	}

	slog.Debug("Category warmed", "category", t.Target, "duration", t.GetDuration())
	return nil
}
