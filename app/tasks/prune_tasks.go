package tasks

import (
	"context"
	"fmt"
	"log/slog"
)

type PruneCacheTask struct {
	Task
	pruner Pruner
}

func NewPruneCacheTask(pruner Pruner) *PruneCacheTask {
	return &PruneCacheTask{
		Task:   NewTask(TaskTypePruneCache, "memory"),
		pruner: pruner,
	}
}

func (t *PruneCacheTask) Execute(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if removed := t.pruner.Prune(); removed > 0 {
		slog.Debug("Expired cache entries pruned", "count", removed)
	}
	return nil
}

type PruneImagesTask struct {
	Task
	images StaleImageDeleter
}

func NewPruneImagesTask(images StaleImageDeleter) *PruneImagesTask {
	return &PruneImagesTask{
		Task:   NewTask(TaskTypePruneImages, "page_images"),
		images: images,
	}
}

func (t *PruneImagesTask) Execute(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	deleted, err := t.images.DeleteStale()
	if err != nil {
		return fmt.Errorf("failed to prune page images: %w", err)
	}

	if deleted > 0 {
		slog.Debug("Stale page images pruned", "count", deleted)
	}
	return nil
}
