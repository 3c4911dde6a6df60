package api

import (
	"context"

	"github.com/lysyi3m/headline-comb/app/feed"
	"github.com/lysyi3m/headline-comb/app/news"
	"github.com/lysyi3m/headline-comb/app/tasks"
)

type NewsService interface {
	Categories() []string
	All(ctx context.Context) (feed.BucketedNews, error)
	Category(ctx context.Context, category string) ([]feed.Headline, error)
	Refresh(ctx context.Context, category string) error
	Local(ctx context.Context, geo feed.Geo) (news.LocalResult, error)
	FindImage(ctx context.Context, pageURL string) string
	Stats() map[string]interface{}
}

var _ NewsService = (*news.Service)(nil)

type GeneratorInterface interface {
	Run(channel feed.Channel, headlines []feed.Headline) (string, error)
}

var _ GeneratorInterface = (*feed.Generator)(nil)

type Handler struct {
	news      NewsService
	generator GeneratorInterface
	scheduler tasks.TaskSchedulerInterface
	baseURL   string
	version   string
}
