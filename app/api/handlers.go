package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/headline-comb/app/feed"
	"github.com/lysyi3m/headline-comb/app/news"
	"github.com/lysyi3m/headline-comb/app/tasks"
)

// NewHandler builds the HTTP handlers. scheduler may be nil, in which case
// refresh requests run inline.
func NewHandler(service NewsService, scheduler tasks.TaskSchedulerInterface, baseURL, version string) *Handler {
	return &Handler{
		news:      service,
		generator: feed.NewGenerator(),
		scheduler: scheduler,
		baseURL:   strings.TrimRight(baseURL, "/"),
		version:   version,
	}
}

func (h *Handler) GetNews(c *gin.Context) {
	mode, ok := news.ParseSortMode(c.Query("sort"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "Invalid sort mode"})
		return
	}

	all, err := h.news.All(c.Request.Context())
	if err != nil {
		slog.Error("Aggregation error", "operation", "all", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "error": "Aggregation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":   true,
		"data": news.SortBuckets(all, mode),
		"ts":   time.Now().UnixMilli(),
	})
}

func (h *Handler) GetCategory(c *gin.Context) {
	category := c.Param("category")

	mode, ok := news.ParseSortMode(c.Query("sort"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "Invalid sort mode"})
		return
	}

	headlines, ok := h.category(c, category)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":        true,
		"category":  category,
		"headlines": news.Sort(headlines, mode),
		"count":     len(headlines),
	})
}

func (h *Handler) GetLocal(c *gin.Context) {
	geo := feed.Geo{
		City:    strings.TrimSpace(c.Query("city")),
		Region:  strings.TrimSpace(c.Query("region")),
		Country: strings.TrimSpace(c.Query("country")),
	}

	result, err := h.news.Local(c.Request.Context(), geo)
	if err != nil {
		slog.Error("Aggregation error", "operation", "local", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "error": "Aggregation failed"})
		return
	}

	headlines := result.Headlines
	if headlines == nil {
		headlines = []feed.Headline{}
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":        true,
		"geo":       result.Geo,
		"query":     result.Query,
		"locale":    result.Locale,
		"count":     len(headlines),
		"headlines": headlines,
		"ts":        time.Now().UnixMilli(),
	})
}

func (h *Handler) GetPageImage(c *gin.Context) {
	pageURL := strings.TrimSpace(c.Query("url"))
	if pageURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "Missing url parameter"})
		return
	}

	image := h.news.FindImage(c.Request.Context(), pageURL)

	c.JSON(http.StatusOK, gin.H{
		"ok":    true,
		"image": image,
	})
}

func (h *Handler) GetFeed(c *gin.Context) {
	category := c.Param("category")

	headlines, ok := h.category(c, category)
	if !ok {
		return
	}
	headlines = news.Sort(headlines, news.SortNewest)

	channel := feed.Channel{
		Title:     fmt.Sprintf("Headline Comb: %s", category),
		Link:      h.publicURL("/api/news/" + category),
		SelfLink:  h.publicURL("/feeds/" + category),
		Generator: fmt.Sprintf("Headline Comb/%s", h.version),
	}

	rss, err := h.generator.Run(channel, headlines)
	if err != nil {
		slog.Error("RSS generation error", "category", category, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.Header("X-Feed-Items", strconv.Itoa(len(headlines)))
	c.Header("X-Feed-Name", category)

	c.String(http.StatusOK, rss)
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"version":   h.version,
	}

	for key, value := range h.news.Stats() {
		health[key] = value
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) APIRefreshCategory(c *gin.Context) {
	category := c.Param("category")

	if h.scheduler == nil {
		err := h.news.Refresh(c.Request.Context(), category)
		if errors.Is(err, feed.ErrUnknownCategory) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}
		if err != nil {
			slog.Error("Error refreshing category", "category", category, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to refresh category", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Category refreshed", "category": category})
		return
	}

	if !slices.Contains(h.news.Categories(), category) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	task := tasks.NewWarmCategoryTask(category, h.news)
	if err := h.scheduler.EnqueueTask(task); err != nil {
		slog.Error("Error enqueueing warm task", "category", category, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to enqueue warm task",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success":  true,
		"message":  "Refresh task enqueued",
		"category": category,
		"task": gin.H{
			"id":   task.ID,
			"type": task.Type,
		},
	})
}

// category loads one category and writes the error response itself when
// that fails.
func (h *Handler) category(c *gin.Context, category string) ([]feed.Headline, bool) {
	headlines, err := h.news.Category(c.Request.Context(), category)
	if errors.Is(err, feed.ErrUnknownCategory) {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "Category not found"})
		return nil, false
	}
	if err != nil {
		slog.Error("Aggregation error", "operation", "category", "category", category, "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "error": "Aggregation failed"})
		return nil, false
	}
	if headlines == nil {
		headlines = []feed.Headline{}
	}
	return headlines, true
}

func (h *Handler) publicURL(path string) string {
	if h.baseURL == "" {
		return ""
	}
	return h.baseURL + path
}
