package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/travelwire/travelwire/app/cache"
	"github.com/travelwire/travelwire/app/cfg"
	"github.com/travelwire/travelwire/app/database"
	"github.com/travelwire/travelwire/app/news"
	"github.com/travelwire/travelwire/app/tasks"
)

const defaultArticleLimit = 50

func NewHandler(configCache *news.ConfigCache, sourceRepo *database.SourceRepository,
	articleRepo *database.ArticleRepository, filterer *news.Filterer,
	scheduler tasks.TaskSchedulerInterface, responseCache *cache.Cache) *Handler {
	return &Handler{
		sourceRepo:    sourceRepo,
		articleRepo:   articleRepo,
		configCache:   configCache,
		filterer:      filterer,
		scheduler:     scheduler,
		responseCache: responseCache,
	}
}

func (h *Handler) GetArticles(c *gin.Context) {
	sourceName := c.Query("source")

	limit := defaultArticleLimit
	if rawLimit := c.Query("limit"); rawLimit != "" {
		parsed, err := strconv.Atoi(rawLimit)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		limit = parsed
	}

	cacheKey := cache.ResponseKey(sourceName, limit)
	if payload, ok := h.responseCache.GetResponse(c.Request.Context(), cacheKey); ok {
		c.Header("X-Cache", "hit")
		c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
		return
	}

	articles, err := h.articleRepo.GetVisibleArticles(sourceName, limit)
	if err != nil {
		slog.Error("Database error", "operation", "get_articles", "source", sourceName, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	responses := make([]ArticleResponse, 0, len(articles))
	for _, article := range articles {
		responses = append(responses, toArticleResponse(article, false))
	}

	body := gin.H{
		"articles": responses,
		"total":    len(responses),
	}

	if payload, err := json.Marshal(body); err == nil {
		h.responseCache.SetResponse(c.Request.Context(), cacheKey, payload)
	}

	c.JSON(http.StatusOK, body)
}

func (h *Handler) GetArticle(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid article id"})
		return
	}

	article, err := h.articleRepo.GetArticle(id)
	if err != nil {
		slog.Error("Database error", "operation", "get_article", "article_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if article == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		return
	}

	c.JSON(http.StatusOK, toArticleResponse(*article, true))
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"version":   cfg.GetVersion(),
	}

	if sourceCount, err := h.sourceRepo.GetSourceCount(); err == nil {
		health["sources"] = sourceCount
	}

	health["loaded_configurations"] = h.configCache.GetConfigCount()

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.articleRepo.GetStats()
	if err != nil {
		slog.Error("Database error", "operation", "get_stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sources": h.configCache.GetConfigCount(),
		"articles": gin.H{
			"total":     stats.Total,
			"visible":   stats.Visible,
			"filtered":  stats.Filtered,
			"extracted": stats.Extracted,
		},
	})
}

func (h *Handler) APIListSources(c *gin.Context) {
	configs := h.configCache.GetConfigs()

	sources := make([]map[string]interface{}, 0, len(configs))

	for _, sourceConfig := range configs {
		sourceInfo := map[string]interface{}{
			"name":             sourceConfig.Name,
			"url":              sourceConfig.URL,
			"kind":             sourceConfig.Kind,
			"enabled":          sourceConfig.Settings.Enabled,
			"user_defined":     sourceConfig.UserDefined,
			"max_items":        sourceConfig.Settings.MaxItems,
			"refresh_interval": (time.Duration(sourceConfig.Settings.RefreshInterval) * time.Second).String(),
			"extract_content":  sourceConfig.Settings.ExtractContent,
			"filters":          len(sourceConfig.Filters),
		}

		if source, err := h.sourceRepo.GetSource(sourceConfig.Name); err == nil && source != nil {
			sourceInfo["last_fetched_at"] = source.LastFetchedAt
			sourceInfo["next_fetch_at"] = source.NextFetchAt
		}

		sources = append(sources, sourceInfo)
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"sources": sources,
		"total":   len(sources),
	})
}

// APICreateSource registers a source at runtime. The source joins the config
// cache alongside the YAML-defined ones and is scraped immediately.
func (h *Handler) APICreateSource(c *gin.Context) {
	var req CreateSourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if existing, _ := h.configCache.GetConfig(req.Name); existing != nil && !existing.UserDefined {
		c.JSON(http.StatusConflict, gin.H{"error": "A configured source with this name already exists"})
		return
	}

	sourceConfig := &news.Config{
		Name:        req.Name,
		URL:         req.URL,
		Kind:        req.Kind,
		UserDefined: true,
		Selectors: news.ConfigSelectors{
			Entry:   req.Selectors.Entry,
			Title:   req.Selectors.Title,
			Link:    req.Selectors.Link,
			Summary: req.Selectors.Summary,
			Time:    req.Selectors.Time,
		},
		Settings: news.ConfigSettings{
			Enabled:         true,
			TopicalFilter:   req.Settings.TopicalFilter,
			RefreshInterval: req.Settings.RefreshInterval,
			MaxItems:        req.Settings.MaxItems,
			Timeout:         req.Settings.Timeout,
			ExtractContent:  req.Settings.ExtractContent,
			Render:          req.Settings.Render,
		},
	}
	for _, filter := range req.Filters {
		sourceConfig.Filters = append(sourceConfig.Filters, news.ConfigFilter{
			Field:    filter.Field,
			Includes: filter.Includes,
			Excludes: filter.Excludes,
		})
	}

	if err := h.configCache.SetConfig(sourceConfig); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid source configuration", "details": err.Error()})
		return
	}

	encoded, err := news.EncodeConfig(sourceConfig)
	if err != nil {
		slog.Error("Failed to encode source config", "source", sourceConfig.Name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store source"})
		return
	}
	if err := h.sourceRepo.UpsertSource(sourceConfig.Name, sourceConfig.URL, sourceConfig.Kind, true, true, encoded); err != nil {
		slog.Error("Database error", "operation", "create_source", "source", sourceConfig.Name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"source": gin.H{
			"name": sourceConfig.Name,
			"url":  sourceConfig.URL,
			"kind": sourceConfig.Kind,
		},
	})
}

func (h *Handler) APIDeleteSource(c *gin.Context) {
	name := c.Param("name")

	sourceConfig, err := h.configCache.GetConfig(name)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Source not found"})
		return
	}
	if !sourceConfig.UserDefined {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only user-defined sources can be deleted"})
		return
	}

	if err := h.sourceRepo.DeleteSource(name); err != nil {
		slog.Error("Database error", "operation", "delete_source", "source", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	h.configCache.RemoveConfig(name)
	h.responseCache.Invalidate(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) APIRefreshSource(c *gin.Context) {
	name := c.Param("name")

	sourceConfig, err := h.configCache.GetConfig(name)
	if err != nil {
		slog.Error("Source configuration not found", "source", name, "error", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Source configuration not found"})
		return
	}

	syncTask := tasks.NewSyncSourceConfigTask(name, sourceConfig, h.sourceRepo)
	if err := h.scheduler.EnqueueTask(syncTask); err != nil {
		slog.Error("Error enqueueing sync task", "source", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to enqueue sync task", "details": err.Error()})
		return
	}

	// Clearing the schedule makes the next scheduler tick scrape the source
	if err := h.sourceRepo.ScheduleImmediateFetch(name); err != nil {
		slog.Error("Error scheduling fetch", "source", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to schedule fetch", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Source refresh scheduled",
		"tasks": []gin.H{
			{"id": syncTask.ID, "type": syncTask.Type},
		},
	})
}

func (h *Handler) APIRefilterSource(c *gin.Context) {
	name := c.Param("name")

	sourceConfig, err := h.configCache.GetConfig(name)
	if err != nil {
		slog.Error("Source configuration not found", "source", name, "error", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Source configuration not found"})
		return
	}

	// YAML-backed sources are re-read from disk so edited filters take effect
	if !sourceConfig.UserDefined {
		sourceConfig, err = h.configCache.LoadConfig(name)
		if err != nil {
			slog.Error("Error reloading configuration", "source", name, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Failed to reload configuration",
				"details": err.Error(),
			})
			return
		}
	}

	refilterTask := tasks.NewRefilterSourceTask(name, sourceConfig, h.filterer, h.articleRepo, h.responseCache)
	if err := h.scheduler.EnqueueTask(refilterTask); err != nil {
		slog.Error("Error enqueueing refilter task", "source", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to enqueue refilter task",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Refilter scheduled",
		"tasks": []gin.H{
			{"id": refilterTask.ID, "type": refilterTask.Type},
		},
	})
}
