package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/quantbrief/quantbrief/app/database"
	"github.com/quantbrief/quantbrief/app/feed"
	"github.com/quantbrief/quantbrief/app/tasks"
)

const defaultHeadlineLimit = 50
const maxHeadlineLimit = 500

func NewHandler(sourceCache *feed.SourceCache, headlineRepo database.HeadlineRepository,
	scheduler tasks.SchedulerInterface) *Handler {
	return &Handler{
		sourceCache:  sourceCache,
		headlineRepo: headlineRepo,
		scheduler:    scheduler,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if headlineCount, err := h.headlineRepo.GetHeadlineCount(); err == nil {
		health["headlines"] = headlineCount
	}

	health["loaded_configurations"] = h.sourceCache.GetConfigCount()

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.headlineRepo.GetSourceStats()
	if err != nil {
		slog.Error("Database error", "operation", "get_source_stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load stats"})
		return
	}

	total := 0
	for _, count := range stats {
		total += count
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"sources": stats,
		"total":   total,
	})
}

func (h *Handler) APIListHeadlines(c *gin.Context) {
	filter := database.HeadlineFilter{
		Source: c.Query("source"),
		Query:  c.Query("q"),
		Limit:  defaultHeadlineLimit,
	}

	if rawLimit := c.Query("limit"); rawLimit != "" {
		limit, err := strconv.Atoi(rawLimit)
		if err != nil || limit < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		if limit > maxHeadlineLimit {
			limit = maxHeadlineLimit
		}
		filter.Limit = limit
	}

	headlines, err := h.headlineRepo.GetHeadlines(filter)
	if err != nil {
		slog.Error("Database error", "operation", "get_headlines", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load headlines"})
		return
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"headlines": headlines,
		"total":     len(headlines),
	})
}

func (h *Handler) APIGetHeadline(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing headline id parameter"})
		return
	}

	headline, err := h.headlineRepo.GetHeadline(id)
	if err != nil {
		slog.Error("Database error", "operation", "get_headline", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load headline"})
		return
	}

	if headline == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Headline not found"})
		return
	}

	c.JSON(http.StatusOK, headline)
}

func (h *Handler) APITriggerCycle(c *gin.Context) {
	h.scheduler.TriggerCycle()

	c.JSON(http.StatusAccepted, gin.H{
		"message": "Processing cycle scheduled",
	})
}
