package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/facetlab/gemfeed/app/aggregator"
)

func NewHandler(agg *aggregator.Aggregator) *Handler {
	return &Handler{aggregator: agg}
}

func (h *Handler) GetArticles(c *gin.Context) {
	articles := h.aggregator.FetchAll(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{
		"articles":   articles,
		"total":      len(articles),
		"fetched_at": time.Now().In(time.Local).Format(time.RFC3339),
	})
}

func (h *Handler) GetSources(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"sources": h.aggregator.SourcesStatus(),
	})
}

func (h *Handler) GetHealth(c *gin.Context) {
	status := h.aggregator.SourcesStatus()

	enabled := 0
	for _, ok := range status {
		if ok {
			enabled++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"timestamp":       time.Now().In(time.Local).Format(time.RFC3339),
		"sources":         len(status),
		"enabled_sources": enabled,
	})
}

func (h *Handler) APIClearCaches(c *gin.Context) {
	h.aggregator.ClearAllCaches()
	slog.Info("All source caches cleared via API")

	c.JSON(http.StatusOK, gin.H{
		"status": "cleared",
	})
}
