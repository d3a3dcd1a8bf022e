package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vkoselev/feedharvest/app/database"
)

const defaultTextsLimit = 20

func NewHandler(itemRepo database.ItemRepository, pageRepo database.PageRepository,
	textRepo database.TextRepository) *Handler {
	return &Handler{
		itemRepo: itemRepo,
		pageRepo: pageRepo,
		textRepo: textRepo,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if itemCount, err := h.itemRepo.CountItems(); err == nil {
		health["items"] = itemCount
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	items, err := h.itemRepo.CountItems()
	if err != nil {
		slog.Error("Database error", "operation", "count_items", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	pages, err := h.pageRepo.CountPages()
	if err != nil {
		slog.Error("Database error", "operation", "count_pages", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	texts, err := h.textRepo.CountTexts()
	if err != nil {
		slog.Error("Database error", "operation", "count_texts", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	processed, err := h.textRepo.CountProgress()
	if err != nil {
		slog.Error("Database error", "operation", "count_progress", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":     items,
		"pages":     pages,
		"texts":     texts,
		"processed": processed,
		"pending": gin.H{
			"download":   items - pages,
			"extraction": pages - processed,
		},
	})
}

func (h *Handler) GetTexts(c *gin.Context) {
	limit := defaultTextsLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		limit = parsed
	}

	texts, err := h.textRepo.GetRecentTexts(limit)
	if err != nil {
		slog.Error("Database error", "operation", "get_texts", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	results := make([]map[string]interface{}, 0, len(texts))
	for _, text := range texts {
		results = append(results, map[string]interface{}{
			"url":         text.URL,
			"date":        text.Date,
			"title":       text.Title,
			"description": text.Description,
			"fulltext":    text.Fulltext,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"texts": results,
		"total": len(results),
	})
}
