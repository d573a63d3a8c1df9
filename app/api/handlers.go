package api

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skillsfunding/contracts-feed-processor/app/engine"
	"github.com/skillsfunding/contracts-feed-processor/app/tasks"
)

const maxPayloadBytes = 8 << 20

func NewHandler(e *engine.Engine, scheduler tasks.TaskSchedulerInterface, state StateReader) *Handler {
	return &Handler{
		engine:    e,
		scheduler: scheduler,
		state:     state,
	}
}

// PostFeed accepts a pushed atom feed page and queues its entries for
// processing. The page is parsed up front so the caller learns about a
// malformed payload synchronously.
func (h *Handler) PostFeed(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxPayloadBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}
	if len(payload) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Empty feed payload"})
		return
	}

	task := tasks.NewProcessPayloadTask(h.engine, payload)
	if err := h.scheduler.EnqueueTask(task); err != nil {
		slog.Error("Error enqueueing payload task", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Failed to enqueue task",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"task": gin.H{
			"id":   task.ID,
			"type": task.Type,
		},
	})
}

// PostRun queues a full feed processing run.
func (h *Handler) PostRun(c *gin.Context) {
	task := tasks.NewProcessFeedTask(h.engine)
	if err := h.scheduler.EnqueueTask(task); err != nil {
		slog.Error("Error enqueueing feed run", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Failed to enqueue task",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"task": gin.H{
			"id":   task.ID,
			"type": task.Type,
		},
	})
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := gin.H{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if bookmark, err := h.state.GetLastReadBookmarkID(c.Request.Context()); err == nil {
		health["last_read_bookmark"] = bookmark.String()
	} else {
		slog.Error("Database error", "operation", "get_bookmark", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "State store unavailable"})
		return
	}

	if page, err := h.state.GetLastReadPage(c.Request.Context()); err == nil {
		health["last_read_page"] = page
	}

	c.JSON(http.StatusOK, health)
}
