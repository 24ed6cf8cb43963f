package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chainchat-server/internal/automation"
)

type UpkeepHandler struct {
	Controller *automation.Controller
}

func (h *UpkeepHandler) Check(c *gin.Context) {
	if h.Controller == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Automation not configured"})
		return
	}

	needed, _ := h.Controller.CheckUpkeep(nil)
	c.JSON(http.StatusOK, gin.H{"upkeepNeeded": needed})
}

func (h *UpkeepHandler) Perform(c *gin.Context) {
	if h.Controller == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Automation not configured"})
		return
	}

	if err := h.Controller.PerformUpkeep(c.Request.Context(), nil); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *UpkeepHandler) Status(c *gin.Context) {
	if h.Controller == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Automation not configured"})
		return
	}

	status := h.Controller.Status()
	c.JSON(http.StatusOK, gin.H{"status": gin.H{
		"interval":      status.IntervalSeconds,
		"lastTimestamp": status.LastTimestamp,
		"defaultGroup":  status.DefaultGroupID,
		"totalGroups":   status.TotalGroups,
		"upkeepNeeded":  status.UpkeepNeeded,
	}})
}
