package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chainchat-server/internal/automation"
	"chainchat-server/internal/oracle"
)

type PriceHandler struct {
	Oracle *oracle.Client
}

func (h *PriceHandler) Latest(c *gin.Context) {
	feed := c.Query("feed")
	if feed == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid feed"})
		return
	}
	if h.Oracle == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Oracle not configured"})
		return
	}

	quote, err := h.Oracle.LatestPrice(c.Request.Context(), feed)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"price": gin.H{
		"feed":      quote.Feed,
		"answer":    quote.Answer,
		"decimals":  quote.Decimals,
		"updatedAt": quote.UpdatedAt,
		"display":   automation.FormatAnswer(quote.Answer, quote.Decimals),
	}})
}
