package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chainchat-server/internal/auth"
	"chainchat-server/internal/middleware"
)

type AuthHandler struct {
	Challenges       *auth.ChallengeStore
	TokenConfig      auth.TokenConfig
	ChallengeLimiter *middleware.RateLimiter
}

type challengeBody struct {
	PublicKey string `json:"publicKey"`
}

type authBody struct {
	PublicKey string `json:"publicKey"`
	Challenge string `json:"challenge"`
	Signature string `json:"signature"`
}

func (h *AuthHandler) Challenge(c *gin.Context) {
	var body challengeBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if body.PublicKey == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid public key"})
		return
	}

	if h.ChallengeLimiter != nil && !h.ChallengeLimiter.Allow(c.ClientIP()) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
		return
	}

	challenge, err := h.Challenges.Issue(body.PublicKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Challenge creation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"challenge": challenge})
}

func (h *AuthHandler) Auth(c *gin.Context) {
	var body authBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if !h.Challenges.Consume(body.PublicKey, body.Challenge) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unknown or expired challenge"})
		return
	}

	if err := auth.VerifySignatureDetailed(body.PublicKey, body.Challenge, body.Signature); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	addr, err := auth.DeriveAddress(body.PublicKey)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid public key"})
		return
	}

	token, err := auth.CreateToken(addr, h.TokenConfig)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Token creation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "token": token, "address": addr.Hex()})
}
