package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"chainchat-server/internal/identity"
	"chainchat-server/internal/middleware"
	"chainchat-server/internal/model"
	"chainchat-server/internal/registry"
)

type UserHandler struct {
	Registry *registry.Registry
}

type registerUserBody struct {
	Name       string `json:"name"`
	AvatarHash string `json:"avatarHash"`
}

func (h *UserHandler) Register(c *gin.Context) {
	addr, ok := middleware.AddressFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authentication token"})
		return
	}

	var body registerUserBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	profile, err := h.Registry.Register(addr, body.Name, body.AvatarHash)
	if err != nil {
		if errors.Is(err, registry.ErrAlreadyRegistered) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userProfileJSON(profile)})
}

func (h *UserHandler) List(c *gin.Context) {
	profiles := h.Registry.List()
	resp := make([]gin.H, 0, len(profiles))
	for _, p := range profiles {
		resp = append(resp, userProfileJSON(p))
	}
	c.JSON(http.StatusOK, gin.H{"users": resp})
}

func (h *UserHandler) Count(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"count": h.Registry.Count()})
}

func (h *UserHandler) Get(c *gin.Context) {
	addr, err := identity.Parse(c.Param("address"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid address"})
		return
	}

	profile, ok := h.Registry.Get(addr)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": userProfileJSON(profile)})
}

func (h *UserHandler) DeleteMe(c *gin.Context) {
	addr, ok := middleware.AddressFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authentication token"})
		return
	}

	if err := h.Registry.Delete(addr); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func userProfileJSON(p model.UserProfile) gin.H {
	return gin.H{
		"address":      p.Address.Hex(),
		"name":         p.Name,
		"avatarHash":   p.AvatarHash,
		"registeredAt": p.RegisteredAt,
	}
}
