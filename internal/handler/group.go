package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"chainchat-server/internal/identity"
	"chainchat-server/internal/ledger"
	"chainchat-server/internal/middleware"
	"chainchat-server/internal/model"
)

type GroupHandler struct {
	Ledger *ledger.Ledger
}

type createGroupBody struct {
	Name       string   `json:"name"`
	AvatarHash string   `json:"avatarHash"`
	Members    []string `json:"members"`
}

type groupMessageBody struct {
	Content string `json:"content"`
}

func (h *GroupHandler) Create(c *gin.Context) {
	creator, ok := middleware.AddressFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authentication token"})
		return
	}

	var body createGroupBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	members := make([]identity.Address, 0, len(body.Members))
	for _, raw := range body.Members {
		addr, err := identity.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": ledger.ErrInvalidAddress.Error()})
			return
		}
		members = append(members, addr)
	}

	groupID, err := h.Ledger.CreateGroup(creator, body.Name, body.AvatarHash, members)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	group, err := h.Ledger.GroupDetails(groupID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Group creation failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"group": groupJSON(group)})
}

func (h *GroupHandler) Count(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"count": h.Ledger.TotalGroups()})
}

func (h *GroupHandler) Details(c *gin.Context) {
	groupID, ok := parseGroupID(c)
	if !ok {
		return
	}

	group, err := h.Ledger.GroupDetails(groupID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"group": groupJSON(group)})
}

func (h *GroupHandler) Messages(c *gin.Context) {
	requester, ok := middleware.AddressFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authentication token"})
		return
	}

	groupID, ok := parseGroupID(c)
	if !ok {
		return
	}

	msgs, err := h.Ledger.GroupConversation(requester, groupID)
	if err != nil {
		writeGroupError(c, err)
		return
	}

	resp := make([]gin.H, 0, len(msgs))
	for _, m := range msgs {
		resp = append(resp, messageJSON(m))
	}
	c.JSON(http.StatusOK, gin.H{"messages": resp})
}

func (h *GroupHandler) Send(c *gin.Context) {
	sender, ok := middleware.AddressFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authentication token"})
		return
	}

	groupID, ok := parseGroupID(c)
	if !ok {
		return
	}

	var body groupMessageBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	msg, err := h.Ledger.SendGroupMessage(ledger.User(sender), groupID, body.Content)
	if err != nil {
		writeGroupError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": messageJSON(msg)})
}

func (h *GroupHandler) MemberCheck(c *gin.Context) {
	groupID, ok := parseGroupID(c)
	if !ok {
		return
	}

	addr, err := identity.Parse(c.Param("address"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid address"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"member": h.Ledger.IsGroupMember(groupID, addr)})
}

func parseGroupID(c *gin.Context) (uint64, bool) {
	groupID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": ledger.ErrInvalidGroupID.Error()})
		return 0, false
	}
	return groupID, true
}

func writeGroupError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ledger.ErrInvalidGroupID):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ledger.ErrNotMember):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}

func groupJSON(g model.Group) gin.H {
	members := make([]string, 0, len(g.Members))
	for _, m := range g.Members {
		members = append(members, m.Hex())
	}
	return gin.H{
		"id":         g.ID,
		"name":       g.Name,
		"avatarHash": g.AvatarHash,
		"members":    members,
		"createdBy":  g.CreatedBy.Hex(),
		"createdAt":  g.CreatedAt,
	}
}
