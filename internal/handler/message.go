package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chainchat-server/internal/identity"
	"chainchat-server/internal/ledger"
	"chainchat-server/internal/middleware"
	"chainchat-server/internal/model"
)

type MessageHandler struct {
	Ledger *ledger.Ledger
}

type sendMessageBody struct {
	To      string `json:"to"`
	Content string `json:"content"`
}

func (h *MessageHandler) Send(c *gin.Context) {
	sender, ok := middleware.AddressFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authentication token"})
		return
	}

	var body sendMessageBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	receiver, err := identity.Parse(body.To)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": ledger.ErrInvalidAddress.Error()})
		return
	}

	msg, err := h.Ledger.SendMessage(sender, receiver, body.Content)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": messageJSON(msg)})
}

func (h *MessageHandler) Conversation(c *gin.Context) {
	requester, ok := middleware.AddressFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authentication token"})
		return
	}

	peer, err := identity.Parse(c.Param("peer"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid address"})
		return
	}

	msgs := h.Ledger.Conversation(requester, peer)
	resp := make([]gin.H, 0, len(msgs))
	for _, m := range msgs {
		resp = append(resp, messageJSON(m))
	}
	c.JSON(http.StatusOK, gin.H{"messages": resp})
}

func (h *MessageHandler) ConversationKey(c *gin.Context) {
	requester, ok := middleware.AddressFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authentication token"})
		return
	}

	peer, err := identity.Parse(c.Param("peer"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid address"})
		return
	}

	key := ledger.ConversationKey(requester, peer)
	c.JSON(http.StatusOK, gin.H{"key": key.Hex()})
}

func messageJSON(m model.Message) gin.H {
	sender := any(m.Sender.Hex())
	if ledger.IsOracleMessage(m.Sender) {
		sender = nil
	}
	out := gin.H{
		"id":        m.ID,
		"sender":    sender,
		"content":   m.Content,
		"timestamp": m.Timestamp,
		"oracle":    ledger.IsOracleMessage(m.Sender),
	}
	if !m.Receiver.IsZero() {
		out["receiver"] = m.Receiver.Hex()
	}
	return out
}
