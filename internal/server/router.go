package server

import (
	"time"

	"github.com/gin-gonic/gin"

	"chainchat-server/internal/auth"
	"chainchat-server/internal/automation"
	"chainchat-server/internal/handler"
	"chainchat-server/internal/hub"
	"chainchat-server/internal/ledger"
	"chainchat-server/internal/middleware"
	"chainchat-server/internal/oracle"
	"chainchat-server/internal/registry"
)

type Deps struct {
	Ledger      *ledger.Ledger
	Registry    *registry.Registry
	Controller  *automation.Controller
	Oracle      *oracle.Client
	Hub         *hub.Hub
	Challenges  *auth.ChallengeStore
	TokenConfig auth.TokenConfig
}

func NewRouter(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	challenges := deps.Challenges
	if challenges == nil {
		challenges = auth.NewChallengeStore(5 * time.Minute)
	}
	challengeLimiter := middleware.NewRateLimiter(10, time.Minute)
	authHandler := &handler.AuthHandler{Challenges: challenges, TokenConfig: deps.TokenConfig, ChallengeLimiter: challengeLimiter}

	r.POST("/v1/auth/challenge", authHandler.Challenge)
	r.POST("/v1/auth", authHandler.Auth)

	protected := r.Group("/v1")
	protected.Use(middleware.RequireAuth(deps.TokenConfig))

	userHandler := &handler.UserHandler{Registry: deps.Registry}
	protected.POST("/users", userHandler.Register)
	protected.GET("/users", userHandler.List)
	protected.GET("/users/count", userHandler.Count)
	protected.GET("/users/:address", userHandler.Get)
	protected.DELETE("/users/me", userHandler.DeleteMe)

	messageHandler := &handler.MessageHandler{Ledger: deps.Ledger}
	protected.POST("/messages", messageHandler.Send)
	protected.GET("/conversations/:peer/messages", messageHandler.Conversation)
	protected.GET("/conversations/:peer/key", messageHandler.ConversationKey)

	groupHandler := &handler.GroupHandler{Ledger: deps.Ledger}
	protected.POST("/groups", groupHandler.Create)
	protected.GET("/groups/count", groupHandler.Count)
	protected.GET("/groups/:id", groupHandler.Details)
	protected.GET("/groups/:id/messages", groupHandler.Messages)
	protected.POST("/groups/:id/messages", groupHandler.Send)
	protected.GET("/groups/:id/members/:address", groupHandler.MemberCheck)

	priceHandler := &handler.PriceHandler{Oracle: deps.Oracle}
	protected.GET("/prices", priceHandler.Latest)

	upkeepHandler := &handler.UpkeepHandler{Controller: deps.Controller}
	protected.GET("/upkeep/check", upkeepHandler.Check)
	protected.POST("/upkeep/perform", upkeepHandler.Perform)
	protected.GET("/automation/status", upkeepHandler.Status)

	wsHub := deps.Hub
	if wsHub == nil {
		wsHub = hub.New()
	}
	wsHandler := &handler.WebSocketHandler{Hub: wsHub, Ledger: deps.Ledger, TokenConfig: deps.TokenConfig}
	r.GET("/ws", wsHandler.Serve)

	return r
}
