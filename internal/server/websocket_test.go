package server

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"chainchat-server/internal/auth"
	"chainchat-server/internal/events"
	"chainchat-server/internal/hub"
	"chainchat-server/internal/identity"
	"chainchat-server/internal/ledger"
	"chainchat-server/internal/registry"
)

func dialWS(t *testing.T, srv *httptest.Server, token string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	return conn
}

func TestWebSocketPingPong(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokenCfg := auth.TokenConfig{Secret: "secret", Expiry: time.Hour, Issuer: "test"}
	r := NewRouter(Deps{
		Ledger:      ledger.New(),
		Registry:    registry.New(),
		TokenConfig: tokenCfg,
	})

	var addr identity.Address
	addr[19] = 1
	tok, err := auth.CreateToken(addr, tokenCfg)
	if err != nil {
		t.Fatalf("CreateToken: %v", err)
	}

	srv := httptest.NewServer(r)
	defer srv.Close()

	conn := dialWS(t, srv, tok)
	defer conn.Close()

	if err := conn.WriteJSON(map[string]any{"type": "ping"}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	var resp map[string]any
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	data, _ := json.Marshal(resp)
	if resp["type"] != "pong" {
		t.Fatalf("expected pong, got %s", string(data))
	}
}

func TestWebSocketMessageDelivery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokenCfg := auth.TokenConfig{Secret: "secret", Expiry: time.Hour, Issuer: "test"}

	wsHub := hub.New()
	dispatcher := events.NewDispatcher(wsHub)
	led := ledger.NewWithOptions(ledger.Options{Notifier: dispatcher})
	dispatcher.SetMemberSource(led)

	r := NewRouter(Deps{
		Ledger:      led,
		Registry:    registry.New(),
		Hub:         wsHub,
		TokenConfig: tokenCfg,
	})

	var alice, bob identity.Address
	alice[19] = 1
	bob[19] = 2
	aliceTok, err := auth.CreateToken(alice, tokenCfg)
	if err != nil {
		t.Fatalf("CreateToken: %v", err)
	}
	bobTok, err := auth.CreateToken(bob, tokenCfg)
	if err != nil {
		t.Fatalf("CreateToken: %v", err)
	}

	srv := httptest.NewServer(r)
	defer srv.Close()

	aliceConn := dialWS(t, srv, aliceTok)
	defer aliceConn.Close()
	bobConn := dialWS(t, srv, bobTok)
	defer bobConn.Close()

	if err := aliceConn.WriteJSON(map[string]any{"type": "message", "to": bob.Hex(), "content": "hello"}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	bobConn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var update struct {
		Type  string `json:"type"`
		Event string `json:"event"`
		Body  struct {
			From    string `json:"from"`
			Content string `json:"content"`
		} `json:"body"`
	}
	if err := bobConn.ReadJSON(&update); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if update.Type != "update" || update.Event != "message-sent" {
		t.Fatalf("unexpected update: %+v", update)
	}
	if update.Body.From != alice.Hex() || update.Body.Content != "hello" {
		t.Fatalf("unexpected body: %+v", update.Body)
	}
}

func TestWebSocketRejectsBadToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokenCfg := auth.TokenConfig{Secret: "secret", Expiry: time.Hour, Issuer: "test"}
	r := NewRouter(Deps{Ledger: ledger.New(), Registry: registry.New(), TokenConfig: tokenCfg})

	srv := httptest.NewServer(r)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=garbage"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		t.Fatalf("expected dial to fail")
	}
	if resp == nil || resp.StatusCode != 401 {
		t.Fatalf("expected 401 handshake response, got %+v", resp)
	}
}
