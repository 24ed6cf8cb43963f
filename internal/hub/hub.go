package hub

import (
	"sync"

	"chainchat-server/internal/identity"
)

type Writer interface {
	Write(message []byte) error
	Close() error
}

type Connection struct {
	Addr   identity.Address
	Writer Writer
}

// Hub tracks live websocket connections per identity. An identity may hold
// several connections (multiple tabs/devices); all of them receive each
// notification addressed to it.
type Hub struct {
	mu          sync.RWMutex
	connections map[identity.Address]map[*Connection]struct{}
}

func New() *Hub {
	return &Hub{connections: make(map[identity.Address]map[*Connection]struct{})}
}

func (h *Hub) Register(conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.connections[conn.Addr] == nil {
		h.connections[conn.Addr] = make(map[*Connection]struct{})
	}
	h.connections[conn.Addr][conn] = struct{}{}
}

func (h *Hub) Unregister(conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set := h.connections[conn.Addr]
	if set == nil {
		return
	}
	delete(set, conn)
	if len(set) == 0 {
		delete(h.connections, conn.Addr)
	}
}

// Broadcast delivers a message to every connection held by addr. Connections
// whose writes fail are closed and dropped.
func (h *Hub) Broadcast(addr identity.Address, message []byte) {
	h.mu.RLock()
	set := h.connections[addr]
	conns := make([]*Connection, 0, len(set))
	for c := range set {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	h.deliver(conns, message)
}

// BroadcastAll delivers a message to every connected identity. Used for
// public registry events.
func (h *Hub) BroadcastAll(message []byte) {
	h.mu.RLock()
	conns := make([]*Connection, 0)
	for _, set := range h.connections {
		for c := range set {
			conns = append(conns, c)
		}
	}
	h.mu.RUnlock()

	h.deliver(conns, message)
}

func (h *Hub) deliver(conns []*Connection, message []byte) {
	var failed []*Connection
	for _, c := range conns {
		if err := c.Writer.Write(message); err != nil {
			failed = append(failed, c)
		}
	}
	for _, c := range failed {
		_ = c.Writer.Close()
		h.Unregister(c)
	}
}
