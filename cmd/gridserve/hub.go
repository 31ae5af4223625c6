package main

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// hub fans server messages out to connected websocket clients.
type hub struct {
	mu      sync.RWMutex
	clients map[string]*client
}

func newHub() *hub {
	return &hub{clients: make(map[string]*client)}
}

func (h *hub) add(c *client) {
	h.mu.Lock()
	h.clients[c.id] = c
	n := len(h.clients)
	h.mu.Unlock()
	slog.Info("client joined", "client", c.id, "clients", n)
}

func (h *hub) remove(c *client) {
	h.mu.Lock()
	if cur, ok := h.clients[c.id]; !ok || cur != c {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c.id)
	close(c.send)
	n := len(h.clients)
	h.mu.Unlock()
	slog.Info("client left", "client", c.id, "clients", n)
}

func (h *hub) has(id string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[id]
	return ok
}

func (h *hub) count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// broadcast sends msg to every client. Clients with a full buffer miss it.
func (h *hub) broadcast(msg outbound) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("marshal message", "error", err)
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		select {
		case c.send <- data:
		default:
			slog.Warn("client send buffer full, dropping message", "client", c.id, "type", msg.Type)
		}
	}
}
