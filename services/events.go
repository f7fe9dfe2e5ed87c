package services

import (
	"log"
	"sync"

	"github.com/nats-io/nats.go"
)

// EventHub fans ticket lifecycle events out to WebSocket clients. Events
// arrive over a single NATS subject so the publisher side never touches the
// WebSocket connections.
type EventHub struct {
	natsConn *nats.Conn
	natsSub  *nats.Subscription

	clients   map[*EventClient]bool
	clientsMu sync.RWMutex

	register   chan *EventClient
	unregister chan *EventClient
}

// NewEventHub creates a hub and subscribes it to the ticket events subject.
func NewEventHub(natsConn *nats.Conn) (*EventHub, error) {
	h := &EventHub{
		natsConn:   natsConn,
		clients:    make(map[*EventClient]bool),
		register:   make(chan *EventClient),
		unregister: make(chan *EventClient),
	}

	sub, err := natsConn.Subscribe(EventsSubject, func(msg *nats.Msg) {
		h.broadcast(msg.Data)
	})
	if err != nil {
		return nil, err
	}
	h.natsSub = sub
	return h, nil
}

// Register adds a client to the hub.
func (h *EventHub) Register(client *EventClient) {
	h.register <- client
}

// Run starts the hub's main loop.
func (h *EventHub) Run() {
	log.Println("📺 Event hub started")

	for {
		select {
		case client := <-h.register:
			h.clientsMu.Lock()
			h.clients[client] = true
			h.clientsMu.Unlock()
			log.Printf("📺 Client connected: %s", client.remoteAddr)

		case client := <-h.unregister:
			h.clientsMu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.clientsMu.Unlock()
			log.Printf("📺 Client disconnected: %s", client.remoteAddr)
		}
	}
}

// broadcast sends an event to every connected client. Slow clients drop
// events rather than block the hub.
func (h *EventHub) broadcast(data []byte) {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()

	for client := range h.clients {
		select {
		case client.send <- data:
		default:
			// Client buffer full, skip event
		}
	}
}

// HubStats reports hub statistics for the stats endpoint.
type HubStats struct {
	Clients int `json:"clients"`
}

func (h *EventHub) Stats() HubStats {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return HubStats{Clients: len(h.clients)}
}

// Shutdown drains the NATS subscription.
func (h *EventHub) Shutdown() {
	if h.natsSub != nil {
		_ = h.natsSub.Unsubscribe()
	}
}
