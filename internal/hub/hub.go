// Package hub broadcasts room events to websocket subscribers so open room
// views refresh without polling.
package hub

import (
	"encoding/json"
	"sync"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/anlupatov/snaproom/internal/model"
)

// Event types pushed to subscribers.
const (
	EventPhotoAdded      = "photo.added"
	EventReactionUpdated = "reaction.updated"
)

// Hub maintains active clients per room and fans events out to them.
type Hub struct {
	mu         sync.RWMutex
	clients    map[uuid.UUID]map[*Client]bool
	broadcast  chan model.RoomEvent
	register   chan *Client
	unregister chan *Client
	log        *zap.Logger
}

// New constructs a hub. Run must be started on its own goroutine.
func New(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]bool),
		broadcast:  make(chan model.RoomEvent, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		log:        log,
	}
}

// Publish queues an event for the room's subscribers. Never blocks the
// caller: when the hub queue is full the event is dropped, since a client
// that reconnects re-fetches the listing anyway.
func (h *Hub) Publish(ev model.RoomEvent) {
	select {
	case h.broadcast <- ev:
	default:
		h.log.Warn("event queue full, dropping", zap.String("type", ev.Type))
	}
}

// Run processes registrations and broadcasts until the process exits.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			if h.clients[c.roomID] == nil {
				h.clients[c.roomID] = make(map[*Client]bool)
			}
			h.clients[c.roomID][c] = true
			h.mu.Unlock()

		case c := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[c.roomID]; ok {
				if _, ok := clients[c]; ok {
					delete(clients, c)
					close(c.send)
					if len(clients) == 0 {
						delete(h.clients, c.roomID)
					}
				}
			}
			h.mu.Unlock()

		case ev := <-h.broadcast:
			payload, err := json.Marshal(ev)
			if err != nil {
				h.log.Error("marshal event", zap.Error(err))
				continue
			}
			h.mu.Lock()
			for c := range h.clients[ev.RoomID] {
				select {
				case c.send <- payload:
				default:
					// slow consumer, drop it
					delete(h.clients[ev.RoomID], c)
					close(c.send)
				}
			}
			h.mu.Unlock()
		}
	}
}
