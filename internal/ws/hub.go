package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/warteg-pro/api/internal/enum"
	"github.com/warteg-pro/api/internal/logging"
	"github.com/warteg-pro/api/internal/state"
)

// Order event types pushed to subscribers.
const (
	EventOrderCreated          = "order.created"
	EventOrderStatusChanged    = "order.status_changed"
	EventOrderPaymentConfirmed = "order.payment_confirmed"
)

// StaffRoom receives every order event. Kitchen and admin connections join it.
const StaffRoom = "staff"

// CustomerRoom is the room for one customer's own orders.
func CustomerRoom(userID string) string {
	return "customer:" + userID
}

// RoomFor returns the room a user subscribes to.
func RoomFor(user state.User) string {
	if user.Role == enum.UserRoleCustomer {
		return CustomerRoom(user.ID)
	}
	return StaffRoom
}

// Event represents a WebSocket message to be broadcast
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type roomEvent struct {
	Room  string
	Event Event
}

// Hub maintains the set of active clients and broadcasts messages to them.
// Delivery is best effort: a client with a full buffer is dropped.
type Hub struct {
	// Registered clients by room
	rooms map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan *roomEvent

	// done is closed when Run returns; pumps stop waiting on the hub.
	done chan struct{}

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *roomEvent, 256),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's main loop and returns when ctx is done.
// This should be called as a goroutine: go hub.Run(ctx)
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			if h.rooms[client.room] == nil {
				h.rooms[client.room] = make(map[*Client]bool)
			}
			h.rooms[client.room][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			h.remove(client)
			h.mu.Unlock()

		case ev := <-h.broadcast:
			message, err := json.Marshal(ev.Event)
			if err != nil {
				continue
			}

			h.mu.Lock()
			for client := range h.rooms[ev.Room] {
				select {
				case client.send <- message:
				default:
					h.remove(client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// remove drops a client and its empty room. Caller holds h.mu.
func (h *Hub) remove(client *Client) {
	clients, ok := h.rooms[client.room]
	if !ok {
		return
	}
	if _, exists := clients[client]; !exists {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.rooms, client.room)
	}
}

// join registers client unless the hub has stopped.
func (h *Hub) join(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// leave unregisters client, or returns at once if the hub has stopped.
func (h *Hub) leave(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, clients := range h.rooms {
		for client := range clients {
			h.remove(client)
		}
	}
}

// Broadcast queues an event for every client in room. It never blocks;
// events are dropped when the queue is full.
func (h *Hub) Broadcast(room string, event Event) {
	select {
	case h.broadcast <- &roomEvent{Room: room, Event: event}:
	default:
		logging.New("ws").Warn("broadcast queue full, dropping event", "room", room, "type", event.Type)
	}
}

// PublishOrder pushes an order event to staff and to the owning customer.
func (h *Hub) PublishOrder(eventType string, order state.Order) {
	payload, err := json.Marshal(order)
	if err != nil {
		return
	}
	ev := Event{Type: eventType, Payload: payload}
	h.Broadcast(StaffRoom, ev)
	h.Broadcast(CustomerRoom(order.CustomerID), ev)
}

// ClientCount returns the number of clients in room.
func (h *Hub) ClientCount(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
