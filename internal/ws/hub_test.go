package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/warteg-pro/api/internal/auth"
	"github.com/warteg-pro/api/internal/state"
)

// mockClient creates a client for testing without a real WebSocket connection
func mockClient(hub *Hub, room string) *Client {
	return &Client{
		hub:  hub,
		room: room,
		send: make(chan []byte, 256),
	}
}

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func receive(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case msg := <-c.send:
		var ev Event
		if err := json.Unmarshal(msg, &ev); err != nil {
			t.Fatalf("failed to unmarshal message: %v", err)
		}
		return ev
	case <-time.After(100 * time.Millisecond):
		t.Fatal("client did not receive message")
	}
	return Event{}
}

func expectSilence(t *testing.T, c *Client) {
	t.Helper()
	select {
	case <-c.send:
		t.Fatal("client should not have received message")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestRoomFor(t *testing.T) {
	tests := []struct {
		user state.User
		want string
	}{
		{state.User{ID: "c1", Role: "CUSTOMER"}, "customer:c1"},
		{state.User{ID: "u2", Role: "KITCHEN"}, StaffRoom},
		{state.User{ID: "u1", Role: "ADMIN"}, StaffRoom},
	}
	for _, tt := range tests {
		if got := RoomFor(tt.user); got != tt.want {
			t.Errorf("RoomFor(%s): got %s, want %s", tt.user.Role, got, tt.want)
		}
	}
}

func TestHubRegistrationAndCleanup(t *testing.T) {
	hub := startHub(t)
	client1 := mockClient(hub, StaffRoom)
	client2 := mockClient(hub, StaffRoom)

	hub.register <- client1
	hub.register <- client2
	time.Sleep(10 * time.Millisecond)

	if got := hub.ClientCount(StaffRoom); got != 2 {
		t.Fatalf("expected 2 clients, got %d", got)
	}

	hub.unregister <- client1
	time.Sleep(10 * time.Millisecond)
	if got := hub.ClientCount(StaffRoom); got != 1 {
		t.Fatalf("expected 1 client after first unregister, got %d", got)
	}

	hub.unregister <- client2
	time.Sleep(10 * time.Millisecond)

	hub.mu.RLock()
	defer hub.mu.RUnlock()
	if hub.rooms[StaffRoom] != nil {
		t.Fatal("room should be deleted when last client unregisters")
	}
}

func TestBroadcastToSingleRoom(t *testing.T) {
	hub := startHub(t)
	staff := mockClient(hub, StaffRoom)
	other := mockClient(hub, CustomerRoom("c9"))
	hub.register <- staff
	hub.register <- other
	time.Sleep(10 * time.Millisecond)

	testPayload := json.RawMessage(`{"id":"ABC123"}`)
	hub.Broadcast(StaffRoom, Event{Type: EventOrderCreated, Payload: testPayload})

	ev := receive(t, staff)
	if ev.Type != EventOrderCreated {
		t.Errorf("expected type %q, got %q", EventOrderCreated, ev.Type)
	}
	if string(ev.Payload) != string(testPayload) {
		t.Errorf("expected payload '%s', got '%s'", testPayload, ev.Payload)
	}
	expectSilence(t, other)
}

func TestPublishOrderReachesStaffAndOwner(t *testing.T) {
	hub := startHub(t)
	staff1 := mockClient(hub, StaffRoom)
	staff2 := mockClient(hub, StaffRoom)
	owner := mockClient(hub, CustomerRoom("c1"))
	stranger := mockClient(hub, CustomerRoom("c2"))
	for _, c := range []*Client{staff1, staff2, owner, stranger} {
		hub.register <- c
	}
	time.Sleep(10 * time.Millisecond)

	hub.PublishOrder(EventOrderStatusChanged, state.Order{ID: "ABC123", CustomerID: "c1", Status: "READY"})

	for i, c := range []*Client{staff1, staff2, owner} {
		ev := receive(t, c)
		if ev.Type != EventOrderStatusChanged {
			t.Errorf("client%d: type %q", i+1, ev.Type)
		}
		var o state.Order
		if err := json.Unmarshal(ev.Payload, &o); err != nil {
			t.Fatalf("client%d: payload: %v", i+1, err)
		}
		if o.ID != "ABC123" || o.Status != "READY" {
			t.Errorf("client%d: order %+v", i+1, o)
		}
	}
	expectSilence(t, stranger)
}

func TestBroadcastToEmptyRoom(t *testing.T) {
	hub := startHub(t)
	client := mockClient(hub, StaffRoom)
	hub.register <- client
	time.Sleep(10 * time.Millisecond)

	hub.Broadcast(CustomerRoom("nobody"), Event{Type: EventOrderCreated, Payload: json.RawMessage(`{}`)})
	expectSilence(t, client)
}

func TestSlowClientDropped(t *testing.T) {
	hub := startHub(t)
	slow := &Client{hub: hub, room: StaffRoom, send: make(chan []byte)}
	hub.register <- slow
	time.Sleep(10 * time.Millisecond)

	hub.Broadcast(StaffRoom, Event{Type: EventOrderCreated, Payload: json.RawMessage(`{}`)})
	time.Sleep(20 * time.Millisecond)

	if got := hub.ClientCount(StaffRoom); got != 0 {
		t.Errorf("slow client still registered: %d", got)
	}
	if _, ok := <-slow.send; ok {
		t.Error("send channel not closed")
	}
}

type fakeSessions map[string]state.User

func (f fakeSessions) Restore(_ context.Context, userID string) (state.User, error) {
	u, ok := f[userID]
	if !ok {
		return state.User{}, errors.New("no session")
	}
	return u, nil
}

func TestServeWS(t *testing.T) {
	const secret = "test-secret"
	customer := state.User{ID: "c1", Name: "Budi", Role: "CUSTOMER"}
	hub := startHub(t)
	sessions := fakeSessions{customer.ID: customer}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWS(hub, secret, sessions, w, r)
	}))
	defer srv.Close()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")

	// Missing and bad tokens are rejected before the upgrade.
	for _, q := range []string{"", "?token=garbage"} {
		_, resp, err := websocket.DefaultDialer.Dial(wsURL+q, nil)
		if err == nil {
			t.Fatalf("dial %q: expected error", q)
		}
		if resp == nil || resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("dial %q: expected 401, got %v", q, resp)
		}
	}

	token, err := auth.GenerateToken(secret, customer, time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?token="+token, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(time.Second)
	for hub.ClientCount(CustomerRoom("c1")) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	hub.PublishOrder(EventOrderPaymentConfirmed, state.Order{ID: "ABC123", CustomerID: "c1", PaymentStatus: "PAID"})

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var ev Event
	if err := json.Unmarshal(msg, &ev); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ev.Type != EventOrderPaymentConfirmed {
		t.Errorf("type: got %q", ev.Type)
	}
}

func TestHubStopped_LeaveAndJoinReturn(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	client := mockClient(hub, StaffRoom)
	if !hub.join(client) {
		t.Fatal("join failed on a running hub")
	}
	cancel()
	<-stopped

	if _, ok := <-client.send; ok {
		t.Error("send channel should be closed on shutdown")
	}

	done := make(chan struct{})
	go func() {
		hub.leave(client)
		if hub.join(mockClient(hub, StaffRoom)) {
			t.Error("join succeeded on a stopped hub")
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("leave/join blocked after the hub stopped")
	}
}
