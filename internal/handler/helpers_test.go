package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/warteg-pro/api/internal/enum"
	"github.com/warteg-pro/api/internal/middleware"
	"github.com/warteg-pro/api/internal/seed"
	"github.com/warteg-pro/api/internal/service"
	"github.com/warteg-pro/api/internal/session"
	"github.com/warteg-pro/api/internal/state"
)

var (
	adminUser   = state.User{ID: "u1", Name: "Super Admin", Email: "admin@warteg.pro", Role: enum.UserRoleAdmin}
	kitchenUser = state.User{ID: "u2", Name: "Chef Juna", Email: "kitchen@warteg.pro", Role: enum.UserRoleKitchen}
	customer    = state.User{ID: "c1", Name: "Budi", Email: "budi@example.com", Role: enum.UserRoleCustomer}
	customer2   = state.User{ID: "c2", Name: "Siti", Email: "siti@example.com", Role: enum.UserRoleCustomer}
)

// testEnv wires the real services over seeded state.
type testEnv struct {
	app       *state.App
	catalog   *service.CatalogService
	cart      *service.CartService
	orders    *service.OrderService
	inventory *service.InventoryService
	reviews   *service.ReviewService
	users     *service.UserService
	reports   *service.ReportService
	publisher *recordingPublisher
}

func newTestEnv() *testEnv {
	app := state.New(seed.Data(time.Now()))
	return &testEnv{
		app:       app,
		catalog:   service.NewCatalogService(app),
		cart:      service.NewCartService(app),
		orders:    service.NewOrderService(app),
		inventory: service.NewInventoryService(app),
		reviews:   service.NewReviewService(app),
		users:     service.NewUserService(app, session.NewMemoryStore()),
		reports:   service.NewReportService(app),
		publisher: &recordingPublisher{},
	}
}

// placeOrder carts itemIDs for actor and checks out through the service.
func (e *testEnv) placeOrder(t *testing.T, actor state.User, method string, itemIDs ...string) state.Order {
	t.Helper()
	for _, id := range itemIDs {
		if _, err := e.cart.AddLine(actor, id); err != nil {
			t.Fatalf("add %s: %v", id, err)
		}
	}
	o, err := e.orders.Checkout(actor, method)
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	return o
}

type publishedEvent struct {
	Type  string
	Order state.Order
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) PublishOrder(eventType string, order state.Order) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Type: eventType, Order: order})
}

func (p *recordingPublisher) last() (publishedEvent, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.events) == 0 {
		return publishedEvent{}, false
	}
	return p.events[len(p.events)-1], true
}

// --- Request helpers ---

// actorFromHeader injects the actor registered for the X-Test-User header,
// standing in for the Authenticate middleware.
func actorFromHeader(next http.Handler) http.Handler {
	users := map[string]state.User{
		adminUser.ID:   adminUser,
		kitchenUser.ID: kitchenUser,
		customer.ID:    customer,
		customer2.ID:   customer2,
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u, ok := users[r.Header.Get("X-Test-User")]; ok {
			r = r.WithContext(middleware.WithActor(r.Context(), u))
		}
		next.ServeHTTP(w, r)
	})
}

func newRouter(setup func(r chi.Router)) *chi.Mux {
	r := chi.NewRouter()
	r.Use(actorFromHeader)
	setup(r)
	return r
}

func doRequest(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	return doAuthRequest(t, r, method, path, body, nil)
}

func doAuthRequest(t *testing.T, r http.Handler, method, path string, body interface{}, actor *state.User) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if actor != nil {
		req.Header.Set("X-Test-User", actor.ID)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v; body: %s", err, rr.Body.String())
	}
}

func expectStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rr.Code != want {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, want, rr.Body.String())
	}
}
