// Package state holds the in-memory application state shared by the
// services. One App is created per running server and passed explicitly to
// every component; nothing here is a package-level singleton.
package state

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// CatalogItem is a sellable menu entry. Price is in rupiah.
type CatalogItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	Category    string `json:"category"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	Stock       int    `json:"stock"`
}

// CartLine captures name and price at add time.
type CartLine struct {
	ItemID   string `json:"item_id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Category string `json:"category"`
	Quantity int    `json:"quantity"`
}

// Subtotal is price × quantity.
func (l CartLine) Subtotal() int64 {
	return l.Price * int64(l.Quantity)
}

type Order struct {
	ID            string     `json:"id"`
	CustomerID    string     `json:"customer_id"`
	CustomerName  string     `json:"customer_name"`
	Items         []CartLine `json:"items"`
	Subtotal      int64      `json:"subtotal"`
	ServiceFee    int64      `json:"service_fee"`
	Total         int64      `json:"total"`
	Status        string     `json:"status"`
	PaymentMethod string     `json:"payment_method"`
	PaymentStatus string     `json:"payment_status"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type InventoryItem struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Quantity decimal.Decimal `json:"quantity"`
	Unit     string          `json:"unit"`
	MinStock decimal.Decimal `json:"min_stock"`
}

// IsLow reports whether the item is at or under its minimum stock.
func (i InventoryItem) IsLow() bool {
	return i.Quantity.LessThanOrEqual(i.MinStock)
}

type UsageLine struct {
	ItemID     string          `json:"item_id"`
	Name       string          `json:"name"`
	UsedAmount decimal.Decimal `json:"used_amount"`
}

type InventoryReport struct {
	ID           string      `json:"id"`
	Timestamp    time.Time   `json:"timestamp"`
	ReporterName string      `json:"reporter_name"`
	Items        []UsageLine `json:"items"`
	Note         string      `json:"note"`
}

type Review struct {
	ID        string    `json:"id"`
	OrderID   string    `json:"order_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	UserName  string    `json:"user_name"`
	CreatedAt time.Time `json:"created_at"`
}

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Data is the set of entity collections. Orders, Reports and Reviews are
// append-only and kept in creation order.
type Data struct {
	Menu      []CatalogItem
	Inventory []InventoryItem
	Orders    []Order
	Reports   []InventoryReport
	Reviews   []Review
	Users     []User
	Carts     map[string][]CartLine // keyed by customer ID
}

// App guards Data. Every service operation runs inside exactly one
// View or Update call.
type App struct {
	mu   sync.RWMutex
	data Data
}

// New creates an App seeded with the given data. Slices are copied.
func New(seed Data) *App {
	d := Data{
		Menu:      append([]CatalogItem(nil), seed.Menu...),
		Inventory: append([]InventoryItem(nil), seed.Inventory...),
		Orders:    append([]Order(nil), seed.Orders...),
		Reports:   append([]InventoryReport(nil), seed.Reports...),
		Reviews:   append([]Review(nil), seed.Reviews...),
		Users:     append([]User(nil), seed.Users...),
		Carts:     make(map[string][]CartLine),
	}
	for k, v := range seed.Carts {
		d.Carts[k] = append([]CartLine(nil), v...)
	}
	return &App{data: d}
}

// Update runs fn with exclusive access.
func (a *App) Update(fn func(d *Data) error) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return fn(&a.data)
}

// View runs fn with shared access. fn must not mutate d.
func (a *App) View(fn func(d *Data)) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	fn(&a.data)
}

func (d *Data) MenuIndex(id string) int {
	for i := range d.Menu {
		if d.Menu[i].ID == id {
			return i
		}
	}
	return -1
}

func (d *Data) InventoryIndex(id string) int {
	for i := range d.Inventory {
		if d.Inventory[i].ID == id {
			return i
		}
	}
	return -1
}

func (d *Data) OrderIndex(id string) int {
	for i := range d.Orders {
		if d.Orders[i].ID == id {
			return i
		}
	}
	return -1
}

func (d *Data) UserIndex(id string) int {
	for i := range d.Users {
		if d.Users[i].ID == id {
			return i
		}
	}
	return -1
}

func (d *Data) UserByEmail(email string) (User, bool) {
	for _, u := range d.Users {
		if u.Email == email {
			return u, true
		}
	}
	return User{}, false
}

// CloneOrder deep-copies an order so callers cannot alias state.
func CloneOrder(o Order) Order {
	o.Items = append([]CartLine(nil), o.Items...)
	return o
}
