// Package insight asks a generative model for advice on the current
// inventory and recent orders. Failures are logged and surface as a nil
// result; nothing here is retried.
package insight

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/warteg-pro/api/internal/metrics"
	"github.com/warteg-pro/api/internal/state"
)

// ErrDisabled is returned by a generator with no credentials.
var ErrDisabled = errors.New("insight generator disabled")

// Result is the advisory payload. All three fields are required in the
// upstream response.
type Result struct {
	Alerts      []string  `json:"alerts"`
	Predictions []string  `json:"predictions"`
	Suggestion  string    `json:"suggestion"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Generator produces a JSON document for a prompt.
type Generator interface {
	GenerateJSON(ctx context.Context, prompt string) (string, error)
}

// Adapter coalesces concurrent requests into one upstream call and keeps
// the last successful result.
type Adapter struct {
	gen    Generator
	logger *slog.Logger
	now    func() time.Time

	group   singleflight.Group
	pending atomic.Int32

	mu   sync.RWMutex
	last *Result
}

func NewAdapter(gen Generator, logger *slog.Logger) *Adapter {
	return &Adapter{gen: gen, logger: logger, now: time.Now}
}

// Pending reports whether a request is in flight.
func (a *Adapter) Pending() bool {
	return a.pending.Load() > 0
}

// Last returns the most recent successful result, or nil.
func (a *Adapter) Last() *Result {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.last == nil {
		return nil
	}
	r := *a.last
	return &r
}

// RequestInsights sends both snapshots to the generator and returns the
// parsed result, or nil on any failure.
func (a *Adapter) RequestInsights(ctx context.Context, inventory []state.InventoryItem, orders []state.Order) *Result {
	a.pending.Add(1)
	defer a.pending.Add(-1)

	prompt, err := BuildPrompt(inventory, orders)
	if err != nil {
		a.fail(ctx, "encode", err)
		return nil
	}

	ch := a.group.DoChan("insight", func() (any, error) {
		raw, err := a.gen.GenerateJSON(context.WithoutCancel(ctx), prompt)
		if err != nil {
			return nil, fmt.Errorf("generate: %w", err)
		}
		res, err := ParseResult(raw)
		if err != nil {
			return nil, err
		}
		res.GeneratedAt = a.now()
		return res, nil
	})

	select {
	case <-ctx.Done():
		a.fail(ctx, "canceled", ctx.Err())
		return nil
	case r := <-ch:
		if r.Err != nil {
			outcome := "error"
			if errors.Is(r.Err, ErrDisabled) {
				outcome = "disabled"
			}
			a.fail(ctx, outcome, r.Err)
			return nil
		}
		res := r.Val.(*Result)
		a.mu.Lock()
		a.last = res
		a.mu.Unlock()

		metrics.InsightRequests.WithLabelValues("ok").Inc()
		out := *res
		return &out
	}
}

func (a *Adapter) fail(ctx context.Context, outcome string, err error) {
	metrics.InsightRequests.WithLabelValues(outcome).Inc()
	a.logger.WarnContext(ctx, "insight request failed", "outcome", outcome, "error", err)
}

type promptPayload struct {
	Inventory []state.InventoryItem `json:"inventory"`
	Orders    []promptOrder         `json:"orders"`
}

type promptOrder struct {
	ID            string           `json:"id"`
	Items         []state.CartLine `json:"items"`
	Total         int64            `json:"total"`
	Status        string           `json:"status"`
	PaymentStatus string           `json:"payment_status"`
	CreatedAt     time.Time        `json:"created_at"`
}

// BuildPrompt serializes the snapshots into the instruction text.
func BuildPrompt(inventory []state.InventoryItem, orders []state.Order) (string, error) {
	p := promptPayload{Inventory: inventory, Orders: make([]promptOrder, 0, len(orders))}
	if p.Inventory == nil {
		p.Inventory = []state.InventoryItem{}
	}
	for _, o := range orders {
		p.Orders = append(p.Orders, promptOrder{
			ID:            o.ID,
			Items:         o.Items,
			Total:         o.Total,
			Status:        o.Status,
			PaymentStatus: o.PaymentStatus,
			CreatedAt:     o.CreatedAt,
		})
	}
	b, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	return "Anda adalah asisten manajemen warteg. Analisis stok bahan baku dan pesanan terbaru berikut.\n" +
		"Berikan: alerts (bahan yang hampir habis), predictions (menu yang akan laris), " +
		"dan suggestion (satu saran operasional).\n" +
		"Data: " + string(b), nil
}

type rawResult struct {
	Alerts      *[]string `json:"alerts"`
	Predictions *[]string `json:"predictions"`
	Suggestion  *string   `json:"suggestion"`
}

// ParseResult decodes a generator response. Missing fields are an error.
func ParseResult(raw string) (*Result, error) {
	var r rawResult
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return nil, fmt.Errorf("decode insight: %w", err)
	}
	if r.Alerts == nil || r.Predictions == nil || r.Suggestion == nil {
		return nil, errors.New("decode insight: alerts, predictions and suggestion are required")
	}
	return &Result{
		Alerts:      *r.Alerts,
		Predictions: *r.Predictions,
		Suggestion:  *r.Suggestion,
	}, nil
}
