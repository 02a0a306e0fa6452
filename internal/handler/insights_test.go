package handler_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/warteg-pro/api/internal/handler"
	"github.com/warteg-pro/api/internal/insight"
)

type stubGenerator struct {
	resp   string
	err    error
	prompt string
}

func (g *stubGenerator) GenerateJSON(_ context.Context, prompt string) (string, error) {
	g.prompt = prompt
	return g.resp, g.err
}

type insightBody struct {
	Insight *insight.Result `json:"insight"`
	Pending bool            `json:"pending"`
}

func newInsightRouter(env *testEnv, gen insight.Generator) *chi.Mux {
	adapter := insight.NewAdapter(gen, slog.New(slog.NewTextHandler(io.Discard, nil)))
	h := handler.NewInsightHandler(adapter, handler.ServiceSources{Inv: env.inventory, Orders: env.orders})
	return newRouter(func(r chi.Router) {
		r.Route("/admin/insights", h.RegisterRoutes)
	})
}

func TestRequestInsights(t *testing.T) {
	env := newTestEnv()
	o := env.placeOrder(t, customer, "OVO", "1")
	gen := &stubGenerator{resp: `{"alerts":["Minyak menipis"],"predictions":["Nasi Rames laris"],"suggestion":"Stok minyak"}`}
	router := newInsightRouter(env, gen)

	rr := doAuthRequest(t, router, "GET", "/admin/insights", nil, &adminUser)
	expectStatus(t, rr, http.StatusOK)
	var body insightBody
	decodeResponse(t, rr, &body)
	if body.Insight != nil {
		t.Errorf("expected no insight yet, got %+v", body.Insight)
	}

	rr = doAuthRequest(t, router, "POST", "/admin/insights", nil, &adminUser)
	expectStatus(t, rr, http.StatusOK)
	decodeResponse(t, rr, &body)
	if body.Insight == nil || body.Insight.Suggestion != "Stok minyak" {
		t.Fatalf("insight: %+v", body.Insight)
	}
	if !strings.Contains(gen.prompt, o.ID) || !strings.Contains(gen.prompt, "Minyak Goreng") {
		t.Errorf("prompt missing snapshots: %s", gen.prompt)
	}

	rr = doAuthRequest(t, router, "GET", "/admin/insights", nil, &adminUser)
	expectStatus(t, rr, http.StatusOK)
	decodeResponse(t, rr, &body)
	if body.Insight == nil || body.Pending {
		t.Errorf("latest: %+v", body)
	}
}

func TestRequestInsights_UpstreamFailureIsNull(t *testing.T) {
	env := newTestEnv()
	router := newInsightRouter(env, &stubGenerator{resp: "not json at all"})

	rr := doAuthRequest(t, router, "POST", "/admin/insights", nil, &adminUser)
	expectStatus(t, rr, http.StatusOK)
	var body insightBody
	decodeResponse(t, rr, &body)
	if body.Insight != nil {
		t.Errorf("expected null insight, got %+v", body.Insight)
	}
}
