package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/FACorreiaa/go-vinebar-venice/internal/api/quiz"
	"github.com/FACorreiaa/go-vinebar-venice/internal/router"
	"github.com/FACorreiaa/go-vinebar-venice/internal/types"
)

func BenchmarkPickRandom(b *testing.B) {
	c := newTestContainer(b)
	defer c.Close()

	excluded := &types.VenueEntry{Title: "Bar Canale"}
	b.ReportAllocs()
	for b.Loop() {
		c.Selector.PickRandomExcluding(types.CategoryRomantic, excluded)
	}
}

func BenchmarkClassify(b *testing.B) {
	answers := []types.QuizAnswer{
		"A quiet corner nobody knows about",
		"Just me and my curiosity",
		"Something natural I have never heard of",
	}
	b.ReportAllocs()
	for b.Loop() {
		quiz.Classify(answers)
	}
}

func BenchmarkSavedToggle(b *testing.B) {
	c := newTestContainer(b)
	defer c.Close()

	v, ok := c.Catalog.FindByID("local1")
	if !ok {
		b.Fatal("local1 missing from catalog")
	}
	ctx := context.Background()
	b.ReportAllocs()
	for b.Loop() {
		c.SavedService.Toggle(ctx, v)
	}
}

func BenchmarkRouterPick(b *testing.B) {
	c := newTestContainer(b)
	defer c.Close()

	h := router.New(c.RouterConfig())
	b.ReportAllocs()
	for b.Loop() {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/categories/elegant/pick", nil))
		if rec.Code != http.StatusOK {
			b.Fatalf("status %d", rec.Code)
		}
	}
}
