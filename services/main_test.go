package services

import (
	"context"
	"sync"
	"testing"

	"storefront/models"

	"github.com/shopspring/decimal"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// staticSource answers every fetch with the same page or error.
type staticSource struct {
	mu      sync.Mutex
	items   []models.Item
	err     error
	queries []string
}

func (s *staticSource) FetchPage(ctx context.Context, query string) ([]models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, query)
	if s.err != nil {
		return nil, s.err
	}
	return s.items, nil
}

type gatedResult struct {
	items []models.Item
	err   error
}

// gatedSource blocks each fetch until the test releases it, so tests decide
// the completion order of overlapping fetches.
type gatedSource struct {
	mu      sync.Mutex
	gates   []chan gatedResult
	started chan int
}

func newGatedSource() *gatedSource {
	return &gatedSource{started: make(chan int, 16)}
}

func (s *gatedSource) FetchPage(ctx context.Context, query string) ([]models.Item, error) {
	gate := make(chan gatedResult, 1)
	s.mu.Lock()
	s.gates = append(s.gates, gate)
	n := len(s.gates)
	s.mu.Unlock()
	s.started <- n

	select {
	case r := <-gate:
		return r.items, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *gatedSource) release(i int, r gatedResult) {
	s.mu.Lock()
	gate := s.gates[i]
	s.mu.Unlock()
	gate <- r
}

func ids(items []models.Item) []int {
	out := make([]int, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
