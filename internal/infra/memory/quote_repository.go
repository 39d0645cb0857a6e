package memory

import (
	"context"
	"sync"
	"time"

	"github.com/xavierca1/quoteflow/internal/entity"
)

// FakeQuoteRepository guarda orçamentos em memória para a demo.
type FakeQuoteRepository struct {
	latency time.Duration

	mu     sync.Mutex
	quotes map[string]entity.Quote // id -> quote
}

func NewFakeQuoteRepository(latency time.Duration) *FakeQuoteRepository {
	return &FakeQuoteRepository{
		latency: latency,
		quotes:  make(map[string]entity.Quote),
	}
}

func (r *FakeQuoteRepository) delay(ctx context.Context) error {
	if r.latency <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(r.latency):
		return nil
	}
}

func (r *FakeQuoteRepository) CreateQuote(ctx context.Context, q *entity.Quote) error {
	if err := r.delay(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.quotes[q.ID] = *q
	return nil
}

// GetQuoteByLeadID devolve o orçamento mais recente do lead, ou (nil, nil).
func (r *FakeQuoteRepository) GetQuoteByLeadID(ctx context.Context, leadID string) (*entity.Quote, error) {
	if err := r.delay(ctx); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var newest *entity.Quote
	for _, q := range r.quotes {
		if q.LeadID != leadID {
			continue
		}
		if newest == nil || q.CreatedAt.After(newest.CreatedAt) {
			copied := q
			newest = &copied
		}
	}
	return newest, nil
}
