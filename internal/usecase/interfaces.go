package usecase

import (
	"context"

	"github.com/xavierca1/quoteflow/internal/entity"
)

type QuoteRepositoryInterface interface {
	CreateQuote(ctx context.Context, q *entity.Quote) error

	// GetQuoteByLeadID devolve o orçamento mais recente do lead,
	// ou (nil, nil) se ainda não existe nenhum.
	GetQuoteByLeadID(ctx context.Context, leadID string) (*entity.Quote, error)
}

type EmailService interface {
	SendQuoteEmail(lead *entity.Lead, quote *entity.Quote) error
}
