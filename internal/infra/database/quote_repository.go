package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/xavierca1/quoteflow/internal/entity"
)

type QuoteRepository struct {
	DB *sql.DB
}

func NewQuoteRepository(db *sql.DB) *QuoteRepository {
	return &QuoteRepository{DB: db}
}

func (r *QuoteRepository) CreateQuote(ctx context.Context, q *entity.Quote) error {
	query := `
		INSERT INTO quotes (
			id, lead_id, description, price, currency,
			quote_validity_days, estimated_start_date, notes, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), NULLIF($8, ''), $9)
	`

	_, err := r.DB.ExecContext(ctx, query,
		q.ID,
		q.LeadID,
		q.Description,
		q.Price,
		q.Currency,
		q.QuoteValidityDays,
		q.EstimatedStartDate,
		q.Notes,
		q.CreatedAt,
	)
	if err != nil {
		return &entity.RemoteError{Op: "createQuote", Message: err.Error(), Err: err}
	}
	return nil
}

// GetQuoteByLeadID devolve o orçamento mais recente do lead, ou (nil, nil).
func (r *QuoteRepository) GetQuoteByLeadID(ctx context.Context, leadID string) (*entity.Quote, error) {
	query := `
		SELECT id, lead_id, description, price, currency,
			quote_validity_days, estimated_start_date, notes, created_at
		FROM quotes
		WHERE lead_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	var (
		q            entity.Quote
		validityDays sql.NullInt64
		startDate    sql.NullString
		notes        sql.NullString
	)

	err := r.DB.QueryRowContext(ctx, query, leadID).Scan(
		&q.ID,
		&q.LeadID,
		&q.Description,
		&q.Price,
		&q.Currency,
		&validityDays,
		&startDate,
		&notes,
		&q.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, &entity.RemoteError{Op: "getQuoteByLeadID", Message: err.Error(), Err: err}
	}

	if validityDays.Valid {
		days := int(validityDays.Int64)
		q.QuoteValidityDays = &days
	}
	q.EstimatedStartDate = startDate.String
	q.Notes = notes.String
	return &q, nil
}
