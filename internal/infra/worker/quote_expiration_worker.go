package worker

import (
	"context"
	"database/sql"
	"log"
	"time"
)

// QuoteExpirationWorker varre orçamentos cuja validade venceu sem o
// lead ter saído de "quoted". Não mexe em nada sozinho: vencimento de
// proposta é assunto do profissional, então o worker só aponta os
// leads que precisam de follow-up.
type QuoteExpirationWorker struct {
	db           *sql.DB
	tickInterval time.Duration
}

func NewQuoteExpirationWorker(db *sql.DB) *QuoteExpirationWorker {
	return &QuoteExpirationWorker{
		db:           db,
		tickInterval: 1 * time.Hour,
	}
}

func (w *QuoteExpirationWorker) Start(ctx context.Context) {
	log.Println("🕒 Quote Expiration Worker iniciado")

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.sweepExpiredQuotes(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("⚠️ Quote Expiration Worker encerrado")
			return
		case <-ticker.C:
			w.sweepExpiredQuotes(ctx)
		}
	}
}

func (w *QuoteExpirationWorker) sweepExpiredQuotes(ctx context.Context) {
	query := `
		SELECT q.id, q.lead_id, l.title, q.created_at, q.quote_validity_days
		FROM quotes q
		JOIN leads l ON l.id = q.lead_id
		WHERE
			l.status = 'quoted'
			AND q.quote_validity_days IS NOT NULL
			AND q.created_at + (q.quote_validity_days || ' days')::interval < NOW()
	`

	rows, err := w.db.QueryContext(ctx, query)
	if err != nil {
		log.Printf("❌ Erro ao buscar orçamentos vencidos: %v", err)
		return
	}
	defer rows.Close()

	expiredCount := 0
	for rows.Next() {
		var quoteID, leadID, title string
		var createdAt time.Time
		var validityDays int

		if err := rows.Scan(&quoteID, &leadID, &title, &createdAt, &validityDays); err != nil {
			log.Printf("⚠️ Erro ao escanear orçamento vencido: %v", err)
			continue
		}

		elapsed := time.Since(createdAt)
		log.Printf("⏱️ Orçamento vencido sem resposta: quote=%s lead=%s (%q) idade=%s validade=%dd",
			quoteID, leadID, title, elapsed.Round(time.Hour), validityDays)
		expiredCount++
	}

	if expiredCount > 0 {
		log.Printf("📋 %d orçamento(s) vencendo precisam de follow-up", expiredCount)
	}
}
