package entity

import (
	"time"

	"github.com/google/uuid"
)

// Entidade: Quote (orçamento criado a partir de um lead)
type Quote struct {
	ID     string `json:"id"`
	LeadID string `json:"lead_id"`

	// Descrição do trabalho (ex: "2 dias de serviço + material").
	Description string `json:"description"`

	Price    float64 `json:"price"`
	Currency string  `json:"currency"`

	// Validade do orçamento em dias (opcional).
	QuoteValidityDays *int `json:"quote_validity_days,omitempty"`

	// Data estimada de início (opcional, formato YYYY-MM-DD).
	EstimatedStartDate string `json:"estimated_start_date,omitempty"`

	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// QuoteFormInput é o que chega do formulário do Quote Builder.
// Tudo string de propósito: o form manda texto cru e a validação/conversão
// acontece no usecase, não na UI.
type QuoteFormInput struct {
	LeadID             string `json:"lead_id"`
	Description        string `json:"description"`
	Price              string `json:"price"`
	Currency           string `json:"currency"`
	QuoteValidityDays  string `json:"quote_validity_days"`
	EstimatedStartDate string `json:"estimated_start_date"`
	Notes              string `json:"notes"`
}

// Factory
func NewQuote(leadID, description string, price float64, currency string) *Quote {
	if currency == "" {
		currency = "BRL"
	}
	return &Quote{
		ID:          uuid.New().String(),
		LeadID:      leadID,
		Description: description,
		Price:       price,
		Currency:    currency,
		CreatedAt:   time.Now(),
	}
}
