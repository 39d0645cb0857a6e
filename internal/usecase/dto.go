package usecase

type CreateQuoteOutput struct {
	ID        string  `json:"id"`
	LeadID    string  `json:"lead_id"`
	Price     float64 `json:"price"`
	Currency  string  `json:"currency"`
	EmailSent bool    `json:"email_sent"`
	Msg       string  `json:"msg"`
}
