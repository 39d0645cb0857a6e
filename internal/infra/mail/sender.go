package mail

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"gopkg.in/gomail.v2"

	"github.com/xavierca1/quoteflow/internal/entity"
)

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
	}
}

// QuoteEmail é o assunto e o corpo prontos para envio.
type QuoteEmail struct {
	Subject string
	Body    string
}

// Corpo em texto puro de propósito: cliente de serviço lê no celular,
// muitas vezes em webmail simples.
var quoteBodyTmpl = template.Must(template.New("quote").Parse(`Olá{{if .CustomerName}} {{.CustomerName}}{{end}},

Segue o orçamento para "{{.LeadTitle}}":

{{.Description}}

Valor: {{.Price}}
{{- if .StartDate}}
Início estimado: {{.StartDate}}
{{- end}}
{{- if .ValidityDays}}
Validade da proposta: {{.ValidityDays}} dias
{{- end}}
{{- if .Notes}}

Observações: {{.Notes}}
{{- end}}

Qualquer dúvida é só responder este email.

Atenciosamente,
Equipe QuoteFlow
`))

// BuildQuoteEmail monta a mensagem sem tocar em SMTP. Separado do envio
// para dar para testar o texto.
func BuildQuoteEmail(lead *entity.Lead, quote *entity.Quote) (QuoteEmail, error) {
	data := struct {
		CustomerName string
		LeadTitle    string
		Description  string
		Price        string
		StartDate    string
		ValidityDays int
		Notes        string
	}{
		CustomerName: lead.CustomerName,
		LeadTitle:    lead.Title,
		Description:  quote.Description,
		Price:        FormatPrice(quote.Price, quote.Currency),
		StartDate:    quote.EstimatedStartDate,
		Notes:        quote.Notes,
	}
	if quote.QuoteValidityDays != nil {
		data.ValidityDays = *quote.QuoteValidityDays
	}

	var body bytes.Buffer
	if err := quoteBodyTmpl.Execute(&body, data); err != nil {
		return QuoteEmail{}, fmt.Errorf("erro ao processar template do orçamento: %w", err)
	}

	return QuoteEmail{
		Subject: "Orçamento: " + lead.Title,
		Body:    body.String(),
	}, nil
}

// FormatPrice formata no padrão brasileiro (vírgula decimal).
func FormatPrice(price float64, currency string) string {
	value := strings.Replace(fmt.Sprintf("%.2f", price), ".", ",", 1)
	if currency == "" || currency == "BRL" {
		return "R$ " + value
	}
	return currency + " " + value
}

// SendQuoteEmail envia o orçamento para o email do cliente do lead.
func (s *EmailSender) SendQuoteEmail(lead *entity.Lead, quote *entity.Quote) error {
	if lead.CustomerEmail == "" {
		return fmt.Errorf("lead %s não tem email de cliente", lead.ID)
	}

	email, err := BuildQuoteEmail(lead, quote)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", lead.CustomerEmail)
	m.SetHeader("Subject", email.Subject)
	m.SetBody("text/plain", email.Body)

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}

	return nil
}
