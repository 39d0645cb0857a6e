package usecase

import (
	"context"
	"log"
	"strconv"
	"strings"

	"github.com/xavierca1/quoteflow/internal/entity"
)

// CreateQuoteUseCase cria um orçamento a partir do formulário:
// valida, persiste, marca o lead como "quoted" e envia o email.
// Só a persistência do orçamento é obrigatória; status e email são
// best-effort e nunca derrubam uma criação que já foi gravada.
type CreateQuoteUseCase struct {
	QuoteRepo    QuoteRepositoryInterface
	LeadRepo     entity.LeadRepositoryInterface
	EmailService EmailService
}

func NewCreateQuoteUseCase(quoteRepo QuoteRepositoryInterface, leadRepo entity.LeadRepositoryInterface, emailService EmailService) *CreateQuoteUseCase {
	return &CreateQuoteUseCase{
		QuoteRepo:    quoteRepo,
		LeadRepo:     leadRepo,
		EmailService: emailService,
	}
}

func (uc *CreateQuoteUseCase) Execute(ctx context.Context, input entity.QuoteFormInput) (*CreateQuoteOutput, error) {
	validationErrors := ValidateQuoteForm(input)
	if len(validationErrors) > 0 {
		errMsg := "validation failed: "
		for _, e := range validationErrors {
			errMsg += e.Field + " (" + e.Message + "), "
		}
		return nil, &DomainError{
			Code:    "VALIDATION_ERROR",
			Message: errMsg,
		}
	}

	lead, err := uc.LeadRepo.GetLeadByID(ctx, input.LeadID)
	if err != nil {
		return nil, &TechnicalError{
			Code:    "LEAD_LOOKUP_FAILED",
			Message: "falha ao buscar o lead: " + err.Error(),
		}
	}
	if lead == nil {
		return nil, &DomainError{
			Code:    "LEAD_NOT_FOUND",
			Message: "lead não encontrado: " + input.LeadID,
		}
	}

	price, _ := ParsePrice(input.Price)
	quote := entity.NewQuote(input.LeadID, strings.TrimSpace(input.Description), price, input.Currency)
	quote.Notes = strings.TrimSpace(input.Notes)
	quote.EstimatedStartDate = strings.TrimSpace(input.EstimatedStartDate)
	if raw := strings.TrimSpace(input.QuoteValidityDays); raw != "" {
		days, _ := strconv.Atoi(raw)
		quote.QuoteValidityDays = &days
	}

	if err := uc.QuoteRepo.CreateQuote(ctx, quote); err != nil {
		return nil, &TechnicalError{
			Code:    "QUOTE_PERSIST_FAILED",
			Message: "falha ao gravar o orçamento: " + err.Error(),
		}
	}

	// Daqui para baixo o orçamento já existe; nada mais pode falhar a operação.

	if lead.Status == entity.StatusNew {
		if err := uc.LeadRepo.UpdateLeadStatus(ctx, lead.ID, entity.StatusQuoted); err != nil {
			log.Printf("⚠️ quote: orçamento %s criado mas não consegui marcar o lead como orçado: %v", quote.ID, err)
		}
	}

	emailSent := false
	if uc.EmailService != nil && lead.CustomerEmail != "" {
		if err := uc.EmailService.SendQuoteEmail(lead, quote); err != nil {
			log.Printf("⚠️ quote: falha ao enviar email do orçamento %s: %v", quote.ID, err)
		} else {
			emailSent = true
			log.Printf("📧 quote: email do orçamento %s enviado para %s", quote.ID, lead.CustomerEmail)
		}
	}

	return &CreateQuoteOutput{
		ID:        quote.ID,
		LeadID:    quote.LeadID,
		Price:     quote.Price,
		Currency:  quote.Currency,
		EmailSent: emailSent,
		Msg:       "Orçamento criado com sucesso",
	}, nil
}
