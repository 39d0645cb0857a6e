package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/quoteflow/internal/entity"
	"github.com/xavierca1/quoteflow/internal/infra/http/middleware"
	"github.com/xavierca1/quoteflow/internal/usecase"
)

type QuoteHandler struct {
	CreateQuoteUC *usecase.CreateQuoteUseCase
	QuoteRepo     usecase.QuoteRepositoryInterface
}

func NewQuoteHandler(uc *usecase.CreateQuoteUseCase, repo usecase.QuoteRepositoryInterface) *QuoteHandler {
	return &QuoteHandler{CreateQuoteUC: uc, QuoteRepo: repo}
}

func (h *QuoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input entity.QuoteFormInput

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "JSON inválido: "+err.Error(), http.StatusBadRequest)
		return
	}

	output, err := h.CreateQuoteUC.Execute(r.Context(), input)
	if err != nil {
		if usecase.IsDomainError(err) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	middleware.RecordQuoteCreated()
	writeJSON(w, http.StatusCreated, output)
}

// GetByLead devolve o orçamento mais recente do lead.
func (h *QuoteHandler) GetByLead(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "id")

	quote, err := h.QuoteRepo.GetQuoteByLeadID(r.Context(), leadID)
	if err != nil {
		http.Error(w, "erro ao buscar orçamento", http.StatusInternalServerError)
		return
	}
	if quote == nil {
		http.Error(w, "nenhum orçamento para esse lead", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}
