package usecase

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xavierca1/quoteflow/internal/entity"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateQuoteForm valida o formulário cru do Quote Builder.
// Devolve TODOS os problemas de uma vez para a UI marcar os campos.
func ValidateQuoteForm(input entity.QuoteFormInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.LeadID) == "" {
		errors = append(errors, ValidationError{"lead_id", "is required"})
	}

	if strings.TrimSpace(input.Description) == "" {
		errors = append(errors, ValidationError{"description", "is required"})
	}

	if strings.TrimSpace(input.Price) == "" {
		errors = append(errors, ValidationError{"price", "is required"})
	} else if price, err := ParsePrice(input.Price); err != nil {
		errors = append(errors, ValidationError{"price", "must be a valid number"})
	} else if price <= 0 {
		errors = append(errors, ValidationError{"price", "must be greater than zero"})
	}

	if strings.TrimSpace(input.QuoteValidityDays) != "" {
		if days, err := strconv.Atoi(strings.TrimSpace(input.QuoteValidityDays)); err != nil {
			errors = append(errors, ValidationError{"quote_validity_days", "must be a whole number"})
		} else if days <= 0 {
			errors = append(errors, ValidationError{"quote_validity_days", "must be greater than zero"})
		}
	}

	if strings.TrimSpace(input.EstimatedStartDate) == "" {
		errors = append(errors, ValidationError{"estimated_start_date", "is required"})
	} else if !isValidDate(input.EstimatedStartDate) {
		errors = append(errors, ValidationError{"estimated_start_date", "must be a valid date (YYYY-MM-DD)"})
	}

	return errors
}

// ParsePrice aceita o formato brasileiro ("1.234,56") e o formato
// com ponto ("1234.56").
func ParsePrice(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "R$")
	s = strings.TrimSpace(s)

	if strings.Contains(s, ",") {
		// Vírgula é o separador decimal; pontos são de milhar.
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}

	return strconv.ParseFloat(s, 64)
}

func isValidDate(date string) bool {
	_, err := time.Parse("2006-01-02", strings.TrimSpace(date))
	return err == nil
}
