package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/quoteflow/internal/entity"
)

func validForm() entity.QuoteFormInput {
	return entity.QuoteFormInput{
		LeadID:             "lead-1",
		Description:        "2 dias de serviço + material",
		Price:              "1.250,00",
		EstimatedStartDate: "2026-09-15",
		QuoteValidityDays:  "7",
	}
}

func fieldsWithErrors(errs []ValidationError) []string {
	var out []string
	for _, e := range errs {
		out = append(out, e.Field)
	}
	return out
}

func TestValidateQuoteForm_FormularioValido(t *testing.T) {
	assert.Empty(t, ValidateQuoteForm(validForm()))
}

func TestValidateQuoteForm_CamposObrigatorios(t *testing.T) {
	errs := ValidateQuoteForm(entity.QuoteFormInput{})

	fields := fieldsWithErrors(errs)
	assert.Contains(t, fields, "lead_id")
	assert.Contains(t, fields, "description")
	assert.Contains(t, fields, "price")
	assert.Contains(t, fields, "estimated_start_date")
}

func TestValidateQuoteForm_DataDeInicioObrigatoria(t *testing.T) {
	form := validForm()
	form.EstimatedStartDate = ""

	errs := ValidateQuoteForm(form)

	require.Len(t, errs, 1)
	assert.Equal(t, "estimated_start_date", errs[0].Field)
	assert.Equal(t, "is required", errs[0].Message)
}

func TestValidateQuoteForm_PrecoInvalido(t *testing.T) {
	form := validForm()
	form.Price = "abc"

	errs := ValidateQuoteForm(form)
	assert.Contains(t, fieldsWithErrors(errs), "price")
}

func TestValidateQuoteForm_PrecoZero(t *testing.T) {
	form := validForm()
	form.Price = "0"

	errs := ValidateQuoteForm(form)
	assert.Contains(t, fieldsWithErrors(errs), "price")
}

func TestValidateQuoteForm_ValidadeNaoNumerica(t *testing.T) {
	form := validForm()
	form.QuoteValidityDays = "sete"

	errs := ValidateQuoteForm(form)
	assert.Contains(t, fieldsWithErrors(errs), "quote_validity_days")
}

func TestValidateQuoteForm_DataMalFormada(t *testing.T) {
	form := validForm()
	form.EstimatedStartDate = "15/09/2026"

	errs := ValidateQuoteForm(form)
	assert.Contains(t, fieldsWithErrors(errs), "estimated_start_date")
}

func TestValidateQuoteForm_CamposOpcionaisVazios(t *testing.T) {
	form := validForm()
	form.QuoteValidityDays = ""
	form.Notes = ""

	assert.Empty(t, ValidateQuoteForm(form))
}

func TestParsePrice_Formatos(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"1234.56", 1234.56},
		{"1.234,56", 1234.56},
		{"1234,56", 1234.56},
		{"R$ 99,90", 99.90},
		{"500", 500},
	}

	for _, c := range cases {
		got, err := ParsePrice(c.in)
		require.NoError(t, err, c.in)
		assert.InDelta(t, c.want, got, 0.001, c.in)
	}
}
