package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/quoteflow/internal/entity"
)

func TestBuildLead_PayloadCompleto(t *testing.T) {
	lat, lng := -23.5505, -46.6333
	w := &Worker{DefaultOwnerID: "owner-padrao"}

	lead, err := w.BuildLead(LeadIntakePayload{
		Title:         "  Pintura de sala  ",
		Description:   "Sala de 20m²",
		Service:       "Pintura",
		Address:       "Av. Paulista, 1000 - São Paulo",
		Lat:           &lat,
		Lng:           &lng,
		CustomerName:  "Marcos",
		CustomerEmail: "marcos@example.com",
		OwnerID:       "owner-1",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, lead.ID)
	assert.Equal(t, "Pintura de sala", lead.Title)
	assert.Equal(t, entity.StatusNew, lead.Status)
	assert.Equal(t, "owner-1", lead.OwnerID)
	assert.False(t, lead.IsHidden)
	assert.False(t, lead.CreatedAt.IsZero())
	require.NotNil(t, lead.Lat)
	assert.InDelta(t, -23.5505, *lead.Lat, 0.0001)
}

func TestBuildLead_SemTitle(t *testing.T) {
	w := &Worker{}

	_, err := w.BuildLead(LeadIntakePayload{Description: "sem título"})

	require.Error(t, err)
}

func TestBuildLead_OwnerPadrao(t *testing.T) {
	w := &Worker{DefaultOwnerID: "owner-padrao"}

	lead, err := w.BuildLead(LeadIntakePayload{Title: "Elétrica"})

	require.NoError(t, err)
	assert.Equal(t, "owner-padrao", lead.OwnerID)
}

func TestBuildLead_CoordenadaSolitariaDescartada(t *testing.T) {
	lat := -23.5505
	w := &Worker{}

	lead, err := w.BuildLead(LeadIntakePayload{Title: "Elétrica", Lat: &lat})

	require.NoError(t, err)
	assert.Nil(t, lead.Lat)
	assert.Nil(t, lead.Lng)
}
