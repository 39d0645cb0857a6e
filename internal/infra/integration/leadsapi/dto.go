package leadsapi

import (
	"time"

	"github.com/xavierca1/quoteflow/internal/entity"
)

// leadDTO é o shape que a API HTTP devolve. Mantido separado do domínio
// para o mapeamento (e a coerção de status) ficar explícito.
type leadDTO struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	Status        string    `json:"status"`
	Service       string    `json:"service,omitempty"`
	Address       string    `json:"address,omitempty"`
	Lat           *float64  `json:"lat,omitempty"`
	Lng           *float64  `json:"lng,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	CustomerName  string    `json:"customer_name,omitempty"`
	CustomerEmail string    `json:"customer_email,omitempty"`
	CustomerPhone string    `json:"customer_phone,omitempty"`
	OwnerID       string    `json:"owner_id"`
	IsHidden      bool      `json:"is_hidden"`
}

func (d leadDTO) toEntity() entity.Lead {
	return entity.Lead{
		ID:            d.ID,
		Title:         d.Title,
		Description:   d.Description,
		Status:        entity.ParseLeadStatus(d.Status),
		Service:       d.Service,
		Address:       d.Address,
		Lat:           d.Lat,
		Lng:           d.Lng,
		CreatedAt:     d.CreatedAt,
		CustomerName:  d.CustomerName,
		CustomerEmail: d.CustomerEmail,
		CustomerPhone: d.CustomerPhone,
		OwnerID:       d.OwnerID,
		IsHidden:      d.IsHidden,
	}
}

type updateStatusRequest struct {
	Status string `json:"status"`
}
