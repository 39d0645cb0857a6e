// Package memory traz os backends fake (em memória) usados em demo e
// desenvolvimento: dá para montar a UI inteira sem banco nem API de pé.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/xavierca1/quoteflow/internal/entity"
)

func ptr(v float64) *float64 { return &v }

// Dados de demonstração: têm endereço e coordenada para o mapa funcionar.
func demoLeads() []entity.Lead {
	return []entity.Lead{
		{
			ID:            "1",
			Title:         "Limpeza pós-obra",
			Status:        entity.StatusNew,
			Service:       "Limpeza",
			Address:       "Rua Augusta 1500, São Paulo - SP",
			Lat:           ptr(-23.556607),
			Lng:           ptr(-46.662113),
			CreatedAt:     time.Date(2026, 1, 28, 9, 30, 0, 0, time.UTC),
			CustomerName:  "Marcos",
			CustomerEmail: "marcos.exemplo@example.com",
			CustomerPhone: "+5511999990001",
			Description:   "Apartamento de 60m², retirada de entulho leve.",
			OwnerID:       "demo-owner",
		},
		{
			ID:            "2",
			Title:         "Instalação de prateleira",
			Status:        entity.StatusQuoted,
			Service:       "Montagem",
			Address:       "Av. Paulista 900, São Paulo - SP",
			Lat:           ptr(-23.563210),
			Lng:           ptr(-46.654251),
			CreatedAt:     time.Date(2026, 1, 27, 14, 0, 0, 0, time.UTC),
			CustomerName:  "Larissa",
			CustomerEmail: "larissa.exemplo@example.com",
			CustomerPhone: "+5511999990002",
			Description:   "Prateleira de parede, parafusos inclusos.",
			OwnerID:       "demo-owner",
		},
		{
			ID:            "3",
			Title:         "Troca de tomada",
			Status:        entity.StatusAccepted,
			Service:       "Elétrica",
			Address:       "Rua da Consolação 250, São Paulo - SP",
			Lat:           ptr(-23.550520),
			Lng:           ptr(-46.648437),
			CreatedAt:     time.Date(2026, 1, 25, 11, 15, 0, 0, time.UTC),
			CustomerName:  "Sérgio",
			CustomerEmail: "sergio.exemplo@example.com",
			CustomerPhone: "+5511999990003",
			Description:   "Tomada antiga folgada, trocar por nova padrão 20A.",
			OwnerID:       "demo-owner",
		},
	}
}

// FakeLeadRepository implementa entity.LeadRepositoryInterface em memória.
// A latência artificial existe para os estados de loading aparecerem na
// demo; nos testes passa-se 0.
type FakeLeadRepository struct {
	latency time.Duration

	mu    sync.Mutex
	leads []entity.Lead
}

func NewFakeLeadRepository(latency time.Duration) *FakeLeadRepository {
	return &FakeLeadRepository{
		latency: latency,
		leads:   demoLeads(),
	}
}

// NewFakeLeadRepositoryWith cria o fake com dados escolhidos (testes).
func NewFakeLeadRepositoryWith(latency time.Duration, leads []entity.Lead) *FakeLeadRepository {
	return &FakeLeadRepository{
		latency: latency,
		leads:   append([]entity.Lead(nil), leads...),
	}
}

func (r *FakeLeadRepository) delay(ctx context.Context) error {
	if r.latency <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(r.latency):
		return nil
	}
}

func (r *FakeLeadRepository) ListLeads(ctx context.Context) ([]entity.Lead, error) {
	if err := r.delay(ctx); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]entity.Lead, 0, len(r.leads))
	for _, l := range r.leads {
		if !l.IsHidden {
			out = append(out, l)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *FakeLeadRepository) ListHiddenLeads(ctx context.Context) ([]entity.Lead, error) {
	if err := r.delay(ctx); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]entity.Lead, 0)
	for _, l := range r.leads {
		if l.IsHidden {
			out = append(out, l)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *FakeLeadRepository) GetLeadByID(ctx context.Context, id string) (*entity.Lead, error) {
	if err := r.delay(ctx); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, l := range r.leads {
		if l.ID == id && !l.IsHidden {
			found := l
			return &found, nil
		}
	}
	return nil, nil
}

func (r *FakeLeadRepository) UpdateLeadStatus(ctx context.Context, id string, status entity.LeadStatus) error {
	if err := r.delay(ctx); err != nil {
		return err
	}
	return r.mutate(id, func(l *entity.Lead) { l.Status = status })
}

func (r *FakeLeadRepository) HideLead(ctx context.Context, id string) error {
	if err := r.delay(ctx); err != nil {
		return err
	}
	return r.mutate(id, func(l *entity.Lead) { l.IsHidden = true })
}

func (r *FakeLeadRepository) UnhideLead(ctx context.Context, id string) error {
	if err := r.delay(ctx); err != nil {
		return err
	}
	return r.mutate(id, func(l *entity.Lead) { l.IsHidden = false })
}

func (r *FakeLeadRepository) DeleteLead(ctx context.Context, id string) error {
	if err := r.delay(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i, l := range r.leads {
		if l.ID == id {
			r.leads = append(r.leads[:i], r.leads[i+1:]...)
			return nil
		}
	}
	// Id desconhecido em mutação é erro, espelhando o comportamento de
	// "0 linhas afetadas" dos backends de verdade.
	return entity.ErrLeadNotFound
}

func (r *FakeLeadRepository) mutate(id string, fn func(*entity.Lead)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.leads {
		if r.leads[i].ID == id {
			fn(&r.leads[i])
			return nil
		}
	}
	return entity.ErrLeadNotFound
}

func sortNewestFirst(leads []entity.Lead) {
	sort.SliceStable(leads, func(i, j int) bool {
		return leads[i].CreatedAt.After(leads[j].CreatedAt)
	})
}
