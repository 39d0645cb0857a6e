package repository

import (
	"context"

	"github.com/xavierca1/quoteflow/internal/debugflags"
	"github.com/xavierca1/quoteflow/internal/entity"
)

// DebugLeadRepository injeta falhas controladas pelos flags de debug.
// Com tudo desligado é um repasse puro, sem custo nem efeito.
type DebugLeadRepository struct {
	inner entity.LeadRepositoryInterface
	flags *debugflags.Manager
}

func NewDebugLeadRepository(inner entity.LeadRepositoryInterface, flags *debugflags.Manager) *DebugLeadRepository {
	return &DebugLeadRepository{inner: inner, flags: flags}
}

// simulated devolve o erro sintético a injetar, ou nil para repassar.
func (r *DebugLeadRepository) simulated(op string) error {
	f := r.flags.Current()
	switch {
	case f.SimulateOffline:
		return &entity.OfflineNoCacheError{Resource: op + " (simulado)"}
	case f.SimulateError:
		return &entity.RemoteError{Op: op, StatusCode: 500, Message: "erro simulado pelos flags de debug"}
	}
	return nil
}

func (r *DebugLeadRepository) ListLeads(ctx context.Context) ([]entity.Lead, error) {
	if err := r.simulated("listar leads"); err != nil {
		return nil, err
	}
	return r.inner.ListLeads(ctx)
}

func (r *DebugLeadRepository) ListHiddenLeads(ctx context.Context) ([]entity.Lead, error) {
	if err := r.simulated("listar leads escondidos"); err != nil {
		return nil, err
	}
	return r.inner.ListHiddenLeads(ctx)
}

func (r *DebugLeadRepository) GetLeadByID(ctx context.Context, id string) (*entity.Lead, error) {
	if err := r.simulated("buscar lead"); err != nil {
		return nil, err
	}
	return r.inner.GetLeadByID(ctx, id)
}

func (r *DebugLeadRepository) UpdateLeadStatus(ctx context.Context, id string, status entity.LeadStatus) error {
	if err := r.simulated("atualizar status"); err != nil {
		return err
	}
	return r.inner.UpdateLeadStatus(ctx, id, status)
}

func (r *DebugLeadRepository) HideLead(ctx context.Context, id string) error {
	if err := r.simulated("esconder lead"); err != nil {
		return err
	}
	return r.inner.HideLead(ctx, id)
}

func (r *DebugLeadRepository) UnhideLead(ctx context.Context, id string) error {
	if err := r.simulated("reexibir lead"); err != nil {
		return err
	}
	return r.inner.UnhideLead(ctx, id)
}

func (r *DebugLeadRepository) DeleteLead(ctx context.Context, id string) error {
	if err := r.simulated("apagar lead"); err != nil {
		return err
	}
	return r.inner.DeleteLead(ctx, id)
}
