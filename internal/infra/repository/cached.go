// Package repository monta a fachada de leads que o app consome:
// backend escolhido + decorator de cache + decorator de debug.
package repository

import (
	"context"
	"log"
	"time"

	"github.com/xavierca1/quoteflow/internal/entity"
	"github.com/xavierca1/quoteflow/internal/infra/http/middleware"
)

const backgroundRefreshTimeout = 30 * time.Second

// CachedLeadRepository embrulha um backend com a estratégia cache-first:
//
//  1. Tem snapshot no cache? Devolve na hora e, se online, atualiza em
//     background (falha do refresh é logada e ignorada).
//  2. Sem cache e offline? Erro descritivo de "offline sem cache".
//  3. Sem cache e online? Busca síncrona, grava no cache, devolve.
//     Se a busca síncrona falhar, cai para o cache se existir; senão
//     propaga o erro.
//
// Mutações passam direto para o backend e, no sucesso, sincronizam o
// cache na hora, para a próxima leitura refletir a mudança sem rede.
type CachedLeadRepository struct {
	inner   entity.LeadRepositoryInterface
	cache   entity.LeadCache
	network entity.ConnectivityChecker
}

func NewCachedLeadRepository(inner entity.LeadRepositoryInterface, cache entity.LeadCache, network entity.ConnectivityChecker) *CachedLeadRepository {
	return &CachedLeadRepository{inner: inner, cache: cache, network: network}
}

func (r *CachedLeadRepository) ListLeads(ctx context.Context) ([]entity.Lead, error) {
	online := r.network.IsOnline(ctx)

	if items, _, ok := r.cache.GetList(ctx); ok {
		middleware.RecordCacheHit("list")
		if online {
			log.Printf("📦 leads: servindo cache, atualizando em background")
			go r.refreshListInBackground()
		} else {
			log.Printf("📦 leads: offline, servindo só o cache")
		}
		return items, nil
	}

	if !online {
		log.Printf("📶 leads: offline e sem cache, não dá para listar")
		return nil, &entity.OfflineNoCacheError{Resource: "a lista de leads"}
	}

	log.Printf("🌐 leads: sem cache, buscando do backend")
	items, err := r.inner.ListLeads(ctx)
	if err != nil {
		// Busca síncrona falhou: cache (se houver) segura a queda.
		if cached, _, ok := r.cache.GetList(ctx); ok {
			log.Printf("📦 leads: backend falhou, caindo para o cache: %v", err)
			return cached, nil
		}
		return nil, err
	}

	r.cache.SetList(ctx, items)
	return items, nil
}

// refreshListInBackground roda fora do request que serviu o cache.
// Nunca propaga erro: snapshot antigo continua valendo se a rede falhar.
func (r *CachedLeadRepository) refreshListInBackground() {
	ctx, cancel := context.WithTimeout(context.Background(), backgroundRefreshTimeout)
	defer cancel()

	// Checa de novo: a rede pode ter caído entre o hit e a goroutine.
	if !r.network.IsOnline(ctx) {
		log.Printf("📶 leads: pulando refresh em background, offline")
		return
	}

	items, err := r.inner.ListLeads(ctx)
	if err != nil {
		middleware.RecordBackgroundRefresh("error")
		log.Printf("⚠️ leads: refresh em background falhou (não-crítico): %v", err)
		return
	}

	r.cache.SetList(ctx, items)
	middleware.RecordBackgroundRefresh("ok")
	log.Printf("🔄 leads: refresh em background concluído (%d leads)", len(items))
}

// ListHiddenLeads não passa pelo cache: a tela de escondidos é secundária
// e sempre quer o estado real do backend.
func (r *CachedLeadRepository) ListHiddenLeads(ctx context.Context) ([]entity.Lead, error) {
	return r.inner.ListHiddenLeads(ctx)
}

// GetLeadByID aplica o mesmo cache-first por registro.
func (r *CachedLeadRepository) GetLeadByID(ctx context.Context, id string) (*entity.Lead, error) {
	if cached, ok := r.cache.GetDetail(ctx, id); ok {
		middleware.RecordCacheHit("detail")
		return cached, nil
	}

	if !r.network.IsOnline(ctx) {
		return nil, &entity.OfflineNoCacheError{Resource: "o lead " + id}
	}

	lead, err := r.inner.GetLeadByID(ctx, id)
	if err != nil {
		if cached, ok := r.cache.GetDetail(ctx, id); ok {
			log.Printf("📦 leads: backend falhou para %s, caindo para o cache: %v", id, err)
			return cached, nil
		}
		return nil, err
	}
	if lead == nil {
		return nil, nil
	}

	r.cache.SetDetail(ctx, lead)
	return lead, nil
}

// Mutações: sem fallback de cache. Erro do backend sempre sobe.

func (r *CachedLeadRepository) UpdateLeadStatus(ctx context.Context, id string, status entity.LeadStatus) error {
	if err := r.inner.UpdateLeadStatus(ctx, id, status); err != nil {
		return err
	}
	r.syncAfterStatusChange(ctx, id, status)
	return nil
}

func (r *CachedLeadRepository) HideLead(ctx context.Context, id string) error {
	if err := r.inner.HideLead(ctx, id); err != nil {
		return err
	}
	// Escondido sai da lista padrão imediatamente, mesmo offline-first.
	r.cache.RemoveFromList(ctx, id)
	r.cache.RemoveDetail(ctx, id)
	return nil
}

func (r *CachedLeadRepository) UnhideLead(ctx context.Context, id string) error {
	if err := r.inner.UnhideLead(ctx, id); err != nil {
		return err
	}

	// O lead não está mais na lista cacheada; busca no backend para
	// reinserir. Best-effort: se falhar, o próximo refresh resolve.
	lead, err := r.inner.GetLeadByID(ctx, id)
	if err != nil || lead == nil {
		log.Printf("⚠️ leads: não consegui recachear o lead %s depois do unhide: %v", id, err)
		return nil
	}
	r.cache.UpsertInList(ctx, lead)
	r.cache.SetDetail(ctx, lead)
	return nil
}

func (r *CachedLeadRepository) DeleteLead(ctx context.Context, id string) error {
	if err := r.inner.DeleteLead(ctx, id); err != nil {
		return err
	}
	r.cache.RemoveFromList(ctx, id)
	r.cache.RemoveDetail(ctx, id)
	return nil
}

func (r *CachedLeadRepository) syncAfterStatusChange(ctx context.Context, id string, status entity.LeadStatus) {
	if items, _, ok := r.cache.GetList(ctx); ok {
		for i := range items {
			if items[i].ID == id {
				updated := items[i]
				updated.Status = status
				r.cache.UpsertInList(ctx, &updated)
				break
			}
		}
	}
	if cached, ok := r.cache.GetDetail(ctx, id); ok {
		updated := *cached
		updated.Status = status
		r.cache.SetDetail(ctx, &updated)
	}
}
