package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/quoteflow/internal/entity"
	"github.com/xavierca1/quoteflow/internal/infra/repository"
)

// Fakes locais da tela: cache de lista, checker fixo e repo contador.

type listCache struct {
	mu       sync.Mutex
	items    []entity.Lead
	hasList  bool
	syncedAt time.Time
}

func (c *listCache) GetList(ctx context.Context) ([]entity.Lead, time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.hasList {
		return nil, time.Time{}, false
	}
	return append([]entity.Lead(nil), c.items...), c.syncedAt, true
}

func (c *listCache) SetList(ctx context.Context, items []entity.Lead) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items, c.hasList, c.syncedAt = append([]entity.Lead(nil), items...), true, time.Now()
	return c.syncedAt
}

func (c *listCache) ClearList(ctx context.Context) {
	c.mu.Lock()
	c.hasList = false
	c.mu.Unlock()
}
func (c *listCache) GetDetail(ctx context.Context, id string) (*entity.Lead, bool) {
	return nil, false
}
func (c *listCache) SetDetail(ctx context.Context, lead *entity.Lead)    {}
func (c *listCache) RemoveDetail(ctx context.Context, id string)         {}
func (c *listCache) UpsertInList(ctx context.Context, lead *entity.Lead) {}
func (c *listCache) RemoveFromList(ctx context.Context, id string)       {}

type fixedChecker struct{ online bool }

func (f *fixedChecker) IsOnline(ctx context.Context) bool { return f.online }
func (f *fixedChecker) Subscribe(fn func(bool)) func()    { return func() {} }

type countingRepo struct {
	entity.LeadRepositoryInterface

	listCalls atomic.Int64
	leads     []entity.Lead
	listErr   error
}

func (r *countingRepo) ListLeads(ctx context.Context) ([]entity.Lead, error) {
	r.listCalls.Add(1)
	return r.leads, r.listErr
}

func inboxLead(id, title string, status entity.LeadStatus) entity.Lead {
	return entity.Lead{ID: id, Title: title, Status: status, CreatedAt: time.Now()}
}

func TestInbox_StartSemCache_BuscaDaRede(t *testing.T) {
	repo := &countingRepo{leads: []entity.Lead{inboxLead("1", "Pintura de sala", entity.StatusNew)}}
	vm := NewInboxViewModel(repo, &listCache{}, &fixedChecker{online: true})
	defer vm.Close()

	vm.Start(context.Background())

	s := vm.State()
	assert.False(t, s.IsLoading)
	assert.Empty(t, s.ErrorMessage)
	assert.Equal(t, SourceNetwork, s.DataSource)
	require.Len(t, s.Items, 1)
	assert.Equal(t, int64(1), repo.listCalls.Load())
}

func TestInbox_StartComCache_HidrataEDepoisAtualiza(t *testing.T) {
	cache := &listCache{}
	cache.SetList(context.Background(), []entity.Lead{inboxLead("antigo", "Antigo", entity.StatusNew)})

	repo := &countingRepo{leads: []entity.Lead{
		inboxLead("novo-1", "Novo 1", entity.StatusNew),
		inboxLead("novo-2", "Novo 2", entity.StatusQuoted),
	}}
	vm := NewInboxViewModel(repo, cache, &fixedChecker{online: true})
	defer vm.Close()

	var sawCacheSource atomic.Bool
	vm.SetOnChange(func() {
		if vm.State().DataSource == SourceCache {
			sawCacheSource.Store(true)
		}
	})

	vm.Start(context.Background())

	s := vm.State()
	assert.True(t, sawCacheSource.Load(), "a tela mostra o cache antes da rede responder")
	assert.Equal(t, SourceNetwork, s.DataSource)
	assert.Len(t, s.Items, 2)
}

func TestInbox_StartComCache_FalhaDeRedeFicaSilenciosa(t *testing.T) {
	cache := &listCache{}
	cache.SetList(context.Background(), []entity.Lead{inboxLead("1", "Pintura", entity.StatusNew)})

	repo := &countingRepo{listErr: errors.New("timeout")}
	vm := NewInboxViewModel(repo, cache, &fixedChecker{online: true})
	defer vm.Close()

	vm.Start(context.Background())

	s := vm.State()
	assert.Empty(t, s.ErrorMessage, "com cache na tela, falha de refresh não vira erro")
	assert.Len(t, s.Items, 1)
	assert.Equal(t, SourceCache, s.DataSource)
}

func TestInbox_StartSemCache_FalhaMostraErro(t *testing.T) {
	repo := &countingRepo{listErr: &entity.OfflineNoCacheError{Resource: "a lista de leads"}}
	vm := NewInboxViewModel(repo, &listCache{}, &fixedChecker{online: false})
	defer vm.Close()

	vm.Start(context.Background())

	s := vm.State()
	assert.Contains(t, s.ErrorMessage, "Sem conexão")
	assert.Empty(t, s.Items)
}

func TestInbox_RefreshOffline_MantemListaEMostraAviso(t *testing.T) {
	checker := &fixedChecker{online: true}
	repo := &countingRepo{leads: []entity.Lead{inboxLead("1", "Pintura", entity.StatusNew)}}
	vm := NewInboxViewModel(repo, &listCache{}, checker)
	defer vm.Close()

	vm.Start(context.Background())
	require.Equal(t, int64(1), repo.listCalls.Load())

	checker.online = false
	vm.Refresh(context.Background())

	s := vm.State()
	assert.True(t, s.IsOffline)
	assert.Contains(t, s.ErrorMessage, "Sem conexão")
	assert.Len(t, s.Items, 1, "a lista não some quando o refresh é bloqueado")
	assert.Equal(t, int64(1), repo.listCalls.Load(), "offline não vai à rede")
}

func TestInbox_FiltrosNaoDisparamBusca(t *testing.T) {
	repo := &countingRepo{leads: []entity.Lead{
		inboxLead("1", "Pintura de sala", entity.StatusNew),
		inboxLead("2", "Instalação de chuveiro", entity.StatusQuoted),
		inboxLead("3", "Pintura de fachada", entity.StatusQuoted),
	}}
	vm := NewInboxViewModel(repo, &listCache{}, &fixedChecker{online: true})
	defer vm.Close()

	vm.Start(context.Background())
	require.Equal(t, int64(1), repo.listCalls.Load())

	vm.SetQuery("pintura")
	vm.SetStatus("quoted")

	s := vm.State()
	require.Len(t, s.Items, 1)
	assert.Equal(t, "3", s.Items[0].ID)
	assert.Equal(t, int64(1), repo.listCalls.Load(), "filtrar é recorte local, nunca rede")
}

func TestInbox_EstadosVazios(t *testing.T) {
	repo := &countingRepo{leads: []entity.Lead{inboxLead("1", "Pintura", entity.StatusNew)}}
	vm := NewInboxViewModel(repo, &listCache{}, &fixedChecker{online: true})
	defer vm.Close()

	vm.Start(context.Background())

	vm.SetQuery("hidráulica")
	assert.Equal(t, EmptyNoResults, vm.State().EmptyKind)

	vm.SetQuery("")
	assert.Equal(t, EmptyNone, vm.State().EmptyKind)
}

func TestInbox_EstadoVazioSemLeads(t *testing.T) {
	vm := NewInboxViewModel(&countingRepo{}, &listCache{}, &fixedChecker{online: true})
	defer vm.Close()

	vm.Start(context.Background())

	assert.Equal(t, EmptyNoItems, vm.State().EmptyKind)
}

func TestInbox_OfflineComCacheQuente_ProvenienciaContinuaCache(t *testing.T) {
	ctx := context.Background()
	cache := &listCache{}
	syncedAt := cache.SetList(ctx, []entity.Lead{inboxLead("1", "Pintura", entity.StatusNew)})

	// Cadeia de produção: o decorator de cache responde offline sem erro,
	// e a tela não pode confundir isso com dado fresco da rede.
	checker := &fixedChecker{online: false}
	inner := &countingRepo{listErr: errors.New("não deveria ir à rede")}
	repo := repository.NewCachedLeadRepository(inner, cache, checker)

	vm := NewInboxViewModel(repo, cache, checker)
	defer vm.Close()

	vm.Start(ctx)

	s := vm.State()
	assert.True(t, s.IsOffline)
	assert.Equal(t, SourceCache, s.DataSource)
	assert.Equal(t, syncedAt, s.LastSyncedAt, "o carimbo de sincronização é o da última leitura real da rede")
	require.Len(t, s.Items, 1)
	assert.Equal(t, int64(0), inner.listCalls.Load())
}

// reentrantChecker chama State() de dentro da sonda: se a sonda rodasse
// com o lock do view-model preso, o teste travaria.
type reentrantChecker struct{ vm *InboxViewModel }

func (c *reentrantChecker) IsOnline(ctx context.Context) bool {
	if c.vm != nil {
		c.vm.State()
	}
	return true
}

func (c *reentrantChecker) Subscribe(fn func(bool)) func() { return func() {} }

func TestInbox_SondaDeRedeNaoSeguraOLock(t *testing.T) {
	checker := &reentrantChecker{}
	vm := NewInboxViewModel(&countingRepo{}, &listCache{}, checker)
	checker.vm = vm
	defer vm.Close()

	done := make(chan struct{})
	go func() {
		vm.Start(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Start não terminou: sonda de rede rodando com o lock preso")
	}
}

func TestApplyFilters_SemFiltro_IdentidadeDaFatia(t *testing.T) {
	items := []entity.Lead{inboxLead("1", "Pintura", entity.StatusNew)}

	out := ApplyFilters(items, InboxFilters{Status: StatusFilterAll})

	assert.Equal(t, &items[0], &out[0], "sem filtro ativo não há cópia")
}

func TestApplyFilters_BuscaSoNoTitulo(t *testing.T) {
	items := []entity.Lead{
		{ID: "1", Title: "Troca de tomada", Description: "pintura incluída"},
		{ID: "2", Title: "Pintura de quarto"},
	}

	out := ApplyFilters(items, InboxFilters{Query: "PINTURA", Status: StatusFilterAll})

	require.Len(t, out, 1)
	assert.Equal(t, "2", out[0].ID, "a busca olha só o título, não a descrição")
}

func TestApplyFilters_StatusEQueryCombinados(t *testing.T) {
	items := []entity.Lead{
		inboxLead("1", "Pintura de sala", entity.StatusNew),
		inboxLead("2", "Pintura de teto", entity.StatusQuoted),
		inboxLead("3", "Elétrica", entity.StatusQuoted),
	}

	out := ApplyFilters(items, InboxFilters{Query: "pintura", Status: "quoted"})

	require.Len(t, out, 1)
	assert.Equal(t, "2", out[0].ID)
}
