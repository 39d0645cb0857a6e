package usecase

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/xavierca1/quoteflow/internal/entity"
)

// DataSource indica de onde veio o snapshot atual da lista.
type DataSource string

const (
	SourceNone    DataSource = ""
	SourceCache   DataSource = "cache"
	SourceNetwork DataSource = "network"
)

// EmptyKind distingue "não tem lead nenhum" de "o filtro não achou nada".
// A UI mostra mensagens diferentes para cada caso.
type EmptyKind string

const (
	EmptyNone      EmptyKind = ""
	EmptyNoItems   EmptyKind = "no_items"
	EmptyNoResults EmptyKind = "no_results"
)

// StatusFilterAll desliga o filtro de status.
const StatusFilterAll = "all"

// InboxFilters é o estado dos filtros da tela. Filtrar nunca vai à rede:
// é recorte em memória sobre o último snapshot carregado.
type InboxFilters struct {
	Query  string
	Status string
}

// InboxState é o snapshot imutável que a UI renderiza.
type InboxState struct {
	Items        []entity.Lead
	Filters      InboxFilters
	IsLoading    bool
	ErrorMessage string
	DataSource   DataSource
	LastSyncedAt time.Time
	IsOffline    bool
	EmptyKind    EmptyKind
}

// InboxViewModel orquestra a tela principal: hidrata do cache na hora,
// atualiza pela rede por baixo, e mantém filtros locais. Todos os métodos
// são concorrência-seguros.
type InboxViewModel struct {
	repo    entity.LeadRepositoryInterface
	cache   entity.LeadCache
	network entity.ConnectivityChecker

	mu           sync.Mutex
	rawItems     []entity.Lead
	filters      InboxFilters
	isLoading    bool
	errorMessage string
	dataSource   DataSource
	lastSyncedAt time.Time
	isOffline    bool

	// generation invalida buscas em voo: resultado de uma busca antiga
	// nunca sobrescreve o de uma mais nova.
	generation int

	unsubscribe func()
	onChange    func()
}

func NewInboxViewModel(repo entity.LeadRepositoryInterface, cache entity.LeadCache, network entity.ConnectivityChecker) *InboxViewModel {
	return &InboxViewModel{
		repo:    repo,
		cache:   cache,
		network: network,
		filters: InboxFilters{Status: StatusFilterAll},
	}
}

// SetOnChange registra o callback de re-render da UI. Chamar antes de Start.
func (vm *InboxViewModel) SetOnChange(fn func()) {
	vm.mu.Lock()
	vm.onChange = fn
	vm.mu.Unlock()
}

// Start hidrata do cache (instantâneo) e dispara a primeira busca.
// Com cache presente, a busca roda silenciosa: falha dela não apaga a
// lista que o usuário já está vendo.
func (vm *InboxViewModel) Start(ctx context.Context) {
	// A sonda de rede pode bloquear por segundos; nunca rode com o lock preso.
	online := vm.network.IsOnline(ctx)
	unsubscribe := vm.network.Subscribe(vm.handleConnectivityChange)

	vm.mu.Lock()
	vm.isOffline = !online
	vm.unsubscribe = unsubscribe

	hydrated := false
	if items, syncedAt, ok := vm.cache.GetList(ctx); ok {
		vm.rawItems = items
		vm.dataSource = SourceCache
		vm.lastSyncedAt = syncedAt
		hydrated = true
		log.Printf("📦 inbox: hidratado do cache com %d leads", len(items))
	}
	vm.mu.Unlock()
	vm.notify()

	vm.fetch(ctx, hydrated)
}

// Refresh é o pull-to-refresh. Offline não tenta rede: mantém a lista
// atual e mostra o aviso.
func (vm *InboxViewModel) Refresh(ctx context.Context) {
	if !vm.network.IsOnline(ctx) {
		vm.mu.Lock()
		vm.isOffline = true
		vm.errorMessage = "Sem conexão com a internet. Mostrando os últimos dados salvos."
		vm.mu.Unlock()
		vm.notify()
		return
	}
	vm.fetch(ctx, false)
}

// fetch busca a lista no repositório. silent=true suprime erro e spinner
// (já tem dado na tela).
func (vm *InboxViewModel) fetch(ctx context.Context, silent bool) {
	online := vm.network.IsOnline(ctx)

	// Refresh silencioso offline não tem o que buscar: o repositório
	// responderia do próprio cache e a tela marcaria como vindo da rede.
	if silent && !online {
		log.Printf("📶 inbox: offline, pulando o refresh silencioso")
		return
	}

	vm.mu.Lock()
	vm.isOffline = !online
	vm.generation++
	gen := vm.generation
	if !silent {
		vm.isLoading = true
		vm.errorMessage = ""
	}
	vm.mu.Unlock()
	vm.notify()

	items, err := vm.repo.ListLeads(ctx)

	vm.mu.Lock()
	if gen != vm.generation {
		// Outra busca começou depois desta; descarta o resultado.
		vm.mu.Unlock()
		return
	}
	vm.isLoading = false
	if err != nil {
		if silent {
			log.Printf("⚠️ inbox: refresh silencioso falhou, mantendo snapshot atual: %v", err)
		} else {
			vm.errorMessage = userMessage(err)
		}
	} else {
		vm.rawItems = items
		// Proveniência "network" só quando a leitura teve como vir da
		// rede; offline o repositório serve o cache e o carimbo antigo
		// de sincronização continua sendo o verdadeiro.
		if online {
			vm.dataSource = SourceNetwork
			vm.lastSyncedAt = time.Now()
		}
		vm.errorMessage = ""
	}
	vm.mu.Unlock()
	vm.notify()
}

// SetQuery filtra em memória. Não dispara busca.
func (vm *InboxViewModel) SetQuery(q string) {
	vm.mu.Lock()
	vm.filters.Query = q
	vm.mu.Unlock()
	vm.notify()
}

// SetStatus filtra por status ("all" desliga). Não dispara busca.
func (vm *InboxViewModel) SetStatus(status string) {
	vm.mu.Lock()
	if status == "" {
		status = StatusFilterAll
	}
	vm.filters.Status = status
	vm.mu.Unlock()
	vm.notify()
}

// State monta o snapshot para a UI.
func (vm *InboxViewModel) State() InboxState {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	filtered := ApplyFilters(vm.rawItems, vm.filters)

	s := InboxState{
		Items:        filtered,
		Filters:      vm.filters,
		IsLoading:    vm.isLoading,
		DataSource:   vm.dataSource,
		LastSyncedAt: vm.lastSyncedAt,
		IsOffline:    vm.isOffline,
	}

	s.ErrorMessage = vm.errorMessage

	if !s.IsLoading && s.ErrorMessage == "" && len(filtered) == 0 {
		if len(vm.rawItems) == 0 {
			s.EmptyKind = EmptyNoItems
		} else {
			s.EmptyKind = EmptyNoResults
		}
	}

	return s
}

// Close cancela a inscrição de conectividade.
func (vm *InboxViewModel) Close() {
	vm.mu.Lock()
	unsub := vm.unsubscribe
	vm.unsubscribe = nil
	vm.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

func (vm *InboxViewModel) handleConnectivityChange(online bool) {
	vm.mu.Lock()
	vm.isOffline = !online
	if online {
		vm.errorMessage = ""
	}
	vm.mu.Unlock()
	vm.notify()

	// Voltou a conexão: atualiza sozinho, sem mexer no que está na tela.
	if online {
		log.Printf("📶 inbox: conexão voltou, atualizando a lista")
		go vm.fetch(context.Background(), true)
	}
}

func (vm *InboxViewModel) notify() {
	vm.mu.Lock()
	fn := vm.onChange
	vm.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// ApplyFilters é o recorte puro da lista: status exato (ou "all") e
// busca case-insensitive por substring no título. Sem filtro ativo,
// devolve a própria fatia de entrada.
func ApplyFilters(items []entity.Lead, f InboxFilters) []entity.Lead {
	query := strings.ToLower(strings.TrimSpace(f.Query))
	status := f.Status
	if status == "" {
		status = StatusFilterAll
	}

	if query == "" && status == StatusFilterAll {
		return items
	}

	out := make([]entity.Lead, 0, len(items))
	for _, l := range items {
		if status != StatusFilterAll && string(l.Status) != status {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(l.Title), query) {
			continue
		}
		out = append(out, l)
	}
	return out
}

// userMessage traduz o erro técnico para o texto que a tela mostra.
func userMessage(err error) string {
	if entity.IsOfflineNoCacheError(err) {
		return "Sem conexão com a internet e nenhum dado salvo. Conecte-se e tente de novo."
	}
	return "Não foi possível carregar os leads. Tente novamente."
}
