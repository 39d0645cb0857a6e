package repository

import (
	"database/sql"
	"log"
	"sync"
	"time"

	"github.com/xavierca1/quoteflow/internal/debugflags"
	"github.com/xavierca1/quoteflow/internal/entity"
	"github.com/xavierca1/quoteflow/internal/infra/database"
	"github.com/xavierca1/quoteflow/internal/infra/integration/leadsapi"
	"github.com/xavierca1/quoteflow/internal/infra/memory"
)

// Backend identifica qual fonte remota a fachada usa por baixo.
type Backend string

const (
	BackendFake     Backend = "fake"
	BackendAPI      Backend = "api"
	BackendPostgres Backend = "postgres"
)

// fakeLatency imita a rede no backend de demonstração.
const fakeLatency = 300 * time.Millisecond

// Config junta tudo que o Provider precisa para montar qualquer backend.
// Só os campos do backend escolhido precisam estar preenchidos.
type Config struct {
	Backend Backend

	// BackendAPI
	APIBaseURL string
	APIToken   string

	// BackendPostgres
	DB      *sql.DB
	OwnerID string
}

// Provider constrói a fachada de leads uma vez e memoiza. A cadeia é
// sempre backend -> cache -> debug, de dentro para fora. Se o flag
// "usar backend fake" mudar, a próxima chamada reconstrói a cadeia.
type Provider struct {
	cfg     Config
	cache   entity.LeadCache
	network entity.ConnectivityChecker
	flags   *debugflags.Manager

	mu        sync.Mutex
	repo      entity.LeadRepositoryInterface
	builtFake bool
	built     bool
}

func NewProvider(cfg Config, cache entity.LeadCache, network entity.ConnectivityChecker, flags *debugflags.Manager) *Provider {
	return &Provider{cfg: cfg, cache: cache, network: network, flags: flags}
}

// Leads devolve a fachada pronta para uso. Concorrência-segura.
func (p *Provider) Leads() entity.LeadRepositoryInterface {
	p.mu.Lock()
	defer p.mu.Unlock()

	useFake := p.flags.Current().UseFakeBackend
	if p.built && p.builtFake == useFake {
		return p.repo
	}

	base := p.buildBackend(useFake)
	cached := NewCachedLeadRepository(base, p.cache, p.network)
	p.repo = NewDebugLeadRepository(cached, p.flags)
	p.builtFake = useFake
	p.built = true
	return p.repo
}

func (p *Provider) buildBackend(useFake bool) entity.LeadRepositoryInterface {
	if useFake || p.cfg.Backend == BackendFake {
		log.Printf("🧪 repo: usando backend fake em memória")
		return memory.NewFakeLeadRepository(fakeLatency)
	}

	switch p.cfg.Backend {
	case BackendAPI:
		log.Printf("🌐 repo: usando backend HTTP em %s", p.cfg.APIBaseURL)
		return leadsapi.NewClient(p.cfg.APIBaseURL, p.cfg.APIToken)
	case BackendPostgres:
		log.Printf("🐘 repo: usando backend Postgres")
		return database.NewLeadRepository(p.cfg.DB, p.cfg.OwnerID)
	default:
		log.Printf("⚠️ repo: backend %q desconhecido, caindo para o fake", p.cfg.Backend)
		return memory.NewFakeLeadRepository(fakeLatency)
	}
}
