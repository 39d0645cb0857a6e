// Package debugflags controla as flags de desenvolvimento (simular erro,
// simular offline, usar backend fake). As flags são persistidas no cache
// local para sobreviver a restart e têm subscribe para a UI de debug
// reagir sem reiniciar o app.
package debugflags

import (
	"context"
	"encoding/json"
	"log"
	"sync"
)

type Flags struct {
	SimulateError   bool `json:"simulate_error"`
	SimulateOffline bool `json:"simulate_offline"`
	UseFakeBackend  bool `json:"use_fake_backend"`
}

// kvStore é o pedaço do cache que as flags precisam (chave/valor cru).
type kvStore interface {
	GetRaw(ctx context.Context, key string) (string, bool)
	SetRaw(ctx context.Context, key, value string)
	RemoveRaw(ctx context.Context, key string)
}

const storageKey = "debug:flags"

type Manager struct {
	store kvStore

	mu        sync.Mutex
	current   Flags
	listeners map[int]func(Flags)
	nextID    int
}

func NewManager(store kvStore) *Manager {
	return &Manager{
		store:     store,
		listeners: make(map[int]func(Flags)),
	}
}

// Init carrega as flags persistidas. Chamar uma vez no boot do app.
func (m *Manager) Init(ctx context.Context) {
	raw, ok := m.store.GetRaw(ctx, storageKey)
	if !ok {
		return
	}

	var flags Flags
	if err := json.Unmarshal([]byte(raw), &flags); err != nil {
		log.Printf("⚠️ debugflags: valor persistido corrompido, usando defaults: %v", err)
		return
	}

	m.mu.Lock()
	m.current = flags
	m.mu.Unlock()
}

func (m *Manager) Current() Flags {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Set grava as flags, persiste e notifica os listeners.
func (m *Manager) Set(ctx context.Context, flags Flags) {
	m.mu.Lock()
	m.current = flags
	fns := m.snapshotListeners()
	m.mu.Unlock()

	raw, err := json.Marshal(flags)
	if err != nil {
		log.Printf("⚠️ debugflags: falha ao serializar flags: %v", err)
	} else {
		m.store.SetRaw(ctx, storageKey, string(raw))
	}

	for _, fn := range fns {
		fn(flags)
	}
}

// Reset volta tudo para o default e limpa a persistência.
func (m *Manager) Reset(ctx context.Context) {
	m.mu.Lock()
	m.current = Flags{}
	fns := m.snapshotListeners()
	m.mu.Unlock()

	m.store.RemoveRaw(ctx, storageKey)

	for _, fn := range fns {
		fn(Flags{})
	}
}

// Subscribe registra um listener de mudanças. Devolve o unsubscribe.
func (m *Manager) Subscribe(fn func(Flags)) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.listeners, id)
		m.mu.Unlock()
	}
}

// snapshotListeners copia os callbacks para notificar fora do lock.
// Chamar com m.mu preso.
func (m *Manager) snapshotListeners() []func(Flags) {
	fns := make([]func(Flags), 0, len(m.listeners))
	for _, fn := range m.listeners {
		fns = append(fns, fn)
	}
	return fns
}
