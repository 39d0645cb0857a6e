// Package network é o oráculo de conectividade: diz se o app está online
// e avisa quem quiser saber quando o estado muda.
package network

import (
	"context"
	"log"
	"net"
	"net/http"
	"sync"
	"time"
)

// DefaultProbeURL responde 204 sem corpo; serve só para provar que a
// internet está alcançável, não basta ter interface de rede de pé.
const DefaultProbeURL = "https://clients3.google.com/generate_204"

const probeTimeout = 3 * time.Second

// Checker implementa entity.ConnectivityChecker.
// Online = tem interface de rede ativa E o probe HTTP respondeu.
// O override de "forçar offline" (usado pela tela de debug) ganha de tudo.
type Checker struct {
	probeURL string
	client   *http.Client

	mu            sync.Mutex
	forcedOffline bool
	lastKnown     bool
	hasLastKnown  bool
	listeners     map[int]func(bool)
	nextID        int

	stop     chan struct{}
	stopOnce sync.Once
}

// NewChecker cria o checker e sobe a goroutine de polling que alimenta
// os subscribers. pollInterval <= 0 desliga o polling (útil nos testes,
// que chamam IsOnline na mão).
func NewChecker(probeURL string, pollInterval time.Duration) *Checker {
	if probeURL == "" {
		probeURL = DefaultProbeURL
	}

	c := &Checker{
		probeURL:  probeURL,
		client:    &http.Client{Timeout: probeTimeout},
		listeners: make(map[int]func(bool)),
		stop:      make(chan struct{}),
	}

	if pollInterval > 0 {
		go c.poll(pollInterval)
	}
	return c
}

func (c *Checker) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// IsOnline faz a checagem pontual e registra o resultado (disparando os
// subscribers se o estado virou).
func (c *Checker) IsOnline(ctx context.Context) bool {
	online := c.check(ctx)
	c.observe(online)
	return online
}

func (c *Checker) check(ctx context.Context) bool {
	c.mu.Lock()
	forced := c.forcedOffline
	c.mu.Unlock()

	// Override manual primeiro, antes de qualquer probe de verdade.
	if forced {
		return false
	}

	if !hasActiveInterface() {
		return false
	}
	return c.probeReachable(ctx)
}

// probeReachable considera qualquer resposta HTTP como "internet ok";
// só erro de transporte (DNS, timeout, recusa) conta como offline.
func (c *Checker) probeReachable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.probeURL, nil)
	if err != nil {
		return false
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return true
}

// SetForcedOffline liga/desliga o modo offline simulado e reavalia o
// estado na hora, para os subscribers verem a transição imediatamente.
func (c *Checker) SetForcedOffline(forced bool) {
	c.mu.Lock()
	c.forcedOffline = forced
	c.mu.Unlock()

	c.observe(c.check(context.Background()))
}

// Subscribe registra um callback de transição online<->offline.
func (c *Checker) Subscribe(fn func(online bool)) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

// observe compara com o último estado conhecido e notifica só em transição.
func (c *Checker) observe(online bool) {
	c.mu.Lock()
	changed := !c.hasLastKnown || c.lastKnown != online
	c.lastKnown = online
	c.hasLastKnown = true

	var fns []func(bool)
	if changed {
		fns = make([]func(bool), 0, len(c.listeners))
		for _, fn := range c.listeners {
			fns = append(fns, fn)
		}
	}
	c.mu.Unlock()

	if changed {
		log.Printf("📶 network: estado mudou para online=%v", online)
		for _, fn := range fns {
			fn(online)
		}
	}
}

func (c *Checker) poll(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.IsOnline(context.Background())
		}
	}
}

func hasActiveInterface() bool {
	ifaces, err := net.Interfaces()
	if err != nil {
		return false
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err == nil && len(addrs) > 0 {
			return true
		}
	}
	return false
}
