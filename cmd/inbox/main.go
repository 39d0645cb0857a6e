// Demonstração offline-first do Inbox no terminal: hidrata do cache
// local, busca do backend configurado e mostra a lista com filtros.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/xavierca1/quoteflow/internal/debugflags"
	"github.com/xavierca1/quoteflow/internal/entity"
	"github.com/xavierca1/quoteflow/internal/infra/cache"
	"github.com/xavierca1/quoteflow/internal/infra/database"
	"github.com/xavierca1/quoteflow/internal/infra/network"
	"github.com/xavierca1/quoteflow/internal/infra/repository"
	"github.com/xavierca1/quoteflow/internal/usecase"
)

func main() {
	godotenv.Load()
	ctx := context.Background()

	store, err := cache.Open(env("QUOTEFLOW_CACHE_DIR", ".quoteflow"))
	if err != nil {
		log.Fatalf("❌ não consegui abrir o cache local: %v", err)
	}
	defer store.Close()

	checker := network.NewChecker(network.DefaultProbeURL, 15*time.Second)
	defer checker.Close()

	flags := debugflags.NewManager(store)
	flags.Init(ctx)

	cfg := repository.Config{
		Backend:    repository.Backend(env("QUOTEFLOW_BACKEND", "fake")),
		APIBaseURL: os.Getenv("QUOTEFLOW_API_URL"),
		APIToken:   os.Getenv("QUOTEFLOW_API_TOKEN"),
		OwnerID:    os.Getenv("QUOTEFLOW_OWNER_ID"),
	}
	if cfg.Backend == repository.BackendPostgres {
		db, err := database.NewDBConnection(os.Getenv("DATABASE_URL"))
		if err != nil {
			log.Fatalf("❌ não consegui conectar no Postgres: %v", err)
		}
		defer db.Close()
		cfg.DB = db
	}

	provider := repository.NewProvider(cfg, store, checker, flags)

	vm := usecase.NewInboxViewModel(provider.Leads(), store, checker)
	defer vm.Close()

	vm.SetOnChange(func() { render(vm.State()) })
	vm.Start(ctx)

	// Roda os filtros que a tela oferece, só para mostrar que são locais.
	vm.SetStatus("quoted")
	vm.SetQuery(env("QUOTEFLOW_QUERY", ""))
}

func render(s usecase.InboxState) {
	fmt.Println("------------------------------------------------------------")
	if s.IsOffline {
		fmt.Println("📶 OFFLINE (mostrando dados salvos)")
	}
	if s.IsLoading {
		fmt.Println("⏳ carregando...")
	}
	if s.ErrorMessage != "" {
		fmt.Println("⚠️ " + s.ErrorMessage)
	}

	switch s.EmptyKind {
	case usecase.EmptyNoItems:
		fmt.Println("Nenhum lead por aqui ainda.")
	case usecase.EmptyNoResults:
		fmt.Println("Nenhum lead bate com o filtro atual.")
	}

	for _, l := range s.Items {
		fmt.Printf("  [%s] %s (%s)\n", entity.LeadStatusLabel(l.Status), l.Title, l.Service)
	}

	if !s.LastSyncedAt.IsZero() {
		fmt.Printf("fonte: %s | sincronizado: %s\n", s.DataSource, s.LastSyncedAt.Format("15:04:05"))
	}
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
