package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/quoteflow/internal/infra/database"
	"github.com/xavierca1/quoteflow/internal/infra/http/handlers"
	"github.com/xavierca1/quoteflow/internal/infra/http/middleware"
	"github.com/xavierca1/quoteflow/internal/infra/mail"
	"github.com/xavierca1/quoteflow/internal/infra/queue"
	"github.com/xavierca1/quoteflow/internal/infra/worker"
	"github.com/xavierca1/quoteflow/internal/usecase"
)

func main() {
	godotenv.Load()

	db, err := database.NewDBConnection(os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	rabbitMQ, err := queue.NewRabbitMQ(
		env("RABBITMQ_USER", "user"),
		env("RABBITMQ_PASS", "password"),
		env("RABBITMQ_HOST", "localhost"),
		env("RABBITMQ_PORT", "5672"),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer rabbitMQ.Conn.Close()
	defer rabbitMQ.Ch.Close()

	ownerID := os.Getenv("QUOTEFLOW_OWNER_ID")

	// 1. Repositórios
	leadRepo := database.NewLeadRepository(db, ownerID)
	quoteRepo := database.NewQuoteRepository(db)

	// 2. Adapters
	producer := queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)
	mailSender := mail.NewEmailSender(
		os.Getenv("MAIL_HOST"), 587, os.Getenv("MAIL_USER"), os.Getenv("MAIL_PASS"),
		env("MAIL_FROM", "nao-responda@quoteflow.app"),
	)

	// 3. Workers (fila de captação + varredura de orçamentos vencidos)
	intakeWorker := queue.NewWorker(rabbitMQ.Ch, leadRepo, ownerID)
	go intakeWorker.Start(queue.QueueName)

	expirationWorker := worker.NewQuoteExpirationWorker(db)
	go expirationWorker.Start(context.Background())

	// 4. UseCases
	createQuoteUC := usecase.NewCreateQuoteUseCase(quoteRepo, leadRepo, mailSender)

	// 5. Handlers
	leadHandler := handlers.NewLeadHandler(leadRepo, producer)
	quoteHandler := handlers.NewQuoteHandler(createQuoteUC, quoteRepo)
	healthHandler := handlers.NewHealthHandler(db, rabbitMQ.Conn)

	// 6. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:5173", "*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
	}))

	r.Post("/leads", leadHandler.CaptureLead)
	r.Get("/leads", leadHandler.List)
	r.Get("/leads/hidden", leadHandler.ListHidden)
	r.Get("/leads/{id}", leadHandler.Get)
	r.Patch("/leads/{id}/status", leadHandler.UpdateStatus)
	r.Patch("/leads/{id}/hide", leadHandler.Hide)
	r.Patch("/leads/{id}/unhide", leadHandler.Unhide)
	r.Delete("/leads/{id}", leadHandler.Delete)

	r.Post("/quotes", quoteHandler.Create)
	r.Get("/leads/{id}/quote", quoteHandler.GetByLead)

	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	port := ":8080"
	log.Printf("🔥 Server QuoteFlow rodando na porta %s", port)
	http.ListenAndServe(port, r)
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
