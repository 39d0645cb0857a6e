package queue

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/quoteflow/internal/entity"
	"github.com/xavierca1/quoteflow/internal/infra/http/middleware"
)

// LeadWriter é o pedaço do banco que o worker precisa para gravar.
type LeadWriter interface {
	CreateLead(ctx context.Context, lead *entity.Lead) error
}

type Worker struct {
	Channel *amqp.Channel
	Writer  LeadWriter

	// DefaultOwnerID é usado quando o payload chega sem dono
	// (formulário público antigo que não manda owner_id).
	DefaultOwnerID string
}

func NewWorker(ch *amqp.Channel, writer LeadWriter, defaultOwnerID string) *Worker {
	return &Worker{
		Channel:        ch,
		Writer:         writer,
		DefaultOwnerID: defaultOwnerID,
	}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // auto-ack (manual é mais seguro)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		log.Fatalf("❌ Falha ao registrar consumidor RabbitMQ: %s", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			log.Printf("📥 [WORKER] Lead recebido do RabbitMQ")

			var payload LeadIntakePayload
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				log.Printf("❌ [WORKER] JSON inválido: %s", err)
				// Mensagem podre (malformada). Rejeita sem requeue para não travar a fila.
				d.Nack(false, false)
				continue
			}

			lead, err := w.BuildLead(payload)
			if err != nil {
				log.Printf("❌ [WORKER] Payload incompleto, indo para a DLQ: %s", err)
				d.Nack(false, false)
				continue
			}

			if err := w.Writer.CreateLead(context.Background(), lead); err != nil {
				log.Printf("❌ [WORKER] Erro ao gravar o lead %s: %s", lead.ID, err)
				d.Nack(false, false)
			} else {
				middleware.RecordLeadIngested()
				log.Printf("✅ [WORKER] Lead %q gravado como %s", lead.Title, lead.ID)
				d.Ack(false)
			}
		}
	}()

	log.Printf(" [*] Worker rodando e aguardando na fila '%s'", queueName)
	<-forever
}

// BuildLead transforma o payload cru em um lead pronto para gravar.
// Todo lead que entra pela fila nasce com status "new".
func (w *Worker) BuildLead(payload LeadIntakePayload) (*entity.Lead, error) {
	title := strings.TrimSpace(payload.Title)
	if title == "" {
		return nil, errors.New("payload sem title")
	}

	ownerID := strings.TrimSpace(payload.OwnerID)
	if ownerID == "" {
		ownerID = w.DefaultOwnerID
	}

	lead := &entity.Lead{
		ID:            uuid.New().String(),
		Title:         title,
		Description:   strings.TrimSpace(payload.Description),
		Status:        entity.StatusNew,
		Service:       strings.TrimSpace(payload.Service),
		Address:       strings.TrimSpace(payload.Address),
		CreatedAt:     time.Now(),
		CustomerName:  strings.TrimSpace(payload.CustomerName),
		CustomerEmail: strings.TrimSpace(payload.CustomerEmail),
		CustomerPhone: strings.TrimSpace(payload.CustomerPhone),
		OwnerID:       ownerID,
	}

	// Coordenadas só entram em par; metade de um par é descartada.
	if payload.Lat != nil && payload.Lng != nil {
		lead.Lat, lead.Lng = payload.Lat, payload.Lng
	}

	return lead, nil
}
