package entity

import (
	"context"
	"time"
)

// LeadStatus é o estado do lead no funil: new -> quoted -> accepted | rejected.
// O core não força a máquina de estados; qualquer status válido pode ser gravado.
type LeadStatus string

const (
	StatusNew      LeadStatus = "new"
	StatusQuoted   LeadStatus = "quoted"
	StatusAccepted LeadStatus = "accepted"
	StatusRejected LeadStatus = "rejected"
)

// ParseLeadStatus normaliza o status vindo do banco/API.
// O banco tem CHECK constraint, mas se vier dado corrompido mostramos "new"
// em vez de propagar lixo para a UI.
func ParseLeadStatus(s string) LeadStatus {
	switch LeadStatus(s) {
	case StatusNew, StatusQuoted, StatusAccepted, StatusRejected:
		return LeadStatus(s)
	default:
		return StatusNew
	}
}

func (s LeadStatus) IsValid() bool {
	switch s {
	case StatusNew, StatusQuoted, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

// LeadStatusLabel converte o código de status em texto amigável.
// Uma fonte da verdade: mesma label no Inbox, no detalhe e no email.
func LeadStatusLabel(s LeadStatus) string {
	switch s {
	case StatusQuoted:
		return "Orçado"
	case StatusAccepted:
		return "Aceito"
	case StatusRejected:
		return "Recusado"
	default:
		return "Novo"
	}
}

type Lead struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      LeadStatus `json:"status"`

	// Categoria do serviço (ex: "Limpeza", "Elétrica").
	Service string `json:"service,omitempty"`

	// Endereço e coordenadas para o mapa. Lat/Lng andam em par:
	// ou os dois presentes, ou os dois ausentes.
	Address string   `json:"address,omitempty"`
	Lat     *float64 `json:"lat,omitempty"`
	Lng     *float64 `json:"lng,omitempty"`

	CreatedAt time.Time `json:"created_at"`

	CustomerName  string `json:"customer_name,omitempty"`
	CustomerEmail string `json:"customer_email,omitempty"`
	CustomerPhone string `json:"customer_phone,omitempty"`

	// OwnerID é a conta dona do registro. O backend só devolve/altera
	// leads do dono (visibilidade por owner).
	OwnerID string `json:"owner_id"`

	// Soft-delete: lead escondido sai da lista padrão mas pode voltar.
	IsHidden bool `json:"is_hidden"`
}

// LeadRepositoryInterface é o único contrato que o resto do app enxerga
// para ler/alterar leads. Implementações: fixture em memória, API HTTP,
// Postgres, e os decorators de cache e de debug.
type LeadRepositoryInterface interface {
	// ListLeads devolve os leads visíveis (is_hidden=false), mais recentes primeiro.
	ListLeads(ctx context.Context) ([]Lead, error)

	// ListHiddenLeads devolve só os escondidos, mais recentes primeiro.
	ListHiddenLeads(ctx context.Context) ([]Lead, error)

	// GetLeadByID devolve (nil, nil) quando o lead não existe.
	// Erro é reservado para falha de transporte/banco.
	GetLeadByID(ctx context.Context, id string) (*Lead, error)

	UpdateLeadStatus(ctx context.Context, id string, status LeadStatus) error
	HideLead(ctx context.Context, id string) error
	UnhideLead(ctx context.Context, id string) error

	// DeleteLead é permanente. Esconder é reversível; deletar não.
	DeleteLead(ctx context.Context, id string) error
}

// LeadCache é o armazenamento local de última-boa-leitura.
// Cache é otimização, nunca requisito de corretude. Por isso o contrato
// não devolve erro: falha de leitura vira "não achei" e falha de escrita
// é engolida e logada pela implementação.
type LeadCache interface {
	GetList(ctx context.Context) (items []Lead, lastSyncedAt time.Time, ok bool)
	SetList(ctx context.Context, items []Lead) (lastSyncedAt time.Time)
	ClearList(ctx context.Context)

	GetDetail(ctx context.Context, id string) (*Lead, bool)
	SetDetail(ctx context.Context, lead *Lead)
	RemoveDetail(ctx context.Context, id string)

	// UpsertInList insere ou substitui pelo id, movendo o item para o
	// topo da lista ("tocado mais recentemente primeiro").
	UpsertInList(ctx context.Context, lead *Lead)
	RemoveFromList(ctx context.Context, id string)
}

// ConnectivityChecker abstrai o estado da rede.
type ConnectivityChecker interface {
	// IsOnline: tem interface de rede E a internet responde. Override
	// manual de "forçar offline" ganha de tudo.
	IsOnline(ctx context.Context) bool

	// Subscribe chama o callback a cada transição online<->offline.
	// Devolve a função de unsubscribe.
	Subscribe(fn func(online bool)) (unsubscribe func())
}
