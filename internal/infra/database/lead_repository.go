package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/xavierca1/quoteflow/internal/entity"
)

// LeadRepository é o backend Postgres do contrato de leads.
// O banco usa snake_case (business_id, customer_name, is_hidden...) e o
// mapeamento para o domínio acontece todo aqui, em um lugar só.
//
// Visibilidade por owner: toda query filtra por business_id. Nas mutações
// isso pode resultar em "0 linhas afetadas" sem erro do driver; esse caso
// vira ZeroRowsError, nunca sucesso silencioso.
type LeadRepository struct {
	DB      *sql.DB
	OwnerID string
}

func NewLeadRepository(db *sql.DB, ownerID string) *LeadRepository {
	return &LeadRepository{DB: db, OwnerID: ownerID}
}

const leadColumns = `
	id, business_id, title, description, status, service,
	customer_name, customer_email, customer_phone,
	address, lat, lng, created_at, is_hidden
`

// leadRow espelha a linha do banco antes do mapeamento para entity.Lead.
type leadRow struct {
	id            string
	businessID    string
	title         string
	description   sql.NullString
	status        string
	service       sql.NullString
	customerName  sql.NullString
	customerEmail sql.NullString
	customerPhone sql.NullString
	address       sql.NullString
	lat           sql.NullFloat64
	lng           sql.NullFloat64
	createdAt     sql.NullTime
	isHidden      sql.NullBool
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLeadRow(s rowScanner) (*entity.Lead, error) {
	var r leadRow
	if err := s.Scan(
		&r.id,
		&r.businessID,
		&r.title,
		&r.description,
		&r.status,
		&r.service,
		&r.customerName,
		&r.customerEmail,
		&r.customerPhone,
		&r.address,
		&r.lat,
		&r.lng,
		&r.createdAt,
		&r.isHidden,
	); err != nil {
		return nil, err
	}

	lead := &entity.Lead{
		ID:          r.id,
		OwnerID:     r.businessID,
		Title:       r.title,
		Description: r.description.String,
		// Status desconhecido no banco não pode vazar para o domínio.
		Status:        entity.ParseLeadStatus(r.status),
		Service:       r.service.String,
		CustomerName:  r.customerName.String,
		CustomerEmail: r.customerEmail.String,
		CustomerPhone: r.customerPhone.String,
		Address:       r.address.String,
		IsHidden:      r.isHidden.Valid && r.isHidden.Bool,
	}
	if r.createdAt.Valid {
		lead.CreatedAt = r.createdAt.Time
	}
	if r.lat.Valid && r.lng.Valid {
		lat, lng := r.lat.Float64, r.lng.Float64
		lead.Lat, lead.Lng = &lat, &lng
	}
	return lead, nil
}

func (r *LeadRepository) queryLeads(ctx context.Context, op, query string, args ...any) ([]entity.Lead, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &entity.RemoteError{Op: op, Message: err.Error(), Err: err}
	}
	defer rows.Close()

	leads := make([]entity.Lead, 0)
	for rows.Next() {
		lead, err := scanLeadRow(rows)
		if err != nil {
			return nil, &entity.RemoteError{Op: op, Message: err.Error(), Err: err}
		}
		leads = append(leads, *lead)
	}
	if err := rows.Err(); err != nil {
		return nil, &entity.RemoteError{Op: op, Message: err.Error(), Err: err}
	}
	return leads, nil
}

func (r *LeadRepository) ListLeads(ctx context.Context) ([]entity.Lead, error) {
	// Linhas antigas podem ter is_hidden NULL (antes da migração);
	// NULL conta como visível.
	query := `
		SELECT ` + leadColumns + `
		FROM leads
		WHERE business_id = $1 AND (is_hidden IS NULL OR is_hidden = false)
		ORDER BY created_at DESC
	`
	return r.queryLeads(ctx, "listLeads", query, r.OwnerID)
}

func (r *LeadRepository) ListHiddenLeads(ctx context.Context) ([]entity.Lead, error) {
	query := `
		SELECT ` + leadColumns + `
		FROM leads
		WHERE business_id = $1 AND is_hidden = true
		ORDER BY created_at DESC
	`
	return r.queryLeads(ctx, "listHiddenLeads", query, r.OwnerID)
}

func (r *LeadRepository) GetLeadByID(ctx context.Context, id string) (*entity.Lead, error) {
	query := `
		SELECT ` + leadColumns + `
		FROM leads
		WHERE id = $1 AND business_id = $2
	`

	lead, err := scanLeadRow(r.DB.QueryRowContext(ctx, query, id, r.OwnerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Ausência não é erro: o contrato devolve (nil, nil).
			return nil, nil
		}
		return nil, &entity.RemoteError{Op: "getLeadByID", Message: err.Error(), Err: err}
	}
	return lead, nil
}

func (r *LeadRepository) UpdateLeadStatus(ctx context.Context, id string, status entity.LeadStatus) error {
	query := `UPDATE leads SET status = $1 WHERE id = $2 AND business_id = $3`
	return r.execMutation(ctx, "updateLeadStatus", id, query, string(status), id, r.OwnerID)
}

func (r *LeadRepository) HideLead(ctx context.Context, id string) error {
	query := `UPDATE leads SET is_hidden = true WHERE id = $1 AND business_id = $2`
	return r.execMutation(ctx, "hideLead", id, query, id, r.OwnerID)
}

func (r *LeadRepository) UnhideLead(ctx context.Context, id string) error {
	query := `UPDATE leads SET is_hidden = false WHERE id = $1 AND business_id = $2`
	return r.execMutation(ctx, "unhideLead", id, query, id, r.OwnerID)
}

func (r *LeadRepository) DeleteLead(ctx context.Context, id string) error {
	query := `DELETE FROM leads WHERE id = $1 AND business_id = $2`
	return r.execMutation(ctx, "deleteLead", id, query, id, r.OwnerID)
}

// execMutation roda a mutação e confere RowsAffected. O filtro de owner
// pode engolir a mutação sem o driver reclamar; 0 linhas vira erro explícito.
func (r *LeadRepository) execMutation(ctx context.Context, op, leadID, query string, args ...any) error {
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return &entity.RemoteError{Op: op, Message: err.Error(), Err: err}
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return &entity.RemoteError{Op: op, Message: err.Error(), Err: err}
	}
	if affected == 0 {
		return &entity.ZeroRowsError{Op: op, LeadID: leadID}
	}
	return nil
}

// CreateLead grava um lead que chegou pelo canal de intake.
// Não faz parte do contrato do app (lead não nasce na UI).
func (r *LeadRepository) CreateLead(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (
			id, business_id, title, description, status, service,
			customer_name, customer_email, customer_phone,
			address, lat, lng, created_at, is_hidden
		) VALUES ($1, $2, $3, NULLIF($4, ''), $5, NULLIF($6, ''),
			NULLIF($7, ''), NULLIF($8, ''), NULLIF($9, ''),
			NULLIF($10, ''), $11, $12, $13, $14)
	`

	_, err := r.DB.ExecContext(ctx, query,
		lead.ID,
		lead.OwnerID,
		lead.Title,
		lead.Description,
		string(lead.Status),
		lead.Service,
		lead.CustomerName,
		lead.CustomerEmail,
		lead.CustomerPhone,
		lead.Address,
		lead.Lat,
		lead.Lng,
		lead.CreatedAt,
		lead.IsHidden,
	)
	if err != nil {
		return &entity.RemoteError{Op: "createLead", Message: err.Error(), Err: err}
	}
	return nil
}
