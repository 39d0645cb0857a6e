// Package cache guarda a última-boa-leitura em um SQLite local (chave/valor
// com JSON). É o que deixa o Inbox abrir instantâneo e funcionar offline.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/xavierca1/quoteflow/internal/entity"
)

// Chaves lógicas do cache. Centralizadas para não espalhar string mágica.
const (
	KeyLeadsList  = "leads:list"
	KeyDebugFlags = "debug:flags"
)

func KeyLeadDetail(id string) string {
	return "lead:" + id
}

func KeyQuoteDraft(leadID string) string {
	return "quoteDraft:" + leadID
}

// Store implementa entity.LeadCache em cima de uma tabela kv no SQLite.
// Toda operação é best-effort: erro de leitura vira miss, erro de escrita
// é logado e engolido. Cache nunca derruba o chamador.
type Store struct {
	db *sql.DB
}

// Open abre (ou cria) o banco do cache em dataDir.
// Passe ":memory:" como dataDir para um banco em memória (usado nos testes).
func Open(dataDir string) (*Store, error) {
	var dsn string
	if dataDir == ":memory:" {
		dsn = ":memory:"
	} else {
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, fmt.Errorf("criando diretório do cache: %w", err)
		}
		dsn = filepath.Join(dataDir, "quoteflow-cache.db")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("abrindo banco do cache: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping no banco do cache: %w", err)
	}

	// Uma conexão só para evitar "database is locked".
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("configurando busy timeout: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("configurando journal mode: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("criando tabela kv: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// cachedList é o snapshot gravado em uma chave só, de propósito:
// items e lastSyncedAt sempre mudam juntos (escrita atômica do par).
type cachedList struct {
	Items        []entity.Lead `json:"items"`
	LastSyncedAt time.Time     `json:"last_synced_at"`
}

func (s *Store) GetList(ctx context.Context) ([]entity.Lead, time.Time, bool) {
	raw, ok := s.GetRaw(ctx, KeyLeadsList)
	if !ok {
		return nil, time.Time{}, false
	}

	var snap cachedList
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		// JSON corrompido conta como miss, nunca como erro.
		log.Printf("⚠️ cache: snapshot da lista corrompido, descartando: %v", err)
		return nil, time.Time{}, false
	}
	if snap.Items == nil {
		return nil, time.Time{}, false
	}
	return snap.Items, snap.LastSyncedAt, true
}

func (s *Store) SetList(ctx context.Context, items []entity.Lead) time.Time {
	lastSynced := time.Now()
	snap := cachedList{Items: items, LastSyncedAt: lastSynced}

	raw, err := json.Marshal(snap)
	if err != nil {
		log.Printf("⚠️ cache: falha ao serializar lista de leads: %v", err)
		return lastSynced
	}
	s.SetRaw(ctx, KeyLeadsList, string(raw))
	return lastSynced
}

func (s *Store) ClearList(ctx context.Context) {
	s.RemoveRaw(ctx, KeyLeadsList)
}

func (s *Store) GetDetail(ctx context.Context, id string) (*entity.Lead, bool) {
	raw, ok := s.GetRaw(ctx, KeyLeadDetail(id))
	if !ok {
		return nil, false
	}
	var lead entity.Lead
	if err := json.Unmarshal([]byte(raw), &lead); err != nil {
		log.Printf("⚠️ cache: detail corrompido para lead %s: %v", id, err)
		return nil, false
	}
	return &lead, true
}

func (s *Store) SetDetail(ctx context.Context, lead *entity.Lead) {
	raw, err := json.Marshal(lead)
	if err != nil {
		log.Printf("⚠️ cache: falha ao serializar lead %s: %v", lead.ID, err)
		return
	}
	s.SetRaw(ctx, KeyLeadDetail(lead.ID), string(raw))
}

func (s *Store) RemoveDetail(ctx context.Context, id string) {
	s.RemoveRaw(ctx, KeyLeadDetail(id))
}

// UpsertInList insere ou substitui pelo id e move o item para o topo.
// A ordem do resto da lista é preservada.
func (s *Store) UpsertInList(ctx context.Context, lead *entity.Lead) {
	items, _, ok := s.GetList(ctx)
	if !ok {
		items = nil
	}

	next := make([]entity.Lead, 0, len(items)+1)
	next = append(next, *lead)
	for _, it := range items {
		if it.ID == lead.ID {
			continue
		}
		next = append(next, it)
	}
	s.SetList(ctx, next)
}

func (s *Store) RemoveFromList(ctx context.Context, id string) {
	items, _, ok := s.GetList(ctx)
	if !ok {
		return
	}

	next := make([]entity.Lead, 0, len(items))
	for _, it := range items {
		if it.ID == id {
			continue
		}
		next = append(next, it)
	}
	s.SetList(ctx, next)
}

// SaveQuoteDraft persiste o rascunho do formulário de orçamento por lead,
// para o usuário não perder o que digitou se o app fechar.
func (s *Store) SaveQuoteDraft(ctx context.Context, leadID string, form entity.QuoteFormInput) {
	raw, err := json.Marshal(form)
	if err != nil {
		log.Printf("⚠️ cache: falha ao serializar rascunho do lead %s: %v", leadID, err)
		return
	}
	s.SetRaw(ctx, KeyQuoteDraft(leadID), string(raw))
}

func (s *Store) LoadQuoteDraft(ctx context.Context, leadID string) (entity.QuoteFormInput, bool) {
	var form entity.QuoteFormInput
	raw, ok := s.GetRaw(ctx, KeyQuoteDraft(leadID))
	if !ok {
		return form, false
	}
	if err := json.Unmarshal([]byte(raw), &form); err != nil {
		log.Printf("⚠️ cache: rascunho corrompido para lead %s: %v", leadID, err)
		return entity.QuoteFormInput{}, false
	}
	return form, true
}

func (s *Store) RemoveQuoteDraft(ctx context.Context, leadID string) {
	s.RemoveRaw(ctx, KeyQuoteDraft(leadID))
}

// GetRaw lê o valor cru de uma chave. Qualquer erro vira (zero, false).
func (s *Store) GetRaw(ctx context.Context, key string) (string, bool) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Printf("⚠️ cache: falha ao ler chave %q: %v", key, err)
		}
		return "", false
	}
	return value, true
}

// SetRaw grava o valor de uma chave. Falha é logada e engolida.
func (s *Store) SetRaw(ctx context.Context, key, value string) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, value)
	if err != nil {
		log.Printf("⚠️ cache: falha ao gravar chave %q: %v", key, err)
	}
}

func (s *Store) RemoveRaw(ctx context.Context, key string) {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		log.Printf("⚠️ cache: falha ao remover chave %q: %v", key, err)
	}
}
