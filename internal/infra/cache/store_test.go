package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/quoteflow/internal/entity"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func lead(id, title string) entity.Lead {
	return entity.Lead{
		ID:        id,
		Title:     title,
		Status:    entity.StatusNew,
		CreatedAt: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestGetListEmptyStore(t *testing.T) {
	s := newTestStore(t)

	items, lastSynced, ok := s.GetList(context.Background())
	assert.False(t, ok)
	assert.Nil(t, items)
	assert.True(t, lastSynced.IsZero())
}

func TestSetListRoundtrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	before := time.Now()
	lastSynced := s.SetList(ctx, []entity.Lead{lead("1", "Limpeza pós-obra"), lead("2", "Troca de tomada")})
	assert.False(t, lastSynced.Before(before))

	items, gotSynced, ok := s.GetList(ctx)
	require.True(t, ok)
	require.Len(t, items, 2)
	assert.Equal(t, "1", items[0].ID)
	assert.Equal(t, "Limpeza pós-obra", items[0].Title)
	assert.WithinDuration(t, lastSynced, gotSynced, time.Second)
}

func TestSetListEmptySliceIsAHit(t *testing.T) {
	// Lista vazia cacheada é diferente de cache miss: "sincronizei e
	// não tinha nada" precisa ser servível offline.
	s := newTestStore(t)
	ctx := context.Background()

	s.SetList(ctx, []entity.Lead{})

	items, _, ok := s.GetList(ctx)
	assert.True(t, ok)
	assert.Empty(t, items)
}

func TestClearList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.SetList(ctx, []entity.Lead{lead("1", "a")})
	s.ClearList(ctx)

	_, _, ok := s.GetList(ctx)
	assert.False(t, ok)
}

func TestCorruptListIsAMiss(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Grava lixo direto na chave da lista.
	s.SetRaw(ctx, KeyLeadsList, "{not json")

	_, _, ok := s.GetList(ctx)
	assert.False(t, ok)
}

func TestUpsertInListMovesToFront(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.SetList(ctx, []entity.Lead{lead("1", "a"), lead("2", "b"), lead("3", "c")})

	updated := lead("2", "b")
	updated.Status = entity.StatusQuoted
	s.UpsertInList(ctx, &updated)

	items, _, ok := s.GetList(ctx)
	require.True(t, ok)
	require.Len(t, items, 3)
	assert.Equal(t, []string{"2", "1", "3"}, []string{items[0].ID, items[1].ID, items[2].ID})
	assert.Equal(t, entity.StatusQuoted, items[0].Status)
}

func TestUpsertInListInsertsOnEmptyCache(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	novo := lead("9", "novo lead")
	s.UpsertInList(ctx, &novo)

	items, _, ok := s.GetList(ctx)
	require.True(t, ok)
	require.Len(t, items, 1)
	assert.Equal(t, "9", items[0].ID)
}

func TestRemoveFromList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.SetList(ctx, []entity.Lead{lead("1", "a"), lead("2", "b")})
	s.RemoveFromList(ctx, "1")

	items, _, ok := s.GetList(ctx)
	require.True(t, ok)
	require.Len(t, items, 1)
	assert.Equal(t, "2", items[0].ID)
}

func TestDetailRoundtrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, ok := s.GetDetail(ctx, "1")
	assert.False(t, ok)

	l := lead("1", "Instalação de prateleira")
	s.SetDetail(ctx, &l)

	got, ok := s.GetDetail(ctx, "1")
	require.True(t, ok)
	assert.Equal(t, "Instalação de prateleira", got.Title)

	s.RemoveDetail(ctx, "1")
	_, ok = s.GetDetail(ctx, "1")
	assert.False(t, ok)
}

func TestQuoteDraftRoundtrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, ok := s.LoadQuoteDraft(ctx, "lead-1")
	assert.False(t, ok)

	form := entity.QuoteFormInput{
		LeadID:      "lead-1",
		Description: "2 dias de serviço",
		Price:       "350",
		Currency:    "BRL",
	}
	s.SaveQuoteDraft(ctx, "lead-1", form)

	got, ok := s.LoadQuoteDraft(ctx, "lead-1")
	require.True(t, ok)
	assert.Equal(t, form, got)

	s.RemoveQuoteDraft(ctx, "lead-1")
	_, ok = s.LoadQuoteDraft(ctx, "lead-1")
	assert.False(t, ok)
}
