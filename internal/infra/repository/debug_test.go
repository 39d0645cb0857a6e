package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/quoteflow/internal/debugflags"
	"github.com/xavierca1/quoteflow/internal/entity"
)

// noopStore satisfaz o kvStore das flags sem persistir nada.
type noopStore struct{}

func (noopStore) GetRaw(ctx context.Context, key string) (string, bool) { return "", false }
func (noopStore) SetRaw(ctx context.Context, key, value string)         {}
func (noopStore) RemoveRaw(ctx context.Context, key string)             {}

func newFlags(t *testing.T, f debugflags.Flags) *debugflags.Manager {
	t.Helper()
	m := debugflags.NewManager(noopStore{})
	m.Set(context.Background(), f)
	return m
}

func TestDebugRepo_FlagsDesligadas_RepassePuro(t *testing.T) {
	inner := &stubRepo{leads: []entity.Lead{lead("1", "Pintura", entity.StatusNew)}}
	repo := NewDebugLeadRepository(inner, newFlags(t, debugflags.Flags{}))

	items, err := repo.ListLeads(context.Background())

	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, int64(1), inner.listCalls.Load())
}

func TestDebugRepo_SimulateOffline_BloqueiaSemChamarBackend(t *testing.T) {
	inner := &stubRepo{}
	repo := NewDebugLeadRepository(inner, newFlags(t, debugflags.Flags{SimulateOffline: true}))

	_, err := repo.ListLeads(context.Background())

	var offline *entity.OfflineNoCacheError
	require.ErrorAs(t, err, &offline)
	assert.Equal(t, int64(0), inner.listCalls.Load())
}

func TestDebugRepo_SimulateError_ErroRemotoSintetico(t *testing.T) {
	repo := NewDebugLeadRepository(&stubRepo{}, newFlags(t, debugflags.Flags{SimulateError: true}))

	err := repo.UpdateLeadStatus(context.Background(), "1", entity.StatusQuoted)

	var remote *entity.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, 500, remote.StatusCode)
}

func TestDebugRepo_OfflineGanhaDoErro(t *testing.T) {
	repo := NewDebugLeadRepository(&stubRepo{}, newFlags(t, debugflags.Flags{
		SimulateError:   true,
		SimulateOffline: true,
	}))

	_, err := repo.GetLeadByID(context.Background(), "1")

	var offline *entity.OfflineNoCacheError
	require.ErrorAs(t, err, &offline)
}

func TestDebugRepo_DesligarFlagRestauraRepasse(t *testing.T) {
	flags := newFlags(t, debugflags.Flags{SimulateError: true})
	inner := &stubRepo{leads: []entity.Lead{lead("1", "Pintura", entity.StatusNew)}}
	repo := NewDebugLeadRepository(inner, flags)

	_, err := repo.ListLeads(context.Background())
	require.Error(t, err)

	flags.Reset(context.Background())

	items, err := repo.ListLeads(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestProvider_MemoizaECadeiaReagesAoFlagFake(t *testing.T) {
	flags := debugflags.NewManager(noopStore{})
	p := NewProvider(Config{Backend: BackendFake}, newMemCache(), &stubChecker{online: true}, flags)

	first := p.Leads()
	second := p.Leads()
	assert.Same(t, first, second, "sem mudança de flag, a fachada é memoizada")

	flags.Set(context.Background(), debugflags.Flags{UseFakeBackend: true})
	third := p.Leads()
	assert.NotSame(t, first, third, "mudar o flag de backend reconstrói a cadeia")
}
