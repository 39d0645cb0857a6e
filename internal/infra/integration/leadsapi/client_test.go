package leadsapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/quoteflow/internal/entity"
)

func TestListLeadsMapsAndCoerces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/leads", r.URL.Path)
		assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]map[string]any{
			{"id": "l1", "title": "Limpeza pós-obra", "status": "quoted", "created_at": "2026-02-10T08:00:00Z"},
			{"id": "l2", "title": "Lead corrompido", "status": "bogus", "created_at": "2026-02-09T08:00:00Z"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "token-123")

	leads, err := c.ListLeads(context.Background())
	require.NoError(t, err)
	require.Len(t, leads, 2)
	assert.Equal(t, entity.StatusQuoted, leads[0].Status)
	// Status desconhecido da API vira "new" no domínio.
	assert.Equal(t, entity.StatusNew, leads[1].Status)
}

func TestListLeadsNon2xxIsRemoteErrorWithBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("banco fora do ar"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")

	_, err := c.ListLeads(context.Background())
	require.Error(t, err)

	var re *entity.RemoteError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, http.StatusInternalServerError, re.StatusCode)
	assert.Contains(t, re.Message, "banco fora do ar")
}

func TestGetLeadByID404ReturnsNilNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")

	lead, err := c.GetLeadByID(context.Background(), "nope")
	assert.NoError(t, err)
	assert.Nil(t, lead)
}

func TestGetLeadByIDSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/leads/l1", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"id": "l1", "title": "Troca de tomada", "status": "accepted",
			"created_at": "2026-02-10T08:00:00Z",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")

	lead, err := c.GetLeadByID(context.Background(), "l1")
	require.NoError(t, err)
	require.NotNil(t, lead)
	assert.Equal(t, entity.StatusAccepted, lead.Status)
}

func TestUpdateLeadStatusSendsPatch(t *testing.T) {
	var gotBody updateStatusRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/leads/l1/status", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")

	require.NoError(t, c.UpdateLeadStatus(context.Background(), "l1", entity.StatusQuoted))
	assert.Equal(t, "quoted", gotBody.Status)
}

func TestHideForbiddenSurfacesError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("lead pertence a outra conta"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")

	err := c.HideLead(context.Background(), "l1")
	require.Error(t, err)
	assert.True(t, entity.IsRemoteError(err))
}

func TestDeleteLeadSendsDelete(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")

	require.NoError(t, c.DeleteLead(context.Background(), "l1"))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/leads/l1", gotPath)
}
