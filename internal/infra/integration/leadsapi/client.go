// Package leadsapi é o backend HTTP-JSON do contrato de leads: fala com
// a API do QuoteFlow (GET/PATCH/DELETE em /leads).
package leadsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/xavierca1/quoteflow/internal/entity"
)

type Client struct {
	baseURL  string
	apiToken string
	http     *http.Client
}

func NewClient(baseURL, apiToken string) *Client {
	return &Client{
		baseURL:  baseURL,
		apiToken: apiToken,
		http:     &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) addAuthHeaders(req *http.Request) {
	if c.apiToken != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiToken))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}

// doJSON executa a request e decodifica o corpo em out (se out != nil).
// Não-2xx vira RemoteError com status + corpo, para a mensagem de erro
// da UI dizer o que o servidor respondeu.
func (c *Client) doJSON(ctx context.Context, op, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &entity.RemoteError{Op: op, Message: err.Error(), Err: err}
		}
		reqBody = bytes.NewBuffer(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return &entity.RemoteError{Op: op, Message: err.Error(), Err: err}
	}
	c.addAuthHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return &entity.RemoteError{Op: op, Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &entity.RemoteError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Message:    string(respBody),
		}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return &entity.RemoteError{Op: op, Message: err.Error(), Err: err}
		}
	}
	return nil
}

func (c *Client) ListLeads(ctx context.Context) ([]entity.Lead, error) {
	var dtos []leadDTO
	if err := c.doJSON(ctx, "listLeads", http.MethodGet, "/leads", nil, &dtos); err != nil {
		return nil, err
	}

	leads := make([]entity.Lead, 0, len(dtos))
	for _, d := range dtos {
		leads = append(leads, d.toEntity())
	}
	return leads, nil
}

func (c *Client) ListHiddenLeads(ctx context.Context) ([]entity.Lead, error) {
	var dtos []leadDTO
	if err := c.doJSON(ctx, "listHiddenLeads", http.MethodGet, "/leads/hidden", nil, &dtos); err != nil {
		return nil, err
	}

	leads := make([]entity.Lead, 0, len(dtos))
	for _, d := range dtos {
		leads = append(leads, d.toEntity())
	}
	return leads, nil
}

func (c *Client) GetLeadByID(ctx context.Context, id string) (*entity.Lead, error) {
	var dto leadDTO
	err := c.doJSON(ctx, "getLeadByID", http.MethodGet, "/leads/"+url.PathEscape(id), nil, &dto)
	if err != nil {
		// 404 é ausência, não falha de transporte.
		var re *entity.RemoteError
		if errors.As(err, &re) && re.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}

	lead := dto.toEntity()
	return &lead, nil
}

func (c *Client) UpdateLeadStatus(ctx context.Context, id string, status entity.LeadStatus) error {
	// Nota: aqui confiamos no servidor para o caso "0 linhas afetadas".
	// Ele responde 404/403 quando a visibilidade bloqueia, e isso já
	// vira RemoteError; o ZeroRowsError é específico do backend Postgres.
	path := "/leads/" + url.PathEscape(id) + "/status"
	return c.doJSON(ctx, "updateLeadStatus", http.MethodPatch, path, updateStatusRequest{Status: string(status)}, nil)
}

func (c *Client) HideLead(ctx context.Context, id string) error {
	path := "/leads/" + url.PathEscape(id) + "/hide"
	return c.doJSON(ctx, "hideLead", http.MethodPatch, path, nil, nil)
}

func (c *Client) UnhideLead(ctx context.Context, id string) error {
	path := "/leads/" + url.PathEscape(id) + "/unhide"
	return c.doJSON(ctx, "unhideLead", http.MethodPatch, path, nil, nil)
}

func (c *Client) DeleteLead(ctx context.Context, id string) error {
	return c.doJSON(ctx, "deleteLead", http.MethodDelete, "/leads/"+url.PathEscape(id), nil, nil)
}
