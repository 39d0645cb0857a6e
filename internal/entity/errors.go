package entity

import (
	"errors"
	"fmt"
)

// ErrLeadNotFound é usado pelas mutações quando o id não existe.
// Leitura (GetLeadByID) sinaliza ausência com (nil, nil), não com erro.
var ErrLeadNotFound = errors.New("lead não encontrado")

// RemoteError: falha de transporte/servidor (HTTP não-2xx, erro do driver
// do banco, rede caiu no meio). Sempre carrega mensagem legível.
type RemoteError struct {
	Op         string
	StatusCode int // 0 quando não é HTTP
	Message    string
	Err        error
}

func (e *RemoteError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s falhou: HTTP %d - %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s falhou: %s", e.Op, e.Message)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

func IsRemoteError(err error) bool {
	var re *RemoteError
	return errors.As(err, &re)
}

// ZeroRowsError: o transporte disse "ok" mas nenhuma linha mudou.
// Acontece quando a regra de visibilidade por owner bloqueia a mutação
// em silêncio. Não pode ser confundido com sucesso.
type ZeroRowsError struct {
	Op     string
	LeadID string
}

func (e *ZeroRowsError) Error() string {
	return fmt.Sprintf(
		"%s bloqueado (0 linhas afetadas) para o lead %s. Causa provável: o lead pertence a outra conta ou a sessão expirou.",
		e.Op, e.LeadID,
	)
}

func IsZeroRowsError(err error) bool {
	var zr *ZeroRowsError
	return errors.As(err, &zr)
}

// OfflineNoCacheError: leitura tentada offline sem nada no cache para servir.
type OfflineNoCacheError struct {
	Resource string
}

func (e *OfflineNoCacheError) Error() string {
	return fmt.Sprintf("sem conexão com a internet e sem dados em cache para %s", e.Resource)
}

func IsOfflineNoCacheError(err error) bool {
	var oe *OfflineNoCacheError
	return errors.As(err, &oe)
}
