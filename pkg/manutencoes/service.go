package manutencoes

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"domly/pkg/access"
	"domly/pkg/date"
)

var (
	// ErrAtivoNotFound is returned when the parent asset is missing or not the caller's.
	ErrAtivoNotFound        = errors.New("ativo not found")
	ErrDataAgendadaRequired = errors.New("data_agendada is required")
	ErrInvalidEstado        = errors.New("estado must be pendente or concluido")
	ErrInvalidTipo          = errors.New("tipo must be preventiva or corretiva")
	ErrNegativeCusto        = errors.New("custo must not be negative")
)

type ManutencaoService interface {
	CreateManutencao(ctx context.Context, userID string, in Input) (Manutencao, error)
	UpdateManutencao(ctx context.Context, userID, id string, in Input) (Manutencao, error)
	DeleteManutencao(ctx context.Context, userID, id string) error
	ListByAtivo(ctx context.Context, userID, ativoID string) ([]Manutencao, error)
	ListByUser(ctx context.Context, userID string) ([]ManutencaoView, error)
}

type manutencaoService struct {
	repo   ManutencaoRepository
	access access.Checker
	log    *zap.Logger
	today  func() date.Date
}

func NewManutencaoService(repo ManutencaoRepository, checker access.Checker, log *zap.Logger) ManutencaoService {
	return &manutencaoService{repo: repo, access: checker, log: log, today: date.Today}
}

// normalize applies defaults and validates.
func (s *manutencaoService) normalize(in Input) (Input, error) {
	in.Descricao = strings.TrimSpace(in.Descricao)
	if in.Estado == "" {
		in.Estado = EstadoPendente
	}
	if in.Tipo == "" {
		in.Tipo = TipoPreventiva
	}
	switch {
	case in.DataAgendada.IsZero():
		return Input{}, ErrDataAgendadaRequired
	case in.Estado != EstadoPendente && in.Estado != EstadoConcluido:
		return Input{}, ErrInvalidEstado
	case in.Tipo != TipoPreventiva && in.Tipo != TipoCorretiva:
		return Input{}, ErrInvalidTipo
	case in.Custo < 0:
		return Input{}, ErrNegativeCusto
	}
	if in.Estado == EstadoConcluido && in.DataConclusao == nil {
		today := s.today()
		in.DataConclusao = &today
	}
	return in, nil
}

func (s *manutencaoService) CreateManutencao(ctx context.Context, userID string, in Input) (Manutencao, error) {
	in, err := s.normalize(in)
	if err != nil {
		return Manutencao{}, err
	}
	if err := access.Require(ctx, s.access, userID, access.Ativo, in.AtivoID, ErrAtivoNotFound); err != nil {
		return Manutencao{}, err
	}
	m, err := s.repo.CreateManutencao(ctx, in)
	if err != nil {
		return Manutencao{}, err
	}
	s.log.Info("manutencao created", zap.String("manutencao_id", m.ID), zap.String("ativo_id", m.AtivoID), zap.String("estado", m.Estado))
	return m, nil
}

func (s *manutencaoService) UpdateManutencao(ctx context.Context, userID, id string, in Input) (Manutencao, error) {
	if err := access.Require(ctx, s.access, userID, access.Manutencao, id, ErrManutencaoNotFound); err != nil {
		return Manutencao{}, err
	}
	current, err := s.repo.GetManutencaoByID(ctx, id)
	if err != nil {
		return Manutencao{}, err
	}
	// a maintenance never moves to another asset
	in.AtivoID = current.AtivoID
	in, err = s.normalize(in)
	if err != nil {
		return Manutencao{}, err
	}
	m, err := s.repo.UpdateManutencao(ctx, id, in)
	if err != nil {
		return Manutencao{}, err
	}
	if current.Estado != EstadoConcluido && m.Estado == EstadoConcluido {
		s.log.Info("manutencao completed", zap.String("manutencao_id", id), zap.String("ativo_id", m.AtivoID))
	}
	return m, nil
}

func (s *manutencaoService) DeleteManutencao(ctx context.Context, userID, id string) error {
	if err := access.Require(ctx, s.access, userID, access.Manutencao, id, ErrManutencaoNotFound); err != nil {
		return err
	}
	return s.repo.DeleteManutencao(ctx, id)
}

func (s *manutencaoService) ListByAtivo(ctx context.Context, userID, ativoID string) ([]Manutencao, error) {
	if err := access.Require(ctx, s.access, userID, access.Ativo, ativoID, ErrAtivoNotFound); err != nil {
		return nil, err
	}
	return s.repo.ListByAtivo(ctx, ativoID)
}

func (s *manutencaoService) ListByUser(ctx context.Context, userID string) ([]ManutencaoView, error) {
	return s.repo.ListByUser(ctx, userID)
}
