package alertas

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"domly/pkg/access"
	"domly/pkg/notify"
)

var (
	// ErrAtivoNotFound is returned when the parent asset is missing or not the caller's.
	ErrAtivoNotFound = errors.New("ativo not found")
	ErrInvalidTipo   = errors.New("invalid tipo")
	ErrInvalidEstado = errors.New("estado must be pendente or resolvido")
	ErrTituloMissing = errors.New("titulo is required")
)

type AlertaService interface {
	CreateAlerta(ctx context.Context, userID, ativoID string, in Input) (Alerta, error)
	ListByAtivo(ctx context.Context, userID, ativoID string) ([]Alerta, error)
	ListByUser(ctx context.Context, userID string) ([]AlertaView, error)
	UpdateEstado(ctx context.Context, userID, id, estado string) (Alerta, error)
	DeleteAlerta(ctx context.Context, userID, id string) error
}

type alertaService struct {
	repo   AlertaRepository
	access access.Checker
	events notify.Publisher
	log    *zap.Logger
}

func NewAlertaService(repo AlertaRepository, checker access.Checker, events notify.Publisher, log *zap.Logger) AlertaService {
	return &alertaService{repo: repo, access: checker, events: events, log: log}
}

func (s *alertaService) CreateAlerta(ctx context.Context, userID, ativoID string, in Input) (Alerta, error) {
	in.Titulo = strings.TrimSpace(in.Titulo)
	if in.Titulo == "" {
		return Alerta{}, ErrTituloMissing
	}
	if !validTipo(in.Tipo) {
		return Alerta{}, ErrInvalidTipo
	}
	if err := access.Require(ctx, s.access, userID, access.Ativo, ativoID, ErrAtivoNotFound); err != nil {
		return Alerta{}, err
	}
	a, err := s.repo.CreateAlerta(ctx, ativoID, in)
	if err != nil {
		return Alerta{}, err
	}
	s.log.Info("alerta created", zap.String("alerta_id", a.ID), zap.String("ativo_id", ativoID), zap.String("tipo", a.Tipo))
	s.events.Publish(userID, notify.Event{
		EventType: notify.EventAlertaCriado,
		AlertaID:  a.ID,
		AtivoID:   a.AtivoID,
		Titulo:    a.Titulo,
		Tipo:      a.Tipo,
		Estado:    a.Estado,
	})
	return a, nil
}

func (s *alertaService) ListByAtivo(ctx context.Context, userID, ativoID string) ([]Alerta, error) {
	if err := access.Require(ctx, s.access, userID, access.Ativo, ativoID, ErrAtivoNotFound); err != nil {
		return nil, err
	}
	return s.repo.ListByAtivo(ctx, ativoID)
}

func (s *alertaService) ListByUser(ctx context.Context, userID string) ([]AlertaView, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *alertaService) UpdateEstado(ctx context.Context, userID, id, estado string) (Alerta, error) {
	if !validEstado(estado) {
		return Alerta{}, ErrInvalidEstado
	}
	if err := access.Require(ctx, s.access, userID, access.Alerta, id, ErrAlertaNotFound); err != nil {
		return Alerta{}, err
	}
	a, err := s.repo.UpdateEstado(ctx, id, estado)
	if err != nil {
		return Alerta{}, err
	}
	if estado == EstadoResolvido {
		s.events.Publish(userID, notify.Event{
			EventType: notify.EventAlertaResolvido,
			AlertaID:  a.ID,
			AtivoID:   a.AtivoID,
			Titulo:    a.Titulo,
			Tipo:      a.Tipo,
			Estado:    a.Estado,
		})
	}
	return a, nil
}

func (s *alertaService) DeleteAlerta(ctx context.Context, userID, id string) error {
	if err := access.Require(ctx, s.access, userID, access.Alerta, id, ErrAlertaNotFound); err != nil {
		return err
	}
	return s.repo.DeleteAlerta(ctx, id)
}
