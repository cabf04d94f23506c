package ativos

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"domly/pkg/access"
	"domly/pkg/alertas"
	"domly/pkg/documentos"
	"domly/pkg/manutencoes"
	"domly/pkg/notify"
	"domly/pkg/response"
	"domly/pkg/storage"
)

var ErrCondominioNotFound = errors.New("condominio not found")

type AtivoService interface {
	CreateAtivo(ctx context.Context, userID, condominioID string, in Input) (Ativo, error)
	UpdateAtivo(ctx context.Context, userID, id string, p Patch) (Ativo, error)
	DeleteAtivo(ctx context.Context, userID, id string) error
	GetAtivoDetail(ctx context.Context, userID, id string) (AtivoDetail, error)
	ListByCondominio(ctx context.Context, userID, condominioID string, page, limit int) ([]Ativo, int64, error)
	ListByUser(ctx context.Context, userID string, page, limit int) ([]Ativo, int64, error)
}

// Children are the repositories the detail view reads from.
type Children struct {
	Alertas     alertas.AlertaRepository
	Manutencoes manutencoes.ManutencaoRepository
	Documentos  documentos.DocumentoRepository
}

type ativoService struct {
	repo     AtivoRepository
	children Children
	store    storage.Store
	access   access.Checker
	events   notify.Publisher
	log      *zap.Logger
}

func NewAtivoService(repo AtivoRepository, children Children, store storage.Store, checker access.Checker, events notify.Publisher, log *zap.Logger) AtivoService {
	return &ativoService{repo: repo, children: children, store: store, access: checker, events: events, log: log}
}

func (s *ativoService) CreateAtivo(ctx context.Context, userID, condominioID string, in Input) (Ativo, error) {
	a := in.New(condominioID)
	if err := validate(a); err != nil {
		return Ativo{}, err
	}
	if err := access.Require(ctx, s.access, userID, access.Condominio, condominioID, ErrCondominioNotFound); err != nil {
		return Ativo{}, err
	}
	created, err := s.repo.CreateAtivo(ctx, a)
	if err != nil {
		return Ativo{}, err
	}
	s.log.Info("ativo created", zap.String("ativo_id", created.ID), zap.String("condominio_id", condominioID))
	return created, nil
}

func (s *ativoService) UpdateAtivo(ctx context.Context, userID, id string, p Patch) (Ativo, error) {
	if err := access.Require(ctx, s.access, userID, access.Ativo, id, ErrAtivoNotFound); err != nil {
		return Ativo{}, err
	}
	return s.repo.UpdateAtivo(ctx, id, func(a *Ativo) error {
		p.Apply(a)
		return validate(*a)
	})
}

func (s *ativoService) DeleteAtivo(ctx context.Context, userID, id string) error {
	if err := access.Require(ctx, s.access, userID, access.Ativo, id, ErrAtivoNotFound); err != nil {
		return err
	}
	a, err := s.repo.GetAtivoByID(ctx, id)
	if err != nil {
		return err
	}
	keys, err := s.repo.ObjectKeys(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteAtivo(ctx, id); err != nil {
		return err
	}
	for _, key := range keys {
		if err := s.store.Delete(ctx, key); err != nil {
			s.log.Warn("orphaned object", zap.String("key", key), zap.Error(err))
		}
	}
	s.log.Info("ativo deleted", zap.String("ativo_id", id), zap.Int("objects", len(keys)))
	s.events.Publish(userID, notify.Event{
		EventType:    notify.EventAtivoRemovido,
		AtivoID:      id,
		CondominioID: a.CondominioID,
		Titulo:       a.Nome,
	})
	return nil
}

// GetAtivoDetail loads the asset and its children concurrently.
func (s *ativoService) GetAtivoDetail(ctx context.Context, userID, id string) (AtivoDetail, error) {
	if err := access.Require(ctx, s.access, userID, access.Ativo, id, ErrAtivoNotFound); err != nil {
		return AtivoDetail{}, err
	}
	var d AtivoDetail
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		d.Ativo, err = s.repo.GetAtivoByID(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		d.Alertas, err = s.children.Alertas.ListByAtivo(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		d.Manutencoes, err = s.children.Manutencoes.ListByAtivo(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		d.Documentos, err = s.children.Documentos.ListDocumentos(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		d.Fotos, err = s.children.Documentos.ListFotos(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return AtivoDetail{}, err
	}
	return d, nil
}

func (s *ativoService) ListByCondominio(ctx context.Context, userID, condominioID string, page, limit int) ([]Ativo, int64, error) {
	if err := access.Require(ctx, s.access, userID, access.Condominio, condominioID, ErrCondominioNotFound); err != nil {
		return nil, 0, err
	}
	limit, offset := response.Offset(page, limit)
	return s.repo.ListByCondominio(ctx, condominioID, limit, offset)
}

func (s *ativoService) ListByUser(ctx context.Context, userID string, page, limit int) ([]Ativo, int64, error) {
	limit, offset := response.Offset(page, limit)
	return s.repo.ListByUser(ctx, userID, limit, offset)
}
