package condominios

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"domly/pkg/storage"
)

var ErrNothingToImport = errors.New("no valid rows to import")

type CondominioService interface {
	CreateCondominio(ctx context.Context, userID string, in Input) (Condominio, error)
	UpdateCondominio(ctx context.Context, userID, id string, p Patch) (Condominio, error)
	DeleteCondominio(ctx context.Context, userID, id string) error
	GetCondominioByID(ctx context.Context, userID, id string) (Condominio, error)
	ListCondominios(ctx context.Context, userID, search string, page, limit int) ([]Condominio, int64, error)
	ImportCondominios(ctx context.Context, userID string, rows []Input, skipped int) (ImportResult, error)
	UploadImage(ctx context.Context, userID, id string, data []byte, contentType, ext string) (Condominio, error)
}

type condominioService struct {
	repo  CondominioRepository
	store storage.Store
	log   *zap.Logger
}

func NewCondominioService(repo CondominioRepository, store storage.Store, log *zap.Logger) CondominioService {
	return &condominioService{repo: repo, store: store, log: log}
}

func trimInput(in Input) Input {
	in.Nome = strings.TrimSpace(in.Nome)
	in.Morada = strings.TrimSpace(in.Morada)
	in.Cidade = strings.TrimSpace(in.Cidade)
	in.CodigoPostal = strings.TrimSpace(in.CodigoPostal)
	return in
}

func (s *condominioService) CreateCondominio(ctx context.Context, userID string, in Input) (Condominio, error) {
	in = trimInput(in)
	if err := in.Validate(); err != nil {
		return Condominio{}, err
	}
	c, err := s.repo.CreateCondominio(ctx, userID, in)
	if err != nil {
		return Condominio{}, err
	}
	s.log.Info("condominio created", zap.String("condominio_id", c.ID), zap.String("user_id", userID))
	return c, nil
}

func (s *condominioService) UpdateCondominio(ctx context.Context, userID, id string, p Patch) (Condominio, error) {
	if err := p.Validate(); err != nil {
		return Condominio{}, err
	}
	return s.repo.UpdateCondominio(ctx, userID, id, p)
}

func (s *condominioService) DeleteCondominio(ctx context.Context, userID, id string) error {
	if _, err := s.repo.GetCondominioByID(ctx, userID, id); err != nil {
		return err
	}
	keys, err := s.repo.ObjectKeys(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteCondominio(ctx, userID, id); err != nil {
		return err
	}
	for _, k := range keys {
		if err := s.store.Delete(ctx, k); err != nil {
			s.log.Warn("orphaned object", zap.String("key", k), zap.Error(err))
		}
	}
	s.log.Info("condominio deleted", zap.String("condominio_id", id), zap.Int("objects_removed", len(keys)))
	return nil
}

func (s *condominioService) GetCondominioByID(ctx context.Context, userID, id string) (Condominio, error) {
	return s.repo.GetCondominioByID(ctx, userID, id)
}

func (s *condominioService) ListCondominios(ctx context.Context, userID, search string, page, limit int) ([]Condominio, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	offset := (page - 1) * limit
	return s.repo.ListCondominios(ctx, userID, strings.TrimSpace(search), limit, offset)
}

// ImportCondominios creates every valid row atomically; rows that fail validation add to skipped.
func (s *condominioService) ImportCondominios(ctx context.Context, userID string, rows []Input, skipped int) (ImportResult, error) {
	valid := make([]Input, 0, len(rows))
	for _, in := range rows {
		in = trimInput(in)
		if in.Nome == "" || !validNIF(in.NIF) {
			skipped++
			continue
		}
		valid = append(valid, in)
	}
	if len(valid) == 0 {
		return ImportResult{Created: []Condominio{}, Skipped: skipped}, ErrNothingToImport
	}
	created, err := s.repo.CreateCondominios(ctx, userID, valid)
	if err != nil {
		return ImportResult{}, err
	}
	s.log.Info("condominios imported", zap.String("user_id", userID), zap.Int("created", len(created)), zap.Int("skipped", skipped))
	return ImportResult{Created: created, Skipped: skipped}, nil
}

func (s *condominioService) UploadImage(ctx context.Context, userID, id string, data []byte, contentType, ext string) (Condominio, error) {
	current, err := s.repo.GetCondominioByID(ctx, userID, id)
	if err != nil {
		return Condominio{}, err
	}
	obj, err := s.store.Put(ctx, storage.CondominioKey(id, ext), data, contentType)
	if err != nil {
		return Condominio{}, err
	}
	c, err := s.repo.SetImageURL(ctx, userID, id, obj.URL)
	if err != nil {
		if delErr := s.store.Delete(ctx, obj.Key); delErr != nil {
			s.log.Warn("orphaned object", zap.String("key", obj.Key), zap.Error(delErr))
		}
		return Condominio{}, err
	}
	// the replaced image has no row left pointing at it
	if prev, ok := storage.KeyOf(s.store, current.ImageURL); ok && prev != obj.Key {
		if err := s.store.Delete(ctx, prev); err != nil {
			s.log.Warn("orphaned object", zap.String("key", prev), zap.Error(err))
		}
	}
	return c, nil
}
