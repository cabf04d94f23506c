package documentos

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"domly/pkg/access"
	"domly/pkg/storage"
)

var (
	ErrAtivoNotFound = errors.New("ativo not found")
	ErrNoFiles       = errors.New("no files uploaded")
)

type DocumentoService interface {
	UploadDocumento(ctx context.Context, userID, ativoID, nome, tipo string, file File) (Documento, error)
	DeleteDocumento(ctx context.Context, userID, id string) error
	ListDocumentos(ctx context.Context, userID, ativoID string) ([]Documento, error)

	UploadFotos(ctx context.Context, userID, ativoID string, files []File) ([]Foto, error)
	DeleteFoto(ctx context.Context, userID, id string) error
	ListFotos(ctx context.Context, userID, ativoID string) ([]Foto, error)
}

type documentoService struct {
	repo   DocumentoRepository
	store  storage.Store
	access access.Checker
	log    *zap.Logger
}

func NewDocumentoService(repo DocumentoRepository, store storage.Store, checker access.Checker, log *zap.Logger) DocumentoService {
	return &documentoService{repo: repo, store: store, access: checker, log: log}
}

// discard removes objects whose rows were never written or were just deleted.
func (s *documentoService) discard(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if err := s.store.Delete(ctx, key); err != nil {
			s.log.Warn("orphaned object", zap.String("key", key), zap.Error(err))
		}
	}
}

func (s *documentoService) UploadDocumento(ctx context.Context, userID, ativoID, nome, tipo string, file File) (Documento, error) {
	if err := access.Require(ctx, s.access, userID, access.Ativo, ativoID, ErrAtivoNotFound); err != nil {
		return Documento{}, err
	}
	nome = strings.TrimSpace(nome)
	if nome == "" {
		nome = file.Name
	}
	obj, err := s.store.Put(ctx, storage.AtivoKey(ativoID, file.Ext), file.Data, file.ContentType)
	if err != nil {
		return Documento{}, err
	}
	d, err := s.repo.CreateDocumento(ctx, ativoID, nome, strings.TrimSpace(tipo), obj)
	if err != nil {
		s.discard(ctx, obj.Key)
		return Documento{}, err
	}
	s.log.Info("documento uploaded", zap.String("documento_id", d.ID), zap.String("ativo_id", ativoID), zap.Int64("size", obj.Size))
	return d, nil
}

func (s *documentoService) DeleteDocumento(ctx context.Context, userID, id string) error {
	if err := access.Require(ctx, s.access, userID, access.Documento, id, ErrDocumentoNotFound); err != nil {
		return err
	}
	d, err := s.repo.DeleteDocumento(ctx, id)
	if err != nil {
		return err
	}
	s.discard(ctx, d.ObjectKey)
	return nil
}

func (s *documentoService) ListDocumentos(ctx context.Context, userID, ativoID string) ([]Documento, error) {
	if err := access.Require(ctx, s.access, userID, access.Ativo, ativoID, ErrAtivoNotFound); err != nil {
		return nil, err
	}
	return s.repo.ListDocumentos(ctx, ativoID)
}

// UploadFotos stores every file concurrently. The batch is all or nothing: on any failure
// the objects already stored are removed and no rows are written.
func (s *documentoService) UploadFotos(ctx context.Context, userID, ativoID string, files []File) ([]Foto, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	if err := access.Require(ctx, s.access, userID, access.Ativo, ativoID, ErrAtivoNotFound); err != nil {
		return nil, err
	}

	objs := make([]storage.Object, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(func() error {
			obj, err := s.store.Put(gctx, storage.AtivoKey(ativoID, f.Ext), f.Data, f.ContentType)
			if err != nil {
				return err
			}
			objs[i] = obj
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		var fotos []Foto
		fotos, err = s.repo.CreateFotos(ctx, ativoID, objs)
		if err == nil {
			s.log.Info("fotos uploaded", zap.String("ativo_id", ativoID), zap.Int("count", len(fotos)))
			return fotos, nil
		}
	}

	stored := make([]string, 0, len(objs))
	for _, obj := range objs {
		if obj.Key != "" {
			stored = append(stored, obj.Key)
		}
	}
	s.discard(context.WithoutCancel(ctx), stored...)
	s.log.Error("foto batch failed", zap.String("ativo_id", ativoID), zap.Int("rolled_back", len(stored)), zap.Error(err))
	return nil, err
}

func (s *documentoService) DeleteFoto(ctx context.Context, userID, id string) error {
	if err := access.Require(ctx, s.access, userID, access.Foto, id, ErrFotoNotFound); err != nil {
		return err
	}
	f, err := s.repo.DeleteFoto(ctx, id)
	if err != nil {
		return err
	}
	s.discard(ctx, f.ObjectKey)
	return nil
}

func (s *documentoService) ListFotos(ctx context.Context, userID, ativoID string) ([]Foto, error) {
	if err := access.Require(ctx, s.access, userID, access.Ativo, ativoID, ErrAtivoNotFound); err != nil {
		return nil, err
	}
	return s.repo.ListFotos(ctx, ativoID)
}
