package documentos

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"domly/pkg/storage"
	"domly/pkg/testhelpers"
)

type mockDocumentoRepository struct {
	mock.Mock
}

func (m *mockDocumentoRepository) CreateDocumento(ctx context.Context, ativoID, nome, tipo string, obj storage.Object) (Documento, error) {
	args := m.Called(ctx, ativoID, nome, tipo, obj)
	d, _ := args.Get(0).(Documento)
	return d, args.Error(1)
}

func (m *mockDocumentoRepository) DeleteDocumento(ctx context.Context, id string) (Documento, error) {
	args := m.Called(ctx, id)
	d, _ := args.Get(0).(Documento)
	return d, args.Error(1)
}

func (m *mockDocumentoRepository) ListDocumentos(ctx context.Context, ativoID string) ([]Documento, error) {
	args := m.Called(ctx, ativoID)
	d, _ := args.Get(0).([]Documento)
	return d, args.Error(1)
}

func (m *mockDocumentoRepository) CreateFotos(ctx context.Context, ativoID string, objs []storage.Object) ([]Foto, error) {
	args := m.Called(ctx, ativoID, objs)
	f, _ := args.Get(0).([]Foto)
	return f, args.Error(1)
}

func (m *mockDocumentoRepository) DeleteFoto(ctx context.Context, id string) (Foto, error) {
	args := m.Called(ctx, id)
	f, _ := args.Get(0).(Foto)
	return f, args.Error(1)
}

func (m *mockDocumentoRepository) ListFotos(ctx context.Context, ativoID string) ([]Foto, error) {
	args := m.Called(ctx, ativoID)
	f, _ := args.Get(0).([]Foto)
	return f, args.Error(1)
}

func newTestService() (DocumentoService, *mockDocumentoRepository, *testhelpers.MemoryStore) {
	repo := new(mockDocumentoRepository)
	store := testhelpers.NewMemoryStore()
	owners := testhelpers.OwnerChecker{"a1": "u1", "d1": "u1", "f1": "u1"}
	return NewDocumentoService(repo, store, owners, zap.NewNop()), repo, store
}

func photo(name string) File {
	return File{Name: name, Data: []byte("img-" + name), ContentType: "image/png", Ext: ".png"}
}

func TestDocumentoService_UploadDocumento(t *testing.T) {
	svc, repo, store := newTestService()
	ctx := context.Background()
	repo.On("CreateDocumento", ctx, "a1", "manual.pdf", "Manual", mock.MatchedBy(func(obj storage.Object) bool {
		return strings.HasPrefix(obj.Key, "ativos/a1/") && strings.HasSuffix(obj.Key, ".pdf")
	})).Return(Documento{ID: "d1", AtivoID: "a1", Nome: "manual.pdf"}, nil)

	file := File{Name: "manual.pdf", Data: []byte("%PDF-1.4"), ContentType: "application/pdf", Ext: ".pdf"}
	d, err := svc.UploadDocumento(ctx, "u1", "a1", "  ", " Manual ", file)
	require.NoError(t, err)
	require.Equal(t, "d1", d.ID)
	require.Len(t, store.Keys(), 1)

	_, err = svc.UploadDocumento(ctx, "u2", "a1", "x", "", file)
	require.ErrorIs(t, err, ErrAtivoNotFound)
	require.Len(t, store.Keys(), 1)
}

func TestDocumentoService_UploadDocumento_RowFailureRemovesObject(t *testing.T) {
	svc, repo, store := newTestService()
	ctx := context.Background()
	repo.On("CreateDocumento", ctx, "a1", "Garantia", "", mock.Anything).Return(nil, errors.New("db down"))

	_, err := svc.UploadDocumento(ctx, "u1", "a1", "Garantia", "", File{Data: []byte("x"), Ext: ".txt"})
	require.Error(t, err)
	require.Empty(t, store.Keys())
}

func TestDocumentoService_UploadFotos_AllOrNothing(t *testing.T) {
	svc, repo, store := newTestService()
	ctx := context.Background()
	var calls atomic.Int32
	store.FailPut = func(key string) error {
		if calls.Add(1) == 3 {
			return errors.New("disk full")
		}
		return nil
	}

	_, err := svc.UploadFotos(ctx, "u1", "a1", []File{photo("1"), photo("2"), photo("3"), photo("4")})
	require.Error(t, err)
	require.Empty(t, store.Keys())
	repo.AssertNotCalled(t, "CreateFotos", mock.Anything, mock.Anything, mock.Anything)
}

func TestDocumentoService_UploadFotos(t *testing.T) {
	svc, repo, store := newTestService()
	ctx := context.Background()
	repo.On("CreateFotos", ctx, "a1", mock.MatchedBy(func(objs []storage.Object) bool {
		return len(objs) == 3
	})).Return([]Foto{{ID: "f1"}, {ID: "f2"}, {ID: "f3"}}, nil)

	fotos, err := svc.UploadFotos(ctx, "u1", "a1", []File{photo("1"), photo("2"), photo("3")})
	require.NoError(t, err)
	require.Len(t, fotos, 3)
	require.Len(t, store.Keys(), 3)

	_, err = svc.UploadFotos(ctx, "u1", "a1", nil)
	require.ErrorIs(t, err, ErrNoFiles)
}

func TestDocumentoService_UploadFotos_InsertFailureRemovesObjects(t *testing.T) {
	svc, repo, store := newTestService()
	ctx := context.Background()
	repo.On("CreateFotos", ctx, "a1", mock.Anything).Return(nil, errors.New("constraint"))

	_, err := svc.UploadFotos(ctx, "u1", "a1", []File{photo("1"), photo("2")})
	require.Error(t, err)
	require.Empty(t, store.Keys())
}

func TestDocumentoService_Delete_RemovesObject(t *testing.T) {
	svc, repo, store := newTestService()
	ctx := context.Background()
	_, err := store.Put(ctx, "ativos/a1/doc.pdf", []byte("x"), "application/pdf")
	require.NoError(t, err)
	_, err = store.Put(ctx, "ativos/a1/foto.png", []byte("x"), "image/png")
	require.NoError(t, err)
	repo.On("DeleteDocumento", ctx, "d1").Return(Documento{ID: "d1", ObjectKey: "ativos/a1/doc.pdf"}, nil)
	repo.On("DeleteFoto", ctx, "f1").Return(Foto{ID: "f1", ObjectKey: "ativos/a1/foto.png"}, nil)

	require.ErrorIs(t, svc.DeleteDocumento(ctx, "u2", "d1"), ErrDocumentoNotFound)
	require.NoError(t, svc.DeleteDocumento(ctx, "u1", "d1"))
	require.Equal(t, []string{"ativos/a1/foto.png"}, store.Keys())

	require.ErrorIs(t, svc.DeleteFoto(ctx, "u2", "f1"), ErrFotoNotFound)
	require.NoError(t, svc.DeleteFoto(ctx, "u1", "f1"))
	require.Empty(t, store.Keys())
}
