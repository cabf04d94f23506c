package documentos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"domly/pkg/storage"
)

var (
	ErrDocumentoNotFound = errors.New("documento not found")
	ErrFotoNotFound      = errors.New("foto not found")
)

type DocumentoRepository interface {
	CreateDocumento(ctx context.Context, ativoID, nome, tipo string, obj storage.Object) (Documento, error)
	// DeleteDocumento removes the row and returns it so its object can be removed too.
	DeleteDocumento(ctx context.Context, id string) (Documento, error)
	ListDocumentos(ctx context.Context, ativoID string) ([]Documento, error)

	// CreateFotos inserts every photo of a batch or none.
	CreateFotos(ctx context.Context, ativoID string, objs []storage.Object) ([]Foto, error)
	DeleteFoto(ctx context.Context, id string) (Foto, error)
	ListFotos(ctx context.Context, ativoID string) ([]Foto, error)
}

type postgresDocumentoRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresDocumentoRepository(pool *pgxpool.Pool) DocumentoRepository {
	return &postgresDocumentoRepository{pool: pool}
}

const (
	documentoColumns = `id::text, ativo_id::text, nome, tipo_documento, url, object_key, data_upload`
	fotoColumns      = `id::text, ativo_id::text, url, object_key, data_upload`
)

func scanDocumento(row pgx.Row) (Documento, error) {
	var d Documento
	if err := row.Scan(&d.ID, &d.AtivoID, &d.Nome, &d.TipoDocumento, &d.URL, &d.ObjectKey, &d.DataUpload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Documento{}, ErrDocumentoNotFound
		}
		return Documento{}, err
	}
	return d, nil
}

func scanFoto(row pgx.Row) (Foto, error) {
	var f Foto
	if err := row.Scan(&f.ID, &f.AtivoID, &f.URL, &f.ObjectKey, &f.DataUpload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Foto{}, ErrFotoNotFound
		}
		return Foto{}, err
	}
	return f, nil
}

func (r *postgresDocumentoRepository) CreateDocumento(ctx context.Context, ativoID, nome, tipo string, obj storage.Object) (Documento, error) {
	query := `INSERT INTO documento (ativo_id, nome, tipo_documento, url, object_key)
              VALUES ($1, $2, $3, $4, $5)
              RETURNING ` + documentoColumns
	return scanDocumento(r.pool.QueryRow(ctx, query, ativoID, nome, tipo, obj.URL, obj.Key))
}

func (r *postgresDocumentoRepository) DeleteDocumento(ctx context.Context, id string) (Documento, error) {
	if uuid.Validate(id) != nil {
		return Documento{}, ErrDocumentoNotFound
	}
	return scanDocumento(r.pool.QueryRow(ctx, `DELETE FROM documento WHERE id = $1 RETURNING `+documentoColumns, id))
}

func (r *postgresDocumentoRepository) ListDocumentos(ctx context.Context, ativoID string) ([]Documento, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+documentoColumns+` FROM documento WHERE ativo_id = $1 ORDER BY data_upload DESC`, ativoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]Documento, 0)
	for rows.Next() {
		d, err := scanDocumento(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

func (r *postgresDocumentoRepository) CreateFotos(ctx context.Context, ativoID string, objs []storage.Object) ([]Foto, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	query := `INSERT INTO foto (ativo_id, url, object_key) VALUES ($1, $2, $3) RETURNING ` + fotoColumns
	fotos := make([]Foto, 0, len(objs))
	for _, obj := range objs {
		f, err := scanFoto(tx.QueryRow(ctx, query, ativoID, obj.URL, obj.Key))
		if err != nil {
			return nil, err
		}
		fotos = append(fotos, f)
	}
	return fotos, tx.Commit(ctx)
}

func (r *postgresDocumentoRepository) DeleteFoto(ctx context.Context, id string) (Foto, error) {
	if uuid.Validate(id) != nil {
		return Foto{}, ErrFotoNotFound
	}
	return scanFoto(r.pool.QueryRow(ctx, `DELETE FROM foto WHERE id = $1 RETURNING `+fotoColumns, id))
}

func (r *postgresDocumentoRepository) ListFotos(ctx context.Context, ativoID string) ([]Foto, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+fotoColumns+` FROM foto WHERE ativo_id = $1 ORDER BY data_upload DESC`, ativoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]Foto, 0)
	for rows.Next() {
		f, err := scanFoto(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, f)
	}
	return list, rows.Err()
}
