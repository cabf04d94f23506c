package condominios

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrCondominioNotFound = errors.New("condominio not found")

type CondominioRepository interface {
	CreateCondominio(ctx context.Context, userID string, in Input) (Condominio, error)
	CreateCondominios(ctx context.Context, userID string, in []Input) ([]Condominio, error)
	UpdateCondominio(ctx context.Context, userID, id string, p Patch) (Condominio, error)
	SetImageURL(ctx context.Context, userID, id, url string) (Condominio, error)
	DeleteCondominio(ctx context.Context, userID, id string) error
	GetCondominioByID(ctx context.Context, userID, id string) (Condominio, error)
	ListCondominios(ctx context.Context, userID, search string, limit, offset int) ([]Condominio, int64, error)
	// ObjectKeys lists stored files (documents and photos) under the condominio's assets.
	ObjectKeys(ctx context.Context, id string) ([]string, error)
}

type postgresCondominioRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresCondominioRepository(pool *pgxpool.Pool) CondominioRepository {
	return &postgresCondominioRepository{pool: pool}
}

const condominioColumns = `id::text, user_id::text, nome, morada, codigo_postal, cidade, nif, n_fracoes,
       iban, banco, seguradora, apolice_seguro, ano_construcao, image_url, created_at, updated_at`

func scanCondominio(row pgx.Row) (Condominio, error) {
	var c Condominio
	err := row.Scan(&c.ID, &c.UserID, &c.Nome, &c.Morada, &c.CodigoPostal, &c.Cidade, &c.NIF, &c.NFracoes,
		&c.IBAN, &c.Banco, &c.Seguradora, &c.ApoliceSeguro, &c.AnoConstrucao, &c.ImageURL, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Condominio{}, ErrCondominioNotFound
		}
		return Condominio{}, err
	}
	return c, nil
}

const insertCondominio = `INSERT INTO condominio (user_id, nome, morada, codigo_postal, cidade, nif, n_fracoes,
                          iban, banco, seguradora, apolice_seguro, ano_construcao)
          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
          RETURNING ` + condominioColumns

func insertArgs(userID string, in Input) []any {
	return []any{userID, in.Nome, in.Morada, in.CodigoPostal, in.Cidade, in.NIF, in.NFracoes,
		in.IBAN, in.Banco, in.Seguradora, in.ApoliceSeguro, in.AnoConstrucao}
}

func (r *postgresCondominioRepository) CreateCondominio(ctx context.Context, userID string, in Input) (Condominio, error) {
	return scanCondominio(r.pool.QueryRow(ctx, insertCondominio, insertArgs(userID, in)...))
}

// CreateCondominios inserts every row in one transaction.
func (r *postgresCondominioRepository) CreateCondominios(ctx context.Context, userID string, in []Input) ([]Condominio, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	out := make([]Condominio, 0, len(in))
	for i, item := range in {
		c, err := scanCondominio(tx.QueryRow(ctx, insertCondominio, insertArgs(userID, item)...))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		out = append(out, c)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *postgresCondominioRepository) UpdateCondominio(ctx context.Context, userID, id string, p Patch) (Condominio, error) {
	if uuid.Validate(id) != nil {
		return Condominio{}, ErrCondominioNotFound
	}
	query := `UPDATE condominio
              SET nome = COALESCE($1, nome),
                  morada = COALESCE($2, morada),
                  codigo_postal = COALESCE($3, codigo_postal),
                  cidade = COALESCE($4, cidade),
                  nif = COALESCE($5, nif),
                  n_fracoes = COALESCE($6, n_fracoes),
                  iban = COALESCE($7, iban),
                  banco = COALESCE($8, banco),
                  seguradora = COALESCE($9, seguradora),
                  apolice_seguro = COALESCE($10, apolice_seguro),
                  ano_construcao = COALESCE($11, ano_construcao),
                  updated_at = NOW()
              WHERE id = $12 AND user_id = $13
              RETURNING ` + condominioColumns
	return scanCondominio(r.pool.QueryRow(ctx, query, p.Nome, p.Morada, p.CodigoPostal, p.Cidade, p.NIF, p.NFracoes,
		p.IBAN, p.Banco, p.Seguradora, p.ApoliceSeguro, p.AnoConstrucao, id, userID))
}

func (r *postgresCondominioRepository) SetImageURL(ctx context.Context, userID, id, url string) (Condominio, error) {
	if uuid.Validate(id) != nil {
		return Condominio{}, ErrCondominioNotFound
	}
	query := `UPDATE condominio SET image_url = $1, updated_at = NOW()
              WHERE id = $2 AND user_id = $3
              RETURNING ` + condominioColumns
	return scanCondominio(r.pool.QueryRow(ctx, query, url, id, userID))
}

func (r *postgresCondominioRepository) DeleteCondominio(ctx context.Context, userID, id string) error {
	if uuid.Validate(id) != nil {
		return ErrCondominioNotFound
	}
	cmd, err := r.pool.Exec(ctx, "DELETE FROM condominio WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrCondominioNotFound
	}
	return nil
}

func (r *postgresCondominioRepository) GetCondominioByID(ctx context.Context, userID, id string) (Condominio, error) {
	if uuid.Validate(id) != nil {
		return Condominio{}, ErrCondominioNotFound
	}
	query := `SELECT ` + condominioColumns + ` FROM condominio WHERE id = $1 AND user_id = $2`
	return scanCondominio(r.pool.QueryRow(ctx, query, id, userID))
}

func (r *postgresCondominioRepository) ListCondominios(ctx context.Context, userID, search string, limit, offset int) ([]Condominio, int64, error) {
	filter := `WHERE user_id = $1 AND ($2 = '' OR nome ILIKE '%' || $2 || '%' OR morada ILIKE '%' || $2 || '%')`
	query := `SELECT ` + condominioColumns + `
              FROM condominio ` + filter + `
              ORDER BY created_at DESC
              LIMIT $3 OFFSET $4`
	rows, err := r.pool.Query(ctx, query, userID, search, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := make([]Condominio, 0)
	for rows.Next() {
		c, err := scanCondominio(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM condominio `+filter, userID, search).Scan(&total); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *postgresCondominioRepository) ObjectKeys(ctx context.Context, id string) ([]string, error) {
	if uuid.Validate(id) != nil {
		return nil, nil
	}
	query := `SELECT d.object_key FROM documento d JOIN ativo a ON a.id = d.ativo_id WHERE a.condominio_id = $1
              UNION ALL
              SELECT f.object_key FROM foto f JOIN ativo a ON a.id = f.ativo_id WHERE a.condominio_id = $1`
	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}
