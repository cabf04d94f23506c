package ativos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrAtivoNotFound = errors.New("ativo not found")

type AtivoRepository interface {
	CreateAtivo(ctx context.Context, a Ativo) (Ativo, error)
	// UpdateAtivo locks the row, lets apply mutate it and writes the result back.
	UpdateAtivo(ctx context.Context, id string, apply func(*Ativo) error) (Ativo, error)
	DeleteAtivo(ctx context.Context, id string) error
	GetAtivoByID(ctx context.Context, id string) (Ativo, error)
	ListByCondominio(ctx context.Context, condominioID string, limit, offset int) ([]Ativo, int64, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Ativo, int64, error)
	// ObjectKeys lists the stored documents and photos of the asset.
	ObjectKeys(ctx context.Context, id string) ([]string, error)
}

type postgresAtivoRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresAtivoRepository(pool *pgxpool.Pool) AtivoRepository {
	return &postgresAtivoRepository{pool: pool}
}

const ativoColumns = `a.id::text, a.condominio_id::text, a.nome, a.categoria, a.marca, a.modelo, a.num_serie,
       a.data_instalacao, a.estado, a.descricao, a.valor::float8, a.localizacao, a.ultima_manutencao,
       a.frequencia_manutencao, a.proxima_manutencao, a.created_at, a.updated_at`

func scanAtivo(row pgx.Row) (Ativo, error) {
	var a Ativo
	err := row.Scan(&a.ID, &a.CondominioID, &a.Nome, &a.Categoria, &a.Marca, &a.Modelo, &a.NumSerie,
		&a.DataInstalacao, &a.Estado, &a.Descricao, &a.Valor, &a.Localizacao, &a.UltimaManutencao,
		&a.FrequenciaManutencao, &a.ProximaManutencao, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Ativo{}, ErrAtivoNotFound
		}
		return Ativo{}, err
	}
	return a, nil
}

func (r *postgresAtivoRepository) CreateAtivo(ctx context.Context, a Ativo) (Ativo, error) {
	query := `INSERT INTO ativo AS a (condominio_id, nome, categoria, marca, modelo, num_serie, data_instalacao, estado,
                                descricao, valor, localizacao, ultima_manutencao, frequencia_manutencao, proxima_manutencao)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
              RETURNING ` + ativoColumns
	return scanAtivo(r.pool.QueryRow(ctx, query, a.CondominioID, a.Nome, a.Categoria, a.Marca, a.Modelo, a.NumSerie,
		a.DataInstalacao, a.Estado, a.Descricao, a.Valor, a.Localizacao, a.UltimaManutencao,
		a.FrequenciaManutencao, a.ProximaManutencao))
}

func (r *postgresAtivoRepository) UpdateAtivo(ctx context.Context, id string, apply func(*Ativo) error) (Ativo, error) {
	if uuid.Validate(id) != nil {
		return Ativo{}, ErrAtivoNotFound
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Ativo{}, err
	}
	defer tx.Rollback(ctx)

	a, err := scanAtivo(tx.QueryRow(ctx, `SELECT `+ativoColumns+` FROM ativo a WHERE a.id = $1 FOR UPDATE`, id))
	if err != nil {
		return Ativo{}, err
	}
	if err := apply(&a); err != nil {
		return Ativo{}, err
	}

	query := `UPDATE ativo AS a
              SET nome = $1, categoria = $2, marca = $3, modelo = $4, num_serie = $5, data_instalacao = $6,
                  estado = $7, descricao = $8, valor = $9, localizacao = $10, ultima_manutencao = $11,
                  frequencia_manutencao = $12, proxima_manutencao = $13, updated_at = NOW()
              WHERE a.id = $14
              RETURNING ` + ativoColumns
	updated, err := scanAtivo(tx.QueryRow(ctx, query, a.Nome, a.Categoria, a.Marca, a.Modelo, a.NumSerie, a.DataInstalacao,
		a.Estado, a.Descricao, a.Valor, a.Localizacao, a.UltimaManutencao, a.FrequenciaManutencao, a.ProximaManutencao, id))
	if err != nil {
		return Ativo{}, err
	}
	return updated, tx.Commit(ctx)
}

func (r *postgresAtivoRepository) DeleteAtivo(ctx context.Context, id string) error {
	if uuid.Validate(id) != nil {
		return ErrAtivoNotFound
	}
	cmd, err := r.pool.Exec(ctx, "DELETE FROM ativo WHERE id = $1", id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrAtivoNotFound
	}
	return nil
}

func (r *postgresAtivoRepository) GetAtivoByID(ctx context.Context, id string) (Ativo, error) {
	if uuid.Validate(id) != nil {
		return Ativo{}, ErrAtivoNotFound
	}
	return scanAtivo(r.pool.QueryRow(ctx, `SELECT `+ativoColumns+` FROM ativo a WHERE a.id = $1`, id))
}

func (r *postgresAtivoRepository) list(ctx context.Context, from, filter string, arg any, limit, offset int) ([]Ativo, int64, error) {
	query := `SELECT ` + ativoColumns + ` ` + from + ` ` + filter + `
              ORDER BY a.nome ASC, a.created_at ASC
              LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, arg, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := make([]Ativo, 0)
	for rows.Next() {
		a, err := scanAtivo(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) `+from+` `+filter, arg).Scan(&total); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *postgresAtivoRepository) ListByCondominio(ctx context.Context, condominioID string, limit, offset int) ([]Ativo, int64, error) {
	return r.list(ctx, `FROM ativo a`, `WHERE a.condominio_id = $1`, condominioID, limit, offset)
}

func (r *postgresAtivoRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Ativo, int64, error) {
	return r.list(ctx, `FROM ativo a JOIN condominio c ON c.id = a.condominio_id`, `WHERE c.user_id = $1`, userID, limit, offset)
}

func (r *postgresAtivoRepository) ObjectKeys(ctx context.Context, id string) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT object_key FROM documento WHERE ativo_id = $1
                                    UNION ALL
                                    SELECT object_key FROM foto WHERE ativo_id = $1`, id)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}
