package alertas

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrAlertaNotFound = errors.New("alerta not found")

type AlertaRepository interface {
	CreateAlerta(ctx context.Context, ativoID string, in Input) (Alerta, error)
	GetAlertaByID(ctx context.Context, id string) (Alerta, error)
	UpdateEstado(ctx context.Context, id, estado string) (Alerta, error)
	DeleteAlerta(ctx context.Context, id string) error
	ListByAtivo(ctx context.Context, ativoID string) ([]Alerta, error)
	// ListByUser returns every alert under the user's condominios, newest first.
	ListByUser(ctx context.Context, userID string) ([]AlertaView, error)
}

type postgresAlertaRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresAlertaRepository(pool *pgxpool.Pool) AlertaRepository {
	return &postgresAlertaRepository{pool: pool}
}

const alertaColumns = `id::text, ativo_id::text, tipo, titulo, mensagem, estado, data_alerta, created_at`

func scanAlerta(row pgx.Row) (Alerta, error) {
	var a Alerta
	if err := row.Scan(&a.ID, &a.AtivoID, &a.Tipo, &a.Titulo, &a.Mensagem, &a.Estado, &a.DataAlerta, &a.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Alerta{}, ErrAlertaNotFound
		}
		return Alerta{}, err
	}
	return a, nil
}

func (r *postgresAlertaRepository) CreateAlerta(ctx context.Context, ativoID string, in Input) (Alerta, error) {
	query := `INSERT INTO alerta (ativo_id, tipo, titulo, mensagem, estado)
              VALUES ($1, $2, $3, $4, 'pendente')
              RETURNING ` + alertaColumns
	return scanAlerta(r.pool.QueryRow(ctx, query, ativoID, in.Tipo, in.Titulo, in.Mensagem))
}

func (r *postgresAlertaRepository) GetAlertaByID(ctx context.Context, id string) (Alerta, error) {
	if uuid.Validate(id) != nil {
		return Alerta{}, ErrAlertaNotFound
	}
	return scanAlerta(r.pool.QueryRow(ctx, `SELECT `+alertaColumns+` FROM alerta WHERE id = $1`, id))
}

func (r *postgresAlertaRepository) UpdateEstado(ctx context.Context, id, estado string) (Alerta, error) {
	if uuid.Validate(id) != nil {
		return Alerta{}, ErrAlertaNotFound
	}
	query := `UPDATE alerta SET estado = $1 WHERE id = $2 RETURNING ` + alertaColumns
	return scanAlerta(r.pool.QueryRow(ctx, query, estado, id))
}

func (r *postgresAlertaRepository) DeleteAlerta(ctx context.Context, id string) error {
	if uuid.Validate(id) != nil {
		return ErrAlertaNotFound
	}
	cmd, err := r.pool.Exec(ctx, "DELETE FROM alerta WHERE id = $1", id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrAlertaNotFound
	}
	return nil
}

func (r *postgresAlertaRepository) ListByAtivo(ctx context.Context, ativoID string) ([]Alerta, error) {
	query := `SELECT ` + alertaColumns + ` FROM alerta WHERE ativo_id = $1 ORDER BY data_alerta DESC`
	rows, err := r.pool.Query(ctx, query, ativoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]Alerta, 0)
	for rows.Next() {
		a, err := scanAlerta(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func (r *postgresAlertaRepository) ListByUser(ctx context.Context, userID string) ([]AlertaView, error) {
	query := `SELECT al.id::text, al.ativo_id::text, al.tipo, al.titulo, al.mensagem, al.estado, al.data_alerta, al.created_at,
                     a.nome, c.id::text, c.nome
              FROM alerta al
              JOIN ativo a ON a.id = al.ativo_id
              JOIN condominio c ON c.id = a.condominio_id
              WHERE c.user_id = $1
              ORDER BY al.data_alerta DESC`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]AlertaView, 0)
	for rows.Next() {
		var v AlertaView
		if err := rows.Scan(&v.ID, &v.AtivoID, &v.Tipo, &v.Titulo, &v.Mensagem, &v.Estado, &v.DataAlerta, &v.CreatedAt,
			&v.AtivoNome, &v.CondominioID, &v.CondominioNome); err != nil {
			return nil, err
		}
		list = append(list, v)
	}
	return list, rows.Err()
}
