package manutencoes

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"domly/pkg/date"
)

var ErrManutencaoNotFound = errors.New("manutencao not found")

type ManutencaoRepository interface {
	// CreateManutencao inserts the record; a completed one also advances the asset's schedule.
	CreateManutencao(ctx context.Context, in Input) (Manutencao, error)
	UpdateManutencao(ctx context.Context, id string, in Input) (Manutencao, error)
	DeleteManutencao(ctx context.Context, id string) error
	GetManutencaoByID(ctx context.Context, id string) (Manutencao, error)
	ListByAtivo(ctx context.Context, ativoID string) ([]Manutencao, error)
	ListByUser(ctx context.Context, userID string) ([]ManutencaoView, error)
}

type postgresManutencaoRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresManutencaoRepository(pool *pgxpool.Pool) ManutencaoRepository {
	return &postgresManutencaoRepository{pool: pool}
}

const manutencaoColumns = `id::text, ativo_id::text, descricao, data_agendada, data_conclusao, custo::float8, estado, tipo, created_at, updated_at`

func scanManutencao(row pgx.Row) (Manutencao, error) {
	var m Manutencao
	err := row.Scan(&m.ID, &m.AtivoID, &m.Descricao, &m.DataAgendada, &m.DataConclusao, &m.Custo, &m.Estado, &m.Tipo, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Manutencao{}, ErrManutencaoNotFound
		}
		return Manutencao{}, err
	}
	return m, nil
}

// advanceSchedule moves the asset's ultima_manutencao forward to done and re-derives the next date.
// Older completions leave the schedule untouched.
func advanceSchedule(ctx context.Context, tx pgx.Tx, ativoID string, done date.Date) error {
	var ultima *date.Date
	var frequencia int
	err := tx.QueryRow(ctx,
		`SELECT ultima_manutencao, frequencia_manutencao FROM ativo WHERE id = $1 FOR UPDATE`, ativoID).
		Scan(&ultima, &frequencia)
	if err != nil {
		return err
	}
	if ultima != nil && done.Before(*ultima) {
		return nil
	}
	proxima := done.AddMonths(frequencia)
	_, err = tx.Exec(ctx,
		`UPDATE ativo SET ultima_manutencao = $1, proxima_manutencao = $2, updated_at = NOW() WHERE id = $3`,
		done, proxima, ativoID)
	return err
}

func (r *postgresManutencaoRepository) CreateManutencao(ctx context.Context, in Input) (Manutencao, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Manutencao{}, err
	}
	defer tx.Rollback(ctx)

	query := `INSERT INTO manutencao (ativo_id, descricao, data_agendada, data_conclusao, custo, estado, tipo)
              VALUES ($1, $2, $3, $4, $5, $6, $7)
              RETURNING ` + manutencaoColumns
	m, err := scanManutencao(tx.QueryRow(ctx, query, in.AtivoID, in.Descricao, in.DataAgendada, in.DataConclusao, in.Custo, in.Estado, in.Tipo))
	if err != nil {
		return Manutencao{}, err
	}
	if done, ok := in.Completed(); ok {
		if err := advanceSchedule(ctx, tx, in.AtivoID, done); err != nil {
			return Manutencao{}, err
		}
	}
	return m, tx.Commit(ctx)
}

func (r *postgresManutencaoRepository) UpdateManutencao(ctx context.Context, id string, in Input) (Manutencao, error) {
	if uuid.Validate(id) != nil {
		return Manutencao{}, ErrManutencaoNotFound
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Manutencao{}, err
	}
	defer tx.Rollback(ctx)

	query := `UPDATE manutencao
              SET descricao = $1, data_agendada = $2, data_conclusao = $3, custo = $4, estado = $5, tipo = $6, updated_at = NOW()
              WHERE id = $7
              RETURNING ` + manutencaoColumns
	m, err := scanManutencao(tx.QueryRow(ctx, query, in.Descricao, in.DataAgendada, in.DataConclusao, in.Custo, in.Estado, in.Tipo, id))
	if err != nil {
		return Manutencao{}, err
	}
	if done, ok := in.Completed(); ok {
		if err := advanceSchedule(ctx, tx, m.AtivoID, done); err != nil {
			return Manutencao{}, err
		}
	}
	return m, tx.Commit(ctx)
}

func (r *postgresManutencaoRepository) DeleteManutencao(ctx context.Context, id string) error {
	if uuid.Validate(id) != nil {
		return ErrManutencaoNotFound
	}
	cmd, err := r.pool.Exec(ctx, "DELETE FROM manutencao WHERE id = $1", id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrManutencaoNotFound
	}
	return nil
}

func (r *postgresManutencaoRepository) GetManutencaoByID(ctx context.Context, id string) (Manutencao, error) {
	if uuid.Validate(id) != nil {
		return Manutencao{}, ErrManutencaoNotFound
	}
	return scanManutencao(r.pool.QueryRow(ctx, `SELECT `+manutencaoColumns+` FROM manutencao WHERE id = $1`, id))
}

func (r *postgresManutencaoRepository) ListByAtivo(ctx context.Context, ativoID string) ([]Manutencao, error) {
	query := `SELECT ` + manutencaoColumns + ` FROM manutencao WHERE ativo_id = $1 ORDER BY data_agendada DESC`
	rows, err := r.pool.Query(ctx, query, ativoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]Manutencao, 0)
	for rows.Next() {
		m, err := scanManutencao(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func (r *postgresManutencaoRepository) ListByUser(ctx context.Context, userID string) ([]ManutencaoView, error) {
	query := `SELECT m.id::text, m.ativo_id::text, m.descricao, m.data_agendada, m.data_conclusao, m.custo::float8,
                     m.estado, m.tipo, m.created_at, m.updated_at, a.nome, a.condominio_id::text
              FROM manutencao m
              JOIN ativo a ON a.id = m.ativo_id
              JOIN condominio c ON c.id = a.condominio_id
              WHERE c.user_id = $1
              ORDER BY m.data_agendada ASC`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]ManutencaoView, 0)
	for rows.Next() {
		var v ManutencaoView
		if err := rows.Scan(&v.ID, &v.AtivoID, &v.Descricao, &v.DataAgendada, &v.DataConclusao, &v.Custo,
			&v.Estado, &v.Tipo, &v.CreatedAt, &v.UpdatedAt, &v.AtivoNome, &v.CondominioID); err != nil {
			return nil, err
		}
		list = append(list, v)
	}
	return list, rows.Err()
}
