package leads

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type LeadRepository interface {
	CreateLead(ctx context.Context, l Lead) (Lead, error)
}

type postgresLeadRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresLeadRepository(pool *pgxpool.Pool) LeadRepository {
	return &postgresLeadRepository{pool: pool}
}

func (r *postgresLeadRepository) CreateLead(ctx context.Context, l Lead) (Lead, error) {
	query := `INSERT INTO lead (kind, nome, apelido, email, empresa, unidades, tipos_propriedade, funcionalidade)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
              RETURNING id::text, created_at`
	err := r.pool.QueryRow(ctx, query, l.Kind, l.Nome, l.Apelido, l.Email, l.Empresa, l.Unidades, l.TiposPropriedade, l.Funcionalidade).
		Scan(&l.ID, &l.CreatedAt)
	if err != nil {
		return Lead{}, err
	}
	return l, nil
}
