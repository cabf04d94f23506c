package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository interface {
	CreateUser(ctx context.Context, u NewUser) (User, error)
	UpdateUser(ctx context.Context, id string, p Profile) (User, error)
	DeleteUser(ctx context.Context, id string) error
	UpdatePasswordHash(ctx context.Context, id, hash string) error
	GetUserByID(ctx context.Context, id string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]User, int64, error)
	// Auth helpers
	GetUserAuthByEmail(ctx context.Context, email string) (string, string, error)
}

type postgresUserRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresUserRepository(pool *pgxpool.Pool) UserRepository {
	return &postgresUserRepository{pool: pool}
}

const userColumns = `id::text, email, primeiro_nome, ultimo_nome, empresa, role, created_at, updated_at`

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.PrimeiroNome, &u.UltimoNome, &u.Empresa, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, err
	}
	return u, nil
}

func (r *postgresUserRepository) CreateUser(ctx context.Context, u NewUser) (User, error) {
	query := `INSERT INTO users (email, password_hash, primeiro_nome, ultimo_nome, empresa, role)
              VALUES ($1, $2, $3, $4, $5, $6)
              RETURNING ` + userColumns
	return scanUser(r.pool.QueryRow(ctx, query, u.Email, u.PasswordHash, u.PrimeiroNome, u.UltimoNome, u.Empresa, u.Role))
}

func (r *postgresUserRepository) UpdateUser(ctx context.Context, id string, p Profile) (User, error) {
	query := `UPDATE users
              SET primeiro_nome = $1, ultimo_nome = $2, empresa = $3,
                  role = COALESCE(NULLIF($4, ''), role), updated_at = NOW()
              WHERE id = $5
              RETURNING ` + userColumns
	return scanUser(r.pool.QueryRow(ctx, query, p.PrimeiroNome, p.UltimoNome, p.Empresa, p.Role, id))
}

func (r *postgresUserRepository) DeleteUser(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *postgresUserRepository) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	cmd, err := r.pool.Exec(ctx, "UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2", hash, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *postgresUserRepository) GetUserByID(ctx context.Context, id string) (User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *postgresUserRepository) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email))
}

func (r *postgresUserRepository) ListUsers(ctx context.Context, limit, offset int) ([]User, int64, error) {
	query := `SELECT ` + userColumns + `
              FROM users
              ORDER BY created_at DESC
              LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := make([]User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM users").Scan(&total); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *postgresUserRepository) GetUserAuthByEmail(ctx context.Context, email string) (string, string, error) {
	var id, hash string
	row := r.pool.QueryRow(ctx, `SELECT id::text, password_hash FROM users WHERE lower(email) = lower($1)`, email)
	if err := row.Scan(&id, &hash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", "", ErrUserNotFound
		}
		return "", "", err
	}
	return id, hash, nil
}
