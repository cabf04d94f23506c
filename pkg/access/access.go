// Package access answers "may this user touch that row" for every entity hanging off a condominio.
package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Entity string

const (
	Condominio Entity = "condominio"
	Ativo      Entity = "ativo"
	Alerta     Entity = "alerta"
	Manutencao Entity = "manutencao"
	Documento  Entity = "documento"
	Foto       Entity = "foto"
)

// ErrUnknownEntity is returned for an Entity with no ownership query.
var ErrUnknownEntity = errors.New("unknown entity")

// ownerQueries resolve the owning user id of a row.
var ownerQueries = map[Entity]string{
	Condominio: `SELECT c.user_id::text FROM condominio c WHERE c.id = $1`,
	Ativo: `SELECT c.user_id::text FROM ativo a
              JOIN condominio c ON c.id = a.condominio_id WHERE a.id = $1`,
	Alerta: `SELECT c.user_id::text FROM alerta al
              JOIN ativo a ON a.id = al.ativo_id
              JOIN condominio c ON c.id = a.condominio_id WHERE al.id = $1`,
	Manutencao: `SELECT c.user_id::text FROM manutencao m
              JOIN ativo a ON a.id = m.ativo_id
              JOIN condominio c ON c.id = a.condominio_id WHERE m.id = $1`,
	Documento: `SELECT c.user_id::text FROM documento d
              JOIN ativo a ON a.id = d.ativo_id
              JOIN condominio c ON c.id = a.condominio_id WHERE d.id = $1`,
	Foto: `SELECT c.user_id::text FROM foto f
              JOIN ativo a ON a.id = f.ativo_id
              JOIN condominio c ON c.id = a.condominio_id WHERE f.id = $1`,
}

// Checker reports ownership. Owns returns false (not an error) for missing rows and malformed ids,
// so callers can surface both cases as their own not-found error.
type Checker interface {
	Owns(ctx context.Context, userID string, entity Entity, id string) (bool, error)
	Owner(ctx context.Context, entity Entity, id string) (string, error)
}

type postgresChecker struct {
	pool *pgxpool.Pool
}

func NewPostgresChecker(pool *pgxpool.Pool) Checker {
	return &postgresChecker{pool: pool}
}

// Owner returns the owning user id, or "" when the row does not exist.
func (c *postgresChecker) Owner(ctx context.Context, entity Entity, id string) (string, error) {
	query, ok := ownerQueries[entity]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownEntity, entity)
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", nil
	}
	var owner string
	if err := c.pool.QueryRow(ctx, query, id).Scan(&owner); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return owner, nil
}

func (c *postgresChecker) Owns(ctx context.Context, userID string, entity Entity, id string) (bool, error) {
	owner, err := c.Owner(ctx, entity, id)
	if err != nil {
		return false, err
	}
	return owner != "" && owner == userID, nil
}

// Require maps "not owned" to notFound and passes other errors through.
func Require(ctx context.Context, c Checker, userID string, entity Entity, id string, notFound error) error {
	ok, err := c.Owns(ctx, userID, entity, id)
	if err != nil {
		return err
	}
	if !ok {
		return notFound
	}
	return nil
}
