package testhelpers

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"domly/pkg/db"
)

var uniqueCounter int64

func nextSuffix() int64 {
	return atomic.AddInt64(&uniqueCounter, 1)
}

// SetupTestPool connects to DATABASE_URL_FOR_TEST and applies migrations, skipping the test when unset.
func SetupTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("DATABASE_URL_FOR_TEST")
	if dsn == "" {
		t.Skip("DATABASE_URL_FOR_TEST not set; skipping repository tests")
	}

	ctx := context.Background()
	cfg, err := pgxpool.ParseConfig(dsn)
	require.NoError(t, err)

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, pool.Ping(ctx))
	require.NoError(t, db.Migrate(pool))

	t.Cleanup(pool.Close)
	return pool
}

// CreateTestUser inserts a minimal valid user row and returns its ID.
func CreateTestUser(t *testing.T, pool *pgxpool.Pool) string {
	t.Helper()

	ctx := context.Background()
	email := fmt.Sprintf("test-user-%d-%d@example.com", os.Getpid(), nextSuffix())

	var id string
	err := pool.QueryRow(ctx,
		"INSERT INTO users (email, password_hash, primeiro_nome, ultimo_nome) VALUES ($1, 'hash', 'Teste', 'Utilizador') RETURNING id::text",
		email).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateTestCondominio inserts a condominio for the given owner and returns its ID.
func CreateTestCondominio(t *testing.T, pool *pgxpool.Pool, userID string) string {
	t.Helper()

	ctx := context.Background()
	nome := fmt.Sprintf("Condomínio Teste %d", nextSuffix())

	var id string
	err := pool.QueryRow(ctx,
		`INSERT INTO condominio (user_id, nome, morada, codigo_postal, cidade, nif)
		 VALUES ($1, $2, 'Rua Teste 1', '1000-001', 'Lisboa', 123456789) RETURNING id::text`,
		userID, nome).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateTestAtivo inserts an asset in good condition for the given condominio and returns its ID.
func CreateTestAtivo(t *testing.T, pool *pgxpool.Pool, condominioID string) string {
	t.Helper()

	ctx := context.Background()
	nome := fmt.Sprintf("Elevador %d", nextSuffix())

	var id string
	err := pool.QueryRow(ctx,
		"INSERT INTO ativo (condominio_id, nome, categoria, estado) VALUES ($1, $2, 'Elevadores', 'bom') RETURNING id::text",
		condominioID, nome).Scan(&id)
	require.NoError(t, err)
	return id
}
