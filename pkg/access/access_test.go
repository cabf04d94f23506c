package access_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"domly/pkg/access"
	"domly/pkg/testhelpers"
)

var errNotFound = errors.New("thing not found")

func TestRequire(t *testing.T) {
	c := testhelpers.OwnerChecker{"c1": "u1"}
	ctx := context.Background()

	require.NoError(t, access.Require(ctx, c, "u1", access.Condominio, "c1", errNotFound))
	require.ErrorIs(t, access.Require(ctx, c, "u2", access.Condominio, "c1", errNotFound), errNotFound)
	require.ErrorIs(t, access.Require(ctx, c, "u1", access.Condominio, "missing", errNotFound), errNotFound)
}

func TestPostgresChecker_Chain(t *testing.T) {
	pool := testhelpers.SetupTestPool(t)
	ctx := context.Background()
	c := access.NewPostgresChecker(pool)

	owner := testhelpers.CreateTestUser(t, pool)
	other := testhelpers.CreateTestUser(t, pool)
	condID := testhelpers.CreateTestCondominio(t, pool, owner)
	ativoID := testhelpers.CreateTestAtivo(t, pool, condID)

	var alertaID string
	require.NoError(t, pool.QueryRow(ctx,
		"INSERT INTO alerta (ativo_id, tipo, titulo) VALUES ($1, 'avaria', 'Porta avariada') RETURNING id::text",
		ativoID).Scan(&alertaID))

	for entity, id := range map[access.Entity]string{access.Condominio: condID, access.Ativo: ativoID, access.Alerta: alertaID} {
		ok, err := c.Owns(ctx, owner, entity, id)
		require.NoError(t, err)
		require.True(t, ok, entity)

		ok, err = c.Owns(ctx, other, entity, id)
		require.NoError(t, err)
		require.False(t, ok, entity)
	}

	ok, err := c.Owns(ctx, owner, access.Ativo, uuid.NewString())
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = c.Owns(ctx, owner, access.Ativo, "not-a-uuid")
	require.NoError(t, err)
	require.False(t, ok)

	_, err = c.Owner(ctx, access.Entity("lead"), condID)
	require.ErrorIs(t, err, access.ErrUnknownEntity)
}
