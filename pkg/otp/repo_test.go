package otp

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
)

func setupRepo(t *testing.T) (*miniredis.Miniredis, CodeRepository) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewRedisCodeRepository(client)
}

func TestRedisCodeRepository_SaveGetDelete(t *testing.T) {
	mr, repo := setupRepo(t)
	ctx := context.Background()

	_, err := repo.GetCode(ctx, "ana@x.pt")
	require.ErrorIs(t, err, ErrCodeNotFound)

	require.NoError(t, repo.SaveCode(ctx, " Ana@X.pt ", "123456", 10*time.Minute))
	code, err := repo.GetCode(ctx, "ana@x.pt")
	require.NoError(t, err)
	require.Equal(t, "123456", code)

	mr.FastForward(11 * time.Minute)
	_, err = repo.GetCode(ctx, "ana@x.pt")
	require.ErrorIs(t, err, ErrCodeNotFound)

	require.NoError(t, repo.SaveCode(ctx, "ana@x.pt", "654321", 10*time.Minute))
	require.NoError(t, repo.DeleteCode(ctx, "ana@x.pt"))
	_, err = repo.GetCode(ctx, "ana@x.pt")
	require.ErrorIs(t, err, ErrCodeNotFound)
}

func TestRedisCodeRepository_RegisterRequestWindow(t *testing.T) {
	mr, repo := setupRepo(t)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		n, err := repo.RegisterRequest(ctx, "rui@x.pt", time.Hour)
		require.NoError(t, err)
		require.Equal(t, want, n)
	}

	mr.FastForward(time.Hour + time.Second)
	n, err := repo.RegisterRequest(ctx, "rui@x.pt", time.Hour)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
}

func TestRedisCodeRepository_AttemptsResetOnNewCode(t *testing.T) {
	_, repo := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.SaveCode(ctx, "eva@x.pt", "111111", time.Minute))
	n, err := repo.IncrementAttempts(ctx, "eva@x.pt")
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
	n, err = repo.IncrementAttempts(ctx, "eva@x.pt")
	require.NoError(t, err)
	require.Equal(t, int64(2), n)

	require.NoError(t, repo.SaveCode(ctx, "eva@x.pt", "222222", time.Minute))
	n, err = repo.IncrementAttempts(ctx, "eva@x.pt")
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
}

func TestRedisCodeRepository_CountersAlwaysExpire(t *testing.T) {
	mr, repo := setupRepo(t)
	ctx := context.Background()

	// a counter stranded without an expiry picks one up on the next request
	require.NoError(t, mr.Set(requestsKey("rui@x.pt"), "3"))
	n, err := repo.RegisterRequest(ctx, "rui@x.pt", time.Hour)
	require.NoError(t, err)
	require.Equal(t, int64(4), n)
	require.Equal(t, time.Hour, mr.TTL(requestsKey("rui@x.pt")))

	mr.FastForward(time.Hour + time.Second)
	n, err = repo.RegisterRequest(ctx, "rui@x.pt", time.Hour)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	require.NoError(t, repo.SaveCode(ctx, "rui@x.pt", "123456", 10*time.Minute))
	require.NoError(t, mr.Set(attemptsKey("rui@x.pt"), "1"))
	n, err = repo.IncrementAttempts(ctx, "rui@x.pt")
	require.NoError(t, err)
	require.Equal(t, int64(2), n)
	require.Greater(t, int64(mr.TTL(attemptsKey("rui@x.pt"))), int64(0))

	require.NoError(t, repo.DeleteCode(ctx, "rui@x.pt"))
	_, err = repo.IncrementAttempts(ctx, "rui@x.pt")
	require.ErrorIs(t, err, ErrCodeNotFound)
}
