package otp

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrCodeNotFound is returned when no live code exists for an email.
var ErrCodeNotFound = errors.New("code not found")

type CodeRepository interface {
	// RegisterRequest counts a code request and returns how many were made inside window.
	RegisterRequest(ctx context.Context, email string, window time.Duration) (int64, error)
	SaveCode(ctx context.Context, email, code string, ttl time.Duration) error
	GetCode(ctx context.Context, email string) (string, error)
	// IncrementAttempts records a failed verification and returns the running total.
	IncrementAttempts(ctx context.Context, email string) (int64, error)
	DeleteCode(ctx context.Context, email string) error
}

type redisCodeRepository struct {
	client *redis.Client
}

func NewRedisCodeRepository(client *redis.Client) CodeRepository {
	return &redisCodeRepository{client: client}
}

func normalize(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

func codeKey(email string) string     { return "domly:otp:code:" + normalize(email) }
func attemptsKey(email string) string { return "domly:otp:attempts:" + normalize(email) }
func requestsKey(email string) string { return "domly:otp:requests:" + normalize(email) }

func (r *redisCodeRepository) RegisterRequest(ctx context.Context, email string, window time.Duration) (int64, error) {
	return r.incrWithTTL(ctx, requestsKey(email), window)
}

// incrWithTTL bumps a counter and gives it ttl when it has none. A counter left without an
// expiry by an earlier failure gets one on its next increment.
func (r *redisCodeRepository) incrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	left := pipe.TTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	if left.Val() < 0 {
		if err := r.client.Expire(ctx, key, ttl).Err(); err != nil {
			return 0, err
		}
	}
	return incr.Val(), nil
}

func (r *redisCodeRepository) SaveCode(ctx context.Context, email, code string, ttl time.Duration) error {
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, codeKey(email), code, ttl)
	pipe.Del(ctx, attemptsKey(email))
	_, err := pipe.Exec(ctx)
	return err
}

func (r *redisCodeRepository) GetCode(ctx context.Context, email string) (string, error) {
	code, err := r.client.Get(ctx, codeKey(email)).Result()
	if err != nil {
		if err == redis.Nil {
			return "", ErrCodeNotFound
		}
		return "", err
	}
	return code, nil
}

func (r *redisCodeRepository) IncrementAttempts(ctx context.Context, email string) (int64, error) {
	// attempts live as long as the code they count against
	ttl, err := r.client.TTL(ctx, codeKey(email)).Result()
	if err != nil {
		return 0, err
	}
	if ttl <= 0 {
		return 0, ErrCodeNotFound
	}
	return r.incrWithTTL(ctx, attemptsKey(email), ttl)
}

func (r *redisCodeRepository) DeleteCode(ctx context.Context, email string) error {
	return r.client.Del(ctx, codeKey(email), attemptsKey(email)).Err()
}
