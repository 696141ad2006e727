package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/tienda-core/internal/application/ports"
	"github.com/jhoicas/tienda-core/internal/domain"
	"github.com/jhoicas/tienda-core/pkg/logger"
)

var _ ports.SubmissionGuard = (*SubmissionGuard)(nil)

const (
	resultPrefix = "tienda:idem:result"
	lockPrefix   = "tienda:idem:lock"

	defaultLockTTL = 30 * time.Second
)

// SubmissionGuard guarda en Redis el id de venta producido por cada Idempotency-Key.
// Mientras la primera petición está en curso la clave queda tomada con un lock distribuido.
type SubmissionGuard struct {
	client  *goredis.Client
	locker  *redislock.Client
	ttl     time.Duration
	lockTTL time.Duration
	log     *logger.Logger
}

// NewSubmissionGuard ttl es el tiempo que se recuerda el resultado de una clave.
func NewSubmissionGuard(client *goredis.Client, ttl time.Duration, log *logger.Logger) *SubmissionGuard {
	if log == nil {
		log = logger.Nop()
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SubmissionGuard{
		client:  client,
		locker:  redislock.New(client),
		ttl:     ttl,
		lockTTL: defaultLockTTL,
		log:     log.Named("submission_guard"),
	}
}

// NewClient crea el cliente y verifica la conexión.
func NewClient(ctx context.Context, addr, password string, db int) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// Do implementa ports.SubmissionGuard.
func (g *SubmissionGuard) Do(ctx context.Context, shopID, key string, fn func(ctx context.Context) (string, error)) (string, bool, error) {
	resultKey := fmt.Sprintf("%s:%s:%s", resultPrefix, shopID, key)

	if saleID, ok, err := g.lookup(ctx, resultKey); err != nil || ok {
		return saleID, ok, err
	}

	lock, err := g.locker.Obtain(ctx, fmt.Sprintf("%s:%s:%s", lockPrefix, shopID, key), g.lockTTL, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		g.log.Warn().Str("shop_id", shopID).Str("key", key).Msg("envío duplicado en curso")
		return "", false, domain.ErrDuplicateSubmission
	}
	if err != nil {
		return "", false, fmt.Errorf("obtain submission lock: %w", err)
	}
	defer func() {
		_ = lock.Release(context.WithoutCancel(ctx))
	}()

	// la primera petición pudo terminar entre la lectura y el lock
	if saleID, ok, err := g.lookup(ctx, resultKey); err != nil || ok {
		return saleID, ok, err
	}

	saleID, err := fn(ctx)
	if err != nil {
		return "", false, err
	}
	if err := g.client.Set(ctx, resultKey, saleID, g.ttl).Err(); err != nil {
		// la venta ya está confirmada; solo se pierde la protección ante reintentos
		g.log.Error().Err(err).Str("sale_id", saleID).Msg("no se pudo guardar el resultado del envío")
	}
	return saleID, false, nil
}

func (g *SubmissionGuard) lookup(ctx context.Context, resultKey string) (string, bool, error) {
	saleID, err := g.client.Get(ctx, resultKey).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get submission result: %w", err)
	}
	return saleID, true, nil
}
