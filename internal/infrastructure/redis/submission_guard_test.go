package redis_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-core/internal/domain"
	"github.com/jhoicas/tienda-core/internal/infrastructure/redis"
)

func newGuard(t *testing.T) (*redis.SubmissionGuard, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return redis.NewSubmissionGuard(client, time.Hour, nil), mr
}

func TestSubmissionGuard_ReplayDevuelveLaMismaVenta(t *testing.T) {
	guard, _ := newGuard(t)
	ctx := context.Background()
	calls := 0
	fn := func(context.Context) (string, error) {
		calls++
		return "sale-1", nil
	}

	id, replayed, err := guard.Do(ctx, "shop-1", "k-1", fn)
	require.NoError(t, err)
	assert.Equal(t, "sale-1", id)
	assert.False(t, replayed)

	id, replayed, err = guard.Do(ctx, "shop-1", "k-1", fn)
	require.NoError(t, err)
	assert.Equal(t, "sale-1", id)
	assert.True(t, replayed)
	assert.Equal(t, 1, calls)
}

func TestSubmissionGuard_ClavesPorTienda(t *testing.T) {
	guard, _ := newGuard(t)
	ctx := context.Background()

	_, _, err := guard.Do(ctx, "shop-1", "k", func(context.Context) (string, error) { return "a", nil })
	require.NoError(t, err)
	id, replayed, err := guard.Do(ctx, "shop-2", "k", func(context.Context) (string, error) { return "b", nil })
	require.NoError(t, err)
	assert.Equal(t, "b", id)
	assert.False(t, replayed)
}

func TestSubmissionGuard_ErrorNoSeRecuerda(t *testing.T) {
	guard, _ := newGuard(t)
	ctx := context.Background()
	boom := errors.New("stock")

	_, _, err := guard.Do(ctx, "shop-1", "k", func(context.Context) (string, error) { return "", boom })
	assert.ErrorIs(t, err, boom)

	id, replayed, err := guard.Do(ctx, "shop-1", "k", func(context.Context) (string, error) { return "sale-2", nil })
	require.NoError(t, err)
	assert.Equal(t, "sale-2", id)
	assert.False(t, replayed)
}

func TestSubmissionGuard_EnvioConcurrenteRechazado(t *testing.T) {
	guard, _ := newGuard(t)
	ctx := context.Background()
	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		_, _, err := guard.Do(ctx, "shop-1", "k", func(context.Context) (string, error) {
			close(started)
			<-release
			return "sale-1", nil
		})
		done <- err
	}()
	<-started

	_, _, err := guard.Do(ctx, "shop-1", "k", func(context.Context) (string, error) { return "sale-x", nil })
	assert.ErrorIs(t, err, domain.ErrDuplicateSubmission)

	close(release)
	require.NoError(t, <-done)
}

func TestSubmissionGuard_ResultadoExpira(t *testing.T) {
	guard, mr := newGuard(t)
	ctx := context.Background()

	_, _, err := guard.Do(ctx, "shop-1", "k", func(context.Context) (string, error) { return "sale-1", nil })
	require.NoError(t, err)
	mr.FastForward(2 * time.Hour)

	id, replayed, err := guard.Do(ctx, "shop-1", "k", func(context.Context) (string, error) { return "sale-2", nil })
	require.NoError(t, err)
	assert.Equal(t, "sale-2", id)
	assert.False(t, replayed)
}
