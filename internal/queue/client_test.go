package queue_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"critique/internal/domain"
	"critique/internal/queue"
)

func newClient(t *testing.T) (*queue.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	return queue.NewClient(rdb), mr
}

func TestClient_FIFO(t *testing.T) {
	c, _ := newClient(t)
	ctx := context.Background()

	const n = 20
	for i := 0; i < n; i++ {
		require.NoError(t, c.Push(ctx, queue.VerificationQueue, fmt.Sprintf("user%d@example.com", i)))
	}

	for i := 0; i < n; i++ {
		res, err := c.BlockingPop(ctx, queue.VerificationQueue, 0)
		require.NoError(t, err)
		assert.False(t, res.Empty)
		assert.Equal(t, queue.VerificationQueue, res.Queue)
		assert.Equal(t, fmt.Sprintf("user%d@example.com", i), res.Element)
	}
}

func TestClient_DuplicatesAreKept(t *testing.T) {
	c, _ := newClient(t)
	ctx := context.Background()

	require.NoError(t, c.Push(ctx, queue.VerificationQueue, "user@example.com"))
	require.NoError(t, c.Push(ctx, queue.VerificationQueue, "user@example.com"))

	n, err := c.Len(ctx, queue.VerificationQueue)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	for i := 0; i < 2; i++ {
		res, err := c.BlockingPop(ctx, queue.VerificationQueue, 0)
		require.NoError(t, err)
		assert.Equal(t, "user@example.com", res.Element)
	}
}

func TestClient_PopRemovesElement(t *testing.T) {
	c, mr := newClient(t)
	ctx := context.Background()

	require.NoError(t, c.Push(ctx, queue.WelcomeQueue, `{"email":"a@b.com","name":"Ann"}`))
	_, err := c.BlockingPop(ctx, queue.WelcomeQueue, 0)
	require.NoError(t, err)

	assert.False(t, mr.Exists(queue.WelcomeQueue))
}

func TestClient_BlockingPopTimeout(t *testing.T) {
	c, _ := newClient(t)

	res, err := c.BlockingPop(context.Background(), queue.WelcomeQueue, time.Second)
	require.NoError(t, err)
	assert.True(t, res.Empty)
	assert.Empty(t, res.Element)
}

func TestClient_BlockingPopWaitsForPush(t *testing.T) {
	c, _ := newClient(t)

	go func() {
		time.Sleep(50 * time.Millisecond)
		_ = c.Push(context.Background(), queue.VerificationQueue, "late@example.com")
	}()

	res, err := c.BlockingPop(context.Background(), queue.VerificationQueue, 0)
	require.NoError(t, err)
	assert.Equal(t, "late@example.com", res.Element)
}

func TestClient_ConnectionError(t *testing.T) {
	c, mr := newClient(t)
	mr.Close()
	ctx := context.Background()

	err := c.Push(ctx, queue.VerificationQueue, "user@example.com")
	require.Error(t, err)
	assert.Equal(t, domain.KindConnection, domain.KindOf(err))

	_, err = c.BlockingPop(ctx, queue.VerificationQueue, time.Second)
	require.Error(t, err)
	assert.Equal(t, domain.KindConnection, domain.KindOf(err))

	assert.Equal(t, domain.KindConnection, domain.KindOf(c.Ping(ctx)))
}

func TestClient_BlockingPopCancelled(t *testing.T) {
	c, _ := newClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.BlockingPop(ctx, queue.VerificationQueue, 0)
	assert.ErrorIs(t, err, context.Canceled)
}
