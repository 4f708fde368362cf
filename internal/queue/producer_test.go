package queue_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"critique/internal/domain"
	"critique/internal/queue"
)

type fakePusher struct {
	pushed map[string][]string
	err    error
}

func (f *fakePusher) Push(_ context.Context, q, payload string) error {
	if f.err != nil {
		return f.err
	}
	if f.pushed == nil {
		f.pushed = make(map[string][]string)
	}
	f.pushed[q] = append(f.pushed[q], payload)
	return nil
}

func TestProducer_EnqueueVerification(t *testing.T) {
	p := &fakePusher{}
	prod := queue.NewProducer(p, zap.NewNop())

	require.NoError(t, prod.EnqueueVerification(context.Background(), "user@example.com"))
	assert.Equal(t, []string{"user@example.com"}, p.pushed[queue.VerificationQueue])
}

func TestProducer_EnqueueWelcome(t *testing.T) {
	p := &fakePusher{}
	prod := queue.NewProducer(p, zap.NewNop())

	require.NoError(t, prod.EnqueueWelcome(context.Background(), "a@b.com", "Ann"))
	require.Len(t, p.pushed[queue.WelcomeQueue], 1)
	assert.JSONEq(t, `{"email":"a@b.com","name":"Ann"}`, p.pushed[queue.WelcomeQueue][0])
}

func TestProducer_PushFailurePropagates(t *testing.T) {
	cause := domain.ConnectionError("queue.Push", errors.New("connection refused"))
	prod := queue.NewProducer(&fakePusher{err: cause}, zap.NewNop())

	err := prod.EnqueueVerification(context.Background(), "user@example.com")
	assert.Equal(t, domain.KindConnection, domain.KindOf(err))

	err = prod.EnqueueWelcome(context.Background(), "a@b.com", "Ann")
	assert.Equal(t, domain.KindConnection, domain.KindOf(err))
}

func TestDecodeWelcomeJob(t *testing.T) {
	job, err := queue.DecodeWelcomeJob(`{"email":"a@b.com","name":"Ann"}`)
	require.NoError(t, err)
	assert.Equal(t, queue.WelcomeJob{Email: "a@b.com", Name: "Ann"}, job)

	job, err = queue.DecodeWelcomeJob(`{"name":"Ann"}`)
	require.NoError(t, err)
	assert.Empty(t, job.Email)

	_, err = queue.DecodeWelcomeJob(`not json`)
	assert.Equal(t, domain.KindParse, domain.KindOf(err))
}
