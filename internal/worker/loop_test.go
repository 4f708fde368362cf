package worker_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"critique/internal/domain"
	"critique/internal/email"
	"critique/internal/mqhandler"
	"critique/internal/queue"
	"critique/internal/worker"
)

const eventually = 5 * time.Second

// recordingSender is a provider fake; fail makes the next n sends fail.
type recordingSender struct {
	mu   sync.Mutex
	sent []email.Message
	fail int
}

func (s *recordingSender) Send(_ context.Context, msg email.Message) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail > 0 {
		s.fail--
		return "", errors.New("provider unavailable")
	}
	s.sent = append(s.sent, msg)
	return "msg", nil
}

func (s *recordingSender) recipients() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.sent))
	for _, m := range s.sent {
		out = append(out, m.To[0])
	}
	return out
}

type pipeline struct {
	client *queue.Client
	sender *recordingSender
	logs   *observer.ObservedLogs
}

// outagePopper fails every pop with a connection error while down is set,
// leaving pushed jobs in the store until the outage ends.
type outagePopper struct {
	next worker.Popper
	down atomic.Bool
}

func (o *outagePopper) BlockingPop(ctx context.Context, q string, timeout time.Duration) (queue.PopResult, error) {
	if o.down.Load() {
		return queue.PopResult{}, domain.ConnectionError("queue.BlockingPop", errors.New("connection reset by peer"))
	}
	return o.next.BlockingPop(ctx, q, timeout)
}

func startPipeline(t *testing.T, sender *recordingSender) *pipeline {
	t.Helper()
	return startPipelineWith(t, sender, func(c *queue.Client) worker.Popper { return c })
}

func startPipelineWith(t *testing.T, sender *recordingSender, popper func(*queue.Client) worker.Popper) *pipeline {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	client := queue.NewClient(rdb)
	pop := popper(client)

	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	svc := email.NewService(sender, email.ServiceConfig{
		From:      "noreply@critique.dev",
		ServerURL: "http://localhost:8080",
		JWTSecret: "secret",
	}, logger)

	opts := []worker.Option{worker.WithBackoff(50 * time.Millisecond), worker.WithPopTimeout(time.Second)}
	group := worker.NewGroup(logger,
		worker.NewLoop(queue.VerificationQueue, pop, mqhandler.NewVerificationHandler(svc, logger).Handle, logger, opts...),
		worker.NewLoop(queue.WelcomeQueue, pop, mqhandler.NewWelcomeHandler(svc, logger).Handle, logger, opts...),
	)

	ctx, cancel := context.WithCancel(context.Background())
	group.Start(ctx)
	t.Cleanup(func() {
		cancel()
		group.Wait()
		_ = rdb.Close()
	})

	return &pipeline{client: client, sender: sender, logs: logs}
}

func (p *pipeline) push(t *testing.T, q, payload string) {
	t.Helper()
	require.NoError(t, p.client.Push(context.Background(), q, payload))
}

func TestPipeline_VerificationEmailSent(t *testing.T) {
	p := startPipeline(t, &recordingSender{})

	p.push(t, queue.VerificationQueue, "user@example.com")

	assert.Eventually(t, func() bool {
		return len(p.sender.recipients()) == 1
	}, eventually, 10*time.Millisecond)
	assert.Equal(t, []string{"user@example.com"}, p.sender.recipients())
	assert.Eventually(t, func() bool {
		return p.logs.FilterMessage("Email sent successfully").Len() == 1
	}, eventually, 10*time.Millisecond)
}

func TestPipeline_ProviderFailureThenNextJob(t *testing.T) {
	p := startPipeline(t, &recordingSender{fail: 1})

	p.push(t, queue.VerificationQueue, "first@example.com")
	p.push(t, queue.VerificationQueue, "second@example.com")

	assert.Eventually(t, func() bool {
		return len(p.sender.recipients()) == 1
	}, eventually, 10*time.Millisecond)
	assert.Equal(t, []string{"second@example.com"}, p.sender.recipients())

	failed := p.logs.FilterMessage("Job failed, dropped").All()
	require.Len(t, failed, 1)
	assert.Equal(t, "dispatch", failed[0].ContextMap()["error_kind"])
}

func TestPipeline_WelcomeEmailSent(t *testing.T) {
	p := startPipeline(t, &recordingSender{})

	p.push(t, queue.WelcomeQueue, `{"email":"a@b.com","name":"Ann"}`)

	assert.Eventually(t, func() bool {
		return len(p.sender.recipients()) == 1
	}, eventually, 10*time.Millisecond)
	assert.Equal(t, "a@b.com", p.sender.recipients()[0])
	p.sender.mu.Lock()
	assert.Contains(t, p.sender.sent[0].HTML, "Hello Ann,")
	p.sender.mu.Unlock()
}

func TestPipeline_PoisonMessagesDoNotBlockQueue(t *testing.T) {
	p := startPipeline(t, &recordingSender{})

	p.push(t, queue.WelcomeQueue, `{"email":"","name":"Ann"}`)
	p.push(t, queue.WelcomeQueue, `not-json`)
	p.push(t, queue.VerificationQueue, "")
	p.push(t, queue.WelcomeQueue, `{"email":"ok@b.com","name":"Bob"}`)
	p.push(t, queue.VerificationQueue, "ok@example.com")

	assert.Eventually(t, func() bool {
		return len(p.sender.recipients()) == 2
	}, eventually, 10*time.Millisecond)
	assert.ElementsMatch(t, []string{"ok@b.com", "ok@example.com"}, p.sender.recipients())

	kinds := map[string]int{}
	for _, e := range p.logs.FilterMessage("Job failed, dropped").All() {
		kinds[e.ContextMap()["error_kind"].(string)]++
	}
	assert.Equal(t, map[string]int{"validation": 2, "parse": 1}, kinds)
}

func TestPipeline_DuplicatePayloadSentTwice(t *testing.T) {
	p := startPipeline(t, &recordingSender{})

	p.push(t, queue.VerificationQueue, "user@example.com")
	p.push(t, queue.VerificationQueue, "user@example.com")

	assert.Eventually(t, func() bool {
		return len(p.sender.recipients()) == 2
	}, eventually, 10*time.Millisecond)
}

func TestPipeline_ResumesAfterConnectionLoss(t *testing.T) {
	outage := &outagePopper{}
	p := startPipelineWith(t, &recordingSender{}, func(c *queue.Client) worker.Popper {
		outage.next = c
		return outage
	})

	p.push(t, queue.VerificationQueue, "before@example.com")
	require.Eventually(t, func() bool {
		return len(p.sender.recipients()) == 1
	}, eventually, 10*time.Millisecond)

	outage.down.Store(true)
	popErrors := func() int {
		n := 0
		for _, e := range p.logs.FilterMessage("Error popping from queue, backing off").All() {
			if e.ContextMap()["queue"] == queue.VerificationQueue {
				n++
			}
		}
		return n
	}
	// An in-flight pop may still complete; only push once the loop has seen the outage.
	require.Eventually(t, func() bool { return popErrors() >= 1 }, eventually, 10*time.Millisecond)

	p.push(t, queue.VerificationQueue, "during@example.com")
	seen := popErrors()
	require.Eventually(t, func() bool { return popErrors() >= seen+2 }, eventually, 10*time.Millisecond)
	assert.Equal(t, []string{"before@example.com"}, p.sender.recipients())

	for _, e := range p.logs.FilterMessage("Error popping from queue, backing off").All() {
		assert.Equal(t, "connection", e.ContextMap()["error_kind"])
	}

	outage.down.Store(false)
	// The queued job is picked up within a backoff interval (50ms) of the store returning.
	require.Eventually(t, func() bool {
		return len(p.sender.recipients()) == 2
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, "during@example.com", p.sender.recipients()[1])

	p.push(t, queue.VerificationQueue, "after@example.com")
	assert.Eventually(t, func() bool {
		return len(p.sender.recipients()) == 3
	}, eventually, 10*time.Millisecond)
}

// Loop independence: a stuck verification handler must not delay welcome jobs.
func TestGroup_LoopsAreIndependent(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	client := queue.NewClient(rdb)

	release := make(chan struct{})
	var welcomed atomic.Int32

	stuck := func(ctx context.Context, _ string) error {
		<-release
		return nil
	}
	welcome := func(ctx context.Context, _ string) error {
		welcomed.Add(1)
		return nil
	}

	opts := []worker.Option{worker.WithPopTimeout(time.Second)}
	verifyLoop := worker.NewLoop(queue.VerificationQueue, client, stuck, zap.NewNop(), opts...)
	welcomeLoop := worker.NewLoop(queue.WelcomeQueue, client, welcome, zap.NewNop(), opts...)
	group := worker.NewGroup(zap.NewNop(), verifyLoop, welcomeLoop)

	ctx, cancel := context.WithCancel(context.Background())
	group.Start(ctx)

	ctxBg := context.Background()
	require.NoError(t, client.Push(ctxBg, queue.VerificationQueue, "stuck@example.com"))
	require.Eventually(t, func() bool { return verifyLoop.State() == worker.StateProcessing }, eventually, 5*time.Millisecond)

	for i := 0; i < 3; i++ {
		require.NoError(t, client.Push(ctxBg, queue.WelcomeQueue, `{"email":"a@b.com","name":"Ann"}`))
	}
	assert.Eventually(t, func() bool { return welcomed.Load() == 3 }, eventually, 5*time.Millisecond)

	close(release)
	cancel()
	group.Wait()
	assert.Equal(t, worker.StateStopped, verifyLoop.State())
	assert.Equal(t, worker.StateStopped, welcomeLoop.State())
}

type scriptedPopper struct {
	mu      sync.Mutex
	results []popStep
}

type popStep struct {
	res queue.PopResult
	err error
}

func (p *scriptedPopper) BlockingPop(ctx context.Context, q string, _ time.Duration) (queue.PopResult, error) {
	p.mu.Lock()
	if len(p.results) > 0 {
		step := p.results[0]
		p.results = p.results[1:]
		p.mu.Unlock()
		return step.res, step.err
	}
	p.mu.Unlock()
	<-ctx.Done()
	return queue.PopResult{}, ctx.Err()
}

func TestLoop_BacksOffOnPopErrorAndContinues(t *testing.T) {
	connErr := domain.ConnectionError("queue.BlockingPop", errors.New("connection reset"))
	popper := &scriptedPopper{results: []popStep{
		{err: connErr},
		{err: connErr},
		{res: queue.PopResult{Empty: true}},
		{res: queue.PopResult{Queue: "q", Element: "job-1"}},
	}}

	core, logs := observer.New(zap.InfoLevel)
	var handled []string
	var mu sync.Mutex
	handler := func(_ context.Context, e string) error {
		mu.Lock()
		handled = append(handled, e)
		mu.Unlock()
		return nil
	}

	backoff := 30 * time.Millisecond
	loop := worker.NewLoop("q", popper, handler, zap.New(core), worker.WithBackoff(backoff))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	start := time.Now()
	done := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(handled) == 1
	}, eventually, 5*time.Millisecond)
	assert.GreaterOrEqual(t, time.Since(start), 2*backoff)

	errs := logs.FilterMessage("Error popping from queue, backing off").All()
	require.Len(t, errs, 2)
	assert.Equal(t, "connection", errs[0].ContextMap()["error_kind"])

	cancel()
	<-done
	assert.Equal(t, worker.StateStopped, loop.State())
}

func TestLoop_RecoversFromHandlerPanic(t *testing.T) {
	popper := &scriptedPopper{results: []popStep{
		{res: queue.PopResult{Element: "boom"}},
		{res: queue.PopResult{Element: "fine"}},
	}}

	var handled atomic.Int32
	handler := func(_ context.Context, e string) error {
		if e == "boom" {
			panic("handler exploded")
		}
		handled.Add(1)
		return nil
	}

	core, logs := observer.New(zap.InfoLevel)
	loop := worker.NewLoop("q", popper, handler, zap.New(core))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return handled.Load() == 1 }, eventually, 5*time.Millisecond)
	assert.Equal(t, 1, logs.FilterMessage("Handler panic recovered, job dropped").Len())

	cancel()
	<-done
}

func TestLoop_StopsDuringBackoff(t *testing.T) {
	popper := &scriptedPopper{results: []popStep{
		{err: domain.ConnectionError("op", errors.New("down"))},
	}}
	loop := worker.NewLoop("q", popper, func(context.Context, string) error { return nil }, zap.NewNop(),
		worker.WithBackoff(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("loop did not stop while backing off")
	}
}

func TestLoop_InFlightJobSurvivesCancel(t *testing.T) {
	popper := &scriptedPopper{results: []popStep{{res: queue.PopResult{Element: "job"}}}}

	started := make(chan struct{})
	finish := make(chan struct{})
	var sawCancel atomic.Bool
	handler := func(ctx context.Context, _ string) error {
		close(started)
		<-finish
		sawCancel.Store(ctx.Err() != nil)
		return nil
	}

	loop := worker.NewLoop("q", popper, handler, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(done)
	}()

	<-started
	cancel()
	close(finish)
	<-done

	assert.False(t, sawCancel.Load())
}

type timeoutRecorder struct {
	seen chan time.Duration
}

func (r *timeoutRecorder) BlockingPop(ctx context.Context, _ string, timeout time.Duration) (queue.PopResult, error) {
	select {
	case r.seen <- timeout:
	default:
	}
	select {
	case <-ctx.Done():
		return queue.PopResult{}, ctx.Err()
	case <-time.After(5 * time.Millisecond):
		return queue.PopResult{Empty: true}, nil
	}
}

func TestLoop_DefaultPopTimeoutIsBounded(t *testing.T) {
	rec := &timeoutRecorder{seen: make(chan time.Duration, 1)}
	loop := worker.NewLoop("q", rec, func(context.Context, string) error { return nil }, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(done)
	}()

	assert.Equal(t, worker.DefaultPopTimeout, <-rec.seen)
	assert.Greater(t, worker.DefaultPopTimeout, time.Duration(0))

	// Empty results re-enter the wait rather than stopping the loop.
	assert.Equal(t, worker.DefaultPopTimeout, <-rec.seen)
	assert.Equal(t, worker.StateWaiting, loop.State())
	cancel()
	<-done
	assert.Equal(t, worker.StateStopped, loop.State())
}
