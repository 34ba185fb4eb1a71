package invoker

import (
	"context"
	stderrs "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"replydraft/internal/common/errors"
	"replydraft/internal/common/logger"
)

// stubGenerator scripts one response per attempt.
type stubGenerator struct {
	attempts  int
	responses []stubResponse
}

type stubResponse struct {
	text string
	err  error
}

func (s *stubGenerator) GenerateReply(_ context.Context, _ string) (string, error) {
	idx := s.attempts
	s.attempts++
	if idx >= len(s.responses) {
		idx = len(s.responses) - 1
	}
	r := s.responses[idx]
	return r.text, r.err
}

// hangingGenerator blocks until the attempt context is cancelled.
type hangingGenerator struct {
	attempts int
}

func (h *hangingGenerator) GenerateReply(ctx context.Context, _ string) (string, error) {
	h.attempts++
	<-ctx.Done()
	return "", ctx.Err()
}

func newTestInvoker(gen Generator, maxAttempts int) (*Invoker, *[]time.Duration) {
	inv := New(gen, Config{
		AttemptTimeout: 50 * time.Millisecond,
		MaxAttempts:    maxAttempts,
		BackoffBase:    1 * time.Second,
	}, logger.NewNoOpLogger())

	var delays []time.Duration
	inv.sleep = func(_ context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}
	return inv, &delays
}

func TestInvoke_SuccessFirstAttempt(t *testing.T) {
	gen := &stubGenerator{responses: []stubResponse{{text: "Here is a draft reply."}}}
	inv, delays := newTestInvoker(gen, 3)

	res, err := inv.Invoke(context.Background(), "prompt")

	assert.NoError(t, err)
	assert.Equal(t, "Here is a draft reply.", res.Text)
	assert.False(t, res.Waiting)
	assert.Equal(t, 1, gen.attempts)
	assert.Empty(t, *delays)
}

func TestInvoke_SentinelResponses(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"waiting upper", "WAITING"},
		{"waiting mixed case", "Waiting"},
		{"empty sentinel", "empty"},
		{"sentinel with whitespace", "  WAITING \n"},
		{"blank response", "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &stubGenerator{responses: []stubResponse{{text: tt.text}}}
			inv, _ := newTestInvoker(gen, 3)

			res, err := inv.Invoke(context.Background(), "prompt")

			assert.NoError(t, err)
			assert.True(t, res.Waiting)
			assert.Empty(t, res.Text)
		})
	}
}

func TestInvoke_RetriesThenSucceeds(t *testing.T) {
	gen := &stubGenerator{responses: []stubResponse{
		{err: errors.NewUpstreamStatusError(502)},
		{err: errors.NewUpstreamStatusError(503)},
		{text: "third time lucky"},
	}}
	inv, delays := newTestInvoker(gen, 3)

	res, err := inv.Invoke(context.Background(), "prompt")

	assert.NoError(t, err)
	assert.Equal(t, "third time lucky", res.Text)
	assert.Equal(t, 3, gen.attempts)
	assert.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second}, *delays)
}

func TestInvoke_ExhaustedRetries(t *testing.T) {
	gen := &stubGenerator{responses: []stubResponse{
		{err: errors.NewUpstreamStatusError(500)},
	}}
	inv, delays := newTestInvoker(gen, 3)

	_, err := inv.Invoke(context.Background(), "prompt")

	assert.Error(t, err)
	assert.Equal(t, errors.ErrCodeExhaustedRetries, errors.CodeOf(err))
	assert.Equal(t, 3, gen.attempts)

	// Strictly increasing backoff: base * attempt index.
	assert.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second}, *delays)

	// The last attempt's failure is carried inside the terminal error.
	var se *errors.StandardError
	assert.True(t, stderrs.As(err, &se))
	assert.Contains(t, se.Details, "status: 500")
}

func TestInvoke_NonRetryableFailsImmediately(t *testing.T) {
	gen := &stubGenerator{responses: []stubResponse{
		{err: errors.NewRequestBuildError(stderrs.New("parse \"http://[bad\": invalid URL"))},
	}}
	inv, delays := newTestInvoker(gen, 3)

	_, err := inv.Invoke(context.Background(), "prompt")

	assert.Error(t, err)
	assert.Equal(t, errors.ErrCodeClientRejection, errors.CodeOf(err))
	// A request that cannot be built fails once, with no backoff.
	assert.Equal(t, 1, gen.attempts)
	assert.Empty(t, *delays)
}

func TestInvoke_TimeoutPerAttempt(t *testing.T) {
	gen := &hangingGenerator{}
	inv, delays := newTestInvoker(gen, 3)

	_, err := inv.Invoke(context.Background(), "prompt")

	assert.Error(t, err)
	assert.Equal(t, errors.ErrCodeExhaustedRetries, errors.CodeOf(err))
	// Exactly the configured number of attempts, never an unbounded loop.
	assert.Equal(t, 3, gen.attempts)
	assert.Len(t, *delays, 2)

	var se *errors.StandardError
	assert.True(t, stderrs.As(err, &se))
	assert.Equal(t, errors.ErrCodeUpstreamTimeout, errors.CodeOf(se.Err))
}

func TestInvoke_ParentCancellationAborts(t *testing.T) {
	gen := &hangingGenerator{}
	inv := New(gen, Config{
		AttemptTimeout: 10 * time.Second,
		MaxAttempts:    3,
		BackoffBase:    1 * time.Second,
	}, logger.NewNoOpLogger())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := inv.Invoke(ctx, "prompt")

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, gen.attempts)
}
