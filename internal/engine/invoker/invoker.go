// Package invoker wraps the opaque reply generator with per-attempt
// timeouts, a bounded retry count and exponential backoff.
package invoker

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"replydraft/internal/common/errors"
	"replydraft/internal/common/logger"
)

// Generator is the opaque upstream model call.
type Generator interface {
	GenerateReply(ctx context.Context, prompt string) (string, error)
}

// Result is a successful invocation. Waiting is set when the model returned
// the WAITING/EMPTY sentinel or an empty reply: a first-class "nothing to
// add", not a draft.
type Result struct {
	Text    string
	Waiting bool
}

type Config struct {
	AttemptTimeout time.Duration // hard bound per upstream attempt
	MaxAttempts    int           // total attempts, not additional retries
	BackoffBase    time.Duration // delay before attempt n+1 is base * n
}

type Invoker struct {
	gen    Generator
	cfg    Config
	logger logger.Logger

	// sleep is replaceable in tests; it honors ctx cancellation.
	sleep func(ctx context.Context, d time.Duration) error
}

func New(gen Generator, cfg Config, log logger.Logger) *Invoker {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &Invoker{
		gen:    gen,
		cfg:    cfg,
		logger: log.With(map[string]interface{}{"component": "invoker"}),
		sleep:  sleepCtx,
	}
}

// Invoke runs the generator until one attempt succeeds, a non-retryable
// failure surfaces, or the budget is exhausted. The final attempt's failure
// is surfaced inside the ExhaustedRetries error. Cancelling ctx aborts
// in-flight work immediately;
// nothing keeps running for an abandoned request.
func (inv *Invoker) Invoke(ctx context.Context, prompt string) (Result, error) {
	var lastErr error

	for attempt := 1; attempt <= inv.cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		text, err := inv.attempt(ctx, prompt, attempt)
		if err == nil {
			return toResult(text), nil
		}
		if ctx.Err() != nil {
			// The owning request was abandoned; don't burn retries.
			return Result{}, ctx.Err()
		}

		lastErr = err
		inv.logger.Warn("generation attempt failed", map[string]interface{}{
			"attempt":     attempt,
			"maxAttempts": inv.cfg.MaxAttempts,
			"error":       err.Error(),
		})

		// Non-retryable failures (e.g. the request could not be built) fail
		// the invocation outright instead of burning the retry budget.
		if !errors.IsRetryable(err) {
			return Result{}, err
		}

		if attempt < inv.cfg.MaxAttempts {
			backoff := inv.cfg.BackoffBase * time.Duration(attempt)
			if err := inv.sleep(ctx, backoff); err != nil {
				return Result{}, err
			}
		}
	}

	return Result{}, errors.NewExhaustedRetriesError(inv.cfg.MaxAttempts, lastErr)
}

func (inv *Invoker) attempt(ctx context.Context, prompt string, attempt int) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, inv.cfg.AttemptTimeout)
	defer cancel()

	text, err := inv.gen.GenerateReply(attemptCtx, prompt)
	if err != nil {
		if stderrors.Is(attemptCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return "", errors.NewUpstreamTimeoutError(attempt)
		}
		if errors.CodeOf(err) != "" {
			return "", err
		}
		return "", errors.NewUpstreamError(err)
	}
	return text, nil
}

func toResult(text string) Result {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || strings.EqualFold(trimmed, "WAITING") || strings.EqualFold(trimmed, "EMPTY") {
		return Result{Waiting: true}
	}
	return Result{Text: trimmed}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
