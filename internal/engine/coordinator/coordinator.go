// Package coordinator composes the gates, cache, repetition guard and model
// invoker into the per-event request policy. Every invocation resolves to
// exactly one of the four terminal outcomes.
package coordinator

import (
	"context"
	"time"

	"replydraft/internal/common/logger"
	"replydraft/internal/common/observability"
	"replydraft/internal/engine/draftcache"
	"replydraft/internal/engine/fingerprint"
	"replydraft/internal/engine/invoker"
	"replydraft/internal/engine/repetition"
	"replydraft/internal/engine/sensitive"
	"replydraft/internal/engine/state"
	"replydraft/internal/engine/throttle"
	"replydraft/internal/engine/turn"
)

type Coordinator struct {
	states   *state.Store
	throttle *throttle.Gate
	cache    draftcache.Cache
	guard    *repetition.Guard
	invoker  *invoker.Invoker
	maxLines int
	logger   logger.Logger
	obs      *observability.Observability
}

func New(
	states *state.Store,
	gate *throttle.Gate,
	cache draftcache.Cache,
	guard *repetition.Guard,
	inv *invoker.Invoker,
	maxTranscriptLines int,
	log logger.Logger,
	obs *observability.Observability,
) *Coordinator {
	return &Coordinator{
		states:   states,
		throttle: gate,
		cache:    cache,
		guard:    guard,
		invoker:  inv,
		maxLines: maxTranscriptLines,
		logger:   log.With(map[string]interface{}{"component": "coordinator"}),
		obs:      obs,
	}
}

// Handle processes one transcript-observed event and returns its terminal
// outcome. All ConversationState mutations for the event's id happen under
// the per-conversation lock; events for different ids run in parallel.
func (c *Coordinator) Handle(ctx context.Context, ev Event) Outcome {
	out := c.handle(ctx, ev)
	if c.obs != nil {
		c.obs.RecordOutcome(ctx, string(out.Action))
	}
	return out
}

func (c *Coordinator) handle(ctx context.Context, ev Event) Outcome {
	log := c.logger.With(map[string]interface{}{"conversationId": ev.ConversationID})

	// The counterparty soliciting a secret always hands off to the human,
	// before throttle or cache can swallow the event.
	lastLine := turn.LastLine(ev.Transcript)
	if sensitive.LooksSensitive(lastLine) {
		log.Info("sensitive request detected, handing off", nil)
		return needsUserOutcome(lastLine)
	}

	conv, release := c.states.Acquire(ev.ConversationID)
	defer release()

	if c.throttle.ShouldThrottle(conv) {
		return waitingOutcome()
	}

	fp := fingerprint.Compute(ev.Transcript, ev.UserContext, c.maxLines)

	if draft, hit, err := c.cache.Get(ctx, fp); err != nil {
		log.WithError(err).Warn("draft cache get failed", nil)
	} else {
		if c.obs != nil {
			c.obs.RecordCacheLookup(ctx, hit)
		}
		if hit {
			conv.LastFingerprint = fp
			return draftOutcome(draft)
		}
	}

	// Same fingerprint as the last processed event and nothing cached:
	// nothing new was said in this conversation, so regenerating would
	// only produce a reply to a state already handled.
	if fp == conv.LastFingerprint {
		return waitingOutcome()
	}

	if !turn.IsAssistantTurn(ev.Transcript) {
		conv.LastFingerprint = fp
		return waitingOutcome()
	}

	// Secrets in the agent-supplied context must not reach the prompt.
	if sensitive.LooksSensitive(ev.UserContext) {
		log.Info("sensitive user context, rejecting request", nil)
		return errorOutcome("user context contains sensitive content and was rejected")
	}

	prompt := buildPrompt(ev.Transcript, ev.UserContext, c.maxLines)

	started := time.Now()
	res, err := c.invoker.Invoke(ctx, prompt)
	if c.obs != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		c.obs.RecordGenerationDuration(ctx, time.Since(started), status)
	}
	if err != nil {
		log.WithError(err).Error("generation failed", nil)
		return errorOutcome(err.Error())
	}

	conv.LastFingerprint = fp

	if res.Waiting {
		return waitingOutcome()
	}

	userLine := turn.LastUserLine(ev.Transcript)

	// The user repeating their previous answer means the assistant is not
	// making progress; remember the question as asked but cede the turn.
	if c.guard.IsStuckLoop(userLine, conv.RecentAnswers.Last()) {
		log.Info("stuck loop detected, ceding turn", nil)
		conv.AskedQuestions.Push(res.Text)
		conv.RecentAnswers.Push(userLine)
		return waitingOutcome()
	}

	// A near-duplicate of an already-asked question is discarded; the user
	// line is still recorded since they did answer something.
	if c.guard.IsDuplicateQuestion(res.Text, conv.AskedQuestions.Items()) {
		log.Info("duplicate question suppressed", nil)
		if userLine != "" {
			conv.RecentAnswers.Push(userLine)
		}
		return waitingOutcome()
	}

	if err := c.cache.Put(ctx, fp, res.Text); err != nil {
		log.WithError(err).Warn("draft cache put failed", nil)
	}

	conv.AskedQuestions.Push(res.Text)
	if userLine != "" {
		conv.RecentAnswers.Push(userLine)
	}

	return draftOutcome(res.Text)
}
