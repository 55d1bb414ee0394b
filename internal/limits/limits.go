// Package limits evaluates per-domain daily time limits: progress pushes to
// the tab's time bar, a once-a-day warning at 90%, and the auto-block
// transition at 100%.
package limits

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/grindhq/grindd/internal/browser"
	"github.com/grindhq/grindd/internal/store"
)

// warning fires in the [90,100) band, the block transition at >=100
const (
	warningThreshold = 90.0
	blockThreshold   = 100.0
)

// Status reports the outcome of one evaluation. JustExceeded is true only on
// the evaluation that crossed 100%, so callers can apply blocking exactly
// once.
type Status struct {
	Limited      bool
	Percentage   float64
	TimeToday    int64 // milliseconds
	LimitMillis  int64
	JustExceeded bool
}

// Evaluator checks a domain's usage against its configured limit
type Evaluator struct {
	store     *store.Store
	messenger browser.Messenger
	notifier  browser.Notifier
	logger    *zap.Logger
}

// NewEvaluator creates an evaluator over the given collaborators
func NewEvaluator(st *store.Store, messenger browser.Messenger, notifier browser.Notifier, logger *zap.Logger) *Evaluator {
	return &Evaluator{store: st, messenger: messenger, notifier: notifier, logger: logger}
}

// notify raises a toast without letting a failure block the state change it
// accompanies.
func (e *Evaluator) notify(ctx context.Context, title, message string) {
	if err := e.notifier.Notify(ctx, title, message); err != nil {
		e.logger.Warn("notification_failed", zap.String("title", title), zap.Error(err))
	}
}

// Evaluate runs one limit check for the domain shown in tabID. No limit or
// no usage record yet means nothing to do. The time-bar push is best-effort;
// threshold transitions fire at most once per day via the usage flags.
func (e *Evaluator) Evaluate(ctx context.Context, domain string, tabID int) Status {
	limitSeconds := e.store.TimeLimit(ctx, domain)
	if limitSeconds <= 0 {
		return Status{}
	}

	usage, ok := e.store.DomainUsage(ctx, domain)
	if !ok {
		return Status{Limited: true, LimitMillis: int64(limitSeconds) * 1000}
	}

	limitMillis := int64(limitSeconds) * 1000
	percentage := float64(usage.TimeToday) / float64(limitMillis) * 100

	status := Status{
		Limited:     true,
		Percentage:  percentage,
		TimeToday:   usage.TimeToday,
		LimitMillis: limitMillis,
	}

	update := browser.TimeBarUpdate{
		Percentage: math.Min(percentage, 100),
		TimeToday:  usage.TimeToday,
		Limit:      limitMillis,
	}
	if err := e.messenger.UpdateTimeBar(ctx, tabID, update); err != nil {
		// The tab closing between lookup and push is an expected race
		if !errors.Is(err, browser.ErrTabNotFound) {
			e.logger.Warn("timebar_update_failed",
				zap.Int("tab_id", tabID),
				zap.String("domain", domain),
				zap.Error(err))
		}
	}

	switch {
	case percentage >= blockThreshold:
		if !e.store.MarkLimitExceeded(ctx, domain) {
			return status
		}
		status.JustExceeded = true

		e.logger.Info("time_limit_exceeded",
			zap.String("domain", domain),
			zap.Int64("time_today_ms", usage.TimeToday),
			zap.Int("limit_seconds", limitSeconds))

		e.store.AddBlockedSite(ctx, domain)
		e.notify(ctx, "Time Limit Reached!",
			fmt.Sprintf("Time's up! You've reached your daily limit for %s", domain))
		e.store.SetFocusBonusEligible(ctx, false)

	case percentage >= warningThreshold:
		if !e.store.MarkWarningShown(ctx, domain) {
			return status
		}
		remainingMinutes := int(math.Ceil(float64(limitMillis-usage.TimeToday) / 60000))
		e.notify(ctx, "Time Warning",
			fmt.Sprintf("%d minutes remaining for %s", remainingMinutes, domain))
	}

	return status
}
