// Package workers holds the queue consumers run by the worker binary.
package workers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/grindhq/grindd/internal/blocking"
	logpkg "github.com/grindhq/grindd/internal/logger"
	"github.com/grindhq/grindd/internal/queue"
)

// Reblocker consumes deferred re-block jobs. A bypass removes a site from
// the blocklist and enqueues one of these; when the delay elapses the site
// goes back on the list and the active tab is rechecked.
type Reblocker struct {
	engine   *blocking.Engine
	jobQueue queue.JobQueue
	logger   *zap.Logger
}

// NewReblocker creates a re-block consumer
func NewReblocker(engine *blocking.Engine, jobQueue queue.JobQueue, logger *zap.Logger) *Reblocker {
	return &Reblocker{engine: engine, jobQueue: jobQueue, logger: logger}
}

// ProcessJob handles one queue message end to end, including acks
func (r *Reblocker) ProcessJob(ctx context.Context, msg queue.MessageInterface) error {
	job := msg.GetJob()

	if job.IsExpired() {
		r.logger.Warn("reblock_job_expired",
			zap.String("job_id", job.ID.String()),
			zap.String("domain", job.Domain),
		)
		if nackErr := msg.Nack(false); nackErr != nil {
			r.logger.Warn("reblock_job_nack_failed",
				zap.String("job_id", job.ID.String()),
				zap.String("error", logpkg.SanitizeError(nackErr)),
			)
		}
		return nil
	}

	if !job.ShouldProcess() {
		// The bypass window has not elapsed yet. Push the job back through
		// the delayed exchange before acking: if the enqueue fails the
		// delivery goes back to the broker instead of vanishing.
		if enqueueErr := r.jobQueue.Enqueue(ctx, job); enqueueErr != nil {
			r.logger.Error("reblock_job_requeue_failed",
				zap.String("job_id", job.ID.String()),
				zap.String("domain", job.Domain),
				zap.String("error", logpkg.SanitizeError(enqueueErr)),
			)
			if nackErr := msg.Nack(true); nackErr != nil {
				r.logger.Warn("reblock_job_nack_failed",
					zap.String("job_id", job.ID.String()),
					zap.String("error", logpkg.SanitizeError(nackErr)),
				)
			}
			return fmt.Errorf("failed to requeue re-block job: %w", enqueueErr)
		}
		if ackErr := msg.Ack(); ackErr != nil {
			r.logger.Warn("reblock_job_ack_failed",
				zap.String("job_id", job.ID.String()),
				zap.String("error", logpkg.SanitizeError(ackErr)),
			)
		}
		return nil
	}

	if job.Type != queue.JobTypeReblockSite {
		if nackErr := msg.Nack(false); nackErr != nil {
			r.logger.Error("unknown_job_nack_failed",
				zap.String("job_id", job.ID.String()),
				zap.String("job_type", string(job.Type)),
				zap.String("error", logpkg.SanitizeError(nackErr)),
			)
		}
		return fmt.Errorf("unknown job type: %s", job.Type)
	}

	if job.Domain == "" {
		if nackErr := msg.Nack(false); nackErr != nil {
			r.logger.Warn("reblock_job_nack_failed",
				zap.String("job_id", job.ID.String()),
				zap.String("error", logpkg.SanitizeError(nackErr)),
			)
		}
		return fmt.Errorf("re-block job %s has no domain", job.ID)
	}

	added := r.engine.Add(ctx, job.Domain)
	r.logger.Info("site_reblocked",
		zap.String("job_id", job.ID.String()),
		zap.String("domain", job.Domain),
		zap.Bool("added", added),
	)

	if ackErr := msg.Ack(); ackErr != nil {
		return fmt.Errorf("failed to ack re-block job: %w", ackErr)
	}
	return nil
}
