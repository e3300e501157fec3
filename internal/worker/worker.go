package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/roemah-nenek/undangan/pkg/queue"
	"github.com/roemah-nenek/undangan/pkg/storage"
)

// ObjectDeleter removes every stored object under a key prefix.
type ObjectDeleter interface {
	DeletePrefix(ctx context.Context, prefix string) (int, error)
}

// JobSource is the queue the processor consumes.
type JobSource interface {
	Dequeue(ctx context.Context) (*queue.Job, error)
	Retry(ctx context.Context, job *queue.Job) error
}

// MediaCleanupProcessor deletes the uploaded media of deleted invitations.
type MediaCleanupProcessor struct {
	objects ObjectDeleter
	queue   JobSource
	backoff time.Duration
	logger  *zap.Logger
}

// NewMediaCleanupProcessor creates a media cleanup processor.
func NewMediaCleanupProcessor(objects ObjectDeleter, q JobSource, logger *zap.Logger) *MediaCleanupProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MediaCleanupProcessor{objects: objects, queue: q, backoff: queue.RetryBackoff, logger: logger}
}

// Process executes one media cleanup job.
func (p *MediaCleanupProcessor) Process(ctx context.Context, job *queue.Job) error {
	if job.Type != queue.JobTypeMediaCleanup {
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
	var payload queue.MediaCleanupPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}
	prefix := storage.MediaPrefix(payload.InvitationID)
	n, err := p.objects.DeletePrefix(ctx, prefix)
	if err != nil {
		return fmt.Errorf("delete %s: %w", prefix, err)
	}
	p.logger.Info("media cleanup completed",
		zap.String("invitation_id", payload.InvitationID.String()),
		zap.Int("objects", n))
	return nil
}

// Run starts the worker loop: dequeue, process, retry on error. It returns when ctx is done.
func (p *MediaCleanupProcessor) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			p.logger.Info("media cleanup worker stopping")
			return
		}

		job, err := p.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			p.logger.Warn("dequeue error", zap.Error(err))
			p.sleep(ctx)
			continue
		}
		if job == nil {
			continue
		}

		p.logger.Debug("processing job", zap.String("job_id", job.ID), zap.String("type", string(job.Type)))
		if err := p.Process(ctx, job); err != nil {
			p.logger.Error("job failed", zap.String("job_id", job.ID), zap.Int("attempt", job.Attempt), zap.Error(err))
			if reErr := p.queue.Retry(ctx, job); reErr != nil {
				p.logger.Error("retry enqueue failed", zap.Error(reErr))
			}
			p.sleep(ctx)
		}
	}
}

func (p *MediaCleanupProcessor) sleep(ctx context.Context) {
	t := time.NewTimer(p.backoff)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
