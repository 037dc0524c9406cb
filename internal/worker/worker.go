// Package worker runs the background job loop for invitation emails.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/corourke/Gigmanagerfigmamake-sub000/internal/invitations"
	"github.com/corourke/Gigmanagerfigmamake-sub000/pkg/queue"
)

// InvitationProcessor processes invitation email jobs: render the mail, hand
// it to SMTP, record the attempt in the send log.
type InvitationProcessor struct {
	invRepo *invitations.Repository
	queue   *queue.Queue
	mailer  *Mailer
	baseURL string // public app URL the accept link points at
	logger  *zap.Logger
}

// NewInvitationProcessor creates an invitation email processor.
func NewInvitationProcessor(invRepo *invitations.Repository, q *queue.Queue, mailer *Mailer, baseURL string, logger *zap.Logger) *InvitationProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvitationProcessor{invRepo: invRepo, queue: q, mailer: mailer, baseURL: baseURL, logger: logger}
}

// Process executes one invitation email job.
func (p *InvitationProcessor) Process(ctx context.Context, job *queue.Job) error {
	if job.Type != queue.JobTypeInvitationEmail {
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
	var payload queue.InvitationEmailPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	subject := fmt.Sprintf("You're invited to join %s", payload.OrganizationName)
	body := fmt.Sprintf(
		"Hi,\n\n%s has invited you to join their team.\n\nAccept the invitation here:\n%s/invitations/%s/accept\n\nThe link expires in 7 days.\n",
		payload.OrganizationName, p.baseURL, payload.Token)

	if !p.mailer.Configured() {
		p.logger.Warn("smtp not configured, invitation email skipped",
			zap.String("invitation_id", payload.InvitationID.String()),
			zap.String("recipient", payload.RecipientEmail))
		msg := "smtp not configured"
		return p.invRepo.RecordSend(ctx, payload.InvitationID, "failed", &msg, nil)
	}

	if err := p.mailer.Send(payload.RecipientEmail, subject, body); err != nil {
		msg := err.Error()
		if logErr := p.invRepo.RecordSend(ctx, payload.InvitationID, "failed", &msg, nil); logErr != nil {
			p.logger.Error("record send failed", zap.Error(logErr))
		}
		return fmt.Errorf("smtp send: %w", err)
	}

	now := time.Now()
	if err := p.invRepo.RecordSend(ctx, payload.InvitationID, "sent", nil, &now); err != nil {
		p.logger.Error("record send failed", zap.Error(err))
	}
	p.logger.Info("invitation email sent",
		zap.String("invitation_id", payload.InvitationID.String()),
		zap.String("recipient", payload.RecipientEmail))
	return nil
}

// Run starts the worker loop: dequeue, process, retry on error.
func (p *InvitationProcessor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("invitation worker stopping")
			return
		default:
		}

		job, err := p.queue.Dequeue(ctx)
		if err != nil {
			p.logger.Warn("dequeue error", zap.Error(err))
			time.Sleep(queue.RetryBackoff)
			continue
		}
		if job == nil {
			continue
		}

		p.logger.Debug("processing job", zap.String("job_id", job.ID), zap.String("type", string(job.Type)))
		if err := p.Process(ctx, job); err != nil {
			p.logger.Error("job failed", zap.String("job_id", job.ID), zap.Error(err))
			if reErr := p.queue.Retry(ctx, job); reErr != nil {
				p.logger.Error("retry enqueue failed", zap.Error(reErr))
			}
			time.Sleep(queue.RetryBackoff)
		}
	}
}
