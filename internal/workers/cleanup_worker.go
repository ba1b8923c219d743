package workers

import (
	"context"
	"time"

	"nudge_backend/internal/logger"
	"nudge_backend/internal/services"
)

const cleanupInterval = 6 * time.Hour

// CleanupWorker periodically removes expired project invitations so
// they stop blocking re-invites and clutter disappears from admin
// listings without waiting for a request to trip over them.
type CleanupWorker struct {
	invitations services.InvitationService
}

func NewCleanupWorker(invitations services.InvitationService) *CleanupWorker {
	return &CleanupWorker{invitations: invitations}
}

func (w *CleanupWorker) Start(ctx context.Context) {
	go w.purgeExpiredInvitations(ctx)
}

func (w *CleanupWorker) purgeExpiredInvitations(ctx context.Context) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("cleanup worker stopped")
			return
		case <-ticker.C:
			removed, err := w.invitations.PurgeExpired()
			if err != nil {
				logger.WithError(err).Error("failed to purge expired invitations")
			} else if removed > 0 {
				logger.Info("purged expired invitations", "count", removed)
			}
		}
	}
}
