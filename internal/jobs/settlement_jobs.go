package jobs

import (
	"context"

	"usedgoods-market/internal/domain"
	"usedgoods-market/internal/logger"
)

const JobCompleteStalledSettlements = "complete-stalled-settlements"

// CompleteStalledSettlements completes accepted-offer transactions nobody finalized.
// It acts as the seller, so the usual party and funds checks still apply.
func (jr *JobRunner) CompleteStalledSettlements() {
	jr.runWithRecovery("CompleteStalledSettlements", func() {
		ctx := context.Background()
		cfg := jr.config.Scheduler

		stalled, err := jr.settlements.ListStalled(ctx, jr.config.StalledAfter(), int32(cfg.BatchSize))
		if err != nil {
			logger.Error("Failed to list stalled transactions", "error", err)
			return
		}

		completed, failed := 0, 0
		for _, tx := range stalled {
			if _, err := jr.settlements.CompleteTransaction(ctx, tx.SellerID, tx.ID, domain.TransactionStatusCompleted); err != nil {
				logger.Warn("Failed to complete stalled transaction",
					"transaction_id", tx.ID,
					"buyer_id", tx.BuyerID,
					"error", err)
				failed++
				continue
			}
			completed++
		}

		logger.Info("Stalled settlements processed",
			"found", len(stalled),
			"completed", completed,
			"failed", failed)
	})
}
