package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/pet-adoption-service/internal/config"
	"github.com/spec-kit/pet-adoption-service/internal/events"
	"github.com/spec-kit/pet-adoption-service/internal/service"
)

// ReconciliationWorker repairs donations whose campaign append never
// committed. It reacts to partial-failure events as they happen and runs a
// periodic sweep for anything missed across restarts.
type ReconciliationWorker struct {
	donations *service.DonationService
	logger    *zap.Logger
	interval  time.Duration
}

// NewReconciliationWorker builds the worker.
func NewReconciliationWorker(donations *service.DonationService, logger *zap.Logger, cfg config.ReconcilerConfig) *ReconciliationWorker {
	return &ReconciliationWorker{
		donations: donations,
		logger:    logger,
		interval:  cfg.Interval(),
	}
}

// RegisterHandlers subscribes the worker to partial-failure events so a
// failed append is retried immediately.
func (w *ReconciliationWorker) RegisterHandlers(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	dispatcher.Subscribe(events.EventDonationPartialFailure, w.handlePartialFailure)
}

func (w *ReconciliationWorker) handlePartialFailure(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.DonationPartialFailurePayload)
	if !ok {
		return nil
	}
	if err := w.donations.RetryAppend(ctx, payload.DonationID); err != nil {
		w.logger.Warn("immediate retry failed, leaving for sweep",
			zap.String("donation_id", payload.DonationID),
			zap.Error(err),
		)
		return err
	}
	w.logger.Info("recovered partial donation", zap.String("donation_id", payload.DonationID))
	return nil
}

// Run executes the periodic orphan sweep until the context is cancelled.
func (w *ReconciliationWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := w.donations.ReconcileOrphans(ctx, 100); err != nil {
				w.logger.Error("reconciliation sweep failed", zap.Error(err))
			}
		}
	}
}
