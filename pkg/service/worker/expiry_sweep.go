package worker

import (
	"context"
	"time"

	"github.com/secmon-lab/riskaccept/pkg/usecase"
	"github.com/secmon-lab/riskaccept/pkg/utils/logging"
)

// ExpirySweepWorker runs the expiry sweep on a fixed interval.
//
// Architecture assumptions:
// - Single server instance (no distributed locking)
// - A concurrently running sweep elsewhere is still safe: each expiry is a
//   compare-and-swap, so double-running only wastes work
type ExpirySweepWorker struct {
	acceptance *usecase.AcceptanceUseCase
	interval   time.Duration
	stopCh     chan struct{}
	doneCh     chan struct{}
}

// NewExpirySweepWorker creates a worker that expires overdue approvals
func NewExpirySweepWorker(acceptance *usecase.AcceptanceUseCase, interval time.Duration) *ExpirySweepWorker {
	return &ExpirySweepWorker{
		acceptance: acceptance,
		interval:   interval,
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
}

// Start begins the background sweep loop without blocking server startup
func (w *ExpirySweepWorker) Start(ctx context.Context) error {
	logging.Default().Info("Expiry sweep worker starting",
		"interval", w.interval.String())

	go w.run(ctx)

	return nil
}

// Stop signals the worker to stop and waits for completion
func (w *ExpirySweepWorker) Stop() {
	logging.Default().Info("Expiry sweep worker stopping")
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("Expiry sweep worker stopped")
}

func (w *ExpirySweepWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	// Initial sweep catches anything that came due while the server was
	// down.
	if _, err := w.acceptance.Sweep(ctx, time.Now().UTC()); err != nil {
		logging.Default().Error("Initial expiry sweep failed (will retry next interval)",
			"error", err.Error())
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := w.acceptance.Sweep(ctx, time.Now().UTC()); err != nil {
				// Log error but continue worker
				logging.Default().Error("Expiry sweep failed (will retry next interval)",
					"error", err.Error())
			}

		case <-w.stopCh:
			return

		case <-ctx.Done():
			return
		}
	}
}
