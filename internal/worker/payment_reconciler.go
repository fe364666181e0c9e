package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/freshbasket/storefront/internal/domain/model"
)

// StorefrontFacade exposes the subset of application functionality required
// by the reconciler.
type StorefrontFacade interface {
	PendingOnlineOrders(ctx context.Context, limit int) ([]model.Order, error)
	CheckPendingOrder(ctx context.Context, order model.Order) error
}

// PaymentReconciler periodically re-reads open checkout sessions for unpaid
// online orders and settles the ones the gateway reports paid. It covers
// webhook deliveries that never arrived; it never expires or cancels an
// abandoned order.
type PaymentReconciler struct {
	facade       StorefrontFacade
	pollInterval time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	jobs   chan model.Order
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewPaymentReconciler constructs the reconciling worker pool.
func NewPaymentReconciler(facade StorefrontFacade, pollInterval time.Duration, batchSize, workers int, logger *slog.Logger) *PaymentReconciler {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &PaymentReconciler{
		facade:       facade,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
		jobs:         make(chan model.Order, batchSize*workers),
	}
}

// Start launches background processing.
func (r *PaymentReconciler) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	for i := 0; i < r.workers; i++ {
		r.wg.Add(1)
		go r.worker(runCtx)
	}

	r.wg.Add(1)
	go r.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (r *PaymentReconciler) Stop() {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.mu.Unlock()

	r.wg.Wait()
}

func (r *PaymentReconciler) dispatch(ctx context.Context) {
	defer r.wg.Done()
	defer close(r.jobs)
	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.fetchAndDispatch(ctx)
		}
	}
}

func (r *PaymentReconciler) fetchAndDispatch(ctx context.Context) {
	orders, err := r.facade.PendingOnlineOrders(ctx, r.batchSize)
	if err != nil {
		r.logger.Error("fetch pending online orders failed", slog.String("error", err.Error()))
		return
	}
	for _, order := range orders {
		select {
		case <-ctx.Done():
			return
		case r.jobs <- order:
		}
	}
}

func (r *PaymentReconciler) worker(ctx context.Context) {
	defer r.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case order, ok := <-r.jobs:
			if !ok {
				return
			}
			if err := r.facade.CheckPendingOrder(ctx, order); err != nil {
				r.logger.Error("reconcile pending order failed",
					slog.Int64("order", order.ID), slog.String("error", err.Error()))
			}
		}
	}
}
