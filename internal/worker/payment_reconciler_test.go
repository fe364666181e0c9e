package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/freshbasket/storefront/internal/domain/model"
	testhelpers "github.com/freshbasket/storefront/internal/test"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestReconcilerChecksPendingOrders(t *testing.T) {
	facade := &testhelpers.WorkerFacadeStub{
		Batches: [][]model.Order{
			{{ID: 1, SessionID: "cs_1"}, {ID: 2, SessionID: "cs_2"}},
		},
	}
	reconciler := NewPaymentReconciler(facade, 10*time.Millisecond, 8, 2, testLogger())

	reconciler.Start(context.Background())

	deadline := time.After(2 * time.Second)
	for {
		facade.Lock()
		done := len(facade.Checked) >= 2
		facade.Unlock()
		if done {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("workers never processed the batch")
		case <-time.After(5 * time.Millisecond):
		}
	}

	reconciler.Stop()

	facade.Lock()
	defer facade.Unlock()
	seen := map[int64]bool{}
	for _, id := range facade.Checked {
		seen[id] = true
	}
	if !seen[1] || !seen[2] {
		t.Fatalf("expected both orders checked, got %v", facade.Checked)
	}
}

func TestReconcilerSurvivesFetchErrors(t *testing.T) {
	calls := make(chan struct{}, 4)
	facade := &testhelpers.WorkerFacadeStub{
		PendingFn: func(context.Context, int) ([]model.Order, error) {
			select {
			case calls <- struct{}{}:
			default:
			}
			return nil, errors.New("db down")
		},
	}
	reconciler := NewPaymentReconciler(facade, 5*time.Millisecond, 4, 1, testLogger())

	reconciler.Start(context.Background())
	defer reconciler.Stop()

	// Two ticks prove the dispatcher keeps polling after a failure.
	for i := 0; i < 2; i++ {
		select {
		case <-calls:
		case <-time.After(2 * time.Second):
			t.Fatalf("dispatcher stopped polling after an error")
		}
	}
}

func TestReconcilerStopIsIdempotent(t *testing.T) {
	facade := &testhelpers.WorkerFacadeStub{}
	reconciler := NewPaymentReconciler(facade, time.Hour, 4, 2, testLogger())

	reconciler.Start(context.Background())
	reconciler.Stop()
	reconciler.Stop()
}

func TestReconcilerDefaultsInvalidSizing(t *testing.T) {
	reconciler := NewPaymentReconciler(&testhelpers.WorkerFacadeStub{}, time.Hour, 0, 0, testLogger())
	if reconciler.workers != 1 || reconciler.batchSize != 1 {
		t.Fatalf("expected sizing clamped to 1, got workers=%d batch=%d", reconciler.workers, reconciler.batchSize)
	}
}
