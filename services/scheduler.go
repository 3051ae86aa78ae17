// services/scheduler.go
package services

import (
	"context"
	"log"
	"time"

	"camera-status-bot/models"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
)

// StartBoundaryScheduler fires at each recovery boundary (06/12/18/24 JST),
// runs a reconciliation cycle and pushes the summary through the notifier.
// The clock is the same injected one the reconciler and notifier run on.
// Returns the scheduler so the caller can shut it down.
func StartBoundaryScheduler(ctx context.Context, status *StatusService, notifier *Notifier, clock clockwork.Clock) (gocron.Scheduler, error) {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	sched, err := gocron.NewScheduler(gocron.WithLocation(models.JST), gocron.WithClock(clock))
	if err != nil {
		return nil, err
	}

	_, err = sched.NewJob(
		gocron.CronJob("0 0,6,12,18 * * *", false),
		gocron.NewTask(func() {
			slot := boundarySlot(clock.Now())

			doc, _, err := status.RunCycle(ctx, SourcePoll)
			if err != nil {
				log.Printf("❌ [Scheduler] boundary cycle failed: %v", err)
				return
			}
			if err := notifier.NotifyBoundary(ctx, slot, doc, status.DisplayOrder(doc)); err != nil {
				log.Printf("❌ [Scheduler] boundary notification failed: %v", err)
			}
		}),
	)
	if err != nil {
		return nil, err
	}

	sched.Start()
	log.Println("✅ Boundary notification scheduler running (06/12/18/24 JST)")
	return sched, nil
}

// boundarySlot names the recovery slot for a firing instant: the JST hour,
// with midnight counted as slot 24.
func boundarySlot(now time.Time) int {
	slot := now.In(models.JST).Hour()
	if slot == 0 {
		slot = 24
	}
	return slot
}
