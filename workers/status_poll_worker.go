// workers/status_poll_worker.go
package workers

import (
	"context"
	"log"
	"time"

	"camera-status-bot/services"
)

// PollStatus drives the recurring reconciliation cycle: every tick it runs a
// full read → chain sync → reconcile → conditional write pass. A failed cycle
// is logged and retried on the next tick, never in between.
func PollStatus(ctx context.Context, status *services.StatusService, pollInterval time.Duration) {
	log.Printf("Starting status polling (every %s)...", pollInterval)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Status polling stopped.")
			return
		case <-ticker.C:
			_, changed, err := status.RunCycle(ctx, services.SourcePoll)
			if err != nil {
				log.Printf("❌ Error polling status: %v", err)
				continue
			}
			if changed {
				log.Println("✅ Status document updated.")
			}
		}
	}
}
