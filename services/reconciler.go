// services/reconciler.go
package services

import (
	"log"
	"math"
	"time"

	"camera-status-bot/models"

	"github.com/jonboulle/clockwork"
)

// ReconcileOptions carries per-cycle flags. ForceOverride marks a cycle that
// originates from a manual GUI edit: the supplied enableShots is authoritative
// and bypasses every automatic adjustment for that cycle.
type ReconcileOptions struct {
	ForceOverride bool
}

// recoveryBoundaries are the daily allowance regeneration points, expressed in
// "virtual minutes" JST where midnight counts as 24:00. Scanned in order; the
// first crossed boundary wins and at most one increment applies per cycle.
var recoveryBoundaries = []int{6 * 60, 12 * 60, 18 * 60, 24 * 60}

// Reconciler merges time-based recovery, on-chain consumption deltas and
// manual overrides into the authoritative enableShots per wallet. The clock is
// injected so boundary crossings are deterministic under test.
type Reconciler struct {
	clock clockwork.Clock
}

func NewReconciler(clock clockwork.Clock) *Reconciler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Reconciler{clock: clock}
}

// ReconcileDocument runs ReconcileWallet over every wallet and reports whether
// anything changed. Per-wallet work never aborts siblings.
func (r *Reconciler) ReconcileDocument(doc *models.Document, opts ReconcileOptions) bool {
	changed := false
	for i := range doc.Wallets {
		if r.ReconcileWallet(&doc.Wallets[i], opts) {
			changed = true
		}
	}
	return changed
}

// ReconcileWallet updates one wallet's allowance state and reports whether any
// field changed.
//
// Order of precedence, one branch per cycle:
//  1. unregistered wallets (maxShots null) are skipped entirely;
//  2. a force-override cycle keeps the supplied enableShots and arms
//     manualOverride;
//  3. an armed manualOverride is consumed: the flag clears and the cycle does
//     no adjustment, so a human correction survives exactly one automatic pass;
//  4. otherwise recovery is applied before consumption, then lastChecked
//     advances. Branches 2 and 3 leave lastChecked alone so GUI edits don't
//     shift the recovery clock.
func (r *Reconciler) ReconcileWallet(w *models.Wallet, opts ReconcileOptions) bool {
	if w == nil {
		return false
	}
	if !w.MaxShots.Valid {
		return false
	}

	if opts.ForceOverride {
		w.ManualOverride = true
		log.Printf("✏️ wallet %s: manual override armed, enableShots pinned at %s", w.Name, w.EnableShots)
		return true
	}

	if w.ManualOverride {
		w.ManualOverride = false
		log.Printf("⏭️ wallet %s: manual override consumed, skipping adjustment this cycle", w.Name)
		return true
	}

	now := r.clock.Now().In(models.JST)
	before := w.EnableShots
	shots := w.EnableShots

	shots = r.applyRecovery(w, shots, now)
	shots = applyConsumption(w, shots)

	changed := !w.EnableShots.Equal(shots) || !w.LastChecked.Equal(now)
	w.EnableShots = shots
	w.LastChecked = models.NewTimestamp(now)

	if !before.Equal(shots) {
		log.Printf("🔍 wallet %s: enableShots %s -> %s", w.Name, before, shots)
	}
	return changed
}

// applyRecovery adds floor(maxShots/4) once if lastChecked fell strictly
// before a boundary that now lies at or behind the evaluation time. The
// comparison is time-of-day only, in JST, with 00:xx treated as 24:xx.
func (r *Reconciler) applyRecovery(w *models.Wallet, shots models.NullNumber, now time.Time) models.NullNumber {
	if w.LastChecked.IsZero() {
		return shots
	}
	lastMinutes := virtualMinutes(w.LastChecked.Time)
	nowMinutes := virtualMinutes(now)

	for _, boundary := range recoveryBoundaries {
		if lastMinutes < boundary && nowMinutes >= boundary {
			amount := math.Floor(w.MaxShots.Value / 4)
			recovered := math.Min(w.MaxShots.Value, shots.OrZero()+amount)
			log.Printf("🔋 wallet %s: recovery +%g at boundary %02d:00 -> %g", w.Name, amount, boundary/60, recovered)
			return models.Num(recovered)
		}
	}
	return shots
}

// applyConsumption subtracts positive total-shot deltas (floored at 0) and
// turns a decreasing counter into the null "inconsistent" state. Either way
// lastTotalShots advances so a stale baseline is never compared twice.
func applyConsumption(w *models.Wallet, shots models.NullNumber) models.NullNumber {
	for i := range w.NFTs {
		nft := &w.NFTs[i]
		last := nft.LastTotalShots
		current := nft.CurrentTotalShots
		if !last.Valid || !current.Valid {
			continue
		}
		delta := current.Value - last.Value
		switch {
		case delta > 0:
			shots = models.Num(math.Max(0, shots.OrZero()-delta))
			nft.LastTotalShots = current
			log.Printf("📸 camera %s: consumed %g shot(s), remaining %s", nft.Name, delta, shots)
		case delta < 0:
			log.Printf("⚠️ camera %s: total shots decreased %s -> %s, flagging wallet inconsistent", nft.Name, last, current)
			shots = models.NullNum()
			nft.LastTotalShots = current
		}
	}
	return shots
}

// virtualMinutes maps a moment to JST minutes-of-day with the midnight hour
// counted as 24:00, so the end-of-day boundary compares greater than any
// evening time.
func virtualMinutes(t time.Time) int {
	t = t.In(models.JST)
	hour := t.Hour()
	if hour == 0 {
		hour = 24
	}
	return hour*60 + t.Minute()
}
