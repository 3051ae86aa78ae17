package services

import (
	"testing"
	"time"

	"camera-status-bot/models"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jstTime(hour, min int) time.Time {
	return time.Date(2026, 8, 30, hour, min, 0, 0, models.JST)
}

func reconcilerAt(hour, min int) *Reconciler {
	return NewReconciler(clockwork.NewFakeClockAt(jstTime(hour, min)))
}

func registeredWallet(max, enable models.NullNumber, lastChecked time.Time) *models.Wallet {
	return &models.Wallet{
		Name:        "test",
		Address:     "0xabc",
		MaxShots:    max,
		EnableShots: enable,
		LastChecked: models.NewTimestamp(lastChecked),
		NFTs:        []models.NFT{},
	}
}

func TestReconcileSkipsUnregistered(t *testing.T) {
	w := &models.Wallet{Name: "test", Address: "0xabc"}
	changed := reconcilerAt(7, 0).ReconcileWallet(w, ReconcileOptions{})

	assert.False(t, changed)
	assert.False(t, w.EnableShots.Valid)
	assert.True(t, w.LastChecked.IsZero())
}

func TestReconcileRecovery(t *testing.T) {
	// lastChecked 05:00, evaluated 07:00: the 06:00 boundary was crossed,
	// one increment of floor(16/4) applies.
	w := registeredWallet(models.Num(16), models.Num(4), jstTime(5, 0))
	changed := reconcilerAt(7, 0).ReconcileWallet(w, ReconcileOptions{})

	assert.True(t, changed)
	assert.Equal(t, models.Num(8), w.EnableShots)
	assert.Equal(t, jstTime(7, 0).Unix(), w.LastChecked.Unix())
}

func TestReconcileRecoveryCappedAtMax(t *testing.T) {
	w := registeredWallet(models.Num(16), models.Num(14), jstTime(5, 0))
	reconcilerAt(7, 0).ReconcileWallet(w, ReconcileOptions{})

	assert.Equal(t, models.Num(16), w.EnableShots)
}

func TestReconcileRecoverySingleIncrement(t *testing.T) {
	// Two boundaries crossed (06:00 and 12:00) but only one increment applies.
	w := registeredWallet(models.Num(16), models.Num(0), jstTime(5, 0))
	reconcilerAt(13, 0).ReconcileWallet(w, ReconcileOptions{})

	assert.Equal(t, models.Num(4), w.EnableShots)
}

func TestReconcileMidnightBoundary(t *testing.T) {
	// 00:xx counts as 24:xx, so 23:00 -> 00:30 crosses the end-of-day boundary.
	w := registeredWallet(models.Num(16), models.Num(0), jstTime(23, 0))
	reconcilerAt(0, 30).ReconcileWallet(w, ReconcileOptions{})

	assert.Equal(t, models.Num(4), w.EnableShots)
}

func TestReconcileFirstSightingGetsNoRecovery(t *testing.T) {
	// A wallet with a null lastChecked has no reference point for boundary
	// crossings: the first automatic cycle only stamps the clock, it never
	// hands out a recovery increment.
	w := registeredWallet(models.Num(16), models.Num(4), time.Time{})
	changed := reconcilerAt(12, 30).ReconcileWallet(w, ReconcileOptions{})

	assert.True(t, changed)
	assert.Equal(t, models.Num(4), w.EnableShots)
	assert.Equal(t, jstTime(12, 30).Unix(), w.LastChecked.Unix())
}

func TestReconcileConsumption(t *testing.T) {
	w := registeredWallet(models.Num(16), models.Num(10), jstTime(6, 30))
	w.NFTs = []models.NFT{{
		TokenID:           models.NumericTokenID(1),
		LastTotalShots:    models.Num(5),
		CurrentTotalShots: models.Num(8),
	}}
	reconcilerAt(7, 0).ReconcileWallet(w, ReconcileOptions{})

	assert.Equal(t, models.Num(7), w.EnableShots)
	assert.Equal(t, models.Num(8), w.NFTs[0].LastTotalShots)
}

func TestReconcileConsumptionFlooredAtZero(t *testing.T) {
	w := registeredWallet(models.Num(16), models.Num(2), jstTime(6, 30))
	w.NFTs = []models.NFT{{
		TokenID:           models.NumericTokenID(1),
		LastTotalShots:    models.Num(0),
		CurrentTotalShots: models.Num(5),
	}}
	reconcilerAt(7, 0).ReconcileWallet(w, ReconcileOptions{})

	assert.Equal(t, models.Num(0), w.EnableShots)
}

func TestReconcileConsumptionInvalidation(t *testing.T) {
	// A decreasing counter is an irrecoverable inconsistency: enableShots goes
	// null and the baseline still advances.
	w := registeredWallet(models.Num(16), models.Num(10), jstTime(6, 30))
	w.NFTs = []models.NFT{{
		TokenID:           models.NumericTokenID(1),
		LastTotalShots:    models.Num(8),
		CurrentTotalShots: models.Num(5),
	}}
	reconcilerAt(7, 0).ReconcileWallet(w, ReconcileOptions{})

	assert.False(t, w.EnableShots.Valid)
	assert.Equal(t, models.Num(5), w.NFTs[0].LastTotalShots)
}

func TestReconcileIdempotentWithoutBoundaryOrDelta(t *testing.T) {
	r := reconcilerAt(7, 0)
	w := registeredWallet(models.Num(16), models.Num(4), jstTime(6, 30))

	r.ReconcileWallet(w, ReconcileOptions{})
	first := w.EnableShots
	r.ReconcileWallet(w, ReconcileOptions{})

	assert.Equal(t, first, w.EnableShots)
	assert.Equal(t, models.Num(4), w.EnableShots)
}

func TestManualOverrideRoundTrip(t *testing.T) {
	r := reconcilerAt(7, 0)
	w := registeredWallet(models.Num(16), models.Num(3), jstTime(5, 0))
	lastChecked := w.LastChecked

	// GUI edit: value pinned, flag armed, recovery clock untouched.
	changed := r.ReconcileWallet(w, ReconcileOptions{ForceOverride: true})
	require.True(t, changed)
	assert.True(t, w.ManualOverride)
	assert.Equal(t, models.Num(3), w.EnableShots)
	assert.Equal(t, lastChecked, w.LastChecked)

	// The immediately following automatic cycle consumes the flag and does no
	// adjustment, even though the 06:00 boundary would otherwise recover.
	changed = r.ReconcileWallet(w, ReconcileOptions{})
	require.True(t, changed)
	assert.False(t, w.ManualOverride)
	assert.Equal(t, models.Num(3), w.EnableShots)
	assert.Equal(t, lastChecked, w.LastChecked)
}

func TestReconcileRecoveryBeforeConsumption(t *testing.T) {
	// Recovery adds before consumption subtracts within the same cycle.
	w := registeredWallet(models.Num(16), models.Num(4), jstTime(5, 0))
	w.NFTs = []models.NFT{{
		TokenID:           models.NumericTokenID(1),
		LastTotalShots:    models.Num(10),
		CurrentTotalShots: models.Num(12),
	}}
	reconcilerAt(7, 0).ReconcileWallet(w, ReconcileOptions{})

	// 4 + floor(16/4) = 8, then -2 consumption.
	assert.Equal(t, models.Num(6), w.EnableShots)
}

func TestReconcileDocumentReportsChange(t *testing.T) {
	doc := &models.Document{Wallets: []models.Wallet{
		{Name: "u", Address: "0x1"},
		*registeredWallet(models.Num(16), models.Num(4), jstTime(6, 30)),
	}}
	changed := reconcilerAt(7, 0).ReconcileDocument(doc, ReconcileOptions{})

	// lastChecked advanced on the registered wallet.
	assert.True(t, changed)
	assert.True(t, doc.Wallets[0].LastChecked.IsZero())
}
