// services/notifier.go
package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"camera-status-bot/models"

	"github.com/jonboulle/clockwork"
	"github.com/line/line-bot-sdk-go/v7/linebot"
)

// Notifier pushes allowance summaries over LINE. Constructed once at startup
// and passed by reference; the per-slot suppression state lives here instead
// of floating module-level, so a restart is the only thing that resets it.
type Notifier struct {
	client *linebot.Client
	to     string
	clock  clockwork.Clock

	mu           sync.Mutex
	lastNotified map[int]time.Time // slot hour -> day it last fired
}

func NewNotifier(client *linebot.Client, to string, clock clockwork.Clock) *Notifier {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Notifier{
		client:       client,
		to:           to,
		clock:        clock,
		lastNotified: make(map[int]time.Time),
	}
}

// NotifyBoundary pushes the status summary for one recovery slot, at most once
// per slot per day.
func (n *Notifier) NotifyBoundary(ctx context.Context, slotHour int, doc *models.Document, order []string) error {
	if n.client == nil || n.to == "" {
		return nil
	}

	if !n.markNotified(slotHour, n.clock.Now().In(models.JST)) {
		log.Printf("⏭️ boundary %02d:00 already notified today, skipping", slotHour)
		return nil
	}

	text := BuildStatusMessage(doc, order)
	if _, err := n.client.PushMessage(n.to, linebot.NewTextMessage(text)).WithContext(ctx).Do(); err != nil {
		return fmt.Errorf("push boundary notification: %w", err)
	}
	log.Printf("🔔 boundary %02d:00 notification pushed", slotHour)
	return nil
}

// Reply answers a webhook event with arbitrary messages.
func (n *Notifier) Reply(ctx context.Context, replyToken string, messages ...linebot.SendingMessage) error {
	if n.client == nil {
		return fmt.Errorf("line client not configured")
	}
	if _, err := n.client.ReplyMessage(replyToken, messages...).WithContext(ctx).Do(); err != nil {
		return fmt.Errorf("reply message: %w", err)
	}
	return nil
}

// markNotified records a slot firing, reporting false when the slot already
// fired today.
func (n *Notifier) markNotified(slotHour int, now time.Time) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if last, ok := n.lastNotified[slotHour]; ok && sameJSTDay(last, now) {
		return false
	}
	n.lastNotified[slotHour] = now
	return true
}

func sameJSTDay(a, b time.Time) bool {
	ay, am, ad := a.In(models.JST).Date()
	by, bm, bd := b.In(models.JST).Date()
	return ay == by && am == bm && ad == bd
}
