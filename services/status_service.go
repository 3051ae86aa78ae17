// services/status_service.go
package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"camera-status-bot/models"

	"github.com/google/uuid"
)

// Cycle sources, recorded in logs and the audit trail.
const (
	SourcePoll    = "poll"
	SourceAPI     = "api"
	SourceWebhook = "webhook"
)

// StatusService owns the read-modify-write cycle against the remote document:
// fetch → normalize → chain sync (best effort) → reconcile → conditional save.
// Writers are not coordinated; two racing cycles resolve as last-writer-wins,
// which the audit trail at least makes visible.
type StatusService struct {
	Store      DocumentStore
	ChainSync  *ChainSyncService
	Reconciler *Reconciler
	History    *HistoryService
}

func NewStatusService(store DocumentStore, chainSync *ChainSyncService, reconciler *Reconciler, history *HistoryService) *StatusService {
	return &StatusService{
		Store:      store,
		ChainSync:  chainSync,
		Reconciler: reconciler,
		History:    history,
	}
}

// RunCycle executes one full automatic cycle and returns the document plus
// whether it was written back. Per-wallet errors never escape the cycle;
// fetch/save errors abort it and propagate.
func (s *StatusService) RunCycle(ctx context.Context, source string) (*models.Document, bool, error) {
	cycleID := uuid.NewString()
	started := time.Now()
	log.Printf("📡 cycle %s (%s) started", cycleID, source)

	doc, err := s.Store.Load(ctx)
	if err != nil {
		s.record(source, nil, false, started, err)
		return nil, false, fmt.Errorf("load document: %w", err)
	}
	NormalizeDocument(doc)

	changed := false
	if s.ChainSync != nil {
		if s.ChainSync.SyncDocument(ctx, doc) {
			changed = true
		}
	}
	if s.Reconciler.ReconcileDocument(doc, ReconcileOptions{}) {
		changed = true
	}
	NormalizeDocument(doc)

	if changed {
		if err := s.Store.Save(ctx, doc); err != nil {
			s.record(source, doc, changed, started, err)
			return nil, false, fmt.Errorf("save document: %w", err)
		}
		log.Printf("✅ cycle %s (%s) saved %d wallet(s) in %s", cycleID, source, len(doc.Wallets), time.Since(started))
	} else {
		log.Printf("➡️ cycle %s (%s) no changes", cycleID, source)
	}

	s.record(source, doc, changed, started, nil)
	return doc, changed, nil
}

// ApplyManualUpdate handles a GUI correction: the incoming document is
// validated, normalized, reconciled with the force-override flag (arming
// manualOverride on every registered wallet) and written back unconditionally.
func (s *StatusService) ApplyManualUpdate(ctx context.Context, doc *models.Document, forceOverride bool) (*models.Document, error) {
	started := time.Now()
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("document schema: %w", err)
	}
	NormalizeDocument(doc)
	s.Reconciler.ReconcileDocument(doc, ReconcileOptions{ForceOverride: forceOverride})
	NormalizeDocument(doc)

	if err := s.Store.Save(ctx, doc); err != nil {
		s.record(SourceAPI, doc, true, started, err)
		return nil, fmt.Errorf("save document: %w", err)
	}
	s.record(SourceAPI, doc, true, started, nil)
	return doc, nil
}

// DisplayOrder returns wallet addresses in presentation order, shared by the
// GUI and the chat bot so both render the same sequence.
func (s *StatusService) DisplayOrder(doc *models.Document) []string {
	sorted := make([]models.Wallet, len(doc.Wallets))
	copy(sorted, doc.Wallets)
	SortWalletsForDisplay(sorted)

	order := make([]string, 0, len(sorted))
	for i := range sorted {
		order = append(order, sorted[i].Address)
	}
	return order
}

func (s *StatusService) record(source string, doc *models.Document, changed bool, started time.Time, cycleErr error) {
	if s.History == nil {
		return
	}
	wallets := 0
	if doc != nil {
		wallets = len(doc.Wallets)
	}
	s.History.Record(source, changed, wallets, time.Since(started), cycleErr)
}
