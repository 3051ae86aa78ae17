// services/normalize.go
package services

import (
	"sort"

	"camera-status-bot/models"
)

// NormalizeDocument coerces a freshly fetched document into the canonical
// shape before reconciliation and before persisting: the legacy "tokeinid"
// key is resolved into tokenId, all-digit string ids become numbers, NFT
// lists are sorted by token id and wallets by name. Idempotent — running it
// on an already-normalized document is a no-op.
func NormalizeDocument(doc *models.Document) {
	if doc == nil {
		return
	}
	for i := range doc.Wallets {
		normalizeWallet(&doc.Wallets[i])
	}
	// Same collator as the display path, so the canonical view and the GUI
	// agree on what "sorted by name" means for Japanese names.
	sort.SliceStable(doc.Wallets, func(a, b int) bool {
		return nameCollator.CompareString(doc.Wallets[a].Name, doc.Wallets[b].Name) < 0
	})
}

func normalizeWallet(w *models.Wallet) {
	if w.NFTs == nil {
		w.NFTs = []models.NFT{}
	}
	for i := range w.NFTs {
		n := &w.NFTs[i]
		if n.TokenID.IsZero() && !n.LegacyTokenID.IsZero() {
			n.TokenID = n.LegacyTokenID
		}
		n.LegacyTokenID = models.TokenID{}
		n.TokenID = n.TokenID.Canonical()
	}
	sort.SliceStable(w.NFTs, func(a, b int) bool {
		return w.NFTs[a].TokenID.Less(w.NFTs[b].TokenID)
	})
}
