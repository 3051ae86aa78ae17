// services/chain_sync.go
package services

import (
	"context"
	"log"

	"camera-status-bot/models"
)

// NFTReader is the narrow view of the chain this service needs: single-token
// owner and metadata reads. Calls may fail transiently.
type NFTReader interface {
	OwnerOf(ctx context.Context, tokenID models.TokenID) (string, error)
	Metadata(ctx context.Context, tokenID models.TokenID) (*models.NFTMetadata, error)
}

// ChainSyncService walks wallets and their NFTs, refreshing owner and
// currentTotalShots from chain state. Strictly best effort: a failing token is
// logged and skipped, never aborting the wallet loop or the cycle.
type ChainSyncService struct {
	Reader NFTReader
}

func NewChainSyncService(reader NFTReader) *ChainSyncService {
	return &ChainSyncService{Reader: reader}
}

// SyncDocument refreshes every wallet and reports whether anything changed.
func (s *ChainSyncService) SyncDocument(ctx context.Context, doc *models.Document) bool {
	changed := false
	for i := range doc.Wallets {
		if s.SyncWallet(ctx, &doc.Wallets[i]) {
			changed = true
		}
	}
	return changed
}

// SyncWallet refreshes one wallet's NFTs from chain. The fetched owner becomes
// the wallet address and the metadata's "Total Shots" trait becomes
// currentTotalShots (0 when absent).
func (s *ChainSyncService) SyncWallet(ctx context.Context, w *models.Wallet) bool {
	if s.Reader == nil {
		return false
	}
	changed := false
	for i := range w.NFTs {
		nft := &w.NFTs[i]
		if nft.TokenID.IsZero() {
			continue
		}

		owner, err := s.Reader.OwnerOf(ctx, nft.TokenID)
		if err != nil {
			log.Printf("❌ ownerOf failed for token %s (wallet %s): %v", nft.TokenID, w.Name, err)
			continue
		}
		md, err := s.Reader.Metadata(ctx, nft.TokenID)
		if err != nil {
			log.Printf("❌ metadata fetch failed for token %s (wallet %s): %v", nft.TokenID, w.Name, err)
			continue
		}

		if owner != "" && owner != w.Address {
			w.Address = owner
			changed = true
		}
		if md.Name != "" && md.Name != nft.Name {
			nft.Name = md.Name
			changed = true
		}
		if md.Image != "" && md.Image != nft.Image {
			nft.Image = md.Image
			changed = true
		}
		if total := md.TotalShots(); !nft.CurrentTotalShots.Equal(total) {
			nft.CurrentTotalShots = total
			changed = true
		}
	}
	return changed
}
