// models/wallet.go
package models

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// NFT is one bound camera. Field order is the canonical key order written back
// to the store. The misspelled legacy key "tokeinid" is accepted on input and
// folded into tokenId by the normalizer; it is never written back.
type NFT struct {
	TokenID           TokenID    `json:"tokenId,omitzero"`
	LegacyTokenID     TokenID    `json:"tokeinid,omitzero"`
	Name              string     `json:"name"`
	Image             string     `json:"image,omitempty"`
	LastTotalShots    NullNumber `json:"lastTotalShots"`
	CurrentTotalShots NullNumber `json:"currentTotalShots"`
}

// Wallet is one tracked owner. Field order is the canonical key order.
// manualOverride is the one-shot flag left behind by a GUI correction; it is
// persisted so the next automatic cycle can consume it.
type Wallet struct {
	Name           string     `json:"wallet name" validate:"required"`
	Address        string     `json:"wallet address" validate:"required"`
	MaxShots       NullNumber `json:"maxShots"`
	EnableShots    NullNumber `json:"enableShots"`
	LastChecked    Timestamp  `json:"lastChecked"`
	ManualOverride bool       `json:"manualOverride,omitempty"`
	NFTs           []NFT      `json:"nfts"`
}

// Document is the whole persisted unit: re-fetched at the start of every cycle,
// mutated in memory, written back only when something changed.
type Document struct {
	Wallets []Wallet `json:"wallets" validate:"required"`
}

// IsUnregistered reports a wallet with no camera bound yet: both counters null.
func (w *Wallet) IsUnregistered() bool {
	return !w.MaxShots.Valid && !w.EnableShots.Valid
}

// IsInconsistent reports a counter state that needs operator attention.
// Unregistered wallets are a distinct category, not inconsistent.
func (w *Wallet) IsInconsistent() bool {
	if w.IsUnregistered() {
		return false
	}
	if !w.EnableShots.Valid {
		return true
	}
	if w.EnableShots.Value < 0 {
		return true
	}
	if w.MaxShots.Valid && w.EnableShots.Value > w.MaxShots.Value {
		return true
	}
	return false
}

var validate = validator.New()

// Validate rejects documents that would corrupt the store: every wallet needs
// a name and an address. Applied on every read from and write to the store and
// on every HTTP ingest — in-memory shape is never trusted after external I/O.
func (d *Document) Validate() error {
	if d == nil {
		return fmt.Errorf("document is nil")
	}
	if d.Wallets == nil {
		return fmt.Errorf("document has no wallets array")
	}
	for i := range d.Wallets {
		if err := validate.Struct(&d.Wallets[i]); err != nil {
			return fmt.Errorf("wallet[%d]: %w", i, err)
		}
	}
	return nil
}
