// services/ranking.go
package services

import (
	"sort"

	"camera-status-bot/models"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// nameCollator compares wallet display names the way the GUI has always shown
// them: Japanese collation, case-insensitive.
var nameCollator = collate.New(language.Japanese, collate.IgnoreCase)

// SortWalletsForDisplay applies the presentation order: unregistered wallets
// first, then inconsistent ones within each group, then by remaining shots
// descending (null sorting below zero), with a collated name tiebreak. The
// result is a stable total order for any input, duplicate names included.
func SortWalletsForDisplay(wallets []models.Wallet) {
	sort.SliceStable(wallets, func(a, b int) bool {
		return compareWallets(&wallets[a], &wallets[b]) < 0
	})
}

func compareWallets(a, b *models.Wallet) int {
	if c := boolRank(a.IsUnregistered(), b.IsUnregistered()); c != 0 {
		return c
	}
	if c := boolRank(a.IsInconsistent(), b.IsInconsistent()); c != 0 {
		return c
	}
	if c := compareShotsDesc(a.EnableShots, b.EnableShots); c != 0 {
		return c
	}
	return nameCollator.CompareString(a.Name, b.Name)
}

// boolRank sorts true before false.
func boolRank(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return -1
	default:
		return 1
	}
}

// compareShotsDesc sorts higher counts first; null is lower than every number.
func compareShotsDesc(a, b models.NullNumber) int {
	switch {
	case a.Valid && b.Valid:
		switch {
		case a.Value > b.Value:
			return -1
		case a.Value < b.Value:
			return 1
		default:
			return 0
		}
	case a.Valid:
		return -1
	case b.Valid:
		return 1
	default:
		return 0
	}
}
