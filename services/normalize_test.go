package services

import (
	"encoding/json"
	"testing"

	"camera-status-bot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeResolvesLegacyTokenKey(t *testing.T) {
	raw := []byte(`{"wallets":[{
		"wallet name": "a",
		"wallet address": "0x1",
		"maxShots": "16",
		"enableShots": 4,
		"nfts": [{"tokeinid": "12", "name": "cam"}]
	}]}`)
	var doc models.Document
	require.NoError(t, json.Unmarshal(raw, &doc))

	NormalizeDocument(&doc)

	nft := doc.Wallets[0].NFTs[0]
	assert.Equal(t, models.NumericTokenID(12), nft.TokenID)
	assert.True(t, nft.LegacyTokenID.IsZero())
	assert.Equal(t, models.Num(16), doc.Wallets[0].MaxShots)
}

func TestNormalizeSortsNFTsAndWallets(t *testing.T) {
	doc := &models.Document{Wallets: []models.Wallet{
		{Name: "b", Address: "0x2", NFTs: []models.NFT{
			{TokenID: models.StringTokenID("10")},
			{TokenID: models.NumericTokenID(2)},
		}},
		{Name: "a", Address: "0x1"},
	}}
	NormalizeDocument(doc)

	assert.Equal(t, "a", doc.Wallets[0].Name)
	assert.Equal(t, "b", doc.Wallets[1].Name)
	// "10" canonicalizes to numeric 10, which sorts after 2.
	assert.Equal(t, models.NumericTokenID(2), doc.Wallets[1].NFTs[0].TokenID)
	assert.Equal(t, models.NumericTokenID(10), doc.Wallets[1].NFTs[1].TokenID)
}

func TestNormalizeOrdersWalletsWithCollation(t *testing.T) {
	doc := &models.Document{Wallets: []models.Wallet{
		{Name: "Banana", Address: "0x2"},
		{Name: "apple", Address: "0x1"},
	}}
	NormalizeDocument(doc)

	// Byte order would put "Banana" first; the case-insensitive collator
	// shared with the display path puts "apple" before it.
	assert.Equal(t, "apple", doc.Wallets[0].Name)
	assert.Equal(t, "Banana", doc.Wallets[1].Name)
}

func TestNormalizeIdempotent(t *testing.T) {
	raw := []byte(`{"wallets":[
		{"wallet name": "b", "wallet address": "0x2", "enableShots": "3",
		 "nfts": [{"tokeinid": "7"}, {"tokenId": 1}]},
		{"wallet name": "a", "wallet address": "0x1",
		 "lastChecked": "2026-08-30T05:00:00+09:00"}
	]}`)
	var doc models.Document
	require.NoError(t, json.Unmarshal(raw, &doc))

	NormalizeDocument(&doc)
	first, err := json.Marshal(&doc)
	require.NoError(t, err)

	// Normalizing the canonical output again yields byte-identical JSON.
	var again models.Document
	require.NoError(t, json.Unmarshal(first, &again))
	NormalizeDocument(&again)
	second, err := json.Marshal(&again)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}
