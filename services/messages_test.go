package services

import (
	"strings"
	"testing"

	"camera-status-bot/models"

	"github.com/line/line-bot-sdk-go/v7/linebot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsageLabel(t *testing.T) {
	tests := []struct {
		shots, max int
		want       string
	}{
		{0, 16, "🟩"},
		{8, 16, "🟩"},
		{9, 16, "🟨"},
		{12, 16, "🟨"},
		{13, 16, "🟥"},
		{16, 16, "🟥"},
		{4, 8, "🟩"},
		{5, 8, "🟨"},
		{7, 8, "🟥"},
		{3, 4, "🟨"},
		{4, 4, "🟥"},
		{1, 2, "🟨"},
		{2, 2, "🟥"},
		// Unknown capacity falls back to yellow mid-range, red at max.
		{1, 6, "🟨"},
		{6, 6, "🟥"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, usageLabel(tt.shots, tt.max), "shots=%d max=%d", tt.shots, tt.max)
	}
}

func TestBuildStatusMessage(t *testing.T) {
	doc := &models.Document{Wallets: []models.Wallet{
		{Name: "さくら", Address: "0x1", MaxShots: models.Num(16), EnableShots: models.Num(4)},
		{Name: "うめ", Address: "0x2", MaxShots: models.Num(8), EnableShots: models.Num(7)},
	}}
	msg := BuildStatusMessage(doc, []string{"0x2", "0x1"})

	lines := strings.Split(msg, "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "📸 撮影可能枚数一覧", lines[0])
	assert.True(t, strings.HasPrefix(lines[2], "🟥 うめ"))
	assert.True(t, strings.HasSuffix(lines[2], "7枚"))
	assert.True(t, strings.HasPrefix(lines[3], "🟩 さくら"))

	// Addresses missing from the document are skipped, not rendered empty.
	short := BuildStatusMessage(doc, []string{"0x2", "0xmissing"})
	assert.Len(t, strings.Split(short, "\n"), 3)
}

func TestBuildFlexCarousel(t *testing.T) {
	doc := &models.Document{Wallets: []models.Wallet{
		{
			Name: "さくら", Address: "0x1",
			MaxShots: models.Num(16), EnableShots: models.Num(4),
			NFTs: []models.NFT{{TokenID: models.NumericTokenID(1), Name: "Camera #1", Image: "https://example.com/cam.png"}},
		},
		{Name: "うめ", Address: "0x2", MaxShots: models.Num(8), EnableShots: models.Num(7)},
	}}
	flex := BuildFlexCarousel(doc, []string{"0x1", "0x2"})

	carousel, ok := flex.Contents.(*linebot.CarouselContainer)
	require.True(t, ok)
	require.Len(t, carousel.Contents, 2)

	// First bubble carries the camera image hero; the second has none.
	require.NotNil(t, carousel.Contents[0].Hero)
	hero, ok := carousel.Contents[0].Hero.(*linebot.ImageComponent)
	require.True(t, ok)
	assert.Equal(t, "https://example.com/cam.png", hero.URL)
	assert.Nil(t, carousel.Contents[1].Hero)

	title, ok := carousel.Contents[0].Body.Contents[0].(*linebot.TextComponent)
	require.True(t, ok)
	assert.Equal(t, "さくら", title.Text)

	count, ok := carousel.Contents[0].Body.Contents[1].(*linebot.TextComponent)
	require.True(t, ok)
	assert.Equal(t, "残枚数: 4", count.Text)
}
