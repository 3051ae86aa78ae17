// services/messages.go
package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"camera-status-bot/models"

	"github.com/line/line-bot-sdk-go/v7/linebot"
)

// usageThresholds maps a wallet's maxShots to the enableShots ranges rendered
// yellow and red in the chat summary. Capacities outside the known tiers fall
// back to yellow for anything between 1 and max-1 and red at max.
var usageThresholds = map[int][2][2]int{
	16: {{9, 12}, {13, 16}},
	8:  {{5, 6}, {7, 8}},
	4:  {{3, 3}, {4, 4}},
	2:  {{1, 1}, {2, 2}},
}

func usageLabel(shots, max int) string {
	t, ok := usageThresholds[max]
	if !ok {
		t = [2][2]int{{1, max - 1}, {max, max}}
	}
	yellow, red := t[0], t[1]
	switch {
	case shots >= red[0] && shots <= red[1]:
		return "🟥"
	case shots >= yellow[0] && shots <= yellow[1]:
		return "🟨"
	default:
		return "🟩"
	}
}

// padName pads a display name to a fixed width with full-width spaces so the
// counts line up in LINE's proportional font.
func padName(name string, width int) string {
	if name == "" {
		name = "Unnamed"
	}
	if n := utf8.RuneCountInString(name); n < width {
		return name + strings.Repeat("　", width-n)
	}
	return name
}

// BuildStatusMessage renders the plain-text allowance summary, one line per
// wallet in the given display order.
func BuildStatusMessage(doc *models.Document, order []string) string {
	byAddress := make(map[string]*models.Wallet, len(doc.Wallets))
	for i := range doc.Wallets {
		byAddress[doc.Wallets[i].Address] = &doc.Wallets[i]
	}

	lines := make([]string, 0, len(order))
	for _, addr := range order {
		w, ok := byAddress[addr]
		if !ok {
			continue
		}
		shots := w.EnableShots.Int()
		max := 16
		if w.MaxShots.Valid {
			max = w.MaxShots.Int()
		}
		lines = append(lines, fmt.Sprintf("%s %s%d枚", usageLabel(shots, max), padName(w.Name, 10), shots))
	}
	return "📸 撮影可能枚数一覧\n\n" + strings.Join(lines, "\n")
}

// BuildFlexCarousel renders the allowance summary as a flex-message carousel,
// one bubble per wallet in display order.
func BuildFlexCarousel(doc *models.Document, order []string) *linebot.FlexMessage {
	byAddress := make(map[string]*models.Wallet, len(doc.Wallets))
	for i := range doc.Wallets {
		byAddress[doc.Wallets[i].Address] = &doc.Wallets[i]
	}

	bubbles := make([]*linebot.BubbleContainer, 0, len(order))
	for _, addr := range order {
		w, ok := byAddress[addr]
		if !ok {
			continue
		}
		bubbles = append(bubbles, walletBubble(w))
	}

	return linebot.NewFlexMessage("撮影可能枚数一覧", &linebot.CarouselContainer{
		Type:     linebot.FlexContainerTypeCarousel,
		Contents: bubbles,
	})
}

func walletBubble(w *models.Wallet) *linebot.BubbleContainer {
	title := w.Name
	image := ""
	for i := range w.NFTs {
		if w.NFTs[i].Name != "" && title == "" {
			title = w.NFTs[i].Name
		}
		if w.NFTs[i].Image != "" && image == "" {
			image = w.NFTs[i].Image
		}
	}
	if title == "" {
		title = w.Address
	}

	bubble := &linebot.BubbleContainer{
		Type: linebot.FlexContainerTypeBubble,
		Body: &linebot.BoxComponent{
			Type:   linebot.FlexComponentTypeBox,
			Layout: linebot.FlexBoxLayoutTypeVertical,
			Contents: []linebot.FlexComponent{
				&linebot.TextComponent{
					Type:   linebot.FlexComponentTypeText,
					Text:   title,
					Weight: linebot.FlexTextWeightTypeBold,
					Size:   linebot.FlexTextSizeTypeMd,
					Wrap:   true,
				},
				&linebot.TextComponent{
					Type:  linebot.FlexComponentTypeText,
					Text:  fmt.Sprintf("残枚数: %d", w.EnableShots.Int()),
					Size:  linebot.FlexTextSizeTypeSm,
					Color: "#999999",
				},
			},
		},
	}
	if image != "" {
		bubble.Hero = &linebot.ImageComponent{
			Type:        linebot.FlexComponentTypeImage,
			URL:         image,
			Size:        linebot.FlexImageSizeTypeFull,
			AspectRatio: linebot.FlexImageAspectRatioType20to13,
			AspectMode:  linebot.FlexImageAspectModeTypeCover,
		}
	}
	return bubble
}
