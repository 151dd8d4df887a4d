package bot

import (
	"fmt"
	"html"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/raine/listing-genius/internal/listing"
)

const (
	// Telegram rejects messages longer than 4096 characters; leave room for markup.
	maxDescriptionRunes = 3000
	maxSourcesShown     = 10
	callbackRetry       = "retry"
)

func fieldOrEmpty(value string, wrap func(string) string) string {
	if strings.TrimSpace(value) == "" {
		return MsgEmptyField
	}
	return wrap(html.EscapeString(value))
}

func code(s string) string { return "<code>" + s + "</code>" }
func pre(s string) string  { return "<pre>" + s + "</pre>" }

// formatListingMessage renders the editable listing fields. Each field is in a
// code block so it can be copied with a tap.
func formatListingMessage(l listing.GeneratedListing) string {
	var b strings.Builder
	b.WriteString("<b>Title</b>\n")
	b.WriteString(fieldOrEmpty(l.Title, code))
	b.WriteString("\n\n<b>Estimated price</b>\n")
	b.WriteString(fieldOrEmpty(l.Price, code))
	b.WriteString("\n")
	b.WriteString(MsgPriceHint)
	b.WriteString("\n\n<b>Description</b>\n")
	b.WriteString(fieldOrEmpty(truncateRunes(l.Description, maxDescriptionRunes), pre))
	return b.String()
}

// formatReferencesMessage renders image links, grounding sources and seller
// tips.
func formatReferencesMessage(result *listing.GenerationResult) string {
	var b strings.Builder

	b.WriteString("<b>Official product images</b>\n")
	if len(result.Listing.ImageSuggestions) == 0 {
		b.WriteString(MsgNoImages)
		b.WriteString("\n")
	}
	for i, u := range result.Listing.ImageSuggestions {
		fmt.Fprintf(&b, "🖼 <a href=\"%s\">View image %d</a>\n", html.EscapeString(u), i+1)
	}

	if len(result.Sources) > 0 {
		b.WriteString("\n<b>Price references &amp; data</b>\n")
		for i, src := range result.Sources {
			if i == maxSourcesShown {
				fmt.Fprintf(&b, "…and %d more\n", len(result.Sources)-maxSourcesShown)
				break
			}
			fmt.Fprintf(&b, "• <a href=\"%s\">%s</a>\n", html.EscapeString(src.URI), html.EscapeString(listing.SourceLabel(src)))
		}
	}

	b.WriteString("\n<b>Seller tips</b>\n")
	for _, tip := range listing.SellerTips {
		b.WriteString("• ")
		b.WriteString(html.EscapeString(tip))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(MsgMarketsHeader)
	return strings.TrimSpace(b.String())
}

// marketLinksKeyboard returns one URL button per marketplace search link.
func marketLinksKeyboard(keywords string) tgbotapi.InlineKeyboardMarkup {
	links := listing.MarketLinks(keywords)
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(links))
	for _, link := range links {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("🔍 "+link.Name, link.URL),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func retryKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(BtnTryAgain, callbackRetry),
		),
	)
}
