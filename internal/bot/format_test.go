package bot

import (
	"fmt"
	"strings"
	"testing"

	"github.com/raine/listing-genius/internal/listing"
	"github.com/stretchr/testify/assert"
)

func TestFormatListingMessage(t *testing.T) {
	text := formatListingMessage(listing.GeneratedListing{
		Title:       "Fender <Player> Strat & gig bag",
		Price:       "$450",
		Description: "Plays great.\n- Maple neck",
	})

	assert.Equal(t, "<b>Title</b>\n"+
		"<code>Fender &lt;Player&gt; Strat &amp; gig bag</code>\n\n"+
		"<b>Estimated price</b>\n"+
		"<code>$450</code>\n"+
		MsgPriceHint+"\n\n"+
		"<b>Description</b>\n"+
		"<pre>Plays great.\n- Maple neck</pre>", text)
}

func TestFormatListingMessage_EmptyFields(t *testing.T) {
	text := formatListingMessage(listing.GeneratedListing{})

	assert.Equal(t, 3, strings.Count(text, MsgEmptyField))
	assert.NotContains(t, text, "<code></code>")
}

func TestFormatListingMessage_LongDescriptionTruncated(t *testing.T) {
	text := formatListingMessage(listing.GeneratedListing{Description: strings.Repeat("ä", 5000)})

	assert.Less(t, len([]rune(text)), 4096)
	assert.Contains(t, text, "…</pre>")
}

func TestFormatReferencesMessage_NoImagesNoSources(t *testing.T) {
	text := formatReferencesMessage(&listing.GenerationResult{})

	assert.Contains(t, text, MsgNoImages)
	assert.NotContains(t, text, "Price references")
	for _, tip := range listing.SellerTips {
		assert.Contains(t, text, tip)
	}
	assert.True(t, strings.HasSuffix(text, MsgMarketsHeader))
}

func TestFormatReferencesMessage_CapsSources(t *testing.T) {
	var sources []listing.GroundingSource
	for i := 0; i < 13; i++ {
		sources = append(sources, listing.GroundingSource{URI: fmt.Sprintf("https://example.com/%d", i), Title: fmt.Sprintf("Source %d", i)})
	}

	text := formatReferencesMessage(&listing.GenerationResult{Sources: sources})

	assert.Contains(t, text, "Source 9")
	assert.NotContains(t, text, "Source 10")
	assert.Contains(t, text, "…and 3 more")
}

func TestFormatReferencesMessage_EscapesLinks(t *testing.T) {
	text := formatReferencesMessage(&listing.GenerationResult{
		Listing: listing.GeneratedListing{ImageSuggestions: []string{"https://example.com/a.jpg?w=1&h=2"}},
	})

	assert.Contains(t, text, `<a href="https://example.com/a.jpg?w=1&amp;h=2">View image 1</a>`)
}

func TestParseCommand(t *testing.T) {
	cmd, args := parseCommand("/markets@listing_genius_bot  IKEA   Kallax")
	assert.Equal(t, "/markets", cmd)
	assert.Equal(t, []string{"IKEA", "Kallax"}, args)

	cmd, args = parseCommand("")
	assert.Empty(t, cmd)
	assert.Empty(t, args)
}

func TestFormatReplyText(t *testing.T) {
	assert.Equal(t, "a\n  b", formatReplyText("\n\t\ta\n\t\t  b\n"))
	assert.Equal(t, "100% sure", formatReplyText("100% sure"))
	assert.Equal(t, "x=5", formatReplyText("x=%d", 5))
}
