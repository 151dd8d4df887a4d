package bot

// =============================================================================
// General messages
// =============================================================================

const (
	MsgStart = `
		👋 Send me a short description of what you're selling, for example:

		<code>iPhone 13 Pro Max Blue 128GB with slight scratches</code>

		I'll check current <b>used</b> prices on Mercari, eBay and Facebook Marketplace and draft a title, price and description for your post.

		<b>Tip:</b> include condition (e.g. "like new", "used"), defects and model year for the most accurate resale price.`
	MsgUnknownCommand  = "Unknown command. Send /help for instructions."
	MsgKeywordsMissing = "What are you selling? Send a short description of the item."
)

// =============================================================================
// Generation messages
// =============================================================================

const (
	MsgGenerating         = "🔎 Checking used markets and drafting your post..."
	MsgStillGenerating    = "⏳ Still working on your previous item, please wait."
	MsgGenerationFailed   = "⚠️ <b>Generation failed</b>\n%s"
	MsgConfigurationError = "⚠️ <b>Generation failed</b>\nThe AI service is not configured. Please check your configuration."
	MsgNothingToRetry     = "Nothing to retry. Send a description of the item."
	MsgMarketsUsage       = "Usage: <code>/markets &lt;item description&gt;</code>"
	MsgMarketsHeader      = "Compare prices directly on:"
	MsgNoImages           = "<i>No direct official image links found. Please check the sources below for product pages.</i>"
	MsgPriceHint          = "<i>Estimate based on sold listings from Mercari, eBay, and FB Marketplace.</i>"
	MsgEmptyField         = "<i>(empty)</i>"
	BtnTryAgain           = "🔄 Try again"
)
