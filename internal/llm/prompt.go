package llm

import (
	"fmt"
	"strings"

	"github.com/lithammer/dedent"
)

// listingPrompt must stay in lockstep with listing.ParseResponse: the "## "
// headings below are what the parser slices on.
const listingPrompt = `
	I am helping a user sell a USED product on Facebook Marketplace. The item is: "%s".

	Step 1: SEARCH EXTENSIVELY for current *used* listings on **Mercari**, **eBay**, and **Facebook Marketplace** to determine the market value. It is CRITICAL to find and use data from these specific resale sites.
	Step 2: Search for official product details and images.

	Based on your research, write the selling post using exactly these sections:

	## Title
	A concise, attractive title suitable for a marketplace listing.

	## Price
	ONLY the estimated resale price or range (e.g. "$150 - $200") based on the used market data found (Mercari, eBay, FB Marketplace). Do NOT include any text such as "trending on", "based on", or source names. Just the numbers.

	## Description
	A simple, helpful description with this structure:
	- **Intro**: A friendly sentence about the item.
	- **User Experience**: Briefly describe why this product is good to use.
	- **Key Features**: 3-4 essential specs as bullet points.
	- **Condition**: [Describe condition here: e.g. lightly used, like new, any scratches?]
	- **Closing**: A simple "Message me if interested!"

	## Image Suggestions
	Direct image URLs taken only from the official brand website or major authorized retailers. Avoid user-uploaded photos and generic stock photos. List the raw image URLs, one per line. If none are directly accessible, leave this section empty.
`

// BuildListingPrompt returns the instruction sent to the model for the given
// item keywords. The keywords are embedded verbatim.
func BuildListingPrompt(keywords string) string {
	return fmt.Sprintf(strings.TrimSpace(dedent.Dedent(listingPrompt)), keywords)
}
