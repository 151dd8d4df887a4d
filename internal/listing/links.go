package listing

import (
	"net/url"
	"strings"
)

// MarketLink is a search deep link into a resale marketplace.
type MarketLink struct {
	Name string
	URL  string
}

// SellerTips are shown next to a generated draft.
var SellerTips = []string{
	"Take clear, well-lit photos of the actual item.",
	"Be honest about any defects or scratches.",
	"Meet buyers in public places for safety.",
	"Accept cash or secure digital payments only.",
}

// MarketLinks returns search links for the keywords on the marketplaces the
// price estimate is based on. The eBay link is filtered to used items.
func MarketLinks(keywords string) []MarketLink {
	q := encodeQueryComponent(keywords)
	return []MarketLink{
		{Name: "eBay", URL: "https://www.ebay.com/sch/i.html?_nkw=" + q + "&LH_ItemCondition=3000"},
		{Name: "Mercari", URL: "https://www.mercari.com/search/?keyword=" + q},
		{Name: "Facebook Marketplace", URL: "https://www.facebook.com/marketplace/search/?query=" + q},
	}
}

// queryComponentReplacer turns url.QueryEscape output into the
// encodeURIComponent form: spaces as %20, and !'()* left unescaped.
var queryComponentReplacer = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// encodeQueryComponent escapes s for use inside a query value.
func encodeQueryComponent(s string) string {
	return queryComponentReplacer.Replace(url.QueryEscape(s))
}

// SourceLabel returns the text to show for a citation: its title, or the
// host name of its URI when the title is empty.
func SourceLabel(src GroundingSource) string {
	if src.Title != "" {
		return src.Title
	}
	u, err := url.Parse(src.URI)
	if err != nil || u.Hostname() == "" {
		return src.URI
	}
	return strings.Replace(u.Hostname(), "www.", "", 1)
}
