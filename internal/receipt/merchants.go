package receipt

import "strings"

// knownMerchants is the curated list of merchant names checked before any
// free-text heuristic. Matching is a case-insensitive substring test and
// the canonical casing listed here is returned.
var knownMerchants = []string{
	"BigBasket",
	"Blinkit",
	"Zepto",
	"Swiggy",
	"Zomato",
	"Amazon",
	"Flipkart",
	"Myntra",
	"DMart",
	"Reliance Fresh",
	"Reliance Digital",
	"More Supermarket",
	"Spencer's",
	"Croma",
	"Vijay Sales",
	"Starbucks",
	"Cafe Coffee Day",
	"McDonald's",
	"Domino's",
	"KFC",
	"Pizza Hut",
	"Subway",
	"Uber",
	"Ola",
	"Rapido",
	"BookMyShow",
	"PVR",
	"Apollo Pharmacy",
	"MedPlus",
	"Lenskart",
	"Decathlon",
	"IKEA",
	"Westside",
	"Pantaloons",
	"Shoppers Stop",
	"Lifestyle",
}

// matchKnownMerchant returns the canonical name of the first known merchant
// found in the text, or "" when none matches.
func matchKnownMerchant(text string) string {
	lower := strings.ToLower(text)
	for _, merchant := range knownMerchants {
		if strings.Contains(lower, strings.ToLower(merchant)) {
			return merchant
		}
	}
	return ""
}
