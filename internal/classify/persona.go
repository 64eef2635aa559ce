package classify

import "strings"

// Persona labels, most specific first. The ladder distinguishes volume
// sellers and hobby newcomers from the generic buyer/seller split.
const (
	PersonaDeveloper    = "Developer"
	PersonaPowerSeller  = "Power Seller"
	PersonaNewSeller    = "New Seller"
	PersonaSeller       = "Seller"
	PersonaNewCollector = "New Collector"
	PersonaInvestor     = "Investor"
	PersonaBuyer        = "Buyer"
	PersonaCollector    = "Collector"
	PersonaGeneral      = "General"
)

var developerWords = []string{"developer", "api key", "the api", " api ", "sdk", "webhook", "oauth", "rate limit", "integration", "endpoint"}
var powerSellerWords = []string{"power seller", "top rated", "top-rated", "full time seller", "full-time seller", "high volume"}
var newSellerWords = []string{"new to selling", "first time selling", "just started selling", "beginner seller"}
var newCollectorWords = []string{"new to the hobby", "just started collecting", "beginner", "first card", "getting into"}
var investorWords = []string{"invest", "roi", "portfolio", "long term hold", "flip ", "flipping"}

// Persona segments the author by how they talk about the marketplace.
// Developer sits above the seller rungs: tooling feedback usually comes from
// sellers too, and the dev phrasing is the more specific signal.
func Persona(text string) string {
	lower := strings.ToLower(text)
	switch {
	case containsAny(lower, developerWords):
		return PersonaDeveloper
	case containsAny(lower, powerSellerWords):
		return PersonaPowerSeller
	case containsAny(lower, newSellerWords):
		return PersonaNewSeller
	case strings.Contains(lower, "seller") || strings.Contains(lower, "listing") || strings.Contains(lower, "sold"):
		return PersonaSeller
	case containsAny(lower, newCollectorWords):
		return PersonaNewCollector
	case containsAny(lower, investorWords):
		return PersonaInvestor
	case strings.Contains(lower, "buyer") || strings.Contains(lower, "bought") || strings.Contains(lower, "purchase"):
		return PersonaBuyer
	case strings.Contains(lower, "collect"):
		return PersonaCollector
	}
	return PersonaGeneral
}
