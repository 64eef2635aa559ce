// Package signals runs the independent pattern detectors over post text and
// folds their hits into a primary subtag plus the full ordered subtag set.
package signals

import (
	"strings"

	"github.com/insightforge/insightforge/internal/models"
)

// Subtag labels produced by the flag detectors.
const (
	SubtagGeneral       = "General"
	SubtagPayments      = "Payments"
	SubtagGrading       = "Grading Turnaround"
	SubtagAuthenticity  = "Authenticity Guarantee"
	SubtagPriceGuide    = "Price Guide"
	SubtagVault         = "Vault"
	SubtagVaultDelay    = "Vault Delay"
	SubtagHighValue     = "High-Value"
	SubtagShipping      = "Shipping"
	SubtagRefunds       = "Returns & Refunds"
	SubtagFees          = "Fees"
	SubtagTrust         = "Trust"
	SubtagChurn         = "Competitive Churn"
)

// Result is the tagger output for one post.
type Result struct {
	Flags    models.SignalFlags
	Primary  string
	All      []string
	InDomain bool
}

// fallback is one entry of the secondary topic ladder applied when the flag
// ladder yields General. Plain substring matching, first hit wins; an entry
// may carry an extra Match predicate instead of a word list.
type fallback struct {
	Subtag string
	Words  []string
	Match  func(combined string) bool
}

var fallbackLadder = []fallback{
	{"COMC", []string{"comc", "check out my cards", "checkoutmycards"}, nil},
	{"Grading", []string{"grading", "graded", "slab", "psa ", "bgs ", "cgc ", "sgc ", "grade ", "submission", "re-submit", "crack out", "crossover"}, nil},
	{"App & UX", []string{"app ", "website", "interface", "ui ", "watchlist", "notification", "2fa", "login", "dashboard", "mobile app", "desktop", "blurry label", "edit policy", "can't find the option"}, nil},
	{SubtagRefunds, []string{"inad", "item not as described", "open a return", "return request", "partial refund", "forced to take the return", "return all of them"}, nil},
	{"Competitor Intel", []string{"fanatics", "whatnot", "heritage auction", "alt.xyz", "myslabs"}, nil},
	{"Live Commerce", []string{"live selling", "live break", "case break", "box break", "group break", "live stream", "live shopping", "live auction"}, nil},
	{"Market & Investing", []string{"invest", "roi ", "flip ", "flipping", "profit", "hold ", "long term", "portfolio", "market crash", "market boom", "bubble", "market trend", "prices dropping", "prices rising"}, nil},
	{"Listing Strategy", []string{"how to list", "listing strategy", "listing variants", "competitive product", "views spike", "promoted listing", "best offer", "pricing strategy", "how to price"}, nil},
	{Subtag: SubtagPriceGuide, Match: func(combined string) bool {
		// Valuation chatter only counts with explicit product context.
		if strings.Contains(combined, "ebay") &&
			(strings.Contains(combined, "price guide") || strings.Contains(combined, "scan to price")) {
			return true
		}
		return containsAny(combined, []string{"card ladder", "cardladder", "card-ladder", "ebay price guide"})
	}},
	{SubtagShipping, []string{"shipping label", "standard envelope", "mailer", "packing", "usps", "fedex", "ups ", "how to ship", "shipping cost", "tracking"}, nil},
	{"Account Issues", []string{"account suspended", "account banned", "account restricted", "account limited", "ebay down", "can't access", "locked out"}, nil},
	{"Customer Service", []string{"customer service", "support", "called ebay", "chat with ebay", "ebay rep", "no response"}, nil},
	{"Beckett", []string{"beckett", "bgs ", "beckett grading", "beckett acquisition"}, nil},
	{"Subsidiaries", []string{"goldin", "tcgplayer", "tcg player"}, nil},
	{"Seller Experience", []string{"seller", "listing", "sold"}, nil},
	{"Buyer Experience", []string{"buyer", "bought", "purchase", "order"}, nil},
	{"Collecting", []string{"collect", "hobby"}, nil},
}

// Tag detects every signal flag over title+text, builds the ordered subtag
// set, and resolves the primary subtag through the priority ladder. The
// ladder only fires when the post is in-domain; otherwise the primary stays
// General so off-platform mentions are not attributed to the marketplace.
func Tag(title, text string) Result {
	combined := strings.ToLower(strings.TrimSpace(title + " " + text))

	hasPaymentNoise := containsAny(combined, paymentNoise)
	var f models.SignalFlags
	f.PaymentIssue = !hasPaymentNoise &&
		(rePaymentFlow.MatchString(combined) || reHighValuePayment.MatchString(combined))
	f.UnpaidItem = reUnpaidItem.MatchString(combined)
	f.HighValue = reHighValue.MatchString(combined)
	f.GradingDelay = reGradingDelay.MatchString(combined)
	f.Authenticity = reAuthenticity.MatchString(combined)
	f.PriceGuide = !containsAny(combined, priceGuideExclude) &&
		(rePriceGuideExact.MatchString(combined) ||
			(reEbayWord.MatchString(combined) && rePriceGuideProduct.MatchString(combined)))
	f.Vault = reVault.MatchString(combined)
	f.ShippingIssue = reShipping.MatchString(combined)
	f.RefundIssue = reRefund.MatchString(combined)
	f.FeeConcern = reFees.MatchString(combined)
	f.TrustIssue = reTrust.MatchString(combined)
	f.Churn = reChurn.MatchString(combined)
	f.Praise = rePraise.MatchString(combined)

	all := collectSubtags(f, combined)

	inDomain := reMarketplaceFeatures.MatchString(combined) || reCollectibles.MatchString(combined)
	primary := SubtagGeneral
	if inDomain {
		primary = ladderPrimary(f)
	}
	if primary == SubtagGeneral {
		if s := fallbackSubtag(combined); s != "" {
			primary = s
		}
	}

	if !contains(all, primary) {
		all = append([]string{primary}, all...)
	}

	return Result{Flags: f, Primary: primary, All: all, InDomain: inDomain}
}

// ladderPrimary resolves the most specific flag that fired. Order matters:
// trust outranks vault, churn outranks everything.
func ladderPrimary(f models.SignalFlags) string {
	switch {
	case f.Churn:
		return SubtagChurn
	case f.TrustIssue:
		return SubtagTrust
	case f.GradingDelay:
		return SubtagGrading
	case f.Authenticity:
		return SubtagAuthenticity
	case f.PaymentIssue || f.UnpaidItem:
		return SubtagPayments
	case f.RefundIssue:
		return SubtagRefunds
	case f.ShippingIssue:
		return SubtagShipping
	case f.FeeConcern:
		return SubtagFees
	case f.Vault:
		return SubtagVault
	case f.PriceGuide:
		return SubtagPriceGuide
	case f.HighValue:
		return SubtagHighValue
	}
	return SubtagGeneral
}

// collectSubtags builds the all-subtags set in detector order. The vault
// strong combination (a vault mention next to delay vocabulary) is inserted
// at the front since it is the most specific signal in the set.
func collectSubtags(f models.SignalFlags, combined string) []string {
	var all []string
	if f.PaymentIssue || f.UnpaidItem {
		all = append(all, SubtagPayments)
	}
	if f.GradingDelay {
		all = append(all, SubtagGrading)
	}
	if f.Authenticity {
		all = append(all, SubtagAuthenticity)
	}
	if f.PriceGuide {
		all = append(all, SubtagPriceGuide)
	}
	if f.Vault {
		all = append(all, SubtagVault)
	}
	if f.HighValue {
		all = append(all, SubtagHighValue)
	}
	if f.ShippingIssue {
		all = append(all, SubtagShipping)
	}
	if f.RefundIssue {
		all = append(all, SubtagRefunds)
	}
	if f.FeeConcern {
		all = append(all, SubtagFees)
	}
	if f.TrustIssue {
		all = append(all, SubtagTrust)
	}
	if f.Churn {
		all = append(all, SubtagChurn)
	}
	if f.Vault && reDelayTerm.MatchString(combined) {
		all = append([]string{SubtagVaultDelay}, all...)
	}
	if len(all) == 0 {
		all = []string{SubtagGeneral}
	}
	return all
}

func fallbackSubtag(combined string) string {
	for _, fb := range fallbackLadder {
		if fb.Match != nil {
			if fb.Match(combined) {
				return fb.Subtag
			}
			continue
		}
		if containsAny(combined, fb.Words) {
			return fb.Subtag
		}
	}
	return ""
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
