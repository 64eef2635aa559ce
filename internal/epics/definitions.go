// Package epics folds the insight collection into a fixed, ordered set of
// strategic epics. Assignment is first-match-wins over the table, so the
// table order is part of the product definition, not an implementation
// detail.
package epics

import "github.com/insightforge/insightforge/internal/models"

// Definition is one strategic epic. An insight matches when any of its
// listed signal flags is set, or its primary subtag is in Subtags, or its
// persona equals Persona, or at least two Keywords appear in its text.
type Definition struct {
	Name               string
	Icon               string
	Description        string
	ProductOpportunity string
	Flags              func(models.SignalFlags) bool
	Subtags            []string
	Keywords           []string
	Persona            string
}

// Table holds the epics in priority order: signal-based epics first,
// persona-based last.
var Table = []Definition{
	{
		Name:               "Payment & Checkout",
		Icon:               "💳",
		Description:        "Reduce friction in payment flow from checkout to payout, including unpaid items",
		ProductOpportunity: "Seamless collectibles payment experience",
		Flags:              func(f models.SignalFlags) bool { return f.PaymentIssue || f.UnpaidItem },
		Subtags:            []string{"Payments"},
		Keywords: []string{"payment", "checkout", "funds", "payout", "transaction", "declined",
			"unpaid", "non-paying", "didn't pay", "won't pay", "blocked", "banned", "restricted", "suspended"},
	},
	{
		Name:               "Trust & Safety",
		Icon:               "🛡️",
		Description:        "Build buyer/seller confidence through authentication, fraud prevention, and transparent marketplace practices",
		ProductOpportunity: "End-to-end trust ecosystem for collectibles",
		Flags:              func(f models.SignalFlags) bool { return f.Authenticity || f.TrustIssue },
		Subtags:            []string{"Trust", "Authenticity Guarantee"},
		Keywords:           []string{"counterfeit", "fake", "scam", "fraud", "authentic", "verification", "trust"},
	},
	{
		Name:               "High-Value Collectibles",
		Icon:               "💎",
		Description:        "Premium experience for investment-grade cards, coins, and collectibles",
		ProductOpportunity: "White-glove service for high-value transactions",
		Flags:              func(f models.SignalFlags) bool { return f.HighValue || f.Vault },
		Subtags:            []string{"High-Value", "Vault"},
		Keywords:           []string{"expensive", "investment", "psa 10", "gem mint", "valuable", "vault", "graded"},
	},
	{
		Name:               "Buyer Experience",
		Icon:               "🛒",
		Description:        "Streamline discovery, purchase, and post-purchase experience for collectors",
		ProductOpportunity: "Collector-focused buying journey",
		Flags:              func(f models.SignalFlags) bool { return f.ShippingIssue || f.RefundIssue },
		Subtags:            []string{"Shipping", "Returns & Refunds"},
		Keywords:           []string{"buyer", "purchase", "shipping", "delivery", "return", "refund"},
		Persona:            "Buyer",
	},
	{
		Name:               "Seller Success",
		Icon:               "📈",
		Description:        "Help sellers price, list, and sell collectibles efficiently with tools and protection",
		ProductOpportunity: "Seller toolkit for collectibles specialists",
		Flags:              func(f models.SignalFlags) bool { return f.PriceGuide },
		Keywords:           []string{"seller", "listing", "price", "sold", "fee"},
		Persona:            "Seller",
	},
}

// CatchAllName labels the trailing epic that collects unmatched insights.
const CatchAllName = "Unclustered"
