package scoring

import (
	"strings"

	"github.com/insightforge/insightforge/internal/models"
	"github.com/insightforge/insightforge/pkg/utils"
)

// Domain keywords for base relevance. Each hit is worth 5 points.
var domainKeywords = []string{
	"problem", "issue", "broken", "scam", "fraud", "delay", "lost",
	"refund", "return", "dispute", "complaint", "terrible", "awful",
	"amazing", "love", "hate", "shipping", "damage", "authentic",
	"fake", "counterfeit", "grade", "grading", "vault", "fees",
	"customer service", "support", "help", "advice", "recommend",
	"experience", "review", "warning", "beware", "psa",
	"bgs", "cgc", "ebay", "whatnot", "fanatics", "marketplace",
	"switched to", "moving to", "better than ebay", "leaving ebay",
	"heritage", "goldin", "tcgplayer", "mercari",
	"price guide", "card ladder", "scan to price", "authenticity guarantee",
	"promoted listing", "best offer", "buy it now", "beckett",
}

// High-risk language earns a flat bonus on top of the keyword count.
var riskTerms = []string{"delay", "scam", "broken", "never received"}

const (
	keywordPoints = 5
	riskBonus     = 8
	baseCeiling   = 100
)

// BaseRelevance is the simple keyword-count relevance computed once at
// ingestion: 5 points per matched domain keyword plus 8 when high-risk
// language is present, capped at 100.
func BaseRelevance(text string) int {
	lower := strings.ToLower(text)
	score := 0
	for _, kw := range domainKeywords {
		if strings.Contains(lower, kw) {
			score += keywordPoints
		}
	}
	for _, t := range riskTerms {
		if strings.Contains(lower, t) {
			score += riskBonus
			break
		}
	}
	if score > baseCeiling {
		score = baseCeiling
	}
	return score
}

// PMPriority combines the ingestion-time relevance with the classifier
// outputs. Severity carries 40% of the weight: the system exists to surface
// pain points, so severity dominates.
func PMPriority(baseRelevance, severity, typeConfidence, sentimentConfidence int) float64 {
	return utils.Round2(
		0.2*float64(baseRelevance) +
			0.4*float64(severity) +
			0.2*float64(typeConfidence) +
			0.2*float64(sentimentConfidence))
}

// NormalizePercentiles fills PMPriorityPercentile across the collection by
// min-max scaling the raw priority scores to 0..100. The epsilon keeps a
// uniform collection from dividing by zero.
func NormalizePercentiles(insights []*models.Insight) {
	if len(insights) == 0 {
		return
	}
	lo, hi := insights[0].PMPriorityScore, insights[0].PMPriorityScore
	for _, in := range insights[1:] {
		if in.PMPriorityScore < lo {
			lo = in.PMPriorityScore
		}
		if in.PMPriorityScore > hi {
			hi = in.PMPriorityScore
		}
	}
	for _, in := range insights {
		in.PMPriorityPercentile = utils.Round2(100 * (in.PMPriorityScore - lo) / (hi - lo + 1e-5))
	}
}
