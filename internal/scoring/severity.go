// Package scoring turns classifier output into the numeric fields used for
// ranking: severity, base relevance, pm priority, and signal strength.
package scoring

import "strings"

// Severity tiers, highest first. Tiers are mutually exclusive and the first
// matching tier wins.
var severityTiers = []struct {
	Score  int
	Reason string
	Words  []string
}{
	{90, "Contains fraud-related or high-risk terms",
		[]string{"scam", "never received", "fraud", "fake", "authentication error", "vault locked", "stuck"}},
	{70, "Mentions confusion, bugs, or known issues",
		[]string{"issue", "problem", "broken", "confused", "error", "glitch"}},
	{50, "Mild complaint or enhancement request",
		[]string{"could be better", "wish", "suggest", "slow", "should", "would be great if"}},
}

const (
	severityFloor       = 30
	severityFloorReason = "Low-intensity or neutral language"
)

// FrustrationThreshold marks the severity at which the frustration flag is set.
const FrustrationThreshold = 85

// Severity buckets the text into one of the fixed tiers {90, 70, 50, 30} and
// returns the tier's reason string.
func Severity(text string) (int, string) {
	lower := strings.ToLower(text)
	for _, tier := range severityTiers {
		for _, w := range tier.Words {
			if strings.Contains(lower, w) {
				return tier.Score, tier.Reason
			}
		}
	}
	return severityFloor, severityFloorReason
}

// IsFrustration reports whether a severity score crosses the frustration bar.
func IsFrustration(severity int) bool {
	return severity >= FrustrationThreshold
}
