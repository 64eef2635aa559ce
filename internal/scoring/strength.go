package scoring

import (
	"math"
	"regexp"
)

var painRe = regexp.MustCompile(`(?i)\b(problem|issue|broken|damaged|lost|missing|wrong|frustrated|annoying|terrible|horrible|worst|awful|can.?t|won.?t|doesn.?t work|not working|failed|error|waiting|no response|overcharged|too expensive|slow|delay|delayed|scam|scammed|fake|counterfeit|refund|chargeback|dispute|stuck)\b`)

// SignalStrength is the 0-100 composite of engagement, text specificity,
// pain vocabulary, churn risk, and topic focus, rounded to one decimal.
// engagementScore is the upstream vote/like count.
func SignalStrength(text string, engagementScore int, hasChurn bool, primarySubtag string) float64 {
	engagement := math.Min(float64(engagementScore), 200) / 200 * 30
	specificity := math.Min(float64(len(text)), 500) / 500 * 25
	var bonus float64
	if painRe.MatchString(text) {
		bonus += 20
	}
	if hasChurn {
		bonus += 15
	}
	if primarySubtag != "General" {
		bonus += 10
	}
	total := math.Min(engagement+specificity+bonus, 100)
	return math.Round(total*10) / 10
}
