package classify

import (
	"regexp"
	"strings"

	"github.com/insightforge/insightforge/internal/models"
)

var specificityWords = []string{"specific", "example", "when i", "after i"}

// Clarity grades how actionable the text is from length and the presence of
// concrete narrative markers.
func Clarity(text string) string {
	lower := strings.ToLower(text)
	switch {
	case len(text) > 200 && containsAny(lower, specificityWords):
		return models.ClarityHigh
	case len(text) > 100:
		return models.ClarityMedium
	}
	return models.ClarityLow
}

// urgentRe uses word boundaries so "now" does not fire inside "know".
var urgentRe = regexp.MustCompile(`(?i)\b(urgent|asap|immediately|now|critical|emergency|stuck|blocked)\b`)

// IsUrgent reports whether the text carries time-pressure language.
func IsUrgent(text string) bool {
	return urgentRe.MatchString(text)
}
