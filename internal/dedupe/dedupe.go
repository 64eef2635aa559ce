// Package dedupe removes near-duplicate insights by text-prefix fingerprint.
// The fingerprint is deliberately coarse: two distinct posts that share a
// long common opening will collide, and the first one seen wins.
package dedupe

import "github.com/insightforge/insightforge/internal/models"

// DefaultPrefixLen is the fingerprint length used when the config does not
// override it.
const DefaultPrefixLen = 150

// Dedupe returns the collection with later fingerprint collisions dropped.
// Input order is preserved and the operation is idempotent.
func Dedupe(insights []*models.Insight, prefixLen int) []*models.Insight {
	if prefixLen <= 0 {
		prefixLen = DefaultPrefixLen
	}
	seen := make(map[string]struct{}, len(insights))
	out := make([]*models.Insight, 0, len(insights))
	for _, in := range insights {
		fp := in.Fingerprint(prefixLen)
		if _, dup := seen[fp]; dup {
			continue
		}
		seen[fp] = struct{}{}
		out = append(out, in)
	}
	return out
}
