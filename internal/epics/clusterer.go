package epics

import (
	"sort"
	"strings"

	"github.com/insightforge/insightforge/internal/models"
	"github.com/insightforge/insightforge/pkg/utils"
)

const (
	sampleCount = 5
	sampleLen   = 200
)

// Cluster re-derives the full epic list from the insight collection. This is
// a pure, stateless fold: it is re-run wholesale on every invocation, never
// incrementally patched. Epics with no members are omitted; insights that
// match nothing land in a trailing catch-all epic.
func Cluster(insights []*models.Insight) []*models.Epic {
	groups := make(map[string][]*models.Insight, len(Table)+1)
	var unmatched []*models.Insight

	for _, in := range insights {
		assigned := false
		for i := range Table {
			if matches(in, &Table[i]) {
				groups[Table[i].Name] = append(groups[Table[i].Name], in)
				assigned = true
				break
			}
		}
		if !assigned {
			unmatched = append(unmatched, in)
		}
	}

	out := make([]*models.Epic, 0, len(Table)+1)
	for i := range Table {
		def := &Table[i]
		members := groups[def.Name]
		if len(members) == 0 {
			continue
		}
		out = append(out, build(def, members, false))
	}
	if len(unmatched) > 0 {
		out = append(out, build(&Definition{
			Name:               CatchAllName,
			Icon:               "📋",
			Description:        "Insights that matched no strategic epic",
			ProductOpportunity: "Review for emerging themes",
		}, unmatched, true))
	}
	return out
}

// matches applies the epic criteria in order: signal flags, subtag
// membership, persona equality, then the two-keyword threshold.
func matches(in *models.Insight, def *Definition) bool {
	if def.Flags != nil && def.Flags(in.SignalFlags) {
		return true
	}
	for _, s := range def.Subtags {
		if in.PrimarySubtag == s {
			return true
		}
	}
	if def.Persona != "" && in.Persona == def.Persona {
		return true
	}
	text := strings.ToLower(in.Text + " " + in.Title)
	hits := 0
	for _, kw := range def.Keywords {
		if strings.Contains(text, kw) {
			hits++
			if hits >= 2 {
				return true
			}
		}
	}
	return false
}

func build(def *Definition, members []*models.Insight, catchAll bool) *models.Epic {
	counts := models.SignalCounts{Total: len(members)}
	ids := make([]string, len(members))
	for i, in := range members {
		ids[i] = in.ID
		switch in.Sentiment {
		case models.SentimentNegative:
			counts.Negative++
		case models.SentimentPositive:
			counts.Positive++
		}
		switch in.TypeTag {
		case models.TypeComplaint:
			counts.Complaints++
		case models.TypeFeatureRequest:
			counts.FeatureRequests++
		}
	}

	// Samples prefer negative sentiment; the sort is stable so collection
	// order decides ties.
	sorted := make([]*models.Insight, len(members))
	copy(sorted, members)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Sentiment == models.SentimentNegative &&
			sorted[j].Sentiment != models.SentimentNegative
	})
	n := sampleCount
	if len(sorted) < n {
		n = len(sorted)
	}
	samples := make([]string, n)
	for i := 0; i < n; i++ {
		samples[i] = utils.Truncate(sorted[i].Text, sampleLen)
	}

	return &models.Epic{
		ClusterID:          slug(def.Name),
		Title:              def.Name,
		Label:              def.Icon + " " + def.Name,
		Description:        def.Description,
		ProductOpportunity: def.ProductOpportunity,
		Size:               len(members),
		Insights:           members,
		InsightIDs:         ids,
		SampleTexts:        samples,
		Counts:             counts,
		CatchAll:           catchAll,
	}
}

// slug derives the stable cluster id from the epic name, e.g.
// "Payment & Checkout" becomes "epic_payment_and_checkout".
func slug(name string) string {
	s := strings.ToLower(name)
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "&", "and")
	return "epic_" + s
}
