package semcluster

import (
	"context"
	"fmt"

	"github.com/insightforge/insightforge/internal/models"
	"github.com/insightforge/insightforge/internal/vector"
)

// Similar returns the top-k insights nearest to the given insight ID by
// embedding similarity. The query insight itself is excluded from the
// ranking.
func Similar(ctx context.Context, store *vector.Store, byID map[string]*models.Insight, id string, k int) ([]*models.SimilarInsight, error) {
	query, ok := store.Vector(id)
	if !ok {
		return nil, fmt.Errorf("no embedding for insight %s", id)
	}
	// one extra hit to absorb the query itself
	hits, err := store.Search(ctx, query, k+1)
	if err != nil {
		return nil, err
	}
	out := make([]*models.SimilarInsight, 0, k)
	for _, h := range hits {
		if h.ID == id {
			continue
		}
		in, ok := byID[h.ID]
		if !ok {
			continue
		}
		out = append(out, &models.SimilarInsight{Insight: in, Similarity: h.Score})
		if len(out) == k {
			break
		}
	}
	return out, nil
}
