// Package semcluster is the embedding-based grouping path: density
// clustering over insight text embeddings, plus nearest-neighbor lookups.
// It is only active when an embedder is configured; the rule-based epic
// path never depends on it.
package semcluster

import (
	"github.com/insightforge/insightforge/internal/models"
	"github.com/insightforge/insightforge/internal/vector"
)

// Noise is the label DBSCAN assigns to points that belong to no cluster.
const Noise = -1

// Cluster runs DBSCAN over the insight embeddings with cosine distance.
// insights[i] corresponds to vectors[i]. Noise points are dropped from the
// output; cluster labels are assigned in discovery order starting at 0.
func Cluster(insights []*models.Insight, vectors [][]float32, eps float64, minPts int) []*models.SemanticCluster {
	n := len(insights)
	if n == 0 || n != len(vectors) {
		return nil
	}
	if minPts < 1 {
		minPts = 1
	}

	labels := make([]int, n)
	for i := range labels {
		labels[i] = Noise
	}
	visited := make([]bool, n)

	next := 0
	for i := 0; i < n; i++ {
		if visited[i] {
			continue
		}
		visited[i] = true
		neighbors := regionQuery(vectors, i, eps)
		if len(neighbors) < minPts {
			continue
		}
		expandCluster(vectors, labels, visited, i, neighbors, next, eps, minPts)
		next++
	}

	groups := make(map[int][]*models.Insight)
	for i, label := range labels {
		if label != Noise {
			groups[label] = append(groups[label], insights[i])
		}
	}

	out := make([]*models.SemanticCluster, 0, len(groups))
	for label := 0; label < next; label++ {
		members := groups[label]
		if len(members) == 0 {
			continue
		}
		ids := make([]string, len(members))
		for i, in := range members {
			ids[i] = in.ID
		}
		out = append(out, &models.SemanticCluster{
			Label:      label,
			Size:       len(members),
			Insights:   members,
			InsightIDs: ids,
		})
	}
	return out
}

// expandCluster grows cluster id from the seed point's neighborhood,
// absorbing every density-reachable point.
func expandCluster(vectors [][]float32, labels []int, visited []bool, point int, neighbors []int, id int, eps float64, minPts int) {
	labels[point] = id
	for k := 0; k < len(neighbors); k++ {
		p := neighbors[k]
		if !visited[p] {
			visited[p] = true
			more := regionQuery(vectors, p, eps)
			if len(more) >= minPts {
				neighbors = append(neighbors, more...)
			}
		}
		if labels[p] == Noise {
			labels[p] = id
		}
	}
}

// regionQuery returns the indices within eps cosine distance of point,
// including the point itself.
func regionQuery(vectors [][]float32, point int, eps float64) []int {
	var out []int
	for i := range vectors {
		if vector.CosineDistance(vectors[point], vectors[i]) <= eps {
			out = append(out, i)
		}
	}
	return out
}
