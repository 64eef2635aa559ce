package semcluster

import (
	"context"
	"testing"

	"github.com/insightforge/insightforge/internal/models"
	"github.com/insightforge/insightforge/internal/vector"
)

// two tight groups on opposite axes plus one outlier
func fixture() ([]*models.Insight, [][]float32) {
	insights := []*models.Insight{
		{ID: "a1"}, {ID: "a2"}, {ID: "a3"},
		{ID: "b1"}, {ID: "b2"}, {ID: "b3"},
		{ID: "noise"},
	}
	vectors := [][]float32{
		{1, 0, 0},
		{0.99, 0.14, 0},
		{0.99, 0, 0.14},
		{0, 1, 0},
		{0.14, 0.99, 0},
		{0, 0.99, 0.14},
		{0, 0, 1},
	}
	return insights, vectors
}

func TestClusterTwoGroups(t *testing.T) {
	insights, vectors := fixture()
	got := Cluster(insights, vectors, 0.4, 3)
	if len(got) != 2 {
		t.Fatalf("cluster count = %d, want 2", len(got))
	}
	if got[0].Label != 0 || got[1].Label != 1 {
		t.Errorf("labels = %d, %d; want 0, 1", got[0].Label, got[1].Label)
	}
	sizes := map[int]int{}
	assigned := map[string]bool{}
	for _, c := range got {
		sizes[c.Label] = c.Size
		for _, id := range c.InsightIDs {
			if assigned[id] {
				t.Errorf("insight %s in two clusters", id)
			}
			assigned[id] = true
		}
	}
	if sizes[0] != 3 || sizes[1] != 3 {
		t.Errorf("sizes = %v, want 3 and 3", sizes)
	}
	if assigned["noise"] {
		t.Error("outlier should be dropped as noise")
	}
}

func TestClusterMinPoints(t *testing.T) {
	insights, vectors := fixture()
	// minPts above the group size: everything is noise
	if got := Cluster(insights, vectors, 0.4, 5); len(got) != 0 {
		t.Errorf("cluster count = %d, want 0 when minPts exceeds group size", len(got))
	}
}

func TestClusterDegenerateInput(t *testing.T) {
	if got := Cluster(nil, nil, 0.4, 3); got != nil {
		t.Errorf("nil input should produce nil, got %v", got)
	}
	one := []*models.Insight{{ID: "only"}}
	if got := Cluster(one, [][]float32{{1, 0}}, 0.4, 3); len(got) != 0 {
		t.Errorf("single point below minPts should be noise, got %d clusters", len(got))
	}
}

func TestSimilar(t *testing.T) {
	insights, vectors := fixture()
	store, err := vector.NewStore(3)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	byID := make(map[string]*models.Insight, len(insights))
	ids := make([]string, len(insights))
	for i, in := range insights {
		ids[i] = in.ID
		byID[in.ID] = in
	}
	if err := store.Add(ctx, ids, vectors); err != nil {
		t.Fatal(err)
	}

	got, err := Similar(ctx, store, byID, "a1", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	for _, s := range got {
		if s.Insight.ID == "a1" {
			t.Error("query insight present in its own ranking")
		}
		if s.Insight.ID[0] != 'a' {
			t.Errorf("nearest neighbors of a1 should be a-group, got %s", s.Insight.ID)
		}
	}
	if got[0].Similarity < got[1].Similarity {
		t.Error("results not sorted by similarity")
	}

	if _, err := Similar(ctx, store, byID, "ghost", 2); err == nil {
		t.Error("unknown id should error")
	}
}
