package epics

import (
	"testing"

	"github.com/insightforge/insightforge/internal/models"
)

func insight(id string, mut func(*models.Insight)) *models.Insight {
	in := &models.Insight{ID: id, PrimarySubtag: "General", Persona: "General"}
	if mut != nil {
		mut(in)
	}
	return in
}

func TestClusterFirstMatchWins(t *testing.T) {
	// Trust flag and vault flag both set: Trust & Safety precedes
	// High-Value Collectibles in the table, so it wins.
	in := insight("a", func(i *models.Insight) {
		i.TrustIssue = true
		i.Vault = true
		i.Text = "PSA vault isn't trustworthy anymore, items stuck for months"
	})
	got := Cluster([]*models.Insight{in})
	if len(got) != 1 {
		t.Fatalf("epic count = %d, want 1", len(got))
	}
	if got[0].Title != "Trust & Safety" {
		t.Errorf("assigned to %q, want Trust & Safety", got[0].Title)
	}
	if got[0].ClusterID != "epic_trust_and_safety" {
		t.Errorf("ClusterID = %q", got[0].ClusterID)
	}
}

func TestClusterDisjointAssignment(t *testing.T) {
	payment := insight("p", func(i *models.Insight) { i.PaymentIssue = true })
	trust := insight("t", func(i *models.Insight) { i.TrustIssue = true })
	both := insight("b", func(i *models.Insight) {
		i.PaymentIssue = true
		i.TrustIssue = true
	})
	got := Cluster([]*models.Insight{payment, trust, both})

	seen := map[string]int{}
	for _, e := range got {
		for _, id := range e.InsightIDs {
			seen[id]++
		}
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("insight %s appears in %d epics", id, n)
		}
	}
	if len(seen) != 3 {
		t.Errorf("assigned %d insights, want 3", len(seen))
	}
}

func TestClusterKeywordThreshold(t *testing.T) {
	one := insight("one", func(i *models.Insight) {
		i.Text = "the payment went through fine"
	})
	two := insight("two", func(i *models.Insight) {
		i.Text = "payment declined at checkout again"
	})
	got := Cluster([]*models.Insight{one, two})

	var payments, catchAll *models.Epic
	for _, e := range got {
		switch e.Title {
		case "Payment & Checkout":
			payments = e
		case CatchAllName:
			catchAll = e
		}
	}
	if payments == nil || len(payments.InsightIDs) != 1 || payments.InsightIDs[0] != "two" {
		t.Errorf("two keyword hits should match, one should not: %+v", payments)
	}
	if catchAll == nil || !catchAll.CatchAll || catchAll.InsightIDs[0] != "one" {
		t.Errorf("single-hit insight should land in catch-all: %+v", catchAll)
	}
}

func TestClusterPersonaMatch(t *testing.T) {
	in := insight("s", func(i *models.Insight) {
		i.Persona = "Seller"
		i.Text = "thinking about consignment options"
	})
	got := Cluster([]*models.Insight{in})
	if len(got) != 1 || got[0].Title != "Seller Success" {
		t.Fatalf("persona Seller should reach Seller Success, got %+v", got)
	}
}

func TestClusterCounts(t *testing.T) {
	members := []*models.Insight{
		insight("a", func(i *models.Insight) {
			i.TrustIssue = true
			i.Sentiment = models.SentimentNegative
			i.TypeTag = models.TypeComplaint
		}),
		insight("b", func(i *models.Insight) {
			i.TrustIssue = true
			i.Sentiment = models.SentimentPositive
			i.TypeTag = models.TypeFeatureRequest
		}),
		insight("c", func(i *models.Insight) {
			i.TrustIssue = true
			i.Sentiment = models.SentimentNeutral
			i.TypeTag = models.TypeDiscussion
		}),
	}
	got := Cluster(members)
	if len(got) != 1 {
		t.Fatalf("epic count = %d, want 1", len(got))
	}
	c := got[0].Counts
	if c.Total != 3 || c.Complaints != 1 || c.FeatureRequests != 1 || c.Negative != 1 || c.Positive != 1 {
		t.Errorf("counts = %+v", c)
	}
	if got[0].Size != 3 {
		t.Errorf("size = %d, want 3", got[0].Size)
	}
}

func TestClusterSamplesPreferNegative(t *testing.T) {
	members := make([]*models.Insight, 0, 7)
	for i := 0; i < 6; i++ {
		members = append(members, insight(string(rune('a'+i)), func(in *models.Insight) {
			in.TrustIssue = true
			in.Sentiment = models.SentimentNeutral
			in.Text = "neutral trust comment"
		}))
	}
	members = append(members, insight("neg", func(in *models.Insight) {
		in.TrustIssue = true
		in.Sentiment = models.SentimentNegative
		in.Text = "counterfeit slab, total scam"
	}))

	got := Cluster(members)
	if len(got) != 1 {
		t.Fatalf("epic count = %d", len(got))
	}
	if len(got[0].SampleTexts) != 5 {
		t.Fatalf("sample count = %d, want 5", len(got[0].SampleTexts))
	}
	if got[0].SampleTexts[0] != "counterfeit slab, total scam" {
		t.Errorf("first sample = %q, want the negative one", got[0].SampleTexts[0])
	}
}

func TestClusterEmptyInput(t *testing.T) {
	if got := Cluster(nil); len(got) != 0 {
		t.Errorf("empty input should produce no epics, got %d", len(got))
	}
}
