package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/insightforge/insightforge/internal/models"
)

func testInsight(id, subtag, typeTag, sentiment string, severity int, priority float64) *models.Insight {
	return &models.Insight{
		ID:              id,
		Text:            "text for " + id,
		Source:          "Reddit",
		PrimarySubtag:   subtag,
		AllSubtags:      []string{subtag},
		TypeTag:         typeTag,
		Sentiment:       sentiment,
		TargetBrand:     "eBay",
		SeverityScore:   severity,
		PMPriorityScore: priority,
	}
}

func TestSQLiteStorage_Insights(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	store, err := NewSQLiteStorage(path)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	ctx := context.Background()

	insights := []*models.Insight{
		testInsight("i1", "Payments", models.TypeComplaint, models.SentimentNegative, 90, 80.5),
		testInsight("i2", "Shipping", models.TypeQuestion, models.SentimentNeutral, 30, 40.2),
		testInsight("i3", "Payments", models.TypeFeatureRequest, models.SentimentNegative, 50, 61.0),
	}
	if err := store.ReplaceInsights(ctx, insights); err != nil {
		t.Fatal(err)
	}

	got, err := store.GetInsight(ctx, "i2")
	if err != nil {
		t.Fatal(err)
	}
	if got.PrimarySubtag != "Shipping" || got.TypeTag != models.TypeQuestion {
		t.Errorf("got %+v", got)
	}

	list, err := store.ListInsights(ctx, InsightFilter{}, 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 insights, got %d", len(list))
	}
	if list[0].ID != "i1" {
		t.Errorf("expected priority order with i1 first, got %s", list[0].ID)
	}

	list, err = store.ListInsights(ctx, InsightFilter{Subtag: "Payments"}, 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Errorf("expected 2 Payments insights, got %d", len(list))
	}

	list, err = store.ListInsights(ctx, InsightFilter{Subtag: "Payments", MinSeverity: 80}, 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].ID != "i1" {
		t.Errorf("expected only i1 at severity >= 80, got %+v", list)
	}

	n, err := store.CountInsights(ctx)
	if err != nil || n != 3 {
		t.Errorf("CountInsights: %v, %d", err, n)
	}

	// Replace swaps the whole collection.
	if err := store.ReplaceInsights(ctx, insights[:1]); err != nil {
		t.Fatal(err)
	}
	n, _ = store.CountInsights(ctx)
	if n != 1 {
		t.Errorf("expected 1 insight after replace, got %d", n)
	}
	if _, err := store.GetInsight(ctx, "i2"); err == nil {
		t.Error("expected error for replaced-away insight")
	}
}

func TestSQLiteStorage_Epics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "epics.db")
	store, err := NewSQLiteStorage(path)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	ctx := context.Background()

	epics := []*models.Epic{
		{ClusterID: "epic_payment_and_checkout", Title: "Payment & Checkout", Size: 2, InsightIDs: []string{"i1", "i3"}},
		{ClusterID: "epic_trust_and_safety", Title: "Trust & Safety", Size: 5, InsightIDs: []string{"i2"}},
	}
	if err := store.ReplaceEpics(ctx, epics); err != nil {
		t.Fatal(err)
	}

	list, err := store.ListEpics(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 epics, got %d", len(list))
	}
	if list[0].ClusterID != "epic_trust_and_safety" {
		t.Errorf("expected largest epic first, got %s", list[0].ClusterID)
	}
	if len(list[1].InsightIDs) != 2 {
		t.Errorf("expected insight IDs to round-trip, got %v", list[1].InsightIDs)
	}
}

func TestSQLiteStorage_Clusters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clusters.db")
	store, err := NewSQLiteStorage(path)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	ctx := context.Background()

	clusters := []*models.SemanticCluster{
		{Label: 0, Size: 3, InsightIDs: []string{"a", "b", "c"}},
		{Label: 1, Size: 2, InsightIDs: []string{"d", "e"}},
	}
	if err := store.ReplaceClusters(ctx, clusters); err != nil {
		t.Fatal(err)
	}

	list, err := store.ListClusters(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 clusters, got %d", len(list))
	}
	if list[0].Label != 0 || list[1].Label != 1 {
		t.Errorf("expected label order, got %d then %d", list[0].Label, list[1].Label)
	}

	if err := store.ReplaceClusters(ctx, nil); err != nil {
		t.Fatal(err)
	}
	list, _ = store.ListClusters(ctx)
	if len(list) != 0 {
		t.Errorf("expected empty cluster set after replace, got %d", len(list))
	}
}
