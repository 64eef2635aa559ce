package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/insightforge/insightforge/internal/config"
	"github.com/insightforge/insightforge/internal/embedding"
	"github.com/insightforge/insightforge/internal/keyword"
	"github.com/insightforge/insightforge/internal/models"
	"github.com/insightforge/insightforge/internal/pipeline"
	"github.com/insightforge/insightforge/internal/server"
	"github.com/insightforge/insightforge/internal/storage"
	"github.com/insightforge/insightforge/internal/vector"
)

const e2eDimensions = 8

type components struct {
	cfg      *config.Config
	store    storage.Storage
	kwIndex  keyword.KeywordIndex
	vecStore *vector.Store
	pipe     *pipeline.Pipeline
}

func buildComponents(t *testing.T) *components {
	t.Helper()
	dir := t.TempDir()

	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	cfg.Pipeline.Workers = 2
	cfg.Storage.DatabasePath = filepath.Join(dir, "insights.db")
	cfg.Storage.BleveIndexPath = filepath.Join(dir, "bleve")

	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		t.Fatalf("storage: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	kwIndex, err := keyword.NewBleveIndex(cfg.Storage.BleveIndexPath)
	if err != nil {
		t.Fatalf("keyword index: %v", err)
	}
	t.Cleanup(func() { kwIndex.Close() })

	vecStore, err := vector.NewStore(e2eDimensions)
	if err != nil {
		t.Fatalf("vector store: %v", err)
	}

	pipe := pipeline.New(cfg,
		pipeline.WithEmbedder(embedding.NewMockEmbedder(e2eDimensions)),
		pipeline.WithVectorStore(vecStore),
	)
	return &components{cfg: cfg, store: store, kwIndex: kwIndex, vecStore: vecStore, pipe: pipe}
}

// writeDrops lays out the fixture corpus as an upstream collector would:
// one array drop, one single-object drop, and one later batch holding a
// duplicate.
func writeDrops(t *testing.T, dropDir string) {
	t.Helper()
	posts := FixturePosts()
	if err := WriteDrop(dropDir, "a_batch.json", posts[:6]); err != nil {
		t.Fatalf("write drop: %v", err)
	}
	single, err := json.Marshal(posts[6])
	if err != nil {
		t.Fatalf("marshal single: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dropDir, "b_single.json"), single, 0o644); err != nil {
		t.Fatalf("write single drop: %v", err)
	}
	if err := WriteDrop(dropDir, "c_late.json", posts[7:]); err != nil {
		t.Fatalf("write drop: %v", err)
	}
}

func TestEndToEnd_ProcessPersistQuery(t *testing.T) {
	c := buildComponents(t)
	dropDir := filepath.Join(t.TempDir(), "drops")
	writeDrops(t, dropDir)
	ctx := context.Background()

	posts, err := storage.LoadRawPosts(dropDir)
	if err != nil {
		t.Fatalf("LoadRawPosts failed: %v", err)
	}
	if len(posts) != 8 {
		t.Fatalf("Expected 8 posts from drops, got %d", len(posts))
	}

	result, err := c.pipe.Process(ctx, posts)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if result.Stats.Kept != 5 {
		t.Fatalf("Expected 5 kept, got %d (skipped: %v)", result.Stats.Kept, result.Stats.Skipped)
	}
	if result.Stats.Duplicates != 1 {
		t.Errorf("Expected 1 duplicate, got %d", result.Stats.Duplicates)
	}
	if !result.Stats.Embedded {
		t.Error("Expected the embedding path to run")
	}

	if err := c.store.ReplaceInsights(ctx, result.Insights); err != nil {
		t.Fatalf("ReplaceInsights failed: %v", err)
	}
	if err := c.store.ReplaceEpics(ctx, result.Epics); err != nil {
		t.Fatalf("ReplaceEpics failed: %v", err)
	}
	if err := c.store.ReplaceClusters(ctx, result.Clusters); err != nil {
		t.Fatalf("ReplaceClusters failed: %v", err)
	}
	if err := c.kwIndex.ReplaceAll(ctx, result.Insights); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}

	srv := server.NewServer(c.pipe, c.store, c.kwIndex, c.vecStore, c.cfg, zap.NewNop())
	ts := httptest.NewServer(srv.Routes())
	defer ts.Close()

	t.Run("list negative insights", func(t *testing.T) {
		var body struct {
			Insights []*models.Insight `json:"insights"`
		}
		getJSON(t, ts.URL+"/api/v1/insights?sentiment=Negative", &body)
		if len(body.Insights) < 3 {
			t.Fatalf("Expected at least 3 negative insights, got %d", len(body.Insights))
		}
		for _, in := range body.Insights {
			if in.Sentiment != models.SentimentNegative {
				t.Errorf("Filter leaked sentiment %q", in.Sentiment)
			}
		}
	})

	t.Run("get single insight", func(t *testing.T) {
		var got models.Insight
		getJSON(t, ts.URL+"/api/v1/insights/"+result.Insights[0].ID, &got)
		if got.ID != result.Insights[0].ID {
			t.Errorf("Expected insight %s, got %s", result.Insights[0].ID, got.ID)
		}
	})

	t.Run("keyword search", func(t *testing.T) {
		req := bytes.NewBufferString(`{"query": "payout checkout"}`)
		resp, err := http.Post(ts.URL+"/api/v1/search", "application/json", req)
		if err != nil {
			t.Fatalf("search request failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected 200, got %d", resp.StatusCode)
		}
		var body struct {
			Results []struct {
				Insight *models.Insight `json:"insight"`
				Score   float64         `json:"score"`
			} `json:"results"`
			Total int `json:"total"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		if body.Total == 0 {
			t.Fatal("Expected search hits for 'payout checkout'")
		}
		if !strings.Contains(strings.ToLower(body.Results[0].Insight.Text), "payout") {
			t.Errorf("Top hit does not mention payout: %q", body.Results[0].Insight.Text)
		}
	})

	t.Run("epics cover all insights", func(t *testing.T) {
		var body struct {
			Epics []*models.Epic `json:"epics"`
			Count int            `json:"count"`
		}
		getJSON(t, ts.URL+"/api/v1/epics", &body)
		if body.Count == 0 {
			t.Fatal("Expected at least one epic")
		}
		total := 0
		for _, e := range body.Epics {
			total += e.Size
		}
		if total != result.Stats.Kept {
			t.Errorf("Epic sizes sum to %d, want %d", total, result.Stats.Kept)
		}
	})

	t.Run("find similar", func(t *testing.T) {
		url := fmt.Sprintf("%s/api/v1/insights/%s/similar?k=3", ts.URL, result.Insights[0].ID)
		var body struct {
			ID      string                   `json:"id"`
			Similar []*models.SimilarInsight `json:"similar"`
		}
		getJSON(t, url, &body)
		if len(body.Similar) == 0 {
			t.Fatal("Expected similar insights")
		}
		for _, s := range body.Similar {
			if s.Insight.ID == result.Insights[0].ID {
				t.Error("Query insight returned as its own neighbor")
			}
		}
	})

	t.Run("status", func(t *testing.T) {
		var body map[string]interface{}
		getJSON(t, ts.URL+"/status", &body)
		if n, ok := body["insights"].(float64); !ok || int(n) != result.Stats.Kept {
			t.Errorf("Expected status insights %d, got %v", result.Stats.Kept, body["insights"])
		}
	})
}

// TestEndToEnd_ReprocessReplaces confirms a second run fully replaces the
// collection instead of appending to it.
func TestEndToEnd_ReprocessReplaces(t *testing.T) {
	c := buildComponents(t)
	ctx := context.Background()

	run := func(posts []models.RawPost) *pipeline.Result {
		result, err := c.pipe.Process(ctx, posts)
		if err != nil {
			t.Fatalf("Process failed: %v", err)
		}
		if err := c.store.ReplaceInsights(ctx, result.Insights); err != nil {
			t.Fatalf("ReplaceInsights failed: %v", err)
		}
		if err := c.kwIndex.ReplaceAll(ctx, result.Insights); err != nil {
			t.Fatalf("ReplaceAll failed: %v", err)
		}
		return result
	}

	run(FixturePosts())
	second := run(FixturePosts()[:2])

	count, err := c.store.CountInsights(ctx)
	if err != nil {
		t.Fatalf("CountInsights failed: %v", err)
	}
	if int(count) != second.Stats.Kept {
		t.Errorf("Expected %d insights after reprocess, got %d", second.Stats.Kept, count)
	}
	indexed, err := c.kwIndex.DocCount()
	if err != nil {
		t.Fatalf("DocCount failed: %v", err)
	}
	if int(indexed) != second.Stats.Kept {
		t.Errorf("Expected %d indexed docs after reprocess, got %d", second.Stats.Kept, indexed)
	}
}

func getJSON(t *testing.T, url string, out interface{}) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s failed: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s: expected 200, got %d", url, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode %s failed: %v", url, err)
	}
}
