// Package pipeline orchestrates the enrichment run: per-record stages fan
// out across a worker pool, then the collection stages (dedup, percentile
// normalization, clustering) run behind a barrier once every record is done.
package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/insightforge/insightforge/internal/brand"
	"github.com/insightforge/insightforge/internal/classify"
	"github.com/insightforge/insightforge/internal/config"
	"github.com/insightforge/insightforge/internal/dedupe"
	"github.com/insightforge/insightforge/internal/embedding"
	"github.com/insightforge/insightforge/internal/epics"
	"github.com/insightforge/insightforge/internal/models"
	"github.com/insightforge/insightforge/internal/normalize"
	"github.com/insightforge/insightforge/internal/relevance"
	"github.com/insightforge/insightforge/internal/scoring"
	"github.com/insightforge/insightforge/internal/semcluster"
	"github.com/insightforge/insightforge/internal/signals"
	"github.com/insightforge/insightforge/internal/vector"
	"github.com/insightforge/insightforge/pkg/utils"
	"go.uber.org/zap"
)

// Stats summarizes one run. Skip counts are keyed by the relevance rule that
// rejected the record; "too_short" covers the minimum-length gate.
type Stats struct {
	Received     int            `json:"received"`
	Kept         int            `json:"kept"`
	Duplicates   int            `json:"duplicates"`
	Skipped      map[string]int `json:"skipped"`
	BySubtag     map[string]int `json:"by_subtag"`
	ByType       map[string]int `json:"by_type"`
	BySource     map[string]int `json:"by_source"`
	EpicCount    int            `json:"epic_count"`
	ClusterCount int            `json:"cluster_count"`
	Embedded     bool           `json:"embedded"`
	DurationMS   int64          `json:"duration_ms"`
}

// Result bundles everything one run produces.
type Result struct {
	Insights []*models.Insight         `json:"insights"`
	Epics    []*models.Epic            `json:"epics"`
	Clusters []*models.SemanticCluster `json:"semantic_clusters"`
	Stats    *Stats                    `json:"stats"`
}

// Pipeline runs raw posts through enrichment, scoring, dedup, and clustering.
type Pipeline struct {
	config    *config.Config
	embedder  embedding.Embedder      // optional; nil disables the embedding path
	sentiment classify.SentimentModel // optional; nil keeps the keyword heuristic
	store     *vector.Store           // optional; populated after each embedded run
	logger    *zap.Logger             // optional; when set, logs run events
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a logger for run progress and summary output.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithEmbedder enables the embedding path (density clustering, find-similar).
func WithEmbedder(e embedding.Embedder) Option {
	return func(p *Pipeline) { p.embedder = e }
}

// WithSentimentModel substitutes a model-based sentiment classifier. Call
// errors fall back to the keyword heuristic per record.
func WithSentimentModel(m classify.SentimentModel) Option {
	return func(p *Pipeline) { p.sentiment = m }
}

// WithVectorStore sets the store that receives insight embeddings after each
// embedded run, replacing its previous contents.
func WithVectorStore(s *vector.Store) Option {
	return func(p *Pipeline) { p.store = s }
}

// New creates a pipeline with the given configuration.
// Options (e.g. WithEmbedder) attach the optional collaborators.
func New(cfg *config.Config, opts ...Option) *Pipeline {
	p := &Pipeline{config: cfg}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// skip pairs a rejected record's index with the rule that rejected it.
type skip struct {
	index int
	rule  string
}

// Process runs the full pipeline over a batch of raw posts. The per-record
// stages have no cross-record dependencies and run on cfg.Pipeline.Workers
// goroutines; input order is preserved in the output.
func (p *Pipeline) Process(ctx context.Context, posts []models.RawPost) (*Result, error) {
	start := time.Now()
	stats := &Stats{
		Received: len(posts),
		Skipped:  make(map[string]int),
		BySubtag: make(map[string]int),
		ByType:   make(map[string]int),
		BySource: make(map[string]int),
	}

	enriched := make([]*models.Insight, len(posts))
	skips := make(chan skip, len(posts))
	jobs := make(chan int)
	var wg sync.WaitGroup

	workers := p.config.Pipeline.Workers
	if workers < 1 {
		workers = 1
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				insight, rule := p.enrich(ctx, &posts[i])
				if insight == nil {
					skips <- skip{i, rule}
					continue
				}
				enriched[i] = insight
			}
		}()
	}
	for i := range posts {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	close(skips)
	for s := range skips {
		stats.Skipped[s.rule]++
	}

	insights := make([]*models.Insight, 0, len(posts))
	for _, in := range enriched {
		if in != nil {
			insights = append(insights, in)
		}
	}

	deduped := dedupe.Dedupe(insights, p.config.Pipeline.FingerprintLength)
	stats.Duplicates = len(insights) - len(deduped)
	insights = deduped

	scoring.NormalizePercentiles(insights)
	epicList := epics.Cluster(insights)

	var clusters []*models.SemanticCluster
	if p.embedder != nil && len(insights) > 0 {
		clusters = p.cluster(ctx, insights)
		stats.Embedded = clusters != nil
	}

	stats.Kept = len(insights)
	stats.EpicCount = len(epicList)
	stats.ClusterCount = len(clusters)
	for _, in := range insights {
		stats.BySubtag[in.PrimarySubtag]++
		stats.ByType[in.TypeTag]++
		stats.BySource[in.Source]++
	}
	stats.DurationMS = time.Since(start).Milliseconds()

	if p.logger != nil {
		p.logger.Info("pipeline run complete",
			zap.Int("received", stats.Received),
			zap.Int("kept", stats.Kept),
			zap.Int("duplicates", stats.Duplicates),
			zap.Int("epics", stats.EpicCount),
			zap.Int("semantic_clusters", stats.ClusterCount),
			zap.Bool("embedded", stats.Embedded),
			zap.Int64("duration_ms", stats.DurationMS))
	}

	return &Result{
		Insights: insights,
		Epics:    epicList,
		Clusters: clusters,
		Stats:    stats,
	}, nil
}

// enrich runs the per-record stages over one post. Returns (nil, rule) when
// the record is skipped.
func (p *Pipeline) enrich(ctx context.Context, post *models.RawPost) (*models.Insight, string) {
	text := normalize.Normalize(post.Text)
	title := normalize.Normalize(post.Title)

	if len(text) < p.config.Pipeline.MinTextLength {
		return nil, "too_short"
	}
	text = utils.Truncate(text, p.config.Pipeline.MaxTextLength)
	origin := post.Subreddit
	if origin == "" {
		origin = post.ForumSection
	}
	rel := relevance.Check(title+" "+text, origin)
	if !rel.Relevant {
		return nil, rel.Rule
	}

	tag := signals.Tag(title, text)
	typeTag, typeConf := classify.Type(text)
	sentLabel, sentConf, via := classify.SentimentWith(ctx, p.sentiment, text)

	// Signal-flag overrides. A churn signal dominates the type ladder and a
	// neutral reading of churn language is treated as negative. Praise only
	// upgrades the default bucket, never a specific complaint or request.
	if tag.Flags.Churn {
		typeTag = models.TypeChurnSignal
		if sentLabel == models.SentimentNeutral {
			sentLabel = models.SentimentNegative
		}
	} else if tag.Flags.Praise && typeTag == models.TypeDiscussion {
		typeTag = models.TypePraise
		typeConf = classify.ConfidencePraise
	}

	severity, severityReason := scoring.Severity(text)
	base := scoring.BaseRelevance(text)

	in := &models.Insight{
		ID:          uuid.New().String(),
		Text:        text,
		Title:       title,
		Source:      post.Source,
		URL:         post.URL,
		Subreddit:   post.Subreddit,
		PostDate:    post.PostDate,
		LoggedDate:  time.Now().UTC().Format(time.RFC3339),
		Score:       post.Score,
		NumComments: post.NumComments,

		TargetBrand: brand.Recognize(title + " " + text),

		SignalFlags: tag.Flags,

		PrimarySubtag: tag.Primary,
		AllSubtags:    tag.All,

		TypeTag:        typeTag,
		TypeConfidence: typeConf,

		Sentiment:           sentLabel,
		SentimentConfidence: sentConf,
		SentimentVia:        via,

		Persona: classify.Persona(text),
		Clarity: classify.Clarity(text),

		SeverityScore:   severity,
		SeverityReason:  severityReason,
		BaseRelevance:   base,
		SignalStrength:  scoring.SignalStrength(text, post.Score+post.NumComments, tag.Flags.Churn, tag.Primary),
		PMPriorityScore: scoring.PMPriority(base, severity, typeConf, sentConf),

		IsUrgent:      classify.IsUrgent(text),
		IsFrustration: scoring.IsFrustration(severity),
	}
	if in.Source == "" {
		in.Source = "Unknown"
	}
	if in.PostDate == "" {
		in.PostDate = time.Now().UTC().Format("2006-01-02")
	}
	return in, ""
}

// cluster embeds every insight text and runs density clustering. Returns nil
// when embedding fails; the rule-based output is unaffected.
func (p *Pipeline) cluster(ctx context.Context, insights []*models.Insight) []*models.SemanticCluster {
	texts := make([]string, len(insights))
	ids := make([]string, len(insights))
	for i, in := range insights {
		texts[i] = in.Text
		ids[i] = in.ID
	}
	vectors, err := p.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		if p.logger != nil {
			p.logger.Warn("embedding failed, skipping density clustering", zap.Error(err))
		}
		return nil
	}
	if p.store != nil {
		p.store.Clear()
		if err := p.store.Add(ctx, ids, vectors); err != nil && p.logger != nil {
			p.logger.Warn("vector store update failed", zap.Error(err))
		}
	}
	return semcluster.Cluster(insights, vectors, p.config.Cluster.Eps, p.config.Cluster.MinClusterSize)
}
