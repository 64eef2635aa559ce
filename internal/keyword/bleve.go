// Package keyword provides Bleve implementation of KeywordIndex.
package keyword

import (
	"context"
	"fmt"
	"os"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	blevequery "github.com/blevesearch/bleve/v2/search/query"
	"github.com/insightforge/insightforge/internal/models"
)

// insightDoc is the indexed projection of an insight: free text plus the
// facet fields the explorer filters on.
type insightDoc struct {
	Text      string `json:"text"`
	Title     string `json:"title"`
	Subtag    string `json:"subtag"`
	TypeTag   string `json:"type_tag"`
	Sentiment string `json:"sentiment"`
	Brand     string `json:"brand"`
}

// BleveIndex implements KeywordIndex using Bleve.
type BleveIndex struct {
	index bleve.Index
}

// NewBleveIndex creates or opens a Bleve index at path.
// If the path already exists, the existing index is opened and reused. If you
// change the index mapping in code, remove the index directory to force a
// full re-index.
func NewBleveIndex(path string) (*BleveIndex, error) {
	im := bleve.NewIndexMapping()

	docMapping := bleve.NewDocumentMapping()
	textFieldMapping := bleve.NewTextFieldMapping()
	// Standard analyzer (lowercase + tokenize, no stemming) so queries match
	// the exact marketplace vocabulary; English stemming folds e.g.
	// "grading" and "grade" together and muddies facet terms.
	textFieldMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt("text", textFieldMapping)
	docMapping.AddFieldMappingsAt("title", textFieldMapping)
	keywordFieldMapping := bleve.NewKeywordFieldMapping()
	docMapping.AddFieldMappingsAt("subtag", keywordFieldMapping)
	docMapping.AddFieldMappingsAt("type_tag", keywordFieldMapping)
	docMapping.AddFieldMappingsAt("sentiment", keywordFieldMapping)
	docMapping.AddFieldMappingsAt("brand", keywordFieldMapping)
	im.AddDocumentMapping("insight", docMapping)
	im.DefaultType = "insight"
	im.DefaultMapping = docMapping

	if _, err := os.Stat(path); err == nil {
		index, openErr := bleve.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("failed to open Bleve index: %w", openErr)
		}
		return &BleveIndex{index: index}, nil
	}

	index, err := bleve.New(path, im)
	if err != nil {
		return nil, fmt.Errorf("failed to create Bleve index: %w", err)
	}
	return &BleveIndex{index: index}, nil
}

// Index indexes one insight by ID.
func (b *BleveIndex) Index(ctx context.Context, in *models.Insight) error {
	return b.index.Index(in.ID, toDoc(in))
}

// ReplaceAll rebuilds the index contents from the given collection. Existing
// entries not present in the collection are removed.
func (b *BleveIndex) ReplaceAll(ctx context.Context, insights []*models.Insight) error {
	keep := make(map[string]struct{}, len(insights))
	batch := b.index.NewBatch()
	for _, in := range insights {
		keep[in.ID] = struct{}{}
		if err := batch.Index(in.ID, toDoc(in)); err != nil {
			return fmt.Errorf("failed to batch insight: %w", err)
		}
	}

	stale, err := b.allIDs()
	if err != nil {
		return err
	}
	for _, id := range stale {
		if _, ok := keep[id]; !ok {
			batch.Delete(id)
		}
	}
	return b.index.Batch(batch)
}

// Search runs a match query over text and title, intersected with any facet
// filters, and returns up to limit results by score.
func (b *BleveIndex) Search(ctx context.Context, query string, limit int, opts *SearchOptions) ([]*KeywordResult, error) {
	var q blevequery.Query = bleve.NewMatchQuery(query)
	if filters := facetFilters(opts); len(filters) > 0 {
		conjuncts := append([]blevequery.Query{q}, filters...)
		q = bleve.NewConjunctionQuery(conjuncts...)
	}

	search := bleve.NewSearchRequest(q)
	search.Size = limit
	results, err := b.index.Search(search)
	if err != nil {
		return nil, fmt.Errorf("Bleve search failed: %w", err)
	}
	out := make([]*KeywordResult, len(results.Hits))
	for i, hit := range results.Hits {
		out[i] = &KeywordResult{ID: hit.ID, Score: hit.Score}
	}
	return out, nil
}

func facetFilters(opts *SearchOptions) []blevequery.Query {
	if opts == nil {
		return nil
	}
	var filters []blevequery.Query
	for field, value := range map[string]string{
		"subtag":    opts.Subtag,
		"type_tag":  opts.TypeTag,
		"sentiment": opts.Sentiment,
		"brand":     opts.Brand,
	} {
		if value == "" {
			continue
		}
		tq := bleve.NewTermQuery(value)
		tq.SetField(field)
		filters = append(filters, tq)
	}
	return filters
}

// Delete removes an insight from the index.
func (b *BleveIndex) Delete(ctx context.Context, id string) error {
	return b.index.Delete(id)
}

// Close closes the Bleve index.
func (b *BleveIndex) Close() error {
	return b.index.Close()
}

// DocCount returns the total number of indexed insights.
func (b *BleveIndex) DocCount() (uint64, error) {
	return b.index.DocCount()
}

func (b *BleveIndex) allIDs() ([]string, error) {
	q := bleve.NewMatchAllQuery()
	req := bleve.NewSearchRequest(q)
	req.Size = 100000
	results, err := b.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate index: %w", err)
	}
	ids := make([]string, len(results.Hits))
	for i, hit := range results.Hits {
		ids[i] = hit.ID
	}
	return ids, nil
}

func toDoc(in *models.Insight) *insightDoc {
	return &insightDoc{
		Text:      in.Text,
		Title:     in.Title,
		Subtag:    in.PrimarySubtag,
		TypeTag:   in.TypeTag,
		Sentiment: in.Sentiment,
		Brand:     in.TargetBrand,
	}
}
