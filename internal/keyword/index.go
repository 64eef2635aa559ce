// Package keyword provides full-text search over the insight collection.
package keyword

import (
	"context"

	"github.com/insightforge/insightforge/internal/models"
)

// SearchOptions optional facet filters for insight search. Nil or zero
// values mean no constraint.
type SearchOptions struct {
	Subtag    string
	TypeTag   string
	Sentiment string
	Brand     string
}

// KeywordIndex defines insight search operations.
type KeywordIndex interface {
	Index(ctx context.Context, in *models.Insight) error
	// ReplaceAll rebuilds the index contents from the given collection.
	ReplaceAll(ctx context.Context, insights []*models.Insight) error
	Search(ctx context.Context, query string, limit int, opts *SearchOptions) ([]*KeywordResult, error)
	Delete(ctx context.Context, id string) error
	Close() error
	// DocCount returns the total number of indexed insights.
	DocCount() (uint64, error)
}

// KeywordResult is a single keyword search hit.
type KeywordResult struct {
	ID    string
	Score float64
}
