// Package storage defines the persistence interface for insights, epics,
// and semantic clusters. Each pipeline run is a whole-collection recompute,
// so the save operations replace previous contents rather than append.
package storage

import (
	"context"

	"github.com/insightforge/insightforge/internal/models"
)

// InsightFilter narrows ListInsights. Zero values mean no constraint.
type InsightFilter struct {
	Subtag      string
	TypeTag     string
	Sentiment   string
	Brand       string
	Source      string
	MinSeverity int
}

// Storage defines insight, epic, and cluster persistence operations.
type Storage interface {
	// Insight operations. ReplaceInsights swaps the full collection in one
	// transaction.
	ReplaceInsights(ctx context.Context, insights []*models.Insight) error
	GetInsight(ctx context.Context, id string) (*models.Insight, error)
	ListInsights(ctx context.Context, filter InsightFilter, offset, limit int) ([]*models.Insight, error)
	CountInsights(ctx context.Context) (int64, error)

	// Cluster operations
	ReplaceEpics(ctx context.Context, epics []*models.Epic) error
	ListEpics(ctx context.Context) ([]*models.Epic, error)
	ReplaceClusters(ctx context.Context, clusters []*models.SemanticCluster) error
	ListClusters(ctx context.Context) ([]*models.SemanticCluster, error)

	Close() error
}
