// Package storage provides SQLite implementation of the Storage interface.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/insightforge/insightforge/internal/models"
)

// SQLiteStorage implements Storage using SQLite. Queryable classification
// fields are real columns; the full insight is kept as a JSON payload so the
// record round-trips without a column per score.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS insights (
		id TEXT PRIMARY KEY,
		subtag TEXT NOT NULL,
		type_tag TEXT NOT NULL,
		sentiment TEXT NOT NULL,
		brand TEXT,
		source TEXT,
		severity INTEGER NOT NULL,
		pm_priority REAL NOT NULL,
		post_date TEXT,
		payload TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_insights_subtag ON insights(subtag);
	CREATE INDEX IF NOT EXISTS idx_insights_type ON insights(type_tag);
	CREATE INDEX IF NOT EXISTS idx_insights_priority ON insights(pm_priority);

	CREATE TABLE IF NOT EXISTS epics (
		cluster_id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		size INTEGER NOT NULL,
		payload TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS semantic_clusters (
		label INTEGER PRIMARY KEY,
		size INTEGER NOT NULL,
		payload TEXT NOT NULL
	);
	`
	_, err := db.Exec(schema)
	return err
}

// ReplaceInsights swaps the stored collection for the given one in a single
// transaction.
func (s *SQLiteStorage) ReplaceInsights(ctx context.Context, insights []*models.Insight) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM insights`); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO insights (id, subtag, type_tag, sentiment, brand, source, severity, pm_priority, post_date, payload, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now()
	for _, in := range insights {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal insight: %w", err)
		}
		if _, err := stmt.ExecContext(ctx,
			in.ID, in.PrimarySubtag, in.TypeTag, in.Sentiment, in.TargetBrand, in.Source,
			in.SeverityScore, in.PMPriorityScore, in.PostDate, string(payload), now,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetInsight returns an insight by ID.
func (s *SQLiteStorage) GetInsight(ctx context.Context, id string) (*models.Insight, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM insights WHERE id = ?`, id,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("insight not found: %s", id)
	}
	if err != nil {
		return nil, err
	}
	var in models.Insight
	if err := json.Unmarshal([]byte(payload), &in); err != nil {
		return nil, fmt.Errorf("failed to unmarshal insight: %w", err)
	}
	return &in, nil
}

// ListInsights returns insights matching the filter, highest priority first.
func (s *SQLiteStorage) ListInsights(ctx context.Context, filter InsightFilter, offset, limit int) ([]*models.Insight, error) {
	var (
		where []string
		args  []interface{}
	)
	if filter.Subtag != "" {
		where = append(where, "subtag = ?")
		args = append(args, filter.Subtag)
	}
	if filter.TypeTag != "" {
		where = append(where, "type_tag = ?")
		args = append(args, filter.TypeTag)
	}
	if filter.Sentiment != "" {
		where = append(where, "sentiment = ?")
		args = append(args, filter.Sentiment)
	}
	if filter.Brand != "" {
		where = append(where, "brand = ?")
		args = append(args, filter.Brand)
	}
	if filter.Source != "" {
		where = append(where, "source = ?")
		args = append(args, filter.Source)
	}
	if filter.MinSeverity > 0 {
		where = append(where, "severity >= ?")
		args = append(args, filter.MinSeverity)
	}

	query := `SELECT payload FROM insights`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += ` ORDER BY pm_priority DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var insights []*models.Insight
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var in models.Insight
		if err := json.Unmarshal([]byte(payload), &in); err != nil {
			return nil, fmt.Errorf("failed to unmarshal insight: %w", err)
		}
		insights = append(insights, &in)
	}
	return insights, rows.Err()
}

// CountInsights returns the total number of stored insights.
func (s *SQLiteStorage) CountInsights(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM insights`).Scan(&count)
	return count, err
}

// ReplaceEpics swaps the stored epic set in a single transaction.
func (s *SQLiteStorage) ReplaceEpics(ctx context.Context, epics []*models.Epic) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM epics`); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO epics (cluster_id, title, size, payload) VALUES (?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range epics {
		payload, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("failed to marshal epic: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, e.ClusterID, e.Title, e.Size, string(payload)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListEpics returns all stored epics, largest first.
func (s *SQLiteStorage) ListEpics(ctx context.Context) ([]*models.Epic, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT payload FROM epics ORDER BY size DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var epics []*models.Epic
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var e models.Epic
		if err := json.Unmarshal([]byte(payload), &e); err != nil {
			return nil, fmt.Errorf("failed to unmarshal epic: %w", err)
		}
		epics = append(epics, &e)
	}
	return epics, rows.Err()
}

// ReplaceClusters swaps the stored semantic cluster set in a single transaction.
func (s *SQLiteStorage) ReplaceClusters(ctx context.Context, clusters []*models.SemanticCluster) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM semantic_clusters`); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO semantic_clusters (label, size, payload) VALUES (?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range clusters {
		payload, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("failed to marshal cluster: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, c.Label, c.Size, string(payload)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListClusters returns all stored semantic clusters in label order.
func (s *SQLiteStorage) ListClusters(ctx context.Context) ([]*models.SemanticCluster, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT payload FROM semantic_clusters ORDER BY label`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clusters []*models.SemanticCluster
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var c models.SemanticCluster
		if err := json.Unmarshal([]byte(payload), &c); err != nil {
			return nil, fmt.Errorf("failed to unmarshal cluster: %w", err)
		}
		clusters = append(clusters, &c)
	}
	return clusters, rows.Err()
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
