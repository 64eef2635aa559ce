// Package e2e exercises the full flow: raw drops on disk, the enrichment
// pipeline, persistence, and the HTTP API, with a mock embedder standing in
// for the ONNX model.
package e2e

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/insightforge/insightforge/internal/models"
)

// FixturePosts is a small scraped corpus covering the main outcomes: kept
// insights of several types, a duplicate, and posts the filter rejects.
func FixturePosts() []models.RawPost {
	return []models.RawPost{
		{
			Title:       "Payout stuck again",
			Text:        "My payment failed at checkout on ebay and the payout has been stuck for two weeks now",
			Source:      "Reddit",
			Subreddit:   "ebay",
			Score:       42,
			NumComments: 17,
			PostDate:    "2026-08-20",
		},
		{
			Text:      "Second damaged package from ebay this month, the shipping handling is terrible and support is silent",
			Source:    "Reddit",
			Subreddit: "Flipping",
			Score:     8,
		},
		{
			Text:   "Fees are ridiculous, I'm done with ebay and switching to whatnot",
			Source: "Reddit",
		},
		{
			Text: "honestly i love ebay, the authenticity guarantee came through for me when my refund got sorted",
		},
		{
			Text: "Please add an option to bulk edit listings on ebay, right now it is broken and slow",
		},
		// Rejected: below the minimum length.
		{Text: "ebay is ok"},
		// Rejected: reads as a sale listing, not feedback.
		{Text: "[WTS] selling my PSA 10 charizard slab, prices include shipping, pm me"},
		// Duplicate of the first post, dropped by the fingerprint pass.
		{
			Text:   "My payment failed at checkout on ebay and the payout has been stuck for two weeks now",
			Source: "Reddit",
		},
	}
}

// WriteDrop writes posts as one JSON drop file under dir, the same format
// the upstream collectors produce.
func WriteDrop(dir, name string, posts []models.RawPost) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(posts, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, name), data, 0o644)
}
