// Package models defines core data structures for raw posts, insights, and clusters.
package models

// RawPost is one scraped post as produced by an upstream collector.
// Only Text is required; every other field has a documented default applied
// at ingestion (Source "Unknown", PostDate the current date, empty strings).
type RawPost struct {
	Text         string `json:"text"`
	Title        string `json:"title,omitempty"`
	Source       string `json:"source,omitempty"`
	URL          string `json:"url,omitempty"`
	PostDate     string `json:"post_date,omitempty"`
	Subreddit    string `json:"subreddit,omitempty"`
	ForumSection string `json:"forum_section,omitempty"`
	Username     string `json:"username,omitempty"`
	Score        int    `json:"score,omitempty"`
	NumComments  int    `json:"num_comments,omitempty"`
}
