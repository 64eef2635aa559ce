package models

// SignalCounts are the aggregate counts recomputed from an epic's member set.
type SignalCounts struct {
	Total           int `json:"total"`
	Complaints      int `json:"complaints"`
	FeatureRequests int `json:"feature_requests"`
	Negative        int `json:"negative"`
	Positive        int `json:"positive"`
}

// Epic is one strategic theme bucket produced by the rule-based clusterer.
// Members are embedded full insight copies (the report format is
// self-contained) and referenced by ID in InsightIDs for persisted use.
type Epic struct {
	ClusterID          string       `json:"cluster_id"`
	Title              string       `json:"title"`
	Label              string       `json:"label"`
	Description        string       `json:"description"`
	ProductOpportunity string       `json:"product_opportunity"`
	Size               int          `json:"size"`
	Insights           []*Insight   `json:"insights"`
	InsightIDs         []string     `json:"insight_ids"`
	SampleTexts        []string     `json:"sample_texts"`
	Counts             SignalCounts `json:"signal_counts"`
	CatchAll           bool         `json:"catch_all,omitempty"`
}

// SemanticCluster is one density cluster from the embedding path. Unlike
// epics the cluster count is input-dependent; insights that did not meet the
// minimum neighbor density are absent from every cluster.
type SemanticCluster struct {
	Label      int        `json:"label"`
	Size       int        `json:"size"`
	Insights   []*Insight `json:"insights"`
	InsightIDs []string   `json:"insight_ids"`
}

// SimilarInsight is one entry of a find-similar ranking.
type SimilarInsight struct {
	Insight    *Insight `json:"insight"`
	Similarity float64  `json:"similarity"`
}
