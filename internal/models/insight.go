package models

import "strings"

// Sentiment labels. The heuristic and model classifiers share this label
// space so downstream scoring does not care which produced the value.
const (
	SentimentPositive = "Positive"
	SentimentNegative = "Negative"
	SentimentNeutral  = "Neutral"
)

// Type tags assigned by the type classifier.
const (
	TypeComplaint      = "Complaint"
	TypeFeatureRequest = "Feature Request"
	TypeBugReport      = "Bug Report"
	TypeQuestion       = "Question"
	TypeDiscussion     = "Discussion"
	TypePraise         = "Praise"
	TypeChatter        = "Marketplace Chatter"
	TypeChurnSignal    = "Churn Signal"
)

// Clarity levels derived from text length and specificity markers.
const (
	ClarityHigh   = "High"
	ClarityMedium = "Medium"
	ClarityLow    = "Low"
)

// How a classification value was produced, recorded per insight for
// observability when an optional model collaborator is configured.
const (
	ViaModel     = "model"
	ViaHeuristic = "heuristic"
)

// SignalFlags are the independent boolean topic detectors. Each flag has its
// own pattern set; they are not mutually exclusive. JSON keys keep the
// underscore-prefixed names the downstream report format expects.
type SignalFlags struct {
	PaymentIssue  bool `json:"_payment_issue"`
	UnpaidItem    bool `json:"_upi_flag"`
	HighValue     bool `json:"_high_end_flag"`
	PriceGuide    bool `json:"is_price_guide_signal"`
	GradingDelay  bool `json:"is_psa_turnaround"`
	Authenticity  bool `json:"is_ag_signal"`
	Vault         bool `json:"is_vault_signal"`
	ShippingIssue bool `json:"is_shipping_issue"`
	RefundIssue   bool `json:"is_refund_issue"`
	FeeConcern    bool `json:"is_fees_concern"`
	TrustIssue    bool `json:"is_trust_issue"`
	Churn         bool `json:"is_churn_signal"`
	Praise        bool `json:"is_praise_signal"`
}

// Insight is one normalized, classified, scored unit of user feedback.
// It is flat and JSON-serializable; AllSubtags is the only array field
// beyond the embedded flag set.
type Insight struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	Title       string `json:"title,omitempty"`
	Source      string `json:"source"`
	URL         string `json:"url,omitempty"`
	Subreddit   string `json:"subreddit,omitempty"`
	PostDate    string `json:"post_date"`
	LoggedDate  string `json:"_logged_date"`
	Score       int    `json:"score,omitempty"`
	NumComments int    `json:"num_comments,omitempty"`

	TargetBrand string `json:"target_brand"`

	SignalFlags

	PrimarySubtag string   `json:"subtag"`
	AllSubtags    []string `json:"all_subtags"`

	TypeTag        string `json:"type_tag"`
	TypeConfidence int    `json:"type_confidence"`

	Sentiment           string `json:"brand_sentiment"`
	SentimentConfidence int    `json:"sentiment_confidence"`
	SentimentVia        string `json:"sentiment_via"`

	Persona string `json:"persona"`
	Clarity string `json:"clarity"`

	SeverityScore        int     `json:"severity_score"`
	SeverityReason       string  `json:"severity_reason,omitempty"`
	BaseRelevance        int     `json:"base_relevance"`
	SignalStrength       float64 `json:"signal_strength"`
	PMPriorityScore      float64 `json:"pm_priority_score"`
	PMPriorityPercentile float64 `json:"pm_priority_percentile,omitempty"`

	IsUrgent      bool `json:"is_urgent"`
	IsFrustration bool `json:"is_frustration"`
}

// Fingerprint returns the dedup key: the first n bytes of the lowercased
// normalized text. Two distinct posts sharing a long common opening will
// collide and the later one is dropped.
func (i *Insight) Fingerprint(n int) string {
	t := i.Text
	if len(t) > n {
		t = t[:n]
	}
	return strings.ToLower(t)
}
