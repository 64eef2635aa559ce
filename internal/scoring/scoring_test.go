package scoring

import (
	"testing"

	"github.com/insightforge/insightforge/internal/models"
)

func TestSeverityTiers(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		score int
	}{
		{"fraud tier", "pretty sure this seller is a scam", 90},
		{"stuck counts as high risk", "PSA vault isn't trustworthy anymore, items stuck for months", 90},
		{"never received", "paid three weeks ago and never received the card", 90},
		{"issue tier", "there is an issue with my listing photos", 70},
		{"high tier wins over mid", "scam listing caused a problem with my account", 90},
		{"soft tier", "the search could be better honestly", 50},
		{"floor", "picked up a nice lot at the show", 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, reason := Severity(tt.text)
			if score != tt.score {
				t.Errorf("Severity() = %d (%s), want %d", score, reason, tt.score)
			}
			if reason == "" {
				t.Error("Severity() returned empty reason")
			}
		})
	}
}

func TestIsFrustration(t *testing.T) {
	if !IsFrustration(90) {
		t.Error("severity 90 should flag frustration")
	}
	if IsFrustration(70) {
		t.Error("severity 70 should not flag frustration")
	}
}

func TestBaseRelevance(t *testing.T) {
	if got := BaseRelevance("nothing relevant here at all"); got != 0 {
		t.Errorf("BaseRelevance(no keywords) = %d, want 0", got)
	}
	// "ebay" and "fees" are two keyword hits, no risk terms.
	if got := BaseRelevance("ebay fees went up"); got != 10 {
		t.Errorf("BaseRelevance(two keywords) = %d, want 10", got)
	}
	// "scam" is both a keyword hit and a risk term: 5 + 8.
	if got := BaseRelevance("total scam"); got != 13 {
		t.Errorf("BaseRelevance(scam) = %d, want 13", got)
	}
	long := "problem issue broken scam fraud delay lost refund return dispute " +
		"complaint terrible awful amazing love hate shipping damage authentic fake " +
		"counterfeit grade grading vault fees"
	if got := BaseRelevance(long); got != 100 {
		t.Errorf("BaseRelevance(keyword flood) = %d, want capped 100", got)
	}
}

func TestPMPriority(t *testing.T) {
	// 0.2*40 + 0.4*90 + 0.2*80 + 0.2*50 = 8 + 36 + 16 + 10 = 70
	if got := PMPriority(40, 90, 80, 50); got != 70.0 {
		t.Errorf("PMPriority = %v, want 70.0", got)
	}
	// Severity dominates: same inputs with severity 30 drop the score by 24.
	if got := PMPriority(40, 30, 80, 50); got != 46.0 {
		t.Errorf("PMPriority = %v, want 46.0", got)
	}
	if got := PMPriority(33, 70, 75, 50); got != 59.6 {
		t.Errorf("PMPriority = %v, want 59.6", got)
	}
}

func TestNormalizePercentiles(t *testing.T) {
	insights := []*models.Insight{
		{PMPriorityScore: 40},
		{PMPriorityScore: 60},
		{PMPriorityScore: 80},
	}
	NormalizePercentiles(insights)
	if insights[0].PMPriorityPercentile != 0 {
		t.Errorf("min percentile = %v, want 0", insights[0].PMPriorityPercentile)
	}
	if p := insights[1].PMPriorityPercentile; p < 49.9 || p > 50.1 {
		t.Errorf("mid percentile = %v, want ~50", p)
	}
	if p := insights[2].PMPriorityPercentile; p < 99.9 || p > 100 {
		t.Errorf("max percentile = %v, want ~100", p)
	}

	// single element: epsilon avoids division by zero
	one := []*models.Insight{{PMPriorityScore: 55}}
	NormalizePercentiles(one)
	if one[0].PMPriorityPercentile != 0 {
		t.Errorf("single-element percentile = %v, want 0", one[0].PMPriorityPercentile)
	}

	NormalizePercentiles(nil)
}

func TestSignalStrength(t *testing.T) {
	// zero engagement, short neutral text, no churn, general topic
	low := SignalStrength("ok", 0, false, "General")
	if low > 1 {
		t.Errorf("low signal = %v, want near 0", low)
	}

	high := SignalStrength(
		"the ebay checkout is broken and my payment failed twice, total scam, switched to whatnot",
		250, true, "Payments")
	// engagement 30 + specificity ~4.5 + pain 20 + churn 15 + topic 10
	if high < 75 || high > 85 {
		t.Errorf("high signal = %v, want between 75 and 85", high)
	}

	if got := SignalStrength("x", 0, false, "Payments"); got < 10.0 || got > 10.1 {
		t.Errorf("topic-only = %v, want ~10", got)
	}
}
