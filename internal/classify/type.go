// Package classify derives the type tag, sentiment, persona, clarity, and
// urgency fields of an insight from its text. Everything here is keyword
// driven and deterministic; the one exception is the pluggable sentiment
// model in sentiment.go.
package classify

import (
	"regexp"
	"strings"

	"github.com/insightforge/insightforge/internal/models"
)

// Fixed confidence constants per type branch. Downstream priority scoring
// consumes these directly.
const (
	ConfidenceChatter        = 95
	ConfidenceFeatureRequest = 85
	ConfidencePraise         = 85
	ConfidenceComplaint      = 80
	ConfidenceBugReport      = 75
	ConfidenceQuestion       = 70
	ConfidenceDiscussion     = 50
)

// Hobby showcase talk with no pain behind it. These posts are kept for
// volume metrics but should never outrank real feedback.
var chatterRe = regexp.MustCompile(`(?i)\b(mail ?day|mail call|just pulled|box break|case break|group break|pc addition|new pickup|card show|set complete|master set|my collection)\b`)

var complaintIndicators = []string{
	"frustrated", "annoying", "terrible", "horrible", "worst", "awful", "ridiculous",
	"disappointed", "angry", "upset", "hate", "sucks", "garbage", "trash", "scam",
	"unacceptable", "pathetic", "useless", "broken", "ruined", "wasted", "lost money",
	"never again", "done with", "fed up", "sick of", "tired of", "can't believe",
	"so annoying", "so frustrating", "stuck",
	"waste of time", "rip off", "ripoff", "stolen", "robbed", "screwed",
	"incompetent", "lazy", "unprofessional", "nightmare", "disaster", "mess",
	"problem", "issue", "failed", "failure", "doesn't work", "won't work",
	"isn't trustworthy", "not trustworthy",
	"ugh", "wtf", "smh", "ffs", "insane", "crazy",
}

var featureRequestIndicators = []string{
	"should", "would be nice", "wish", "they need to", "please add", "feature request",
	"why can't", "why don't", "why doesn't", "why isn't", "it would be great",
	"i want", "we need", "need to add", "should add", "should have", "should be",
	"would love", "would help", "suggestion", "suggest", "idea", "improve",
	"better if", "easier if", "option to", "ability to", "allow us to",
	"can we get", "can you add", "please make", "please let", "please allow",
	"missing feature", "lacking", "needs improvement", "could be better",
}

var bugIndicators = []string{
	"bug", "glitch", "crash", "error message", "error code", "not working",
	"broken feature", "won't load", "can't access", "site down", "app crash",
	"technical issue", "system error", "500 error", "404", "timeout",
}

var questionIndicators = []string{
	"how do i", "how can i", "how to", "anyone know", "help me", "need help",
}

var painRe = regexp.MustCompile(`(?i)\b(problem|issue|broken|damaged|lost|missing|wrong|frustrated|annoying|terrible|horrible|worst|awful|can.?t|won.?t|doesn.?t work|not working|failed|error|stuck|waiting|no response|overcharged|scam|scammed|fake|counterfeit|refund|chargeback|dispute)\b`)

// Type resolves the insight type tag. The ladder runs most-confident first:
// chatter, then feature request, then complaint, then bug, then question,
// and Discussion as the safe default.
func Type(text string) (string, int) {
	lower := strings.ToLower(text)

	if chatterRe.MatchString(lower) && !painRe.MatchString(lower) {
		return models.TypeChatter, ConfidenceChatter
	}
	if containsAny(lower, featureRequestIndicators) {
		return models.TypeFeatureRequest, ConfidenceFeatureRequest
	}
	if containsAny(lower, complaintIndicators) {
		return models.TypeComplaint, ConfidenceComplaint
	}
	if containsAny(lower, bugIndicators) {
		return models.TypeBugReport, ConfidenceBugReport
	}
	if containsAny(lower, questionIndicators) && strings.Contains(lower, "?") {
		return models.TypeQuestion, ConfidenceQuestion
	}
	return models.TypeDiscussion, ConfidenceDiscussion
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
