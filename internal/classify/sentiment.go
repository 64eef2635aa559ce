package classify

import (
	"context"
	"strings"

	"github.com/insightforge/insightforge/internal/models"
)

// SentimentModel is the optional model-backed sentiment collaborator. The
// pipeline works without one; when present it overrides the keyword method,
// and any error falls back to keywords.
type SentimentModel interface {
	ClassifySentiment(ctx context.Context, text string) (label string, confidence int, err error)
}

// heuristicConfidence is the flat confidence attached to keyword sentiment.
// The keyword method has no calibrated probability, so downstream scoring
// gets a midpoint.
const heuristicConfidence = 50

var negativeWords = []string{
	"frustrated", "annoying", "terrible", "horrible", "worst", "awful", "ridiculous",
	"disappointed", "angry", "upset", "hate", "sucks", "garbage", "trash", "scam",
	"problem", "issue", "bad", "poor", "failed", "broken", "wrong", "unfair",
	"waste", "lost", "stolen", "fake", "fraud", "nightmare", "disaster", "stuck",
}

var positiveWords = []string{
	"great", "love", "amazing", "awesome", "excellent", "perfect", "best", "thank",
	"happy", "glad", "pleased", "satisfied", "helpful", "nice", "good", "wonderful",
	"fantastic", "brilliant", "superb", "outstanding", "impressed", "recommend",
}

// Sentiment counts positive and negative word hits; the majority wins and a
// tie is Neutral.
func Sentiment(text string) (string, int) {
	lower := strings.ToLower(text)
	neg := countAny(lower, negativeWords)
	pos := countAny(lower, positiveWords)
	switch {
	case neg > pos:
		return models.SentimentNegative, heuristicConfidence
	case pos > neg:
		return models.SentimentPositive, heuristicConfidence
	}
	return models.SentimentNeutral, heuristicConfidence
}

// SentimentWith prefers the model when one is configured, recording which
// method produced the label. Model failure degrades to the keyword method.
func SentimentWith(ctx context.Context, model SentimentModel, text string) (label string, confidence int, via string) {
	if model != nil {
		if l, c, err := model.ClassifySentiment(ctx, text); err == nil && validSentiment(l) {
			return l, c, models.ViaModel
		}
	}
	l, c := Sentiment(text)
	return l, c, models.ViaHeuristic
}

func validSentiment(label string) bool {
	switch label {
	case models.SentimentPositive, models.SentimentNegative, models.SentimentNeutral:
		return true
	}
	return false
}

func countAny(text string, words []string) int {
	n := 0
	for _, w := range words {
		if strings.Contains(text, w) {
			n++
		}
	}
	return n
}
