package services

import (
	"math"
	"strings"

	"github.com/Skili43/survey-tool/internal/models"
)

// Fixed lexicons. Matching is plain substring containment on lower-cased text.
var (
	positiveWords = []string{"merci", "bien", "satisfait", "excellent", "positif", "fiers", "écouté", "claire", "utile", "motivé", "reconnu"}
	negativeWords = []string{"stress", "charge", "mauvais", "négatif", "fatigue", "burnout", "épuisé", "confus", "injuste", "toxique", "trop"}
)

const sentimentClamp = 3

// Score rates text in [-1, 1]: +1 per positive word found, -1 per negative word
// found, clamped to [-3, 3] and divided by 3. Empty text scores 0.
func Score(text string) float64 {
	if text == "" {
		return 0
	}
	t := strings.ToLower(text)
	raw := 0
	for _, w := range positiveWords {
		if strings.Contains(t, w) {
			raw++
		}
	}
	for _, w := range negativeWords {
		if strings.Contains(t, w) {
			raw--
		}
	}
	if raw > sentimentClamp {
		raw = sentimentClamp
	}
	if raw < -sentimentClamp {
		raw = -sentimentClamp
	}
	return float64(raw) / sentimentClamp
}

// AggregateScore averages Score over every non-empty answer to an open question.
func AggregateScore(responses models.ResponseSet, qs []models.Question) float64 {
	scores := make([]float64, 0)
	for _, row := range responses {
		for _, q := range qs {
			if q.Type != models.QuestionOpen {
				continue
			}
			if text := row[q.ID]; text != "" {
				scores = append(scores, Score(text))
			}
		}
	}
	return mean(scores)
}

// SentimentPercent renders a score as a whole percentage.
func SentimentPercent(score float64) int {
	return int(math.Round(score * 100))
}
