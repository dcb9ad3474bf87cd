package services

import (
	"context"

	"github.com/Skili43/survey-tool/internal/models"
)

type AnalyticsStore interface {
	Get(ctx context.Context, id string) (*Session, error)
}

type AnalyticsService struct {
	store AnalyticsStore
	bank  *Bank
}

type AnalyticsSummary struct {
	TotalResponses   int          `json:"total_responses"`
	Likert           []LikertStat `json:"likert"`
	Sentiment        float64      `json:"sentiment"`
	SentimentPercent int          `json:"sentiment_percent"`
	Alpha            float64      `json:"alpha"`
	AlphaN           int          `json:"alpha_n"`
	Recommendations  []string     `json:"recommendations"`
}

// NewAnalyticsService reads sessions from store; a nil bank uses the embedded one.
func NewAnalyticsService(store AnalyticsStore, bank *Bank) *AnalyticsService {
	if bank == nil {
		bank = DefaultBank()
	}
	return &AnalyticsService{store: store, bank: bank}
}

func (s *AnalyticsService) Summary(ctx context.Context, sessionID string) (*AnalyticsSummary, error) {
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, NewNotFoundError("session not found")
	}
	summary := Summarize(sess.Survey.Questions, sess.Responses)
	summary.Recommendations = s.bank.Recommendations()
	return &summary, nil
}

// Summarize computes the analytics view of a question list and its responses.
func Summarize(qs []models.Question, responses models.ResponseSet) AnalyticsSummary {
	sentiment := AggregateScore(responses, qs)
	matrix := likertMatrix(qs, responses)
	return AnalyticsSummary{
		TotalResponses:   len(responses),
		Likert:           LikertStats(qs, responses),
		Sentiment:        sentiment,
		SentimentPercent: SentimentPercent(sentiment),
		Alpha:            CronbachAlpha(matrix),
		AlphaN:           len(matrix),
		Recommendations:  []string{},
	}
}
