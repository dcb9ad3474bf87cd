package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skili43/survey-tool/internal/models"
)

func seededStore(t *testing.T) *stubSessionStore {
	t.Helper()
	store := newStubSessionStore()
	sv := models.DefaultSurvey()
	sv.OrgName = "Acme"
	sv.Questions = []models.Question{
		{ID: "l1", Text: "A", Type: models.QuestionLikert, Options: models.LikertOptions()},
		{ID: "l2", Text: "B", Type: models.QuestionLikert, Options: models.LikertOptions()},
		{ID: "o1", Text: "Pourquoi, vraiment ?", Type: models.QuestionOpen, Options: []string{}},
	}
	require.NoError(t, store.Create(context.Background(), &Session{
		ID:     "S1",
		Survey: sv,
		Responses: models.ResponseSet{
			{"l1": "5", "l2": "4", "o1": "merci, très satisfait"},
			{"l1": "3", "l2": "2", "o1": "trop de stress"},
			{"l1": "1", "o1": ""},
		},
	}))
	return store
}

func TestAnalyticsSummary(t *testing.T) {
	svc := NewAnalyticsService(seededStore(t), nil)
	got, err := svc.Summary(context.Background(), "S1")
	require.NoError(t, err)

	assert.Equal(t, 3, got.TotalResponses)
	require.Len(t, got.Likert, 2)
	assert.InDelta(t, 3.0, got.Likert[0].Mean, 1e-9)
	assert.InDelta(t, 3.0, got.Likert[1].Mean, 1e-9)
	assert.Equal(t, 2, got.Likert[1].Count)
	// (2/3 + -2/3) / 2
	assert.InDelta(t, 0.0, got.Sentiment, 1e-9)
	assert.Equal(t, 0, got.SentimentPercent)
	assert.Equal(t, 2, got.AlphaN)
	assert.InDelta(t, 1.0, got.Alpha, 1e-9)
	require.Len(t, got.Recommendations, 4)
	assert.Contains(t, got.Recommendations[0], "Partager 3 priorités claires")
}

func TestAnalyticsSummaryCustomBankActions(t *testing.T) {
	bank, err := ParseBank([]byte(`
themes:
  - name: T
    likert: ["Je vais bien."]
fallback:
  text: "Autre chose ?"
recommendations: ["Agir vite."]
`))
	require.NoError(t, err)
	got, err := NewAnalyticsService(seededStore(t), bank).Summary(context.Background(), "S1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Agir vite."}, got.Recommendations)
}

func TestAnalyticsSummaryEmpty(t *testing.T) {
	got := Summarize(nil, nil)
	assert.Equal(t, 0, got.TotalResponses)
	assert.Empty(t, got.Likert)
	assert.Equal(t, 0.0, got.Sentiment)
	assert.Equal(t, 0.0, got.Alpha)
	assert.NotNil(t, got.Recommendations)
}

func TestAnalyticsSummaryNotFound(t *testing.T) {
	svc := NewAnalyticsService(newStubSessionStore(), nil)
	_, err := svc.Summary(context.Background(), "missing")
	requireCode(t, err, ErrorNotFound)
}
