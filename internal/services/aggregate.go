package services

import (
	"math"
	"strconv"
	"strings"

	"github.com/Skili43/survey-tool/internal/models"
)

const statLabelMax = 32

// LikertStat summarizes one likert question for charting.
type LikertStat struct {
	QuestionID string  `json:"question_id"`
	Label      string  `json:"label"`
	Mean       float64 `json:"mean"`
	Count      int     `json:"count"`
	Histogram  []int   `json:"histogram"`
}

// numericAnswer parses an answer; ok is false for blank, non-numeric or non-finite values.
func numericAnswer(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func numericAnswers(q models.Question, responses models.ResponseSet) []float64 {
	vals := make([]float64, 0, len(responses))
	for _, row := range responses {
		raw, ok := row[q.ID]
		if !ok {
			continue
		}
		if v, ok := numericAnswer(raw); ok {
			vals = append(vals, v)
		}
	}
	return vals
}

// MeanFor averages the numeric answers to q. It returns 0, never NaN, when
// there is nothing to average.
func MeanFor(q models.Question, responses models.ResponseSet) float64 {
	return mean(numericAnswers(q, responses))
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// LikertStats returns one entry per likert question, in list order.
func LikertStats(qs []models.Question, responses models.ResponseSet) []LikertStat {
	out := make([]LikertStat, 0, len(qs))
	for _, q := range qs {
		if q.Type != models.QuestionLikert {
			continue
		}
		vals := numericAnswers(q, responses)
		hist := make([]int, len(models.LikertOptions()))
		for _, v := range vals {
			if v == math.Trunc(v) && v >= 1 && int(v) <= len(hist) {
				hist[int(v)-1]++
			}
		}
		out = append(out, LikertStat{
			QuestionID: q.ID,
			Label:      StatLabel(q.Text),
			Mean:       mean(vals),
			Count:      len(vals),
			Histogram:  hist,
		})
	}
	return out
}

// StatLabel shortens text to 32 characters, marking the cut with an ellipsis.
func StatLabel(text string) string {
	r := []rune(text)
	if len(r) <= statLabelMax {
		return text
	}
	return string(r[:statLabelMax]) + "…"
}
