package services

import "github.com/Skili43/survey-tool/internal/models"

// CronbachAlpha computes Cronbach's alpha for a [respondents][items] matrix
// using population variance, so perfectly correlated items give 1.
// Degenerate input (fewer than 2 items, ragged rows, zero total variance) gives 0.
// The result is clamped to [0, 1].
func CronbachAlpha(matrix [][]float64) float64 {
	n := len(matrix)
	if n == 0 {
		return 0
	}
	k := len(matrix[0])
	if k < 2 {
		return 0
	}

	columns := make([][]float64, k)
	totals := make([]float64, n)
	for i, row := range matrix {
		if len(row) != k {
			return 0
		}
		for j, v := range row {
			columns[j] = append(columns[j], v)
			totals[i] += v
		}
	}

	totalVar := popVariance(totals)
	if totalVar == 0 {
		return 0
	}
	var sumItemVars float64
	for _, col := range columns {
		sumItemVars += popVariance(col)
	}

	kf := float64(k)
	alpha := (kf / (kf - 1)) * (1 - sumItemVars/totalVar)
	if alpha < 0 {
		return 0
	}
	if alpha > 1 {
		return 1
	}
	return alpha
}

func popVariance(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	m := mean(vals)
	var sum float64
	for _, v := range vals {
		d := v - m
		sum += d * d
	}
	return sum / float64(len(vals))
}

// likertMatrix keeps, in arrival order, the rows that answered every likert
// question with a number. Columns follow question-list order.
func likertMatrix(qs []models.Question, responses models.ResponseSet) [][]float64 {
	likert := make([]models.Question, 0, len(qs))
	for _, q := range qs {
		if q.Type == models.QuestionLikert {
			likert = append(likert, q)
		}
	}
	if len(likert) == 0 {
		return nil
	}
	matrix := make([][]float64, 0, len(responses))
	for _, resp := range responses {
		row := make([]float64, 0, len(likert))
		complete := true
		for _, q := range likert {
			v, ok := numericAnswer(resp[q.ID])
			if !ok {
				complete = false
				break
			}
			row = append(row, v)
		}
		if complete {
			matrix = append(matrix, row)
		}
	}
	return matrix
}
