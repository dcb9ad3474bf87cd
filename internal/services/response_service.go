package services

import "github.com/Skili43/survey-tool/internal/models"

// ToggleTheme removes theme when selected, otherwise appends it. Order of the
// remaining selection is preserved.
func ToggleTheme(themes []string, theme string) []string {
	out := make([]string, 0, len(themes)+1)
	found := false
	for _, th := range themes {
		if th == theme {
			found = true
			continue
		}
		out = append(out, th)
	}
	if !found {
		out = append(out, theme)
	}
	return out
}

// SetDraftAnswer returns a copy of draft with questionID set to value.
func SetDraftAnswer(draft models.ResponseRow, questionID, value string) models.ResponseRow {
	out := draft.Clone()
	out[questionID] = value
	return out
}

// BuildResponseRow keeps the answers addressed to questions in qs. Answers for
// questions no longer in the list are dropped.
func BuildResponseRow(qs []models.Question, answers models.ResponseRow) models.ResponseRow {
	row := make(models.ResponseRow, len(answers))
	for _, q := range qs {
		if v, ok := answers[q.ID]; ok {
			row[q.ID] = v
		}
	}
	return row
}

// AppendResponse returns a new set with row appended; existing rows are shared,
// never modified.
func AppendResponse(set models.ResponseSet, row models.ResponseRow) models.ResponseSet {
	out := make(models.ResponseSet, len(set), len(set)+1)
	copy(out, set)
	return append(out, row.Clone())
}
