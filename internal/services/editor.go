package services

import "github.com/Skili43/survey-tool/internal/models"

// Editing operations over an ordered question list. Each returns a new list and
// leaves its input untouched; an out-of-range index yields an unchanged copy.

// CustomTheme tags questions added by hand.
const CustomTheme = "Custom"

// QuestionPatch carries the fields UpdateQuestion replaces; nil means keep.
type QuestionPatch struct {
	Text    *string              `json:"text,omitempty"`
	Type    *models.QuestionType `json:"type,omitempty"`
	Options *[]string            `json:"options,omitempty"`
	Theme   *string              `json:"theme,omitempty"`
}

// AddQuestion appends a placeholder question of typ with a fresh id.
func AddQuestion(qs []models.Question, typ models.QuestionType, id, placeholder string) []models.Question {
	out := models.CloneQuestions(qs)
	return append(out, models.Question{
		ID:      id,
		Text:    placeholder,
		Type:    typ,
		Options: optionsFor(typ),
		Theme:   CustomTheme,
	})
}

// UpdateQuestion applies patch at index, keeping the identifier. A type change
// here does not touch options; use TransitionQuestion for that.
func UpdateQuestion(qs []models.Question, index int, patch QuestionPatch) []models.Question {
	out := models.CloneQuestions(qs)
	if !inRange(out, index) {
		return out
	}
	q := &out[index]
	if patch.Text != nil {
		q.Text = *patch.Text
	}
	if patch.Type != nil {
		q.Type = *patch.Type
	}
	if patch.Options != nil {
		q.Options = append([]string{}, (*patch.Options)...)
	}
	if patch.Theme != nil {
		q.Theme = *patch.Theme
	}
	return out
}

// TransitionQuestion flips the type at index to likert (options reset to the
// five-point scale) or open (options cleared). Other target types are ignored.
func TransitionQuestion(qs []models.Question, index int, typ models.QuestionType) []models.Question {
	out := models.CloneQuestions(qs)
	if !inRange(out, index) {
		return out
	}
	switch typ {
	case models.QuestionLikert, models.QuestionOpen:
		out[index].Type = typ
		out[index].Options = optionsFor(typ)
	}
	return out
}

// MoveQuestion swaps index with index+direction. Direction must be -1 or +1.
func MoveQuestion(qs []models.Question, index, direction int) []models.Question {
	out := models.CloneQuestions(qs)
	if direction != -1 && direction != 1 {
		return out
	}
	target := index + direction
	if !inRange(out, index) || !inRange(out, target) {
		return out
	}
	out[index], out[target] = out[target], out[index]
	return out
}

// RemoveQuestion deletes the question at index.
func RemoveQuestion(qs []models.Question, index int) []models.Question {
	if !inRange(qs, index) {
		return models.CloneQuestions(qs)
	}
	out := make([]models.Question, 0, len(qs)-1)
	for i, q := range qs {
		if i != index {
			out = append(out, q.Clone())
		}
	}
	return out
}

func inRange(qs []models.Question, i int) bool {
	return i >= 0 && i < len(qs)
}
