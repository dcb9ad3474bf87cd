package services

import (
	"strings"

	"github.com/Skili43/survey-tool/internal/models"
)

// GenerateConfig is the input of question generation.
type GenerateConfig struct {
	Objective string
	Themes    []string
	Tone      models.Tone
	Length    models.Length
}

// Generator builds question lists from a Bank by template substitution.
type Generator struct {
	bank        *Bank
	idGenerator IDGenerator
}

// NewGenerator binds a generator to bank. A nil ids falls back to NewQuestionID.
func NewGenerator(bank *Bank, ids IDGenerator) *Generator {
	if bank == nil {
		bank = DefaultBank()
	}
	if ids == nil {
		ids = NewQuestionID
	}
	return &Generator{bank: bank, idGenerator: ids}
}

// Generate returns at most cfg.Length.TargetCount() questions.
//
// Order of operations: pool by theme (likert then open), truncate to target,
// tone rewrite, onboarding injection, open-question fallback, truncate again.
// The second truncation can drop the fallback; that ordering is kept on purpose.
func (g *Generator) Generate(cfg GenerateConfig) []models.Question {
	target := cfg.Length.TargetCount()

	pool := make([]models.Question, 0, target)
	for _, name := range cfg.Themes {
		th, ok := g.bank.Theme(name)
		if !ok {
			continue
		}
		for _, text := range th.Likert {
			pool = append(pool, g.newQuestion(text, models.QuestionLikert, name))
		}
		for _, text := range th.Open {
			pool = append(pool, g.newQuestion(text, models.QuestionOpen, name))
		}
	}

	picked := pool
	if len(picked) > target {
		picked = picked[:target]
	}

	if cfg.Tone == models.ToneSupportive {
		rw := g.bank.Supportive()
		for i := range picked {
			picked[i].Text = applyRewrite(picked[i].Text, rw)
		}
	}

	ob := g.bank.Onboarding()
	if ob.Text != "" && strings.Contains(strings.ToLower(cfg.Objective), strings.ToLower(ob.Keyword)) {
		picked = append(picked, g.newQuestion(ob.Text, models.QuestionOpen, ob.Theme))
	}

	if !hasOpen(picked) {
		fb := g.bank.Fallback()
		picked = append(picked, g.newQuestion(fb.Text, models.QuestionOpen, fb.Theme))
	}

	if len(picked) > target {
		picked = picked[:target]
	}
	return picked
}

func (g *Generator) newQuestion(text string, typ models.QuestionType, theme string) models.Question {
	return models.Question{
		ID:      g.idGenerator(),
		Text:    text,
		Type:    typ,
		Options: optionsFor(typ),
		Theme:   theme,
	}
}

// applyRewrite replaces the first occurrence of rw.Find and appends the suffix.
func applyRewrite(text string, rw ToneRewrite) string {
	if rw.Find != "" {
		text = strings.Replace(text, rw.Find, rw.Replace, 1)
	}
	return text + rw.Suffix
}

func optionsFor(typ models.QuestionType) []string {
	if typ == models.QuestionLikert {
		return models.LikertOptions()
	}
	return []string{}
}

func hasOpen(qs []models.Question) bool {
	for _, q := range qs {
		if q.Type == models.QuestionOpen {
			return true
		}
	}
	return false
}
