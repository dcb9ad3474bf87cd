package services

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed bank.yaml
var embeddedBank []byte

// ThemeTemplates holds the question templates of one theme, in bank order.
type ThemeTemplates struct {
	Name   string   `yaml:"name" json:"name"`
	Likert []string `yaml:"likert" json:"likert"`
	Open   []string `yaml:"open" json:"open"`
}

// FixedQuestion is a question the generator may inject verbatim.
type FixedQuestion struct {
	Keyword string `yaml:"keyword,omitempty" json:"keyword,omitempty"`
	Text    string `yaml:"text" json:"text"`
	Theme   string `yaml:"theme" json:"theme"`
}

// ToneRewrite is the text policy applied for the supportive tone.
type ToneRewrite struct {
	Find    string `yaml:"find" json:"find"`
	Replace string `yaml:"replace" json:"replace"`
	Suffix  string `yaml:"suffix" json:"suffix"`
}

// Bank is the immutable thematic question library.
// Accessors return copies; a loaded Bank is never mutated.
type Bank struct {
	themes     []ThemeTemplates
	byName     map[string]int
	onboarding FixedQuestion
	fallback   FixedQuestion
	supportive ToneRewrite
	actions    []string
}

type bankFile struct {
	Themes     []ThemeTemplates `yaml:"themes"`
	Onboarding FixedQuestion    `yaml:"onboarding"`
	Fallback   FixedQuestion    `yaml:"fallback"`
	Supportive ToneRewrite      `yaml:"supportive"`
	Actions    []string         `yaml:"recommendations"`
}

var (
	defaultBankOnce sync.Once
	defaultBank     *Bank
)

// DefaultBank returns the embedded library.
func DefaultBank() *Bank {
	defaultBankOnce.Do(func() {
		b, err := ParseBank(embeddedBank)
		if err != nil {
			panic(fmt.Sprintf("embedded question bank: %v", err))
		}
		defaultBank = b
	})
	return defaultBank
}

// LoadBank reads a bank from path, or returns the embedded one when path is empty.
func LoadBank(path string) (*Bank, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultBank(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question bank %s: %w", path, err)
	}
	b, err := ParseBank(data)
	if err != nil {
		return nil, fmt.Errorf("parse question bank %s: %w", path, err)
	}
	return b, nil
}

// ParseBank decodes and validates a YAML bank document.
func ParseBank(data []byte) (*Bank, error) {
	var f bankFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	if len(f.Themes) == 0 {
		return nil, errors.New("no themes defined")
	}
	b := &Bank{
		themes:     make([]ThemeTemplates, 0, len(f.Themes)),
		byName:     make(map[string]int, len(f.Themes)),
		onboarding: f.Onboarding,
		fallback:   f.Fallback,
		supportive: f.Supportive,
		actions:    append([]string{}, f.Actions...),
	}
	for _, th := range f.Themes {
		name := strings.TrimSpace(th.Name)
		if name == "" {
			return nil, errors.New("theme with empty name")
		}
		if _, dup := b.byName[name]; dup {
			return nil, fmt.Errorf("duplicate theme %q", name)
		}
		b.byName[name] = len(b.themes)
		b.themes = append(b.themes, ThemeTemplates{
			Name:   name,
			Likert: append([]string{}, th.Likert...),
			Open:   append([]string{}, th.Open...),
		})
	}
	if strings.TrimSpace(b.fallback.Text) == "" {
		return nil, errors.New("fallback question text required")
	}
	if b.onboarding.Keyword == "" {
		b.onboarding.Keyword = "onboarding"
	}
	return b, nil
}

// ThemeNames lists the themes in bank order.
func (b *Bank) ThemeNames() []string {
	out := make([]string, 0, len(b.themes))
	for _, th := range b.themes {
		out = append(out, th.Name)
	}
	return out
}

// HasTheme reports whether name is a known theme tag.
func (b *Bank) HasTheme(name string) bool {
	_, ok := b.byName[name]
	return ok
}

// Theme returns a copy of the templates for name.
func (b *Bank) Theme(name string) (ThemeTemplates, bool) {
	i, ok := b.byName[name]
	if !ok {
		return ThemeTemplates{}, false
	}
	th := b.themes[i]
	return ThemeTemplates{
		Name:   th.Name,
		Likert: append([]string{}, th.Likert...),
		Open:   append([]string{}, th.Open...),
	}, true
}

// Themes returns copies of every theme in bank order.
func (b *Bank) Themes() []ThemeTemplates {
	out := make([]ThemeTemplates, 0, len(b.themes))
	for _, th := range b.themes {
		cp, _ := b.Theme(th.Name)
		out = append(out, cp)
	}
	return out
}

func (b *Bank) Onboarding() FixedQuestion { return b.onboarding }
func (b *Bank) Fallback() FixedQuestion   { return b.fallback }
func (b *Bank) Supportive() ToneRewrite   { return b.supportive }

// Recommendations lists the standing follow-up actions offered with results.
func (b *Bank) Recommendations() []string {
	return append([]string{}, b.actions...)
}
