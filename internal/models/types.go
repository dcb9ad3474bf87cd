package models

import "strings"

// QuestionType is the answer format of a question.
type QuestionType string

const (
	QuestionLikert QuestionType = "likert"
	QuestionOpen   QuestionType = "open"
	QuestionMCQ    QuestionType = "mcq"
)

// Valid reports whether t is one of the known question types.
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionLikert, QuestionOpen, QuestionMCQ:
		return true
	}
	return false
}

// likertScale is the five-point scale every likert question carries.
// 1: Pas du tout d'accord -> 5: Tout à fait d'accord
var likertScale = [...]string{"1", "2", "3", "4", "5"}

// LikertOptions returns a fresh copy of the five-point scale.
func LikertOptions() []string {
	out := make([]string, len(likertScale))
	copy(out, likertScale[:])
	return out
}

// IsLikertScale reports whether opts is exactly the five-point scale.
func IsLikertScale(opts []string) bool {
	if len(opts) != len(likertScale) {
		return false
	}
	for i, o := range opts {
		if o != likertScale[i] {
			return false
		}
	}
	return true
}

// Question is one entry of a survey's ordered question list.
type Question struct {
	ID      string       `json:"id"`
	Text    string       `json:"text"`
	Type    QuestionType `json:"type"`
	Options []string     `json:"options"`
	Theme   string       `json:"theme"`
}

// Clone returns a deep copy so callers can edit options without aliasing.
func (q Question) Clone() Question {
	cp := q
	if q.Options != nil {
		cp.Options = append(make([]string, 0, len(q.Options)), q.Options...)
	}
	return cp
}

// CloneQuestions deep-copies a question list.
func CloneQuestions(qs []Question) []Question {
	out := make([]Question, len(qs))
	for i, q := range qs {
		out[i] = q.Clone()
	}
	return out
}

// Tone is the phrasing style applied to generated question text.
type Tone string

const (
	ToneNeutral    Tone = "neutral"
	ToneSupportive Tone = "supportive"
	ToneDirect     Tone = "direct"
)

// ParseTone accepts the canonical values and the prototype's French labels.
// Unknown input falls back to neutral.
func ParseTone(s string) Tone {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "supportive", "bienveillance":
		return ToneSupportive
	case "direct":
		return ToneDirect
	default:
		return ToneNeutral
	}
}

// Length selects how many questions the generator targets.
type Length string

const (
	LengthShort    Length = "short"
	LengthStandard Length = "standard"
	LengthLong     Length = "long"
)

// ParseLength accepts the canonical values and courte/longue.
// Unknown input falls back to standard.
func ParseLength(s string) Length {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "short", "courte":
		return LengthShort
	case "long", "longue":
		return LengthLong
	default:
		return LengthStandard
	}
}

// TargetCount is the maximum number of questions produced for the length.
func (l Length) TargetCount() int {
	switch l {
	case LengthShort:
		return 8
	case LengthLong:
		return 18
	default:
		return 10
	}
}

// OrgSize is the organization-size bucket of a survey.
type OrgSize string

const (
	OrgSizeSmall  OrgSize = "1-49"
	OrgSizeMedium OrgSize = "50-199"
	OrgSizeLarge  OrgSize = "200-999"
	OrgSizeXLarge OrgSize = ">=1000"
)

// OrgSizes lists the buckets in display order.
func OrgSizes() []OrgSize {
	return []OrgSize{OrgSizeSmall, OrgSizeMedium, OrgSizeLarge, OrgSizeXLarge}
}

// Survey is the editable design of one engagement survey.
type Survey struct {
	OrgName   string     `json:"org_name"`
	Objective string     `json:"objective"`
	OrgSize   OrgSize    `json:"org_size"`
	Anonymous bool       `json:"anonymous"`
	Themes    []string   `json:"themes"`
	Tone      Tone       `json:"tone"`
	Length    Length     `json:"length"`
	Questions []Question `json:"questions"`
}

// DefaultSurvey returns the values a new session starts with.
func DefaultSurvey() Survey {
	return Survey{
		OrgName:   "Entreprise Demo",
		Objective: "Mesurer l'engagement global et identifier 3 priorités d'action.",
		OrgSize:   OrgSizeMedium,
		Anonymous: true,
		Themes:    []string{"Engagement", "Communication", "Reconnaissance", "BienÊtre"},
		Tone:      ToneNeutral,
		Length:    LengthStandard,
		Questions: []Question{},
	}
}

// ResponseRow maps a question ID to one respondent's answer.
type ResponseRow map[string]string

// Clone copies the row.
func (r ResponseRow) Clone() ResponseRow {
	out := make(ResponseRow, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// ResponseSet holds rows in arrival order.
type ResponseSet []ResponseRow
