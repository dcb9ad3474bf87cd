package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseToneAndLength(t *testing.T) {
	assert.Equal(t, ToneSupportive, ParseTone("Bienveillance"))
	assert.Equal(t, ToneDirect, ParseTone(" direct "))
	assert.Equal(t, ToneNeutral, ParseTone("sarcastique"))

	assert.Equal(t, LengthShort, ParseLength("courte"))
	assert.Equal(t, LengthLong, ParseLength("LONG"))
	assert.Equal(t, LengthStandard, ParseLength(""))
}

func TestTargetCount(t *testing.T) {
	assert.Equal(t, 8, LengthShort.TargetCount())
	assert.Equal(t, 10, LengthStandard.TargetCount())
	assert.Equal(t, 18, LengthLong.TargetCount())
	assert.Equal(t, 10, Length("weird").TargetCount())
}

func TestLikertOptionsAreFresh(t *testing.T) {
	a := LikertOptions()
	a[0] = "x"
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, LikertOptions())
	assert.True(t, IsLikertScale(LikertOptions()))
	assert.False(t, IsLikertScale([]string{"1", "2", "3"}))
}

func TestQuestionTypeValid(t *testing.T) {
	for _, typ := range []QuestionType{QuestionLikert, QuestionOpen, QuestionMCQ} {
		assert.True(t, typ.Valid())
	}
	assert.False(t, QuestionType("ranking").Valid())
}

func TestCloneQuestions(t *testing.T) {
	assert.NotNil(t, CloneQuestions(nil))
	qs := []Question{{ID: "a", Options: LikertOptions()}, {ID: "b"}}
	cp := CloneQuestions(qs)
	cp[0].Options[0] = "x"
	assert.Equal(t, "1", qs[0].Options[0])
	assert.Nil(t, cp[1].Options)
}

func TestCloneKeepsEmptyOptions(t *testing.T) {
	q := Question{ID: "o", Type: QuestionOpen, Options: []string{}}
	cp := q.Clone()
	assert.NotNil(t, cp.Options)
	assert.Empty(t, cp.Options)
	assert.Equal(t, q, cp)
}

func TestDefaultSurvey(t *testing.T) {
	sv := DefaultSurvey()
	assert.Equal(t, "Entreprise Demo", sv.OrgName)
	assert.Equal(t, OrgSizeMedium, sv.OrgSize)
	assert.True(t, sv.Anonymous)
	assert.Equal(t, []string{"Engagement", "Communication", "Reconnaissance", "BienÊtre"}, sv.Themes)
	assert.Empty(t, sv.Questions)
	assert.NotNil(t, sv.Questions)
}
