package services

import (
	"context"
	"time"

	"github.com/Skili43/survey-tool/internal/models"
)

// Session is the caller-owned state of one design/collect/analyze session.
type Session struct {
	ID        string             `json:"id"`
	Survey    models.Survey      `json:"survey"`
	Responses models.ResponseSet `json:"responses"`
	Draft     models.ResponseRow `json:"draft"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// SessionStore holds live sessions. Update must run fn with exclusive access
// to the stored session so concurrent writers never lose each other's changes.
type SessionStore interface {
	Create(ctx context.Context, s *Session) error
	// Get returns nil, nil when the session does not exist.
	Get(ctx context.Context, id string) (*Session, error)
	// Update returns a not_found ServiceError when the session does not exist.
	Update(ctx context.Context, id string, fn func(s *Session) error) (*Session, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// SurveySettings patches the non-question fields of a survey; nil means keep.
type SurveySettings struct {
	OrgName   *string   `json:"org_name,omitempty"`
	Objective *string   `json:"objective,omitempty"`
	OrgSize   *string   `json:"org_size,omitempty" validate:"omitempty,oneof=1-49 50-199 200-999 >=1000"`
	Anonymous *bool     `json:"anonymous,omitempty"`
	Themes    *[]string `json:"themes,omitempty"`
	Tone      *string   `json:"tone,omitempty" validate:"omitempty,oneof=neutral supportive direct neutre bienveillance"`
	Length    *string   `json:"length,omitempty" validate:"omitempty,oneof=short standard long courte longue"`
}

// Clone deep-copies the session so stores never hand out shared state.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	cp := *s
	cp.Survey.Themes = append([]string{}, s.Survey.Themes...)
	cp.Survey.Questions = models.CloneQuestions(s.Survey.Questions)
	cp.Responses = make(models.ResponseSet, len(s.Responses))
	for i, row := range s.Responses {
		cp.Responses[i] = row.Clone()
	}
	cp.Draft = s.Draft.Clone()
	return &cp
}
