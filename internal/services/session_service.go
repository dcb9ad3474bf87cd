package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Skili43/survey-tool/internal/models"
)

// SessionService applies the pure survey operations to stored sessions.
type SessionService struct {
	store       SessionStore
	bank        *Bank
	generator   *Generator
	now         func() time.Time
	idGenerator IDGenerator
	sessionIDs  IDGenerator
}

// NewSessionService wires a service to store and bank (nil bank = embedded).
func NewSessionService(store SessionStore, bank *Bank) *SessionService {
	if bank == nil {
		bank = DefaultBank()
	}
	return &SessionService{
		store:       store,
		bank:        bank,
		generator:   NewGenerator(bank, NewQuestionID),
		now:         func() time.Time { return time.Now().UTC() },
		idGenerator: NewQuestionID,
		sessionIDs:  NewSessionID,
	}
}

// WithIDGenerator makes question ids come from ids (generated and added alike).
func (s *SessionService) WithIDGenerator(ids IDGenerator) *SessionService {
	s.idGenerator = ids
	s.generator = NewGenerator(s.bank, ids)
	return s
}

// Bank exposes the library the service generates from.
func (s *SessionService) Bank() *Bank { return s.bank }

// Create starts a session from the default survey, patched by settings.
func (s *SessionService) Create(ctx context.Context, settings *SurveySettings) (*Session, error) {
	if s.store == nil {
		return nil, errors.New("session service store is nil")
	}
	survey := models.DefaultSurvey()
	if settings != nil {
		if err := s.applySettings(&survey, *settings); err != nil {
			return nil, err
		}
	}
	now := s.now()
	sess := &Session{
		ID:        s.sessionIDs(),
		Survey:    survey,
		Responses: models.ResponseSet{},
		Draft:     models.ResponseRow{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Create(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Get loads a session or returns a not_found error.
func (s *SessionService) Get(ctx context.Context, id string) (*Session, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, NewNotFoundError("session not found")
	}
	return sess, nil
}

func (s *SessionService) Delete(ctx context.Context, id string) error {
	ok, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return NewNotFoundError("session not found")
	}
	return nil
}

// UpdateSurvey patches survey settings; the question list is left as is.
func (s *SessionService) UpdateSurvey(ctx context.Context, id string, settings SurveySettings) (*Session, error) {
	return s.mutate(ctx, id, func(sess *Session) error {
		return s.applySettings(&sess.Survey, settings)
	})
}

// ToggleTheme selects or deselects one bank theme.
func (s *SessionService) ToggleTheme(ctx context.Context, id, theme string) (*Session, error) {
	if !s.bank.HasTheme(theme) {
		return nil, NewInvalidError("unknown theme")
	}
	return s.mutate(ctx, id, func(sess *Session) error {
		sess.Survey.Themes = ToggleTheme(sess.Survey.Themes, theme)
		return nil
	})
}

// Generate replaces the question list with a freshly generated one.
func (s *SessionService) Generate(ctx context.Context, id string) (*Session, error) {
	return s.mutate(ctx, id, func(sess *Session) error {
		sv := sess.Survey
		sess.Survey.Questions = s.generator.Generate(GenerateConfig{
			Objective: sv.Objective,
			Themes:    sv.Themes,
			Tone:      sv.Tone,
			Length:    sv.Length,
		})
		return nil
	})
}

// AddQuestion appends a placeholder question.
func (s *SessionService) AddQuestion(ctx context.Context, id string, typ models.QuestionType, placeholder string) (*Session, error) {
	if !typ.Valid() {
		return nil, NewInvalidError("unknown question type")
	}
	return s.mutate(ctx, id, func(sess *Session) error {
		sess.Survey.Questions = AddQuestion(sess.Survey.Questions, typ, s.idGenerator(), placeholder)
		return nil
	})
}

func (s *SessionService) UpdateQuestion(ctx context.Context, id string, index int, patch QuestionPatch) (*Session, error) {
	if patch.Type != nil && !patch.Type.Valid() {
		return nil, NewInvalidError("unknown question type")
	}
	return s.mutateAt(ctx, id, index, func(qs []models.Question) []models.Question {
		return UpdateQuestion(qs, index, patch)
	})
}

func (s *SessionService) TransitionQuestion(ctx context.Context, id string, index int, typ models.QuestionType) (*Session, error) {
	if typ != models.QuestionLikert && typ != models.QuestionOpen {
		return nil, NewInvalidError("questions can only become likert or open")
	}
	return s.mutateAt(ctx, id, index, func(qs []models.Question) []models.Question {
		return TransitionQuestion(qs, index, typ)
	})
}

// MoveQuestion swaps with a neighbour; moving past either end is a no-op.
func (s *SessionService) MoveQuestion(ctx context.Context, id string, index, direction int) (*Session, error) {
	if direction != -1 && direction != 1 {
		return nil, NewInvalidError("direction must be -1 or 1")
	}
	return s.mutateAt(ctx, id, index, func(qs []models.Question) []models.Question {
		return MoveQuestion(qs, index, direction)
	})
}

func (s *SessionService) RemoveQuestion(ctx context.Context, id string, index int) (*Session, error) {
	return s.mutateAt(ctx, id, index, func(qs []models.Question) []models.Question {
		return RemoveQuestion(qs, index)
	})
}

// SetDraftAnswer records one answer of the respondent currently filling in.
func (s *SessionService) SetDraftAnswer(ctx context.Context, id, questionID, value string) (*Session, error) {
	return s.mutate(ctx, id, func(sess *Session) error {
		if !containsQuestion(sess.Survey.Questions, questionID) {
			return NewInvalidError("unknown question")
		}
		sess.Draft = SetDraftAnswer(sess.Draft, questionID, value)
		return nil
	})
}

func (s *SessionService) ResetDraft(ctx context.Context, id string) (*Session, error) {
	return s.mutate(ctx, id, func(sess *Session) error {
		sess.Draft = models.ResponseRow{}
		return nil
	})
}

// RecordResponse appends a row built from answers, or from the draft when
// answers is nil; recording the draft clears it.
func (s *SessionService) RecordResponse(ctx context.Context, id string, answers models.ResponseRow) (*Session, error) {
	return s.mutate(ctx, id, func(sess *Session) error {
		src := answers
		if src == nil {
			src = sess.Draft
			sess.Draft = models.ResponseRow{}
		}
		sess.Responses = AppendResponse(sess.Responses, BuildResponseRow(sess.Survey.Questions, src))
		return nil
	})
}

func (s *SessionService) mutate(ctx context.Context, id string, fn func(sess *Session) error) (*Session, error) {
	return s.store.Update(ctx, id, func(sess *Session) error {
		if err := fn(sess); err != nil {
			return err
		}
		sess.UpdatedAt = s.now()
		return nil
	})
}

func (s *SessionService) mutateAt(ctx context.Context, id string, index int, edit func([]models.Question) []models.Question) (*Session, error) {
	return s.mutate(ctx, id, func(sess *Session) error {
		if index < 0 || index >= len(sess.Survey.Questions) {
			return NewInvalidError("question index out of range")
		}
		sess.Survey.Questions = edit(sess.Survey.Questions)
		return nil
	})
}

func (s *SessionService) applySettings(sv *models.Survey, st SurveySettings) error {
	if st.Themes != nil {
		for _, th := range *st.Themes {
			if !s.bank.HasTheme(th) {
				return NewInvalidError("unknown theme: " + th)
			}
		}
		sv.Themes = append([]string{}, (*st.Themes)...)
	}
	if st.OrgSize != nil {
		size := models.OrgSize(strings.TrimSpace(*st.OrgSize))
		valid := false
		for _, b := range models.OrgSizes() {
			if b == size {
				valid = true
			}
		}
		if !valid {
			return NewInvalidError("unknown organization size")
		}
		sv.OrgSize = size
	}
	if st.OrgName != nil {
		sv.OrgName = *st.OrgName
	}
	if st.Objective != nil {
		sv.Objective = *st.Objective
	}
	if st.Anonymous != nil {
		sv.Anonymous = *st.Anonymous
	}
	if st.Tone != nil {
		sv.Tone = models.ParseTone(*st.Tone)
	}
	if st.Length != nil {
		sv.Length = models.ParseLength(*st.Length)
	}
	return nil
}

func containsQuestion(qs []models.Question, id string) bool {
	for _, q := range qs {
		if q.ID == id {
			return true
		}
	}
	return false
}
