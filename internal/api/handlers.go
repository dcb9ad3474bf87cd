package api

import (
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/Skili43/survey-tool/internal/middleware"
	"github.com/Skili43/survey-tool/internal/models"
	"github.com/Skili43/survey-tool/internal/services"
	"github.com/Skili43/survey-tool/internal/utils"
)

type addQuestionRequest struct {
	Type models.QuestionType `json:"type" validate:"required,oneof=likert open mcq"`
	Text string              `json:"text"`
}

type updateQuestionRequest struct {
	Text    *string   `json:"text,omitempty"`
	Type    *string   `json:"type,omitempty" validate:"omitempty,oneof=likert open mcq"`
	Options *[]string `json:"options,omitempty"`
	Theme   *string   `json:"theme,omitempty"`
}

type transitionRequest struct {
	Type models.QuestionType `json:"type" validate:"required,oneof=likert open"`
}

type moveRequest struct {
	Direction int `json:"direction" validate:"oneof=-1 1"`
}

type draftRequest struct {
	Value string `json:"value"`
}

type responseRequest struct {
	Answers models.ResponseRow `json:"answers"`
}

type shareLinkResponse struct {
	Token     string    `json:"token"`
	Path      string    `json:"path"`
	ExpiresAt time.Time `json:"expires_at"`
}

// GET /health
func (rt *Router) handleHealth(w http.ResponseWriter, r *http.Request) {
	locale := middleware.LocaleFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":         true,
		"name":       "Survey API",
		"locale":     locale,
		"msg":        utils.T(locale, "health.ok"),
		"commit":     rt.commit,
		"build_time": rt.buildTime,
	})
}

// GET /version
func (rt *Router) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"commit":     rt.commit,
		"build_time": rt.buildTime,
	})
}

// GET /api/themes
func (rt *Router) handleThemes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"themes":    rt.sessions.Bank().Themes(),
		"org_sizes": models.OrgSizes(),
		"tones":     []models.Tone{models.ToneNeutral, models.ToneSupportive, models.ToneDirect},
		"lengths":   []models.Length{models.LengthShort, models.LengthStandard, models.LengthLong},
	})
}

// POST /api/sessions
func (rt *Router) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var settings services.SurveySettings
	if err := rt.decodeBody(r, &settings); err != nil {
		rt.writeError(w, r, err)
		return
	}
	sess, err := rt.sessions.Create(r.Context(), &settings)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

// GET /api/sessions/{id}
func (rt *Router) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := rt.sessions.Get(r.Context(), mux.Vars(r)["id"])
	rt.respondSession(w, r, sess, err)
}

// DELETE /api/sessions/{id}
func (rt *Router) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := rt.sessions.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		rt.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PUT /api/sessions/{id}/survey
func (rt *Router) handleUpdateSurvey(w http.ResponseWriter, r *http.Request) {
	var settings services.SurveySettings
	if err := rt.decodeBody(r, &settings); err != nil {
		rt.writeError(w, r, err)
		return
	}
	sess, err := rt.sessions.UpdateSurvey(r.Context(), mux.Vars(r)["id"], settings)
	rt.respondSession(w, r, sess, err)
}

// POST /api/sessions/{id}/themes/{theme}/toggle
func (rt *Router) handleToggleTheme(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sess, err := rt.sessions.ToggleTheme(r.Context(), vars["id"], vars["theme"])
	rt.respondSession(w, r, sess, err)
}

// POST /api/sessions/{id}/generate
func (rt *Router) handleGenerate(w http.ResponseWriter, r *http.Request) {
	sess, err := rt.sessions.Generate(r.Context(), mux.Vars(r)["id"])
	rt.respondSession(w, r, sess, err)
}

// POST /api/sessions/{id}/questions
func (rt *Router) handleAddQuestion(w http.ResponseWriter, r *http.Request) {
	var req addQuestionRequest
	if err := rt.decodeBody(r, &req); err != nil {
		rt.writeError(w, r, err)
		return
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		text = utils.T(middleware.LocaleFromContext(r.Context()), "question.placeholder")
	}
	sess, err := rt.sessions.AddQuestion(r.Context(), mux.Vars(r)["id"], req.Type, text)
	rt.respondSession(w, r, sess, err)
}

// PATCH /api/sessions/{id}/questions/{index}
func (rt *Router) handleUpdateQuestion(w http.ResponseWriter, r *http.Request) {
	index, err := pathIndex(r)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	var req updateQuestionRequest
	if err := rt.decodeBody(r, &req); err != nil {
		rt.writeError(w, r, err)
		return
	}
	patch := services.QuestionPatch{Text: req.Text, Options: req.Options, Theme: req.Theme}
	if req.Type != nil {
		typ := models.QuestionType(*req.Type)
		patch.Type = &typ
	}
	sess, err := rt.sessions.UpdateQuestion(r.Context(), mux.Vars(r)["id"], index, patch)
	rt.respondSession(w, r, sess, err)
}

// DELETE /api/sessions/{id}/questions/{index}
func (rt *Router) handleRemoveQuestion(w http.ResponseWriter, r *http.Request) {
	index, err := pathIndex(r)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	sess, err := rt.sessions.RemoveQuestion(r.Context(), mux.Vars(r)["id"], index)
	rt.respondSession(w, r, sess, err)
}

// POST /api/sessions/{id}/questions/{index}/transition
func (rt *Router) handleTransitionQuestion(w http.ResponseWriter, r *http.Request) {
	index, err := pathIndex(r)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	var req transitionRequest
	if err := rt.decodeBody(r, &req); err != nil {
		rt.writeError(w, r, err)
		return
	}
	sess, err := rt.sessions.TransitionQuestion(r.Context(), mux.Vars(r)["id"], index, req.Type)
	rt.respondSession(w, r, sess, err)
}

// POST /api/sessions/{id}/questions/{index}/move
func (rt *Router) handleMoveQuestion(w http.ResponseWriter, r *http.Request) {
	index, err := pathIndex(r)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	var req moveRequest
	if err := rt.decodeBody(r, &req); err != nil {
		rt.writeError(w, r, err)
		return
	}
	sess, err := rt.sessions.MoveQuestion(r.Context(), mux.Vars(r)["id"], index, req.Direction)
	rt.respondSession(w, r, sess, err)
}

// PUT /api/sessions/{id}/draft/{questionId}
func (rt *Router) handleSetDraft(w http.ResponseWriter, r *http.Request) {
	var req draftRequest
	if err := rt.decodeBody(r, &req); err != nil {
		rt.writeError(w, r, err)
		return
	}
	vars := mux.Vars(r)
	sess, err := rt.sessions.SetDraftAnswer(r.Context(), vars["id"], vars["questionId"], req.Value)
	rt.respondSession(w, r, sess, err)
}

// DELETE /api/sessions/{id}/draft
func (rt *Router) handleResetDraft(w http.ResponseWriter, r *http.Request) {
	sess, err := rt.sessions.ResetDraft(r.Context(), mux.Vars(r)["id"])
	rt.respondSession(w, r, sess, err)
}

// POST /api/sessions/{id}/responses
// Without "answers" the current draft is submitted.
func (rt *Router) handleRecordResponse(w http.ResponseWriter, r *http.Request) {
	var req responseRequest
	if err := rt.decodeBody(r, &req); err != nil {
		rt.writeError(w, r, err)
		return
	}
	sess, err := rt.sessions.RecordResponse(r.Context(), mux.Vars(r)["id"], req.Answers)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

// GET /api/sessions/{id}/analytics
func (rt *Router) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	summary, err := rt.analytics.Summary(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// GET /api/sessions/{id}/export?format=table|rfc4180&template=1
func (rt *Router) handleExport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	template, _ := strconv.ParseBool(q.Get("template"))
	res, err := rt.exports.ExportCSV(r.Context(), services.ExportParams{
		SessionID: mux.Vars(r)["id"],
		Format:    q.Get("format"),
		Template:  template,
	})
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeExport(w, r, res)
}

// GET /api/sessions/{id}/share
func (rt *Router) handleShareLink(w http.ResponseWriter, r *http.Request) {
	sess, err := rt.sessions.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	token, exp, err := rt.signer.Sign(sess.ID)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, shareLinkResponse{Token: token, Path: "/api/share/" + token, ExpiresAt: exp.UTC()})
}

// GET /api/share/{token}
func (rt *Router) handleSharedPayload(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.SharedSessionFromContext(r.Context())
	res, err := rt.exports.SharePayload(r.Context(), id)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeExport(w, r, res)
}

func (rt *Router) respondSession(w http.ResponseWriter, r *http.Request, sess *services.Session, err error) {
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// writeExport sends a downloadable document, honouring If-None-Match.
func writeExport(w http.ResponseWriter, r *http.Request, res *services.ExportResult) {
	middleware.Revalidate(w)
	w.Header().Set("ETag", res.ETag)
	if match := r.Header.Get("If-None-Match"); match != "" && etagMatches(match, res.ETag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": res.Filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Data)))
	_, _ = w.Write(res.Data)
}

func etagMatches(header, etag string) bool {
	for _, part := range strings.Split(header, ",") {
		p := strings.TrimPrefix(strings.TrimSpace(part), "W/")
		if p == "*" || p == etag {
			return true
		}
	}
	return false
}
