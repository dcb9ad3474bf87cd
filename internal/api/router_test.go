package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skili43/survey-tool/internal/middleware"
	"github.com/Skili43/survey-tool/internal/services"
)

type testClient struct {
	t  *testing.T
	ts *httptest.Server
}

func newTestServer(t *testing.T) *testClient {
	t.Helper()
	rt := NewRouter(Deps{
		Store:       NewMemoryStore(0),
		Signer:      middleware.NewShareSigner("test-secret", 0),
		QuestionIDs: services.SequentialIDs("q"),
		Commit:      "abc123",
	})
	ts := httptest.NewServer(rt.Handler())
	t.Cleanup(ts.Close)
	return &testClient{t: t, ts: ts}
}

func (c *testClient) do(method, path, body string, headers ...string) *http.Response {
	c.t.Helper()
	var rdr *bytes.Reader
	if body != "" {
		rdr = bytes.NewReader([]byte(body))
	} else {
		rdr = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, c.ts.URL+path, rdr)
	require.NoError(c.t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	res, err := c.ts.Client().Do(req)
	require.NoError(c.t, err)
	c.t.Cleanup(func() { _ = res.Body.Close() })
	return res
}

func (c *testClient) session(res *http.Response, wantStatus int) services.Session {
	c.t.Helper()
	require.Equal(c.t, wantStatus, res.StatusCode)
	var sess services.Session
	require.NoError(c.t, json.NewDecoder(res.Body).Decode(&sess))
	return sess
}

func decodeError(t *testing.T, res *http.Response) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	return body
}

func TestSurveyFlow(t *testing.T) {
	c := newTestServer(t)

	sess := c.session(c.do(http.MethodPost, "/api/sessions", `{"org_name":"Acme","length":"short","themes":["Engagement"]}`), http.StatusCreated)
	require.NotEmpty(t, sess.ID)
	base := "/api/sessions/" + sess.ID

	sess = c.session(c.do(http.MethodPost, base+"/generate", ""), http.StatusOK)
	require.Len(t, sess.Survey.Questions, 4)
	assert.Equal(t, "q_1", sess.Survey.Questions[0].ID)

	sess = c.session(c.do(http.MethodPost, base+"/questions", `{"type":"likert"}`, "Accept-Language", "en-US,en;q=0.9"), http.StatusOK)
	require.Len(t, sess.Survey.Questions, 5)
	assert.Equal(t, "New question…", sess.Survey.Questions[4].Text)
	assert.Equal(t, "q_5", sess.Survey.Questions[4].ID)

	sess = c.session(c.do(http.MethodPost, base+"/questions/4/move", `{"direction":-1}`), http.StatusOK)
	assert.Equal(t, "q_5", sess.Survey.Questions[3].ID)

	sess = c.session(c.do(http.MethodPost, base+"/questions/0/move", `{"direction":-1}`), http.StatusOK)
	assert.Equal(t, "q_1", sess.Survey.Questions[0].ID)

	sess = c.session(c.do(http.MethodPost, base+"/questions/0/transition", `{"type":"open"}`), http.StatusOK)
	assert.Equal(t, "open", string(sess.Survey.Questions[0].Type))
	assert.Empty(t, sess.Survey.Questions[0].Options)

	// open questions keep an empty options array through the store
	res := c.do(http.MethodGet, base, "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	var raw struct {
		Survey struct {
			Questions []map[string]any `json:"questions"`
		} `json:"survey"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&raw))
	assert.Equal(t, []any{}, raw.Survey.Questions[0]["options"])
	assert.Equal(t, []any{}, raw.Survey.Questions[4]["options"], "generated open question")

	res = c.do(http.MethodPost, base+"/questions/0/transition", `{"type":"mcq"}`)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	sess = c.session(c.do(http.MethodPatch, base+"/questions/1", `{"text":"Reformulée"}`), http.StatusOK)
	assert.Equal(t, "Reformulée", sess.Survey.Questions[1].Text)

	c.session(c.do(http.MethodPut, base+"/draft/q_2", `{"value":"4"}`), http.StatusOK)
	sess = c.session(c.do(http.MethodPost, base+"/responses", ""), http.StatusCreated)
	require.Len(t, sess.Responses, 1)
	assert.Equal(t, "4", sess.Responses[0]["q_2"])
	assert.Empty(t, sess.Draft)

	sess = c.session(c.do(http.MethodPost, base+"/responses", `{"answers":{"q_2":"2","q_1":"merci, très satisfait"}}`), http.StatusCreated)
	require.Len(t, sess.Responses, 2)

	res = c.do(http.MethodGet, base+"/analytics", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	var summary services.AnalyticsSummary
	require.NoError(t, json.NewDecoder(res.Body).Decode(&summary))
	assert.Equal(t, 2, summary.TotalResponses)
	assert.Equal(t, 67, summary.SentimentPercent)
}

func TestExportAndShare(t *testing.T) {
	c := newTestServer(t)
	sess := c.session(c.do(http.MethodPost, "/api/sessions", `{"org_name":"Acme","themes":["Leadership"]}`), http.StatusCreated)
	base := "/api/sessions/" + sess.ID
	c.session(c.do(http.MethodPost, base+"/generate", ""), http.StatusOK)
	c.session(c.do(http.MethodPost, base+"/responses", `{"answers":{"q_1":"5","q_3":"plus d'écoute, moins de réunions"}}`), http.StatusCreated)

	res := c.do(http.MethodGet, base+"/export", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "text/csv; charset=utf-8", res.Header.Get("Content-Type"))
	assert.Contains(t, res.Header.Get("Content-Disposition"), "reponses_Acme.csv")
	etag := res.Header.Get("ETag")
	require.NotEmpty(t, etag)
	body := new(bytes.Buffer)
	_, _ = body.ReadFrom(res.Body)
	lines := strings.Split(body.String(), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "respondent_id,"))
	assert.Equal(t, "R1,5,,plus d'écoute; moins de réunions", lines[1])

	res = c.do(http.MethodGet, base+"/export", "", "If-None-Match", etag)
	assert.Equal(t, http.StatusNotModified, res.StatusCode)

	res = c.do(http.MethodGet, base+"/export?template=1", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, res.Header.Get("Content-Disposition"), "modele_enquete_Acme.csv")

	res = c.do(http.MethodGet, base+"/export?format=xml", "")
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res = c.do(http.MethodGet, base+"/share", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	var link shareLinkResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&link))
	require.NotEmpty(t, link.Token)

	res = c.do(http.MethodGet, link.Path, "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	var payload map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&payload))
	assert.Equal(t, "Acme", payload["orgName"])
	assert.Len(t, payload["questions"], 3)

	res = c.do(http.MethodGet, "/api/share/not-a-token", "")
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestSessionErrors(t *testing.T) {
	c := newTestServer(t)

	res := c.do(http.MethodGet, "/api/sessions/missing", "")
	require.Equal(t, http.StatusNotFound, res.StatusCode)
	body := decodeError(t, res)
	assert.Equal(t, "not_found", body.Error)
	assert.Equal(t, "session introuvable", body.Message)

	res = c.do(http.MethodPost, "/api/sessions", `{"tone":"furieux"}`)
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "invalid", decodeError(t, res).Error)

	res = c.do(http.MethodPost, "/api/sessions", `{"colour":"blue"}`)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	sess := c.session(c.do(http.MethodPost, "/api/sessions", ""), http.StatusCreated)
	base := "/api/sessions/" + sess.ID

	res = c.do(http.MethodPost, base+"/questions/abc/move", `{"direction":1}`)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	res = c.do(http.MethodPost, base+"/questions/0/move", `{"direction":1}`)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode, "empty list has no index 0")
	res = c.do(http.MethodPost, base+"/themes/Inconnu/toggle", "")
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	sess = c.session(c.do(http.MethodPost, base+"/themes/Burnout/toggle", ""), http.StatusOK)
	assert.Contains(t, sess.Survey.Themes, "Burnout")

	res = c.do(http.MethodDelete, base, "")
	assert.Equal(t, http.StatusNoContent, res.StatusCode)
	res = c.do(http.MethodDelete, base, "")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestHealthAndHeaders(t *testing.T) {
	c := newTestServer(t)

	res := c.do(http.MethodGet, "/health?lang=en", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	var health map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&health))
	assert.Equal(t, "en", health["locale"])
	assert.Equal(t, "abc123", health["commit"])
	assert.Equal(t, "nosniff", res.Header.Get("X-Content-Type-Options"))
	assert.Contains(t, res.Header.Get("Cache-Control"), "no-store")

	res = c.do(http.MethodOptions, "/api/sessions", "")
	assert.Equal(t, http.StatusNoContent, res.StatusCode)
	assert.Equal(t, "*", res.Header.Get("Access-Control-Allow-Origin"))

	res = c.do(http.MethodGet, "/api/themes", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	var themes struct {
		Themes []services.ThemeTemplates `json:"themes"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&themes))
	assert.Len(t, themes.Themes, 6)
}
