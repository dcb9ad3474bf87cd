package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/Skili43/survey-tool/internal/middleware"
	"github.com/Skili43/survey-tool/internal/services"
)

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	Store     services.SessionStore
	Bank      *services.Bank
	Signer    *middleware.ShareSigner
	Logger    *zap.Logger
	Commit    string
	BuildTime string

	// QuestionIDs overrides question id generation; nil keeps the random ids.
	QuestionIDs services.IDGenerator
}

type Router struct {
	sessions  *services.SessionService
	analytics *services.AnalyticsService
	exports   *services.ExportService
	signer    *middleware.ShareSigner
	logger    *zap.Logger
	validate  *validator.Validate
	commit    string
	buildTime string
}

func NewRouter(d Deps) *Router {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	signer := d.Signer
	if signer == nil {
		signer = middleware.NewShareSigner("", 0)
	}
	sessions := services.NewSessionService(d.Store, d.Bank)
	if d.QuestionIDs != nil {
		sessions.WithIDGenerator(d.QuestionIDs)
	}
	return &Router{
		sessions:  sessions,
		analytics: services.NewAnalyticsService(d.Store, d.Bank),
		exports:   services.NewExportService(d.Store),
		signer:    signer,
		logger:    logger,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		commit:    d.Commit,
		buildTime: d.BuildTime,
	}
}

func (rt *Router) Register(r *mux.Router) {
	r.HandleFunc("/health", rt.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/version", rt.handleVersion).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/themes", rt.handleThemes).Methods(http.MethodGet)

	api.HandleFunc("/sessions", rt.handleCreateSession).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}", rt.handleGetSession).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}", rt.handleDeleteSession).Methods(http.MethodDelete)
	api.HandleFunc("/sessions/{id}/survey", rt.handleUpdateSurvey).Methods(http.MethodPut)
	api.HandleFunc("/sessions/{id}/themes/{theme}/toggle", rt.handleToggleTheme).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/generate", rt.handleGenerate).Methods(http.MethodPost)

	api.HandleFunc("/sessions/{id}/questions", rt.handleAddQuestion).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/questions/{index}", rt.handleUpdateQuestion).Methods(http.MethodPatch)
	api.HandleFunc("/sessions/{id}/questions/{index}", rt.handleRemoveQuestion).Methods(http.MethodDelete)
	api.HandleFunc("/sessions/{id}/questions/{index}/transition", rt.handleTransitionQuestion).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/questions/{index}/move", rt.handleMoveQuestion).Methods(http.MethodPost)

	api.HandleFunc("/sessions/{id}/draft/{questionId}", rt.handleSetDraft).Methods(http.MethodPut)
	api.HandleFunc("/sessions/{id}/draft", rt.handleResetDraft).Methods(http.MethodDelete)
	api.HandleFunc("/sessions/{id}/responses", rt.handleRecordResponse).Methods(http.MethodPost)

	api.HandleFunc("/sessions/{id}/analytics", rt.handleAnalytics).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}/export", rt.handleExport).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}/share", rt.handleShareLink).Methods(http.MethodGet)

	shared := middleware.RequireShareToken(rt.signer)(http.HandlerFunc(rt.handleSharedPayload))
	api.Handle("/share/{token}", shared).Methods(http.MethodGet)
}

// Handler wires the routes behind the standard middleware chain.
func (rt *Router) Handler() http.Handler {
	r := mux.NewRouter()
	rt.Register(r)
	var h http.Handler = r
	h = middleware.RequestLogger(rt.logger)(h)
	h = middleware.LocaleMiddleware(h)
	h = middleware.CORS(h)
	h = middleware.SecureHeaders(h)
	return middleware.NoStore(h)
}
