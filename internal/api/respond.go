package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/Skili43/survey-tool/internal/middleware"
	"github.com/Skili43/survey-tool/internal/services"
	"github.com/Skili43/survey-tool/internal/utils"
)

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (rt *Router) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if se, ok := services.AsServiceError(err); ok {
		status := http.StatusBadRequest
		switch se.Code {
		case services.ErrorNotFound:
			status = http.StatusNotFound
		case services.ErrorForbidden:
			status = http.StatusForbidden
		case services.ErrorUnauthorized:
			status = http.StatusUnauthorized
		}
		msg := se.Message
		if se.Code == services.ErrorNotFound {
			msg = utils.T(middleware.LocaleFromContext(r.Context()), "error.not_found")
		}
		writeJSON(w, status, errorBody{Error: string(se.Code), Message: msg})
		return
	}
	rt.logger.Error("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal", Message: "internal error"})
}

// decodeBody reads an optional JSON body into dst and validates it.
// An empty body leaves dst untouched.
func (rt *Router) decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return services.NewInvalidError("malformed JSON body: " + err.Error())
	}
	if err := rt.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return services.NewInvalidError("invalid field " + fe.Field() + ": " + fe.Tag())
		}
		return services.NewInvalidError(err.Error())
	}
	return nil
}

func pathIndex(r *http.Request) (int, error) {
	i, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		return 0, services.NewInvalidError("question index must be an integer")
	}
	return i, nil
}
