package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"sparkacademy/internal/logger"
	"sparkacademy/internal/service"
	"sparkacademy/internal/store"
	"sparkacademy/internal/validation"
)

type errorResponse struct {
	Error    string `json:"error"`
	Field    string `json:"field,omitempty"`
	Prompt   string `json:"prompt,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	json.NewEncoder(w).Encode(body)
}

// respondWithError writes a user-safe message and logs the detail
func respondWithError(w http.ResponseWriter, log *logger.Logger, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		if status >= http.StatusInternalServerError {
			log.Error(logMsg, "status", status, "error", err)
		} else {
			log.Debug(logMsg, "status", status, "error", err)
		}
	}
	respondJSON(w, status, errorResponse{Error: userMsg})
}

func respondAuthRequired(w http.ResponseWriter, authErr *service.AuthRequiredError) {
	respondJSON(w, http.StatusUnauthorized, errorResponse{
		Error:    ErrAuthRequired,
		Prompt:   string(authErr.Decision),
		Redirect: authErr.Redirect,
	})
}

// handleError reports a command error for r. A guest prompt remembers the
// page named by ?returnTo when the client sent one.
func (a *API) handleError(w http.ResponseWriter, r *http.Request, err error) {
	var authErr *service.AuthRequiredError
	if errors.As(err, &authErr) {
		if returnTo := r.URL.Query().Get(returnToParam); returnTo != "" {
			authErr.Redirect = a.ctl.RememberRedirect(returnTo)
		}
	}
	handleServiceError(w, a.log, err)
}

// handleServiceError maps service and storage errors onto HTTP responses
func handleServiceError(w http.ResponseWriter, log *logger.Logger, err error) {
	var authErr *service.AuthRequiredError
	var verr *validation.ValidationError

	switch {
	case errors.As(err, &authErr):
		respondAuthRequired(w, authErr)
	case errors.As(err, &verr):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: verr.Message, Field: verr.Field})
	case errors.Is(err, service.ErrDuplicateAccount):
		respondWithError(w, log, http.StatusConflict, err.Error(), "", err)
	case errors.Is(err, service.ErrAccountNotFound):
		respondWithError(w, log, http.StatusNotFound, "Email not found", "", err)
	case errors.Is(err, service.ErrInvalidCredentials):
		respondWithError(w, log, http.StatusUnauthorized, "Incorrect password", "", err)
	case errors.Is(err, service.ErrNotAuthenticated):
		respondWithError(w, log, http.StatusUnauthorized, ErrAuthRequired, "", err)
	case errors.Is(err, service.ErrCourseNotFound), errors.Is(err, service.ErrLessonNotFound):
		respondWithError(w, log, http.StatusNotFound, err.Error(), "", err)
	case errors.Is(err, service.ErrUnknownAvatar),
		errors.Is(err, service.ErrInvalidAnswer),
		errors.Is(err, service.ErrNegativePenalty):
		respondWithError(w, log, http.StatusBadRequest, err.Error(), "", err)
	case errors.Is(err, store.ErrStorageUnavailable):
		respondWithError(w, log, http.StatusServiceUnavailable, ErrStorageUnavailable, "storage unavailable", err)
	default:
		respondWithError(w, log, http.StatusInternalServerError, ErrInternalServerError, "unhandled service error", err)
	}
}
