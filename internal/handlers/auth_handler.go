package handlers

import (
	"net/http"

	"sparkacademy/internal/security"
	"sparkacademy/internal/service"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	*service.LoginResult
	CSRFToken string `json:"csrfToken"`
}

type sessionResponse struct {
	service.SessionSnapshot
	CSRFToken      string `json:"csrfToken,omitempty"`
	LastEmail      string `json:"lastEmail,omitempty"`
	StorageWarning string `json:"storageWarning,omitempty"`
}

// Session returns the current session state
func (a *API) Session(w http.ResponseWriter, r *http.Request) {
	resp := sessionResponse{SessionSnapshot: a.ctl.Snapshot()}

	if session := GetSessionFromContext(r.Context()); session != nil {
		token, err := a.csrf.GenerateToken(session.ID)
		if err != nil {
			respondWithError(w, a.log, http.StatusInternalServerError, ErrInternalServerError, "failed to generate CSRF token", err)
			return
		}
		resp.CSRFToken = token
	}
	if !resp.Authenticated {
		last, err := a.ctl.LastLoggedInEmail(r.Context())
		if err != nil {
			a.log.Warn("could not read last logged in email", "error", err)
		}
		resp.LastEmail = last
	}
	if a.degraded() {
		resp.StorageWarning = storageWarning
	}

	respondJSON(w, http.StatusOK, resp)
}

// Signup creates an account and logs it in
func (a *API) Signup(w http.ResponseWriter, r *http.Request) {
	var req service.SignupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, a.log, http.StatusBadRequest, ErrInvalidRequestBody, "", err)
		return
	}

	result, err := a.ctl.Signup(r.Context(), req)
	if err != nil {
		handleServiceError(w, a.log, err)
		return
	}
	a.startSession(w, r, http.StatusCreated, result)
}

// Login authenticates an existing account
func (a *API) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, a.log, http.StatusBadRequest, ErrInvalidRequestBody, "", err)
		return
	}

	result, err := a.ctl.Login(r.Context(), req.Email, req.Password, false)
	if err != nil {
		handleServiceError(w, a.log, err)
		return
	}
	a.startSession(w, r, http.StatusOK, result)
}

// startSession issues the session cookie for a fresh login
func (a *API) startSession(w http.ResponseWriter, r *http.Request, status int, result *service.LoginResult) {
	token, claims, err := a.tokens.Issue(result.User.Email)
	if err != nil {
		respondWithError(w, a.log, http.StatusInternalServerError, ErrInternalServerError, "failed to issue session", err)
		return
	}
	csrfToken, err := a.csrf.GenerateToken(claims.ID)
	if err != nil {
		respondWithError(w, a.log, http.StatusInternalServerError, ErrInternalServerError, "failed to generate CSRF token", err)
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(r, SessionCookieName, token, claims.ExpiresAt.Time, a.secureCookies))
	respondJSON(w, status, loginResponse{LoginResult: result, CSRFToken: csrfToken})
}

// Logout ends the session and clears the cookie. Without a session
// cookie only the cookie is cleared; the logged-in learner stays.
func (a *API) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, security.CreateDeleteCookie(r, SessionCookieName, a.secureCookies))
	if GetSessionFromContext(r.Context()) == nil && a.ctl.IsAuthenticated() {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	err := a.ctl.Logout(r.Context())
	if err != nil {
		handleServiceError(w, a.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
