package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/cors"

	"sparkacademy/internal/logger"
	"sparkacademy/internal/models"
	"sparkacademy/internal/security"
	"sparkacademy/internal/service"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	SessionContextKey   ContextKey = "session"
	RequestIDContextKey ContextKey = "request_id"
)

const requestIDHeader = "X-Request-ID"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Logging logs every request with its status and duration
func Logging(log *logger.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := context.WithValue(r.Context(), RequestIDContextKey, id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
			"request_id", id,
		)
	})
}

// CORS allows the browser front end to call the API with credentials
func CORS(allowedOrigins []string, next http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", security.CSRFHeader, requestIDHeader},
		ExposedHeaders:   []string{requestIDHeader},
		AllowCredentials: true,
	})
	return c.Handler(next)
}

// RateLimit rejects clients that exceed the limiter's budget
func (a *API) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if a.limiter != nil && !a.limiter.Allow(security.GetClientIP(r)) {
			a.log.Warn("rate limit exceeded", "path", r.URL.Path)
			respondWithError(w, a.log, http.StatusTooManyRequests, ErrTooManyRequests, "", nil)
			return
		}
		next(w, r)
	}
}

// LoadSession attaches the cookie session to the request when it is valid
// and belongs to the learner currently logged in. Stale cookies are cleared.
func (a *API) LoadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookieName)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		session, err := a.parseSession(cookie.Value)
		if err != nil {
			a.log.Debug("dropping invalid session cookie", "error", err)
			http.SetCookie(w, security.CreateDeleteCookie(r, SessionCookieName, a.secureCookies))
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), SessionContextKey, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *API) parseSession(token string) (*models.Session, error) {
	claims, err := a.tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	session := &models.Session{
		ID:        claims.ID,
		Email:     claims.Email(),
		ExpiresAt: claims.ExpiresAt.Time,
		CreatedAt: claims.IssuedAt.Time,
	}
	if session.IsExpired() {
		return nil, security.ErrInvalidToken
	}
	user := a.ctl.CurrentUser()
	if user == nil || user.Email != session.Email {
		return nil, security.ErrInvalidToken
	}
	return session, nil
}

// CSRFProtect requires a matching CSRF header on mutating requests that
// carry a session cookie
func (a *API) CSRFProtect(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := GetSessionFromContext(r.Context())
		if session != nil && !a.csrf.ValidateToken(session.ID, r.Header.Get(security.CSRFHeader)) {
			respondWithError(w, a.log, http.StatusForbidden, ErrCSRFInvalid, "", nil)
			return
		}
		next(w, r)
	}
}

// RequireSession answers mutating requests that carry no valid session
// cookie as a guest would be answered, even while a learner is logged in
// on the server.
func (a *API) RequireSession(action service.Action, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !a.sessionAllowed(w, r, action) {
			return
		}
		next(w, r)
	}
}

// sessionAllowed reports whether r may act on the logged-in learner. A
// request without a session while nobody is logged in passes through so
// the controller can raise its own prompt.
func (a *API) sessionAllowed(w http.ResponseWriter, r *http.Request, action service.Action) bool {
	if GetSessionFromContext(r.Context()) != nil || !a.ctl.IsAuthenticated() {
		return true
	}
	respondAuthRequired(w, &service.AuthRequiredError{
		Decision: service.RequireAuth(false, action),
		Redirect: service.RedirectTarget(a.gatePath(r)),
	})
	return false
}

// gatePath is the page a prompt on r should return to
func (a *API) gatePath(r *http.Request) string {
	if returnTo := r.URL.Query().Get(returnToParam); returnTo != "" {
		return returnTo
	}
	if courseID := r.PathValue("courseID"); courseID != "" {
		if course, ok := a.ctl.Catalog().Course(courseID); ok {
			return service.CourseGatePath(course.Slug)
		}
		return ""
	}
	if r.URL.Path == "/api/profile" {
		return profilePath
	}
	return ""
}

// GetSessionFromContext retrieves the cookie session from the request context
func GetSessionFromContext(ctx context.Context) *models.Session {
	session, ok := ctx.Value(SessionContextKey).(*models.Session)
	if !ok {
		return nil
	}
	return session
}
