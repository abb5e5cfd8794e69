package handlers

import (
	"encoding/json"
	"net/http"

	"sparkacademy/internal/logger"
	"sparkacademy/internal/security"
	"sparkacademy/internal/service"
)

// StorageStatus reports whether storage has fallen back to memory
type StorageStatus interface {
	Degraded() bool
}

// Options wires the API's collaborators
type Options struct {
	Controller     *service.SessionController
	Courses        *service.CourseService
	Help           *service.HelpService
	Tokens         *security.TokenIssuer
	CSRF           *security.CSRFGenerator
	Limiter        *security.RateLimiter
	Storage        StorageStatus
	Logger         *logger.Logger
	AllowedOrigins []string
	SecureCookies  bool
}

// API serves the JSON endpoints of the academy
type API struct {
	ctl            *service.SessionController
	courses        *service.CourseService
	help           *service.HelpService
	tokens         *security.TokenIssuer
	csrf           *security.CSRFGenerator
	limiter        *security.RateLimiter
	storage        StorageStatus
	log            *logger.Logger
	allowedOrigins []string
	secureCookies  bool
}

func NewAPI(opts Options) *API {
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}
	courses := opts.Courses
	if courses == nil {
		courses = service.NewCourseService(opts.Controller.Catalog())
	}
	help := opts.Help
	if help == nil {
		help = service.NewHelpService(nil, 0, log)
	}
	return &API{
		ctl:            opts.Controller,
		courses:        courses,
		help:           help,
		tokens:         opts.Tokens,
		csrf:           opts.CSRF,
		limiter:        opts.Limiter,
		storage:        opts.Storage,
		log:            log,
		allowedOrigins: opts.AllowedOrigins,
		secureCookies:  opts.SecureCookies,
	}
}

// Routes builds the router wrapped in the request middleware chain
func (a *API) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", a.Health)

	// Session
	mux.HandleFunc("GET /api/session", a.Session)
	mux.HandleFunc("POST /api/signup", a.RateLimit(a.Signup))
	mux.HandleFunc("POST /api/login", a.RateLimit(a.Login))
	mux.HandleFunc("POST /api/logout", a.CSRFProtect(a.Logout))

	// Courses
	mux.HandleFunc("GET /api/courses", a.ListCourses)
	mux.HandleFunc("GET /api/courses/{slug}", a.CourseDetail)
	mux.HandleFunc("POST /api/courses/{courseID}/lessons/{lessonID}/submit", a.CSRFProtect(a.RequireSession(service.ActionCompleteLesson, a.SubmitAnswer)))
	mux.HandleFunc("POST /api/courses/{courseID}/lessons/{lessonID}/complete", a.CSRFProtect(a.RequireSession(service.ActionCompleteLesson, a.CompleteLesson)))
	mux.HandleFunc("POST /api/courses/{courseID}/favorite", a.CSRFProtect(a.RequireSession(service.ActionFavorite, a.ToggleFavorite)))
	mux.HandleFunc("POST /api/courses/{courseID}/help", a.CSRFProtect(a.Help))

	// Profile
	mux.HandleFunc("PUT /api/profile", a.CSRFProtect(a.RequireSession(service.ActionUpdateProfile, a.UpdateProfile)))
	mux.HandleFunc("POST /api/guide/seen", a.CSRFProtect(a.RequireSession(service.ActionGuideSeen, a.MarkGuideSeen)))
	mux.HandleFunc("GET /api/badges", a.Badges)
	mux.HandleFunc("GET /api/avatars", a.Avatars)

	var handler http.Handler = a.LoadSession(mux)
	if len(a.allowedOrigins) > 0 {
		handler = CORS(a.allowedOrigins, handler)
	}
	return Logging(a.log, handler)
}

type healthResponse struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
	AI      bool   `json:"ai"`
}

// Health reports liveness and whether storage is running on the memory fallback
func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	storage := "primary"
	if a.degraded() {
		storage = "memory"
	}
	respondJSON(w, http.StatusOK, healthResponse{Status: "ok", Storage: storage, AI: a.help.Enabled()})
}

func (a *API) degraded() bool {
	return a.storage != nil && a.storage.Degraded()
}

// decodeJSON reads a bounded JSON body into dst
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}

// requireAuth runs the access gate for action and answers 401 for guests
func (a *API) requireAuth(w http.ResponseWriter, action service.Action, path string) bool {
	decision := a.ctl.Gate(action, path)
	if decision == service.Allowed {
		return true
	}
	respondAuthRequired(w, &service.AuthRequiredError{Decision: decision, Redirect: service.RedirectTarget(path)})
	return false
}
