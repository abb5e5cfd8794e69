package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"sparkacademy/internal/catalog"
	"sparkacademy/internal/logger"
	"sparkacademy/internal/models"
	"sparkacademy/internal/repository"
	"sparkacademy/internal/validation"
)

var (
	ErrDuplicateAccount   = errors.New("an account with this email already exists")
	ErrAccountNotFound    = errors.New("email not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrUnknownAvatar      = errors.New("unknown avatar")
	ErrInvalidAnswer      = errors.New("invalid answer")
	ErrCourseNotFound     = errors.New("course not found")
	ErrLessonNotFound     = errors.New("lesson not found")
	ErrNegativePenalty    = errors.New("star penalty must not be negative")
)

// HintCost is the star price of one mission hint
const HintCost = 10

// WelcomeNotifier sends the message new learners receive after signup
type WelcomeNotifier interface {
	SendWelcomeEmail(ctx context.Context, toEmail, toName string) error
}

// SignupRequest carries the signup form fields
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Age      int    `json:"age"`
}

// ProfileUpdate changes the learner's name, avatar, or both
type ProfileUpdate struct {
	Name   *string `json:"name,omitempty"`
	Avatar *string `json:"avatar,omitempty"`
}

// LoginResult describes a successful login
type LoginResult struct {
	User      models.User    `json:"user"`
	Streak    int            `json:"streak"`
	Redirect  string         `json:"redirect,omitempty"`
	ShowGuide bool           `json:"showGuide"`
	NewBadges []models.Badge `json:"newBadges,omitempty"`
}

// CompletionResult describes the effect of CompleteLesson
type CompletionResult struct {
	Completed       bool           `json:"completed"`
	AlreadyComplete bool           `json:"alreadyComplete"`
	CourseCompleted bool           `json:"courseCompleted"`
	StarsEarned     int            `json:"starsEarned"`
	TotalStars      int            `json:"totalStars"`
	NewBadges       []models.Badge `json:"newBadges,omitempty"`
}

// HintCharge describes the effect of TakeHint. Lesson is nil when every
// mission of the course is already complete.
type HintCharge struct {
	Lesson       *models.Lesson `json:"lesson,omitempty"`
	Charged      int            `json:"charged"`
	AlreadyTaken bool           `json:"alreadyTaken"`
}

// SessionSnapshot is a consistent read of the session state
type SessionSnapshot struct {
	Authenticated    bool           `json:"authenticated"`
	User             *models.User   `json:"user,omitempty"`
	TotalStars       int            `json:"totalStars"`
	DisplayStars     int            `json:"displayStars"`
	PossibleStars    int            `json:"possibleStars"`
	Streak           int            `json:"streak"`
	Expert           bool           `json:"expert"`
	ExpertProgress   float64        `json:"expertProgress"`
	CompletedCourses int            `json:"completedCourses"`
	Badges           []models.Badge `json:"badges"`
	Favorites        []string       `json:"favorites"`
}

// SessionController owns the single learner session: who is logged in and
// the in-memory mirror of their profile. Every command goes through it and
// is persisted before it returns.
type SessionController struct {
	mu sync.Mutex

	catalog  *catalog.Catalog
	accounts *repository.AccountRepository
	profiles *repository.ProfileRepository
	settings *repository.SettingsRepository
	notifier WelcomeNotifier
	log      *logger.Logger
	now      func() time.Time
	loc      *time.Location

	user            *models.User
	profile         *models.Profile
	streak          int
	hintsTaken      models.StringSet
	pendingRedirect string
}

// NewSessionController creates a controller with a guest session
func NewSessionController(
	cat *catalog.Catalog,
	accounts *repository.AccountRepository,
	profiles *repository.ProfileRepository,
	settings *repository.SettingsRepository,
	log *logger.Logger,
) *SessionController {
	if log == nil {
		log = logger.NewNop()
	}
	return &SessionController{
		catalog:    cat,
		accounts:   accounts,
		profiles:   profiles,
		settings:   settings,
		log:        log,
		now:        time.Now,
		loc:        time.Local,
		hintsTaken: models.StringSet{},
	}
}

// SetClock replaces the time source used for streaks
func (c *SessionController) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// SetLocation sets the timezone calendar days are counted in
func (c *SessionController) SetLocation(loc *time.Location) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if loc != nil {
		c.loc = loc
	}
}

func (c *SessionController) SetNotifier(n WelcomeNotifier) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notifier = n
}

// Catalog returns the course catalog the session is evaluated against
func (c *SessionController) Catalog() *catalog.Catalog {
	return c.catalog
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup creates an account with a fresh profile and logs it in
func (c *SessionController) Signup(ctx context.Context, req SignupRequest) (*LoginResult, error) {
	email := normalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)
	if err := validation.ValidateSignup(email, req.Password, name, req.Age); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	account := models.Account{Password: req.Password, Name: name, Age: req.Age}
	if err := c.accounts.Create(ctx, email, account); err != nil {
		if errors.Is(err, repository.ErrAccountExists) {
			return nil, ErrDuplicateAccount
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	if err := c.profiles.Save(ctx, email, models.NewProfile()); err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	c.log.Info("account created", "email", email)

	if c.notifier != nil {
		if err := c.notifier.SendWelcomeEmail(ctx, email, name); err != nil {
			c.log.Warn("welcome email failed", "email", email, "error", err)
		}
	}

	return c.login(ctx, email, req.Password, false)
}

// Login authenticates an account and hydrates the session from its
// profile. autoLogin skips the password check.
func (c *SessionController) Login(ctx context.Context, email, password string, autoLogin bool) (*LoginResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.login(ctx, normalizeEmail(email), password, autoLogin)
}

func (c *SessionController) login(ctx context.Context, email, password string, autoLogin bool) (*LoginResult, error) {
	account, err := c.accounts.Get(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}
	if !autoLogin && account.Password != password {
		return nil, ErrInvalidCredentials
	}

	profile, found, err := c.profiles.Find(ctx, email)
	if err != nil {
		return nil, err
	}
	if !found {
		profile = models.NewProfile()
		profile.StreakData.Count = 1
	}

	today := c.now().In(c.loc)
	streak := NextStreak(profile.StreakData, today)
	profile.StreakData = models.StreakData{Count: streak, LastLogin: FormatDate(today)}

	newBadges := c.awardBadges(profile)

	// Marker before profile: a failed marker write leaves the stored
	// streak untouched.
	if err := c.settings.SetLoggedIn(ctx, email); err != nil {
		return nil, err
	}
	if err := c.profiles.Save(ctx, email, profile); err != nil {
		return nil, err
	}
	guideSeen, err := c.settings.GuideSeen(ctx, email)
	if err != nil {
		c.log.Warn("could not read guide marker", "email", email, "error", err)
		guideSeen = true
	}

	c.user = &models.User{Name: account.Name, Email: email, Age: account.Age, Avatar: profile.Avatar}
	c.profile = profile
	c.streak = streak
	c.hintsTaken = models.StringSet{}

	redirect := c.pendingRedirect
	c.pendingRedirect = ""

	c.log.Info("logged in", "email", email, "streak", streak, "auto", autoLogin)

	return &LoginResult{
		User:      *c.user,
		Streak:    streak,
		Redirect:  redirect,
		ShowGuide: !guideSeen,
		NewBadges: badgesFor(newBadges),
	}, nil
}

// Restore logs in the account named by the loggedIn marker. It returns a
// nil result when there is nothing to restore.
func (c *SessionController) Restore(ctx context.Context) (*LoginResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	email, err := c.settings.LoggedInEmail(ctx)
	if err != nil || email == "" {
		return nil, err
	}
	result, err := c.login(ctx, email, "", true)
	if errors.Is(err, ErrAccountNotFound) {
		c.log.Warn("dropping loggedIn marker for missing account", "email", email)
		return nil, c.settings.ClearLoggedIn(ctx)
	}
	return result, err
}

// Logout returns the session to guest. The in-memory state is always
// cleared; marker write failures are reported.
func (c *SessionController) Logout(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	if c.user != nil {
		if err := c.settings.SetLastLoggedInEmail(ctx, c.user.Email); err != nil {
			errs = append(errs, err)
		}
		c.log.Info("logged out", "email", c.user.Email)
	}

	c.user = nil
	c.profile = nil
	c.streak = 0
	c.hintsTaken = models.StringSet{}

	if err := c.settings.ClearLoggedIn(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// LastLoggedInEmail returns the email to prefill on the login form
func (c *SessionController) LastLoggedInEmail(ctx context.Context) (string, error) {
	return c.settings.LastLoggedInEmail(ctx)
}

// Gate checks an action against the session. When the guest is prompted,
// path becomes the post-login destination, or the destination is cleared
// when path is not worth returning to.
func (c *SessionController) Gate(action Action, path string) Decision {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gate(action, path)
}

func (c *SessionController) gate(action Action, path string) Decision {
	decision := RequireAuth(c.user != nil, action)
	if decision != Allowed {
		c.pendingRedirect = RedirectTarget(path)
	}
	return decision
}

func (c *SessionController) prompt(action Action, path string) error {
	return &AuthRequiredError{Decision: c.gate(action, path), Redirect: RedirectTarget(path)}
}

// RememberRedirect replaces the post-login destination of a guest with
// path and returns what was stored. It does nothing once logged in.
func (c *SessionController) RememberRedirect(path string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.user != nil {
		return ""
	}
	c.pendingRedirect = RedirectTarget(path)
	return c.pendingRedirect
}

// PendingRedirect returns the remembered post-login destination
func (c *SessionController) PendingRedirect() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pendingRedirect
}

// coursePath is the gate path for a course, or "" when it is unknown
func (c *SessionController) coursePath(courseID string) string {
	if course, ok := c.catalog.Course(courseID); ok {
		return CourseGatePath(course.Slug)
	}
	return ""
}

// CompleteLesson records a completed mission. Guests are prompted to sign
// up; unknown and already completed lessons leave the state untouched.
func (c *SessionController) CompleteLesson(ctx context.Context, courseID, lessonID string) (*CompletionResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.user == nil {
		return nil, c.prompt(ActionCompleteLesson, c.coursePath(courseID))
	}

	course, ok := c.catalog.Course(courseID)
	if !ok {
		return &CompletionResult{TotalStars: c.totalStars()}, nil
	}
	lesson, ok := course.Lesson(lessonID)
	if !ok {
		return &CompletionResult{TotalStars: c.totalStars()}, nil
	}
	if c.profile.Progress.Has(courseID, lessonID) {
		return &CompletionResult{AlreadyComplete: true, TotalStars: c.totalStars()}, nil
	}

	next := c.profile.Clone()
	next.Progress.Add(courseID, lessonID)
	newBadges := c.awardBadges(next)

	if err := c.profiles.Save(ctx, c.user.Email, next); err != nil {
		return nil, err
	}
	c.profile = next

	result := &CompletionResult{
		Completed:       true,
		CourseCompleted: IsCourseComplete(course, next.Progress),
		StarsEarned:     lesson.Stars,
		TotalStars:      c.totalStars(),
		NewBadges:       badgesFor(newBadges),
	}
	c.log.Debug("lesson completed", "course", courseID, "lesson", lessonID,
		"course_completed", result.CourseCompleted, "new_badges", newBadges)
	return result, nil
}

// ToggleFavoriteCourse flips a course in the favorites set and reports
// whether it is now a favorite
func (c *SessionController) ToggleFavoriteCourse(ctx context.Context, courseID string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.user == nil {
		return false, c.prompt(ActionFavorite, c.coursePath(courseID))
	}
	if _, ok := c.catalog.Course(courseID); !ok {
		return false, ErrCourseNotFound
	}

	next := c.profile.Clone()
	favorite := !next.Favorites.Has(courseID)
	if favorite {
		next.Favorites.Add(courseID)
	} else {
		next.Favorites.Remove(courseID)
	}

	if err := c.profiles.Save(ctx, c.user.Email, next); err != nil {
		return false, err
	}
	c.profile = next
	return favorite, nil
}

// AddStarPenalty deducts stars. Repeated calls accumulate. Guests are
// ignored.
func (c *SessionController) AddStarPenalty(ctx context.Context, amount int) error {
	if amount < 0 {
		return ErrNegativePenalty
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.user == nil || amount == 0 {
		return nil
	}
	return c.addPenalty(ctx, amount)
}

func (c *SessionController) addPenalty(ctx context.Context, amount int) error {
	next := c.profile.Clone()
	next.StarPenalty += amount
	c.awardBadges(next)

	if err := c.profiles.Save(ctx, c.user.Email, next); err != nil {
		return err
	}
	c.profile = next
	return nil
}

// TakeHint charges for a hint on the course's first uncompleted mission.
// Each mission is charged at most once per session.
func (c *SessionController) TakeHint(ctx context.Context, courseID string) (*HintCharge, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.user == nil {
		return nil, c.prompt(ActionTakeHint, c.coursePath(courseID))
	}
	course, ok := c.catalog.Course(courseID)
	if !ok {
		return nil, ErrCourseNotFound
	}

	lesson := firstUncompletedLesson(course, c.profile.Progress)
	if lesson == nil {
		return &HintCharge{}, nil
	}

	key := courseID + "/" + lesson.ID
	if c.hintsTaken.Has(key) {
		return &HintCharge{Lesson: lesson, AlreadyTaken: true}, nil
	}
	if err := c.addPenalty(ctx, HintCost); err != nil {
		return nil, err
	}
	c.hintsTaken.Add(key)

	c.log.Debug("hint charged", "course", courseID, "lesson", lesson.ID)
	return &HintCharge{Lesson: lesson, Charged: HintCost}, nil
}

func firstUncompletedLesson(course *models.Course, progress models.Progress) *models.Lesson {
	for i := range course.Lessons {
		if !progress.Has(course.ID, course.Lessons[i].ID) {
			return &course.Lessons[i]
		}
	}
	return nil
}

// HintTaken reports whether the hint for a mission was already paid for
func (c *SessionController) HintTaken(courseID, lessonID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hintsTaken.Has(courseID + "/" + lessonID)
}

// UpdateProfile changes the display name and/or avatar. Guests are
// ignored.
func (c *SessionController) UpdateProfile(ctx context.Context, update ProfileUpdate) (*models.User, error) {
	var name string
	if update.Name != nil {
		name = strings.TrimSpace(*update.Name)
		if err := validation.ValidateName(name); err != nil {
			return nil, err
		}
	}
	if update.Avatar != nil && !models.IsKnownAvatar(*update.Avatar) {
		return nil, ErrUnknownAvatar
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.user == nil {
		return nil, nil
	}

	user := *c.user
	next := c.profile

	switch {
	case update.Avatar != nil:
		var extra []repository.Record
		if update.Name != nil {
			rec, err := c.accounts.RenameRecord(ctx, user.Email, name)
			if err != nil {
				return nil, err
			}
			extra = append(extra, rec)
		}
		next = c.profile.Clone()
		next.Avatar = models.Avatar{Icon: *update.Avatar}
		if err := c.profiles.SaveWith(ctx, user.Email, next, extra...); err != nil {
			return nil, err
		}
	case update.Name != nil:
		if err := c.accounts.UpdateName(ctx, user.Email, name); err != nil {
			return nil, err
		}
	}

	if update.Name != nil {
		user.Name = name
	}
	user.Avatar = next.Avatar
	c.profile = next
	c.user = &user

	u := user
	return &u, nil
}

// MarkGuideSeen stops the onboarding guide from showing for this learner
func (c *SessionController) MarkGuideSeen(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.user == nil {
		return nil
	}
	return c.settings.MarkGuideSeen(ctx, c.user.Email)
}

// awardBadges evaluates the badge table against p and adds the newly
// earned ids to it
func (c *SessionController) awardBadges(p *models.Profile) []string {
	newly := EvaluateBadges(BadgeContext{
		Catalog:    c.catalog,
		Progress:   p.Progress,
		TotalStars: TotalStars(c.catalog, p.Progress, p.StarPenalty),
	}, p.Badges)
	for _, id := range newly {
		p.Badges.Add(id)
	}
	return newly
}

func badgesFor(ids []string) []models.Badge {
	var out []models.Badge
	for _, id := range ids {
		if b, ok := BadgeByID(id); ok {
			out = append(out, b)
		}
	}
	return out
}

func (c *SessionController) totalStars() int {
	if c.profile == nil {
		return 0
	}
	return TotalStars(c.catalog, c.profile.Progress, c.profile.StarPenalty)
}

// IsAuthenticated reports whether a learner is logged in
func (c *SessionController) IsAuthenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user != nil
}

// CurrentUser returns a copy of the logged-in user, or nil for a guest
func (c *SessionController) CurrentUser() *models.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.user == nil {
		return nil
	}
	u := *c.user
	return &u
}

// TotalStars is earned stars minus the penalty; it may be negative
func (c *SessionController) TotalStars() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalStars()
}

func (c *SessionController) DisplayStars() int {
	return DisplayStars(c.TotalStars())
}

func (c *SessionController) IsExpert() bool {
	return IsExpert(c.TotalStars())
}

func (c *SessionController) Streak() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.streak
}

// CourseProgress returns a copy of the completed lesson ids of a course
func (c *SessionController) CourseProgress(courseID string) models.StringSet {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.profile == nil {
		return models.StringSet{}
	}
	return c.profile.Progress[courseID].Clone()
}

// Progress returns a copy of the whole progress map
func (c *SessionController) Progress() models.Progress {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.profile == nil {
		return models.Progress{}
	}
	return c.profile.Progress.Clone()
}

func (c *SessionController) EarnedBadges() []models.Badge {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.profile == nil {
		return nil
	}
	return EarnedBadges(c.profile.Badges)
}

// EarnedBadgeIDs returns a copy of the earned badge id set
func (c *SessionController) EarnedBadgeIDs() models.StringSet {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.profile == nil {
		return models.StringSet{}
	}
	return c.profile.Badges.Clone()
}

func (c *SessionController) FavoriteCourses() models.StringSet {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.profile == nil {
		return models.StringSet{}
	}
	return c.profile.Favorites.Clone()
}

// Snapshot reads the whole session under one lock
func (c *SessionController) Snapshot() SessionSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := SessionSnapshot{
		Authenticated: c.user != nil,
		PossibleStars: PossibleStars(c.catalog),
		Badges:        []models.Badge{},
		Favorites:     []string{},
	}
	if c.user == nil {
		return snap
	}

	u := *c.user
	total := c.totalStars()
	snap.User = &u
	snap.TotalStars = total
	snap.DisplayStars = DisplayStars(total)
	snap.Streak = c.streak
	snap.Expert = IsExpert(total)
	snap.ExpertProgress = ExpertProgressPercent(total)
	snap.CompletedCourses = CompletedCourseCount(c.catalog, c.profile.Progress)
	if badges := EarnedBadges(c.profile.Badges); badges != nil {
		snap.Badges = badges
	}
	snap.Favorites = c.profile.Favorites.Sorted()
	return snap
}
