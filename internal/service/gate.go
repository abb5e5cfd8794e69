package service

import (
	"fmt"
	"strings"
)

// Decision is the outcome of an access check
type Decision string

const (
	Allowed      Decision = "allowed"
	PromptLogin  Decision = "login"
	PromptSignup Decision = "signup"
)

// Action names a mutating command that may require an account
type Action string

const (
	ActionCompleteLesson Action = "complete-lesson"
	ActionTakeHint       Action = "take-hint"
	ActionFavorite       Action = "favorite"
	ActionPenalty        Action = "penalty"
	ActionUpdateProfile  Action = "update-profile"
	ActionGuideSeen      Action = "guide-seen"
)

// signupActions invite a guest to create an account rather than log in
var signupActions = map[Action]bool{
	ActionCompleteLesson: true,
	ActionTakeHint:       true,
}

// RequireAuth decides whether an action may proceed. Authenticated
// sessions are always allowed; guests are prompted.
func RequireAuth(authenticated bool, action Action) Decision {
	if authenticated {
		return Allowed
	}
	if signupActions[action] {
		return PromptSignup
	}
	return PromptLogin
}

// RedirectTarget returns the path a guest should land on after
// authenticating, or "" when the path is not worth returning to. The
// query and fragment are ignored for that check but kept in the result.
func RedirectTarget(path string) string {
	pathname := path
	if i := strings.IndexAny(pathname, "?#"); i >= 0 {
		pathname = pathname[:i]
	}
	switch pathname {
	case "", "/", "/login", "/signup":
		return ""
	}
	return path
}

// CourseGatePath is the return path for a gate raised on a course page
func CourseGatePath(slug string) string {
	return "/course/" + slug
}

// AuthRequiredError is returned when a guest attempts a gated action
type AuthRequiredError struct {
	Decision Decision
	Redirect string
}

func (e *AuthRequiredError) Error() string {
	return fmt.Sprintf("authentication required (%s)", e.Decision)
}

func (e *AuthRequiredError) Unwrap() error {
	return ErrNotAuthenticated
}
