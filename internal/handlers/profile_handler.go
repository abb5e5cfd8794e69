package handlers

import (
	"net/http"

	"sparkacademy/internal/models"
	"sparkacademy/internal/service"
)

const profilePath = "/profile"

// UpdateProfile changes the learner's name and/or avatar
func (a *API) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	if !a.requireAuth(w, service.ActionUpdateProfile, a.gatePath(r)) {
		return
	}

	var update service.ProfileUpdate
	if err := decodeJSON(w, r, &update); err != nil {
		respondWithError(w, a.log, http.StatusBadRequest, ErrInvalidRequestBody, "", err)
		return
	}

	user, err := a.ctl.UpdateProfile(r.Context(), update)
	if err != nil {
		handleServiceError(w, a.log, err)
		return
	}
	if user == nil {
		handleServiceError(w, a.log, service.ErrNotAuthenticated)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// MarkGuideSeen hides the onboarding guide
func (a *API) MarkGuideSeen(w http.ResponseWriter, r *http.Request) {
	if !a.requireAuth(w, service.ActionGuideSeen, a.gatePath(r)) {
		return
	}
	if err := a.ctl.MarkGuideSeen(r.Context()); err != nil {
		handleServiceError(w, a.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type badgeView struct {
	models.Badge
	Earned bool `json:"earned"`
}

// Badges lists every badge with the learner's earned flag
func (a *API) Badges(w http.ResponseWriter, r *http.Request) {
	earned := a.ctl.EarnedBadgeIDs()
	all := service.AllBadges()

	views := make([]badgeView, 0, len(all))
	for _, b := range all {
		views = append(views, badgeView{Badge: b, Earned: earned.Has(b.ID)})
	}
	respondJSON(w, http.StatusOK, views)
}

// Avatars lists the selectable avatars
func (a *API) Avatars(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, models.AvatarOptions)
}
