package handlers

import (
	"net/http"

	"sparkacademy/internal/models"
	"sparkacademy/internal/service"
)

// ListCourses returns the dashboard for ?filter= and ?q=
func (a *API) ListCourses(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := query.Get("filter")
	if filter == "" {
		filter = query.Get("difficulty")
	}

	dash := a.courses.Dashboard(filter, query.Get("q"), a.ctl.Progress(), a.ctl.FavoriteCourses())
	respondJSON(w, http.StatusOK, dash)
}

// CourseDetail returns one course with progress and suggestions
func (a *API) CourseDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := a.courses.Detail(r.PathValue("slug"), a.ctl.Progress(), a.ctl.FavoriteCourses(), a.ctl.IsAuthenticated())
	if err != nil {
		handleServiceError(w, a.log, err)
		return
	}
	respondJSON(w, http.StatusOK, detail)
}

type submitResponse struct {
	Correct    bool                      `json:"correct"`
	Completion *service.CompletionResult `json:"completion,omitempty"`
}

// SubmitAnswer checks a mission answer and records the lesson when it is right
func (a *API) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	courseID, lessonID := r.PathValue("courseID"), r.PathValue("lessonID")

	lesson, ok := a.ctl.Catalog().Lesson(courseID, lessonID)
	if !ok {
		handleServiceError(w, a.log, service.ErrLessonNotFound)
		return
	}

	var answer service.Answer
	if err := decodeJSON(w, r, &answer); err != nil {
		respondWithError(w, a.log, http.StatusBadRequest, ErrInvalidRequestBody, "", err)
		return
	}

	correct, err := service.CheckAnswer(lesson, answer)
	if err != nil {
		handleServiceError(w, a.log, err)
		return
	}
	if !correct {
		respondJSON(w, http.StatusOK, submitResponse{Correct: false})
		return
	}

	result, err := a.ctl.CompleteLesson(r.Context(), courseID, lessonID)
	if err != nil {
		a.handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, submitResponse{Correct: true, Completion: result})
}

// CompleteLesson marks a lesson complete without an answer check
func (a *API) CompleteLesson(w http.ResponseWriter, r *http.Request) {
	result, err := a.ctl.CompleteLesson(r.Context(), r.PathValue("courseID"), r.PathValue("lessonID"))
	if err != nil {
		a.handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// ToggleFavorite flips a course in the favorites list
func (a *API) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	favorite, err := a.ctl.ToggleFavoriteCourse(r.Context(), r.PathValue("courseID"))
	if err != nil {
		a.handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"favorite": favorite})
}

type helpRequest struct {
	Type models.HelpType `json:"type"`
}

type helpResponse struct {
	Text         string `json:"text"`
	LessonID     string `json:"lessonId,omitempty"`
	Charged      int    `json:"charged"`
	AlreadyTaken bool   `json:"alreadyTaken,omitempty"`
	TotalStars   int    `json:"totalStars"`
}

const allMissionsDone = "Great job! You've finished every mission in this course."

// Help asks the AI helper about a course. Hints are charged through the
// session and describe the first unfinished mission.
func (a *API) Help(w http.ResponseWriter, r *http.Request) {
	courseID := r.PathValue("courseID")
	course, ok := a.ctl.Catalog().Course(courseID)
	if !ok {
		handleServiceError(w, a.log, service.ErrCourseNotFound)
		return
	}

	var req helpRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, a.log, http.StatusBadRequest, ErrInvalidRequestBody, "", err)
		return
	}
	if req.Type == "" {
		req.Type = models.HelpTip
	}
	if !req.Type.Valid() {
		respondWithError(w, a.log, http.StatusBadRequest, ErrInvalidHelpType, "", nil)
		return
	}

	if req.Type != models.HelpHint {
		text := a.help.GetHelp(r.Context(), service.HelpRequest{Topic: course.Title, Type: req.Type})
		respondJSON(w, http.StatusOK, helpResponse{Text: text, TotalStars: a.ctl.DisplayStars()})
		return
	}

	if !a.sessionAllowed(w, r, service.ActionTakeHint) {
		return
	}
	charge, err := a.ctl.TakeHint(r.Context(), courseID)
	if err != nil {
		a.handleError(w, r, err)
		return
	}
	if charge.Lesson == nil {
		respondJSON(w, http.StatusOK, helpResponse{Text: allMissionsDone, TotalStars: a.ctl.DisplayStars()})
		return
	}

	text := a.help.GetHelp(r.Context(), service.HelpRequest{
		Topic:  service.HintTopic(charge.Lesson),
		Type:   models.HelpHint,
		Lesson: charge.Lesson,
	})
	respondJSON(w, http.StatusOK, helpResponse{
		Text:         text,
		LessonID:     charge.Lesson.ID,
		Charged:      charge.Charged,
		AlreadyTaken: charge.AlreadyTaken,
		TotalStars:   a.ctl.DisplayStars(),
	})
}
