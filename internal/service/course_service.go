package service

import (
	"sort"

	"sparkacademy/internal/catalog"
	"sparkacademy/internal/models"
)

// MaxSuggestions caps the "up next" list on a course page
const MaxSuggestions = 3

// CourseSummary is a catalog course annotated with the learner's progress
type CourseSummary struct {
	ID          string            `json:"id"`
	Slug        string            `json:"slug"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Difficulty  models.Difficulty `json:"difficulty"`
	LessonCount int               `json:"lessonCount"`
	Completed   int               `json:"completed"`
	StarsEarned int               `json:"starsEarned"`
	StarsTotal  int               `json:"starsTotal"`
	Percent     float64           `json:"percent"`
	IsComplete  bool              `json:"isComplete"`
	IsFavorite  bool              `json:"isFavorite"`
}

// Dashboard is the filtered course list
type Dashboard struct {
	Courses    []CourseSummary `json:"courses"`
	DidYouMean []string        `json:"didYouMean,omitempty"`
}

// CourseDetail is one course with the learner's state and suggestions
type CourseDetail struct {
	Course      models.Course   `json:"course"`
	Summary     CourseSummary   `json:"summary"`
	Completed   []string        `json:"completedLessons"`
	Suggestions []CourseSummary `json:"suggestions"`
}

// CourseService answers catalog questions for the current session
type CourseService struct {
	catalog *catalog.Catalog
}

func NewCourseService(cat *catalog.Catalog) *CourseService {
	return &CourseService{catalog: cat}
}

// Summarize annotates a course with progress and favorite state
func (s *CourseService) Summarize(course *models.Course, progress models.Progress, favorites models.StringSet) CourseSummary {
	earned, possible := CourseStars(course, progress)
	return CourseSummary{
		ID:          course.ID,
		Slug:        course.Slug,
		Title:       course.Title,
		Description: course.Description,
		Difficulty:  course.Difficulty,
		LessonCount: len(course.Lessons),
		Completed:   progress.Count(course.ID),
		StarsEarned: earned,
		StarsTotal:  possible,
		Percent:     CourseProgressPercent(course, progress),
		IsComplete:  IsCourseComplete(course, progress),
		IsFavorite:  favorites.Has(course.ID),
	}
}

// Dashboard filters the catalog by difficulty or favorites and a search
// term. When the term matches nothing, close course titles are offered.
func (s *CourseService) Dashboard(filter, term string, progress models.Progress, favorites models.StringSet) Dashboard {
	courses := s.catalog.Search(catalog.Query{Filter: filter, Term: term, Favorites: favorites})

	dash := Dashboard{Courses: make([]CourseSummary, 0, len(courses))}
	for i := range courses {
		dash.Courses = append(dash.Courses, s.Summarize(&courses[i], progress, favorites))
	}
	if len(courses) == 0 && term != "" {
		dash.DidYouMean = s.catalog.DidYouMean(term, MaxSuggestions)
	}
	return dash
}

// Suggestions lists up to MaxSuggestions other courses of the same
// difficulty that are not complete, unstarted ones first
func (s *CourseService) Suggestions(current *models.Course, progress models.Progress, favorites models.StringSet) []CourseSummary {
	var candidates []models.Course
	for _, course := range s.catalog.ByDifficulty(current.Difficulty) {
		if course.ID == current.ID || IsCourseComplete(&course, progress) {
			continue
		}
		candidates = append(candidates, course)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return progress.Count(candidates[i].ID) == 0 && progress.Count(candidates[j].ID) > 0
	})

	if len(candidates) > MaxSuggestions {
		candidates = candidates[:MaxSuggestions]
	}
	out := make([]CourseSummary, 0, len(candidates))
	for i := range candidates {
		out = append(out, s.Summarize(&candidates[i], progress, favorites))
	}
	return out
}

// Detail resolves a course by slug. Suggestions are only offered to
// registered learners.
func (s *CourseService) Detail(slug string, progress models.Progress, favorites models.StringSet, registered bool) (*CourseDetail, error) {
	course, ok := s.catalog.CourseBySlug(slug)
	if !ok {
		return nil, ErrCourseNotFound
	}

	detail := &CourseDetail{
		Course:      *course,
		Summary:     s.Summarize(course, progress, favorites),
		Completed:   progress[course.ID].Sorted(),
		Suggestions: []CourseSummary{},
	}
	if registered {
		detail.Suggestions = s.Suggestions(course, progress, favorites)
	}
	return detail, nil
}
