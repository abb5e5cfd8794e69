package catalog

import (
	"strings"

	"github.com/schollz/closestmatch"

	"sparkacademy/internal/models"
)

const (
	FilterAll       = "all"
	FilterFavorites = "favorites"
)

// Query narrows the course list shown on the dashboard
type Query struct {
	// Filter is FilterAll, FilterFavorites or a difficulty name
	Filter    string
	Term      string
	Favorites models.StringSet
}

// Search applies the dashboard filter and then matches the term against
// course titles, descriptions and lesson titles, case-insensitively.
func (c *Catalog) Search(q Query) []models.Course {
	var pool []models.Course
	switch {
	case q.Filter == "" || q.Filter == FilterAll:
		pool = c.courses
	case q.Filter == FilterFavorites:
		for _, course := range c.courses {
			if q.Favorites.Has(course.ID) {
				pool = append(pool, course)
			}
		}
	default:
		pool = c.ByDifficulty(models.Difficulty(q.Filter))
	}

	term := strings.ToLower(strings.TrimSpace(q.Term))
	if term == "" {
		return pool
	}

	var out []models.Course
	for _, course := range pool {
		if matchesTerm(course, term) {
			out = append(out, course)
		}
	}
	return out
}

func matchesTerm(course models.Course, term string) bool {
	if strings.Contains(strings.ToLower(course.Title), term) ||
		strings.Contains(strings.ToLower(course.Description), term) {
		return true
	}
	for _, l := range course.Lessons {
		if strings.Contains(strings.ToLower(l.Title), term) {
			return true
		}
	}
	return false
}

// DidYouMean suggests up to n course titles close to a search term that
// matched nothing.
func (c *Catalog) DidYouMean(term string, n int) []string {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" || n <= 0 || c.search == nil {
		return nil
	}
	return c.search.closest(term, n)
}

type titleIndex struct {
	cm     *closestmatch.ClosestMatch
	titles map[string]string
}

func newTitleIndex(courses []models.Course) *titleIndex {
	keys := make([]string, 0, len(courses))
	titles := make(map[string]string, len(courses))
	for _, course := range courses {
		key := strings.ToLower(course.Title)
		keys = append(keys, key)
		titles[key] = course.Title
	}
	return &titleIndex{
		cm:     closestmatch.New(keys, []int{2, 3}),
		titles: titles,
	}
}

func (t *titleIndex) closest(term string, n int) []string {
	var out []string
	for _, key := range t.cm.ClosestN(term, n) {
		if title, ok := t.titles[key]; ok {
			out = append(out, title)
		}
	}
	return out
}
