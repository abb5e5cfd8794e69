// Package catalog holds the immutable list of courses the academy offers.
package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"sparkacademy/internal/models"
)

//go:embed data/courses.yaml
var defaultCourses []byte

// Catalog is a read-only, ordered set of courses. It is safe for concurrent use.
type Catalog struct {
	courses []models.Course
	byID    map[string]int
	bySlug  map[string]int
	search  *titleIndex
}

type catalogFile struct {
	Courses []models.Course `yaml:"courses"`
}

// Default loads the catalog compiled into the binary
func Default() (*Catalog, error) {
	return Load(bytes.NewReader(defaultCourses))
}

// LoadFile loads a catalog from a YAML file on disk
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// Load decodes a YAML catalog and validates it
func Load(r io.Reader) (*Catalog, error) {
	var file catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	return New(file.Courses)
}

// New builds a catalog from courses, filling missing slugs from titles
func New(courses []models.Course) (*Catalog, error) {
	c := &Catalog{
		courses: make([]models.Course, len(courses)),
		byID:    make(map[string]int, len(courses)),
		bySlug:  make(map[string]int, len(courses)),
	}
	copy(c.courses, courses)

	for i := range c.courses {
		course := &c.courses[i]
		if course.ID == "" {
			return nil, fmt.Errorf("course %d has no id", i)
		}
		if _, dup := c.byID[course.ID]; dup {
			return nil, fmt.Errorf("duplicate course id %q", course.ID)
		}
		if !course.Difficulty.Valid() {
			return nil, fmt.Errorf("course %s: unknown difficulty %q", course.ID, course.Difficulty)
		}
		if course.Slug == "" {
			course.Slug = Slugify(course.Title)
		}
		if _, dup := c.bySlug[course.Slug]; dup {
			return nil, fmt.Errorf("duplicate course slug %q", course.Slug)
		}
		if err := validateLessons(course); err != nil {
			return nil, err
		}
		c.byID[course.ID] = i
		c.bySlug[course.Slug] = i
	}

	c.search = newTitleIndex(c.courses)
	return c, nil
}

func validateLessons(course *models.Course) error {
	seen := make(map[string]bool, len(course.Lessons))
	for _, l := range course.Lessons {
		if l.ID == "" {
			return fmt.Errorf("course %s: lesson without id", course.ID)
		}
		if seen[l.ID] {
			return fmt.Errorf("course %s: duplicate lesson id %q", course.ID, l.ID)
		}
		seen[l.ID] = true
		if l.Stars < 0 {
			return fmt.Errorf("course %s lesson %s: negative stars", course.ID, l.ID)
		}
		if !l.MissionType.Valid() {
			return fmt.Errorf("course %s lesson %s: unknown mission type %q", course.ID, l.ID, l.MissionType)
		}
	}
	return nil
}

// Courses returns the courses in catalog order. Callers must not modify them.
func (c *Catalog) Courses() []models.Course {
	return c.courses
}

// Course looks a course up by id
func (c *Catalog) Course(id string) (*models.Course, bool) {
	i, ok := c.byID[id]
	if !ok {
		return nil, false
	}
	return &c.courses[i], true
}

// CourseBySlug looks a course up by its URL slug
func (c *Catalog) CourseBySlug(slug string) (*models.Course, bool) {
	i, ok := c.bySlug[slug]
	if !ok {
		return nil, false
	}
	return &c.courses[i], true
}

// Lesson finds a lesson that belongs to the given course
func (c *Catalog) Lesson(courseID, lessonID string) (*models.Lesson, bool) {
	course, ok := c.Course(courseID)
	if !ok {
		return nil, false
	}
	return course.Lesson(lessonID)
}

// ByDifficulty returns the courses of one tier in catalog order
func (c *Catalog) ByDifficulty(d models.Difficulty) []models.Course {
	var out []models.Course
	for _, course := range c.courses {
		if course.Difficulty == d {
			out = append(out, course)
		}
	}
	return out
}

var (
	slugStrip = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpace = regexp.MustCompile(`[\s_-]+`)
)

// Slugify turns a course title into its URL slug
func Slugify(title string) string {
	s := strings.ToLower(title)
	s = slugStrip.ReplaceAllString(s, "")
	s = slugSpace.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
