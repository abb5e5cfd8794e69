package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sparkacademy/internal/models"
)

func TestDefaultCatalog(t *testing.T) {
	cat, err := Default()
	require.NoError(t, err)

	courses := cat.Courses()
	require.Len(t, courses, 24)
	assert.Equal(t, "c0", courses[0].ID)

	c1, ok := cat.Course("c1")
	require.True(t, ok)
	assert.Equal(t, "what-is-ai", c1.Slug)
	assert.Equal(t, models.Beginner, c1.Difficulty)
	assert.Len(t, c1.Lessons, 11)
	assert.Equal(t, 110, c1.PossibleStars())

	bySlug, ok := cat.CourseBySlug("what-is-ai")
	require.True(t, ok)
	assert.Equal(t, "c1", bySlug.ID)

	lesson, ok := cat.Lesson("c1", "l1-5")
	require.True(t, ok)
	assert.Equal(t, models.MissionQuiz, lesson.MissionType)
	assert.Equal(t, 1, lesson.Mission.CorrectAnswerIndex)

	_, ok = cat.Lesson("c2", "l1-5")
	assert.False(t, ok, "lesson ids are scoped to their course")
}

func TestDefaultCatalogFillInTheBlanks(t *testing.T) {
	cat, err := Default()
	require.NoError(t, err)

	lesson, ok := cat.Lesson("c2", "l2-6")
	require.True(t, ok)
	require.Equal(t, models.MissionFillInTheBlanks, lesson.MissionType)

	var blanks []models.BlankPart
	for _, p := range lesson.Mission.Parts {
		if p.IsBlank() {
			blanks = append(blanks, p)
		}
	}
	require.Len(t, blanks, 1)
	assert.Equal(t, "b1", blanks[0].Blank)
	assert.Equal(t, "say", blanks[0].Answer)
}

func TestNewValidation(t *testing.T) {
	lesson := models.Lesson{ID: "l1", Title: "One", Stars: 10, MissionType: models.MissionInfo}

	tests := []struct {
		name    string
		courses []models.Course
		wantErr string
	}{
		{
			name: "duplicate course id",
			courses: []models.Course{
				{ID: "c1", Title: "A", Difficulty: models.Beginner},
				{ID: "c1", Title: "B", Difficulty: models.Beginner},
			},
			wantErr: "duplicate course id",
		},
		{
			name:    "unknown difficulty",
			courses: []models.Course{{ID: "c1", Title: "A", Difficulty: "Expert"}},
			wantErr: "unknown difficulty",
		},
		{
			name: "duplicate lesson id",
			courses: []models.Course{
				{ID: "c1", Title: "A", Difficulty: models.Beginner, Lessons: []models.Lesson{lesson, lesson}},
			},
			wantErr: "duplicate lesson id",
		},
		{
			name: "negative stars",
			courses: []models.Course{
				{ID: "c1", Title: "A", Difficulty: models.Beginner, Lessons: []models.Lesson{
					{ID: "l1", Stars: -1, MissionType: models.MissionInfo},
				}},
			},
			wantErr: "negative stars",
		},
		{
			name: "unknown mission type",
			courses: []models.Course{
				{ID: "c1", Title: "A", Difficulty: models.Beginner, Lessons: []models.Lesson{
					{ID: "l1", Stars: 1, MissionType: "crossword"},
				}},
			},
			wantErr: "unknown mission type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.courses)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	_, err := Load(strings.NewReader("courses:\n- id: c1\n  title: A\n  difficulty: Beginner\n  colour: red\n"))
	require.Error(t, err)
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"What is AI?", "what-is-ai"},
		{"Welcome to the Academy!", "welcome-to-the-academy"},
		{"Logic Builders: Code & Control", "logic-builders-code-control"},
		{"  Spaced   Out  ", "spaced-out"},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.title))
		})
	}
}

func TestSearch(t *testing.T) {
	cat, err := New([]models.Course{
		{ID: "a", Title: "Robots", Description: "Build a robot", Difficulty: models.Beginner,
			Lessons: []models.Lesson{{ID: "l1", Title: "Gears", MissionType: models.MissionInfo}}},
		{ID: "b", Title: "Neural Nets", Description: "Brains in code", Difficulty: models.Advanced},
		{ID: "c", Title: "Art", Description: "Painting with AI", Difficulty: models.Beginner},
	})
	require.NoError(t, err)

	ids := func(courses []models.Course) []string {
		var out []string
		for _, c := range courses {
			out = append(out, c.ID)
		}
		return out
	}

	tests := []struct {
		name  string
		query Query
		want  []string
	}{
		{"all", Query{}, []string{"a", "b", "c"}},
		{"difficulty", Query{Filter: "Beginner"}, []string{"a", "c"}},
		{"favorites", Query{Filter: FilterFavorites, Favorites: models.NewStringSet("b")}, []string{"b"}},
		{"title term", Query{Term: "NEURAL"}, []string{"b"}},
		{"description term", Query{Term: "painting"}, []string{"c"}},
		{"lesson title term", Query{Term: "gears"}, []string{"a"}},
		{"filter then term", Query{Filter: "Advanced", Term: "robot"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(cat.Search(tt.query)))
		})
	}
}

func TestDidYouMean(t *testing.T) {
	cat, err := Default()
	require.NoError(t, err)

	titles := make(map[string]bool)
	for _, c := range cat.Courses() {
		titles[c.Title] = true
	}

	got := cat.DidYouMean("neural netwrks", 3)
	require.NotEmpty(t, got)
	assert.LessOrEqual(t, len(got), 3)
	for _, title := range got {
		assert.True(t, titles[title], "unexpected suggestion %q", title)
	}

	assert.Nil(t, cat.DidYouMean("  ", 3))
}
