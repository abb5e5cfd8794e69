package service

import (
	"sparkacademy/internal/catalog"
	"sparkacademy/internal/models"
)

// Badge ids
const (
	BadgeCourseCompleter  = "first-course-complete"
	BadgeStarCollector    = "star-collector-100"
	BadgeBeginnerGraduate = "beginner-graduate"
	BadgeAIApprentice     = "completed-what-is-ai"
)

// whatIsAICourseID is the course behind the AI Apprentice badge
const whatIsAICourseID = "c1"

// BadgeContext is the state badge predicates are evaluated against
type BadgeContext struct {
	Catalog    *catalog.Catalog
	Progress   models.Progress
	TotalStars int
}

type badgeRule struct {
	badge     models.Badge
	condition func(BadgeContext) bool
}

// badgeRules is evaluated in order; new badges are reported in this order.
var badgeRules = []badgeRule{
	{
		badge: models.Badge{
			ID:          BadgeCourseCompleter,
			Name:        "Course Completer",
			Description: "Finish all the missions in your very first course!",
			Icon:        "trophy",
		},
		condition: anyCourseComplete,
	},
	{
		badge: models.Badge{
			ID:          BadgeStarCollector,
			Name:        "Star Collector",
			Description: "Earn a total of 100 stars from completing missions.",
			Icon:        "star",
		},
		condition: func(c BadgeContext) bool { return c.TotalStars >= 100 },
	},
	{
		badge: models.Badge{
			ID:          BadgeBeginnerGraduate,
			Name:        "Beginner Graduate",
			Description: `Complete all available "Beginner" level courses.`,
			Icon:        "graduation-cap",
		},
		condition: allBeginnerCoursesComplete,
	},
	{
		badge: models.Badge{
			ID:          BadgeAIApprentice,
			Name:        "AI Apprentice",
			Description: "Completed the 'What is AI?' course and took your first step into a larger world!",
			Icon:        "brain",
		},
		condition: func(c BadgeContext) bool {
			course, ok := c.Catalog.Course(whatIsAICourseID)
			return ok && IsCourseComplete(course, c.Progress)
		},
	},
}

func anyCourseComplete(c BadgeContext) bool {
	for courseID := range c.Progress {
		if course, ok := c.Catalog.Course(courseID); ok && IsCourseComplete(course, c.Progress) {
			return true
		}
	}
	return false
}

func allBeginnerCoursesComplete(c BadgeContext) bool {
	beginner := c.Catalog.ByDifficulty(models.Beginner)
	if len(beginner) == 0 {
		return false
	}
	for _, course := range beginner {
		if !IsCourseComplete(&course, c.Progress) {
			return false
		}
	}
	return true
}

// AllBadges returns every badge in evaluation order
func AllBadges() []models.Badge {
	out := make([]models.Badge, len(badgeRules))
	for i, rule := range badgeRules {
		out[i] = rule.badge
	}
	return out
}

// BadgeByID looks a badge up by id
func BadgeByID(id string) (models.Badge, bool) {
	for _, rule := range badgeRules {
		if rule.badge.ID == id {
			return rule.badge, true
		}
	}
	return models.Badge{}, false
}

// EvaluateBadges returns the ids of badges whose condition holds and that
// are not already earned, in table order. It never reports an earned badge
// and never removes one.
func EvaluateBadges(ctx BadgeContext, earned models.StringSet) []string {
	var newly []string
	for _, rule := range badgeRules {
		if earned.Has(rule.badge.ID) {
			continue
		}
		if rule.condition(ctx) {
			newly = append(newly, rule.badge.ID)
		}
	}
	return newly
}

// EarnedBadges resolves earned ids to badges in table order. Unknown ids
// are skipped.
func EarnedBadges(earned models.StringSet) []models.Badge {
	var out []models.Badge
	for _, rule := range badgeRules {
		if earned.Has(rule.badge.ID) {
			out = append(out, rule.badge)
		}
	}
	return out
}
