package service

import (
	"sparkacademy/internal/catalog"
	"sparkacademy/internal/models"
)

// ExpertStarThreshold is the star total at which a learner is an AI Expert
const ExpertStarThreshold = 1000

// TotalStars sums the stars of every completed lesson found in the catalog
// and subtracts the penalty. Progress entries that no longer resolve to a
// catalog lesson are skipped. The result may be negative.
func TotalStars(cat *catalog.Catalog, progress models.Progress, penalty int) int {
	earned := 0
	for courseID, lessons := range progress {
		course, ok := cat.Course(courseID)
		if !ok {
			continue
		}
		for lessonID := range lessons {
			if lesson, ok := course.Lesson(lessonID); ok {
				earned += lesson.Stars
			}
		}
	}
	return earned - penalty
}

// DisplayStars floors a total at zero for presentation. Gating decisions
// use the raw total.
func DisplayStars(total int) int {
	if total < 0 {
		return 0
	}
	return total
}

// CourseStars returns the stars earned in a course and the stars it offers
func CourseStars(course *models.Course, progress models.Progress) (earned, possible int) {
	completed := progress[course.ID]
	for _, lesson := range course.Lessons {
		possible += lesson.Stars
		if completed.Has(lesson.ID) {
			earned += lesson.Stars
		}
	}
	return earned, possible
}

// CourseProgressPercent is earned/possible as a percentage, 0 when the
// course offers no stars
func CourseProgressPercent(course *models.Course, progress models.Progress) float64 {
	earned, possible := CourseStars(course, progress)
	if possible <= 0 {
		return 0
	}
	return float64(earned) / float64(possible) * 100
}

// IsCourseComplete reports whether every lesson of a non-empty course has
// been completed
func IsCourseComplete(course *models.Course, progress models.Progress) bool {
	if len(course.Lessons) == 0 {
		return false
	}
	completed := progress[course.ID]
	for _, lesson := range course.Lessons {
		if !completed.Has(lesson.ID) {
			return false
		}
	}
	return true
}

// IsExpert reports whether a star total reaches the expert threshold
func IsExpert(totalStars int) bool {
	return totalStars >= ExpertStarThreshold
}

// ExpertProgressPercent is the progress toward the expert certificate,
// capped at 100
func ExpertProgressPercent(totalStars int) float64 {
	if totalStars >= ExpertStarThreshold {
		return 100
	}
	if totalStars <= 0 {
		return 0
	}
	return float64(totalStars) / ExpertStarThreshold * 100
}

// CompletedCourseCount counts the catalog courses that are complete
func CompletedCourseCount(cat *catalog.Catalog, progress models.Progress) int {
	count := 0
	for _, course := range cat.Courses() {
		if IsCourseComplete(&course, progress) {
			count++
		}
	}
	return count
}

// PossibleStars is the star total the whole catalog offers
func PossibleStars(cat *catalog.Catalog) int {
	total := 0
	for _, course := range cat.Courses() {
		total += course.PossibleStars()
	}
	return total
}
